package configparse

import (
	"errors"
	"testing"

	"github.com/netsim-forge/netsim/pkg/model"
)

func TestParse_RouterInterfaceAndOSPF(t *testing.T) {
	cfg := `
version 15.2
hostname R1
!
interface GigabitEthernet0/0
 description to R2
 ip address 10.0.0.1 255.255.255.252
 bandwidth 1000000
!
router ospf 1
 router-id 1.1.1.1
 network 10.0.0.0 0.0.0.3 area 0
 passive-interface Loopback0
!
ip route 0.0.0.0 0.0.0.0 10.0.0.254
`
	dev := Parse("r1", cfg)

	if dev.Hostname != "R1" {
		t.Errorf("Hostname = %q, want R1", dev.Hostname)
	}
	if !dev.IsRouter() {
		t.Errorf("Kind = %v, want router", dev.Kind)
	}
	iface, ok := dev.InterfaceByName("GigabitEthernet0/0")
	if !ok {
		t.Fatal("expected interface GigabitEthernet0/0")
	}
	if iface.Address != "10.0.0.1" || iface.SubnetMask != "255.255.255.252" {
		t.Errorf("address = %s/%s", iface.Address, iface.SubnetMask)
	}
	if iface.Description != "to R2" {
		t.Errorf("Description = %q", iface.Description)
	}
	if iface.BandwidthKbps != 1000000 {
		t.Errorf("BandwidthKbps = %d, want 1000000", iface.BandwidthKbps)
	}
	if !dev.OSPF.Enabled {
		t.Error("OSPF should be enabled")
	}
	if dev.OSPF.RouterID != "1.1.1.1" {
		t.Errorf("OSPF RouterID = %q", dev.OSPF.RouterID)
	}
	if len(dev.OSPF.Networks) != 1 || dev.OSPF.Networks[0].Area != "0" {
		t.Errorf("OSPF networks = %+v", dev.OSPF.Networks)
	}
	if dev.DefaultGateway != "10.0.0.254" {
		t.Errorf("DefaultGateway = %q", dev.DefaultGateway)
	}
}

func TestParse_HostHasNoProtocols(t *testing.T) {
	cfg := `
hostname PC1
interface FastEthernet0/0
 ip address 192.168.1.10 255.255.255.0
`
	dev := Parse("pc1", cfg)
	if !dev.IsHost() {
		t.Errorf("Kind = %v, want host", dev.Kind)
	}
}

func TestParse_SwitchportMakesSwitch(t *testing.T) {
	cfg := `
hostname SW1
interface FastEthernet0/1
 switchport mode access
 switchport access vlan 10
vlan 10
`
	dev := Parse("sw1", cfg)
	if !dev.IsSwitch() {
		t.Errorf("Kind = %v, want switch", dev.Kind)
	}
	iface, _ := dev.InterfaceByName("FastEthernet0/1")
	if iface.AccessVLAN != 10 {
		t.Errorf("AccessVLAN = %d, want 10", iface.AccessVLAN)
	}
	if _, ok := dev.VLANByID(10); !ok {
		t.Error("expected VLAN 10 in VLAN table")
	}
}

func TestParse_ShutdownTogglesAdminStatus(t *testing.T) {
	cfg := `
hostname R1
interface Serial0/0
 shutdown
interface Serial0/1
 shutdown
 no shutdown
`
	dev := Parse("r1", cfg)
	s0, _ := dev.InterfaceByName("Serial0/0")
	if s0.IsUp() {
		t.Error("Serial0/0 should be down")
	}
	s1, _ := dev.InterfaceByName("Serial0/1")
	if !s1.IsUp() {
		t.Error("Serial0/1 should be up after no shutdown")
	}
}

func TestParse_MalformedNumericIgnored(t *testing.T) {
	cfg := `
hostname R1
interface GigabitEthernet0/0
 bandwidth not-a-number
 mtu also-not-a-number
`
	dev := Parse("r1", cfg)
	iface, _ := dev.InterfaceByName("GigabitEthernet0/0")
	if iface.BandwidthKbps != 1000000 {
		t.Errorf("BandwidthKbps should keep family default, got %d", iface.BandwidthKbps)
	}
	if iface.MTU != 1500 {
		t.Errorf("MTU should keep default 1500, got %d", iface.MTU)
	}
}

func TestParse_InvalidIPv4LeavesAddressEmpty(t *testing.T) {
	cfg := `
hostname R1
interface GigabitEthernet0/0
 ip address 999.999.999.999 255.255.255.0
`
	dev := Parse("r1", cfg)
	iface, _ := dev.InterfaceByName("GigabitEthernet0/0")
	if iface.HasAddress() {
		t.Error("invalid IPv4 literal should not populate address")
	}
}

func TestParse_BGPNeighbors(t *testing.T) {
	cfg := `
hostname R1
router bgp 65001
 bgp router-id 1.1.1.1
 neighbor 10.0.0.2 remote-as 65002
 network 10.0.0.0
`
	dev := Parse("r1", cfg)
	if !dev.BGP.Enabled || dev.BGP.LocalAS != 65001 {
		t.Errorf("BGP = %+v", dev.BGP)
	}
	n, ok := dev.BGP.NeighborByAddress("10.0.0.2")
	if !ok || n.RemoteAS != 65002 {
		t.Errorf("neighbor = %+v, ok=%v", n, ok)
	}
	if !dev.IsRouter() {
		t.Errorf("Kind = %v, want router", dev.Kind)
	}
}

func TestParse_SpanningTreeDirectives(t *testing.T) {
	cfg := `
hostname SW1
spanning-tree mode rapid-pvst
spanning-tree vlan 10 priority 4096
interface FastEthernet0/1
 switchport mode trunk
 switchport trunk allowed vlan 10,20,30
 switchport trunk native vlan 1
`
	dev := Parse("sw1", cfg)
	if dev.SpanningTreeMode != "rapid-pvst" {
		t.Errorf("SpanningTreeMode = %q", dev.SpanningTreeMode)
	}
	if dev.SpanningTreePriority[10] != 4096 {
		t.Errorf("SpanningTreePriority[10] = %d, want 4096", dev.SpanningTreePriority[10])
	}
	iface, _ := dev.InterfaceByName("FastEthernet0/1")
	if len(iface.TrunkVLANs) != 3 {
		t.Errorf("TrunkVLANs = %v", iface.TrunkVLANs)
	}
	if iface.NativeVLAN != 1 {
		t.Errorf("NativeVLAN = %d, want 1", iface.NativeVLAN)
	}
}

func TestParse_IgnoresBlankAndCommentLines(t *testing.T) {
	cfg := "hostname R1\n\n! this is a comment\n   \ninterface Loopback0\n ip address 1.1.1.1 255.255.255.255\n"
	dev := Parse("r1", cfg)
	if _, ok := dev.InterfaceByName("Loopback0"); !ok {
		t.Fatal("expected Loopback0 to be parsed despite blank/comment lines")
	}
}

func TestParse_ExpandsAbbreviatedInterfaceNames(t *testing.T) {
	cfg := `
hostname R1
interface Gi0/0
 ip address 10.0.0.1 255.255.255.252
interface Fa0/1
 ip address 10.0.1.1 255.255.255.0
interface Se0/0/0
 ip address 10.0.2.1 255.255.255.252
interface Lo0
 ip address 1.1.1.1 255.255.255.255
interface Vl10
 ip address 10.0.10.1 255.255.255.0
interface Tu0
 ip address 10.0.20.1 255.255.255.252
interface Po1
 ip address 10.0.30.1 255.255.255.252
`
	dev := Parse("r1", cfg)

	for _, want := range []string{
		"GigabitEthernet0/0",
		"FastEthernet0/1",
		"Serial0/0/0",
		"Loopback0",
		"VLAN10",
		"Tunnel0",
		"Port-Channel1",
	} {
		if _, ok := dev.InterfaceByName(want); !ok {
			t.Errorf("expected an interface named %q after abbreviation expansion", want)
		}
	}
}

func TestParse_ErrorDeviceHasNoInterfaces(t *testing.T) {
	// File-IO failures never reach Parse; pkg/ingest builds this
	// synthetic record directly via model.NewErrorDevice instead.
	dev := model.NewErrorDevice("broken", errors.New("permission denied"))
	if dev.ParseError == "" {
		t.Error("expected a ParseError set")
	}
	if len(dev.Interfaces) != 0 {
		t.Error("error device should have no interfaces")
	}
}
