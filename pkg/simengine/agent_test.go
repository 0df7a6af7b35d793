package simengine

import (
	"testing"

	"github.com/netsim-forge/netsim/pkg/model"
)

func TestNewAgent_DerivesIPsFromInterfaces(t *testing.T) {
	dev := model.NewDevice("r1", model.DeviceKindRouter)
	iface := model.NewInterface("GigabitEthernet0/0")
	iface.Address, iface.SubnetMask = "10.0.0.1", "255.255.255.0"
	dev.AddInterface(iface)

	agent := NewAgent(dev)
	if len(agent.IPs) != 1 || agent.IPs[0] != "10.0.0.1" {
		t.Errorf("IPs = %v, want [10.0.0.1]", agent.IPs)
	}
	if agent.MAC == "" {
		t.Error("expected a generated MAC address")
	}
}

func TestHandleARP_RepliesWhenTargetIsLocal(t *testing.T) {
	dev := model.NewDevice("r1", model.DeviceKindRouter)
	iface := model.NewInterface("GigabitEthernet0/0")
	iface.Address, iface.SubnetMask = "10.0.0.1", "255.255.255.0"
	dev.AddInterface(iface)
	agent := NewAgent(dev)

	req := NewMessage(KindARP)
	req.SourceMAC, req.SourceIP = "aa:bb:cc:dd:ee:ff", "10.0.0.2"
	req.Payload = map[string]interface{}{"request": true, "target_ip": "10.0.0.1"}

	agent.handleARP(req)

	select {
	case reply := <-agent.Outbound:
		if reply.Kind != KindARP || reply.DestIP != "10.0.0.2" {
			t.Errorf("unexpected reply: %+v", reply)
		}
	default:
		t.Fatal("expected an ARP reply on the outbound queue")
	}

	if entry, ok := agent.arpTable["10.0.0.2"]; !ok || entry.MAC != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("arp table not updated: %+v", agent.arpTable)
	}
}

func TestLookupRoute_SevenCharPrefixMatch(t *testing.T) {
	dev := model.NewDevice("r1", model.DeviceKindRouter)
	dev.StaticRoutes = append(dev.StaticRoutes, model.StaticRoute{
		Destination: "10.1.0.0", Mask: "255.255.0.0", NextHop: "10.0.0.254",
	})
	agent := NewAgent(dev)

	if hop := agent.lookupRoute("10.1.0.5"); hop != "10.0.0.254" {
		t.Errorf("lookupRoute = %q, want 10.0.0.254", hop)
	}
	if hop := agent.lookupRoute("192.168.1.1"); hop != "" {
		t.Errorf("lookupRoute for unrelated IP = %q, want empty", hop)
	}
}

func TestForward_DropsOnExpiredTTL(t *testing.T) {
	dev := model.NewDevice("r1", model.DeviceKindRouter)
	dev.StaticRoutes = append(dev.StaticRoutes, model.StaticRoute{
		Destination: "10.1.0.0", Mask: "255.255.0.0", NextHop: "10.0.0.254",
	})
	agent := NewAgent(dev)

	msg := NewMessage(KindData)
	msg.DestIP = "10.1.0.5"
	msg.TTL = 1
	agent.forward(msg)

	if agent.stats.PacketsDropped != 1 {
		t.Errorf("PacketsDropped = %d, want 1", agent.stats.PacketsDropped)
	}
	select {
	case <-agent.Outbound:
		t.Error("expected no forwarded message after TTL expiry")
	default:
	}
}

func TestGetStatistics_ReturnsSnapshotNotReference(t *testing.T) {
	dev := model.NewDevice("pc1", model.DeviceKindHost)
	agent := NewAgent(dev)
	agent.stats.PacketsSent = 5

	snap := agent.GetStatistics()
	stats := snap["statistics"].(Statistics)
	if stats.PacketsSent != 5 {
		t.Fatalf("snapshot PacketsSent = %d, want 5", stats.PacketsSent)
	}

	agent.stats.PacketsSent = 99
	if stats.PacketsSent != 5 {
		t.Error("snapshot must not reflect later mutation of agent state")
	}
}
