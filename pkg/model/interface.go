// Package model defines the domain types produced by the configuration
// parser and consumed by the topology builder, validator, traffic analyzer,
// and simulation engine.
package model

// Interface represents one normalized interface parsed from a device
// configuration file.
type Interface struct {
	Name        string `json:"name"` // canonical form, e.g. "GigabitEthernet0/0"
	Description string `json:"description"`

	Address    string `json:"address,omitempty"`     // dotted-quad, empty if unset or "dhcp"
	SubnetMask string `json:"subnet_mask,omitempty"` // dotted-quad

	BandwidthKbps int    `json:"bandwidth_kbps"`
	MTU           int    `json:"mtu"`
	Duplex        string `json:"duplex"`
	Speed         string `json:"speed"`
	AdminStatus   string `json:"admin_status"` // up, down

	SwitchportMode string `json:"switchport_mode,omitempty"` // access, trunk, ""
	AccessVLAN     int    `json:"access_vlan,omitempty"`
	TrunkVLANs     []int  `json:"trunk_vlans,omitempty"`
	NativeVLAN     int    `json:"native_vlan,omitempty"`

	SpanningTreeCost int `json:"spanning_tree_cost,omitempty"`
}

// NewInterface builds an interface record with the family-derived defaults:
// bandwidth by interface family, MTU 1500, admin status up.
func NewInterface(name string) *Interface {
	return &Interface{
		Name:          name,
		BandwidthKbps: DefaultBandwidthKbps(name),
		MTU:           1500,
		Duplex:        "auto",
		Speed:         "auto",
		AdminStatus:   "up",
	}
}

// IsUp reports whether the interface is administratively up.
func (i *Interface) IsUp() bool {
	return i.AdminStatus == "up"
}

// HasAddress reports whether the interface carries a usable IPv4 address.
func (i *Interface) HasAddress() bool {
	return i.Address != "" && i.Address != "dhcp" && i.SubnetMask != ""
}

// IsAccess reports whether the interface is a switchport in access mode.
func (i *Interface) IsAccess() bool {
	return i.SwitchportMode == "access"
}

// IsTrunk reports whether the interface is a switchport in trunk mode.
func (i *Interface) IsTrunk() bool {
	return i.SwitchportMode == "trunk"
}

// CarriesVLAN reports whether vlanID rides this trunk, tagged or native.
func (i *Interface) CarriesVLAN(vlanID int) bool {
	if !i.IsTrunk() {
		return false
	}
	if i.NativeVLAN == vlanID {
		return true
	}
	for _, v := range i.TrunkVLANs {
		if v == vlanID {
			return true
		}
	}
	return false
}

// DefaultBandwidthKbps returns the family-based bandwidth default named in
// the data model: GigabitEthernet 1,000,000 kbps, FastEthernet 100,000 kbps,
// Serial 1,544 kbps (T1), Loopback 8,000,000 kbps, 10,000 kbps otherwise.
func DefaultBandwidthKbps(canonicalName string) int {
	switch {
	case hasFamilyPrefix(canonicalName, "GigabitEthernet"):
		return 1000000
	case hasFamilyPrefix(canonicalName, "FastEthernet"):
		return 100000
	case hasFamilyPrefix(canonicalName, "Serial"):
		return 1544
	case hasFamilyPrefix(canonicalName, "Loopback"):
		return 8000000
	default:
		return 10000
	}
}

func hasFamilyPrefix(name, family string) bool {
	if len(name) < len(family) {
		return false
	}
	return name[:len(family)] == family
}
