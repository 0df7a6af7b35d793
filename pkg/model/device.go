package model

// DeviceKind tags a Device as one of the three roles the parser derives
// from its configuration content. It is a closed variant rather than a
// free-form string so that callers exhaustively handle every kind.
type DeviceKind int

const (
	// DeviceKindUnknown marks a device whose kind could not be derived,
	// including the synthetic record created for an unreadable file.
	DeviceKindUnknown DeviceKind = iota
	DeviceKindRouter
	DeviceKindSwitch
	DeviceKindHost
)

// String renders the kind the way reports and logs present it.
func (k DeviceKind) String() string {
	switch k {
	case DeviceKindRouter:
		return "router"
	case DeviceKindSwitch:
		return "switch"
	case DeviceKindHost:
		return "host"
	default:
		return "unknown"
	}
}

// Device is one parsed configuration record: a router, switch, or host,
// keyed by a stable id derived from its source filename.
type Device struct {
	ID       string `json:"id"` // filename stem, stable across a run
	Hostname string `json:"hostname"`
	Kind     DeviceKind `json:"-"`
	KindName string     `json:"device_type"` // Kind.String(), mirrored for JSON output

	Interfaces   []*Interface `json:"interfaces,omitempty"`
	VLANs        []*VLAN      `json:"vlans,omitempty"`
	OSPF         *OSPFSubrecord `json:"ospf,omitempty"`
	BGP          *BGPSubrecord  `json:"bgp,omitempty"`
	StaticRoutes []StaticRoute  `json:"static_routes,omitempty"`

	DefaultGateway string `json:"default_gateway,omitempty"`

	SpanningTreeMode     string        `json:"spanning_tree_mode,omitempty"`
	SpanningTreePriority map[int]int   `json:"spanning_tree_priority,omitempty"` // vlan -> priority

	// ParseError is set on the synthetic record created when a
	// configuration file could not be read; the record otherwise carries
	// no interfaces or protocol state.
	ParseError string `json:"parse_error,omitempty"`
}

// NewDevice returns a bare device record of the given kind, with its OSPF
// and BGP subrecords initialized (but disabled) and ready to be populated
// by the parser.
func NewDevice(id string, kind DeviceKind) *Device {
	return &Device{
		ID:                   id,
		Hostname:             id,
		Kind:                 kind,
		KindName:             kind.String(),
		OSPF:                 NewOSPFSubrecord(),
		BGP:                  NewBGPSubrecord(),
		SpanningTreePriority: make(map[int]int),
	}
}

// NewErrorDevice returns the synthetic record produced when a
// configuration file exists but cannot be read.
func NewErrorDevice(id string, err error) *Device {
	d := NewDevice("error_"+id, DeviceKindUnknown)
	d.ParseError = err.Error()
	return d
}

// IsRouter, IsSwitch, and IsHost report the device's derived kind.
func (d *Device) IsRouter() bool { return d.Kind == DeviceKindRouter }
func (d *Device) IsSwitch() bool { return d.Kind == DeviceKindSwitch }
func (d *Device) IsHost() bool   { return d.Kind == DeviceKindHost }

// AddInterface appends an interface, replacing any existing interface of
// the same canonical name (last directive wins within a single file, but
// across files this should never collide).
func (d *Device) AddInterface(iface *Interface) {
	for i, existing := range d.Interfaces {
		if existing.Name == iface.Name {
			d.Interfaces[i] = iface
			return
		}
	}
	d.Interfaces = append(d.Interfaces, iface)
}

// InterfaceByName returns the interface with the given canonical name.
func (d *Device) InterfaceByName(name string) (*Interface, bool) {
	for _, iface := range d.Interfaces {
		if iface.Name == name {
			return iface, true
		}
	}
	return nil, false
}

// VLANByID returns the VLAN table entry with the given id.
func (d *Device) VLANByID(id int) (*VLAN, bool) {
	for _, v := range d.VLANs {
		if v.ID == id {
			return v, true
		}
	}
	return nil, false
}

// AddVLAN appends a VLAN, replacing any existing entry for the same id.
func (d *Device) AddVLAN(v *VLAN) {
	for i, existing := range d.VLANs {
		if existing.ID == v.ID {
			d.VLANs[i] = v
			return
		}
	}
	d.VLANs = append(d.VLANs, v)
}

// HasSpanningTree reports whether a spanning-tree mode was configured.
func (d *Device) HasSpanningTree() bool {
	return d.SpanningTreeMode != ""
}
