package model

// VLAN represents one VLAN table entry parsed from a device configuration.
type VLAN struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"` // active, suspend
}

// NewVLAN creates a VLAN entry with the default active state.
func NewVLAN(id int, name string) *VLAN {
	return &VLAN{ID: id, Name: name, State: "active"}
}

// IsActive reports whether the VLAN is in the active state.
func (v *VLAN) IsActive() bool {
	return v.State == "active"
}
