package model

// StaticRoute is an "ip route <destination> <mask> <next-hop>" directive.
type StaticRoute struct {
	Destination string `json:"destination"`
	Mask        string `json:"mask"`
	NextHop     string `json:"next_hop"`
}
