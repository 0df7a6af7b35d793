package model

// BGPNeighbor represents one configured BGP peer.
type BGPNeighbor struct {
	PeerAddress string `json:"peer_address"`
	RemoteAS    int    `json:"remote_as"`
}

// BGPSubrecord represents a device's BGP configuration block.
type BGPSubrecord struct {
	Enabled             bool          `json:"enabled"`
	LocalAS             int           `json:"local_as"`
	RouterID            string        `json:"router_id,omitempty"`
	Neighbors           []BGPNeighbor `json:"neighbors,omitempty"`
	AdvertisedNetworks  []string      `json:"advertised_networks,omitempty"`
}

// NewBGPSubrecord returns a disabled BGP block; configparse.Parse enables
// it on a "router bgp" line.
func NewBGPSubrecord() *BGPSubrecord {
	return &BGPSubrecord{}
}

// AddNeighbor appends a neighbor, replacing any existing entry for the same
// peer address (last directive wins, matching the parser's linear scan).
func (b *BGPSubrecord) AddNeighbor(peerAddress string, remoteAS int) {
	for i, n := range b.Neighbors {
		if n.PeerAddress == peerAddress {
			b.Neighbors[i].RemoteAS = remoteAS
			return
		}
	}
	b.Neighbors = append(b.Neighbors, BGPNeighbor{PeerAddress: peerAddress, RemoteAS: remoteAS})
}

// NeighborByAddress returns the neighbor configured at peerAddress, if any.
func (b *BGPSubrecord) NeighborByAddress(peerAddress string) (BGPNeighbor, bool) {
	for _, n := range b.Neighbors {
		if n.PeerAddress == peerAddress {
			return n, true
		}
	}
	return BGPNeighbor{}, false
}

// IsIBGP reports whether a neighbor with the given remote AS is in the same
// AS as this device (iBGP).
func (b *BGPSubrecord) IsIBGP(remoteAS int) bool {
	return remoteAS == b.LocalAS
}

// IsEBGP reports whether a neighbor with the given remote AS is in a
// different AS (eBGP).
func (b *BGPSubrecord) IsEBGP(remoteAS int) bool {
	return remoteAS != b.LocalAS
}
