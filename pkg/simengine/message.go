// Package simengine runs the concurrent network simulation: one agent
// goroutine per device, a delivery fabric that moves messages across
// the live topology, fault injection, and a loopback control plane.
package simengine

import "github.com/google/uuid"

// Kind classifies a Message's handler dispatch.
type Kind string

const (
	KindARP         Kind = "ARP"
	KindOSPF        Kind = "OSPF"
	KindBGP         Kind = "BGP"
	KindData        Kind = "DATA"
	KindLinkFailure Kind = "LINK_FAILURE"
)

// Message is the unit of inter-agent communication, carried on bounded
// inbound/outbound channels and across the delivery fabric.
type Message struct {
	ID         string
	SourceMAC  string
	DestMAC    string
	SourceIP   string
	DestIP     string
	Kind       Kind
	Payload    map[string]interface{}
	TimestampS float64
	TTL        int
}

// NewMessage stamps a message with a fresh correlation id and the
// default TTL. Neither routing nor the agent's recent-packet buffer
// consults ID; it only labels the message for correlation.
func NewMessage(kind Kind) *Message {
	return &Message{
		ID:   uuid.NewString(),
		Kind: kind,
		TTL:  64,
	}
}
