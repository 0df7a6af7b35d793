// Package report renders the topology graph and the Day-2 test
// document into the JSON shapes external renderers and dashboards
// consume.
package report

import (
	"encoding/json"
	"io"

	"github.com/netsim-forge/netsim/pkg/model"
	"github.com/netsim-forge/netsim/pkg/topology"
)

// TopologyDocument is the renderer-facing export of a topology graph.
type TopologyDocument struct {
	Nodes []NodeDocument `json:"nodes"`
	Edges []EdgeDocument `json:"edges"`
}

// NodeDocument is one device's renderer-facing record.
type NodeDocument struct {
	ID               string                    `json:"id"`
	Hostname         string                    `json:"hostname"`
	Kind             string                    `json:"kind"`
	BandwidthSummary topology.BandwidthSummary `json:"bandwidth_summary"`
	Label            string                    `json:"label"`
	Icon             string                    `json:"icon"`
}

// EdgeDocument is one link's renderer-facing record.
type EdgeDocument struct {
	U                  string            `json:"u"`
	V                  string            `json:"v"`
	LinkType           topology.LinkType `json:"link_type"`
	Subnet             string            `json:"subnet,omitempty"`
	BandwidthKbps      int               `json:"bandwidth_kbps"`
	BandwidthMbps      float64           `json:"bandwidth_mbps"`
	Cost               int               `json:"cost,omitempty"`
	UtilizationPercent float64           `json:"utilization_percent"`
	UtilizationStatus  string            `json:"utilization_status"`
	Priority           string            `json:"priority"`
	AlternativePaths   int               `json:"alternative_paths"`
	IsCritical         bool              `json:"is_critical"`
}

// iconForKind mirrors topology_builder.py's icon_map, collapsed to the
// three device kinds this model distinguishes.
func iconForKind(kind model.DeviceKind) string {
	switch kind {
	case model.DeviceKindRouter:
		return "wifi-router.png"
	case model.DeviceKindSwitch:
		return "hub.png"
	case model.DeviceKindHost:
		return "monitor.png"
	default:
		return "question.png"
	}
}

// BuildTopologyDocument flattens a live graph into its JSON export shape.
func BuildTopologyDocument(graph *topology.Graph) *TopologyDocument {
	doc := &TopologyDocument{}
	for _, id := range graph.Nodes() {
		node, _ := graph.Node(id)
		hostname := id
		kind := model.DeviceKindUnknown
		var bw topology.BandwidthSummary
		if node != nil {
			if node.Hostname != "" {
				hostname = node.Hostname
			}
			kind = node.Kind
			bw = node.Bandwidth
		}
		doc.Nodes = append(doc.Nodes, NodeDocument{
			ID:               id,
			Hostname:         hostname,
			Kind:             kind.String(),
			BandwidthSummary: bw,
			Label:            hostname,
			Icon:             iconForKind(kind),
		})
	}

	for _, e := range graph.Edges() {
		if e.Attr == nil {
			continue
		}
		doc.Edges = append(doc.Edges, EdgeDocument{
			U:                  e.A,
			V:                  e.B,
			LinkType:           e.Attr.LinkType,
			Subnet:             e.Attr.Subnet,
			BandwidthKbps:      e.Attr.BandwidthKbps,
			BandwidthMbps:      float64(e.Attr.BandwidthKbps) / 1000,
			Cost:               e.Attr.Cost,
			UtilizationPercent: e.Attr.UtilizationPercent,
			UtilizationStatus:  e.Attr.UtilizationStatus,
			Priority:           e.Attr.Priority,
			AlternativePaths:   e.Attr.AlternativePaths,
			IsCritical:         e.Attr.IsCritical,
		})
	}
	return doc
}

// WriteTopologyJSON marshals the document as indented JSON to w.
func WriteTopologyJSON(w io.Writer, doc *TopologyDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
