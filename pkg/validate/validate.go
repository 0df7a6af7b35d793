// Package validate derives defect and recommendation lists from a
// parsed device corpus and its topology graph. Every check is a pure
// function of (corpus, graph); the validator holds no hidden state.
package validate

import (
	"fmt"
	"net"
	"sort"

	"github.com/katalvlaran/lvlath/dfs"

	"github.com/netsim-forge/netsim/pkg/ingest"
	"github.com/netsim-forge/netsim/pkg/topology"
)

const maxReportedCycles = 5

// Category keys returned by Validate.
const (
	CategoryMissingComponents  = "missing_components"
	CategoryDuplicateIPs       = "duplicate_ips"
	CategoryVLANIssues         = "vlan_issues"
	CategoryGatewayIssues      = "gateway_issues"
	CategoryRoutingRecs        = "routing_recommendations"
	CategoryMTUMismatches      = "mtu_mismatches"
	CategoryNetworkLoops       = "network_loops"
	CategoryAggregationOpps    = "aggregation_opportunities"
	CategorySpanningTreeIssues = "spanning_tree"
)

// Validate runs every defect/recommendation check against corpus and
// graph and returns a map of category name to human-readable findings.
func Validate(corpus *ingest.Corpus, graph *topology.Graph) map[string][]string {
	return map[string][]string{
		CategoryMissingComponents:  checkMissingComponents(corpus, graph),
		CategoryDuplicateIPs:       checkDuplicateIPs(corpus),
		CategoryVLANIssues:         checkVLANConsistency(corpus),
		CategoryGatewayIssues:      checkGatewayAddresses(corpus),
		CategoryRoutingRecs:        checkRoutingRecommendations(corpus),
		CategoryMTUMismatches:      checkMTUMismatches(corpus, graph),
		CategoryNetworkLoops:       checkNetworkLoops(graph),
		CategoryAggregationOpps:    checkAggregationOpportunities(corpus, graph),
		CategorySpanningTreeIssues: checkSpanningTreeRoot(corpus),
	}
}

func sortedDeviceIDs(corpus *ingest.Corpus) []string {
	ids := make([]string, 0, len(corpus.Devices))
	for id := range corpus.Devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func checkMissingComponents(corpus *ingest.Corpus, graph *topology.Graph) []string {
	var issues []string
	var switches []string
	for _, id := range sortedDeviceIDs(corpus) {
		if corpus.Devices[id].IsSwitch() {
			switches = append(switches, id)
		}
	}
	for _, id := range sortedDeviceIDs(corpus) {
		dev := corpus.Devices[id]
		if !dev.IsHost() {
			continue
		}
		connected := false
		for _, sw := range switches {
			if graph.HasEdge(id, sw) {
				connected = true
				break
			}
		}
		if !connected {
			issues = append(issues, fmt.Sprintf("host %s appears to be missing associated switch configuration", id))
		}
	}
	return issues
}

func checkDuplicateIPs(corpus *ingest.Corpus) []string {
	var issues []string
	seen := make(map[string]string)
	for _, id := range sortedDeviceIDs(corpus) {
		dev := corpus.Devices[id]
		for _, iface := range dev.Interfaces {
			if !iface.HasAddress() {
				continue
			}
			scope := "default"
			if iface.AccessVLAN != 0 {
				scope = fmt.Sprintf("%d", iface.AccessVLAN)
			}
			key := iface.Address + "_" + scope
			if owner, ok := seen[key]; ok {
				issues = append(issues, fmt.Sprintf("duplicate IP %s in VLAN %s: devices %s and %s", iface.Address, scope, owner, id))
			} else {
				seen[key] = id
			}
		}
	}
	return issues
}

func checkVLANConsistency(corpus *ingest.Corpus) []string {
	var issues []string
	vlanNames := make(map[int]string)
	for _, id := range sortedDeviceIDs(corpus) {
		dev := corpus.Devices[id]
		for _, v := range dev.VLANs {
			if name, ok := vlanNames[v.ID]; ok {
				if name != v.Name {
					issues = append(issues, fmt.Sprintf("VLAN %d has inconsistent names: %q vs %q", v.ID, name, v.Name))
				}
			} else {
				vlanNames[v.ID] = v.Name
			}
		}
	}
	for _, id := range sortedDeviceIDs(corpus) {
		dev := corpus.Devices[id]
		for _, iface := range dev.Interfaces {
			if iface.AccessVLAN == 0 {
				continue
			}
			if _, ok := vlanNames[iface.AccessVLAN]; !ok {
				issues = append(issues, fmt.Sprintf("interface %s on %s references undefined VLAN %d", iface.Name, id, iface.AccessVLAN))
			}
		}
	}
	return issues
}

func checkGatewayAddresses(corpus *ingest.Corpus) []string {
	var issues []string
	for _, id := range sortedDeviceIDs(corpus) {
		dev := corpus.Devices[id]
		if !dev.IsRouter() || dev.DefaultGateway == "" {
			continue
		}
		gatewayIP := net.ParseIP(dev.DefaultGateway).To4()
		if gatewayIP == nil {
			issues = append(issues, fmt.Sprintf("router %s has invalid gateway address format: %s", id, dev.DefaultGateway))
			continue
		}
		reachable := false
		for _, iface := range dev.Interfaces {
			if !iface.HasAddress() {
				continue
			}
			ip := net.ParseIP(iface.Address).To4()
			mask := net.ParseIP(iface.SubnetMask).To4()
			if ip == nil || mask == nil {
				continue
			}
			ipNet := &net.IPNet{IP: ip.Mask(net.IPMask(mask)), Mask: net.IPMask(mask)}
			if ipNet.Contains(gatewayIP) {
				reachable = true
				break
			}
		}
		if !reachable {
			issues = append(issues, fmt.Sprintf("router %s has unreachable gateway %s", id, dev.DefaultGateway))
		}
	}
	return issues
}

func checkRoutingRecommendations(corpus *ingest.Corpus) []string {
	var recs []string
	asNumbers := make(map[int]bool)
	totalRouters := 0
	ospfInUse := false
	for _, dev := range corpus.Devices {
		if !dev.IsRouter() {
			continue
		}
		totalRouters++
		if dev.BGP.Enabled {
			asNumbers[dev.BGP.LocalAS] = true
		}
		if dev.OSPF.Enabled {
			ospfInUse = true
		}
	}
	if len(asNumbers) > 1 && ospfInUse {
		recs = append(recs, "consider using BGP instead of OSPF for inter-AS routing between different autonomous systems")
	}
	if totalRouters > 50 {
		recs = append(recs, "large network detected - consider BGP for better scalability")
	}
	return recs
}

// checkMTUMismatches intentionally compares every interface pair across
// connected devices rather than only the pair forming the edge — this
// overcounts, matching the open question in spec.md §9 that preserves
// the original's imprecise rule rather than correcting it.
func checkMTUMismatches(corpus *ingest.Corpus, graph *topology.Graph) []string {
	var issues []string
	for _, e := range graph.Edges() {
		u, ok1 := corpus.DeviceByID(e.A)
		v, ok2 := corpus.DeviceByID(e.B)
		if !ok1 || !ok2 {
			continue
		}
		for _, ui := range u.Interfaces {
			for _, vi := range v.Interfaces {
				if ui.MTU != vi.MTU {
					issues = append(issues, fmt.Sprintf("MTU mismatch between %s:%s (MTU %d) and %s:%s (MTU %d)",
						e.A, ui.Name, ui.MTU, e.B, vi.Name, vi.MTU))
				}
			}
		}
	}
	return issues
}

func checkNetworkLoops(graph *topology.Graph) []string {
	var issues []string
	_, cycles, err := dfs.DetectCycles(graph.Underlying())
	if err != nil {
		return issues
	}
	count := 0
	for _, cycle := range cycles {
		if count >= maxReportedCycles {
			break
		}
		if len(cycle) <= 2 {
			continue
		}
		path := cycle[0]
		for _, n := range cycle[1:] {
			path += " -> " + n
		}
		path += " -> " + cycle[0]
		issues = append(issues, "potential network loop detected: "+path)
		count++
	}
	return issues
}

func checkAggregationOpportunities(corpus *ingest.Corpus, graph *topology.Graph) []string {
	var opportunities []string
	for _, id := range graph.Nodes() {
		dev, ok := corpus.DeviceByID(id)
		if !ok {
			continue
		}
		neighbors := graph.NeighborIDs(id)
		switch {
		case dev.IsSwitch() && len(neighbors) <= 2:
			opportunities = append(opportunities, fmt.Sprintf("switch %s with %d connections could potentially be aggregated", id, len(neighbors)))
		case dev.IsRouter() && len(neighbors) <= 2 && !dev.OSPF.Enabled && !dev.BGP.Enabled:
			opportunities = append(opportunities, fmt.Sprintf("router %s with minimal routing could be simplified or aggregated", id))
		}
	}
	return opportunities
}

// checkSpanningTreeRoot supplements the eight categories
// (network_validator.py tracks no such check, but the distillation's
// dropped spanning-tree-priority data restores it): for every VLAN with
// spanning-tree priorities configured on more than one device, flag
// ambiguity if no single device holds the strictly lowest priority.
func checkSpanningTreeRoot(corpus *ingest.Corpus) []string {
	var issues []string
	perVLAN := make(map[int]map[string]int)
	for _, id := range sortedDeviceIDs(corpus) {
		dev := corpus.Devices[id]
		for vlanID, prio := range dev.SpanningTreePriority {
			if perVLAN[vlanID] == nil {
				perVLAN[vlanID] = make(map[string]int)
			}
			perVLAN[vlanID][id] = prio
		}
	}
	vlanIDs := make([]int, 0, len(perVLAN))
	for vlanID := range perVLAN {
		vlanIDs = append(vlanIDs, vlanID)
	}
	sort.Ints(vlanIDs)
	for _, vlanID := range vlanIDs {
		devices := perVLAN[vlanID]
		if len(devices) < 2 {
			continue
		}
		minPrio := -1
		winners := 0
		for _, prio := range devices {
			switch {
			case minPrio == -1 || prio < minPrio:
				minPrio = prio
				winners = 1
			case prio == minPrio:
				winners++
			}
		}
		if winners != 1 {
			issues = append(issues, fmt.Sprintf("VLAN %d has no unambiguous spanning-tree root (priority %d tied across %d devices)", vlanID, minPrio, winners))
		}
	}
	return issues
}
