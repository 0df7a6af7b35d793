// Package day1 drives the bring-up scenario: interfaces up, a
// stabilization wait, ARP seeding, OSPF/BGP adjacency formation, and a
// final per-device OSPF-neighbor-completeness assertion.
package day1

import (
	"fmt"
	"sort"
	"time"

	"github.com/netsim-forge/netsim/pkg/ingest"
	"github.com/netsim-forge/netsim/pkg/netutil"
	"github.com/netsim-forge/netsim/pkg/simengine"
	"github.com/netsim-forge/netsim/pkg/topology"
)

const defaultStabilizationWindow = 60 * time.Second

// Result is the outcome of a Day-1 run.
type Result struct {
	OSPFFailures []string
}

// Driver runs the six-step sequence against a corpus, its topology
// graph, and the simulation engine built from them.
type Driver struct {
	Corpus *ingest.Corpus
	Graph  *topology.Graph
	Engine *simengine.Engine

	// StabilizationWindow is the simulated convergence wait; Sleep is
	// the seam tests inject a near-zero stand-in through instead of
	// waiting out the real default.
	StabilizationWindow time.Duration
	Sleep                func(time.Duration)

	// OnStep, when set, is called after each bring-up step completes
	// with its name and how long it took. nil is a safe no-op default.
	OnStep func(name string, elapsed time.Duration)

	ospfNeighbors map[string]map[string]bool
	bgpNeighbors  map[string]map[string]bool
}

// NewDriver builds a Driver with the default 60s stabilization window.
func NewDriver(corpus *ingest.Corpus, graph *topology.Graph, engine *simengine.Engine) *Driver {
	return &Driver{
		Corpus:               corpus,
		Graph:                graph,
		Engine:               engine,
		StabilizationWindow:  defaultStabilizationWindow,
		Sleep:                time.Sleep,
		ospfNeighbors:        make(map[string]map[string]bool),
		bgpNeighbors:         make(map[string]map[string]bool),
	}
}

// Run executes the full bring-up sequence and returns the final
// neighbor-validation result.
func (d *Driver) Run() *Result {
	d.runStep("interfaces up", d.bringUpInterfaces)
	d.runStep("stabilization wait", d.waitStabilization)
	d.runStep("arp seeding", d.populateARP)
	d.runStep("ospf adjacencies", d.triggerOSPF)
	d.runStep("bgp sessions", d.triggerBGP)
	return d.validateNeighbors()
}

func (d *Driver) runStep(name string, fn func()) {
	start := time.Now()
	fn()
	if d.OnStep != nil {
		d.OnStep(name, time.Since(start))
	}
}

func (d *Driver) bringUpInterfaces() {
	for _, id := range d.Corpus.Order {
		for _, iface := range d.Corpus.Devices[id].Interfaces {
			iface.AdminStatus = "up"
		}
	}
	netutil.Info("all interfaces set to up")
}

func (d *Driver) waitStabilization() {
	netutil.Infof("waiting %s for Day-1 network stabilization", d.StabilizationWindow)
	d.Sleep(d.StabilizationWindow)
	netutil.Info("stabilization complete")
}

// populateARP synthesizes a MAC address for every graph-neighbor of
// every node and seeds it into that node's agent ARP cache.
func (d *Driver) populateARP() {
	for _, id := range d.Graph.Nodes() {
		agent, ok := d.Engine.Agent(id)
		if !ok {
			continue
		}
		for _, neighbor := range d.Graph.NeighborIDs(id) {
			agent.SeedARPEntry(neighbor, syntheticMAC(id, neighbor))
		}
	}
	netutil.Info("ARP tables populated")
}

func syntheticMAC(dev, neighbor string) string {
	return fmt.Sprintf("00:11:22:%02d:%02d:aa", hash8(neighbor), hash8(dev))
}

func hash8(s string) int {
	h := 0
	for _, c := range s {
		h = (h*31 + int(c)) % 100
	}
	if h < 0 {
		h += 100
	}
	return h
}

// triggerOSPF forms a mutual OSPF-neighbor entry across every edge
// that is itself ospf-typed, or is a subnet edge where both endpoint
// devices have OSPF enabled — the common case of an OSPF adjacency
// riding a shared-subnet link rather than a dedicated cross-subnet one.
func (d *Driver) triggerOSPF() {
	for _, e := range d.Graph.Edges() {
		if e.Attr == nil {
			continue
		}
		ospfLink := e.Attr.LinkType == topology.LinkTypeOSPF
		if e.Attr.LinkType == topology.LinkTypeSubnet {
			ua, ok1 := d.Corpus.DeviceByID(e.A)
			ub, ok2 := d.Corpus.DeviceByID(e.B)
			if ok1 && ok2 && ua.OSPF != nil && ub.OSPF != nil && ua.OSPF.Enabled && ub.OSPF.Enabled {
				ospfLink = true
			}
		}
		if ospfLink {
			recordMutual(d.ospfNeighbors, e.A, e.B)
		}
	}
	netutil.Info("OSPF adjacencies formed")
}

func (d *Driver) triggerBGP() {
	for _, e := range d.Graph.Edges() {
		if e.Attr != nil && e.Attr.LinkType == topology.LinkTypeBGP {
			recordMutual(d.bgpNeighbors, e.A, e.B)
		}
	}
	netutil.Info("BGP sessions established")
}

func recordMutual(table map[string]map[string]bool, a, b string) {
	if table[a] == nil {
		table[a] = make(map[string]bool)
	}
	if table[b] == nil {
		table[b] = make(map[string]bool)
	}
	table[a][b] = true
	table[b][a] = true
}

// validateNeighbors asserts that every graph neighbor reachable via an
// ospf-typed edge was actually recorded as an OSPF neighbor in
// triggerOSPF, reporting any omission.
func (d *Driver) validateNeighbors() *Result {
	var failures []string
	for _, id := range d.Graph.Nodes() {
		for _, neighbor := range d.Graph.NeighborIDs(id) {
			attr, ok := d.Graph.EdgeAttrOf(id, neighbor)
			if !ok || attr.LinkType != topology.LinkTypeOSPF {
				continue
			}
			if !d.ospfNeighbors[id][neighbor] {
				failures = append(failures, fmt.Sprintf("OSPF: %s failed to form neighbor with %s", id, neighbor))
			}
		}
	}
	sort.Strings(failures)
	if len(failures) > 0 {
		netutil.Warn("Day-1 neighbor validation failures detected")
	} else {
		netutil.Info("Day-1 neighbor validation passed")
	}
	return &Result{OSPFFailures: failures}
}
