// Package traffic synthesizes offered load for host endpoints, maps it
// onto the topology graph's links via shortest-path attribution, and
// flags bottleneck links with a load-balancing or upgrade recommendation.
package traffic

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/katalvlaran/lvlath/bfs"

	"github.com/netsim-forge/netsim/pkg/ingest"
	"github.com/netsim-forge/netsim/pkg/topology"
)

const (
	defaultCapacityMbps = 100
	bottleneckCutoff    = 6
	attributionShare    = 0.1
)

// AppProfile describes one application's typical bandwidth footprint.
type AppProfile struct {
	Name        string
	PeakMbps    float64
	RegularMbps float64
	Priority    string
}

// Profiles is the fixed application table spec.md §4.4 samples from.
var Profiles = []AppProfile{
	{Name: "web", PeakMbps: 100, RegularMbps: 20, Priority: "medium"},
	{Name: "database", PeakMbps: 500, RegularMbps: 50, Priority: "high"},
	{Name: "file-server", PeakMbps: 1000, RegularMbps: 100, Priority: "medium"},
	{Name: "video", PeakMbps: 50, RegularMbps: 25, Priority: "low"},
	{Name: "voip", PeakMbps: 10, RegularMbps: 5, Priority: "critical"},
}

// EndpointLoad is the synthesized offered load for one host.
type EndpointLoad struct {
	PeakMbps     float64
	RegularMbps  float64
	Applications []string
}

// LinkUtilization is the traffic estimate for one topology edge.
type LinkUtilization struct {
	CapacityMbps       float64
	RegularTrafficMbps float64
	PeakTrafficMbps    float64
	RegularPercent     float64
	PeakPercent        float64
	LinkType           topology.LinkType
}

// Severity classes a bottleneck's urgency.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// Bottleneck is a link whose synthesized utilization crossed a threshold.
type Bottleneck struct {
	A, B           string
	PeakPercent    float64
	RegularPercent float64
	CapacityMbps   float64
	Severity       Severity
	Recommendation string
}

// Result is the full capacity-analysis output.
type Result struct {
	EndpointTraffic map[string]*EndpointLoad
	LinkUtilization map[string]*LinkUtilization
	Bottlenecks     []Bottleneck
	Recommendations []string
}

// Analyzer synthesizes and analyzes traffic. rng drives the jittered
// load sampling and application selection; pass a seeded source for
// reproducible tests.
type Analyzer struct {
	rng *rand.Rand
}

// NewAnalyzer returns an Analyzer. A nil rng uses a fixed-seed default.
func NewAnalyzer(rng *rand.Rand) *Analyzer {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Analyzer{rng: rng}
}

// Analyze runs the full capacity analysis against corpus and graph.
func (a *Analyzer) Analyze(corpus *ingest.Corpus, graph *topology.Graph) *Result {
	endpointTraffic := a.simulateEndpointTraffic(corpus)
	linkUtil := a.calculateLinkUtilization(graph, corpus, endpointTraffic)
	bottlenecks := identifyBottlenecks(linkUtil)
	recommendations := a.generateLoadBalancingRecommendations(graph, bottlenecks)

	return &Result{
		EndpointTraffic: endpointTraffic,
		LinkUtilization: linkUtil,
		Bottlenecks:     bottlenecks,
		Recommendations: recommendations,
	}
}

func (a *Analyzer) simulateEndpointTraffic(corpus *ingest.Corpus) map[string]*EndpointLoad {
	loads := make(map[string]*EndpointLoad)
	for _, id := range corpus.Order {
		dev := corpus.Devices[id]
		if !dev.IsHost() {
			continue
		}
		n := 1 + a.rng.Intn(3)
		chosen := a.sampleProfiles(n)

		var peak, regular float64
		names := make([]string, 0, n)
		for _, p := range chosen {
			peak += p.PeakMbps * (0.7 + a.rng.Float64()*0.3)
			regular += p.RegularMbps * (0.8 + a.rng.Float64()*0.2)
			names = append(names, p.Name)
		}
		loads[id] = &EndpointLoad{PeakMbps: peak, RegularMbps: regular, Applications: names}
	}
	return loads
}

func (a *Analyzer) sampleProfiles(n int) []AppProfile {
	idx := a.rng.Perm(len(Profiles))
	if n > len(Profiles) {
		n = len(Profiles)
	}
	out := make([]AppProfile, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Profiles[idx[i]])
	}
	return out
}

func (a *Analyzer) calculateLinkUtilization(graph *topology.Graph, corpus *ingest.Corpus, loads map[string]*EndpointLoad) map[string]*LinkUtilization {
	result := make(map[string]*LinkUtilization)

	var hosts []string
	for _, id := range corpus.Order {
		if corpus.Devices[id].IsHost() {
			hosts = append(hosts, id)
		}
	}
	sort.Strings(hosts)

	traffic := make(map[string][2]float64) // key "a|b" (canonical) -> [regular, peak]

	for _, src := range hosts {
		for _, dst := range hosts {
			if src == dst {
				continue
			}
			path := shortestPath(graph, src, dst)
			if len(path) < 2 {
				continue
			}
			load := loads[src]
			if load == nil {
				continue
			}
			for i := 0; i < len(path)-1; i++ {
				key := canonicalPair(path[i], path[i+1])
				cur := traffic[key]
				cur[0] += load.RegularMbps * attributionShare
				cur[1] += load.PeakMbps * attributionShare
				traffic[key] = cur
			}
		}
	}

	for _, e := range graph.Edges() {
		key := canonicalPair(e.A, e.B)
		capacity := float64(defaultCapacityMbps)
		var linkType topology.LinkType
		if e.Attr != nil {
			if e.Attr.BandwidthKbps > 0 {
				capacity = float64(e.Attr.BandwidthKbps) / 1000
			}
			linkType = e.Attr.LinkType
		}
		regular, peak := traffic[key][0], traffic[key][1]
		result[key] = &LinkUtilization{
			CapacityMbps:       capacity,
			RegularTrafficMbps: regular,
			PeakTrafficMbps:    peak,
			RegularPercent:     clampPercent(regular / capacity * 100),
			PeakPercent:        clampPercent(peak / capacity * 100),
			LinkType:           linkType,
		}
	}

	return result
}

func clampPercent(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}

func shortestPath(graph *topology.Graph, src, dst string) []string {
	result, err := bfs.BFS(graph.Underlying(), src)
	if err != nil {
		return nil
	}
	path, err := result.PathTo(dst)
	if err != nil {
		return nil
	}
	return path
}

func canonicalPair(a, b string) string {
	if a <= b {
		return a + "-" + b
	}
	return b + "-" + a
}

func identifyBottlenecks(linkUtil map[string]*LinkUtilization) []Bottleneck {
	var out []Bottleneck
	keys := make([]string, 0, len(linkUtil))
	for k := range linkUtil {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		util := linkUtil[key]
		a, b := splitPair(key)
		switch {
		case util.PeakPercent > 80:
			sev := SeverityHigh
			if util.PeakPercent > 95 {
				sev = SeverityCritical
			}
			out = append(out, Bottleneck{
				A: a, B: b, PeakPercent: util.PeakPercent, CapacityMbps: util.CapacityMbps,
				Severity:       sev,
				Recommendation: fmt.Sprintf("link %s is heavily utilized (%.1f%%)", key, util.PeakPercent),
			})
		case util.RegularPercent > 60:
			out = append(out, Bottleneck{
				A: a, B: b, RegularPercent: util.RegularPercent, CapacityMbps: util.CapacityMbps,
				Severity:       SeverityMedium,
				Recommendation: fmt.Sprintf("link %s shows consistent high utilization (%.1f%%)", key, util.RegularPercent),
			})
		}
	}
	return out
}

func splitPair(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '-' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

func (a *Analyzer) generateLoadBalancingRecommendations(graph *topology.Graph, bottlenecks []Bottleneck) []string {
	var recs []string
	for _, b := range bottlenecks {
		alt := graph.AlternativePathCount(b.A, b.B, bottleneckCutoff)
		link := b.A + "-" + b.B
		if alt > 0 {
			recs = append(recs,
				fmt.Sprintf("activate alternative paths for %s to distribute load; found %d alternative routes", link, alt),
				fmt.Sprintf("consider implementing ECMP routing for %s", link))
		} else {
			recs = append(recs, fmt.Sprintf("upgrade bandwidth capacity for critical link %s - no alternative paths available", link))
		}

		if b.Severity == SeverityCritical {
			recs = append(recs,
				fmt.Sprintf("URGENT: implement traffic shaping on %s to prioritize critical applications", link),
				fmt.Sprintf("consider moving lower-priority traffic to secondary paths for %s", link))
		}
	}
	return recs
}
