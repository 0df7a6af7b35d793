package topology

import (
	"fmt"
	"math/rand"
	"net"
	"regexp"

	"github.com/netsim-forge/netsim/pkg/model"
)

const (
	referenceBandwidthKbps = 100000
	maxCost                = 65535
	altPathCutoff          = 5
)

var descLinkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:to|connected to|link to)\s+(\w+)`),
	regexp.MustCompile(`(?i)\b(\w+)\s+(?:link|connection|interface)`),
}

// Builder runs the four link-discovery passes and the link-metrics pass
// over a corpus of parsed devices, producing the connectivity Graph the
// validator, traffic analyzer, and simulation engine all consume.
type Builder struct {
	rng *rand.Rand
}

// NewBuilder returns a Builder. rng drives the simulated baseline link
// utilization in the metrics pass; pass a seeded source in tests for
// reproducibility, or nil to use a source with the fixed seed 1.
func NewBuilder(rng *rand.Rand) *Builder {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Builder{rng: rng}
}

// Build runs all discovery passes over devices (keyed by device id) and
// returns the resulting topology graph.
func (b *Builder) Build(devices map[string]*model.Device) *Graph {
	g := New()

	b.addDeviceNodes(g, devices)
	b.discoverIPLinks(g, devices)
	b.discoverOSPFLinks(g, devices)
	b.discoverBGPLinks(g, devices)
	b.discoverDescLinks(g, devices)
	b.calculateLinkMetrics(g, devices)

	return g
}

func (b *Builder) addDeviceNodes(g *Graph, devices map[string]*model.Device) {
	for id, dev := range devices {
		g.AddNode(&NodeAttr{
			DeviceID:  id,
			Hostname:  dev.Hostname,
			Kind:      dev.Kind,
			Bandwidth: deviceBandwidth(dev),
		})
	}
}

func deviceBandwidth(dev *model.Device) BandwidthSummary {
	var total int
	var active int
	for _, iface := range dev.Interfaces {
		if iface.IsUp() {
			total += iface.BandwidthKbps
			active++
		}
	}
	return BandwidthSummary{
		TotalKbps:   total,
		TotalMbps:   float64(total) / 1000,
		ActiveCount: active,
		TotalCount:  len(dev.Interfaces),
	}
}

// ospfCost implements spec.md's cost formula: clamp(100000/bandwidth, 1,
// 65535) in integer kbps arithmetic, floored at 1 and capped at 65535.
// The reference bandwidth is always 100,000 kbps regardless of any
// parsed "auto-cost reference-bandwidth" directive (see SPEC_FULL.md §8).
func ospfCost(bandwidthKbps int) int {
	if bandwidthKbps <= 0 {
		return maxCost
	}
	cost := referenceBandwidthKbps / bandwidthKbps
	if cost < 1 {
		cost = 1
	}
	if cost > maxCost {
		cost = maxCost
	}
	return cost
}

type subnetMember struct {
	deviceID string
	iface    *model.Interface
	isHost   bool
}

func (b *Builder) discoverIPLinks(g *Graph, devices map[string]*model.Device) {
	subnets := make(map[string][]subnetMember)
	for id, dev := range devices {
		for _, iface := range dev.Interfaces {
			if !iface.HasAddress() || !iface.IsUp() {
				continue
			}
			key, ok := subnetKey(iface.Address, iface.SubnetMask)
			if !ok {
				continue
			}
			subnets[key] = append(subnets[key], subnetMember{
				deviceID: id,
				iface:    iface,
				isHost:   dev.IsHost(),
			})
		}
	}

	for subnet, members := range subnets {
		if len(members) < 2 {
			continue
		}
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				m1, m2 := members[i], members[j]
				if m1.isHost || m2.isHost {
					continue
				}
				if m1.deviceID == m2.deviceID {
					continue
				}
				bw := m1.iface.BandwidthKbps
				if m2.iface.BandwidthKbps < bw {
					bw = m2.iface.BandwidthKbps
				}
				cost := ospfCost(bw)
				g.AddEdge(m1.deviceID, m2.deviceID, &EdgeAttr{
					LinkType:      LinkTypeSubnet,
					Subnet:        subnet,
					BandwidthKbps: bw,
					Cost:          cost,
					Title: fmt.Sprintf("Subnet: %s between %s and %s", subnet,
						m1.iface.Name, m2.iface.Name),
				})
			}
		}
	}
}

// subnetKey returns the canonical IPv4 network string ("x.x.x.x/yy") for
// an address/dotted-quad-mask pair, or ok=false if either fails to parse.
func subnetKey(addr, mask string) (string, bool) {
	ip := net.ParseIP(addr)
	maskIP := net.ParseIP(mask)
	if ip == nil || maskIP == nil {
		return "", false
	}
	ip4 := ip.To4()
	mask4 := maskIP.To4()
	if ip4 == nil || mask4 == nil {
		return "", false
	}
	ipNet := &net.IPNet{IP: ip4.Mask(net.IPMask(mask4)), Mask: net.IPMask(mask4)}
	return ipNet.String(), true
}

func (b *Builder) discoverOSPFLinks(g *Graph, devices map[string]*model.Device) {
	var ospfDevices []string
	for id, dev := range devices {
		if dev.OSPF != nil && dev.OSPF.Enabled {
			ospfDevices = append(ospfDevices, id)
		}
	}
	for i := 0; i < len(ospfDevices); i++ {
		for j := i + 1; j < len(ospfDevices); j++ {
			dev1, dev2 := ospfDevices[i], ospfDevices[j]
			if g.HasEdge(dev1, dev2) {
				continue
			}
			if sharesSubnet(devices[dev1], devices[dev2]) {
				g.AddEdge(dev1, dev2, &EdgeAttr{
					LinkType: LinkTypeOSPF,
					Title:    "OSPF Link",
					Cost:     1,
					Area:     "0",
				})
			}
		}
	}
}

func sharesSubnet(d1, d2 *model.Device) bool {
	nets1 := deviceNetworks(d1)
	nets2 := deviceNetworks(d2)
	for _, n1 := range nets1 {
		for _, n2 := range nets2 {
			if networksOverlap(n1, n2) {
				return true
			}
		}
	}
	return false
}

func deviceNetworks(dev *model.Device) []*net.IPNet {
	var out []*net.IPNet
	for _, iface := range dev.Interfaces {
		if !iface.HasAddress() {
			continue
		}
		ip := net.ParseIP(iface.Address)
		maskIP := net.ParseIP(iface.SubnetMask)
		if ip == nil || maskIP == nil {
			continue
		}
		ip4 := ip.To4()
		mask4 := maskIP.To4()
		if ip4 == nil || mask4 == nil {
			continue
		}
		out = append(out, &net.IPNet{IP: ip4.Mask(net.IPMask(mask4)), Mask: net.IPMask(mask4)})
	}
	return out
}

func networksOverlap(a, b *net.IPNet) bool {
	return a.Contains(b.IP) || b.Contains(a.IP)
}

func (b *Builder) discoverBGPLinks(g *Graph, devices map[string]*model.Device) {
	for id, dev := range devices {
		if dev.BGP == nil || !dev.BGP.Enabled {
			continue
		}
		for _, nbr := range dev.BGP.Neighbors {
			for otherID, other := range devices {
				if otherID == id {
					continue
				}
				for _, iface := range other.Interfaces {
					if iface.Address != nbr.PeerAddress {
						continue
					}
					if g.HasEdge(id, otherID) {
						continue
					}
					g.AddEdge(id, otherID, &EdgeAttr{
						LinkType: LinkTypeBGP,
						Title:    fmt.Sprintf("BGP Link AS %d→%d", dev.BGP.LocalAS, nbr.RemoteAS),
						PeerIP:   nbr.PeerAddress,
						LocalAS:  dev.BGP.LocalAS,
						RemoteAS: nbr.RemoteAS,
					})
				}
			}
		}
	}
}

func (b *Builder) discoverDescLinks(g *Graph, devices map[string]*model.Device) {
	for id, dev := range devices {
		for _, iface := range dev.Interfaces {
			if iface.Description == "" {
				continue
			}
			for _, pat := range descLinkPatterns {
				m := pat.FindStringSubmatch(iface.Description)
				if m == nil {
					continue
				}
				peer := m[1]
				if _, ok := devices[peer]; !ok {
					continue
				}
				if g.HasEdge(id, peer) {
					break
				}
				g.AddEdge(id, peer, &EdgeAttr{
					LinkType: LinkTypeDescription,
					Title:    fmt.Sprintf("Desc Link: %s→%s", iface.Name, peer),
				})
				break
			}
		}
	}
}

// calculateLinkMetrics is the fifth pass: for every discovered link it
// computes the alternate-path count (and the resulting criticality flag),
// a simulated baseline utilization, and a priority classification derived
// from the endpoint device kinds.
func (b *Builder) calculateLinkMetrics(g *Graph, devices map[string]*model.Device) {
	for _, e := range g.Edges() {
		attr := e.Attr
		if attr == nil {
			continue
		}

		altPaths := g.AlternativePathCount(e.A, e.B, altPathCutoff)
		attr.AlternativePaths = altPaths
		attr.IsCritical = altPaths == 0

		util := b.simulateUtilization(attr)
		attr.UtilizationPercent = util
		attr.UtilizationStatus = utilizationStatus(util)

		attr.Priority = linkPriority(devices[e.A], devices[e.B], attr)

		g.SetEdgeAttr(e.A, e.B, attr)
	}
}

func (b *Builder) simulateUtilization(attr *EdgeAttr) float64 {
	bwMbps := float64(attr.BandwidthKbps) / 1000
	var lo, hi float64
	switch {
	case attr.LinkType == LinkTypeOSPF && bwMbps >= 1000:
		lo, hi = 20, 60
	case attr.LinkType == LinkTypeSubnet && bwMbps > 0 && bwMbps <= 100:
		lo, hi = 10, 40
	default:
		lo, hi = 15, 50
	}
	util := lo + b.rng.Float64()*(hi-lo)
	return roundTo(util, 1)
}

func roundTo(v float64, places int) float64 {
	scale := 1.0
	for i := 0; i < places; i++ {
		scale *= 10
	}
	return float64(int(v*scale+0.5)) / scale
}

func utilizationStatus(util float64) string {
	switch {
	case util < 30:
		return "low"
	case util < 70:
		return "normal"
	case util < 90:
		return "high"
	default:
		return "critical"
	}
}

func linkPriority(a, b *model.Device, attr *EdgeAttr) string {
	if a == nil || b == nil {
		return "low"
	}
	bwMbps := float64(attr.BandwidthKbps) / 1000
	switch {
	case a.IsRouter() && b.IsRouter():
		if bwMbps >= 1000 {
			return "critical"
		}
		return "high"
	case (a.IsRouter() && b.IsSwitch()) || (a.IsSwitch() && b.IsRouter()):
		return "high"
	case a.IsSwitch() && b.IsSwitch():
		return "medium"
	default:
		return "low"
	}
}
