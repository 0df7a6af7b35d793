package validate

import (
	"testing"

	"github.com/netsim-forge/netsim/pkg/ingest"
	"github.com/netsim-forge/netsim/pkg/model"
	"github.com/netsim-forge/netsim/pkg/topology"
)

func corpusOf(devices ...*model.Device) *ingest.Corpus {
	c := &ingest.Corpus{Devices: make(map[string]*model.Device)}
	for _, d := range devices {
		c.Devices[d.ID] = d
		c.Order = append(c.Order, d.ID)
	}
	return c
}

func TestCheckMissingComponents(t *testing.T) {
	host := model.NewDevice("pc1", model.DeviceKindHost)
	sw := model.NewDevice("sw1", model.DeviceKindSwitch)
	corpus := corpusOf(host, sw)

	g := topology.New()
	g.AddNode(&topology.NodeAttr{DeviceID: "pc1"})
	g.AddNode(&topology.NodeAttr{DeviceID: "sw1"})

	issues := checkMissingComponents(corpus, g)
	if len(issues) != 1 {
		t.Fatalf("expected 1 missing-component issue, got %v", issues)
	}

	g.AddEdge("pc1", "sw1", &topology.EdgeAttr{LinkType: topology.LinkTypeSubnet})
	issues = checkMissingComponents(corpus, g)
	if len(issues) != 0 {
		t.Errorf("expected no issues once connected, got %v", issues)
	}
}

func TestCheckDuplicateIPs_ScopedByVLAN(t *testing.T) {
	h1 := model.NewDevice("h1", model.DeviceKindHost)
	i1 := model.NewInterface("FastEthernet0/0")
	i1.Address, i1.SubnetMask, i1.AccessVLAN = "10.0.0.5", "255.255.255.0", 10
	h1.AddInterface(i1)

	h2 := model.NewDevice("h2", model.DeviceKindHost)
	i2 := model.NewInterface("FastEthernet0/0")
	i2.Address, i2.SubnetMask, i2.AccessVLAN = "10.0.0.5", "255.255.255.0", 20
	h2.AddInterface(i2)

	corpus := corpusOf(h1, h2)
	if issues := checkDuplicateIPs(corpus); len(issues) != 0 {
		t.Errorf("expected no duplicate across different VLANs, got %v", issues)
	}

	i2.AccessVLAN = 10
	if issues := checkDuplicateIPs(corpus); len(issues) != 1 {
		t.Errorf("expected 1 duplicate within same VLAN, got %v", issues)
	}
}

func TestCheckGatewayAddresses(t *testing.T) {
	r := model.NewDevice("r1", model.DeviceKindRouter)
	iface := model.NewInterface("GigabitEthernet0/0")
	iface.Address, iface.SubnetMask = "10.0.0.1", "255.255.255.0"
	r.AddInterface(iface)
	r.DefaultGateway = "10.0.1.254"
	corpus := corpusOf(r)

	issues := checkGatewayAddresses(corpus)
	if len(issues) != 1 {
		t.Fatalf("expected unreachable-gateway issue, got %v", issues)
	}

	r.DefaultGateway = "10.0.0.254"
	if issues := checkGatewayAddresses(corpus); len(issues) != 0 {
		t.Errorf("expected no issue for reachable gateway, got %v", issues)
	}
}

func TestCheckRoutingRecommendations(t *testing.T) {
	r1 := model.NewDevice("r1", model.DeviceKindRouter)
	r1.OSPF.Enabled = true
	r1.BGP.Enabled = true
	r1.BGP.LocalAS = 65001

	r2 := model.NewDevice("r2", model.DeviceKindRouter)
	r2.BGP.Enabled = true
	r2.BGP.LocalAS = 65002

	corpus := corpusOf(r1, r2)
	recs := checkRoutingRecommendations(corpus)
	if len(recs) != 1 {
		t.Fatalf("expected 1 BGP-over-OSPF recommendation, got %v", recs)
	}
}

func TestCheckNetworkLoops_Triangle(t *testing.T) {
	g := topology.New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(&topology.NodeAttr{DeviceID: id})
	}
	g.AddEdge("a", "b", &topology.EdgeAttr{})
	g.AddEdge("b", "c", &topology.EdgeAttr{})
	g.AddEdge("a", "c", &topology.EdgeAttr{})

	issues := checkNetworkLoops(g)
	if len(issues) != 1 {
		t.Fatalf("expected 1 loop reported for a triangle, got %v", issues)
	}
}

func TestCheckAggregationOpportunities(t *testing.T) {
	sw := model.NewDevice("sw1", model.DeviceKindSwitch)
	corpus := corpusOf(sw)
	g := topology.New()
	g.AddNode(&topology.NodeAttr{DeviceID: "sw1"})
	g.AddNode(&topology.NodeAttr{DeviceID: "sw2"})
	g.AddEdge("sw1", "sw2", &topology.EdgeAttr{})

	opps := checkAggregationOpportunities(corpus, g)
	if len(opps) != 1 {
		t.Fatalf("expected 1 aggregation opportunity, got %v", opps)
	}
}

func TestCheckSpanningTreeRoot_Ambiguous(t *testing.T) {
	sw1 := model.NewDevice("sw1", model.DeviceKindSwitch)
	sw1.SpanningTreePriority[10] = 4096
	sw2 := model.NewDevice("sw2", model.DeviceKindSwitch)
	sw2.SpanningTreePriority[10] = 4096

	corpus := corpusOf(sw1, sw2)
	issues := checkSpanningTreeRoot(corpus)
	if len(issues) != 1 {
		t.Fatalf("expected 1 ambiguous-root issue, got %v", issues)
	}

	sw2.SpanningTreePriority[10] = 8192
	if issues := checkSpanningTreeRoot(corpus); len(issues) != 0 {
		t.Errorf("expected no issue once priorities differ, got %v", issues)
	}
}

func TestValidate_ReturnsAllCategories(t *testing.T) {
	corpus := corpusOf(model.NewDevice("r1", model.DeviceKindRouter))
	g := topology.New()
	g.AddNode(&topology.NodeAttr{DeviceID: "r1"})

	result := Validate(corpus, g)
	for _, key := range []string{
		CategoryMissingComponents, CategoryDuplicateIPs, CategoryVLANIssues,
		CategoryGatewayIssues, CategoryRoutingRecs, CategoryMTUMismatches,
		CategoryNetworkLoops, CategoryAggregationOpps, CategorySpanningTreeIssues,
	} {
		if _, ok := result[key]; !ok {
			t.Errorf("missing category %q in result", key)
		}
	}
}
