package day2

import (
	"math/rand"
	"testing"
	"time"

	"github.com/netsim-forge/netsim/pkg/ingest"
	"github.com/netsim-forge/netsim/pkg/model"
	"github.com/netsim-forge/netsim/pkg/topology"
)

func chainCorpus(t *testing.T) (*ingest.Corpus, *topology.Graph) {
	t.Helper()
	r1 := model.NewDevice("r1", model.DeviceKindRouter)
	r2 := model.NewDevice("r2", model.DeviceKindRouter)
	sw1 := model.NewDevice("sw1", model.DeviceKindSwitch)
	corpus := &ingest.Corpus{
		Devices: map[string]*model.Device{"r1": r1, "r2": r2, "sw1": sw1},
		Order:   []string{"r1", "r2", "sw1"},
	}

	g := topology.New()
	g.AddNode(&topology.NodeAttr{DeviceID: "r1", Kind: model.DeviceKindRouter})
	g.AddNode(&topology.NodeAttr{DeviceID: "r2", Kind: model.DeviceKindRouter})
	g.AddNode(&topology.NodeAttr{DeviceID: "sw1", Kind: model.DeviceKindSwitch})
	g.AddEdge("r1", "r2", &topology.EdgeAttr{LinkType: topology.LinkTypeSubnet, BandwidthKbps: 1000000})
	g.AddEdge("r2", "sw1", &topology.EdgeAttr{LinkType: topology.LinkTypeSubnet, BandwidthKbps: 1000000})

	return corpus, g
}

func fixedRNG() *rand.Rand { return rand.New(rand.NewSource(42)) }

func TestRunConnectivityTests_ReportsReachabilityAcrossChain(t *testing.T) {
	corpus, g := chainCorpus(t)
	tester := NewTester(corpus, g, fixedRNG())

	result := tester.runConnectivityTests()

	if !result.ReachabilityMatrix["r1"]["sw1"] {
		t.Error("expected r1 to reach sw1 across the chain")
	}
	if loss := result.PacketLossRates["r1"]["sw1"]; loss < 0 || loss > 0.1 {
		t.Errorf("packet loss = %v, want in [0, 0.1]", loss)
	}
	if lat := result.LatencyMeasurements["r1"]["sw1"]; lat <= 0 || lat >= 999 {
		t.Errorf("latency = %v, want a small positive reachable value", lat)
	}
}

func TestRunConnectivityTests_UnreachablePairReportsFullLoss(t *testing.T) {
	corpus, g := chainCorpus(t)
	g.AddNode(&topology.NodeAttr{DeviceID: "isolated", Kind: model.DeviceKindHost})
	corpus.Devices["isolated"] = model.NewDevice("isolated", model.DeviceKindHost)
	corpus.Order = append(corpus.Order, "isolated")

	tester := NewTester(corpus, g, fixedRNG())
	result := tester.runConnectivityTests()

	if result.ReachabilityMatrix["r1"]["isolated"] {
		t.Error("expected isolated host to be unreachable from r1")
	}
	if loss := result.PacketLossRates["r1"]["isolated"]; loss != 100.0 {
		t.Errorf("packet loss for unreachable pair = %v, want 100", loss)
	}
}

func TestRunRedundancyTests_FlagsCriticalLinkFailover(t *testing.T) {
	corpus, g := chainCorpus(t)
	// A chain has no alternative path between any pair, so every edge
	// the builder marks critical; force the flag directly here since
	// this graph was built by hand rather than through the builder's
	// link-metrics pass.
	attr, _ := g.EdgeAttrOf("r1", "r2")
	attr.IsCritical = true
	g.SetEdgeAttr("r1", "r2", attr)

	tester := NewTester(corpus, g, fixedRNG())
	result := tester.runRedundancyTests()

	impact, ok := result.FailoverTests["r1-r2"]
	if !ok {
		t.Fatal("expected a failover test for the critical r1-r2 link")
	}
	if impact.AffectedPairs == 0 {
		t.Error("expected removing the only r1-r2 link to disconnect at least one sampled pair")
	}
	if _, ok := result.RecoveryTimesSeconds["r1-r2"]; !ok {
		t.Error("expected a recovery time estimate for the critical link")
	}
	// The edge must be restored after the simulated failure.
	if !g.HasEdge("r1", "r2") {
		t.Error("expected r1-r2 edge restored after failover simulation")
	}
}

func TestRunConfigValidation_SharesBestPracticesAcrossDevices(t *testing.T) {
	corpus, g := chainCorpus(t)
	tester := NewTester(corpus, g, fixedRNG())

	result := tester.runConfigValidation()

	if len(result.BestPracticesCheck) != 3 {
		t.Fatalf("expected best-practices entries for all 3 devices, got %d", len(result.BestPracticesCheck))
	}
	if !result.ConfigurationCompliance["r1"].HostnameConfigured {
		t.Error("expected r1 to have hostname_configured true")
	}
}

func TestCompareBaseline_NoBaselineReportsUnavailable(t *testing.T) {
	corpus, g := chainCorpus(t)
	tester := NewTester(corpus, g, fixedRNG())

	result := tester.compareBaseline(tester.runCapacityPlanning())
	if result.Status != "No baseline available" {
		t.Errorf("status = %q, want %q", result.Status, "No baseline available")
	}
}

func TestCompareBaseline_WithBaselineComputesDelta(t *testing.T) {
	corpus, g := chainCorpus(t)
	tester := NewTester(corpus, g, fixedRNG())
	tester.Baseline = map[string]float64{"r1": 0, "r2": 0, "sw1": 0}

	capacity := tester.runCapacityPlanning()
	result := tester.compareBaseline(capacity)
	if result.Status != "" {
		t.Errorf("expected no status placeholder once a baseline is set, got %q", result.Status)
	}
	if result.Alerts == nil {
		t.Error("expected a non-nil (possibly empty) alerts slice")
	}
}

func TestRun_AssemblesFullReportWithTimestamps(t *testing.T) {
	corpus, g := chainCorpus(t)
	tester := NewTester(corpus, g, fixedRNG())
	fixedNow := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tester.Now = func() time.Time { return fixedNow }

	report := tester.Run()

	if report.TestExecutionTime != fixedNow.Format(time.RFC3339) {
		t.Errorf("TestExecutionTime = %q", report.TestExecutionTime)
	}
	wantNext := fixedNow.Add(24 * time.Hour).Format(time.RFC3339)
	if report.NextTestSchedule != wantNext {
		t.Errorf("NextTestSchedule = %q, want %q", report.NextTestSchedule, wantNext)
	}
	if report.TestSummary.TotalTests == 0 {
		t.Error("expected a nonzero total test count")
	}
	if len(report.Recommendations) == 0 {
		t.Error("expected at least one recommendation")
	}
}

func TestRunCapacityPlanning_GrowthProjectionCompoundsQuarterly(t *testing.T) {
	corpus, g := chainCorpus(t)
	attr, _ := g.EdgeAttrOf("r1", "r2")
	attr.UtilizationPercent = 50.0
	g.SetEdgeAttr("r1", "r2", attr)

	tester := NewTester(corpus, g, fixedRNG())
	result := tester.runCapacityPlanning()

	proj, ok := result.GrowthProjection["r1-r2"]
	if !ok {
		t.Fatal("expected a growth projection for edge r1-r2")
	}
	if proj.Projected6MoPercent <= proj.CurrentPercent {
		t.Error("expected 6-month projection to exceed current utilization")
	}
	if proj.Projected12MoPercent <= proj.Projected6MoPercent {
		t.Error("expected 12-month projection to exceed the 6-month projection")
	}
}
