// Package day2 runs the comprehensive post-bring-up test suite:
// connectivity, performance, configuration, redundancy, security,
// protocol, capacity, and baseline comparison, assembled into one
// timestamped report.
package day2

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/katalvlaran/lvlath/bfs"

	"github.com/netsim-forge/netsim/pkg/ingest"
	"github.com/netsim-forge/netsim/pkg/model"
	"github.com/netsim-forge/netsim/pkg/netutil"
	"github.com/netsim-forge/netsim/pkg/topology"
	"github.com/netsim-forge/netsim/pkg/validate"
)

const (
	redundancyPathCutoff  = 6
	maxBackupPaths        = 2
	nextTestSchedule      = 24 * time.Hour
	quarterlyGrowthFactor = 1.10
)

// Tester runs the Day-2 test suite against a corpus and its topology
// graph. rng is injected so tests get deterministic synthetic metrics.
type Tester struct {
	Corpus *ingest.Corpus
	Graph  *topology.Graph
	rng    *rand.Rand

	// Baseline holds a previously-saved capacity snapshot; nil means no
	// baseline has been installed, and BaselineComparison reports that.
	Baseline map[string]float64

	Now func() time.Time
}

// NewTester builds a Tester. A nil rng gets a seeded default.
func NewTester(corpus *ingest.Corpus, graph *topology.Graph, rng *rand.Rand) *Tester {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Tester{Corpus: corpus, Graph: graph, rng: rng, Now: time.Now}
}

// Report is the full Day-2 test report document.
type Report struct {
	TestExecutionTime string          `json:"test_execution_time"`
	TestSummary        TestSummary     `json:"test_summary"`
	DetailedResults    DetailedResults `json:"detailed_results"`
	Recommendations    []string        `json:"recommendations"`
	NextTestSchedule   string          `json:"next_test_schedule"`
}

type TestSummary struct {
	TotalTests  int `json:"total_tests"`
	PassedTests int `json:"passed_tests"`
	FailedTests int `json:"failed_tests"`
	Warnings    int `json:"warnings"`
}

type DetailedResults struct {
	ConnectivityTests       ConnectivityTests       `json:"connectivity_tests"`
	PerformanceTests        PerformanceTests        `json:"performance_tests"`
	ConfigurationValidation ConfigurationValidation `json:"configuration_validation"`
	RedundancyTests         RedundancyTests         `json:"redundancy_tests"`
	SecurityValidation      SecurityValidation      `json:"security_validation"`
	ProtocolValidation      ProtocolValidation      `json:"protocol_validation"`
	CapacityPlanning        CapacityPlanning        `json:"capacity_planning"`
	BaselineComparison      BaselineComparison      `json:"baseline_comparison"`
}

// ---------------- Connectivity ----------------

type ConnectivityTests struct {
	ReachabilityMatrix map[string]map[string]bool      `json:"reachability_matrix"`
	LatencyMeasurements map[string]map[string]float64  `json:"latency_measurements"`
	PacketLossRates    map[string]map[string]float64   `json:"packet_loss_rates"`
	PathAnalysis       map[string]map[string][]string  `json:"path_analysis"`
}

func (t *Tester) runConnectivityTests() ConnectivityTests {
	out := ConnectivityTests{
		ReachabilityMatrix:  make(map[string]map[string]bool),
		LatencyMeasurements: make(map[string]map[string]float64),
		PacketLossRates:     make(map[string]map[string]float64),
		PathAnalysis:        make(map[string]map[string][]string),
	}
	devices := t.Graph.Nodes()
	for _, src := range devices {
		out.ReachabilityMatrix[src] = make(map[string]bool)
		out.LatencyMeasurements[src] = make(map[string]float64)
		out.PacketLossRates[src] = make(map[string]float64)
		out.PathAnalysis[src] = make(map[string][]string)
		for _, dst := range devices {
			if src == dst {
				continue
			}
			path := t.shortestPath(src, dst)
			reachable := len(path) > 1
			out.ReachabilityMatrix[src][dst] = reachable
			out.LatencyMeasurements[src][dst] = t.measureLatency(path, reachable)
			out.PacketLossRates[src][dst] = t.measurePacketLoss(reachable)
			out.PathAnalysis[src][dst] = path
		}
	}
	return out
}

func (t *Tester) shortestPath(src, dst string) []string {
	result, err := bfs.BFS(t.Graph.Underlying(), src)
	if err != nil {
		return nil
	}
	path, err := result.PathTo(dst)
	if err != nil {
		return nil
	}
	return path
}

func (t *Tester) measureLatency(path []string, reachable bool) float64 {
	if !reachable {
		return 999.0
	}
	return 1.0 + float64(len(path)-1)*(0.2+t.rng.Float64()*1.3)
}

func (t *Tester) measurePacketLoss(reachable bool) float64 {
	if !reachable {
		return 100.0
	}
	return t.rng.Float64() * 0.1
}

// ---------------- Performance ----------------

type PerformanceTests struct {
	ThroughputTests       map[string]Throughput               `json:"throughput_tests"`
	BandwidthUtilization  map[string]BandwidthUtilization      `json:"bandwidth_utilization"`
	InterfaceStatistics   map[string]map[string]InterfaceStats `json:"interface_statistics"`
	CPUMemoryUsage        map[string]SystemStats               `json:"cpu_memory_usage"`
	QueueDepths           map[string]QueueDepths               `json:"queue_depths"`
}

type Throughput struct {
	MaxThroughputMbps     float64 `json:"max_throughput_mbps"`
	CurrentThroughputMbps float64 `json:"current_throughput_mbps"`
	UtilizationPercent    float64 `json:"utilization_percent"`
}

type BandwidthUtilization struct {
	InboundUtilPercent  float64 `json:"inbound_util_percent"`
	OutboundUtilPercent float64 `json:"outbound_util_percent"`
	PeakUtilPercent     float64 `json:"peak_util_percent"`
}

type InterfaceStats struct {
	RxPackets int    `json:"rx_packets"`
	TxPackets int    `json:"tx_packets"`
	RxBytes   int    `json:"rx_bytes"`
	TxBytes   int    `json:"tx_bytes"`
	RxErrors  int    `json:"rx_errors"`
	TxErrors  int    `json:"tx_errors"`
	Status    string `json:"status"`
}

type SystemStats struct {
	CPUUtilizationPercent    float64 `json:"cpu_utilization_percent"`
	MemoryUtilizationPercent float64 `json:"memory_utilization_percent"`
	TemperatureCelsius       float64 `json:"temperature_celsius"`
	PowerConsumptionWatts    float64 `json:"power_consumption_watts"`
}

type QueueDepths struct {
	InputQueueDepth    int `json:"input_queue_depth"`
	OutputQueueDepth   int `json:"output_queue_depth"`
	PriorityQueueDepth int `json:"priority_queue_depth"`
}

var throughputBaseMbps = map[model.DeviceKind]float64{
	model.DeviceKindRouter: 1000.0,
	model.DeviceKindSwitch: 10000.0,
	model.DeviceKindHost:   100.0,
}

func (t *Tester) runPerformanceTests() PerformanceTests {
	out := PerformanceTests{
		ThroughputTests:      make(map[string]Throughput),
		BandwidthUtilization: make(map[string]BandwidthUtilization),
		InterfaceStatistics:  make(map[string]map[string]InterfaceStats),
		CPUMemoryUsage:       make(map[string]SystemStats),
		QueueDepths:          make(map[string]QueueDepths),
	}
	for _, id := range t.Graph.Nodes() {
		node, _ := t.Graph.Node(id)
		out.ThroughputTests[id] = t.measureThroughput(node)
		out.BandwidthUtilization[id] = BandwidthUtilization{
			InboundUtilPercent:  20 + t.rng.Float64()*60,
			OutboundUtilPercent: 20 + t.rng.Float64()*60,
			PeakUtilPercent:     80 + t.rng.Float64()*15,
		}
		out.InterfaceStatistics[id] = t.collectInterfaceStats(id)
		out.CPUMemoryUsage[id] = SystemStats{
			CPUUtilizationPercent:    10 + t.rng.Float64()*70,
			MemoryUtilizationPercent: 30 + t.rng.Float64()*40,
			TemperatureCelsius:       35 + t.rng.Float64()*30,
			PowerConsumptionWatts:    50 + t.rng.Float64()*150,
		}
		out.QueueDepths[id] = QueueDepths{
			InputQueueDepth:    t.rng.Intn(100),
			OutputQueueDepth:   t.rng.Intn(100),
			PriorityQueueDepth: t.rng.Intn(50),
		}
	}
	return out
}

func (t *Tester) measureThroughput(node *topology.NodeAttr) Throughput {
	maxTP := 100.0
	if node != nil {
		if v, ok := throughputBaseMbps[node.Kind]; ok {
			maxTP = v
		}
	}
	curTP := maxTP * (0.3 + t.rng.Float64()*0.5)
	return Throughput{
		MaxThroughputMbps:     maxTP,
		CurrentThroughputMbps: curTP,
		UtilizationPercent:    curTP / maxTP * 100.0,
	}
}

func (t *Tester) collectInterfaceStats(deviceID string) map[string]InterfaceStats {
	dev, ok := t.Corpus.DeviceByID(deviceID)
	if !ok {
		return nil
	}
	stats := make(map[string]InterfaceStats, len(dev.Interfaces))
	for _, iface := range dev.Interfaces {
		status := "up"
		if t.rng.Float64() < 0.1 {
			status = "down"
		}
		stats[iface.Name] = InterfaceStats{
			RxPackets: 1_000_000 + t.rng.Intn(9_000_000),
			TxPackets: 1_000_000 + t.rng.Intn(9_000_000),
			RxBytes:   100_000_000 + t.rng.Intn(900_000_000),
			TxBytes:   100_000_000 + t.rng.Intn(900_000_000),
			RxErrors:  t.rng.Intn(100),
			TxErrors:  t.rng.Intn(100),
			Status:    status,
		}
	}
	return stats
}

// ---------------- Configuration validation ----------------

type ConfigurationValidation struct {
	ConfigurationCompliance map[string]ComplianceFlags `json:"configuration_compliance"`
	SecuritySettings        map[string]SecurityFlags   `json:"security_settings"`
	RoutingConsistency      map[string]RoutingConsistency `json:"routing_consistency"`
	VLANConsistency         map[string]bool            `json:"vlan_consistency"`
	BestPracticesCheck      map[string][]string         `json:"best_practices_check"`
}

type ComplianceFlags struct {
	HostnameConfigured   bool `json:"hostname_configured"`
	InterfacesConfigured bool `json:"interfaces_configured"`
	RoutingConfigured    bool `json:"routing_configured"`
	SecurityConfigured   bool `json:"security_configured"`
}

type SecurityFlags struct {
	AccessListsConfigured bool `json:"access_lists_configured"`
	AuthenticationEnabled bool `json:"authentication_enabled"`
	EncryptionEnabled     bool `json:"encryption_enabled"`
	LoggingConfigured     bool `json:"logging_configured"`
}

type RoutingConsistency struct {
	OSPFConsistent     bool `json:"ospf_consistent"`
	BGPConsistent      bool `json:"bgp_consistent"`
	StaticRoutesValid  bool `json:"static_routes_valid"`
}

// runConfigValidation validates every device against fixed compliance
// and security baselines, and attaches the same corpus-wide
// best-practices findings to each device — the checks it runs
// (currently duplicate-IP detection, scoped by VLAN) are corpus-wide by
// nature, not per-device, so every device sees the identical finding
// set, matching the one global best-practices pass the original ran.
func (t *Tester) runConfigValidation() ConfigurationValidation {
	out := ConfigurationValidation{
		ConfigurationCompliance: make(map[string]ComplianceFlags),
		SecuritySettings:        make(map[string]SecurityFlags),
		RoutingConsistency:      make(map[string]RoutingConsistency),
		VLANConsistency:         make(map[string]bool),
		BestPracticesCheck:      make(map[string][]string),
	}

	findings := validate.Validate(t.Corpus, t.Graph)
	vlanIssues := findings[validate.CategoryVLANIssues]
	bestPractices := findings[validate.CategoryDuplicateIPs]

	for _, id := range t.Corpus.Order {
		dev := t.Corpus.Devices[id]
		out.ConfigurationCompliance[id] = ComplianceFlags{
			HostnameConfigured:   dev.Hostname != "",
			InterfacesConfigured: len(dev.Interfaces) > 0,
			RoutingConfigured:    dev.OSPF.Enabled || dev.BGP.Enabled || len(dev.StaticRoutes) > 0,
			SecurityConfigured:   true,
		}
		out.SecuritySettings[id] = SecurityFlags{
			AccessListsConfigured: true,
			AuthenticationEnabled: true,
			EncryptionEnabled:     true,
			LoggingConfigured:     true,
		}
		out.RoutingConsistency[id] = RoutingConsistency{
			OSPFConsistent:    dev.OSPF.Enabled,
			BGPConsistent:     dev.BGP.Enabled,
			StaticRoutesValid: true,
		}
		out.VLANConsistency[id] = !mentionsDevice(vlanIssues, id)
		out.BestPracticesCheck[id] = bestPractices
	}
	return out
}

func mentionsDevice(issues []string, deviceID string) bool {
	for _, issue := range issues {
		if strings.Contains(issue, deviceID) {
			return true
		}
	}
	return false
}

// ---------------- Redundancy ----------------

type RedundancyTests struct {
	PathRedundancy map[string]PathRedundancy `json:"path_redundancy"`
	FailoverTests  map[string]FailoverImpact `json:"failover_tests"`
	RecoveryTimesSeconds map[string]float64  `json:"recovery_times"`
}

type PathRedundancy struct {
	PrimaryPath []string   `json:"primary_path"`
	BackupPaths [][]string `json:"backup_paths"`
	PathCount   int        `json:"path_count"`
}

type FailoverImpact struct {
	Link          string `json:"link"`
	AffectedPairs int    `json:"affected_pairs"`
}

func (t *Tester) runRedundancyTests() RedundancyTests {
	out := RedundancyTests{
		PathRedundancy:       make(map[string]PathRedundancy),
		FailoverTests:        make(map[string]FailoverImpact),
		RecoveryTimesSeconds: make(map[string]float64),
	}

	devices := t.Graph.Nodes()
	for i := 0; i < len(devices); i++ {
		for j := i + 1; j < len(devices); j++ {
			src, dst := devices[i], devices[j]
			primary, backups := t.findPaths(src, dst)
			count := len(backups)
			if len(primary) > 0 {
				count++
			}
			out.PathRedundancy[src+"-"+dst] = PathRedundancy{
				PrimaryPath: primary,
				BackupPaths: backups,
				PathCount:   count,
			}
		}
	}

	for _, e := range t.criticalLinks() {
		key := e.A + "-" + e.B
		out.FailoverTests[key] = t.simulateLinkFailure(e.A, e.B)
		// RecoveryTimesSeconds repurposes the original's declared-but-
		// never-filled recovery_times key into a synthetic
		// reconvergence estimate for each critical link.
		out.RecoveryTimesSeconds[key] = 1.0 + t.rng.Float64()*4.0
	}
	return out
}

func (t *Tester) findPaths(src, dst string) ([]string, [][]string) {
	primary := t.shortestPath(src, dst)
	if len(primary) == 0 {
		return nil, nil
	}
	all := t.Graph.SimplePaths(src, dst, redundancyPathCutoff)
	var backups [][]string
	for _, p := range all {
		if samePath(p, primary) {
			continue
		}
		backups = append(backups, p)
		if len(backups) >= maxBackupPaths {
			break
		}
	}
	return primary, backups
}

func samePath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// criticalLinks returns every edge already flagged IsCritical by the
// topology builder's link-metrics pass — a link with zero alternative
// paths between its endpoints, equivalent to a graph bridge.
func (t *Tester) criticalLinks() []topology.Edge {
	var out []topology.Edge
	for _, e := range t.Graph.Edges() {
		if e.Attr != nil && e.Attr.IsCritical {
			out = append(out, e)
		}
	}
	return out
}

func (t *Tester) simulateLinkFailure(a, b string) FailoverImpact {
	impact := FailoverImpact{Link: a + "-" + b}
	if !t.Graph.HasEdge(a, b) {
		return impact
	}
	attr, _ := t.Graph.EdgeAttrOf(a, b)
	t.Graph.RemoveEdge(a, b)
	defer t.Graph.RestoreEdge(a, b, attr)

	nodes := t.Graph.Nodes()
	disconnected := 0
	limit := 10
	if limit > len(nodes) {
		limit = len(nodes)
	}
	for i := 0; i < limit; i++ {
		jMax := i + 6
		if jMax > len(nodes) {
			jMax = len(nodes)
		}
		for j := i + 1; j < jMax; j++ {
			if len(t.shortestPath(nodes[i], nodes[j])) == 0 {
				disconnected++
			}
		}
	}
	impact.AffectedPairs = disconnected
	return impact
}

// ---------------- Security ----------------

type SecurityValidation struct {
	AccessControl            map[string]map[string]bool   `json:"access_control"`
	Authentication           map[string]map[string]bool   `json:"authentication"`
	Encryption               map[string]map[string]bool   `json:"encryption"`
	VulnerabilityAssessment  map[string]map[string]string `json:"vulnerability_assessment"`
}

func (t *Tester) runSecurityValidation() SecurityValidation {
	out := SecurityValidation{
		AccessControl:           make(map[string]map[string]bool),
		Authentication:          make(map[string]map[string]bool),
		Encryption:              make(map[string]map[string]bool),
		VulnerabilityAssessment: make(map[string]map[string]string),
	}
	for _, id := range t.Corpus.Order {
		dev := t.Corpus.Devices[id]
		out.AccessControl[id] = map[string]bool{"acl_ok": true}
		out.Authentication[id] = map[string]bool{"aaa_ok": true}
		out.Encryption[id] = map[string]bool{"ssh_ok": true}
		risk := "low"
		if dev.IsHost() {
			risk = "medium"
		}
		out.VulnerabilityAssessment[id] = map[string]string{"risk": risk}
	}
	return out
}

// ---------------- Protocols ----------------

type ProtocolValidation struct {
	OSPFValidation      map[string]map[string]bool `json:"ospf_validation"`
	BGPValidation       map[string]map[string]bool `json:"bgp_validation"`
	SpanningTree        map[string]string           `json:"spanning_tree"`
	ProtocolConvergence map[string]float64          `json:"protocol_convergence"`
}

func (t *Tester) runProtocolValidation() ProtocolValidation {
	out := ProtocolValidation{
		OSPFValidation:      make(map[string]map[string]bool),
		BGPValidation:       make(map[string]map[string]bool),
		SpanningTree:        make(map[string]string),
		ProtocolConvergence: make(map[string]float64),
	}
	for _, id := range t.Corpus.Order {
		dev := t.Corpus.Devices[id]
		if dev.OSPF.Enabled {
			out.OSPFValidation[id] = map[string]bool{"neighbors_up": true}
			out.ProtocolConvergence[id] = 2.0 + t.rng.Float64()*8.0
		}
		if dev.BGP.Enabled {
			out.BGPValidation[id] = map[string]bool{"sessions_up": true}
		}
		if dev.HasSpanningTree() {
			out.SpanningTree[id] = dev.SpanningTreeMode
		}
	}
	return out
}

// ---------------- Capacity ----------------

type CapacityPlanning struct {
	CurrentUtilization     map[string]CapacityUtilization  `json:"current_utilization"`
	ProjectedGrowth        map[string]float64              `json:"projected_growth"`
	BottleneckAnalysis     map[string]BottleneckFlag       `json:"bottleneck_analysis"`
	ScalingRecommendations map[string][]string             `json:"scaling_recommendations"`
	GrowthProjection       map[string]EdgeGrowthProjection `json:"growth_projection"`
}

type CapacityUtilization struct {
	AvgUtilPercent float64 `json:"avg_util_percent"`
}

type BottleneckFlag struct {
	Bottleneck bool `json:"bottleneck"`
}

// EdgeGrowthProjection projects a link's utilization forward assuming
// 10%-per-quarter compounding growth, supplementing spec.md's capacity
// section with the per-edge projection SPEC_FULL.md adds.
type EdgeGrowthProjection struct {
	CurrentPercent    float64 `json:"current_percent"`
	Projected6MoPercent  float64 `json:"projected_6mo_percent"`
	Projected12MoPercent float64 `json:"projected_12mo_percent"`
}

func (t *Tester) runCapacityPlanning() CapacityPlanning {
	out := CapacityPlanning{
		CurrentUtilization:     make(map[string]CapacityUtilization),
		ProjectedGrowth:        make(map[string]float64),
		BottleneckAnalysis:     make(map[string]BottleneckFlag),
		ScalingRecommendations: make(map[string][]string),
		GrowthProjection:       make(map[string]EdgeGrowthProjection),
	}

	criticalDevices := make(map[string]bool)
	for _, e := range t.criticalLinks() {
		criticalDevices[e.A] = true
		criticalDevices[e.B] = true
	}

	for _, id := range t.Graph.Nodes() {
		util := 20 + t.rng.Float64()*40
		out.CurrentUtilization[id] = CapacityUtilization{AvgUtilPercent: util}
		out.ProjectedGrowth[id] = util * quarterlyGrowthFactor
		out.BottleneckAnalysis[id] = BottleneckFlag{Bottleneck: criticalDevices[id]}
		recs := []string{"Monitor utilization trend"}
		if criticalDevices[id] {
			recs = append(recs, "Add a redundant link to remove this single point of failure")
		}
		out.ScalingRecommendations[id] = recs
	}

	for _, e := range t.Graph.Edges() {
		if e.Attr == nil {
			continue
		}
		key := e.A + "-" + e.B
		current := e.Attr.UtilizationPercent
		out.GrowthProjection[key] = EdgeGrowthProjection{
			CurrentPercent:       current,
			Projected6MoPercent:  current * math.Pow(quarterlyGrowthFactor, 2),
			Projected12MoPercent: current * math.Pow(quarterlyGrowthFactor, 4),
		}
	}
	return out
}

// ---------------- Baseline ----------------

type BaselineComparison struct {
	Status              string   `json:"status,omitempty"`
	PerformanceDeltaPercent float64 `json:"performance_delta_percent,omitempty"`
	ConfigurationDrift   bool     `json:"configuration_drift,omitempty"`
	TopologyChanges      int      `json:"topology_changes,omitempty"`
	Alerts               []string `json:"alerts,omitempty"`
}

func (t *Tester) compareBaseline(current CapacityPlanning) BaselineComparison {
	if len(t.Baseline) == 0 {
		return BaselineComparison{Status: "No baseline available"}
	}
	var deltaSum float64
	var n int
	for id, util := range current.CurrentUtilization {
		if base, ok := t.Baseline[id]; ok {
			deltaSum += util.AvgUtilPercent - base
			n++
		}
	}
	var delta float64
	if n > 0 {
		delta = deltaSum / float64(n)
	}
	return BaselineComparison{
		PerformanceDeltaPercent: delta,
		ConfigurationDrift:      false,
		TopologyChanges:         0,
		Alerts:                  []string{},
	}
}

// ---------------- Report assembly ----------------

// Run executes every test section and assembles the final report.
func (t *Tester) Run() *Report {
	netutil.Info("running Day-2 comprehensive test suite")

	connectivity := t.runConnectivityTests()
	performance := t.runPerformanceTests()
	configValidation := t.runConfigValidation()
	redundancy := t.runRedundancyTests()
	security := t.runSecurityValidation()
	protocols := t.runProtocolValidation()
	capacity := t.runCapacityPlanning()
	baseline := t.compareBaseline(capacity)

	detailed := DetailedResults{
		ConnectivityTests:       connectivity,
		PerformanceTests:        performance,
		ConfigurationValidation: configValidation,
		RedundancyTests:         redundancy,
		SecurityValidation:      security,
		ProtocolValidation:      protocols,
		CapacityPlanning:        capacity,
		BaselineComparison:      baseline,
	}

	total, failed, warnings := countChecks(&detailed)
	passed := total - failed - warnings
	if passed < 0 {
		passed = 0
	}

	now := t.Now()
	report := &Report{
		TestExecutionTime: now.Format(time.RFC3339),
		TestSummary: TestSummary{
			TotalTests:  total,
			PassedTests: passed,
			FailedTests: failed,
			Warnings:    warnings,
		},
		DetailedResults:  detailed,
		Recommendations:  generateRecommendations(),
		NextTestSchedule: now.Add(nextTestSchedule).Format(time.RFC3339),
	}
	netutil.Info("Day-2 test suite complete")
	return report
}

// countChecks tallies real pass/fail/warning counts from the assembled
// results, replacing the original's hardcoded 85/10/5 placeholder
// counts with a genuine accounting of the checks actually run.
func countChecks(r *DetailedResults) (total, failed, warnings int) {
	for _, row := range r.ConnectivityTests.ReachabilityMatrix {
		for _, reachable := range row {
			total++
			if !reachable {
				failed++
			}
		}
	}

	for _, bw := range r.PerformanceTests.BandwidthUtilization {
		total++
		if bw.PeakUtilPercent > 90 {
			warnings++
		}
	}

	for _, c := range r.ConfigurationValidation.ConfigurationCompliance {
		total += 2
		if !c.HostnameConfigured {
			failed++
		}
		if !c.InterfacesConfigured {
			failed++
		}
	}
	for _, issues := range r.ConfigurationValidation.BestPracticesCheck {
		total++
		warnings += len(issues)
		break // corpus-wide findings are identical across devices
	}

	for _, pr := range r.RedundancyTests.PathRedundancy {
		total++
		switch pr.PathCount {
		case 0:
			failed++
		case 1:
			warnings++
		}
	}
	for _, impact := range r.RedundancyTests.FailoverTests {
		total++
		if impact.AffectedPairs > 0 {
			warnings++
		}
	}

	for _, v := range r.SecurityValidation.VulnerabilityAssessment {
		total++
		if v["risk"] == "medium" {
			warnings++
		}
	}

	total += len(r.ProtocolValidation.OSPFValidation) + len(r.ProtocolValidation.BGPValidation)

	for _, b := range r.CapacityPlanning.BottleneckAnalysis {
		total++
		if b.Bottleneck {
			warnings++
		}
	}

	return total, failed, warnings
}

func generateRecommendations() []string {
	return []string{
		"Consider upgrading bandwidth on high-utilization links",
		"Implement additional redundancy for critical paths",
		"Review security configurations for compliance",
		"Optimize OSPF areas for better convergence",
		"Schedule regular configuration backups",
		"Monitor temperature on high-usage devices",
		"Consider load balancing for traffic distribution",
	}
}
