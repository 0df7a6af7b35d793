package simengine

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/netsim-forge/netsim/pkg/ingest"
	"github.com/netsim-forge/netsim/pkg/metrics"
	"github.com/netsim-forge/netsim/pkg/netutil"
	"github.com/netsim-forge/netsim/pkg/topology"
)

const deliveryQueueCapacity = 10000

// Engine coordinates a set of agents over a live topology: it owns the
// delivery fabric (one worker moving outbound messages to graph
// neighbors' inbound queues), fault injection, and lifecycle control.
type Engine struct {
	mu       sync.RWMutex
	agents   map[string]*Agent
	topology *topology.Graph

	// delivery is a per-node staging buffer the fabric worker writes
	// into before handing a message to the agent's own smaller inbound
	// queue. It exists to absorb bursts from multiple simultaneous
	// senders without the single fabric worker blocking on one
	// congested agent — the capacity spec.md's contract names for it.
	delivery map[string]chan *Message

	metrics *metrics.EngineMetrics

	running bool
	paused  bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New builds an engine with one agent per device in corpus, wired
// against the live topology graph.
func New(corpus *ingest.Corpus, graph *topology.Graph) *Engine {
	e := &Engine{
		agents:   make(map[string]*Agent, len(corpus.Devices)),
		topology: graph,
		delivery: make(map[string]chan *Message, len(corpus.Devices)),
		metrics:  metrics.NewEngineMetrics(prometheus.NewRegistry()),
	}
	for _, id := range corpus.Order {
		dev := corpus.Devices[id]
		e.agents[id] = NewAgent(dev)
		e.delivery[id] = make(chan *Message, deliveryQueueCapacity)
	}
	return e
}

// SetMetrics overrides the engine's Prometheus metrics sink, letting
// callers share a single registry across multiple engines in tests.
func (e *Engine) SetMetrics(m *metrics.EngineMetrics) {
	if m != nil {
		e.metrics = m
	}
}

// Start launches every agent goroutine, the delivery fabric, and the
// per-node forwarder goroutines. ctx cancellation stops the engine the
// same way Stop does.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.mu.Unlock()

	netutil.Info("starting network simulation")

	for id, agent := range e.agents {
		agent := agent
		agent.markStarting()
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			agent.Run()
		}()
		e.wg.Add(1)
		go func(nodeID string, a *Agent) {
			defer e.wg.Done()
			e.forwardDelivery(ctx, nodeID, a)
		}(id, agent)
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.routePackets(ctx)
	}()
}

// forwardDelivery drains one node's staging buffer into its agent
// inbound queue, dropping (and counting) when the inbound queue is
// already full.
func (e *Engine) forwardDelivery(ctx context.Context, nodeID string, agent *Agent) {
	queue := e.delivery[nodeID]
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-queue:
			select {
			case agent.Inbound <- msg:
			default:
				agent.mu.Lock()
				agent.stats.PacketsDropped++
				agent.mu.Unlock()
				e.metrics.RecordDrop()
			}
		}
	}
}

// routePackets is the single delivery worker: it drains every agent's
// outbound queue and fans each message out to the sender's current
// graph neighbors, per the live topology.
func (e *Engine) routePackets(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.mu.RLock()
			paused := e.paused
			e.mu.RUnlock()
			if paused {
				continue
			}
			for nodeID, agent := range e.agents {
				e.drainOutbound(nodeID, agent)
			}
		}
	}
}

func (e *Engine) drainOutbound(nodeID string, agent *Agent) {
	for {
		select {
		case msg := <-agent.Outbound:
			e.deliverPacket(msg, nodeID)
			e.metrics.RecordDelivered()
		default:
			return
		}
	}
}

// deliverPacket fans msg out to every current graph neighbor of
// sender. A neighbor whose staging buffer is full causes a drop
// attributed to the sender's counter, matching the original fabric's
// single "sender-side" drop accounting.
func (e *Engine) deliverPacket(msg *Message, sender string) {
	for _, neighbor := range e.topology.NeighborIDs(sender) {
		queue, ok := e.delivery[neighbor]
		if !ok {
			continue
		}
		select {
		case queue <- msg:
		default:
			e.mu.RLock()
			senderAgent := e.agents[sender]
			e.mu.RUnlock()
			if senderAgent != nil {
				senderAgent.mu.Lock()
				senderAgent.stats.PacketsDropped++
				senderAgent.mu.Unlock()
			}
			e.metrics.RecordDrop()
		}
	}
}

// Pause idempotently suspends every agent and the delivery fabric.
func (e *Engine) Pause() {
	e.mu.Lock()
	e.paused = true
	e.mu.Unlock()
	for _, agent := range e.agents {
		agent.Pause()
	}
	e.metrics.SetPausedNodes(len(e.agents))
	netutil.Info("simulation paused")
}

// Resume idempotently un-suspends every agent and the delivery fabric.
func (e *Engine) Resume() {
	e.mu.Lock()
	e.paused = false
	e.mu.Unlock()
	for _, agent := range e.agents {
		agent.Resume()
	}
	e.metrics.SetPausedNodes(0)
	netutil.Info("simulation resumed")
}

// Stop idempotently halts every agent goroutine and the delivery fabric,
// then waits for all to exit. A control plane is closed separately.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	cancel := e.cancel
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, agent := range e.agents {
		agent.Stop()
	}
	e.wg.Wait()
	netutil.Info("simulation stopped")
}

// InjectLinkFailure removes the live edge between a and b and enqueues
// a synthetic LINK_FAILURE message on a's inbound queue. Idempotent:
// failing an already-absent link is a no-op.
func (e *Engine) InjectLinkFailure(a, b string) {
	if !e.topology.HasEdge(a, b) {
		return
	}
	e.topology.RemoveEdge(a, b)
	netutil.WithEdge(a, b).Info("link failure injected")

	agent, ok := e.agents[a]
	if !ok {
		return
	}
	msg := NewMessage(KindLinkFailure)
	msg.SourceMAC, msg.DestMAC = "00:00:00:00:00:00", agent.MAC
	msg.SourceIP = "0.0.0.0"
	if len(agent.IPs) > 0 {
		msg.DestIP = agent.IPs[0]
	} else {
		msg.DestIP = "0.0.0.0"
	}
	msg.Payload = map[string]interface{}{"failed_neighbor": b}
	select {
	case agent.Inbound <- msg:
	default:
	}
}

// RestoreLink re-adds a previously failed edge. Idempotent: restoring
// an already-present link is a no-op.
func (e *Engine) RestoreLink(a, b string) {
	if e.topology.HasEdge(a, b) {
		return
	}
	e.topology.RestoreEdge(a, b, &topology.EdgeAttr{LinkType: topology.LinkTypeSubnet})
	netutil.WithEdge(a, b).Info("link restored")
}

// GetSimulationStatistics returns an overall snapshot: per-node
// statistics plus engine-wide running/paused/topology counts.
func (e *Engine) GetSimulationStatistics() map[string]interface{} {
	e.mu.RLock()
	running, paused := e.running, e.paused
	e.mu.RUnlock()

	nodeStats := make(map[string]interface{}, len(e.agents))
	for id, agent := range e.agents {
		nodeStats[id] = agent.GetStatistics()
	}
	return map[string]interface{}{
		"running":         running,
		"paused":          paused,
		"total_nodes":     len(e.agents),
		"total_links":     len(e.topology.Edges()),
		"node_statistics": nodeStats,
	}
}

// Agent returns the agent for id, for tests and day1/day2 drivers that
// need direct access (e.g. asserting OSPF-neighbor completeness).
func (e *Engine) Agent(id string) (*Agent, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.agents[id]
	return a, ok
}
