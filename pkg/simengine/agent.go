package simengine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/netsim-forge/netsim/pkg/model"
	"github.com/netsim-forge/netsim/pkg/netutil"
)

const (
	inboundCapacity  = 1000
	outboundCapacity = 1000
	idleInterval     = 100 * time.Millisecond
	ospfHelloPeriod  = 10 * time.Second
	arpEvictAge      = 5 * time.Minute
	arpSweepPeriod   = 30 * time.Second
	recentPacketCap  = 200
)

// Statistics is the snapshot returned by GetStatistics — a copy, never
// a reference, so control-plane readers can't race with the agent.
type Statistics struct {
	PacketsSent     int
	PacketsReceived int
	PacketsDropped  int
	UptimeSeconds   float64
}

// arpEntry is one cached MAC for a neighbor IP.
type arpEntry struct {
	MAC  string
	Seen time.Time
}

// recentPacket is one entry in an agent's diagnostic ring buffer.
type recentPacket struct {
	Direction string // "sent" or "received"
	Kind      Kind
	Peer      string
	At        time.Time
}

// Agent is one device's simulated execution context: a goroutine
// draining a bounded inbound queue, running periodic protocol tasks,
// and publishing to a bounded outbound queue for the delivery fabric.
type Agent struct {
	NodeID     string
	DeviceType model.DeviceKind
	MAC        string
	IPs        []string

	Inbound  chan *Message
	Outbound chan *Message

	mu           sync.Mutex
	arpTable     map[string]arpEntry
	routeTable   map[string]string // destination prefix -> next hop
	ospfNeighbor map[string]string
	bgpSession   map[string]int
	stats        Statistics
	startedAt    time.Time
	recent       []recentPacket

	running bool
	paused  bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewAgent builds an agent for dev, deriving its MAC and local IP set
// from the device's configured interfaces.
func NewAgent(dev *model.Device) *Agent {
	a := &Agent{
		NodeID:       dev.ID,
		DeviceType:   dev.Kind,
		MAC:          generateMAC(),
		IPs:          deviceIPs(dev),
		Inbound:      make(chan *Message, inboundCapacity),
		Outbound:     make(chan *Message, outboundCapacity),
		arpTable:     make(map[string]arpEntry),
		routeTable:   make(map[string]string),
		ospfNeighbor: make(map[string]string),
		bgpSession:   make(map[string]int),
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
	for _, r := range dev.StaticRoutes {
		a.routeTable[r.Destination] = r.NextHop
	}
	return a
}

func generateMAC() string {
	b := []byte{0x00, 0x16, 0x3e, byte(rand.Intn(0x80)), byte(rand.Intn(0x100)), byte(rand.Intn(0x100))}
	const hex = "0123456789abcdef"
	out := make([]byte, 0, 17)
	for i, v := range b {
		if i > 0 {
			out = append(out, ':')
		}
		out = append(out, hex[v>>4], hex[v&0xf])
	}
	return string(out)
}

func deviceIPs(dev *model.Device) []string {
	var ips []string
	for _, iface := range dev.Interfaces {
		if iface.HasAddress() {
			ips = append(ips, iface.Address)
		}
	}
	return ips
}

// markStarting flags the agent as running before its goroutine is
// scheduled. Engine.Start calls this synchronously so a Stop() call
// racing ahead of the scheduler still observes running==true and
// closes stopCh, instead of no-oping against a goroutine that hasn't
// reached Run() yet and would then loop forever on a stopCh nobody
// closes.
func (a *Agent) markStarting() {
	a.mu.Lock()
	a.running = true
	a.mu.Unlock()
}

// Run starts the agent's main loop. It blocks until Stop is called or
// stopCh is closed; callers run it in its own goroutine, after calling
// markStarting.
func (a *Agent) Run() {
	a.mu.Lock()
	a.running = true
	a.startedAt = time.Now()
	a.mu.Unlock()
	netutil.WithNode(a.NodeID).Info("agent started")

	ticker := time.NewTicker(idleInterval)
	defer ticker.Stop()
	defer close(a.doneCh)

	for {
		select {
		case <-a.stopCh:
			netutil.WithNode(a.NodeID).Info("agent stopped")
			return
		case <-ticker.C:
			a.mu.Lock()
			paused := a.paused
			a.mu.Unlock()
			if paused {
				continue
			}
			a.processInbound()
			a.periodicTasks()
			a.updateUptime()
		}
	}
}

func (a *Agent) processInbound() {
	for {
		select {
		case msg := <-a.Inbound:
			a.handleMessage(msg)
			a.mu.Lock()
			a.stats.PacketsReceived++
			a.recordRecent("received", msg)
			a.mu.Unlock()
		default:
			return
		}
	}
}

func (a *Agent) handleMessage(msg *Message) {
	switch msg.Kind {
	case KindARP:
		a.handleARP(msg)
	case KindOSPF:
		a.handleOSPF(msg)
	case KindBGP:
		a.handleBGP(msg)
	case KindData:
		a.handleData(msg)
	case KindLinkFailure:
		// Delivered to the inbound queue so higher-layer day1/day2
		// scenarios can observe it; no agent-local state change.
	}
}

func (a *Agent) handleARP(msg *Message) {
	if req, _ := msg.Payload["request"].(bool); req {
		if target, _ := msg.Payload["target_ip"].(string); target != "" && a.hasIP(target) {
			reply := NewMessage(KindARP)
			reply.SourceMAC, reply.DestMAC = a.MAC, msg.SourceMAC
			reply.SourceIP, reply.DestIP = target, msg.SourceIP
			reply.Payload = map[string]interface{}{"reply": true, "mac": a.MAC}
			a.send(reply)
		}
	}
	a.mu.Lock()
	a.arpTable[msg.SourceIP] = arpEntry{MAC: msg.SourceMAC, Seen: time.Now()}
	a.mu.Unlock()
}

func (a *Agent) hasIP(ip string) bool {
	for _, v := range a.IPs {
		if v == ip {
			return true
		}
	}
	return false
}

func (a *Agent) handleOSPF(msg *Message) {
	if a.DeviceType != model.DeviceKindRouter {
		return
	}
	routerID, _ := msg.Payload["router_id"].(string)
	if routerID == "" {
		return
	}
	a.mu.Lock()
	a.ospfNeighbor[routerID] = msg.SourceIP
	a.mu.Unlock()
}

func (a *Agent) handleBGP(msg *Message) {
	if a.DeviceType != model.DeviceKindRouter {
		return
	}
	asNum, ok := msg.Payload["as_number"].(int)
	if !ok {
		return
	}
	a.mu.Lock()
	a.bgpSession[msg.SourceIP] = asNum
	a.mu.Unlock()
}

func (a *Agent) handleData(msg *Message) {
	if a.hasIP(msg.DestIP) {
		return
	}
	a.forward(msg)
}

// forward looks up the next hop using the simulation's simplified
// routing lookup: a 7-character prefix compare, not longest-prefix
// match. This is a simulation-only shortcut, not a protocol model.
func (a *Agent) forward(msg *Message) {
	nextHop := a.lookupRoute(msg.DestIP)
	if nextHop == "" {
		return
	}
	msg.TTL--
	if msg.TTL <= 0 {
		a.mu.Lock()
		a.stats.PacketsDropped++
		a.mu.Unlock()
		return
	}
	a.send(msg)
}

func (a *Agent) lookupRoute(destIP string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	for route, nextHop := range a.routeTable {
		prefix := route
		if len(prefix) > 7 {
			prefix = prefix[:7]
		}
		if len(destIP) >= len(prefix) && destIP[:len(prefix)] == prefix {
			return nextHop
		}
	}
	return ""
}

func (a *Agent) periodicTasks() {
	now := time.Now()
	if a.DeviceType == model.DeviceKindRouter && now.UnixMilli()%ospfHelloPeriod.Milliseconds() < idleInterval.Milliseconds() {
		a.sendHello()
	}
	if now.UnixMilli()%arpSweepPeriod.Milliseconds() < idleInterval.Milliseconds() {
		a.cleanupARP()
	}
}

func (a *Agent) sendHello() {
	hello := NewMessage(KindOSPF)
	hello.SourceMAC, hello.DestMAC = a.MAC, "ff:ff:ff:ff:ff:ff"
	if len(a.IPs) > 0 {
		hello.SourceIP = a.IPs[0]
	} else {
		hello.SourceIP = "0.0.0.0"
	}
	hello.DestIP = "224.0.0.5"
	hello.Payload = map[string]interface{}{"hello": true, "router_id": a.NodeID, "area": "0.0.0.0"}
	a.send(hello)
}

// SeedARPEntry inserts a synthetic ARP cache entry keyed by neighborID,
// used by the Day-1 driver's bring-up sequence to pre-populate every
// agent's cache for its current graph neighbors.
func (a *Agent) SeedARPEntry(neighborID, mac string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.arpTable[neighborID] = arpEntry{MAC: mac, Seen: time.Now()}
}

// HasARPEntry reports whether the agent's ARP cache holds an entry keyed
// by key (a neighbor IP, or a neighbor id seeded by SeedARPEntry).
func (a *Agent) HasARPEntry(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.arpTable[key]
	return ok
}

func (a *Agent) cleanupARP() {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := time.Now()
	for ip, entry := range a.arpTable {
		if now.Sub(entry.Seen) > arpEvictAge {
			delete(a.arpTable, ip)
		}
	}
}

// send enqueues msg on the outbound queue, non-blocking. A full
// outbound queue counts as a drop, matching the engine's fabric-side
// drop-on-full rule.
func (a *Agent) send(msg *Message) {
	select {
	case a.Outbound <- msg:
		a.mu.Lock()
		a.stats.PacketsSent++
		a.recordRecent("sent", msg)
		a.mu.Unlock()
	default:
		a.mu.Lock()
		a.stats.PacketsDropped++
		a.mu.Unlock()
	}
}

func (a *Agent) recordRecent(direction string, msg *Message) {
	peer := msg.DestIP
	if direction == "received" {
		peer = msg.SourceIP
	}
	a.recent = append(a.recent, recentPacket{Direction: direction, Kind: msg.Kind, Peer: peer, At: time.Now()})
	if len(a.recent) > recentPacketCap {
		a.recent = a.recent[len(a.recent)-recentPacketCap:]
	}
}

func (a *Agent) updateUptime() {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := time.Now()
	a.stats.UptimeSeconds = now.Sub(a.startedAt).Seconds()
}

// Pause idempotently suspends message processing and periodic tasks.
func (a *Agent) Pause() {
	a.mu.Lock()
	a.paused = true
	a.mu.Unlock()
	netutil.WithNode(a.NodeID).Info("agent paused")
}

// Resume idempotently un-suspends the agent.
func (a *Agent) Resume() {
	a.mu.Lock()
	a.paused = false
	a.mu.Unlock()
	netutil.WithNode(a.NodeID).Info("agent resumed")
}

// Stop idempotently halts the agent's goroutine. Safe to call more
// than once; the second call is a no-op.
func (a *Agent) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	a.mu.Unlock()
	close(a.stopCh)
	<-a.doneCh
}

// GetStatistics returns a point-in-time snapshot copy, never a
// reference into agent-owned state.
func (a *Agent) GetStatistics() map[string]interface{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	recent := make([]map[string]interface{}, 0, len(a.recent))
	for _, p := range a.recent {
		recent = append(recent, map[string]interface{}{
			"direction": p.Direction,
			"kind":      string(p.Kind),
			"peer":      p.Peer,
		})
	}
	return map[string]interface{}{
		"node_id":            a.NodeID,
		"device_type":        a.DeviceType.String(),
		"statistics":         a.stats,
		"arp_table_size":     len(a.arpTable),
		"routing_table_size": len(a.routeTable),
		"recent_packets":     recent,
	}
}
