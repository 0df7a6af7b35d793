package simengine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"

	"golang.org/x/crypto/bcrypt"

	"github.com/netsim-forge/netsim/pkg/netutil"
)

// ControlPlane is the loopback TCP listener external clients use to
// query statistics and toggle per-agent pause state.
type ControlPlane struct {
	engine     *Engine
	listener   net.Listener
	tokenHash  []byte // set only when auth is required
	requireTok bool
}

// NewControlPlane binds a listener on an OS-chosen loopback port and
// logs the startup line external tooling greps for.
func NewControlPlane(engine *Engine) (*ControlPlane, error) {
	return NewControlPlaneAt(engine, "127.0.0.1:0")
}

// NewControlPlaneAt binds the listener at addr, letting callers honor a
// configured bind address instead of the OS-chosen loopback default.
func NewControlPlaneAt(engine *Engine, addr string) (*ControlPlane, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	cp := &ControlPlane{engine: engine, listener: ln}
	netutil.Infof("IPC server listening on port %d", ln.Addr().(*net.TCPAddr).Port)
	return cp, nil
}

// RequireToken enables shared-token authentication: every request must
// carry a "token" field matching the configured plaintext token.
// Absent a call to RequireToken, the listener accepts all clients.
func (cp *ControlPlane) RequireToken(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	cp.tokenHash = hash
	cp.requireTok = true
	return nil
}

// Port returns the bound listener's port.
func (cp *ControlPlane) Port() int {
	return cp.listener.Addr().(*net.TCPAddr).Port
}

// Serve accepts connections until the listener is closed.
func (cp *ControlPlane) Serve() {
	for {
		conn, err := cp.listener.Accept()
		if err != nil {
			return
		}
		go cp.handleConn(conn)
	}
}

// Close stops accepting new connections.
func (cp *ControlPlane) Close() error {
	return cp.listener.Close()
}

func (cp *ControlPlane) handleConn(conn net.Conn) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	for {
		var req map[string]interface{}
		err := dec.Decode(&req)
		switch {
		case errors.Is(err, io.EOF):
			return
		case err != nil:
			if encErr := enc.Encode(map[string]interface{}{"error": "Invalid JSON"}); encErr != nil {
				return
			}
			continue
		}
		resp := cp.process(req)
		if err := enc.Encode(resp); err != nil {
			return
		}
	}
}

func (cp *ControlPlane) process(req map[string]interface{}) map[string]interface{} {
	if cp.requireTok {
		token, _ := req["token"].(string)
		if bcrypt.CompareHashAndPassword(cp.tokenHash, []byte(token)) != nil {
			return map[string]interface{}{"error": "unauthorized"}
		}
	}

	cmdType, _ := req["type"].(string)
	switch cmdType {
	case "get_statistics":
		return map[string]interface{}{"statistics": cp.statsByNode()}
	case "pause_node":
		return cp.toggleNode(req, true)
	case "resume_node":
		return cp.toggleNode(req, false)
	default:
		return map[string]interface{}{"error": "Unknown command"}
	}
}

func (cp *ControlPlane) statsByNode() map[string]interface{} {
	out := make(map[string]interface{})
	cp.engine.mu.RLock()
	defer cp.engine.mu.RUnlock()
	for id, agent := range cp.engine.agents {
		out[id] = agent.GetStatistics()
	}
	return out
}

func (cp *ControlPlane) toggleNode(req map[string]interface{}, pause bool) map[string]interface{} {
	nodeID, _ := req["node_id"].(string)
	agent, ok := cp.engine.Agent(nodeID)
	if !ok {
		return map[string]interface{}{"error": fmt.Sprintf("unknown node: %s", nodeID)}
	}
	if pause {
		agent.Pause()
		return map[string]interface{}{"result": "paused"}
	}
	agent.Resume()
	return map[string]interface{}{"result": "resumed"}
}
