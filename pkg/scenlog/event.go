// Package scenlog provides append-only logging of simulation lifecycle
// events: Day-1/Day-2 driver steps, fault injections, and control-plane
// commands, queryable after the fact for diagnostics.
package scenlog

import (
	"fmt"
	"time"
)

// Event represents one recorded scenario event.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Device    string    `json:"device"`
	Operation string    `json:"operation"`
	Service   string    `json:"service,omitempty"`
	Interface string    `json:"interface,omitempty"`

	Details map[string]interface{} `json:"details,omitempty"`

	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	ExecuteMode bool          `json:"execute_mode"`
	DryRun      bool          `json:"dry_run"`
	Duration    time.Duration `json:"duration"`
	ClientIP    string        `json:"client_ip,omitempty"`
	SessionID   string        `json:"session_id,omitempty"`
}

// EventType categorizes scenario events.
type EventType string

const (
	EventTypeConnect    EventType = "connect"
	EventTypeDisconnect EventType = "disconnect"
	EventTypeLock       EventType = "lock"
	EventTypeUnlock     EventType = "unlock"
	EventTypePreview    EventType = "preview"
	EventTypeExecute    EventType = "execute"
	EventTypeRollback   EventType = "rollback"
)

// Severity indicates the importance of a scenario event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Filter defines criteria for querying scenario events.
type Filter struct {
	Device      string
	User        string
	Operation   string
	Service     string
	Interface   string
	StartTime   time.Time
	EndTime     time.Time
	SuccessOnly bool
	FailureOnly bool
	Limit       int
	Offset      int
}

// NewEvent creates a new scenario event.
func NewEvent(user, device, operation string) *Event {
	return &Event{
		ID:        generateID(),
		Timestamp: time.Now(),
		User:      user,
		Device:    device,
		Operation: operation,
	}
}

// WithService sets the service name.
func (e *Event) WithService(service string) *Event {
	e.Service = service
	return e
}

// WithInterface sets the interface name.
func (e *Event) WithInterface(iface string) *Event {
	e.Interface = iface
	return e
}

// WithDetails attaches free-form event detail (e.g. the fault-injection
// edge endpoints, or a Day-1/Day-2 step's intermediate counts).
func (e *Event) WithDetails(details map[string]interface{}) *Event {
	e.Details = details
	return e
}

// WithSuccess marks the event as successful.
func (e *Event) WithSuccess() *Event {
	e.Success = true
	return e
}

// WithError marks the event as failed.
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithDuration sets the operation duration.
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

// WithExecuteMode marks whether the event ran against the live simulation
// (as opposed to a dry preview).
func (e *Event) WithExecuteMode(execute bool) *Event {
	e.ExecuteMode = execute
	e.DryRun = !execute
	return e
}

func generateID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
