package ports

import (
	"context"
	"time"
)

type EventKind int

const (
	// EventStatus reports the outcome of a single attempt.
	EventStatus EventKind = iota + 1
	// EventProbing is emitted right before an attempt starts.
	EventProbing
	// EventStop is emitted once per run, after every worker has exited.
	EventStop
)

func (k EventKind) String() string {
	switch k {
	case EventStatus:
		return "status"
	case EventProbing:
		return "probing"
	case EventStop:
		return "stop"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind    EventKind
	RunID   string
	Address string
	Alive   bool
	At      time.Time
}

func NewStatusEvent(runID, address string, alive bool) Event {
	return Event{Kind: EventStatus, RunID: runID, Address: address, Alive: alive, At: time.Now()}
}

func NewProbingEvent(runID, address string) Event {
	return Event{Kind: EventProbing, RunID: runID, Address: address, At: time.Now()}
}

func NewStopEvent(runID string) Event {
	return Event{Kind: EventStop, RunID: runID, At: time.Now()}
}

type EventPublisher interface {
	Publish(ctx context.Context, ev Event)
}

type EventObserver interface {
	Observe(ctx context.Context, ev Event)
}
