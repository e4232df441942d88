// Package notifier defines the engine's outbound interface (spec §4.7):
// broadcasting full state snapshots and sending targeted per-player events.
// The engine depends only on this interface; internal/ports/nakama supplies
// the concrete transport adapter.
package notifier

import "recall/internal/domain"

// Notifier is the abstract outbound collaborator the Turn/Phase Engine
// invokes after any state-mutating batch completes.
type Notifier interface {
	// BroadcastState emits a full table snapshot to every participant.
	BroadcastState(table *domain.Table)
	// SendToPlayer emits a targeted event to one player, by id.
	SendToPlayer(playerID, eventName string, payload any)
}

// Recorder is a Notifier test double that records every call instead of
// delivering it anywhere, for assertions in engine tests.
type Recorder struct {
	Broadcasts []*domain.Table
	Targeted   []TargetedEvent
}

// TargetedEvent captures one SendToPlayer call.
type TargetedEvent struct {
	PlayerID  string
	EventName string
	Payload   any
}

// NewRecorder constructs an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) BroadcastState(table *domain.Table) {
	r.Broadcasts = append(r.Broadcasts, table)
}

func (r *Recorder) SendToPlayer(playerID, eventName string, payload any) {
	r.Targeted = append(r.Targeted, TargetedEvent{PlayerID: playerID, EventName: eventName, Payload: payload})
}
