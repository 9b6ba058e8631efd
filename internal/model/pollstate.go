package model

import "time"

// PollStatus tags which PollState variant holds.
type PollStatus int

const (
	PollLoading PollStatus = iota
	PollReady
	PollError
)

// String returns a human-readable status.
func (s PollStatus) String() string {
	switch s {
	case PollLoading:
		return "loading"
	case PollReady:
		return "ready"
	case PollError:
		return "error"
	default:
		return "unknown"
	}
}

// PollState is the view-model published by the polling controller.
// Snapshot is set only when Ready and Err only when Error.
type PollState struct {
	Status   PollStatus
	Snapshot *MetricsSnapshot
	Err      string
	At       time.Time
}

// Loading returns the state shown while a poll is in flight.
func Loading(at time.Time) PollState {
	return PollState{Status: PollLoading, At: at}
}

// Ready wraps a complete snapshot. The snapshot is copied.
func Ready(s MetricsSnapshot, at time.Time) PollState {
	return PollState{Status: PollReady, Snapshot: &s, At: at}
}

// Failed records a poll failure; any previous snapshot is not carried over.
func Failed(err error, at time.Time) PollState {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return PollState{Status: PollError, Err: msg, At: at}
}

// IsReady reports whether a snapshot is available.
func (s PollState) IsReady() bool {
	return s.Status == PollReady && s.Snapshot != nil
}
