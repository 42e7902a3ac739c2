package models

type Status string

const (
	StatusPending      Status = "PENDING"
	StatusTranscribing Status = "TRANSCRIBING"
	StatusAnalyzing    Status = "ANALYZING"
	StatusCompleted    Status = "COMPLETED"
	StatusFailed       Status = "FAILED"
)

// validNext encodes the run state machine. FAILED and TRANSCRIBING can go
// back to PENDING via retry; COMPLETED is terminal (a completed session is
// re-processed only by deleting and re-uploading, never by retry).
var validNext = map[Status][]Status{
	StatusPending:      {StatusTranscribing, StatusPending},
	StatusTranscribing: {StatusAnalyzing, StatusFailed, StatusPending},
	StatusAnalyzing:    {StatusCompleted, StatusFailed},
	StatusFailed:       {StatusPending},
	StatusCompleted:    {},
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

// Terminal reports whether a run ends in this status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Retryable reports whether a retry may be accepted from this status.
// ANALYZING is deliberately absent: a stuck ANALYZING session is not
// retryable. That asymmetry is the shipped contract; do not "fix" it here
// without a product decision.
func (s Status) Retryable() bool {
	switch s {
	case StatusPending, StatusFailed, StatusTranscribing:
		return true
	}
	return false
}

// CanTransition validates a status write against the state machine.
// Same-state writes are allowed; at-least-once delivery means a run can be
// restarted while the previous attempt's checkpoint is still in place.
func CanTransition(from, to Status) bool {
	if from == to {
		return from.Valid()
	}
	for _, n := range validNext[from] {
		if n == to {
			return true
		}
	}
	return false
}
