package job

// Status represents the externally visible lifecycle of a job. The status
// transitions are monotone: RECEIVED -> PROCESSING -> {FAILED | COMPLETED},
// and nothing leaves a terminal state.
type Status string

const (
	StatusReceived   Status = "RECEIVED"
	StatusProcessing Status = "PROCESSING"
	StatusFailed     Status = "FAILED"
	StatusCompleted  Status = "COMPLETED"
)

var statusRank = map[Status]int{
	StatusReceived:   0,
	StatusProcessing: 1,
	StatusFailed:     2,
	StatusCompleted:  2,
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether s is an absorbing state.
func (s Status) Terminal() bool {
	return s == StatusFailed || s == StatusCompleted
}

// CanTransition reports whether moving from s to next preserves the monotone
// lifecycle. Re-asserting the current status is allowed for terminal states so
// a redelivered message can re-report a stored outcome.
func (s Status) CanTransition(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s.Terminal() {
		return next == s
	}
	return statusRank[next] > statusRank[s]
}
