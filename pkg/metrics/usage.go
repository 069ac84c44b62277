package metrics

import "sync/atomic"

// CommandUsage tallies console command outcomes for a session.
type CommandUsage struct {
	total    atomic.Int64
	accepted atomic.Int64
	rejected atomic.Int64
	invalid  atomic.Int64
}

// UsageSnapshot is a point-in-time copy of CommandUsage.
type UsageSnapshot struct {
	Total    int64 `json:"total"`
	Accepted int64 `json:"accepted"`
	Rejected int64 `json:"rejected"`
	Invalid  int64 `json:"invalid"`
}

// Accepted records a command that succeeded.
func (u *CommandUsage) Accepted() {
	u.total.Add(1)
	u.accepted.Add(1)
}

// Rejected records a well-formed command the directory refused.
func (u *CommandUsage) Rejected() {
	u.total.Add(1)
	u.rejected.Add(1)
}

// Invalid records an unknown or malformed command.
func (u *CommandUsage) Invalid() {
	u.total.Add(1)
	u.invalid.Add(1)
}

// Snapshot returns the current counters.
func (u *CommandUsage) Snapshot() UsageSnapshot {
	return UsageSnapshot{
		Total:    u.total.Load(),
		Accepted: u.accepted.Load(),
		Rejected: u.rejected.Load(),
		Invalid:  u.invalid.Load(),
	}
}

// IsZero reports whether no command was recorded.
func (s UsageSnapshot) IsZero() bool {
	return s.Total == 0
}
