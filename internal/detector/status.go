package detector

import (
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Status is an informational snapshot of the detector session, safe to
// request while a round-trip is blocking on the process.
type Status struct {
	State         string  `json:"state"`
	SessionID     string  `json:"session_id,omitempty"`
	PID           int     `json:"pid,omitempty"`
	UptimeSeconds float64 `json:"uptime_seconds,omitempty"`
	CPUPercent    float64 `json:"cpu_percent,omitempty"`
	MemoryRSS     uint64  `json:"memory_rss,omitempty"`
}

// Status reports the session state plus the child's resource usage when it
// is running. Resource lookups are best-effort; a vanished process simply
// leaves those fields zero.
func (s *Supervisor) Status() Status {
	s.stateMu.RLock()
	state := s.state
	sessionID := s.sessionID
	pid := s.pid
	startedAt := s.startedAt
	s.stateMu.RUnlock()

	status := Status{State: state.String()}
	if state != StateRunning {
		return status
	}

	status.SessionID = sessionID
	status.PID = pid
	status.UptimeSeconds = time.Since(startedAt).Seconds()

	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return status
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		status.CPUPercent = cpu
	}
	if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
		status.MemoryRSS = mem.RSS
	}

	return status
}
