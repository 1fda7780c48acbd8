package analysis

import (
	"sort"

	"github.com/mtuomin/moodwatch-go/internal/datastore"
)

const (
	// maxGapSeconds is the largest allowed gap between consecutive valid
	// records inside one focus session.
	maxGapSeconds int64 = 60
	// minFocusMinutes is the minimum duration for a session to count as a
	// qualifying focus session.
	minFocusMinutes = 30.0
)

// FocusAnalysis summarizes the day's contiguous focus sessions.
type FocusAnalysis struct {
	TotalFocusSessions   int     `json:"total_focus_sessions"`   // sessions of at least minFocusMinutes
	CurrentFocusDuration float64 `json:"current_focus_duration"` // minutes, 0 when not focusing
	IsCurrentlyFocusing  bool    `json:"is_currently_focusing"`
	TotalFocusTime       float64 `json:"total_focus_time"` // minutes across all sessions
}

type focusSession struct {
	start int64
	end   int64
}

// FocusTime reconstructs contiguous focus sessions from a day's
// observations. Records may arrive in any order; they are sorted by
// timestamp before the scan. A session is a run of valid records with no
// gap above maxGapSeconds; an invalid record or an oversized gap closes it,
// and the oversized gap immediately opens a new session at the current
// record. Durations are reported in minutes rounded to 1 decimal. Empty
// input yields the zero analysis.
func FocusTime(records []datastore.Observation) FocusAnalysis {
	if len(records) == 0 {
		return FocusAnalysis{}
	}

	sorted := make([]datastore.Observation, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	var sessions []focusSession
	var sessionStart, lastTimestamp int64
	open := false

	for i := range sorted {
		if sorted[i].IsValid() {
			ts := sorted[i].Timestamp
			if open {
				if ts-lastTimestamp > maxGapSeconds {
					sessions = append(sessions, focusSession{start: sessionStart, end: lastTimestamp})
					sessionStart = ts
				}
				lastTimestamp = ts
			} else {
				open = true
				sessionStart = ts
				lastTimestamp = ts
			}
		} else if open {
			sessions = append(sessions, focusSession{start: sessionStart, end: lastTimestamp})
			open = false
		}
	}
	if open {
		sessions = append(sessions, focusSession{start: sessionStart, end: lastTimestamp})
	}

	var qualifying int
	var totalMinutes float64
	for _, s := range sessions {
		duration := float64(s.end-s.start) / 60.0
		if duration >= minFocusMinutes {
			qualifying++
		}
		totalMinutes += duration
	}

	// the last record valid implies the final session closed at its
	// timestamp, so a current duration always exists when focusing
	isFocusing := sorted[len(sorted)-1].IsValid()

	var currentDuration float64
	if isFocusing && len(sessions) > 0 {
		last := sessions[len(sessions)-1]
		currentDuration = float64(last.end-last.start) / 60.0
	}

	return FocusAnalysis{
		TotalFocusSessions:   qualifying,
		CurrentFocusDuration: round1(currentDuration),
		IsCurrentlyFocusing:  isFocusing,
		TotalFocusTime:       round1(totalMinutes),
	}
}
