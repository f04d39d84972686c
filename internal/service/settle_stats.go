package service

import (
	"fmt"
	"time"
)

// SettleStats summarizes an automatic settlement pass
type SettleStats struct {
	StartTime  time.Time
	Duration   time.Duration
	Completed  int
	Applied    int
	Duplicates int
	Errors     int
}

func (s *SettleStats) finish() {
	s.Duration = time.Since(s.StartTime)
}

// String returns a formatted summary
func (s SettleStats) String() string {
	return fmt.Sprintf("completed=%d applied=%d duplicates=%d errors=%d duration=%s",
		s.Completed, s.Applied, s.Duplicates, s.Errors, s.Duration.Round(time.Millisecond))
}
