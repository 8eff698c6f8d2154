package valueobjects

import (
	"time"

	"onboardhq-backend/domain/config"
	pkgerrors "onboardhq-backend/pkg/errors"
)

// Schedule is an event's time window. Start is always strictly before End.
type Schedule struct {
	start time.Time
	end   time.Time
}

// NewSchedule creates a schedule with validation using default configuration
func NewSchedule(start, end time.Time) (Schedule, error) {
	return NewScheduleWithConfig(start, end, config.DefaultDomainConfig())
}

// NewScheduleWithConfig creates a schedule with validation and configuration
func NewScheduleWithConfig(start, end time.Time, cfg *config.DomainConfig) (Schedule, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if start.IsZero() || end.IsZero() {
		return Schedule{}, pkgerrors.NewValidationError("schedule requires both start and end")
	}

	if !start.Before(end) {
		return Schedule{}, pkgerrors.NewValidationError("schedule start must be before end")
	}

	duration := end.Sub(start)
	if duration < cfg.MinEventDuration {
		return Schedule{}, pkgerrors.NewValidationError("event is shorter than the minimum duration")
	}
	if duration > cfg.MaxEventDuration {
		return Schedule{}, pkgerrors.NewValidationError("event exceeds the maximum duration")
	}

	return Schedule{start: start, end: end}, nil
}

// Start returns the schedule start time
func (s Schedule) Start() time.Time { return s.start }

// End returns the schedule end time
func (s Schedule) End() time.Time { return s.end }

// Duration returns the scheduled duration
func (s Schedule) Duration() time.Duration { return s.end.Sub(s.start) }

// IsZero checks if the schedule is the zero value
func (s Schedule) IsZero() bool { return s.start.IsZero() && s.end.IsZero() }

// Overlaps reports whether two schedules intersect
func (s Schedule) Overlaps(other Schedule) bool {
	return s.start.Before(other.end) && s.end.After(other.start)
}

// Equals checks if two schedules are equal
func (s Schedule) Equals(other Schedule) bool {
	return s.start.Equal(other.start) && s.end.Equal(other.end)
}
