package model

import "time"

const (
	MaxHours   = 24
	MaxMinutes = 59
)

// TimeStamps are the audit columns shared by every stored entity. Both are UTC
// and maintained by the repository layer.
type TimeStamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Duration is the planned length of a timer.
type Duration struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

func (d Duration) Seconds() int64 {
	return int64(d.Hours)*3600 + int64(d.Minutes)*60
}

func (d Duration) AsTimeDuration() time.Duration {
	return time.Duration(d.Hours)*time.Hour + time.Duration(d.Minutes)*time.Minute
}

type StandardTimer struct {
	ID     int64
	UserID string

	Duration
	TimeStamps

	IsStarted   bool
	IsPaused    bool
	IsCompleted bool

	StartTime      *time.Time
	PlannedEndTime *time.Time
	EndTime        *time.Time
	LastPauseTime  *time.Time
	// ResumedAt is the start of the current running segment: the start
	// instant, or the most recent resume.
	ResumedAt *time.Time

	ElapsedSeconds     int64
	TotalPausedSeconds int64
	TotalPauseCount    int
}
