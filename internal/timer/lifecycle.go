package timer

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"truetimer/backend/internal/model"
)

var ErrInvalidTransition = errors.New("invalid transition")

type State string

const (
	StateCreated   State = "created"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

type Operation string

const (
	OpStart  Operation = "start"
	OpPause  Operation = "pause"
	OpResume Operation = "resume"
	OpEnd    Operation = "end"
)

func StateOf(t *model.StandardTimer) State {
	switch {
	case t.IsCompleted:
		return StateCompleted
	case !t.IsStarted:
		return StateCreated
	case t.IsPaused:
		return StatePaused
	default:
		return StateRunning
	}
}

// Apply runs op against t at instant now. On error t is left untouched.
func Apply(t *model.StandardTimer, op Operation, now time.Time) error {
	switch op {
	case OpStart:
		return Start(t, now)
	case OpPause:
		return Pause(t, now)
	case OpResume:
		return Resume(t, now)
	case OpEnd:
		return End(t, now)
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}

func Start(t *model.StandardTimer, now time.Time) error {
	if state := StateOf(t); state != StateCreated {
		return transitionError(OpStart, state)
	}

	now = now.UTC()
	planned := now.Add(t.AsTimeDuration())
	t.IsStarted = true
	t.StartTime = lo.ToPtr(now)
	t.ResumedAt = lo.ToPtr(now)
	t.PlannedEndTime = lo.ToPtr(planned)
	t.EndTime = lo.ToPtr(planned)
	return nil
}

func Pause(t *model.StandardTimer, now time.Time) error {
	if state := StateOf(t); state != StateRunning {
		return transitionError(OpPause, state)
	}

	now = now.UTC()
	t.ElapsedSeconds += secondsBetween(segmentStart(t), now)
	t.LastPauseTime = &now
	t.IsPaused = true
	t.TotalPauseCount++
	return nil
}

// Resume keeps LastPauseTime for display; the new running segment is
// tracked by ResumedAt.
func Resume(t *model.StandardTimer, now time.Time) error {
	if state := StateOf(t); state != StatePaused {
		return transitionError(OpResume, state)
	}

	now = now.UTC()
	if t.LastPauseTime != nil {
		t.TotalPausedSeconds += secondsBetween(*t.LastPauseTime, now)
	}
	t.IsPaused = false
	t.ResumedAt = &now
	return nil
}

// End completes a running or paused timer. EndTime becomes the actual
// completion instant; PlannedEndTime keeps the target.
func End(t *model.StandardTimer, now time.Time) error {
	state := StateOf(t)
	if state != StateRunning && state != StatePaused {
		return transitionError(OpEnd, state)
	}

	now = now.UTC()
	if state == StateRunning {
		t.ElapsedSeconds += secondsBetween(segmentStart(t), now)
	} else if t.LastPauseTime != nil {
		t.TotalPausedSeconds += secondsBetween(*t.LastPauseTime, now)
	}
	t.IsPaused = false
	t.IsCompleted = true
	t.EndTime = &now
	return nil
}

// Active returns the active seconds at now, including the running segment.
func Active(t *model.StandardTimer, now time.Time) int64 {
	if StateOf(t) != StateRunning {
		return t.ElapsedSeconds
	}
	return t.ElapsedSeconds + secondsBetween(segmentStart(t), now)
}

// Remaining returns the countdown seconds left at now, never below zero.
func Remaining(t *model.StandardTimer, now time.Time) int64 {
	remaining := t.Seconds() - Active(t, now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// EstimatedEnd projects the completion instant assuming the timer runs
// without further pauses from now on. A completed timer reports its actual
// end, a timer that never started reports nil.
func EstimatedEnd(t *model.StandardTimer, now time.Time) *time.Time {
	switch StateOf(t) {
	case StateCreated:
		return nil
	case StateCompleted:
		return t.EndTime
	}
	return lo.ToPtr(now.UTC().Add(time.Duration(Remaining(t, now)) * time.Second))
}

func segmentStart(t *model.StandardTimer) time.Time {
	if t.ResumedAt != nil {
		return *t.ResumedAt
	}
	if t.StartTime != nil {
		return *t.StartTime
	}
	return time.Time{}
}

func secondsBetween(from, to time.Time) int64 {
	if from.IsZero() || !to.After(from) {
		return 0
	}
	return int64(to.Sub(from) / time.Second)
}

func transitionError(op Operation, state State) error {
	return fmt.Errorf("%w: cannot %s a %s timer", ErrInvalidTransition, op, state)
}
