package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"k8s.io/utils/clock"

	apperrors "truetimer/backend/internal/errors"
	"truetimer/backend/internal/metrics"
	"truetimer/backend/internal/model"
	"truetimer/backend/internal/repository"
	"truetimer/backend/internal/timer"
)

var (
	errUserNotFound  = errors.New("user not found")
	errTimerNotFound = errors.New("timer not found")
)

type TimerService struct {
	store repository.Store
	clock clock.PassiveClock
	log   *zap.Logger
}

type CreatedTimer struct {
	TimerID string `json:"timer_id"`
	Minutes int    `json:"minutes"`
	Hours   int    `json:"hours"`
}

// TimerView is the presentation of a timer. Instants are UTC RFC 3339, the
// *_string fields are rendered in the owner's timezone.
type TimerView struct {
	TimerID     string `json:"timer_id"`
	UserID      string `json:"user_id"`
	Hours       int    `json:"hours"`
	Minutes     int    `json:"minutes"`
	State       string `json:"state"`
	IsStarted   bool   `json:"is_started"`
	IsPaused    bool   `json:"is_paused"`
	IsCompleted bool   `json:"is_completed"`

	StartTime      *time.Time `json:"start_time"`
	PlannedEndTime *time.Time `json:"planned_end_time"`
	EndTime        *time.Time `json:"end_time"`
	LastPauseTime  *time.Time `json:"last_pause_time"`

	ElapsedSeconds     int64 `json:"elapsed_seconds"`
	ActiveSeconds      int64 `json:"active_seconds"`
	RemainingSeconds   int64 `json:"remaining_seconds"`
	TotalPausedSeconds int64 `json:"total_paused_seconds"`
	TotalPauseCount    int   `json:"total_pause_count"`

	Timezone               string `json:"timezone"`
	StartTimeString        string `json:"start_time_string"`
	EndTimeString          string `json:"end_time_string"`
	EstimatedEndTimeString string `json:"estimated_end_time_string"`
	LastPauseTimeString    string `json:"last_pause_time_string"`

	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ServerTime time.Time `json:"server_time"`
}

func NewTimerService(store repository.Store, clk clock.PassiveClock, log *zap.Logger) *TimerService {
	return &TimerService{store: store, clock: clk, log: log.Named("standard")}
}

// Create persists a new not-started timer for userID. The user is resolved
// before the duration is checked.
func (s *TimerService) Create(ctx context.Context, userID string, hours, minutes int) (*CreatedTimer, *apperrors.APIError) {
	var created *model.StandardTimer
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		if _, err := s.loadUser(ctx, tx, userID); err != nil {
			return err
		}
		newTimer, err := timer.New(userID, hours, minutes)
		if err != nil {
			return err
		}
		if err := tx.CreateTimer(ctx, newTimer); err != nil {
			return err
		}
		created = newTimer
		return nil
	})
	if err != nil {
		return nil, s.toAPIError("create", err, nil)
	}

	metrics.TimersCreated.Inc()
	s.log.Info("timer created",
		zap.String("user_id", userID),
		zap.Int64("timer_id", created.ID),
		zap.Int("hours", created.Hours),
		zap.Int("minutes", created.Minutes),
	)
	return &CreatedTimer{
		TimerID: strconv.FormatInt(created.ID, 10),
		Minutes: created.Minutes,
		Hours:   created.Hours,
	}, nil
}

func (s *TimerService) Get(ctx context.Context, userID string, timerID int64) (*TimerView, *apperrors.APIError) {
	now := s.clock.Now().UTC()
	var view TimerView
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		user, err := s.loadUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		current, err := tx.GetTimer(ctx, timerID)
		if err != nil {
			return timerLookupError(err)
		}
		if current.UserID != user.ID {
			return errTimerNotFound
		}
		view = toTimerView(current, user.Timezone, now)
		return nil
	})
	if err != nil {
		return nil, s.toAPIError("get", err, nil)
	}
	return &view, nil
}

// List returns every timer owned by userID, newest first.
func (s *TimerService) List(ctx context.Context, userID string) ([]TimerView, *apperrors.APIError) {
	now := s.clock.Now().UTC()
	var views []TimerView
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		user, err := s.loadUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		timers, err := tx.ListTimersByUser(ctx, user.ID)
		if err != nil {
			return err
		}
		views = lo.Map(timers, func(t model.StandardTimer, _ int) TimerView {
			return toTimerView(&t, user.Timezone, now)
		})
		return nil
	})
	if err != nil {
		return nil, s.toAPIError("list", err, nil)
	}
	return views, nil
}

func (s *TimerService) Start(ctx context.Context, userID string, timerID int64) (*TimerView, *apperrors.APIError) {
	return s.transition(ctx, userID, timerID, timer.OpStart)
}

func (s *TimerService) Pause(ctx context.Context, userID string, timerID int64) (*TimerView, *apperrors.APIError) {
	return s.transition(ctx, userID, timerID, timer.OpPause)
}

func (s *TimerService) Resume(ctx context.Context, userID string, timerID int64) (*TimerView, *apperrors.APIError) {
	return s.transition(ctx, userID, timerID, timer.OpResume)
}

func (s *TimerService) End(ctx context.Context, userID string, timerID int64) (*TimerView, *apperrors.APIError) {
	return s.transition(ctx, userID, timerID, timer.OpEnd)
}

// transition loads the timer under a write lock, applies op and saves the
// result in the same transaction. A rejected op leaves the row untouched.
func (s *TimerService) transition(ctx context.Context, userID string, timerID int64, op timer.Operation) (*TimerView, *apperrors.APIError) {
	now := s.clock.Now().UTC()
	var view TimerView
	var state timer.State
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		user, err := s.loadUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		current, err := tx.GetTimerForUpdate(ctx, timerID)
		if err != nil {
			return timerLookupError(err)
		}
		if current.UserID != user.ID {
			return errTimerNotFound
		}

		state = timer.StateOf(current)
		if err := timer.Apply(current, op, now); err != nil {
			return err
		}
		if err := tx.UpdateTimer(ctx, current); err != nil {
			return err
		}
		view = toTimerView(current, user.Timezone, now)
		return nil
	})
	if err != nil {
		metrics.ObserveTransition(string(op), transitionResult(err))
		return nil, s.toAPIError(string(op), err, map[string]interface{}{
			"timer_id": strconv.FormatInt(timerID, 10),
			"state":    state,
		})
	}

	metrics.ObserveTransition(string(op), metrics.ResultOK)
	if op == timer.OpEnd {
		metrics.CompletedActiveSeconds.Observe(float64(view.ElapsedSeconds))
	}
	s.log.Info("timer "+string(op),
		zap.String("user_id", userID),
		zap.Int64("timer_id", timerID),
		zap.String("state", view.State),
		zap.Int64("elapsed_seconds", view.ElapsedSeconds),
		zap.Int64("total_paused_seconds", view.TotalPausedSeconds),
		zap.Int("total_pause_count", view.TotalPauseCount),
	)
	return &view, nil
}

func (s *TimerService) loadUser(ctx context.Context, tx repository.Tx, userID string) (*model.User, error) {
	user, err := tx.GetUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errUserNotFound
	}
	return user, err
}

func timerLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errTimerNotFound
	}
	return err
}

func transitionResult(err error) string {
	switch {
	case errors.Is(err, timer.ErrInvalidTransition),
		errors.Is(err, errTimerNotFound),
		errors.Is(err, errUserNotFound):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}

// toAPIError maps domain and storage errors onto the HTTP error taxonomy.
// Only the invalid transition case carries details.
func (s *TimerService) toAPIError(op string, err error, details map[string]interface{}) *apperrors.APIError {
	switch {
	case errors.Is(err, errUserNotFound):
		return userNotFound()
	case errors.Is(err, errTimerNotFound):
		return apperrors.NotFound("timer_not_found", "Timer not found")
	case errors.Is(err, timer.ErrInvalidTransition):
		return apperrors.Conflict("invalid_transition", err.Error(), details)
	case errors.Is(err, timer.ErrZeroDuration):
		return apperrors.BadRequest("zero_duration", err.Error())
	case errors.Is(err, timer.ErrInvalidDuration):
		return apperrors.Unprocessable(err.Error(), nil)
	}

	s.log.Error("timer operation failed", zap.String("operation", op), zap.Error(err))
	return apperrors.Internal("failed to " + op + " timer")
}

func toTimerView(t *model.StandardTimer, tz string, now time.Time) TimerView {
	return TimerView{
		TimerID:     strconv.FormatInt(t.ID, 10),
		UserID:      t.UserID,
		Hours:       t.Hours,
		Minutes:     t.Minutes,
		State:       string(timer.StateOf(t)),
		IsStarted:   t.IsStarted,
		IsPaused:    t.IsPaused,
		IsCompleted: t.IsCompleted,

		StartTime:      t.StartTime,
		PlannedEndTime: t.PlannedEndTime,
		EndTime:        t.EndTime,
		LastPauseTime:  t.LastPauseTime,

		ElapsedSeconds:     t.ElapsedSeconds,
		ActiveSeconds:      timer.Active(t, now),
		RemainingSeconds:   timer.Remaining(t, now),
		TotalPausedSeconds: t.TotalPausedSeconds,
		TotalPauseCount:    t.TotalPauseCount,

		Timezone:               tz,
		StartTimeString:        timer.FormatInZone(t.StartTime, tz),
		EndTimeString:          timer.FormatInZone(t.EndTime, tz),
		EstimatedEndTimeString: timer.FormatInZone(timer.EstimatedEnd(t, now), tz),
		LastPauseTimeString:    timer.FormatInZone(t.LastPauseTime, tz),

		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
		ServerTime: now,
	}
}
