package service

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	clocktesting "k8s.io/utils/clock/testing"

	"truetimer/backend/internal/db"
	"truetimer/backend/internal/repository"
)

var t0 = time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)

type fixture struct {
	users  *UserService
	timers *TimerService
	clock  *clocktesting.FakeClock
}

func setupServices(t *testing.T) *fixture {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close()
	})
	require.NoError(t, db.RunSQLiteMigrations(context.Background(), database))

	store := repository.NewSQLiteStore(database)
	clk := clocktesting.NewFakeClock(t0)
	log := zap.NewNop()
	return &fixture{
		users:  NewUserService(store, log),
		timers: NewTimerService(store, clk, log),
		clock:  clk,
	}
}

func (f *fixture) newUser(t *testing.T) string {
	t.Helper()
	user, apiErr := f.users.CreateUser(context.Background(), "America/New_York")
	require.Nil(t, apiErr)
	return user.ID
}

func (f *fixture) newTimer(t *testing.T, userID string, hours, minutes int) int64 {
	t.Helper()
	created, apiErr := f.timers.Create(context.Background(), userID, hours, minutes)
	require.Nil(t, apiErr)
	id, err := strconv.ParseInt(created.TimerID, 10, 64)
	require.NoError(t, err)
	return id
}

func TestCreateTimerReturnsDuration(t *testing.T) {
	f := setupServices(t)
	userID := f.newUser(t)

	created, apiErr := f.timers.Create(context.Background(), userID, 1, 20)
	require.Nil(t, apiErr)
	assert.NotEmpty(t, created.TimerID)
	assert.Equal(t, 1, created.Hours)
	assert.Equal(t, 20, created.Minutes)
}

func TestCreateTimerErrors(t *testing.T) {
	f := setupServices(t)
	userID := f.newUser(t)
	ctx := context.Background()

	_, apiErr := f.timers.Create(ctx, userID, 0, 0)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "zero_duration", apiErr.Code)

	_, apiErr = f.timers.Create(ctx, userID, 25, 0)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)

	_, apiErr = f.timers.Create(ctx, uuid.NewString(), 0, 5)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "User not found", apiErr.Message)
}

func TestLifecycleThroughService(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	userID := f.newUser(t)
	timerID := f.newTimer(t, userID, 1, 0)

	view, apiErr := f.timers.Start(ctx, userID, timerID)
	require.Nil(t, apiErr)
	assert.Equal(t, "running", view.State)
	assert.Equal(t, "Mar 10, 2025 10:00:00 EDT", view.StartTimeString)
	assert.Equal(t, "Mar 10, 2025 11:00:00 EDT", view.EndTimeString)
	assert.Equal(t, view.EndTimeString, view.EstimatedEndTimeString)

	f.clock.Step(10 * time.Minute)
	view, apiErr = f.timers.Pause(ctx, userID, timerID)
	require.Nil(t, apiErr)
	assert.True(t, view.IsPaused)
	assert.Equal(t, 1, view.TotalPauseCount)
	assert.Equal(t, int64(600), view.ElapsedSeconds)
	assert.Equal(t, "Mar 10, 2025 10:10:00 EDT", view.LastPauseTimeString)

	f.clock.Step(5 * time.Minute)
	view, apiErr = f.timers.Resume(ctx, userID, timerID)
	require.Nil(t, apiErr)
	assert.False(t, view.IsPaused)
	assert.Equal(t, int64(300), view.TotalPausedSeconds)
	assert.Equal(t, "Mar 10, 2025 11:05:00 EDT", view.EstimatedEndTimeString)

	f.clock.Step(20 * time.Minute)
	view, apiErr = f.timers.End(ctx, userID, timerID)
	require.Nil(t, apiErr)
	assert.True(t, view.IsCompleted)
	assert.Equal(t, "completed", view.State)
	assert.Equal(t, int64(1800), view.ElapsedSeconds)
	assert.Equal(t, "Mar 10, 2025 10:35:00 EDT", view.EndTimeString)
	assert.Equal(t, t0.Add(time.Hour), *view.PlannedEndTime)

	got, apiErr := f.timers.Get(ctx, userID, timerID)
	require.Nil(t, apiErr)
	assert.Equal(t, view.EndTime, got.EndTime)
	assert.Equal(t, view.ElapsedSeconds, got.ElapsedSeconds)
}

func TestInvalidTransitionDoesNotCommit(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	userID := f.newUser(t)
	timerID := f.newTimer(t, userID, 0, 10)

	_, apiErr := f.timers.Pause(ctx, userID, timerID)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "invalid_transition", apiErr.Code)

	_, apiErr = f.timers.Start(ctx, userID, timerID)
	require.Nil(t, apiErr)
	_, apiErr = f.timers.End(ctx, userID, timerID)
	require.Nil(t, apiErr)
	before, apiErr := f.timers.Get(ctx, userID, timerID)
	require.Nil(t, apiErr)

	f.clock.Step(time.Minute)
	_, apiErr = f.timers.End(ctx, userID, timerID)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	after, apiErr := f.timers.Get(ctx, userID, timerID)
	require.Nil(t, apiErr)
	assert.Equal(t, before.EndTime, after.EndTime)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
}

func TestForeignTimerIsNotFound(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	owner := f.newUser(t)
	other := f.newUser(t)
	timerID := f.newTimer(t, owner, 0, 10)

	_, apiErr := f.timers.Start(ctx, other, timerID)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	_, apiErr = f.timers.Get(ctx, other, timerID)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	_, apiErr = f.timers.Start(ctx, owner, timerID+100)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestListOnlyReturnsOwnTimers(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	owner := f.newUser(t)
	other := f.newUser(t)
	first := f.newTimer(t, owner, 0, 5)
	second := f.newTimer(t, owner, 0, 10)
	f.newTimer(t, other, 1, 0)

	views, apiErr := f.timers.List(ctx, owner)
	require.Nil(t, apiErr)
	require.Len(t, views, 2)
	assert.Equal(t, strconv.FormatInt(second, 10), views[0].TimerID)
	assert.Equal(t, strconv.FormatInt(first, 10), views[1].TimerID)
	assert.Equal(t, "created", views[1].State)
	assert.Equal(t, int64(300), views[1].RemainingSeconds)
}

func TestDeleteUserRemovesTimers(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	userID := f.newUser(t)
	f.newTimer(t, userID, 0, 5)

	require.Nil(t, f.users.DeleteUser(ctx, userID))

	_, apiErr := f.timers.List(ctx, userID)
	require.NotNil(t, apiErr)
	assert.Equal(t, "User not found", apiErr.Message)

	apiErr = f.users.DeleteUser(ctx, userID)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestConcurrentPauseSucceedsOnce(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	userID := f.newUser(t)
	timerID := f.newTimer(t, userID, 0, 30)
	_, apiErr := f.timers.Start(ctx, userID, timerID)
	require.Nil(t, apiErr)
	f.clock.Step(time.Minute)

	const callers = 20
	statuses := make([]int, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, apiErr := f.timers.Pause(ctx, userID, timerID); apiErr != nil {
				statuses[i] = apiErr.Status
				return
			}
			statuses[i] = http.StatusOK
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, status := range statuses {
		switch status {
		case http.StatusOK:
			ok++
		case http.StatusConflict:
			conflict++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, callers-1, conflict)

	view, apiErr := f.timers.Get(ctx, userID, timerID)
	require.Nil(t, apiErr)
	assert.True(t, view.IsPaused)
	assert.Equal(t, 1, view.TotalPauseCount)
	assert.Equal(t, int64(60), view.ElapsedSeconds)
}
