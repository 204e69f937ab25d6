package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"truetimer/backend/internal/model"
)

const timerColumns = `id, user_id, hours, minutes, is_started, is_paused, is_completed,
	start_time, planned_end_time, end_time, last_pause_time, resumed_at,
	elapsed_seconds, total_paused_seconds, total_pause_count, created_at, updated_at`

func (r *sqliteTx) CreateTimer(ctx context.Context, timer *model.StandardTimer) error {
	now := time.Now().UTC()
	timer.CreatedAt = now
	timer.UpdatedAt = now

	result, err := r.tx.ExecContext(
		ctx,
		`INSERT INTO standard_timer (
			user_id, hours, minutes, is_started, is_paused, is_completed,
			start_time, planned_end_time, end_time, last_pause_time, resumed_at,
			elapsed_seconds, total_paused_seconds, total_pause_count, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		timer.UserID,
		timer.Hours,
		timer.Minutes,
		timer.IsStarted,
		timer.IsPaused,
		timer.IsCompleted,
		formatNullTime(timer.StartTime),
		formatNullTime(timer.PlannedEndTime),
		formatNullTime(timer.EndTime),
		formatNullTime(timer.LastPauseTime),
		formatNullTime(timer.ResumedAt),
		timer.ElapsedSeconds,
		timer.TotalPausedSeconds,
		timer.TotalPauseCount,
		formatTime(timer.CreatedAt),
		formatTime(timer.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create timer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create timer last insert id: %w", err)
	}
	timer.ID = id
	return nil
}

func (r *sqliteTx) GetTimer(ctx context.Context, id int64) (*model.StandardTimer, error) {
	row := r.tx.QueryRowContext(
		ctx,
		`SELECT `+timerColumns+` FROM standard_timer WHERE id = ?`,
		id,
	)
	return scanSQLiteTimer(row)
}

// GetTimerForUpdate is a plain read on SQLite: the transaction already holds
// the database write lock from BEGIN IMMEDIATE.
func (r *sqliteTx) GetTimerForUpdate(ctx context.Context, id int64) (*model.StandardTimer, error) {
	return r.GetTimer(ctx, id)
}

func (r *sqliteTx) UpdateTimer(ctx context.Context, timer *model.StandardTimer) error {
	timer.UpdatedAt = time.Now().UTC()

	result, err := r.tx.ExecContext(
		ctx,
		`UPDATE standard_timer
		 SET is_started = ?,
		     is_paused = ?,
		     is_completed = ?,
		     start_time = ?,
		     planned_end_time = ?,
		     end_time = ?,
		     last_pause_time = ?,
		     resumed_at = ?,
		     elapsed_seconds = ?,
		     total_paused_seconds = ?,
		     total_pause_count = ?,
		     updated_at = ?
		 WHERE id = ?`,
		timer.IsStarted,
		timer.IsPaused,
		timer.IsCompleted,
		formatNullTime(timer.StartTime),
		formatNullTime(timer.PlannedEndTime),
		formatNullTime(timer.EndTime),
		formatNullTime(timer.LastPauseTime),
		formatNullTime(timer.ResumedAt),
		timer.ElapsedSeconds,
		timer.TotalPausedSeconds,
		timer.TotalPauseCount,
		formatTime(timer.UpdatedAt),
		timer.ID,
	)
	if err != nil {
		return fmt.Errorf("update timer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update timer rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteTx) ListTimersByUser(ctx context.Context, userID string) ([]model.StandardTimer, error) {
	rows, err := r.tx.QueryContext(
		ctx,
		`SELECT `+timerColumns+`
		 FROM standard_timer
		 WHERE user_id = ?
		 ORDER BY id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list timers: %w", err)
	}
	defer rows.Close()

	timers := make([]model.StandardTimer, 0)
	for rows.Next() {
		timer, scanErr := scanSQLiteTimer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		timers = append(timers, *timer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timers: %w", err)
	}

	return timers, nil
}

func scanSQLiteTimer(s scanner) (*model.StandardTimer, error) {
	timer := model.StandardTimer{}
	var startTime, plannedEndTime, endTime, lastPauseTime, resumedAt sql.NullString
	var createdAt string
	var updatedAt string
	err := s.Scan(
		&timer.ID,
		&timer.UserID,
		&timer.Hours,
		&timer.Minutes,
		&timer.IsStarted,
		&timer.IsPaused,
		&timer.IsCompleted,
		&startTime,
		&plannedEndTime,
		&endTime,
		&lastPauseTime,
		&resumedAt,
		&timer.ElapsedSeconds,
		&timer.TotalPausedSeconds,
		&timer.TotalPauseCount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan timer: %w", err)
	}

	optional := []struct {
		name string
		raw  sql.NullString
		dest **time.Time
	}{
		{"start_time", startTime, &timer.StartTime},
		{"planned_end_time", plannedEndTime, &timer.PlannedEndTime},
		{"end_time", endTime, &timer.EndTime},
		{"last_pause_time", lastPauseTime, &timer.LastPauseTime},
		{"resumed_at", resumedAt, &timer.ResumedAt},
	}
	for _, field := range optional {
		parsed, parseErr := parseNullTime(field.raw)
		if parseErr != nil {
			return nil, fmt.Errorf("parse timer %s: %w", field.name, parseErr)
		}
		*field.dest = parsed
	}

	if timer.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse timer created_at: %w", err)
	}
	if timer.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse timer updated_at: %w", err)
	}

	return &timer, nil
}
