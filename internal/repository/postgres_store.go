package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"truetimer/backend/internal/model"
)

// PostgresStore is the Store used in production deployments. Timer rows are
// locked with SELECT ... FOR UPDATE inside each transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&postgresTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

type postgresTx struct {
	tx pgx.Tx
}

const pgTimerColumns = `id, user_id::text, hours, minutes, is_started, is_paused, is_completed,
	start_time, planned_end_time, end_time, last_pause_time, resumed_at,
	elapsed_seconds, total_paused_seconds, total_pause_count, created_at, updated_at`

func (r *postgresTx) CreateUser(ctx context.Context, user *model.User) error {
	err := r.tx.QueryRow(
		ctx,
		`INSERT INTO users (user_id, timezone)
		 VALUES ($1::uuid, $2)
		 RETURNING created_at, updated_at`,
		user.ID,
		user.Timezone,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return nil
}

func (r *postgresTx) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.tx.QueryRow(
		ctx,
		`SELECT user_id::text, timezone, created_at, updated_at
		 FROM users
		 WHERE user_id = $1::uuid`,
		id,
	).Scan(&user.ID, &user.Timezone, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}

func (r *postgresTx) DeleteUser(ctx context.Context, id string) error {
	result, err := r.tx.Exec(ctx, `DELETE FROM users WHERE user_id = $1::uuid`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresTx) CreateTimer(ctx context.Context, timer *model.StandardTimer) error {
	err := r.tx.QueryRow(
		ctx,
		`INSERT INTO standard_timer (
			user_id, hours, minutes, is_started, is_paused, is_completed,
			start_time, planned_end_time, end_time, last_pause_time, resumed_at,
			elapsed_seconds, total_paused_seconds, total_pause_count
		) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`,
		timer.UserID,
		timer.Hours,
		timer.Minutes,
		timer.IsStarted,
		timer.IsPaused,
		timer.IsCompleted,
		timer.StartTime,
		timer.PlannedEndTime,
		timer.EndTime,
		timer.LastPauseTime,
		timer.ResumedAt,
		timer.ElapsedSeconds,
		timer.TotalPausedSeconds,
		timer.TotalPauseCount,
	).Scan(&timer.ID, &timer.CreatedAt, &timer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create timer: %w", err)
	}
	timer.CreatedAt = timer.CreatedAt.UTC()
	timer.UpdatedAt = timer.UpdatedAt.UTC()
	return nil
}

func (r *postgresTx) GetTimer(ctx context.Context, id int64) (*model.StandardTimer, error) {
	row := r.tx.QueryRow(ctx, `SELECT `+pgTimerColumns+` FROM standard_timer WHERE id = $1`, id)
	return scanPostgresTimer(row)
}

func (r *postgresTx) GetTimerForUpdate(ctx context.Context, id int64) (*model.StandardTimer, error) {
	row := r.tx.QueryRow(ctx, `SELECT `+pgTimerColumns+` FROM standard_timer WHERE id = $1 FOR UPDATE`, id)
	return scanPostgresTimer(row)
}

func (r *postgresTx) UpdateTimer(ctx context.Context, timer *model.StandardTimer) error {
	err := r.tx.QueryRow(
		ctx,
		`UPDATE standard_timer
		 SET is_started = $1,
		     is_paused = $2,
		     is_completed = $3,
		     start_time = $4,
		     planned_end_time = $5,
		     end_time = $6,
		     last_pause_time = $7,
		     resumed_at = $8,
		     elapsed_seconds = $9,
		     total_paused_seconds = $10,
		     total_pause_count = $11,
		     updated_at = now()
		 WHERE id = $12
		 RETURNING updated_at`,
		timer.IsStarted,
		timer.IsPaused,
		timer.IsCompleted,
		timer.StartTime,
		timer.PlannedEndTime,
		timer.EndTime,
		timer.LastPauseTime,
		timer.ResumedAt,
		timer.ElapsedSeconds,
		timer.TotalPausedSeconds,
		timer.TotalPauseCount,
		timer.ID,
	).Scan(&timer.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update timer: %w", err)
	}
	timer.UpdatedAt = timer.UpdatedAt.UTC()
	return nil
}

func (r *postgresTx) ListTimersByUser(ctx context.Context, userID string) ([]model.StandardTimer, error) {
	rows, err := r.tx.Query(
		ctx,
		`SELECT `+pgTimerColumns+`
		 FROM standard_timer
		 WHERE user_id = $1::uuid
		 ORDER BY id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list timers: %w", err)
	}
	defer rows.Close()

	timers := make([]model.StandardTimer, 0)
	for rows.Next() {
		timer, scanErr := scanPostgresTimer(rows)
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

func scanPostgresTimer(row pgx.Row) (*model.StandardTimer, error) {
	timer := model.StandardTimer{}
	var createdAt, updatedAt time.Time
	err := row.Scan(
		&timer.ID,
		&timer.UserID,
		&timer.Hours,
		&timer.Minutes,
		&timer.IsStarted,
		&timer.IsPaused,
		&timer.IsCompleted,
		&timer.StartTime,
		&timer.PlannedEndTime,
		&timer.EndTime,
		&timer.LastPauseTime,
		&timer.ResumedAt,
		&timer.ElapsedSeconds,
		&timer.TotalPausedSeconds,
		&timer.TotalPauseCount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan timer: %w", err)
	}

	timer.StartTime = utcPtr(timer.StartTime)
	timer.PlannedEndTime = utcPtr(timer.PlannedEndTime)
	timer.EndTime = utcPtr(timer.EndTime)
	timer.LastPauseTime = utcPtr(timer.LastPauseTime)
	timer.ResumedAt = utcPtr(timer.ResumedAt)
	timer.CreatedAt = createdAt.UTC()
	timer.UpdatedAt = updatedAt.UTC()
	return &timer, nil
}
