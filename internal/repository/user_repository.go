package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"truetimer/backend/internal/model"
)

func (r *sqliteTx) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.tx.ExecContext(
		ctx,
		`INSERT INTO users (user_id, timezone, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		user.ID,
		user.Timezone,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *sqliteTx) GetUser(ctx context.Context, id string) (*model.User, error) {
	row := r.tx.QueryRowContext(
		ctx,
		`SELECT user_id, timezone, created_at, updated_at
		 FROM users
		 WHERE user_id = ?`,
		id,
	)

	var user model.User
	var createdAt string
	var updatedAt string
	if err := row.Scan(&user.ID, &user.Timezone, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	parsedCreatedAt, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse user created_at: %w", err)
	}
	parsedUpdatedAt, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse user updated_at: %w", err)
	}
	user.CreatedAt = parsedCreatedAt
	user.UpdatedAt = parsedUpdatedAt

	return &user, nil
}

// DeleteUser removes the user; its timers go with it through the foreign key.
func (r *sqliteTx) DeleteUser(ctx context.Context, id string) error {
	result, err := r.tx.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
