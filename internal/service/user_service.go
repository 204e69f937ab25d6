package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "truetimer/backend/internal/errors"
	"truetimer/backend/internal/metrics"
	"truetimer/backend/internal/model"
	"truetimer/backend/internal/repository"
)

const (
	minTimezoneLength = 3
	maxTimezoneLength = 35
)

var (
	ErrInvalidTimezone = errors.New("invalid timezone")
	ErrInvalidUserID   = errors.New("invalid user id")
)

type UserService struct {
	store repository.Store
	log   *zap.Logger
}

func NewUserService(store repository.Store, log *zap.Logger) *UserService {
	return &UserService{store: store, log: log.Named("users")}
}

// ValidateTimezone accepts IANA names the runtime can load. "Local" is
// rejected because it depends on the host.
func ValidateTimezone(tz string) error {
	if len(tz) < minTimezoneLength || len(tz) > maxTimezoneLength {
		return fmt.Errorf("%w: length must be between %d and %d", ErrInvalidTimezone, minTimezoneLength, maxTimezoneLength)
	}
	if tz == "Local" {
		return fmt.Errorf("%w: %s", ErrInvalidTimezone, tz)
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimezone, tz)
	}
	return nil
}

// ParseUserID returns the canonical lowercase form of a UUID user id.
func ParseUserID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidUserID, raw)
	}
	return id.String(), nil
}

func (s *UserService) CreateUser(ctx context.Context, timezone string) (*model.User, *apperrors.APIError) {
	timezone = strings.TrimSpace(timezone)
	if err := ValidateTimezone(timezone); err != nil {
		return nil, apperrors.BadRequest("invalid_timezone", fmt.Sprintf("Invalid timezone: %s", timezone))
	}

	user := model.User{
		ID:       uuid.NewString(),
		Timezone: timezone,
	}
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		return tx.CreateUser(ctx, &user)
	})
	if err != nil {
		s.log.Error("create user", zap.Error(err))
		return nil, apperrors.Internal("failed to create user")
	}

	metrics.UsersCreated.Inc()
	s.log.Info("user created", zap.String("user_id", user.ID), zap.String("timezone", user.Timezone))
	return &user, nil
}

func (s *UserService) GetUser(ctx context.Context, rawID string) (*model.User, *apperrors.APIError) {
	id, err := ParseUserID(rawID)
	if err != nil {
		return nil, invalidUUID()
	}

	var user *model.User
	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		var getErr error
		user, getErr = tx.GetUser(ctx, id)
		return getErr
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, userNotFound()
	}
	if err != nil {
		s.log.Error("get user", zap.String("user_id", id), zap.Error(err))
		return nil, apperrors.Internal("failed to get user")
	}
	return user, nil
}

// DeleteUser removes the user together with all of its timers.
func (s *UserService) DeleteUser(ctx context.Context, rawID string) *apperrors.APIError {
	id, err := ParseUserID(rawID)
	if err != nil {
		return invalidUUID()
	}

	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		return tx.DeleteUser(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return userNotFound()
	}
	if err != nil {
		s.log.Error("delete user", zap.String("user_id", id), zap.Error(err))
		return apperrors.Internal("failed to delete user")
	}

	s.log.Info("user deleted", zap.String("user_id", id))
	return nil
}

func invalidUUID() *apperrors.APIError {
	return apperrors.BadRequest("invalid_user_id", "Invalid UUID")
}

func userNotFound() *apperrors.APIError {
	return apperrors.BadRequest("user_not_found", "User not found")
}
