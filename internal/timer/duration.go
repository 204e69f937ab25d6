package timer

import (
	"errors"
	"fmt"

	"truetimer/backend/internal/model"
)

var (
	ErrInvalidDuration = errors.New("invalid duration")
	ErrZeroDuration    = errors.New("zero duration")
)

// ValidateDuration checks a complete hours/minutes pair. The zero check runs
// only after both ranges pass, so the result never depends on which field a
// caller happened to fill in first.
func ValidateDuration(hours, minutes int) error {
	if hours < 0 || hours > model.MaxHours {
		return fmt.Errorf("%w: hours must be between 0 and %d", ErrInvalidDuration, model.MaxHours)
	}
	if minutes < 0 || minutes > model.MaxMinutes {
		return fmt.Errorf("%w: minutes must be between 0 and %d", ErrInvalidDuration, model.MaxMinutes)
	}
	if hours == 0 && minutes == 0 {
		return fmt.Errorf("%w: timer must last at least one minute", ErrZeroDuration)
	}
	return nil
}

// New builds a not-started timer for userID. The caller persists it.
func New(userID string, hours, minutes int) (*model.StandardTimer, error) {
	if err := ValidateDuration(hours, minutes); err != nil {
		return nil, err
	}
	return &model.StandardTimer{
		UserID:   userID,
		Duration: model.Duration{Hours: hours, Minutes: minutes},
	}, nil
}
