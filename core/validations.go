package core

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

func ValidateEvent(event Event) error {
	title := strings.TrimSpace(event.Title)
	if len(title) == 0 {
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}

	if utf8.RuneCountInString(title) > 100 {
		return fmt.Errorf("%w: title is too long (100 characters tops)", ErrInvalidEvent)
	}

	_, err := ParseDate(event.Date)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	start, err := ParseClock(event.StartTime)
	if err != nil {
		return fmt.Errorf("%w: start time: %w", ErrInvalidEvent, err)
	}

	end, err := ParseClock(event.EndTime)
	if err != nil {
		return fmt.Errorf("%w: end time: %w", ErrInvalidEvent, err)
	}

	if start >= end {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidEvent)
	}

	if !event.Type.Valid() {
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidEvent, event.Type)
	}

	return nil
}

func ValidatePatch(patch EventPatch) error {
	if patch.IsEmpty() {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, errors.New("patch has no fields"))
	}

	return nil
}
