package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Parallel()

	t.Run("NewError", func(t *testing.T) {
		t.Parallel()

		err1 := errors.New("error 1")
		err2 := errors.New("error 2")
		e := NewError("base message", err1, nil, err2)

		assert.Equal(t, "base message", e.Message)
		assert.Equal(t, []string{"error 1", "error 2"}, e.Err)
		assert.Equal(t, []string{"error 1", "error 2"}, e.Messages())
	})

	t.Run("Error method", func(t *testing.T) {
		t.Parallel()

		e := NewError("event not found", ErrEventNotFound)
		assert.JSONEq(t, `{"message":"event not found","err":["event not found"]}`, e.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		t.Parallel()

		e := NewError("base", errors.New("error 1"), errors.New("error 2"))

		unwrapped := e.Unwrap()
		require.Error(t, unwrapped)
		assert.Contains(t, unwrapped.Error(), "error 1")
		assert.Contains(t, unwrapped.Error(), "error 2")
	})

	t.Run("Unwrap nil or empty", func(t *testing.T) {
		t.Parallel()

		var e *Error
		require.NoError(t, e.Unwrap())

		e2 := &Error{Message: "no errors"}
		require.NoError(t, e2.Unwrap())
	})
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	tests := map[Outcome]string{
		OutcomeOk:          "ok",
		OutcomeNotFound:    "not_found",
		OutcomeParseFailed: "parse_failed",
		OutcomeDefaulted:   "defaulted",
		OutcomeUnchanged:   "unchanged",
		Outcome(42):        "outcome(42)",
	}

	for outcome, want := range tests {
		assert.Equal(t, want, outcome.String())
	}
}
