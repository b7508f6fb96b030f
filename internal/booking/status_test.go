package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to checked_in", StatusPending, StatusCheckedIn, false},
		{"pending to checked_out", StatusPending, StatusCheckedOut, false},
		{"confirmed to checked_in", StatusConfirmed, StatusCheckedIn, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to pending", StatusConfirmed, StatusPending, false},
		{"confirmed to checked_out", StatusConfirmed, StatusCheckedOut, false},
		{"checked_in to checked_out", StatusCheckedIn, StatusCheckedOut, true},
		{"checked_in to cancelled", StatusCheckedIn, StatusCancelled, false},
		{"checked_in to confirmed", StatusCheckedIn, StatusConfirmed, false},
		{"checked_out is terminal", StatusCheckedOut, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"cancelled to confirmed", StatusCancelled, StatusConfirmed, false},
		{"unknown status", Status("teleported"), StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusCheckedIn.IsTerminal())
	assert.True(t, StatusCheckedOut.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, Status("bogus").IsTerminal())
}

func TestStatusCanBeCancelled(t *testing.T) {
	assert.True(t, StatusPending.CanBeCancelled())
	assert.True(t, StatusConfirmed.CanBeCancelled())
	assert.False(t, StatusCheckedIn.CanBeCancelled())
	assert.False(t, StatusCheckedOut.CanBeCancelled())
	assert.False(t, StatusCancelled.CanBeCancelled())
}

func TestApplyTransition(t *testing.T) {
	expires := time.Now().Add(20 * time.Minute)

	t.Run("pending to confirmed clears hold deadline", func(t *testing.T) {
		b := Booking{Status: StatusPending, ExpiresAt: &expires}

		out, err := ApplyTransition(b, StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, out.Status)
		assert.Nil(t, out.ExpiresAt)
		// Input is untouched.
		assert.NotNil(t, b.ExpiresAt)
		assert.Equal(t, StatusPending, b.Status)
	})

	t.Run("pending to cancelled clears hold deadline", func(t *testing.T) {
		b := Booking{Status: StatusPending, ExpiresAt: &expires}

		out, err := ApplyTransition(b, StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, out.Status)
		assert.Nil(t, out.ExpiresAt)
	})

	t.Run("disallowed transition", func(t *testing.T) {
		b := Booking{Status: StatusCheckedOut}

		_, err := ApplyTransition(b, StatusCancelled)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Contains(t, err.Error(), "checked_out -> cancelled")
	})

	t.Run("unknown current status", func(t *testing.T) {
		b := Booking{Status: Status("limbo")}

		_, err := ApplyTransition(b, StatusConfirmed)
		assert.ErrorIs(t, err, ErrInvariantViolation)
	})

	t.Run("unknown target status", func(t *testing.T) {
		b := Booking{Status: StatusPending}

		_, err := ApplyTransition(b, Status("limbo"))
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}
