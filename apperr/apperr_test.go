package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("disk on fire")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "plain error", err: cause, want: KindInternal},
		{name: "validation", err: Validation("bad"), want: KindValidation},
		{name: "wrapped conflict", err: fmt.Errorf("register: %w", Conflict("dup")), want: KindConflict},
		{name: "processing", err: Processing("failed", cause), want: KindProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Internal("Server error", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, KindInternal))
	assert.False(t, Is(err, KindNotFound))
	assert.Equal(t, "internal: Server error: boom", err.Error())
	assert.Equal(t, "not_found: User not found", NotFound("User not found").Error())
}
