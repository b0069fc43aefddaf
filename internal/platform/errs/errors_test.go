package errs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("loading widget: %w", NewNotFoundError("Widget", "abc"))

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindNotFound, kind)
	assert.Equal(t, "loading widget: Widget not found: abc", wrapped.Error())

	_, ok = KindOf(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestInvalidStateMessage(t *testing.T) {
	err := NewInvalidStateError("idle", "routed")
	assert.Equal(t, "cannot transition from idle to routed", err.Error())
}
