package toast_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasiyapay/consolekit/pkg/toast"
)

func TestConstructors(t *testing.T) {
	success := toast.Success("order created")
	assert.Equal(t, toast.LevelSuccess, success.Level)
	assert.Equal(t, "order created", success.Message)
	assert.NotEmpty(t, success.ID)
	assert.False(t, success.CreatedAt.IsZero())

	failure := toast.Error("request failed")
	assert.Equal(t, toast.LevelError, failure.Level)
	assert.NotEqual(t, success.ID, failure.ID)
}

func TestRecorder(t *testing.T) {
	rec := toast.NewRecorder()
	ctx := context.Background()

	rec.Notify(ctx, toast.Success("one"))
	rec.Notify(ctx, toast.Error("two"))

	toasts := rec.Toasts()
	require.Len(t, toasts, 2)
	assert.Equal(t, "one", toasts[0].Message)
	assert.Equal(t, toast.LevelError, toasts[1].Level)

	rec.Reset()
	assert.Empty(t, rec.Toasts())
}

func TestMulti(t *testing.T) {
	a := toast.NewRecorder()
	b := toast.NewRecorder()
	multi := toast.NewMulti(a, b)

	multi.Notify(context.Background(), toast.Info("hello"))

	require.Len(t, a.Toasts(), 1)
	require.Len(t, b.Toasts(), 1)
}
