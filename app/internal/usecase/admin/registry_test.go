package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/auth"
)

func TestRegistry_ExpiresEntries(t *testing.T) {
	now := time.Unix(1000, 0)
	r := NewRegistry(time.Hour)
	r.now = func() time.Time { return now }

	ctrl := NewController(context.Background(), auth.NewSession("s-1"), newMockProductRepository(), newMockBucket())
	r.Put(ctrl)

	got, ok := r.Get("s-1")
	require.True(t, ok)
	require.Same(t, ctrl, got)

	now = now.Add(2 * time.Hour)
	_, ok = r.Get("s-1")
	require.False(t, ok)
	require.Equal(t, 0, r.Len())
}

func TestRegistry_PutPrunesExpired(t *testing.T) {
	now := time.Unix(1000, 0)
	r := NewRegistry(time.Minute)
	r.now = func() time.Time { return now }

	r.Put(NewController(context.Background(), auth.NewSession("old"), newMockProductRepository(), newMockBucket()))
	now = now.Add(time.Hour)
	r.Put(NewController(context.Background(), auth.NewSession("new"), newMockProductRepository(), newMockBucket()))

	require.Equal(t, 1, r.Len())
	_, ok := r.Get("old")
	require.False(t, ok)
}
