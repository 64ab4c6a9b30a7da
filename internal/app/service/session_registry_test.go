package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRegistryLifecycle(t *testing.T) {
	backend := newFakeBackend(testEditData())
	registry := NewSessionRegistry(backend, time.Hour, 2)

	id, session := registry.Create(7)
	require.NotEmpty(t, id)
	require.NotNil(t, session)
	assert.Equal(t, uint(7), session.ComponentID())
	assert.Equal(t, 1, registry.Len())

	got, err := registry.Get(id)
	require.NoError(t, err)
	assert.Same(t, session, got)

	registry.Remove(id)
	assert.Equal(t, 0, registry.Len())

	_, err = registry.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRegistrySweepExpired(t *testing.T) {
	backend := newFakeBackend(testEditData())
	registry := NewSessionRegistry(backend, 30*time.Minute, 2)

	current := time.Now()
	registry.now = func() time.Time { return current }

	stale, _ := registry.Create(7)
	current = current.Add(20 * time.Minute)
	fresh, _ := registry.Create(8)

	// 20 idle minutes on the first session, none on the second
	current = current.Add(15 * time.Minute)
	assert.Equal(t, 1, registry.SweepExpired())
	assert.Equal(t, 1, registry.Len())

	_, err := registry.Get(stale)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = registry.Get(fresh)
	assert.NoError(t, err)
}

func TestSessionRegistryGetRefreshesIdleTimer(t *testing.T) {
	backend := newFakeBackend(testEditData())
	registry := NewSessionRegistry(backend, 30*time.Minute, 2)

	current := time.Now()
	registry.now = func() time.Time { return current }

	id, _ := registry.Create(7)

	current = current.Add(25 * time.Minute)
	_, err := registry.Get(id)
	require.NoError(t, err)

	current = current.Add(25 * time.Minute)
	assert.Equal(t, 0, registry.SweepExpired())
	assert.Equal(t, 1, registry.Len())
}
