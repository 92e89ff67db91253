package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWriteGuard(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Idle guards suppress nothing", func(t *testing.T) {
		guard := NewWriteGuard(2 * time.Second)
		assert.False(t, guard.shouldSuppressAt(now))
		assert.Equal(t, GuardIdle, guard.State())
	})

	t.Run("An open write suppresses regardless of elapsed time", func(t *testing.T) {
		guard := NewWriteGuard(2 * time.Second)
		guard.BeginWrite()
		assert.True(t, guard.shouldSuppressAt(now))
		assert.True(t, guard.shouldSuppressAt(now.Add(time.Hour)))
	})

	t.Run("Cool-down suppresses until the window elapses", func(t *testing.T) {
		guard := NewWriteGuard(2 * time.Second)
		guard.BeginWrite()
		guard.EndWrite()

		assert.True(t, guard.ShouldSuppress())
		assert.True(t, guard.shouldSuppressAt(time.Now().Add(time.Second)))
		assert.False(t, guard.shouldSuppressAt(time.Now().Add(3*time.Second)))
	})

	t.Run("An expired cool-down collapses back to idle", func(t *testing.T) {
		guard := NewWriteGuard(2 * time.Second)
		guard.BeginWrite()
		guard.EndWrite()

		guard.shouldSuppressAt(time.Now().Add(time.Minute))
		assert.Equal(t, GuardIdle, guard.State())
		assert.False(t, guard.ShouldSuppress())
	})

	t.Run("A new write reopens an expired guard", func(t *testing.T) {
		guard := NewWriteGuard(2 * time.Second)
		guard.BeginWrite()
		guard.EndWrite()
		guard.shouldSuppressAt(time.Now().Add(time.Minute))

		guard.BeginWrite()
		assert.True(t, guard.ShouldSuppress())
	})

	t.Run("A non-positive window falls back to the default", func(t *testing.T) {
		guard := NewWriteGuard(0)
		guard.BeginWrite()
		guard.EndWrite()
		assert.True(t, guard.shouldSuppressAt(time.Now().Add(time.Second)))
		assert.False(t, guard.shouldSuppressAt(time.Now().Add(5*time.Second)))
	})
}

func TestGuardSet(t *testing.T) {
	t.Run("The same session gets the same guard", func(t *testing.T) {
		set := NewGuardSet(2 * time.Second)
		assert.Same(t, set.Guard("session-a"), set.Guard("session-a"))
	})

	t.Run("Different sessions get independent guards", func(t *testing.T) {
		set := NewGuardSet(2 * time.Second)
		set.Guard("session-a").BeginWrite()

		assert.True(t, set.Guard("session-a").ShouldSuppress())
		assert.False(t, set.Guard("session-b").ShouldSuppress())
	})

	t.Run("Removing a session discards its guard", func(t *testing.T) {
		set := NewGuardSet(2 * time.Second)
		set.Guard("session-a").BeginWrite()
		set.Remove("session-a")

		assert.False(t, set.Guard("session-a").ShouldSuppress())
	})
}
