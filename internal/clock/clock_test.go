package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualFiresInOrder(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	var order []string

	m.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })
	m.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	stopped := m.AfterFunc(15*time.Millisecond, func() { order = append(order, "x") })

	assert.True(t, stopped.Stop(), "Stop should report the timer was pending")

	m.Advance(15 * time.Millisecond)
	require.Equal(t, []string{"a"}, order)

	m.Advance(5 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Zero(t, m.Pending(), "Expected no pending timers")
}

func TestManualTimerScheduledFromCallback(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	fired := 0

	m.AfterFunc(10*time.Millisecond, func() {
		fired++
		m.AfterFunc(10*time.Millisecond, func() { fired++ })
	})

	m.Advance(25 * time.Millisecond)
	assert.Equal(t, 2, fired, "Expected both timers to fire")
}

func TestManualTicker(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	tk := m.NewTicker(10 * time.Millisecond)

	m.Advance(10 * time.Millisecond)
	select {
	case <-tk.C():
	default:
		t.Fatal("Expected a tick after one interval")
	}

	tk.Stop()
	m.Advance(50 * time.Millisecond)
	select {
	case <-tk.C():
		t.Error("Stopped ticker should not tick")
	default:
	}
}
