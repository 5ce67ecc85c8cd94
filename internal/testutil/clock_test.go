package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestDeterministicClock_StartsFrozen(t *testing.T) {
	clock := NewDeterministicClock(epoch)

	assert.Equal(t, epoch, clock.Now())
	assert.Equal(t, epoch, clock.Now(), "clock must not move on its own")
}

func TestDeterministicClock_AdvanceAccumulates(t *testing.T) {
	clock := NewDeterministicClock(epoch)

	clock.Advance(5 * time.Second)
	assert.Equal(t, epoch.Add(5*time.Second), clock.Now())

	clock.Advance(25 * time.Second)
	assert.Equal(t, epoch.Add(30*time.Second), clock.Now())
}

func TestDeterministicClock_Set(t *testing.T) {
	clock := NewDeterministicClock(epoch)
	clock.Advance(time.Hour)

	later := epoch.Add(24 * time.Hour)
	clock.Set(later)
	assert.Equal(t, later, clock.Now())
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	clock := NewDeterministicClock(epoch)
	const goroutines = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
		}()
	}
	wg.Wait()

	// Every Advance lands exactly once.
	assert.Equal(t, epoch.Add(goroutines*time.Second), clock.Now())
}
