package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFake_SleepAdvancesTime(t *testing.T) {
	c := Fake(epoch)

	c.Sleep(500 * time.Millisecond)
	c.Sleep(2 * time.Second)

	assert.Equal(t, epoch.Add(2500*time.Millisecond), c.Now())
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 2 * time.Second}, c.Sleeps())
	assert.Equal(t, 2500*time.Millisecond, c.Slept())
}

func TestFake_NonPositiveSleepIsNoop(t *testing.T) {
	c := Fake(epoch)

	c.Sleep(0)
	c.Sleep(-time.Second)

	assert.Equal(t, epoch, c.Now())
	assert.Empty(t, c.Sleeps())
}

func TestFake_AdvanceIsNotRecorded(t *testing.T) {
	c := Fake(epoch)

	c.Advance(time.Minute)

	assert.Equal(t, epoch.Add(time.Minute), c.Now())
	assert.Empty(t, c.Sleeps())
}

func TestReal_SleepWaits(t *testing.T) {
	c := Real()
	start := c.Now()
	c.Sleep(10 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}
