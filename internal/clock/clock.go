// Package clock provides an injectable time source so polling and pacing
// code can be driven deterministically in tests.
//
// Production code takes a Clock instead of calling time.Now or time.Sleep
// directly. Real() wraps the time package; Fake() returns a clock whose
// Sleep advances virtual time instantly.
package clock

import "time"

// Clock abstracts the two time operations ccrun needs.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep pauses the calling goroutine for at least d.
	// A non-positive d returns immediately.
	Sleep(d time.Duration)
}

// Real returns a Clock backed by the time package.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}
