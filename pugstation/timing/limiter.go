package timing

import "time"

// Limiter paces the emulation loop to real time.
type Limiter interface {
	// Wait blocks until the next slice of emulated time is due.
	// Returns immediately if timing is behind schedule.
	Wait()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) Wait()  {}
func (n *noOpLimiter) Reset() {}

// CPUFrequency is the R3000A clock in Hz.
const CPUFrequency = 33868800

// BatchDuration returns the real time taken by n instructions, counting
// one cycle per instruction.
func BatchDuration(instructions int) time.Duration {
	return time.Duration(float64(instructions) * float64(time.Second) / CPUFrequency)
}
