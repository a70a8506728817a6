package scheduler

import (
	"fmt"
	"time"
)

// TimeProvider abstracts the clock used to measure elapsed and tick time
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider provides the real system time with monotonic clock readings
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates a new monotonic time provider
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns the current time with monotonic clock reading
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider is a manual clock for deterministic scheduler tests
// It only moves forward when advanced; like the scheduler it is owned by one goroutine
type MockTimeProvider struct {
	start time.Time
	now   time.Time
}

// NewMockTimeProvider creates a clock frozen at start
func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{start: start, now: start}
}

func (m *MockTimeProvider) Now() time.Time {
	return m.now
}

// Advance moves the clock forward by d, panicking on negative d to keep it monotonic
// Its signature matches time.Sleep so it can stand in for frame pacing
func (m *MockTimeProvider) Advance(d time.Duration) {
	if d < 0 {
		panic(fmt.Sprintf("scheduler: mock clock moved backwards by %v", -d))
	}
	m.now = m.now.Add(d)
}

// Elapsed returns the total time advanced since creation
func (m *MockTimeProvider) Elapsed() time.Duration {
	return m.now.Sub(m.start)
}
