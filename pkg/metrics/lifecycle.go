package metrics

import (
	"sync"
	"time"

	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
)

// Lifecycle counts how tasks end and how push deliveries go.
type Lifecycle struct {
	mu sync.RWMutex

	// Task metrics
	Submitted   int64
	Finished    map[a2a.TaskState]int64
	RunDuration time.Duration

	// Delivery metrics
	Deliveries       int64
	FailedDeliveries int64
	DeliveryLatency  time.Duration
}

func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		Finished: make(map[a2a.TaskState]int64),
	}
}

// RecordSubmitted records a task accepted by tasks/send.
func (m *Lifecycle) RecordSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Submitted++
}

// RecordFinished records the state a runner left the task in.
func (m *Lifecycle) RecordFinished(state a2a.TaskState, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Finished[state]++
	m.RunDuration += duration
}

// RecordDelivery records one webhook POST.
func (m *Lifecycle) RecordDelivery(success bool, latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Deliveries++
	if !success {
		m.FailedDeliveries++
	}
	m.DeliveryLatency += latency
}

// GetMetrics returns a snapshot of the current metrics.
func (m *Lifecycle) GetMetrics() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var runs int64
	finished := make(map[string]int64, len(m.Finished))

	for state, count := range m.Finished {
		finished[string(state)] = count
		runs += count
	}

	return map[string]any{
		"submitted":            m.Submitted,
		"finished":             finished,
		"avg_run_duration":     average(m.RunDuration, runs),
		"deliveries":           m.Deliveries,
		"failed_deliveries":    m.FailedDeliveries,
		"avg_delivery_latency": average(m.DeliveryLatency, m.Deliveries),
	}
}

func average(total time.Duration, count int64) float64 {
	if count == 0 {
		return 0
	}

	return total.Seconds() / float64(count)
}
