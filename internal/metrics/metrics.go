package metrics

import (
	"sort"
	"sync"
	"time"
)

// Metrics accumulates per-target probing statistics.
type Metrics struct {
	mutex     sync.RWMutex
	attempts  map[string]int64
	successes map[string]int64
	rtts      map[string][]time.Duration
	statuses  map[string]string
	startTime time.Time
}

type Snapshot struct {
	TotalAttempts int64                    `json:"total_attempts"`
	Uptime        time.Duration            `json:"uptime"`
	Targets       map[string]TargetMetrics `json:"targets"`
}

type TargetMetrics struct {
	Attempts  int64         `json:"attempts"`
	Successes int64         `json:"successes"`
	Status    string        `json:"status"`
	P50RTT    time.Duration `json:"p50_rtt"`
	P95RTT    time.Duration `json:"p95_rtt"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		attempts:  make(map[string]int64),
		successes: make(map[string]int64),
		rtts:      make(map[string][]time.Duration),
		statuses:  make(map[string]string),
		startTime: time.Now(),
	}
}

func (m *Metrics) RecordAttempt(target string, ok bool, rtt time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.attempts[target]++
	if !ok {
		return
	}

	m.successes[target]++
	m.rtts[target] = append(m.rtts[target], rtt)

	if len(m.rtts[target]) > 1000 {
		m.rtts[target] = m.rtts[target][1:]
	}
}

func (m *Metrics) RecordClassification(target, status string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.statuses[target] = status
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:  time.Since(m.startTime),
		Targets: make(map[string]TargetMetrics),
	}

	allTargets := make(map[string]bool)
	for target := range m.attempts {
		allTargets[target] = true
	}
	for target := range m.statuses {
		allTargets[target] = true
	}

	for target := range allTargets {
		snap.TotalAttempts += m.attempts[target]

		tm := TargetMetrics{
			Attempts:  m.attempts[target],
			Successes: m.successes[target],
			Status:    m.statuses[target],
		}

		samples := m.rtts[target]
		if len(samples) > 0 {
			sorted := make([]time.Duration, len(samples))
			copy(sorted, samples)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			tm.P50RTT = percentile(sorted, 0.50)
			tm.P95RTT = percentile(sorted, 0.95)
		}

		snap.Targets[target] = tm
	}

	return snap
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
