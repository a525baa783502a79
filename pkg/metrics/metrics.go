package metrics

import (
	"sync"
	"time"
)

const maxObservations = 100

// Collector is an in-process metrics sink: named counters plus rolling
// latency and size observations, each capped at the last 100 samples.
type Collector struct {
	mu        sync.RWMutex
	counters  map[string]int64
	latencies map[string][]time.Duration
	sizes     map[string][]float64
}

func NewCollector() *Collector {
	return &Collector{
		counters:  make(map[string]int64),
		latencies: make(map[string][]time.Duration),
		sizes:     make(map[string][]float64),
	}
}

func (c *Collector) IncrementCounter(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name]++
}

func (c *Collector) ObserveLatency(name string, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	obs := append(c.latencies[name], d)
	if len(obs) > maxObservations {
		obs = obs[len(obs)-maxObservations:]
	}
	c.latencies[name] = obs
}

func (c *Collector) ObserveSize(name string, size float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	obs := append(c.sizes[name], size)
	if len(obs) > maxObservations {
		obs = obs[len(obs)-maxObservations:]
	}
	c.sizes[name] = obs
}

func (c *Collector) Counters() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]int64, len(c.counters))
	for name, v := range c.counters {
		out[name] = v
	}
	return out
}

// Latencies reports the rolling average per metric in milliseconds.
func (c *Collector) Latencies() map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]float64, len(c.latencies))
	for name, durations := range c.latencies {
		if len(durations) == 0 {
			continue
		}
		var sum time.Duration
		for _, d := range durations {
			sum += d
		}
		out[name] = float64(sum) / float64(len(durations)) / float64(time.Millisecond)
	}
	return out
}

// Sizes reports the rolling average and max per metric in bytes.
func (c *Collector) Sizes() map[string]map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]map[string]float64, len(c.sizes))
	for name, obs := range c.sizes {
		if len(obs) == 0 {
			continue
		}
		var sum, max float64
		for _, v := range obs {
			sum += v
			if v > max {
				max = v
			}
		}
		out[name] = map[string]float64{
			"avg_bytes": sum / float64(len(obs)),
			"max_bytes": max,
		}
	}
	return out
}
