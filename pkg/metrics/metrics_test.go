package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	c := NewCollector()

	c.IncrementCounter("projects_created")
	c.IncrementCounter("projects_created")
	c.IncrementCounter("documents_uploaded")

	counters := c.Counters()
	assert.Equal(t, int64(2), counters["projects_created"])
	assert.Equal(t, int64(1), counters["documents_uploaded"])

	// The snapshot is a copy.
	counters["projects_created"] = 99
	assert.Equal(t, int64(2), c.Counters()["projects_created"])
}

func TestLatencyAverages(t *testing.T) {
	c := NewCollector()

	c.ObserveLatency("upload", 10*time.Millisecond)
	c.ObserveLatency("upload", 30*time.Millisecond)

	assert.InDelta(t, 20.0, c.Latencies()["upload"], 0.001)
}

func TestSizeAggregates(t *testing.T) {
	c := NewCollector()

	c.ObserveSize("upload", 100)
	c.ObserveSize("upload", 300)

	sizes := c.Sizes()["upload"]
	assert.InDelta(t, 200.0, sizes["avg_bytes"], 0.001)
	assert.InDelta(t, 300.0, sizes["max_bytes"], 0.001)
}

func TestObservationsAreCapped(t *testing.T) {
	c := NewCollector()

	for i := 0; i < maxObservations+50; i++ {
		c.ObserveLatency("upload", time.Millisecond)
	}
	c.ObserveLatency("upload", 201*time.Millisecond)

	// 99 one-ms samples plus the outlier remain in the window.
	assert.InDelta(t, 3.0, c.Latencies()["upload"], 0.001)
}
