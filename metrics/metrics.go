// Package metrics exposes conduit channel diagnostics as Prometheus metrics.
//
// A [Collector] watches any number of named channels and reports their size
// and capacity gauges on every scrape. Since Size is a point-in-time
// diagnostic, the reported values are best-effort snapshots.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Diagnostics is the read-only view a channel exposes for monitoring.
// Both halves of a conduit channel satisfy it.
type Diagnostics interface {
	// Cap returns the channel capacity, or a negative value for unbounded channels.
	Cap() int

	// Size returns the number of buffered values plus hanging senders minus
	// hanging receivers.
	Size() int
}

// Collector is a prometheus.Collector reporting per-channel gauges.
type Collector struct {
	mu       sync.Mutex
	channels map[string]Diagnostics

	size     *prometheus.Desc
	capacity *prometheus.Desc
}

// NewCollector returns a collector publishing under the given namespace:
// <namespace>_channel_size and <namespace>_channel_capacity, both labeled
// with the channel name.
func NewCollector(namespace string) *Collector {
	return &Collector{
		channels: make(map[string]Diagnostics),
		size: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "channel", "size"),
			"Buffered values plus hanging senders minus hanging receivers.",
			[]string{"channel"}, nil,
		),
		capacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "channel", "capacity"),
			"Channel capacity; -1 for unbounded channels.",
			[]string{"channel"}, nil,
		),
	}
}

// Watch registers a channel under the given name. Watching the same name
// again replaces the previous channel.
func (c *Collector) Watch(name string, d Diagnostics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels[name] = d
}

// Forget removes a previously watched channel.
func (c *Collector) Forget(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.channels, name)
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.capacity
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	snapshot := make(map[string]Diagnostics, len(c.channels))
	for name, d := range c.channels {
		snapshot[name] = d
	}
	c.mu.Unlock()

	for name, d := range snapshot {
		ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(d.Size()), name)
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(d.Cap()), name)
	}
}
