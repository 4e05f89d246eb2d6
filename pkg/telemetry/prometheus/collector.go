package prometheus

import (
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/livekit/rtprx/pkg/receiver"
)

const (
	rtprxNamespace string = "rtprx"
)

type SessionSource interface {
	Stats() receiver.CountersSnapshot
	QueueLen() int
}

type counterDesc struct {
	desc  *prometheus.Desc
	value func(s receiver.CountersSnapshot) uint64
}

// Collector exports the process wide receive counters and a few per session values.
// Values are read when scraped, nothing is pushed from the packet path.
type Collector struct {
	global   *receiver.Counters
	counters []counterDesc

	sessionPackets  *prometheus.Desc
	sessionQueueLen *prometheus.Desc

	lock     sync.RWMutex
	sessions *orderedmap.OrderedMap[string, SessionSource]
}

func NewCollector(nodeID string, global *receiver.Counters) *Collector {
	constLabels := prometheus.Labels{"node_id": nodeID}
	newCounter := func(subsystem, name, help string, value func(s receiver.CountersSnapshot) uint64) counterDesc {
		return counterDesc{
			desc:  prometheus.NewDesc(prometheus.BuildFQName(rtprxNamespace, subsystem, name), help, nil, constLabels),
			value: value,
		}
	}

	return &Collector{
		global: global,
		counters: []counterDesc{
			newCounter("packet", "received_total", "RTP packets accepted past the version check.",
				func(s receiver.CountersSnapshot) uint64 { return s.PacketsReceived }),
			newCounter("packet", "received_bytes", "Bytes of RTP packets accepted past the version check.",
				func(s receiver.CountersSnapshot) uint64 { return s.BytesReceived }),
			newCounter("packet", "bad_total", "Datagrams rejected as malformed, unknown source or non RTP.",
				func(s receiver.CountersSnapshot) uint64 { return s.Bad }),
			newCounter("packet", "discarded_total", "Packets dropped for empty payload or full queue.",
				func(s receiver.CountersSnapshot) uint64 { return s.Discarded }),
			newCounter("packet", "out_of_time_total", "Packets older than what was already delivered.",
				func(s receiver.CountersSnapshot) uint64 { return s.OutOfTime }),
			newCounter("packet", "duplicates_total", "Packets with a sequence number already queued.",
				func(s receiver.CountersSnapshot) uint64 { return s.Duplicates }),
			newCounter("nack", "total", "Immediate NACK entries generated.",
				func(s receiver.CountersSnapshot) uint64 { return s.Nacks }),
		},
		sessionPackets: prometheus.NewDesc(
			prometheus.BuildFQName(rtprxNamespace, "session", "packets_received"),
			"RTP packets received by a session.",
			[]string{"session"}, constLabels,
		),
		sessionQueueLen: prometheus.NewDesc(
			prometheus.BuildFQName(rtprxNamespace, "session", "queue_length"),
			"Packets waiting in a session receive queue.",
			[]string{"session"}, constLabels,
		),
		sessions: orderedmap.NewOrderedMap[string, SessionSource](),
	}
}

func (c *Collector) AddSession(name string, s SessionSource) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.sessions.Set(name, s)
}

func (c *Collector) RemoveSession(name string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.sessions.Delete(name)
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, cd := range c.counters {
		ch <- cd.desc
	}
	ch <- c.sessionPackets
	ch <- c.sessionQueueLen
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snapshot := c.global.Snapshot()
	for _, cd := range c.counters {
		ch <- prometheus.MustNewConstMetric(cd.desc, prometheus.CounterValue, float64(cd.value(snapshot)))
	}

	c.lock.RLock()
	defer c.lock.RUnlock()

	for el := c.sessions.Front(); el != nil; el = el.Next() {
		ch <- prometheus.MustNewConstMetric(c.sessionPackets, prometheus.CounterValue, float64(el.Value.Stats().PacketsReceived), el.Key)
		ch <- prometheus.MustNewConstMetric(c.sessionQueueLen, prometheus.GaugeValue, float64(el.Value.QueueLen()), el.Key)
	}
}
