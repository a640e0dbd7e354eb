package observability

import (
	"sync/atomic"
	"time"
)

// MonitoringStats is a point-in-time snapshot of the relay counters,
// consumed by the telemetry worker for periodic logging.
type MonitoringStats struct {
	ConnectionsOpened uint64 `json:"connections_opened"`
	ConnectionsClosed uint64 `json:"connections_closed"`
	HandshakeRetries  uint64 `json:"handshake_retries"`
	LinesRouted       uint64 `json:"lines_routed"`
	LinesDropped      uint64 `json:"lines_dropped"`
	CensoredMessages  uint64 `json:"censored_messages"`
}

// MonitoringManager aggregates real-time counters for the relay.
// All counters are atomic; the manager is shared between the accept loop,
// the sessions and the registry without additional locking.
type MonitoringManager struct {
	ConnectionsOpened uint64
	ConnectionsClosed uint64
	HandshakeRetries  uint64
	LinesRouted       uint64
	LinesDropped      uint64
	CensoredMessages  uint64
	LastCheck         time.Time
}

func NewMonitoringManager() *MonitoringManager {
	return &MonitoringManager{LastCheck: time.Now()}
}

func (mm *MonitoringManager) IncrConnectionsOpened() {
	atomic.AddUint64(&mm.ConnectionsOpened, 1)
}

func (mm *MonitoringManager) IncrConnectionsClosed() {
	atomic.AddUint64(&mm.ConnectionsClosed, 1)
}

func (mm *MonitoringManager) IncrHandshakeRetries() {
	atomic.AddUint64(&mm.HandshakeRetries, 1)
}

func (mm *MonitoringManager) IncrLinesRouted() {
	atomic.AddUint64(&mm.LinesRouted, 1)
}

func (mm *MonitoringManager) IncrLinesDropped() {
	atomic.AddUint64(&mm.LinesDropped, 1)
}

func (mm *MonitoringManager) IncrCensoredMessages() {
	atomic.AddUint64(&mm.CensoredMessages, 1)
}

// GetLatest returns a consistent-enough snapshot for logging purposes.
func (mm *MonitoringManager) GetLatest() MonitoringStats {
	return MonitoringStats{
		ConnectionsOpened: atomic.LoadUint64(&mm.ConnectionsOpened),
		ConnectionsClosed: atomic.LoadUint64(&mm.ConnectionsClosed),
		HandshakeRetries:  atomic.LoadUint64(&mm.HandshakeRetries),
		LinesRouted:       atomic.LoadUint64(&mm.LinesRouted),
		LinesDropped:      atomic.LoadUint64(&mm.LinesDropped),
		CensoredMessages:  atomic.LoadUint64(&mm.CensoredMessages),
	}
}
