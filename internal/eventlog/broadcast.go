package eventlog

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// VerdictAlert is the structured payload fanned out to connected
// dashboards whenever a scored verdict is produced — distinct from the
// persisted Event in store.go, which is the durable audit trail.
type VerdictAlert struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Severity    string    `json:"severity"` // risk level or trust level, whichever the caller scored
	EventType   string    `json:"eventType"`
	Chain       string    `json:"chain"`
	Target      string    `json:"target,omitempty"`
	TxHash      string    `json:"txHash,omitempty"`
	RiskScore   int       `json:"riskScore,omitempty"`
	TrustScore  int       `json:"trustScore,omitempty"`
}

// Broadcaster fans VerdictAlerts out to a push callback (the websocket
// hub) and keeps a bounded in-memory history for late subscribers.
type Broadcaster struct {
	mu           sync.RWMutex
	recent       []VerdictAlert
	maxHistory   int
	pushCallback func(VerdictAlert)
}

// NewBroadcaster wires a push callback — normally the websocket hub's
// Broadcast method, which marshals the alert to JSON itself.
func NewBroadcaster(pushCallback func(VerdictAlert)) *Broadcaster {
	return &Broadcaster{
		maxHistory:   1000,
		pushCallback: pushCallback,
	}
}

// Emit records the alert in history and pushes it to the live callback.
// Each alert gets a fresh correlation ID so subscribers can dedupe
// across reconnects instead of matching on timestamp/content.
func (b *Broadcaster) Emit(alert VerdictAlert) {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now()
	}

	b.mu.Lock()
	b.recent = append(b.recent, alert)
	if len(b.recent) > b.maxHistory {
		b.recent = b.recent[len(b.recent)-b.maxHistory:]
	}
	b.mu.Unlock()

	if b.pushCallback != nil {
		b.pushCallback(alert)
	}
}

// Recent returns up to n of the most recently emitted alerts.
func (b *Broadcaster) Recent(n int) []VerdictAlert {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n > len(b.recent) {
		n = len(b.recent)
	}
	out := make([]VerdictAlert, n)
	copy(out, b.recent[len(b.recent)-n:])
	return out
}
