package audit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/metrics"
)

// Emitter records an audit entry after a mutation has committed. It
// never returns an error and never blocks the mutation path: audit
// capture is best-effort by contract.
type Emitter interface {
	Emit(ctx context.Context, entry *domain.AuditEntry)
}

// RetryingEmitter appends entries synchronously and parks failures in a
// bounded in-memory queue that a background task drains. When the queue
// overflows the oldest entry is dropped and logged, trading total
// capture for bounded memory.
type RetryingEmitter struct {
	repo    domain.AuditRepository
	logger  *slog.Logger
	metrics *metrics.UPIMetrics

	mu      sync.Mutex
	queue   []*domain.AuditEntry
	maxSize int
}

func NewRetryingEmitter(repo domain.AuditRepository, logger *slog.Logger, upiMetrics *metrics.UPIMetrics, maxQueueSize int) *RetryingEmitter {
	if maxQueueSize < 1 {
		maxQueueSize = 1024
	}
	return &RetryingEmitter{
		repo:    repo,
		logger:  logger,
		metrics: upiMetrics,
		maxSize: maxQueueSize,
	}
}

func (e *RetryingEmitter) Emit(ctx context.Context, entry *domain.AuditEntry) {
	if err := e.repo.AppendEntry(ctx, entry); err != nil {
		e.logger.Error("audit append failed, entry queued for retry",
			"action", entry.Action, "entity_id", entry.EntityID, "error", err.Error())
		e.metrics.RecordAuditAppendFailure()
		e.enqueue(entry)
		return
	}
	e.metrics.RecordAuditAppend(string(entry.Action))
}

func (e *RetryingEmitter) enqueue(entry *domain.AuditEntry) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.queue) >= e.maxSize {
		dropped := e.queue[0]
		e.queue = e.queue[1:]
		e.logger.Error("audit retry queue full, dropping oldest entry",
			"dropped_action", dropped.Action, "dropped_entity_id", dropped.EntityID)
	}
	e.queue = append(e.queue, entry)
	e.metrics.SetAuditRetryQueueDepth(len(e.queue))
}

// Flush retries every parked entry once. Entries that fail again go
// back to the queue in their original order.
func (e *RetryingEmitter) Flush(ctx context.Context) {
	e.mu.Lock()
	pending := e.queue
	e.queue = nil
	e.mu.Unlock()

	if len(pending) == 0 {
		return
	}

	var stillFailing []*domain.AuditEntry
	for _, entry := range pending {
		if err := e.repo.AppendEntry(ctx, entry); err != nil {
			stillFailing = append(stillFailing, entry)
			continue
		}
		e.metrics.RecordAuditAppend(string(entry.Action))
	}

	e.mu.Lock()
	e.queue = append(stillFailing, e.queue...)
	depth := len(e.queue)
	e.mu.Unlock()

	e.metrics.SetAuditRetryQueueDepth(depth)
	if len(stillFailing) > 0 {
		e.logger.Warn("audit retry flush incomplete",
			"retried", len(pending), "still_failing", len(stillFailing))
	} else {
		e.logger.Info("audit retry queue drained", "retried", len(pending))
	}
}

// Depth reports how many entries await retry.
func (e *RetryingEmitter) Depth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}
