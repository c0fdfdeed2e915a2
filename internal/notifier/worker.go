package notifier

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/pulsewire/backend/internal/queue"
)

// DrainWorker empties the durable work queue and attempts one live delivery
// per entry. It is a drain-to-empty worker, invoked after each fan-out
// rather than running as a standing consumer.
type DrainWorker struct {
	mu         sync.Mutex
	queue      queue.Queue
	dispatcher Deliverer
}

// NewDrainWorker creates a new DrainWorker
func NewDrainWorker(q queue.Queue, dispatcher Deliverer) *DrainWorker {
	return &DrainWorker{queue: q, dispatcher: dispatcher}
}

// DrainOnce pops entries until the queue reports empty and attempts delivery
// for each. Every popped entry is consumed exactly once: an offline
// recipient is a normal miss whose persisted record covers the eventual
// catch-up read, and a delivered entry gets no acknowledgment. A pop error
// terminates the loop early and is returned. Returns the number of entries
// processed. Invocations serialize on a mutex so only one drain loop runs
// per worker.
func (w *DrainWorker) DrainOnce(ctx context.Context) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	processed := 0
	for {
		entry, err := w.queue.Pop(ctx)
		if err != nil {
			return processed, fmt.Errorf("failed to pop queue entry: %w", err)
		}
		if entry == nil {
			return processed, nil
		}
		processed++

		if !w.dispatcher.DeliverToUser(entry.UserID, entry.Payload()) {
			log.Printf("User %d is offline, notification for content %d left for pull", entry.UserID, entry.ContentID)
		}
	}
}
