// Implements the WaitQueue, which holds the arrival times of customers
// waiting for the server. The customer in service is not in the queue.

package sim

import (
	"fmt"
	"strings"

	"github.com/eapache/queue"
)

// WaitQueue is a bounded FIFO of arrival timestamps backed by a ring-buffer
// deque. Entries are kept in arrival order, which is also time order.
type WaitQueue struct {
	items    *queue.Queue
	capacity int
}

// NewWaitQueue creates an empty queue holding at most capacity customers.
func NewWaitQueue(capacity int) *WaitQueue {
	if capacity < 1 {
		panic(fmt.Sprintf("NewWaitQueue: capacity must be positive, got %d", capacity))
	}
	return &WaitQueue{items: queue.New(), capacity: capacity}
}

// Enqueue appends an arrival time to the back of the queue.
// It returns ErrQueueOverflow, leaving the queue untouched, when the queue
// is already full.
func (wq *WaitQueue) Enqueue(arrival float64) error {
	if wq.items.Length() >= wq.capacity {
		return fmt.Errorf("%w: capacity %d", ErrQueueOverflow, wq.capacity)
	}
	if n := wq.items.Length(); n > 0 && arrival < wq.items.Get(n-1).(float64) {
		panic(fmt.Sprintf("Enqueue: arrival %g precedes tail %g", arrival, wq.items.Get(n-1).(float64)))
	}
	wq.items.Add(arrival)
	return nil
}

// Dequeue removes and returns the arrival time at the front of the queue.
// ok is false when the queue is empty.
func (wq *WaitQueue) Dequeue() (arrival float64, ok bool) {
	if wq.items.Length() == 0 {
		return 0, false
	}
	return wq.items.Remove().(float64), true
}

// Peek returns the front arrival time without removing it.
func (wq *WaitQueue) Peek() (arrival float64, ok bool) {
	if wq.items.Length() == 0 {
		return 0, false
	}
	return wq.items.Peek().(float64), true
}

// Len returns the number of waiting customers.
func (wq *WaitQueue) Len() int {
	return wq.items.Length()
}

// Cap returns the configured capacity.
func (wq *WaitQueue) Cap() int {
	return wq.capacity
}

// Items returns a copy of the queued arrival times, front first.
func (wq *WaitQueue) Items() []float64 {
	out := make([]float64, wq.items.Length())
	for i := range out {
		out[i] = wq.items.Get(i).(float64)
	}
	return out
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range wq.Items() {
		sb.WriteString(fmt.Sprint(val))
		if i < wq.Len()-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
