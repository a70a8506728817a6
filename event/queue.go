package event

import (
	"sync"
)

// chunkSize is the number of events per node in the queue's linked list
const chunkSize = 128

// chunk is a fixed-size node with read/write cursors for O(1) push and pop
type chunk[E any] struct {
	items   [chunkSize]E
	next    *chunk[E]
	readPos int // First unread slot
	pos     int // First unused slot
}

// Queue is an unbounded MPSC FIFO queue
// Thread-Safety:
//   - Send: any goroutine, via the queue or any Sender copy
//   - Next/Flush: single consumer (the loop)
//
// Storage is a chunked linked list; exhausted chunks are recycled through a pool
// Send never blocks on capacity and never drops events
type Queue[E any] struct {
	mu     sync.Mutex
	head   *chunk[E]
	tail   *chunk[E]
	length int
	pool   sync.Pool
}

// NewQueue creates an empty queue
func NewQueue[E any]() *Queue[E] {
	q := &Queue[E]{}
	q.pool.New = func() any { return &chunk[E]{} }
	return q
}

// Sender returns a handle that enqueues onto q
func (q *Queue[E]) Sender() Sender[E] {
	return Sender[E]{q: q}
}

// Send appends e to the queue
func (q *Queue[E]) Send(e E) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.tail == nil {
		q.tail = q.newChunk()
		q.head = q.tail
	}

	if q.tail.pos == chunkSize {
		next := q.newChunk()
		q.tail.next = next
		q.tail = next
	}

	q.tail.items[q.tail.pos] = e
	q.tail.pos++
	q.length++
}

// Next pops the oldest event, returns false if none are pending
func (q *Queue[E]) Next() (E, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

// Flush drains all pending events in FIFO order, nil if none are pending
func (q *Queue[E]) Flush() []E {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.length == 0 {
		return nil
	}

	result := make([]E, 0, q.length)
	for {
		e, ok := q.popLocked()
		if !ok {
			break
		}
		result = append(result, e)
	}
	return result
}

// Len returns the pending event count
func (q *Queue[E]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.length
}

// popLocked removes the head event, caller must hold mu
func (q *Queue[E]) popLocked() (E, bool) {
	var zero E
	if q.length == 0 {
		return zero, false
	}

	// Head chunk exhausted with a successor available
	if q.head.readPos >= q.head.pos && q.head != q.tail {
		old := q.head
		q.head = q.head.next
		q.releaseChunk(old)
	}

	e := q.head.items[q.head.readPos]
	q.head.items[q.head.readPos] = zero // Release references for GC
	q.head.readPos++
	q.length--

	if q.head.readPos >= q.head.pos {
		if q.head == q.tail {
			// Sole chunk drained, rewind cursors for reuse
			q.head.pos = 0
			q.head.readPos = 0
		} else {
			old := q.head
			q.head = q.head.next
			q.releaseChunk(old)
		}
	}

	return e, true
}

func (q *Queue[E]) newChunk() *chunk[E] {
	c := q.pool.Get().(*chunk[E])
	c.pos = 0
	c.readPos = 0
	c.next = nil
	return c
}

// releaseChunk returns an exhausted chunk to the pool
// Slots are already zeroed by popLocked
func (q *Queue[E]) releaseChunk(c *chunk[E]) {
	c.pos = 0
	c.readPos = 0
	c.next = nil
	q.pool.Put(c)
}

// Sender is a cloneable, goroutine-safe handle for enqueueing events
// Copying a Sender yields an equivalent handle
type Sender[E any] struct {
	q *Queue[E]
}

// Send enqueues e, panics on a zero Sender
func (s Sender[E]) Send(e E) {
	if s.q == nil {
		panic("event: send on zero Sender")
	}
	s.q.Send(e)
}

// Clone returns an equivalent handle
func (s Sender[E]) Clone() Sender[E] {
	return s
}

// Valid reports whether the sender is attached to a queue
func (s Sender[E]) Valid() bool {
	return s.q != nil
}
