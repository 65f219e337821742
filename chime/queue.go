package chime

import (
	"sync"

	"github.com/boreiy/chime-go/timeseq"
)

// timeQueue adapts an underlying timeseq.Sequence into a pop/append FIFO:
// Pop drains the underlying Sequence first, then any explicitly appended
// tail elements, so Append always extends the *end* of the stream. Every
// Schedule uses a timeQueue internally, mutable or not —
// AppendAbsolute/AppendRelativeToLast simply refuse on an immutable
// Schedule before ever touching the queue.
type timeQueue struct {
	mu       sync.Mutex
	seq      timeseq.Sequence
	appended []timeseq.Time
	last     timeseq.Time
}

func newTimeQueue(seq timeseq.Sequence) *timeQueue {
	return &timeQueue{seq: seq}
}

// Pop removes and returns the head of the queue, or (nil, false) if both the
// underlying sequence and the appended tail are exhausted.
func (q *timeQueue) Pop() (timeseq.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.seq != nil {
		if t, ok := q.seq.Next(); ok {
			q.last = t
			return t, true
		}
		q.seq = nil
	}

	if len(q.appended) > 0 {
		t := q.appended[0]
		q.appended = q.appended[1:]
		q.last = t
		return t, true
	}

	return nil, false
}

// Append adds times to the tail of the queue, in order.
func (q *timeQueue) Append(times ...timeseq.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.appended = append(q.appended, times...)
}

// Last returns the most recently popped element, if any.
func (q *timeQueue) Last() (timeseq.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.last == nil {
		return nil, false
	}
	return q.last, true
}
