package runner

// fifo is a slice-backed unbounded FIFO queue. Pushing never fails and never
// blocks; ordering is strictly first-in first-out. The head index avoids
// reslicing on every pop, and popped slots are zeroed so payloads do not
// outlive their dequeue.
type fifo[T any] struct {
	head  int
	items []T
}

func (q *fifo[T]) push(v T) {
	q.items = append(q.items, v)
}

func (q *fifo[T]) pop() T { //nolint:ireturn
	v := q.items[q.head]

	var zero T

	q.items[q.head] = zero
	q.head++

	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}

	return v
}

func (q *fifo[T]) len() int {
	return len(q.items) - q.head
}

func (q *fifo[T]) empty() bool {
	return q.len() == 0
}
