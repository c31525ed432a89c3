// Package queue provides the FIFO used for the urgent task list.
package queue

type Queue[T any] struct {
	items []T
}

func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

func (q *Queue[T]) Enqueue(v T) {
	q.items = append(q.items, v)
}

// Dequeue returns the oldest entry. ok is false when the queue is empty.
func (q *Queue[T]) Dequeue() (v T, ok bool) {
	if len(q.items) == 0 {
		return v, false
	}
	v = q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true
}

func (q *Queue[T]) IsEmpty() bool {
	return len(q.items) == 0
}

func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Each visits entries oldest first. The queue is drained into a temporary
// queue and restored afterwards, so order and identity are unchanged. The
// restore also runs when fn panics.
func (q *Queue[T]) Each(fn func(i int, v T)) {
	tmp := New[T]()
	defer func() {
		for !q.IsEmpty() {
			v, _ := q.Dequeue()
			tmp.Enqueue(v)
		}
		for !tmp.IsEmpty() {
			v, _ := tmp.Dequeue()
			q.Enqueue(v)
		}
	}()
	for i := 0; !q.IsEmpty(); i++ {
		v, _ := q.Dequeue()
		tmp.Enqueue(v)
		fn(i, v)
	}
}

// RemoveFunc removes the oldest entry for which match returns true.
func (q *Queue[T]) RemoveFunc(match func(T) bool) bool {
	for i, v := range q.items {
		if !match(v) {
			continue
		}
		copy(q.items[i:], q.items[i+1:])
		var zero T
		q.items[len(q.items)-1] = zero
		q.items = q.items[:len(q.items)-1]
		return true
	}
	return false
}
