package query

// Heap implements container/heap.Interface over items ordered by lessFunc.
type Heap[T any] struct {
	items    []T
	lessFunc func(a, b T) bool
}

func NewHeap[T any](lessFunc func(a, b T) bool) *Heap[T] {
	return &Heap[T]{lessFunc: lessFunc}
}

func (h *Heap[T]) Len() int { return len(h.items) }

func (h *Heap[T]) Less(i, j int) bool {
	return h.lessFunc(h.items[i], h.items[j])
}

func (h *Heap[T]) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *Heap[T]) Push(item any) {
	h.items = append(h.items, item.(T))
}

func (h *Heap[T]) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[0 : n-1]
	return x
}

// Peek returns the item at the top of the heap. The heap must not be empty.
func (h *Heap[T]) Peek() T {
	return h.items[0]
}
