package util

import "golang.org/x/exp/constraints"

//*******************************************
// priority queue
//*******************************************

type pq_entry[T any, P constraints.Ordered] struct {
	item     T
	priority P
	order    int64
}

// Binary min-heap keyed by priority.
//
// Entries with equal priority dequeue in insertion order, which keeps
// searches over the queue deterministic.
type PriorityQueue[T any, P constraints.Ordered] struct {
	entries []pq_entry[T, P]
	counter int64
}

func NewPriorityQueue[T any, P constraints.Ordered](cap int) PriorityQueue[T, P] {
	return PriorityQueue[T, P]{
		entries: make([]pq_entry[T, P], 0, cap),
	}
}

func (self *PriorityQueue[T, P]) Enqueue(item T, priority P) {
	self.counter += 1
	self.entries = append(self.entries, pq_entry[T, P]{item: item, priority: priority, order: self.counter})
	self.sift_up(len(self.entries) - 1)
}

func (self *PriorityQueue[T, P]) Dequeue() (T, bool) {
	if len(self.entries) == 0 {
		var t T
		return t, false
	}
	top := self.entries[0]
	last := len(self.entries) - 1
	self.entries[0] = self.entries[last]
	self.entries = self.entries[:last]
	if len(self.entries) > 0 {
		self.sift_down(0)
	}
	return top.item, true
}

func (self *PriorityQueue[T, P]) Length() int {
	return len(self.entries)
}

func (self *PriorityQueue[T, P]) less(i, j int) bool {
	if self.entries[i].priority != self.entries[j].priority {
		return self.entries[i].priority < self.entries[j].priority
	}
	return self.entries[i].order < self.entries[j].order
}

func (self *PriorityQueue[T, P]) sift_up(index int) {
	for index > 0 {
		parent := (index - 1) / 2
		if !self.less(index, parent) {
			break
		}
		self.entries[index], self.entries[parent] = self.entries[parent], self.entries[index]
		index = parent
	}
}

func (self *PriorityQueue[T, P]) sift_down(index int) {
	count := len(self.entries)
	for {
		left := 2*index + 1
		right := 2*index + 2
		smallest := index
		if left < count && self.less(left, smallest) {
			smallest = left
		}
		if right < count && self.less(right, smallest) {
			smallest = right
		}
		if smallest == index {
			break
		}
		self.entries[index], self.entries[smallest] = self.entries[smallest], self.entries[index]
		index = smallest
	}
}
