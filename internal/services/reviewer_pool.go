package services

import (
	"container/heap"
	"sync"
)

// reviewerPool is the in-process priority structure over the authority table:
// a min-heap keyed by active review count, ties broken by registration order
// so assignment is deterministic. The database remains the durable record;
// the pool only decides who gets the next submission.
type reviewerPool struct {
	mu      sync.Mutex
	entries reviewerHeap
	byID    map[string]*reviewerEntry
	seq     uint64
}

type reviewerEntry struct {
	id    string
	load  int
	seq   uint64
	index int
}

type reviewerHeap []*reviewerEntry

func (h reviewerHeap) Len() int { return len(h) }

func (h reviewerHeap) Less(i, j int) bool {
	if h[i].load != h[j].load {
		return h[i].load < h[j].load
	}
	return h[i].seq < h[j].seq
}

func (h reviewerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *reviewerHeap) Push(x any) {
	entry := x.(*reviewerEntry)
	entry.index = len(*h)
	*h = append(*h, entry)
}

func (h *reviewerHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.index = -1
	*h = old[:n-1]
	return entry
}

func newReviewerPool() *reviewerPool {
	return &reviewerPool{byID: make(map[string]*reviewerEntry)}
}

// Add registers a reviewer with its current load. Re-adding an existing id
// resets its load.
func (p *reviewerPool) Add(id string, load int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if entry, ok := p.byID[id]; ok {
		entry.load = load
		heap.Fix(&p.entries, entry.index)
		return
	}
	entry := &reviewerEntry{id: id, load: load, seq: p.seq}
	p.seq++
	p.byID[id] = entry
	heap.Push(&p.entries, entry)
}

// Acquire returns the least-loaded reviewer and increments its load. The
// second return is false when no reviewer is registered.
func (p *reviewerPool) Acquire() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.entries.Len() == 0 {
		return "", false
	}
	entry := p.entries[0]
	entry.load++
	heap.Fix(&p.entries, 0)
	return entry.id, true
}

// Release decrements a reviewer's load after a decision (or a failed
// assignment). Unknown ids are ignored.
func (p *reviewerPool) Release(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.byID[id]
	if !ok {
		return
	}
	if entry.load > 0 {
		entry.load--
	}
	heap.Fix(&p.entries, entry.index)
}

func (p *reviewerPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.entries.Len()
}
