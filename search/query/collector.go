package query

import (
	"cmp"
	"container/heap"
	"slices"
)

type ScoreEntry struct {
	DocId      uint64
	ExternalId string
	Score      float64
}

// rankedBefore orders entries by decreasing score, then by external id.
func rankedBefore(a, b ScoreEntry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.ExternalId < b.ExternalId
}

func compareEntries(a, b ScoreEntry) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.ExternalId, b.ExternalId)
}

// ScoreList is the unordered result of evaluating a query.
type ScoreList struct {
	Entries []ScoreEntry
}

func NewScoreList() *ScoreList {
	return &ScoreList{Entries: make([]ScoreEntry, 0)}
}

func (l *ScoreList) Add(docId uint64, externalId string, score float64) {
	l.Entries = append(l.Entries, ScoreEntry{DocId: docId, ExternalId: externalId, Score: score})
}

func (l *ScoreList) Len() int {
	return len(l.Entries)
}

// Sort orders the list by decreasing score, ties by external id.
func (l *ScoreList) Sort() {
	slices.SortStableFunc(l.Entries, compareEntries)
}

// Top returns the n best entries in rank order without sorting the whole
// list.
func (l *ScoreList) Top(n int) []ScoreEntry {
	collector := NewTopNCollector(n)
	for _, entry := range l.Entries {
		collector.Collect(entry)
	}
	return collector.Get()
}

type Collector interface {
	Collect(entry ScoreEntry)
}

// TopNCollector keeps the n best entries seen so far. The heap's top is
// the worst of them.
type TopNCollector struct {
	topN    int
	minHeap *Heap[ScoreEntry]
}

func NewTopNCollector(topN int) *TopNCollector {
	minHeap := NewHeap(func(a, b ScoreEntry) bool {
		return rankedBefore(b, a)
	})

	return &TopNCollector{
		topN:    topN,
		minHeap: minHeap,
	}
}

func (c *TopNCollector) Collect(entry ScoreEntry) {
	if c.topN <= 0 {
		return
	}

	if c.minHeap.Len() < c.topN {
		heap.Push(c.minHeap, entry)
		return
	}

	if rankedBefore(entry, c.minHeap.Peek()) {
		heap.Pop(c.minHeap)
		heap.Push(c.minHeap, entry)
	}
}

// Get drains the collector and returns the entries in rank order.
func (c *TopNCollector) Get() []ScoreEntry {
	results := make([]ScoreEntry, c.minHeap.Len())

	for i := len(results) - 1; i >= 0; i-- {
		results[i] = heap.Pop(c.minHeap).(ScoreEntry)
	}

	return results
}
