package core

import "sync"

// waitEntry pairs a parked fiber with the counter and target value it's
// waiting on. Its fiber is suspended and lives nowhere else — not in
// the fiber pool, not running on any thread — until some worker's scan
// promotes it.
type waitEntry struct {
	fiber   *fiber
	counter *Counter
	target  int64
}

// waitSet is the unordered, mutex-guarded collection of fibers parked
// in WaitForCounter. The scan is linear and first-fit: the entry
// nearest the head of the backing slice wins ties, with no fairness
// guarantee beyond that. Removal is swap-with-last + pop, so it stays
// O(1) once the scan has found its candidate.
type waitSet struct {
	mu      sync.Mutex
	entries []waitEntry
}

func newWaitSet() *waitSet {
	return &waitSet{}
}

// insert appends a new waiting entry. O(1).
func (w *waitSet) insert(e waitEntry) {
	w.mu.Lock()
	w.entries = append(w.entries, e)
	w.mu.Unlock()
}

// scanAndTakeReady removes and returns the first entry (in storage
// order) whose counter has reached its target, if any. The mutex is
// held only for the duration of the scan and the removal.
func (w *waitSet) scanAndTakeReady() (waitEntry, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.entries {
		if w.entries[i].counter.Load() == w.entries[i].target {
			e := w.entries[i]
			last := len(w.entries) - 1
			w.entries[i] = w.entries[last]
			w.entries = w.entries[:last]
			return e, true
		}
	}
	return waitEntry{}, false
}

// len reports the current number of parked waiters, for observability.
func (w *waitSet) len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}
