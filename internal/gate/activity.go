package gate

import "sync"

// activityLog is the bounded recent-admissions register: newest first,
// oldest evicted once the cap is reached. Appends happen on the admitting
// path, so log order matches admission order.
type activityLog struct {
	mu      sync.Mutex
	entries []RecentEntry
	limit   int
}

func newActivityLog(limit int) *activityLog {
	if limit <= 0 {
		limit = 5
	}
	return &activityLog{limit: limit}
}

func (l *activityLog) Append(entry RecentEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]RecentEntry{entry}, l.entries...)
	if len(l.entries) > l.limit {
		l.entries = l.entries[:l.limit]
	}
}

func (l *activityLog) Snapshot() []RecentEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]RecentEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
