package gate

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLog_NewestFirstBounded(t *testing.T) {
	log := newActivityLog(3)

	for i := 0; i < 5; i++ {
		log.Append(RecentEntry{Code: fmt.Sprintf("TK-2026-%04d", i), Time: time.Now()})
	}

	entries := log.Snapshot()
	require.Len(t, entries, 3)
	assert.Equal(t, "TK-2026-0004", entries[0].Code)
	assert.Equal(t, "TK-2026-0003", entries[1].Code)
	assert.Equal(t, "TK-2026-0002", entries[2].Code)
}

func TestActivityLog_DefaultLimit(t *testing.T) {
	log := newActivityLog(0)

	for i := 0; i < 10; i++ {
		log.Append(RecentEntry{Code: fmt.Sprintf("TK-2026-%04d", i)})
	}

	assert.Len(t, log.Snapshot(), 5)
}

func TestActivityLog_SnapshotIsACopy(t *testing.T) {
	log := newActivityLog(5)
	log.Append(RecentEntry{Code: "TK-2026-0001"})

	snapshot := log.Snapshot()
	snapshot[0].Code = "mutated"

	assert.Equal(t, "TK-2026-0001", log.Snapshot()[0].Code)
}

func TestActivityLog_ConcurrentAppends(t *testing.T) {
	log := newActivityLog(5)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			log.Append(RecentEntry{Code: fmt.Sprintf("TK-2026-%04d", i)})
		}(i)
	}
	wg.Wait()

	assert.Len(t, log.Snapshot(), 5)
}
