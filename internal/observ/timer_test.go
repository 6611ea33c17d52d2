package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	var mu sync.Mutex
	cur := time.Unix(0, 0)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)

	load := tm.Begin("load")
	tm.End(load, "2 files")
	tm.Track("parse")("")
	tm.End(load, "ignored")
	tm.End(42, "")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases %+v", r.Phases)
	}
	if r.Phases[0].Note != "2 files" || r.Phases[0].DurationMS != 1 {
		t.Fatalf("load %+v", r.Phases[0])
	}
	if r.TotalMS != 2 {
		t.Fatalf("total %v", r.TotalMS)
	}

	s := tm.Summary()
	if !strings.Contains(s, "load") || !strings.Contains(s, "// 2 files") || !strings.Contains(s, "total") {
		t.Fatalf("summary:\n%s", s)
	}
}

func TestTimerEmptyReport(t *testing.T) {
	if r := NewTimer().Report(); r.Phases != nil || r.TotalMS != 0 {
		t.Fatalf("report %+v", r)
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Track("file")("")
		}()
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 16 {
		t.Fatalf("got %d phases", n)
	}
}
