package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Lightweight per-tick CPU profiler for streaming-cost insights.

var (
	mu         sync.Mutex
	tickTotals = make(map[string]time.Duration)
)

// Track returns a stop function that records the elapsed time under the given
// name. Usage: defer profiling.Track("terrain.Tick")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		tickTotals[name] += d
		mu.Unlock()
	}
}

// ResetTick clears current per-tick totals. Call at the start of each tick.
func ResetTick() {
	mu.Lock()
	for k := range tickTotals {
		delete(tickTotals, k)
	}
	mu.Unlock()
}

// Snapshot returns a copy of current per-tick totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(tickTotals))
	for k, v := range tickTotals {
		out[k] = v
	}
	return out
}

// SumWithPrefix totals every tracked entry whose name starts with the prefix.
func SumWithPrefix(prefix string) time.Duration {
	mu.Lock()
	defer mu.Unlock()
	var sum time.Duration
	for k, v := range tickTotals {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// TopN formats the top N durations from the current tick totals.
// Example: "terrain.loadAround:4.2ms, terrain.evictBeyond:0.1ms"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].dur > list[j].dur })
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ms := float64(list[i].dur.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%.1fms", list[i].name, ms))
	}
	return strings.Join(parts, ", ")
}
