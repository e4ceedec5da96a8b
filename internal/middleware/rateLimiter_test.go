package middleware

import (
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newClockedLimiter(start time.Time) (*IPRateLimiter, *time.Time) {
	clock := start
	l := NewIPRateLimiter(rate.Limit(1), 1)
	l.idleTTL = time.Minute
	l.lastSweep = start
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestGetLimiter_SameIPSameBucket(t *testing.T) {
	l, _ := newClockedLimiter(time.Unix(0, 0))
	if l.GetLimiter("10.0.0.1") != l.GetLimiter("10.0.0.1") {
		t.Error("same ip got two buckets")
	}
	if l.GetLimiter("10.0.0.1") == l.GetLimiter("10.0.0.2") {
		t.Error("different ips share a bucket")
	}
}

func TestGetLimiter_EvictsIdleIPs(t *testing.T) {
	l, clock := newClockedLimiter(time.Unix(0, 0))
	l.GetLimiter("10.0.0.1")
	l.GetLimiter("10.0.0.2")

	*clock = clock.Add(50 * time.Second)
	l.GetLimiter("10.0.0.2")

	*clock = clock.Add(30 * time.Second)
	l.GetLimiter("10.0.0.3")

	// .1 idle for 80s is gone, .2 idle for 30s stays
	if got := l.Len(); got != 2 {
		t.Fatalf("limiter count got %d, want 2", got)
	}
	if _, ok := l.ips["10.0.0.1"]; ok {
		t.Error("idle ip was not evicted")
	}
	if _, ok := l.ips["10.0.0.2"]; !ok {
		t.Error("recently seen ip was evicted")
	}
}

func TestGetLimiter_NoSweepBeforeTTL(t *testing.T) {
	l, clock := newClockedLimiter(time.Unix(0, 0))
	l.GetLimiter("10.0.0.1")
	*clock = clock.Add(59 * time.Second)
	l.GetLimiter("10.0.0.2")
	if got := l.Len(); got != 2 {
		t.Errorf("limiter count got %d, want 2", got)
	}
}
