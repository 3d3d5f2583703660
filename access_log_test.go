package gatekeeper_test

import (
	"context"
	"testing"
	"time"

	gatekeeper "github.com/helioslabs/gatekeeper"
)

func newLogService(t *testing.T) *gatekeeper.Service {
	t.Helper()
	return gatekeeper.NewServiceWithStores(
		gatekeeper.MemoryStores(gatekeeper.NewMemoryStore()),
		gatekeeper.Config{},
	)
}

func entryAt(ts time.Time) gatekeeper.LogEntry {
	return gatekeeper.LogEntry{
		AccessCardID: "card-1",
		EmployeeID:   "emp-1",
		CompanyID:    "co-1",
		BuildingID:   "bd-1",
		EventType:    gatekeeper.TierCompany,
		AccessType:   gatekeeper.AccessTypeAccess,
		Timestamp:    ts,
	}
}

func mustAppend(t *testing.T, svc *gatekeeper.Service, ts time.Time) {
	t.Helper()
	if err := svc.Append(context.Background(), entryAt(ts)); err != nil {
		t.Fatalf("append at %s: %v", ts, err)
	}
}

func allBuckets(t *testing.T, svc *gatekeeper.Service) []gatekeeper.AccessLogBucket {
	t.Helper()
	buckets, err := svc.Buckets(context.Background())
	if err != nil {
		t.Fatalf("buckets: %v", err)
	}
	return buckets
}

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestAppend_DefaultIntervalWidth(t *testing.T) {
	svc := newLogService(t)
	mustAppend(t, svc, t0)

	buckets := allBuckets(t, svc)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	wantEnd := t0.Add(time.Duration(gatekeeper.DefaultLogIntervalSeconds) * time.Second)
	if !buckets[0].BucketStartTime.Equal(t0) || !buckets[0].BucketEndTime.Equal(wantEnd) {
		t.Errorf("expected window [%s, %s), got [%s, %s)",
			t0, wantEnd, buckets[0].BucketStartTime, buckets[0].BucketEndTime)
	}
}

func TestAppend_SameWindowSharesBucket(t *testing.T) {
	svc := newLogService(t)
	if err := svc.SetLogInterval(context.Background(), 3600); err != nil {
		t.Fatalf("set interval: %v", err)
	}

	mustAppend(t, svc, t0)
	mustAppend(t, svc, t0.Add(1800*time.Second))

	buckets := allBuckets(t, svc)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if got := len(buckets[0].Logs); got != 2 {
		t.Errorf("expected 2 entries in bucket, got %d", got)
	}
	wantEnd := t0.Add(3600 * time.Second)
	if !buckets[0].BucketEndTime.Equal(wantEnd) {
		t.Errorf("expected window end %s, got %s", wantEnd, buckets[0].BucketEndTime)
	}
}

func TestAppend_PastWindowEdgeOpensNewBucket(t *testing.T) {
	svc := newLogService(t)
	if err := svc.SetLogInterval(context.Background(), 3600); err != nil {
		t.Fatalf("set interval: %v", err)
	}

	mustAppend(t, svc, t0)
	mustAppend(t, svc, t0.Add(1800*time.Second))
	late := t0.Add(3601 * time.Second)
	mustAppend(t, svc, late)

	buckets := allBuckets(t, svc)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	second := buckets[1]
	if !second.BucketStartTime.Equal(late) {
		t.Errorf("second window must start at the entry timestamp %s, got %s", late, second.BucketStartTime)
	}
	if want := late.Add(3600 * time.Second); !second.BucketEndTime.Equal(want) {
		t.Errorf("second window must end at %s, got %s", want, second.BucketEndTime)
	}
	if len(second.Logs) != 1 {
		t.Errorf("expected 1 entry in second bucket, got %d", len(second.Logs))
	}
}

func TestAppend_ExactWindowEdgeOpensNewBucket(t *testing.T) {
	svc := newLogService(t)
	if err := svc.SetLogInterval(context.Background(), 3600); err != nil {
		t.Fatalf("set interval: %v", err)
	}

	mustAppend(t, svc, t0)
	// The window is half-open: an entry exactly at the end time starts a
	// new bucket.
	mustAppend(t, svc, t0.Add(3600*time.Second))

	buckets := allBuckets(t, svc)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
}

func TestAppend_BucketsDoNotOverlap(t *testing.T) {
	svc := newLogService(t)
	if err := svc.SetLogInterval(context.Background(), 600); err != nil {
		t.Fatalf("set interval: %v", err)
	}

	offsets := []time.Duration{0, 90 * time.Second, 11 * time.Minute,
		15 * time.Minute, 40 * time.Minute, 41 * time.Minute, 2 * time.Hour}
	for _, off := range offsets {
		mustAppend(t, svc, t0.Add(off))
	}

	buckets := allBuckets(t, svc)
	if len(buckets) < 2 {
		t.Fatalf("expected multiple buckets, got %d", len(buckets))
	}
	for i := 1; i < len(buckets); i++ {
		prev, cur := buckets[i-1], buckets[i]
		if cur.BucketStartTime.Before(prev.BucketEndTime) {
			t.Errorf("bucket %d [%s, %s) overlaps bucket %d ending %s",
				i, cur.BucketStartTime, cur.BucketEndTime, i-1, prev.BucketEndTime)
		}
	}
}

func TestAppend_LateArrivalJoinsOpenBucket(t *testing.T) {
	svc := newLogService(t)
	if err := svc.SetLogInterval(context.Background(), 3600); err != nil {
		t.Fatalf("set interval: %v", err)
	}

	mustAppend(t, svc, t0)
	// A delayed entry stamped before the open window's end still lands in
	// the open bucket rather than reopening history.
	mustAppend(t, svc, t0.Add(-5*time.Minute))

	buckets := allBuckets(t, svc)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if got := len(buckets[0].Logs); got != 2 {
		t.Errorf("expected 2 entries, got %d", got)
	}
}

func TestAppend_WidthChangeAffectsOnlyNewBuckets(t *testing.T) {
	svc := newLogService(t)
	ctx := context.Background()
	if err := svc.SetLogInterval(ctx, 3600); err != nil {
		t.Fatalf("set interval: %v", err)
	}

	mustAppend(t, svc, t0)
	if err := svc.SetLogInterval(ctx, 600); err != nil {
		t.Fatalf("set interval: %v", err)
	}
	next := t0.Add(2 * time.Hour)
	mustAppend(t, svc, next)

	buckets := allBuckets(t, svc)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if want := t0.Add(3600 * time.Second); !buckets[0].BucketEndTime.Equal(want) {
		t.Errorf("first bucket keeps its original width, want end %s, got %s", want, buckets[0].BucketEndTime)
	}
	if want := next.Add(600 * time.Second); !buckets[1].BucketEndTime.Equal(want) {
		t.Errorf("second bucket uses the new width, want end %s, got %s", want, buckets[1].BucketEndTime)
	}
}

func TestLogInterval_DefaultAndUpdate(t *testing.T) {
	svc := newLogService(t)
	ctx := context.Background()

	got, err := svc.LogInterval(ctx)
	if err != nil {
		t.Fatalf("log interval: %v", err)
	}
	if got != gatekeeper.DefaultLogIntervalSeconds {
		t.Errorf("expected default %d, got %d", gatekeeper.DefaultLogIntervalSeconds, got)
	}

	if err := svc.SetLogInterval(ctx, 3600); err != nil {
		t.Fatalf("set interval: %v", err)
	}
	if got, _ = svc.LogInterval(ctx); got != 3600 {
		t.Errorf("expected 3600 after update, got %d", got)
	}
}
