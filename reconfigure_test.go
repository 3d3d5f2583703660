package gatekeeper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	gatekeeper "github.com/helioslabs/gatekeeper"
)

// seedHourlyLog appends n entries one hour apart starting at t0, with the
// bucket width set to one hour so every entry opens its own bucket.
func seedHourlyLog(t *testing.T, svc *gatekeeper.Service, n int) {
	t.Helper()
	if err := svc.SetLogInterval(context.Background(), 3600); err != nil {
		t.Fatalf("set interval: %v", err)
	}
	for i := 0; i < n; i++ {
		mustAppend(t, svc, t0.Add(time.Duration(i)*time.Hour))
	}
}

func TestReconfigure_WidensHourlyBucketsToSixHours(t *testing.T) {
	svc := newLogService(t)
	seedHourlyLog(t, svc, 10)

	if got := len(allBuckets(t, svc)); got != 10 {
		t.Fatalf("expected 10 hourly buckets before reconfigure, got %d", got)
	}

	if err := svc.Reconfigure(context.Background(), 21600); err != nil {
		t.Fatalf("reconfigure: %v", err)
	}

	buckets := allBuckets(t, svc)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets after reconfigure, got %d", len(buckets))
	}
	if got := len(buckets[0].Logs); got != 6 {
		t.Errorf("expected 6 entries in first bucket, got %d", got)
	}
	if got := len(buckets[1].Logs); got != 4 {
		t.Errorf("expected 4 entries in second bucket, got %d", got)
	}
	if !buckets[0].BucketStartTime.Equal(t0) {
		t.Errorf("first window must start at the earliest entry %s, got %s", t0, buckets[0].BucketStartTime)
	}
	if want := t0.Add(6 * time.Hour); !buckets[1].BucketStartTime.Equal(want) {
		t.Errorf("second window must start at %s, got %s", want, buckets[1].BucketStartTime)
	}
}

func TestReconfigure_Idempotent(t *testing.T) {
	svc := newLogService(t)
	seedHourlyLog(t, svc, 10)
	ctx := context.Background()

	if err := svc.Reconfigure(ctx, 21600); err != nil {
		t.Fatalf("reconfigure: %v", err)
	}
	first := allBuckets(t, svc)

	if err := svc.Reconfigure(ctx, 21600); err != nil {
		t.Fatalf("second reconfigure: %v", err)
	}
	second := allBuckets(t, svc)

	if len(first) != len(second) {
		t.Fatalf("bucket count changed on re-run: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].BucketStartTime.Equal(second[i].BucketStartTime) ||
			!first[i].BucketEndTime.Equal(second[i].BucketEndTime) {
			t.Errorf("bucket %d window changed on re-run: [%s, %s) vs [%s, %s)", i,
				first[i].BucketStartTime, first[i].BucketEndTime,
				second[i].BucketStartTime, second[i].BucketEndTime)
		}
		if len(first[i].Logs) != len(second[i].Logs) {
			t.Errorf("bucket %d entry count changed on re-run: %d vs %d",
				i, len(first[i].Logs), len(second[i].Logs))
		}
	}
}

func TestReconfigure_PreservesEveryEntryInOrder(t *testing.T) {
	svc := newLogService(t)
	seedHourlyLog(t, svc, 10)

	if err := svc.Reconfigure(context.Background(), 7200); err != nil {
		t.Fatalf("reconfigure: %v", err)
	}

	var flat []gatekeeper.LogEntry
	for _, b := range allBuckets(t, svc) {
		flat = append(flat, b.Logs...)
	}
	if len(flat) != 10 {
		t.Fatalf("expected all 10 entries to survive, got %d", len(flat))
	}
	for i := 1; i < len(flat); i++ {
		if flat[i].Timestamp.Before(flat[i-1].Timestamp) {
			t.Errorf("entries out of order at %d: %s after %s", i, flat[i].Timestamp, flat[i-1].Timestamp)
		}
	}
}

func TestReconfigure_SortsLateArrivals(t *testing.T) {
	svc := newLogService(t)
	ctx := context.Background()
	if err := svc.SetLogInterval(ctx, 3600); err != nil {
		t.Fatalf("set interval: %v", err)
	}

	// A delayed entry landed in the open bucket with an earlier stamp.
	mustAppend(t, svc, t0)
	mustAppend(t, svc, t0.Add(30*time.Minute))
	mustAppend(t, svc, t0.Add(-2*time.Minute))

	if err := svc.Reconfigure(ctx, 3600); err != nil {
		t.Fatalf("reconfigure: %v", err)
	}

	buckets := allBuckets(t, svc)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if want := t0.Add(-2 * time.Minute); !buckets[0].BucketStartTime.Equal(want) {
		t.Errorf("window must start at the earliest stamp %s, got %s", want, buckets[0].BucketStartTime)
	}
	logs := buckets[0].Logs
	for i := 1; i < len(logs); i++ {
		if logs[i].Timestamp.Before(logs[i-1].Timestamp) {
			t.Errorf("entries out of order at %d", i)
		}
	}
}

func TestReconfigure_EmptyLogIsNoOp(t *testing.T) {
	svc := newLogService(t)

	if err := svc.Reconfigure(context.Background(), 3600); err != nil {
		t.Fatalf("reconfigure on empty log: %v", err)
	}
	if got := len(allBuckets(t, svc)); got != 0 {
		t.Errorf("expected no buckets, got %d", got)
	}
}

func TestReconfigure_RejectsNonPositiveInterval(t *testing.T) {
	svc := newLogService(t)
	ctx := context.Background()

	for _, seconds := range []int64{0, -3600} {
		if err := svc.Reconfigure(ctx, seconds); !errors.Is(err, gatekeeper.ErrBadRequest) {
			t.Errorf("Reconfigure(%d): expected ErrBadRequest, got %v", seconds, err)
		}
	}
	if err := svc.SetLogInterval(ctx, 0); !errors.Is(err, gatekeeper.ErrBadRequest) {
		t.Errorf("SetLogInterval(0): expected ErrBadRequest, got %v", err)
	}
}
