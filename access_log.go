package gatekeeper

import (
	"context"
	"fmt"
	"time"
)

// Append records a granted event into the audit log. The entry lands in
// the most recently created bucket when its timestamp falls before that
// bucket's end; otherwise a new [ts, ts+width) bucket is opened. The
// "current" bucket is always the latest-created one — there is no
// time-range lookup, so late-but-in-window arrivals are accepted into the
// open window and only entries at or past the window edge open a new one.
func (s *Service) Append(ctx context.Context, entry LogEntry) error {
	s.logMu.Lock()
	defer s.logMu.Unlock()

	width, err := s.config.GetInterval(ctx)
	if err != nil {
		return fmt.Errorf("failed to read accessLogInterval: %w", err)
	}

	latest, err := s.buckets.LatestBucket(ctx)
	if err != nil {
		return fmt.Errorf("failed to load latest bucket: %w", err)
	}

	if latest != nil && latest.Contains(entry.Timestamp) {
		latest.Logs = append(latest.Logs, entry)
		if err := s.buckets.SaveBucket(ctx, latest); err != nil {
			return fmt.Errorf("failed to append to bucket: %w", err)
		}
		return nil
	}

	bucket := &AccessLogBucket{
		BucketStartTime: entry.Timestamp,
		BucketEndTime:   entry.Timestamp.Add(time.Duration(width) * time.Second),
		Logs:            []LogEntry{entry},
	}
	if err := s.buckets.CreateBucket(ctx, bucket); err != nil {
		return fmt.Errorf("failed to open bucket: %w", err)
	}
	return nil
}

// Buckets returns the full audit log in bucket creation order.
func (s *Service) Buckets(ctx context.Context) ([]AccessLogBucket, error) {
	buckets, err := s.buckets.AllBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load access logs: %v: %w", err, ErrInternal)
	}
	return buckets, nil
}
