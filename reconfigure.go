package gatekeeper

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Reconfigure rebuilds every audit log bucket using a new width. All
// entries are flattened into one timestamp-sorted stream (stable, so ties
// keep their original relative order) and re-chunked greedily: each bucket
// starts at the first entry that falls outside the previous window. The
// rebuilt set replaces the old one atomically; on any failure the prior
// buckets are left untouched.
//
// Windows start at the first event rather than on a fixed wall-clock grid
// so that re-running with the same interval is idempotent and matches the
// Append windowing.
func (s *Service) Reconfigure(ctx context.Context, intervalSeconds int64) error {
	if intervalSeconds <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrBadRequest)
	}

	// Excludes concurrent appends for the duration of the rewrite.
	s.logMu.Lock()
	defer s.logMu.Unlock()

	buckets, err := s.buckets.AllBuckets(ctx)
	if err != nil {
		return fmt.Errorf("failed to load access logs: %v: %w", err, ErrInternal)
	}

	var entries []LogEntry
	for _, b := range buckets {
		entries = append(entries, b.Logs...)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})

	width := time.Duration(intervalSeconds) * time.Second
	var rebuilt []AccessLogBucket
	for _, entry := range entries {
		if n := len(rebuilt); n > 0 && entry.Timestamp.Before(rebuilt[n-1].BucketEndTime) {
			rebuilt[n-1].Logs = append(rebuilt[n-1].Logs, entry)
			continue
		}
		rebuilt = append(rebuilt, AccessLogBucket{
			BucketStartTime: entry.Timestamp,
			BucketEndTime:   entry.Timestamp.Add(width),
			Logs:            []LogEntry{entry},
		})
	}

	if err := s.buckets.ReplaceAllBuckets(ctx, rebuilt); err != nil {
		return fmt.Errorf("failed to replace access logs: %v: %w", err, ErrInternal)
	}

	s.log.Infof("access logs re-configured with interval: %g hours", float64(intervalSeconds)/3600)
	return nil
}

// SetLogInterval updates the configured bucket width without rebuilding
// existing buckets; new buckets opened by Append pick it up.
func (s *Service) SetLogInterval(ctx context.Context, seconds int64) error {
	if seconds <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrBadRequest)
	}
	if err := s.config.SetInterval(ctx, seconds); err != nil {
		return fmt.Errorf("failed to store accessLogInterval: %v: %w", err, ErrInternal)
	}
	return nil
}

// LogInterval returns the currently configured bucket width in seconds.
func (s *Service) LogInterval(ctx context.Context) (int64, error) {
	width, err := s.config.GetInterval(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read accessLogInterval: %v: %w", err, ErrInternal)
	}
	return width, nil
}
