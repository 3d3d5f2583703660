package gatekeeper

import (
	"context"
	"encoding/json"
	"fmt"
)

// Redis holds a snapshot of each employee's materialized permission list so
// hot-path decisions can skip re-reading it. The employee record remains
// the source of truth; refresh invalidates the snapshot.

func (s *Service) permissionCacheKey(employeeID string) string {
	return fmt.Sprintf("%semployee:%s:permissions", s.cachePrefix, employeeID)
}

// employeePermissions returns the employee's permissions partitioned by
// tier, preferring the cached snapshot when one exists.
func (s *Service) employeePermissions(ctx context.Context, e *Employee) TierPermissions {
	if s.redisClient != nil {
		val, err := s.redisClient.Get(ctx, s.permissionCacheKey(e.ID)).Result()
		if err == nil {
			var cached []TierPermission
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
				snap := Employee{Permissions: cached}
				return snap.PartitionPermissions()
			}
		}

		if data, jsonErr := json.Marshal(e.Permissions); jsonErr == nil {
			s.redisClient.Set(ctx, s.permissionCacheKey(e.ID), data, s.cacheTTL)
		}
	}
	return e.PartitionPermissions()
}

// invalidatePermissionCache drops one employee's snapshot.
func (s *Service) invalidatePermissionCache(ctx context.Context, employeeID string) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Del(ctx, s.permissionCacheKey(employeeID))
}

// invalidateAllPermissionCaches drops every snapshot. Used when a catalog
// change can affect any number of employees.
func (s *Service) invalidateAllPermissionCaches(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	pattern := s.cachePrefix + "employee:*:permissions"
	keys, err := s.redisClient.Keys(ctx, pattern).Result()
	if err != nil {
		s.log.Warnw("failed to list permission cache keys", "error", err)
		return
	}
	if len(keys) > 0 {
		s.redisClient.Del(ctx, keys...)
	}
}
