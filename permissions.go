package gatekeeper

import (
	"context"
	"fmt"
)

// RefreshPermissions rebuilds an employee's materialized permission cache
// from the access levels currently assigned to them. The cache column is
// overwritten as a whole, so concurrent readers see either the previous or
// the new list, never a partial one.
//
// Employee mutations resolve their levels inline before persisting; this
// entry point serves the catalog-edit fan-out and the manual refresh route.
func (s *Service) RefreshPermissions(ctx context.Context, employeeID string) error {
	employee, err := s.employees.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("employee lookup failed: %v: %w", err, ErrInternal)
	}
	if employee == nil {
		return fmt.Errorf("%w: employee not found", ErrNotFound)
	}

	flattened, err := s.resolvePermissions(ctx, employee.AccessLevels)
	if err != nil {
		return err
	}

	employee.Permissions = flattened
	if err := s.employees.SaveEmployee(ctx, employee); err != nil {
		return fmt.Errorf("failed to persist permissions: %v: %w", err, ErrInternal)
	}

	s.invalidatePermissionCache(ctx, employeeID)
	s.log.Infow("refreshed employee permissions",
		"employeeId", employeeID, "levels", len(employee.AccessLevels), "permissions", len(flattened))
	return nil
}

// resolvePermissions flattens the named access levels into tier-tagged
// pairs, failing on any name missing from the catalog. Mutations resolve
// through this before saving so a bad level name leaves no partial state.
func (s *Service) resolvePermissions(ctx context.Context, levelNames []string) ([]TierPermission, error) {
	flattened := make([]TierPermission, 0, len(levelNames))
	for _, name := range levelNames {
		level, err := s.levels.FindLevelByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("access level lookup failed: %v: %w", err, ErrInternal)
		}
		if level == nil {
			return nil, fmt.Errorf("%w: access level %s not found", ErrNotFound, name)
		}
		for _, p := range level.Permissions {
			flattened = append(flattened, TierPermission{
				Resource: p.Resource,
				Action:   p.Action,
				Tier:     level.Tier,
			})
		}
	}
	return flattened, nil
}
