package gatekeeper

import (
	"context"
	"fmt"
)

// NewAccessLevelInput describes a catalog entry to create.
type NewAccessLevelInput struct {
	Name        string       `json:"name"`
	Tier        Tier         `json:"tier"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions"`
}

// UpdateAccessLevelInput carries partial catalog updates.
type UpdateAccessLevelInput struct {
	Tier        *Tier         `json:"tier,omitempty"`
	Description *string       `json:"description,omitempty"`
	Permissions *[]Permission `json:"permissions,omitempty"`
}

func validTier(t Tier) bool {
	switch t {
	case TierCompany, TierBuilding, TierProduct:
		return true
	}
	return false
}

// CreateAccessLevel adds a named, tier-tagged permission set to the
// catalog.
func (s *Service) CreateAccessLevel(ctx context.Context, in NewAccessLevelInput) (*AccessLevel, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadRequest)
	}
	if !validTier(in.Tier) {
		return nil, fmt.Errorf("%w: tier must be one of company, building, product", ErrBadRequest)
	}

	existing, err := s.levels.FindLevelByName(ctx, in.Name)
	if err != nil {
		return nil, fmt.Errorf("access level lookup failed: %v: %w", err, ErrInternal)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: access level %s already exists", ErrBadRequest, in.Name)
	}

	level := &AccessLevel{
		Name:        in.Name,
		Tier:        in.Tier,
		Description: in.Description,
		Permissions: in.Permissions,
	}
	if err := s.levels.CreateLevel(ctx, level); err != nil {
		return nil, fmt.Errorf("failed to create access level: %v: %w", err, ErrInternal)
	}
	return level, nil
}

// UpdateAccessLevel edits a catalog entry and synchronously refreshes the
// materialized cache of every employee referencing it, so a catalog change
// never leaves stale tiers behind.
func (s *Service) UpdateAccessLevel(ctx context.Context, name string, in UpdateAccessLevelInput) (*AccessLevel, error) {
	level, err := s.GetAccessLevel(ctx, name)
	if err != nil {
		return nil, err
	}

	if in.Tier != nil {
		if !validTier(*in.Tier) {
			return nil, fmt.Errorf("%w: tier must be one of company, building, product", ErrBadRequest)
		}
		level.Tier = *in.Tier
	}
	if in.Description != nil {
		level.Description = *in.Description
	}
	if in.Permissions != nil {
		level.Permissions = *in.Permissions
	}

	if err := s.levels.SaveLevel(ctx, level); err != nil {
		return nil, fmt.Errorf("failed to update access level: %v: %w", err, ErrInternal)
	}

	// Drop every snapshot up front so no reader serves the old catalog
	// while the per-employee refreshes below are still running.
	s.invalidateAllPermissionCaches(ctx)

	referencing, err := s.employees.FindEmployeesByAccessLevel(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("employee lookup failed: %v: %w", err, ErrInternal)
	}
	for _, e := range referencing {
		if err := s.RefreshPermissions(ctx, e.ID); err != nil {
			return nil, err
		}
	}
	return level, nil
}

// DeleteAccessLevel removes a catalog entry, refusing while any employee
// still references it.
func (s *Service) DeleteAccessLevel(ctx context.Context, name string) error {
	if _, err := s.GetAccessLevel(ctx, name); err != nil {
		return err
	}

	referencing, err := s.employees.FindEmployeesByAccessLevel(ctx, name)
	if err != nil {
		return fmt.Errorf("employee lookup failed: %v: %w", err, ErrInternal)
	}
	if len(referencing) > 0 {
		return fmt.Errorf("%w: access level %s is referenced by %d employee(s)", ErrInvalidState, name, len(referencing))
	}

	if err := s.levels.DeleteLevel(ctx, name); err != nil {
		return fmt.Errorf("failed to delete access level: %v: %w", err, ErrInternal)
	}
	return nil
}

// GetAccessLevel loads a catalog entry or reports NotFound.
func (s *Service) GetAccessLevel(ctx context.Context, name string) (*AccessLevel, error) {
	level, err := s.levels.FindLevelByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("access level lookup failed: %v: %w", err, ErrInternal)
	}
	if level == nil {
		return nil, fmt.Errorf("%w: access level not found", ErrNotFound)
	}
	return level, nil
}

// ListAccessLevels returns the whole catalog.
func (s *Service) ListAccessLevels(ctx context.Context) ([]AccessLevel, error) {
	levels, err := s.levels.ListLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list access levels: %v: %w", err, ErrInternal)
	}
	return levels, nil
}
