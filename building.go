package gatekeeper

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// NewBuildingInput describes a building to register.
type NewBuildingInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// CreateBuilding registers a physical site.
func (s *Service) CreateBuilding(ctx context.Context, in NewBuildingInput) (*Building, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadRequest)
	}

	existing, err := s.buildings.FindBuildingByName(ctx, in.Name)
	if err != nil {
		return nil, fmt.Errorf("building lookup failed: %v: %w", err, ErrInternal)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: building %s already exists", ErrBadRequest, in.Name)
	}

	building := &Building{
		ID:      uuid.NewString(),
		Name:    in.Name,
		Address: in.Address,
	}
	if err := s.buildings.CreateBuilding(ctx, building); err != nil {
		return nil, fmt.Errorf("failed to create building: %v: %w", err, ErrInternal)
	}
	return building, nil
}

// GetBuilding loads a building or reports NotFound.
func (s *Service) GetBuilding(ctx context.Context, id string) (*Building, error) {
	building, err := s.buildings.FindBuildingByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("building lookup failed: %v: %w", err, ErrInternal)
	}
	if building == nil {
		return nil, fmt.Errorf("%w: building not found", ErrNotFound)
	}
	return building, nil
}
