package gatekeeper

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// NewCompanyInput describes a tenant to create. BuildingID is the
// company's home building.
type NewCompanyInput struct {
	Name       string `json:"name"`
	BuildingID string `json:"buildingId"`
}

// CreateCompany registers a tenant with its home building.
func (s *Service) CreateCompany(ctx context.Context, in NewCompanyInput) (*Company, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadRequest)
	}

	existing, err := s.companies.FindCompanyByName(ctx, in.Name)
	if err != nil {
		return nil, fmt.Errorf("company lookup failed: %v: %w", err, ErrInternal)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: company %s already exists", ErrBadRequest, in.Name)
	}

	building, err := s.buildings.FindBuildingByID(ctx, in.BuildingID)
	if err != nil {
		return nil, fmt.Errorf("building lookup failed: %v: %w", err, ErrInternal)
	}
	if building == nil {
		return nil, fmt.Errorf("%w: building not found", ErrNotFound)
	}

	company := &Company{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Buildings: HomeBuilding{BuildingID: building.ID, BuildingName: building.Name},
	}
	if err := s.companies.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %v: %w", err, ErrInternal)
	}
	return company, nil
}

// ClaimBuilding adds a building to a company's owned set. A building can
// be owned by at most one company at a time.
func (s *Service) ClaimBuilding(ctx context.Context, companyID, buildingID string) (*Company, error) {
	company, err := s.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	building, err := s.buildings.FindBuildingByID(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("building lookup failed: %v: %w", err, ErrInternal)
	}
	if building == nil {
		return nil, fmt.Errorf("%w: building not found", ErrNotFound)
	}

	if company.OwnsBuilding(buildingID) {
		return company, nil
	}

	owner, err := s.companies.FindBuildingOwner(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("ownership lookup failed: %v: %w", err, ErrInternal)
	}
	if owner != nil {
		return nil, fmt.Errorf("%w: building %s is already owned by %s", ErrInvalidState, building.Name, owner.Name)
	}

	company.OwnedBuildings = append(company.OwnedBuildings, OwnedBuilding{
		BuildingID:   building.ID,
		BuildingName: building.Name,
	})
	if err := s.companies.SaveCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company: %v: %w", err, ErrInternal)
	}
	return company, nil
}

// ReleaseBuilding removes a building from a company's owned set.
func (s *Service) ReleaseBuilding(ctx context.Context, companyID, buildingID string) (*Company, error) {
	company, err := s.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	kept := company.OwnedBuildings[:0]
	removed := false
	for _, b := range company.OwnedBuildings {
		if b.BuildingID == buildingID {
			removed = true
			continue
		}
		kept = append(kept, b)
	}
	if !removed {
		return nil, fmt.Errorf("%w: company does not own this building", ErrNotFound)
	}

	company.OwnedBuildings = kept
	if err := s.companies.SaveCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company: %v: %w", err, ErrInternal)
	}
	return company, nil
}

// GetCompany loads a company or reports NotFound.
func (s *Service) GetCompany(ctx context.Context, id string) (*Company, error) {
	company, err := s.companies.FindCompanyByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("company lookup failed: %v: %w", err, ErrInternal)
	}
	if company == nil {
		return nil, fmt.Errorf("%w: company not found", ErrNotFound)
	}
	return company, nil
}
