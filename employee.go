package gatekeeper

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// NewEmployeeInput describes an employee to onboard.
type NewEmployeeInput struct {
	Name         string   `json:"name"`
	CompanyID    string   `json:"companyId"`
	BuildingID   string   `json:"buildingId"`
	AccessLevels []string `json:"accessLevels"`
}

// UpdateEmployeeInput carries partial employee updates; nil fields are
// left unchanged.
type UpdateEmployeeInput struct {
	Name         *string   `json:"name,omitempty"`
	CompanyID    *string   `json:"companyId,omitempty"`
	BuildingID   *string   `json:"buildingId,omitempty"`
	AccessLevels *[]string `json:"accessLevels,omitempty"`
}

// CreateEmployee onboards an employee and materializes their permission
// cache. Levels are resolved before the record is written, so an unknown
// level name fails the whole operation without creating anything.
func (s *Service) CreateEmployee(ctx context.Context, in NewEmployeeInput) (*Employee, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadRequest)
	}
	if err := s.requireCompanyAndBuilding(ctx, in.CompanyID, in.BuildingID); err != nil {
		return nil, err
	}

	perms, err := s.resolvePermissions(ctx, in.AccessLevels)
	if err != nil {
		return nil, err
	}

	employee := &Employee{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Company:      Affiliation{CompanyID: in.CompanyID, BuildingID: in.BuildingID},
		AccessLevels: in.AccessLevels,
		Permissions:  perms,
	}
	if err := s.employees.CreateEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %v: %w", err, ErrInternal)
	}
	return s.GetEmployee(ctx, employee.ID)
}

// UpdateEmployee applies the changes, re-denormalizes the holder's access
// card and rematerializes the permission cache whenever a tier-relevant
// field (access levels, company, building) moved. The cache is resolved
// before the save, so a failed resolution leaves the stored record as it
// was.
func (s *Service) UpdateEmployee(ctx context.Context, id string, in UpdateEmployeeInput) (*Employee, error) {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	tierRelevant := false
	if in.Name != nil {
		employee.Name = *in.Name
	}
	if in.CompanyID != nil && *in.CompanyID != employee.Company.CompanyID {
		employee.Company.CompanyID = *in.CompanyID
		tierRelevant = true
	}
	if in.BuildingID != nil && *in.BuildingID != employee.Company.BuildingID {
		employee.Company.BuildingID = *in.BuildingID
		tierRelevant = true
	}
	if in.AccessLevels != nil {
		employee.AccessLevels = *in.AccessLevels
		tierRelevant = true
	}

	if err := s.requireCompanyAndBuilding(ctx, employee.Company.CompanyID, employee.Company.BuildingID); err != nil {
		return nil, err
	}
	if tierRelevant {
		perms, err := s.resolvePermissions(ctx, employee.AccessLevels)
		if err != nil {
			return nil, err
		}
		employee.Permissions = perms
	}

	if err := s.employees.SaveEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to update employee: %v: %w", err, ErrInternal)
	}

	if err := s.syncCardHolder(ctx, employee); err != nil {
		return nil, err
	}

	if tierRelevant {
		s.invalidatePermissionCache(ctx, employee.ID)
	}
	return s.GetEmployee(ctx, employee.ID)
}

// DeleteEmployee removes the employee and the card issued to them.
func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return err
	}

	card, err := s.cards.FindCardByHolder(ctx, employee.ID)
	if err != nil {
		return fmt.Errorf("card lookup failed: %v: %w", err, ErrInternal)
	}
	if card != nil {
		if err := s.cards.DeleteCard(ctx, card.ID); err != nil {
			return fmt.Errorf("failed to delete access card: %v: %w", err, ErrInternal)
		}
	}

	if err := s.employees.DeleteEmployee(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %v: %w", err, ErrInternal)
	}
	s.invalidatePermissionCache(ctx, id)
	return nil
}

// GetEmployee loads an employee or reports NotFound.
func (s *Service) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	employee, err := s.employees.FindEmployeeByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("employee lookup failed: %v: %w", err, ErrInternal)
	}
	if employee == nil {
		return nil, fmt.Errorf("%w: employee not found", ErrNotFound)
	}
	return employee, nil
}

// requireCompanyAndBuilding verifies both references exist.
func (s *Service) requireCompanyAndBuilding(ctx context.Context, companyID, buildingID string) error {
	company, err := s.companies.FindCompanyByID(ctx, companyID)
	if err != nil {
		return fmt.Errorf("company lookup failed: %v: %w", err, ErrInternal)
	}
	if company == nil {
		return fmt.Errorf("%w: company does not exist", ErrNotFound)
	}
	building, err := s.buildings.FindBuildingByID(ctx, buildingID)
	if err != nil {
		return fmt.Errorf("building lookup failed: %v: %w", err, ErrInternal)
	}
	if building == nil {
		return fmt.Errorf("%w: building not found", ErrNotFound)
	}
	return nil
}

// syncCardHolder keeps the card's denormalized company/building in step
// with the holder's employee record.
func (s *Service) syncCardHolder(ctx context.Context, employee *Employee) error {
	card, err := s.cards.FindCardByHolder(ctx, employee.ID)
	if err != nil {
		return fmt.Errorf("card lookup failed: %v: %w", err, ErrInternal)
	}
	if card == nil {
		return nil
	}
	if card.CardHolder.CompanyID == employee.Company.CompanyID &&
		card.CardHolder.BuildingID == employee.Company.BuildingID {
		return nil
	}
	card.CardHolder.CompanyID = employee.Company.CompanyID
	card.CardHolder.BuildingID = employee.Company.BuildingID
	if err := s.cards.SaveCard(ctx, card); err != nil {
		return fmt.Errorf("failed to update access card: %v: %w", err, ErrInternal)
	}
	return nil
}
