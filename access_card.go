package gatekeeper

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IssueCardInput describes a card to issue.
type IssueCardInput struct {
	EmployeeID string     `json:"employeeId"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`
}

// UpdateCardInput carries partial card updates; nil fields are unchanged.
type UpdateCardInput struct {
	IsActive   *bool      `json:"isActive,omitempty"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`
}

// IssueCard issues a card to an employee who does not already hold one,
// denormalizing the holder's company and building onto the card.
func (s *Service) IssueCard(ctx context.Context, in IssueCardInput) (*AccessCard, error) {
	employee, err := s.GetEmployee(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cards.FindCardByHolder(ctx, employee.ID)
	if err != nil {
		return nil, fmt.Errorf("card lookup failed: %v: %w", err, ErrInternal)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: employee already holds a card", ErrBadRequest)
	}

	card := &AccessCard{
		ID:         uuid.NewString(),
		CardNumber: uuid.NewString(),
		CardHolder: CardHolder{
			EmployeeID: employee.ID,
			CompanyID:  employee.Company.CompanyID,
			BuildingID: employee.Company.BuildingID,
		},
		IsActive:   true,
		ValidUntil: in.ValidUntil,
		IssuedAt:   time.Now().UTC(),
	}
	if err := s.cards.CreateCard(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to create access card: %v: %w", err, ErrInternal)
	}

	employee.AccessCardID = card.ID
	if err := s.employees.SaveEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to link access card: %v: %w", err, ErrInternal)
	}
	return card, nil
}

// UpdateCard changes a card's validity window or active flag.
func (s *Service) UpdateCard(ctx context.Context, id string, in UpdateCardInput) (*AccessCard, error) {
	card, err := s.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.IsActive != nil {
		card.IsActive = *in.IsActive
	}
	if in.ValidUntil != nil {
		card.ValidUntil = in.ValidUntil
	}
	if err := s.cards.SaveCard(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to update access card: %v: %w", err, ErrInternal)
	}
	return card, nil
}

// DeleteCard removes a card and unlinks it from its holder.
func (s *Service) DeleteCard(ctx context.Context, id string) error {
	card, err := s.GetCard(ctx, id)
	if err != nil {
		return err
	}

	employee, err := s.employees.FindEmployeeByID(ctx, card.CardHolder.EmployeeID)
	if err != nil {
		return fmt.Errorf("employee lookup failed: %v: %w", err, ErrInternal)
	}
	if employee != nil && employee.AccessCardID == card.ID {
		employee.AccessCardID = ""
		if err := s.employees.SaveEmployee(ctx, employee); err != nil {
			return fmt.Errorf("failed to unlink access card: %v: %w", err, ErrInternal)
		}
	}

	if err := s.cards.DeleteCard(ctx, id); err != nil {
		return fmt.Errorf("failed to delete access card: %v: %w", err, ErrInternal)
	}
	return nil
}

// GetCard loads a card or reports NotFound.
func (s *Service) GetCard(ctx context.Context, id string) (*AccessCard, error) {
	card, err := s.cards.FindCardByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("card lookup failed: %v: %w", err, ErrInternal)
	}
	if card == nil {
		return nil, fmt.Errorf("%w: access card not found", ErrNotFound)
	}
	return card, nil
}
