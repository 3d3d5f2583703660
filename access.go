package gatekeeper

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// AccessRequest is a card-present event to be decided. EventType is the
// kind of swipe (login, logout or access); the resolved tier is reported
// back on the log entry.
type AccessRequest struct {
	AccessCardID string     `json:"accessCardId"`
	CompanyID    string     `json:"companyId"`
	BuildingID   string     `json:"buildingId"`
	EventType    AccessType `json:"eventType"`
	Resource     []string   `json:"resource,omitempty"`
}

// AccessResponse is the verdict for a card-present event.
type AccessResponse struct {
	Granted bool     `json:"granted"`
	Tier    Tier     `json:"tier"`
	Message string   `json:"message"`
	Logged  LogEntry `json:"logged"`
}

// Decide resolves whether the presented card may perform the requested
// event against the given company/building pair, and durably records the
// decision. A grant that cannot be logged is returned as a failure: the
// decision and its audit record commit as a unit.
func (s *Service) Decide(ctx context.Context, req AccessRequest) (AccessResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.decisionTimeout)
	defer cancel()

	now := time.Now().UTC()

	if !ValidAccessType(req.EventType) {
		return AccessResponse{}, fmt.Errorf("%w: eventType must be one of login, logout, access", ErrBadRequest)
	}

	card, err := s.cards.FindCardByID(ctx, req.AccessCardID)
	if err != nil {
		return AccessResponse{}, fmt.Errorf("card lookup failed: %v: %w", err, ErrInternal)
	}
	if card == nil {
		return AccessResponse{}, fmt.Errorf("%w: access card not found", ErrNotFound)
	}
	if !card.Usable(now) {
		return AccessResponse{}, fmt.Errorf("%w: access card is not active or has expired", ErrInvalidState)
	}

	employee, err := s.employees.FindEmployeeByID(ctx, card.CardHolder.EmployeeID)
	if err != nil {
		return AccessResponse{}, fmt.Errorf("employee lookup failed: %v: %w", err, ErrInternal)
	}
	if employee == nil {
		return AccessResponse{}, fmt.Errorf("%w: employee not found", ErrNotFound)
	}

	reqCompany, err := s.companies.FindCompanyByID(ctx, req.CompanyID)
	if err != nil {
		return AccessResponse{}, fmt.Errorf("company lookup failed: %v: %w", err, ErrInternal)
	}
	if reqCompany == nil || !companyLinkedToBuilding(reqCompany, req.BuildingID) {
		return AccessResponse{}, fmt.Errorf("%w: invalid company or building", ErrNotFound)
	}

	// The ownership fact is about the employee's own company, which may
	// differ from the company on the request.
	empCompany := reqCompany
	if employee.Company.CompanyID != req.CompanyID {
		empCompany, err = s.companies.FindCompanyByID(ctx, employee.Company.CompanyID)
		if err != nil {
			return AccessResponse{}, fmt.Errorf("company lookup failed: %v: %w", err, ErrInternal)
		}
	}

	perms := s.employeePermissions(ctx, employee)

	belongsToBuilding := employee.Company.BuildingID == req.BuildingID
	belongsToCompany := employee.Company.CompanyID == req.CompanyID
	companyOwnsBuilding := empCompany != nil && empCompany.OwnsBuilding(req.BuildingID)

	var tier Tier
	var tierSet []TierPermission
	switch {
	case belongsToBuilding && belongsToCompany:
		tier, tierSet = TierCompany, perms.Company
	case companyOwnsBuilding:
		tier, tierSet = TierBuilding, perms.Building
	case isProductAdmin(perms.Product):
		// Product administrators are granted without a resource check.
		tier, tierSet = TierProduct, nil
	default:
		return AccessResponse{}, fmt.Errorf("%w: employee does not have access to this building", ErrForbidden)
	}

	if tier != TierProduct {
		if len(req.Resource) == 0 {
			return AccessResponse{}, fmt.Errorf("%w: resource list is required", ErrBadRequest)
		}
		if missing := uncoveredResource(tierSet, req.Resource); missing != "" {
			return AccessResponse{}, fmt.Errorf("%w: no %s permission for resource %s", ErrForbidden, tier, missing)
		}
	}

	entry := LogEntry{
		AccessCardID: card.ID,
		EmployeeID:   employee.ID,
		CompanyID:    req.CompanyID,
		BuildingID:   req.BuildingID,
		EventType:    tier,
		AccessType:   req.EventType,
		Resource:     req.Resource,
		Timestamp:    now,
	}
	if err := s.Append(ctx, entry); err != nil {
		s.log.Errorw("failed to record access decision", "cardId", card.ID, "error", err)
		return AccessResponse{}, fmt.Errorf("failed to create access log: %v: %w", err, ErrInternal)
	}

	msg := fmt.Sprintf("access granted at %s tier", tier)
	if len(req.Resource) > 0 {
		msg += " for " + strings.Join(req.Resource, ", ")
	}
	s.log.Infow("access granted", "cardId", card.ID, "employeeId", employee.ID, "tier", tier)

	return AccessResponse{Granted: true, Tier: tier, Message: msg, Logged: entry}, nil
}

// companyLinkedToBuilding reports whether the request's company/building
// pair is real: the building is the company's home building or one it owns.
func companyLinkedToBuilding(c *Company, buildingID string) bool {
	return c.Buildings.BuildingID == buildingID || c.OwnsBuilding(buildingID)
}

// isProductAdmin reports whether the product-tier set carries the
// product/admin pair.
func isProductAdmin(product []TierPermission) bool {
	for _, p := range product {
		if p.Resource == ResourceProduct && p.Action == ActionAdmin {
			return true
		}
	}
	return false
}

// uncoveredResource returns the first requested resource with no matching
// access or admin permission in the set, or "" when all are covered.
func uncoveredResource(set []TierPermission, resources []string) string {
	for _, r := range resources {
		covered := false
		for _, p := range set {
			if p.Resource == r && (p.Action == ActionAccess || p.Action == ActionAdmin) {
				covered = true
				break
			}
		}
		if !covered {
			return r
		}
	}
	return ""
}
