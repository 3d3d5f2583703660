package gatekeeper

import (
	"context"
)

// The store interfaces below are the persistence contracts the engines run
// against. Lookups return (nil, nil) when the record does not exist; the
// caller decides whether absence is an error.

// CardStore persists access cards.
type CardStore interface {
	FindCardByID(ctx context.Context, id string) (*AccessCard, error)
	FindCardByHolder(ctx context.Context, employeeID string) (*AccessCard, error)
	CreateCard(ctx context.Context, card *AccessCard) error
	SaveCard(ctx context.Context, card *AccessCard) error
	DeleteCard(ctx context.Context, id string) error
}

// EmployeeStore persists employees, including the materialized permission
// cache column.
type EmployeeStore interface {
	FindEmployeeByID(ctx context.Context, id string) (*Employee, error)
	CreateEmployee(ctx context.Context, e *Employee) error
	SaveEmployee(ctx context.Context, e *Employee) error
	DeleteEmployee(ctx context.Context, id string) error
	// FindEmployeesByAccessLevel returns every employee referencing the
	// named access level. Used to protect catalog deletes and to refresh
	// caches after catalog edits.
	FindEmployeesByAccessLevel(ctx context.Context, levelName string) ([]Employee, error)
}

// CompanyStore persists companies and answers building-ownership queries.
type CompanyStore interface {
	FindCompanyByID(ctx context.Context, id string) (*Company, error)
	FindCompanyByName(ctx context.Context, name string) (*Company, error)
	// FindBuildingOwner returns the company owning buildingID, if any.
	FindBuildingOwner(ctx context.Context, buildingID string) (*Company, error)
	CreateCompany(ctx context.Context, c *Company) error
	SaveCompany(ctx context.Context, c *Company) error
}

// BuildingStore persists buildings.
type BuildingStore interface {
	FindBuildingByID(ctx context.Context, id string) (*Building, error)
	FindBuildingByName(ctx context.Context, name string) (*Building, error)
	CreateBuilding(ctx context.Context, b *Building) error
}

// AccessLevelStore persists the permission catalog.
type AccessLevelStore interface {
	FindLevelByName(ctx context.Context, name string) (*AccessLevel, error)
	ListLevels(ctx context.Context) ([]AccessLevel, error)
	CreateLevel(ctx context.Context, l *AccessLevel) error
	SaveLevel(ctx context.Context, l *AccessLevel) error
	DeleteLevel(ctx context.Context, name string) error
}

// BucketStore persists the append-only audit log buckets. "Latest" means
// most recently created, not the bucket whose window covers now.
type BucketStore interface {
	LatestBucket(ctx context.Context) (*AccessLogBucket, error)
	// AllBuckets returns every bucket in creation order.
	AllBuckets(ctx context.Context) ([]AccessLogBucket, error)
	CreateBucket(ctx context.Context, b *AccessLogBucket) error
	SaveBucket(ctx context.Context, b *AccessLogBucket) error
	// ReplaceAllBuckets atomically swaps the entire bucket collection.
	// On error the previous collection must be left untouched.
	ReplaceAllBuckets(ctx context.Context, buckets []AccessLogBucket) error
}

// ConfigStore is the external key-value collaborator supplying the audit
// bucket width.
type ConfigStore interface {
	// GetInterval returns the configured bucket width in seconds,
	// falling back to DefaultLogIntervalSeconds when unset.
	GetInterval(ctx context.Context) (int64, error)
	SetInterval(ctx context.Context, seconds int64) error
}

// DefaultLogIntervalSeconds is the bucket width used when no
// accessLogInterval has been configured (six hours).
const DefaultLogIntervalSeconds int64 = 21600
