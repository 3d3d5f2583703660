package gatekeeper

import (
	"time"
)

// Tier is the authorization level at which a decision is granted.
type Tier string

const (
	TierCompany  Tier = "company"
	TierBuilding Tier = "building"
	TierProduct  Tier = "product"
)

// AccessType is the kind of card-present event.
type AccessType string

const (
	AccessTypeLogin  AccessType = "login"
	AccessTypeLogout AccessType = "logout"
	AccessTypeAccess AccessType = "access"
)

// ValidAccessType reports whether t is one of the accepted event kinds.
func ValidAccessType(t AccessType) bool {
	switch t {
	case AccessTypeLogin, AccessTypeLogout, AccessTypeAccess:
		return true
	}
	return false
}

const (
	ActionAccess = "access"
	ActionAdmin  = "admin"

	// ResourceProduct paired with ActionAdmin marks a product administrator.
	ResourceProduct = "product"
)

// Permission is a single (resource, action) pair on an access level.
type Permission struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// TierPermission is a permission pair tagged with the tier of the access
// level it came from. The employee's materialized cache holds these.
type TierPermission struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Tier     Tier   `json:"tier"`
}

// TierPermissions is an employee's permission cache partitioned by tier.
type TierPermissions struct {
	Company  []TierPermission
	Building []TierPermission
	Product  []TierPermission
}

// AccessLevel is a named, tier-tagged set of permission pairs.
type AccessLevel struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"unique;not null" json:"name"`
	Tier        Tier         `gorm:"type:varchar(20);not null" json:"tier"`
	Description string       `json:"description"`
	Permissions []Permission `gorm:"type:jsonb;serializer:json" json:"permissions"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// CardHolder identifies the employee a card was issued to, with the
// holder's company and building denormalized at issuance/update time.
type CardHolder struct {
	EmployeeID string `json:"employeeId"`
	CompanyID  string `json:"companyId"`
	BuildingID string `json:"buildingId"`
}

// AccessCard is a physical card presented at a reader. A card is usable
// only while IsActive and ValidUntil (when set) is in the future.
type AccessCard struct {
	ID         string     `gorm:"primaryKey" json:"id"`
	CardNumber string     `gorm:"unique;not null" json:"cardNumber"`
	CardHolder CardHolder `gorm:"embedded;embeddedPrefix:holder_" json:"cardHolder"`
	IsActive   bool       `gorm:"default:true" json:"isActive"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`
	IssuedAt   time.Time  `json:"issuedAt"`
}

// Usable reports whether the card may be presented at the given instant.
func (c *AccessCard) Usable(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	return c.ValidUntil == nil || c.ValidUntil.After(now)
}

// Affiliation is an employee's home company and building.
type Affiliation struct {
	CompanyID  string `json:"companyId"`
	BuildingID string `json:"buildingId"`
}

// Employee carries its access level references (source of truth) and the
// materialized permission cache derived from them. The cache is always
// replaced as a whole, never patched in place.
type Employee struct {
	ID           string           `gorm:"primaryKey" json:"id"`
	Name         string           `gorm:"not null" json:"name"`
	Company      Affiliation      `gorm:"embedded;embeddedPrefix:company_" json:"company"`
	AccessCardID string           `json:"accessCardId,omitempty"`
	AccessLevels []string         `gorm:"type:jsonb;serializer:json" json:"accessLevels"`
	Permissions  []TierPermission `gorm:"type:jsonb;serializer:json" json:"permissions"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// PartitionPermissions splits the cached permission list by tier.
func (e *Employee) PartitionPermissions() TierPermissions {
	var tp TierPermissions
	for _, p := range e.Permissions {
		switch p.Tier {
		case TierCompany:
			tp.Company = append(tp.Company, p)
		case TierBuilding:
			tp.Building = append(tp.Building, p)
		case TierProduct:
			tp.Product = append(tp.Product, p)
		}
	}
	return tp
}

// HomeBuilding is a company's home building reference.
type HomeBuilding struct {
	BuildingID   string `json:"buildingId"`
	BuildingName string `json:"buildingName"`
}

// OwnedBuilding is a building a company administers for other tenants.
type OwnedBuilding struct {
	BuildingID   string `json:"buildingId"`
	BuildingName string `json:"buildingName"`
}

// Company is a tenant. A building appears in at most one company's
// OwnedBuildings across the whole store.
type Company struct {
	ID             string          `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"unique;not null" json:"name"`
	Buildings      HomeBuilding    `gorm:"embedded;embeddedPrefix:home_" json:"buildings"`
	OwnedBuildings []OwnedBuilding `gorm:"type:jsonb;serializer:json" json:"ownedBuildings"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// OwnsBuilding reports whether buildingID is among the company's owned
// buildings.
func (c *Company) OwnsBuilding(buildingID string) bool {
	for _, b := range c.OwnedBuildings {
		if b.BuildingID == buildingID {
			return true
		}
	}
	return false
}

// Building is a physical site.
type Building struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LogEntry is one granted access decision. EventType records the tier the
// decision was granted at; AccessType records the kind of swipe.
type LogEntry struct {
	AccessCardID string     `json:"accessCardId"`
	EmployeeID   string     `json:"employeeId"`
	CompanyID    string     `json:"companyId"`
	BuildingID   string     `json:"buildingId"`
	EventType    Tier       `json:"eventType"`
	AccessType   AccessType `json:"accessType"`
	Resource     []string   `json:"resource,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
}

// AccessLogBucket groups log entries into a contiguous [start, end) time
// window. Buckets never overlap; the latest-created bucket is the only
// mutable one outside of reconfiguration.
type AccessLogBucket struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	BucketStartTime time.Time  `gorm:"index;not null" json:"bucketStartTime"`
	BucketEndTime   time.Time  `gorm:"index;not null" json:"bucketEndTime"`
	Logs            []LogEntry `gorm:"type:jsonb;serializer:json" json:"logs"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Contains reports whether ts falls inside the bucket's window.
func (b *AccessLogBucket) Contains(ts time.Time) bool {
	return ts.Before(b.BucketEndTime)
}
