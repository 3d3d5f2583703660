package gatekeeper

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// gormStore implements every store contract on a single Postgres database.
type gormStore struct {
	db *gorm.DB
}

func notFoundAsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// ── cards ────────────────────────────────────────────────────────────────

func (g *gormStore) FindCardByID(ctx context.Context, id string) (*AccessCard, error) {
	var card AccessCard
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&card).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &card, nil
}

func (g *gormStore) FindCardByHolder(ctx context.Context, employeeID string) (*AccessCard, error) {
	var card AccessCard
	if err := g.db.WithContext(ctx).Where("holder_employee_id = ?", employeeID).First(&card).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &card, nil
}

func (g *gormStore) CreateCard(ctx context.Context, card *AccessCard) error {
	return g.db.WithContext(ctx).Create(card).Error
}

func (g *gormStore) SaveCard(ctx context.Context, card *AccessCard) error {
	return g.db.WithContext(ctx).Save(card).Error
}

func (g *gormStore) DeleteCard(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Where("id = ?", id).Delete(&AccessCard{}).Error
}

// ── employees ────────────────────────────────────────────────────────────

func (g *gormStore) FindEmployeeByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &e, nil
}

func (g *gormStore) CreateEmployee(ctx context.Context, e *Employee) error {
	return g.db.WithContext(ctx).Create(e).Error
}

func (g *gormStore) SaveEmployee(ctx context.Context, e *Employee) error {
	return g.db.WithContext(ctx).Save(e).Error
}

func (g *gormStore) DeleteEmployee(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Where("id = ?", id).Delete(&Employee{}).Error
}

func (g *gormStore) FindEmployeesByAccessLevel(ctx context.Context, levelName string) ([]Employee, error) {
	var employees []Employee
	err := g.db.WithContext(ctx).
		Where("access_levels @> ?", fmt.Sprintf("[%q]", levelName)).
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// ── companies ────────────────────────────────────────────────────────────

func (g *gormStore) FindCompanyByID(ctx context.Context, id string) (*Company, error) {
	var c Company
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &c, nil
}

func (g *gormStore) FindCompanyByName(ctx context.Context, name string) (*Company, error) {
	var c Company
	if err := g.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &c, nil
}

func (g *gormStore) FindBuildingOwner(ctx context.Context, buildingID string) (*Company, error) {
	var c Company
	err := g.db.WithContext(ctx).
		Where("owned_buildings @> ?", fmt.Sprintf(`[{"buildingId":%q}]`, buildingID)).
		First(&c).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &c, nil
}

func (g *gormStore) CreateCompany(ctx context.Context, c *Company) error {
	return g.db.WithContext(ctx).Create(c).Error
}

func (g *gormStore) SaveCompany(ctx context.Context, c *Company) error {
	return g.db.WithContext(ctx).Save(c).Error
}

// ── buildings ────────────────────────────────────────────────────────────

func (g *gormStore) FindBuildingByID(ctx context.Context, id string) (*Building, error) {
	var b Building
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &b, nil
}

func (g *gormStore) FindBuildingByName(ctx context.Context, name string) (*Building, error) {
	var b Building
	if err := g.db.WithContext(ctx).Where("name = ?", name).First(&b).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &b, nil
}

func (g *gormStore) CreateBuilding(ctx context.Context, b *Building) error {
	return g.db.WithContext(ctx).Create(b).Error
}

// ── access levels ────────────────────────────────────────────────────────

func (g *gormStore) FindLevelByName(ctx context.Context, name string) (*AccessLevel, error) {
	var l AccessLevel
	if err := g.db.WithContext(ctx).Where("name = ?", name).First(&l).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &l, nil
}

func (g *gormStore) ListLevels(ctx context.Context) ([]AccessLevel, error) {
	var levels []AccessLevel
	if err := g.db.WithContext(ctx).Order("name").Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

func (g *gormStore) CreateLevel(ctx context.Context, l *AccessLevel) error {
	return g.db.WithContext(ctx).Create(l).Error
}

func (g *gormStore) SaveLevel(ctx context.Context, l *AccessLevel) error {
	return g.db.WithContext(ctx).Save(l).Error
}

func (g *gormStore) DeleteLevel(ctx context.Context, name string) error {
	return g.db.WithContext(ctx).Where("name = ?", name).Delete(&AccessLevel{}).Error
}

// ── audit log buckets ────────────────────────────────────────────────────

func (g *gormStore) LatestBucket(ctx context.Context) (*AccessLogBucket, error) {
	var b AccessLogBucket
	if err := g.db.WithContext(ctx).Order("id DESC").First(&b).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &b, nil
}

func (g *gormStore) AllBuckets(ctx context.Context) ([]AccessLogBucket, error) {
	var buckets []AccessLogBucket
	if err := g.db.WithContext(ctx).Order("id").Find(&buckets).Error; err != nil {
		return nil, err
	}
	return buckets, nil
}

func (g *gormStore) CreateBucket(ctx context.Context, b *AccessLogBucket) error {
	return g.db.WithContext(ctx).Create(b).Error
}

func (g *gormStore) SaveBucket(ctx context.Context, b *AccessLogBucket) error {
	return g.db.WithContext(ctx).Save(b).Error
}

func (g *gormStore) ReplaceAllBuckets(ctx context.Context, buckets []AccessLogBucket) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&AccessLogBucket{}).Error; err != nil {
			return err
		}
		for i := range buckets {
			buckets[i].ID = 0
			if err := tx.Create(&buckets[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
