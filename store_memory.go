package gatekeeper

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of every store contract,
// intended for tests and dev environments. Values are copied on the way in
// and out so callers never share backing slices with the store.
type MemoryStore struct {
	mu        sync.Mutex
	cards     map[string]AccessCard
	employees map[string]Employee
	companies map[string]Company
	buildings map[string]Building
	levels    map[string]AccessLevel
	buckets   []AccessLogBucket
	nextID    uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cards:     make(map[string]AccessCard),
		employees: make(map[string]Employee),
		companies: make(map[string]Company),
		buildings: make(map[string]Building),
		levels:    make(map[string]AccessLevel),
		nextID:    1,
	}
}

// MemoryStores bundles a MemoryStore into a Stores value with an in-memory
// config store alongside it.
func MemoryStores(m *MemoryStore) Stores {
	return Stores{
		Cards:     m,
		Employees: m,
		Companies: m,
		Buildings: m,
		Levels:    m,
		Buckets:   m,
		Config:    NewMemoryConfigStore(),
	}
}

func copyEntries(logs []LogEntry) []LogEntry {
	out := make([]LogEntry, len(logs))
	copy(out, logs)
	return out
}

func copyBucket(b AccessLogBucket) AccessLogBucket {
	b.Logs = copyEntries(b.Logs)
	return b
}

// ── cards ────────────────────────────────────────────────────────────────

func (m *MemoryStore) FindCardByID(_ context.Context, id string) (*AccessCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if card, ok := m.cards[id]; ok {
		return &card, nil
	}
	return nil, nil
}

func (m *MemoryStore) FindCardByHolder(_ context.Context, employeeID string) (*AccessCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, card := range m.cards {
		if card.CardHolder.EmployeeID == employeeID {
			c := card
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) CreateCard(_ context.Context, card *AccessCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[card.ID] = *card
	return nil
}

func (m *MemoryStore) SaveCard(_ context.Context, card *AccessCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[card.ID] = *card
	return nil
}

func (m *MemoryStore) DeleteCard(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cards, id)
	return nil
}

// ── employees ────────────────────────────────────────────────────────────

func (m *MemoryStore) FindEmployeeByID(_ context.Context, id string) (*Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.employees[id]; ok {
		e.AccessLevels = append([]string(nil), e.AccessLevels...)
		e.Permissions = append([]TierPermission(nil), e.Permissions...)
		return &e, nil
	}
	return nil, nil
}

func (m *MemoryStore) CreateEmployee(_ context.Context, e *Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = *e
	return nil
}

func (m *MemoryStore) SaveEmployee(_ context.Context, e *Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = *e
	return nil
}

func (m *MemoryStore) DeleteEmployee(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.employees, id)
	return nil
}

func (m *MemoryStore) FindEmployeesByAccessLevel(_ context.Context, levelName string) ([]Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Employee
	for _, e := range m.employees {
		for _, name := range e.AccessLevels {
			if name == levelName {
				e.AccessLevels = append([]string(nil), e.AccessLevels...)
				e.Permissions = append([]TierPermission(nil), e.Permissions...)
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

// ── companies ────────────────────────────────────────────────────────────

func (m *MemoryStore) FindCompanyByID(_ context.Context, id string) (*Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.companies[id]; ok {
		c.OwnedBuildings = append([]OwnedBuilding(nil), c.OwnedBuildings...)
		return &c, nil
	}
	return nil, nil
}

func (m *MemoryStore) FindCompanyByName(_ context.Context, name string) (*Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.companies {
		if c.Name == name {
			c.OwnedBuildings = append([]OwnedBuilding(nil), c.OwnedBuildings...)
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) FindBuildingOwner(_ context.Context, buildingID string) (*Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.companies {
		for _, b := range c.OwnedBuildings {
			if b.BuildingID == buildingID {
				owner := c
				return &owner, nil
			}
		}
	}
	return nil, nil
}

func (m *MemoryStore) CreateCompany(_ context.Context, c *Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companies[c.ID] = *c
	return nil
}

func (m *MemoryStore) SaveCompany(_ context.Context, c *Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companies[c.ID] = *c
	return nil
}

// ── buildings ────────────────────────────────────────────────────────────

func (m *MemoryStore) FindBuildingByID(_ context.Context, id string) (*Building, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.buildings[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (m *MemoryStore) FindBuildingByName(_ context.Context, name string) (*Building, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.buildings {
		if b.Name == name {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) CreateBuilding(_ context.Context, b *Building) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buildings[b.ID] = *b
	return nil
}

// ── access levels ────────────────────────────────────────────────────────

func (m *MemoryStore) FindLevelByName(_ context.Context, name string) (*AccessLevel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.levels[name]; ok {
		l.Permissions = append([]Permission(nil), l.Permissions...)
		return &l, nil
	}
	return nil, nil
}

func (m *MemoryStore) ListLevels(_ context.Context) ([]AccessLevel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AccessLevel, 0, len(m.levels))
	for _, l := range m.levels {
		l.Permissions = append([]Permission(nil), l.Permissions...)
		out = append(out, l)
	}
	return out, nil
}

func (m *MemoryStore) CreateLevel(_ context.Context, l *AccessLevel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[l.Name] = *l
	return nil
}

func (m *MemoryStore) SaveLevel(_ context.Context, l *AccessLevel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[l.Name] = *l
	return nil
}

func (m *MemoryStore) DeleteLevel(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.levels, name)
	return nil
}

// ── audit log buckets ────────────────────────────────────────────────────

func (m *MemoryStore) LatestBucket(_ context.Context) (*AccessLogBucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.buckets) == 0 {
		return nil, nil
	}
	b := copyBucket(m.buckets[len(m.buckets)-1])
	return &b, nil
}

func (m *MemoryStore) AllBuckets(_ context.Context) ([]AccessLogBucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AccessLogBucket, 0, len(m.buckets))
	for _, b := range m.buckets {
		out = append(out, copyBucket(b))
	}
	return out, nil
}

func (m *MemoryStore) CreateBucket(_ context.Context, b *AccessLogBucket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.nextID
	m.nextID++
	m.buckets = append(m.buckets, copyBucket(*b))
	return nil
}

func (m *MemoryStore) SaveBucket(_ context.Context, b *AccessLogBucket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.buckets {
		if m.buckets[i].ID == b.ID {
			m.buckets[i] = copyBucket(*b)
			return nil
		}
	}
	m.buckets = append(m.buckets, copyBucket(*b))
	return nil
}

func (m *MemoryStore) ReplaceAllBuckets(_ context.Context, buckets []AccessLogBucket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	replacement := make([]AccessLogBucket, 0, len(buckets))
	for _, b := range buckets {
		b.ID = m.nextID
		m.nextID++
		replacement = append(replacement, copyBucket(b))
	}
	m.buckets = replacement
	return nil
}
