package gatekeeper

import (
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config holds the configuration for the access service.
type Config struct {
	DB              *gorm.DB
	RedisClient     *redis.Client
	CacheTTL        time.Duration
	CachePrefix     string
	AutoMigrate     bool
	DecisionTimeout time.Duration
	Logger          *zap.SugaredLogger
}

// Service is the access decision and audit log engine for the platform.
type Service struct {
	cards     CardStore
	employees EmployeeStore
	companies CompanyStore
	buildings BuildingStore
	levels    AccessLevelStore
	buckets   BucketStore
	config    ConfigStore

	redisClient *redis.Client
	cacheTTL    time.Duration
	cachePrefix string

	decisionTimeout time.Duration

	// logMu is the single-writer critical section for the bucket store.
	// Append and Reconfigure both hold it; see the non-overlap invariant
	// on AccessLogBucket.
	logMu sync.Mutex

	log *zap.SugaredLogger
}

// Stores bundles the persistence contracts for construction without a
// database, e.g. the in-memory implementations used by tests and samples.
type Stores struct {
	Cards     CardStore
	Employees EmployeeStore
	Companies CompanyStore
	Buildings BuildingStore
	Levels    AccessLevelStore
	Buckets   BucketStore
	Config    ConfigStore
}

// NewService initializes the service on top of Postgres via gorm, with an
// optional Redis client for the config store and permission cache.
func NewService(cfg Config) (*Service, error) {
	if cfg.DB == nil {
		return nil, fmt.Errorf("database is required")
	}

	if cfg.AutoMigrate {
		err := cfg.DB.AutoMigrate(
			&Building{}, &Company{}, &AccessLevel{},
			&Employee{}, &AccessCard{}, &AccessLogBucket{},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to auto-migrate: %w", err)
		}
	}

	g := &gormStore{db: cfg.DB}
	st := Stores{
		Cards:     g,
		Employees: g,
		Companies: g,
		Buildings: g,
		Levels:    g,
		Buckets:   g,
	}
	if cfg.RedisClient != nil {
		st.Config = &redisConfigStore{client: cfg.RedisClient, prefix: cfg.CachePrefix}
	} else {
		st.Config = NewMemoryConfigStore()
	}

	return NewServiceWithStores(st, cfg), nil
}

// NewServiceWithStores wires the service onto explicit store
// implementations. cfg.DB is ignored here.
func NewServiceWithStores(st Stores, cfg Config) *Service {
	if cfg.CachePrefix == "" {
		cfg.CachePrefix = "gatekeeper:"
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	if cfg.DecisionTimeout == 0 {
		cfg.DecisionTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if st.Config == nil {
		st.Config = NewMemoryConfigStore()
	}

	return &Service{
		cards:           st.Cards,
		employees:       st.Employees,
		companies:       st.Companies,
		buildings:       st.Buildings,
		levels:          st.Levels,
		buckets:         st.Buckets,
		config:          st.Config,
		redisClient:     cfg.RedisClient,
		cacheTTL:        cfg.CacheTTL,
		cachePrefix:     cfg.CachePrefix,
		decisionTimeout: cfg.DecisionTimeout,
		log:             cfg.Logger,
	}
}
