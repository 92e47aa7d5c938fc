// Package integration runs the proposals service against a real PostgreSQL
// database started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/erp/proposals/internal/infrastructure/migration"
	"github.com/erp/proposals/migrations"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// Shared container for all tests in the package
	sharedContainer    testcontainers.Container
	sharedContainerMu  sync.Mutex
	sharedContainerDSN string
)

// TestDB is a migrated database connection
type TestDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	DSN   string
	t     *testing.T
}

// NewSharedTestDB connects to the package's shared PostgreSQL container,
// starting and migrating it on first use. Tests must not depend on rows
// created by other tests; every helper below inserts fresh identifiers.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer == nil {
		ctx := context.Background()
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("proposals_test"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		require.NoError(t, err, "Failed to start PostgreSQL container")

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err, "Failed to get connection string")

		sharedContainer = container
		sharedContainerDSN = dsn

		_, sqlDB := connectToDatabase(t, dsn)
		runMigrations(t, sqlDB)
		_ = sqlDB.Close()
	}

	db, sqlDB := connectToDatabase(t, sharedContainerDSN)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return &TestDB{DB: db, SqlDB: sqlDB, DSN: sharedContainerDSN, t: t}
}

// CleanupSharedContainer terminates the shared container. Call it from TestMain.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = sharedContainer.Terminate(ctx)
		sharedContainer = nil
		sharedContainerDSN = ""
	}
}

func connectToDatabase(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err, "Failed to get underlying SQL DB")
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, sqlDB
}

// runMigrations applies the embedded schema through the same migrator the
// migrate command uses
func runMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")

	version, dirty, err := m.Version()
	require.NoError(t, err)
	require.False(t, dirty, "schema left dirty at version %d", version)
}

func (tdb *TestDB) exec(query string, args ...any) {
	tdb.t.Helper()
	require.NoError(tdb.t, tdb.DB.Exec(query, args...).Error, query)
}

// CreateCustomer inserts a customer. An empty erpTrdr leaves it unlinked.
func (tdb *TestDB) CreateCustomer(name, erpTrdr string) uuid.UUID {
	tdb.t.Helper()
	id := uuid.New()
	var trdr any
	if erpTrdr != "" {
		trdr = erpTrdr
	}
	tdb.exec(`INSERT INTO customers (id, name, erp_trdr) VALUES (?, ?, ?)`, id, name, trdr)
	return id
}

// CreateBrand inserts a brand
func (tdb *TestDB) CreateBrand(name string) uuid.UUID {
	tdb.t.Helper()
	id := uuid.New()
	tdb.exec(`INSERT INTO brands (id, name) VALUES (?, ?)`, id, name)
	return id
}

// ProductSeed describes a product to insert
type ProductSeed struct {
	Name      string
	ERPCode   string
	IsService bool
	Cost      *decimal.Decimal
	BrandID   *uuid.UUID
}

// CreateProduct inserts a product
func (tdb *TestDB) CreateProduct(seed ProductSeed) uuid.UUID {
	tdb.t.Helper()
	id := uuid.New()
	var erpCode any
	if seed.ERPCode != "" {
		erpCode = seed.ERPCode
	}
	tdb.exec(`INSERT INTO products (id, name, erp_code, is_service, cost, brand_id) VALUES (?, ?, ?, ?, ?, ?)`,
		id, seed.Name, erpCode, seed.IsService, seed.Cost, seed.BrandID)
	return id
}

// CreateLead inserts a qualified lead for customerID
func (tdb *TestDB) CreateLead(customerID uuid.UUID, title string) uuid.UUID {
	tdb.t.Helper()
	id := uuid.New()
	tdb.exec(`INSERT INTO leads (id, title, customer_id, status, stage) VALUES (?, ?, ?, 'QUALIFIED', 'PROPOSAL')`,
		id, title, customerID)
	return id
}

// CreateRFP inserts an RFP, optionally linked to a lead
func (tdb *TestDB) CreateRFP(customerID uuid.UUID, leadID *uuid.UUID) uuid.UUID {
	tdb.t.Helper()
	id := uuid.New()
	tdb.exec(`INSERT INTO rfps (id, title, customer_id, lead_id) VALUES (?, ?, ?, ?)`,
		id, fmt.Sprintf("RFP %s", id.String()[:8]), customerID, leadID)
	return id
}

// CreateSiteSurvey inserts a site survey, optionally linked to a lead and an RFP
func (tdb *TestDB) CreateSiteSurvey(customerID uuid.UUID, leadID, rfpID *uuid.UUID) uuid.UUID {
	tdb.t.Helper()
	id := uuid.New()
	tdb.exec(`INSERT INTO site_surveys (id, title, customer_id, lead_id, rfp_id) VALUES (?, ?, ?, ?, ?)`,
		id, fmt.Sprintf("Survey %s", id.String()[:8]), customerID, leadID, rfpID)
	return id
}

// LeadStatus returns the stored status of a lead
func (tdb *TestDB) LeadStatus(leadID uuid.UUID) string {
	tdb.t.Helper()
	var status string
	require.NoError(tdb.t, tdb.DB.Raw(`SELECT status FROM leads WHERE id = ?`, leadID).Scan(&status).Error)
	return status
}

// Count returns the number of rows in table matching where
func (tdb *TestDB) Count(table, where string, args ...any) int64 {
	tdb.t.Helper()
	var n int64
	require.NoError(tdb.t, tdb.DB.Table(table).Where(where, args...).Count(&n).Error)
	return n
}
