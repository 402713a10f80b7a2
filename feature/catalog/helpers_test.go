package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"esim-catalog/core/database"
	"esim-catalog/core/lock"
	"esim-catalog/core/provider/esimaccess"
	"esim-catalog/feature/catalog/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// setupCatalogDB creates an in-memory SQLite DB with the catalog tables and two countries.
func setupCatalogDB(t *testing.T) *gorm.DB {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		Name:   fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, AutoMigrate(db))
	require.NoError(t, db.Create(&[]Country{
		{ID: 1, CountryCode: "US", Name: "United States"},
		{ID: 2, CountryCode: "CA", Name: "Canada"},
	}).Error)
	return db
}

func newTestSyncer(db *gorm.DB, locker lock.Locker) *Syncer {
	cfg := DefaultConfig()
	cfg.CountryCacheSeconds = 0
	s := NewSyncer(db, locker, nil, metrics.New(prometheus.NewRegistry()), zap.NewNop(), cfg)
	return s
}

// staticSource serves a fixed package list.
type staticSource struct {
	name     string
	packages []esimaccess.Package
	raw      []byte
	archive  bool
	err      error
	onFetch  func()
	fetches  atomic.Int32
}

func (s *staticSource) Name() string {
	if s.name == "" {
		return "api"
	}
	return s.name
}

func (s *staticSource) Fetch(ctx context.Context) (*Snapshot, error) {
	s.fetches.Add(1)
	if s.onFetch != nil {
		s.onFetch()
	}
	if s.err != nil {
		return nil, s.err
	}
	return &Snapshot{Packages: s.packages, Raw: s.raw, Archive: s.archive}, nil
}

func operator(name, network string) esimaccess.Operator {
	return esimaccess.Operator{OperatorName: name, NetworkType: network}
}

func location(code string, ops ...esimaccess.Operator) esimaccess.LocationNetwork {
	return esimaccess.LocationNetwork{LocationName: code, LocationCode: code, OperatorList: ops}
}

// pkg1 is a US package: 2 GB, retail 5.0000, unlimited daily data, one operator.
func pkg1() esimaccess.Package {
	return esimaccess.Package{
		PackageCode:         "PKG1",
		Name:                "United States 2GB 7Days",
		Price:               30000,
		RetailPrice:         50000,
		Volume:              2147483648,
		SmsStatus:           0,
		DataType:            esimaccess.DataTypeDailyUnlimited,
		Duration:            7,
		Description:         "US 2GB",
		Location:            "United States",
		LocationCode:        "US",
		LocationNetworkList: []esimaccess.LocationNetwork{location("US", operator("Acme Mobile", "5G"))},
	}
}

func packageWith(code string, locations ...esimaccess.LocationNetwork) esimaccess.Package {
	p := pkg1()
	p.PackageCode = code
	p.Name = code
	p.LocationNetworkList = locations
	return p
}

func loadPackage(t *testing.T, db *gorm.DB, code string) Package {
	var p Package
	require.NoError(t, db.Where("package_id = ?", code).Take(&p).Error)
	return p
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
