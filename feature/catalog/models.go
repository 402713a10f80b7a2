package catalog

import (
	"encoding/json"
	"time"

	"esim-catalog/core/reconcile"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Package is a provider data plan. Natural key: PackageID (the provider package code).
type Package struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	PackageID         string           `gorm:"column:package_id;size:64;uniqueIndex;not null" json:"package_id"`
	Name              string           `gorm:"size:255" json:"name"`
	Type              string           `gorm:"size:16" json:"type"`
	PlanType          int              `json:"plan_type"`
	Price             float64          `gorm:"type:decimal(12,4)" json:"price"`
	Amount            int64            `json:"amount"`
	Day               int              `json:"day"`
	IsUnlimited       bool             `json:"is_unlimited"`
	ShortInfo         string           `gorm:"type:text" json:"short_info"`
	IsFairUsagePolicy bool             `json:"is_fair_usage_policy"`
	FairUsagePolicy   string           `gorm:"type:text" json:"fair_usage_policy"`
	Data              string           `gorm:"size:32" json:"data"`
	NetPrice          float64          `gorm:"type:decimal(12,4)" json:"net_price"`
	Location          string           `gorm:"type:text" json:"location"`
	LocationCode      string           `gorm:"size:255" json:"location_code"`
	EsimProvider      string           `gorm:"size:32;index" json:"esim_provider"`
	IsActive          bool             `json:"is_active"`
	CountryIDs        reconcile.IDList `gorm:"column:country_ids;type:text" json:"country_ids"`
	RegionID          *uint            `gorm:"column:region_id" json:"region_id"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func (Package) TableName() string { return "esim_packages" }

func (p Package) Attributes() reconcile.Attrs {
	return reconcile.Attrs{
		"package_id":           p.PackageID,
		"name":                 p.Name,
		"type":                 p.Type,
		"plan_type":            p.PlanType,
		"price":                p.Price,
		"amount":               p.Amount,
		"day":                  p.Day,
		"is_unlimited":         p.IsUnlimited,
		"short_info":           p.ShortInfo,
		"is_fair_usage_policy": p.IsFairUsagePolicy,
		"fair_usage_policy":    p.FairUsagePolicy,
		"data":                 p.Data,
		"net_price":            p.NetPrice,
		"location":             p.Location,
		"location_code":        p.LocationCode,
		"esim_provider":        p.EsimProvider,
		"is_active":            p.IsActive,
		"country_ids":          p.CountryIDs.OrNil(),
		"region_id":            p.RegionID,
	}
}

// Country is reference data maintained outside the sync. It is only read.
type Country struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CountryCode string    `gorm:"size:8;uniqueIndex;not null" json:"country_code"`
	Name        string    `gorm:"size:120" json:"name"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Operator is a carrier. Natural key: Name, shared by every country and provider.
// EsimID is the storefront projection of the operator_packages join rows.
type Operator struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"size:191;uniqueIndex;not null" json:"name"`
	Type        string           `gorm:"size:16" json:"type"`
	IsPrepaid   bool             `json:"is_prepaid"`
	PlanType    string           `gorm:"size:16" json:"plan_type"`
	NetworkType string           `gorm:"size:64" json:"network_type"`
	EsimID      reconcile.IDList `gorm:"column:esim_id;type:text" json:"esim_id"`
	IsActive    bool             `json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (o Operator) Attributes() reconcile.Attrs {
	return reconcile.Attrs{
		"name":         o.Name,
		"type":         o.Type,
		"is_prepaid":   o.IsPrepaid,
		"plan_type":    o.PlanType,
		"network_type": o.NetworkType,
		"esim_id":      o.EsimID.OrNil(),
		"is_active":    o.IsActive,
	}
}

// Region groups packages by the provider's top-level location code.
type Region struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:255" json:"name"`
	Slug      string    `gorm:"size:255" json:"slug"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OperatorPackage is one operator to package membership.
type OperatorPackage struct {
	OperatorID uint `gorm:"primaryKey;autoIncrement:false"`
	PackageID  uint `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt  time.Time
}

// PackageCountry is one package to country coverage row.
type PackageCountry struct {
	PackageID uint `gorm:"primaryKey;autoIncrement:false"`
	CountryID uint `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

// SyncRun is the persisted history of one sync pass.
type SyncRun struct {
	ID         uint           `gorm:"primaryKey" json:"-"`
	RunID      string         `gorm:"size:36;uniqueIndex;not null" json:"run_id"`
	Trigger    string         `gorm:"size:16" json:"trigger"`
	Source     string         `gorm:"size:255" json:"source"`
	Status     string         `gorm:"size:16" json:"status"`
	StartedAt  time.Time      `gorm:"index" json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	Fetched    int            `json:"fetched"`
	Succeeded  int            `json:"succeeded"`
	Failed     int            `json:"failed"`
	Stale      int            `json:"stale"`
	Writes     int            `json:"writes"`
	Error      string         `gorm:"type:text" json:"error,omitempty"`
	Failures   datatypes.JSON `json:"failures,omitempty" swaggertype:"array,object"`
	CreatedAt  time.Time      `json:"-"`
	UpdatedAt  time.Time      `json:"-"`
}

func (SyncRun) TableName() string { return "catalog_sync_runs" }

// FailureList decodes the stored failures. Unreadable content yields nil.
func (r SyncRun) FailureList() []PackageFailure {
	if len(r.Failures) == 0 {
		return nil
	}
	var out []PackageFailure
	if err := json.Unmarshal(r.Failures, &out); err != nil {
		return nil
	}
	return out
}

// Models lists every table owned by the catalog, in dependency order.
func Models() []any {
	return []any{
		&Country{},
		&Region{},
		&Package{},
		&Operator{},
		&OperatorPackage{},
		&PackageCountry{},
		&SyncRun{},
	}
}

// AutoMigrate creates the catalog tables with GORM. MySQL deployments use the
// versioned migrations instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
