package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PackageDetail is a package with everything it references.
type PackageDetail struct {
	Package   Package    `json:"package"`
	Region    *Region    `json:"region,omitempty"`
	Countries []Country  `json:"countries"`
	Operators []Operator `json:"operators"`
}

// Service handles catalog operations.
type Service struct {
	db     *gorm.DB
	syncer *Syncer
	source Source
	logger *zap.Logger
}

// NewService creates a new catalog service. source is the catalog used by Sync.
func NewService(db *gorm.DB, syncer *Syncer, source Source, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:     db,
		syncer: syncer,
		source: source,
		logger: logger,
	}
}

// Sync runs one pass against the configured source.
func (s *Service) Sync(ctx context.Context, trigger string) (*Result, error) {
	return s.syncer.Run(ctx, RunOptions{Trigger: trigger, Source: s.source})
}

// Runs returns the latest sync runs.
func (s *Service) Runs(ctx context.Context, limit int) ([]SyncRun, error) {
	return ListRuns(ctx, s.db, limit)
}

// Package returns the package with the given provider code.
func (s *Service) Package(ctx context.Context, code string) (*PackageDetail, error) {
	return GetPackageDetail(ctx, s.db, code)
}

// GetPackageDetail loads a package with its region, countries and operators.
func GetPackageDetail(ctx context.Context, db *gorm.DB, code string) (*PackageDetail, error) {
	tx := db.WithContext(ctx)

	detail := PackageDetail{Countries: []Country{}, Operators: []Operator{}}
	if err := tx.Where("package_id = ?", code).Take(&detail.Package).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, code)
		}
		return nil, fmt.Errorf("failed to load package %s: %w", code, err)
	}

	if id := detail.Package.RegionID; id != nil {
		var region Region
		err := tx.Take(&region, *id).Error
		switch {
		case err == nil:
			detail.Region = &region
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to load region of package %s: %w", code, err)
		}
	}

	err := tx.Joins("JOIN package_countries ON package_countries.country_id = countries.id").
		Where("package_countries.package_id = ?", detail.Package.ID).
		Order("countries.country_code").
		Find(&detail.Countries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load countries of package %s: %w", code, err)
	}

	err = tx.Joins("JOIN operator_packages ON operator_packages.operator_id = operators.id").
		Where("operator_packages.package_id = ?", detail.Package.ID).
		Order("operators.name").
		Find(&detail.Operators).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load operators of package %s: %w", code, err)
	}

	return &detail, nil
}
