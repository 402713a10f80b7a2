package catalog

import (
	"context"
	"fmt"
	"sort"

	"esim-catalog/core/database"
	"esim-catalog/core/reconcile"

	"gorm.io/gorm"
)

// Drift entities.
const (
	DriftOperatorPackages = "operator_packages"
	DriftPackageCountries = "package_countries"
)

// IntegrityReport is the result of CheckIntegrity.
type IntegrityReport struct {
	Schema SchemaReport `json:"schema"`
	Drift  []Drift      `json:"drift"`
	Fixed  int          `json:"fixed"`
}

// OK reports whether the schema matched and no drift remains.
func (r *IntegrityReport) OK() bool {
	return r.Schema.Matched && len(r.Drift) == r.Fixed
}

// SchemaReport lists the model columns missing from the live schema.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors,omitempty"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

// Drift is a serialized id projection that disagrees with its join rows.
type Drift struct {
	Relation string           `json:"relation"`
	OwnerID  uint             `json:"owner_id"`
	Owner    string           `json:"owner"`
	Stored   reconcile.IDList `json:"stored"`
	Joined   reconcile.IDList `json:"joined"`
}

// Union is the id set both sides converge on when the drift is fixed.
func (d Drift) Union() reconcile.IDList {
	return reconcile.MergeIDs(d.Stored, d.Joined...)
}

// CheckIntegrity inspects the schema and the id projections. With fix, every drift
// is repaired.
func CheckIntegrity(ctx context.Context, db *gorm.DB, fix bool) (*IntegrityReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &IntegrityReport{Schema: CheckSchema(db), Drift: []Drift{}}
	if !report.Schema.Matched {
		return report, nil
	}

	drift, err := FindDrift(ctx, db)
	if err != nil {
		return nil, err
	}
	report.Drift = drift

	if fix && len(drift) > 0 {
		fixed, err := FixDrift(ctx, db, drift)
		report.Fixed = fixed
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// CheckSchema verifies that every column of the catalog models exists.
func CheckSchema(db *gorm.DB) SchemaReport {
	report := SchemaReport{Matched: true, Tables: make(map[string]TableReport)}

	for _, model := range Models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to parse model %T: %v", model, err))
			report.Matched = false
			continue
		}
		table := stmt.Schema.Table

		missing, err := database.MissingColumns(db, table, stmt.Schema.DBNames)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}

		tbl := TableReport{MissingColumns: []string{}, Status: "ok"}
		if len(missing) > 0 {
			tbl.MissingColumns = missing
			tbl.Status = "error"
			report.Matched = false
		}
		report.Tables[table] = tbl
	}
	return report
}

// FindDrift compares operators.esim_id with operator_packages and
// esim_packages.country_ids with package_countries, as sets.
func FindDrift(ctx context.Context, db *gorm.DB) ([]Drift, error) {
	tx := db.WithContext(ctx)
	out := []Drift{}

	var operators []Operator
	if err := tx.Select("id", "name", "esim_id").Order("id").Find(&operators).Error; err != nil {
		return nil, fmt.Errorf("failed to load operators: %w", err)
	}
	var opLinks []OperatorPackage
	if err := tx.Select("operator_id", "package_id").Find(&opLinks).Error; err != nil {
		return nil, fmt.Errorf("failed to load operator packages: %w", err)
	}
	joined := make(map[uint]reconcile.IDList)
	for _, l := range opLinks {
		joined[l.OperatorID] = append(joined[l.OperatorID], l.PackageID)
	}
	for _, op := range operators {
		if !sameSet(op.EsimID, joined[op.ID]) {
			out = append(out, Drift{
				Relation: DriftOperatorPackages,
				OwnerID:  op.ID,
				Owner:    op.Name,
				Stored:   reconcile.MergeIDs(nil, op.EsimID...),
				Joined:   sortedIDs(joined[op.ID]),
			})
		}
	}

	var packages []Package
	if err := tx.Select("id", "package_id", "country_ids").Order("id").Find(&packages).Error; err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	var countryLinks []PackageCountry
	if err := tx.Select("package_id", "country_id").Find(&countryLinks).Error; err != nil {
		return nil, fmt.Errorf("failed to load package countries: %w", err)
	}
	joined = make(map[uint]reconcile.IDList)
	for _, l := range countryLinks {
		joined[l.PackageID] = append(joined[l.PackageID], l.CountryID)
	}
	for _, p := range packages {
		if !sameSet(p.CountryIDs, joined[p.ID]) {
			out = append(out, Drift{
				Relation: DriftPackageCountries,
				OwnerID:  p.ID,
				Owner:    p.PackageID,
				Stored:   reconcile.MergeIDs(nil, p.CountryIDs...),
				Joined:   sortedIDs(joined[p.ID]),
			})
		}
	}

	return out, nil
}

// FixDrift rewrites each projection to the union of both sides and inserts the
// join rows missing for ids that still reference an existing row. Each drift is
// fixed in its own transaction. It returns how many drifts were fixed.
func FixDrift(ctx context.Context, db *gorm.DB, drift []Drift) (int, error) {
	fixed := 0
	for _, d := range drift {
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fixOne(ctx, tx, d)
		})
		if err != nil {
			return fixed, fmt.Errorf("failed to fix %s of %s: %w", d.Relation, d.Owner, err)
		}
		fixed++
	}
	return fixed, nil
}

func fixOne(ctx context.Context, tx *gorm.DB, d Drift) error {
	union := d.Union()
	missing := make([]uint, 0, len(union))
	for _, id := range union {
		if !d.Joined.Contains(id) {
			missing = append(missing, id)
		}
	}

	var (
		owner      any
		column     string
		referenced any
	)
	switch d.Relation {
	case DriftOperatorPackages:
		owner, column, referenced = &Operator{}, "esim_id", &Package{}
	case DriftPackageCountries:
		owner, column, referenced = &Package{}, "country_ids", &Country{}
	default:
		return fmt.Errorf("unknown relation %s", d.Relation)
	}

	if !sameSet(d.Stored, union) {
		if err := tx.WithContext(ctx).Model(owner).Where("id = ?", d.OwnerID).Update(column, union).Error; err != nil {
			return err
		}
	}

	if len(missing) == 0 {
		return nil
	}
	var existing []uint
	if err := tx.WithContext(ctx).Model(referenced).Where("id IN ?", missing).Pluck("id", &existing).Error; err != nil {
		return err
	}
	for _, id := range existing {
		var row any
		if d.Relation == DriftOperatorPackages {
			row = &OperatorPackage{OperatorID: d.OwnerID, PackageID: id}
		} else {
			row = &PackageCountry{PackageID: d.OwnerID, CountryID: id}
		}
		if _, err := reconcile.Link(ctx, tx, row); err != nil {
			return err
		}
	}
	return nil
}

func sameSet(a, b reconcile.IDList) bool {
	x := reconcile.MergeIDs(nil, a...)
	y := reconcile.MergeIDs(nil, b...)
	if len(x) != len(y) {
		return false
	}
	for _, id := range x {
		if !y.Contains(id) {
			return false
		}
	}
	return true
}

func sortedIDs(ids reconcile.IDList) reconcile.IDList {
	out := reconcile.MergeIDs(nil, ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
