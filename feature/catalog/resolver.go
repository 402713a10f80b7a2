package catalog

import (
	"context"
	"fmt"
	"time"

	"esim-catalog/core/reconcile"

	"gorm.io/gorm"
)

// CountryIndex maps country codes to ids.
type CountryIndex map[string]uint

// Resolve returns the id of the country with exactly this code.
func (ci CountryIndex) Resolve(code string) (uint, bool) {
	if code == "" {
		return 0, false
	}
	id, ok := ci[code]
	return id, ok && id > 0
}

// Resolver maps provider location codes to countries and regions.
type Resolver struct {
	countries *reconcile.Index[uint]
}

// NewResolver creates a resolver whose country index is reused for ttl.
func NewResolver(db *gorm.DB, ttl time.Duration) *Resolver {
	load := func(ctx context.Context) (map[string]uint, error) {
		var rows []Country
		if err := db.WithContext(ctx).Select("id", "country_code").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to load countries: %w", err)
		}
		out := make(map[string]uint, len(rows))
		for _, c := range rows {
			out[c.CountryCode] = c.ID
		}
		return out, nil
	}
	return &Resolver{countries: reconcile.NewIndex(ttl, load)}
}

// Countries returns the country index.
func (r *Resolver) Countries(ctx context.Context) (CountryIndex, error) {
	m, err := r.countries.Get(ctx)
	if err != nil {
		return nil, err
	}
	return CountryIndex(m), nil
}

// Invalidate forces the next Countries call to reload.
func (r *Resolver) Invalidate() {
	r.countries.Invalidate()
}

// ResolveRegion finds or creates the region for a package location code. Existing
// regions are never renamed. An empty code resolves to no region.
func ResolveRegion(ctx context.Context, tx *gorm.DB, code, name string) (*Region, reconcile.Outcome, error) {
	if code == "" {
		return nil, reconcile.OutcomeUnchanged, nil
	}
	return reconcile.FindOrCreate[Region](ctx, tx, reconcile.Attrs{"code": code}, RegionAttributes(name))
}
