package catalog

import (
	"context"
	"testing"

	"esim-catalog/core/provider/esimaccess"
	"esim-catalog/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageAttributes(t *testing.T) {
	attrs, err := PackageAttributes(pkg1())
	require.NoError(t, err)

	assert.Equal(t, "United States 2GB 7Days", attrs["name"])
	assert.Equal(t, "2 GB", attrs["data"])
	assert.Equal(t, 1, attrs["plan_type"])
	assert.InDelta(t, 5.0, attrs["price"], 1e-9)
	assert.Equal(t, int64(50000), attrs["amount"])
	assert.InDelta(t, 3.0, attrs["net_price"], 1e-9)
	assert.Equal(t, true, attrs["is_unlimited"])
	assert.Equal(t, false, attrs["is_fair_usage_policy"])
	assert.Equal(t, 7, attrs["day"])
	assert.Equal(t, "US", attrs["location_code"])
	assert.Equal(t, ProviderName, attrs["esim_provider"])
	assert.NotContains(t, attrs, "country_ids")
	assert.NotContains(t, attrs, "region_id")
	assert.NotContains(t, attrs, "prices")
}

func TestPackageAttributes_Flags(t *testing.T) {
	p := pkg1()
	p.SmsStatus = esimaccess.SmsIncluded
	p.DataType = 1
	p.FupPolicy = "  512 Kbps after 2 GB "

	attrs, err := PackageAttributes(p)
	require.NoError(t, err)
	assert.Equal(t, 2, attrs["plan_type"])
	assert.Equal(t, false, attrs["is_unlimited"])
	assert.Equal(t, true, attrs["is_fair_usage_policy"])

	p.FupPolicy = "   "
	attrs, err = PackageAttributes(p)
	require.NoError(t, err)
	assert.Equal(t, false, attrs["is_fair_usage_policy"])
}

func TestPackageAttributes_Invalid(t *testing.T) {
	p := pkg1()
	p.Duration = -3
	_, err := PackageAttributes(p)
	assert.ErrorIs(t, err, ErrInvalidInput)

	p = pkg1()
	p.LocationNetworkList = []esimaccess.LocationNetwork{location("US", operator("", "5G"))}
	_, err = PackageAttributes(p)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOperatorAttributes(t *testing.T) {
	attrs := OperatorAttributes("LTE", reconcile.IDList{4, 9})
	assert.Equal(t, "local", attrs["type"])
	assert.Equal(t, false, attrs["is_prepaid"])
	assert.Equal(t, "data", attrs["plan_type"])
	assert.Equal(t, "LTE", attrs["network_type"])
	assert.Equal(t, reconcile.IDList{4, 9}, attrs["esim_id"])
	assert.Equal(t, true, attrs["is_active"])
	assert.NotContains(t, attrs, "name")
}

func TestMergeNetworkTypes(t *testing.T) {
	tests := []struct {
		stored, label, want string
	}{
		{"", "5G", "5G"},
		{"5G", "5G", "5G"},
		{"5G", "4G", "4G/5G"},
		{"4G/5G", "5G", "4G/5G"},
		{"4G/5G", "LTE", "4G/5G/LTE"},
		{"5G", "", "5G"},
		{"", "", ""},
		{"5G", " 4G / 5G ", "4G/5G"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MergeNetworkTypes(tt.stored, tt.label), "%q + %q", tt.stored, tt.label)
	}
}

func TestCountryIndex_Resolve(t *testing.T) {
	idx := CountryIndex{"US": 1, "CA": 2, "XX": 0}

	id, ok := idx.Resolve("US")
	assert.True(t, ok)
	assert.Equal(t, uint(1), id)

	_, ok = idx.Resolve("us")
	assert.False(t, ok, "codes match exactly")
	_, ok = idx.Resolve("")
	assert.False(t, ok)
	_, ok = idx.Resolve("XX")
	assert.False(t, ok)
}

func TestResolver_CachesCountries(t *testing.T) {
	db := setupCatalogDB(t)
	r := NewResolver(db, 0)

	idx, err := r.Countries(context.Background())
	require.NoError(t, err)
	assert.Len(t, idx, 2)

	require.NoError(t, db.Create(&Country{ID: 3, CountryCode: "MX", Name: "Mexico"}).Error)
	idx, err = r.Countries(context.Background())
	require.NoError(t, err)
	assert.Len(t, idx, 3, "a zero ttl reloads every call")
}

func TestResolveRegion_CreateOnly(t *testing.T) {
	db := setupCatalogDB(t)
	ctx := context.Background()

	region, outcome, err := ResolveRegion(ctx, db, "EU-42", "Europe (42 areas)")
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeCreated, outcome)
	assert.Equal(t, "europe (42 areas)", region.Slug)

	again, outcome, err := ResolveRegion(ctx, db, "EU-42", "Europe Renamed")
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeUnchanged, outcome)
	assert.Equal(t, region.ID, again.ID)
	assert.Equal(t, "Europe (42 areas)", again.Name)

	none, _, err := ResolveRegion(ctx, db, "", "Nowhere")
	require.NoError(t, err)
	assert.Nil(t, none)
}
