package catalog

import (
	"fmt"
	"sort"
	"strings"

	"esim-catalog/core/provider/esimaccess"
	"esim-catalog/core/reconcile"
)

const (
	// ProviderName tags every package written by this sync.
	ProviderName = "esimaccess"

	priceScale = 10000

	planTypeData    = 1
	planTypeDataSMS = 2
)

// PackageAttributes derives the stored package attributes from a provider record.
// The country set and region are attached later by the patch step.
func PackageAttributes(p esimaccess.Package) (reconcile.Attrs, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	data, err := FormatVolume(p.Volume)
	if err != nil {
		return nil, err
	}

	planType := planTypeData
	if p.SmsStatus == esimaccess.SmsIncluded {
		planType = planTypeDataSMS
	}

	return reconcile.Attrs{
		"name":                 p.Name,
		"type":                 "sim",
		"plan_type":            planType,
		"price":                float64(p.RetailPrice) / priceScale,
		"amount":               p.RetailPrice,
		"day":                  p.Duration,
		"is_unlimited":         p.DataType == esimaccess.DataTypeDailyUnlimited,
		"short_info":           p.Description,
		"is_fair_usage_policy": strings.TrimSpace(p.FupPolicy) != "",
		"fair_usage_policy":    p.FupPolicy,
		"data":                 data,
		"net_price":            float64(p.Price) / priceScale,
		"location":             p.Location,
		"location_code":        p.LocationCode,
		"esim_provider":        ProviderName,
		"is_active":            true,
	}, nil
}

// OperatorAttributes returns the stored attributes of an operator owning packages.
// networkType is the merged label, see MergeNetworkTypes.
func OperatorAttributes(networkType string, packages reconcile.IDList) reconcile.Attrs {
	return reconcile.Attrs{
		"type":         "local",
		"is_prepaid":   false,
		"plan_type":    "data",
		"network_type": networkType,
		"esim_id":      packages,
		"is_active":    true,
	}
}

// MergeNetworkTypes adds label to the stored network types of an operator.
// The result is the sorted, de-duplicated set joined with "/" ("4G/5G"), so an
// operator listed under packages with different network types settles on one value.
func MergeNetworkTypes(stored, label string) string {
	seen := make(map[string]struct{})
	var types []string
	for _, part := range strings.Split(stored+"/"+label, "/") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		types = append(types, part)
	}
	sort.Strings(types)
	return strings.Join(types, "/")
}

// RegionAttributes returns the attributes of a region created from a package location.
func RegionAttributes(name string) reconcile.Attrs {
	return reconcile.Attrs{
		"name":      name,
		"slug":      strings.ToLower(name),
		"is_active": true,
	}
}
