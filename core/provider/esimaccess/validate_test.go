package esimaccess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackage_Validate(t *testing.T) {
	valid := func() Package {
		return Package{
			PackageCode: "PKG1",
			Volume:      1024,
			Duration:    7,
			RetailPrice: 50000,
			LocationNetworkList: []LocationNetwork{
				{LocationCode: "US", OperatorList: []Operator{{OperatorName: "Acme Mobile"}}},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(p *Package)
		wantErr string
	}{
		{"Valid", func(p *Package) {}, ""},
		{"Zero volume", func(p *Package) { p.Volume = 0 }, ""},
		{"Missing code", func(p *Package) { p.PackageCode = "" }, "PackageCode failed required"},
		{"Negative volume", func(p *Package) { p.Volume = -1 }, "Volume failed gte"},
		{"Negative duration", func(p *Package) { p.Duration = -3 }, "Duration failed gte"},
		{"Unnamed operator", func(p *Package) { p.LocationNetworkList[0].OperatorList[0].OperatorName = "" }, "OperatorName failed required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
