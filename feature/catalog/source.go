package catalog

import (
	"context"

	"esim-catalog/core/provider/esimaccess"
)

// Snapshot is one fetched catalog.
type Snapshot struct {
	Packages []esimaccess.Package
	// Raw is the provider response body.
	Raw []byte
	// Archive reports whether the snapshot should be stored after the fetch.
	Archive bool
}

// Source produces the catalog a run reconciles.
type Source interface {
	// Name identifies the source in the run history.
	Name() string
	Fetch(ctx context.Context) (*Snapshot, error)
}

// PackageLister is the part of the provider client used by APISource.
type PackageLister interface {
	ListPackages(ctx context.Context, q esimaccess.Query) (*esimaccess.PackageList, error)
}

// APISource fetches the live catalog.
type APISource struct {
	client PackageLister
	query  esimaccess.Query
}

// NewAPISource creates a source for the given location filter.
func NewAPISource(client PackageLister, locationCode string) *APISource {
	return &APISource{client: client, query: esimaccess.Query{LocationCode: locationCode}}
}

func (s *APISource) Name() string { return "api" }

func (s *APISource) Fetch(ctx context.Context) (*Snapshot, error) {
	list, err := s.client.ListPackages(ctx, s.query)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Packages: list.Packages, Raw: list.Raw, Archive: true}, nil
}
