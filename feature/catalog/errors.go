package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a provider record the sync cannot use.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSyncInProgress is returned when another run holds the sync lease.
	ErrSyncInProgress = errors.New("catalog sync already in progress")
	// ErrPackageNotFound is returned by package lookups.
	ErrPackageNotFound = errors.New("package not found")
	// ErrNoSnapshot is returned when the archive holds no snapshot to replay.
	ErrNoSnapshot = errors.New("no archived snapshot")
)

// Stages of the per-package pipeline, reported with package failures.
const (
	StageValidate = "validate"
	StagePackage  = "package"
	StageCountry  = "country"
	StageOperator = "operator"
	StageRegion   = "region"
	StagePatch    = "patch"
)

// PackageError is a failure scoped to one package. The package is skipped and the
// run continues.
type PackageError struct {
	Code  string
	Stage string
	Err   error
}

func (e *PackageError) Error() string {
	return fmt.Sprintf("package %s failed at %s: %v", e.Code, e.Stage, e.Err)
}

func (e *PackageError) Unwrap() error {
	return e.Err
}

// PackageFailure is the persisted form of a PackageError.
type PackageFailure struct {
	Code  string `json:"code"`
	Stage string `json:"stage"`
	Error string `json:"error"`
}

func failureOf(err error) PackageFailure {
	var pe *PackageError
	if errors.As(err, &pe) {
		return PackageFailure{Code: pe.Code, Stage: pe.Stage, Error: pe.Err.Error()}
	}
	return PackageFailure{Error: err.Error()}
}
