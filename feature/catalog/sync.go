package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"esim-catalog/core/lock"
	"esim-catalog/core/provider/esimaccess"
	"esim-catalog/core/reconcile"
	"esim-catalog/feature/catalog/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Run triggers.
const (
	TriggerCLI      = "cli"
	TriggerHTTP     = "http"
	TriggerSchedule = "schedule"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusPartial   = "partial"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Entity and relation names used in run tallies and metrics.
const (
	EntityPackage            = "package"
	EntityOperator           = "operator"
	EntityRegion             = "region"
	EntityPackageRelations   = "package_relations"
	RelationOperatorPackages = "operator_packages"
	RelationPackageCountries = "package_countries"
)

// RunOptions selects how a run is started.
type RunOptions struct {
	Trigger string
	Source  Source
}

// Result summarizes one sync run.
type Result struct {
	RunID      string           `json:"run_id"`
	Trigger    string           `json:"trigger"`
	Source     string           `json:"source"`
	Status     string           `json:"status"`
	Snapshot   string           `json:"snapshot,omitempty"`
	Fetched    int              `json:"fetched"`
	Succeeded  int              `json:"succeeded"`
	Failed     int              `json:"failed"`
	Stale      int              `json:"stale"`
	Writes     int              `json:"writes"`
	Failures   []PackageFailure `json:"failures,omitempty"`
	DurationMS int64            `json:"duration_ms"`
	Error      string           `json:"error,omitempty"`

	Tally *reconcile.Tally `json:"-"`
}

// Summary renders the processed count the way the CLI prints it.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d succeeded, %d failed", r.Succeeded, r.Failed)
}

// OK reports whether every fetched package was reconciled.
func (r *Result) OK() bool {
	return r.Status == StatusSucceeded
}

// Syncer reconciles provider catalogs into the store.
type Syncer struct {
	db       *gorm.DB
	locker   lock.Locker
	resolver *Resolver
	archive  *Archive
	metrics  *metrics.Metrics
	logger   *zap.Logger
	cfg      Config

	now   func() time.Time
	newID func() string
}

// NewSyncer creates a syncer. archive may be nil, in which case snapshots are not stored.
func NewSyncer(db *gorm.DB, locker lock.Locker, archive *Archive, m *metrics.Metrics, logger *zap.Logger, cfg Config) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		db:       db,
		locker:   locker,
		resolver: NewResolver(db, time.Duration(cfg.CountryCacheSeconds)*time.Second),
		archive:  archive,
		metrics:  m,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Resolver returns the country and region resolver of the syncer.
func (s *Syncer) Resolver() *Resolver {
	return s.resolver
}

// Run fetches the catalog from opts.Source and reconciles every package.
//
// Each package is written in its own transaction: a failing package is rolled
// back, recorded and skipped. The returned error is non-nil only when the run
// could not start, the fetch failed or the context was cancelled; in the last
// two cases a Result is returned alongside it.
func (s *Syncer) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("%w: no catalog source", ErrInvalidInput)
	}
	if opts.Trigger == "" {
		opts.Trigger = TriggerCLI
	}

	lease, err := s.locker.Acquire(ctx, s.cfg.LeaseName, s.cfg.LeaseTTL())
	if err != nil {
		if errors.Is(err, lock.ErrLeaseHeld) {
			return nil, fmt.Errorf("%w: %w", ErrSyncInProgress, err)
		}
		return nil, fmt.Errorf("failed to acquire sync lease: %w", err)
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("Failed to release sync lease", zap.String("lease", lease.Name()), zap.Error(err))
		}
	}()

	start := s.now()
	run, err := s.startRun(ctx, opts, start)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(
		zap.String("run_id", run.RunID),
		zap.String("trigger", run.Trigger),
		zap.String("source", run.Source),
	)
	log.Info("Catalog sync started")

	res := &Result{
		RunID:   run.RunID,
		Trigger: run.Trigger,
		Source:  run.Source,
		Tally:   reconcile.NewTally(),
	}

	runErr := s.execute(ctx, opts.Source, res, log)
	res.Status = statusOf(res, runErr)
	res.Writes = res.Tally.Writes()
	res.DurationMS = s.now().Sub(start).Milliseconds()
	if runErr != nil {
		res.Error = runErr.Error()
	}

	if err := s.finishRun(context.WithoutCancel(ctx), run, res); err != nil {
		log.Error("Failed to record sync run", zap.Error(err))
	}
	s.observe(res, start)

	fields := []zap.Field{
		zap.String("status", res.Status),
		zap.Int("fetched", res.Fetched),
		zap.Int("succeeded", res.Succeeded),
		zap.Int("failed", res.Failed),
		zap.Int("writes", res.Writes),
		zap.Int64("duration_ms", res.DurationMS),
	}
	switch res.Status {
	case StatusSucceeded:
		log.Info("Catalog sync finished", fields...)
	case StatusPartial, StatusCancelled:
		log.Warn("Catalog sync finished", fields...)
	default:
		log.Error("Catalog sync finished", append(fields, zap.Error(runErr))...)
	}

	return res, runErr
}

func (s *Syncer) execute(ctx context.Context, src Source, res *Result, log *zap.Logger) error {
	snapshot, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}
	res.Fetched = len(snapshot.Packages)
	log.Info("Catalog fetched", zap.Int("packages", res.Fetched))

	if snapshot.Archive && s.archive != nil && s.cfg.ArchiveSnapshots {
		key, err := s.archive.Store(ctx, res.RunID, snapshot.Raw)
		if err != nil {
			log.Warn("Failed to archive snapshot", zap.Error(err))
		} else {
			res.Snapshot = key
			log.Debug("Snapshot archived", zap.String("key", key))
		}
	}

	countries, err := s.resolver.Countries(ctx)
	if err != nil {
		return err
	}

	codes := make([]string, 0, len(snapshot.Packages))
	for _, p := range snapshot.Packages {
		if err := ctx.Err(); err != nil {
			return err
		}
		codes = append(codes, p.PackageCode)
		plog := log.With(zap.String("package_code", p.PackageCode))

		tally := reconcile.NewTally()
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return reconcilePackage(ctx, tx, p, countries, tally, plog)
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			failure := failureOf(err)
			if failure.Code == "" {
				failure.Code = p.PackageCode
			}
			res.Failed++
			res.Failures = append(res.Failures, failure)
			s.incrementPackage("failed")
			plog.Error("Package sync failed", zap.String("stage", failure.Stage), zap.Error(err))
			continue
		}

		res.Tally.Absorb(tally)
		res.Succeeded++
		s.incrementPackage("succeeded")
	}

	if s.cfg.StaleReport {
		stale, err := CountStale(ctx, s.db, codes)
		if err != nil {
			log.Warn("Failed to count stale packages", zap.Error(err))
		} else {
			res.Stale = stale
			if stale > 0 {
				log.Info("Stored packages missing from the catalog", zap.Int("stale_packages", stale))
			}
		}
	}
	return nil
}

// reconcilePackage writes one provider package and everything it references.
func reconcilePackage(ctx context.Context, tx *gorm.DB, p esimaccess.Package, countries CountryIndex, tally *reconcile.Tally, log *zap.Logger) error {
	attrs, err := PackageAttributes(p)
	if err != nil {
		return &PackageError{Code: p.PackageCode, Stage: StageValidate, Err: err}
	}

	key := reconcile.Attrs{"package_id": p.PackageCode}
	pkg, outcome, err := reconcile.Upsert[Package](ctx, tx, key, attrs)
	if err != nil {
		return &PackageError{Code: p.PackageCode, Stage: StagePackage, Err: err}
	}
	tally.Add(EntityPackage, outcome)
	log.Debug("Package reconciled", zap.String("outcome", string(outcome)))

	var countryIDs reconcile.IDList
	for _, loc := range p.LocationNetworkList {
		id, ok := countries.Resolve(loc.LocationCode)
		if !ok {
			log.Warn("Unknown country code", zap.String("location_code", loc.LocationCode))
		} else {
			countryIDs = reconcile.MergeIDs(countryIDs, id)
		}

		for _, op := range loc.OperatorList {
			if err := attachOperator(ctx, tx, pkg.ID, op, tally, log); err != nil {
				return &PackageError{Code: p.PackageCode, Stage: StageOperator, Err: err}
			}
		}
	}
	if countryIDs == nil {
		countryIDs = reconcile.IDList{}
	}

	if err := syncPackageCountries(ctx, tx, pkg.ID, countryIDs, tally); err != nil {
		return &PackageError{Code: p.PackageCode, Stage: StageCountry, Err: err}
	}

	region, outcome, err := ResolveRegion(ctx, tx, p.LocationCode, p.Location)
	if err != nil {
		return &PackageError{Code: p.PackageCode, Stage: StageRegion, Err: err}
	}
	var regionID *uint
	if region != nil {
		tally.Add(EntityRegion, outcome)
		regionID = &region.ID
	}

	patch := reconcile.Attrs{"country_ids": countryIDs, "region_id": regionID}
	_, outcome, err = reconcile.Upsert[Package](ctx, tx, key, patch)
	if err != nil {
		return &PackageError{Code: p.PackageCode, Stage: StagePatch, Err: err}
	}
	tally.Add(EntityPackageRelations, outcome)
	return nil
}

// attachOperator upserts the operator with the package added to its projection and
// links the two.
func attachOperator(ctx context.Context, tx *gorm.DB, packageID uint, op esimaccess.Operator, tally *reconcile.Tally, log *zap.Logger) error {
	key := reconcile.Attrs{"name": op.OperatorName}

	var existing Operator
	err := tx.WithContext(ctx).Where(map[string]any(key)).Take(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return &reconcile.WriteError{Table: "operators", Key: key, Op: "find", Err: err}
	}

	ids := reconcile.MergeIDs(existing.EsimID, packageID)
	network := MergeNetworkTypes(existing.NetworkType, op.NetworkType)
	row, outcome, err := reconcile.Upsert[Operator](ctx, tx, key, OperatorAttributes(network, ids))
	if err != nil {
		return err
	}
	tally.Add(EntityOperator, outcome)
	log.Debug("Operator reconciled", zap.String("operator", op.OperatorName), zap.String("outcome", string(outcome)))

	added, err := reconcile.Link(ctx, tx, &OperatorPackage{OperatorID: row.ID, PackageID: packageID})
	if err != nil {
		return err
	}
	if added {
		tally.AddLink(RelationOperatorPackages)
	}
	return nil
}

// syncPackageCountries makes the package_countries rows of a package match ids.
func syncPackageCountries(ctx context.Context, tx *gorm.DB, packageID uint, ids reconcile.IDList, tally *reconcile.Tally) error {
	for _, id := range ids {
		added, err := reconcile.Link(ctx, tx, &PackageCountry{PackageID: packageID, CountryID: id})
		if err != nil {
			return err
		}
		if added {
			tally.AddLink(RelationPackageCountries)
		}
	}

	q := tx.WithContext(ctx).Where("package_id = ?", packageID)
	if len(ids) > 0 {
		q = q.Where("country_id NOT IN ?", []uint(ids))
	}
	result := q.Delete(&PackageCountry{})
	if result.Error != nil {
		return &reconcile.WriteError{
			Table: "package_countries",
			Key:   reconcile.Attrs{"package_id": packageID},
			Op:    "unlink",
			Err:   result.Error,
		}
	}
	tally.AddUnlinks(RelationPackageCountries, int(result.RowsAffected))
	return nil
}

// CountStale counts stored provider packages whose code is not in codes.
func CountStale(ctx context.Context, db *gorm.DB, codes []string) (int, error) {
	q := db.WithContext(ctx).Model(&Package{}).Where("esim_provider = ?", ProviderName)
	if len(codes) > 0 {
		q = q.Where("package_id NOT IN ?", codes)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count stale packages: %w", err)
	}
	return int(n), nil
}

func statusOf(res *Result, runErr error) string {
	switch {
	case runErr != nil && (errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded)):
		return StatusCancelled
	case runErr != nil:
		return StatusFailed
	case res.Failed > 0:
		return StatusPartial
	default:
		return StatusSucceeded
	}
}

func (s *Syncer) incrementPackage(result string) {
	if s.metrics != nil {
		s.metrics.IncrementPackage(result)
	}
}

func (s *Syncer) observe(res *Result, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveRun(res.Status, start)
	for _, entity := range res.Tally.Entities() {
		for _, outcome := range []reconcile.Outcome{reconcile.OutcomeCreated, reconcile.OutcomeUpdated, reconcile.OutcomeUnchanged} {
			s.metrics.AddEntityOutcomes(entity, string(outcome), res.Tally.Count(entity, outcome))
		}
	}
}
