package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hcm/fhirsync/internal/domain/boundary"
	"github.com/hcm/fhirsync/internal/domain/facility"
	"github.com/hcm/fhirsync/internal/domain/product"
	"github.com/hcm/fhirsync/internal/domain/stock"
	"github.com/hcm/fhirsync/internal/platform/events"
	"github.com/hcm/fhirsync/internal/platform/fhir"
	"github.com/hcm/fhirsync/internal/platform/metric"
)

// Record type labels used in the consolidated response and in metrics.
const (
	LabelStock          = "stock"
	LabelReconciliation = "stockReconciliation"
	LabelFacility       = "facility"
	LabelProductVariant = "productVariant"
	LabelBoundary       = "boundary"
)

// ErrParse marks a payload that could not be read as a bundle at all.
var ErrParse = errors.New("unparseable bundle")

// ValidationError carries the issues of a structurally invalid bundle.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "bundle validation failed: " + strings.Join(e.Errors, "; ")
}

// Result is the consolidated outcome of one ingestion run. Metrics always
// carries all five record type labels, zeroed when the bundle held none of
// that type. Errors maps the labels whose reconciliation failed.
type Result struct {
	Metrics map[string]Metrics `json:"metrics"`
	Errors  map[string]string  `json:"errors,omitempty"`
}

// Pipeline ties the ingestion stages together: parse, validate, dispatch,
// then one reconciliation per record type.
type Pipeline struct {
	validator *fhir.Validator

	stocks    Target[*stock.Stock]
	recons    Target[*stock.Reconciliation]
	facs      Target[*facility.Facility]
	products  Target[*product.Variant]
	relations Target[*boundary.Relation]

	tenantID      string
	hierarchyType string

	reporter events.Reporter
	metrics  *metric.Metrics
	log      zerolog.Logger
}

// Targets bundles the five domain services the pipeline reconciles against.
type Targets struct {
	Stocks          Target[*stock.Stock]
	Reconciliations Target[*stock.Reconciliation]
	Facilities      Target[*facility.Facility]
	ProductVariants Target[*product.Variant]
	Boundaries      Target[*boundary.Relation]
}

func New(targets Targets, tenantID, hierarchyType string, reporter events.Reporter, metrics *metric.Metrics, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		validator:     fhir.NewValidator(),
		stocks:        targets.Stocks,
		recons:        targets.Reconciliations,
		facs:          targets.Facilities,
		products:      targets.ProductVariants,
		relations:     targets.Boundaries,
		tenantID:      tenantID,
		hierarchyType: hierarchyType,
		reporter:      reporter,
		metrics:       metrics,
		log:           log.With().Str("component", "pipeline").Logger(),
	}
}

// Validate runs only the structural check, for the dry-run endpoint.
func (p *Pipeline) Validate(raw []byte) *fhir.ValidationResult {
	return p.validator.ValidateBundle(raw)
}

// Run ingests one bundle. A parse failure returns ErrParse and a structural
// failure returns a ValidationError; both are reported before returning.
// Reconciliation failures are isolated per record type: the run completes
// and the failed labels surface in Result.Errors.
func (p *Pipeline) Run(ctx context.Context, raw []byte) (*Result, error) {
	p.metrics.BundlesReceived.Inc()
	start := time.Now()
	defer func() {
		p.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	}()

	doc, err := fhir.ParseBundle(raw)
	if err != nil {
		p.metrics.BundlesRejected.Inc()
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if vr := p.validator.ValidateBundle(raw); !vr.Valid {
		errs := vr.Errors()
		p.reporter.ReportBundle(doc.ID, raw, errs)
		p.metrics.BundlesRejected.Inc()
		return nil, &ValidationError{Errors: errs}
	}

	maps, failures := Dispatch(doc, p.tenantID, p.hierarchyType, p.log)
	for _, f := range failures {
		p.reporter.ReportEntry(f)
		label := f.ResourceType
		if label == "" {
			label = "unknown"
		}
		p.metrics.EntryFailures.WithLabelValues(label).Inc()
	}
	p.observeDispatched(maps)

	boundary.ResolveParents(maps.Boundaries)

	result := &Result{
		Metrics: make(map[string]Metrics, 5),
		Errors:  make(map[string]string),
	}
	result.Metrics[LabelStock] = reconcileInto(p, ctx, LabelStock, maps.Stocks, p.stocks, result)
	result.Metrics[LabelReconciliation] = reconcileInto(p, ctx, LabelReconciliation, maps.Reconciliations, p.recons, result)
	result.Metrics[LabelFacility] = reconcileInto(p, ctx, LabelFacility, maps.Facilities, p.facs, result)
	result.Metrics[LabelProductVariant] = reconcileInto(p, ctx, LabelProductVariant, maps.ProductVariants, p.products, result)
	result.Metrics[LabelBoundary] = reconcileInto(p, ctx, LabelBoundary, rekeyBoundaries(maps.Boundaries), p.relations, result)

	if len(result.Errors) == 0 {
		result.Errors = nil
	}

	p.log.Info().
		Str("bundle_id", doc.ID).
		Int("entries", len(doc.Entry)).
		Int("entry_failures", len(failures)).
		Dur("elapsed", time.Since(start)).
		Msg("bundle processed")
	return result, nil
}

// reconcileInto runs one record type and folds the outcome into the result.
// Errors do not stop the remaining types.
func reconcileInto[T any](p *Pipeline, ctx context.Context, label string, entities map[string]T, target Target[T], result *Result) Metrics {
	m, err := Reconcile(ctx, entities, target)
	if err != nil {
		p.log.Error().Err(err).Str("type", label).Msg("reconciliation failed")
		p.metrics.ReconcileErrors.WithLabelValues(label).Inc()
		result.Errors[label] = err.Error()
	}
	p.metrics.RecordsSynced.WithLabelValues(label, "new").Add(float64(len(m.NewIDs)))
	p.metrics.RecordsSynced.WithLabelValues(label, "existing").Add(float64(len(m.ExistingIDs)))
	return m
}

func (p *Pipeline) observeDispatched(maps *EntityMaps) {
	p.metrics.EntriesDispatched.WithLabelValues(LabelStock).Add(float64(len(maps.Stocks)))
	p.metrics.EntriesDispatched.WithLabelValues(LabelReconciliation).Add(float64(len(maps.Reconciliations)))
	p.metrics.EntriesDispatched.WithLabelValues(LabelFacility).Add(float64(len(maps.Facilities)))
	p.metrics.EntriesDispatched.WithLabelValues(LabelProductVariant).Add(float64(len(maps.ProductVariants)))
	p.metrics.EntriesDispatched.WithLabelValues(LabelBoundary).Add(float64(len(maps.Boundaries)))
}

// rekeyBoundaries switches the batch from name keys, needed for parent
// resolution, to code keys, which are what the boundary service checks.
func rekeyBoundaries(byName map[string]*boundary.Relation) map[string]*boundary.Relation {
	byCode := make(map[string]*boundary.Relation, len(byName))
	for _, rel := range byName {
		byCode[rel.Code] = rel
	}
	return byCode
}
