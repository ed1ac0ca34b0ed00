package compare

import (
	"errors"
	"log/slog"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/paveg/relcmp/internal/config"
	cmperrors "github.com/paveg/relcmp/internal/errors"
	"github.com/paveg/relcmp/internal/monitoring"
	"github.com/paveg/relcmp/internal/parallel"
	"github.com/paveg/relcmp/internal/series"
	"github.com/paveg/relcmp/internal/validation"
)

// Dispatcher evaluates comparisons. It holds no per-call state and is safe
// for concurrent use.
type Dispatcher struct {
	mem       memory.Allocator
	cfg       config.Config
	pool      *parallel.WorkerPool
	ownsPool  bool
	metrics   *monitoring.Metrics
	collector *monitoring.MetricsCollector
	logger    *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithAllocator sets the allocator used for output masks.
func WithAllocator(mem memory.Allocator) Option {
	return func(d *Dispatcher) { d.mem = mem }
}

// WithConfig replaces the global configuration. Zero fields take defaults.
func WithConfig(cfg config.Config) Option {
	return func(d *Dispatcher) { d.cfg = cfg.WithDefaults() }
}

// WithWorkerPool shares an existing pool. The dispatcher will not close it.
func WithWorkerPool(pool *parallel.WorkerPool) Option {
	return func(d *Dispatcher) { d.pool = pool }
}

// WithMetrics reports every comparison to Prometheus.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithCollector records every successfully planned comparison in c.
func WithCollector(c *monitoring.MetricsCollector) Option {
	return func(d *Dispatcher) { d.collector = c }
}

// WithLogger sets the logger for dispatch decisions. Only Debug is used.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// NewDispatcher creates a dispatcher from the global configuration and opts.
func NewDispatcher(opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		cfg: config.GetGlobalConfig(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.cfg.Validate(); err != nil {
		return nil, cmperrors.NewInvalidInputError("dispatcher", err.Error())
	}
	if d.mem == nil {
		d.mem = memory.NewGoAllocator()
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	if d.pool == nil {
		d.pool = parallel.NewWorkerPool(d.cfg.Workers())
		d.ownsPool = true
	}
	if d.collector == nil && d.cfg.MetricsCollection {
		d.collector = monitoring.NewMetricsCollector(true)
	}
	return d, nil
}

// Collector returns the in-process metrics collector, or nil.
func (d *Dispatcher) Collector() *monitoring.MetricsCollector {
	return d.collector
}

// Close releases the worker pool if the dispatcher created it.
func (d *Dispatcher) Close() {
	if d.ownsPool {
		d.pool.Close()
	}
}

// Equal compares left == right.
func (d *Dispatcher) Equal(left *series.Series, right series.Operand) (*series.Series, error) {
	return d.Compare(Equal, left, right)
}

// NotEqual compares left != right.
func (d *Dispatcher) NotEqual(left *series.Series, right series.Operand) (*series.Series, error) {
	return d.Compare(NotEqual, left, right)
}

// GreaterThan compares left > right.
func (d *Dispatcher) GreaterThan(left *series.Series, right series.Operand) (*series.Series, error) {
	return d.Compare(GreaterThan, left, right)
}

// GreaterOrEqual compares left >= right.
func (d *Dispatcher) GreaterOrEqual(left *series.Series, right series.Operand) (*series.Series, error) {
	return d.Compare(GreaterOrEqual, left, right)
}

// LessThan compares left < right.
func (d *Dispatcher) LessThan(left *series.Series, right series.Operand) (*series.Series, error) {
	return d.Compare(LessThan, left, right)
}

// LessOrEqual compares left <= right.
func (d *Dispatcher) LessOrEqual(left *series.Series, right series.Operand) (*series.Series, error) {
	return d.Compare(LessOrEqual, left, right)
}

// CompareScalarLeft evaluates "scalar kind right". The mask is named after right.
func (d *Dispatcher) CompareScalarLeft(kind Kind, scalar series.Scalar, right *series.Series) (*series.Series, error) {
	return d.Compare(kind.Flip(), right, scalar)
}

// Compare evaluates kind between left and right, which is a *series.Series
// of the same length or a series.Scalar. The result is a new Boolean series
// named after left that the caller must Release. All validation happens
// before any row is read.
func (d *Dispatcher) Compare(kind Kind, left *series.Series, right series.Operand) (*series.Series, error) {
	start := time.Now()

	p, err := d.plan(kind, left, right)
	var result *series.Series
	if err == nil {
		err = d.collector.RecordOperation(p.op, p.rows, p.parallel(), func() error {
			var execErr error
			result, execErr = d.execute(p)
			return execErr
		})
		p.release()
	}

	d.metrics.Observe(kind.String(), status(err), p.rows, p.parallel(), time.Since(start))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// plan is a validated comparison ready to scan.
type plan struct {
	op       string
	kind     Kind
	dom      domain
	name     string
	rows     int
	left     arrow.Array
	leftTyp  series.ElementType
	right    arrow.Array // nil when comparing against a scalar
	rightTyp series.ElementType
	scalar   series.Scalar
	ranges   []parallel.Range
}

func (p *plan) parallel() bool {
	return len(p.ranges) > 1
}

func (p *plan) release() {
	if p.left != nil {
		p.left.Release()
	}
	if p.right != nil {
		p.right.Release()
	}
}

func (d *Dispatcher) plan(kind Kind, left *series.Series, right series.Operand) (*plan, error) {
	p := &plan{op: kind.String(), kind: kind}
	if !kind.Valid() {
		p.op = "compare"
		return p, cmperrors.NewInvalidInputError(p.op, "invalid comparison kind")
	}
	if err := validation.NewNotReleasedValidator(left, p.op).Validate(); err != nil {
		return p, err
	}

	var rightSeries *series.Series
	switch r := right.(type) {
	case *series.Series:
		err := validation.NewCompoundValidator(
			validation.NewNotReleasedValidator(r, p.op),
			validation.NewComparableValidator(left.ElementType(), r.ElementType(), p.op),
			validation.NewLengthValidator(left.Len(), r.Len(), p.op),
		).Validate()
		if err != nil {
			return p, err
		}
		rightSeries = r
		p.rightTyp = r.ElementType()
	case series.Scalar:
		if err := validation.ValidateComparable(left.ElementType(), r.ElementType(), p.op); err != nil {
			return p, err
		}
		p.scalar = r
		p.rightTyp = r.ElementType()
	default:
		return p, cmperrors.NewInvalidInputError(p.op, "right operand must be a series or a scalar")
	}

	dom, err := resolveDomain(p.op, left.ElementType(), p.rightTyp)
	if err != nil {
		return p, err
	}
	p.dom = dom
	p.name = left.Name()
	p.rows = left.Len()
	p.leftTyp = left.ElementType()
	p.left = left.Array()
	if rightSeries != nil {
		p.right = rightSeries.Array()
	}

	if dom == domainFloat64 {
		if err := p.checkFloatExact(left, rightSeries); err != nil {
			p.release()
			return p, err
		}
	}

	if p.rows >= d.cfg.ParallelThreshold && d.pool.NumWorkers() > 1 {
		p.ranges = parallel.ChunkRanges(p.rows, d.cfg.EffectiveChunkSize(p.rows))
	}

	d.logger.Debug("comparison planned",
		"op", p.op,
		"left", left.ElementType().String(),
		"right", p.rightTyp.String(),
		"domain", dom.String(),
		"rows", p.rows,
		"chunks", len(p.ranges),
	)
	return p, nil
}

func (p *plan) checkFloatExact(left, right *series.Series) error {
	if err := checkFloatExact(p.op, left.Name(), p.left); err != nil {
		return err
	}
	if right != nil {
		return checkFloatExact(p.op, right.Name(), p.right)
	}
	return checkScalarFloatExact(p.op, p.scalar)
}

func (d *Dispatcher) execute(p *plan) (*series.Series, error) {
	out := newMask(p.rows)

	if p.right == nil && p.scalar.IsNull() {
		return series.NewMask(p.name, out.values, out.valid, d.mem), nil
	}

	scan := p.bind(out)
	if p.parallel() {
		if done := parallel.ForEachRange(d.pool, p.ranges, func(r parallel.Range) { scan(r.Lo, r.Hi) }); done != p.rows {
			return nil, cmperrors.NewInternalError(p.op, errors.New("worker pool closed during scan"))
		}
	} else {
		scan(0, p.rows)
	}

	valid := out.valid
	if !validityOf(p.left).hasNulls() && !validityOf(p.right).hasNulls() {
		valid = nil
	}
	return series.NewMask(p.name, out.values, valid, d.mem), nil
}

// bind materialises both operands in the plan's domain and returns the scan.
func (p *plan) bind(out *mask) scanFunc {
	switch p.dom {
	case domainUint64:
		return bindNumeric[uint64](p, out)
	case domainInt64:
		return bindNumeric[int64](p, out)
	case domainFloat64:
		return bindNumeric[float64](p, out)
	case domainInt128:
		pred := func(a, b int128) bool { return p.kind.accepts(a.compare(b)) }
		left := columnInt128(p.left, p.leftTyp)
		if p.right != nil {
			return scanArrays(pred, left, columnInt128(p.right, p.rightTyp), validityOf(p.left), validityOf(p.right), out)
		}
		return scanScalar(pred, left, scalarInt128(p.scalar), validityOf(p.left), out)
	default:
		pred := predicate[string](p.kind)
		left := columnUtf8(p.left)
		if p.right != nil {
			return scanArrays(pred, left, columnUtf8(p.right), validityOf(p.left), validityOf(p.right), out)
		}
		return scanScalar(pred, left, p.scalar.Value().(string), validityOf(p.left), out)
	}
}

func bindNumeric[D number](p *plan, out *mask) scanFunc {
	pred := predicate[D](p.kind)
	left := columnAs[D](p.left)
	if p.right != nil {
		return scanArrays(pred, left, columnAs[D](p.right), validityOf(p.left), validityOf(p.right), out)
	}
	return scanScalar(pred, left, scalarAs[D](p.scalar.Value()), validityOf(p.left), out)
}

func status(err error) string {
	if err == nil {
		return monitoring.StatusSuccess
	}
	var cmpErr *cmperrors.ComparisonError
	if errors.As(err, &cmpErr) {
		return cmpErr.Kind.String()
	}
	return "error"
}
