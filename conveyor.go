package conveyor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/axiondata/conveyor/deliverable"
	"github.com/axiondata/conveyor/identity"
	"github.com/axiondata/conveyor/middleware"
	"github.com/axiondata/conveyor/stage"
)

// Option configures a Pipeline.
type Option func(*Pipeline) error

// Pipeline executes stages in order, routing each stage's output to
// later stages through a type-keyed registry.
//
// Create one with New() and functional options, then add stages with
// AddStage and AddParallel. Stages added with one AddParallel call form
// a group that runs concurrently; groups run sequentially in the order
// they were added.
type Pipeline struct {
	config     Config
	logger     *slog.Logger
	registry   *deliverable.Registry
	middleware []middleware.Middleware

	// groups is the execution plan: each inner slice runs concurrently.
	groups [][]stage.Stage

	mu      sync.Mutex
	running bool
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		config:   DefaultConfig(),
		logger:   slog.Default(),
		registry: deliverable.NewRegistry(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// WithLogger sets the structured logger for the pipeline.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) error {
		p.logger = l
		return nil
	}
}

// WithRegistry sets a shared registry, letting several pipelines (or a
// pipeline and hand-registered deliverables) see the same entries.
func WithRegistry(r *deliverable.Registry) Option {
	return func(p *Pipeline) error {
		if r == nil {
			return fmt.Errorf("conveyor: nil registry")
		}
		p.registry = r
		return nil
	}
}

// WithMiddleware appends stage middleware, outermost first.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(p *Pipeline) error {
		p.middleware = append(p.middleware, mws...)
		return nil
	}
}

// WithStageTimeout bounds each stage execution.
func WithStageTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		p.config.StageTimeout = d
		return nil
	}
}

// WithClearOnStart controls whether Run empties the registry before
// executing. Defaults to true.
func WithClearOnStart(clear bool) Option {
	return func(p *Pipeline) error {
		p.config.ClearOnStart = clear
		return nil
	}
}

// Registry returns the pipeline's registry.
func (p *Pipeline) Registry() *deliverable.Registry { return p.registry }

// Clear drops every registered deliverable.
func (p *Pipeline) Clear() { p.registry.Clear() }

// Config returns a copy of the pipeline's configuration.
func (p *Pipeline) Config() Config { return p.config }

// AddStage appends a stage that runs alone in its own step.
func (p *Pipeline) AddStage(s stage.Stage) *Pipeline {
	p.groups = append(p.groups, []stage.Stage{s})
	return p
}

// AddParallel appends a group of stages that run concurrently. Their
// outputs are registered only after the whole group finishes, in the
// order the stages were passed, so registry contents stay deterministic
// regardless of scheduling.
func (p *Pipeline) AddParallel(stages ...stage.Stage) *Pipeline {
	p.groups = append(p.groups, stages)
	return p
}

// Run executes every stage group in order. The first stage error aborts
// the run; a failed type resolution (no producer, ambiguity) is a stage
// error like any other.
func (p *Pipeline) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return ErrAlreadyRunning
	}
	p.running = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	if len(p.groups) == 0 {
		return ErrNoStages
	}
	for _, group := range p.groups {
		if len(group) == 0 {
			return ErrNoStages
		}
		for _, s := range group {
			if s == nil {
				return ErrNilStage
			}
		}
	}

	run := identity.NewRunID()
	ctx = WithRunID(ctx, run)
	logger := p.logger.With(slog.String("run_id", run.String()))

	if p.config.ClearOnStart {
		p.registry.Clear()
	}

	logger.Info("pipeline started", slog.Int("groups", len(p.groups)))
	for _, group := range p.groups {
		if err := p.runGroup(ctx, logger, group); err != nil {
			logger.Error("pipeline failed", slog.String("error", err.Error()))
			return err
		}
	}
	logger.Info("pipeline completed", slog.Int("deliverables", p.registry.Len()))
	return nil
}

// runGroup executes one stage group and registers its outputs. Parallel
// outputs are buffered and registered after the group completes, in
// stage order.
func (p *Pipeline) runGroup(ctx context.Context, logger *slog.Logger, group []stage.Stage) error {
	outputs := make([]*deliverable.Deliverable, len(group))

	if len(group) == 1 {
		out, err := p.runStage(ctx, logger, group[0])
		if err != nil {
			return err
		}
		outputs[0] = out
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i, s := range group {
			g.Go(func() error {
				out, err := p.runStage(gctx, logger, s)
				if err != nil {
					return err
				}
				outputs[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	for i, out := range outputs {
		if out == nil {
			continue
		}
		if out.Producer().IsUnknown() {
			out.SetProducer(group[i].ID())
		}
		if err := p.registry.Register(out); err != nil {
			return err
		}
	}
	return nil
}

// runStage resolves the stage's inputs, then runs Consume and Produce
// through the middleware chain. A nil deliverable with a nil error means
// the stage is a sink.
func (p *Pipeline) runStage(ctx context.Context, logger *slog.Logger, s stage.Stage) (*deliverable.Deliverable, error) {
	inputs := make(map[identity.TypeKey]any)
	for _, t := range s.RequiredInputTypes() {
		d, err := p.registry.ResolveFor(s.ID(), t)
		if err != nil {
			return nil, fmt.Errorf("conveyor: stage %s: resolve input: %w", s.ID(), err)
		}
		inputs[t] = d.Payload()
	}

	mws := p.middleware
	if p.config.StageTimeout > 0 {
		mws = append(append([]middleware.Middleware(nil), mws...), middleware.Timeout(p.config.StageTimeout))
	}

	var out *deliverable.Deliverable
	err := middleware.Chain(mws...)(ctx, s, func(ctx context.Context) error {
		if err := s.Consume(ctx, inputs); err != nil {
			return err
		}
		d, err := s.Produce(ctx)
		if err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("conveyor: stage %s: %w", s.ID(), err)
	}

	logger.Debug("stage finished",
		slog.String("stage", s.ID().String()),
		slog.Bool("produced", out != nil),
	)
	return out, nil
}
