package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openfroyo/statesearch/pkg/config"
	"github.com/openfroyo/statesearch/pkg/domains/numbers"
	"github.com/openfroyo/statesearch/pkg/domains/scripted"
	"github.com/openfroyo/statesearch/pkg/search"
	"github.com/openfroyo/statesearch/pkg/stores"
	"github.com/openfroyo/statesearch/pkg/telemetry"
)

// Runner solves problem files on fresh engines and records each run.
type Runner struct {
	parser *config.Parser
	store  stores.Store
	tel    *telemetry.Telemetry
	newID  func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithStore records runs in store. Without a store runs are not persisted.
func WithStore(store stores.Store) Option {
	return func(r *Runner) { r.store = store }
}

// WithTelemetry reports runs through tel.
func WithTelemetry(tel *telemetry.Telemetry) Option {
	return func(r *Runner) { r.tel = tel }
}

// WithParser sets the problem file parser.
func WithParser(parser *config.Parser) Option {
	return func(r *Runner) { r.parser = parser }
}

// New creates a runner. By default it has no store and no-op telemetry.
func New(opts ...Option) *Runner {
	r := &Runner{newID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	if r.parser == nil {
		r.parser = config.NewParser()
	}
	if r.tel == nil {
		r.tel = telemetry.Nop()
	}
	return r
}

// Overrides replace the search settings of a problem file.
type Overrides struct {
	// Strategy replaces the strategy when not empty.
	Strategy string

	// Step replaces the iterative deepening step when not nil.
	Step *int
}

// Solution is a rendered solution path.
type Solution struct {
	Actions []string `json:"actions" yaml:"actions"`
	Cost    float64  `json:"cost" yaml:"cost"`
	Length  int      `json:"length" yaml:"length"`
}

// Result describes a finished run.
type Result struct {
	RunID      string            `json:"run_id" yaml:"run_id"`
	Problem    string            `json:"problem" yaml:"problem"`
	Domain     string            `json:"domain" yaml:"domain"`
	Strategy   string            `json:"strategy" yaml:"strategy"`
	Step       int               `json:"step" yaml:"step"`
	Status     Status            `json:"status" yaml:"status"`
	Solutions  []Solution        `json:"solutions" yaml:"solutions"`
	Statistics search.Statistics `json:"statistics" yaml:"statistics"`
	Duration   time.Duration     `json:"duration" yaml:"duration"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// Validate parses a problem file and reports its validation errors without
// running it.
func (r *Runner) Validate(ctx context.Context, path string) (*config.ParsedProblem, error) {
	return r.parser.ParseFile(ctx, path)
}

// RunFile loads the problem file at path and runs it.
func (r *Runner) RunFile(ctx context.Context, path string, ov Overrides) (*Result, error) {
	op := telemetry.StartOperation(r.tel.WithContext(ctx), "problem.load", telemetry.AttrSource.String(path))
	parsed, err := r.parser.Load(op.Ctx, path)
	op.End(err)
	if err != nil {
		op.Logger.WithError(err).Debug("Problem file rejected")
		return nil, NewValidationError("invalid problem file", err)
	}
	op.Logger.WithFields(map[string]interface{}{
		"problem":     parsed.File.Problem.Name,
		"duration_ms": op.Timer.Duration().Milliseconds(),
	}).Debug("Problem file loaded")

	return r.Run(ctx, parsed, ov)
}

// Run solves a parsed problem. A run that starts is always returned with
// its Result, also when it fails; the error then carries the run ID.
func (r *Runner) Run(ctx context.Context, parsed *config.ParsedProblem, ov Overrides) (*Result, error) {
	if err := parsed.Err(); err != nil {
		return nil, NewValidationError("invalid problem", err)
	}

	pf := parsed.File
	strategy := search.Strategy(pf.Search.Strategy)
	step := pf.Search.Step
	if ov.Strategy != "" {
		strategy = search.Strategy(ov.Strategy)
	}
	if ov.Step != nil {
		step = *ov.Step
	}
	if err := strategy.Validate(); err != nil {
		return nil, NewValidationError("invalid strategy", err)
	}

	prob, err := r.buildProblem(parsed)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:    r.newID(),
		Problem:  pf.Problem.Name,
		Domain:   pf.Problem.Domain,
		Strategy: string(strategy),
		Step:     step,
	}

	logger := r.tel.Logger.WithProblem(result.Problem, result.Domain)
	ctx = logger.WithContext(r.tel.WithContext(ctx))

	if r.store != nil {
		run := &stores.Run{
			ID:       result.RunID,
			Problem:  result.Problem,
			Domain:   result.Domain,
			Strategy: result.Strategy,
			Step:     step,
			Source:   parsed.SourceFile,
		}
		if err := r.store.CreateRun(context.WithoutCancel(ctx), run); err != nil {
			return nil, NewStoreError("failed to record run", err).WithRunID(result.RunID)
		}
	}

	ctx, obs := r.tel.StartSearch(ctx, result.RunID, result.Problem, result.Strategy)
	jr := newJournal(result.RunID)

	started := time.Now()
	var paths []Solution
	if err = ctx.Err(); err != nil {
		err = NewCancelledError(context.Cause(ctx))
	} else {
		paths, result.Statistics, err = prob.solve(ctx, strategy, step,
			search.WithLogger(obs.Logger().Zerolog()),
			search.WithObserver(fanout{obs, jr}),
		)
	}
	result.Duration = time.Since(started)
	result.Solutions = paths

	switch {
	case err != nil && Code(err) == ErrCodeCancelled:
		result.Status = StatusCancelled
	case err != nil:
		result.Status = StatusFailed
	case len(paths) > 0:
		result.Status = StatusSolved
	default:
		result.Status = StatusUnsolved
	}

	if err != nil {
		var re *RunError
		if errors.As(err, &re) {
			re.WithRunID(result.RunID)
		}
		result.Error = err.Error()
		jr.fail(err)
	}
	obs.Finish(err)

	if r.store != nil {
		if serr := r.record(context.WithoutCancel(ctx), result, jr); serr != nil && err == nil {
			err = serr
		}
	}

	return result, err
}

// record stores the solutions, journal and final status of a run.
func (r *Runner) record(ctx context.Context, result *Result, jr *journal) error {
	solutions := make([]stores.Solution, len(result.Solutions))
	for i, sol := range result.Solutions {
		solutions[i] = stores.Solution{Actions: sol.Actions, Cost: sol.Cost, Length: sol.Length}
	}
	if err := r.store.AddSolutions(ctx, result.RunID, solutions); err != nil {
		return NewStoreError("failed to record solutions", err).WithRunID(result.RunID)
	}

	if err := r.store.AppendEvents(ctx, jr.events); err != nil {
		return NewStoreError("failed to record events", err).WithRunID(result.RunID)
	}

	var errMsg *string
	if result.Error != "" {
		errMsg = &result.Error
	}
	stats := stores.RunStats{
		NodesExplored: result.Statistics.NodesExplored,
		MaxDepth:      result.Statistics.MaxDepth,
		Solutions:     len(result.Solutions),
		Duration:      result.Duration,
	}
	if err := r.store.FinishRun(ctx, result.RunID, result.Status.storeStatus(), stats, errMsg); err != nil {
		return NewStoreError("failed to finish run", err).WithRunID(result.RunID)
	}
	return nil
}

// problem is a domain instance ready to be searched.
type problem interface {
	solve(ctx context.Context, strategy search.Strategy, step int, opts ...search.Option) ([]Solution, search.Statistics, error)
}

func (r *Runner) buildProblem(parsed *config.ParsedProblem) (problem, error) {
	pc := parsed.File.Problem

	switch pc.Domain {
	case config.DomainNumbers:
		if pc.Numbers == nil {
			return nil, NewValidationError("numbers domain requires a numbers block", nil)
		}
		return numbersProblem{values: pc.Numbers.Values, goal: pc.Numbers.Goal}, nil

	case config.DomainScripted:
		if pc.Script == nil {
			return nil, NewValidationError("scripted domain requires a script block", nil)
		}

		opts := scripted.Options{
			Params:   pc.Script.Params,
			MaxSteps: pc.Script.MaxSteps,
			Logger:   r.tel.Logger.NewComponentLogger("script").Zerolog(),
		}

		var (
			model *scripted.Model
			err   error
		)
		if path := parsed.ScriptPath(); path != "" {
			model, err = scripted.Load(path, nil, opts)
		} else {
			model, err = scripted.Load(pc.Name+".star", pc.Script.Source, opts)
		}
		if err != nil {
			return nil, NewScriptError("failed to load model script", err)
		}
		return scriptedProblem{model: model}, nil

	default:
		return nil, NewValidationError(fmt.Sprintf("unknown domain %q", pc.Domain), nil)
	}
}

type numbersProblem struct {
	values []int
	goal   int
}

func (p numbersProblem) solve(_ context.Context, strategy search.Strategy, step int, opts ...search.Option) ([]Solution, search.Statistics, error) {
	engine := search.New[*numbers.State, numbers.Action](opts...)
	paths := dispatch(engine, numbers.NewState(p.values, p.goal), strategy, step)
	return render(paths), engine.Statistics(), nil
}

type scriptedProblem struct {
	model *scripted.Model
}

func (p scriptedProblem) solve(ctx context.Context, strategy search.Strategy, step int, opts ...search.Option) ([]Solution, search.Statistics, error) {
	stop := p.model.WatchContext(ctx)
	defer stop()

	initial, err := p.model.Initial()
	if err != nil {
		return nil, search.Statistics{}, p.scriptError(ctx, err)
	}

	engine := search.New[*scripted.State, scripted.Action](opts...)
	paths := dispatch(engine, initial, strategy, step)
	if err := p.model.Err(); err != nil {
		return nil, engine.Statistics(), p.scriptError(ctx, err)
	}
	return render(paths), engine.Statistics(), nil
}

func (p scriptedProblem) scriptError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return NewCancelledError(context.Cause(ctx))
	}
	return NewScriptError("model script failed", err)
}

// dispatch runs the named strategy and returns its solution paths.
func dispatch[S search.HeuristicState[S, A], A search.Action](engine *search.Search[S, A], initial S, strategy search.Strategy, step int) [][]A {
	switch strategy {
	case search.StrategyBreadthFirst:
		return single(engine.SearchBreadthFirst(initial))
	case search.StrategyBreadthAll:
		return engine.SearchBreadthAll(initial)
	case search.StrategyDepthFirst:
		return single(engine.SearchDepthFirst(initial))
	case search.StrategyDepthAll:
		return engine.SearchDepthAll(initial)
	case search.StrategyIterativeDeepening:
		return single(engine.SearchIterativeDeepeningFirst(initial, step))
	case search.StrategyBestFirst:
		return single(search.SearchBestFirst(engine, initial))
	case search.StrategyBestAll:
		return search.SearchBestAll(engine, initial)
	default:
		return nil
	}
}

func single[A any](path []A, ok bool) [][]A {
	if !ok {
		return nil
	}
	return [][]A{path}
}

type renderable interface {
	search.Action
	fmt.Stringer
}

func render[A renderable](paths [][]A) []Solution {
	solutions := make([]Solution, 0, len(paths))
	for _, path := range paths {
		sol := Solution{
			Actions: make([]string, len(path)),
			Length:  len(path),
		}
		for i, action := range path {
			sol.Actions[i] = action.String()
			sol.Cost += action.Cost()
		}
		solutions = append(solutions, sol)
	}
	return solutions
}
