package scripted

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// DefaultMaxSteps bounds the Starlark execution steps of a single call into
// the script.
const DefaultMaxSteps = 1_000_000

// Script function names.
const (
	FuncInitial   = "initial"
	FuncActions   = "actions"
	FuncApply     = "apply"
	FuncIsGoal    = "is_goal"
	FuncHeuristic = "heuristic"
	FuncCost      = "cost"
)

// ErrMissingFunction is returned by Load when a required function is absent.
var ErrMissingFunction = errors.New("script does not define required function")

// Options configures a Model.
type Options struct {
	// Params are exposed to the script as the predeclared dict params.
	Params map[string]interface{}

	// MaxSteps bounds each call into the script. Zero means DefaultMaxSteps.
	MaxSteps uint64

	// Logger receives the script's print output at debug level.
	Logger zerolog.Logger
}

// Model is a loaded model script. It is not safe for concurrent use.
type Model struct {
	name     string
	thread   *starlark.Thread
	maxSteps uint64

	initial   starlark.Callable
	actions   starlark.Callable
	apply     starlark.Callable
	isGoal    starlark.Callable
	heuristic starlark.Callable
	cost      starlark.Callable

	err error
}

// Load executes the script source and binds its functions. src may be nil to
// read filename, or a string, []byte or io.Reader.
func Load(filename string, src interface{}, opts Options) (*Model, error) {
	logger := opts.Logger.With().Str("script", filename).Logger()

	params, err := toStarlarkValue(opts.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to convert params: %w", err)
	}
	if params == starlark.None {
		params = starlark.NewDict(0)
	}
	params.Freeze()

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			logger.Debug().Msg(msg)
		},
	}

	predeclared := starlark.StringDict{
		"struct": starlarkstruct.Default,
		"params": params,
	}

	globals, err := starlark.ExecFile(thread, filename, src, predeclared)
	if err != nil {
		return nil, fmt.Errorf("failed to execute model script: %w", err)
	}

	m := &Model{
		name:     filename,
		thread:   thread,
		maxSteps: opts.MaxSteps,
	}
	if m.maxSteps == 0 {
		m.maxSteps = DefaultMaxSteps
	}

	required := []struct {
		name string
		dst  *starlark.Callable
	}{
		{FuncInitial, &m.initial},
		{FuncActions, &m.actions},
		{FuncApply, &m.apply},
		{FuncIsGoal, &m.isGoal},
	}
	for _, r := range required {
		fn, ok := globals[r.name].(starlark.Callable)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingFunction, r.name)
		}
		*r.dst = fn
	}

	m.heuristic, _ = globals[FuncHeuristic].(starlark.Callable)
	m.cost, _ = globals[FuncCost].(starlark.Callable)

	return m, nil
}

// Name returns the script file name.
func (m *Model) Name() string {
	return m.name
}

// HasHeuristic reports whether the script defines heuristic(state).
func (m *Model) HasHeuristic() bool {
	return m.heuristic != nil
}

// Err returns the first script error, if any.
func (m *Model) Err() error {
	return m.err
}

// Initial calls initial() and wraps its result as the root state.
func (m *Model) Initial() (*State, error) {
	v, ok := m.call(m.initial)
	if !ok {
		return nil, m.err
	}
	return &State{model: m, value: v}, nil
}

// WatchContext cancels script execution once ctx is done. The returned
// function stops watching.
func (m *Model) WatchContext(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, func() {
		m.thread.Cancel(context.Cause(ctx).Error())
	})
}

// call invokes fn with a fresh step budget and freezes the result. After the
// first failure every call fails.
func (m *Model) call(fn starlark.Callable, args ...starlark.Value) (starlark.Value, bool) {
	if m.err != nil {
		return nil, false
	}

	m.thread.SetMaxExecutionSteps(m.thread.ExecutionSteps() + m.maxSteps)
	v, err := starlark.Call(m.thread, fn, starlark.Tuple(args), nil)
	if err != nil {
		m.fail(fmt.Errorf("%s: %w", fn.Name(), err))
		return nil, false
	}
	v.Freeze()
	return v, true
}

func (m *Model) fail(err error) {
	if m.err == nil {
		m.err = err
	}
}

func (m *Model) callNumber(fn starlark.Callable, arg starlark.Value) (float64, bool) {
	v, ok := m.call(fn, arg)
	if !ok {
		return 0, false
	}
	f, ok := starlark.AsFloat(v)
	if !ok {
		m.fail(fmt.Errorf("%s: got %s, want number", fn.Name(), v.Type()))
		return 0, false
	}
	return f, true
}

func (m *Model) actionsOf(state starlark.Value) []Action {
	v, ok := m.call(m.actions, state)
	if !ok {
		return nil
	}
	iterable, ok := v.(starlark.Iterable)
	if !ok {
		m.fail(fmt.Errorf("%s: got %s, want iterable", FuncActions, v.Type()))
		return nil
	}

	var out []Action
	iter := iterable.Iterate()
	defer iter.Done()

	var x starlark.Value
	for iter.Next(&x) {
		cost := 1.0
		if m.cost != nil {
			if cost, ok = m.callNumber(m.cost, x); !ok {
				return nil
			}
		}
		out = append(out, Action{value: x, cost: cost})
	}
	return out
}
