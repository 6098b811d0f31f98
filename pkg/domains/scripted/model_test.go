package scripted

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	"github.com/openfroyo/statesearch/pkg/search"
)

const counterScript = `
def initial():
    return params["start"]

def actions(n):
    if n >= 2 * params["goal"]:
        return []
    return ["inc", "double"]

def apply(n, a):
    if a == "inc":
        return n + 1
    return n * 2

def is_goal(n):
    return n == params["goal"]

def cost(a):
    return 1 if a == "inc" else 1.5
`

func loadCounter(t *testing.T, start, goal int) *Model {
	t.Helper()
	m, err := Load("counter.star", counterScript, Options{
		Params: map[string]interface{}{"start": start, "goal": goal},
	})
	require.NoError(t, err)
	return m
}

func actionNames(path []Action) []string {
	out := make([]string, len(path))
	for i, a := range path {
		s, _ := starlark.AsString(a.Value())
		out[i] = s
	}
	return out
}

func TestLoad_MissingFunction(t *testing.T) {
	_, err := Load("partial.star", "def initial():\n    return 0\n", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingFunction))
	assert.Contains(t, err.Error(), FuncActions)
}

func TestLoad_SyntaxError(t *testing.T) {
	_, err := Load("broken.star", "def initial(:\n", Options{})
	assert.Error(t, err)
}

func TestLoad_UnsupportedParam(t *testing.T) {
	_, err := Load("counter.star", counterScript, Options{
		Params: map[string]interface{}{"bad": struct{}{}},
	})
	assert.Error(t, err)
}

func TestModel_BreadthFirst(t *testing.T) {
	m := loadCounter(t, 1, 8)
	initial, err := m.Initial()
	require.NoError(t, err)

	engine := search.New[*State, Action]()
	path, ok := engine.SearchBreadthFirst(initial)

	require.True(t, ok)
	require.NoError(t, m.Err())
	assert.Equal(t, []string{"inc", "double", "double"}, actionNames(path))
	assert.Equal(t, `"inc" "double" "double"`, FormatPath(path))
}

func TestModel_BestFirstUsesCost(t *testing.T) {
	m := loadCounter(t, 1, 8)
	initial, err := m.Initial()
	require.NoError(t, err)
	assert.False(t, m.HasHeuristic())

	engine := search.New[*State, Action]()
	path, ok := search.SearchBestFirst(engine, initial)
	require.True(t, ok)

	var cost float64
	for _, a := range path {
		cost += a.Cost()
	}
	assert.Equal(t, 4.0, cost)
	assert.Equal(t, []string{"inc", "double", "double"}, actionNames(path))
}

func TestModel_DepthAllTerminates(t *testing.T) {
	m := loadCounter(t, 1, 4)
	initial, err := m.Initial()
	require.NoError(t, err)

	engine := search.New[*State, Action]()
	solutions := engine.SearchDepthAll(initial)

	// The goal value is a single state, so it is found once.
	require.Len(t, solutions, 1)
	assert.NoError(t, m.Err())
}

func TestModel_Heuristic(t *testing.T) {
	script := counterScript + `
def heuristic(n):
    return max(params["goal"] - n, n - params["goal"])
`
	m, err := Load("counter.star", script, Options{
		Params: map[string]interface{}{"start": 3, "goal": 10},
	})
	require.NoError(t, err)
	assert.True(t, m.HasHeuristic())

	initial, err := m.Initial()
	require.NoError(t, err)
	assert.Equal(t, 7.0, initial.Heuristic())
}

func TestModel_ScriptErrorIsSticky(t *testing.T) {
	script := `
def initial():
    return 0

def actions(n):
    return [1]

def apply(n, a):
    fail("boom")

def is_goal(n):
    return n == 5
`
	m, err := Load("failing.star", script, Options{})
	require.NoError(t, err)

	initial, err := m.Initial()
	require.NoError(t, err)

	engine := search.New[*State, Action]()
	_, ok := engine.SearchBreadthFirst(initial)

	assert.False(t, ok)
	require.Error(t, m.Err())
	assert.Contains(t, m.Err().Error(), "boom")

	// Once failed, the model offers nothing.
	assert.Empty(t, initial.ApplicableActions())
	assert.False(t, initial.IsSolution())
	_, err = m.Initial()
	assert.Error(t, err)
}

func TestModel_StepBudget(t *testing.T) {
	script := `
def initial():
    return 0

def actions(n):
    return []

def apply(n, a):
    return n

def is_goal(n):
    total = 0
    for i in range(1000000):
        total += i
    return False
`
	m, err := Load("slow.star", script, Options{MaxSteps: 1000})
	require.NoError(t, err)

	initial, err := m.Initial()
	require.NoError(t, err)
	assert.False(t, initial.IsSolution())
	require.Error(t, m.Err())
	assert.Contains(t, m.Err().Error(), "too many steps")
}

func TestModel_WrongTypes(t *testing.T) {
	script := `
def initial():
    return 0

def actions(n):
    return 42

def apply(n, a):
    return n

def is_goal(n):
    return False

def heuristic(n):
    return "far"
`
	m, err := Load("types.star", script, Options{})
	require.NoError(t, err)

	initial, err := m.Initial()
	require.NoError(t, err)
	assert.Zero(t, initial.Heuristic())
	assert.Error(t, m.Err())
	assert.Contains(t, m.Err().Error(), "want number")
}

func TestModel_WatchContext(t *testing.T) {
	m := loadCounter(t, 1, 8)

	ctx, cancel := context.WithCancel(context.Background())
	stop := m.WatchContext(ctx)
	defer stop()
	cancel()

	require.Eventually(t, func() bool {
		_, err := m.Initial()
		return err != nil
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, m.Err().Error(), context.Canceled.Error())
}

func TestModel_PrintGoesToLogger(t *testing.T) {
	var buf testWriter
	script := `
def initial():
    print("hello from script")
    return 0

def actions(n):
    return []

def apply(n, a):
    return n

def is_goal(n):
    return True
`
	m, err := Load("print.star", script, Options{Logger: zerolog.New(&buf).Level(zerolog.DebugLevel)})
	require.NoError(t, err)

	_, err = m.Initial()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "hello from script")
	assert.Contains(t, buf.String(), `"script":"print.star"`)
}

type testWriter struct {
	data []byte
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *testWriter) String() string {
	return string(w.data)
}
