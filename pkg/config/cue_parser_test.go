package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_ParseInline(t *testing.T) {
	parser := NewParser()
	ctx := context.Background()

	tests := []struct {
		name      string
		content   string
		wantErr   bool
		errPath   string
		checkFunc func(*testing.T, *ParsedProblem)
	}{
		{
			name: "valid numbers problem with defaults",
			content: `
problem: {
	name:   "countdown"
	domain: "numbers"
	numbers: {
		values: [3, 5, 7]
		goal:   22
	}
}
`,
			checkFunc: func(t *testing.T, pp *ParsedProblem) {
				assert.Equal(t, "countdown", pp.File.Problem.Name)
				assert.Equal(t, "best_first", pp.File.Search.Strategy)
				assert.Equal(t, 1, pp.File.Search.Step)
				require.NotNil(t, pp.File.Problem.Numbers)
				assert.Equal(t, []int{3, 5, 7}, pp.File.Problem.Numbers.Values)
				assert.Equal(t, 22, pp.File.Problem.Numbers.Goal)
			},
		},
		{
			name: "explicit strategy and step",
			content: `
problem: {
	name:   "countdown"
	domain: "numbers"
	numbers: {values: [2, 4], goal: 6}
}
search: {
	strategy: "iterative_deepening"
	step:     3
}
`,
			checkFunc: func(t *testing.T, pp *ParsedProblem) {
				assert.Equal(t, "iterative_deepening", pp.File.Search.Strategy)
				assert.Equal(t, 3, pp.File.Search.Step)
			},
		},
		{
			name: "scripted problem with inline source",
			content: `
problem: {
	name:   "counter"
	domain: "scripted"
	script: {
		source: "def initial():\n    return 0\n"
		params: {goal: 8}
	}
}
search: strategy: "breadth_first"
`,
			checkFunc: func(t *testing.T, pp *ParsedProblem) {
				require.NotNil(t, pp.File.Problem.Script)
				assert.Contains(t, pp.File.Problem.Script.Source, "def initial")
				assert.Contains(t, pp.File.Problem.Script.Params, "goal")
			},
		},
		{
			name: "invalid CUE syntax",
			content: `
problem: {
	name: "broken"
	invalid syntax here
}
`,
			wantErr: true,
		},
		{
			name: "unknown domain",
			content: `
problem: {
	name:   "chess"
	domain: "chess"
}
`,
			wantErr: true,
		},
		{
			name: "unknown strategy",
			content: `
problem: {
	name:   "countdown"
	domain: "numbers"
	numbers: {values: [2, 4], goal: 6}
}
search: strategy: "random_walk"
`,
			wantErr: true,
		},
		{
			name: "non-positive goal",
			content: `
problem: {
	name:   "countdown"
	domain: "numbers"
	numbers: {values: [2, 4], goal: 0}
}
`,
			wantErr: true,
		},
		{
			name: "negative step",
			content: `
problem: {
	name:   "countdown"
	domain: "numbers"
	numbers: {values: [2, 4], goal: 6}
}
search: step: -1
`,
			wantErr: true,
		},
		{
			name: "unknown problem field",
			content: `
problem: {
	name:    "countdown"
	domain:  "numbers"
	numbers: {values: [2, 4], goal: 6}
	timeout: 10
}
`,
			wantErr: true,
		},
		{
			name: "numbers domain without numbers block",
			content: `
problem: {
	name:   "countdown"
	domain: "numbers"
}
`,
			wantErr: true,
			errPath: "problem.numbers",
		},
		{
			name: "empty values",
			content: `
problem: {
	name:   "countdown"
	domain: "numbers"
	numbers: {values: [], goal: 6}
}
`,
			wantErr: true,
			errPath: "problem.numbers.values",
		},
		{
			name: "script without file or source",
			content: `
problem: {
	name:   "counter"
	domain: "scripted"
	script: {}
}
`,
			wantErr: true,
			errPath: "problem.script.file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.ParseInline(ctx, tt.content)
			require.NoError(t, err)
			require.Equal(t, tt.wantErr, result.HasErrors(), "errors: %v", result.Errors)

			if tt.errPath != "" {
				paths := make([]string, 0, len(result.Errors))
				for _, e := range result.Errors {
					paths = append(paths, e.Path)
				}
				assert.Contains(t, paths, tt.errPath)
			}

			if tt.checkFunc != nil && !result.HasErrors() {
				tt.checkFunc(t, result)
			}
		})
	}
}

func TestParser_ParseFile(t *testing.T) {
	parser := NewParser()
	ctx := context.Background()
	dir := t.TempDir()

	files := map[string]string{
		"countdown.cue": `
problem: {
	name:   "countdown"
	domain: "numbers"
	numbers: {values: [3, 5, 7], goal: 22}
}
`,
		"countdown.json": `{
  "problem": {
    "name": "countdown",
    "domain": "numbers",
    "numbers": {"values": [3, 5, 7], "goal": 22}
  },
  "search": {"strategy": "depth_first"}
}`,
		"countdown.yaml": `
problem:
  name: countdown
  domain: numbers
  numbers:
    values: [3, 5, 7]
    goal: 22
search:
  strategy: breadth_all
`,
	}

	wantStrategy := map[string]string{
		"countdown.cue":  "best_first",
		"countdown.json": "depth_first",
		"countdown.yaml": "breadth_all",
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			result, err := parser.ParseFile(ctx, path)
			require.NoError(t, err)
			require.False(t, result.HasErrors(), "errors: %v", result.Errors)

			assert.Equal(t, path, result.SourceFile)
			assert.Equal(t, wantStrategy[name], result.File.Search.Strategy)
			require.NotNil(t, result.File.Problem.Numbers)
			assert.Equal(t, 22, result.File.Problem.Numbers.Goal)
		})
	}
}

func TestParser_ParseFileErrors(t *testing.T) {
	parser := NewParser()
	ctx := context.Background()
	dir := t.TempDir()

	_, err := parser.ParseFile(ctx, filepath.Join(dir, "missing.cue"))
	assert.Error(t, err)

	path := filepath.Join(dir, "bad.cue")
	content := "problem: {\n\tname: \"x\"\n\tdomain: \"chess\"\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	result, err := parser.ParseFile(ctx, path)
	require.NoError(t, err)
	require.True(t, result.HasErrors())

	hasPosition := false
	for _, e := range result.Errors {
		if e.File == path && e.Line > 0 {
			hasPosition = true
		}
	}
	assert.True(t, hasPosition, "expected an error positioned in %s, got %v", path, result.Errors)

	_, err = parser.Load(ctx, path)
	assert.Error(t, err)

	yamlPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("problem: [unclosed\n"), 0o644))

	result, err = parser.ParseFile(ctx, yamlPath)
	require.NoError(t, err)
	assert.True(t, result.HasErrors())
}

func TestParsedProblem_ScriptPath(t *testing.T) {
	tests := []struct {
		name   string
		source string
		script *ScriptConfig
		want   string
	}{
		{name: "no script", source: "/p/problem.cue", want: ""},
		{name: "inline source", source: "/p/problem.cue", script: &ScriptConfig{Source: "x = 1"}, want: ""},
		{name: "relative file", source: "/p/problem.cue", script: &ScriptConfig{File: "model.star"}, want: "/p/model.star"},
		{name: "absolute file", source: "/p/problem.cue", script: &ScriptConfig{File: "/s/model.star"}, want: "/s/model.star"},
		{name: "inline problem", source: "inline", script: &ScriptConfig{File: "model.star"}, want: "model.star"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pp := &ParsedProblem{SourceFile: tt.source}
			pp.File.Problem.Script = tt.script
			assert.Equal(t, tt.want, pp.ScriptPath())
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	ve := ValidationError{
		File:     "problem.cue",
		Line:     3,
		Column:   5,
		Path:     "problem.domain",
		Message:  "conflicting values",
		Severity: "error",
	}
	want := "problem.cue:3:5: problem.domain: conflicting values"
	assert.Equal(t, want, ve.Error())

	errs := ValidationErrors{ve, {Message: "second"}}
	assert.Equal(t, want+"; second", errs.Error())

	assert.NoError(t, (&ParsedProblem{}).Err())
}
