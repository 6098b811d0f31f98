package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Domain names.
const (
	DomainNumbers  = "numbers"
	DomainScripted = "scripted"
)

// ProblemFile is the decoded content of a problem file.
type ProblemFile struct {
	// Problem describes what to solve.
	Problem ProblemConfig `json:"problem" yaml:"problem"`

	// Search selects how to solve it.
	Search SearchConfig `json:"search" yaml:"search"`
}

// ProblemConfig describes a problem instance in one of the known domains.
type ProblemConfig struct {
	// Name identifies the problem in logs and run history.
	Name string `json:"name" yaml:"name"`

	// Domain is the problem domain (numbers, scripted).
	Domain string `json:"domain" yaml:"domain" validate:"required,oneof=numbers scripted"`

	// Description is free text.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Numbers configures the numbers game domain.
	Numbers *NumbersConfig `json:"numbers,omitempty" yaml:"numbers,omitempty" validate:"required_if=Domain numbers"`

	// Script configures the scripted domain.
	Script *ScriptConfig `json:"script,omitempty" yaml:"script,omitempty" validate:"required_if=Domain scripted"`
}

// NumbersConfig is a numbers game instance.
type NumbersConfig struct {
	// Values are the starting numbers.
	Values []int `json:"values" yaml:"values" validate:"required,min=1,dive,gt=0"`

	// Goal is the number to reach.
	Goal int `json:"goal" yaml:"goal" validate:"gt=0"`
}

// ScriptConfig points at a Starlark model script.
type ScriptConfig struct {
	// File is the script path, relative to the problem file.
	File string `json:"file,omitempty" yaml:"file,omitempty" validate:"required_without=Source"`

	// Source is inline script text, used when File is empty.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Params are exposed to the script as the params dict.
	Params map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`

	// MaxSteps bounds each call into the script.
	MaxSteps uint64 `json:"max_steps,omitempty" yaml:"max_steps,omitempty"`
}

// SearchConfig selects the strategy.
type SearchConfig struct {
	// Strategy is the search strategy name.
	Strategy string `json:"strategy" yaml:"strategy" validate:"required,oneof=breadth_first breadth_all depth_first depth_all iterative_deepening best_first best_all"`

	// Step is the depth increment for iterative deepening.
	Step int `json:"step" yaml:"step" validate:"gte=0"`
}

// ParsedProblem is the result of parsing a problem file.
type ParsedProblem struct {
	// File is the decoded problem. It is only meaningful without Errors.
	File ProblemFile `json:"file"`

	// SourceFile is the parsed path, or "inline".
	SourceFile string `json:"source_file"`

	// ParsedAt is when the problem was parsed.
	ParsedAt time.Time `json:"parsed_at"`

	// Errors lists any parse or validation errors.
	Errors []ValidationError `json:"errors,omitempty"`
}

// HasErrors reports whether parsing produced errors.
func (pp *ParsedProblem) HasErrors() bool {
	return len(pp.Errors) > 0
}

// Err returns the parse errors as a single error, or nil.
func (pp *ParsedProblem) Err() error {
	if !pp.HasErrors() {
		return nil
	}
	return ValidationErrors(pp.Errors)
}

// ScriptPath resolves the script file against the problem file directory.
func (pp *ParsedProblem) ScriptPath() string {
	script := pp.File.Problem.Script
	if script == nil || script.File == "" {
		return ""
	}
	if filepath.IsAbs(script.File) || pp.SourceFile == "" || pp.SourceFile == "inline" {
		return script.File
	}
	return filepath.Join(filepath.Dir(pp.SourceFile), script.File)
}

// ValidationError represents a validation error with location information.
type ValidationError struct {
	// File is the source file path.
	File string `json:"file,omitempty"`

	// Line is the line number (1-indexed).
	Line int `json:"line,omitempty"`

	// Column is the column number (1-indexed).
	Column int `json:"column,omitempty"`

	// Path is the field path of the error (e.g. "problem.numbers.goal").
	Path string `json:"path,omitempty"`

	// Message is the error message.
	Message string `json:"message"`

	// Severity is the error severity (error, warning).
	Severity string `json:"severity"`
}

func (ve ValidationError) Error() string {
	var b strings.Builder
	if ve.File != "" {
		b.WriteString(ve.File)
		if ve.Line > 0 {
			fmt.Fprintf(&b, ":%d:%d", ve.Line, ve.Column)
		}
		b.WriteString(": ")
	}
	if ve.Path != "" {
		b.WriteString(ve.Path)
		b.WriteString(": ")
	}
	b.WriteString(ve.Message)
	return b.String()
}

// ValidationErrors is a list of validation errors usable as an error.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}
