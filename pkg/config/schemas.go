package config

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Built-in schema names.
const (
	SchemaProblemFile = "problem_file"
	SchemaNumbers     = "numbers"
	SchemaSearch      = "search"
)

// SchemaRegistry manages CUE schemas for validation. All schemas share one
// cue.Context so they can be unified with values compiled through Context.
type SchemaRegistry struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
	mu      sync.RWMutex
}

// NewSchemaRegistry creates a new schema registry with built-in schemas.
func NewSchemaRegistry() *SchemaRegistry {
	sr := &SchemaRegistry{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}

	if err := sr.RegisterSchema(SchemaProblemFile, builtinProblemFileSchema); err != nil {
		panic(err)
	}

	file, _ := sr.GetSchema(SchemaProblemFile)
	sr.schemas[SchemaNumbers] = file.LookupPath(cue.ParsePath("#Numbers"))
	sr.schemas[SchemaSearch] = file.LookupPath(cue.ParsePath("#Search"))

	return sr
}

// Context returns the CUE context shared by all schemas.
func (sr *SchemaRegistry) Context() *cue.Context {
	return sr.ctx
}

// RegisterSchema registers a CUE schema with the given name.
func (sr *SchemaRegistry) RegisterSchema(name, schema string) error {
	val := sr.ctx.CompileString(schema, cue.Filename(name+".cue"))
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.schemas[name] = val
	return nil
}

// GetSchema retrieves a schema by name.
func (sr *SchemaRegistry) GetSchema(name string) (cue.Value, bool) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	val, ok := sr.schemas[name]
	return val, ok
}

// ValidateAgainstSchema validates Go data against a named schema.
func (sr *SchemaRegistry) ValidateAgainstSchema(ctx context.Context, schemaName string, data interface{}) error {
	schema, ok := sr.GetSchema(schemaName)
	if !ok {
		return fmt.Errorf("schema %s not found", schemaName)
	}

	dataVal := sr.ctx.Encode(data)
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	unified := schema.Unify(dataVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// ListSchemas returns all registered schema names, sorted.
func (sr *SchemaRegistry) ListSchemas() []string {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	names := make([]string, 0, len(sr.schemas))
	for name := range sr.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const builtinProblemFileSchema = `
#Strategy: "breadth_first" | "breadth_all" | "depth_first" | "depth_all" |
	"iterative_deepening" | *"best_first" | "best_all"

#Numbers: {
	// Starting numbers; each must be positive
	values: [...int & >0]

	// Number to reach
	goal: int & >0
}

#Script: {
	// Script path relative to the problem file
	file?: string

	// Inline script text
	source?: string

	// Values exposed to the script as params
	params?: {...}

	// Execution step budget per call
	max_steps?: int & >=0
}

#Problem: {
	name:         string & !=""
	domain:       "numbers" | "scripted"
	description?: string
	numbers?:     #Numbers
	script?:      #Script
}

#Search: {
	strategy: #Strategy
	step:     int & >=0 | *1
}

problem: #Problem
search:  #Search
`
