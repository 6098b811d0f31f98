package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Parser parses and validates problem files. CUE and JSON files are compiled
// directly; YAML files are decoded first and then checked by the same schema.
type Parser struct {
	ctx            *cue.Context
	schemaRegistry *SchemaRegistry
	validator      *validator.Validate
}

// NewParser creates a new problem file parser.
func NewParser() *Parser {
	sr := NewSchemaRegistry()

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Parser{
		ctx:            sr.Context(),
		schemaRegistry: sr,
		validator:      v,
	}
}

// ParseFile parses the problem file at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*ParsedProblem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem file %s: %w", path, err)
	}

	var val cue.Value
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return &ParsedProblem{
				SourceFile: path,
				ParsedAt:   time.Now(),
				Errors: []ValidationError{{
					File:     path,
					Message:  fmt.Sprintf("invalid YAML: %v", err),
					Severity: "error",
				}},
			}, nil
		}
		val = p.ctx.Encode(doc)
	default:
		val = p.ctx.CompileBytes(data, cue.Filename(path))
	}

	return p.parseValue(ctx, val, path), nil
}

// ParseInline parses problem content given as a CUE string.
func (p *Parser) ParseInline(ctx context.Context, content string) (*ParsedProblem, error) {
	val := p.ctx.CompileString(content, cue.Filename("inline"))
	return p.parseValue(ctx, val, "inline"), nil
}

// Load parses the problem file at path and fails on any validation error.
func (p *Parser) Load(ctx context.Context, path string) (*ParsedProblem, error) {
	parsed, err := p.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := parsed.Err(); err != nil {
		return nil, fmt.Errorf("invalid problem file %s: %w", path, err)
	}
	return parsed, nil
}

func (p *Parser) parseValue(_ context.Context, val cue.Value, source string) *ParsedProblem {
	parsed := &ParsedProblem{
		SourceFile: source,
		ParsedAt:   time.Now(),
	}

	if err := val.Err(); err != nil {
		parsed.Errors = p.convertCUEErrors(source, err)
		return parsed
	}

	schema, ok := p.schemaRegistry.GetSchema(SchemaProblemFile)
	if !ok {
		parsed.Errors = append(parsed.Errors, ValidationError{
			File:     source,
			Message:  "problem file schema not registered",
			Severity: "error",
		})
		return parsed
	}

	unified := schema.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		parsed.Errors = p.convertCUEErrors(source, err)
		return parsed
	}

	if err := unified.Decode(&parsed.File); err != nil {
		parsed.Errors = append(parsed.Errors, ValidationError{
			File:     source,
			Message:  fmt.Sprintf("failed to decode problem: %v", err),
			Severity: "error",
		})
		return parsed
	}

	if err := p.validator.Struct(parsed.File); err != nil {
		parsed.Errors = append(parsed.Errors, p.convertValidatorErrors(source, err)...)
	}

	return parsed
}

// convertCUEErrors converts CUE errors to ValidationErrors, preferring
// positions inside source over positions in the schema.
func (p *Parser) convertCUEErrors(source string, err error) []ValidationError {
	var validationErrors []ValidationError

	for _, e := range errors.Errors(err) {
		ve := ValidationError{
			Path:     strings.Join(e.Path(), "."),
			Message:  errors.Details(e, nil),
			Severity: "error",
		}

		if positions := errors.Positions(e); len(positions) > 0 {
			pos := positions[0]
			for _, candidate := range positions {
				if candidate.Filename() == source {
					pos = candidate
					break
				}
			}
			ve.File = pos.Filename()
			ve.Line = pos.Line()
			ve.Column = pos.Column()
		}

		validationErrors = append(validationErrors, ve)
	}

	return validationErrors
}

// convertValidatorErrors converts struct validation errors to ValidationErrors.
func (p *Parser) convertValidatorErrors(source string, err error) []ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{File: source, Message: err.Error(), Severity: "error"}}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}

		msg := fmt.Sprintf("failed on %q", fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("failed on %q (%s)", fe.Tag(), fe.Param())
		}

		out = append(out, ValidationError{
			File:     source,
			Path:     path,
			Message:  msg,
			Severity: "error",
		})
	}
	return out
}

// ValidateWithSchema validates data against a named schema.
func (p *Parser) ValidateWithSchema(ctx context.Context, data interface{}, schemaName string) error {
	return p.schemaRegistry.ValidateAgainstSchema(ctx, schemaName, data)
}

// GetSchemaRegistry returns the schema registry.
func (p *Parser) GetSchemaRegistry() *SchemaRegistry {
	return p.schemaRegistry
}

// ExportJSON exports a parsed problem as indented JSON.
func (p *Parser) ExportJSON(pf ProblemFile) ([]byte, error) {
	return json.MarshalIndent(pf, "", "  ")
}
