// Package config parses and validates problem files.
//
// A problem file names a problem instance in one of the known domains and the
// search strategy to solve it with. Files are written in CUE, with JSON and
// YAML accepted as well. Every file is unified with a built-in CUE schema,
// which fills in defaults and rejects unknown fields, and the decoded result
// is checked once more with struct tag validation.
//
// # Problem files
//
//	problem: {
//	    name:   "countdown"
//	    domain: "numbers"
//	    numbers: {
//	        values: [3, 5, 7]
//	        goal:   22
//	    }
//	}
//	search: strategy: "best_first"
//
// Scripted problems point at a Starlark model, either by file (resolved
// relative to the problem file) or inline:
//
//	problem: {
//	    name:   "counter"
//	    domain: "scripted"
//	    script: {
//	        file:   "counter.star"
//	        params: {start: 1, goal: 8}
//	    }
//	}
//	search: {
//	    strategy: "iterative_deepening"
//	    step:     2
//	}
//
// # Errors
//
// Parse and validation failures are reported as ValidationError values with
// file positions where CUE provides them. ParseFile only returns an error
// when the file cannot be read; Load additionally turns validation errors
// into an error.
package config
