// Package scripted implements a search domain whose transition model is
// written in Starlark.
//
// A model script defines these top-level functions:
//
//	initial()             -> state
//	actions(state)        -> iterable of actions
//	apply(state, action)  -> state
//	is_goal(state)        -> bool
//	heuristic(state)      -> number   (optional, defaults to 0)
//	cost(action)          -> number   (optional, defaults to 1)
//
// States and actions are arbitrary Starlark values. They are frozen as soon
// as the script returns them, so a script cannot mutate a state that is
// already queued or visited. Two states are equal when their values are equal
// under Starlark's == operator; the path that reached a state is not part of
// its identity.
//
// Problem parameters are available to the script as the predeclared dict
// params:
//
//	def initial():
//	    return tuple(params["disks"])
//
// Script errors do not panic. The first error is kept on the Model and
// reported by Err; from then on the model reports no actions and no goal, so
// any running search drains its frontier and stops.
package scripted
