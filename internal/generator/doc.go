// Package generator derives test frames from a category-partition
// specification.
//
// Generation runs in two strictly ordered phases. First, single and error
// extraction walks every choice in declaration order and emits one targeted
// frame per single/error-tagged choice (or per conditional branch that
// resolves to a single/error type under a simulated baseline). Second, a
// depth-first backtracking search enumerates every valid cross-category
// combination of normal choices, flipping and exactly restoring one shared
// property table along the search path.
//
// Frame order, keys, and sequence numbers are observable contract: frames
// appear in the exact order produced by the left-to-right, depth-first,
// choice-order traversal, numbered continuously across both phases.
//
// The engine is single-threaded by design. Correctness depends on strict
// sequential mutate/rollback of the one shared property table; external
// observers only ever see the table before and after a Generate call.
package generator
