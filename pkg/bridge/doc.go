// Package bridge converts a parsed CAD-description AST into a tree of
// geometry nodes, each able to produce a renderable mesh on demand
// through an abstract geometry kernel.
//
// Conversion is a single-threaded, depth-first, left-to-right walk:
// child order is semantically significant because boolean difference
// and intersection fold over the ordered child list. Parameter and
// arity validation happens during conversion, before any geometry work;
// mesh generation happens lazily per node.
package bridge
