// Package ast defines the CAD-description AST consumed by the bridge.
// The AST is produced by an external parser; this package only defines
// the node shapes, it performs no parsing. Nodes form an ordered forest
// and are treated as immutable once handed to the bridge.
package ast
