// Package ast holds the bondrewd syntax tree.
//
// Nodes live in an Arena and are reached through reference counted Handles.
// Every node owns its children: dropping the last handle to a node releases
// the whole subtree. Sum families (Stmt, Expr, Defn, Flow) are interfaces
// with a closed set of implementations; all nodes describe themselves through
// Fields so dumpers and walkers need no per-type code.
package ast
