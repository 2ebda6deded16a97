// Package expr defines the syntax of the tuple logic.
//
// An Expression is either an Atom, naming a symbol by its AtomID, or a
// Tuple, an ordered sequence of expressions of any arity. A proposition is
// an Expression used where truth is asserted; it has no separate type.
//
// Built-in symbols (conjunction, implication, negation, ...) are atoms whose
// identifiers come from a fixed table, see Builtin. Every component that
// builds or inspects expressions must use that table.
package expr
