// Package gen lowers a typed shader AST to a SPIR-V module.
//
// Generation is a single depth-first walk of the tree. Every
// expression visit produces a nodeData carrying either a computed
// value or an access chain: a base id plus the index path needed to
// reach a sub-component of an aggregate. Chains stay symbolic for as
// long as possible; addressing instructions are emitted at most once
// per node, when a load or store finally forces them.
//
// The generator trusts the front-end contract: constants are folded,
// declarations carry a single declarator, overloads are resolved, and
// implicit conversions are already materialized. Violations of that
// contract panic. Constructs the generator deliberately does not
// lower (loops, switches, ternaries) return an error wrapping
// ErrUnsupported.
package gen
