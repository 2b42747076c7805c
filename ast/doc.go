// Package ast defines the typed shading-language syntax tree consumed by
// the SPIR-V generator.
//
// The tree is the output of an earlier front-end that has already parsed,
// type-checked and transformed the source: constants are folded, every
// declaration declares a single variable, and function calls are resolved
// to a concrete overload. The generator asserts on forms it does not
// expect instead of validating them; validation is the front-end's
// contract.
//
// Node kinds form closed sums via unexported marker methods, so a lowering
// rule can pattern-match exhaustively over them.
package ast
