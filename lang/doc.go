// Package lang implements an interpreter for scripts written as plain data:
// nested sequences that round-trip through JSON or YAML.
//
// A script stores executable logic without a textual syntax of its own. It is
// evaluated against a context value ("this") and a mapping of variables
// supplied by the host, and the host extends the language only by placing Go
// functions and values at known paths before evaluation.
//
// # Grammar
//
// A script is a single expression or a sequence of expressions. Every
// expression is a sequence whose first element is a command tag:
//
//	["call",   target, [arg, ...]]  invoke a function
//	["get",    target]              read the value at a path
//	["lambda", [param, ...], body]  create a function
//	["set",    path, source]        write a value at a path
//	["value",  payload]             return payload without interpreting it
//
// Operands that are sequences are scripts, evaluated in the enclosing
// context. Any other operand is a literal. The only way to produce a literal
// sequence is ["value", [...]].
//
// # Paths
//
// A path selects its root by prefix:
//
//	this, this.a.b    the context value
//	$, $.a, $a        the value of the previous expression
//	a, a.b[0]["k.k"]  the variables
//
// Reading a missing path yields nil. Writing creates missing mappings and
// sequences along the way. Calling a path with more than one segment binds
// the function to the value at the path's parent: ["call", "a.b.c"] calls
// a.b.c with a.b as its receiver.
//
// # Example
//
//	[
//	  ["set", "greet", ["lambda", ["name"], [
//	    ["call", "print", ["Hello,", ["get", "name"]]]
//	  ]]],
//	  ["call", "greet", ["world"]]
//	]
//
// # Scoping
//
// Lambdas capture the scope they are created in. Each invocation binds its
// parameters in a new scope chained to the captured one, so lookups fall
// through to enclosing scopes while parameter bindings never leak between
// invocations.
package lang
