package irgen

import "fmt"

// SemanticError is raised by the translator itself: undeclared identifiers,
// assignment to a constant, and constant-context violations. It is
// distinguished from a parse error (raised by package frontend) and from an
// internal invariant violation (a panic, never recovered) per the error
// taxonomy.
type SemanticError struct {
	Msg string
}

func (e *SemanticError) Error() string { return e.Msg }

func errUndeclared(name string) error {
	return &SemanticError{Msg: fmt.Sprintf("undeclared identifier %q", name)}
}

func errAssignToConst(name string) error {
	return &SemanticError{Msg: fmt.Sprintf("cannot assign to %q: it is declared const", name)}
}

func errNotConstant(name string) error {
	return &SemanticError{Msg: fmt.Sprintf("%q is not a constant expression", name)}
}

func errDisallowedInConstExpr(op string) error {
	return &SemanticError{Msg: fmt.Sprintf("operator %q is not allowed in a constant expression", op)}
}

func errRedeclared(name string) error {
	return &SemanticError{Msg: fmt.Sprintf("%q is already declared in this scope", name)}
}
