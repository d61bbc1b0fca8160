package bridge

import (
	"errors"
	"fmt"

	"github.com/tessera-cad/tessera/pkg/ast"
)

// ErrorCode classifies conversion and mesh-generation failures.
type ErrorCode int

const (
	ErrNotInitialized ErrorCode = iota
	ErrInvalidContext
	ErrUnknownNodeType
	ErrInsufficientChildren
	ErrNoChildren
	ErrInvalidParameter
	ErrChildConversionFailed
	ErrBooleanOperationFailed
	ErrValidationFailed
	ErrMeshGenerationFailed
)

func (c ErrorCode) String() string {
	switch c {
	case ErrNotInitialized:
		return "NotInitialized"
	case ErrInvalidContext:
		return "InvalidContext"
	case ErrUnknownNodeType:
		return "UnknownNodeType"
	case ErrInsufficientChildren:
		return "InsufficientChildren"
	case ErrNoChildren:
		return "NoChildren"
	case ErrInvalidParameter:
		return "InvalidParameter"
	case ErrChildConversionFailed:
		return "ChildConversionFailed"
	case ErrBooleanOperationFailed:
		return "BooleanOperationFailed"
	case ErrValidationFailed:
		return "ValidationFailed"
	case ErrMeshGenerationFailed:
		return "MeshGenerationFailed"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// Error is the bridge error type. Node, Kind and Loc identify the
// failing AST node; Err carries a wrapped cause, which for
// ChildConversionFailed is the child's own *Error.
type Error struct {
	Code    ErrorCode
	Message string
	Node    string // node name, if any
	Kind    ast.Kind
	Loc     ast.SourceLocation
	Err     error
}

func (e *Error) Error() string {
	ctx := ""
	if e.Kind != ast.KindInvalid {
		ctx = " " + e.Kind.String()
	}
	if e.Node != "" {
		ctx += fmt.Sprintf(" %q", e.Node)
	}
	if !e.Loc.IsZero() {
		ctx += " at " + e.Loc.String()
	}
	msg := fmt.Sprintf("%s:%s %s", e.Code, ctx, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the ErrorCode of the outermost *Error in err's chain.
// The boolean is false when err is not a bridge error.
func CodeOf(err error) (ErrorCode, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be.Code, true
	}
	return 0, false
}

// RootCode returns the ErrorCode of the innermost *Error in err's
// chain, unwrapping through ChildConversionFailed layers to the
// original failure.
func RootCode(err error) (ErrorCode, bool) {
	var last *Error
	for {
		var be *Error
		if !errors.As(err, &be) {
			break
		}
		last = be
		err = be.Err
		if err == nil {
			break
		}
	}
	if last == nil {
		return 0, false
	}
	return last.Code, true
}

// nodeErrorf builds an *Error carrying the AST node's context.
func nodeErrorf(code ErrorCode, n *ast.Node, format string, args ...interface{}) *Error {
	e := &Error{Code: code, Message: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Node = n.Name
		e.Kind = n.Kind
		e.Loc = n.Loc
	}
	return e
}

// wrapChild wraps a child's failure with the parent's context so the
// caller can identify the exact failing sub-tree.
func wrapChild(parent *ast.Node, index int, err error) *Error {
	e := nodeErrorf(ErrChildConversionFailed, parent, "child %d failed", index)
	e.Err = err
	return e
}
