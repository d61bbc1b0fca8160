package ast

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a scalar parameter that is either a numeric literal or an
// expression string to be resolved against the variable bindings in
// effect at conversion time. The zero Value is the literal 0.
type Value struct {
	Num  float64
	Expr string // non-empty means Num is unset and Expr must be evaluated
}

// Lit returns a literal Value.
func Lit(f float64) Value {
	return Value{Num: f}
}

// Ex returns an expression Value.
func Ex(expr string) Value {
	return Value{Expr: expr}
}

// IsExpr reports whether the value needs expression evaluation.
func (v Value) IsExpr() bool {
	return v.Expr != ""
}

func (v Value) String() string {
	if v.IsExpr() {
		return v.Expr
	}
	return strconv.FormatFloat(v.Num, 'g', -1, 64)
}

// MarshalJSON encodes literals as JSON numbers and expressions as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsExpr() {
		return json.Marshal(v.Expr)
	}
	return json.Marshal(v.Num)
}

// UnmarshalJSON accepts a JSON number (literal) or string (expression).
func (v *Value) UnmarshalJSON(b []byte) error {
	var num float64
	if err := json.Unmarshal(b, &num); err == nil {
		*v = Value{Num: num}
		return nil
	}
	var expr string
	if err := json.Unmarshal(b, &expr); err == nil {
		*v = Value{Expr: expr}
		return nil
	}
	return fmt.Errorf("ast: value must be a number or expression string, got %s", string(b))
}

// VecValue is a 3-component vector parameter.
type VecValue [3]Value

// LitVec returns a VecValue of three literals.
func LitVec(x, y, z float64) VecValue {
	return VecValue{Lit(x), Lit(y), Lit(z)}
}

// Vec2Value is a 2-component vector parameter.
type Vec2Value [2]Value

// LitVec2 returns a Vec2Value of two literals.
func LitVec2(x, y float64) Vec2Value {
	return Vec2Value{Lit(x), Lit(y)}
}

// Vec3 is a resolved 3D vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}
