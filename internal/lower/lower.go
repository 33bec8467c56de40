// Package lower renders resolved catalog call sites as HLSL statements.
package lower

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"github.com/roach88/shade/internal/ir"
	"github.com/roach88/shade/internal/scan"
)

// ErrUnaddressable is returned when a ref or out argument is not written
// as &x, so there is no HLSL lvalue to hand to the intrinsic.
var ErrUnaddressable = errors.New("argument is not an addressable operand")

// ErrUnsupportedOperand is returned when an argument uses Go syntax that
// has no HLSL rendering, such as a function call or composite literal.
var ErrUnsupportedOperand = errors.New("operand has no HLSL form")

// ErrArity is returned when the call site and its overload disagree on the
// number of arguments.
var ErrArity = errors.New("argument count does not match overload")

// HLSL returns the HLSL statement for one call site, e.g.
//
//	InterlockedAdd(bins[v % 16], 1);
func HLSL(site scan.CallSite) (string, error) {
	o := site.Overload
	if len(site.Args) != len(o.Params) {
		return "", fmt.Errorf("%s: %w: %d argument(s) for %s", site.Location, ErrArity, len(site.Args), o.Signature())
	}

	args := make([]string, len(site.Args))
	for i, p := range o.Params {
		arg := site.Args[i]
		if p.Direction == ir.DirRef || p.Direction == ir.DirOut {
			operand, ok := addressOperand(arg)
			if !ok {
				return "", fmt.Errorf("%s: %w: %s %q must be written as &x, got %s",
					site.Location, ErrUnaddressable, p.Direction, p.Name, types.ExprString(arg))
			}
			arg = operand
		}
		text, err := expr(arg)
		if err != nil {
			return "", fmt.Errorf("%s: %s %q: %w", site.Location, p.Direction, p.Name, err)
		}
		args[i] = text
	}

	return fmt.Sprintf("%s(%s);", o.Member, strings.Join(args, ", ")), nil
}

// Report lowers every call site of a scan report, stopping at the first
// argument that cannot be lowered.
func Report(r *scan.Report) ([]string, error) {
	out := make([]string, 0, len(r.Calls))
	for _, site := range r.Calls {
		stmt, err := HLSL(site)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

// addressOperand unwraps &x (and parenthesized forms) to x.
func addressOperand(e ast.Expr) (ast.Expr, bool) {
	unary, ok := unparen(e).(*ast.UnaryExpr)
	if !ok || unary.Op != token.AND {
		return nil, false
	}
	return unparen(unary.X), true
}

func unparen(e ast.Expr) ast.Expr {
	for {
		paren, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = paren.X
	}
}

// conversions maps Go conversion types to HLSL scalar types.
var conversions = map[string]string{
	"int32":  "int",
	"uint32": "uint",
}

// binaryOps are the Go binary operators HLSL spells the same way. &^ is
// rewritten separately.
var binaryOps = map[token.Token]bool{
	token.ADD: true, token.SUB: true, token.MUL: true, token.QUO: true, token.REM: true,
	token.AND: true, token.OR: true, token.XOR: true, token.SHL: true, token.SHR: true,
	token.EQL: true, token.NEQ: true, token.LSS: true, token.LEQ: true, token.GTR: true, token.GEQ: true,
	token.LAND: true, token.LOR: true,
}

// expr renders a Go operand as HLSL. Nested binary operands are
// parenthesized so the HLSL keeps Go precedence.
func expr(e ast.Expr) (string, error) {
	switch x := e.(type) {
	case *ast.Ident:
		return x.Name, nil
	case *ast.BasicLit:
		return literal(x)
	case *ast.ParenExpr:
		inner, err := expr(x.X)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil
	case *ast.IndexExpr:
		base, err := expr(x.X)
		if err != nil {
			return "", err
		}
		index, err := expr(x.Index)
		if err != nil {
			return "", err
		}
		return base + "[" + index + "]", nil
	case *ast.SelectorExpr:
		base, err := expr(x.X)
		if err != nil {
			return "", err
		}
		return base + "." + x.Sel.Name, nil
	case *ast.UnaryExpr:
		return unary(x)
	case *ast.BinaryExpr:
		return binary(x)
	case *ast.CallExpr:
		return conversion(x)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedOperand, types.ExprString(e))
}

func unary(x *ast.UnaryExpr) (string, error) {
	var op string
	switch x.Op {
	case token.SUB, token.ADD, token.NOT:
		op = x.Op.String()
	case token.XOR:
		op = "~"
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedOperand, types.ExprString(x))
	}
	operand, err := nested(x.X)
	if err != nil {
		return "", err
	}
	return op + operand, nil
}

func binary(x *ast.BinaryExpr) (string, error) {
	left, err := nested(x.X)
	if err != nil {
		return "", err
	}
	right, err := nested(x.Y)
	if err != nil {
		return "", err
	}
	switch {
	case x.Op == token.AND_NOT:
		return left + " & ~" + right, nil
	case binaryOps[x.Op]:
		return left + " " + x.Op.String() + " " + right, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedOperand, types.ExprString(x))
}

// nested renders an operand of a unary or binary operator.
func nested(e ast.Expr) (string, error) {
	s, err := expr(e)
	if err != nil {
		return "", err
	}
	if _, ok := e.(*ast.BinaryExpr); ok {
		return "(" + s + ")", nil
	}
	return s, nil
}

// conversion lowers int32(x) and uint32(x). Any other call is rejected.
func conversion(call *ast.CallExpr) (string, error) {
	fn, ok := unparen(call.Fun).(*ast.Ident)
	if !ok || len(call.Args) != 1 || call.Ellipsis.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedOperand, types.ExprString(call))
	}
	typ, ok := conversions[fn.Name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedOperand, types.ExprString(call))
	}
	arg, err := expr(call.Args[0])
	if err != nil {
		return "", err
	}
	return typ + "(" + arg + ")", nil
}

// literal keeps decimal, hex and octal integers as written. Binary, 0o and
// digit-separated forms are rewritten in decimal.
func literal(lit *ast.BasicLit) (string, error) {
	if lit.Kind != token.INT {
		return "", fmt.Errorf("%w: %s literal %s", ErrUnsupportedOperand, lit.Kind, lit.Value)
	}
	v := lit.Value
	lower := strings.ToLower(v)
	if !strings.HasPrefix(lower, "0b") && !strings.HasPrefix(lower, "0o") && !strings.Contains(v, "_") {
		return v, nil
	}
	n, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		return "", fmt.Errorf("%w: integer literal %s", ErrUnsupportedOperand, v)
	}
	return strconv.FormatUint(n, 10), nil
}
