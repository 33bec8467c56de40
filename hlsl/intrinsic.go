package hlsl

import (
	"fmt"

	"github.com/roach88/shade/internal/ir"
)

// Intrinsic is the marker for exactly one overload: an operation, the
// numeric kind of its operands, and whether it captures the original value.
// Barriers have an empty Kind and Original false.
type Intrinsic struct {
	Op       Op
	Kind     ir.Kind
	Original bool
}

// Valid reports whether the marker names an overload in the catalog.
func (i Intrinsic) Valid() bool {
	if !i.Op.Valid() {
		return false
	}
	if i.Op.Family() == ir.FamilyBarrier {
		return i.Kind == "" && !i.Original
	}
	if !ir.ValidKinds[i.Kind] {
		return false
	}
	if i.Original {
		return i.Op.HasOriginal()
	}
	return i.Op.HasPlain()
}

// Func returns the Go identifier a kernel calls for this overload.
// Operations offering both forms suffix the capturing one with "Original".
func (i Intrinsic) Func() string {
	name := i.Op.String()
	if i.Original && i.Op.HasPlain() {
		return name + "Original"
	}
	return name
}

// Overload returns the descriptor of the marker.
func (i Intrinsic) Overload() ir.Overload {
	o := ir.Overload{
		Type:   CatalogType,
		Member: i.Op.String(),
		Func:   i.Func(),
		Family: i.Op.Family(),
		Params: []ir.Param{},
	}
	if o.Family == ir.FamilyBarrier {
		return o
	}

	o.Params = append(o.Params, ir.Param{Name: "destination", Kind: i.Kind, Direction: ir.DirRef})
	if i.Op.HasComparison() {
		o.Params = append(o.Params, ir.Param{Name: "comparison", Kind: i.Kind, Direction: ir.DirIn})
	}
	o.Params = append(o.Params, ir.Param{Name: "value", Kind: i.Kind, Direction: ir.DirIn})
	if i.Original {
		o.Params = append(o.Params, ir.Param{Name: "original", Kind: i.Kind, Direction: ir.DirOut})
	}
	return o
}

// Signature returns the diagnostic identity, e.g. "hlsl.InterlockedMin(uint32, uint32)".
func (i Intrinsic) Signature() string {
	return i.Overload().Signature()
}

func (i Intrinsic) String() string {
	if !i.Valid() {
		return fmt.Sprintf("Intrinsic(%s, %q, original=%t)", i.Op, i.Kind, i.Original)
	}
	return i.Signature()
}

// Intrinsics returns every marker in catalog order: operation order, then
// int32 before uint32, then the plain form before the original form.
func Intrinsics() []Intrinsic {
	var out []Intrinsic
	for _, op := range Ops() {
		if op.Family() == ir.FamilyBarrier {
			out = append(out, Intrinsic{Op: op})
			continue
		}
		for _, kind := range ir.Kinds {
			if op.HasPlain() {
				out = append(out, Intrinsic{Op: op, Kind: kind})
			}
			if op.HasOriginal() {
				out = append(out, Intrinsic{Op: op, Kind: kind, Original: true})
			}
		}
	}
	return out
}

// Catalog returns the descriptor of every overload in catalog order.
func Catalog() []ir.Overload {
	markers := Intrinsics()
	out := make([]ir.Overload, len(markers))
	for i, m := range markers {
		out[i] = m.Overload()
	}
	return out
}

// Lookup resolves a Go identifier and the static kind of its type argument
// to a marker. Barriers are looked up with an empty kind.
func Lookup(fn string, kind ir.Kind) (Intrinsic, bool) {
	for _, m := range Intrinsics() {
		if m.Func() == fn && m.Kind == kind {
			return m, true
		}
	}
	return Intrinsic{}, false
}

// IsFunc reports whether fn is an identifier declared by the catalog.
func IsFunc(fn string) bool {
	for _, m := range Intrinsics() {
		if m.Func() == fn {
			return true
		}
	}
	return false
}
