package ir

import "strings"

// Kind is the numeric kind of an intrinsic parameter.
type Kind string

const (
	KindInt32  Kind = "int32"
	KindUint32 Kind = "uint32"
)

// Kinds lists the supported numeric kinds in catalog order.
var Kinds = []Kind{KindInt32, KindUint32}

// ValidKinds defines allowed numeric kinds.
var ValidKinds = map[Kind]bool{
	KindInt32:  true,
	KindUint32: true,
}

// Direction is how a parameter is passed.
type Direction string

const (
	DirRef Direction = "ref" // read-write destination (*T)
	DirIn  Direction = "in"  // by value (T)
	DirOut Direction = "out" // output-only original value slot (*T)
)

// ValidDirections defines allowed parameter directions.
var ValidDirections = map[Direction]bool{
	DirRef: true,
	DirIn:  true,
	DirOut: true,
}

// Family groups operations by what they do on the GPU.
type Family string

const (
	FamilyBarrier Family = "barrier"
	FamilyAtomic  Family = "atomic"
)

// Param is one formal parameter of an overload.
type Param struct {
	Name      string    `json:"name" yaml:"name"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// Overload is one concrete signature of a catalog operation.
type Overload struct {
	Type   string  `json:"type" yaml:"type"`     // declaring catalog, e.g. "hlsl"
	Member string  `json:"member" yaml:"member"` // operation name, e.g. "InterlockedAdd"
	Func   string  `json:"func" yaml:"func"`     // Go identifier called by kernels
	Family Family  `json:"family" yaml:"family"`
	Params []Param `json:"params" yaml:"params"`
}

// Signature renders the diagnostic identity of the overload:
//
//	hlsl.InterlockedAdd(int32, int32, int32)
//
// Only the numeric kinds of the parameters are listed, in order.
func (o Overload) Signature() string {
	var b strings.Builder
	b.WriteString(o.Type)
	b.WriteByte('.')
	b.WriteString(o.Member)
	b.WriteByte('(')
	for i, p := range o.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(p.Kind))
	}
	b.WriteByte(')')
	return b.String()
}

// Kinds returns the ordered parameter kinds.
func (o Overload) Kinds() []Kind {
	kinds := make([]Kind, len(o.Params))
	for i, p := range o.Params {
		kinds[i] = p.Kind
	}
	return kinds
}

// Shape returns the ordered parameter directions joined by commas,
// e.g. "ref,in,out". Barriers have the empty shape.
func (o Overload) Shape() string {
	dirs := make([]string, len(o.Params))
	for i, p := range o.Params {
		dirs[i] = string(p.Direction)
	}
	return strings.Join(dirs, ",")
}

// Kind returns the kind of the destination, or "" for barriers.
func (o Overload) Kind() Kind {
	if len(o.Params) == 0 {
		return ""
	}
	return o.Params[0].Kind
}

// HasOriginal reports whether the last parameter is an original-value slot.
func (o Overload) HasOriginal() bool {
	n := len(o.Params)
	return n > 0 && o.Params[n-1].Direction == DirOut
}
