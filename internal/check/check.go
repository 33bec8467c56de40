// Package check statically verifies the invariants every intrinsic catalog
// must satisfy before a translator can dispatch on it by type alone.
package check

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/shade/internal/ir"
)

// Validation error codes (E200-E299)
const (
	ErrUnsupportedKind      = "E200" // param kind or direction outside the catalog
	ErrBarrierParams        = "E201" // barrier declares parameters
	ErrMissingDestination   = "E202" // atomic does not start with a ref destination
	ErrMixedKinds           = "E203" // params of one overload disagree on kind
	ErrUnpairedKind         = "E204" // int32/uint32 variants do not mirror each other
	ErrOriginalSlot         = "E205" // original slot misplaced or counterpart mismatch
	ErrCompareArity         = "E206" // compare-exchange/compare-store arity
	ErrCompareExchangeShape = "E207" // another operation uses the compare-exchange shape
	ErrAmbiguousOverload    = "E208" // two overloads resolve identically
	ErrCatalogType          = "E209" // overloads disagree on declaring type
	ErrUnknownFamily        = "E210" // family is neither barrier nor atomic
)

const (
	memberCompareExchange = "InterlockedCompareExchange"
	memberCompareStore    = "InterlockedCompareStore"

	shapeCompareExchange = "ref,in,in,out"
	shapeCompareStore    = "ref,in,in"
)

// ValidationError represents one violated catalog invariant.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a catalog and returns every violation found (does not
// fail-fast). Per-overload errors come first in index order, followed by
// cross-overload errors in sorted key order.
func Validate(overloads []ir.Overload) []ValidationError {
	var errs []ValidationError

	catalogType := ""
	if len(overloads) > 0 {
		catalogType = overloads[0].Type
	}

	for i, o := range overloads {
		field := fmt.Sprintf("overloads[%d]", i)

		// E209: one declaring type for the whole catalog
		if strings.TrimSpace(o.Type) == "" || o.Type != catalogType {
			errs = append(errs, ValidationError{
				Field:   field + ".type",
				Message: fmt.Sprintf("%s declares type %q, catalog type is %q", o.Signature(), o.Type, catalogType),
				Code:    ErrCatalogType,
			})
		}

		switch o.Family {
		case ir.FamilyBarrier:
			errs = append(errs, validateBarrier(field, o)...)
		case ir.FamilyAtomic:
			errs = append(errs, validateAtomic(field, o)...)
		default:
			errs = append(errs, ValidationError{
				Field:   field + ".family",
				Message: fmt.Sprintf("unknown family %q for %s", o.Family, o.Signature()),
				Code:    ErrUnknownFamily,
			})
		}
	}

	errs = append(errs, validateAmbiguity(overloads)...)
	errs = append(errs, validatePairing(overloads)...)
	errs = append(errs, validateCounterparts(overloads)...)

	return errs
}

// validateBarrier checks a zero-arity barrier.
func validateBarrier(field string, o ir.Overload) []ValidationError {
	if len(o.Params) == 0 {
		return nil
	}
	return []ValidationError{{
		Field:   field + ".params",
		Message: fmt.Sprintf("barrier %s must not declare parameters", o.Signature()),
		Code:    ErrBarrierParams,
	}}
}

// validateAtomic checks the per-overload shape of an atomic.
func validateAtomic(field string, o ir.Overload) []ValidationError {
	var errs []ValidationError
	sig := o.Signature()

	// E202: destination first
	if len(o.Params) == 0 || o.Params[0].Direction != ir.DirRef {
		errs = append(errs, ValidationError{
			Field:   field + ".params[0]",
			Message: fmt.Sprintf("atomic %s must start with a ref destination", sig),
			Code:    ErrMissingDestination,
		})
	}

	for j, p := range o.Params {
		pfield := fmt.Sprintf("%s.params[%d]", field, j)

		// E200: kind and direction
		if !ir.ValidKinds[p.Kind] {
			errs = append(errs, ValidationError{
				Field:   pfield + ".kind",
				Message: fmt.Sprintf("unsupported kind %q for %q, must be int32 or uint32", p.Kind, p.Name),
				Code:    ErrUnsupportedKind,
			})
		}
		if !ir.ValidDirections[p.Direction] {
			errs = append(errs, ValidationError{
				Field:   pfield + ".direction",
				Message: fmt.Sprintf("unsupported direction %q for %q", p.Direction, p.Name),
				Code:    ErrUnsupportedKind,
			})
		}

		// E203: no mixed kinds
		if j > 0 && p.Kind != o.Params[0].Kind {
			errs = append(errs, ValidationError{
				Field:   pfield + ".kind",
				Message: fmt.Sprintf("%s mixes %s and %s", sig, o.Params[0].Kind, p.Kind),
				Code:    ErrMixedKinds,
			})
		}

		// E202: only one destination
		if j > 0 && p.Direction == ir.DirRef {
			errs = append(errs, ValidationError{
				Field:   pfield + ".direction",
				Message: fmt.Sprintf("%s declares a second ref parameter %q", sig, p.Name),
				Code:    ErrMissingDestination,
			})
		}

		// E205: original slot only last
		if p.Direction == ir.DirOut && j != len(o.Params)-1 {
			errs = append(errs, ValidationError{
				Field:   pfield + ".direction",
				Message: fmt.Sprintf("original slot %q of %s must be the last parameter", p.Name, sig),
				Code:    ErrOriginalSlot,
			})
		}
	}

	shape := o.Shape()
	switch o.Member {
	case memberCompareExchange:
		// E206
		if shape != shapeCompareExchange {
			errs = append(errs, ValidationError{
				Field:   field + ".params",
				Message: fmt.Sprintf("%s must be (destination, comparison, value, original), got (%s)", sig, shape),
				Code:    ErrCompareArity,
			})
		}
	case memberCompareStore:
		// E206
		if shape != shapeCompareStore {
			errs = append(errs, ValidationError{
				Field:   field + ".params",
				Message: fmt.Sprintf("%s must be (destination, comparison, value), got (%s)", sig, shape),
				Code:    ErrCompareArity,
			})
		}
	default:
		// E207
		if shape == shapeCompareExchange {
			errs = append(errs, ValidationError{
				Field:   field + ".params",
				Message: fmt.Sprintf("%s uses the compare-exchange shape reserved for %s", sig, memberCompareExchange),
				Code:    ErrCompareExchangeShape,
			})
		}
	}

	return errs
}

// validateAmbiguity reports overloads a translator could not tell apart,
// either by Go identifier and kinds or by member, kinds, and directions.
func validateAmbiguity(overloads []ir.Overload) []ValidationError {
	var errs []ValidationError
	byFunc := make(map[string]int)
	byShape := make(map[string]int)

	for i, o := range overloads {
		kinds := kindList(o)

		funcKey := o.Func + "(" + kinds + ")"
		if prev, ok := byFunc[funcKey]; ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("overloads[%d].func", i),
				Message: fmt.Sprintf("%s resolves like overloads[%d] via %s", o.Signature(), prev, funcKey),
				Code:    ErrAmbiguousOverload,
			})
		} else {
			byFunc[funcKey] = i
		}

		shapeKey := o.Member + "(" + kinds + ")[" + o.Shape() + "]"
		if prev, ok := byShape[shapeKey]; ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("overloads[%d].params", i),
				Message: fmt.Sprintf("%s duplicates the shape of overloads[%d]", o.Signature(), prev),
				Code:    ErrAmbiguousOverload,
			})
		} else {
			byShape[shapeKey] = i
		}
	}

	return errs
}

// validatePairing requires every atomic (member, shape) to exist for every
// supported kind.
func validatePairing(overloads []ir.Overload) []ValidationError {
	groups := make(map[string]map[ir.Kind]bool)
	for _, o := range overloads {
		if o.Family != ir.FamilyAtomic || len(o.Params) == 0 {
			continue
		}
		key := o.Member + "[" + o.Shape() + "]"
		if groups[key] == nil {
			groups[key] = make(map[ir.Kind]bool)
		}
		groups[key][o.Kind()] = true
	}

	var errs []ValidationError
	for _, key := range sortedKeys(groups) {
		for _, kind := range ir.Kinds {
			if groups[key][kind] {
				continue
			}
			errs = append(errs, ValidationError{
				Field:   key,
				Message: fmt.Sprintf("%s has no %s variant", key, kind),
				Code:    ErrUnpairedKind,
			})
		}
	}
	return errs
}

// validateCounterparts requires that when a member offers both forms for a
// kind, the capturing form is the plain form plus one trailing out slot of
// the destination's kind.
func validateCounterparts(overloads []ir.Overload) []ValidationError {
	type formSet struct {
		plain    []ir.Overload
		original []ir.Overload
	}
	groups := make(map[string]*formSet)
	for _, o := range overloads {
		if o.Family != ir.FamilyAtomic || len(o.Params) == 0 {
			continue
		}
		key := o.Member + "/" + string(o.Kind())
		if groups[key] == nil {
			groups[key] = &formSet{}
		}
		if o.HasOriginal() {
			groups[key].original = append(groups[key].original, o)
		} else {
			groups[key].plain = append(groups[key].plain, o)
		}
	}

	var errs []ValidationError
	for _, key := range sortedKeys(groups) {
		set := groups[key]
		for _, orig := range set.original {
			last := orig.Params[len(orig.Params)-1]
			if last.Kind != orig.Kind() {
				errs = append(errs, ValidationError{
					Field:   key,
					Message: fmt.Sprintf("original slot of %s is %s, destination is %s", orig.Signature(), last.Kind, orig.Kind()),
					Code:    ErrOriginalSlot,
				})
			}
			if len(set.plain) == 0 {
				continue
			}
			if !slices.ContainsFunc(set.plain, func(p ir.Overload) bool { return isCounterpart(p, orig) }) {
				errs = append(errs, ValidationError{
					Field:   key,
					Message: fmt.Sprintf("%s is not its fire-and-forget form plus one original slot", orig.Signature()),
					Code:    ErrOriginalSlot,
				})
			}
		}
	}
	return errs
}

func isCounterpart(plain, original ir.Overload) bool {
	if len(original.Params) != len(plain.Params)+1 {
		return false
	}
	for i, p := range plain.Params {
		q := original.Params[i]
		if p.Kind != q.Kind || p.Direction != q.Direction {
			return false
		}
	}
	return true
}

func kindList(o ir.Overload) string {
	kinds := o.Kinds()
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
