package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainOverload = "shade/overload/v1"
	DomainCatalog  = "shade/catalog/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// overloadObject is the canonical form of an overload: everything a
// translator matches on, nothing else.
func overloadObject(o Overload) IRObject {
	params := make(IRArray, len(o.Params))
	for i, p := range o.Params {
		params[i] = IRObject{
			"name":      IRString(p.Name),
			"kind":      IRString(string(p.Kind)),
			"direction": IRString(string(p.Direction)),
		}
	}
	return IRObject{
		"type":   IRString(o.Type),
		"member": IRString(o.Member),
		"func":   IRString(o.Func),
		"family": IRString(string(o.Family)),
		"params": params,
	}
}

// OverloadID computes the content-addressed id of an overload.
// The id is stable across builds as long as the translator-visible shape
// (type, member, func, family, ordered params) does not change.
func OverloadID(o Overload) (string, error) {
	canonical, err := MarshalCanonical(overloadObject(o))
	if err != nil {
		return "", fmt.Errorf("OverloadID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainOverload, canonical), nil
}

// CatalogID computes the id of an ordered overload list. Any added, removed,
// reordered, or reshaped overload changes it.
func CatalogID(overloads []Overload) (string, error) {
	arr := make(IRArray, len(overloads))
	for i, o := range overloads {
		arr[i] = overloadObject(o)
	}
	canonical, err := MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("CatalogID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCatalog, canonical), nil
}

// MustOverloadID is like OverloadID but panics on error.
// Overloads only carry strings, so this cannot fail for catalog entries.
func MustOverloadID(o Overload) string {
	id, err := OverloadID(o)
	if err != nil {
		panic(err)
	}
	return id
}
