package manifest

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/shade/internal/ir"
)

// Manifest error codes (E400-E499)
const (
	ErrSchema       = "E400" // document does not satisfy #Manifest
	ErrEntryID      = "E401" // entry id is not the hash of its descriptor
	ErrEntrySig     = "E402" // entry signature does not match its params
	ErrCatalogID    = "E403" // catalog id is not the hash of the entry list
	ErrDuplicateSig = "E404" // two entries record the same signature
	ErrSchemaSource = "E499" // embedded schema failed to compile
)

//go:embed schema.cue
var schemaSource []byte

// Issue is one problem found in a manifest document.
type Issue struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (i Issue) Error() string {
	if i.Path == "" {
		return fmt.Sprintf("[%s] %s", i.Code, i.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", i.Code, i.Path, i.Message)
}

// Validate checks the document against the embedded CUE schema and returns
// every violation CUE reports.
func Validate(m *Manifest) []Issue {
	data, err := json.Marshal(m)
	if err != nil {
		return []Issue{{Code: ErrSchema, Message: err.Error()}}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return []Issue{{Code: ErrSchemaSource, Message: err.Error()}}
	}
	doc := ctx.CompileBytes(data, cue.Filename("manifest.json"))
	if err := doc.Err(); err != nil {
		return cueIssues(err)
	}

	v := schema.LookupPath(cue.ParsePath("#Manifest")).Unify(doc)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return cueIssues(err)
	}
	return nil
}

// Verify validates the schema and then recomputes every derived field.
// Identity checks run only on schema-valid documents. Signatures must be
// unique since Diff keys entries by them.
func Verify(m *Manifest) []Issue {
	if issues := Validate(m); len(issues) > 0 {
		return issues
	}

	var issues []Issue
	first := make(map[string]int, len(m.Overloads))
	for i, e := range m.Overloads {
		o := e.Overload()
		path := fmt.Sprintf("overloads.%d", i)

		if j, ok := first[e.Signature]; ok {
			issues = append(issues, Issue{
				Code:    ErrDuplicateSig,
				Path:    path + ".signature",
				Message: fmt.Sprintf("%s already recorded at overloads.%d", e.Signature, j),
			})
		} else {
			first[e.Signature] = i
		}

		if sig := o.Signature(); sig != e.Signature {
			issues = append(issues, Issue{
				Code:    ErrEntrySig,
				Path:    path + ".signature",
				Message: fmt.Sprintf("recorded %q, params give %q", e.Signature, sig),
			})
		}
		id, err := ir.OverloadID(o)
		if err != nil {
			issues = append(issues, Issue{Code: ErrEntryID, Path: path + ".id", Message: err.Error()})
			continue
		}
		if id != e.ID {
			issues = append(issues, Issue{
				Code:    ErrEntryID,
				Path:    path + ".id",
				Message: fmt.Sprintf("recorded %s, descriptor hashes to %s", e.ID, id),
			})
		}
	}

	catalogID, err := ir.CatalogID(m.Descriptors())
	if err != nil {
		return append(issues, Issue{Code: ErrCatalogID, Path: "catalog_id", Message: err.Error()})
	}
	if catalogID != m.CatalogID {
		issues = append(issues, Issue{
			Code:    ErrCatalogID,
			Path:    "catalog_id",
			Message: fmt.Sprintf("recorded %s, overloads hash to %s", m.CatalogID, catalogID),
		})
	}
	return issues
}

// cueIssues flattens a CUE error list into issues keyed by value path.
func cueIssues(err error) []Issue {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return []Issue{{Code: ErrSchema, Message: err.Error()}}
	}

	seen := make(map[string]bool)
	var issues []Issue
	for _, e := range errs {
		format, args := e.Msg()
		issue := Issue{
			Code:    ErrSchema,
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		}
		key := issue.Path + "\x00" + issue.Message
		if seen[key] {
			continue
		}
		seen[key] = true
		issues = append(issues, issue)
	}
	return issues
}
