package manifest

import "slices"

// Change is an overload present in both manifests whose descriptor differs.
type Change struct {
	Signature string   `json:"signature"`
	OldID     string   `json:"old_id"`
	NewID     string   `json:"new_id"`
	Fields    []string `json:"fields"`
}

// Drift is the difference between two manifests, keyed by signature.
type Drift struct {
	Added     []Entry  `json:"added"`
	Removed   []Entry  `json:"removed"`
	Changed   []Change `json:"changed"`
	Reordered bool     `json:"reordered"`
}

// Empty reports whether the manifests describe the same catalog.
func (d Drift) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0 && !d.Reordered
}

// Diff reports what a translator built against old would see change in
// current. Entries are listed in the order of the manifest they come from.
func Diff(old, current *Manifest) Drift {
	oldBySig := index(old)
	newBySig := index(current)

	var d Drift
	var oldOrder, newOrder []string
	for _, e := range old.Overloads {
		n, ok := newBySig[e.Signature]
		if !ok {
			d.Removed = append(d.Removed, e)
			continue
		}
		oldOrder = append(oldOrder, e.Signature)
		if fields := changedFields(e, n); len(fields) > 0 {
			d.Changed = append(d.Changed, Change{
				Signature: e.Signature,
				OldID:     e.ID,
				NewID:     n.ID,
				Fields:    fields,
			})
		}
	}
	for _, e := range current.Overloads {
		if _, ok := oldBySig[e.Signature]; !ok {
			d.Added = append(d.Added, e)
			continue
		}
		newOrder = append(newOrder, e.Signature)
	}
	d.Reordered = !slices.Equal(oldOrder, newOrder)
	return d
}

func index(m *Manifest) map[string]Entry {
	out := make(map[string]Entry, len(m.Overloads))
	for _, e := range m.Overloads {
		out[e.Signature] = e
	}
	return out
}

func changedFields(a, b Entry) []string {
	var fields []string
	if a.ID != b.ID {
		fields = append(fields, "id")
	}
	if a.Type != b.Type {
		fields = append(fields, "type")
	}
	if a.Member != b.Member {
		fields = append(fields, "member")
	}
	if a.Func != b.Func {
		fields = append(fields, "func")
	}
	if a.Family != b.Family {
		fields = append(fields, "family")
	}
	if !slices.Equal(a.Params, b.Params) {
		fields = append(fields, "params")
	}
	return fields
}
