// Package manifest exports the compiled catalog as a document translators
// can key on, and checks such documents for schema errors and drift.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/shade/internal/ir"
)

// Format is a manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for a file extension or format name that is
// neither JSON nor YAML.
var ErrUnknownFormat = errors.New("unknown manifest format")

// Manifest is the exported form of a catalog.
type Manifest struct {
	IRVersion   string  `json:"ir_version" yaml:"ir_version"`
	ToolVersion string  `json:"tool_version" yaml:"tool_version"`
	CatalogID   string  `json:"catalog_id" yaml:"catalog_id"`
	Overloads   []Entry `json:"overloads" yaml:"overloads"`
}

// Entry is one overload together with its derived identity.
type Entry struct {
	ID        string     `json:"id" yaml:"id"`
	Signature string     `json:"signature" yaml:"signature"`
	Type      string     `json:"type" yaml:"type"`
	Member    string     `json:"member" yaml:"member"`
	Func      string     `json:"func" yaml:"func"`
	Family    ir.Family  `json:"family" yaml:"family"`
	Params    []ir.Param `json:"params" yaml:"params"`
}

// Overload returns the descriptor the entry was built from.
func (e Entry) Overload() ir.Overload {
	params := e.Params
	if params == nil {
		params = []ir.Param{}
	}
	return ir.Overload{
		Type:   e.Type,
		Member: e.Member,
		Func:   e.Func,
		Family: e.Family,
		Params: params,
	}
}

// Build derives a manifest from an ordered overload list.
func Build(overloads []ir.Overload) (*Manifest, error) {
	catalogID, err := ir.CatalogID(overloads)
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		IRVersion:   ir.IRVersion,
		ToolVersion: ir.ToolVersion,
		CatalogID:   catalogID,
		Overloads:   make([]Entry, 0, len(overloads)),
	}
	for _, o := range overloads {
		id, err := ir.OverloadID(o)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", o.Signature(), err)
		}
		params := o.Params
		if params == nil {
			params = []ir.Param{}
		}
		m.Overloads = append(m.Overloads, Entry{
			ID:        id,
			Signature: o.Signature(),
			Type:      o.Type,
			Member:    o.Member,
			Func:      o.Func,
			Family:    o.Family,
			Params:    params,
		})
	}
	return m, nil
}

// Descriptors returns the overload of every entry in manifest order.
func (m *Manifest) Descriptors() []ir.Overload {
	out := make([]ir.Overload, len(m.Overloads))
	for i, e := range m.Overloads {
		out[i] = e.Overload()
	}
	return out
}

// Encode renders the manifest in the given format. JSON output is indented
// and newline-terminated.
func Encode(m *Manifest, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("encoding manifest: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("encoding manifest: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding manifest: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Decode parses a manifest in the given format. Unknown fields are
// rejected.
func Decode(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("decoding manifest: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("decoding manifest: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &m, nil
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads a manifest file, choosing the decoder by extension.
func Load(path string) (*Manifest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
