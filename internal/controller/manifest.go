package controller

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"ducktape.dev/pkg/ducktape/pkg/test"
)

type unitDocument struct {
	Session string    `yaml:"session,omitempty"`
	Total   int       `yaml:"total"`
	Tests   []unitRow `yaml:"tests"`
}

// EncodeManifest writes units as a yaml document.
func EncodeManifest(w io.Writer, units []*test.Unit) error {
	doc := unitDocument{Total: len(units), Tests: buildRows(units)}
	if len(units) > 0 && units[0].Context != nil && units[0].Context.Session != nil {
		doc.Session = units[0].Context.Session.ID
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encode units: %w", err)
	}

	return encoder.Close()
}

// DecodeManifest reads a document written by EncodeManifest. The units it
// returns are for display only and carry no test instance.
func DecodeManifest(r io.Reader) ([]*test.Unit, error) {
	var doc unitDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode units: %w", err)
	}

	session := test.NewSession(doc.Session, "", nil, nil)
	units := make([]*test.Unit, 0, len(doc.Tests))

	for _, row := range doc.Tests {
		info := test.TypeInfo{Name: row.Type, Package: row.Package, File: row.File, Line: row.Line}
		ctx := test.NewContext(session, row.Module, info, row.Method)
		units = append(units, &test.Unit{ID: row.ID, Context: ctx, Method: row.Method})
	}

	return units, nil
}
