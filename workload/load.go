// Package workload loads the YAML document describing a schema and a
// parameterized statement workload (spec §6): the schema section
// builds a schema.Schema via schema.Builder, the statements section is
// handed to a caller-supplied statement.Parser, and the mix section
// assigns each statement its frequency within one or more named
// traffic mixes.
package workload

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/kvschema/advisor/schema"
	"github.com/kvschema/advisor/statement"
	"gopkg.in/yaml.v2"
)

// Load decodes raw YAML into a Schema and a fully-parsed, frequency-
// assigned statement list. parser turns each statement's text into a
// statement.Statement against the built schema.
func Load(raw []byte, parser statement.Parser) (*schema.Schema, []*statement.Statement, error) {
	doc, err := ParseDocument(raw)
	if err != nil {
		return nil, nil, err
	}
	return FromDocument(doc, parser)
}

// ParseDocument decodes raw YAML into a Document without building a
// schema or resolving any statements, for callers that want to
// inspect or build a schema ahead of parsing statement text.
func ParseDocument(raw []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, errors.Wrap(err, "workload: decoding YAML")
	}
	return doc, nil
}

// FromDocument builds a Schema and statement list from an already
// decoded Document, so callers assembling a workload programmatically
// don't need to round-trip through YAML.
func FromDocument(doc Document, parser statement.Parser) (*schema.Schema, []*statement.Statement, error) {
	sch, err := BuildSchema(doc.Schema)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]string, 0, len(doc.Statements))
	for id := range doc.Statements {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parsed := make(map[string]*statement.Statement, len(ids))
	for _, id := range ids {
		text := doc.Statements[id]
		s, err := parser.Parse(sch, text)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "workload: parsing statement %q", id)
		}
		parsed[id] = s
	}

	mixes := doc.Mix
	if len(mixes) == 0 {
		mixes = uniformMix(ids)
	}

	var out []*statement.Statement
	for mixName, weights := range mixes {
		for _, id := range ids {
			s, ok := parsed[id]
			if !ok {
				continue
			}
			w, ok := weights[id]
			if !ok {
				continue
			}
			out = append(out, s.WithFrequency(mixName, w))
		}
	}
	return sch, out, nil
}

// uniformMix assigns every statement equal weight within a single
// "default" mix, per spec.md's open question on workloads that never
// declare an explicit mix section.
func uniformMix(ids []string) map[string]MixWeight {
	if len(ids) == 0 {
		return map[string]MixWeight{"default": {}}
	}
	w := 1.0 / float64(len(ids))
	weights := make(MixWeight, len(ids))
	for _, id := range ids {
		weights[id] = w
	}
	return map[string]MixWeight{"default": weights}
}

// BuildSchema builds a schema.Schema from a document's schema section
// alone, independent of any statement parsing.
func BuildSchema(doc SchemaDoc) (*schema.Schema, error) {
	b := schema.NewBuilder()
	for _, e := range doc.Entities {
		eb := b.AddEntity(e.Name, e.Count)
		for _, f := range e.Fields {
			pt, err := parseFieldType(f.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "entity %q field %q", e.Name, f.Name)
			}
			switch pt.kind {
			case schema.Int:
				eb.Int(f.Name)
			case schema.Float:
				eb.Float(f.Name)
			case schema.Date:
				eb.Date(f.Name)
			case schema.Hash:
				eb.HashField(f.Name)
			case schema.IDKey:
				eb.IDKey(f.Name)
			case schema.String:
				eb.String(f.Name, pt.strLen)
			case schema.ForeignKey:
				eb.ForeignKey(f.Name, pt.fkTarget, pt.fkArity, f.Reverse)
			}
		}
	}
	return b.Build()
}
