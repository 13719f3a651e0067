package workload

// Document is the raw shape a workload YAML file decodes into, before
// its schema section is built into a schema.Schema and its statement
// texts are handed to a statement.Parser.
type Document struct {
	Schema     SchemaDoc            `yaml:"schema"`
	Statements map[string]string    `yaml:"statements"`
	Mix        map[string]MixWeight `yaml:"mix"`
}

// MixWeight maps a statement id to its weight within one named mix.
type MixWeight map[string]float64

// SchemaDoc is the schema section of a workload document.
type SchemaDoc struct {
	Entities []EntityDoc `yaml:"entities"`
}

// EntityDoc declares one entity and its fields.
type EntityDoc struct {
	Name   string      `yaml:"name"`
	Count  int64       `yaml:"count"`
	Fields []FieldDoc  `yaml:"fields"`
}

// FieldDoc declares one field. Type is one of the tokens documented
// on parseFieldType; Reverse names the reciprocal field for a
// foreign_key type and is otherwise ignored.
type FieldDoc struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Reverse string `yaml:"reverse,omitempty"`
}
