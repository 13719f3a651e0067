package workload

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kvschema/advisor/schema"
)

// parsedType is the decoded form of one field-type token: `int`,
// `float`, `string(N)`, `date`, `id`, `hash`, or
// `foreign_key(target, one|many)`.
type parsedType struct {
	kind      schema.FieldKind
	strLen    int
	fkTarget  string
	fkArity   schema.Arity
}

// parseFieldType decodes a field-type token into its structured form.
func parseFieldType(tok string) (parsedType, error) {
	tok = strings.TrimSpace(tok)
	switch {
	case tok == "int":
		return parsedType{kind: schema.Int}, nil
	case tok == "float":
		return parsedType{kind: schema.Float}, nil
	case tok == "date":
		return parsedType{kind: schema.Date}, nil
	case tok == "id":
		return parsedType{kind: schema.IDKey}, nil
	case tok == "hash":
		return parsedType{kind: schema.Hash}, nil
	case strings.HasPrefix(tok, "string(") && strings.HasSuffix(tok, ")"):
		n, err := strconv.Atoi(tok[len("string(") : len(tok)-1])
		if err != nil {
			return parsedType{}, errors.Wrapf(ErrInvalidDocument, "bad string length in %q", tok)
		}
		return parsedType{kind: schema.String, strLen: n}, nil
	case strings.HasPrefix(tok, "foreign_key(") && strings.HasSuffix(tok, ")"):
		inner := tok[len("foreign_key(") : len(tok)-1]
		parts := strings.Split(inner, ",")
		if len(parts) != 2 {
			return parsedType{}, errors.Wrapf(ErrInvalidDocument, "malformed foreign_key type %q", tok)
		}
		target := strings.TrimSpace(parts[0])
		arityTok := strings.TrimSpace(parts[1])
		var arity schema.Arity
		switch arityTok {
		case "one":
			arity = schema.One
		case "many":
			arity = schema.Many
		default:
			return parsedType{}, errors.Wrapf(ErrInvalidDocument, "unknown foreign key arity %q in %q", arityTok, tok)
		}
		return parsedType{kind: schema.ForeignKey, fkTarget: target, fkArity: arity}, nil
	default:
		return parsedType{}, errors.Wrapf(ErrInvalidDocument, "unknown field type %q", tok)
	}
}
