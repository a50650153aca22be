package schema

import "strings"

// kindHints maps common field-name fragments to atomic kinds so that bare
// field lists produce usable schemas without explicit declarations.
var kindHints = []struct {
	fragment string
	kind     string
}{
	{"count", KindInteger},
	{"age", KindInteger},
	{"year", KindInteger},
	{"quantity", KindInteger},
	{"price", KindNumber},
	{"amount", KindNumber},
	{"score", KindNumber},
	{"rate", KindNumber},
	{"ratio", KindNumber},
}

// FromFields builds an object schema from bare field names, for one-liner
// extractions that do not warrant a full schema declaration. A name may carry
// an explicit kind after a colon ("age:integer"); otherwise the kind is
// guessed from the name and defaults to string. All fields are required.
func FromFields(fields []string) (Node, error) {
	if len(fields) == 0 {
		return nil, compileErrorf(ReasonEmptyObject, "no fields given")
	}

	obj := Object{Fields: make([]Field, 0, len(fields))}
	for _, f := range fields {
		name, hint, hasHint := strings.Cut(f, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, compileErrorf(ReasonUnsupportedDeclaration, "blank field name in %q", f)
		}

		kind := inferKind(name)
		if hasHint {
			kind = strings.TrimSpace(hint)
			switch kind {
			case KindString, KindInteger, KindNumber, KindBoolean:
			default:
				return nil, compileErrorf(ReasonUnsupportedAtomicType, "%q in field %q", kind, name)
			}
		}
		obj.Fields = append(obj.Fields, Field{Name: name, Node: Atomic{Kind: kind}})
	}
	return obj, nil
}

func inferKind(name string) string {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "is_") || strings.HasPrefix(lower, "has_") || strings.HasSuffix(lower, "_flag") {
		return KindBoolean
	}
	for _, h := range kindHints {
		if lower == h.fragment || strings.HasSuffix(lower, "_"+h.fragment) {
			return h.kind
		}
	}
	return KindString
}
