// Package search holds the pure query-engine pieces of the service: the
// weighted document computation, text query formatting, filter compilation,
// sort resolution and pagination clause building. Nothing here touches the
// database; the repository assembles these fragments into SQL.
package search

import (
	"strconv"
	"strings"

	"github.com/utafrali/ContentSearchGo/internal/domain"
)

// IndexedAttributeKeys is the fixed, ordered allow-list of attribute keys
// whose values are folded into the lowest weight class. Keys outside this
// list never influence search.
var IndexedAttributeKeys = []string{
	"author",
	"brand",
	"reading_time",
	"duration",
	"technical_level",
	"color",
	"material",
	"service_area",
	"delivery_method",
	"pricing_model",
}

// WeightedDocument is the four-class text document derived from a content
// record. Primary carries the highest relevance weight, Quaternary the
// lowest. The persistence layer turns each class into a weighted tsvector.
type WeightedDocument struct {
	Primary    string
	Secondary  string
	Tertiary   string
	Quaternary string
}

// ComputeDocument derives the weighted document from a record. It is a pure
// function of the record's fields: absent values contribute empty strings,
// so recomputing for an unchanged record always yields the same document.
func ComputeDocument(rec domain.ContentRecord) WeightedDocument {
	return WeightedDocument{
		Primary:    rec.Name,
		Secondary:  deref(rec.Description),
		Tertiary:   deref(rec.Category) + " " + strings.Join(rec.Tags, " "),
		Quaternary: rec.EntityType + " " + AttributeText(rec.Attributes),
	}
}

// AttributeText flattens the indexed attribute values into a single string,
// in allow-list order. Missing keys contribute empty strings so the output
// is deterministic regardless of which keys a record carries.
func AttributeText(attrs map[string]any) string {
	values := make([]string, len(IndexedAttributeKeys))
	for i, key := range IndexedAttributeKeys {
		values[i] = attributeString(attrs[key])
	}
	return strings.Join(values, " ")
}

func attributeString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
