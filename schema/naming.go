package schema

import (
	"strings"

	"github.com/gobuffalo/flect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// GraphQLName camelCases a raw database identifier (snake_case or
// PascalCase) into a GraphQL-legal field/type name, grounded on
// gobuffalo/flect's Camelize (the same inflection library the teacher's
// go.mod carries for the same concern). flect.Camelize produces an
// upper-first form (e.g. "Books"); GraphQL field/type conventions want
// lower-first, so the leading rune is downcased.
func GraphQLName(dbName string) string {
	c := flect.Camelize(dbName)
	if c == "" {
		return c
	}
	return strings.ToLower(c[:1]) + c[1:]
}

// NormalizedName singularizes a raw table name, used for GraphQL type
// names (gqlschema) and display. Link names are not derived from it.
func NormalizedName(dbName string) string {
	return flect.Singularize(strings.ToLower(dbName))
}

// DisplayName title-cases a normalized name for human-facing output,
// grounded on the teacher CLI's use of
// golang.org/x/text/cases for the same purpose.
func DisplayName(normalized string) string {
	return titleCaser.String(strings.ReplaceAll(normalized, "_", " "))
}

// trimIdSuffix strips a trailing "id" in any letter case ("Id", "ID") from
// a column's GraphQL name, used when disambiguating multiple FKs to the
// same parent table. Only those two letters are removed.
func trimIdSuffix(graphQLColumnName string) string {
	lower := strings.ToLower(graphQLColumnName)
	switch {
	case strings.HasSuffix(lower, "id") && len(graphQLColumnName) > 2:
		return graphQLColumnName[:len(graphQLColumnName)-2]
	default:
		return graphQLColumnName
	}
}
