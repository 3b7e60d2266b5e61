package gqlschema

import (
	"fmt"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// DateTime serializes time.Time values as RFC 3339 strings on the wire,
// matching the TypeMapper's ScalarDateTime mapping (spec §4.2).
var DateTime = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "DateTime",
	Description: "An RFC 3339 timestamp.",
	Serialize:   serializeDateTime,
	ParseValue:  parseDateTimeValue,
	ParseLiteral: func(valueAST ast.Value) interface{} {
		v, ok := valueAST.(*ast.StringValue)
		if !ok {
			return nil
		}
		return parseDateTimeValue(v.Value)
	},
})

func serializeDateTime(value interface{}) interface{} {
	switch v := value.(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func parseDateTimeValue(value interface{}) interface{} {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return t
}

// JSON passes arbitrary decoded JSON values through unchanged, used for
// ScalarJSON columns and stored-procedure result sets (spec §6's
// "resultSets: [[JSON]]").
var JSON = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "JSON",
	Description: "An arbitrary JSON value.",
	Serialize:   func(value interface{}) interface{} { return value },
	ParseValue:  func(value interface{}) interface{} { return value },
	ParseLiteral: func(valueAST ast.Value) interface{} {
		return parseJSONLiteral(valueAST)
	},
})

func parseJSONLiteral(valueAST ast.Value) interface{} {
	switch v := valueAST.(type) {
	case *ast.StringValue:
		return v.Value
	case *ast.IntValue:
		return v.Value
	case *ast.FloatValue:
		return v.Value
	case *ast.BooleanValue:
		return v.Value
	case *ast.ListValue:
		out := make([]interface{}, len(v.Values))
		for i, item := range v.Values {
			out[i] = parseJSONLiteral(item)
		}
		return out
	case *ast.ObjectValue:
		out := make(map[string]interface{}, len(v.Fields))
		for _, f := range v.Fields {
			out[f.Name.Value] = parseJSONLiteral(f.Value)
		}
		return out
	default:
		return nil
	}
}
