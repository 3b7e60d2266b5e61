// Package transform implements the filter- and mutation-transformer
// framework: priority-ordered policy modules that inject WHERE clauses and
// rewrite mutations from request-scoped user context (spec §4.4/§4.5).
// Grounded on core/rolestmt.go's claim/role-driven SQL-fragment assembly,
// generalized from a single hardcoded roles-query into a pluggable
// transformer chain.
package transform

import "strings"

// UserContext is the request-scoped claim/role bag transformers read from.
// Values are typically strings, numbers, bools, or lists thereof, as
// decoded from a JWT or session.
type UserContext struct {
	Claims map[string]interface{}
	Roles  []string
}

// Claim looks up a claim by key, reporting whether it is present.
func (c UserContext) Claim(key string) (interface{}, bool) {
	v, ok := c.Claims[key]
	return v, ok
}

// HasRole reports whether the context bears role, compared
// case-insensitively.
func (c UserContext) HasRole(role string) bool {
	for _, r := range c.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// AsList returns v and true when v is an []interface{} list, and nil and
// false otherwise (a scalar or any other slice type), letting transformers
// that accept either shape tell them apart.
func AsList(v interface{}) ([]interface{}, bool) {
	if list, ok := v.([]interface{}); ok {
		return list, true
	}
	return nil, false
}
