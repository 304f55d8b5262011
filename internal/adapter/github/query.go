package github

import (
	"fmt"
	"strings"
)

// QueryParam is a single url query parameter.
type QueryParam struct {
	Name  string
	Value interface{}
}

// Query is an ordered list of url query parameters.
//
// Unlike url.Values, Encode keeps parameters order and doesn't escape values,
// so callers must provide values that are already safe for the url.
type Query []QueryParam

// Add appends parameter to the query.
func (q Query) Add(name string, value interface{}) Query {
	return append(q, QueryParam{Name: name, Value: value})
}

// Encode returns query in "name1=value1&name2=value2" form.
func (q Query) Encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(fmt.Sprint(p.Value))
	}
	return b.String()
}
