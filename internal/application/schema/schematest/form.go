// Package schematest builds form submissions for tests.
package schematest

import (
	"net/url"
	"strings"

	"ecohubs/internal/application/schema"
)

// ValidForm returns a form that passes every rule of sc, with the given
// name and e-mail.
func ValidForm(sc *schema.Schema, fullName, addr string) url.Values {
	form := url.Values{}
	for _, f := range sc.Fields {
		if f.Optional {
			continue
		}
		switch f.Kind {
		case schema.KindEmail:
			form.Set(f.Name, addr)
		case schema.KindScale:
			form.Set(f.Name, "7")
		case schema.KindMulti:
			n := max(f.Min, 1)
			for i := range n {
				form.Add(f.Name, option(f, i))
			}
		case schema.KindChoice:
			form.Set(f.Name, option(f, 0))
		default:
			form.Set(f.Name, strings.Repeat("x", max(f.Min, 1)))
		}
	}
	form.Set("fullName", fullName)
	return form
}

func option(f schema.Field, i int) string {
	if i < len(f.Options) {
		return f.Options[i]
	}
	return "option"
}
