package schema

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() url.Values {
	long := strings.Repeat("a thoughtful answer ", 3)
	form := url.Values{}
	for _, f := range Default().Fields {
		if f.Optional {
			continue
		}
		switch f.Kind {
		case KindEmail:
			form.Set(f.Name, "Jane@Example.org")
		case KindChoice:
			form.Set(f.Name, f.Options[0])
		case KindMulti:
			form.Add(f.Name, f.Options[0])
		case KindScale:
			form.Set(f.Name, "7")
		default:
			form.Set(f.Name, long)
		}
	}
	form.Set("fullName", "Jane Doe")
	return form
}

func TestEmbeddedSchemaLoads(t *testing.T) {
	s := Default()
	assert.Equal(t, 9, s.Pages())

	name, ok := s.Field("fullName")
	require.True(t, ok)
	assert.Equal(t, 2, name.Min)
	assert.Equal(t, 100, name.Max)

	values, ok := s.Field("values")
	require.True(t, ok)
	assert.Equal(t, KindMulti, values.Kind)
	assert.Equal(t, 3, values.Max)

	discovery, _ := s.Field("discovery")
	assert.Equal(t, 10, discovery.Min)

	for _, f := range s.Fields {
		assert.NotEmpty(t, f.Label, f.Name)
		if !f.Optional {
			assert.NotEmpty(t, f.Message, f.Name)
		}
	}
}

func TestValidateAcceptsCompleteForm(t *testing.T) {
	answers, errs := Default().Validate(validForm())
	require.Empty(t, errs)
	assert.Equal(t, "jane@example.org", answers["email"])
	assert.Equal(t, 7, answers["comfortFeedback"])
	assert.Equal(t, []string{"Regeneration"}, answers["values"])
	assert.NotContains(t, answers, "anythingElse")
}

func TestValidateFieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(url.Values)
		field   string
		message string
	}{
		{"short name", func(f url.Values) { f.Set("fullName", "J") }, "fullName", "Name must be at least 2 characters"},
		{"long name", func(f url.Values) { f.Set("fullName", strings.Repeat("x", 101)) }, "fullName", "Name must be less than 100 characters"},
		{"bad email", func(f url.Values) { f.Set("email", "jane.example.org") }, "email", "Please enter a valid email address"},
		{"short discovery", func(f url.Values) { f.Set("discovery", "friend") }, "discovery", "Please provide at least 10 characters"},
		{"short long answer", func(f url.Values) { f.Set("motivation", "too short") }, "motivation", "Please provide at least 50 characters"},
		{"no values", func(f url.Values) { f.Del("values") }, "values", "Please select at least one value"},
		{"four values", func(f url.Values) { f["values"] = []string{"a", "b", "c", "d"} }, "values", "Please select no more than 3 values"},
		{"scale too high", func(f url.Values) { f.Set("adaptToChange", "11") }, "adaptToChange", "Rating must be between 1 and 10"},
		{"scale zero", func(f url.Values) { f.Set("adaptToChange", "0") }, "adaptToChange", "Please select a rating"},
		{"scale not a number", func(f url.Values) { f.Set("adaptToChange", "seven") }, "adaptToChange", "Please select a rating"},
		{"no choice", func(f url.Values) { f.Del("stability") }, "stability", "Please select an option"},
		{"no experience area", func(f url.Values) { f.Del("experienceAreas") }, "experienceAreas", "Please select at least one area"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(form)
			answers, errs := Default().Validate(form)
			assert.Nil(t, answers)
			assert.Equal(t, tt.message, errs[tt.field])
		})
	}
}

func TestValidateKeepsFilledOptionalFields(t *testing.T) {
	form := validForm()
	form.Set("anythingElse", "  thanks  ")
	answers, errs := Default().Validate(form)
	require.Empty(t, errs)
	assert.Equal(t, "thanks", answers["anythingElse"])
}

func TestParseRejectsBadSchemas(t *testing.T) {
	_, err := Parse([]byte("fields:\n  - name: a\n    kind: text\n  - name: a\n    kind: text\n"))
	assert.ErrorContains(t, err, "duplicate")

	_, err = Parse([]byte("fields:\n  - name: a\n    kind: slider\n"))
	assert.ErrorContains(t, err, "unknown kind")
}

func TestAnswersString(t *testing.T) {
	a := Answers{"s": "x", "m": []string{"a", "b"}, "n": 4}
	assert.Equal(t, "x", a.String("s"))
	assert.Equal(t, "a, b", a.String("m"))
	assert.Equal(t, "4", a.String("n"))
	assert.Equal(t, "", a.String("missing"))
}
