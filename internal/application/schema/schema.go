// Package schema loads the application form definition and validates
// submissions against it.
package schema

import (
	_ "embed"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"ecohubs/pkg/email"
)

//go:embed questions.yaml
var questionsYAML []byte

type Kind string

const (
	KindText   Kind = "text"
	KindEmail  Kind = "email"
	KindChoice Kind = "choice"
	KindMulti  Kind = "multi"
	KindScale  Kind = "scale"
)

type Field struct {
	Name       string   `yaml:"name" json:"name"`
	Page       int      `yaml:"page" json:"page"`
	Kind       Kind     `yaml:"kind" json:"kind"`
	Label      string   `yaml:"label" json:"label"`
	Min        int      `yaml:"min" json:"min,omitempty"`
	Max        int      `yaml:"max" json:"max,omitempty"`
	Optional   bool     `yaml:"optional" json:"optional,omitempty"`
	Message    string   `yaml:"message" json:"-"`
	MaxMessage string   `yaml:"max_message" json:"-"`
	Column     string   `yaml:"column" json:"-"`
	Options    []string `yaml:"options" json:"options,omitempty"`
}

type Schema struct {
	Fields []Field `yaml:"fields" json:"fields"`
	byName map[string]int
}

// Default returns the embedded schema. It panics on a malformed file, which
// the package tests guard against.
func Default() *Schema {
	s, err := Parse(questionsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded questions.yaml: %v", err))
	}
	return s
}

func Parse(raw []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	s.byName = make(map[string]int, len(s.Fields))
	for i, f := range s.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field %d has no name", i)
		}
		if _, dup := s.byName[f.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		switch f.Kind {
		case KindText, KindEmail, KindChoice, KindMulti, KindScale:
		default:
			return nil, fmt.Errorf("field %q: unknown kind %q", f.Name, f.Kind)
		}
		s.byName[f.Name] = i
	}
	return &s, nil
}

func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// Pages returns the highest page number.
func (s *Schema) Pages() int {
	n := 0
	for _, f := range s.Fields {
		n = max(n, f.Page)
	}
	return n
}

// Answers holds validated values: string for text, email and choice
// fields, []string for multi, int for scale.
type Answers map[string]any

func (a Answers) String(name string) string {
	switch v := a[name].(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// FieldErrors maps field names to the first failure message.
type FieldErrors map[string]string

// Validate checks form against every field. Optional fields that are blank
// are left out of the answers.
func (s *Schema) Validate(form url.Values) (Answers, FieldErrors) {
	answers := make(Answers, len(s.Fields))
	errs := FieldErrors{}
	for _, f := range s.Fields {
		value, msg := f.validate(form)
		if msg != "" {
			errs[f.Name] = msg
			continue
		}
		if value != nil {
			answers[f.Name] = value
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return answers, nil
}

func (f Field) validate(form url.Values) (any, string) {
	switch f.Kind {
	case KindMulti:
		var picked []string
		for _, v := range form[f.Name] {
			if v = strings.TrimSpace(v); v != "" {
				picked = append(picked, v)
			}
		}
		if len(picked) == 0 && f.Optional {
			return nil, ""
		}
		if len(picked) < f.Min {
			return nil, f.Message
		}
		if f.Max > 0 && len(picked) > f.Max {
			return nil, f.MaxMessage
		}
		return picked, ""

	case KindScale:
		raw := strings.TrimSpace(form.Get(f.Name))
		if raw == "" && f.Optional {
			return nil, ""
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < f.Min {
			return nil, f.Message
		}
		if f.Max > 0 && n > f.Max {
			return nil, f.MaxMessage
		}
		return n, ""

	case KindEmail:
		addr := email.Normalize(form.Get(f.Name))
		if addr == "" && f.Optional {
			return nil, ""
		}
		if !email.Valid(addr) {
			return nil, f.Message
		}
		return addr, ""

	default:
		text := strings.TrimSpace(form.Get(f.Name))
		if text == "" && f.Optional {
			return nil, ""
		}
		n := utf8.RuneCountInString(text)
		if n < max(f.Min, 1) {
			return nil, orDefault(f.Message, "This field is required")
		}
		if f.Max > 0 && n > f.Max {
			return nil, f.MaxMessage
		}
		return text, ""
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
