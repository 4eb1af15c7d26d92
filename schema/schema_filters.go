package schema

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// filterValidate checks the shape of Filters after normalization.
var filterValidate = validator.New()

// FilterInput holds the raw, optional filter values as the user typed them.
type FilterInput struct {
	Commit  string
	From    string
	To      string
	Since   string
	Until   string
	Author  string
	File    string
	Include string // comma-separated globs
	Exclude string // comma-separated globs
}

// Filters narrows the diff and commit log. Zero values mean "not set".
type Filters struct {
	Commit  string   `json:"commit,omitempty" yaml:"commit,omitempty" validate:"omitempty,hexadecimal,min=4,max=40"`
	From    string   `json:"from,omitempty" yaml:"from,omitempty" validate:"required_with=To"`
	To      string   `json:"to,omitempty" yaml:"to,omitempty" validate:"required_with=From"`
	Since   string   `json:"since,omitempty" yaml:"since,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Until   string   `json:"until,omitempty" yaml:"until,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Author  string   `json:"author,omitempty" yaml:"author,omitempty" validate:"omitempty,max=256"`
	File    string   `json:"file,omitempty" yaml:"file,omitempty"`
	Include []string `json:"include,omitempty" yaml:"include,omitempty" validate:"dive,required"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" validate:"dive,required"`
}

// NewFilters trims the raw input, drops unset fields and validates the rest.
// Since and Until must already be normalized to RFC3339.
func NewFilters(in FilterInput) (Filters, error) {
	f := Filters{
		Commit:  strings.TrimSpace(in.Commit),
		From:    strings.TrimSpace(in.From),
		To:      strings.TrimSpace(in.To),
		Since:   strings.TrimSpace(in.Since),
		Until:   strings.TrimSpace(in.Until),
		Author:  strings.TrimSpace(in.Author),
		File:    strings.TrimSpace(in.File),
		Include: SplitPatterns(in.Include),
		Exclude: SplitPatterns(in.Exclude),
	}
	if f.Commit != "" && f.From != "" {
		return Filters{}, fmt.Errorf("commit and commit range filters are mutually exclusive")
	}
	if err := filterValidate.Struct(f); err != nil {
		return Filters{}, fmt.Errorf("invalid filters: %w", err)
	}
	return f, nil
}

// SplitPatterns splits a comma-separated pattern list, dropping empty entries.
func SplitPatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return len(f.Map()) == 0
}

// Map returns only the filters that are set, keyed by name.
func (f Filters) Map() map[string]any {
	m := make(map[string]any)
	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	set("commit", f.Commit)
	set("from", f.From)
	set("to", f.To)
	set("since", f.Since)
	set("until", f.Until)
	set("author", f.Author)
	set("file", f.File)
	if len(f.Include) > 0 {
		m["include"] = f.Include
	}
	if len(f.Exclude) > 0 {
		m["exclude"] = f.Exclude
	}
	return m
}
