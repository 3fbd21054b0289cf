package core

// coerce.go converts raw cell values into canonical form. Coercion is
// deliberately permissive: it never rejects a value, it substitutes a domain
// fallback and keeps the original text for audit. The messy reality of field
// office spreadsheets means strictness here would silently shed data.

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts covers the formats seen in exported sheets, unambiguous
// four-digit-year forms first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"01/02/2006",
	"1-2-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// EnumResult is the outcome of coercing one closed-domain value.
type EnumResult struct {
	Value    string // always a domain member
	Other    string // original text when the fallback was substituted, "" otherwise
	Warnings []ValidationError
	Raw      string // original text to retain in rawData; "" when accepted as-is
}

// Coercer applies per-field coercion rules against injected domain tables.
// Now is substitutable so tests get deterministic "current time" defaults.
type Coercer struct {
	domains map[Field]Domain
	now     func() time.Time
}

// NewCoercer builds a Coercer over the given domain tables. A nil now
// function defaults to time.Now.
func NewCoercer(domains []Domain, now func() time.Time) *Coercer {
	c := &Coercer{
		domains: make(map[Field]Domain, len(domains)),
		now:     now,
	}
	if c.now == nil {
		c.now = time.Now
	}
	for _, d := range domains {
		c.domains[d.Field] = d
	}
	return c
}

// Domain returns the domain table for a field, if one is registered.
func (c *Coercer) Domain(f Field) (Domain, bool) {
	d, ok := c.domains[f]
	return d, ok
}

// CoerceEnum validates raw against the field's domain. An exact match (after
// trimming) is accepted. Anything else becomes the domain fallback with one
// warning, and the original text is returned for the companion field and the
// rawData channel. Empty input coerces silently to the fallback.
func (c *Coercer) CoerceEnum(f Field, raw string) EnumResult {
	d, ok := c.domains[f]
	if !ok {
		return EnumResult{Value: strings.TrimSpace(raw)}
	}

	v := strings.TrimSpace(raw)
	if d.Contains(v) {
		return EnumResult{Value: v}
	}

	res := EnumResult{Value: d.Fallback}
	if v == "" {
		return res
	}

	res.Raw = v
	if d.OtherField != "" {
		res.Other = v
	}
	res.Warnings = append(res.Warnings, ValidationError{
		Field:   string(f),
		Message: fmt.Sprintf("%s is not a valid %s", v, d.Label),
		Value:   v,
	})
	return res
}

// CoerceDate parses a raw date value. Missing or unparsable input defaults
// to the current time with no warning. The second return reports whether the
// value actually parsed.
func (c *Coercer) CoerceDate(raw string) (time.Time, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return c.now(), false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return c.now(), false
}

// CoerceEcommerce maps the e-commerce flag onto {"Y","N"}. Accepts
// case-insensitive y/yes and n/no; anything else, including empty, defaults
// silently to "N".
func CoerceEcommerce(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "Y", "YES":
		return "Y"
	case "N", "NO":
		return "N"
	default:
		return "N"
	}
}
