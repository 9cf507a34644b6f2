package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FieldError describes one out-of-range or malformed field.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s=%v: %s", f.Field, f.Value, f.Reason)
}

// ValidationError reports malformed static configuration: fuel types, fire
// parameters, or a fuel-class state update. Every offending field is listed.
type ValidationError struct {
	Subject string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("invalid %s: %s", e.Subject, strings.Join(parts, "; "))
}

// Has reports whether the named field is among the failures.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// DomainError reports a physically invalid runtime input to an equation,
// such as negative moisture or non-positive particle geometry.
type DomainError struct {
	Op     string
	Field  string
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s=%g: %s", e.Op, e.Field, e.Value, e.Reason)
}

// SequenceError reports a weather observation that is not strictly after the
// last accumulated calendar day.
type SequenceError struct {
	Last time.Time
	Got  time.Time
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("observation for %s is not after last recorded day %s",
		e.Got.Format(time.DateOnly), e.Last.Format(time.DateOnly))
}

// interval is a documented plausible range for a numeric field.
type interval struct {
	lo, hi         float64
	openLo, openHi bool
}

func closed(lo, hi float64) interval   { return interval{lo: lo, hi: hi} }
func leftOpen(lo, hi float64) interval { return interval{lo: lo, hi: hi, openLo: true} }

func (r interval) contains(x float64) bool {
	if math.IsNaN(x) {
		return false
	}
	if x < r.lo || (r.openLo && x == r.lo) {
		return false
	}
	if x > r.hi || (r.openHi && x == r.hi) {
		return false
	}
	return true
}

func (r interval) String() string {
	l, h := "[", "]"
	if r.openLo {
		l = "("
	}
	if r.openHi {
		h = ")"
	}
	return fmt.Sprintf("must be in %s%g, %g%s", l, r.lo, r.hi, h)
}

// validator collects field failures so callers can fix them in one pass.
type validator struct {
	subject string
	fields  []FieldError
}

func (v *validator) within(field string, x float64, r interval) {
	if !r.contains(x) {
		v.fields = append(v.fields, FieldError{Field: field, Value: x, Reason: r.String()})
	}
}

func (v *validator) check(ok bool, field string, value any, reason string) {
	if !ok {
		v.fields = append(v.fields, FieldError{Field: field, Value: value, Reason: reason})
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Subject: v.subject, Fields: v.fields}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
