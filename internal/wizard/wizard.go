// Package wizard implements the sequential form flow used by the shop
// registration page: ordered step sections, one active at a time, advanced
// only after the current section validates.
package wizard

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Message keys for field-level errors, resolved through the locale bundle.
// Selection priority per field: missing value, then email format (email
// fields only), then too short, then generic invalid.
const (
	MsgRequired    = "form.errorRequired"
	MsgEmailFormat = "form.errorEmailFormat"
	MsgTooShort    = "form.errorPasswordShort"
	MsgInvalid     = "form.errorInvalid"
)

// Field declares the constraints of a single input.
type Field struct {
	Name      string
	Kind      string // text, email, password, tel, select, textarea
	Required  bool
	MinLength int
	Pattern   *regexp.Regexp
}

// Step is one visible section of the form.
type Step struct {
	Name   string
	Fields []Field
}

// FieldError pairs a field name with its localized message key.
type FieldError struct {
	Field string
	Key   string
}

var validate = validator.New()

// Validate checks every field of one step against its constraints, in field
// order. At most one error is reported per field.
func Validate(step Step, values map[string]string) []FieldError {
	var errs []FieldError
	for _, f := range step.Fields {
		if key, ok := checkField(f, values[f.Name]); !ok {
			errs = append(errs, FieldError{Field: f.Name, Key: key})
		}
	}
	return errs
}

func checkField(f Field, value string) (string, bool) {
	if f.Required && validate.Var(value, "required") != nil {
		return MsgRequired, false
	}
	if value == "" {
		return "", true
	}
	if f.Kind == "email" && validate.Var(value, "email") != nil {
		return MsgEmailFormat, false
	}
	if f.MinLength > 0 && validate.Var(value, fmt.Sprintf("min=%d", f.MinLength)) != nil {
		return MsgTooShort, false
	}
	if f.Pattern != nil && !f.Pattern.MatchString(value) {
		return MsgInvalid, false
	}
	return "", true
}

// Wizard tracks the active step index. The invariant 0 <= current < len(steps)
// holds across every transition.
type Wizard struct {
	steps   []Step
	current int
}

func New(steps []Step) *Wizard {
	return &Wizard{steps: steps}
}

// Restore clamps a persisted index back into range.
func (w *Wizard) Restore(index int) {
	if index < 0 {
		index = 0
	}
	if index > len(w.steps)-1 {
		index = len(w.steps) - 1
	}
	w.current = index
}

func (w *Wizard) Current() int { return w.current }
func (w *Wizard) Count() int   { return len(w.steps) }

// Step returns the active step definition.
func (w *Wizard) Step() Step { return w.steps[w.current] }

// Next validates the current step only. Errors block the transition; a valid
// step advances the index by one, saturating at the last step.
func (w *Wizard) Next(values map[string]string) []FieldError {
	errs := Validate(w.steps[w.current], values)
	if len(errs) > 0 {
		return errs
	}
	if w.current < len(w.steps)-1 {
		w.current++
	}
	return nil
}

// Prev retreats by one step, saturating at the first. Retreat never validates.
func (w *Wizard) Prev() {
	if w.current > 0 {
		w.current--
	}
}

// Controls describes the step navigation affordances: the previous control
// is disabled only on the first step, the next control is hidden and the
// submit control shown only on the last.
type Controls struct {
	PrevDisabled  bool
	NextHidden    bool
	SubmitVisible bool
}

func (w *Wizard) Controls() Controls {
	last := w.current == len(w.steps)-1
	return Controls{
		PrevDisabled:  w.current == 0,
		NextHidden:    last,
		SubmitVisible: last,
	}
}

// FirstInvalid names the field that should receive focus, or "".
func FirstInvalid(errs []FieldError) string {
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Field
}
