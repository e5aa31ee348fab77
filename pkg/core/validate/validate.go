// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package validate checks field-level and cross-field constraints on
// candidate car and customer records before they may be submitted to
// the record service. Checks are pure and synchronous; a failed check
// blocks the submission entirely, so no partial request is ever sent.
// The constraint rules themselves are declared as validation tags on
// the model structs and evaluated by the go-playground validator,
// while this package translates its output into field-scoped errors
// which can be rendered next to the offending inputs.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/momeni/dealership/pkg/core/model"
)

// pictureTypes is the closed allow-list of picture media types which
// may be attached to a car record.
var pictureTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// FieldError describes one violated constraint, scoped to the field
// which carries the offending value.
type FieldError struct {
	Field  string // lower-cased field name, e.g., year
	Reason string // human readable constraint description
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// FieldErrors aggregates all violated constraints of one candidate
// record. It is never empty when returned in place of a nil error.
type FieldErrors []FieldError

// Error implements the error interface, joining all field errors.
func (e FieldErrors) Error() string {
	reasons := make([]string, len(e))
	for i, fe := range e {
		reasons[i] = fe.Error()
	}
	return strings.Join(reasons, "; ")
}

// ByField returns the reasons of all violated constraints, grouped by
// their field names, matching the shape which the REST adapter uses
// for reporting bad requests.
func (e FieldErrors) ByField() map[string][]string {
	m := make(map[string][]string, len(e))
	for _, fe := range e {
		m[fe.Field] = append(m[fe.Field], fe.Reason)
	}
	return m
}

var vldt = validator.New()

// Car checks the descriptive fields of a candidate car record and,
// when a picture attachment accompanies it, the attachment too.
// The picture is mandatory for creation and optional for an update
// (passing a nil picture keeps the stored one), which is decided by
// the caller through the pictureRequired flag.
// A nil return value indicates that the candidate may be submitted.
func Car(
	details model.CarDetails,
	picture *model.Attachment,
	pictureRequired bool,
) error {
	errs := structErrs(details)
	switch {
	case picture == nil || len(picture.Data) == 0:
		switch {
		case pictureRequired:
			errs = append(errs, FieldError{
				Field:  "picture",
				Reason: "a picture file is required",
			})
		case picture != nil:
			errs = append(errs, FieldError{
				Field:  "picture",
				Reason: "the picture file is empty",
			})
		}
	default:
		if _, ok := pictureTypes[picture.ContentType]; !ok {
			errs = append(errs, FieldError{
				Field: "picture",
				Reason: fmt.Sprintf(
					"%q is not an accepted image type",
					picture.ContentType,
				),
			})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Customer checks a candidate customer record: all three fields must
// be present, the phone number may contain digit characters only, and
// the email address must have a well-formed shape.
// A nil return value indicates that the candidate may be submitted.
func Customer(c model.Customer) error {
	if errs := structErrs(c); len(errs) != 0 {
		return errs
	}
	return nil
}

// structErrs evaluates the validation tags of the given struct and
// translates each violation into a FieldError. The validator reports
// struct field names; they are lower-cased at the first rune to match
// the wire-level field names which end-users recognize.
func structErrs(s any) FieldErrors {
	err := vldt.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// a non-struct argument is a programming error
		panic(err)
	}
	errs := make(FieldErrors, 0, len(verrs))
	for _, ferr := range verrs {
		errs = append(errs, FieldError{
			Field:  fieldName(ferr.Field()),
			Reason: reason(ferr),
		})
	}
	return errs
}

func fieldName(f string) string {
	if f == "" {
		return f
	}
	return strings.ToLower(f[:1]) + f[1:]
}

// reason maps a violated validation tag to a human readable
// description, mentioning the tag parameter where one exists.
func reason(ferr validator.FieldError) string {
	switch ferr.Tag() {
	case "required":
		return "a value is required"
	case "min":
		return "must be at least " + ferr.Param()
	case "email":
		return "is not a valid email address"
	case "number":
		return "must contain digits only"
	default:
		return "failed on the '" + ferr.Tag() + "' constraint"
	}
}
