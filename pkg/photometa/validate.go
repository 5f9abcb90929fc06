package photometa

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single conformance failure.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var validate = validator.New()

// Validate checks a parsed response map against the canonical field set:
// the key set must match exactly, non-null values must carry the declared
// JSON type, and fields with range constraints must satisfy them.
func Validate(rec Record) []ValidationError {
	var errs []ValidationError

	for _, f := range Fields {
		val, ok := rec[f.Name]
		if !ok {
			errs = append(errs, ValidationError{
				Field:   f.Name,
				Message: "field is missing from response",
			})
			continue
		}
		if val == nil {
			continue
		}
		if err := checkType(f, val); err != nil {
			errs = append(errs, ValidationError{Field: f.Name, Message: err.Error(), Value: val})
			continue
		}
		if f.Validators != "" {
			if err := validate.Var(val, f.Validators); err != nil {
				errs = append(errs, ValidationError{
					Field:   f.Name,
					Message: fmt.Sprintf("value %v violates constraint %q", val, f.Validators),
					Value:   val,
				})
			}
		}
	}

	for key := range rec {
		if _, ok := fieldIndex[key]; !ok {
			errs = append(errs, ValidationError{
				Field:   key,
				Message: "field is not part of the metadata schema",
				Value:   rec[key],
			})
		}
	}

	return errs
}

// checkType verifies a non-null value against the declared field type.
// JSON numbers arrive as float64 regardless of integer-ness.
func checkType(f Field, val any) error {
	switch f.Type {
	case TypeString:
		if _, ok := val.(string); !ok {
			return fmt.Errorf("expected string, got %T", val)
		}
	case TypeInteger:
		n, ok := val.(float64)
		if !ok {
			return fmt.Errorf("expected integer, got %T", val)
		}
		if n != math.Trunc(n) {
			return fmt.Errorf("expected integer, got fractional number %v", n)
		}
	case TypeNumber:
		if _, ok := val.(float64); !ok {
			return fmt.Errorf("expected number, got %T", val)
		}
	case TypeBoolean:
		if _, ok := val.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", val)
		}
	}
	return nil
}
