package contract

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidationErrors maps a form field to its message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

var fieldMessages = map[string]string{
	"title":           "Title must be at least 3 characters",
	"total_quantity":  "Quantity must be at least 1",
	"box_size":        "Box size is required",
	"items_per_box":   "Items per box must be at least 1",
	"total_weight_kg": "Weight must be positive",
	"status":          "Status must be one of draft, preparing, shipped, delivered, cancelled",
	"progress":        "Progress must be between 0 and 100",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// ValidateInput checks the contract form. It runs before any store call.
func ValidateInput(in Input) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := ValidationErrors{}
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fe.Error()
		}
		out[fe.Field()] = msg
	}
	return out
}

// normalize trims free text and fills the status/progress defaults.
func normalize(in Input) Input {
	in.Title = strings.TrimSpace(in.Title)
	in.BoxSize = strings.TrimSpace(in.BoxSize)
	if in.Status == "" {
		in.Status = StatusDraft
	}
	return in
}

// initialProgress resolves the progress a new or edited contract starts with.
func initialProgress(in Input, current int) int {
	if in.Progress != nil {
		return *in.Progress
	}
	if p, ok := DefaultProgress(in.Status); ok {
		return p
	}
	return current
}
