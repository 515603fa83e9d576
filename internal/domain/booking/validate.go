package booking

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var schema = newSchema()

func newSchema() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks values against the intake rules and returns a field -> human
// message mapping. An empty map means the record is valid.
func Validate(values ContactFormValues) map[string]string {
	errs := map[string]string{}
	err := schema.Struct(values)
	if err == nil {
		return errs
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = genericFailure
		return errs
	}
	for _, fe := range verrs {
		field := fe.Field()
		// collapse guests[i] onto the guests field
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = messageFor(field)
	}
	return errs
}

// ValidateField re-runs the schema and reports the error for a single field,
// if any. Used for incremental validation as the user edits.
func ValidateField(values ContactFormValues, name string) (string, bool) {
	msg, ok := Validate(values)[name]
	return msg, ok
}

func messageFor(field string) string {
	switch field {
	case "full_name":
		return "Name must be at least 2 characters"
	case "email", "guests":
		return "Please enter a valid email address"
	case "demand":
		return "Consultation request must be at least 2 characters"
	case "field":
		return "Please select a field"
	}
	return "Invalid value"
}
