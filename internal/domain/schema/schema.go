// Package schema validates and normalizes inbound requests and the model's
// structured output. Every function is pure and reports all failing fields
// at once as an *entity.AppError with code VALIDATION_ERROR.
package schema

import (
	"fmt"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"

	"claims-triage/internal/domain/entity"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

var (
	validate   = newValidator()
	isoDateRx  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoDateFmt = "2006-01-02"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "isodate", isISODate)
	mustRegister(v, "httpurl", isHTTPURL)
	mustRegister(v, "finite", isFinite)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// isISODate accepts YYYY-MM-DD naming a real calendar day.
func isISODate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if !isoDateRx.MatchString(value) {
		return false
	}
	_, err := time.Parse(isoDateFmt, value)
	return err == nil
}

// isHTTPURL accepts absolute http and https URLs only.
func isHTTPURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func fieldErrors(err error) []entity.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []entity.FieldError{{Path: "", Message: err.Error()}}
	}
	out := make([]entity.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, entity.FieldError{Path: fieldPath(fe.Namespace()), Message: fieldMessage(fe)})
	}
	return out
}

// fieldPath turns "createClaimFields.attachments[2]" into "attachments.2".
func fieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		path = namespace
	}
	path = strings.ReplaceAll(path, "[", ".")
	return strings.ReplaceAll(path, "]", "")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return "Required"
	case "oneof":
		opts := strings.Fields(fe.Param())
		return fmt.Sprintf("Invalid enum value. Expected %s", strings.Join(opts, " | "))
	case "isodate":
		return "Invalid date format (expected YYYY-MM-DD)"
	case "httpurl":
		return "Invalid URL"
	case "finite":
		return "Expected a finite number"
	case "gte", "min":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "lte", "max":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	}
	return "Invalid value"
}
