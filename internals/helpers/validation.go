package helper

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	reUserName = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	rePhoneIN  = regexp.MustCompile(`^(\+91[\-\s]?)?[6-9][0-9]{9}$`)
	reIFSC     = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	rePincode  = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	reDigits   = regexp.MustCompile(`^[0-9]+$`)
	reAcadYear = regexp.MustCompile(`^20[0-9]{2}-[0-9]{2}$`)

	validateOnce sync.Once
	validate     *validator.Validate
)

// ValidationErrors carries field -> messages and is rendered as a 400.
type ValidationErrors struct {
	Fields map[string][]string
}

func (e *ValidationErrors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationErrors) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationErrors) Empty() bool { return len(e.Fields) == 0 }

// FieldError is a one-field ValidationErrors, for checks done inside services.
func FieldError(field, msg string) error {
	ve := &ValidationErrors{}
	ve.Add(field, msg)
	return ve
}

func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return reUserName.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
			return IsStrongPassword(fl.Field().String())
		})
		_ = v.RegisterValidation("indian_phone", func(fl validator.FieldLevel) bool {
			return rePhoneIN.MatchString(strings.TrimSpace(fl.Field().String()))
		})
		_ = v.RegisterValidation("ifsc", func(fl validator.FieldLevel) bool {
			return reIFSC.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
			return rePincode.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
			return reDigits.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("academic_year", func(fl validator.FieldLevel) bool {
			return reAcadYear.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("aadhaar", func(fl validator.FieldLevel) bool {
			return IsValidAadhaar(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// IsStrongPassword: min 8 chars with an upper case letter, a lower case letter and a digit.
func IsStrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// Validate runs struct tags and converts failures to *ValidationErrors.
func Validate(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationErrors{}
	for _, fe := range verrs {
		out.Add(fieldPath(fe), messageFor(fe))
	}
	return out
}

type normalizer interface{ Normalize() }

// ParseAndValidate decodes the JSON body into dst, normalizes and validates it.
func ParseAndValidate(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return Validate(dst)
}

// fieldPath drops the top-level struct name: "RegisterRequest.email" -> "email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func messageFor(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required", "required_if", "required_with":
		return f + " is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "url":
		return "must be a valid URL"
	case "username":
		return "may contain only letters, numbers and underscores"
	case "strong_password":
		return "must be at least 8 characters with an uppercase letter, a lowercase letter and a number"
	case "indian_phone":
		return "must be a valid 10 digit Indian mobile number"
	case "ifsc":
		return "must be a valid IFSC code (e.g. SBIN0001234)"
	case "pincode":
		return "must be a valid 6 digit PIN code"
	case "digits":
		return "must contain digits only"
	case "aadhaar":
		return "must be a valid 12 digit Aadhaar number"
	case "academic_year":
		return "must look like 2025-26"
	case "datetime":
		return "must be a date in " + fe.Param() + " format"
	default:
		return "is invalid"
	}
}
