package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"shopfront/internal/domain"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ     = regexp.MustCompile(`^[A-Za-z0-9 _'\\-]{1,50}$`)
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	// report json field names rather than Go field names
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = val.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return Password(fl.Field().String())
	})
	_ = val.RegisterValidation("mail", func(fl validator.FieldLevel) bool {
		_, ok := Email(fl.Field().String())
		return ok
	})
	return val
}

// Struct runs the `validate` tags of s and reports the first failure as a
// domain validation error.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		fe := vErrs[0]
		switch fe.Tag() {
		case "required":
			return domain.Invalid("%s value missing", fe.Field())
		case "min", "gte":
			return domain.Invalid("%s must be at least %s", fe.Field(), fe.Param())
		case "max", "lte":
			return domain.Invalid("%s must be at most %s", fe.Field(), fe.Param())
		case "mail":
			return domain.Invalid("invalid email format")
		case "password":
			return domain.Invalid("password must be 8-64 chars with upper, lower, digit and symbol")
		case "oneof":
			return domain.Invalid("%s must be one of %s", fe.Field(), fe.Param())
		default:
			return domain.Invalid("%s is invalid", fe.Field())
		}
	}
	return domain.Invalid("%v", err)
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// ID parses a positive numeric resource identifier.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Page parses page/limit query values. Missing or invalid values fall back to
// page 1 and limit 12; limit is capped at 100.
func Page(pageRaw, limitRaw string) (page, limit int) {
	page, err := strconv.Atoi(strings.TrimSpace(pageRaw))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(strings.TrimSpace(limitRaw))
	if err != nil || limit < 1 {
		limit = 12
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, true
}

// Password enforces length and character-class rules.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
