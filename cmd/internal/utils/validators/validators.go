package validators

import (
	"reflect"
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var hasSpaces = regexp.MustCompile(`\s+`)

// Register installs every custom tag used by the request contracts.
func Register(validate *validator.Validate) {
	_ = validate.RegisterValidation("hasupper", HasUpper)
	_ = validate.RegisterValidation("haslower", HasLower)
	_ = validate.RegisterValidation("hasdigit", HasDigit)
	_ = validate.RegisterValidation("nospaces", NoWhiteSpaces)
}

// New returns a validator with the custom tags already registered.
func New() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func HasUpper(fl validator.FieldLevel) bool {
	return anyRune(fl, unicode.IsUpper)
}

func HasLower(fl validator.FieldLevel) bool {
	return anyRune(fl, unicode.IsLower)
}

func HasDigit(fl validator.FieldLevel) bool {
	return anyRune(fl, unicode.IsDigit)
}

// NoWhiteSpaces returns false if the string contains any whitespace (rejecting the user input).
func NoWhiteSpaces(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return !hasSpaces.MatchString(field.String())
}

func anyRune(fl validator.FieldLevel, match func(rune) bool) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	for _, ch := range val {
		if match(ch) {
			return true
		}
	}
	return false
}
