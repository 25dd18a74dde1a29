package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NonFieldKey groups validation problems that are not tied to a single input field.
const NonFieldKey = "non_field_errors"

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedBodyError  = NewSimple(http.StatusBadRequest, "Malformed request body")
	InternalServerError = NewSimple(http.StatusInternalServerError, "Internal server error")

	NotFoundError  = NewSimple(http.StatusNotFound, "Resource not found")
	ForbiddenError = NewSimple(http.StatusForbidden, "You do not have permission to perform this action")

	InvalidMediaTypeError    = NewSimple(http.StatusUnsupportedMediaType, "Content-Type must be application/json or multipart/form-data")
	FormJSONRequiredError    = NewSimple(http.StatusBadRequest, "Multipart requests must carry the body in the 'json_payload' field")
	MissingFileNameError     = NewSimple(http.StatusBadRequest, "Uploaded files must have a name")
	AttachmentsDisabledError = NewSimple(http.StatusBadRequest, "File attachments are not enabled on this server")

	/*
	 * Used for authentications
	 */
	UnauthorizedError        = NewSimple(http.StatusUnauthorized, "Authentication credentials were not provided")
	InvalidAuthTokenError    = NewSimple(http.StatusUnauthorized, "Invalid or expired authentication token")
	InvalidCredentialsError  = NewSimple(http.StatusUnauthorized, "Invalid credentials")
	IDPUserNotFoundError     = NewSimple(http.StatusUnauthorized, "User not found")
	IDPInvalidPasswordError  = NewSimple(http.StatusBadRequest, "Provided password does not meet requirements")
	IDPInvalidParameterError = NewSimple(http.StatusBadRequest, "Invalid parameters provided to the identity provider")
	IDPTooManyRequestsError  = NewSimple(http.StatusTooManyRequests, "Too many requests, try again later")
	IDPUserNotConfirmedError = NewSimple(http.StatusUnauthorized, "User is not confirmed yet")
	IDPUsernameTakenError    = NewFieldError("username", "A user with that username already exists")
	RegisterEmailTakenError  = NewFieldError("email", "A user with that email already exists")
	PasswordMismatchError    = NewFieldError("password", "Password fields didn't match")
	CategoryNameTakenError   = NewFieldError("name", "You already have a category with this name")
	CategoryNotFoundFieldErr = NewFieldError("category", "Category does not exist")
	CategoryHasNotesError    = NewFieldError(NonFieldKey, "Cannot delete a category that has associated notes")
	InvalidDueDateFieldError = NewFieldError("due_date", "Value must be an RFC3339 timestamp")
)

func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return NewFieldError(NonFieldKey, "Invalid input")
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := fieldName(fe)

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "hasupper":
			problems[field] = append(problems[field], "Value must have at least one uppercase character")
		case "haslower":
			problems[field] = append(problems[field], "Value must have at least one lowercase character")
		case "hasdigit":
			problems[field] = append(problems[field], "Value must have at least one number")
		case "nospaces":
			problems[field] = append(problems[field], "Value must not contain whitespaces")
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")
		case "eqfield":
			problems[field] = append(problems[field], "Value must match "+strings.ToLower(fe.Param()))
		case "gt":
			problems[field] = append(problems[field], "Value must be greater than "+fe.Param())
		case "datetime":
			problems[field] = append(problems[field], "Value must be an RFC3339 timestamp")

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

// fieldName maps a validator namespace like "TaskRequest.SharedWith[1]" into the
// JSON-ish key "shared_with".
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}

	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

// NewFieldError is a 400 StructuredError with a single problem for field.
func NewFieldError(field, problem string) *StructuredError {
	s := NewStructured(http.StatusBadRequest)
	s.Add(field, problem)
	return s
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}

func NewInvalidFileExtError(ext string) *APIError {
	return NewSimple(http.StatusBadRequest, "File extension '%s' is not allowed", ext)
}

func NewFileTooLargeError(max int64) *APIError {
	return NewSimple(http.StatusRequestEntityTooLarge, "Files cannot be larger than %d bytes", max)
}

// NewUnresolvedEmailsError reports every collaborator email that did not match
// a registered user.
func NewUnresolvedEmailsError(emails []string) *StructuredError {
	sorted := append([]string(nil), emails...)
	sort.Strings(sorted)
	return NewFieldError("shared_with",
		"The following emails are not registered users: "+strings.Join(sorted, ", "))
}
