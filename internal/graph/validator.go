package graph

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"libraryapi/internal/httpx"
)

var validate *validator.Validate

var (
	isbnPrefix = regexp.MustCompile(`^ISBN(?:-1[03])?:? +`)
	isbnShape  = regexp.MustCompile(`^[0-9](?:[- ]?[0-9])*(?:[- ]?[0-9X])$`)
	isbn10     = regexp.MustCompile(`^\d{9}[\dX]$`)
	isbn13     = regexp.MustCompile(`^97[89]\d{10}$`)
)

var requiredMessages = map[string]string{
	"title":     "Title is required",
	"author":    "Author is required",
	"isbn":      "ISBN is required",
	"available": "Available status is required",
}

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = validate.RegisterValidation("notblank", validateNotBlank)
	_ = validate.RegisterValidation("isbnformat", validateISBN)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateISBN(fl validator.FieldLevel) bool {
	return ValidISBN(fl.Field().String())
}

// ValidISBN reports whether s looks like an ISBN-10 or ISBN-13. Hyphens or
// single spaces may separate digit groups and an "ISBN" prefix is allowed.
// Check digits are not verified.
func ValidISBN(s string) bool {
	body := isbnPrefix.ReplaceAllString(s, "")
	if !isbnShape.MatchString(body) {
		return false
	}
	digits := strings.NewReplacer("-", "", " ", "").Replace(body)
	switch len(digits) {
	case 10:
		return isbn10.MatchString(digits)
	case 13:
		return isbn13.MatchString(digits)
	}
	return false
}

// ValidationError reports input that fails field-level constraints.
type ValidationError struct {
	Details []httpx.ErrorDetail
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		msgs = append(msgs, d.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code":    "BAD_USER_INPUT",
		"details": e.Details,
	}
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	details := make([]httpx.ErrorDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()

		var message string
		switch fe.Tag() {
		case "required", "notblank":
			message = requiredMessages[field]
		case "isbnformat":
			message = "Invalid ISBN format"
		case "gt":
			message = "Publish year must be positive"
		}
		if message == "" {
			message = fmt.Sprintf("%s is invalid", field)
		}

		details = append(details, httpx.ErrorDetail{Field: field, Message: message})
	}
	return &ValidationError{Details: details}
}
