package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldLabels maps struct field names to the labels used in error messages.
var fieldLabels = map[string]string{
	"Email":           "Email",
	"Password":        "Password",
	"CurrentPassword": "Current password",
	"NewPassword":     "New password",
	"CountryCode":     "Country code",
	"MobileNumber":    "Mobile number",
	"Role":            "Role",
	"Token":           "Token",

	"Name":              "Name",
	"City":              "City",
	"Category":          "Category",
	"ExperienceYears":   "Experience years",
	"SalaryExpectation": "Salary expectation",
	"Institution":       "Institution",
	"Degree":            "Degree",
	"FieldOfStudy":      "Field of study",
	"StartDate":         "Start date",
	"EndDate":           "End date",

	"CompanyName": "Company name",

	"Title":         "Title",
	"Description":   "Description",
	"Requirements":  "Requirements",
	"WorkType":      "Work type",
	"RequiredYears": "Required years",
	"JobID":         "Job",
	"Score":         "Score",
}

// FormatBindingError turns a ShouldBind error into one readable message.
// Non-validator errors (malformed JSON, wrong types) fall back to a generic
// message so internals never leak to the client.
func FormatBindingError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}

	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, formatFieldError(e))
	}
	return strings.Join(messages, "; ")
}

func formatFieldError(e validator.FieldError) string {
	label := fieldLabels[e.Field()]
	if label == "" {
		label = e.Field()
	}

	switch e.Tag() {
	case "required":
		return label + " is required"
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, e.Param())
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, e.Param())
	case "email":
		return label + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(e.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be %s or more", label, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less", label, e.Param())
	case "valid_name":
		return label + " may only contain letters, spaces and . ' - /"
	case "valid_phone":
		return label + " must be a valid phone number"
	case "country_code":
		return label + " must be a valid dialing code"
	default:
		return label + " is invalid"
	}
}
