package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FormField is the field name used for errors that concern the whole input
// rather than a single field.
const FormField = "form"

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// New returns a single-entry ValidationErrors.
func New(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsBlank reports whether an optional string is missing or empty.
func IsBlank(s *string) bool {
	return s == nil || IsEmpty(*s)
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidUUID accepts the canonical 36 character form of a UUIDv7, the
// only kind of id the service issues.
func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	id, err := uuid.Parse(s)
	return err == nil && id.Version() == 7 && id.Variant() == uuid.RFC4122
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Phone number validation. Accepts Turkish mobile and landline numbers
// written as 0XXXXXXXXXX, 90XXXXXXXXXX or +90XXXXXXXXXX.
func IsValidPhoneNumber(phone string) bool {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	phone = strings.ReplaceAll(phone, "(", "")
	phone = strings.ReplaceAll(phone, ")", "")

	switch {
	case strings.HasPrefix(phone, "+90"):
		phone = strings.TrimPrefix(phone, "+90")
	case strings.HasPrefix(phone, "90") && len(phone) == 12:
		phone = strings.TrimPrefix(phone, "90")
	case strings.HasPrefix(phone, "0"):
		phone = strings.TrimPrefix(phone, "0")
	default:
		return false
	}

	return len(phone) == 10 && IsNumeric(phone) && !strings.HasPrefix(phone, "0")
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// IsValidDateTime checks if a string is a valid ISO8601 timestamp.
// Accepts formats like: "2024-01-15T10:30:00Z" or "2024-01-15T10:30:00+03:00"
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, dateTimeStr)
	if err == nil {
		return t, true
	}

	t, err = time.Parse(time.RFC3339Nano, dateTimeStr)
	if err == nil {
		return t, true
	}

	return time.Time{}, false
}

// IsValidMonth checks a 1-12 month number.
func IsValidMonth(month int) bool {
	return month >= 1 && month <= 12
}
