package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hyperengineering/ayurcare/internal/types"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// String renders the error as "field message".
func (e ValidationError) String() string {
	return e.Field + " " + e.Message
}

// Collector accumulates validation errors without failing on first.
type Collector struct {
	errors []ValidationError
}

// Add appends a validation error to the collector if non-nil.
func (c *Collector) Add(err *ValidationError) {
	if err != nil {
		c.errors = append(c.errors, *err)
	}
}

// HasErrors returns true if the collector has accumulated any errors.
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// Errors returns all accumulated validation errors.
func (c *Collector) Errors() []ValidationError {
	return c.errors
}

// Strings returns the accumulated errors as "field message" strings.
func (c *Collector) Strings() []string {
	out := make([]string, len(c.errors))
	for i, e := range c.errors {
		out[i] = e.String()
	}
	return out
}

// ValidateUTF8 returns an error if the value is not valid UTF-8.
func ValidateUTF8(field, value string) *ValidationError {
	if !utf8.ValidString(value) {
		return &ValidationError{
			Field:   field,
			Message: "must be valid UTF-8",
		}
	}
	return nil
}

// ValidateNoNullBytes returns an error if the value contains null bytes.
func ValidateNoNullBytes(field, value string) *ValidationError {
	if strings.Contains(value, "\x00") {
		return &ValidationError{
			Field:   field,
			Message: "must not contain null bytes",
		}
	}
	return nil
}

// ValidateMaxLength returns an error if the value exceeds max runes.
func ValidateMaxLength(field, value string, max int) *ValidationError {
	if utf8.RuneCountInString(value) > max {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("exceeds maximum length of %d characters", max),
		}
	}
	return nil
}

// ValidateULID returns an error if the value is not a valid ULID format.
// ULIDs are 26 characters using Crockford Base32 (excludes I, L, O, U).
func ValidateULID(field, value string) *ValidationError {
	if len(value) != 26 {
		return &ValidationError{
			Field:   field,
			Message: "must be a valid ULID (26 characters)",
		}
	}

	const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
	for _, r := range strings.ToUpper(value) {
		if !strings.ContainsRune(crockfordBase32, r) {
			return &ValidationError{
				Field:   field,
				Message: "must be a valid ULID (invalid character)",
			}
		}
	}
	return nil
}

// ValidateRequired returns an error if the value is empty or whitespace-only.
func ValidateRequired(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   field,
			Message: "is required",
		}
	}
	return nil
}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// ValidateEmail returns an error unless value looks like local@domain.tld.
func ValidateEmail(field, value string) *ValidationError {
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		return &ValidationError{
			Field:   field,
			Message: "must be a valid email address",
		}
	}
	return nil
}

// dateLayouts are tried in order; the first that parses wins, so
// "03/04/2026" is read as March 4th.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
}

// ParseDate parses value in any accepted layout and returns it as
// YYYY-MM-DD.
func ParseDate(field, value string) (string, *ValidationError) {
	v := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", &ValidationError{
		Field:   field,
		Message: "must be a date in YYYY-MM-DD, MM/DD/YYYY, DD/MM/YYYY or YYYY/MM/DD format",
	}
}

var (
	time24Pattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)
	time12Pattern = regexp.MustCompile(`^(0?[1-9]|1[0-2]):([0-5][0-9])\s*([AaPp][Mm])$`)
)

// ParseTime accepts HH:MM (24 hour) or HH:MM AM/PM and returns the time as
// 24-hour HH:MM, so "2:30 pm" and "14:30" name the same slot.
func ParseTime(field, value string) (string, *ValidationError) {
	v := strings.TrimSpace(value)
	if m := time24Pattern.FindStringSubmatch(v); m != nil {
		return fmt.Sprintf("%02d:%s", atoi(m[1]), m[2]), nil
	}
	if m := time12Pattern.FindStringSubmatch(v); m != nil {
		h := atoi(m[1]) % 12
		if strings.EqualFold(m[3], "pm") {
			h += 12
		}
		return fmt.Sprintf("%02d:%s", h, m[2]), nil
	}
	return "", &ValidationError{
		Field:   field,
		Message: "must be a time in HH:MM or HH:MM AM/PM format",
	}
}

// atoi is only called on digits matched by the time patterns.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// Maximum lengths for appointment text fields.
const (
	MaxNameLength  = 200
	MaxIssueLength = 2000
	MaxFieldLength = 200
)

// AppointmentResult is the outcome of validating a booking request. Missing
// lists required fields that were absent or blank; Errors holds format
// failures for fields that were present.
type AppointmentResult struct {
	Appointment types.NewAppointment
	Missing     []string
	Errors      Collector
}

// Valid reports whether the request can be stored.
func (r *AppointmentResult) Valid() bool {
	return len(r.Missing) == 0 && !r.Errors.HasErrors()
}

// ValidateAppointment checks a booking request and normalises its date and
// time. Format checks run only when every required field is present.
func ValidateAppointment(req types.SaveAppointmentRequest) *AppointmentResult {
	res := &AppointmentResult{}

	required := []struct{ field, value string }{
		{"name", req.Name},
		{"email", req.Email},
		{"phone", req.Phone},
		{"doctor_type", req.DoctorType},
		{"issue", req.Issue},
		{"appointment_date", req.AppointmentDate},
		{"appointment_time", req.AppointmentTime},
	}
	for _, f := range required {
		if ValidateRequired(f.field, f.value) != nil {
			res.Missing = append(res.Missing, f.field)
		}
	}
	if len(res.Missing) > 0 {
		return res
	}

	for _, f := range required {
		res.Errors.Add(ValidateUTF8(f.field, f.value))
		res.Errors.Add(ValidateNoNullBytes(f.field, f.value))
	}
	res.Errors.Add(ValidateMaxLength("name", req.Name, MaxNameLength))
	res.Errors.Add(ValidateMaxLength("phone", req.Phone, MaxFieldLength))
	res.Errors.Add(ValidateMaxLength("doctor_type", req.DoctorType, MaxFieldLength))
	res.Errors.Add(ValidateMaxLength("issue", req.Issue, MaxIssueLength))
	res.Errors.Add(ValidateEmail("email", req.Email))

	date, derr := ParseDate("appointment_date", req.AppointmentDate)
	res.Errors.Add(derr)
	tm, terr := ParseTime("appointment_time", req.AppointmentTime)
	res.Errors.Add(terr)

	res.Appointment = types.NewAppointment{
		PatientName:     req.Name,
		PatientEmail:    req.Email,
		PatientPhone:    req.Phone,
		DoctorType:      req.DoctorType,
		HealthIssue:     req.Issue,
		AppointmentDate: date,
		AppointmentTime: tm,
	}
	return res
}
