package handlers

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Validation limits shared by the entity payloads.
const (
	maxNameLen     = 255
	maxTitleLen    = 300
	maxSlugLen     = 300
	maxBodyLen     = 100_000
	maxTextLen     = 5_000
	maxExcerptLen  = 1_000
	maxMetaDescLen = 500
	maxPhoneLen    = 50
	maxLicenseLen  = 100
	maxIconLen     = 100
	maxPostalLen   = 20
	maxWebsiteLen  = 500
	maxCommentLen  = 5_000
	minPasswordLen = 8
	maxBulkIDs     = 500
)

// fieldErrors collects one message per invalid field. The first message
// recorded for a field wins.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) ok() bool {
	return len(f) == 0
}

// required trims value and records an error when it is empty.
func (f fieldErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f.add(field, fmt.Sprintf("The %s field is required.", humanize(field)))
	}
}

// maxLen counts runes, not bytes.
func (f fieldErrors) maxLen(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		f.add(field, fmt.Sprintf("The %s may not be greater than %d characters.", humanize(field), max))
	}
}

func (f fieldErrors) email(field, value string) {
	if value == "" {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		f.add(field, fmt.Sprintf("The %s must be a valid email address.", humanize(field)))
	}
}

func (f fieldErrors) requiredID(field string, id uuid.UUID) {
	if id == uuid.Nil {
		f.add(field, fmt.Sprintf("The %s field is required.", humanize(field)))
	}
}

func (f fieldErrors) nonNegative(field string, n float64) {
	if n < 0 {
		f.add(field, fmt.Sprintf("The %s must be at least 0.", humanize(field)))
	}
}

// oneOf accepts an empty value; pair it with required when the field is
// mandatory.
func oneOf[T ~string](f fieldErrors, field string, value T, allowed ...T) {
	if value == "" || slices.Contains(allowed, value) {
		return
	}
	f.add(field, fmt.Sprintf("The selected %s is invalid.", humanize(field)))
}

// humanize turns a JSON field name into words: "license_number" becomes
// "license number" and "parent_id" becomes "parent".
func humanize(field string) string {
	field = strings.TrimSuffix(field, "_id")
	field = strings.TrimSuffix(field, "_ids")
	return strings.ReplaceAll(field, "_", " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// trimPtr trims *s and turns blank strings into nil.
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
