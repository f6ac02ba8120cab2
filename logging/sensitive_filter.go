// Package logging builds the process-wide zap logger: console + rotating
// file output with sensitive data redaction applied before anything is
// written.
package logging

import (
	"regexp"
	"strings"
)

// RedactedPlaceholder is the string used to replace sensitive data.
const RedactedPlaceholder = "[REDACTED]"

// sensitivePatterns contains compiled regex patterns for detecting sensitive
// data. Compiled once at package initialization.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(AIza[a-zA-Z0-9_-]{35})`),            // Google API keys
	regexp.MustCompile(`(?i)([a-f0-9]{32}:[a-f0-9]{32})`),        // Fal key-id:key-secret pairs
	regexp.MustCompile(`(?i)(key-[a-zA-Z0-9_-]{20,})`),           // prefixed API keys
	regexp.MustCompile(`(?i)(bearer\s+[a-zA-Z0-9._-]{20,})`),     // Bearer tokens
	regexp.MustCompile(`\$2[aby]\$\d{2}\$[./a-zA-Z0-9]{53}`),     // bcrypt hashes
	regexp.MustCompile(`(?i)(password\s*[:=]\s*[^\s,;]{8,})`),    // password= or password:
	regexp.MustCompile(`(?i)(secret\s*[:=]\s*[^\s,;]{8,})`),      // secret= or secret:
	regexp.MustCompile(`(?i)(token\s*[:=]\s*[^\s,;]{8,})`),       // token= or token:
	regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*[^\s,;]{8,})`), // api_key= or apikey:
}

// sensitiveFieldPrefixes are field/env var name fragments that indicate
// sensitive data regardless of the value.
var sensitiveFieldPrefixes = []string{
	"FAL_KEY",
	"GEMINI_API_KEY",
	"PAINTLY_ADMIN_PASSWORD_HASH",
	"PASSWORD",
	"SECRET",
	"TOKEN",
	"API_KEY",
	"APIKEY",
}

// RedactSensitiveData scans a string and redacts any detected sensitive
// data. Pure function.
func RedactSensitiveData(value string) string {
	if value == "" {
		return value
	}
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedPlaceholder)
	}
	return result
}

// RedactField redacts a field value when the field name indicates sensitive
// data, and scans the value itself otherwise.
func RedactField(fieldName, fieldValue string) string {
	if IsSensitiveField(fieldName) {
		return RedactedPlaceholder
	}
	return RedactSensitiveData(fieldValue)
}

// IsSensitiveField reports whether the field name alone marks the value as
// sensitive.
func IsSensitiveField(fieldName string) bool {
	upperName := strings.ToUpper(fieldName)
	for _, prefix := range sensitiveFieldPrefixes {
		if strings.Contains(upperName, prefix) {
			return true
		}
	}
	return false
}

// ContainsSensitiveData reports whether the value matches any sensitive
// data pattern.
func ContainsSensitiveData(value string) bool {
	if value == "" {
		return false
	}
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}
