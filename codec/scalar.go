package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofhir/fhir/r4"
	"github.com/google/uuid"
)

// ScalarError reports a value that is not a valid instance of a FHIR type.
type ScalarError struct {
	Type    string
	Value   string
	Reasons []string
}

func (e *ScalarError) Error() string {
	return fmt.Sprintf("%d validation error(s): %s", len(e.Reasons), strings.Join(e.Reasons, " | "))
}

// Regular expressions from the R4 primitive type definitions.
const (
	yearPattern     = `([0-9]([0-9]([0-9][1-9]|[1-9]0)|[1-9]00)|[1-9]000)`
	timePattern     = `([01][0-9]|2[0-3]):[0-5][0-9]:([0-5][0-9]|60)(\.[0-9]+)?`
	timezonePattern = `(Z|(\+|-)((0[0-9]|1[0-3]):[0-5][0-9]|14:00))`
	monthPattern    = `(0[1-9]|1[0-2])`
	dayPattern      = `(0[1-9]|[1-2][0-9]|3[0-1])`
)

var primitivePatterns = map[string]string{
	"boolean":      `true|false`,
	"integer":      `[0]|[-+]?[1-9][0-9]*`,
	"positiveint":  `\+?[1-9][0-9]*`,
	"unsignedint":  `[0]|([1-9][0-9]*)`,
	"decimal":      `-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?`,
	"string":       `[ \r\n\t\S]+`,
	"markdown":     `\s*(\S|\s)*`,
	"code":         `[^\s]+(\s[^\s]+)*`,
	"id":           `[A-Za-z0-9\-\.]{1,64}`,
	"uri":          `\S*`,
	"url":          `\S*`,
	"canonical":    `\S*`,
	"oid":          `urn:oid:[0-2](\.(0|[1-9][0-9]*))+`,
	"base64binary": `(\s*([0-9a-zA-Z\+/=]){4}\s*)+`,
	"date":         yearPattern + `(-` + monthPattern + `(-` + dayPattern + `)?)?`,
	"datetime":     yearPattern + `(-` + monthPattern + `(-` + dayPattern + `(T` + timePattern + timezonePattern + `)?)?)?`,
	"instant":      yearPattern + `-` + monthPattern + `-` + dayPattern + `T` + timePattern + timezonePattern,
	"time":         timePattern,
}

// compiledPatterns holds primitivePatterns anchored to the whole value.
var compiledPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(primitivePatterns))
	for name, p := range primitivePatterns {
		m[name] = regexp.MustCompile("^(" + p + ")$")
	}
	return m
}()

// canonicalNames maps lookup keys back to FHIR type names for messages.
var canonicalNames = map[string]string{
	"boolean": "boolean", "integer": "integer", "positiveint": "positiveInt",
	"unsignedint": "unsignedInt", "decimal": "decimal", "string": "string",
	"markdown": "markdown", "code": "code", "id": "id", "uri": "uri",
	"url": "url", "canonical": "canonical", "oid": "oid", "uuid": "uuid",
	"base64binary": "base64Binary", "date": "date", "datetime": "dateTime",
	"instant": "instant", "time": "time",
	"coding": "Coding", "codeableconcept": "CodeableConcept",
	"identifier": "Identifier", "quantity": "Quantity", "period": "Period",
	"reference": "Reference",
}

// complexDecoders decode JSON object text into the matching r4 datatype.
var complexDecoders = map[string]func([]byte) error{
	"coding":          func(b []byte) error { var v r4.Coding; return strictUnmarshal(b, &v) },
	"codeableconcept": func(b []byte) error { var v r4.CodeableConcept; return strictUnmarshal(b, &v) },
	"identifier":      func(b []byte) error { var v r4.Identifier; return strictUnmarshal(b, &v) },
	"quantity":        func(b []byte) error { var v r4.Quantity; return strictUnmarshal(b, &v) },
	"period":          func(b []byte) error { var v r4.Period; return strictUnmarshal(b, &v) },
	"reference":       func(b []byte) error { var v r4.Reference; return strictUnmarshal(b, &v) },
}

// TypeKey normalizes a FHIR type name for lookup. Both "dateTime" and the
// choice-element form "valueDateTime" map to "datetime".
func TypeKey(fhirType string) string {
	t := strings.TrimSpace(fhirType)
	if len(t) > len("value") && strings.HasPrefix(t, "value") {
		if c := t[len("value")]; c >= 'A' && c <= 'Z' {
			t = t[len("value"):]
		}
	}
	return strings.ToLower(t)
}

// IsSupportedType reports whether ValidateScalar knows fhirType.
func IsSupportedType(fhirType string) bool {
	_, ok := canonicalNames[TypeKey(fhirType)]
	return ok
}

// SupportedTypes returns the FHIR type names ValidateScalar accepts, sorted.
func SupportedTypes() []string {
	names := make([]string, 0, len(canonicalNames))
	for _, n := range canonicalNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ValidateScalar checks that raw is a valid instance of fhirType without
// building any surrounding resource. Primitive types take their JSON string
// form; complex datatypes take JSON object text.
func ValidateScalar(fhirType, raw string) error {
	key := TypeKey(fhirType)
	name, ok := canonicalNames[key]
	if !ok {
		return &ScalarError{Type: fhirType, Value: raw, Reasons: []string{fmt.Sprintf("unsupported FHIR type %q", fhirType)}}
	}

	var reasons []string
	switch {
	case raw == "":
		reasons = append(reasons, "value must not be empty")
	case complexDecoders[key] != nil:
		reasons = validateComplex(key, name, raw)
	case key == "uuid":
		reasons = validateUUID(raw)
	default:
		reasons = validatePrimitive(key, name, raw)
	}

	if len(reasons) > 0 {
		return &ScalarError{Type: name, Value: raw, Reasons: reasons}
	}
	return nil
}

func validatePrimitive(key, name, raw string) []string {
	re := compiledPatterns[key]
	if !re.MatchString(raw) {
		return []string{fmt.Sprintf("value %q is not a valid %s", truncateValue(raw), name)}
	}

	var reasons []string
	switch key {
	case "integer", "positiveint", "unsignedint":
		n, err := strconv.ParseInt(strings.TrimPrefix(raw, "+"), 10, 64)
		if err != nil || n > math.MaxInt32 || n < math.MinInt32 {
			reasons = append(reasons, fmt.Sprintf("value %q is out of range for %s", truncateValue(raw), name))
		}
	case "date":
		if len(raw) == len("2006-01-02") {
			if _, err := time.Parse("2006-01-02", raw); err != nil {
				reasons = append(reasons, fmt.Sprintf("value %q is not a calendar date", raw))
			}
		}
	case "datetime", "instant":
		if len(raw) >= len("2006-01-02") {
			if _, err := time.Parse("2006-01-02", raw[:10]); err != nil {
				reasons = append(reasons, fmt.Sprintf("value %q is not a calendar date", truncateValue(raw)))
			}
		}
	case "string", "markdown":
		if len(raw) > 1024*1024 {
			reasons = append(reasons, fmt.Sprintf("%s exceeds 1MB", name))
		}
	}
	return reasons
}

func validateUUID(raw string) []string {
	const prefix = "urn:uuid:"
	if !strings.HasPrefix(raw, prefix) {
		return []string{fmt.Sprintf("value %q must start with %s", truncateValue(raw), prefix)}
	}
	id := strings.TrimPrefix(raw, prefix)
	if _, err := uuid.Parse(id); err != nil || len(id) != 36 {
		return []string{fmt.Sprintf("value %q is not a valid uuid", truncateValue(raw))}
	}
	if id != strings.ToLower(id) {
		return []string{"uuid must be lower case"}
	}
	return nil
}

func validateComplex(key, name, raw string) []string {
	data := []byte(strings.TrimSpace(raw))
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return []string{fmt.Sprintf("%s must be a JSON object", name)}
	}
	if len(obj) == 0 {
		return []string{fmt.Sprintf("%s must have a value or children", name)}
	}
	if err := complexDecoders[key](data); err != nil {
		return []string{fmt.Sprintf("invalid %s: %v", name, err)}
	}
	return nil
}

// strictUnmarshal rejects fields the datatype does not define.
func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// truncateValue truncates a value for display in error messages. It counts
// and cuts runes so the result stays valid UTF-8.
func truncateValue(value string) string {
	if utf8.RuneCountInString(value) <= 50 {
		return value
	}
	runes := []rune(value)
	return string(runes[:47]) + "..."
}
