package codec

import (
	"fmt"
	"strings"

	tx "github.com/gofhir/txclient"
)

// requiredElements lists elements with min cardinality 1 in R4, for the
// resources a terminology client reads. A "[]" suffix walks every array
// item. Only the last segment is required: when an intermediate element
// is absent the rule does not apply.
var requiredElements = map[string][]string{
	"Bundle": {
		"type",
		"link[].relation",
		"link[].url",
		"entry[].request.method",
		"entry[].request.url",
	},
	"Parameters": {
		"parameter[].name",
	},
	"CodeSystem": {
		"status",
		"content",
		"concept[].code",
		"property[].code",
		"property[].type",
	},
	"ValueSet": {
		"status",
		"compose.include",
		"compose.include[].concept[].code",
		"expansion.timestamp",
	},
	"ConceptMap": {
		"status",
		"group[].element[].target[].equivalence",
	},
	"OperationOutcome": {
		"issue",
		"issue[].severity",
		"issue[].code",
	},
	"CapabilityStatement": {
		"status",
		"date",
		"kind",
		"fhirVersion",
		"format",
	},
	"NamingSystem": {
		"name",
		"status",
		"kind",
		"date",
		"uniqueId",
	},
}

// RequiredElements returns the required element paths checked for a
// resource type, or nil if the type has no rules.
func RequiredElements(resourceType string) []string {
	return requiredElements[resourceType]
}

// CheckRequired reports every required element missing from obj.
func CheckRequired(obj map[string]any) []tx.Issue {
	rt, _ := obj["resourceType"].(string)
	var issues []tx.Issue
	for _, path := range requiredElements[rt] {
		issues = append(issues, checkPath(obj, strings.Split(path, "."), rt)...)
	}
	return issues
}

func checkPath(node map[string]any, segs []string, loc string) []tx.Issue {
	seg := segs[0]
	name, isArray := strings.CutSuffix(seg, "[]")
	value, present := node[name]
	here := loc + "." + name

	if len(segs) == 1 {
		if !present || isEmpty(value) {
			return []tx.Issue{tx.Error(tx.IssueTypeRequired).
				Diagnostics(here + " is required").
				At(here).Build()}
		}
		return nil
	}

	if !present {
		return nil
	}

	if !isArray {
		child, ok := value.(map[string]any)
		if !ok {
			return nil
		}
		return checkPath(child, segs[1:], here)
	}

	items, ok := value.([]any)
	if !ok {
		return nil
	}
	var issues []tx.Issue
	for i, item := range items {
		child, ok := item.(map[string]any)
		if !ok {
			continue
		}
		issues = append(issues, checkPath(child, segs[1:], fmt.Sprintf("%s[%d]", here, i))...)
	}
	return issues
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
