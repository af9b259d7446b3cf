package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// KnownCategories is the fixed set a legacy singular category must belong to.
// Documents using the list form may carry any tag; the singular form predates
// free tagging and is checked strictly.
var KnownCategories = map[string]struct{}{
	"baking":     {},
	"cooking":    {},
	"grilling":   {},
	"drinks":     {},
	"desserts":   {},
	"techniques": {},
}

// arrayFields are the manifest fields that must be lists when present and
// default to empty lists when absent.
var arrayFields = []string{
	"versions",
	"steps",
	"generalImages",
	"prerequisites",
	"downloadExecutables",
	"relatedLinks",
	"keywords",
}

// ValidationResult is the structured outcome of a manifest shape check.
type ValidationResult struct {
	Valid    bool
	Problems []string
}

func (r *ValidationResult) addProblem(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// ValidateManifest checks raw manifest JSON against the required shape and,
// when valid, returns the parsed document. The check is explicit rather than
// relying on unmarshal side effects: a present-but-wrongly-typed array field
// is a validation failure, not a silently zeroed field.
func ValidateManifest(data []byte) (*Document, ValidationResult) {
	var result ValidationResult

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		result.addProblem("manifest is not a JSON object: %v", err)
		return nil, result
	}

	titleRaw, ok := fields["title"]
	if !ok {
		result.addProblem("title is missing")
	} else {
		var title string
		if err := json.Unmarshal(titleRaw, &title); err != nil || title == "" {
			result.addProblem("title must be a non-empty string")
		}
	}

	categoryRaw, ok := fields["category"]
	if !ok {
		result.addProblem("category is missing")
	} else if err := validateCategory(categoryRaw); err != nil {
		result.addProblem("%v", err)
	}

	for _, field := range arrayFields {
		raw, ok := fields[field]
		if !ok {
			continue
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			continue
		}
		if trimmed[0] != '[' {
			result.addProblem("%s must be a list", field)
		}
	}

	if len(result.Problems) > 0 {
		return nil, result
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		result.addProblem("parse manifest: %v", err)
		return nil, result
	}
	ensureLists(&doc)

	result.Valid = true
	return &doc, result
}

func validateCategory(raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return fmt.Errorf("category is empty")
	}

	if trimmed[0] == '"' {
		// Legacy singular form: must be one of the known categories.
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil || single == "" {
			return fmt.Errorf("category must be a non-empty string")
		}
		if _, known := KnownCategories[single]; !known {
			return fmt.Errorf("category %q is not a known category", single)
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return fmt.Errorf("category must be a string or a list of strings")
	}
	if len(many) == 0 {
		return fmt.Errorf("category list is empty")
	}
	for _, tag := range many {
		if tag == "" {
			return fmt.Errorf("category list contains an empty tag")
		}
	}
	return nil
}

// ensureLists replaces nil array fields with empty lists so every validated
// document round-trips with the list form present.
func ensureLists(doc *Document) {
	if doc.Versions == nil {
		doc.Versions = []string{}
	}
	if doc.Steps == nil {
		doc.Steps = []WalkthroughStep{}
	}
	if doc.GeneralImages == nil {
		doc.GeneralImages = []MediaItem{}
	}
	if doc.Prerequisites == nil {
		doc.Prerequisites = []Prerequisite{}
	}
	if doc.Executables == nil {
		doc.Executables = []Executable{}
	}
	if doc.RelatedLinks == nil {
		doc.RelatedLinks = []RelatedLink{}
	}
	if doc.Keywords == nil {
		doc.Keywords = []string{}
	}
}
