package recipe

import (
	"encoding/json"
	"fmt"
)

// Media types recognized in walkthrough steps.
const (
	MediaImage = "image"
	MediaVideo = "video"
	MediaGIF   = "gif"
)

// ManifestFileName is the per-document manifest inside an export folder.
const ManifestFileName = "recipe.json"

// CategoryList normalizes the document category field. Historically the
// manifest stored a single string; current documents store a list. Both forms
// unmarshal into a list, and marshaling always emits the list form.
type CategoryList []string

func (c *CategoryList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*c = nil
			return nil
		}
		*c = CategoryList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("category must be a string or a list of strings")
	}
	*c = CategoryList(many)
	return nil
}

// Primary returns the first category, or "" when the list is empty.
func (c CategoryList) Primary() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// ConfigPair is one ordered key/value configuration entry on a step.
type ConfigPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// MediaItem is one entry in a step's ordered media list or in the document's
// general image list. URL as persisted is always storage-relative
// (images/<name>.<ext>); DisplayURL is a runtime-only rendering handle and is
// never serialized.
type MediaItem struct {
	Type string `json:"type"`
	URL  string `json:"url"`
	Alt  string `json:"alt,omitempty"`

	// DisplayURL is derived at render time and must not survive persistence.
	DisplayURL string `json:"-"`
}

// WalkthroughStep is one ordered step of the tutorial.
type WalkthroughStep struct {
	Label  string       `json:"label"`
	Config []ConfigPair `json:"config"`
	Media  []MediaItem  `json:"media"`

	// CustomLabel is an ad-hoc label substitution entered in the editor. Clean
	// folds it into Label before the document is persisted or exported.
	CustomLabel string `json:"-"`
}

// Prerequisite is a named requirement with an optional link.
type Prerequisite struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Executable references a downloadable executable-definition payload packaged
// alongside the document. File names the payload in the archive's
// downloadExecutables folder and in the payload partition of the asset store.
type Executable struct {
	Name string `json:"name"`
	File string `json:"file"`
}

// RelatedLink points to related material on the published site or elsewhere.
type RelatedLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Document is one recipe: a multi-step illustrated tutorial. ID is stable
// across edits once assigned.
type Document struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Categories    CategoryList      `json:"category"`
	Versions      []string          `json:"versions"`
	Summary       string            `json:"summary,omitempty"`
	Introduction  string            `json:"introduction,omitempty"`
	Steps         []WalkthroughStep `json:"steps"`
	GeneralImages []MediaItem       `json:"generalImages"`
	Prerequisites []Prerequisite    `json:"prerequisites"`
	Executables   []Executable      `json:"downloadExecutables"`
	RelatedLinks  []RelatedLink     `json:"relatedLinks"`
	Keywords      []string          `json:"keywords"`
}

// StepCount returns the number of walkthrough steps.
func (d *Document) StepCount() int {
	return len(d.Steps)
}
