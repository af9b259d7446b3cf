package recipe_test

import (
	"encoding/json"
	"strings"
	"testing"

	"recipekit/internal/recipe"
)

func TestCategoryListBothForms(t *testing.T) {
	var fromSingle recipe.Document
	if err := json.Unmarshal([]byte(`{"title":"A","category":"baking"}`), &fromSingle); err != nil {
		t.Fatalf("unmarshal singular form: %v", err)
	}
	if len(fromSingle.Categories) != 1 || fromSingle.Categories.Primary() != "baking" {
		t.Fatalf("unexpected categories: %v", fromSingle.Categories)
	}

	var fromList recipe.Document
	if err := json.Unmarshal([]byte(`{"title":"A","category":["baking","desserts"]}`), &fromList); err != nil {
		t.Fatalf("unmarshal list form: %v", err)
	}
	if len(fromList.Categories) != 2 || fromList.Categories[1] != "desserts" {
		t.Fatalf("unexpected categories: %v", fromList.Categories)
	}

	out, err := json.Marshal(fromSingle)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"category":["baking"]`) {
		t.Fatalf("expected list form on output, got %s", out)
	}
}

func TestCleanFoldsCustomLabelAndNormalizesURLs(t *testing.T) {
	doc := recipe.Document{
		Title: "Pasta",
		Steps: []recipe.WalkthroughStep{
			{
				Label:       "Original",
				CustomLabel: "Replacement",
				Media: []recipe.MediaItem{
					{
						Type:       recipe.MediaImage,
						URL:        "https://recipes.example.com/content/pasta/images/boil-water-image.png",
						DisplayURL: "file:///tmp/preview-1.png",
					},
					{Type: recipe.MediaVideo, URL: "https://youtube.example.com/v/123"},
				},
			},
		},
		GeneralImages: []recipe.MediaItem{
			{Type: recipe.MediaImage, URL: "images/general-image.png", DisplayURL: "file:///tmp/preview-2.png"},
		},
	}

	doc.Clean()

	step := doc.Steps[0]
	if step.Label != "Replacement" || step.CustomLabel != "" {
		t.Fatalf("custom label not folded: %+v", step)
	}
	if step.Media[0].URL != "images/boil-water-image.png" {
		t.Fatalf("absolute URL not normalized: %q", step.Media[0].URL)
	}
	if step.Media[0].DisplayURL != "" || doc.GeneralImages[0].DisplayURL != "" {
		t.Fatal("display URLs must be cleared")
	}
	if step.Media[1].URL != "https://youtube.example.com/v/123" {
		t.Fatalf("unrecognized URL must be untouched: %q", step.Media[1].URL)
	}
}

func TestReferencedImageKeys(t *testing.T) {
	doc := recipe.Document{
		Steps: []recipe.WalkthroughStep{
			{Media: []recipe.MediaItem{
				{Type: recipe.MediaImage, URL: "images/a-image.png"},
				{Type: recipe.MediaVideo, URL: "https://example.com/clip.mp4"},
			}},
		},
		GeneralImages: []recipe.MediaItem{
			{Type: recipe.MediaImage, URL: "images/a-image.png"},
			{Type: recipe.MediaImage, URL: "images/b-image.jpg"},
		},
	}

	keys := doc.ReferencedImageKeys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %v", keys)
	}
	for _, key := range []string{"a-image", "b-image"} {
		if _, ok := keys[key]; !ok {
			t.Fatalf("missing key %q", key)
		}
	}

	refs := doc.ImageRefs()
	if len(refs) != 3 {
		t.Fatalf("expected 3 refs in document order, got %d", len(refs))
	}
	if refs[0].Key != "a-image" || refs[2].Key != "b-image" {
		t.Fatalf("unexpected ref order: %+v", refs)
	}
}

func TestValidateManifest(t *testing.T) {
	doc, result := recipe.ValidateManifest([]byte(`{
		"id": "pasta",
		"title": "Pasta Carbonara",
		"category": ["cooking"],
		"steps": [{"label": "Boil", "config": [], "media": []}]
	}`))
	if !result.Valid {
		t.Fatalf("expected valid, got problems: %v", result.Problems)
	}
	if doc.Title != "Pasta Carbonara" || doc.StepCount() != 1 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	// Absent array fields come back as empty lists, not nil.
	if doc.Keywords == nil || doc.Executables == nil || doc.GeneralImages == nil {
		t.Fatal("expected absent array fields defaulted to empty lists")
	}
}

func TestValidateManifestLegacyCategory(t *testing.T) {
	if _, result := recipe.ValidateManifest([]byte(`{"title":"A","category":"baking"}`)); !result.Valid {
		t.Fatalf("known singular category must validate: %v", result.Problems)
	}
	if _, result := recipe.ValidateManifest([]byte(`{"title":"A","category":"astrology"}`)); result.Valid {
		t.Fatal("unknown singular category must fail")
	}
}

func TestValidateManifestFailures(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"missing title", `{"category":["cooking"]}`},
		{"empty title", `{"title":"","category":["cooking"]}`},
		{"missing category", `{"title":"A"}`},
		{"empty category list", `{"title":"A","category":[]}`},
		{"steps not a list", `{"title":"A","category":["cooking"],"steps":"oops"}`},
		{"keywords not a list", `{"title":"A","category":["cooking"],"keywords":{"a":1}}`},
		{"not an object", `[1,2,3]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, result := recipe.ValidateManifest([]byte(tc.data))
			if result.Valid || doc != nil {
				t.Fatalf("expected failure, got doc=%+v", doc)
			}
			if len(result.Problems) == 0 {
				t.Fatal("expected at least one problem")
			}
		})
	}

	// Null array fields are treated as absent, not as a shape error.
	if _, result := recipe.ValidateManifest([]byte(`{"title":"A","category":["cooking"],"steps":null}`)); !result.Valid {
		t.Fatalf("null array field must validate: %v", result.Problems)
	}
}
