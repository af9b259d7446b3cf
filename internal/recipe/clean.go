package recipe

import "recipekit/internal/naming"

// Clean prepares a document for persistence or export: runtime-only fields
// are dropped, ad-hoc custom step labels are folded into the manifest, and
// every recognized asset URL is normalized back to its storage-relative form.
// The receiver is mutated in place.
func (d *Document) Clean() {
	if len(d.Categories) == 0 {
		// Stored form may historically be a single empty string; never
		// persist an empty category slot.
		d.Categories = nil
	}

	for i := range d.Steps {
		step := &d.Steps[i]
		if step.CustomLabel != "" {
			step.Label = step.CustomLabel
			step.CustomLabel = ""
		}
		for j := range step.Media {
			cleanMedia(&step.Media[j])
		}
	}
	for i := range d.GeneralImages {
		cleanMedia(&d.GeneralImages[i])
	}
}

func cleanMedia(m *MediaItem) {
	m.DisplayURL = ""
	if ref, ok := naming.AssetRefFromURL(m.URL); ok {
		m.URL = ref.RelPath
	}
}

// ReferencedImageKeys returns the set of image storage keys the document
// currently references, across step media and general images. This set is the
// uniqueness domain for new asset names.
func (d *Document) ReferencedImageKeys() map[string]struct{} {
	keys := make(map[string]struct{})
	collect := func(items []MediaItem) {
		for _, m := range items {
			if ref, ok := naming.AssetRefFromURL(m.URL); ok {
				keys[ref.Key] = struct{}{}
			}
		}
	}
	for _, step := range d.Steps {
		collect(step.Media)
	}
	collect(d.GeneralImages)
	return keys
}

// ImageRefs returns every recognized image reference in document order:
// step media first, then general images.
func (d *Document) ImageRefs() []naming.AssetRef {
	var refs []naming.AssetRef
	add := func(items []MediaItem) {
		for _, m := range items {
			if ref, ok := naming.AssetRefFromURL(m.URL); ok {
				refs = append(refs, ref)
			}
		}
	}
	for _, step := range d.Steps {
		add(step.Media)
	}
	add(d.GeneralImages)
	return refs
}
