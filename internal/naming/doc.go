// Package naming computes deterministic, human-legible, collision-free names
// for assets and export folders, and extracts storage keys back out of
// persisted asset URLs.
//
// Asset names derive from document context (category, step label, ordinal)
// and are uniquified against the current document's reference set only, so a
// name freed by editing a step label becomes reusable. Folder names derive
// from document titles and are uniquified against the set allocated within a
// single export run. The two namespaces never interact.
package naming
