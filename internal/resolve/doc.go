// Package resolve locates asset bytes for a document reference, falling back
// from the local asset store to the originally-published static content, and
// manages temp-file preview handles for resolved assets.
package resolve
