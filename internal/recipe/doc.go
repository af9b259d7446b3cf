// Package recipe defines the document model shared by the storage, export,
// and import layers, plus the cleaning and manifest validation rules applied
// before a document crosses a persistence boundary.
package recipe
