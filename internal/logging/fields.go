package logging

// Standardized attribute keys. Every component logs these under the same names
// so log lines can be correlated across the storage façade, the asset store,
// and the export/import pipelines.
const (
	// FieldComponent identifies the emitting component ("assetdb", "export", ...).
	FieldComponent = "component"
	// FieldDocumentID carries the recipe document identifier.
	FieldDocumentID = "document_id"
	// FieldAssetKey carries the storage key of an asset.
	FieldAssetKey = "asset_key"
	// FieldFolder carries an export/import folder id.
	FieldFolder = "folder"
	// FieldBackend names a storage backend ("file", "memory", "sqlite").
	FieldBackend = "backend"
	// FieldStorageKey carries a key in the unified storage façade.
	FieldStorageKey = "storage_key"
	// FieldEventType classifies warnings and errors for downstream filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step for a surfaced failure.
	FieldErrorHint = "error_hint"
)
