// Package export assembles a deployable zip archive from a set of documents:
// per-folder manifests, resolved image and executable assets, the archive
// catalog, and the deployment note.
package export

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"recipekit/internal/assetdb"
	"recipekit/internal/logging"
	"recipekit/internal/naming"
	"recipekit/internal/recipe"
	"recipekit/internal/resolve"
)

// Archive-level file names.
const (
	CatalogFileName      = "index.json"
	InstructionsFileName = "DEPLOYMENT_INSTRUCTIONS.txt"
)

// Catalog is the archive index: one entry per catalog document, sorted by
// folder id.
type Catalog struct {
	Recipes []CatalogEntry `json:"recipes"`
}

// CatalogEntry marks one folder and whether it should be live after deploy.
type CatalogEntry struct {
	FolderID string `json:"folderId"`
	Active   bool   `json:"active"`
}

// Request describes one export run. Documents are packaged with full content;
// CatalogDocuments is the superset listed in the archive catalog and defaults
// to the packaged set. ActiveOverrides is keyed by document id; absent ids
// default to active.
type Request struct {
	Documents        []recipe.Document
	CatalogDocuments []recipe.Document
	ActiveOverrides  map[string]bool
	OutputPath       string
}

// Summary reports what an export run produced.
type Summary struct {
	ArchivePath   string
	Folders       int
	AssetsWritten int
	AssetsMissing int
	Missing       []string
}

// Exporter builds export archives. Asset bytes come from the resolver's
// fallback chain; executable payloads come from the payload partition.
type Exporter struct {
	resolver  *resolve.Resolver
	payloads  *assetdb.Partition
	exportDir string
	logger    *slog.Logger
}

// NewExporter wires an exporter. exportDir is the default archive location
// when a request carries no explicit output path.
func NewExporter(resolver *resolve.Resolver, payloads *assetdb.Partition, exportDir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Exporter{
		resolver:  resolver,
		payloads:  payloads,
		exportDir: exportDir,
		logger:    logger.With(logging.String(logging.FieldComponent, "export")),
	}
}

// Export runs one export. Per-asset resolution misses are logged and skipped;
// manifest serialization or archive write failures abort the run and leave no
// partial archive behind.
func (e *Exporter) Export(ctx context.Context, req Request) (Summary, error) {
	if len(req.Documents) == 0 {
		return Summary{}, fmt.Errorf("export: no documents selected")
	}

	catalogDocs := req.CatalogDocuments
	if len(catalogDocs) == 0 {
		catalogDocs = req.Documents
	}

	alloc := naming.NewFolderAllocator()
	folders := make(map[string]string, len(catalogDocs))
	packaged := make(map[string]bool, len(req.Documents))
	for _, doc := range req.Documents {
		folders[doc.ID] = alloc.Allocate(doc.Title)
		packaged[doc.ID] = true
	}
	for _, doc := range catalogDocs {
		if _, done := folders[doc.ID]; !done {
			folders[doc.ID] = alloc.Allocate(doc.Title)
		}
	}

	outPath, err := e.archivePath(req.OutputPath)
	if err != nil {
		return Summary{}, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".recipekit-export-*")
	if err != nil {
		return Summary{}, fmt.Errorf("create temp archive: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	summary := Summary{Folders: len(req.Documents)}
	zw := zip.NewWriter(tmp)

	for _, doc := range req.Documents {
		if err := e.writeFolder(ctx, zw, folders[doc.ID], doc, &summary); err != nil {
			zw.Close()
			return Summary{}, err
		}
	}

	if err := e.writeCatalog(zw, catalogDocs, folders, req.ActiveOverrides); err != nil {
		zw.Close()
		return Summary{}, err
	}
	if err := writeZipFile(zw, InstructionsFileName, deploymentInstructions(req.Documents, folders)); err != nil {
		zw.Close()
		return Summary{}, err
	}

	if err := zw.Close(); err != nil {
		return Summary{}, fmt.Errorf("finalize archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Summary{}, fmt.Errorf("close temp archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return Summary{}, fmt.Errorf("move archive into place: %w", err)
	}

	summary.ArchivePath = outPath
	e.logger.Info("export complete",
		logging.String("archive", outPath),
		logging.Int("folders", summary.Folders),
		logging.Int("assets_written", summary.AssetsWritten),
		logging.Int("assets_missing", summary.AssetsMissing))
	return summary, nil
}

func (e *Exporter) archivePath(requested string) (string, error) {
	if requested != "" {
		if err := os.MkdirAll(filepath.Dir(requested), 0o755); err != nil {
			return "", fmt.Errorf("create archive directory: %w", err)
		}
		return requested, nil
	}
	if err := os.MkdirAll(e.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	name := fmt.Sprintf("recipes-export-%s.zip", time.Now().Format("20060102-150405"))
	return filepath.Join(e.exportDir, name), nil
}

func (e *Exporter) writeFolder(ctx context.Context, zw *zip.Writer, folderID string, doc recipe.Document, summary *Summary) error {
	cleaned, err := cloneDocument(doc)
	if err != nil {
		return err
	}
	cleaned.Clean()

	manifest, err := json.MarshalIndent(cleaned, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize manifest for %q: %w", doc.ID, err)
	}
	if err := writeZipFile(zw, folderID+"/"+recipe.ManifestFileName, manifest); err != nil {
		return err
	}

	written := make(map[string]struct{})
	for _, ref := range cleaned.ImageRefs() {
		if _, done := written[ref.RelPath]; done {
			continue
		}
		written[ref.RelPath] = struct{}{}

		// Resolution failures are per-asset: a broken static tier must not
		// abort the run. Only archive or manifest writes are fatal.
		res, err := e.resolver.Resolve(ctx, folderID, ref)
		if err != nil || res.Missing() {
			summary.AssetsMissing++
			summary.Missing = append(summary.Missing, folderID+"/"+ref.RelPath)
			if err != nil {
				e.logger.Warn("asset resolution failed, skipped",
					logging.String(logging.FieldDocumentID, doc.ID),
					logging.String(logging.FieldFolder, folderID),
					logging.String(logging.FieldAssetKey, ref.Key),
					logging.Error(err))
			} else {
				e.logger.Warn("asset missing, skipped",
					logging.String(logging.FieldDocumentID, doc.ID),
					logging.String(logging.FieldFolder, folderID),
					logging.String(logging.FieldAssetKey, ref.Key))
			}
			continue
		}
		if err := writeZipFile(zw, folderID+"/"+ref.RelPath, res.Data); err != nil {
			return err
		}
		summary.AssetsWritten++
	}

	for _, exe := range cleaned.Executables {
		name := naming.SanitizeFileName(exe.File)
		if name == "" {
			continue
		}
		data, err := e.payloads.Get(ctx, name)
		if err != nil || data == nil {
			summary.AssetsMissing++
			summary.Missing = append(summary.Missing, folderID+"/downloadExecutables/"+name)
			e.logger.Warn("executable payload missing, skipped",
				logging.String(logging.FieldDocumentID, doc.ID),
				logging.String(logging.FieldFolder, folderID),
				logging.String("file", name))
			if err != nil {
				e.logger.Warn("payload read failed",
					logging.String("file", name),
					logging.Error(err))
			}
			continue
		}
		if err := writeZipFile(zw, folderID+"/downloadExecutables/"+name, data); err != nil {
			return err
		}
		summary.AssetsWritten++
	}

	return nil
}

func (e *Exporter) writeCatalog(zw *zip.Writer, docs []recipe.Document, folders map[string]string, overrides map[string]bool) error {
	catalog := Catalog{Recipes: make([]CatalogEntry, 0, len(docs))}
	for _, doc := range docs {
		active := true
		if v, ok := overrides[doc.ID]; ok {
			active = v
		}
		catalog.Recipes = append(catalog.Recipes, CatalogEntry{FolderID: folders[doc.ID], Active: active})
	}
	sort.Slice(catalog.Recipes, func(i, j int) bool {
		return catalog.Recipes[i].FolderID < catalog.Recipes[j].FolderID
	})

	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize catalog: %w", err)
	}
	return writeZipFile(zw, CatalogFileName, data)
}

func writeZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create archive entry %q: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write archive entry %q: %w", name, err)
	}
	return nil
}

func cloneDocument(doc recipe.Document) (*recipe.Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("clone document %q: %w", doc.ID, err)
	}
	var out recipe.Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("clone document %q: %w", doc.ID, err)
	}
	// Runtime-only fields are dropped by the marshal round trip, but custom
	// step labels must survive for Clean to fold them in.
	for i := range doc.Steps {
		if i < len(out.Steps) {
			out.Steps[i].CustomLabel = doc.Steps[i].CustomLabel
		}
	}
	return &out, nil
}
