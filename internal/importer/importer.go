// Package importer restores documents and their assets from an export
// archive into the local stores, skipping invalid or inactive folders, and
// reports on referenced images missing from the asset store.
package importer

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"

	"recipekit/internal/assetdb"
	"recipekit/internal/config"
	"recipekit/internal/export"
	"recipekit/internal/logging"
	"recipekit/internal/naming"
	"recipekit/internal/recipe"
)

// maxEntryBytes bounds a single archive entry read.
const maxEntryBytes = 256 << 20

// Result reports what an import run did. Attempted counts candidate folders,
// so a caller can tell "archive held nothing" apart from "everything was
// rejected".
type Result struct {
	Documents       []recipe.Document
	Imported        int
	SkippedInvalid  int
	SkippedInactive int
	Attempted       int
}

// Importer restores archive contents into the asset store.
type Importer struct {
	images       *assetdb.Partition
	payloads     *assetdb.Partition
	allowedTypes []string
	maxSizeMiB   int
	logger       *slog.Logger
}

// NewImporter wires an importer over the asset store using the configured
// asset limits.
func NewImporter(store *assetdb.Store, cfg *config.Config, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Importer{
		images:       store.Images(),
		payloads:     store.Payloads(),
		allowedTypes: cfg.Assets.AllowedImageTypes,
		maxSizeMiB:   cfg.Assets.MaxSizeMiB,
		logger:       logger.With(logging.String(logging.FieldComponent, "import")),
	}
}

type folderEntries struct {
	manifest *zip.File
	images   []*zip.File
	payloads []*zip.File
}

// Import reads an export archive and restores every valid, active folder.
// Folder-level failures are skipped and counted; only archive-level problems
// are errors. Asset writes commit per file, so a partially failed import can
// be completed by importing the same archive again.
func (i *Importer) Import(ctx context.Context, archivePath string) (Result, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return Result{}, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	active, err := i.readCatalog(&zr.Reader)
	if err != nil {
		return Result{}, err
	}

	folders := collectFolders(&zr.Reader)
	names := make([]string, 0, len(folders))
	for name := range folders {
		names = append(names, name)
	}
	sort.Strings(names)

	var result Result
	for _, name := range names {
		entries := folders[name]
		result.Attempted++

		if entries.manifest == nil {
			result.SkippedInvalid++
			i.logger.Warn("folder has no manifest, skipped",
				logging.String(logging.FieldFolder, name))
			continue
		}

		manifestData, err := readZipFile(entries.manifest)
		if err != nil {
			result.SkippedInvalid++
			i.logger.Warn("manifest unreadable, folder skipped",
				logging.String(logging.FieldFolder, name),
				logging.Error(err))
			continue
		}

		doc, validation := recipe.ValidateManifest(manifestData)
		if !validation.Valid {
			result.SkippedInvalid++
			i.logger.Warn("manifest failed validation, folder skipped",
				logging.String(logging.FieldFolder, name),
				logging.String("problems", strings.Join(validation.Problems, "; ")))
			continue
		}

		if isActive, ok := active[name]; ok && !isActive {
			result.SkippedInactive++
			i.logger.Info("folder marked inactive, skipped",
				logging.String(logging.FieldFolder, name))
			continue
		}

		if err := i.restoreAssets(ctx, name, entries); err != nil {
			return result, err
		}

		doc.Clean()
		result.Documents = append(result.Documents, *doc)
		result.Imported++
		i.logger.Info("folder imported",
			logging.String(logging.FieldFolder, name),
			logging.String(logging.FieldDocumentID, doc.ID))
	}

	return result, nil
}

// readCatalog parses index.json when present. An absent catalog means every
// folder is active.
func (i *Importer) readCatalog(zr *zip.Reader) (map[string]bool, error) {
	for _, f := range zr.File {
		if f.Name != export.CatalogFileName {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		var catalog export.Catalog
		if err := json.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		active := make(map[string]bool, len(catalog.Recipes))
		for _, entry := range catalog.Recipes {
			active[entry.FolderID] = entry.Active
		}
		return active, nil
	}
	return map[string]bool{}, nil
}

// collectFolders groups archive entries by top-level folder, dropping junk
// entries and archive-level files.
func collectFolders(zr *zip.Reader) map[string]*folderEntries {
	folders := make(map[string]*folderEntries)
	for _, f := range zr.File {
		name := path.Clean(f.Name)
		if isJunkEntry(name) || f.FileInfo().IsDir() {
			continue
		}

		parts := strings.Split(name, "/")
		if len(parts) < 2 {
			// Archive-level files (catalog, instructions) and stray root
			// files carry no folder.
			continue
		}
		folder := parts[0]
		entries := folders[folder]
		if entries == nil {
			entries = &folderEntries{}
			folders[folder] = entries
		}

		switch {
		case len(parts) == 2 && parts[1] == recipe.ManifestFileName:
			entries.manifest = f
		case len(parts) == 3 && parts[1] == "images":
			entries.images = append(entries.images, f)
		case len(parts) == 3 && parts[1] == "downloadExecutables" && strings.HasSuffix(parts[2], ".json"):
			entries.payloads = append(entries.payloads, f)
		}
	}
	return folders
}

func isJunkEntry(name string) bool {
	if strings.HasPrefix(name, "__MACOSX/") || name == "__MACOSX" {
		return true
	}
	base := path.Base(name)
	return base == ".DS_Store" || strings.HasPrefix(base, "._")
}

// restoreAssets writes a folder's images and executable payloads into their
// partitions. Individual files failing validation are logged and skipped.
func (i *Importer) restoreAssets(ctx context.Context, folder string, entries *folderEntries) error {
	for _, f := range entries.images {
		base := path.Base(f.Name)
		ref, ok := naming.AssetRefFromURL("images/" + base)
		if !ok {
			i.logger.Warn("unrecognized image entry, skipped",
				logging.String(logging.FieldFolder, folder),
				logging.String("entry", f.Name))
			continue
		}

		if res := assetdb.ValidateFileType(base, i.allowedTypes); !res.Valid {
			i.logger.Warn("image rejected, skipped",
				logging.String(logging.FieldFolder, folder),
				logging.String("entry", f.Name),
				logging.String(logging.FieldErrorHint, res.Err))
			continue
		}
		if res := assetdb.ValidateFileSize(int64(f.UncompressedSize64), i.maxSizeMiB); !res.Valid {
			i.logger.Warn("image rejected, skipped",
				logging.String(logging.FieldFolder, folder),
				logging.String("entry", f.Name),
				logging.String(logging.FieldErrorHint, res.Err))
			continue
		}

		data, err := readZipFile(f)
		if err != nil {
			return fmt.Errorf("read image %q: %w", f.Name, err)
		}
		if err := i.images.Put(ctx, ref.Key, data); err != nil {
			return err
		}
	}

	for _, f := range entries.payloads {
		name := naming.SanitizeFileName(path.Base(f.Name))
		if name == "" {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return fmt.Errorf("read payload %q: %w", f.Name, err)
		}
		if err := i.payloads.Put(ctx, name, data); err != nil {
			return err
		}
	}

	return nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, maxEntryBytes))
}
