package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"recipekit/internal/assetdb"
	"recipekit/internal/logging"
	"recipekit/internal/naming"
)

// Source labels for Resolution.Source.
const (
	SourceStore   = "store"
	SourceStatic  = "static"
	SourceMissing = "missing"
)

// Resolution is the outcome of resolving one asset reference.
type Resolution struct {
	Key    string
	Data   []byte
	Source string
}

// Missing reports whether neither tier had the asset.
func (r Resolution) Missing() bool {
	return r.Source == SourceMissing
}

// Resolver locates asset bytes: the local asset store first, then the
// originally-published static content. A miss in both tiers is an ordinary
// result, not an error.
type Resolver struct {
	images *assetdb.Partition
	static StaticSource
	logger *slog.Logger
}

// NewResolver wires a resolver over the image partition and an optional
// static source (nil disables the static tier).
func NewResolver(images *assetdb.Partition, static StaticSource, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		images: images,
		static: static,
		logger: logger.With(logging.String(logging.FieldComponent, "resolve")),
	}
}

// Resolve fetches the bytes behind ref. folderID is the document's export
// folder identity, used only for the static tier; legacy folder ids are
// remapped to their published names before the static lookup.
func (r *Resolver) Resolve(ctx context.Context, folderID string, ref naming.AssetRef) (Resolution, error) {
	data, err := r.images.Get(ctx, ref.Key)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolve %q from store: %w", ref.Key, err)
	}
	if data != nil {
		return Resolution{Key: ref.Key, Data: data, Source: SourceStore}, nil
	}

	if r.static != nil && folderID != "" {
		mapped, legacy := naming.RemapFolderID(folderID)
		if legacy {
			r.logger.Debug("remapped legacy folder for static lookup",
				logging.String(logging.FieldFolder, folderID),
				logging.String("mapped_folder", mapped))
		}
		data, err := r.static.Fetch(ctx, mapped, ref.RelPath)
		if err != nil {
			return Resolution{}, fmt.Errorf("resolve %q from static source: %w", ref.Key, err)
		}
		if data != nil {
			return Resolution{Key: ref.Key, Data: data, Source: SourceStatic}, nil
		}
	}

	r.logger.Debug("asset not found in any tier",
		logging.String(logging.FieldAssetKey, ref.Key),
		logging.String(logging.FieldFolder, folderID))
	return Resolution{Key: ref.Key, Source: SourceMissing}, nil
}
