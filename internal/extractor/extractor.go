// Package extractor joins a bundle's metadata and structural documents into
// a lazy stream of page records.
package extractor

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/dhlab-no/trpexport/internal/dataset"
	"github.com/dhlab-no/trpexport/internal/transkribus"
	"github.com/dhlab-no/trpexport/internal/treewalk"
)

// Options controls bundle selection.
type Options struct {
	// Collections keeps only bundles belonging to at least one of these
	// collection ids. Empty means no filtering.
	Collections []int

	// StopOnFilterMiss ends the whole scan at the first bundle that fails
	// the collection filter instead of skipping it. This reproduces the
	// behavior of earlier export tooling, which only handled roots holding
	// a single bundle. Leave it off unless that behavior is required.
	StopOnFilterMiss bool
}

// Records walks root for document bundles and lazily yields one record per
// physical page, in structural-map order within each bundle. The sequence is
// single-pass: file contents are read as records are consumed. The first
// error ends the stream; there is no partial-bundle recovery.
func Records(root string, opts Options) iter.Seq2[dataset.Record, error] {
	filter := make(map[int]bool, len(opts.Collections))
	for _, id := range opts.Collections {
		filter[id] = true
	}

	return func(yield func(dataset.Record, error) bool) {
		for markerPath, err := range treewalk.Find(root, transkribus.MetadataFilename) {
			if err != nil {
				yield(dataset.Record{}, err)
				return
			}
			bundleDir := filepath.Dir(markerPath)

			meta, err := readMetadata(markerPath)
			if err != nil {
				yield(dataset.Record{}, fmt.Errorf("%s: %w", markerPath, err))
				return
			}

			if len(filter) > 0 && !meta.InCollections(filter) {
				if opts.StopOnFilterMiss {
					return
				}
				continue
			}

			structPath := filepath.Join(bundleDir, transkribus.StructureFilename)
			files, pages, err := readStructure(structPath)
			if err != nil {
				yield(dataset.Record{}, fmt.Errorf("%s: %w", structPath, err))
				return
			}

			for _, page := range pages {
				rec, err := assemble(bundleDir, meta, files, page)
				if err != nil {
					yield(dataset.Record{}, fmt.Errorf("%s: %w", bundleDir, err))
					return
				}
				if !yield(rec, nil) {
					return
				}
			}
		}
	}
}

// assemble resolves one page's file ids into a record. The image reference
// is mandatory; either text layer defaults to "" when absent.
func assemble(bundleDir string, meta transkribus.Metadata, files transkribus.FileMap, page transkribus.Page) (dataset.Record, error) {
	if page.ImageID == "" {
		return dataset.Record{}, fmt.Errorf("page %d: no image reference", page.Order)
	}
	imagePath, ok := files[page.ImageID]
	if !ok {
		return dataset.Record{}, fmt.Errorf("page %d: image id %q not in file section", page.Order, page.ImageID)
	}

	rec := dataset.Record{
		Image:    filepath.Join(bundleDir, imagePath),
		DocID:    int64(meta.DocID),
		Sequence: page.Order,
	}

	if page.AltoID != "" {
		text, err := readLayer(bundleDir, files, page.AltoID)
		if err != nil {
			return dataset.Record{}, fmt.Errorf("page %d: %w", page.Order, err)
		}
		rec.Alto = text
	}
	if page.PageID != "" {
		text, err := readLayer(bundleDir, files, page.PageID)
		if err != nil {
			return dataset.Record{}, fmt.Errorf("page %d: %w", page.Order, err)
		}
		rec.Page = transkribus.StripMetadataTag(text)
	}

	return rec, nil
}

func readLayer(bundleDir string, files transkribus.FileMap, id string) (string, error) {
	path, ok := files[id]
	if !ok {
		return "", fmt.Errorf("layer id %q not in file section", id)
	}
	data, err := os.ReadFile(filepath.Join(bundleDir, path))
	if err != nil {
		return "", fmt.Errorf("read layer: %w", err)
	}
	return string(data), nil
}

func readMetadata(path string) (transkribus.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return transkribus.Metadata{}, fmt.Errorf("open metadata: %w", err)
	}
	defer f.Close()
	return transkribus.ParseMetadata(f)
}

func readStructure(path string) (transkribus.FileMap, []transkribus.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open structure: %w", err)
	}
	defer f.Close()
	return transkribus.ParseMETS(f)
}
