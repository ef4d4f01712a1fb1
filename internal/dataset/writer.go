package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Writer materializes records into the imagefolder layout under dir:
//
//	README.md
//	<config>/metadata.jsonl
//	<config>/images/<docid>_<seq>_<name>
//
// Page images are copied verbatim; no transcoding or resizing.
type Writer struct {
	root       string
	configName string
	imgDir     string
	rows       bytes.Buffer
	enc        *json.Encoder
	count      int
}

// metadataRow is one metadata.jsonl line. file_name is relative to the
// config directory, per the imagefolder convention.
type metadataRow struct {
	FileName string `json:"file_name"`
	DocID    int64  `json:"doc_id"`
	Sequence int    `json:"sequence"`
	Alto     string `json:"alto"`
	Page     string `json:"page"`
}

func NewWriter(dir, configName string) (*Writer, error) {
	imgDir := filepath.Join(dir, configName, "images")
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		return nil, fmt.Errorf("create dataset dir: %w", err)
	}
	w := &Writer{
		root:       dir,
		configName: configName,
		imgDir:     imgDir,
	}
	w.enc = json.NewEncoder(&w.rows)
	return w, nil
}

// Add copies the record's image into the dataset and buffers its metadata
// row.
func (w *Writer) Add(rec Record) error {
	name := fmt.Sprintf("%d_%05d_%s", rec.DocID, rec.Sequence, filepath.Base(rec.Image))
	if err := copyFile(rec.Image, filepath.Join(w.imgDir, name)); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	row := metadataRow{
		FileName: "images/" + name,
		DocID:    rec.DocID,
		Sequence: rec.Sequence,
		Alto:     rec.Alto,
		Page:     rec.Page,
	}
	if err := w.enc.Encode(row); err != nil {
		return fmt.Errorf("encode metadata row: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of records added so far.
func (w *Writer) Count() int {
	return w.count
}

// Close writes the buffered metadata.jsonl and the dataset card.
func (w *Writer) Close() error {
	metaPath := filepath.Join(w.root, w.configName, "metadata.jsonl")
	if err := os.WriteFile(metaPath, w.rows.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write metadata.jsonl: %w", err)
	}
	cardPath := filepath.Join(w.root, "README.md")
	if err := os.WriteFile(cardPath, []byte(Card(w.configName)), 0o644); err != nil {
		return fmt.Errorf("write dataset card: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
