package dataset

import (
	"fmt"
	"strings"
)

// Card renders the dataset README with the YAML front matter the hub uses to
// wire the config to its data files and declare the feature schema.
func Card(configName string) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "configs:\n  - config_name: %s\n    data_files:\n      - split: train\n        path: %s/metadata.jsonl\n", configName, configName)
	sb.WriteString("dataset_info:\n  features:\n")
	for _, f := range Features() {
		fmt.Fprintf(&sb, "    - name: %s\n      dtype: %s\n", f.Name, f.Type)
	}
	sb.WriteString("---\n\n")
	sb.WriteString("# Transkribus page transcriptions\n\n")
	sb.WriteString("One row per physical page: the page image, the owning document id, the\n")
	sb.WriteString("page's sequence position, the raw OCR layer (ALTO), and the curated\n")
	sb.WriteString("transcription layer (PAGE XML).\n")
	return sb.String()
}
