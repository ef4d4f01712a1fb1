// Package transkribus parses the two XML documents of a Transkribus METS
// export: the document-level metadata.xml and the structural mets.xml.
package transkribus

// Fixed filenames and file-id prefixes of a Transkribus METS export.
const (
	// MetadataFilename marks a bundle's root directory.
	MetadataFilename = "metadata.xml"
	// StructureFilename sits next to the metadata document in every bundle.
	StructureFilename = "mets.xml"

	ImagePrefix = "IMG_"     // page image
	AltoPrefix  = "ALTO_"    // raw OCR transcription (layer A)
	PagePrefix  = "PAGEXML_" // curated transcription (layer B)
)
