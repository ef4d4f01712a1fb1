package transkribus

import "regexp"

// The Transkribus authoring tool embeds a TranskribusMetadata element in
// exported PAGE XML. It is tool noise, not transcription, and is removed
// textually rather than by re-parsing the layer.
var metadataTagPattern = regexp.MustCompile(`\s*<TranskribusMetadata[^>]*/?>([^<]*</TranskribusMetadata>)?`)

// StripMetadataTag removes any embedded TranskribusMetadata element,
// self-closing or paired, from a curated-layer transcription.
func StripMetadataTag(s string) string {
	return metadataTagPattern.ReplaceAllString(s, "")
}
