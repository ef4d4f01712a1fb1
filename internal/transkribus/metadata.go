package transkribus

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// Metadata holds the document-level fields of a bundle's metadata.xml.
type Metadata struct {
	DocID       int
	Title       string
	Collections map[int]bool // set of owning collection ids
}

// InCollections reports whether the document belongs to at least one of the
// given collections.
func (m Metadata) InCollections(ids map[int]bool) bool {
	for id := range ids {
		if m.Collections[id] {
			return true
		}
	}
	return false
}

type trpDocMetadata struct {
	XMLName        xml.Name `xml:"trpDocMetadata"`
	DocID          string   `xml:"docId"`
	Title          *string  `xml:"title"`
	CollectionList struct {
		ColList []struct {
			ColID string `xml:"colId"`
		} `xml:"colList"`
	} `xml:"collectionList"`
}

// ParseMetadata decodes a metadata.xml document. Missing required elements
// and non-numeric ids are structural errors; there is no partial result.
func ParseMetadata(r io.Reader) (Metadata, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var doc trpDocMetadata
	if err := dec.Decode(&doc); err != nil {
		return Metadata{}, fmt.Errorf("decode metadata: %w", err)
	}

	docID, err := parseID(doc.DocID)
	if err != nil {
		return Metadata{}, fmt.Errorf("docId: %w", err)
	}
	if doc.Title == nil {
		return Metadata{}, fmt.Errorf("missing title element")
	}

	// A document with a single collection still yields a one-element set.
	if len(doc.CollectionList.ColList) == 0 {
		return Metadata{}, fmt.Errorf("collectionList has no colList entries")
	}
	collections := make(map[int]bool, len(doc.CollectionList.ColList))
	for _, c := range doc.CollectionList.ColList {
		id, err := parseID(c.ColID)
		if err != nil {
			return Metadata{}, fmt.Errorf("colId: %w", err)
		}
		collections[id] = true
	}

	return Metadata{
		DocID:       docID,
		Title:       *doc.Title,
		Collections: collections,
	}, nil
}

func parseID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing id value")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("non-numeric id %q", s)
	}
	return n, nil
}
