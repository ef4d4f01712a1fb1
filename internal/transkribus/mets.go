package transkribus

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html/charset"
)

// FileMap maps a METS file id to its percent-decoded relative path.
type FileMap map[string]string

// Page is one physical page from the METS structural map. Layer ids are
// empty when the structural map carries no reference of that kind.
type Page struct {
	Order   int    // ORDER attribute, sequence position within the document
	ImageID string // IMG_* file id, mandatory for a usable page
	AltoID  string // ALTO_* file id (raw OCR layer)
	PageID  string // PAGEXML_* file id (curated layer)
}

type metsDoc struct {
	XMLName xml.Name `xml:"mets"`
	FileSec struct {
		Group struct {
			Groups []struct {
				Files []struct {
					ID     string `xml:"ID,attr"`
					FLocat struct {
						Href string `xml:"href,attr"`
					} `xml:"FLocat"`
				} `xml:"file"`
			} `xml:"fileGrp"`
		} `xml:"fileGrp"`
	} `xml:"fileSec"`
	StructMap struct {
		Div struct {
			Divs []struct {
				Order string `xml:"ORDER,attr"`
				Fptrs []struct {
					Area struct {
						FileID string `xml:"FILEID,attr"`
					} `xml:"area"`
				} `xml:"fptr"`
			} `xml:"div"`
		} `xml:"div"`
	} `xml:"structMap"`
}

// ParseMETS decodes a mets.xml document into the file-id path mapping and
// the ordered page sequence.
func ParseMETS(r io.Reader) (FileMap, []Page, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var doc metsDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decode mets: %w", err)
	}

	if len(doc.FileSec.Group.Groups) == 0 {
		return nil, nil, fmt.Errorf("fileSec has no file groups")
	}
	files := make(FileMap)
	for _, grp := range doc.FileSec.Group.Groups {
		for _, f := range grp.Files {
			if f.ID == "" {
				return nil, nil, fmt.Errorf("file entry without ID attribute")
			}
			// Location hrefs are percent-encoded relative paths.
			path, err := url.PathUnescape(f.FLocat.Href)
			if err != nil {
				return nil, nil, fmt.Errorf("file %s: decode href %q: %w", f.ID, f.FLocat.Href, err)
			}
			files[f.ID] = path
		}
	}

	divs := doc.StructMap.Div.Divs
	if len(divs) == 0 {
		return nil, nil, fmt.Errorf("structMap has no page divisions")
	}
	pages := make([]Page, 0, len(divs))
	for _, div := range divs {
		order, err := parseID(div.Order)
		if err != nil {
			return nil, nil, fmt.Errorf("page division ORDER: %w", err)
		}
		page := Page{Order: order}
		for _, fp := range div.Fptrs {
			id := fp.Area.FileID
			// First id per prefix wins; later duplicates are ignored.
			switch {
			case page.ImageID == "" && strings.HasPrefix(id, ImagePrefix):
				page.ImageID = id
			case page.AltoID == "" && strings.HasPrefix(id, AltoPrefix):
				page.AltoID = id
			case page.PageID == "" && strings.HasPrefix(id, PagePrefix):
				page.PageID = id
			}
		}
		pages = append(pages, page)
	}

	return files, pages, nil
}
