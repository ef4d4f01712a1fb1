package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dhlab-no/trpexport/internal/dataset"
	"github.com/dhlab-no/trpexport/internal/extractor"
	"github.com/go-chi/chi/v5"
)

// handleFeatures returns the dataset field schema.
func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"features": dataset.Features()})
}

// handleRecords streams the extracted records as a JSON array. Extraction is
// lazy, so file reads are driven by the response being written. An optional
// repeated collection query parameter narrows the server-wide filter further.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.requestOptions(w, r)
	if !ok {
		return
	}
	// All requested ids fall outside the operator's filter: nothing to scan.
	if opts.Collections == nil && len(s.opts.Collections) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"records":[]}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"records":[`))
	enc := json.NewEncoder(w)
	first := true
	for rec, err := range extractor.Records(s.root, opts) {
		if err != nil {
			// Headers are gone; terminate the array and surface the error in-band.
			s.log.Error("extraction failed", "error", err)
			w.Write([]byte(`],"error":` + strconv.Quote(err.Error()) + "}"))
			return
		}
		if !first {
			w.Write([]byte(","))
		}
		first = false
		enc.Encode(rec)
	}
	w.Write([]byte(`]}`))
}

// handleRecordBySeq returns the first record whose sequence position matches
// the path parameter. Sequence positions are only unique within a bundle, so
// the lookup follows scan order.
func (s *Server) handleRecordBySeq(w http.ResponseWriter, r *http.Request) {
	seq, err := strconv.Atoi(chi.URLParam(r, "seq"))
	if err != nil {
		jsonError(w, "invalid sequence: "+chi.URLParam(r, "seq"), http.StatusBadRequest)
		return
	}

	for rec, err := range extractor.Records(s.root, s.opts) {
		if err != nil {
			s.log.Error("extraction failed", "error", err)
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if rec.Sequence == seq {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(rec)
			return
		}
	}
	jsonError(w, fmt.Sprintf("no record with sequence %d", seq), http.StatusNotFound)
}

// requestOptions applies the request's collection parameters to the
// server-wide options. A request can only narrow the operator's filter, never
// widen it: with a server-wide filter in place, query ids outside it are
// dropped, and Collections comes back nil when none survive. A false return
// means the request was rejected and a response already written.
func (s *Server) requestOptions(w http.ResponseWriter, r *http.Request) (extractor.Options, bool) {
	opts := s.opts
	qs := r.URL.Query()["collection"]
	if len(qs) == 0 {
		return opts, true
	}

	ids := make([]int, 0, len(qs))
	for _, raw := range qs {
		id, err := strconv.Atoi(raw)
		if err != nil {
			jsonError(w, "invalid collection id: "+raw, http.StatusBadRequest)
			return extractor.Options{}, false
		}
		ids = append(ids, id)
	}

	if len(s.opts.Collections) == 0 {
		opts.Collections = ids
		return opts, true
	}

	allowed := make(map[int]bool, len(s.opts.Collections))
	for _, id := range s.opts.Collections {
		allowed[id] = true
	}
	var kept []int
	for _, id := range ids {
		if allowed[id] {
			kept = append(kept, id)
		}
	}
	opts.Collections = kept
	return opts, true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
