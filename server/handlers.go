package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/jsphweid/chordex/catalog"
	"github.com/jsphweid/chordex/chord"
	"github.com/jsphweid/chordex/export"
	"github.com/jsphweid/chordex/locale"
	"github.com/jsphweid/chordex/logger"
	"github.com/jsphweid/chordex/model"
	"github.com/jsphweid/chordex/transpose"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Could not read request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	store := "none"
	if s.store != nil {
		store = s.cfg.CatalogStore
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"store":  store,
	})
}

func (s *Server) handleTranspose(w http.ResponseWriter, r *http.Request) {
	var input model.TransposeRequestBody
	if !decode(w, r, &input) {
		return
	}
	semitones, err := transpose.Semitones(input.FromKey, input.ToKey)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.TransposeResponse{
		Output:    transpose.Shift(input.Input, semitones),
		Semitones: semitones,
	})
}

func (s *Server) handleLocalize(w http.ResponseWriter, r *http.Request) {
	var input model.LocalizeRequestBody
	if !decode(w, r, &input) {
		return
	}
	lang, err := locale.ParseLanguage(input.Language)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.LocalizeResponse{
		Output: locale.LocalizeProgression(input.Input, lang),
	})
}

func (s *Server) prepareExport(w http.ResponseWriter, r *http.Request) (model.ExportRequestBody, bool) {
	var input model.ExportRequestBody
	if !decode(w, r, &input) {
		return input, false
	}
	req, _, err := export.Prepare(input, s.export, logger.WithRequest(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}

func writeFile(w http.ResponseWriter, res export.Result) {
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("X-Export-Summary", res.Summary.String())
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}

func (s *Server) handleExportMidi(w http.ResponseWriter, r *http.Request) {
	req, ok := s.prepareExport(w, r)
	if !ok {
		return
	}
	res, err := export.MIDI(req)
	if err != nil {
		logger.Error("MIDI export failed", err, logger.WithRequest(r))
		writeError(w, http.StatusInternalServerError, "Could not create MIDI file")
		return
	}
	writeFile(w, res)
}

func (s *Server) handleExportPdf(w http.ResponseWriter, r *http.Request) {
	req, ok := s.prepareExport(w, r)
	if !ok {
		return
	}
	res, err := export.PDF(req, s.cfg.ProductName)
	if errors.Is(err, locale.ErrUnknownLanguage) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		logger.Error("PDF export failed", err, logger.WithRequest(r))
		writeError(w, http.StatusInternalServerError, "Could not create PDF file")
		return
	}
	writeFile(w, res)
}

// handleChord looks a chord up by name ("Dbm7", "C/firstinversion"). The
// name must be path-escaped when it contains a slash.
func (s *Server) handleChord(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(mux.Vars(r)["name"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.store != nil {
		rows, err := s.store.ListChords(r.Context())
		if err != nil {
			logger.Error("Catalog read failed", err, logger.WithRequest(r))
			writeError(w, http.StatusInternalServerError, "Could not read the chord catalog")
			return
		}
		for _, row := range rows {
			if row.ChordName == name || row.ID == name {
				writeJSON(w, http.StatusOK, row)
				return
			}
		}
	}

	parsed, err := chord.Parse(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, catalog.Row(parsed.Instance()))
}
