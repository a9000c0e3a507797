package mux

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

const maxRows = 100
const defaultRows = 100

// page is a window over a sorted listing
type page struct {
	start int
	rows  int
}

func parsePage(r *http.Request) (page, error) {
	p := page{rows: defaultRows}

	if s := r.FormValue("start"); s != "" {
		val, err := strconv.Atoi(s)
		if err != nil {
			return page{}, fmt.Errorf("invalid start: %q", s)
		}

		if val < 0 {
			return page{}, errors.New("start cannot be less than zero")
		}

		p.start = val
	}

	if s := r.FormValue("rows"); s != "" {
		val, err := strconv.Atoi(s)
		if err != nil {
			return page{}, fmt.Errorf("invalid rows: %q", s)
		}

		if val <= 0 || val > maxRows {
			return page{}, fmt.Errorf("rows must be between 1 and %d", maxRows)
		}

		p.rows = val
	}

	return p, nil
}

// slice returns the part of ids inside the page
func (p page) slice(ids []string) []string {
	if p.start >= len(ids) {
		return []string{}
	}

	ids = ids[p.start:]
	if len(ids) > p.rows {
		ids = ids[:p.rows]
	}

	return ids
}

func remoteAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

func decodeRequest(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if ct := r.Header.Get("Content-Type"); ct != "application/json" {
		writeJSONError(w, http.StatusUnsupportedMediaType, nil)
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("could not write JSON response")
	}
}

type errorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// writeNotFoundOr writes a 404 with notFound for sql.ErrNoRows, and a 500 otherwise
func writeNotFoundOr(w http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, http.StatusNotFound, errors.New(notFound))
		return
	}

	writeJSONError(w, http.StatusInternalServerError, err)
}

// writeJSONError writes err as the message of a client error
// Server errors are logged and reported by their status text only.
func writeJSONError(w http.ResponseWriter, statusCode int, err error) {
	msg := http.StatusText(statusCode)
	if statusCode < 500 && err != nil {
		msg = err.Error()
	}

	if statusCode >= 500 {
		logrus.WithField("statusCode", statusCode).Error(err)
	}

	writeJSON(w, statusCode, errorResponse{
		Message:    msg,
		StatusCode: statusCode,
	})
}
