package mux

import (
	"errors"
	"net/http"

	"toes-server/pkg/deck"
	"toes-server/pkg/shuffle"
)

type postVerifyPayload struct {
	shuffle.Audit
	// Hasher optionally names the commitment hash, the server's own is used otherwise
	Hasher string `json:"hasher"`
}

type postVerifyResponse struct {
	Valid  bool        `json:"valid"`
	Hasher string      `json:"hasher"`
	Deck   []deck.Card `json:"deck,omitempty"`
}

// postVerify lets anyone check a revealed seed against its commitment and replay the deck
func (m *Mux) postVerify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postVerifyPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if pp.Seed == "" || pp.CommitHash == "" {
			writeJSONError(w, http.StatusBadRequest, errors.New("seed and commitHash are required"))
			return
		}

		shuffler := m.pitBoss.Shuffler()
		if pp.Hasher != "" {
			hasher, err := shuffle.HasherByName(pp.Hasher)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, err)
				return
			}

			shuffler, err = shuffle.New(hasher)
			if err != nil {
				writeJSONError(w, http.StatusInternalServerError, err)
				return
			}
		}

		resp := postVerifyResponse{
			Hasher: shuffler.Hasher().Name(),
		}

		if err := shuffler.Verify(pp.Audit); err == nil {
			resp.Valid = true
			resp.Deck = shuffler.Generate(pp.Seed).Deck
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
