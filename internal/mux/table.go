package mux

import (
	"encoding/json"
	"errors"
	"net/http"

	"toes-server/pkg/history"
	"toes-server/pkg/room"
	"toes-server/pkg/toes"
)

func (m *Mux) getTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := parsePage(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusOK, p.slice(m.pitBoss.Tables()))
	}
}

type postTablePayload struct {
	TableID     string            `json:"tableId"`
	PlayerIDs   []string          `json:"playerIds"`
	PlayerNames map[string]string `json:"playerNames"`
	Ante        int               `json:"ante"`
	DealerIndex int               `json:"dealerIndex"`
}

type postTableResponse struct {
	TableID           string `json:"tableId"`
	CommitHash        string `json:"commitHash"`
	PendingCommitHash string `json:"pendingCommitHash"`
}

func (m *Mux) postTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postTablePayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		ante := pp.Ante
		if ante == 0 {
			ante = m.config.defaultAnte
		}

		dealer, err := m.pitBoss.CreateTable(toes.Options{
			TableID:            pp.TableID,
			PlayerIDs:          pp.PlayerIDs,
			PlayerNames:        pp.PlayerNames,
			Ante:               ante,
			InitialDealerIndex: pp.DealerIndex,
		})
		if err != nil {
			if errors.Is(err, room.ErrTableExists) {
				writeJSONError(w, http.StatusConflict, err)
				return
			}

			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		state := dealer.State()
		writeJSON(w, http.StatusCreated, postTableResponse{
			TableID:           state.TableID,
			CommitHash:        state.CurrentShuffle.CommitHash,
			PendingCommitHash: state.PendingCommitHash,
		})
	}
}

func (m *Mux) getTableID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealer := dealerFromContext(r)
		writeJSON(w, http.StatusOK, dealer.View(r.FormValue("player")))
	}
}

func (m *Mux) deleteTableID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealer := dealerFromContext(r)
		if err := m.pitBoss.CloseTable(dealer.TableID()); err != nil {
			writeJSONError(w, http.StatusNotFound, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// postTableIDMove submits a move envelope
// The player is taken from the player query parameter, or from the move itself for a choose.
func (m *Mux) postTableIDMove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw json.RawMessage
		if !decodeRequest(w, r, &raw) {
			return
		}

		move, err := toes.DecodeMove(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		playerID := r.FormValue("player")
		if choose, ok := move.(toes.Choose); ok && playerID == "" {
			playerID = choose.PlayerID
		}

		if err := room.Authorize(playerID, move); err != nil {
			writeJSONError(w, http.StatusForbidden, err)
			return
		}

		dealer := dealerFromContext(r)
		state, err := dealer.Submit(r.Context(), move)
		if err != nil {
			switch {
			case errors.Is(err, room.ErrMoveRejected):
				writeJSONError(w, http.StatusConflict, err)
			case errors.Is(err, room.ErrDealerClosed):
				writeJSONError(w, http.StatusGone, err)
			default:
				writeJSONError(w, http.StatusInternalServerError, err)
			}

			return
		}

		writeJSON(w, http.StatusOK, toes.View(state, playerID))
	}
}

type getTableIDLegalResponse struct {
	PlayerID   string          `json:"playerId"`
	LegalMoves []toes.MoveKind `json:"legalMoves"`
}

func (m *Mux) getTableIDLegal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealer := dealerFromContext(r)
		playerID := r.FormValue("player")

		writeJSON(w, http.StatusOK, getTableIDLegalResponse{
			PlayerID:   playerID,
			LegalMoves: toes.LegalMoves(dealer.State(), playerID),
		})
	}
}

func (m *Mux) getTableIDLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dealerFromContext(r).LogMessages())
	}
}

type getTableIDHistoryResponse struct {
	Shuffles []*history.ShuffleRecord `json:"shuffles"`
	Result   *history.MatchResult     `json:"result,omitempty"`
}

// getTableIDHistory returns the recorded audit trail of a finished match
// Seeds are secret until the match is over, so a match in progress is refused.
func (m *Mux) getTableIDHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.history == nil {
			writeJSONError(w, http.StatusNotFound, errors.New("history is not enabled"))
			return
		}

		dealer := dealerFromContext(r)
		if !dealer.State().IsOver() {
			writeJSONError(w, http.StatusForbidden, errors.New("match is in progress"))
			return
		}

		shuffles, err := m.history.ShufflesByTable(r.Context(), dealer.TableID())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		result, err := m.history.ResultByTable(r.Context(), dealer.TableID())
		if err != nil {
			writeNotFoundOr(w, err, "no result is recorded")
			return
		}

		writeJSON(w, http.StatusOK, getTableIDHistoryResponse{
			Shuffles: shuffles,
			Result:   result,
		})
	}
}
