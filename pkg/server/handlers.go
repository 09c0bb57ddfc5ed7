// Package server implements the dispatch surface of spec §4.H: HTTP
// handlers for the two query operations (num_bridges, tracked_bridges) and
// the two mutating operations (initialize_bridge, submit_finalized_headers),
// the latter gated by origin authorization. Grounded on
// pkg/server/proof_handlers.go's method-check / path-parse /
// writeJSON-writeError idiom.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bridgecore/finality-bridge/pkg/bridge"
	"github.com/bridgecore/finality-bridge/pkg/bridgeerr"
	"github.com/bridgecore/finality-bridge/pkg/bridgetypes"
	"github.com/bridgecore/finality-bridge/pkg/database"
	"github.com/bridgecore/finality-bridge/pkg/metrics"
)

// auditRecorder is the subset of *database.Client handlers depend on, so
// tests can fake it without a live Postgres connection.
type auditRecorder interface {
	RecordJustification(ctx context.Context, rec database.JustificationRecord) error
}

// Handlers provides HTTP handlers for the bridge registry.
type Handlers struct {
	registry          *bridge.Registry
	authorizedOrigins map[string]bool
	logger            *log.Logger
	audit             auditRecorder
}

// NewHandlers creates handlers bound to registry, authorizing mutating
// requests whose X-Bridge-Origin header appears in authorizedOrigins. audit
// may be nil, in which case accepted justifications are not persisted to an
// audit trail.
func NewHandlers(registry *bridge.Registry, authorizedOrigins []string, logger *log.Logger, audit auditRecorder) *Handlers {
	if logger == nil {
		logger = log.New(log.Writer(), "[BridgeAPI] ", log.LstdFlags)
	}
	origins := make(map[string]bool, len(authorizedOrigins))
	for _, o := range authorizedOrigins {
		origins[o] = true
	}
	return &Handlers{registry: registry, authorizedOrigins: origins, logger: logger, audit: audit}
}

// HandleNumBridges handles GET /api/v1/bridges.
func (h *Handlers) HandleNumBridges(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, bridgeerr.CodeInvalidArgument, "only GET is allowed")
		return
	}

	n, err := h.registry.NumBridges()
	if err != nil {
		h.logger.Printf("error counting bridges: %v", err)
		h.writeError(w, http.StatusInternalServerError, bridgeerr.CodeInvalidArgument, "failed to count bridges")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"num_bridges": n})
}

// HandleTrackedBridge handles GET /api/v1/bridges/{id}.
func (h *Handlers) HandleTrackedBridge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, bridgeerr.CodeInvalidArgument, "only GET is allowed")
		return
	}

	id, err := h.parseBridgeID(r, "/api/v1/bridges/")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, bridgeerr.CodeInvalidArgument, err.Error())
		return
	}

	info, ok, err := h.registry.TrackedBridge(id)
	if err != nil {
		h.logger.Printf("error loading bridge %d: %v", id, err)
		h.writeError(w, http.StatusInternalServerError, bridgeerr.CodeInvalidArgument, "failed to load bridge")
		return
	}
	if !ok {
		h.writeError(w, http.StatusNotFound, bridgeerr.CodeNotFound, "bridge not found")
		return
	}

	h.writeJSON(w, http.StatusOK, fromBridgeInfo(info))
}

// HandleInitializeBridge handles POST /api/v1/bridges.
func (h *Handlers) HandleInitializeBridge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, bridgeerr.CodeInvalidArgument, "only POST is allowed")
		return
	}
	if !h.authorizeOrigin(r) {
		h.writeError(w, http.StatusForbidden, bridgeerr.CodeInvalidArgument, "origin not authorized to initialize a bridge")
		return
	}

	var req initializeBridgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, bridgeerr.CodeInvalidArgument, "invalid request body")
		return
	}

	header, validatorSet, proof, err := req.decode()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, bridgeerr.CodeInvalidArgument, err.Error())
		return
	}

	id, err := h.registry.InitializeBridge(header, validatorSet, proof)
	if err != nil {
		h.writeBridgeErr(w, err)
		return
	}
	metrics.BridgeInitializations.Inc()
	metrics.TrackedBridges.Inc()

	h.writeJSON(w, http.StatusCreated, map[string]any{"bridge_id": id})
}

// HandleSubmitFinalizedHeaders handles POST /api/v1/bridges/{id}/headers.
func (h *Handlers) HandleSubmitFinalizedHeaders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, bridgeerr.CodeInvalidArgument, "only POST is allowed")
		return
	}
	if !h.authorizeOrigin(r) {
		h.writeError(w, http.StatusForbidden, bridgeerr.CodeInvalidArgument, "origin not authorized to submit headers")
		return
	}

	id, err := h.parseBridgeID(r, "/api/v1/bridges/")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, bridgeerr.CodeInvalidArgument, err.Error())
		return
	}

	var req submitFinalizedHeadersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, bridgeerr.CodeInvalidArgument, "invalid request body")
		return
	}

	header, justification, err := req.decode()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, bridgeerr.CodeInvalidArgument, err.Error())
		return
	}

	start := time.Now()
	err = h.registry.SubmitFinalizedHeaders(id, header, justification)
	h.logJustificationOutcome(id, err, time.Since(start))
	if err != nil {
		h.writeBridgeErr(w, err)
		return
	}

	if info, ok, infoErr := h.registry.TrackedBridge(id); infoErr == nil && ok {
		h.recordAudit(r.Context(), id, header, justification, info.CurrentSetID)
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"bridge_id":               id,
		"last_finalized_block":    uint64(header.Number),
		"last_finalized_block_id": header.Hash().String(),
	})
}

// recordAudit persists an accepted justification to the optional audit
// trail. A write failure here never unwinds the registry update that
// already happened; it is logged and otherwise ignored (SUPPLEMENTED
// FEATURES #5).
func (h *Handlers) recordAudit(ctx context.Context, bridgeID uint64, header bridgetypes.Header, justificationBytes []byte, setID uint64) {
	if h.audit == nil {
		return
	}

	j, err := bridgetypes.DecodeJustification(justificationBytes)
	if err != nil {
		h.logger.Printf("audit: failed to decode justification for bridge %d: %v", bridgeID, err)
		return
	}

	hash := header.Hash()
	rec := database.JustificationRecord{
		BridgeID:    bridgeID,
		BlockNumber: uint64(header.Number),
		BlockHash:   hash[:],
		Round:       j.Round,
		SetID:       setID,
	}
	if err := h.audit.RecordJustification(ctx, rec); err != nil {
		h.logger.Printf("audit: failed to record justification for bridge %d: %v", bridgeID, err)
	}
}

func (h *Handlers) logJustificationOutcome(bridgeID uint64, err error, duration time.Duration) {
	if err != nil {
		var be *bridgeerr.Error
		reason := "unknown"
		if asErr, ok := err.(*bridgeerr.Error); ok {
			be = asErr
			reason = string(be.Code)
		}
		metrics.ObserveJustificationRejected(reason)
		h.logger.Printf("justification rejected for bridge %d after %s: %v", bridgeID, duration, err)
		return
	}
	metrics.JustificationsAccepted.Inc()
	h.logger.Printf("justification accepted for bridge %d in %s", bridgeID, duration)
}

func (h *Handlers) authorizeOrigin(r *http.Request) bool {
	if len(h.authorizedOrigins) == 0 {
		return false
	}
	return h.authorizedOrigins[r.Header.Get("X-Bridge-Origin")]
}

func (h *Handlers) parseBridgeID(r *http.Request, prefix string) (uint64, error) {
	path := strings.TrimPrefix(r.URL.Path, prefix)
	idStr := strings.SplitN(strings.TrimSuffix(path, "/"), "/", 2)[0]
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, &bridgeerr.Error{Code: bridgeerr.CodeInvalidArgument, Reason: "invalid bridge id"}
	}
	return id, nil
}

func (h *Handlers) writeBridgeErr(w http.ResponseWriter, err error) {
	be, ok := err.(*bridgeerr.Error)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, bridgeerr.CodeInvalidArgument, err.Error())
		return
	}
	h.writeError(w, be.HTTPStatus(), be.Code, be.Error())
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("error encoding response: %v", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, code bridgeerr.Code, message string) {
	h.writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    string(code),
			"message": message,
		},
	})
}
