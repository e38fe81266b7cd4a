package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodeforest/pkg/buildinfo"
	nferrors "github.com/matzehuels/nodeforest/pkg/errors"
	"github.com/matzehuels/nodeforest/pkg/service"
)

// maxBodyBytes bounds PATCH bodies.
const maxBodyBytes = 1 << 20

// Handlers holds the route handlers.
type Handlers struct {
	svc    *service.Service
	logger *log.Logger
}

// NewHandlers creates handlers backed by svc.
func NewHandlers(svc *service.Service, logger *log.Logger) *Handlers {
	return &Handlers{svc: svc, logger: logger}
}

// MoveResponse is the success body of PATCH /nodes/move.
type MoveResponse struct {
	Success bool    `json:"success"`
	Moved   []int64 `json:"moved"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool          `json:"success"`
	Error   string        `json:"error"`
	Code    nferrors.Code `json:"code,omitempty"`
	NodeID  *int64        `json:"node_id,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// moveBody keeps target_parent_id raw so a missing field can be told apart
// from an explicit null.
type moveBody struct {
	NodeIDs        []int64         `json:"node_ids"`
	TargetParentID json.RawMessage `json:"target_parent_id"`
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: buildinfo.Version})
}

// HandleGetNodes handles GET /nodes.
func (h *Handlers) HandleGetNodes(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Query(r.Context(), ParseFlat(r.URL.Query().Get("flat")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleMove handles PATCH /nodes/move.
func (h *Handlers) HandleMove(w http.ResponseWriter, r *http.Request) {
	req, err := decodeMove(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.svc.Move(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MoveResponse{Success: true, Moved: res.Moved})
}

// ParseFlat interprets the flat query parameter. Only "false" (any case)
// and "0" select the nested view.
func ParseFlat(v string) bool {
	return !strings.EqualFold(v, "false") && v != "0"
}

func decodeMove(r io.Reader) (service.MoveRequest, error) {
	var body moveBody
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return service.MoveRequest{}, nferrors.Wrap(nferrors.ErrCodeInvalidInput, err, "request body must be a JSON object with node_ids and target_parent_id")
	}

	req := service.MoveRequest{NodeIDs: body.NodeIDs}
	raw := bytes.TrimSpace(body.TargetParentID)
	switch {
	case len(raw) == 0:
		return service.MoveRequest{}, nferrors.New(nferrors.ErrCodeInvalidInput, "target_parent_id is required (null for the root level)")
	case bytes.Equal(raw, []byte("null")):
	default:
		var id int64
		if err := json.Unmarshal(raw, &id); err != nil {
			return service.MoveRequest{}, nferrors.Wrap(nferrors.ErrCodeInvalidInput, err, "target_parent_id must be an integer or null")
		}
		req.TargetParentID = &id
	}
	return req, nil
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if nferrors.IsValidation(err) {
		status = http.StatusBadRequest
	}

	resp := ErrorResponse{
		Error: nferrors.UserMessage(err),
		Code:  nferrors.GetCode(err),
	}
	if id, ok := nferrors.GetNodeID(err); ok {
		resp.NodeID = &id
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", GetRequestID(r.Context()))
		if resp.Code == "" {
			resp.Code = nferrors.ErrCodeInternal
		}
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
