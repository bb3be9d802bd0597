package graph

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/graph-gophers/graphql-go"
	jsoniter "github.com/json-iterator/go"

	"libraryapi/internal/httpx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves GraphQL over HTTP POST.
type Handler struct {
	schema *graphql.Schema
	logger *slog.Logger
}

func NewHandler(schema *graphql.Schema, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{schema: schema, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		httpx.WriteError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Use POST")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpx.WriteError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
			return
		}
		httpx.WriteError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Unreadable request body")
		return
	}

	var req request
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	if req.Query == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "BAD_REQUEST", "query is required")
		return
	}

	resp := h.schema.Exec(r.Context(), req.Query, req.OperationName, req.Variables)
	for _, e := range resp.Errors {
		h.logger.DebugContext(r.Context(), "graphql error",
			"operation", req.OperationName,
			"path", e.Path,
			"error", e.Message,
			"request_id", httpx.RequestIDFrom(r),
		)
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
