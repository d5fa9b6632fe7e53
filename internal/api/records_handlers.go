package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PULSECOACH/pulsecoach/internal/auth"
	"github.com/PULSECOACH/pulsecoach/internal/database"
	"github.com/PULSECOACH/pulsecoach/internal/models"
)

// DocumentStore is the raw record persistence the CRUD handlers need.
type DocumentStore interface {
	PutDocument(ctx context.Context, userID string, doc models.Document) (models.Document, error)
	GetDocument(ctx context.Context, userID, collection, id string) (*models.Document, error)
	DeleteDocument(ctx context.Context, userID, collection, id string) error
	ListDocuments(ctx context.Context, userID, collection string) ([]models.Document, error)
}

// RecordsHandler serves the generic per-collection CRUD under /api/records/.
// One handler covers every log surface; collection names are validated
// against the known set.
type RecordsHandler struct {
	store  DocumentStore
	logger *slog.Logger
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(store DocumentStore, logger *slog.Logger) *RecordsHandler {
	return &RecordsHandler{store: store, logger: logger}
}

// ServeHTTP routes /api/records/{collection} and
// /api/records/{collection}/{id}.
func (h *RecordsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/records/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "Collection required")
		return
	}

	collection := parts[0]
	if !models.KnownCollections[collection] {
		writeError(w, http.StatusNotFound, "Unknown collection")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.list(w, r, userID, collection)
	case len(parts) == 1 && r.Method == http.MethodPost:
		h.put(w, r, userID, collection, "")
	case len(parts) == 2 && r.Method == http.MethodGet:
		h.get(w, r, userID, collection, parts[1])
	case len(parts) == 2 && r.Method == http.MethodPut:
		h.put(w, r, userID, collection, parts[1])
	case len(parts) == 2 && r.Method == http.MethodDelete:
		h.delete(w, r, userID, collection, parts[1])
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *RecordsHandler) list(w http.ResponseWriter, r *http.Request, userID, collection string) {
	docs, err := h.store.ListDocuments(r.Context(), userID, collection)
	if err != nil {
		h.logger.Error("failed to list documents", "collection", collection, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"collection": collection,
		"records":    docs,
		"count":      len(docs),
	})
}

func (h *RecordsHandler) get(w http.ResponseWriter, r *http.Request, userID, collection, id string) {
	doc, err := h.store.GetDocument(r.Context(), userID, collection, id)
	if err == database.ErrNotFound {
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get document", "collection", collection, "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *RecordsHandler) put(w http.ResponseWriter, r *http.Request, userID, collection, id string) {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 || !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	// The profile collection holds a single fixed document.
	if collection == models.CollectionUserProfile && id == "" {
		id = models.ProfileDocumentID
	}

	doc, err := h.store.PutDocument(r.Context(), userID, models.Document{
		ID:         id,
		Collection: collection,
		Payload:    json.RawMessage(body),
	})
	if errors.Is(err, database.ErrInvalidDate) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to store document", "collection", collection, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, status, doc)
}

func (h *RecordsHandler) delete(w http.ResponseWriter, r *http.Request, userID, collection, id string) {
	err := h.store.DeleteDocument(r.Context(), userID, collection, id)
	if err == database.ErrNotFound {
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to delete document", "collection", collection, "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}
