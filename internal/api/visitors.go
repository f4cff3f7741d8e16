package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/erazemk/visitorlog/internal/model"
	"github.com/erazemk/visitorlog/internal/store"
)

// VisitorStore is the persistence the visitor endpoints need.
type VisitorStore interface {
	Create(ctx context.Context, v *model.Visitor) (*model.Visitor, error)
	Get(ctx context.Context, id, ownerID string) (*model.Visitor, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Visitor, error)
	Update(ctx context.Context, id, ownerID string, patch *model.VisitorPatch) (*model.Visitor, error)
	Delete(ctx context.Context, id, ownerID string) error
	SetPhoto(ctx context.Context, id, ownerID string, photo []byte) error
	Photo(ctx context.Context, id, ownerID string) ([]byte, error)
}

// VisitorMetrics counts visitor mutations.
type VisitorMetrics interface {
	IncrementVisitorsCreated()
	IncrementVisitorsUpdated()
	IncrementVisitorsDeleted()
	IncrementPhotosUploaded()
}

// VisitorsHandler handles the visitor endpoints.
type VisitorsHandler struct {
	Store   VisitorStore
	Metrics VisitorMetrics
	// AllowBodyOwner lets Create take the owner from the request body when
	// the request carries no session identity.
	AllowBodyOwner bool
}

// Register mounts the visitor routes on r.
func (h *VisitorsHandler) Register(r chi.Router) {
	r.Get("/visitors", h.List)
	r.Post("/visitors", h.Create)
	r.Put("/visitors/{id}", h.Update)
	r.Delete("/visitors/{id}", h.Delete)
	r.Put("/visitors/{id}/photo", h.UploadPhoto)
	r.Get("/visitors/{id}/photo", h.GetPhoto)
}

type createVisitorRequest struct {
	UserID  string  `json:"userId"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Purpose string  `json:"purpose"`
	Host    string  `json:"host"`
	CheckIn *string `json:"checkIn"`
	Status  string  `json:"status"`
}

func (req *createVisitorRequest) toVisitor() (*model.Visitor, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, validationError("Name is required")
	}
	status, err := model.ParseStatus(req.Status)
	if err != nil {
		return nil, validationError("Status must be In or Out")
	}

	v := &model.Visitor{
		Name:    req.Name,
		Phone:   req.Phone,
		Purpose: req.Purpose,
		Host:    req.Host,
		Status:  status,
	}
	if req.CheckIn != nil && strings.TrimSpace(*req.CheckIn) != "" {
		t, err := model.ParseTime(*req.CheckIn, time.UTC)
		if err != nil {
			return nil, validationError("Invalid checkIn date")
		}
		v.CheckIn = &t
	}
	v.Normalize()
	return v, nil
}

// validationError is a client-facing message for a rejected request.
type validationError string

func (e validationError) Error() string { return string(e) }

// optionalTime distinguishes an absent timestamp from an explicit null or
// empty string, which clear the stored value.
type optionalTime struct {
	set   bool
	value *string
}

func (o *optionalTime) UnmarshalJSON(data []byte) error {
	o.set = true
	if string(data) == "null" {
		o.value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("expected a date string")
	}
	o.value = &s
	return nil
}

func (o optionalTime) update(field string) (*model.TimeUpdate, error) {
	if !o.set {
		return nil, nil
	}
	if o.value == nil || strings.TrimSpace(*o.value) == "" {
		return &model.TimeUpdate{}, nil
	}
	t, err := model.ParseTime(*o.value, time.UTC)
	if err != nil {
		return nil, validationError("Invalid " + field + " date")
	}
	return &model.TimeUpdate{Value: &t}, nil
}

type updateVisitorRequest struct {
	Name     *string      `json:"name"`
	Phone    *string      `json:"phone"`
	Purpose  *string      `json:"purpose"`
	Host     *string      `json:"host"`
	CheckIn  optionalTime `json:"checkIn"`
	CheckOut optionalTime `json:"checkOut"`
	Status   *string      `json:"status"`
}

func (req *updateVisitorRequest) toPatch() (*model.VisitorPatch, error) {
	patch := &model.VisitorPatch{
		Name:    req.Name,
		Phone:   req.Phone,
		Purpose: req.Purpose,
		Host:    req.Host,
	}

	var err error
	if patch.CheckIn, err = req.CheckIn.update("checkIn"); err != nil {
		return nil, err
	}
	if patch.CheckOut, err = req.CheckOut.update("checkOut"); err != nil {
		return nil, err
	}
	if req.Status != nil {
		st := model.Status(strings.TrimSpace(*req.Status))
		if !st.IsValid() {
			return nil, validationError("Status must be In or Out")
		}
		patch.Status = &st
	}

	patch.Normalize()
	if patch.Name != nil && *patch.Name == "" {
		return nil, validationError("Name is required")
	}
	return patch, nil
}

type deleteVisitorResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// visitorID parses the {id} path parameter. On failure it writes a 400
// response and returns "".
func visitorID(w http.ResponseWriter, r *http.Request) string {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid visitor id")
		return ""
	}
	return id.String()
}

// storeError maps a store failure to a response.
func storeError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "Visitor not found")
		return
	}
	slog.Error(msg, "error", err)
	jsonError(w, http.StatusInternalServerError, rootCause(err).Error())
}

// rootCause returns the innermost error of a wrapped chain, which is the
// driver's own error for store failures.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// List handles GET /api/visitors.
func (h *VisitorsHandler) List(w http.ResponseWriter, r *http.Request) {
	visitors, err := h.Store.ListByOwner(r.Context(), SessionUserID(r.Context()))
	if err != nil {
		storeError(w, err, "failed to list visitors")
		return
	}
	jsonResponse(w, http.StatusOK, visitors)
}

// Create handles POST /api/visitors.
func (h *VisitorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createVisitorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	v, err := req.toVisitor()
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	v.UserID = SessionUserID(r.Context())
	if v.UserID == "" && h.AllowBodyOwner && req.UserID != "" {
		owner, err := uuid.Parse(req.UserID)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "Invalid userId")
			return
		}
		v.UserID = owner.String()
	}

	created, err := h.Store.Create(r.Context(), v)
	if err != nil {
		storeError(w, err, "failed to create visitor")
		return
	}

	h.Metrics.IncrementVisitorsCreated()
	slog.Info("visitor created", "user", created.UserID, "visitor", created.ID)
	jsonResponse(w, http.StatusCreated, created)
}

// Update handles PUT /api/visitors/{id}.
func (h *VisitorsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := visitorID(w, r)
	if id == "" {
		return
	}

	// A missing body is the empty subset of fields.
	var req updateVisitorRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Store.Update(r.Context(), id, SessionUserID(r.Context()), patch)
	if err != nil {
		storeError(w, err, "failed to update visitor")
		return
	}

	h.Metrics.IncrementVisitorsUpdated()
	slog.Info("visitor updated", "user", SessionUserID(r.Context()), "visitor", id)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/visitors/{id}.
func (h *VisitorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := visitorID(w, r)
	if id == "" {
		return
	}

	if err := h.Store.Delete(r.Context(), id, SessionUserID(r.Context())); err != nil {
		storeError(w, err, "failed to delete visitor")
		return
	}

	h.Metrics.IncrementVisitorsDeleted()
	slog.Info("visitor deleted", "user", SessionUserID(r.Context()), "visitor", id)
	jsonResponse(w, http.StatusOK, deleteVisitorResponse{Message: "Visitor deleted", ID: id})
}
