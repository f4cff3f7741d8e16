package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/erazemk/visitorlog/internal/imaging"
	"github.com/erazemk/visitorlog/internal/model"
	"github.com/erazemk/visitorlog/internal/store"
)

type visitorRow struct {
	model.Visitor
	// Search holds the lowercased searchable fields, one per line, for the
	// in-page filter.
	Search string
	Hidden bool
}

type visitorsPage struct {
	PageData
	Query string
	Rows  []visitorRow
	Shown int
}

type visitorFormPage struct {
	PageData
	Form     model.VisitorForm
	Errors   model.FieldErrors
	Edit     bool
	ID       string
	HasPhoto bool
	Return   string
}

// listURL returns the list page URL that keeps the search term q.
func listURL(q string) string {
	if q == "" {
		return "/visitors"
	}
	return "/visitors?q=" + url.QueryEscape(q)
}

// pathVisitorID returns the {id} path parameter, or "" after writing a 404
// when it is not a valid visitor id.
func pathVisitorID(w http.ResponseWriter, r *http.Request) string {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "Visitor not found", http.StatusNotFound)
		return ""
	}
	return id
}

func formFromRequest(r *http.Request) model.VisitorForm {
	return model.VisitorForm{
		Name:     r.FormValue("name"),
		Phone:    r.FormValue("phone"),
		Purpose:  r.FormValue("purpose"),
		Host:     r.FormValue("host"),
		CheckIn:  r.FormValue("checkIn"),
		CheckOut: r.FormValue("checkOut"),
		Status:   r.FormValue("status"),
	}
}

// VisitorsPage handles GET /visitors. All of the user's visitors are
// rendered; rows not matching q start hidden so the in-page filter can show
// them again without a reload.
func (s *Server) VisitorsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	visitors, err := s.Visitors.ListByOwner(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("failed to list visitors", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page := &visitorsPage{
		PageData: PageData{Title: "Visitors", User: claims, Success: popFlash(w, r)},
		Query:    q,
		Rows:     make([]visitorRow, 0, len(visitors)),
	}
	for i := range visitors {
		v := &visitors[i]
		match := v.Matches(q, s.Location)
		if match {
			page.Shown++
		}
		page.Rows = append(page.Rows, visitorRow{
			Visitor: *v,
			Search:  strings.Join(v.SearchFields(s.Location), "\n"),
			Hidden:  !match,
		})
	}

	s.Templates.Render(w, http.StatusOK, "visitors.html", page)
}

// VisitorNewPage handles GET /visitors/new.
func (s *Server) VisitorNewPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, http.StatusOK, "visitor_form.html", &visitorFormPage{
		PageData: PageData{Title: "Add visitor", User: GetWebClaims(r.Context())},
		Errors:   model.FieldErrors{},
	})
}

// VisitorCreateSubmit handles POST /visitors/new. A successful add renders
// an empty form again so the next visitor can be entered.
func (s *Server) VisitorCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	form := formFromRequest(r)
	form.CheckOut = ""

	page := &visitorFormPage{
		PageData: PageData{Title: "Add visitor", User: claims},
		Form:     form,
	}

	page.Errors = form.Validate(s.Location)
	if len(page.Errors) > 0 {
		s.Templates.Render(w, http.StatusBadRequest, "visitor_form.html", page)
		return
	}

	v := form.Visitor(s.Location)
	v.UserID = claims.UserID
	created, err := s.Visitors.Create(r.Context(), v)
	if err != nil {
		slog.Error("failed to create visitor", "error", err)
		page.Error = "Could not save visitor."
		s.Templates.Render(w, http.StatusInternalServerError, "visitor_form.html", page)
		return
	}

	s.Metrics.IncrementVisitorsCreated()
	slog.Info("visitor created", "user", claims.UserID, "visitor", created.ID)

	s.Templates.Render(w, http.StatusOK, "visitor_form.html", &visitorFormPage{
		PageData: PageData{Title: "Add visitor", User: claims, Success: "Visitor added"},
		Errors:   model.FieldErrors{},
	})
}

// VisitorEditPage handles GET /visitors/{id}/edit.
func (s *Server) VisitorEditPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id := pathVisitorID(w, r)
	if id == "" {
		return
	}

	v, err := s.Visitors.Get(r.Context(), id, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Visitor not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to get visitor", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Templates.Render(w, http.StatusOK, "visitor_form.html", &visitorFormPage{
		PageData: PageData{Title: "Edit visitor", User: claims},
		Form:     model.FormFromVisitor(v, s.Location),
		Errors:   model.FieldErrors{},
		Edit:     true,
		ID:       v.ID,
		HasPhoto: v.HasPhoto,
		Return:   r.URL.Query().Get("return"),
	})
}

// VisitorUpdateSubmit handles POST /visitors/{id}/edit. The form is
// multipart so it can carry an optional photo.
func (s *Server) VisitorUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id := pathVisitorID(w, r)
	if id == "" {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "Photo too large or invalid form", http.StatusBadRequest)
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	form := formFromRequest(r)
	page := &visitorFormPage{
		PageData: PageData{Title: "Edit visitor", User: claims},
		Form:     form,
		Edit:     true,
		ID:       id,
		Return:   r.FormValue("return"),
	}

	current, err := s.Visitors.Get(r.Context(), id, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Visitor not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to get visitor", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	page.HasPhoto = current.HasPhoto

	page.Errors = form.Validate(s.Location)

	var photo []byte
	if file, _, err := r.FormFile("photo"); err == nil {
		photo, err = imaging.NormalizePhoto(file)
		file.Close()
		if err != nil {
			page.Errors["photo"] = "Photo must be a JPEG or PNG under 5 MB"
		}
	}

	if len(page.Errors) > 0 {
		s.Templates.Render(w, http.StatusBadRequest, "visitor_form.html", page)
		return
	}

	if _, err := s.Visitors.Update(r.Context(), id, claims.UserID, form.Patch(s.Location)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Visitor not found", http.StatusNotFound)
			return
		}
		slog.Error("failed to update visitor", "error", err)
		page.Error = "Could not save visitor."
		s.Templates.Render(w, http.StatusInternalServerError, "visitor_form.html", page)
		return
	}
	s.Metrics.IncrementVisitorsUpdated()

	if photo != nil {
		if err := s.Visitors.SetPhoto(r.Context(), id, claims.UserID, photo); err != nil {
			slog.Error("failed to store photo", "error", err)
			page.Error = "Visitor saved, but the photo could not be stored."
			s.Templates.Render(w, http.StatusInternalServerError, "visitor_form.html", page)
			return
		}
		s.Metrics.IncrementPhotosUploaded()
	}

	slog.Info("visitor updated", "user", claims.UserID, "visitor", id)
	setFlash(w, "Visitor updated")
	http.Redirect(w, r, listURL(page.Return), http.StatusSeeOther)
}

// VisitorDeleteSubmit handles POST /visitors/{id}/delete.
func (s *Server) VisitorDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id := pathVisitorID(w, r)
	if id == "" {
		return
	}

	err := s.Visitors.Delete(r.Context(), id, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Visitor not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to delete visitor", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Metrics.IncrementVisitorsDeleted()
	slog.Info("visitor deleted", "user", claims.UserID, "visitor", id)
	setFlash(w, "Visitor deleted")
	http.Redirect(w, r, listURL(r.FormValue("return")), http.StatusSeeOther)
}

// VisitorPhotoGet handles GET /visitors/{id}/photo.
func (s *Server) VisitorPhotoGet(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id := pathVisitorID(w, r)
	if id == "" {
		return
	}

	photo, err := s.Visitors.Photo(r.Context(), id, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get photo", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", imaging.ContentType)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=300")
	if _, err := w.Write(photo); err != nil {
		slog.Error("failed to write photo response", "error", err)
	}
}
