package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abelzeko/aquahealth/internal/entities"
	"github.com/abelzeko/aquahealth/internal/repository"
	"github.com/abelzeko/aquahealth/internal/usecases"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxUploadSize bounds multipart post submissions including the image
const maxUploadSize = 10 << 20

// Handler ties HTTP routes to the use cases
type Handler struct {
	services Services
}

// postView is a feed post as served over HTTP
type postView struct {
	usecases.FeedItem
	ImageURL string `json:"image_url,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Warnf("Failed to write response: %v", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, entities.ErrInvalidObservation),
		errors.Is(err, usecases.ErrUnknownTag),
		errors.Is(err, usecases.ErrInvalidPost):
		code = http.StatusBadRequest
	case errors.Is(err, repository.ErrImageNotFound),
		errors.Is(err, repository.ErrUnknownParameter):
		code = http.StatusNotFound
	}
	if code == http.StatusInternalServerError {
		zap.S().Errorf("Request failed: %v", err)
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// decodeObservation reads a logbook form, applying the form defaults for omitted fields
func decodeObservation(r *http.Request) (entities.Observation, error) {
	obs := entities.NewObservation(entities.Readings{})
	if err := json.NewDecoder(r.Body).Decode(&obs); err != nil {
		return obs, fmt.Errorf("%w: malformed JSON: %v", entities.ErrInvalidObservation, err)
	}
	return obs, nil
}

// CreateAssessment scores a logbook observation
func (h *Handler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	obs, err := decodeObservation(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	a, err := h.services.Assessments.AssessObservation(obs)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// AssessmentGauge scores a logbook observation and returns the circular gauge
func (h *Handler) AssessmentGauge(w http.ResponseWriter, r *http.Request) {
	obs, err := decodeObservation(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	a, err := h.services.Assessments.AssessObservation(obs)
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	io.WriteString(w, RenderGauge(a))
}

// ListPosts returns the community feed, newest first
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	items, err := h.services.Feed.ListPosts()
	if err != nil {
		h.respondError(w, err)
		return
	}
	views := make([]postView, 0, len(items))
	for _, item := range items {
		v := postView{FeedItem: item}
		if item.ShowImage {
			v.ImageURL = "/images/" + filepath.Base(item.ImagePath)
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, views)
}

// postRequest is the JSON form of a feed submission
type postRequest struct {
	User     string  `json:"user"`
	Location string  `json:"location"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Message  string  `json:"message"`
	Tag      string  `json:"tag"`
}

// CreatePost accepts a report as JSON or as a multipart form with an optional "image" file
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var sub usecases.PostSubmission

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			h.respondError(w, fmt.Errorf("%w: %v", usecases.ErrInvalidPost, err))
			return
		}
		var err error
		if sub, err = submissionFromForm(r); err != nil {
			h.respondError(w, err)
			return
		}
		if f, _, err := r.FormFile("image"); err == nil {
			defer f.Close()
			sub.Image = f
		}
	} else {
		var req postRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondError(w, fmt.Errorf("%w: malformed JSON: %v", usecases.ErrInvalidPost, err))
			return
		}
		sub = usecases.PostSubmission{
			User:     req.User,
			Location: req.Location,
			Lat:      req.Lat,
			Lon:      req.Lon,
			Message:  req.Message,
			Tag:      req.Tag,
		}
	}

	post, err := h.services.Feed.SubmitPost(sub)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func submissionFromForm(r *http.Request) (usecases.PostSubmission, error) {
	sub := usecases.PostSubmission{
		User:     r.FormValue("user"),
		Location: r.FormValue("location"),
		Message:  r.FormValue("message"),
		Tag:      r.FormValue("tag"),
	}
	for name, dst := range map[string]*float64{"lat": &sub.Lat, "lon": &sub.Lon} {
		raw := strings.TrimSpace(r.FormValue(name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return sub, fmt.Errorf("%w: %s %q is not a number", usecases.ErrInvalidPost, name, raw)
		}
		*dst = v
	}
	return sub, nil
}

// ListTags returns the report categories
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.services.Feed.Tags())
}

// GetImage serves a stored post image
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rc, err := h.services.Feed.OpenImage(name)
	if err != nil {
		h.respondError(w, err)
		return
	}
	defer rc.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(rc, head)
	w.Header().Set("Content-Type", http.DetectContentType(head[:n]))
	w.Write(head[:n])
	io.Copy(w, rc)
}

// DashboardSummary returns the logbook headline metrics
func (h *Handler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.services.Dashboard.Summary()
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// ListLogbook returns logbook entries, optionally filtered with ?status=
func (h *Handler) ListLogbook(w http.ResponseWriter, r *http.Request) {
	entries, err := h.services.Dashboard.Entries(r.URL.Query().Get("status"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	if entries == nil {
		entries = []entities.LogbookEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// LogbookStatuses returns the alert status filter options
func (h *Handler) LogbookStatuses(w http.ResponseWriter, r *http.Request) {
	options, err := h.services.Dashboard.StatusOptions()
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// LogbookSeries returns one parameter over time
func (h *Handler) LogbookSeries(w http.ResponseWriter, r *http.Request) {
	points, err := h.services.Dashboard.Trend(chi.URLParam(r, "parameter"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	if points == nil {
		points = []entities.SeriesPoint{}
	}
	writeJSON(w, http.StatusOK, points)
}

// ListInsights returns Harbor Helper insights filtered with ?location= and ?q=
func (h *Handler) ListInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.services.Insights.Insights(usecases.InsightFilter{
		Location: r.URL.Query().Get("location"),
		Keyword:  r.URL.Query().Get("q"),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// InsightLocations returns the location filter options
func (h *Handler) InsightLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.services.Insights.Locations()
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, append([]string{entities.StatusAll}, locations...))
}
