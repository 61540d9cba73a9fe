package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/ayurcare/internal/remedy"
	"github.com/hyperengineering/ayurcare/internal/store"
	"github.com/hyperengineering/ayurcare/internal/types"
	"github.com/hyperengineering/ayurcare/internal/validation"
)

// maxRequestBody caps JSON request bodies.
const maxRequestBody = 64 << 10

// Backend is the persistence the JSON API needs.
type Backend interface {
	store.AppointmentStore
	GetStats(ctx context.Context) (*types.StoreStats, error)
}

// Handler implements the API handlers
type Handler struct {
	backend Backend
	catalog *remedy.Catalog
	apiKey  string
	version string
	logger  *slog.Logger
}

// NewHandler creates a new Handler. An empty apiKey leaves the
// appointment endpoints open.
func NewHandler(b Backend, catalog *remedy.Catalog, apiKey, version string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		backend: b,
		catalog: catalog,
		apiKey:  apiKey,
		version: version,
		logger:  logger.With("component", "api"),
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.backend.GetStats(r.Context())
	if err != nil {
		h.logger.Error("stats failed", "error", err)
		WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:           "healthy",
		Message:          "Appointment API is running",
		Version:          h.version,
		AppointmentCount: stats.AppointmentCount,
	})
}

// SaveAppointment handles POST /api/save_appointment
func (h *Handler) SaveAppointment(w http.ResponseWriter, r *http.Request) {
	var req types.SaveAppointmentRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	res := validation.ValidateAppointment(req)
	if !res.Valid() {
		if len(res.Missing) > 0 {
			WriteError(w, r, http.StatusBadRequest,
				fmt.Sprintf("Missing required fields: %s", strings.Join(res.Missing, ", ")))
			return
		}
		fields := make([]string, 0, len(res.Errors.Errors()))
		for _, e := range res.Errors.Errors() {
			fields = append(fields, e.Field)
		}
		h.logger.Info("appointment rejected", "invalid_fields", fields)
		WriteError(w, r, http.StatusBadRequest, "Request contains invalid fields", res.Errors.Strings()...)
		return
	}

	appt, err := h.backend.CreateAppointment(r.Context(), res.Appointment)
	if err != nil {
		if !errors.Is(err, store.ErrDuplicateAppointment) {
			h.logger.Error("save appointment failed", "error", err)
		}
		MapStoreError(w, r, err)
		return
	}

	h.logger.Info("appointment saved",
		"appointment_id", appt.ID,
		"date", appt.AppointmentDate,
		"time", appt.AppointmentTime,
	)

	writeJSON(w, http.StatusOK, types.SaveAppointmentResponse{
		Status:        statusSuccess,
		Message:       "Appointment saved successfully",
		AppointmentID: appt.ID,
		Appointment:   appt,
	})
}

// ListAppointments handles GET /api/appointments
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.backend.ListAppointments(r.Context())
	if err != nil {
		h.logger.Error("list appointments failed", "error", err)
		MapStoreError(w, r, err)
		return
	}
	if appts == nil {
		appts = []types.Appointment{}
	}

	writeJSON(w, http.StatusOK, types.AppointmentListResponse{
		Status:       statusSuccess,
		Count:        len(appts),
		Appointments: appts,
	})
}

// GetAppointment handles GET /api/appointments/{id}
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if verr := validation.ValidateULID("id", id); verr != nil {
		WriteError(w, r, http.StatusBadRequest, verr.String())
		return
	}

	appt, err := h.backend.GetAppointment(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, r, http.StatusNotFound, "Appointment not found")
			return
		}
		h.logger.Error("get appointment failed", "error", err, "appointment_id", id)
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, types.AppointmentResponse{
		Status:      statusSuccess,
		Appointment: appt,
	})
}

// ListPoses handles GET /api/poses
func (h *Handler) ListPoses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Poses())
}

// GetPose handles GET /api/poses/{name}. The name may be a pose key or
// its English name.
func (h *Handler) GetPose(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "Invalid pose name")
		return
	}
	pose, ok := h.catalog.Pose(name)
	if !ok {
		WriteError(w, r, http.StatusNotFound, "Pose not found")
		return
	}
	writeJSON(w, http.StatusOK, pose)
}

// GetMedicine handles GET /api/medicines/{name}
func (h *Handler) GetMedicine(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "Invalid medicine name")
		return
	}
	med, ok := h.catalog.Medicine(name)
	if !ok {
		WriteError(w, r, http.StatusNotFound, "Medicine not found")
		return
	}
	writeJSON(w, http.StatusOK, med)
}
