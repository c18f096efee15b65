package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"bookable/internal/scheduling/service"
	"bookable/pkg/config"
	httputil "bookable/pkg/http"
	"bookable/pkg/logger"
	"bookable/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ScheduleHandler struct {
	slots   service.SlotService
	booking service.BookingService
	cfg     *config.Config
	log     *logger.Logger
}

func NewScheduleHandler(slots service.SlotService, booking service.BookingService, cfg *config.Config) *ScheduleHandler {
	return &ScheduleHandler{
		slots:   slots,
		booking: booking,
		cfg:     cfg,
		log:     cfg.Log,
	}
}

// Day serves the bookable slots of a host for one date. The date query
// parameter is required; a missing timezone falls back exactly like the
// booking path does, so the displayed slots and the booked meeting
// agree on the instant.
func (h *ScheduleHandler) Day(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()

	loc, err := service.ResolveLocation(h.cfg, query.Get("timezone"))
	if err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Unknown timezone: " + query.Get("timezone"),
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Day", "error", writeErr)
		}
		return
	}

	date, err := time.ParseInLocation("2006-01-02", query.Get("date"), loc)
	if err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "date query parameter is required in YYYY-MM-DD format",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Day", "error", writeErr)
		}
		return
	}

	schedule, err := h.slots.DaySchedule(r.Context(), ps.ByName("hostID"), date, loc)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Day", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, schedule); err != nil {
		h.log.Error("failed to write success response", "handler", "Day", "error", err)
	}
}

func (h *ScheduleHandler) Book(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Book", "error", writeErr)
		}
		return
	}
	req.HostID = ps.ByName("hostID")

	result, err := h.booking.Book(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Book", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Book", "error", err)
	}
}

func (h *ScheduleHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/schedule/:hostID", h.Day)
	router.POST("/api/v1/schedule/:hostID/book", h.Book)
}
