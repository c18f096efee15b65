package handler

import (
	"encoding/json"
	"net/http"

	"bookable/internal/meetings/service"
	httputil "bookable/pkg/http"
	"bookable/pkg/logger"
	"bookable/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const contentTypeICS = "text/calendar; charset=utf-8"

type MeetingHandler struct {
	service service.MeetingService
	log     *logger.Logger
}

func NewMeetingHandler(service service.MeetingService, log *logger.Logger) *MeetingHandler {
	return &MeetingHandler{
		service: service,
		log:     log,
	}
}

func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var meeting model.Meeting
	if err := json.NewDecoder(r.Body).Decode(&meeting); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}
	meeting.HostID = ps.ByName("hostID")

	created, err := h.service.Schedule(r.Context(), &meeting)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	meeting, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, meeting); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "error", err)
	}
}

func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	meetings, err := h.service.ListByHost(r.Context(), ps.ByName("hostID"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, meetings); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *MeetingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	meeting, err := h.service.Cancel(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, meeting); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "error", err)
	}
}

func (h *MeetingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id"), ps.ByName("hostID")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *MeetingHandler) InviteICS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	filename, body, err := h.service.InviteICS(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "InviteICS", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteAttachment(w, contentTypeICS, filename, body); err != nil {
		h.log.Error("failed to write attachment", "handler", "InviteICS", "error", err)
	}
}

func (h *MeetingHandler) ExportCalendar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	filename, body, err := h.service.HostCalendarICS(r.Context(), ps.ByName("hostID"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ExportCalendar", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteAttachment(w, contentTypeICS, filename, body); err != nil {
		h.log.Error("failed to write attachment", "handler", "ExportCalendar", "error", err)
	}
}

func (h *MeetingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/hosts/:hostID/meetings", h.Create)
	router.GET("/api/v1/hosts/:hostID/meetings", h.List)
	router.GET("/api/v1/hosts/:hostID/meetings/export", h.ExportCalendar)
	router.DELETE("/api/v1/hosts/:hostID/meetings/:id", h.Delete)
	router.GET("/api/v1/meetings/:id", h.Get)
	router.GET("/api/v1/meetings/:id/ics", h.InviteICS)
	router.POST("/api/v1/meetings/:id/cancel", h.Cancel)
}
