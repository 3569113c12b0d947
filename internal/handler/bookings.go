package handler

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/trainbook/core/internal/schedule"
	"github.com/trainbook/core/internal/service"
)

type daySlotsDTO struct {
	Date  string `json:"date"`
	Hours []int  `json:"hours"`
}

func daySlots(byDate map[schedule.LocalDate]schedule.HourSet) []daySlotsDTO {
	out := make([]daySlotsDTO, 0, len(byDate))
	for date, hours := range byDate {
		out = append(out, daySlotsDTO{Date: date.ISO(), Hours: hours.Hours()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// GetOpenSlots — календарь свободных слотов тренера.
func (h *Handler) GetOpenSlots(w http.ResponseWriter, r *http.Request) {
	open, err := h.availability.ResolveOpenSlots(r.Context(), trainerIDFrom(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "свободные слоты получены", daySlots(open))
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID string `json:"clientId" validate:"required,uuid"`
		Date     string `json:"date" validate:"required"`
		Hour     int    `json:"hour" validate:"min=0,max=23"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		h.errorResponse(w, r, "некорректный идентификатор клиента")
		return
	}
	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		h.errorResponse(w, r, "некорректная дата, ожидается ГГГГ-ММ-ДД")
		return
	}

	result, err := h.booking.Book(r.Context(), trainerIDFrom(r), clientID, date, req.Hour)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "запись создана", map[string]any{
		"date":        date.ISO(),
		"hour":        req.Hour,
		"creditsLeft": result.CreditsLeft,
	})
}

type cancelledDTO struct {
	ClientID          string `json:"clientId"`
	ClientName        string `json:"clientName"`
	Date              string `json:"date"`
	Hour              int    `json:"hour"`
	CreditsLeft       int    `json:"creditsLeft"`
	Notified          bool   `json:"notified"`
	ReminderCancelled bool   `json:"reminderCancelled"`
}

func cancelledList(cancelled []service.CancelledBooking) []cancelledDTO {
	out := make([]cancelledDTO, 0, len(cancelled))
	for _, c := range cancelled {
		out = append(out, cancelledDTO{
			ClientID:          c.Client.ID.String(),
			ClientName:        c.Client.DisplayName,
			Date:              c.Date.ISO(),
			Hour:              c.Hour,
			CreditsLeft:       c.CreditsLeft,
			Notified:          c.Notified,
			ReminderCancelled: c.ReminderCancelled,
		})
	}
	return out
}

// CancelBookings отменяет выбранные записи дня.
func (h *Handler) CancelBookings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ByTrainer bool `json:"byTrainer"`
		Items     []struct {
			ClientID string `json:"clientId" validate:"required,uuid"`
			Hour     int    `json:"hour" validate:"min=0,max=23"`
		} `json:"items" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := schedule.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.errorResponse(w, r, "некорректная дата, ожидается ГГГГ-ММ-ДД")
		return
	}

	keys := make([]service.CancelKey, 0, len(req.Items))
	for _, item := range req.Items {
		clientID, err := uuid.Parse(item.ClientID)
		if err != nil {
			h.errorResponse(w, r, "некорректный идентификатор клиента")
			return
		}
		keys = append(keys, service.CancelKey{ClientID: clientID, Hour: item.Hour})
	}

	cancelled, err := h.cancel.CancelBookings(r.Context(), trainerIDFrom(r), date, keys, req.ByTrainer)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "записи отменены", cancelledList(cancelled))
}

// CancelWorkDay отменяет все записи дня и снимает его публикацию.
func (h *Handler) CancelWorkDay(w http.ResponseWriter, r *http.Request) {
	date, err := schedule.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.errorResponse(w, r, "некорректная дата, ожидается ГГГГ-ММ-ДД")
		return
	}

	cancelled, err := h.cancel.CancelWorkDay(r.Context(), trainerIDFrom(r), date)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "рабочий день отменён", cancelledList(cancelled))
}

// GetDayBookings — записи тренера на день.
func (h *Handler) GetDayBookings(w http.ResponseWriter, r *http.Request) {
	date, err := schedule.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.errorResponse(w, r, "некорректная дата, ожидается ГГГГ-ММ-ДД")
		return
	}

	bookings, err := h.availability.DayBookings(r.Context(), trainerIDFrom(r), date)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	type bookingDTO struct {
		ClientID   string `json:"clientId"`
		ClientName string `json:"clientName"`
		Hour       int    `json:"hour"`
	}
	out := make([]bookingDTO, 0, len(bookings))
	for _, b := range bookings {
		dto := bookingDTO{ClientID: b.ClientID.String(), Hour: b.Hour}
		if b.Client != nil {
			dto.ClientName = b.Client.DisplayName
		}
		out = append(out, dto)
	}

	h.successResponse(w, r, "записи дня получены", out)
}

// GetClientBookings — будущие записи клиента у тренера.
func (h *Handler) GetClientBookings(w http.ResponseWriter, r *http.Request) {
	byDate, err := h.availability.ClientBookings(r.Context(), trainerIDFrom(r), clientIDFrom(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "записи клиента получены", daySlots(byDate))
}
