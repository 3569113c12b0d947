package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trainbook/core/internal/schedule"
)

func (h *Handler) RegisterTrainer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChatID      int64  `json:"chatId" validate:"required"`
		DisplayName string `json:"displayName" validate:"required"`
		TimeZone    string `json:"timeZone"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	trainer, err := h.identity.RegisterTrainer(r.Context(), req.ChatID, req.DisplayName, req.TimeZone)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "тренер зарегистрирован", map[string]any{
		"id":          trainer.ID.String(),
		"displayName": trainer.DisplayName,
		"timeZone":    trainer.TimeZone,
	})
}

type shiftDTO struct {
	Ordinal int   `json:"ordinal"`
	Hours   []int `json:"hours"`
}

// GetShifts — недельные шаблоны смен тренера.
func (h *Handler) GetShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.shifts.Shifts(r.Context(), trainerIDFrom(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	out := make([]shiftDTO, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, shiftDTO{Ordinal: s.Ordinal, Hours: s.Hours.Hours()})
	}

	h.successResponse(w, r, "смены получены", out)
}

// UpdateShift перезаписывает часы смены целиком.
func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	ordinal, err := strconv.Atoi(chi.URLParam(r, "ordinal"))
	if err != nil {
		h.errorResponse(w, r, "некорректный номер смены")
		return
	}

	var req struct {
		Hours []int `json:"hours" validate:"required,min=1,dive,min=0,max=23"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hours, err := schedule.NewHourSet(schedule.SortedUnique(req.Hours)...)
	if err != nil {
		h.errorResponse(w, r, "часы вне диапазона 0..23")
		return
	}

	shift, err := h.shifts.ApplyShift(r.Context(), trainerIDFrom(r), ordinal, hours)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "смена обновлена", shiftDTO{Ordinal: shift.Ordinal, Hours: shift.Hours.Hours()})
}

// PublishSchedule публикует смену на конкретные даты.
func (h *Handler) PublishSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ordinal int      `json:"ordinal" validate:"required,min=1"`
		Dates   []string `json:"dates" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	dates := make([]schedule.LocalDate, 0, len(req.Dates))
	for _, s := range req.Dates {
		date, err := schedule.ParseDate(s)
		if err != nil {
			h.errorResponse(w, r, "некорректная дата, ожидается ГГГГ-ММ-ДД")
			return
		}
		dates = append(dates, date)
	}

	result, err := h.shifts.PublishSchedule(r.Context(), trainerIDFrom(r), req.Ordinal, dates)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	published := make([]string, 0, len(result.Published))
	for _, d := range result.Published {
		published = append(published, d.ISO())
	}
	skipped := make([]string, 0, len(result.Skipped))
	for _, d := range result.Skipped {
		skipped = append(skipped, d.ISO())
	}

	h.successResponse(w, r, "расписание опубликовано", map[string]any{
		"published": published,
		"skipped":   skipped,
	})
}
