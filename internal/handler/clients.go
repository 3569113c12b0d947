package handler

import (
	"net/http"
	"strconv"
)

func (h *Handler) RegisterClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChatID      int64  `json:"chatId" validate:"required"`
		DisplayName string `json:"displayName" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	client, err := h.identity.RegisterClient(r.Context(), trainerIDFrom(r), req.ChatID, req.DisplayName)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "клиент зачислен", map[string]any{
		"id":          client.ID.String(),
		"displayName": client.DisplayName,
	})
}

// GetGroup — страница клиентов тренера.
// Параметры: active=true|false, page, pageSize.
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	onlyActive := q.Get("active") == "true"
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	group, err := h.identity.Group(r.Context(), trainerIDFrom(r), onlyActive, page, pageSize)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	type memberDTO struct {
		ClientID    string `json:"clientId"`
		DisplayName string `json:"displayName"`
		Credits     int    `json:"credits"`
	}
	members := make([]memberDTO, 0, len(group.Items))
	for _, m := range group.Items {
		members = append(members, memberDTO{
			ClientID:    m.Client.ID.String(),
			DisplayName: m.Client.DisplayName,
			Credits:     m.Credits,
		})
	}

	h.successResponse(w, r, "группа получена", map[string]any{
		"members":  members,
		"page":     group.Page,
		"pageSize": group.PageSize,
		"hasNext":  group.HasNext,
		"hasPrev":  group.HasPrev,
		"total":    group.Total,
	})
}

// AdjustCredits меняет счётчик тренировок клиента на delta.
func (h *Handler) AdjustCredits(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	credits, err := h.identity.AdjustCredits(r.Context(), trainerIDFrom(r), clientIDFrom(r), req.Delta)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "счётчик обновлён", map[string]any{"credits": credits})
}
