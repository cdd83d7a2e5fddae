package api

import (
	"net/http"

	"github.com/Shreytangani17/Task-Mangement-System/internal/api/shared"
	"github.com/Shreytangani17/Task-Mangement-System/internal/store"
)

// DefaultNotificationLimit is how many notifications a list returns.
const DefaultNotificationLimit = 50

// NotificationHandler serves the caller's notifications.
type NotificationHandler struct {
	notifications store.NotificationStore
	limit         int
}

// NewNotificationHandler creates a new NotificationHandler. A non-positive
// limit uses DefaultNotificationLimit.
func NewNotificationHandler(notifications store.NotificationStore, limit int) *NotificationHandler {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	return &NotificationHandler{notifications: notifications, limit: limit}
}

// List handles GET /api/notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	list, err := h.notifications.ListByRecipient(r.Context(), principal.ID, h.limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, notificationToResponse(n))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// MarkRead handles PUT /api/notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id, principal.ID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
