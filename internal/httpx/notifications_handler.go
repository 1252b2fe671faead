package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/raditya/go-olshop/internal/notification"
)

type NotificationsHandler struct {
	Repo *notification.Repo
}

type notificationView struct {
	NotificationID string    `json:"notificationId"`
	TransactionID  *string   `json:"transactionId"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (h *NotificationsHandler) listMine(w http.ResponseWriter, r *http.Request) {
	ns, err := h.Repo.ListByUser(r.Context(), userID(r))
	if err != nil {
		respondErr(w, err)
		return
	}
	out := make([]notificationView, 0, len(ns))
	for _, n := range ns {
		out = append(out, notificationView{
			NotificationID: n.ID,
			TransactionID:  n.TransactionID,
			Title:          n.Title,
			Body:           n.Body,
			IsRead:         n.IsRead,
			CreatedAt:      n.CreatedAt,
		})
	}
	respondOK(w, "Get all notifications successfully", out)
}

func (h *NotificationsHandler) markRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.MarkRead(r.Context(), userID(r), chi.URLParam(r, "notificationId")); err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, "Notification updated successfully", nil)
}

func (h *NotificationsHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.SoftDelete(r.Context(), userID(r), chi.URLParam(r, "notificationId")); err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, "Notification deleted successfully", nil)
}
