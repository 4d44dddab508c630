package notificationapimodels

import (
	"time"

	"cpsms-backend/models"
	dbmodels "cpsms-backend/models/db"
)

type NotificationView struct {
	ID               string                  `json:"id"`
	Type             models.NotificationType `json:"type"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	IsRead           bool                    `json:"is_read"`
	Timestamp        time.Time               `json:"timestamp"`
	PermitID         string                  `json:"permit_id,omitempty"`
	VisitorRequestID string                  `json:"visitor_request_id,omitempty"`
}

func NotificationConvert(rec dbmodels.Notification) NotificationView {
	view := NotificationView{
		ID:          rec.ID,
		Type:        rec.Type,
		Title:       rec.Title,
		Description: rec.Description,
		IsRead:      rec.IsRead,
		Timestamp:   rec.CreatedAt,
	}
	if rec.PermitID != nil {
		view.PermitID = *rec.PermitID
	}
	if rec.VisitorRequestID != nil {
		view.VisitorRequestID = *rec.VisitorRequestID
	}
	return view
}
