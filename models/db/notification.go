package dbmodels

import (
	"cpsms-backend/models"
)

// Notification - элемент входящих одного получателя.
// Удаляется после того как получатель принял решение по связанному событию.
type Notification struct {
	BaseModel
	RecipientID      string                  `gorm:"type:varchar(36);index:idx_recipient"`
	Type             models.NotificationType `gorm:"type:varchar(50)"`
	Title            string                  `gorm:"type:varchar(255)"`
	Description      string
	IsRead           bool
	PermitID         *string `gorm:"type:varchar(36)"`
	VisitorRequestID *string `gorm:"type:varchar(36)"`
}
