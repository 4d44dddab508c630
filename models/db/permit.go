package dbmodels

import (
	"time"

	"cpsms-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Permit - наряд-допуск на работы.
// ID задаётся при создании (PERMIT-XXXXXX) и неизменен.
type Permit struct {
	BaseModel
	Description   string
	PpeChecklist  string
	RiskLevel     models.RiskLevel `gorm:"type:varchar(20)"`
	Justification string
	Lat           float64
	Lng           float64
	QrCodeURL     string              `gorm:"type:varchar(512)"`
	Status        models.PermitStatus `gorm:"type:varchar(20);index:idx_permit_status"`
	IssuedByID    string              `gorm:"type:varchar(36);index:idx_issued_by"`
	IssuedByName  string              `gorm:"type:varchar(255)"`
	ApprovedBy    *string             `gorm:"type:varchar(255)"`
	IssueDate     time.Time
	ValidUntil    time.Time
	StatusEvents  []PermitStatusEvent `gorm:"foreignKey:PermitID"`
}

// PermitStatusEvent - запись истории статусов наряда, только добавление.
// Порядок вставки и есть аудиторский след.
type PermitStatusEvent struct {
	BaseModel
	PermitID  string `gorm:"type:varchar(36);index:idx_permit_event"`
	Status    string `gorm:"type:varchar(20)"`
	UpdatedBy string `gorm:"type:varchar(255)"`
}

func (p *Permit) AfterDelete(tx *gorm.DB) (err error) {
	if p.ID == "" {
		return nil
	}
	tx.Clauses(clause.Returning{}).Where("permit_id = ?", p.ID).Delete(&PermitStatusEvent{})
	return
}
