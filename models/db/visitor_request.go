package dbmodels

import (
	"cpsms-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VisitorRequest - запрос пропуска посетителя.
// Создаётся охраной, решение принимает посещаемый сотрудник.
type VisitorRequest struct {
	BaseModel
	VisitorName         string               `gorm:"type:varchar(255)"`
	VisitorDob          string               `gorm:"type:varchar(10)"`
	Purpose             string
	EmployeeToVisitID   string               `gorm:"type:varchar(36);index:idx_employee_to_visit"`
	EmployeeToVisitName string               `gorm:"type:varchar(255)"`
	RequestedByID       string               `gorm:"type:varchar(36)"`
	Status              models.RequestStatus `gorm:"type:varchar(20);index:idx_request_status"`
	// GeneratedVisitorID заполняется только при согласовании
	GeneratedVisitorID *string              `gorm:"type:varchar(36)"`
	StatusEvents       []RequestStatusEvent `gorm:"foreignKey:RequestID"`
}

type RequestStatusEvent struct {
	BaseModel
	RequestID   string `gorm:"type:varchar(36);index:idx_request_event"`
	Status      string `gorm:"type:varchar(20)"`
	UpdatedBy   string `gorm:"type:varchar(255)"`
	UpdatedByID string `gorm:"type:varchar(36)"`
}

func (v *VisitorRequest) AfterDelete(tx *gorm.DB) (err error) {
	if v.ID == "" {
		return nil
	}
	tx.Clauses(clause.Returning{}).Where("request_id = ?", v.ID).Delete(&RequestStatusEvent{})
	return
}
