package dbmodels

import (
	"cpsms-backend/models"
)

// Employee - справочник сотрудников завода.
// ID - табельный номер, по нему же выполняется вход.
type Employee struct {
	BaseModel
	Name         string            `gorm:"type:varchar(255)"`
	Dob          string            `gorm:"type:varchar(10)"` // YYYY-MM-DD
	Department   models.Department `gorm:"type:varchar(100);index:idx_department"`
	Email        string            `gorm:"type:varchar(255)"`
	PushEnabled  bool
	EmailEnabled bool
	Lat          float64
	Lng          float64
}

func (r Employee) GetFullName() string {
	return r.Name
}

// IsPermitApprover - сотрудник согласует наряды
func (r Employee) IsPermitApprover() bool {
	for _, dep := range models.PermitApproverDepartments() {
		if r.Department == dep {
			return true
		}
	}
	return false
}

func (r Employee) IsSecurity() bool {
	for _, dep := range models.SecurityDepartments() {
		if r.Department == dep {
			return true
		}
	}
	return false
}
