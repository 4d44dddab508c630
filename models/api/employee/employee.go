package employeeapimodels

import (
	"cpsms-backend/models"
	dbmodels "cpsms-backend/models/db"
)

type EmployeeView struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Department models.Department `json:"department"`
}

func EmployeeConvert(rec dbmodels.Employee) EmployeeView {
	return EmployeeView{
		ID:         rec.ID,
		Name:       rec.Name,
		Department: rec.Department,
	}
}
