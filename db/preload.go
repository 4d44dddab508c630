package db

import (
	employeestore "cpsms-backend/lib/employee/store"
	"cpsms-backend/models"
	dbmodels "cpsms-backend/models/db"

	log "github.com/sirupsen/logrus"
)

func InitPreload() {
	fillEmployees()
}

// справочник сотрудников до интеграции с кадровой системой
var initialEmployees = []dbmodels.Employee{
	{BaseModel: dbmodels.BaseModel{ID: "12345"}, Name: "Ramesh Kumar", Dob: "1990-01-15", Department: models.DepartmentOperations},
	{BaseModel: dbmodels.BaseModel{ID: "67890"}, Name: "Sunita Sharma", Dob: "1985-05-20", Department: models.DepartmentSafety},
	{BaseModel: dbmodels.BaseModel{ID: "45678"}, Name: "Vikram Rathod", Dob: "1979-08-02", Department: models.DepartmentFireAndSafety},
	{BaseModel: dbmodels.BaseModel{ID: "11223"}, Name: "Anil Mehta", Dob: "1975-12-01", Department: models.DepartmentSecurity},
	{BaseModel: dbmodels.BaseModel{ID: "56789"}, Name: "Geeta Joshi", Dob: "1992-03-25", Department: models.DepartmentSecurity},
	{BaseModel: dbmodels.BaseModel{ID: "78901"}, Name: "Kavita Nair", Dob: "1988-07-11", Department: models.DepartmentMaintenance},
}

func fillEmployees() {
	log.Info("предзаполнение справочника сотрудников")
	store := employeestore.NewInstance(DB)
	list, err := store.List()
	if err != nil {
		log.WithError(err).Error("ошибка предзаполнения справочника сотрудников")
		return
	}
	if len(list) > 0 {
		return
	}
	for _, rec := range initialEmployees {
		rec.PushEnabled = true
		if _, err = store.Create(rec); err != nil {
			log.WithError(err).
				WithField("employee_id", rec.ID).
				Error("ошибка добавления сотрудника")
			return
		}
	}
	log.Info("справочник сотрудников заполнен")
}
