package db

import (
	dbmodels "cpsms-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Employee{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Employee")
	}
	if err := DB.AutoMigrate(&dbmodels.Permit{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Permit")
	}
	if err := DB.AutoMigrate(&dbmodels.PermitStatusEvent{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры PermitStatusEvent")
	}
	if err := DB.AutoMigrate(&dbmodels.VisitorRequest{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры VisitorRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.RequestStatusEvent{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры RequestStatusEvent")
	}
	if err := DB.AutoMigrate(&dbmodels.Visitor{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Visitor")
	}
	if err := DB.AutoMigrate(&dbmodels.Notification{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Notification")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
