package visitorreqstore

import (
	"cpsms-backend/models"
	dbmodels "cpsms-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.VisitorRequest) (id string, err error)
	Update(id string, updMap map[string]interface{}) error
	GetByID(id string) (rec *dbmodels.VisitorRequest, err error)
	ListForEmployee(employeeID string, status models.RequestStatus) ([]dbmodels.VisitorRequest, error)
	AddStatusEvent(event dbmodels.RequestStatusEvent) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.VisitorRequest) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.VisitorRequest{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.RowsAffected == 0 {
		return errors.New("запись не найдена")
	}
	err := tx.Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) GetByID(id string) (*dbmodels.VisitorRequest, error) {
	rec := dbmodels.VisitorRequest{}
	err := i.db.
		Where("id = ?", id).
		Preload("StatusEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("request_status_events.created_at")
		}).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListForEmployee(employeeID string, status models.RequestStatus) (list []dbmodels.VisitorRequest, err error) {
	list = []dbmodels.VisitorRequest{}
	tx := i.db.
		Model(dbmodels.VisitorRequest{}).
		Where("employee_to_visit_id = ?", employeeID)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	err = tx.
		Preload("StatusEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("request_status_events.created_at")
		}).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) AddStatusEvent(event dbmodels.RequestStatusEvent) error {
	return i.db.
		Save(&event).
		Error
}
