package permitstore

import (
	"cpsms-backend/models"
	dbmodels "cpsms-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Permit) (id string, err error)
	Update(id string, updMap map[string]interface{}) error
	GetByID(id string) (rec *dbmodels.Permit, err error)
	List(filter ListFilter) ([]dbmodels.Permit, error)
	AddStatusEvent(event dbmodels.PermitStatusEvent) error
}

type ListFilter struct {
	Status     models.PermitStatus
	IssuedByID string
	RiskLevel  models.RiskLevel
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Permit) (id string, err error) {
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
		Model(&dbmodels.Permit{}).
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

func (i impl) GetByID(id string) (*dbmodels.Permit, error) {
	rec := dbmodels.Permit{}
	err := i.db.
		Where("id = ?", id).
		Preload("StatusEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("permit_status_events.created_at")
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

func (i impl) List(filter ListFilter) (list []dbmodels.Permit, err error) {
	list = []dbmodels.Permit{}
	tx := i.db.
		Model(dbmodels.Permit{})
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.IssuedByID != "" {
		tx = tx.Where("issued_by_id = ?", filter.IssuedByID)
	}
	if filter.RiskLevel != "" {
		tx = tx.Where("risk_level = ?", filter.RiskLevel)
	}
	err = tx.
		Preload("StatusEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("permit_status_events.created_at")
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

func (i impl) AddStatusEvent(event dbmodels.PermitStatusEvent) error {
	return i.db.
		Save(&event).
		Error
}
