package visitorstore

import (
	"time"

	dbmodels "cpsms-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Visitor) (id string, err error)
	Update(id string, updMap map[string]interface{}) error
	GetByID(id string) (rec *dbmodels.Visitor, err error)
	GetByIDAndDob(id, dob string) (rec *dbmodels.Visitor, err error)
	ListActive(now time.Time) ([]dbmodels.Visitor, error)
	ListExpired(now time.Time) ([]dbmodels.Visitor, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Visitor) (id string, err error) {
	err = i.db.
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
		Model(&dbmodels.Visitor{}).
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

func (i impl) GetByID(id string) (*dbmodels.Visitor, error) {
	rec := dbmodels.Visitor{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) GetByIDAndDob(id, dob string) (*dbmodels.Visitor, error) {
	rec := dbmodels.Visitor{}
	err := i.db.
		Where("id = ?", id).
		Where("dob = ?", dob).
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

func (i impl) ListActive(now time.Time) (list []dbmodels.Visitor, err error) {
	list = []dbmodels.Visitor{}
	err = i.db.
		Model(dbmodels.Visitor{}).
		Where("valid_until > ?", now).
		Order("entry_time desc").
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

func (i impl) ListExpired(now time.Time) (list []dbmodels.Visitor, err error) {
	list = []dbmodels.Visitor{}
	err = i.db.
		Model(dbmodels.Visitor{}).
		Where("valid_until <= ?", now).
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
