package visitorhandler

import (
	"math/rand"
	"time"

	"cpsms-backend/config"
	"cpsms-backend/db"
	"cpsms-backend/lib/qr"
	"cpsms-backend/lib/utils/helpers"
	visitorstore "cpsms-backend/lib/visitor/store"
	visitorapimodels "cpsms-backend/models/api/visitor"
	dbmodels "cpsms-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("Visitor not found.")

type Provider interface {
	CreateFromRequest(req dbmodels.VisitorRequest) (visitorapimodels.VisitorView, error)
	GetByID(id string) (visitorapimodels.VisitorView, error)
	ListActive() ([]visitorapimodels.VisitorView, error)
	SetPhotoKey(id, photoKey string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: visitorstore.NewInstance(db.DB),
	}
}

type impl struct {
	store visitorstore.Provider
}

// CreateFromRequest выдаёт пропуск по согласованному запросу.
// Пропуск после выдачи не меняется, кроме фото.
func (i impl) CreateFromRequest(req dbmodels.VisitorRequest) (visitorapimodels.VisitorView, error) {
	logger := log.WithField("request_id", req.ID)
	number := helpers.GenerateNumber("V")
	now := time.Now()
	lat, lng := jitterCoords(config.Conf.Plant.Lat, config.Conf.Plant.Lng)
	rec := dbmodels.Visitor{
		BaseModel:  dbmodels.BaseModel{ID: number},
		Name:       req.VisitorName,
		Dob:        req.VisitorDob,
		QrCodeURL:  qr.VisitorImageURL(number),
		EntryTime:  now,
		ValidUntil: now.AddDate(0, 0, config.Conf.Plant.VisitorValidityDays),
		Lat:        lat,
		Lng:        lng,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка выдачи пропуска")
		return visitorapimodels.VisitorView{}, errors.Wrap(err, "ошибка выдачи пропуска")
	}
	logger.
		WithField("visitor_id", id).
		Info("выдан пропуск посетителя")
	return visitorapimodels.VisitorConvert(rec), nil
}

func (i impl) GetByID(id string) (visitorapimodels.VisitorView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		log.WithField("visitor_id", id).
			WithError(err).
			Error("ошибка получения пропуска")
		return visitorapimodels.VisitorView{}, errors.Wrap(err, "ошибка получения пропуска")
	}
	if rec == nil {
		return visitorapimodels.VisitorView{}, ErrNotFound
	}
	return visitorapimodels.VisitorConvert(*rec), nil
}

func (i impl) ListActive() ([]visitorapimodels.VisitorView, error) {
	recList, err := i.store.ListActive(time.Now())
	if err != nil {
		log.WithError(err).Error("ошибка получения списка пропусков")
		return nil, errors.Wrap(err, "ошибка получения списка пропусков")
	}
	result := make([]visitorapimodels.VisitorView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, visitorapimodels.VisitorConvert(rec))
	}
	return result, nil
}

func (i impl) SetPhotoKey(id, photoKey string) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения пропуска")
	}
	if rec == nil {
		return ErrNotFound
	}
	return i.store.Update(id, map[string]interface{}{
		"photo_key": photoKey,
	})
}

func jitterCoords(lat, lng float64) (float64, float64) {
	return lat + (rand.Float64()-0.5)*0.01, lng + (rand.Float64()-0.5)*0.01
}
