package permithandler

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"time"

	"cpsms-backend/config"
	"cpsms-backend/db"
	employeestore "cpsms-backend/lib/employee/store"
	xlsexport "cpsms-backend/lib/export/xls"
	notificationhandler "cpsms-backend/lib/notification"
	permitstore "cpsms-backend/lib/permit/store"
	"cpsms-backend/lib/qr"
	riskhandler "cpsms-backend/lib/risk"
	"cpsms-backend/lib/utils/helpers"
	"cpsms-backend/lib/utils/lock"
	"cpsms-backend/models"
	permitapimodels "cpsms-backend/models/api/permit"
	dbmodels "cpsms-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNotFound     = errors.New("Permit not found.")
	ErrInvalidState = errors.New("Permit has already been processed.")
)

const decideLockWait = 5 * time.Second

type Provider interface {
	Create(ctx context.Context, issuerID string, data permitapimodels.PermitCreateData) (permitapimodels.PermitView, error)
	Decide(ctx context.Context, approverID, id string, data permitapimodels.PermitDecisionData) (permitapimodels.PermitView, error)
	GetByID(id string) (permitapimodels.PermitView, error)
	List(filter permitstore.ListFilter) ([]permitapimodels.PermitView, error)
	ExportJournal(filter permitstore.ListFilter) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:               permitstore.NewInstance(db.DB),
		employeeStore:       employeestore.NewInstance(db.DB),
		riskProvider:        riskhandler.Instance,
		notificationHandler: notificationhandler.Instance,
	}
}

type impl struct {
	store               permitstore.Provider
	employeeStore       employeestore.Provider
	riskProvider        riskhandler.Provider
	notificationHandler notificationhandler.Provider
}

func (i impl) Create(ctx context.Context, issuerID string, data permitapimodels.PermitCreateData) (permitapimodels.PermitView, error) {
	logger := log.WithField("issuer_id", issuerID)
	err := data.Validate()
	if err != nil {
		return permitapimodels.PermitView{}, err
	}
	issuer, err := i.getEmployee(issuerID)
	if err != nil {
		return permitapimodels.PermitView{}, err
	}
	assessment, err := i.riskProvider.Assess(ctx, data.Description, data.PpeChecklist)
	if err != nil {
		return permitapimodels.PermitView{}, err
	}
	number := helpers.GenerateNumber("PERMIT")
	now := time.Now()
	lat, lng := jitterCoords(config.Conf.Plant.Lat, config.Conf.Plant.Lng)
	rec := dbmodels.Permit{
		BaseModel:     dbmodels.BaseModel{ID: number},
		Description:   data.Description,
		PpeChecklist:  data.PpeChecklist,
		RiskLevel:     assessment.RiskLevel,
		Justification: assessment.Justification,
		Lat:           lat,
		Lng:           lng,
		QrCodeURL:     qr.PermitImageURL(number, assessment.RiskLevel),
		Status:        models.PermitStatusPending,
		IssuedByID:    issuer.ID,
		IssuedByName:  issuer.GetFullName(),
		IssueDate:     now,
		ValidUntil:    now.Add(time.Duration(config.Conf.Plant.PermitValidityHours) * time.Hour),
	}
	id, err := i.store.Create(rec)
	if err != nil {
		logger.
			WithField("request", fmt.Sprintf("%+v", data)).
			WithError(err).
			Error("ошибка создания наряда")
		return permitapimodels.PermitView{}, errors.Wrap(err, "ошибка создания наряда")
	}
	logger = logger.WithField("rec_id", id)
	err = i.store.AddStatusEvent(dbmodels.PermitStatusEvent{
		PermitID:  id,
		Status:    models.HistoryEventCreated,
		UpdatedBy: issuer.GetFullName(),
	})
	if err != nil {
		logger.WithError(err).Error("ошибка записи истории наряда")
		return permitapimodels.PermitView{}, errors.Wrap(err, "ошибка создания наряда")
	}
	i.notifyApprovers(rec)
	logger.Info("создан наряд")
	return i.GetByID(id)
}

// Decide выполняется под блокировкой по наряду,
// из двух конкурирующих решений проходит только первое
func (i impl) Decide(ctx context.Context, approverID, id string, data permitapimodels.PermitDecisionData) (view permitapimodels.PermitView, err error) {
	logger := log.
		WithField("rec_id", id).
		WithField("approver_id", approverID)
	if vErr := data.Validate(); vErr != nil {
		return permitapimodels.PermitView{}, vErr
	}
	approver, err := i.getEmployee(approverID)
	if err != nil {
		return permitapimodels.PermitView{}, err
	}
	success, err := lock.WithDelay(ctx, "permit:"+id, decideLockWait, func() error {
		view, err = i.decide(logger, approver, id, data)
		return err
	})
	if err != nil {
		return permitapimodels.PermitView{}, err
	}
	if !success {
		return permitapimodels.PermitView{}, errors.New("наряд обрабатывается другим запросом")
	}
	return view, nil
}

func (i impl) decide(logger *log.Entry, approver *dbmodels.Employee, id string, data permitapimodels.PermitDecisionData) (permitapimodels.PermitView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return permitapimodels.PermitView{}, err
	}
	if !rec.Status.AllowDecide() {
		return permitapimodels.PermitView{}, ErrInvalidState
	}
	approverName := approver.GetFullName()
	updMap := map[string]interface{}{
		"status":      data.Decision,
		"approved_by": approverName,
	}
	err = i.store.Update(id, updMap)
	if err != nil {
		logger.WithError(err).Error("ошибка обновления статуса наряда")
		return permitapimodels.PermitView{}, errors.Wrap(err, "ошибка обновления статуса наряда")
	}
	err = i.store.AddStatusEvent(dbmodels.PermitStatusEvent{
		PermitID:  id,
		Status:    string(data.Decision),
		UpdatedBy: approverName,
	})
	if err != nil {
		logger.WithError(err).Error("ошибка записи истории наряда")
		return permitapimodels.PermitView{}, errors.Wrap(err, "ошибка записи истории наряда")
	}
	i.notifyDecided(logger, *rec, data.Decision, approverName)
	if data.NotificationID != "" {
		_, cErr := i.notificationHandler.Consume(approver.ID, data.NotificationID)
		if cErr != nil && !errors.Is(cErr, notificationhandler.ErrNotFound) {
			logger.WithError(cErr).Error("ошибка обработки уведомления о согласовании")
		}
	}
	logger.WithField("decision", data.Decision).Info("решение по наряду принято")
	return i.GetByID(id)
}

func (i impl) GetByID(id string) (permitapimodels.PermitView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return permitapimodels.PermitView{}, err
	}
	return permitapimodels.PermitConvert(*rec), nil
}

func (i impl) List(filter permitstore.ListFilter) ([]permitapimodels.PermitView, error) {
	recList, err := i.store.List(filter)
	if err != nil {
		log.WithError(err).Error("ошибка получения списка нарядов")
		return nil, errors.Wrap(err, "ошибка получения списка нарядов")
	}
	result := make([]permitapimodels.PermitView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, permitapimodels.PermitConvert(rec))
	}
	return result, nil
}

// ExportJournal выгружает журнал нарядов в xlsx
func (i impl) ExportJournal(filter permitstore.ListFilter) (*bytes.Buffer, error) {
	recList, err := i.store.List(filter)
	if err != nil {
		log.WithError(err).Error("ошибка получения списка нарядов")
		return nil, errors.Wrap(err, "ошибка получения списка нарядов")
	}
	return xlsexport.Instance.ExportPermitJournal(recList)
}

func (i impl) getRec(id string) (*dbmodels.Permit, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		log.WithField("rec_id", id).
			WithError(err).
			Error("ошибка получения наряда")
		return nil, errors.Wrap(err, "ошибка получения наряда")
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (i impl) getEmployee(id string) (*dbmodels.Employee, error) {
	rec, err := i.employeeStore.GetByID(id)
	if err != nil {
		log.WithField("employee_id", id).
			WithError(err).
			Error("ошибка получения сотрудника")
		return nil, errors.Wrap(err, "ошибка получения сотрудника")
	}
	if rec == nil {
		return nil, errors.New("Employee not found.")
	}
	return rec, nil
}

func (i impl) notifyApprovers(rec dbmodels.Permit) {
	approvers, err := i.employeeStore.ListByDepartments(models.PermitApproverDepartments())
	if err != nil {
		log.WithField("rec_id", rec.ID).
			WithError(err).
			Error("ошибка получения списка согласующих")
		return
	}
	data := models.GetPermitReviewNotification(rec.RiskLevel, rec.ID, rec.IssuedByName)
	i.notificationHandler.NotifyAll(approvers, data, notificationhandler.Ref{PermitID: &rec.ID})
}

func (i impl) notifyDecided(logger *log.Entry, rec dbmodels.Permit, decision models.PermitStatus, approverName string) {
	issuer, err := i.employeeStore.GetByID(rec.IssuedByID)
	if err != nil || issuer == nil {
		logger.WithError(err).Error("ошибка получения автора наряда")
	} else {
		data := models.GetPermitDecidedIssuerNotification(rec.ID, rec.Description, decision, approverName)
		i.notificationHandler.Notify(*issuer, data, notificationhandler.Ref{PermitID: &rec.ID})
	}
	security, err := i.employeeStore.ListByDepartments(models.SecurityDepartments())
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка охраны")
		return
	}
	data := models.GetPermitDecidedSecurityNotification(rec.ID, rec.Description, decision, approverName)
	i.notificationHandler.NotifyAll(security, data, notificationhandler.Ref{PermitID: &rec.ID})
}

// координаты работ размещаются вокруг точки завода
func jitterCoords(lat, lng float64) (float64, float64) {
	return lat + (rand.Float64()-0.5)*0.01, lng + (rand.Float64()-0.5)*0.01
}
