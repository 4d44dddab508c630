package visitorreqhandler

import (
	"context"
	"fmt"
	"time"

	"cpsms-backend/db"
	employeestore "cpsms-backend/lib/employee/store"
	notificationhandler "cpsms-backend/lib/notification"
	"cpsms-backend/lib/utils/lock"
	visitorhandler "cpsms-backend/lib/visitor"
	visitorreqstore "cpsms-backend/lib/visitor-req/store"
	"cpsms-backend/models"
	visitorapimodels "cpsms-backend/models/api/visitor"
	dbmodels "cpsms-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNotFound     = errors.New("Visitor request not found.")
	ErrInvalidState = errors.New("Visitor request has already been processed.")
	ErrNotAddressee = errors.New("Only the employee to be visited can decide on this request.")
)

const decideLockWait = 5 * time.Second

type Provider interface {
	Request(requesterID string, data visitorapimodels.VisitorRequestData) (visitorapimodels.VisitorRequestView, error)
	Decide(ctx context.Context, employeeID, id string, data visitorapimodels.RequestDecisionData) (visitorapimodels.VisitorRequestView, error)
	GetByID(id string) (visitorapimodels.VisitorRequestView, error)
	ListForEmployee(employeeID string, status models.RequestStatus) ([]visitorapimodels.VisitorRequestView, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:               visitorreqstore.NewInstance(db.DB),
		employeeStore:       employeestore.NewInstance(db.DB),
		visitorHandler:      visitorhandler.Instance,
		notificationHandler: notificationhandler.Instance,
	}
}

type impl struct {
	store               visitorreqstore.Provider
	employeeStore       employeestore.Provider
	visitorHandler      visitorhandler.Provider
	notificationHandler notificationhandler.Provider
}

func (i impl) Request(requesterID string, data visitorapimodels.VisitorRequestData) (visitorapimodels.VisitorRequestView, error) {
	logger := log.WithField("requester_id", requesterID)
	err := data.Validate()
	if err != nil {
		return visitorapimodels.VisitorRequestView{}, err
	}
	employee, err := i.getEmployee(data.EmployeeToVisitID)
	if err != nil {
		return visitorapimodels.VisitorRequestView{}, err
	}
	requester, err := i.getEmployee(requesterID)
	if err != nil {
		return visitorapimodels.VisitorRequestView{}, err
	}
	rec := dbmodels.VisitorRequest{
		VisitorName:         data.VisitorName,
		VisitorDob:          data.VisitorDob,
		Purpose:             data.Purpose,
		EmployeeToVisitID:   employee.ID,
		EmployeeToVisitName: employee.GetFullName(),
		RequestedByID:       requester.ID,
		Status:              models.RequestStatusPending,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		logger.
			WithField("request", fmt.Sprintf("%+v", data)).
			WithError(err).
			Error("ошибка создания запроса пропуска")
		return visitorapimodels.VisitorRequestView{}, errors.Wrap(err, "ошибка создания запроса пропуска")
	}
	logger = logger.WithField("rec_id", id)
	err = i.store.AddStatusEvent(dbmodels.RequestStatusEvent{
		RequestID:   id,
		Status:      models.HistoryEventRequested,
		UpdatedBy:   requester.GetFullName(),
		UpdatedByID: requester.ID,
	})
	if err != nil {
		logger.WithError(err).Error("ошибка записи истории запроса")
		return visitorapimodels.VisitorRequestView{}, errors.Wrap(err, "ошибка создания запроса пропуска")
	}
	notifData := models.GetVisitorRequestNotification(data.VisitorName, requester.GetFullName())
	i.notificationHandler.Notify(*employee, notifData, notificationhandler.Ref{VisitorRequestID: &id})
	logger.Info("создан запрос пропуска")
	return i.GetByID(id)
}

// Decide принимает решение по запросу, доступно только посещаемому сотруднику.
// При согласовании выдаётся пропуск и его номер записывается в запрос.
func (i impl) Decide(ctx context.Context, employeeID, id string, data visitorapimodels.RequestDecisionData) (view visitorapimodels.VisitorRequestView, err error) {
	logger := log.
		WithField("rec_id", id).
		WithField("employee_id", employeeID)
	if vErr := data.Validate(); vErr != nil {
		return visitorapimodels.VisitorRequestView{}, vErr
	}
	employee, err := i.getEmployee(employeeID)
	if err != nil {
		return visitorapimodels.VisitorRequestView{}, err
	}
	success, err := lock.WithDelay(ctx, "visitor-req:"+id, decideLockWait, func() error {
		view, err = i.decide(logger, employee, id, data)
		return err
	})
	if err != nil {
		return visitorapimodels.VisitorRequestView{}, err
	}
	if !success {
		return visitorapimodels.VisitorRequestView{}, errors.New("запрос обрабатывается другим запросом")
	}
	return view, nil
}

func (i impl) decide(logger *log.Entry, employee *dbmodels.Employee, id string, data visitorapimodels.RequestDecisionData) (visitorapimodels.VisitorRequestView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return visitorapimodels.VisitorRequestView{}, err
	}
	if rec.EmployeeToVisitID != employee.ID {
		return visitorapimodels.VisitorRequestView{}, ErrNotAddressee
	}
	if !rec.Status.AllowDecide() {
		return visitorapimodels.VisitorRequestView{}, ErrInvalidState
	}
	employeeName := employee.GetFullName()
	updMap := map[string]interface{}{
		"status": data.Decision,
	}
	visitorNumber := ""
	if data.Decision == models.RequestStatusApproved {
		visitor, vErr := i.visitorHandler.CreateFromRequest(*rec)
		if vErr != nil {
			return visitorapimodels.VisitorRequestView{}, vErr
		}
		visitorNumber = visitor.ID
		updMap["generated_visitor_id"] = visitor.ID
	}
	err = i.store.Update(id, updMap)
	if err != nil {
		logger.WithError(err).Error("ошибка обновления статуса запроса")
		return visitorapimodels.VisitorRequestView{}, errors.Wrap(err, "ошибка обновления статуса запроса")
	}
	err = i.store.AddStatusEvent(dbmodels.RequestStatusEvent{
		RequestID:   id,
		Status:      string(data.Decision),
		UpdatedBy:   employeeName,
		UpdatedByID: employee.ID,
	})
	if err != nil {
		logger.WithError(err).Error("ошибка записи истории запроса")
		return visitorapimodels.VisitorRequestView{}, errors.Wrap(err, "ошибка записи истории запроса")
	}
	i.notifySecurity(logger, *rec, data.Decision, employeeName, visitorNumber)
	if data.NotificationID != "" {
		_, cErr := i.notificationHandler.Consume(employee.ID, data.NotificationID)
		if cErr != nil && !errors.Is(cErr, notificationhandler.ErrNotFound) {
			logger.WithError(cErr).Error("ошибка обработки уведомления о запросе")
		}
	}
	logger.WithField("decision", data.Decision).Info("решение по запросу пропуска принято")
	return i.GetByID(id)
}

func (i impl) GetByID(id string) (visitorapimodels.VisitorRequestView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return visitorapimodels.VisitorRequestView{}, err
	}
	return visitorapimodels.VisitorRequestConvert(*rec), nil
}

func (i impl) ListForEmployee(employeeID string, status models.RequestStatus) ([]visitorapimodels.VisitorRequestView, error) {
	recList, err := i.store.ListForEmployee(employeeID, status)
	if err != nil {
		log.WithField("employee_id", employeeID).
			WithError(err).
			Error("ошибка получения списка запросов")
		return nil, errors.Wrap(err, "ошибка получения списка запросов")
	}
	result := make([]visitorapimodels.VisitorRequestView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, visitorapimodels.VisitorRequestConvert(rec))
	}
	return result, nil
}

func (i impl) getRec(id string) (*dbmodels.VisitorRequest, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		log.WithField("rec_id", id).
			WithError(err).
			Error("ошибка получения запроса пропуска")
		return nil, errors.Wrap(err, "ошибка получения запроса пропуска")
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

func (i impl) notifySecurity(logger *log.Entry, rec dbmodels.VisitorRequest, decision models.RequestStatus, employeeName, visitorNumber string) {
	security, err := i.employeeStore.ListByDepartments(models.SecurityDepartments())
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка охраны")
		return
	}
	data := models.GetVisitorRequestDecidedNotification(rec.VisitorName, rec.EmployeeToVisitName, decision, employeeName, visitorNumber)
	i.notificationHandler.NotifyAll(security, data, notificationhandler.Ref{VisitorRequestID: &rec.ID})
}
