package visitorreqhandler

import (
	"context"
	"sort"
	"testing"

	"cpsms-backend/config"
	notificationhandler "cpsms-backend/lib/notification"
	"cpsms-backend/models"
	apimodels "cpsms-backend/models/api"
	visitorapimodels "cpsms-backend/models/api/visitor"
	dbmodels "cpsms-backend/models/db"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeRequestStore struct {
	requests map[string]dbmodels.VisitorRequest
	events   []dbmodels.RequestStatusEvent
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: map[string]dbmodels.VisitorRequest{}}
}

func (s *fakeRequestStore) Create(rec dbmodels.VisitorRequest) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	s.requests[rec.ID] = rec
	return rec.ID, nil
}

func (s *fakeRequestStore) Update(id string, updMap map[string]interface{}) error {
	rec, ok := s.requests[id]
	if !ok {
		return errors.New("запись не найдена")
	}
	if status, exist := updMap["status"]; exist {
		rec.Status = status.(models.RequestStatus)
	}
	if visitorID, exist := updMap["generated_visitor_id"]; exist {
		value := visitorID.(string)
		rec.GeneratedVisitorID = &value
	}
	s.requests[id] = rec
	return nil
}

func (s *fakeRequestStore) GetByID(id string) (*dbmodels.VisitorRequest, error) {
	rec, ok := s.requests[id]
	if !ok {
		return nil, nil
	}
	rec.StatusEvents = s.eventsOf(id)
	return &rec, nil
}

func (s *fakeRequestStore) ListForEmployee(employeeID string, status models.RequestStatus) ([]dbmodels.VisitorRequest, error) {
	list := []dbmodels.VisitorRequest{}
	for id, rec := range s.requests {
		if rec.EmployeeToVisitID != employeeID {
			continue
		}
		if status != "" && rec.Status != status {
			continue
		}
		rec.StatusEvents = s.eventsOf(id)
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (s *fakeRequestStore) AddStatusEvent(event dbmodels.RequestStatusEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *fakeRequestStore) eventsOf(id string) []dbmodels.RequestStatusEvent {
	events := []dbmodels.RequestStatusEvent{}
	for _, event := range s.events {
		if event.RequestID == id {
			events = append(events, event)
		}
	}
	return events
}

type fakeEmployeeStore struct {
	employees map[string]dbmodels.Employee
}

func (s *fakeEmployeeStore) Create(rec dbmodels.Employee) (string, error) {
	s.employees[rec.ID] = rec
	return rec.ID, nil
}

func (s *fakeEmployeeStore) Update(id string, updMap map[string]interface{}) error {
	return nil
}

func (s *fakeEmployeeStore) GetByID(id string) (*dbmodels.Employee, error) {
	rec, ok := s.employees[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *fakeEmployeeStore) GetByIDAndDob(id, dob string) (*dbmodels.Employee, error) {
	rec, ok := s.employees[id]
	if !ok || rec.Dob != dob {
		return nil, nil
	}
	return &rec, nil
}

func (s *fakeEmployeeStore) List() ([]dbmodels.Employee, error) {
	return nil, nil
}

func (s *fakeEmployeeStore) ListByDepartments(departments []models.Department) ([]dbmodels.Employee, error) {
	list := []dbmodels.Employee{}
	for _, rec := range s.employees {
		for _, dep := range departments {
			if rec.Department == dep {
				list = append(list, rec)
			}
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

type fakeVisitors struct {
	created []dbmodels.VisitorRequest
}

func (f *fakeVisitors) CreateFromRequest(req dbmodels.VisitorRequest) (visitorapimodels.VisitorView, error) {
	f.created = append(f.created, req)
	return visitorapimodels.VisitorView{ID: "V-3F0A9C", Name: req.VisitorName, Dob: req.VisitorDob}, nil
}

func (f *fakeVisitors) GetByID(id string) (visitorapimodels.VisitorView, error) {
	return visitorapimodels.VisitorView{}, nil
}

func (f *fakeVisitors) ListActive() ([]visitorapimodels.VisitorView, error) {
	return nil, nil
}

func (f *fakeVisitors) SetPhotoKey(id, photoKey string) error {
	return nil
}

type sentNotification struct {
	RecipientID string
	Data        models.NotificationData
	Ref         notificationhandler.Ref
}

type fakeNotifications struct {
	sent     []sentNotification
	consumed []string
}

func (f *fakeNotifications) Notify(recipient dbmodels.Employee, data models.NotificationData, ref notificationhandler.Ref) {
	f.sent = append(f.sent, sentNotification{RecipientID: recipient.ID, Data: data, Ref: ref})
}

func (f *fakeNotifications) NotifyAll(recipients []dbmodels.Employee, data models.NotificationData, ref notificationhandler.Ref) {
	for _, recipient := range recipients {
		f.Notify(recipient, data, ref)
	}
}

func (f *fakeNotifications) ListForRecipient(recipientID string) ([]dbmodels.Notification, error) {
	return nil, nil
}

func (f *fakeNotifications) MarkRead(recipientID, id string) error {
	return nil
}

func (f *fakeNotifications) Consume(recipientID, id string) (*dbmodels.Notification, error) {
	f.consumed = append(f.consumed, id)
	return &dbmodels.Notification{}, nil
}

func getTestInstance() (impl, *fakeRequestStore, *fakeVisitors, *fakeNotifications) {
	config.Conf = new(config.Configuration)
	store := newFakeRequestStore()
	employees := &fakeEmployeeStore{employees: map[string]dbmodels.Employee{
		"12345": {BaseModel: dbmodels.BaseModel{ID: "12345"}, Name: "Ramesh Kumar", Department: models.DepartmentOperations},
		"11223": {BaseModel: dbmodels.BaseModel{ID: "11223"}, Name: "Anil Mehta", Department: models.DepartmentSecurity},
		"56789": {BaseModel: dbmodels.BaseModel{ID: "56789"}, Name: "Geeta Joshi", Department: models.DepartmentSecurity},
	}}
	visitors := &fakeVisitors{}
	notifications := &fakeNotifications{}
	i := impl{
		store:               store,
		employeeStore:       employees,
		visitorHandler:      visitors,
		notificationHandler: notifications,
	}
	return i, store, visitors, notifications
}

func requestJohnSmith(t *testing.T, i impl) visitorapimodels.VisitorRequestView {
	view, err := i.Request("11223", visitorapimodels.VisitorRequestData{
		VisitorName:       "John Smith",
		VisitorDob:        "1991-04-07",
		Purpose:           "Contractor meeting",
		EmployeeToVisitID: "12345",
	})
	require.Nil(t, err)
	return view
}

func TestVisitorRequest(t *testing.T) {
	t.Run(`создание запроса пропуска`, func(t *testing.T) {
		i, _, _, notifications := getTestInstance()
		view := requestJohnSmith(t, i)

		require.Equal(t, models.RequestStatusPending, view.Status)
		require.Equal(t, "John Smith", view.VisitorName)
		require.Equal(t, "Ramesh Kumar", view.EmployeeToVisitName)
		require.Equal(t, "11223", view.RequestedByID)
		require.Empty(t, view.GeneratedVisitorID)

		// история начинается с события запроса
		require.Len(t, view.StatusHistory, 1)
		require.Equal(t, models.HistoryEventRequested, view.StatusHistory[0].Status)
		require.Equal(t, "Anil Mehta", view.StatusHistory[0].UpdatedBy)
		require.Equal(t, "11223", view.StatusHistory[0].UpdatedByID)

		// уведомление уходит посещаемому сотруднику
		require.Len(t, notifications.sent, 1)
		require.Equal(t, "12345", notifications.sent[0].RecipientID)
		require.Equal(t, "Visitor Pass Request", notifications.sent[0].Data.Title)
		require.Contains(t, notifications.sent[0].Data.Description, "John Smith")
		require.NotNil(t, notifications.sent[0].Ref.VisitorRequestID)
	})

	t.Run(`проверка входных данных`, func(t *testing.T) {
		i, store, _, _ := getTestInstance()
		_, err := i.Request("11223", visitorapimodels.VisitorRequestData{
			VisitorName: "J",
			Purpose:     "",
		})
		var vErr *apimodels.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Contains(t, vErr.Fields["visitor_name"], "Visitor name must be at least 2 characters.")
		require.Contains(t, vErr.Fields["purpose"], "Purpose of visit cannot be empty.")
		require.Contains(t, vErr.Fields["employee_to_visit_id"], "Please select an employee.")
		require.Empty(t, store.requests)
	})
}

func TestVisitorRequestDecide(t *testing.T) {
	t.Run(`согласование запроса выдаёт пропуск`, func(t *testing.T) {
		i, _, visitors, notifications := getTestInstance()
		created := requestJohnSmith(t, i)
		notifications.sent = nil

		view, err := i.Decide(context.TODO(), "12345", created.ID, visitorapimodels.RequestDecisionData{
			Decision:       models.RequestStatusApproved,
			NotificationID: "notif-7",
		})
		require.Nil(t, err)
		require.Equal(t, models.RequestStatusApproved, view.Status)
		require.Equal(t, "V-3F0A9C", view.GeneratedVisitorID)

		// пропуск выдан по данным запроса
		require.Len(t, visitors.created, 1)
		require.Equal(t, "John Smith", visitors.created[0].VisitorName)

		// история: запрос и решение
		require.Len(t, view.StatusHistory, 2)
		require.Equal(t, string(models.RequestStatusApproved), view.StatusHistory[1].Status)
		require.Equal(t, "Ramesh Kumar", view.StatusHistory[1].UpdatedBy)

		// охрана уведомлена с номером выданного пропуска
		require.Len(t, notifications.sent, 2)
		require.ElementsMatch(t, []string{"11223", "56789"},
			[]string{notifications.sent[0].RecipientID, notifications.sent[1].RecipientID})
		require.Contains(t, notifications.sent[0].Data.Description, "The new Visitor ID is V-3F0A9C.")

		require.Equal(t, []string{"notif-7"}, notifications.consumed)
	})

	t.Run(`отклонение запроса без выдачи пропуска`, func(t *testing.T) {
		i, _, visitors, notifications := getTestInstance()
		view, err := i.Request("11223", visitorapimodels.VisitorRequestData{
			VisitorName:       "Jane Doe",
			VisitorDob:        "1988-11-23",
			Purpose:           "Vendor audit",
			EmployeeToVisitID: "12345",
		})
		require.Nil(t, err)
		notifications.sent = nil

		decided, err := i.Decide(context.TODO(), "12345", view.ID, visitorapimodels.RequestDecisionData{
			Decision: models.RequestStatusRejected,
		})
		require.Nil(t, err)
		require.Equal(t, models.RequestStatusRejected, decided.Status)
		require.Empty(t, decided.GeneratedVisitorID)
		require.Empty(t, visitors.created)

		require.Len(t, notifications.sent, 2)
		require.NotContains(t, notifications.sent[0].Data.Description, "The new Visitor ID")
	})

	t.Run(`решение принимает только посещаемый`, func(t *testing.T) {
		i, _, _, _ := getTestInstance()
		created := requestJohnSmith(t, i)

		_, err := i.Decide(context.TODO(), "56789", created.ID, visitorapimodels.RequestDecisionData{
			Decision: models.RequestStatusApproved,
		})
		require.ErrorIs(t, err, ErrNotAddressee)
	})

	t.Run(`повторное решение недопустимо`, func(t *testing.T) {
		i, _, _, _ := getTestInstance()
		created := requestJohnSmith(t, i)

		_, err := i.Decide(context.TODO(), "12345", created.ID, visitorapimodels.RequestDecisionData{
			Decision: models.RequestStatusRejected,
		})
		require.Nil(t, err)

		_, err = i.Decide(context.TODO(), "12345", created.ID, visitorapimodels.RequestDecisionData{
			Decision: models.RequestStatusApproved,
		})
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run(`запрос не найден`, func(t *testing.T) {
		i, _, _, _ := getTestInstance()
		_, err := i.Decide(context.TODO(), "12345", "missing", visitorapimodels.RequestDecisionData{
			Decision: models.RequestStatusApproved,
		})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestVisitorRequestList(t *testing.T) {
	t.Run(`список запросов сотрудника`, func(t *testing.T) {
		i, _, _, _ := getTestInstance()
		created := requestJohnSmith(t, i)

		list, err := i.ListForEmployee("12345", "")
		require.Nil(t, err)
		require.Len(t, list, 1)
		require.Equal(t, created.ID, list[0].ID)

		list, err = i.ListForEmployee("12345", models.RequestStatusApproved)
		require.Nil(t, err)
		require.Empty(t, list)

		list, err = i.ListForEmployee("56789", "")
		require.Nil(t, err)
		require.Empty(t, list)
	})
}
