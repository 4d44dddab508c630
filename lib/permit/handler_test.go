package permithandler

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"cpsms-backend/config"
	notificationhandler "cpsms-backend/lib/notification"
	permitstore "cpsms-backend/lib/permit/store"
	riskhandler "cpsms-backend/lib/risk"
	"cpsms-backend/models"
	apimodels "cpsms-backend/models/api"
	permitapimodels "cpsms-backend/models/api/permit"
	dbmodels "cpsms-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakePermitStore struct {
	permits map[string]dbmodels.Permit
	events  []dbmodels.PermitStatusEvent
}

func newFakePermitStore() *fakePermitStore {
	return &fakePermitStore{permits: map[string]dbmodels.Permit{}}
}

func (s *fakePermitStore) Create(rec dbmodels.Permit) (string, error) {
	s.permits[rec.ID] = rec
	return rec.ID, nil
}

func (s *fakePermitStore) Update(id string, updMap map[string]interface{}) error {
	rec, ok := s.permits[id]
	if !ok {
		return errors.New("запись не найдена")
	}
	if status, exist := updMap["status"]; exist {
		rec.Status = status.(models.PermitStatus)
	}
	if approvedBy, exist := updMap["approved_by"]; exist {
		name := approvedBy.(string)
		rec.ApprovedBy = &name
	}
	s.permits[id] = rec
	return nil
}

func (s *fakePermitStore) GetByID(id string) (*dbmodels.Permit, error) {
	rec, ok := s.permits[id]
	if !ok {
		return nil, nil
	}
	rec.StatusEvents = s.eventsOf(id)
	return &rec, nil
}

func (s *fakePermitStore) List(filter permitstore.ListFilter) ([]dbmodels.Permit, error) {
	list := []dbmodels.Permit{}
	for id, rec := range s.permits {
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.IssuedByID != "" && rec.IssuedByID != filter.IssuedByID {
			continue
		}
		if filter.RiskLevel != "" && rec.RiskLevel != filter.RiskLevel {
			continue
		}
		rec.StatusEvents = s.eventsOf(id)
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (s *fakePermitStore) AddStatusEvent(event dbmodels.PermitStatusEvent) error {
	event.CreatedAt = time.Now()
	s.events = append(s.events, event)
	return nil
}

func (s *fakePermitStore) eventsOf(id string) []dbmodels.PermitStatusEvent {
	events := []dbmodels.PermitStatusEvent{}
	for _, event := range s.events {
		if event.PermitID == id {
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
	list := []dbmodels.Employee{}
	for _, rec := range s.employees {
		list = append(list, rec)
	}
	return list, nil
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

type fakeRisk struct {
	assessment riskhandler.Assessment
	err        error
	called     int
}

func (f *fakeRisk) Assess(ctx context.Context, description, ppeChecklist string) (riskhandler.Assessment, error) {
	f.called++
	if f.err != nil {
		return riskhandler.Assessment{}, f.err
	}
	return f.assessment, nil
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

func setupConf() {
	conf := new(config.Configuration)
	conf.Plant.Lat = 24.2045
	conf.Plant.Lng = 83.0396
	conf.Plant.PermitValidityHours = 8
	conf.Plant.VisitorValidityDays = 1
	config.Conf = conf
}

func getTestInstance(risk *fakeRisk) (impl, *fakePermitStore, *fakeEmployeeStore, *fakeNotifications) {
	setupConf()
	store := newFakePermitStore()
	employees := &fakeEmployeeStore{employees: map[string]dbmodels.Employee{
		"12345": {BaseModel: dbmodels.BaseModel{ID: "12345"}, Name: "Ramesh Kumar", Department: models.DepartmentOperations},
		"67890": {BaseModel: dbmodels.BaseModel{ID: "67890"}, Name: "Sunita Sharma", Department: models.DepartmentSafety},
		"45678": {BaseModel: dbmodels.BaseModel{ID: "45678"}, Name: "Vikram Rathod", Department: models.DepartmentFireAndSafety},
		"11223": {BaseModel: dbmodels.BaseModel{ID: "11223"}, Name: "Anil Mehta", Department: models.DepartmentSecurity},
	}}
	notifications := &fakeNotifications{}
	i := impl{
		store:               store,
		employeeStore:       employees,
		riskProvider:        risk,
		notificationHandler: notifications,
	}
	return i, store, employees, notifications
}

func TestPermitCreate(t *testing.T) {
	t.Run(`создание наряда на огневые работы`, func(t *testing.T) {
		risk := &fakeRisk{assessment: riskhandler.Assessment{
			RiskLevel:     models.RiskLevelHigh,
			Justification: "Hot work near fuel lines requires a fire watch.",
		}}
		i, _, _, notifications := getTestInstance(risk)

		view, err := i.Create(context.TODO(), "12345", permitapimodels.PermitCreateData{
			Description:  "Welding on pipeline section B-2",
			PpeChecklist: "Helmet, gloves, fire blanket",
		})
		require.Nil(t, err)
		require.True(t, strings.HasPrefix(view.ID, "PERMIT-"))
		require.Equal(t, models.PermitStatusPending, view.Status)
		require.Equal(t, models.RiskLevelHigh, view.RiskLevel)
		require.Equal(t, "Ramesh Kumar", view.IssuedBy)
		require.Empty(t, view.ApprovedBy)
		require.Contains(t, view.QrCodeURL, "api.qrserver.com")
		require.WithinDuration(t, view.IssueDate.Add(8*time.Hour), view.ValidUntil, time.Second)

		// история начинается с события создания
		require.Len(t, view.StatusHistory, 1)
		require.Equal(t, models.HistoryEventCreated, view.StatusHistory[0].Status)
		require.Equal(t, "Ramesh Kumar", view.StatusHistory[0].UpdatedBy)

		// уведомления уходят всем согласующим подразделениям
		require.Len(t, notifications.sent, 2)
		recipients := []string{notifications.sent[0].RecipientID, notifications.sent[1].RecipientID}
		require.ElementsMatch(t, []string{"67890", "45678"}, recipients)
		require.Equal(t, "High Risk Permit Review", notifications.sent[0].Data.Title)
		require.NotNil(t, notifications.sent[0].Ref.PermitID)
	})

	t.Run(`граница длины описания`, func(t *testing.T) {
		risk := &fakeRisk{assessment: riskhandler.Assessment{RiskLevel: models.RiskLevelLow}}
		i, store, _, _ := getTestInstance(risk)

		_, err := i.Create(context.TODO(), "12345", permitapimodels.PermitCreateData{
			Description:  "123456789", // 9 символов
			PpeChecklist: "Gloves",
		})
		require.NotNil(t, err)
		var vErr *apimodels.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Contains(t, vErr.Fields["description"], "Description must be at least 10 characters.")
		require.Empty(t, store.permits)
		require.Equal(t, 0, risk.called)

		_, err = i.Create(context.TODO(), "12345", permitapimodels.PermitCreateData{
			Description:  "1234567890", // 10 символов
			PpeChecklist: "Gloves",
		})
		require.Nil(t, err)
	})

	t.Run(`короткий список СИЗ`, func(t *testing.T) {
		risk := &fakeRisk{assessment: riskhandler.Assessment{RiskLevel: models.RiskLevelLow}}
		i, _, _, _ := getTestInstance(risk)

		_, err := i.Create(context.TODO(), "12345", permitapimodels.PermitCreateData{
			Description:  "Routine inspection of pump room",
			PpeChecklist: "1234",
		})
		var vErr *apimodels.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Contains(t, vErr.Fields["ppe_checklist"], "PPE checklist must be at least 5 characters.")
	})

	t.Run(`отказ сервиса оценки риска`, func(t *testing.T) {
		risk := &fakeRisk{err: &riskhandler.AssessmentError{Err: errors.New("timeout")}}
		i, store, _, notifications := getTestInstance(risk)

		_, err := i.Create(context.TODO(), "12345", permitapimodels.PermitCreateData{
			Description:  "Scaffolding assembly at unit 4",
			PpeChecklist: "Harness, helmet",
		})
		require.NotNil(t, err)
		var aErr *riskhandler.AssessmentError
		require.ErrorAs(t, err, &aErr)
		require.Empty(t, store.permits)
		require.Empty(t, notifications.sent)
	})
}

func TestPermitDecide(t *testing.T) {
	createPermit := func(t *testing.T, i impl) permitapimodels.PermitView {
		view, err := i.Create(context.TODO(), "12345", permitapimodels.PermitCreateData{
			Description:  "Welding on pipeline section B-2",
			PpeChecklist: "Helmet, gloves, fire blanket",
		})
		require.Nil(t, err)
		return view
	}

	t.Run(`согласование наряда`, func(t *testing.T) {
		risk := &fakeRisk{assessment: riskhandler.Assessment{RiskLevel: models.RiskLevelHigh}}
		i, _, _, notifications := getTestInstance(risk)
		created := createPermit(t, i)
		notifications.sent = nil

		view, err := i.Decide(context.TODO(), "67890", created.ID, permitapimodels.PermitDecisionData{
			Decision:       models.PermitStatusApproved,
			NotificationID: "notif-1",
		})
		require.Nil(t, err)
		require.Equal(t, models.PermitStatusApproved, view.Status)
		require.Equal(t, "Sunita Sharma", view.ApprovedBy)

		// история: создание и решение
		require.Len(t, view.StatusHistory, 2)
		require.Equal(t, models.HistoryEventCreated, view.StatusHistory[0].Status)
		require.Equal(t, string(models.PermitStatusApproved), view.StatusHistory[1].Status)
		require.Equal(t, "Sunita Sharma", view.StatusHistory[1].UpdatedBy)

		// уведомления: автору и охране
		require.Len(t, notifications.sent, 2)
		require.Equal(t, "12345", notifications.sent[0].RecipientID)
		require.Contains(t, notifications.sent[0].Data.Title, "was Approved")
		require.Equal(t, "11223", notifications.sent[1].RecipientID)

		// уведомление о согласовании обработано
		require.Equal(t, []string{"notif-1"}, notifications.consumed)
	})

	t.Run(`отклонение наряда`, func(t *testing.T) {
		risk := &fakeRisk{assessment: riskhandler.Assessment{RiskLevel: models.RiskLevelMedium}}
		i, _, _, _ := getTestInstance(risk)
		created := createPermit(t, i)

		view, err := i.Decide(context.TODO(), "45678", created.ID, permitapimodels.PermitDecisionData{
			Decision: models.PermitStatusRejected,
		})
		require.Nil(t, err)
		require.Equal(t, models.PermitStatusRejected, view.Status)
		require.Equal(t, "Vikram Rathod", view.ApprovedBy)
	})

	t.Run(`повторное решение недопустимо`, func(t *testing.T) {
		risk := &fakeRisk{assessment: riskhandler.Assessment{RiskLevel: models.RiskLevelLow}}
		i, _, _, _ := getTestInstance(risk)
		created := createPermit(t, i)

		_, err := i.Decide(context.TODO(), "67890", created.ID, permitapimodels.PermitDecisionData{
			Decision: models.PermitStatusApproved,
		})
		require.Nil(t, err)

		_, err = i.Decide(context.TODO(), "45678", created.ID, permitapimodels.PermitDecisionData{
			Decision: models.PermitStatusRejected,
		})
		require.ErrorIs(t, err, ErrInvalidState)

		// статус и история не изменились
		view, err := i.GetByID(created.ID)
		require.Nil(t, err)
		require.Equal(t, models.PermitStatusApproved, view.Status)
		require.Len(t, view.StatusHistory, 2)
	})

	t.Run(`наряд не найден`, func(t *testing.T) {
		risk := &fakeRisk{assessment: riskhandler.Assessment{RiskLevel: models.RiskLevelLow}}
		i, _, _, _ := getTestInstance(risk)

		_, err := i.Decide(context.TODO(), "67890", "PERMIT-FFFFFF", permitapimodels.PermitDecisionData{
			Decision: models.PermitStatusApproved,
		})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run(`решение без вердикта`, func(t *testing.T) {
		risk := &fakeRisk{assessment: riskhandler.Assessment{RiskLevel: models.RiskLevelLow}}
		i, _, _, _ := getTestInstance(risk)
		created := createPermit(t, i)

		_, err := i.Decide(context.TODO(), "67890", created.ID, permitapimodels.PermitDecisionData{
			Decision: models.PermitStatusPending,
		})
		var vErr *apimodels.ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}

func TestPermitList(t *testing.T) {
	t.Run(`фильтры списка`, func(t *testing.T) {
		risk := &fakeRisk{assessment: riskhandler.Assessment{RiskLevel: models.RiskLevelLow}}
		i, _, _, _ := getTestInstance(risk)

		first, err := i.Create(context.TODO(), "12345", permitapimodels.PermitCreateData{
			Description:  "Routine inspection of pump room",
			PpeChecklist: "Gloves, goggles",
		})
		require.Nil(t, err)
		_, err = i.Create(context.TODO(), "67890", permitapimodels.PermitCreateData{
			Description:  "Electrical panel maintenance",
			PpeChecklist: "Insulated gloves",
		})
		require.Nil(t, err)
		_, err = i.Decide(context.TODO(), "45678", first.ID, permitapimodels.PermitDecisionData{
			Decision: models.PermitStatusApproved,
		})
		require.Nil(t, err)

		list, err := i.List(permitstore.ListFilter{Status: models.PermitStatusPending})
		require.Nil(t, err)
		require.Len(t, list, 1)

		list, err = i.List(permitstore.ListFilter{IssuedByID: "12345"})
		require.Nil(t, err)
		require.Len(t, list, 1)
		require.Equal(t, first.ID, list[0].ID)

		list, err = i.List(permitstore.ListFilter{})
		require.Nil(t, err)
		require.Len(t, list, 2)
	})
}
