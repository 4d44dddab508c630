package notificationhandler

import (
	"sort"
	"testing"

	"cpsms-backend/models"
	dbmodels "cpsms-backend/models/db"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	notifications map[string]dbmodels.Notification
}

func newFakeStore() *fakeStore {
	return &fakeStore{notifications: map[string]dbmodels.Notification{}}
}

func (s *fakeStore) Create(rec dbmodels.Notification) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	s.notifications[rec.ID] = rec
	return rec.ID, nil
}

func (s *fakeStore) GetByID(id string) (*dbmodels.Notification, error) {
	rec, ok := s.notifications[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *fakeStore) ListForRecipient(recipientID string) ([]dbmodels.Notification, error) {
	list := []dbmodels.Notification{}
	for _, rec := range s.notifications {
		if rec.RecipientID == recipientID {
			list = append(list, rec)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (s *fakeStore) MarkRead(recipientID, id string) error {
	rec, ok := s.notifications[id]
	if !ok || rec.RecipientID != recipientID {
		return errors.New("запись не найдена")
	}
	rec.IsRead = true
	s.notifications[id] = rec
	return nil
}

func (s *fakeStore) Delete(id string) error {
	delete(s.notifications, id)
	return nil
}

func getTestInstance() (impl, *fakeStore) {
	store := newFakeStore()
	return impl{store: store}, store
}

func employee(id string) dbmodels.Employee {
	return dbmodels.Employee{
		BaseModel:  dbmodels.BaseModel{ID: id},
		Name:       "Sunita Sharma",
		Department: models.DepartmentSafety,
	}
}

func TestNotify(t *testing.T) {
	t.Run(`уведомление сохраняется с содержимым события`, func(t *testing.T) {
		i, store := getTestInstance()
		permitID := "PERMIT-3F0A9C"
		data := models.GetPermitReviewNotification(models.RiskLevelHigh, permitID, "Ramesh Kumar")

		i.Notify(employee("67890"), data, Ref{PermitID: &permitID})

		list, err := i.ListForRecipient("67890")
		require.Nil(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "High Risk Permit Review", list[0].Title)
		require.Equal(t, "Permit #PERM from Ramesh Kumar requires approval.", list[0].Description)
		require.Equal(t, models.NotificationPermitApproval, list[0].Type)
		require.False(t, list[0].IsRead)
		require.NotNil(t, list[0].PermitID)
		require.Equal(t, permitID, *list[0].PermitID)
		require.Len(t, store.notifications, 1)
	})

	t.Run(`рассылка нескольким получателям`, func(t *testing.T) {
		i, store := getTestInstance()
		data := models.GetVisitorRequestNotification("John Smith", "Anil Mehta")

		i.NotifyAll([]dbmodels.Employee{employee("67890"), employee("45678")}, data, Ref{})

		require.Len(t, store.notifications, 2)
		list, err := i.ListForRecipient("45678")
		require.Nil(t, err)
		require.Len(t, list, 1)
	})
}

func TestConsume(t *testing.T) {
	t.Run(`обработка удаляет уведомление`, func(t *testing.T) {
		i, store := getTestInstance()
		id, err := store.Create(dbmodels.Notification{RecipientID: "67890", Title: "Visitor Pass Request"})
		require.Nil(t, err)

		rec, err := i.Consume("67890", id)
		require.Nil(t, err)
		require.Equal(t, "Visitor Pass Request", rec.Title)
		require.Empty(t, store.notifications)
	})

	t.Run(`чужое уведомление обработать нельзя`, func(t *testing.T) {
		i, store := getTestInstance()
		id, err := store.Create(dbmodels.Notification{RecipientID: "67890"})
		require.Nil(t, err)

		_, err = i.Consume("12345", id)
		require.ErrorIs(t, err, ErrNotFound)
		require.Len(t, store.notifications, 1)
	})

	t.Run(`уведомление не найдено`, func(t *testing.T) {
		i, _ := getTestInstance()
		_, err := i.Consume("67890", "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMarkRead(t *testing.T) {
	t.Run(`отметка о прочтении`, func(t *testing.T) {
		i, store := getTestInstance()
		id, err := store.Create(dbmodels.Notification{RecipientID: "67890"})
		require.Nil(t, err)

		err = i.MarkRead("67890", id)
		require.Nil(t, err)
		require.True(t, store.notifications[id].IsRead)
	})

	t.Run(`чужое уведомление отметить нельзя`, func(t *testing.T) {
		i, store := getTestInstance()
		id, err := store.Create(dbmodels.Notification{RecipientID: "67890"})
		require.Nil(t, err)

		err = i.MarkRead("12345", id)
		require.ErrorIs(t, err, ErrNotFound)
		require.False(t, store.notifications[id].IsRead)
	})
}
