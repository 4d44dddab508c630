package connectionhub

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"cpsms-backend/models"
	dbmodels "cpsms-backend/models/db"
	wsmodels "cpsms-backend/models/ws"

	"github.com/stretchr/testify/require"
)

type fakeStore struct{}

func (s fakeStore) Create(rec dbmodels.Notification) (string, error) { return rec.ID, nil }

func (s fakeStore) GetByID(id string) (*dbmodels.Notification, error) { return nil, nil }

func (s fakeStore) ListForRecipient(recipientID string) ([]dbmodels.Notification, error) {
	return []dbmodels.Notification{
		{
			BaseModel:   dbmodels.BaseModel{ID: "n-1", CreatedAt: time.Now()},
			RecipientID: recipientID,
			Type:        models.NotificationPermitStatusUpdate,
			Title:       "Permit #PERM was Approved",
			Description: "Your permit was approved.",
		},
	}, nil
}

func (s fakeStore) MarkRead(recipientID, id string) error { return nil }

func (s fakeStore) Delete(id string) error { return nil }

func getTestHub() *impl {
	return &impl{
		clients: map[string]clientSession{},
		store:   fakeStore{},
	}
}

// подключения и рассылка идут из разных горутин fiber,
// хаб обязан переживать их одновременную работу (go test -race)
func TestHubConcurrentAccess(t *testing.T) {
	hub := getTestHub()

	const workers = 8
	const iterations = 200

	wg := sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		userID := fmt.Sprintf("user-%d", w%4)

		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < iterations; n++ {
				hub.AddClient(userID, nil)
				hub.DeleteClient(userID)
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < iterations; n++ {
				hub.SendMessage(wsmodels.ServerMessage{
					ToUserID: userID,
					Title:    "Permit #PERM was Approved",
					Msg:      "Your permit was approved.",
				})
				hub.IsConnected(userID)
			}
		}()
	}
	wg.Wait()

	for w := 0; w < 4; w++ {
		hub.DeleteClient(fmt.Sprintf("user-%d", w))
	}
	require.Empty(t, hub.clients)
}

func TestHubClientLifecycle(t *testing.T) {
	hub := getTestHub()

	require.False(t, hub.IsConnected("12345"))

	hub.AddClient("12345", nil)
	// сессия без живого соединения не считается подключённой
	require.False(t, hub.IsConnected("12345"))

	// отправка в отсутствующую и в отключённую сессию не должна падать
	hub.SendMessage(wsmodels.ServerMessage{ToUserID: "67890", Title: "t"})
	hub.DeleteClient("12345")
	hub.SendMessage(wsmodels.ServerMessage{ToUserID: "12345", Title: "t"})
	hub.DeleteClient("12345")

	require.Empty(t, hub.clients)
}
