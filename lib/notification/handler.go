package notificationhandler

import (
	"time"

	"cpsms-backend/db"
	notificationstore "cpsms-backend/lib/notification/store"
	smtphandler "cpsms-backend/lib/smtp"
	connectionhub "cpsms-backend/lib/ws/hub/connection-hub"
	"cpsms-backend/models"
	dbmodels "cpsms-backend/models/db"
	wsmodels "cpsms-backend/models/ws"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("Notification not found.")

// Ref - ссылка уведомления на породившую его сущность
type Ref struct {
	PermitID         *string
	VisitorRequestID *string
}

type Provider interface {
	Notify(recipient dbmodels.Employee, data models.NotificationData, ref Ref)
	NotifyAll(recipients []dbmodels.Employee, data models.NotificationData, ref Ref)
	ListForRecipient(recipientID string) ([]dbmodels.Notification, error)
	MarkRead(recipientID, id string) error
	Consume(recipientID, id string) (*dbmodels.Notification, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: notificationstore.NewInstance(db.DB),
	}
}

type impl struct {
	store notificationstore.Provider
}

func (i impl) getLogger(recipientID string, data models.NotificationData) *log.Entry {
	return log.
		WithField("recipient_id", recipientID).
		WithField("notification_type", data.Type)
}

// Notify сохраняет уведомление и рассылает копии по подключённым каналам.
// Ошибки каналов доставки не прерывают основной сценарий, только логируются.
func (i impl) Notify(recipient dbmodels.Employee, data models.NotificationData, ref Ref) {
	logger := i.getLogger(recipient.ID, data)
	rec := dbmodels.Notification{
		RecipientID:      recipient.ID,
		Type:             data.Type,
		Title:            data.Title,
		Description:      data.Description,
		PermitID:         ref.PermitID,
		VisitorRequestID: ref.VisitorRequestID,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения уведомления")
		return
	}
	logger = logger.WithField("notification_id", id)
	if recipient.PushEnabled {
		i.sendWs(recipient.ID, data)
	}
	if smtphandler.Instance != nil && recipient.EmailEnabled && recipient.Email != "" {
		err = smtphandler.Instance.SendEMail(recipient.Email, data.Description, data.Title)
		if err != nil {
			logger.WithError(err).Error("ошибка отправки копии уведомления на почту")
		}
	}
}

func (i impl) NotifyAll(recipients []dbmodels.Employee, data models.NotificationData, ref Ref) {
	for _, recipient := range recipients {
		i.Notify(recipient, data, ref)
	}
}

func (i impl) ListForRecipient(recipientID string) ([]dbmodels.Notification, error) {
	list, err := i.store.ListForRecipient(recipientID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка уведомлений")
	}
	return list, nil
}

func (i impl) MarkRead(recipientID, id string) error {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения уведомления")
	}
	if rec == nil || rec.RecipientID != recipientID {
		return ErrNotFound
	}
	return i.store.MarkRead(recipientID, id)
}

// Consume удаляет обработанное уведомление и возвращает его содержимое.
// Чужое уведомление потребить нельзя, для вызывающего оно не существует.
func (i impl) Consume(recipientID, id string) (*dbmodels.Notification, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения уведомления")
	}
	if rec == nil || rec.RecipientID != recipientID {
		return nil, ErrNotFound
	}
	err = i.store.Delete(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка удаления уведомления")
	}
	return rec, nil
}

func (i impl) sendWs(recipientID string, data models.NotificationData) {
	if connectionhub.Instance == nil || !connectionhub.Instance.IsConnected(recipientID) {
		return
	}
	connectionhub.Instance.SendMessage(wsmodels.ServerMessage{
		ToUserID: recipientID,
		Time:     time.Now().Format("02.01.2006 15:04:05"),
		Type:     string(data.Type),
		Title:    data.Title,
		Msg:      data.Description,
	})
}
