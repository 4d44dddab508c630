package visitorexpiryworker

import (
	"context"
	"time"

	"cpsms-backend/config"
	"cpsms-backend/db"
	filestorage "cpsms-backend/lib/file-storage"
	baseworker "cpsms-backend/lib/utils/base-worker"
	"cpsms-backend/lib/utils/helpers"
	visitorstore "cpsms-backend/lib/visitor/store"
)

func StartWorker(ctx context.Context) {
	period := time.Duration(config.Conf.Workers.VisitorExpiryIntervalInSec) * time.Second
	i := &impl{
		BaseImpl:     *baseworker.NewInstance("VisitorExpiryWorker", 15*time.Second, period),
		visitorStore: visitorstore.NewInstance(db.DB),
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	visitorStore visitorstore.Provider
}

// По истёкшим пропускам подчищаем фото из хранилища,
// сама запись пропуска остаётся для журнала
func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	list, err := i.visitorStore.ListExpired(time.Now())
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка истёкших пропусков")
		return
	}
	for _, visitor := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		if visitor.PhotoKey == "" {
			continue
		}
		vLogger := logger.WithField("visitor_id", visitor.ID)
		err = filestorage.Instance.DeleteVisitorPhoto(ctx, visitor.ID)
		if err != nil {
			vLogger.WithError(err).Error("ошибка удаления фото истёкшего пропуска")
			continue
		}
		err = i.visitorStore.Update(visitor.ID, map[string]interface{}{
			"photo_key": "",
		})
		if err != nil {
			vLogger.WithError(err).Error("ошибка очистки ссылки на фото пропуска")
		}
	}
}
