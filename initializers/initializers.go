package initializers

import (
	"context"

	"cpsms-backend/config"
	"cpsms-backend/fiberlog"
	authhandler "cpsms-backend/lib/auth"
	xlsexport "cpsms-backend/lib/export/xls"
	filestorage "cpsms-backend/lib/file-storage"
	notificationhandler "cpsms-backend/lib/notification"
	permithandler "cpsms-backend/lib/permit"
	riskhandler "cpsms-backend/lib/risk"
	"cpsms-backend/lib/utils/lock"
	visitorhandler "cpsms-backend/lib/visitor"
	visitorexpiryworker "cpsms-backend/lib/visitor/expiry-worker"
	visitorreqhandler "cpsms-backend/lib/visitor-req"
	connectionhub "cpsms-backend/lib/ws/hub/connection-hub"
	s3client "cpsms-backend/s3"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	connectionhub.Init()
	lock.InitResourceLock(ctx)
	filestorage.NewInstance(s3client.Client)
	xlsexport.NewHandler()
	riskhandler.NewHandler()
	notificationhandler.NewHandler()
	visitorhandler.NewHandler()
	permithandler.NewHandler()
	visitorreqhandler.NewHandler()
	authhandler.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача очистки фото по истёкшим пропускам
	visitorexpiryworker.StartWorker(ctx)
}
