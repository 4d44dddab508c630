package controllers

import (
	notificationhandler "cpsms-backend/lib/notification"
	permithandler "cpsms-backend/lib/permit"
	riskhandler "cpsms-backend/lib/risk"
	visitorhandler "cpsms-backend/lib/visitor"
	visitorreqhandler "cpsms-backend/lib/visitor-req"
	apimodels "cpsms-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("не указан идентификатор записи")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

// SendError переводит ошибки обработчиков в ответы api.
// Сообщения доменных ошибок продуктовые и уходят клиенту как есть,
// остальные скрываются за defaultMsg.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, defaultMsg string) error {
	var vErr *apimodels.ValidationError
	if errors.As(err, &vErr) {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.Response{
			Status:  "fail",
			Message: vErr.Message,
			Data:    vErr.Fields,
		})
	}
	switch {
	case errors.Is(err, permithandler.ErrNotFound),
		errors.Is(err, visitorreqhandler.ErrNotFound),
		errors.Is(err, visitorhandler.ErrNotFound),
		errors.Is(err, notificationhandler.ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(err.Error()))
	case errors.Is(err, permithandler.ErrInvalidState),
		errors.Is(err, visitorreqhandler.ErrInvalidState):
		return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(err.Error()))
	case errors.Is(err, visitorreqhandler.ErrNotAddressee):
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(err.Error()))
	}
	var aErr *riskhandler.AssessmentError
	if errors.As(err, &aErr) {
		logger.WithError(err).Error("отказ сервиса оценки риска")
		return ctx.Status(fiber.StatusBadGateway).JSON(apimodels.NewError(aErr.Error()))
	}
	logger.WithError(err).Error(defaultMsg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(defaultMsg))
}
