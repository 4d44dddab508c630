package apiv1

import (
	"cpsms-backend/controllers"
	filestorage "cpsms-backend/lib/file-storage"
	visitorhandler "cpsms-backend/lib/visitor"
	"cpsms-backend/middleware"
	apimodels "cpsms-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type visitorApiController struct {
	controllers.BaseAPIController
}

func InitVisitorApiRouters(app *fiber.App) {
	controller := visitorApiController{}
	app.Route("visitor", func(router fiber.Router) {
		router.Get("active", middleware.SecurityRequired(), controller.listActive)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Get("photo", controller.getPhoto)
			idRoute.Post("photo", middleware.SecurityRequired(), controller.uploadPhoto)
		})
	})
}

// @Summary Действующие пропуска
// @Tags Посетитель
// @Description Список действующих пропусков посетителей
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]visitorapimodels.VisitorView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/visitor/active [get]
func (c *visitorApiController) listActive(ctx *fiber.Ctx) error {
	resp, err := visitorhandler.Instance.ListActive()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка пропусков")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Получение пропуска
// @Tags Посетитель
// @Description Получение пропуска посетителя по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response{data=visitorapimodels.VisitorView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/visitor/{id} [get]
func (c *visitorApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := visitorhandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения пропуска")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Фото посетителя
// @Tags Посетитель
// @Description Получение фото посетителя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/visitor/{id}/photo [get]
func (c *visitorApiController) getPhoto(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, err := filestorage.Instance.GetVisitorPhoto(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения фото посетителя")
	}
	return ctx.Status(fiber.StatusOK).Send(data)
}

// @Summary Загрузка фото
// @Tags Посетитель
// @Description Загрузка фото посетителя при выдаче пропуска
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Param   file				formData	file	true	"фото посетителя"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/visitor/{id}/photo [post]
func (c *visitorApiController) uploadPhoto(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось получить файл из запроса"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось прочитать файл из запроса"))
	}
	defer file.Close()
	key, err := filestorage.Instance.UploadVisitorPhoto(ctx.UserContext(), id, file, fileHeader.Size, fileHeader.Header.Get(fiber.HeaderContentType))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки фото посетителя")
	}
	if err = visitorhandler.Instance.SetPhotoKey(id, key); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки фото посетителя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
