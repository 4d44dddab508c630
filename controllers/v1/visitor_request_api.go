package apiv1

import (
	"cpsms-backend/controllers"
	visitorreqhandler "cpsms-backend/lib/visitor-req"
	"cpsms-backend/middleware"
	"cpsms-backend/models"
	apimodels "cpsms-backend/models/api"
	visitorapimodels "cpsms-backend/models/api/visitor"

	"github.com/gofiber/fiber/v2"
)

type visitorReqApiController struct {
	controllers.BaseAPIController
}

func InitVisitorRequestApiRouters(app *fiber.App) {
	controller := visitorReqApiController{}
	app.Route("visitor_request", func(router fiber.Router) {
		router.Post("", middleware.SecurityRequired(), controller.create)
		router.Get("my", middleware.EmployeeRequired(), controller.listMy)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("decide", middleware.EmployeeRequired(), controller.decide)
		})
	})
}

// @Summary Запрос пропуска
// @Tags Пропуск посетителя
// @Description Создание запроса пропуска посетителя, оформляет охрана
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 visitorapimodels.VisitorRequestData	true	"request body"
// @Success 200 {object} apimodels.Response{data=visitorapimodels.VisitorRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/visitor_request [post]
func (c *visitorReqApiController) create(ctx *fiber.Ctx) error {
	var payload visitorapimodels.VisitorRequestData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	resp, err := visitorreqhandler.Instance.Request(userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания запроса пропуска")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Мои запросы
// @Tags Пропуск посетителя
// @Description Запросы пропусков, адресованные текущему сотруднику
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status				query		string	false	"Pending/Approved/Rejected"
// @Success 200 {object} apimodels.Response{data=[]visitorapimodels.VisitorRequestView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/visitor_request/my [get]
func (c *visitorReqApiController) listMy(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)
	status := models.RequestStatus(ctx.Query("status"))
	resp, err := visitorreqhandler.Instance.ListForEmployee(userID, status)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка запросов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Получение запроса
// @Tags Пропуск посетителя
// @Description Получение запроса пропуска по ИД с историей статусов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response{data=visitorapimodels.VisitorRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/visitor_request/{id} [get]
func (c *visitorReqApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := visitorreqhandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения запроса пропуска")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Решение по запросу
// @Tags Пропуск посетителя
// @Description Решение по запросу пропуска, доступно посещаемому сотруднику
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Param	body body	 visitorapimodels.RequestDecisionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=visitorapimodels.VisitorRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/visitor_request/{id}/decide [put]
func (c *visitorReqApiController) decide(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload visitorapimodels.RequestDecisionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	resp, err := visitorreqhandler.Instance.Decide(ctx.UserContext(), userID, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка принятия решения по запросу")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
