package apiv1

import (
	"cpsms-backend/controllers"
	permithandler "cpsms-backend/lib/permit"
	permitstore "cpsms-backend/lib/permit/store"
	"cpsms-backend/middleware"
	"cpsms-backend/models"
	apimodels "cpsms-backend/models/api"
	permitapimodels "cpsms-backend/models/api/permit"

	"github.com/gofiber/fiber/v2"
)

type permitApiController struct {
	controllers.BaseAPIController
}

func InitPermitApiRouters(app *fiber.App) {
	controller := permitApiController{}
	app.Route("permit", func(router fiber.Router) {
		router.Post("", middleware.EmployeeRequired(), controller.create)
		router.Get("", controller.list)
		router.Get("export", middleware.SecurityRequired(), controller.export)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("decide", middleware.ApproverRequired(), controller.decide)
		})
	})
}

// @Summary Создание наряда
// @Tags Наряд-допуск
// @Description Создание наряда-допуска с оценкой риска
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 permitapimodels.PermitCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=permitapimodels.PermitView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 502 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/permit [post]
func (c *permitApiController) create(ctx *fiber.Ctx) error {
	var payload permitapimodels.PermitCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	resp, err := permithandler.Instance.Create(ctx.UserContext(), userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания наряда")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список нарядов
// @Tags Наряд-допуск
// @Description Список нарядов с фильтрами
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status				query		string	false	"Pending/Approved/Rejected"
// @Param   risk_level			query		string	false	"low/medium/high"
// @Param   my					query		bool	false	"только свои наряды"
// @Success 200 {object} apimodels.Response{data=[]permitapimodels.PermitView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/permit [get]
func (c *permitApiController) list(ctx *fiber.Ctx) error {
	filter := c.getFilter(ctx)
	resp, err := permithandler.Instance.List(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка нарядов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Журнал нарядов
// @Tags Наряд-допуск
// @Description Выгрузка журнала нарядов в xlsx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status				query		string	false	"Pending/Approved/Rejected"
// @Success 200 {file} file
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/permit/export [get]
func (c *permitApiController) export(ctx *fiber.Ctx) error {
	filter := c.getFilter(ctx)
	buf, err := permithandler.Instance.ExportJournal(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки журнала нарядов")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="permits.xlsx"`)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Получение наряда
// @Tags Наряд-допуск
// @Description Получение наряда по ИД с историей статусов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response{data=permitapimodels.PermitView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/permit/{id} [get]
func (c *permitApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := permithandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения наряда")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Решение по наряду
// @Tags Наряд-допуск
// @Description Согласование или отклонение наряда
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Param	body body	 permitapimodels.PermitDecisionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=permitapimodels.PermitView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/permit/{id}/decide [put]
func (c *permitApiController) decide(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload permitapimodels.PermitDecisionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	resp, err := permithandler.Instance.Decide(ctx.UserContext(), userID, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка принятия решения по наряду")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

func (c *permitApiController) getFilter(ctx *fiber.Ctx) permitstore.ListFilter {
	filter := permitstore.ListFilter{
		Status:    models.PermitStatus(ctx.Query("status")),
		RiskLevel: models.RiskLevel(ctx.Query("risk_level")),
	}
	if ctx.QueryBool("my") {
		filter.IssuedByID = middleware.GetUserID(ctx)
	}
	return filter
}
