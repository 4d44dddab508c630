package apiv1

import (
	"cpsms-backend/controllers"
	authhandler "cpsms-backend/lib/auth"
	apimodels "cpsms-backend/models/api"
	authapimodels "cpsms-backend/models/api/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type authApiController struct {
	controllers.BaseAPIController
}

func InitAuthApiRouters(app *fiber.App) {
	controller := authApiController{}
	app.Route("auth", func(router fiber.Router) {
		router.Post("employee/login", controller.employeeLogin)
		router.Post("visitor/login", controller.visitorLogin)
		router.Post("refresh-token", controller.refreshToken)
	})
}

// @Summary Вход сотрудника
// @Tags Аутентификация
// @Description Вход сотрудника по табельному номеру и дате рождения
// @Param	body				body		authapimodels.EmployeeLoginData	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.TokenView}
// @Failure 400 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/employee/login [post]
func (c *authApiController) employeeLogin(ctx *fiber.Ctx) error {
	var payload authapimodels.EmployeeLoginData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := authhandler.Instance.EmployeeLogin(payload)
	if err != nil {
		if errors.Is(err, authhandler.ErrBadCredentials) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(err.Error()))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка входа сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Вход посетителя
// @Tags Аутентификация
// @Description Вход посетителя по номеру пропуска и дате рождения
// @Param	body				body		authapimodels.VisitorLoginData	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.TokenView}
// @Failure 400 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/visitor/login [post]
func (c *authApiController) visitorLogin(ctx *fiber.Ctx) error {
	var payload authapimodels.VisitorLoginData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := authhandler.Instance.VisitorLogin(payload)
	if err != nil {
		if errors.Is(err, authhandler.ErrBadCredentials) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(err.Error()))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка входа посетителя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Обновить JWT
// @Tags Аутентификация
// @Description Обновить JWT
// @Param	body				body		authapimodels.RefreshData	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.TokenView}
// @Failure 400 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/refresh-token [post]
func (c *authApiController) refreshToken(ctx *fiber.Ctx) error {
	var payload authapimodels.RefreshData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := authhandler.Instance.Refresh(payload)
	if err != nil {
		if errors.Is(err, authhandler.ErrBadCredentials) {
			return ctx.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обновления токена")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
