package apiv1

import (
	"cpsms-backend/controllers"
	"cpsms-backend/db"
	employeestore "cpsms-backend/lib/employee/store"
	apimodels "cpsms-backend/models/api"
	employeeapimodels "cpsms-backend/models/api/employee"

	"github.com/gofiber/fiber/v2"
)

type employeeApiController struct {
	controllers.BaseAPIController
}

func InitEmployeeApiRouters(app *fiber.App) {
	controller := employeeApiController{}
	app.Route("employee", func(router fiber.Router) {
		router.Get("", controller.list)
	})
}

// @Summary Справочник сотрудников
// @Tags Сотрудник
// @Description Список сотрудников для выбора посещаемого
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]employeeapimodels.EmployeeView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/employee [get]
func (c *employeeApiController) list(ctx *fiber.Ctx) error {
	list, err := employeestore.NewInstance(db.DB).List()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка сотрудников")
	}
	result := make([]employeeapimodels.EmployeeView, 0, len(list))
	for _, rec := range list {
		result = append(result, employeeapimodels.EmployeeConvert(rec))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
