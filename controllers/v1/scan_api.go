package apiv1

import (
	"cpsms-backend/controllers"
	permithandler "cpsms-backend/lib/permit"
	"cpsms-backend/lib/qr"
	visitorhandler "cpsms-backend/lib/visitor"
	"cpsms-backend/middleware"
	apimodels "cpsms-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type scanApiController struct {
	controllers.BaseAPIController
}

func InitScanApiRouters(app *fiber.App) {
	controller := scanApiController{}
	app.Route("scan", func(router fiber.Router) {
		router.Post("", middleware.SecurityRequired(), controller.scan)
	})
}

type scanData struct {
	Data string `json:"data"` // содержимое отсканированного QR-кода
}

type scanResult struct {
	Kind   string      `json:"kind"` // permit/visitor
	Record interface{} `json:"record"`
}

// @Summary Проверка QR-кода
// @Tags Проходная
// @Description Проверка отсканированного QR-кода наряда или пропуска
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 scanData	true	"request body"
// @Success 200 {object} apimodels.Response{data=scanResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/scan [post]
func (c *scanApiController) scan(ctx *fiber.Ctx) error {
	var payload scanData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	qrPayload, err := qr.ParsePayload(payload.Data)
	if err != nil || qrPayload.ID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("QR code is not recognized."))
	}
	if qrPayload.Risk != "" {
		permit, err := permithandler.Instance.GetByID(qrPayload.ID)
		if err != nil {
			return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка проверки QR-кода")
		}
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(scanResult{Kind: "permit", Record: permit}))
	}
	visitor, err := visitorhandler.Instance.GetByID(qrPayload.ID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка проверки QR-кода")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(scanResult{Kind: "visitor", Record: visitor}))
}
