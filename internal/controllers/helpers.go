package controllers

import (
	"github.com/gofiber/fiber/v3"

	"github.com/superbullet/superbullet/internal/domain"
	"github.com/superbullet/superbullet/pkg/utils/pagination"
)

var errInvalidBody = domain.BadRequest("Invalid request body")

var pageHandler = pagination.NewOffsetHandler(50, 200)

func pageParams(ctx fiber.Ctx) (pagination.Params, error) {
	page, err := pageHandler.ParseQuery(ctx.Query("limit"), ctx.Query("offset"))
	if err != nil {
		return pagination.Params{}, domain.BadRequest(err.Error())
	}

	return page, nil
}

func success() fiber.Map {
	return fiber.Map{"success": true}
}
