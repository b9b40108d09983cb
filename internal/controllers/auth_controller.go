package controllers

import (
	"github.com/gofiber/fiber/v3"

	"github.com/superbullet/superbullet/internal/domain"
	"github.com/superbullet/superbullet/internal/middlewares"
)

type AuthController struct {
	userManager domain.UserManager
}

type AuthControllerDependencies struct {
	UserManager domain.UserManager
}

func NewAuthController(deps AuthControllerDependencies) *AuthController {
	return &AuthController{
		userManager: deps.UserManager,
	}
}

func (c *AuthController) Register(ctx fiber.Ctx) error {
	var req domain.RegisterParams

	if err := ctx.Bind().Body(&req); err != nil {
		return errInvalidBody
	}

	result, err := c.userManager.Register(ctx.RequestCtx(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(result)
}

func (c *AuthController) Login(ctx fiber.Ctx) error {
	var req domain.LoginParams

	if err := ctx.Bind().Body(&req); err != nil {
		return errInvalidBody
	}

	result, err := c.userManager.Login(ctx.RequestCtx(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(result)
}

// Verify returns the payload of the caller's token
func (c *AuthController) Verify(ctx fiber.Ctx) error {
	session, err := middlewares.Session(ctx)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{"user": session})
}
