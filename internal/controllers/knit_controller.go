package controllers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/superbullet/superbullet/internal/domain"
	"github.com/superbullet/superbullet/internal/middlewares"
	"github.com/superbullet/superbullet/pkg/codegen"
)

// KnitController serves service scaffolding and component code generation
type KnitController struct {
	scaffoldManager domain.ScaffoldManager
	codegenManager  domain.CodegenManager
}

type KnitControllerDependencies struct {
	ScaffoldManager domain.ScaffoldManager
	CodegenManager  domain.CodegenManager
}

func NewKnitController(deps KnitControllerDependencies) *KnitController {
	return &KnitController{
		scaffoldManager: deps.ScaffoldManager,
		codegenManager:  deps.CodegenManager,
	}
}

type generateCodeResponse struct {
	Success bool `json:"success"`
	codegen.Response
}

func (c *KnitController) ScaffoldService(ctx fiber.Ctx) error {
	session, err := middlewares.Session(ctx)
	if err != nil {
		return err
	}

	var req domain.ScaffoldParams
	if err := ctx.Bind().Body(&req); err != nil {
		return errInvalidBody
	}

	result, err := c.scaffoldManager.Scaffold(ctx.RequestCtx(), session.UserID, req)
	if err != nil {
		if _, ok := domain.AsError(err); !ok {
			log.Error().Err(err).Str("project_id", req.ProjectID).Msg("Failed to scaffold service")
			return domain.NewError(fiber.StatusInternalServerError, "Failed to scaffold service")
		}
		return err
	}

	return ctx.JSON(result)
}

func (c *KnitController) GenerateCode(ctx fiber.Ctx) error {
	session, err := middlewares.Session(ctx)
	if err != nil {
		return err
	}

	var req codegen.Request
	if err := ctx.Bind().Body(&req); err != nil {
		return errInvalidBody
	}

	response, err := c.codegenManager.GenerateCode(ctx.RequestCtx(), session.UserID, req)
	if err != nil {
		return err
	}

	return ctx.JSON(generateCodeResponse{Success: true, Response: response})
}

func (c *KnitController) ListGenerations(ctx fiber.Ctx) error {
	session, err := middlewares.Session(ctx)
	if err != nil {
		return err
	}

	page, err := pageParams(ctx)
	if err != nil {
		return err
	}

	records, err := c.codegenManager.ListGenerations(ctx.RequestCtx(), session.UserID, page)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"generations": records,
		"pagination":  pageHandler.Metadata(page, len(records)),
	})
}
