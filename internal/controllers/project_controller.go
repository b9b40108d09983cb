package controllers

import (
	"github.com/gofiber/fiber/v3"

	"github.com/superbullet/superbullet/internal/domain"
	"github.com/superbullet/superbullet/internal/middlewares"
)

type ProjectController struct {
	projectManager domain.ProjectManager
	exportManager  domain.ExportManager
}

type ProjectControllerDependencies struct {
	ProjectManager domain.ProjectManager
	ExportManager  domain.ExportManager
}

func NewProjectController(deps ProjectControllerDependencies) *ProjectController {
	return &ProjectController{
		projectManager: deps.ProjectManager,
		exportManager:  deps.ExportManager,
	}
}

func (c *ProjectController) ListProjects(ctx fiber.Ctx) error {
	session, err := middlewares.Session(ctx)
	if err != nil {
		return err
	}

	page, err := pageParams(ctx)
	if err != nil {
		return err
	}

	projects, err := c.projectManager.ListProjects(ctx.RequestCtx(), session.UserID, page)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"projects":   projects,
		"pagination": pageHandler.Metadata(page, len(projects)),
	})
}

func (c *ProjectController) CreateProject(ctx fiber.Ctx) error {
	session, err := middlewares.Session(ctx)
	if err != nil {
		return err
	}

	var req domain.CreateProjectParams
	if err := ctx.Bind().Body(&req); err != nil {
		return errInvalidBody
	}

	project, err := c.projectManager.CreateProject(ctx.RequestCtx(), session.UserID, req)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{"project": project})
}

func (c *ProjectController) GetProject(ctx fiber.Ctx) error {
	session, err := middlewares.Session(ctx)
	if err != nil {
		return err
	}

	project, err := c.projectManager.GetProject(ctx.RequestCtx(), session.UserID, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{"project": project})
}

func (c *ProjectController) UpdateProject(ctx fiber.Ctx) error {
	session, err := middlewares.Session(ctx)
	if err != nil {
		return err
	}

	var req domain.UpdateProjectParams
	if err := ctx.Bind().Body(&req); err != nil {
		return errInvalidBody
	}

	project, err := c.projectManager.UpdateProject(ctx.RequestCtx(), session.UserID, ctx.Params("id"), req)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{"success": true, "project": project})
}

func (c *ProjectController) DeleteProject(ctx fiber.Ctx) error {
	session, err := middlewares.Session(ctx)
	if err != nil {
		return err
	}

	if err := c.projectManager.DeleteProject(ctx.RequestCtx(), session.UserID, ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(success())
}

// ExportGist publishes the project's files as a secret gist
func (c *ProjectController) ExportGist(ctx fiber.Ctx) error {
	session, err := middlewares.Session(ctx)
	if err != nil {
		return err
	}

	gist, err := c.exportManager.ExportGist(ctx.RequestCtx(), session.UserID, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{"success": true, "gist": gist})
}
