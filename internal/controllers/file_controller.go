package controllers

import (
	"github.com/gofiber/fiber/v3"

	"github.com/superbullet/superbullet/internal/domain"
	"github.com/superbullet/superbullet/internal/middlewares"
)

type FileController struct {
	fileManager domain.FileManager
}

type FileControllerDependencies struct {
	FileManager domain.FileManager
}

func NewFileController(deps FileControllerDependencies) *FileController {
	return &FileController{
		fileManager: deps.FileManager,
	}
}

type updateFileRequest struct {
	Content *string `json:"content"`
}

func (c *FileController) ListFiles(ctx fiber.Ctx) error {
	session, err := middlewares.Session(ctx)
	if err != nil {
		return err
	}

	files, err := c.fileManager.ListFiles(ctx.RequestCtx(), session.UserID, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{"files": files})
}

func (c *FileController) CreateFile(ctx fiber.Ctx) error {
	session, err := middlewares.Session(ctx)
	if err != nil {
		return err
	}

	var req domain.CreateFileParams
	if err := ctx.Bind().Body(&req); err != nil {
		return errInvalidBody
	}

	file, err := c.fileManager.CreateFile(ctx.RequestCtx(), session.UserID, ctx.Params("id"), req)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{"file": file})
}

func (c *FileController) GetFile(ctx fiber.Ctx) error {
	session, err := middlewares.Session(ctx)
	if err != nil {
		return err
	}

	file, err := c.fileManager.GetFile(ctx.RequestCtx(), session.UserID, ctx.Params("id"), ctx.Params("fileId"))
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{"file": file})
}

func (c *FileController) UpdateFile(ctx fiber.Ctx) error {
	session, err := middlewares.Session(ctx)
	if err != nil {
		return err
	}

	var req updateFileRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return errInvalidBody
	}

	file, err := c.fileManager.UpdateFile(ctx.RequestCtx(), session.UserID, ctx.Params("id"), ctx.Params("fileId"), req.Content)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{"file": file})
}

func (c *FileController) DeleteFile(ctx fiber.Ctx) error {
	session, err := middlewares.Session(ctx)
	if err != nil {
		return err
	}

	if err := c.fileManager.DeleteFile(ctx.RequestCtx(), session.UserID, ctx.Params("id"), ctx.Params("fileId")); err != nil {
		return err
	}

	return ctx.JSON(success())
}
