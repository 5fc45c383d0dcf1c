package controller

import (
	"errors"

	"second-brain-be/internal/dto"
	"second-brain-be/internal/pkg/serverutils"
	"second-brain-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFolderController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type folderController struct {
	folderService service.IFolderService
	jwtMiddleware fiber.Handler
}

func NewFolderController(folderService service.IFolderService, jwtMiddleware fiber.Handler) IFolderController {
	return &folderController{
		folderService: folderService,
		jwtMiddleware: jwtMiddleware,
	}
}

func (c *folderController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/folder/v1")
	h.Use(c.jwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.GetAll)
	h.Patch(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func (c *folderController) Create(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.CreateFolderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.folderService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Success create folder", res))
}

func (c *folderController) GetAll(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.folderService.GetAll(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get folders", res))
}

func (c *folderController) Update(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid folder id")
	}

	var req dto.UpdateFolderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.folderService.Update(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyFolderName) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "folder not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update folder", res))
}

func (c *folderController) Delete(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid folder id")
	}

	deleted, err := c.folderService.Delete(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "folder not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete folder", nil))
}
