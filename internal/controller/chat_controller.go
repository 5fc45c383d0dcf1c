package controller

import (
	"errors"

	"second-brain-be/internal/dto"
	"second-brain-be/internal/pkg/serverutils"
	"second-brain-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService   service.IChatService
	jwtMiddleware fiber.Handler
}

func NewChatController(chatService service.IChatService, jwtMiddleware fiber.Handler) IChatController {
	return &chatController{
		chatService:   chatService,
		jwtMiddleware: jwtMiddleware,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai/v1")
	h.Use(c.jwtMiddleware)
	h.Post("chat", c.Chat)
	h.Get("history", c.History)
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.chatService.History(ctx.Context(), userId, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(ctx.Context(), userId, &req)
	if err != nil {
		var chatErr *dto.ChatError
		if errors.As(err, &chatErr) {
			return ctx.Status(chatErr.Status).JSON(chatErr)
		}
		return err
	}

	return ctx.JSON(res)
}
