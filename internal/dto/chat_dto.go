package dto

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ChatHistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message       string             `json:"message" validate:"required"`
	ContextWindow string             `json:"contextWindow"`
	ChatHistory   []ChatHistoryEntry `json:"chatHistory"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// ChatExchangeResponse is one past question/answer pair from the audit log.
type ChatExchangeResponse struct {
	Id        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"created_at"`
}

// Machine-readable chat error codes, surfaced to the client so it can
// render a tailored message.
const (
	ChatErrorRateLimit          = "RATE_LIMIT_EXCEEDED"
	ChatErrorQuotaNotConfigured = "QUOTA_NOT_CONFIGURED"
	ChatErrorInternal           = "INTERNAL_ERROR"
)

// ChatError is returned by the chat service when the upstream call fails;
// it carries the HTTP status and error type the controller should emit.
type ChatError struct {
	Status    int    `json:"-"`
	ErrorType string `json:"error_type"`
	Message   string `json:"message"`
}

func (e *ChatError) Error() string {
	return e.Message
}

func NewRateLimitChatError() *ChatError {
	return &ChatError{
		Status:    fiber.StatusTooManyRequests,
		ErrorType: ChatErrorRateLimit,
		Message:   "Rate limit exceeded. Please wait a moment and try again. If this persists, your API quota may need to be increased.",
	}
}

func NewQuotaNotConfiguredChatError() *ChatError {
	return &ChatError{
		Status:    fiber.StatusInternalServerError,
		ErrorType: ChatErrorQuotaNotConfigured,
		Message:   "API quota not configured. Please check your API key settings and ensure quotas are enabled.",
	}
}

func NewInternalChatError(message string) *ChatError {
	if message == "" {
		message = "Internal Server Error"
	}
	return &ChatError{
		Status:    fiber.StatusInternalServerError,
		ErrorType: ChatErrorInternal,
		Message:   message,
	}
}
