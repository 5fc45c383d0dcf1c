package service

import (
	"context"
	"fmt"
	"time"

	"second-brain-be/internal/dto"
	"second-brain-be/internal/entity"
	"second-brain-be/internal/pkg/logger"
	"second-brain-be/internal/repository/specification"
	"second-brain-be/internal/repository/unitofwork"
	"second-brain-be/pkg/llm"

	"github.com/google/uuid"
)

// systemInstruction pins the model to the supplied notes so it cannot
// answer from its own knowledge.
const systemInstruction = `You may ONLY use the contextWindow and chatHistory to answer.
If information is missing, say:
'I can only answer using the content you provided. Please attach notes or selected text as context.'
Do not hallucinate facts not found in the context.`

// maxHistoryTurns caps how much of the conversation is replayed to the
// model on each call. Clients send the same cap but the server enforces it.
const maxHistoryTurns = 10

type IChatService interface {
	Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
	History(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*dto.ChatExchangeResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   llm.Provider
	retryCfg   llm.RetryConfig
	configured bool
	logger     logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	provider llm.Provider,
	retryCfg llm.RetryConfig,
	configured bool,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		provider:   provider,
		retryCfg:   retryCfg,
		configured: configured,
		logger:     log,
	}
}

func buildMessages(req *dto.ChatRequest) []llm.Message {
	history := req.ChatHistory
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemInstruction})

	for _, turn := range history {
		role := llm.RoleAssistant
		if turn.Role == "user" {
			role = llm.RoleUser
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Content})
	}

	contextContent := req.ContextWindow
	if contextContent == "" {
		contextContent = "No context provided."
	}

	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("CONTEXT:\n%s\n\nUSER:\n%s", contextContent, req.Message),
	})

	return messages
}

func (s *chatService) Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	if !s.configured {
		s.logger.Error("chat", "assistant called without an API key configured", nil)
		return nil, dto.NewQuotaNotConfiguredChatError()
	}

	messages := buildMessages(req)

	reply, err := llm.RetryWithBackoff(ctx, s.retryCfg, func() (string, error) {
		return s.provider.Chat(ctx, messages)
	})
	if err != nil {
		s.logger.Error("chat", "assistant call failed", map[string]interface{}{"user_id": userId, "error": err.Error()})

		switch {
		case llm.IsQuotaNotConfigured(err):
			return nil, dto.NewQuotaNotConfiguredChatError()
		case llm.IsRateLimit(err):
			return nil, dto.NewRateLimitChatError()
		default:
			return nil, dto.NewInternalChatError(err.Error())
		}
	}

	s.recordExchange(ctx, userId, req, reply)

	return &dto.ChatResponse{Reply: reply}, nil
}

func (s *chatService) History(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*dto.ChatExchangeResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	exchanges, err := uow.ChatExchangeRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.ChatExchangeResponse, 0, len(exchanges))
	for _, ex := range exchanges {
		response = append(response, &dto.ChatExchangeResponse{
			Id:        ex.Id,
			Message:   ex.Message,
			Reply:     ex.Reply,
			CreatedAt: ex.CreatedAt,
		})
	}
	return response, nil
}

// recordExchange writes the audit trail. Failures are logged and swallowed,
// a reply that reached the user should never turn into an error after the
// fact.
func (s *chatService) recordExchange(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest, reply string) {
	history := make([]entity.HistoryTurn, 0, len(req.ChatHistory))
	for _, turn := range req.ChatHistory {
		history = append(history, entity.HistoryTurn{Role: turn.Role, Content: turn.Content})
	}

	exchange := &entity.ChatExchange{
		Id:           uuid.New(),
		UserId:       userId,
		Message:      req.Message,
		ContextChars: len(req.ContextWindow),
		Reply:        reply,
		History:      history,
		CreatedAt:    time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatExchangeRepository().Create(ctx, exchange); err != nil {
		s.logger.Warn("chat", "failed to record chat exchange", map[string]interface{}{"error": err.Error()})
	}
}
