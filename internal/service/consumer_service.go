package service

import (
	"context"
	"encoding/json"

	"second-brain-be/internal/dto"
	"second-brain-be/internal/pkg/logger"
	"second-brain-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process sync topic and pushes each message
// to the owning user's live websocket connections. Keeping the fan-out on a
// bus instead of calling the hub from the services keeps write paths fast:
// a slow socket never blocks a note save.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	hub       *websocket.Hub
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		hub:       hub,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.SyncMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal sync message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid payload, retrying will not help
		return
	}

	if payload.UserId == uuid.Nil {
		cs.logger.Error("consumer", "sync message missing user id", map[string]interface{}{"type": payload.Type})
		msg.Ack()
		return
	}

	cs.hub.SendToUser(payload.UserId, msg.Payload)
	msg.Ack()
}
