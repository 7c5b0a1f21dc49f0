package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const pipelineEventBufferSize = 16

// PipelineEvent describes a single opportunity stage change.
type PipelineEvent struct {
	OpportunityID uint      `json:"opportunity_id"`
	TenderID      uint      `json:"tender_id"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	Actor         uint      `json:"actor,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PipelineEventPublisher receives stage-change events from the pipeline.
type PipelineEventPublisher interface {
	PublishTransition(ctx context.Context, event PipelineEvent)
}

// PipelineEventService fans stage changes out to in-process subscribers (the
// activity feed) and, when connected, a NATS subject for other services.
type PipelineEventService interface {
	PipelineEventPublisher
	Subscribe() (<-chan PipelineEvent, func())
}

type pipelineEventService struct {
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger

	mu          sync.RWMutex
	subscribers map[chan PipelineEvent]struct{}
}

// NewPipelineEventService constructs the event fan-out. The NATS connection
// may be nil; local subscribers still receive events.
func NewPipelineEventService(natsConn *nats.Conn, subject string, logger zerolog.Logger) PipelineEventService {
	return &pipelineEventService{
		nats:        natsConn,
		natsSubject: subject,
		logger:      logger.With().Str("component", "pipeline_events").Logger(),
		subscribers: make(map[chan PipelineEvent]struct{}),
	}
}

func (s *pipelineEventService) PublishTransition(ctx context.Context, event PipelineEvent) {
	s.mu.RLock()
	for subscriber := range s.subscribers {
		select {
		case subscriber <- event:
		default:
			// A slow feed consumer must not stall the pipeline.
		}
	}
	s.mu.RUnlock()

	if s.nats == nil || s.natsSubject == "" {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode pipeline event")
		return
	}

	if err := s.nats.Publish(s.natsSubject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", s.natsSubject).Msg("failed to publish pipeline event")
	}
}

// Subscribe registers an in-process consumer. The returned cancel function
// must be called to release the channel.
func (s *pipelineEventService) Subscribe() (<-chan PipelineEvent, func()) {
	channel := make(chan PipelineEvent, pipelineEventBufferSize)

	s.mu.Lock()
	s.subscribers[channel] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[channel]; ok {
			delete(s.subscribers, channel)
			close(channel)
		}
		s.mu.Unlock()
	}

	return channel, cancel
}
