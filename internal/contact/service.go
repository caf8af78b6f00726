package contact

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"marketingai-backend/internal/cache"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound        = errors.New("contact message not found")
	ErrInfoNotFound    = errors.New("contact info not found")
	ErrInvalidStatus   = errors.New("invalid message status")
	ErrInvalidPriority = errors.New("invalid message priority")
	ErrEmptyUpdate     = errors.New("nothing to update")
)

const infoCacheKey = "contact:info:active"

// Notifier enqueues the auto-reply email after a successful submission.
type Notifier interface {
	EnqueueContactReply(ctx context.Context, email, name string) error
}

type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type Service struct {
	repo     Repository
	store    cache.Cache
	notifier Notifier
	cacheTTL time.Duration
}

func NewService(repo Repository, store cache.Cache, notifier Notifier, cacheTTL time.Duration) *Service {
	if store == nil {
		store = cache.NewNoop()
	}
	return &Service{
		repo:     repo,
		store:    store,
		notifier: notifier,
		cacheTTL: cacheTTL,
	}
}

func (s *Service) Submit(ctx context.Context, req SubmitRequest, meta RequestMeta) (Message, error) {
	now := time.Now().UTC()

	msg := Message{
		ID:          primitive.NewObjectID().Hex(),
		FullName:    strings.TrimSpace(req.FullName),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Company:     strings.TrimSpace(req.Company),
		Phone:       strings.TrimSpace(req.Phone),
		Subject:     strings.TrimSpace(req.Subject),
		Body:        strings.TrimSpace(req.Message),
		ServiceType: req.ServiceType,
		Budget:      req.Budget,
		Timeline:    req.Timeline,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		Source:      "website",
		Status:      StatusNew,
		Metadata: MessageMetadata{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if msg.ServiceType == "" {
		msg.ServiceType = "general"
	}
	msg.Metadata.SpamScore = SpamScore(msg.Body)
	msg.Priority = DerivePriority(msg.ServiceType, msg.Budget, msg.Timeline)

	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// NotifySubmitted enqueues the auto-reply. Called fire-and-forget from the
// handler, so failures only propagate to the log.
func (s *Service) NotifySubmitted(ctx context.Context, msg Message) error {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.EnqueueContactReply(ctx, msg.Email, msg.FullName)
}

func (s *Service) ListMessages(ctx context.Context, filter ListFilter, page, limit int64) ([]Message, int64, error) {
	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}
	if filter.Priority != "" && !IsValidPriority(filter.Priority) {
		return nil, 0, ErrInvalidPriority
	}

	skip := (page - 1) * limit
	items, err := s.repo.ListMessages(ctx, filter, limit, skip)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountMessages(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) UpdateMessage(ctx context.Context, id string, req UpdateRequest) (Message, error) {
	if req.Status == "" && req.Priority == "" {
		return Message{}, ErrEmptyUpdate
	}
	if req.Status != "" && !IsValidStatus(req.Status) {
		return Message{}, ErrInvalidStatus
	}
	if req.Priority != "" && !IsValidPriority(req.Priority) {
		return Message{}, ErrInvalidPriority
	}

	current, err := s.repo.GetMessage(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Message{}, ErrNotFound
		}
		return Message{}, err
	}

	now := time.Now().UTC()
	set := bson.M{}
	if req.Status != "" {
		set["status"] = req.Status
		if req.Status == StatusRead && current.Status == StatusNew {
			set["readAt"] = now
		}
		if req.Status == StatusReplied && current.Status != StatusReplied {
			set["repliedAt"] = now
		}
	}
	if req.Priority != "" {
		set["priority"] = req.Priority
	}

	updated, err := s.repo.UpdateMessage(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Message{}, ErrNotFound
		}
		return Message{}, err
	}
	return updated, nil
}

// GetInfo returns the active contact card, served from cache when warm.
func (s *Service) GetInfo(ctx context.Context) (Info, error) {
	if raw, ok, err := s.store.Get(ctx, infoCacheKey); err == nil && ok {
		var info Info
		if err := json.Unmarshal(raw, &info); err == nil {
			return info, nil
		}
	}

	info, err := s.repo.ActiveInfo(ctx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Info{}, ErrInfoNotFound
		}
		return Info{}, err
	}

	if raw, err := json.Marshal(info); err == nil {
		_ = s.store.Set(ctx, infoCacheKey, raw, s.cacheTTL)
	}
	return info, nil
}

// SpamScore is a coarse heuristic: links in the body and very short
// messages both raise the score.
func SpamScore(body string) int {
	score := 0
	if strings.Contains(body, "http://") || strings.Contains(body, "https://") {
		score += 20
	}
	if len(body) < 20 {
		score += 10
	}
	return score
}

// DerivePriority ranks an enquiry from its commercial signals. Strategy
// engagements and six-figure budgets outrank an asap timeline.
func DerivePriority(serviceType, budget, timeline string) string {
	if serviceType == "ai-strategy" || budget == "100k-plus" {
		return PriorityHigh
	}
	if timeline == "asap" {
		return PriorityUrgent
	}
	return PriorityMedium
}
