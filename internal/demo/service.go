package demo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidType          = errors.New("invalid demo type")
	ErrInvalidDate          = errors.New("invalid preferred date")
	ErrMissingSchedule      = errors.New("preferred date and time are required")
	ErrCustomTopicsRequired = errors.New("custom demo requires at least one custom topic")
	ErrEmptyNote            = errors.New("note content is required")
	ErrNotFound             = errors.New("demo request not found")
)

// Notifier hands outbound email work to the notification queue. Failures
// are the caller's to log; they never roll back a persisted mutation.
type Notifier interface {
	EnqueueDemoConfirmation(ctx context.Context, rec Record) error
	EnqueueDemoReschedule(ctx context.Context, rec Record) error
	ScheduleDemoReminder(ctx context.Context, rec Record) error
}

// StaffDirectory resolves staff user ids to display summaries. Unknown ids
// are simply absent from the result, never an error.
type StaffDirectory interface {
	StaffSummaries(ctx context.Context, ids []string) (map[string]StaffSummary, error)
}

// RequestMeta carries the transport-level context of an inbound request.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type Service struct {
	repo     Repository
	staff    StaffDirectory
	notifier Notifier
	location *time.Location
}

func NewService(repo Repository, staff StaffDirectory, notifier Notifier, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		staff:    staff,
		notifier: notifier,
		location: location,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest, meta RequestMeta) (Record, error) {
	demoType := strings.TrimSpace(req.DemoType)
	if !IsValidType(demoType) {
		return Record{}, ErrInvalidType
	}

	topics := normalizeList(req.CustomTopics)
	if demoType == TypeCustom && len(topics) == 0 {
		return Record{}, ErrCustomTopicsRequired
	}
	if demoType != TypeCustom {
		topics = []string{}
	}

	preferredDate, err := s.parseDate(req.PreferredDate)
	if err != nil {
		return Record{}, ErrInvalidDate
	}
	if strings.TrimSpace(req.PreferredTime) == "" {
		return Record{}, ErrMissingSchedule
	}

	duration := req.Duration
	if duration == "" {
		duration = Duration30
	}
	if !IsValidDuration(duration) {
		return Record{}, ErrInvalidType
	}

	commPref := req.CommunicationPreference
	if commPref == "" {
		commPref = CommPrefEmail
	}
	source := req.Source
	if source == "" {
		source = SourceWebsite
	}
	if !IsValidSource(source) {
		return Record{}, ErrInvalidType
	}

	attendees := make([]Attendee, 0, len(req.Attendees))
	for _, a := range req.Attendees {
		attendees = append(attendees, Attendee{
			Name:  strings.TrimSpace(a.Name),
			Email: strings.TrimSpace(a.Email),
			Role:  strings.TrimSpace(a.Role),
		})
	}

	now := time.Now().In(s.location)
	rec := Record{
		ID: primitive.NewObjectID().Hex(),
		Requester: Requester{
			PersonalInfo: PersonalInfo{
				FirstName:         strings.TrimSpace(req.FirstName),
				LastName:          strings.TrimSpace(req.LastName),
				JobTitle:          strings.TrimSpace(req.JobTitle),
				Timezone:          strings.TrimSpace(req.Timezone),
				PreferredLanguage: "en",
			},
			ContactInfo: ContactInfo{
				Email:                   strings.ToLower(strings.TrimSpace(req.Email)),
				Phone:                   strings.TrimSpace(req.Phone),
				CommunicationPreference: commPref,
			},
		},
		Company: Company{
			Name:              strings.TrimSpace(req.CompanyName),
			Website:           strings.TrimSpace(req.Website),
			Industry:          req.Industry,
			Size:              req.CompanySize,
			MarketingTeamSize: req.MarketingTeamSize,
		},
		Details: Details{
			PreferredDate:       preferredDate,
			PreferredTime:       strings.TrimSpace(req.PreferredTime),
			Duration:            duration,
			DemoType:            demoType,
			CustomTopics:        topics,
			Attendees:           attendees,
			SpecialRequirements: strings.TrimSpace(req.SpecialRequirements),
		},
		MarketingContext: MarketingContext{
			CurrentChallenges: normalizeList(req.CurrentChallenges),
			CurrentTools:      normalizeList(req.CurrentTools),
			MonthlyAdBudget:   req.MonthlyAdBudget,
			DesiredFeatures:   normalizeList(req.DesiredFeatures),
		},
		Status: Status{
			Current: StatusScheduled,
		},
		FollowUp: FollowUp{
			Notes:     []Note{},
			NextSteps: []NextStep{},
		},
		Metadata: Metadata{
			Source:        source,
			UTMParameters: req.UTMParameters,
			IPAddress:     meta.IPAddress,
			UserAgent:     meta.UserAgent,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return Record{}, err
	}

	return rec, nil
}

// TransitionStatus moves a record to any of the six states. There is no
// transition table on purpose: the sales team re-opens completed and
// canceled demos, so every state stays reachable from every other.
func (s *Service) TransitionStatus(ctx context.Context, id string, req StatusUpdateRequest, actorID string) (Record, error) {
	id = strings.TrimSpace(id)
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !IsValidStatus(status) {
		return Record{}, ErrInvalidStatus
	}

	fields := bson.M{"status.current": status}
	if v := strings.TrimSpace(req.AssignedTo); v != "" {
		fields["status.assignedTo"] = v
	}
	if v := strings.TrimSpace(req.CalendarEventID); v != "" {
		fields["status.calendarEventId"] = v
	}
	if v := strings.TrimSpace(req.VideoConferenceLink); v != "" {
		fields["status.videoConferenceLink"] = v
	}

	now := time.Now().In(s.location)
	updated, err := s.repo.UpdateStatus(ctx, id, fields, now)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}

	if note := strings.TrimSpace(req.Notes); note != "" {
		updated, err = s.repo.AppendNote(ctx, id, Note{
			Content:   note,
			Author:    actorID,
			CreatedAt: now,
		}, now)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return Record{}, ErrNotFound
			}
			return Record{}, err
		}
	}

	return updated, nil
}

func (s *Service) Reschedule(ctx context.Context, id string, req RescheduleRequest, actorID string) (Record, error) {
	id = strings.TrimSpace(id)
	newDate, err := s.parseDate(req.PreferredDate)
	if err != nil {
		return Record{}, ErrInvalidDate
	}
	slot := strings.TrimSpace(req.PreferredTime)
	if slot == "" {
		return Record{}, ErrMissingSchedule
	}

	now := time.Now().In(s.location)
	updated, err := s.repo.Reschedule(ctx, id, newDate, slot, now)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}

	if reason := strings.TrimSpace(req.Reason); reason != "" {
		updated, err = s.repo.AppendNote(ctx, id, Note{
			Content:   "Demo rescheduled: " + reason,
			Author:    actorID,
			CreatedAt: now,
		}, now)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return Record{}, ErrNotFound
			}
			return Record{}, err
		}
	}

	return updated, nil
}

func (s *Service) AddNote(ctx context.Context, id, content, actorID string) (Record, error) {
	id = strings.TrimSpace(id)
	content = strings.TrimSpace(content)
	if content == "" {
		return Record{}, ErrEmptyNote
	}

	now := time.Now().In(s.location)
	updated, err := s.repo.AppendNote(ctx, id, Note{
		Content:   content,
		Author:    actorID,
		CreatedAt: now,
	}, now)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, page, limit int64) ([]Record, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	filter.Industry = strings.ToLower(strings.TrimSpace(filter.Industry))
	filter.DemoType = strings.ToLower(strings.TrimSpace(filter.DemoType))

	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}
	if filter.DemoType != "" && !IsValidType(filter.DemoType) {
		return nil, 0, ErrInvalidType
	}

	skip := (page - 1) * limit
	items, err := s.repo.List(ctx, filter, limit, skip)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	s.resolveStaff(ctx, items)
	return items, total, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Record, error) {
	rec, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}

	items := []Record{rec}
	s.resolveStaff(ctx, items)
	s.resolveNoteAuthors(ctx, &items[0])
	return items[0], nil
}

func (s *Service) resolveNoteAuthors(ctx context.Context, rec *Record) {
	if s.staff == nil || len(rec.FollowUp.Notes) == 0 {
		return
	}

	ids := make([]string, 0, len(rec.FollowUp.Notes))
	seen := make(map[string]struct{})
	for _, note := range rec.FollowUp.Notes {
		if note.Author == "" {
			continue
		}
		if _, ok := seen[note.Author]; !ok {
			seen[note.Author] = struct{}{}
			ids = append(ids, note.Author)
		}
	}
	if len(ids) == 0 {
		return
	}

	summaries, err := s.staff.StaffSummaries(ctx, ids)
	if err != nil {
		return
	}
	for i := range rec.FollowUp.Notes {
		if summary, ok := summaries[rec.FollowUp.Notes[i].Author]; ok {
			rec.FollowUp.Notes[i].AuthorName = summary.Name
		}
	}
}

// resolveStaff attaches staff summaries for assignedTo references.
// Resolution is best-effort: a directory failure or an unknown id leaves
// the summary nil rather than failing the read.
func (s *Service) resolveStaff(ctx context.Context, items []Record) {
	if s.staff == nil {
		return
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{})
	for i := range items {
		if id := items[i].Status.AssignedTo; id != "" {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return
	}

	summaries, err := s.staff.StaffSummaries(ctx, ids)
	if err != nil {
		return
	}
	for i := range items {
		if summary, ok := summaries[items[i].Status.AssignedTo]; ok {
			summaryCopy := summary
			items[i].AssignedStaff = &summaryCopy
		}
	}
}

func (s *Service) NotifyCreated(ctx context.Context, rec Record) error {
	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.EnqueueDemoConfirmation(ctx, rec); err != nil {
		return err
	}
	return s.notifier.ScheduleDemoReminder(ctx, rec)
}

func (s *Service) NotifyRescheduled(ctx context.Context, rec Record) error {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.EnqueueDemoReschedule(ctx, rec)
}

func (s *Service) parseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", strings.TrimSpace(value), s.location)
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
