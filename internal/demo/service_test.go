package demo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	records map[string]Record
	created []Record
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]Record{}}
}

func (f *fakeRepo) Create(ctx context.Context, rec Record) error {
	f.records[rec.ID] = rec
	f.created = append(f.created, rec)
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter, limit, skip int64) ([]Record, error) {
	items := make([]Record, 0, len(f.records))
	for _, rec := range f.records {
		items = append(items, rec)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Details.PreferredDate.Before(items[j].Details.PreferredDate)
	})
	if skip >= int64(len(items)) {
		return []Record{}, nil
	}
	items = items[skip:]
	if int64(len(items)) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *fakeRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return int64(len(f.records)), nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return Record{}, mongo.ErrNoDocuments
	}
	return rec, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id string, fields bson.M, now time.Time) (Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return Record{}, mongo.ErrNoDocuments
	}
	if v, ok := fields["status.current"]; ok {
		rec.Status.Current = v.(string)
	}
	if v, ok := fields["status.assignedTo"]; ok {
		rec.Status.AssignedTo = v.(string)
	}
	if v, ok := fields["status.calendarEventId"]; ok {
		rec.Status.CalendarEventID = v.(string)
	}
	if v, ok := fields["status.videoConferenceLink"]; ok {
		rec.Status.VideoConferenceLink = v.(string)
	}
	rec.Metadata.UpdatedAt = now
	f.records[id] = rec
	return rec, nil
}

func (f *fakeRepo) Reschedule(ctx context.Context, id string, date time.Time, slot string, now time.Time) (Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return Record{}, mongo.ErrNoDocuments
	}
	rec.Details.PreferredDate = date
	rec.Details.PreferredTime = slot
	rec.Status.Current = StatusRescheduled
	rec.Metadata.UpdatedAt = now
	f.records[id] = rec
	return rec, nil
}

func (f *fakeRepo) AppendNote(ctx context.Context, id string, note Note, now time.Time) (Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return Record{}, mongo.ErrNoDocuments
	}
	rec.FollowUp.Notes = append(rec.FollowUp.Notes, note)
	rec.Metadata.UpdatedAt = now
	f.records[id] = rec
	return rec, nil
}

func (f *fakeRepo) SetNotificationFlag(ctx context.Context, id, flag string, now time.Time) error {
	rec, ok := f.records[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	switch flag {
	case "confirmationSent":
		rec.Status.ConfirmationSent = true
	case "reminderSent":
		rec.Status.ReminderSent = true
	}
	f.records[id] = rec
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.records[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.records, id)
	return nil
}

type fakeStaff struct {
	summaries map[string]StaffSummary
	err       error
}

func (f *fakeStaff) StaffSummaries(ctx context.Context, ids []string) (map[string]StaffSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]StaffSummary{}
	for _, id := range ids {
		if s, ok := f.summaries[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

type fakeNotifier struct {
	confirmations int
	reschedules   int
	reminders     int
	err           error
}

func (f *fakeNotifier) EnqueueDemoConfirmation(ctx context.Context, rec Record) error {
	f.confirmations++
	return f.err
}

func (f *fakeNotifier) EnqueueDemoReschedule(ctx context.Context, rec Record) error {
	f.reschedules++
	return f.err
}

func (f *fakeNotifier) ScheduleDemoReminder(ctx context.Context, rec Record) error {
	f.reminders++
	return f.err
}

func newTestService(repo *fakeRepo) (*Service, *fakeNotifier) {
	notifier := &fakeNotifier{}
	svc := NewService(repo, &fakeStaff{}, notifier, time.UTC)
	return svc, notifier
}

func validCreateRequest() CreateRequest {
	return CreateRequest{
		FirstName:     "Ada",
		LastName:      "Okafor",
		Email:         "Ada.Okafor@Example.com",
		CompanyName:   "Brightline",
		Industry:      "saas",
		PreferredDate: "2026-09-15",
		PreferredTime: "14:30",
		DemoType:      TypePlatformOverview,
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	rec, err := svc.Create(context.Background(), validCreateRequest(), RequestMeta{IPAddress: "10.0.0.1"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if rec.Status.Current != StatusScheduled {
		t.Fatalf("expected status scheduled, got %s", rec.Status.Current)
	}
	if rec.Details.Duration != Duration30 {
		t.Fatalf("expected default duration %s, got %s", Duration30, rec.Details.Duration)
	}
	if rec.Requester.ContactInfo.CommunicationPreference != CommPrefEmail {
		t.Fatalf("expected default communication preference email, got %s", rec.Requester.ContactInfo.CommunicationPreference)
	}
	if rec.Metadata.Source != SourceWebsite {
		t.Fatalf("expected default source website, got %s", rec.Metadata.Source)
	}
	if rec.Requester.ContactInfo.Email != "ada.okafor@example.com" {
		t.Fatalf("expected lowercased email, got %s", rec.Requester.ContactInfo.Email)
	}
	if rec.Metadata.IPAddress != "10.0.0.1" {
		t.Fatalf("expected request ip to be captured, got %q", rec.Metadata.IPAddress)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 persisted record, got %d", len(repo.created))
	}
}

func TestCreateCustomTypeRequiresTopics(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	req := validCreateRequest()
	req.DemoType = TypeCustom
	req.CustomTopics = []string{"  ", ""}

	if _, err := svc.Create(context.Background(), req, RequestMeta{}); !errors.Is(err, ErrCustomTopicsRequired) {
		t.Fatalf("expected ErrCustomTopicsRequired, got %v", err)
	}
}

func TestCreateNonCustomTypeClearsTopics(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	req := validCreateRequest()
	req.CustomTopics = []string{"reporting", "attribution"}

	rec, err := svc.Create(context.Background(), req, RequestMeta{})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(rec.Details.CustomTopics) != 0 {
		t.Fatalf("expected topics cleared for non-custom type, got %v", rec.Details.CustomTopics)
	}
}

func TestCreateInvalidType(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	req := validCreateRequest()
	req.DemoType = "walkthrough"

	if _, err := svc.Create(context.Background(), req, RequestMeta{}); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestCreateInvalidDate(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	req := validCreateRequest()
	req.PreferredDate = "15/09/2026"

	if _, err := svc.Create(context.Background(), req, RequestMeta{}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestTransitionStatusAnyToAny(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	rec, err := svc.Create(context.Background(), validCreateRequest(), RequestMeta{})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Completed demos can be reopened, so every hop here must succeed.
	hops := []string{StatusCompleted, StatusScheduled, StatusCanceled, StatusConfirmed, StatusNoShow, StatusRescheduled}
	for _, next := range hops {
		updated, err := svc.TransitionStatus(context.Background(), rec.ID, StatusUpdateRequest{Status: next}, "staff-1")
		if err != nil {
			t.Fatalf("TransitionStatus to %s error: %v", next, err)
		}
		if updated.Status.Current != next {
			t.Fatalf("expected status %s, got %s", next, updated.Status.Current)
		}
	}
}

func TestTransitionStatusInvalidValue(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	rec, _ := svc.Create(context.Background(), validCreateRequest(), RequestMeta{})

	if _, err := svc.TransitionStatus(context.Background(), rec.ID, StatusUpdateRequest{Status: "archived"}, ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestTransitionStatusAppendsNote(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	rec, _ := svc.Create(context.Background(), validCreateRequest(), RequestMeta{})

	updated, err := svc.TransitionStatus(context.Background(), rec.ID, StatusUpdateRequest{
		Status:     StatusConfirmed,
		AssignedTo: "staff-1",
		Notes:      "confirmed by phone",
	}, "staff-1")
	if err != nil {
		t.Fatalf("TransitionStatus error: %v", err)
	}
	if updated.Status.AssignedTo != "staff-1" {
		t.Fatalf("expected assignedTo staff-1, got %s", updated.Status.AssignedTo)
	}
	if len(updated.FollowUp.Notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(updated.FollowUp.Notes))
	}
	if updated.FollowUp.Notes[0].Author != "staff-1" {
		t.Fatalf("expected note author staff-1, got %s", updated.FollowUp.Notes[0].Author)
	}
}

func TestTransitionStatusNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	if _, err := svc.TransitionStatus(context.Background(), "missing", StatusUpdateRequest{Status: StatusConfirmed}, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRescheduleForcesStatusAndUpdatesSchedule(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	rec, _ := svc.Create(context.Background(), validCreateRequest(), RequestMeta{})

	updated, err := svc.Reschedule(context.Background(), rec.ID, RescheduleRequest{
		PreferredDate: "2026-09-22",
		PreferredTime: "10:00",
		Reason:        "requester conflict",
	}, "staff-2")
	if err != nil {
		t.Fatalf("Reschedule error: %v", err)
	}

	if updated.Status.Current != StatusRescheduled {
		t.Fatalf("expected status rescheduled, got %s", updated.Status.Current)
	}
	if updated.Details.PreferredDate.Format("2006-01-02") != "2026-09-22" {
		t.Fatalf("expected new date 2026-09-22, got %s", updated.Details.PreferredDate.Format("2006-01-02"))
	}
	if updated.Details.PreferredTime != "10:00" {
		t.Fatalf("expected new time 10:00, got %s", updated.Details.PreferredTime)
	}
	if len(updated.FollowUp.Notes) != 1 || updated.FollowUp.Notes[0].Content != "Demo rescheduled: requester conflict" {
		t.Fatalf("expected reschedule note, got %v", updated.FollowUp.Notes)
	}
}

func TestRescheduleMissingSchedule(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	rec, _ := svc.Create(context.Background(), validCreateRequest(), RequestMeta{})

	if _, err := svc.Reschedule(context.Background(), rec.ID, RescheduleRequest{PreferredDate: "2026-09-22"}, ""); !errors.Is(err, ErrMissingSchedule) {
		t.Fatalf("expected ErrMissingSchedule, got %v", err)
	}
	if _, err := svc.Reschedule(context.Background(), rec.ID, RescheduleRequest{PreferredTime: "10:00"}, ""); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestAddNote(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	rec, _ := svc.Create(context.Background(), validCreateRequest(), RequestMeta{})

	if _, err := svc.AddNote(context.Background(), rec.ID, "   ", "staff-1"); !errors.Is(err, ErrEmptyNote) {
		t.Fatalf("expected ErrEmptyNote, got %v", err)
	}

	updated, err := svc.AddNote(context.Background(), rec.ID, "asked for pricing deck", "staff-1")
	if err != nil {
		t.Fatalf("AddNote error: %v", err)
	}
	if len(updated.FollowUp.Notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(updated.FollowUp.Notes))
	}
	if updated.FollowUp.Notes[0].CreatedAt.IsZero() {
		t.Fatalf("expected note timestamp to be set")
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListRejectsInvalidFilters(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	if _, _, err := svc.List(context.Background(), ListFilter{Status: "archived"}, 1, 10); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, _, err := svc.List(context.Background(), ListFilter{DemoType: "walkthrough"}, 1, 10); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestListResolvesAssignedStaff(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	staff := &fakeStaff{summaries: map[string]StaffSummary{
		"staff-1": {ID: "staff-1", Name: "Jordan Lee", Email: "jordan@example.com"},
	}}
	svc := NewService(repo, staff, notifier, time.UTC)

	rec, _ := svc.Create(context.Background(), validCreateRequest(), RequestMeta{})
	if _, err := svc.TransitionStatus(context.Background(), rec.ID, StatusUpdateRequest{Status: StatusConfirmed, AssignedTo: "staff-1"}, ""); err != nil {
		t.Fatalf("TransitionStatus error: %v", err)
	}

	items, total, err := svc.List(context.Background(), ListFilter{}, 1, 10)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 record, got total=%d len=%d", total, len(items))
	}
	if items[0].AssignedStaff == nil || items[0].AssignedStaff.Name != "Jordan Lee" {
		t.Fatalf("expected resolved staff summary, got %+v", items[0].AssignedStaff)
	}
}

func TestListSurvivesStaffDirectoryFailure(t *testing.T) {
	repo := newFakeRepo()
	staff := &fakeStaff{err: errors.New("directory down")}
	svc := NewService(repo, staff, &fakeNotifier{}, time.UTC)

	rec, _ := svc.Create(context.Background(), validCreateRequest(), RequestMeta{})
	if _, err := svc.TransitionStatus(context.Background(), rec.ID, StatusUpdateRequest{Status: StatusConfirmed, AssignedTo: "staff-1"}, ""); err != nil {
		t.Fatalf("TransitionStatus error: %v", err)
	}

	items, _, err := svc.List(context.Background(), ListFilter{}, 1, 10)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if items[0].AssignedStaff != nil {
		t.Fatalf("expected nil staff summary on directory failure")
	}
}

func TestListPaginatesInScheduleOrder(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	for day := 5; day >= 1; day-- {
		req := validCreateRequest()
		req.Email = fmt.Sprintf("requester-%d@example.com", day)
		req.PreferredDate = fmt.Sprintf("2026-09-0%d", day)
		if _, err := svc.Create(context.Background(), req, RequestMeta{}); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	var all []Record
	for page := int64(1); page <= 3; page++ {
		items, total, err := svc.List(context.Background(), ListFilter{}, page, 2)
		if err != nil {
			t.Fatalf("List page %d error: %v", page, err)
		}
		if total != 5 {
			t.Fatalf("expected total 5, got %d", total)
		}
		all = append(all, items...)
	}

	if len(all) != 5 {
		t.Fatalf("expected 5 records across pages, got %d", len(all))
	}
	seen := map[string]struct{}{}
	for i, rec := range all {
		if _, dup := seen[rec.ID]; dup {
			t.Fatalf("record %s returned on more than one page", rec.ID)
		}
		seen[rec.ID] = struct{}{}
		if i > 0 && all[i].Details.PreferredDate.Before(all[i-1].Details.PreferredDate) {
			t.Fatalf("records out of schedule order at index %d", i)
		}
	}
}

func TestNotifyCreatedEnqueuesConfirmationAndReminder(t *testing.T) {
	repo := newFakeRepo()
	svc, notifier := newTestService(repo)

	rec, _ := svc.Create(context.Background(), validCreateRequest(), RequestMeta{})

	if err := svc.NotifyCreated(context.Background(), rec); err != nil {
		t.Fatalf("NotifyCreated error: %v", err)
	}
	if notifier.confirmations != 1 || notifier.reminders != 1 {
		t.Fatalf("expected 1 confirmation and 1 reminder, got %d and %d", notifier.confirmations, notifier.reminders)
	}
}

func TestNotifierFailureDoesNotTouchRecord(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{err: errors.New("queue down")}
	svc := NewService(repo, &fakeStaff{}, notifier, time.UTC)

	rec, err := svc.Create(context.Background(), validCreateRequest(), RequestMeta{})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := svc.NotifyCreated(context.Background(), rec); err == nil {
		t.Fatalf("expected enqueue error")
	}
	if _, err := svc.GetByID(context.Background(), rec.ID); err != nil {
		t.Fatalf("record should still exist after enqueue failure: %v", err)
	}
}
