package verificationService

import (
	"VerifID/internal/api/verification"
	verificationRepository "VerifID/internal/api/verification/repository"
	"VerifID/internal/entity"
	broadcastPkg "VerifID/pkg/broadcast"
	"VerifID/pkg/log"
	redisPkg "VerifID/pkg/redis"
	"VerifID/pkg/utils"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

type mockRecords struct {
	mu      sync.Mutex
	records map[string]entity.VerificationRecord

	upsertFn func(ctx context.Context, record entity.VerificationRecord) error
}

func newMockRecords() *mockRecords {
	return &mockRecords{records: make(map[string]entity.VerificationRecord)}
}

func (m *mockRecords) UpsertRecord(ctx context.Context, record entity.VerificationRecord) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.SessionID] = record
	return nil
}

func (m *mockRecords) GetBySessionID(ctx context.Context, sessionID string) (entity.VerificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[sessionID]
	if !ok {
		return entity.VerificationRecord{}, verification.ErrNoRecordsYet
	}
	return record, nil
}

func (m *mockRecords) GetLatest(ctx context.Context) (entity.VerificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest entity.VerificationRecord
	found := false
	for _, record := range m.records {
		if !found || record.UpdatedAt.After(latest.UpdatedAt) {
			latest = record
			found = true
		}
	}
	if !found {
		return entity.VerificationRecord{}, verification.ErrNoRecordsYet
	}
	return latest, nil
}

type mockRepository struct {
	records *mockRecords
}

func (m *mockRepository) NewClient(tx bool) (verificationRepository.Client, error) {
	return verificationRepository.Client{
		Records:  m.records,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

type fakeHub struct {
	mu        sync.Mutex
	published []entity.Snapshot
}

func (f *fakeHub) Register(sub broadcastPkg.Subscriber) func() {
	return func() {}
}

func (f *fakeHub) Publish(snapshot entity.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, snapshot)
}

func (f *fakeHub) SubscriberCount() int { return 0 }

func (f *fakeHub) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeMailer) SendVerificationComplete(adminEmail, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sessionID)
	return nil
}

type testEnv struct {
	svc     VerificationService
	records *mockRecords
	hub     *fakeHub
	mailer  *fakeMailer
	store   redisPkg.IRedis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	mr := miniredis.RunT(t)
	store := redisPkg.NewWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	records := newMockRecords()
	hub := &fakeHub{}
	mailer := &fakeMailer{}

	svc := New(log.NewLogger(), &mockRepository{records: records}, store, hub, mailer, utils.New())

	return &testEnv{
		svc:     svc,
		records: records,
		hub:     hub,
		mailer:  mailer,
		store:   store,
	}
}

func (e *testEnv) newSession(t *testing.T) string {
	t.Helper()
	res, err := e.svc.Wizard().CreateSession(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if res.Step != entity.StepPersonal {
		t.Fatalf("new session step = %v, want %v", res.Step, entity.StepPersonal)
	}
	return res.SessionID
}

// advanceToVoice walks a fresh session through the three text steps with the
// expected values so it lands on the voice step.
func (e *testEnv) advanceToVoice(t *testing.T, id string) {
	t.Helper()
	ctx := context.Background()

	steps := []verification.AdvanceRequest{
		{SessionID: id, FirstName: "John", MiddleInitial: "D", LastName: "Doe"},
		{SessionID: id, LastFourDigits: "1234"},
		{SessionID: id, ZipCode: "12345"},
	}
	for i, req := range steps {
		res, err := e.svc.Wizard().Advance(ctx, req)
		if err != nil {
			t.Fatalf("advance step %d: %v", i+1, err)
		}
		if !res.Passed {
			t.Fatalf("advance step %d rejected: %+v", i+1, res)
		}
	}
}

func TestHappyPathThroughTextSteps(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t)
	ctx := context.Background()

	res, err := env.svc.Wizard().Advance(ctx, verification.AdvanceRequest{
		SessionID:     id,
		FirstName:     "John",
		MiddleInitial: "D",
		LastName:      "Doe",
	})
	if err != nil {
		t.Fatalf("advance step 1: %v", err)
	}
	if !res.Passed || res.Step != entity.StepCard {
		t.Fatalf("step 1 advance = %+v", res)
	}

	res, err = env.svc.Wizard().Advance(ctx, verification.AdvanceRequest{
		SessionID:      id,
		LastFourDigits: "1234",
	})
	if err != nil {
		t.Fatalf("advance step 2: %v", err)
	}
	if !res.Passed || res.Step != entity.StepZip {
		t.Fatalf("step 2 advance = %+v", res)
	}

	res, err = env.svc.Wizard().Advance(ctx, verification.AdvanceRequest{
		SessionID: id,
		ZipCode:   "12345",
	})
	if err != nil {
		t.Fatalf("advance step 3: %v", err)
	}
	if !res.Passed || res.Step != entity.StepVoice {
		t.Fatalf("step 3 advance = %+v", res)
	}

	if env.hub.count() != 3 {
		t.Errorf("expected 3 broadcasts, got %d", env.hub.count())
	}

	record, err := env.records.GetBySessionID(ctx, id)
	if err != nil {
		t.Fatalf("record missing after advances: %v", err)
	}
	if record.FirstName != "John" || record.ZipCode != "12345" {
		t.Errorf("persisted record = %+v", record)
	}
	if record.Completed {
		t.Error("record marked completed before finalize")
	}
}

func TestAdvanceRejectsInvalidFields(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t)
	ctx := context.Background()

	req := verification.AdvanceRequest{
		SessionID:     id,
		FirstName:     "Jane",
		MiddleInitial: "D",
		LastName:      "Doe",
	}

	res, err := env.svc.Wizard().Advance(ctx, req)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if res.Passed {
		t.Fatal("advance passed with invalid first name")
	}
	if res.Step != entity.StepPersonal {
		t.Errorf("step moved on invalid advance: %v", res.Step)
	}
	if _, marked := res.FieldErrors[entity.FieldFirstName]; !marked {
		t.Errorf("expected field marker for %s, got %v", entity.FieldFirstName, res.FieldErrors)
	}
	if _, marked := res.FieldErrors[entity.FieldLastName]; marked {
		t.Error("valid field carries an error marker")
	}

	// Same request again yields the same verdict and no movement.
	again, err := env.svc.Wizard().Advance(ctx, req)
	if err != nil {
		t.Fatalf("second advance: %v", err)
	}
	if again.Passed || again.Step != entity.StepPersonal {
		t.Errorf("second advance = %+v", again)
	}

	if env.hub.count() != 0 {
		t.Errorf("invalid advance broadcast %d times", env.hub.count())
	}
}

func TestAdvanceInFlightGuard(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t)

	impl := env.svc.Wizard().(*wizardDomainImpl)
	impl.inflight.Store(id, struct{}{})
	defer impl.inflight.Delete(id)

	_, err := env.svc.Wizard().Advance(context.Background(), verification.AdvanceRequest{
		SessionID: id,
		FirstName: "John",
	})
	if !errors.Is(err, verification.ErrSubmissionInFlight) {
		t.Fatalf("concurrent advance error = %v, want %v", err, verification.ErrSubmissionInFlight)
	}
}

func TestRetreat(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t)
	ctx := context.Background()

	// Retreat at the first step stays put.
	res, err := env.svc.Wizard().Retreat(ctx, verification.RetreatRequest{SessionID: id})
	if err != nil {
		t.Fatalf("retreat: %v", err)
	}
	if res.Step != entity.StepPersonal {
		t.Errorf("retreat below first step: %v", res.Step)
	}

	if _, err := env.svc.Wizard().Advance(ctx, verification.AdvanceRequest{
		SessionID: id, FirstName: "John", MiddleInitial: "D", LastName: "Doe",
	}); err != nil {
		t.Fatalf("advance: %v", err)
	}

	broadcastsBefore := env.hub.count()

	res, err = env.svc.Wizard().Retreat(ctx, verification.RetreatRequest{SessionID: id})
	if err != nil {
		t.Fatalf("retreat: %v", err)
	}
	if res.Step != entity.StepPersonal {
		t.Errorf("retreat step = %v, want %v", res.Step, entity.StepPersonal)
	}
	if env.hub.count() != broadcastsBefore {
		t.Error("retreat must not broadcast")
	}
}

func TestUpdateField(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t)
	ctx := context.Background()

	res, err := env.svc.Wizard().UpdateField(ctx, verification.UpdateFieldRequest{
		SessionID: id, Name: entity.FieldZipCode, Value: "12345",
	})
	if err != nil {
		t.Fatalf("update field: %v", err)
	}
	if res.Validity != entity.ValidityValid {
		t.Errorf("zip validity = %v, want valid", res.Validity)
	}

	res, err = env.svc.Wizard().UpdateField(ctx, verification.UpdateFieldRequest{
		SessionID: id, Name: entity.FieldZipCode, Value: "54321",
	})
	if err != nil {
		t.Fatalf("update field: %v", err)
	}
	if res.Validity != entity.ValidityInvalid {
		t.Errorf("wrong zip validity = %v, want invalid", res.Validity)
	}

	if _, err := env.svc.Wizard().UpdateField(ctx, verification.UpdateFieldRequest{
		SessionID: id, Name: entity.FieldZipCode, Value: "123456",
	}); !errors.Is(err, verification.ErrValueRejected) {
		t.Errorf("over-length zip error = %v, want %v", err, verification.ErrValueRejected)
	}

	if _, err := env.svc.Wizard().UpdateField(ctx, verification.UpdateFieldRequest{
		SessionID: id, Name: "favorite_color", Value: "blue",
	}); !errors.Is(err, verification.ErrUnknownField) {
		t.Errorf("unknown field error = %v, want %v", err, verification.ErrUnknownField)
	}
}

func TestFinalizePredicate(t *testing.T) {
	tests := []struct {
		name       string
		score      entity.VoiceScore
		wantResult string
	}{
		{"human and matching", entity.VoiceScore{IsHuman: true, IsMatch: true}, verification.ResultSuccess},
		{"human only", entity.VoiceScore{IsHuman: true, IsMatch: false}, verification.ResultFailure},
		{"matching only", entity.VoiceScore{IsHuman: false, IsMatch: true}, verification.ResultFailure},
		{"neither", entity.VoiceScore{}, verification.ResultFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			id := env.newSession(t)
			env.advanceToVoice(t, id)
			ctx := context.Background()

			if err := env.svc.Wizard().RecordVoiceResult(ctx, id, tt.score); err != nil {
				t.Fatalf("record voice result: %v", err)
			}

			res, err := env.svc.Wizard().Finalize(ctx, verification.FinalizeRequest{SessionID: id})
			if err != nil {
				t.Fatalf("finalize: %v", err)
			}
			if res.Result != tt.wantResult {
				t.Fatalf("finalize result = %q, want %q", res.Result, tt.wantResult)
			}

			_, err = env.store.GetSession(ctx, id)
			if tt.wantResult == verification.ResultSuccess {
				if !errors.Is(err, redisPkg.ErrSessionNotFound) {
					t.Error("session should be cleared after successful finalize")
				}
			} else {
				if err != nil {
					t.Errorf("session should survive a failed finalize: %v", err)
				}
			}
		})
	}
}

func TestFinalizeRequiresVoiceStep(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("ADMIN_NOTIFY_EMAIL", "admins@example.com")

	id := env.newSession(t)
	ctx := context.Background()

	// A passing voice score alone must not let a session skip the text steps.
	if err := env.svc.Wizard().RecordVoiceResult(ctx, id, entity.VoiceScore{IsHuman: true, IsMatch: true}); err != nil {
		t.Fatalf("record voice result: %v", err)
	}

	_, err := env.svc.Wizard().Finalize(ctx, verification.FinalizeRequest{SessionID: id})
	if !errors.Is(err, verification.ErrStepNotReached) {
		t.Fatalf("finalize at first step error = %v, want %v", err, verification.ErrStepNotReached)
	}

	record, err := env.records.GetBySessionID(ctx, id)
	if err != nil {
		t.Fatalf("record lookup: %v", err)
	}
	if record.Completed {
		t.Error("record marked completed without passing the text steps")
	}

	if _, err := env.store.GetSession(ctx, id); err != nil {
		t.Errorf("session should survive a rejected finalize: %v", err)
	}

	env.mailer.mu.Lock()
	defer env.mailer.mu.Unlock()
	if len(env.mailer.sent) != 0 {
		t.Errorf("admins notified on rejected finalize: %v", env.mailer.sent)
	}
}

func TestFinalizeSuccessNotifiesAdmins(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("ADMIN_NOTIFY_EMAIL", "admins@example.com")

	id := env.newSession(t)
	env.advanceToVoice(t, id)
	ctx := context.Background()

	if err := env.svc.Wizard().RecordVoiceResult(ctx, id, entity.VoiceScore{IsHuman: true, IsMatch: true}); err != nil {
		t.Fatalf("record voice result: %v", err)
	}

	if _, err := env.svc.Wizard().Finalize(ctx, verification.FinalizeRequest{SessionID: id}); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	env.mailer.mu.Lock()
	defer env.mailer.mu.Unlock()
	if len(env.mailer.sent) != 1 || env.mailer.sent[0] != id {
		t.Errorf("mailer calls = %v", env.mailer.sent)
	}

	record, err := env.records.GetBySessionID(ctx, id)
	if err != nil {
		t.Fatalf("record missing after finalize: %v", err)
	}
	if !record.Completed {
		t.Error("record not marked completed")
	}
}

func TestRecordCaptureResultsBroadcast(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t)
	ctx := context.Background()

	if err := env.svc.Wizard().RecordVoiceResult(ctx, id, entity.VoiceScore{IsHuman: true, IsMatch: true}); err != nil {
		t.Fatalf("record voice result: %v", err)
	}
	if err := env.svc.Wizard().RecordFaceResult(ctx, id, true); err != nil {
		t.Fatalf("record face result: %v", err)
	}

	if env.hub.count() != 2 {
		t.Fatalf("expected 2 broadcasts, got %d", env.hub.count())
	}

	last := env.hub.published[len(env.hub.published)-1]
	if !last.HumanVoice || !last.MatchingVoice || !last.MatchingFace {
		t.Errorf("snapshot booleans not carried: %+v", last)
	}
}

func TestAdvanceMissingSession(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Wizard().Advance(context.Background(), verification.AdvanceRequest{
		SessionID: "01HZXMISSING0000000000000",
	})
	if !errors.Is(err, verification.ErrSessionNotFound) {
		t.Fatalf("missing session error = %v, want %v", err, verification.ErrSessionNotFound)
	}
}
