package lifecycle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tapbuddy/internal/util"
	"tapbuddy/pkg/domain"
	"tapbuddy/pkg/queue"
	"tapbuddy/pkg/store"
)

type fakeScheduler struct {
	enqueued []string
	err      error
}

func (f *fakeScheduler) Enqueue(_ context.Context, requestID string, _ domain.Channel) (queue.JobStatus, error) {
	if f.err != nil {
		return queue.JobStatus{}, f.err
	}
	f.enqueued = append(f.enqueued, requestID)
	return queue.JobStatus{ID: util.NewID(), RequestID: requestID}, nil
}

type fakeContent struct {
	err error
}

func (f *fakeContent) Generate(_ context.Context, subject, topic, level, _ string) (domain.Content, error) {
	if f.err != nil {
		return domain.Content{}, f.err
	}
	return domain.Content{
		Title:       topic + " Explained",
		Description: "About " + topic,
		Script:      "Welcome to " + topic + ".",
		KeyPoints:   []domain.KeyPoint{{Point: "p1"}},
		Scenes:      []domain.Scene{{Description: "intro", Narration: "hi", DurationSeconds: 30}},
	}, nil
}

type fakeSpeech struct {
	dir string
	err error
}

func (f *fakeSpeech) Synthesize(_ context.Context, script string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(f.dir, "audio.mp3")
	return path, os.WriteFile(path, []byte(script), 0o644)
}

type fakeVideo struct {
	dir string
	err error
}

func (f *fakeVideo) Render(_ context.Context, _ domain.Content, _, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(f.dir, "video.mp4")
	return path, os.WriteFile(path, []byte("frames"), 0o644)
}

type fakeUploader struct {
	err error
}

func (f *fakeUploader) UploadFile(_ context.Context, _, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.googleapis.com/test-bucket/" + key, nil
}

type recordingNotifier struct {
	sent []domain.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n domain.Notification) {
	r.sent = append(r.sent, n)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewGormStore("file:" + util.NewID() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func newOrchestrator(t *testing.T, s store.Store, sched *fakeScheduler, n Notifier) *Orchestrator {
	t.Helper()
	dir := t.TempDir()
	return New(Config{
		Store:     s,
		Scheduler: sched,
		Content:   &fakeContent{},
		Speech:    &fakeSpeech{dir: dir},
		Video:     &fakeVideo{dir: dir},
		Uploader:  &fakeUploader{},
		Notifier:  n,
	})
}

func TestSubmitParsesMessageAndEnqueues(t *testing.T) {
	s := newTestStore(t)
	sched := &fakeScheduler{}
	notifier := &recordingNotifier{}
	o := newOrchestrator(t, s, sched, notifier)

	request, err := o.Submit(context.Background(), SubmitInput{
		Phone:   "+1 (202) 555-0123",
		Message: "#Science #Photosynthesis #Beginner how plants make food",
		Channel: domain.ChannelWhatsApp,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if request.Subject != "Science" || request.Topic != "Photosynthesis" || request.Level != "Beginner" {
		t.Fatalf("parsed request = %+v", request)
	}
	if request.Status != domain.StatusPending {
		t.Fatalf("status = %q", request.Status)
	}

	if len(sched.enqueued) != 1 || sched.enqueued[0] != request.ID {
		t.Fatalf("enqueued = %v", sched.enqueued)
	}

	user, ok, err := s.GetUserByPhone("+12025550123")
	if err != nil || !ok {
		t.Fatalf("user not created: ok=%v err=%v", ok, err)
	}
	if !user.IsActive {
		t.Fatal("expected active user")
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("notifications = %d", len(notifier.sent))
	}
	if !strings.Contains(notifier.sent[0].Body, "Thanks for your request!") {
		t.Fatalf("ack body = %q", notifier.sent[0].Body)
	}
	if !strings.Contains(notifier.sent[0].Body, "'Photosynthesis'") {
		t.Fatalf("ack body = %q", notifier.sent[0].Body)
	}
}

func TestSubmitInvalidPhone(t *testing.T) {
	o := newOrchestrator(t, newTestStore(t), &fakeScheduler{}, &recordingNotifier{})

	_, err := o.Submit(context.Background(), SubmitInput{Phone: "12345678", Message: "draw a sunset"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSubmitEnqueueFailureLeavesPending(t *testing.T) {
	s := newTestStore(t)
	sched := &fakeScheduler{err: errors.New("redis down")}
	o := newOrchestrator(t, s, sched, &recordingNotifier{})

	request, err := o.Submit(context.Background(), SubmitInput{
		Phone:   "+12025550123",
		Message: "teach me to draw a sunset",
	})
	var serr *domain.SchedulingError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SchedulingError, got %v", err)
	}

	got, ok, err := s.GetRequest(request.ID)
	if err != nil || !ok {
		t.Fatalf("request not persisted: ok=%v err=%v", ok, err)
	}
	if got.Status != domain.StatusPending {
		t.Fatalf("status = %q, want pending", got.Status)
	}
}

func TestSubmitExplicitFieldsSkipParsing(t *testing.T) {
	s := newTestStore(t)
	o := newOrchestrator(t, s, &fakeScheduler{}, &recordingNotifier{})

	request, err := o.Submit(context.Background(), SubmitInput{
		Phone:   "+12025550123",
		Subject: "Coding",
		Topic:   "Loops",
		Level:   "Intermediate",
		Metadata: map[string]any{
			"message_type":      "sms",
			"source":            "web_interface",
			"enhanced_features": true,
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if request.Subject != "Coding" || request.Topic != "Loops" || request.Level != "Intermediate" {
		t.Fatalf("request = %+v", request)
	}
	if !request.IsEnhanced() {
		t.Fatal("expected enhanced request")
	}
	if request.MessageType(domain.ChannelWhatsApp) != domain.ChannelSMS {
		t.Fatalf("message type = %q", request.MessageType(domain.ChannelWhatsApp))
	}
}

func submitPending(t *testing.T, o *Orchestrator) domain.VideoRequest {
	t.Helper()
	request, err := o.Submit(context.Background(), SubmitInput{
		Phone:   "+12025550123",
		Message: "#Science #Photosynthesis #Beginner how plants make food",
		Channel: domain.ChannelWhatsApp,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return request
}

func TestProcessCompletesRequest(t *testing.T) {
	s := newTestStore(t)
	notifier := &recordingNotifier{}
	o := newOrchestrator(t, s, &fakeScheduler{}, notifier)
	request := submitPending(t, o)
	notifier.sent = nil

	if err := o.Process(context.Background(), request.ID); err != nil {
		t.Fatalf("process: %v", err)
	}

	got, _, _ := s.GetRequest(request.ID)
	if got.Status != domain.StatusCompleted {
		t.Fatalf("status = %q", got.Status)
	}
	if got.CompletedAt == nil {
		t.Fatal("completed_at not set")
	}

	video, ok, err := s.GetVideoByRequest(request.ID)
	if err != nil || !ok {
		t.Fatalf("video not recorded: ok=%v err=%v", ok, err)
	}
	if !strings.HasPrefix(video.StorageURL, "https://storage.googleapis.com/test-bucket/videos/"+request.ID+"/") {
		t.Fatalf("storage url = %q", video.StorageURL)
	}
	if video.Duration != 30 {
		t.Fatalf("duration = %d", video.Duration)
	}

	if len(notifier.sent) != 2 {
		t.Fatalf("notifications = %d", len(notifier.sent))
	}
	if !strings.Contains(notifier.sent[0].Body, "We're working on your video") {
		t.Fatalf("progress body = %q", notifier.sent[0].Body)
	}
	if !strings.Contains(notifier.sent[1].Body, "is ready! Watch it here:") {
		t.Fatalf("success body = %q", notifier.sent[1].Body)
	}
}

func TestProcessFailureMarksFailedAndNotifies(t *testing.T) {
	s := newTestStore(t)
	notifier := &recordingNotifier{}
	dir := t.TempDir()
	o := New(Config{
		Store:     s,
		Scheduler: &fakeScheduler{},
		Content:   &fakeContent{err: &domain.GenerationError{Stage: "content", Err: errors.New("bad json")}},
		Speech:    &fakeSpeech{dir: dir},
		Video:     &fakeVideo{dir: dir},
		Uploader:  &fakeUploader{},
		Notifier:  notifier,
	})
	request := submitPending(t, o)
	notifier.sent = nil

	if err := o.Process(context.Background(), request.ID); err == nil {
		t.Fatal("expected process error")
	}

	got, _, _ := s.GetRequest(request.ID)
	if got.Status != domain.StatusFailed {
		t.Fatalf("status = %q", got.Status)
	}
	if got.CompletedAt == nil {
		t.Fatal("completed_at not set on failure")
	}

	last := notifier.sent[len(notifier.sent)-1]
	if !strings.Contains(last.Body, "We encountered an issue") {
		t.Fatalf("failure body = %q", last.Body)
	}
}

func TestProcessSkipsNonPending(t *testing.T) {
	s := newTestStore(t)
	notifier := &recordingNotifier{}
	o := newOrchestrator(t, s, &fakeScheduler{}, notifier)
	request := submitPending(t, o)

	if err := o.Process(context.Background(), request.ID); err != nil {
		t.Fatalf("first process: %v", err)
	}
	notifier.sent = nil

	// redelivery of the same job must be a no-op
	if err := o.Process(context.Background(), request.ID); err != nil {
		t.Fatalf("second process: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("expected no notifications on redelivery, got %d", len(notifier.sent))
	}
}

func TestProcessMissingRequestIsNoop(t *testing.T) {
	o := newOrchestrator(t, newTestStore(t), &fakeScheduler{}, &recordingNotifier{})
	if err := o.Process(context.Background(), "does-not-exist"); err != nil {
		t.Fatalf("process missing: %v", err)
	}
}

func TestProcessTimeoutFailsRequest(t *testing.T) {
	s := newTestStore(t)
	dir := t.TempDir()
	o := New(Config{
		Store:     s,
		Scheduler: &fakeScheduler{},
		Content:   &slowContent{delay: 50 * time.Millisecond},
		Speech:    &fakeSpeech{dir: dir},
		Video:     &fakeVideo{dir: dir},
		Uploader:  &fakeUploader{},
		Notifier:  &recordingNotifier{},
		Timeout:   time.Millisecond,
	})
	request := submitPending(t, o)

	if err := o.Process(context.Background(), request.ID); err == nil {
		t.Fatal("expected timeout error")
	}
	got, _, _ := s.GetRequest(request.ID)
	if got.Status != domain.StatusFailed {
		t.Fatalf("status = %q", got.Status)
	}
}

type slowContent struct {
	delay time.Duration
}

func (s *slowContent) Generate(ctx context.Context, _, _, _, _ string) (domain.Content, error) {
	select {
	case <-ctx.Done():
		return domain.Content{}, ctx.Err()
	case <-time.After(s.delay):
		return domain.Content{}, errors.New("should have timed out")
	}
}
