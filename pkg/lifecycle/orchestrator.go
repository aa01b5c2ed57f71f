// Package lifecycle drives a video request from intake through generation,
// upload, and user notification.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tapbuddy/internal/util"
	"tapbuddy/pkg/domain"
	"tapbuddy/pkg/parse"
	"tapbuddy/pkg/phone"
	"tapbuddy/pkg/queue"
	"tapbuddy/pkg/storage"
	"tapbuddy/pkg/store"
)

// defaultProcessTimeout bounds one request's generation pipeline end to end.
const defaultProcessTimeout = 300 * time.Second

// Scheduler enqueues requests for asynchronous processing.
type Scheduler interface {
	Enqueue(ctx context.Context, requestID string, channel domain.Channel) (queue.JobStatus, error)
}

// ContentGenerator produces the educational content bundle.
type ContentGenerator interface {
	Generate(ctx context.Context, subject, topic, level, query string) (domain.Content, error)
}

// SpeechSynthesizer renders a narration script to an audio file.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, script string) (string, error)
}

// VideoRenderer produces the video artifact.
type VideoRenderer interface {
	Render(ctx context.Context, bundle domain.Content, subject, audioPath string) (string, error)
}

// Notifier delivers user-facing status messages.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// Orchestrator owns the request lifecycle. The api service uses Submit; the
// worker service uses Process.
type Orchestrator struct {
	store     store.Store
	scheduler Scheduler
	content   ContentGenerator
	speech    SpeechSynthesizer
	video     VideoRenderer
	uploader  storage.Uploader
	notifier  Notifier
	timeout   time.Duration
}

// Config wires an Orchestrator. Store is required; intake-only deployments
// (the api service) may leave the generation dependencies nil.
type Config struct {
	Store     store.Store
	Scheduler Scheduler
	Content   ContentGenerator
	Speech    SpeechSynthesizer
	Video     VideoRenderer
	Uploader  storage.Uploader
	Notifier  Notifier
	Timeout   time.Duration
}

func New(cfg Config) *Orchestrator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultProcessTimeout
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Orchestrator{
		store:     cfg.Store,
		scheduler: cfg.Scheduler,
		content:   cfg.Content,
		speech:    cfg.Speech,
		video:     cfg.Video,
		uploader:  cfg.Uploader,
		notifier:  notifier,
		timeout:   timeout,
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, domain.Notification) {}

// SubmitInput is one intake, from a webhook or the web form. Explicit
// Subject/Topic/Level take precedence over parsing Message.
type SubmitInput struct {
	Phone    string
	Message  string
	Subject  string
	Topic    string
	Level    string
	Channel  domain.Channel
	Metadata map[string]any
}

// Submit validates the intake, records a pending request, acknowledges the
// user, and schedules generation. An enqueue failure leaves the request
// pending and is reported as a SchedulingError.
func (o *Orchestrator) Submit(ctx context.Context, input SubmitInput) (domain.VideoRequest, error) {
	normalized, err := phone.Validate(input.Phone)
	if err != nil {
		return domain.VideoRequest{}, &domain.ValidationError{Field: "phone_number", Reason: err.Error()}
	}

	user, ok, err := o.store.GetUserByPhone(normalized)
	if err != nil {
		return domain.VideoRequest{}, fmt.Errorf("lookup user: %w", err)
	}
	if !ok {
		user = domain.User{
			ID:          util.NewID(),
			PhoneNumber: normalized,
			IsActive:    true,
			CreatedAt:   time.Now().UTC(),
		}
		if err := o.store.SaveUser(user); err != nil {
			return domain.VideoRequest{}, fmt.Errorf("create user: %w", err)
		}
	}

	subject, topic, level, query := input.Subject, input.Topic, input.Level, input.Message
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(topic) == "" {
		parsed := parse.Message(input.Message)
		subject, topic, level, query = parsed.Subject, parsed.Topic, parsed.Level, parsed.Query
	}
	if strings.TrimSpace(level) == "" {
		level = "Beginner"
	}

	request := domain.VideoRequest{
		ID:        util.NewID(),
		UserID:    user.ID,
		Subject:   subject,
		Topic:     topic,
		Level:     level,
		Query:     query,
		Status:    domain.StatusPending,
		Metadata:  input.Metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := o.store.CreateRequest(request); err != nil {
		return domain.VideoRequest{}, fmt.Errorf("create request: %w", err)
	}

	channel := request.MessageType(input.Channel)
	o.notifier.Notify(ctx, domain.Notification{
		Phone:   normalized,
		Channel: channel,
		Body: fmt.Sprintf(
			"Thanks for your request! We're generating a %s video about '%s' for you. This may take a few minutes.",
			subject, topic,
		),
	})

	if o.scheduler != nil {
		if _, err := o.scheduler.Enqueue(ctx, request.ID, channel); err != nil {
			return request, &domain.SchedulingError{Err: err}
		}
	}
	return request, nil
}

// Process runs the generation pipeline for a pending request. Requests that
// are missing or already past pending are skipped, which makes redelivered
// jobs idempotent.
func (o *Orchestrator) Process(ctx context.Context, requestID string) error {
	request, ok, err := o.store.GetRequest(requestID)
	if err != nil {
		return fmt.Errorf("load request: %w", err)
	}
	if !ok {
		slog.Warn("request not found, skipping", "request_id", requestID)
		return nil
	}
	if request.Status != domain.StatusPending {
		slog.Info("request not pending, skipping", "request_id", requestID, "status", request.Status)
		return nil
	}

	if err := o.store.SetRequestStatus(request.ID, domain.StatusProcessing, nil); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	user, channel := o.resolveRecipient(request)
	if user.PhoneNumber != "" {
		o.notifier.Notify(ctx, domain.Notification{
			Phone:   user.PhoneNumber,
			Channel: channel,
			Body:    fmt.Sprintf("We're working on your video about '%s'. Starting content generation...", request.Topic),
		})
	}

	pctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	url, err := o.generate(pctx, request)
	now := time.Now().UTC()
	if err != nil {
		slog.Error("video generation failed", "request_id", request.ID, "err", err)
		if serr := o.store.SetRequestStatus(request.ID, domain.StatusFailed, &now); serr != nil {
			slog.Error("mark failed", "request_id", request.ID, "err", serr)
		}
		if user.PhoneNumber != "" {
			o.notifier.Notify(ctx, domain.Notification{
				Phone:   user.PhoneNumber,
				Channel: channel,
				Body:    fmt.Sprintf("We encountered an issue while generating your video about '%s'. Please try again.", request.Topic),
			})
		}
		return err
	}

	if err := o.store.SetRequestStatus(request.ID, domain.StatusCompleted, &now); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	if user.PhoneNumber != "" {
		o.notifier.Notify(ctx, domain.Notification{
			Phone:   user.PhoneNumber,
			Channel: channel,
			Body:    fmt.Sprintf("Your video about '%s' is ready! Watch it here: %s", request.Topic, url),
		})
	}
	slog.Info("request completed", "request_id", request.ID, "url", url)
	return nil
}

// generate runs content -> speech -> video -> upload and records the video.
func (o *Orchestrator) generate(ctx context.Context, request domain.VideoRequest) (string, error) {
	bundle, err := o.content.Generate(ctx, request.Subject, request.Topic, request.Level, request.Query)
	if err != nil {
		return "", err
	}

	audioPath, err := o.speech.Synthesize(ctx, bundle.Script)
	if err != nil {
		return "", &domain.GenerationError{Stage: "speech", Err: err}
	}

	videoPath, err := o.video.Render(ctx, bundle, request.Subject, audioPath)
	if err != nil {
		return "", &domain.GenerationError{Stage: "video", Err: err}
	}

	key := storage.VideoKey(request.ID, time.Now())
	url, err := o.uploader.UploadFile(ctx, videoPath, key)
	if err != nil {
		return "", &domain.GenerationError{Stage: "upload", Err: err}
	}

	duration := 0
	for _, scene := range bundle.Scenes {
		duration += scene.DurationSeconds
	}
	video := domain.Video{
		ID:          util.NewID(),
		RequestID:   request.ID,
		Title:       bundle.Title,
		Description: bundle.Description,
		StorageURL:  url,
		Duration:    duration,
		Metadata: map[string]any{
			"storage_key": key,
			"scenes":      len(bundle.Scenes),
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := o.store.CreateVideo(video); err != nil {
		return "", fmt.Errorf("record video: %w", err)
	}
	return url, nil
}

// resolveRecipient loads the requesting user for notifications. A missing
// user silences notifications but never blocks processing.
func (o *Orchestrator) resolveRecipient(request domain.VideoRequest) (domain.User, domain.Channel) {
	user, ok, err := o.store.GetUserByID(request.UserID)
	if err != nil || !ok {
		if err != nil {
			slog.Warn("lookup request user", "request_id", request.ID, "err", err)
		}
		return domain.User{}, domain.ChannelWhatsApp
	}
	return user, request.MessageType(user.PreferredChannel())
}
