// Package server exposes the HTTP intake and query API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"tapbuddy/internal/util"
	"tapbuddy/pkg/domain"
	"tapbuddy/pkg/lifecycle"
	"tapbuddy/pkg/messaging"
	"tapbuddy/pkg/store"
)

const version = "1.0.0"

const dashboardLimit = 50

// Config wires required dependencies for the HTTP server.
type Config struct {
	Store        store.Store
	Orchestrator *lifecycle.Orchestrator
}

// Server exposes HTTP endpoints for request intake and status queries.
type Server struct {
	store store.Store
	orch  *lifecycle.Orchestrator
	mux   *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		store: cfg.Store,
		orch:  cfg.Orchestrator,
		mux:   http.NewServeMux(),
	}
	s.routes()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("api", util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth)

	s.mux.HandleFunc("/api/process_message_webhook", s.handleMessageWebhook)
	s.mux.HandleFunc("/api/process_whatsapp_webhook", s.handleWhatsAppWebhook)
	s.mux.HandleFunc("/api/video_status/", s.handleVideoStatus)
	s.mux.HandleFunc("/api/video_details/", s.handleVideoDetails)

	s.mux.HandleFunc("/submit_request", s.handleSubmitRequest)
	s.mux.HandleFunc("/dashboard", s.handleDashboard)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "version": version})
}

// handleMessageWebhook ingests inbound carrier webhooks (form-encoded) or
// JSON submissions with phone/message fields.
func (s *Server) handleMessageWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	input, ok := decodeIntake(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "phone number and message are required")
		return
	}
	s.submit(w, r, input)
}

// handleWhatsAppWebhook is the WhatsApp alias; intake is forced onto the
// whatsapp channel.
func (s *Server) handleWhatsAppWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	input, ok := decodeIntake(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "phone number and message are required")
		return
	}
	input.Channel = domain.ChannelWhatsApp
	s.submit(w, r, input)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, input lifecycle.SubmitInput) {
	request, err := s.orch.Submit(r.Context(), input)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		var serr *domain.SchedulingError
		if errors.As(err, &serr) {
			// The request row is recorded and stays pending, but processing
			// never started, so the caller gets an error.
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":      "failed to schedule processing",
				"request_id": request.ID,
				"status":     string(request.Status),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to process request")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"request_id": request.ID,
		"status":     string(request.Status),
		"subject":    request.Subject,
		"topic":      request.Topic,
	})
}

// decodeIntake reads an intake from JSON or a carrier-style form payload.
func decodeIntake(r *http.Request) (lifecycle.SubmitInput, bool) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Phone   string `json:"phone"`
			Message string `json:"message"`
			Channel string `json:"channel"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return lifecycle.SubmitInput{}, false
		}
		if body.Phone == "" || body.Message == "" {
			return lifecycle.SubmitInput{}, false
		}
		return lifecycle.SubmitInput{
			Phone:   body.Phone,
			Message: body.Message,
			Channel: domain.NormalizeChannel(body.Channel),
		}, true
	}

	if err := r.ParseForm(); err != nil {
		return lifecycle.SubmitInput{}, false
	}
	payload := map[string]string{
		"From": r.PostFormValue("From"),
		"Body": r.PostFormValue("Body"),
	}
	phone, message, channel := messaging.DecodeWebhook(payload)
	if phone == "" || message == "" {
		return lifecycle.SubmitInput{}, false
	}
	return lifecycle.SubmitInput{Phone: phone, Message: message, Channel: channel}, true
}

// handleSubmitRequest serves the web form: explicit subject/topic/level plus
// metadata marking the richer feature set, then redirects to the dashboard.
func (s *Server) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	phone := r.PostFormValue("phone_number")
	subject := r.PostFormValue("subject")
	topic := r.PostFormValue("topic")
	if phone == "" || subject == "" || topic == "" {
		writeError(w, http.StatusBadRequest, "phone_number, subject, and topic are required")
		return
	}
	messageType := r.PostFormValue("message_type")
	if messageType == "" {
		messageType = string(domain.ChannelWhatsApp)
	}

	input := lifecycle.SubmitInput{
		Phone:   phone,
		Subject: subject,
		Topic:   topic,
		Level:   r.PostFormValue("level"),
		Channel: domain.NormalizeChannel(messageType),
		Metadata: map[string]any{
			"message_type":      string(domain.NormalizeChannel(messageType)),
			"source":            "web_interface",
			"enhanced_features": true,
		},
	}
	_, err := s.orch.Submit(r.Context(), input)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		var serr *domain.SchedulingError
		if !errors.As(err, &serr) {
			writeError(w, http.StatusInternalServerError, "failed to submit request")
			return
		}
		// The request is recorded but not scheduled; the dashboard shows it
		// stuck in pending.
		http.Redirect(w, r, "/dashboard?phone="+phone+"&error=scheduling+failed", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard?phone="+phone, http.StatusSeeOther)
}

func (s *Server) handleVideoStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/video_status/")
	if id == "" || strings.Contains(id, "/") {
		notFound(w, "request not found")
		return
	}
	request, ok, err := s.store.GetRequest(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load request")
		return
	}
	if !ok {
		notFound(w, "request not found")
		return
	}

	payload := map[string]any{
		"request_id": request.ID,
		"status":     string(request.Status),
		"subject":    request.Subject,
		"topic":      request.Topic,
		"level":      request.Level,
		"created_at": request.CreatedAt.Format(time.RFC3339),
	}
	if request.CompletedAt != nil {
		payload["completed_at"] = request.CompletedAt.Format(time.RFC3339)
	}
	if request.Status == domain.StatusCompleted {
		if video, ok, err := s.store.GetVideoByRequest(request.ID); err == nil && ok {
			payload["video_url"] = video.StorageURL
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleVideoDetails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/video_details/")
	if id == "" || strings.Contains(id, "/") {
		notFound(w, "request not found")
		return
	}
	request, ok, err := s.store.GetRequest(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load request")
		return
	}
	if !ok {
		notFound(w, "request not found")
		return
	}
	payload := map[string]any{"request": request}
	if video, ok, err := s.store.GetVideoByRequest(request.ID); err == nil && ok {
		payload["video"] = video
	}
	writeJSON(w, http.StatusOK, payload)
}

// handleDashboard lists recent requests with aggregate stats, filterable by
// phone, subject, and status.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	filter := store.RequestFilter{
		Phone:   strings.TrimSpace(r.URL.Query().Get("phone")),
		Subject: strings.TrimSpace(r.URL.Query().Get("subject")),
		Limit:   dashboardLimit,
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, ok := parseRequestStatus(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		filter.Status = status
	}

	requests, err := s.store.ListRequests(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list requests")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": requests,
		"stats": dashboardStats(requests),
	})
}

func dashboardStats(requests []domain.VideoRequest) map[string]any {
	byStatus := map[string]int{}
	bySubject := map[string]int{}
	byLevel := map[string]int{}
	for _, request := range requests {
		byStatus[string(request.Status)]++
		bySubject[request.Subject]++
		byLevel[request.Level]++
	}
	return map[string]any{
		"total":      len(requests),
		"by_status":  byStatus,
		"by_subject": bySubject,
		"by_level":   byLevel,
	}
}

func parseRequestStatus(status string) (domain.RequestStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case string(domain.StatusPending):
		return domain.StatusPending, true
	case string(domain.StatusProcessing):
		return domain.StatusProcessing, true
	case string(domain.StatusCompleted):
		return domain.StatusCompleted, true
	case string(domain.StatusFailed):
		return domain.StatusFailed, true
	default:
		return "", false
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func notFound(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusNotFound, msg)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		RequestID: strings.TrimSpace(w.Header().Get("X-Request-Id")),
	})
}
