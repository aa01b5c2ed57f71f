package domain

import "time"

// RequestStatus is the lifecycle state of a video request. Transitions move
// forward only: pending -> processing -> completed | failed.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusProcessing RequestStatus = "processing"
	StatusCompleted  RequestStatus = "completed"
	StatusFailed     RequestStatus = "failed"
)

// Terminal reports whether the status is an end state.
func (s RequestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Channel is the messaging transport used to reach a user.
type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// NormalizeChannel maps unknown channel values to SMS.
func NormalizeChannel(raw string) Channel {
	if Channel(raw) == ChannelWhatsApp {
		return ChannelWhatsApp
	}
	return ChannelSMS
}

type User struct {
	ID          string         `json:"id"`
	PhoneNumber string         `json:"phoneNumber"`
	Name        string         `json:"name,omitempty"`
	IsActive    bool           `json:"isActive"`
	Preferences map[string]any `json:"preferences,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// PreferredChannel returns the user's preferred notification channel,
// defaulting to WhatsApp when no preference is stored.
func (u User) PreferredChannel() Channel {
	if v, ok := u.Preferences["preferred_message_type"].(string); ok && v != "" {
		return NormalizeChannel(v)
	}
	return ChannelWhatsApp
}

type VideoRequest struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	Subject     string         `json:"subject"`
	Topic       string         `json:"topic"`
	Level       string         `json:"level"`
	Query       string         `json:"query"`
	Status      RequestStatus  `json:"status"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

// MessageType returns the channel requests should be notified on. Request
// metadata wins; absent that, the fallback (normally the user preference)
// applies.
func (r VideoRequest) MessageType(fallback Channel) Channel {
	if v, ok := r.Metadata["message_type"].(string); ok && v != "" {
		return NormalizeChannel(v)
	}
	return fallback
}

// IsEnhanced reports whether the request was submitted with enhanced
// features enabled (web form submissions).
func (r VideoRequest) IsEnhanced() bool {
	v, ok := r.Metadata["enhanced_features"].(bool)
	return ok && v
}

type Video struct {
	ID          string         `json:"id"`
	RequestID   string         `json:"requestId"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	StorageURL  string         `json:"storageUrl"`
	Duration    int            `json:"duration,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Content is the generated educational content bundle the video pipeline
// consumes.
type Content struct {
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	LearningObjectives []string   `json:"learning_objectives"`
	KeyPoints          []KeyPoint `json:"key_points"`
	Script             string     `json:"script"`
	Scenes             []Scene    `json:"scenes"`
	Questions          []Question `json:"questions"`
	Activities         []Activity `json:"activities"`
	Resources          []Resource `json:"resources"`
}

type KeyPoint struct {
	Point       string `json:"point"`
	Explanation string `json:"explanation"`
}

type Scene struct {
	Description     string `json:"description"`
	Narration       string `json:"narration"`
	VisualElements  string `json:"visual_elements"`
	DurationSeconds int    `json:"duration_seconds"`
}

type Question struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Activity struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	MaterialsNeeded string `json:"materials_needed"`
}

type Resource struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Notification is a user-facing message queued for delivery.
type Notification struct {
	Phone   string  `json:"phone"`
	Body    string  `json:"body"`
	Channel Channel `json:"channel"`
}
