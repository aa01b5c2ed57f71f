package store

import (
	"time"

	"tapbuddy/pkg/domain"
)

// RequestFilter narrows ListRequests. Zero values mean "no filter".
type RequestFilter struct {
	Phone   string
	Subject string
	Status  domain.RequestStatus
	Limit   int
}

// Store defines persistence operations for users, video requests, and
// generated videos.
type Store interface {
	// users
	SaveUser(user domain.User) error
	GetUserByPhone(phone string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)

	// requests
	CreateRequest(request domain.VideoRequest) error
	GetRequest(id string) (domain.VideoRequest, bool, error)
	SetRequestStatus(id string, status domain.RequestStatus, completedAt *time.Time) error
	ListRequests(filter RequestFilter) ([]domain.VideoRequest, error)

	// videos
	CreateVideo(video domain.Video) error
	GetVideoByRequest(requestID string) (domain.Video, bool, error)
}
