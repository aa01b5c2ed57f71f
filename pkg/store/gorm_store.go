package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"tapbuddy/pkg/domain"
)

// GormStore implements Store using GORM. Postgres is the production
// dialect; sqlite DSNs (file: or :memory:) are used in tests and local runs.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(openDialector(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&UserModel{}, &VideoRequestModel{}, &VideoModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func openDialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, ":memory:") || strings.HasSuffix(dsn, ".db") {
		return sqlite.Open(dsn)
	}
	return postgres.Open(dsn)
}

// SaveUser registers or updates a user, keyed by phone number.
func (s *GormStore) SaveUser(user domain.User) error {
	model := userToModel(user)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "is_active", "preferences", "updated_at"}),
	}).Create(&model).Error
}

// GetUserByPhone looks up a user by phone number.
func (s *GormStore) GetUserByPhone(phone string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("phone_number = ?", phone).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// CreateRequest stores a new video request.
func (s *GormStore) CreateRequest(request domain.VideoRequest) error {
	model := requestToModel(request)
	return s.db.Create(&model).Error
}

// GetRequest retrieves a video request.
func (s *GormStore) GetRequest(id string) (domain.VideoRequest, bool, error) {
	var model VideoRequestModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.VideoRequest{}, false, nil
		}
		return domain.VideoRequest{}, false, err
	}
	return requestFromModel(model), true, nil
}

// SetRequestStatus updates request status; completedAt is set only when
// non-nil (terminal transitions).
func (s *GormStore) SetRequestStatus(id string, status domain.RequestStatus, completedAt *time.Time) error {
	updates := map[string]any{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}
	if completedAt != nil {
		updates["completed_at"] = completedAt.UTC()
	}
	return s.db.Model(&VideoRequestModel{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ListRequests returns requests matching the filter, newest first. A phone
// filter resolves through the users table.
func (s *GormStore) ListRequests(filter RequestFilter) ([]domain.VideoRequest, error) {
	tx := s.db.Model(&VideoRequestModel{}).Order("created_at DESC")
	if filter.Phone != "" {
		user, ok, err := s.GetUserByPhone(filter.Phone)
		if err != nil {
			return nil, err
		}
		if !ok {
			return []domain.VideoRequest{}, nil
		}
		tx = tx.Where("user_id = ?", user.ID)
	}
	if filter.Subject != "" {
		tx = tx.Where("subject = ?", filter.Subject)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	var models []VideoRequestModel
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	requests := make([]domain.VideoRequest, 0, len(models))
	for _, model := range models {
		requests = append(requests, requestFromModel(model))
	}
	return requests, nil
}

// CreateVideo stores a generated video record, replacing any prior record
// for the same request.
func (s *GormStore) CreateVideo(video domain.Video) error {
	model := videoToModel(video)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "request_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "storage_url", "duration", "metadata"}),
	}).Create(&model).Error
}

// GetVideoByRequest returns the video generated for a request.
func (s *GormStore) GetVideoByRequest(requestID string) (domain.Video, bool, error) {
	var model VideoModel
	if err := s.db.Where("request_id = ?", requestID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Video{}, false, nil
		}
		return domain.Video{}, false, err
	}
	return videoFromModel(model), true, nil
}

func userToModel(u domain.User) UserModel {
	prefs, _ := json.Marshal(u.Preferences)
	return UserModel{
		ID:          u.ID,
		PhoneNumber: u.PhoneNumber,
		Name:        u.Name,
		IsActive:    u.IsActive,
		Preferences: prefs,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}
}

func userFromModel(m UserModel) domain.User {
	var prefs map[string]any
	if len(m.Preferences) > 0 {
		_ = json.Unmarshal(m.Preferences, &prefs)
	}
	return domain.User{
		ID:          m.ID,
		PhoneNumber: m.PhoneNumber,
		Name:        m.Name,
		IsActive:    m.IsActive,
		Preferences: prefs,
		CreatedAt:   m.CreatedAt,
	}
}

func requestToModel(r domain.VideoRequest) VideoRequestModel {
	meta, _ := json.Marshal(r.Metadata)
	return VideoRequestModel{
		ID:          r.ID,
		UserID:      r.UserID,
		Subject:     r.Subject,
		Topic:       r.Topic,
		Level:       r.Level,
		Query:       r.Query,
		Status:      string(r.Status),
		Metadata:    meta,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
		CompletedAt: r.CompletedAt,
	}
}

func requestFromModel(m VideoRequestModel) domain.VideoRequest {
	var meta map[string]any
	if len(m.Metadata) > 0 {
		_ = json.Unmarshal(m.Metadata, &meta)
	}
	return domain.VideoRequest{
		ID:          m.ID,
		UserID:      m.UserID,
		Subject:     m.Subject,
		Topic:       m.Topic,
		Level:       m.Level,
		Query:       m.Query,
		Status:      domain.RequestStatus(m.Status),
		Metadata:    meta,
		CreatedAt:   m.CreatedAt,
		CompletedAt: m.CompletedAt,
	}
}

func videoToModel(v domain.Video) VideoModel {
	meta, _ := json.Marshal(v.Metadata)
	return VideoModel{
		ID:          v.ID,
		RequestID:   v.RequestID,
		Title:       v.Title,
		Description: v.Description,
		StorageURL:  v.StorageURL,
		Duration:    v.Duration,
		Metadata:    meta,
		CreatedAt:   v.CreatedAt,
	}
}

func videoFromModel(m VideoModel) domain.Video {
	var meta map[string]any
	if len(m.Metadata) > 0 {
		_ = json.Unmarshal(m.Metadata, &meta)
	}
	return domain.Video{
		ID:          m.ID,
		RequestID:   m.RequestID,
		Title:       m.Title,
		Description: m.Description,
		StorageURL:  m.StorageURL,
		Duration:    m.Duration,
		Metadata:    meta,
		CreatedAt:   m.CreatedAt,
	}
}
