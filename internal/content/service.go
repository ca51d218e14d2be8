// Package content implements CRUD for geo-tagged points of interest and the
// handling of their media files.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"discoverlx/poi-api/internal/model"
	"discoverlx/poi-api/internal/storage"
	"discoverlx/poi-api/pkg/validators"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const keyCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	ErrInvalidInput  = errors.New("title, description and category are required")
	ErrMediaRequired = errors.New("a media file is required")
	ErrNotFound      = errors.New("content not found")
	ErrNotOwner      = errors.New("you don't own this content")
)

type Service struct {
	db    *gorm.DB
	store storage.Storage
}

func NewService(db *gorm.DB, store storage.Storage) *Service {
	return &Service{
		db:    db,
		store: store,
	}
}

// Input carries the user-editable fields of a content row.
type Input struct {
	Title        string
	Description  string
	Category     string
	Latitude     *float64
	Longitude    *float64
	LocationName string
}

// Media is an uploaded file ready to be stored.
type Media struct {
	Filename string
	Reader   io.Reader
	Size     int64
}

// View is the public JSON shape of a content row, author included.
type View struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	MediaType     string    `json:"media_type"`
	MediaFilename string    `json:"media_filename"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	LocationName  string    `json:"location_name"`
	CreatedAt     time.Time `json:"created_at"`
	Author        string    `json:"author"`
}

func (in *Input) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.LocationName = strings.TrimSpace(in.LocationName)
}

// Create stores the media file and inserts the content row.
func (s *Service) Create(ctx context.Context, userID uint, in Input, media *Media) (*model.Content, error) {
	in.normalize()

	if in.Title == "" || in.Description == "" || in.Category == "" {
		return nil, ErrInvalidInput
	}

	if media == nil {
		return nil, ErrMediaRequired
	}

	mediaType, key, err := s.saveMedia(ctx, media)
	if err != nil {
		return nil, err
	}

	c := &model.Content{
		UserID:        userID,
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		MediaType:     mediaType,
		MediaFilename: key,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		LocationName:  in.LocationName,
	}

	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		// The row never made it, don't leave the file behind
		if derr := s.store.Delete(ctx, key); derr != nil {
			zap.L().Warn("Failed to delete orphaned media file", zap.String("key", key), zap.Error(derr))
		}

		return nil, fmt.Errorf("failed to create content, %w", err)
	}

	return c, nil
}

// Update edits an owned content row, optionally replacing its media file.
// The old file is removed best-effort after the new one is in place.
func (s *Service) Update(ctx context.Context, userID, id uint, in Input, media *Media) (*model.Content, error) {
	in.normalize()

	if in.Title == "" || in.Description == "" || in.Category == "" {
		return nil, ErrInvalidInput
	}

	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	oldKey := ""

	if media != nil {
		mediaType, key, err := s.saveMedia(ctx, media)
		if err != nil {
			return nil, err
		}

		oldKey = c.MediaFilename
		c.MediaType = mediaType
		c.MediaFilename = key
	}

	c.Title = in.Title
	c.Description = in.Description
	c.Category = in.Category
	c.Latitude = in.Latitude
	c.Longitude = in.Longitude
	c.LocationName = in.LocationName

	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, fmt.Errorf("failed to update content, %w", err)
	}

	if oldKey != "" {
		if err := s.store.Delete(ctx, oldKey); err != nil {
			zap.L().Warn("Failed to delete replaced media file", zap.String("key", oldKey), zap.Error(err))
		}
	}

	return c, nil
}

// Delete removes an owned content row. Deleting the media file is a side
// effect that may fail without failing the delete.
func (s *Service) Delete(ctx context.Context, userID, id uint) error {
	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(c).Error; err != nil {
		return fmt.Errorf("failed to delete content, %w", err)
	}

	if c.MediaFilename != "" {
		if err := s.store.Delete(ctx, c.MediaFilename); err != nil {
			zap.L().Warn("Failed to delete media file", zap.String("key", c.MediaFilename), zap.Error(err))
		}
	}

	return nil
}

// Get returns one content row with its author's username.
func (s *Service) Get(ctx context.Context, id uint) (*View, error) {
	var v View

	err := s.db.WithContext(ctx).
		Model(model.Content{}).
		Select("contents.*, users.username AS author").
		Joins("JOIN users ON users.id = contents.user_id").
		Where("contents.id = ?", id).
		First(&v).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch content, %w", err)
	}

	return &v, nil
}

// ListGeo returns every content row that carries coordinates, newest first.
// This feeds the public map and the JSON listing.
func (s *Service) ListGeo(ctx context.Context) ([]View, error) {
	views := []View{}

	err := s.db.WithContext(ctx).
		Model(model.Content{}).
		Select("contents.*, users.username AS author").
		Joins("JOIN users ON users.id = contents.user_id").
		Where("contents.latitude IS NOT NULL AND contents.longitude IS NOT NULL").
		Order("contents.created_at DESC").
		Find(&views).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contents, %w", err)
	}

	return views, nil
}

// ListByUser returns a user's own contents, newest first, for the dashboard.
func (s *Service) ListByUser(ctx context.Context, userID uint) ([]model.Content, error) {
	contents := []model.Content{}

	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&contents).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contents, %w", err)
	}

	return contents, nil
}

func (s *Service) owned(ctx context.Context, userID, id uint) (*model.Content, error) {
	var c model.Content

	err := s.db.WithContext(ctx).First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch content, %w", err)
	}

	if c.UserID != userID {
		return nil, ErrNotOwner
	}

	return &c, nil
}

func (s *Service) saveMedia(ctx context.Context, media *Media) (mediaType, key string, err error) {
	mediaType, err = validators.MediaTypeValidator(media.Filename)
	if err != nil {
		return "", "", err
	}

	id, err := gonanoid.Generate(keyCharset, 16)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate media key, %w", err)
	}

	ext := strings.ToLower(path.Ext(media.Filename))
	key = id + ext

	contentType := mediaType + "/" + strings.TrimPrefix(ext, ".")

	if err := s.store.Save(ctx, key, media.Reader, media.Size, contentType); err != nil {
		return "", "", err
	}

	return mediaType, key, nil
}
