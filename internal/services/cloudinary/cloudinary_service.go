package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/rajivgeraev/barrio-api/internal/config"
)

// ErrNotConfigured возвращается, если ключи Cloudinary не заданы
var ErrNotConfigured = errors.New("cloudinary: не настроен")

// UploadParams - подписанные параметры для загрузки изображения с клиента
type UploadParams struct {
	Timestamp    string `json:"timestamp"`
	Signature    string `json:"signature"`
	APIKey       string `json:"api_key"`
	CloudName    string `json:"cloud_name"`
	Folder       string `json:"folder"`
	UploadPreset string `json:"upload_preset,omitempty"`
	ListingID    string `json:"listing_id"`
}

// CloudinaryService предоставляет методы для работы с Cloudinary
type CloudinaryService struct {
	cfg config.CloudinaryConfig
	cld *cloudinary.Cloudinary
	now func() time.Time
}

// NewCloudinaryService создает новый экземпляр CloudinaryService
func NewCloudinaryService(cfg *config.Config) (*CloudinaryService, error) {
	s := &CloudinaryService{cfg: cfg.CloudinaryConfig, now: time.Now}
	if !s.configured() {
		return s, nil
	}

	cld, err := cloudinary.NewFromParams(s.cfg.CloudName, s.cfg.APIKey, s.cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации Cloudinary: %w", err)
	}
	s.cld = cld
	return s, nil
}

func (s *CloudinaryService) configured() bool {
	return s.cfg.CloudName != "" && s.cfg.APIKey != "" && s.cfg.APISecret != ""
}

// GenerateSignature подписывает параметры загрузки секретом API
func (s *CloudinaryService) GenerateSignature(params url.Values) (string, error) {
	if !s.configured() {
		return "", ErrNotConfigured
	}
	return api.SignParameters(params, s.cfg.APISecret)
}

// GenerateUploadParams создаёт параметры для загрузки изображений объявления
func (s *CloudinaryService) GenerateUploadParams(listingID string) (*UploadParams, error) {
	// Генерируем ID для объявления, если не передан
	if listingID == "" {
		listingID = uuid.New().String()
	}

	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	folder := s.cfg.UploadFolder + "/listings/" + listingID

	params := url.Values{}
	params.Set("timestamp", timestamp)
	params.Set("folder", folder)
	if s.cfg.UploadPreset != "" {
		params.Set("upload_preset", s.cfg.UploadPreset)
	}

	signature, err := s.GenerateSignature(params)
	if err != nil {
		return nil, err
	}

	return &UploadParams{
		Timestamp:    timestamp,
		Signature:    signature,
		APIKey:       s.cfg.APIKey,
		CloudName:    s.cfg.CloudName,
		Folder:       folder,
		UploadPreset: s.cfg.UploadPreset,
		ListingID:    listingID,
	}, nil
}

// DeletePhoto удаляет изображение из Cloudinary
func (s *CloudinaryService) DeletePhoto(ctx context.Context, publicID string) error {
	if s.cld == nil {
		return ErrNotConfigured
	}

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("ошибка удаления %s: %w", publicID, err)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("cloudinary: неожиданный ответ %q для %s", res.Result, publicID)
	}
	return nil
}
