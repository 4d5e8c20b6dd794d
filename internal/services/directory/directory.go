// Package services содержит бизнес-логику публичного каталога профессионалов
// и справочника категорий, включая кеширование.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/membership-directory/internal/models"
)

// DirectoryRepository определяет методы чтения каталога из хранилища.
type DirectoryRepository interface {
	// ListDirectory возвращает опубликованные профили активных пользователей.
	ListDirectory(ctx context.Context, filter models.DirectoryFilter) ([]*models.DirectoryEntry, error)
	// ListCategories возвращает справочник категорий.
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// DirectoryService реализует чтение каталога с кешированием.
// Кешируется только нефильтрованная выдача: с фильтрами число комбинаций
// ключей не окупает попадания.
type DirectoryService struct {
	repo  DirectoryRepository
	cache Cache
	log   *slog.Logger
}

// cacheTTL время жизни кеша каталога и категорий.
const cacheTTL = 10 * time.Minute

const (
	directoryCacheKey  = "directory:all"
	categoriesCacheKey = "categories:all"
)

// NewDirectoryService создает новый экземпляр DirectoryService.
func NewDirectoryService(repo DirectoryRepository, cache Cache, log *slog.Logger) *DirectoryService {
	return &DirectoryService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает строки каталога по фильтру.
func (s *DirectoryService) List(ctx context.Context, filter models.DirectoryFilter) ([]*models.DirectoryEntry, error) {
	if filter == (models.DirectoryFilter{}) {
		return s.listAllCached(ctx)
	}
	return s.repo.ListDirectory(ctx, filter)
}

func (s *DirectoryService) listAllCached(ctx context.Context) ([]*models.DirectoryEntry, error) {
	var cached []*models.DirectoryEntry
	found, err := s.cache.Get(directoryCacheKey, &cached)
	if err != nil {
		s.log.Warn("directory cache read failed", slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	entries, err := s.repo.ListDirectory(ctx, models.DirectoryFilter{})
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(directoryCacheKey, entries, cacheTTL); err != nil {
		s.log.Warn("failed to cache directory", slog.String("key", directoryCacheKey), slog.Any("err", err))
	}
	return entries, nil
}

// Categories возвращает справочник категорий, используя кеш или репозиторий.
func (s *DirectoryService) Categories(ctx context.Context) ([]*models.Category, error) {
	var cached []*models.Category
	found, err := s.cache.Get(categoriesCacheKey, &cached)
	if err != nil {
		s.log.Warn("categories cache read failed", slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(categoriesCacheKey, categories, cacheTTL); err != nil {
		s.log.Warn("failed to cache categories", slog.String("key", categoriesCacheKey), slog.Any("err", err))
	}
	return categories, nil
}

// InvalidateListings сбрасывает кеш каталога. Вызывается после модерации,
// чтобы снятая с публикации карточка не жила в кеше до конца TTL.
func (s *DirectoryService) InvalidateListings() {
	for _, key := range []string{directoryCacheKey, categoriesCacheKey} {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("key", key), slog.Any("err", err))
		}
	}
}
