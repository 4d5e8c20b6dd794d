package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/membership-directory/internal/models"
)

// CreateProfile вставляет профессиональный профиль и возвращает его ID.
func (s *Storage) CreateProfile(ctx context.Context, p models.ProfessionalProfile) (int64, error) {
	const op = "storage.CreateProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO professional_profiles (user_uid, slug, company_name, description,
			      category_id, city, address, phone, website, is_published)
			  VALUES ($1, $2, $3, $4, NULLIF($5, 0), $6, $7, $8, $9, $10)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		p.UserUID, p.Slug, p.CompanyName, p.Description, p.CategoryID,
		p.City, p.Address, p.Phone, p.Website, p.IsPublished).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetProfileByUser возвращает профиль по UID владельца.
func (s *Storage) GetProfileByUser(ctx context.Context, userUID string) (*models.ProfessionalProfile, error) {
	const op = "storage.GetProfileByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, slug, company_name, description,
			      COALESCE(category_id, 0), city, address, phone, website, is_published
			  FROM professional_profiles
			  WHERE user_uid = $1`
	p := &models.ProfessionalProfile{}
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&p.ID, &p.UserUID, &p.Slug,
		&p.CompanyName, &p.Description, &p.CategoryID, &p.City, &p.Address,
		&p.Phone, &p.Website, &p.IsPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// SlugExists проверяет, занят ли слаг.
func (s *Storage) SlugExists(ctx context.Context, slug string) (bool, error) {
	const op = "storage.SlugExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM professional_profiles WHERE slug = $1)`
	if err := s.DB.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// UpdateProfile обновляет бизнес-данные профиля владельца.
func (s *Storage) UpdateProfile(ctx context.Context, p models.ProfessionalProfile) error {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE professional_profiles
			  SET company_name = $1, description = $2, category_id = NULLIF($3, 0),
			      city = $4, address = $5, phone = $6, website = $7
			  WHERE user_uid = $8`
	res, err := s.DB.ExecContext(ctx, query, p.CompanyName, p.Description, p.CategoryID,
		p.City, p.Address, p.Phone, p.Website, p.UserUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// SetProfilePublished выставляет флаг публикации профиля по его ID.
func (s *Storage) SetProfilePublished(ctx context.Context, profileID int64, published bool) error {
	const op = "storage.SetProfilePublished"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE professional_profiles SET is_published = $1 WHERE id = $2`,
		published, profileID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// SetProfilePublishedByUser выставляет флаг публикации профиля по UID владельца.
// Отсутствие профиля не считается ошибкой: у членов без карточки снимать нечего.
func (s *Storage) SetProfilePublishedByUser(ctx context.Context, userUID string, published bool) error {
	const op = "storage.SetProfilePublishedByUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx,
		`UPDATE professional_profiles SET is_published = $1 WHERE user_uid = $2`,
		published, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListDirectory возвращает опубликованные профили активных пользователей
// с применением фильтров каталога. Профиль владельца с любым статусом,
// кроме ACTIVE, не попадает в выдачу, даже если is_published остался true.
func (s *Storage) ListDirectory(ctx context.Context, filter models.DirectoryFilter) ([]*models.DirectoryEntry, error) {
	const op = "storage.ListDirectory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.user_uid, p.slug, p.company_name, p.description,
			      COALESCE(p.category_id, 0), p.city, p.address, p.phone, p.website,
			      p.is_published, u.first_name, u.last_name, u.email,
			      COALESCE(c.name, '')
			  FROM professional_profiles p
			  JOIN users u ON u.uid = p.user_uid
			  LEFT JOIN categories c ON c.id = p.category_id
			  WHERE p.is_published = TRUE
			    AND u.status = 'ACTIVE'
			    AND ($1 = 0 OR p.category_id = $1)
			    AND ($2 = '' OR LOWER(p.city) = LOWER($2))
			    AND ($3 = '' OR p.company_name ILIKE '%' || $3 || '%'
			         OR p.description ILIKE '%' || $3 || '%')
			  ORDER BY p.company_name`
	rows, err := s.DB.QueryContext(ctx, query, filter.CategoryID, filter.City, filter.Query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.DirectoryEntry
	for rows.Next() {
		e := &models.DirectoryEntry{}
		if err = rows.Scan(&e.Profile.ID, &e.Profile.UserUID, &e.Profile.Slug,
			&e.Profile.CompanyName, &e.Profile.Description, &e.Profile.CategoryID,
			&e.Profile.City, &e.Profile.Address, &e.Profile.Phone, &e.Profile.Website,
			&e.Profile.IsPublished, &e.FirstName, &e.LastName, &e.Email,
			&e.CategoryName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListProfiles возвращает все профили для модерации.
func (s *Storage) ListProfiles(ctx context.Context) ([]*models.ProfessionalProfile, error) {
	const op = "storage.ListProfiles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, slug, company_name, description,
			      COALESCE(category_id, 0), city, address, phone, website, is_published
			  FROM professional_profiles
			  ORDER BY company_name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.ProfessionalProfile
	for rows.Next() {
		p := &models.ProfessionalProfile{}
		if err = rows.Scan(&p.ID, &p.UserUID, &p.Slug, &p.CompanyName, &p.Description,
			&p.CategoryID, &p.City, &p.Address, &p.Phone, &p.Website, &p.IsPublished); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
