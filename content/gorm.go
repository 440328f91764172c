package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"bod/models"
)

// NewGormRepositories returns the relational backend. The schema must already
// be migrated.
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:     &gormUsers{db: db},
		Messages:  &gormMessages{db: db},
		Settings:  &gormSettings{db: db},
		Services:  newGormStore(db, ServiceKind),
		Articles:  newGormStore(db, ArticleKind),
		WorkItems: newGormStore(db, WorkItemKind),
		Solutions: newGormStore(db, SolutionKind),
	}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

type gormStore[T any, PT Record[T]] struct {
	db   *gorm.DB
	kind Kind[T]
}

func newGormStore[T any, PT Record[T]](db *gorm.DB, kind Kind[T]) *gormStore[T, PT] {
	return &gormStore[T, PT]{db: db, kind: kind}
}

func (s *gormStore[T, PT]) List(ctx context.Context) ([]T, error) {
	var rows []T
	if err := s.db.WithContext(ctx).Order(s.kind.OrderBy).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind.Name, err)
	}
	return rows, nil
}

func (s *gormStore[T, PT]) ListPublished(ctx context.Context) ([]T, error) {
	var rows []T
	err := s.db.WithContext(ctx).
		Where("published = ?", true).
		Order(s.kind.OrderBy).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list published %s: %w", s.kind.Name, err)
	}
	return rows, nil
}

func (s *gormStore[T, PT]) ListByCategory(ctx context.Context, value string) ([]T, error) {
	if s.kind.CategoryColumn == "" {
		return s.ListPublished(ctx)
	}
	var rows []T
	err := s.db.WithContext(ctx).
		Where("published = ?", true).
		Where(s.kind.CategoryColumn+" = ?", value).
		Order(s.kind.OrderBy).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list %s by %s: %w", s.kind.Name, s.kind.CategoryColumn, err)
	}
	return rows, nil
}

func (s *gormStore[T, PT]) GetByID(ctx context.Context, id uint) (*T, error) {
	var row T
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, s.wrap("get", err)
	}
	return &row, nil
}

func (s *gormStore[T, PT]) GetBySlug(ctx context.Context, slug string) (*T, error) {
	var row T
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&row).Error; err != nil {
		return nil, s.wrap("get by slug", err)
	}
	return &row, nil
}

func (s *gormStore[T, PT]) Create(ctx context.Context, row *T) error {
	PT(row).SetID(0)
	PT(row).Stamp(now())
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return s.wrap("create", err)
	}
	return nil
}

func (s *gormStore[T, PT]) Update(ctx context.Context, id uint, patch models.Patch[T]) (*T, error) {
	row, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(row)
	PT(row).SetID(id)

	// a row deleted since the load must not come back
	res := s.db.WithContext(ctx).Model(row).Select("*").Updates(row)
	if res.Error != nil {
		return nil, s.wrap("update", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return row, nil
}

func (s *gormStore[T, PT]) Delete(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(new(T), id).Error; err != nil {
		return fmt.Errorf("delete %s: %w", s.kind.Name, err)
	}
	return nil
}

func (s *gormStore[T, PT]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(new(T)).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", s.kind.Name, err)
	}
	return n, nil
}

func (s *gormStore[T, PT]) wrap(op string, err error) error {
	return classify(op+" "+s.kind.Name, err)
}

func classify(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrSlugTaken)
	}
	return fmt.Errorf("%s: %w", op, err)
}

type gormUsers struct {
	db *gorm.DB
}

func (s *gormUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, classify("get user", err)
	}
	return &user, nil
}

func (s *gormUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, classify("get user by username", err)
	}
	return &user, nil
}

func (s *gormUsers) Create(ctx context.Context, user *models.User) error {
	user.ID = 0
	if user.Role == "" {
		user.Role = "admin"
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user %q: %w", user.Username, err)
	}
	return nil
}

type gormMessages struct {
	db *gorm.DB
}

func (s *gormMessages) List(ctx context.Context) ([]models.ContactMessage, error) {
	var msgs []models.ContactMessage
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

func (s *gormMessages) Get(ctx context.Context, id uint) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	if err := s.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		return nil, classify("get message", err)
	}
	return &msg, nil
}

func (s *gormMessages) Create(ctx context.Context, msg *models.ContactMessage) error {
	msg.ID = 0
	msg.IsRead = false
	msg.CreatedAt = now()
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

func (s *gormMessages) MarkRead(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).
		Model(&models.ContactMessage{}).
		Where("id = ?", id).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("mark message %d read: %w", id, err)
	}
	return nil
}

func (s *gormMessages) Delete(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.ContactMessage{}, id).Error; err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (s *gormMessages) UnreadCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.ContactMessage{}).Where("is_read = ?", false).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return n, nil
}

func (s *gormMessages) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.ContactMessage{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

type gormSettings struct {
	db *gorm.DB
}

func (s *gormSettings) List(ctx context.Context) ([]models.SiteSetting, error) {
	var settings []models.SiteSetting
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return settings, nil
}

func (s *gormSettings) Get(ctx context.Context, key string) (*models.SiteSetting, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	var setting models.SiteSetting
	if err := s.db.WithContext(ctx).Where(&models.SiteSetting{Key: key}).First(&setting).Error; err != nil {
		return nil, classify("get setting", err)
	}
	return &setting, nil
}

func (s *gormSettings) Upsert(ctx context.Context, key, value string) (*models.SiteSetting, error) {
	setting, err := s.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		setting = &models.SiteSetting{Key: key, Value: value}
		if err := s.db.WithContext(ctx).Create(setting).Error; err != nil {
			return nil, fmt.Errorf("create setting %q: %w", key, err)
		}
		return setting, nil
	case err != nil:
		return nil, err
	}

	setting.Value = value
	err = s.db.WithContext(ctx).
		Model(&models.SiteSetting{}).
		Where("id = ?", setting.ID).
		Update("value", value).Error
	if err != nil {
		return nil, fmt.Errorf("update setting %q: %w", key, err)
	}
	return setting, nil
}

func (s *gormSettings) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.SiteSetting{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count settings: %w", err)
	}
	return n, nil
}
