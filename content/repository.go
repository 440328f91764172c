// Package content holds the storage contract for the site's entities and its
// two backends: gorm for the server and a key/value document for the mock API.
package content

import (
	"context"
	"errors"

	"bod/models"
)

var (
	ErrNotFound  = errors.New("content: not found")
	ErrSlugTaken = errors.New("content: slug already in use")
)

// Record constrains T so that *T carries the Content accessors.
type Record[T any] interface {
	*T
	models.Content
}

// Store is the CRUD contract shared by every publishable entity.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	ListPublished(ctx context.Context) ([]T, error)
	ListByCategory(ctx context.Context, value string) ([]T, error)
	GetByID(ctx context.Context, id uint) (*T, error)
	GetBySlug(ctx context.Context, slug string) (*T, error)
	Create(ctx context.Context, row *T) error
	Update(ctx context.Context, id uint, patch models.Patch[T]) (*T, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type MessageStore interface {
	List(ctx context.Context) ([]models.ContactMessage, error)
	Get(ctx context.Context, id uint) (*models.ContactMessage, error)
	Create(ctx context.Context, msg *models.ContactMessage) error
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	UnreadCount(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type SettingStore interface {
	List(ctx context.Context) ([]models.SiteSetting, error)
	Get(ctx context.Context, key string) (*models.SiteSetting, error)
	Upsert(ctx context.Context, key, value string) (*models.SiteSetting, error)
	Count(ctx context.Context) (int64, error)
}

type Repositories struct {
	Users     UserStore
	Messages  MessageStore
	Settings  SettingStore
	Services  Store[models.Service]
	Articles  Store[models.Article]
	WorkItems Store[models.WorkItem]
	Solutions Store[models.DigitalSolution]
}

// Kind describes how an entity is ordered and filtered.
type Kind[T any] struct {
	Name           string
	CategoryColumn string
	OrderBy        string
	// Less must agree with OrderBy.
	Less func(a, b *T) bool
}

var (
	ServiceKind = Kind[models.Service]{
		Name:    "services",
		OrderBy: "sort_order ASC, id ASC",
		Less: func(a, b *models.Service) bool {
			if a.SortOrder != b.SortOrder {
				return a.SortOrder < b.SortOrder
			}
			return a.ID < b.ID
		},
	}
	ArticleKind = Kind[models.Article]{
		Name:           "articles",
		CategoryColumn: "category",
		OrderBy:        "created_at DESC, id DESC",
		Less: func(a, b *models.Article) bool {
			return newerFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
		},
	}
	WorkItemKind = Kind[models.WorkItem]{
		Name:           "work_items",
		CategoryColumn: "category",
		OrderBy:        "created_at DESC, id DESC",
		Less: func(a, b *models.WorkItem) bool {
			return newerFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
		},
	}
	SolutionKind = Kind[models.DigitalSolution]{
		Name:           "digital_solutions",
		CategoryColumn: "solution_type",
		OrderBy:        "created_at DESC, id DESC",
		Less: func(a, b *models.DigitalSolution) bool {
			return newerFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
		},
	}
)

func newerFirst(ta, tb int64, ida, idb uint) bool {
	if ta != tb {
		return ta > tb
	}
	return ida > idb
}
