package content

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"bod/models"
)

// DatasetKey is the storage key holding the whole local dataset.
const DatasetKey = "bod_mock_db"

// localUser has its own JSON shape because models.User never serializes
// its password hash.
type localUser struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	Role         string `json:"role"`
}

type dataset struct {
	Users     []localUser              `json:"users"`
	Messages  []models.ContactMessage  `json:"contactMessages"`
	Settings  []models.SiteSetting     `json:"siteSettings"`
	Services  []models.Service         `json:"services"`
	Articles  []models.Article         `json:"articles"`
	WorkItems []models.WorkItem        `json:"workItems"`
	Solutions []models.DigitalSolution `json:"digitalSolutions"`
	// Seq is the highest id ever handed out per table.
	Seq map[string]uint `json:"seq"`
}

func (d *dataset) nextID(table string, ids func(yield func(uint) bool)) uint {
	if d.Seq == nil {
		d.Seq = make(map[string]uint)
	}
	top := d.Seq[table]
	for id := range ids {
		top = max(top, id)
	}
	top++
	d.Seq[table] = top
	return top
}

// localDB reads the document, lets the caller mutate it and writes it back on
// every call. mu serializes callers within this process.
type localDB struct {
	mu      sync.Mutex
	storage Storage
}

func (l *localDB) load() (*dataset, error) {
	raw, ok, err := l.storage.Get(DatasetKey)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	d := &dataset{Seq: make(map[string]uint)}
	if !ok || raw == "" {
		return d, nil
	}
	if err := json.Unmarshal([]byte(raw), d); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return d, nil
}

func (l *localDB) view(fn func(d *dataset) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, err := l.load()
	if err != nil {
		return err
	}
	return fn(d)
}

func (l *localDB) update(fn func(d *dataset) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, err := l.load()
	if err != nil {
		return err
	}
	if err := fn(d); err != nil {
		return err
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := l.storage.Set(DatasetKey, string(raw)); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	return nil
}

// NewLocalRepositories returns the key/value backend over storage.
func NewLocalRepositories(storage Storage) *Repositories {
	db := &localDB{storage: storage}
	return &Repositories{
		Users:     &localUsers{db: db},
		Messages:  &localMessages{db: db},
		Settings:  &localSettings{db: db},
		Services:  newLocalStore(db, ServiceKind, func(d *dataset) *[]models.Service { return &d.Services }),
		Articles:  newLocalStore(db, ArticleKind, func(d *dataset) *[]models.Article { return &d.Articles }),
		WorkItems: newLocalStore(db, WorkItemKind, func(d *dataset) *[]models.WorkItem { return &d.WorkItems }),
		Solutions: newLocalStore(db, SolutionKind, func(d *dataset) *[]models.DigitalSolution { return &d.Solutions }),
	}
}

type localStore[T any, PT Record[T]] struct {
	db    *localDB
	kind  Kind[T]
	table func(d *dataset) *[]T
}

func newLocalStore[T any, PT Record[T]](db *localDB, kind Kind[T], table func(d *dataset) *[]T) *localStore[T, PT] {
	return &localStore[T, PT]{db: db, kind: kind, table: table}
}

func (s *localStore[T, PT]) sorted(rows []T, keep func(PT) bool) []T {
	out := make([]T, 0, len(rows))
	for i := range rows {
		if keep(PT(&rows[i])) {
			out = append(out, rows[i])
		}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		switch {
		case s.kind.Less(&a, &b):
			return -1
		case s.kind.Less(&b, &a):
			return 1
		}
		return 0
	})
	return out
}

func (s *localStore[T, PT]) filter(keep func(PT) bool) ([]T, error) {
	var out []T
	err := s.db.view(func(d *dataset) error {
		out = s.sorted(*s.table(d), keep)
		return nil
	})
	return out, err
}

func (s *localStore[T, PT]) List(ctx context.Context) ([]T, error) {
	return s.filter(func(PT) bool { return true })
}

func (s *localStore[T, PT]) ListPublished(ctx context.Context) ([]T, error) {
	return s.filter(func(row PT) bool { return row.IsPublished() })
}

func (s *localStore[T, PT]) ListByCategory(ctx context.Context, value string) ([]T, error) {
	if s.kind.CategoryColumn == "" {
		return s.ListPublished(ctx)
	}
	return s.filter(func(row PT) bool { return row.IsPublished() && row.CategoryValue() == value })
}

func (s *localStore[T, PT]) find(keep func(PT) bool) (*T, error) {
	var found *T
	err := s.db.view(func(d *dataset) error {
		rows := *s.table(d)
		for i := range rows {
			if keep(PT(&rows[i])) {
				row := rows[i]
				found = &row
				return nil
			}
		}
		return ErrNotFound
	})
	return found, err
}

func (s *localStore[T, PT]) GetByID(ctx context.Context, id uint) (*T, error) {
	return s.find(func(row PT) bool { return row.GetID() == id })
}

func (s *localStore[T, PT]) GetBySlug(ctx context.Context, slug string) (*T, error) {
	return s.find(func(row PT) bool { return row.GetSlug() == slug })
}

func (s *localStore[T, PT]) slugTaken(rows []T, slug string, except uint) bool {
	for i := range rows {
		row := PT(&rows[i])
		if row.GetSlug() == slug && row.GetID() != except {
			return true
		}
	}
	return false
}

func (s *localStore[T, PT]) Create(ctx context.Context, row *T) error {
	return s.db.update(func(d *dataset) error {
		rows := s.table(d)
		if s.slugTaken(*rows, PT(row).GetSlug(), 0) {
			return fmt.Errorf("create %s: %w", s.kind.Name, ErrSlugTaken)
		}
		PT(row).SetID(d.nextID(s.kind.Name, func(yield func(uint) bool) {
			for i := range *rows {
				if !yield(PT(&(*rows)[i]).GetID()) {
					return
				}
			}
		}))
		PT(row).Stamp(now())
		*rows = append(*rows, *row)
		return nil
	})
}

func (s *localStore[T, PT]) Update(ctx context.Context, id uint, patch models.Patch[T]) (*T, error) {
	var updated *T
	err := s.db.update(func(d *dataset) error {
		rows := *s.table(d)
		for i := range rows {
			if PT(&rows[i]).GetID() != id {
				continue
			}
			row := rows[i]
			patch.Apply(&row)
			PT(&row).SetID(id)
			if s.slugTaken(rows, PT(&row).GetSlug(), id) {
				return fmt.Errorf("update %s: %w", s.kind.Name, ErrSlugTaken)
			}
			rows[i] = row
			updated = &row
			return nil
		}
		return ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *localStore[T, PT]) Delete(ctx context.Context, id uint) error {
	return s.db.update(func(d *dataset) error {
		rows := s.table(d)
		*rows = slices.DeleteFunc(*rows, func(row T) bool { return PT(&row).GetID() == id })
		return nil
	})
}

func (s *localStore[T, PT]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.view(func(d *dataset) error {
		n = int64(len(*s.table(d)))
		return nil
	})
	return n, err
}

type localUsers struct {
	db *localDB
}

func (u localUser) model() *models.User {
	return &models.User{ID: u.ID, Username: u.Username, PasswordHash: u.PasswordHash, Role: u.Role}
}

func (s *localUsers) find(keep func(localUser) bool) (*models.User, error) {
	var found *models.User
	err := s.db.view(func(d *dataset) error {
		for _, u := range d.Users {
			if keep(u) {
				found = u.model()
				return nil
			}
		}
		return ErrNotFound
	})
	return found, err
}

func (s *localUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.find(func(u localUser) bool { return u.ID == id })
}

func (s *localUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.find(func(u localUser) bool { return u.Username == username })
}

func (s *localUsers) Create(ctx context.Context, user *models.User) error {
	return s.db.update(func(d *dataset) error {
		for _, u := range d.Users {
			if u.Username == user.Username {
				return fmt.Errorf("create user %q: username already in use", user.Username)
			}
		}
		if user.Role == "" {
			user.Role = "admin"
		}
		user.ID = d.nextID("users", func(yield func(uint) bool) {
			for _, u := range d.Users {
				if !yield(u.ID) {
					return
				}
			}
		})
		d.Users = append(d.Users, localUser{
			ID:           user.ID,
			Username:     user.Username,
			PasswordHash: user.PasswordHash,
			Role:         user.Role,
		})
		return nil
	})
}

type localMessages struct {
	db *localDB
}

func (s *localMessages) List(ctx context.Context) ([]models.ContactMessage, error) {
	var out []models.ContactMessage
	err := s.db.view(func(d *dataset) error {
		out = append([]models.ContactMessage{}, d.Messages...)
		slices.SortStableFunc(out, func(a, b models.ContactMessage) int {
			switch {
			case newerFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID):
				return -1
			case newerFirst(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano(), b.ID, a.ID):
				return 1
			}
			return 0
		})
		return nil
	})
	return out, err
}

func (s *localMessages) Get(ctx context.Context, id uint) (*models.ContactMessage, error) {
	var found *models.ContactMessage
	err := s.db.view(func(d *dataset) error {
		for _, m := range d.Messages {
			if m.ID == id {
				found = &m
				return nil
			}
		}
		return ErrNotFound
	})
	return found, err
}

func (s *localMessages) Create(ctx context.Context, msg *models.ContactMessage) error {
	return s.db.update(func(d *dataset) error {
		msg.ID = d.nextID("contact_messages", func(yield func(uint) bool) {
			for _, m := range d.Messages {
				if !yield(m.ID) {
					return
				}
			}
		})
		msg.IsRead = false
		msg.CreatedAt = now()
		d.Messages = append(d.Messages, *msg)
		return nil
	})
}

func (s *localMessages) MarkRead(ctx context.Context, id uint) error {
	return s.db.update(func(d *dataset) error {
		for i := range d.Messages {
			if d.Messages[i].ID == id {
				d.Messages[i].IsRead = true
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *localMessages) Delete(ctx context.Context, id uint) error {
	return s.db.update(func(d *dataset) error {
		d.Messages = slices.DeleteFunc(d.Messages, func(m models.ContactMessage) bool { return m.ID == id })
		return nil
	})
}

func (s *localMessages) UnreadCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.view(func(d *dataset) error {
		for _, m := range d.Messages {
			if !m.IsRead {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (s *localMessages) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.view(func(d *dataset) error {
		n = int64(len(d.Messages))
		return nil
	})
	return n, err
}

type localSettings struct {
	db *localDB
}

func (s *localSettings) List(ctx context.Context) ([]models.SiteSetting, error) {
	var out []models.SiteSetting
	err := s.db.view(func(d *dataset) error {
		out = append([]models.SiteSetting{}, d.Settings...)
		return nil
	})
	return out, err
}

func (s *localSettings) Get(ctx context.Context, key string) (*models.SiteSetting, error) {
	var found *models.SiteSetting
	err := s.db.view(func(d *dataset) error {
		for _, st := range d.Settings {
			if st.Key == key {
				found = &st
				return nil
			}
		}
		return ErrNotFound
	})
	return found, err
}

func (s *localSettings) Upsert(ctx context.Context, key, value string) (*models.SiteSetting, error) {
	var out models.SiteSetting
	err := s.db.update(func(d *dataset) error {
		for i := range d.Settings {
			if d.Settings[i].Key == key {
				d.Settings[i].Value = value
				out = d.Settings[i]
				return nil
			}
		}
		out = models.SiteSetting{
			ID: d.nextID("site_settings", func(yield func(uint) bool) {
				for _, st := range d.Settings {
					if !yield(st.ID) {
						return
					}
				}
			}),
			Key:   key,
			Value: value,
		}
		d.Settings = append(d.Settings, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *localSettings) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.view(func(d *dataset) error {
		n = int64(len(d.Settings))
		return nil
	})
	return n, err
}
