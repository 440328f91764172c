package models

import "time"

// Content is implemented by the pointer types of the publishable entities.
type Content interface {
	GetID() uint
	SetID(id uint)
	GetSlug() string
	IsPublished() bool
	// CategoryValue is the value of the column the public filter matches on.
	CategoryValue() string
	// Stamp sets the creation time on entities that carry one.
	Stamp(now time.Time)
}

// Patch is a partial update. Absent fields keep their stored value.
type Patch[T any] interface {
	Apply(row *T)
}

// Input is a validated create payload.
type Input[T any] interface {
	Build() T
}

func (s *Service) GetID() uint           { return s.ID }
func (s *Service) SetID(id uint)         { s.ID = id }
func (s *Service) GetSlug() string       { return s.Slug }
func (s *Service) IsPublished() bool     { return s.Published }
func (s *Service) CategoryValue() string { return "" }
func (s *Service) Stamp(time.Time)       {}

func (a *Article) GetID() uint           { return a.ID }
func (a *Article) SetID(id uint)         { a.ID = id }
func (a *Article) GetSlug() string       { return a.Slug }
func (a *Article) IsPublished() bool     { return a.Published }
func (a *Article) CategoryValue() string { return string(a.Category) }
func (a *Article) Stamp(now time.Time)   { a.CreatedAt = now }

func (w *WorkItem) GetID() uint           { return w.ID }
func (w *WorkItem) SetID(id uint)         { w.ID = id }
func (w *WorkItem) GetSlug() string       { return w.Slug }
func (w *WorkItem) IsPublished() bool     { return w.Published }
func (w *WorkItem) CategoryValue() string { return string(w.Category) }
func (w *WorkItem) Stamp(now time.Time)   { w.CreatedAt = now }

func (d *DigitalSolution) GetID() uint           { return d.ID }
func (d *DigitalSolution) SetID(id uint)         { d.ID = id }
func (d *DigitalSolution) GetSlug() string       { return d.Slug }
func (d *DigitalSolution) IsPublished() bool     { return d.Published }
func (d *DigitalSolution) CategoryValue() string { return string(d.SolutionType) }
func (d *DigitalSolution) Stamp(now time.Time)   { d.CreatedAt = now }
