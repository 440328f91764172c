package models

import "time"

type User struct {
	ID           uint   `gorm:"primary_key;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"` // json:"-" keeps the hash out of every response
	Role         string `gorm:"not null;default:admin" json:"role"`
}

type ContactMessage struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"not null" json:"phone"`
	Email     string    `gorm:"not null" json:"email"`
	Purpose   Purpose   `gorm:"not null" json:"purpose"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"not null;index" json:"isRead"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

type SiteSetting struct {
	ID    uint   `gorm:"primary_key;autoIncrement" json:"id"`
	Key   string `gorm:"uniqueIndex;not null" json:"key"`
	Value string `gorm:"type:text;not null" json:"value"`
}

type Service struct {
	ID           uint     `gorm:"primary_key;autoIncrement" json:"id"`
	Title        string   `gorm:"not null" json:"title"`
	Slug         string   `gorm:"uniqueIndex;not null" json:"slug"`
	Description  string   `gorm:"type:text;not null" json:"description"`
	Deliverables []string `gorm:"type:text;serializer:json" json:"deliverables"` // order matters, duplicates allowed
	Icon         string   `gorm:"not null" json:"icon"`
	SortOrder    int      `gorm:"not null;index" json:"sortOrder"`
	Published    bool     `gorm:"not null;index" json:"published"`
}

type Article struct {
	ID          uint            `gorm:"primary_key;autoIncrement" json:"id"`
	Title       string          `gorm:"not null" json:"title"`
	Slug        string          `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt     string          `gorm:"type:text;not null" json:"excerpt"`
	Content     string          `gorm:"type:text;not null" json:"content"`
	Category    ArticleCategory `gorm:"not null;index" json:"category"`
	ImageURL    *string         `json:"imageUrl"`
	PublishDate *string         `json:"publishDate"`
	Published   bool            `gorm:"not null;index" json:"published"`
	CreatedAt   time.Time       `gorm:"not null;index" json:"createdAt"`
}

type WorkItem struct {
	ID          uint         `gorm:"primary_key;autoIncrement" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Slug        string       `gorm:"uniqueIndex;not null" json:"slug"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Content     string       `gorm:"type:text;not null" json:"content"`
	Category    WorkCategory `gorm:"not null;index" json:"category"`
	ImageURL    *string      `json:"imageUrl"`
	FileURL     *string      `json:"fileUrl"`
	Published   bool         `gorm:"not null;index" json:"published"`
	CreatedAt   time.Time    `gorm:"not null;index" json:"createdAt"`
}

type DigitalSolution struct {
	ID           uint         `gorm:"primary_key;autoIncrement" json:"id"`
	Title        string       `gorm:"not null" json:"title"`
	Slug         string       `gorm:"uniqueIndex;not null" json:"slug"`
	Description  string       `gorm:"type:text;not null" json:"description"`
	Content      string       `gorm:"type:text;not null" json:"content"`
	SolutionType SolutionType `gorm:"not null;index" json:"solutionType"`
	ImageURL     *string      `json:"imageUrl"`
	Link         *string      `json:"link"`
	Published    bool         `gorm:"not null;index" json:"published"`
	CreatedAt    time.Time    `gorm:"not null;index" json:"createdAt"`
}

// PageVisit is one counted view of a public detail page.
type PageVisit struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Section   string    `gorm:"not null;index:idx_visit_page" json:"section"`
	Slug      string    `gorm:"not null;index:idx_visit_page" json:"slug"`
	VisitorID string    `gorm:"not null;index" json:"-"`
	IP        string    `gorm:"not null" json:"-"`
	Language  *string   `json:"language"`
	Browser   *string   `json:"browser"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}
