package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"bod/common"
	"bod/content"
	"bod/models"
)

const AdminUsername = "admin"

//go:embed seed.yaml
var seedYAML []byte

type seedData struct {
	Settings []struct {
		Key   string `yaml:"key"`
		Value string `yaml:"value"`
	} `yaml:"settings"`
	Services []struct {
		Title        string   `yaml:"title"`
		Slug         string   `yaml:"slug"`
		Description  string   `yaml:"description"`
		Deliverables []string `yaml:"deliverables"`
		Icon         string   `yaml:"icon"`
		SortOrder    int      `yaml:"sort_order"`
	} `yaml:"services"`
	WorkItems []struct {
		Title       string              `yaml:"title"`
		Slug        string              `yaml:"slug"`
		Description string              `yaml:"description"`
		Content     string              `yaml:"content"`
		Category    models.WorkCategory `yaml:"category"`
		ImageURL    *string             `yaml:"image_url"`
		FileURL     *string             `yaml:"file_url"`
	} `yaml:"work_items"`
	Articles []struct {
		Title       string                 `yaml:"title"`
		Slug        string                 `yaml:"slug"`
		Excerpt     string                 `yaml:"excerpt"`
		Content     string                 `yaml:"content"`
		Category    models.ArticleCategory `yaml:"category"`
		ImageURL    *string                `yaml:"image_url"`
		PublishDate *string                `yaml:"publish_date"`
	} `yaml:"articles"`
	Solutions []struct {
		Title        string              `yaml:"title"`
		Slug         string              `yaml:"slug"`
		Description  string              `yaml:"description"`
		Content      string              `yaml:"content"`
		SolutionType models.SolutionType `yaml:"solution_type"`
		ImageURL     *string             `yaml:"image_url"`
		Link         *string             `yaml:"link"`
	} `yaml:"solutions"`
}

func loadSeedData() (*seedData, error) {
	var data seedData
	if err := yaml.Unmarshal(seedYAML, &data); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	return &data, nil
}

// Seed creates the admin account if it is missing and fills every empty
// content table with the bundled sample data. A failing table is logged and
// skipped; the joined error is returned once all tables were tried.
func Seed(ctx context.Context, repos *content.Repositories, adminPassword string, log *zap.Logger) error {
	data, err := loadSeedData()
	if err != nil {
		return err
	}

	steps := []struct {
		name string
		run  func() (int, error)
	}{
		{"admin", func() (int, error) { return seedAdmin(ctx, repos.Users, adminPassword) }},
		{"settings", func() (int, error) { return seedSettings(ctx, repos.Settings, data) }},
		{"services", func() (int, error) { return seedServices(ctx, repos.Services, data) }},
		{"work_items", func() (int, error) { return seedWorkItems(ctx, repos.WorkItems, data) }},
		{"articles", func() (int, error) { return seedArticles(ctx, repos.Articles, data) }},
		{"digital_solutions", func() (int, error) { return seedSolutions(ctx, repos.Solutions, data) }},
	}

	var errs []error
	for _, step := range steps {
		n, err := step.run()
		if err != nil {
			log.Warn("seeding failed", zap.String("table", step.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("seed %s: %w", step.name, err))
			continue
		}
		if n > 0 {
			log.Info("seeded", zap.String("table", step.name), zap.Int("rows", n))
		}
	}
	return errors.Join(errs...)
}

func seedAdmin(ctx context.Context, users content.UserStore, password string) (int, error) {
	_, err := users.GetByUsername(ctx, AdminUsername)
	if err == nil {
		return 0, nil
	}
	if !errors.Is(err, content.ErrNotFound) {
		return 0, err
	}
	hash, err := common.HashPassword(password)
	if err != nil {
		return 0, err
	}
	if err := users.Create(ctx, &models.User{Username: AdminUsername, PasswordHash: hash, Role: "admin"}); err != nil {
		return 0, err
	}
	return 1, nil
}

func seedSettings(ctx context.Context, settings content.SettingStore, data *seedData) (int, error) {
	n, err := settings.Count(ctx)
	if err != nil || n > 0 {
		return 0, err
	}
	for _, s := range data.Settings {
		if _, err := settings.Upsert(ctx, s.Key, s.Value); err != nil {
			return 0, err
		}
	}
	return len(data.Settings), nil
}

// seedRows inserts rows only when the store is empty.
func seedRows[T any](ctx context.Context, store content.Store[T], rows []T) (int, error) {
	n, err := store.Count(ctx)
	if err != nil || n > 0 {
		return 0, err
	}
	for i := range rows {
		if err := store.Create(ctx, &rows[i]); err != nil {
			return i, err
		}
	}
	return len(rows), nil
}

func seedServices(ctx context.Context, store content.Store[models.Service], data *seedData) (int, error) {
	rows := make([]models.Service, 0, len(data.Services))
	for _, s := range data.Services {
		rows = append(rows, models.ServiceInput{
			Title:        s.Title,
			Slug:         s.Slug,
			Description:  s.Description,
			Deliverables: s.Deliverables,
			Icon:         s.Icon,
			SortOrder:    s.SortOrder,
		}.Build())
	}
	return seedRows(ctx, store, rows)
}

func seedWorkItems(ctx context.Context, store content.Store[models.WorkItem], data *seedData) (int, error) {
	rows := make([]models.WorkItem, 0, len(data.WorkItems))
	for _, w := range data.WorkItems {
		rows = append(rows, models.WorkItemInput{
			Title:       w.Title,
			Slug:        w.Slug,
			Description: w.Description,
			Content:     w.Content,
			Category:    w.Category,
			ImageURL:    w.ImageURL,
			FileURL:     w.FileURL,
		}.Build())
	}
	return seedRows(ctx, store, rows)
}

func seedArticles(ctx context.Context, store content.Store[models.Article], data *seedData) (int, error) {
	rows := make([]models.Article, 0, len(data.Articles))
	for _, a := range data.Articles {
		rows = append(rows, models.ArticleInput{
			Title:       a.Title,
			Slug:        a.Slug,
			Excerpt:     a.Excerpt,
			Content:     a.Content,
			Category:    a.Category,
			ImageURL:    a.ImageURL,
			PublishDate: a.PublishDate,
		}.Build())
	}
	return seedRows(ctx, store, rows)
}

func seedSolutions(ctx context.Context, store content.Store[models.DigitalSolution], data *seedData) (int, error) {
	rows := make([]models.DigitalSolution, 0, len(data.Solutions))
	for _, s := range data.Solutions {
		rows = append(rows, models.SolutionInput{
			Title:        s.Title,
			Slug:         s.Slug,
			Description:  s.Description,
			Content:      s.Content,
			SolutionType: s.SolutionType,
			ImageURL:     s.ImageURL,
			Link:         s.Link,
		}.Build())
	}
	return seedRows(ctx, store, rows)
}
