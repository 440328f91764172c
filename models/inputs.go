package models

// Create payloads carry gin binding tags. Patch payloads use pointer fields so
// an absent key leaves the stored value untouched; they are decoded strictly,
// which is what keeps id and createdAt out of updates.

const DefaultServiceIcon = "FileText"

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ContactInput struct {
	Name    string  `json:"name" binding:"required"`
	Phone   string  `json:"phone" binding:"required"`
	Email   string  `json:"email" binding:"required,email"`
	Purpose Purpose `json:"purpose" binding:"omitempty,oneof=inquiry complaint callback"`
	Message string  `json:"message" binding:"required"`
}

func (in ContactInput) Build() ContactMessage {
	purpose := in.Purpose
	if purpose == "" {
		purpose = PurposeInquiry
	}
	return ContactMessage{
		Name:    in.Name,
		Phone:   in.Phone,
		Email:   in.Email,
		Purpose: purpose,
		Message: in.Message,
	}
}

type SettingInput struct {
	Key   string  `json:"key" binding:"required"`
	Value *string `json:"value" binding:"required"`
}

type ServiceInput struct {
	Title        string   `json:"title" binding:"required"`
	Slug         string   `json:"slug" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Deliverables []string `json:"deliverables"`
	Icon         string   `json:"icon"`
	SortOrder    int      `json:"sortOrder"`
	Published    *bool    `json:"published"`
}

func (in ServiceInput) Build() Service {
	s := Service{
		Title:        in.Title,
		Slug:         in.Slug,
		Description:  in.Description,
		Deliverables: in.Deliverables,
		Icon:         in.Icon,
		SortOrder:    in.SortOrder,
		Published:    true,
	}
	if s.Deliverables == nil {
		s.Deliverables = []string{}
	}
	if s.Icon == "" {
		s.Icon = DefaultServiceIcon
	}
	if in.Published != nil {
		s.Published = *in.Published
	}
	return s
}

type ServicePatch struct {
	Title        *string   `json:"title" binding:"omitnil,min=1"`
	Slug         *string   `json:"slug" binding:"omitnil,min=1"`
	Description  *string   `json:"description" binding:"omitnil,min=1"`
	Deliverables *[]string `json:"deliverables"`
	Icon         *string   `json:"icon" binding:"omitnil,min=1"`
	SortOrder    *int      `json:"sortOrder"`
	Published    *bool     `json:"published"`
}

func (p ServicePatch) Apply(s *Service) {
	set(&s.Title, p.Title)
	set(&s.Slug, p.Slug)
	set(&s.Description, p.Description)
	set(&s.Deliverables, p.Deliverables)
	set(&s.Icon, p.Icon)
	set(&s.SortOrder, p.SortOrder)
	set(&s.Published, p.Published)
	if s.Deliverables == nil {
		s.Deliverables = []string{}
	}
}

type ArticleInput struct {
	Title       string          `json:"title" binding:"required"`
	Slug        string          `json:"slug" binding:"required"`
	Excerpt     string          `json:"excerpt" binding:"required"`
	Content     string          `json:"content" binding:"required"`
	Category    ArticleCategory `json:"category" binding:"omitempty,oneof=news article newsletter"`
	ImageURL    *string         `json:"imageUrl"`
	PublishDate *string         `json:"publishDate"`
	Published   *bool           `json:"published"`
}

func (in ArticleInput) Build() Article {
	a := Article{
		Title:       in.Title,
		Slug:        in.Slug,
		Excerpt:     in.Excerpt,
		Content:     in.Content,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		PublishDate: in.PublishDate,
		Published:   true,
	}
	if a.Category == "" {
		a.Category = CategoryArticle
	}
	if in.Published != nil {
		a.Published = *in.Published
	}
	return a
}

type ArticlePatch struct {
	Title       *string          `json:"title" binding:"omitnil,min=1"`
	Slug        *string          `json:"slug" binding:"omitnil,min=1"`
	Excerpt     *string          `json:"excerpt" binding:"omitnil,min=1"`
	Content     *string          `json:"content" binding:"omitnil,min=1"`
	Category    *ArticleCategory `json:"category" binding:"omitnil,oneof=news article newsletter"`
	ImageURL    *string          `json:"imageUrl"`
	PublishDate *string          `json:"publishDate"`
	Published   *bool            `json:"published"`
}

func (p ArticlePatch) Apply(a *Article) {
	set(&a.Title, p.Title)
	set(&a.Slug, p.Slug)
	set(&a.Excerpt, p.Excerpt)
	set(&a.Content, p.Content)
	set(&a.Category, p.Category)
	setOptional(&a.ImageURL, p.ImageURL)
	setOptional(&a.PublishDate, p.PublishDate)
	set(&a.Published, p.Published)
}

type WorkItemInput struct {
	Title       string       `json:"title" binding:"required"`
	Slug        string       `json:"slug" binding:"required"`
	Description string       `json:"description" binding:"required"`
	Content     string       `json:"content" binding:"required"`
	Category    WorkCategory `json:"category" binding:"required,oneof=strategic-planning procedural-guides annual-plans community-initiatives motion-graphics"`
	ImageURL    *string      `json:"imageUrl"`
	FileURL     *string      `json:"fileUrl"`
	Published   *bool        `json:"published"`
}

func (in WorkItemInput) Build() WorkItem {
	w := WorkItem{
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
		Content:     in.Content,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		FileURL:     in.FileURL,
		Published:   true,
	}
	if in.Published != nil {
		w.Published = *in.Published
	}
	return w
}

type WorkItemPatch struct {
	Title       *string       `json:"title" binding:"omitnil,min=1"`
	Slug        *string       `json:"slug" binding:"omitnil,min=1"`
	Description *string       `json:"description" binding:"omitnil,min=1"`
	Content     *string       `json:"content" binding:"omitnil,min=1"`
	Category    *WorkCategory `json:"category" binding:"omitnil,oneof=strategic-planning procedural-guides annual-plans community-initiatives motion-graphics"`
	ImageURL    *string       `json:"imageUrl"`
	FileURL     *string       `json:"fileUrl"`
	Published   *bool         `json:"published"`
}

func (p WorkItemPatch) Apply(w *WorkItem) {
	set(&w.Title, p.Title)
	set(&w.Slug, p.Slug)
	set(&w.Description, p.Description)
	set(&w.Content, p.Content)
	set(&w.Category, p.Category)
	setOptional(&w.ImageURL, p.ImageURL)
	setOptional(&w.FileURL, p.FileURL)
	set(&w.Published, p.Published)
}

type SolutionInput struct {
	Title        string       `json:"title" binding:"required"`
	Slug         string       `json:"slug" binding:"required"`
	Description  string       `json:"description" binding:"required"`
	Content      string       `json:"content" binding:"required"`
	SolutionType SolutionType `json:"solutionType" binding:"required,oneof=platform case-study publication"`
	ImageURL     *string      `json:"imageUrl"`
	Link         *string      `json:"link"`
	Published    *bool        `json:"published"`
}

func (in SolutionInput) Build() DigitalSolution {
	d := DigitalSolution{
		Title:        in.Title,
		Slug:         in.Slug,
		Description:  in.Description,
		Content:      in.Content,
		SolutionType: in.SolutionType,
		ImageURL:     in.ImageURL,
		Link:         in.Link,
		Published:    true,
	}
	if in.Published != nil {
		d.Published = *in.Published
	}
	return d
}

type SolutionPatch struct {
	Title        *string       `json:"title" binding:"omitnil,min=1"`
	Slug         *string       `json:"slug" binding:"omitnil,min=1"`
	Description  *string       `json:"description" binding:"omitnil,min=1"`
	Content      *string       `json:"content" binding:"omitnil,min=1"`
	SolutionType *SolutionType `json:"solutionType" binding:"omitnil,oneof=platform case-study publication"`
	ImageURL     *string       `json:"imageUrl"`
	Link         *string       `json:"link"`
	Published    *bool         `json:"published"`
}

func (p SolutionPatch) Apply(d *DigitalSolution) {
	set(&d.Title, p.Title)
	set(&d.Slug, p.Slug)
	set(&d.Description, p.Description)
	set(&d.Content, p.Content)
	set(&d.SolutionType, p.SolutionType)
	setOptional(&d.ImageURL, p.ImageURL)
	setOptional(&d.Link, p.Link)
	set(&d.Published, p.Published)
}

func set[V any](dst *V, v *V) {
	if v != nil {
		*dst = *v
	}
}

// setOptional stores a copy so the row never aliases the decoded patch.
func setOptional(dst **string, v *string) {
	if v != nil {
		s := *v
		*dst = &s
	}
}
