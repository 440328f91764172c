package models

type Purpose string

const (
	PurposeInquiry   Purpose = "inquiry"
	PurposeComplaint Purpose = "complaint"
	PurposeCallback  Purpose = "callback"
)

func (p Purpose) Valid() bool {
	switch p {
	case PurposeInquiry, PurposeComplaint, PurposeCallback:
		return true
	}
	return false
}

type ArticleCategory string

const (
	CategoryNews       ArticleCategory = "news"
	CategoryArticle    ArticleCategory = "article"
	CategoryNewsletter ArticleCategory = "newsletter"
)

func (c ArticleCategory) Valid() bool {
	switch c {
	case CategoryNews, CategoryArticle, CategoryNewsletter:
		return true
	}
	return false
}

type WorkCategory string

const (
	WorkStrategicPlanning    WorkCategory = "strategic-planning"
	WorkProceduralGuides     WorkCategory = "procedural-guides"
	WorkAnnualPlans          WorkCategory = "annual-plans"
	WorkCommunityInitiatives WorkCategory = "community-initiatives"
	WorkMotionGraphics       WorkCategory = "motion-graphics"
)

func (c WorkCategory) Valid() bool {
	switch c {
	case WorkStrategicPlanning, WorkProceduralGuides, WorkAnnualPlans,
		WorkCommunityInitiatives, WorkMotionGraphics:
		return true
	}
	return false
}

type SolutionType string

const (
	SolutionPlatform    SolutionType = "platform"
	SolutionCaseStudy   SolutionType = "case-study"
	SolutionPublication SolutionType = "publication"
)

func (s SolutionType) Valid() bool {
	switch s {
	case SolutionPlatform, SolutionCaseStudy, SolutionPublication:
		return true
	}
	return false
}
