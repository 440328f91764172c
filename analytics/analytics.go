// Package analytics counts visits to public detail pages.
package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bod/common"
	"bod/models"
)

const (
	VisitorCookie = "bod_visitor_id"

	// a returning visitor is counted again only after this window
	revisitWindow = 30 * time.Minute

	defaultDays  = 30
	maxDays      = 365
	topPageLimit = 10
)

// Tracker records page visits. A nil Tracker records nothing and reports
// empty statistics.
type Tracker struct {
	db     *gorm.DB
	log    *zap.Logger
	secure bool
	now    func() time.Time
}

func NewTracker(db *gorm.DB, log *zap.Logger, secureCookie bool) *Tracker {
	return &Tracker{db: db, log: log, secure: secureCookie, now: time.Now}
}

// Track counts a visit once the page was served with 200. Mount it before
// the page cache so cache hits are counted too.
func (t *Tracker) Track(section string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if t == nil {
			c.Next()
			return
		}
		visitorID := t.visitorID(c)
		c.Next()

		if c.Writer.Status() != http.StatusOK {
			return
		}
		if err := t.record(c, section, c.Param("slug"), visitorID); err != nil {
			t.log.Warn("recording visit failed",
				zap.String("section", section),
				zap.Error(err),
				zap.String("request_id", common.RequestIDFrom(c)),
			)
		}
	}
}

func (t *Tracker) record(c *gin.Context, section, slug, visitorID string) error {
	ctx := c.Request.Context()
	now := t.now().UTC()

	var recent int64
	err := t.db.WithContext(ctx).Model(&models.PageVisit{}).
		Where("visitor_id = ? AND section = ? AND slug = ? AND created_at > ?",
			visitorID, section, slug, now.Add(-revisitWindow)).
		Count(&recent).Error
	if err != nil {
		return err
	}
	if recent > 0 {
		return nil
	}

	visit := models.PageVisit{
		Section:   section,
		Slug:      slug,
		VisitorID: visitorID,
		IP:        c.ClientIP(),
		Language:  extractLanguage(c.GetHeader("Accept-Language")),
		Browser:   extractBrowser(c.Request.UserAgent()),
		CreatedAt: now,
	}
	return t.db.WithContext(ctx).Create(&visit).Error
}

// visitorID reads the visitor cookie, issuing a new one on first visit.
func (t *Tracker) visitorID(c *gin.Context) string {
	if id, err := c.Cookie(VisitorCookie); err == nil && id != "" {
		return id
	}

	data := t.now().String() + c.ClientIP() + c.Request.UserAgent()
	hash := sha256.Sum256([]byte(data))
	id := hex.EncodeToString(hash[:])

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(VisitorCookie, id, 60*60*24*365*2, "/", "", t.secure, true)
	return id
}

func extractBrowser(userAgent string) *string {
	if userAgent == "" {
		return nil
	}

	ua := strings.ToLower(userAgent)
	var browser string

	// most specific first
	switch {
	case strings.Contains(ua, "edg"):
		browser = "Edge"
	case strings.Contains(ua, "opr") || strings.Contains(ua, "opera"):
		browser = "Opera"
	case strings.Contains(ua, "chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "safari"):
		browser = "Safari"
	case strings.Contains(ua, "firefox"):
		browser = "Firefox"
	default:
		browser = "Other"
	}
	return &browser
}

// extractLanguage returns the first tag of an Accept-Language header.
func extractLanguage(header string) *string {
	first, _, _ := strings.Cut(header, ",")
	lang, _, _ := strings.Cut(first, ";")
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return nil
	}
	return &lang
}

type DayVisits struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type PageVisits struct {
	Section string `json:"section"`
	Slug    string `json:"slug"`
	Count   int64  `json:"count"`
}

type Stats struct {
	Days        int          `json:"days"`
	VisitsByDay []DayVisits  `json:"visitsByDay"`
	TopPages    []PageVisits `json:"topPages"`
}

// VisitsByDay returns one entry per UTC day for the last days days, oldest
// first, including days without visits.
func (t *Tracker) VisitsByDay(ctx context.Context, days int) ([]DayVisits, error) {
	out := make([]DayVisits, days)
	if days <= 0 {
		return out, nil
	}
	today := t.today()
	for i := range out {
		out[i].Date = today.AddDate(0, 0, -(days - 1 - i)).Format(time.DateOnly)
	}
	if t == nil {
		return out, nil
	}

	var stamps []time.Time
	err := t.db.WithContext(ctx).Model(&models.PageVisit{}).
		Where("created_at >= ?", today.AddDate(0, 0, -(days-1))).
		Pluck("created_at", &stamps).Error
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, days)
	for i, d := range out {
		index[d.Date] = i
	}
	for _, ts := range stamps {
		if i, ok := index[ts.UTC().Format(time.DateOnly)]; ok {
			out[i].Count++
		}
	}
	return out, nil
}

// TopPages returns the most visited pages of the last days days.
func (t *Tracker) TopPages(ctx context.Context, days, limit int) ([]PageVisits, error) {
	out := []PageVisits{}
	if t == nil {
		return out, nil
	}
	err := t.db.WithContext(ctx).Model(&models.PageVisit{}).
		Select("section, slug, COUNT(*) AS count").
		Where("created_at >= ?", t.today().AddDate(0, 0, -(days-1))).
		Group("section, slug").
		Order("count DESC, section ASC, slug ASC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Tracker) today() time.Time {
	now := time.Now
	if t != nil {
		now = t.now
	}
	return now().UTC().Truncate(24 * time.Hour)
}

// RegisterRoutes mounts GET /analytics on an authenticated admin group.
func (t *Tracker) RegisterRoutes(admin *gin.RouterGroup, log *zap.Logger) {
	admin.GET("/analytics", func(c *gin.Context) {
		days := defaultDays
		if raw := c.Query("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxDays {
				c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
					Message: common.MsgInvalidData,
					Errors:  []common.FieldError{{Field: "days", Message: common.MsgFieldInvalid}},
				})
				return
			}
			days = n
		}

		byDay, err := t.VisitsByDay(c.Request.Context(), days)
		if err != nil {
			common.AbortInternal(c, log, err)
			return
		}
		top, err := t.TopPages(c.Request.Context(), days, topPageLimit)
		if err != nil {
			common.AbortInternal(c, log, err)
			return
		}
		c.JSON(http.StatusOK, Stats{Days: days, VisitsByDay: byDay, TopPages: top})
	})
}
