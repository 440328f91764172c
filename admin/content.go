package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bod/common"
	"bod/content"
	"bod/models"
)

type resource[T any] struct {
	path     string
	section  string
	store    content.Store[T]
	notFound string
}

// registerResource mounts list/create/update/delete for one content type.
// I is the create payload and P the strict partial update.
func registerResource[T any, I models.Input[T], P models.Patch[T], PT content.Record[T]](g *gin.RouterGroup, a *AdminModule, r resource[T]) {
	g.GET(r.path, func(c *gin.Context) {
		rows, err := r.store.List(c.Request.Context())
		if err != nil {
			common.AbortInternal(c, a.log, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	g.POST(r.path, func(c *gin.Context) {
		var input I
		if err := c.ShouldBindJSON(&input); err != nil {
			common.AbortValidation(c, err)
			return
		}
		row := input.Build()

		_, err := r.store.GetBySlug(c.Request.Context(), PT(&row).GetSlug())
		if err == nil {
			abortSlugTaken(c)
			return
		}
		if !errors.Is(err, content.ErrNotFound) {
			common.AbortInternal(c, a.log, err)
			return
		}

		if err := r.store.Create(c.Request.Context(), &row); err != nil {
			a.abortStoreError(c, r.notFound, err)
			return
		}
		a.clearPages(c.Request.Context(), r.section)
		c.JSON(http.StatusCreated, row)
	})

	g.PUT(r.path+"/:id", func(c *gin.Context) {
		id, ok := common.ParseID(c)
		if !ok {
			return
		}
		var patch P
		if err := common.BindStrict(c, &patch); err != nil {
			common.AbortValidation(c, err)
			return
		}

		row, err := r.store.Update(c.Request.Context(), id, patch)
		if err != nil {
			a.abortStoreError(c, r.notFound, err)
			return
		}
		a.clearPages(c.Request.Context(), r.section)
		c.JSON(http.StatusOK, row)
	})

	g.DELETE(r.path+"/:id", func(c *gin.Context) {
		id, ok := common.ParseID(c)
		if !ok {
			return
		}
		if err := r.store.Delete(c.Request.Context(), id); err != nil {
			common.AbortInternal(c, a.log, err)
			return
		}
		a.clearPages(c.Request.Context(), r.section)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
}

func (a *AdminModule) abortStoreError(c *gin.Context, notFound string, err error) {
	switch {
	case errors.Is(err, content.ErrNotFound):
		common.AbortMessage(c, http.StatusNotFound, notFound)
	case errors.Is(err, content.ErrSlugTaken):
		abortSlugTaken(c)
	default:
		common.AbortInternal(c, a.log, err)
	}
}

func abortSlugTaken(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
		Message: common.MsgSlugTaken,
		Errors:  []common.FieldError{{Field: "slug", Message: common.MsgSlugTaken}},
	})
}
