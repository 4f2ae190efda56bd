package authors

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/author/create", h.Create)
	r.GET("/author/read", h.List)
	r.GET("/author/read/:author_id", h.Get)
	r.PATCH("/author/update/:author_id", h.Update)
	r.DELETE("/author/delete/:author_id", h.Delete)

	// 著者⇔蔵書の関連付け
	r.POST("/author/books/register", h.RegisterBook)
	r.POST("/author/books/unregister", h.UnregisterBook)
}

// ---------- handlers ----------

// Create godoc
// @Summary  Create an author
// @Tags     authors
// @Accept   json
// @Produce  json
// @Param    request body CreateAuthorRequest true "author fields"
// @Success  201 {object} AuthorResponse
// @Router   /author/create [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	res, err := h.svc.CreateAuthor(c.Request.Context(), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Author has been created successfully.",
		"data":    res,
	})
}

// List godoc
// @Summary  Paginated author list (name asc)
// @Tags     authors
// @Produce  json
// @Param    page  query int false "page number"
// @Param    count query int false "page size"
// @Success  200 {array} AuthorResponse
// @Router   /author/read [get]
func (h *Handler) List(c *gin.Context) {
	p := Page{
		Page:  parseIntDefault(c.Query("page"), 1),
		Count: parseIntDefault(c.Query("count"), DefaultPageCount),
	}
	res, total, err := h.svc.ListAuthors(c.Request.Context(), p)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Author list received successfully.",
		"data": gin.H{
			"count":    total,
			"next":     pageURL(c, p.Page+1, p.Count, total),
			"previous": pageURL(c, p.Page-1, p.Count, total),
			"results":  res,
		},
	})
}

// Get godoc
// @Summary  Single author with books
// @Tags     authors
// @Produce  json
// @Param    author_id path int true "author id"
// @Success  200 {object} AuthorInfoResponse
// @Router   /author/read/{author_id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "author_id")
	if !ok {
		return
	}
	res, err := h.svc.GetAuthor(c.Request.Context(), id)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Author information received successfully.",
		"data":    res,
	})
}

// Update godoc
// @Summary  Partial update of an author
// @Tags     authors
// @Accept   json
// @Produce  json
// @Param    author_id path int true "author id"
// @Param    request body UpdateAuthorRequest true "fields to update"
// @Success  200 {object} AuthorResponse
// @Router   /author/update/{author_id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "author_id")
	if !ok {
		return
	}
	var req UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json"))
		return
	}

	res, err := h.svc.UpdateAuthor(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Author has been updated successfully.",
		"data":    res,
	})
}

// Delete godoc
// @Summary  Delete an author
// @Tags     authors
// @Produce  json
// @Param    author_id path int true "author id"
// @Success  200 {object} map[string]any
// @Router   /author/delete/{author_id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, "author_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteAuthor(c.Request.Context(), id); err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Author has been deleted successfully.",
		"data":    gin.H{},
	})
}

// RegisterBook godoc
// @Summary  Attach a book to an author
// @Tags     authors
// @Accept   json
// @Produce  json
// @Param    request body AuthorBookRequest true "association"
// @Success  200 {object} map[string]any
// @Router   /author/books/register [post]
func (h *Handler) RegisterBook(c *gin.Context) {
	var req AuthorBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	added, err := h.svc.RegisterBook(c.Request.Context(), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}

	msg := "Book has been registered to author."
	if !added {
		msg = "This Book has already been registered to author."
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "data": gin.H{}})
}

// UnregisterBook godoc
// @Summary  Detach a book from an author
// @Tags     authors
// @Accept   json
// @Produce  json
// @Param    request body AuthorBookRequest true "association"
// @Success  200 {object} map[string]any
// @Router   /author/books/unregister [post]
func (h *Handler) UnregisterBook(c *gin.Context) {
	var req AuthorBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	removed, err := h.svc.UnregisterBook(c.Request.Context(), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}

	msg := "This Book has been unregistered from author."
	if !removed {
		msg = "This Book has not been registered to author."
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "data": gin.H{}})
}

// ---------- helpers ----------

func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid "+name))
		return 0, false
	}
	return id, true
}

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

// 前後ページのURL。範囲外はnull。
func pageURL(c *gin.Context, page, count int, total int64) *string {
	if page < 1 || int64(page-1)*int64(count) >= total {
		return nil
	}
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", fmt.Sprint(page))
	q.Set("count", fmt.Sprint(count))
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

type errorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorBody(code Code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func errorFromErr(err error) errorDTO {
	var msg string
	var code Code = CodeInternal
	if api, ok := err.(*APIError); ok {
		code, msg = api.Code, api.Message
	} else {
		msg = err.Error()
	}
	return errorBody(code, msg)
}
