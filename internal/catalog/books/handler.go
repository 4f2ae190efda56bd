package books

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/book/create", h.Create)
	r.GET("/book/read", h.List)
	r.GET("/book/read/:book_id", h.Get)
	r.PATCH("/book/update/:book_id", h.Update)
	r.DELETE("/book/delete/:book_id", h.Delete)
}

// ---------- handlers ----------

// Create godoc
// @Summary  Create a book
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    request body CreateBookRequest true "book fields"
// @Success  201 {object} BookResponse
// @Router   /book/create [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	res, err := h.svc.CreateBook(c.Request.Context(), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Book has been created successfully.",
		"data":    res,
	})
}

// List godoc
// @Summary  Paginated book list (title asc)
// @Tags     books
// @Produce  json
// @Param    page  query int false "page number"
// @Param    count query int false "page size"
// @Success  200 {array} BookResponse
// @Router   /book/read [get]
func (h *Handler) List(c *gin.Context) {
	p := Page{
		Page:  parseIntDefault(c.Query("page"), 1),
		Count: parseIntDefault(c.Query("count"), DefaultPageCount),
	}
	res, total, err := h.svc.ListBooks(c.Request.Context(), p)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book list received successfully.",
		"data": gin.H{
			"count":    total,
			"next":     pageURL(c, p.Page+1, p.Count, total),
			"previous": pageURL(c, p.Page-1, p.Count, total),
			"results":  res,
		},
	})
}

// Get godoc
// @Summary  Single book with authors
// @Tags     books
// @Produce  json
// @Param    book_id path int true "book id"
// @Success  200 {object} BookInfoResponse
// @Router   /book/read/{book_id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "book_id")
	if !ok {
		return
	}
	res, err := h.svc.GetBook(c.Request.Context(), id)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book information received successfully.",
		"data":    res,
	})
}

// Update godoc
// @Summary  Partial update of a book
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    book_id path int true "book id"
// @Param    request body UpdateBookRequest true "fields to update"
// @Success  200 {object} BookResponse
// @Router   /book/update/{book_id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "book_id")
	if !ok {
		return
	}
	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json"))
		return
	}

	res, err := h.svc.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book has been updated successfully.",
		"data":    res,
	})
}

// Delete godoc
// @Summary  Delete a book
// @Tags     books
// @Produce  json
// @Param    book_id path int true "book id"
// @Success  200 {object} map[string]any
// @Router   /book/delete/{book_id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, "book_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteBook(c.Request.Context(), id); err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book has been deleted successfully.",
		"data":    gin.H{},
	})
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
