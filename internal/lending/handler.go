package lending

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// 貸出トランザクション
	r.POST("/borrow-book", h.Borrow)
	// 返却トランザクション
	r.POST("/return-book", h.Return)
	// 貸出履歴
	r.GET("/borrow-book/history", h.ListHistory)
	r.GET("/borrow-book/history/:lend_id", h.GetHistory)
}

// ---------- handlers ----------

// Borrow godoc
// @Summary  Borrow books
// @Tags     lending
// @Accept   json
// @Produce  json
// @Param    request body BorrowRequest true "borrow request"
// @Success  200 {object} LendInfoResponse
// @Router   /borrow-book [post]
func (h *Handler) Borrow(c *gin.Context) {
	var req BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	res, err := h.svc.Borrow(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Books have been lend successfully.",
		"data":    res,
	})
}

// Return godoc
// @Summary  Return a lending record
// @Tags     lending
// @Accept   json
// @Produce  json
// @Param    request body ReturnRequest true "return request"
// @Success  200 {object} LendInfoResponse
// @Router   /return-book [post]
func (h *Handler) Return(c *gin.Context) {
	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	res, err := h.svc.Return(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Books have been returned successfully.",
		"data":    res,
	})
}

// ListHistory godoc
// @Summary  Lending history (borrow_date asc)
// @Tags     lending
// @Produce  json
// @Param    page  query int false "page number"
// @Param    count query int false "page size"
// @Success  200 {array} LendResponse
// @Router   /borrow-book/history [get]
func (h *Handler) ListHistory(c *gin.Context) {
	p := Page{
		Page:  parseIntDefault(c.Query("page"), 1),
		Count: parseIntDefault(c.Query("count"), DefaultPageCount),
	}
	res, total, err := h.svc.ListLends(c.Request.Context(), p)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Lend list received successfully.",
		"data": gin.H{
			"count":    total,
			"next":     pageURL(c, p.Page+1, p.Count, total),
			"previous": pageURL(c, p.Page-1, p.Count, total),
			"results":  res,
		},
	})
}

// GetHistory godoc
// @Summary  Single lending record (ID or ULID)
// @Tags     lending
// @Produce  json
// @Param    lend_id path string true "lend id or ulid"
// @Success  200 {object} LendInfoResponse
// @Router   /borrow-book/history/{lend_id} [get]
func (h *Handler) GetHistory(c *gin.Context) {
	res, err := h.svc.GetLendByKey(c.Request.Context(), c.Param("lend_id"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Lending information received successfully.",
		"data":    res,
	})
}

// ---------- helpers ----------

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
