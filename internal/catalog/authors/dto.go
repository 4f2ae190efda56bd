package authors

import "time"

const (
	DefaultPageCount = 10
	MaxPageCount     = 100
)

type CreateAuthorRequest struct {
	Name string `json:"name" binding:"required"`
}

// PATCH用。未指定の項目は変更しない。
type UpdateAuthorRequest struct {
	Name *string `json:"name,omitempty"`
}

// 著者⇔蔵書の関連付け操作
type AuthorBookRequest struct {
	BookID   uint64 `json:"book_id" binding:"required"`
	AuthorID uint64 `json:"author_id" binding:"required"`
}

type AuthorResponse struct {
	AuthorID  uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookRef struct {
	BookID          uint64    `json:"id"`
	Title           string    `json:"title"`
	PublicationDate string    `json:"publication_date"`
	Available       bool      `json:"available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// 個別取得用（蔵書リストつき）
type AuthorInfoResponse struct {
	AuthorResponse
	Books []BookRef `json:"books"`
}

type Page struct {
	Page  int
	Count int
}
