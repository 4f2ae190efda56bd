package books

import "time"

const (
	DateLayout       = "2006-01-02"
	DefaultPageCount = 10
	MaxPageCount     = 100
)

type CreateBookRequest struct {
	Title string `json:"title" binding:"required"`
	// "2006-01-02" 形式の文字列（DATE）
	PublicationDate string `json:"publication_date" binding:"required"`
	Available       *bool  `json:"available" binding:"required"`
}

// PATCH用。未指定の項目は変更しない。
type UpdateBookRequest struct {
	Title           *string `json:"title,omitempty"`
	PublicationDate *string `json:"publication_date,omitempty"`
	Available       *bool   `json:"available,omitempty"`
}

type BookResponse struct {
	BookID          uint64    `json:"id"`
	Title           string    `json:"title"`
	PublicationDate string    `json:"publication_date"`
	Available       bool      `json:"available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type AuthorRef struct {
	AuthorID  uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// 個別取得用（著者リストつき）
type BookInfoResponse struct {
	BookResponse
	Authors []AuthorRef `json:"authors"`
}

type Page struct {
	Page  int
	Count int
}
