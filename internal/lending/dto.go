package lending

import "time"

const (
	DateLayout       = "2006-01-02"
	DefaultPageCount = 10
	MaxPageCount     = 100
)

// 貸出リクエスト
type BorrowRequest struct {
	BookIDs  []uint64        `json:"book_ids" binding:"required"`
	Borrower BorrowerPayload `json:"borrower" binding:"required"`
	// "2006-01-02" 形式の文字列（DATE）
	BorrowDate string `json:"borrow_date" binding:"required"`
	DueDate    string `json:"due_date" binding:"required"`
}

// 項目の「欠落」と「空文字」を区別するためポインタで受ける
type BorrowerPayload struct {
	Name   *string `json:"name"`
	Mobile *string `json:"mobile"`
}

// 返却リクエスト
type ReturnRequest struct {
	LendID     uint64 `json:"lend_id" binding:"required"`
	ReturnDate string `json:"return_date" binding:"required"`
}

type BorrowerInfo struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

type BookRefResponse struct {
	BookID          uint64 `json:"id"`
	Title           string `json:"title"`
	PublicationDate string `json:"publication_date"`
}

// 履歴一覧用（蔵書リストなし）
type LendResponse struct {
	LendID     uint64       `json:"id"`
	LendULID   string       `json:"lend_ulid"`
	Borrower   BorrowerInfo `json:"borrower"`
	BorrowDate string       `json:"borrow_date"`
	DueDate    string       `json:"due_date"`
	Returned   bool         `json:"book_returned"`
	ReturnDate *string      `json:"return_date"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// 貸出・返却・個別取得用（蔵書リストつき）
type LendInfoResponse struct {
	LendResponse
	Books []BookRefResponse `json:"book"`
}

type Page struct {
	Page  int
	Count int
}

func (l *Lend) toDTO() LendResponse {
	resp := LendResponse{
		LendID:     l.LendID,
		LendULID:   l.LendULID,
		Borrower:   BorrowerInfo{Name: l.Borrower.Name, Mobile: l.Borrower.Mobile},
		BorrowDate: l.BorrowDate,
		DueDate:    l.DueDate,
		Returned:   l.Returned,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
	if l.ReturnDate.Valid {
		v := l.ReturnDate.String
		resp.ReturnDate = &v
	}
	return resp
}

func (l *Lend) toInfoDTO(books []BookRef) LendInfoResponse {
	out := LendInfoResponse{LendResponse: l.toDTO()}
	out.Books = make([]BookRefResponse, 0, len(books))
	for _, b := range books {
		out.Books = append(out.Books, BookRefResponse{
			BookID:          b.BookID,
			Title:           b.Title,
			PublicationDate: b.PublicationDate,
		})
	}
	return out
}
