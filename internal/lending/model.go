package lending

import (
	"database/sql"
	"time"
)

// Lend は lends テーブルの1行を表す
type Lend struct {
	LendID     uint64
	LendULID   string
	Borrower   Borrower
	BorrowDate string // DATE ("2006-01-02")
	DueDate    string
	Returned   bool
	ReturnDate sql.NullString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Borrower は貸出時点で確定する値オブジェクト。以後更新されない。
type Borrower struct {
	Name   string
	Mobile string
}

// BookRef は貸出対象の蔵書（lend_books 経由で参照）
type BookRef struct {
	BookID          uint64
	Title           string
	PublicationDate string
}
