package lending

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	pdb "LMS-backend/internal/platform/db"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const lendColumns = `
	l.lend_id, l.lend_ulid, l.borrower_name, l.borrower_mobile,
	DATE_FORMAT(l.borrow_date, '%Y-%m-%d'), DATE_FORMAT(l.due_date, '%Y-%m-%d'),
	l.returned, DATE_FORMAT(l.return_date, '%Y-%m-%d'),
	l.created_at, l.updated_at`

// VerifyAvailable: 事前チェック（ロックなし）。
// 件数が一致しなければ「存在しない」「貸出中」のどちらかなので一律で不可とする。
func (s *Store) VerifyAvailable(ctx context.Context, bookIDs []uint64) error {
	q := fmt.Sprintf(
		`SELECT COUNT(*) FROM books WHERE book_id IN (%s) AND available = 1`,
		placeholders(len(bookIDs)),
	)
	var n int
	if err := s.db.QueryRowContext(ctx, q, idArgs(bookIDs)...).Scan(&n); err != nil {
		return err
	}
	if n != len(bookIDs) {
		return ErrItemsUnavailable()
	}
	return nil
}

// ExecBorrow handles the full transaction flow for creating a lend
func (s *Store) ExecBorrow(ctx context.Context, l *Lend, bookIDs []uint64) ([]BookRef, error) {
	var books []BookRef
	err := pdb.RunInTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx pdb.DBTX) error {
		// 1. 対象行をロックして再検証（同時リクエストはここで直列化される）
		lockQ := fmt.Sprintf(`
		SELECT book_id, title, DATE_FORMAT(publication_date, '%%Y-%%m-%%d'), available
		FROM books WHERE book_id IN (%s) FOR UPDATE`, placeholders(len(bookIDs)))

		rows, err := tx.QueryContext(ctx, lockQ, idArgs(bookIDs)...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var b BookRef
			var available bool
			if err := rows.Scan(&b.BookID, &b.Title, &b.PublicationDate, &available); err != nil {
				return err
			}
			if !available {
				return ErrItemsUnavailable()
			}
			books = append(books, b)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if len(books) != len(bookIDs) {
			return ErrItemsUnavailable()
		}

		// 2. Insert lend
		const insQ = `
		INSERT INTO lends
		(lend_ulid, borrower_name, borrower_mobile, borrow_date, due_date, returned, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`
		res, err := tx.ExecContext(ctx, insQ,
			l.LendULID, l.Borrower.Name, l.Borrower.Mobile, l.BorrowDate, l.DueDate)
		if err != nil {
			return err
		}
		id, _ := res.LastInsertId()
		l.LendID = uint64(id)

		// 3. Insert lend_books（貸出対象は作成時に固定、以後変更されない）
		sb := strings.Builder{}
		sb.WriteString(`INSERT INTO lend_books (lend_id, book_id) VALUES `)
		args := make([]any, 0, len(bookIDs)*2)
		for i, bid := range bookIDs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?)")
			args = append(args, l.LendID, bid)
		}
		if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
			return err
		}

		// 4. フラグ反転
		updQ := fmt.Sprintf(`
		UPDATE books SET available = 0, updated_at = CURRENT_TIMESTAMP
		WHERE book_id IN (%s)`, placeholders(len(bookIDs)))
		if _, err := tx.ExecContext(ctx, updQ, idArgs(bookIDs)...); err != nil {
			return err
		}

		// 5. created_at / updated_at はDB時刻なので取り直す
		return tx.QueryRowContext(ctx,
			`SELECT created_at, updated_at FROM lends WHERE lend_id = ?`, l.LendID,
		).Scan(&l.CreatedAt, &l.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

// ExecReturn handles the full transaction flow for closing a lend
func (s *Store) ExecReturn(ctx context.Context, lendID uint64, returnDate string) (*Lend, []BookRef, error) {
	var (
		l     Lend
		books []BookRef
	)
	err := pdb.RunInTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx pdb.DBTX) error {
		// 1. 未返却の貸出行をロック。二重返却はここで2件目が弾かれる。
		lockQ := `SELECT ` + lendColumns + ` FROM lends l WHERE l.lend_id = ? AND l.returned = 0 FOR UPDATE`
		if err := scanLend(tx.QueryRowContext(ctx, lockQ, lendID), &l); err != nil {
			if err == sql.ErrNoRows {
				return ErrLendNotFoundOrReturned()
			}
			return err
		}

		// 2. 対象蔵書を貸出可能へ戻す
		const updBooksQ = `
		UPDATE books b
		JOIN lend_books lb ON lb.book_id = b.book_id
		SET b.available = 1, b.updated_at = CURRENT_TIMESTAMP
		WHERE lb.lend_id = ?`
		if _, err := tx.ExecContext(ctx, updBooksQ, lendID); err != nil {
			return err
		}

		// 3. 貸出レコードをクローズ（open→closed の遷移は一度きり）
		const updLendQ = `
		UPDATE lends SET returned = 1, return_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE lend_id = ?`
		if _, err := tx.ExecContext(ctx, updLendQ, returnDate, lendID); err != nil {
			return err
		}
		l.Returned = true
		l.ReturnDate = sql.NullString{String: returnDate, Valid: true}

		var err error
		books, err = listLendBooks(ctx, tx, lendID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &l, books, nil
}

// ---- Queries ----

func (s *Store) GetLendByID(ctx context.Context, lendID uint64) (*Lend, []BookRef, error) {
	q := `SELECT ` + lendColumns + ` FROM lends l WHERE l.lend_id = ?`
	return s.getLend(ctx, q, lendID)
}

func (s *Store) GetLendByULID(ctx context.Context, lendULID string) (*Lend, []BookRef, error) {
	q := `SELECT ` + lendColumns + ` FROM lends l WHERE l.lend_ulid = ?`
	return s.getLend(ctx, q, lendULID)
}

func (s *Store) getLend(ctx context.Context, q string, arg any) (*Lend, []BookRef, error) {
	var l Lend
	if err := scanLend(s.db.QueryRowContext(ctx, q, arg), &l); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, ErrNotFound("No data found!")
		}
		return nil, nil, err
	}
	books, err := listLendBooks(ctx, s.db, l.LendID)
	if err != nil {
		return nil, nil, err
	}
	return &l, books, nil
}

func (s *Store) ListLends(ctx context.Context, p Page) ([]Lend, int64, error) {
	q := `SELECT ` + lendColumns + ` FROM lends l ORDER BY l.borrow_date ASC, l.lend_id ASC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, q, p.Count, (p.Page-1)*p.Count)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Lend
	for rows.Next() {
		var l Lend
		if err := scanLendRows(rows, &l); err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lends`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ---- helpers ----

func scanLend(row *sql.Row, l *Lend) error {
	return row.Scan(
		&l.LendID, &l.LendULID, &l.Borrower.Name, &l.Borrower.Mobile,
		&l.BorrowDate, &l.DueDate, &l.Returned, &l.ReturnDate,
		&l.CreatedAt, &l.UpdatedAt,
	)
}

func scanLendRows(rows *sql.Rows, l *Lend) error {
	return rows.Scan(
		&l.LendID, &l.LendULID, &l.Borrower.Name, &l.Borrower.Mobile,
		&l.BorrowDate, &l.DueDate, &l.Returned, &l.ReturnDate,
		&l.CreatedAt, &l.UpdatedAt,
	)
}

func listLendBooks(ctx context.Context, db pdb.DBTX, lendID uint64) ([]BookRef, error) {
	const q = `
	SELECT b.book_id, b.title, DATE_FORMAT(b.publication_date, '%Y-%m-%d')
	FROM books b
	JOIN lend_books lb ON lb.book_id = b.book_id
	WHERE lb.lend_id = ?
	ORDER BY b.book_id`
	rows, err := db.QueryContext(ctx, q, lendID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookRef
	for rows.Next() {
		var b BookRef
		if err := rows.Scan(&b.BookID, &b.Title, &b.PublicationDate); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func idArgs(ids []uint64) []any {
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	return args
}
