package books

import (
	"context"
	"database/sql"
	"strings"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const bookColumns = `
	book_id, title, DATE_FORMAT(publication_date, '%Y-%m-%d'), available, created_at, updated_at`

func (s *Store) Insert(ctx context.Context, in CreateBookRequest) (*BookResponse, error) {
	const q = `
	INSERT INTO books (title, publication_date, available, created_at, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`
	res, err := s.db.ExecContext(ctx, q, in.Title, in.PublicationDate, *in.Available)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, uint64(id))
}

func (s *Store) GetByID(ctx context.Context, id uint64) (*BookResponse, error) {
	q := `SELECT ` + bookColumns + ` FROM books WHERE book_id = ?`
	var b BookResponse
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&b.BookID, &b.Title, &b.PublicationDate, &b.Available, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) ListAuthorsOfBook(ctx context.Context, id uint64) ([]AuthorRef, error) {
	const q = `
	SELECT a.author_id, a.name, a.created_at, a.updated_at
	FROM authors a
	JOIN author_books ab ON ab.author_id = a.author_id
	WHERE ab.book_id = ?
	ORDER BY a.author_id`
	rows, err := s.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]AuthorRef, 0, 4)
	for rows.Next() {
		var a AuthorRef
		if err := rows.Scan(&a.AuthorID, &a.Name, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) List(ctx context.Context, p Page) ([]BookResponse, int64, error) {
	q := `SELECT ` + bookColumns + ` FROM books ORDER BY title ASC, book_id ASC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, q, p.Count, (p.Page-1)*p.Count)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []BookResponse
	for rows.Next() {
		var b BookResponse
		if err := rows.Scan(&b.BookID, &b.Title, &b.PublicationDate, &b.Available, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) Update(ctx context.Context, id uint64, in UpdateBookRequest) (*BookResponse, error) {
	// 動的アップデート
	sets := []string{}
	args := []any{}
	if in.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *in.Title)
	}
	if in.PublicationDate != nil {
		sets = append(sets, "publication_date = ?")
		args = append(args, *in.PublicationDate)
	}
	if in.Available != nil {
		sets = append(sets, "available = ?")
		args = append(args, *in.Available)
	}
	if len(sets) == 0 {
		// 変更なしでも現行値を返す
		return s.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	q := `UPDATE books SET ` + strings.Join(sets, ", ") + ` WHERE book_id = ?`
	args = append(args, id)
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		// 行が無い場合のみNoRows扱い（値が同じで0件更新となるケースと区別する）
		if _, gerr := s.GetByID(ctx, id); gerr != nil {
			return nil, gerr
		}
	}
	return s.GetByID(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id uint64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE book_id = ?`, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}
