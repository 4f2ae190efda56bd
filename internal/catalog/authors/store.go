package authors

import (
	"context"
	"database/sql"
	"errors"

	mysql "github.com/go-sql-driver/mysql"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Insert(ctx context.Context, name string) (*AuthorResponse, error) {
	const q = `
	INSERT INTO authors (name, created_at, updated_at)
	VALUES (?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`
	res, err := s.db.ExecContext(ctx, q, name)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, uint64(id))
}

func (s *Store) GetByID(ctx context.Context, id uint64) (*AuthorResponse, error) {
	const q = `SELECT author_id, name, created_at, updated_at FROM authors WHERE author_id = ?`
	var a AuthorResponse
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&a.AuthorID, &a.Name, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListBooksOfAuthor(ctx context.Context, id uint64) ([]BookRef, error) {
	const q = `
	SELECT b.book_id, b.title, DATE_FORMAT(b.publication_date, '%Y-%m-%d'), b.available, b.created_at, b.updated_at
	FROM books b
	JOIN author_books ab ON ab.book_id = b.book_id
	WHERE ab.author_id = ?
	ORDER BY b.book_id`
	rows, err := s.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]BookRef, 0, 8)
	for rows.Next() {
		var b BookRef
		if err := rows.Scan(&b.BookID, &b.Title, &b.PublicationDate, &b.Available, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) List(ctx context.Context, p Page) ([]AuthorResponse, int64, error) {
	const q = `
	SELECT author_id, name, created_at, updated_at
	FROM authors ORDER BY name ASC, author_id ASC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, q, p.Count, (p.Page-1)*p.Count)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []AuthorResponse
	for rows.Next() {
		var a AuthorResponse
		if err := rows.Scan(&a.AuthorID, &a.Name, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM authors`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) UpdateName(ctx context.Context, id uint64, name string) (*AuthorResponse, error) {
	const q = `UPDATE authors SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE author_id = ?`
	res, err := s.db.ExecContext(ctx, q, name, id)
	if err != nil {
		return nil, err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		// 同値更新で0件の場合もあるため存在確認で判定する
		if _, gerr := s.GetByID(ctx, id); gerr != nil {
			return nil, gerr
		}
	}
	return s.GetByID(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id uint64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM authors WHERE author_id = ?`, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===== associations =====

func (s *Store) BookExists(ctx context.Context, bookID uint64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM books WHERE book_id = ?`, bookID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) AssociationExists(ctx context.Context, authorID, bookID uint64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM author_books WHERE author_id = ? AND book_id = ?`, authorID, bookID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) AddAssociation(ctx context.Context, authorID, bookID uint64) error {
	const q = `INSERT INTO author_books (author_id, book_id) VALUES (?, ?)`
	if _, err := s.db.ExecContext(ctx, q, authorID, bookID); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 { // duplicate key
			// 同時登録の競合は「登録済み」と同じ結果なので握りつぶす
			return nil
		}
		return err
	}
	return nil
}

func (s *Store) RemoveAssociation(ctx context.Context, authorID, bookID uint64) error {
	const q = `DELETE FROM author_books WHERE author_id = ? AND book_id = ?`
	_, err := s.db.ExecContext(ctx, q, authorID, bookID)
	return err
}
