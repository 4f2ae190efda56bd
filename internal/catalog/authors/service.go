package authors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ===== Error model (books/lending と同型) =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

// ===== Store =====

type AuthorStore interface {
	Insert(ctx context.Context, name string) (*AuthorResponse, error)
	GetByID(ctx context.Context, id uint64) (*AuthorResponse, error)
	ListBooksOfAuthor(ctx context.Context, id uint64) ([]BookRef, error)
	List(ctx context.Context, p Page) ([]AuthorResponse, int64, error)
	UpdateName(ctx context.Context, id uint64, name string) (*AuthorResponse, error)
	Delete(ctx context.Context, id uint64) error

	BookExists(ctx context.Context, bookID uint64) (bool, error)
	AssociationExists(ctx context.Context, authorID, bookID uint64) (bool, error)
	AddAssociation(ctx context.Context, authorID, bookID uint64) error
	RemoveAssociation(ctx context.Context, authorID, bookID uint64) error
}

// ===== Service =====

type Service struct {
	store AuthorStore
}

func NewService(db *sql.DB) *Service { return &Service{store: NewStore(db)} }

func (s *Service) CreateAuthor(ctx context.Context, in CreateAuthorRequest) (*AuthorResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrInvalid("name is required")
	}
	return s.store.Insert(ctx, in.Name)
}

func (s *Service) GetAuthor(ctx context.Context, id uint64) (*AuthorInfoResponse, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound("No author found!")
		}
		return nil, err
	}
	books, err := s.store.ListBooksOfAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AuthorInfoResponse{AuthorResponse: *a, Books: books}, nil
}

// 氏名昇順の一覧
func (s *Service) ListAuthors(ctx context.Context, p Page) ([]AuthorResponse, int64, error) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Count <= 0 {
		p.Count = DefaultPageCount
	}
	if p.Count > MaxPageCount {
		p.Count = MaxPageCount
	}
	return s.store.List(ctx, p)
}

func (s *Service) UpdateAuthor(ctx context.Context, id uint64, in UpdateAuthorRequest) (*AuthorResponse, error) {
	if in.Name == nil {
		// 変更なしでも現行値を返す
		a, err := s.store.GetByID(ctx, id)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, ErrNotFound("No author found!")
			}
			return nil, err
		}
		return a, nil
	}
	if strings.TrimSpace(*in.Name) == "" {
		return nil, ErrInvalid("name can not be blank")
	}

	a, err := s.store.UpdateName(ctx, id, *in.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound("No author found!")
		}
		return nil, err
	}
	return a, nil
}

func (s *Service) DeleteAuthor(ctx context.Context, id uint64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound("No author found!")
		}
		return err
	}
	return nil
}

// RegisterBook は著者へ蔵書を関連付ける。
// 戻り値 added=false は「既に登録済み」（エラーにはしない）。
func (s *Service) RegisterBook(ctx context.Context, in AuthorBookRequest) (bool, error) {
	if err := s.verifyPair(ctx, in); err != nil {
		return false, err
	}
	exists, err := s.store.AssociationExists(ctx, in.AuthorID, in.BookID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := s.store.AddAssociation(ctx, in.AuthorID, in.BookID); err != nil {
		return false, err
	}
	return true, nil
}

// UnregisterBook は関連付けを解除する。
// 戻り値 removed=false は「元々関連付けなし」（エラーにはしない）。
func (s *Service) UnregisterBook(ctx context.Context, in AuthorBookRequest) (bool, error) {
	if err := s.verifyPair(ctx, in); err != nil {
		return false, err
	}
	exists, err := s.store.AssociationExists(ctx, in.AuthorID, in.BookID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if err := s.store.RemoveAssociation(ctx, in.AuthorID, in.BookID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) verifyPair(ctx context.Context, in AuthorBookRequest) error {
	ok, err := s.store.BookExists(ctx, in.BookID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound("Book not found!")
	}
	if _, err := s.store.GetByID(ctx, in.AuthorID); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound("Author not found!")
		}
		return err
	}
	return nil
}
