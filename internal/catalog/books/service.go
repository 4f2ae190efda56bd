package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ===== Error model (lending と同型) =====

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

// available フラグの書き込みはここ（管理登録・修正）と貸出ワークフローのみ。
type BookStore interface {
	Insert(ctx context.Context, in CreateBookRequest) (*BookResponse, error)
	GetByID(ctx context.Context, id uint64) (*BookResponse, error)
	ListAuthorsOfBook(ctx context.Context, id uint64) ([]AuthorRef, error)
	List(ctx context.Context, p Page) ([]BookResponse, int64, error)
	Update(ctx context.Context, id uint64, in UpdateBookRequest) (*BookResponse, error)
	Delete(ctx context.Context, id uint64) error
}

// ===== Service =====

type Service struct {
	store BookStore
}

func NewService(db *sql.DB) *Service { return &Service{store: NewStore(db)} }

func (s *Service) CreateBook(ctx context.Context, in CreateBookRequest) (*BookResponse, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrInvalid("title is required")
	}
	if _, err := time.ParseInLocation(DateLayout, in.PublicationDate, time.UTC); err != nil {
		return nil, ErrInvalid("publication_date must be YYYY-MM-DD")
	}

	out, err := s.store.Insert(ctx, in)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetBook(ctx context.Context, id uint64) (*BookInfoResponse, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound("No book found!")
		}
		return nil, err
	}
	authors, err := s.store.ListAuthorsOfBook(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BookInfoResponse{BookResponse: *b, Authors: authors}, nil
}

// タイトル昇順の一覧
func (s *Service) ListBooks(ctx context.Context, p Page) ([]BookResponse, int64, error) {
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

func (s *Service) UpdateBook(ctx context.Context, id uint64, in UpdateBookRequest) (*BookResponse, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, ErrInvalid("title can not be blank")
	}
	if in.PublicationDate != nil {
		if _, err := time.ParseInLocation(DateLayout, *in.PublicationDate, time.UTC); err != nil {
			return nil, ErrInvalid("publication_date must be YYYY-MM-DD")
		}
	}

	out, err := s.store.Update(ctx, id, in)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound("No book found!")
		}
		return nil, err
	}
	return out, nil
}

func (s *Service) DeleteBook(ctx context.Context, id uint64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound("No book found!")
		}
		return err
	}
	return nil
}
