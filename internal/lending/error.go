package lending

import (
	"errors"
	"fmt"
	"strings"
)

// ===== Error model (assets/attendance と同型 + 貸出固有コード) =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInternal        Code = "INTERNAL"

	// 貸出ワークフロー固有
	CodeItemsUnavailable       Code = "ITEMS_UNAVAILABLE"
	CodeBorrowerInfoMissing    Code = "BORROWER_INFO_MISSING"
	CodeBorrowerInfoBlank      Code = "BORROWER_INFO_BLANK"
	CodeInvalidBorrowDate      Code = "INVALID_BORROW_DATE"
	CodeInvalidDueDate         Code = "INVALID_DUE_DATE"
	CodeLendNotFoundOrReturned Code = "LEND_NOT_FOUND_OR_RETURNED"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func ErrItemsUnavailable() *APIError {
	return &APIError{
		Code:    CodeItemsUnavailable,
		Message: "Some Books are not found/available for lending!",
	}
}

func ErrBorrowerInfoMissing(fields []string) *APIError {
	return &APIError{
		Code:    CodeBorrowerInfoMissing,
		Message: fmt.Sprintf("Borrower information missing. Required fields are: %s", strings.Join(fields, ", ")),
	}
}

func ErrBorrowerInfoBlank(fields []string) *APIError {
	return &APIError{
		Code:    CodeBorrowerInfoBlank,
		Message: fmt.Sprintf("Borrower information fields can not be blank. Required fields are: %s", strings.Join(fields, ", ")),
	}
}

func ErrInvalidBorrowDate() *APIError {
	return &APIError{Code: CodeInvalidBorrowDate, Message: "Borrow date can not be any future dates."}
}

func ErrInvalidDueDate() *APIError {
	return &APIError{Code: CodeInvalidDueDate, Message: "Due date can not be any dates before today."}
}

// 「IDが存在しない」と「返却済み」は呼び出し側へ区別せず返す
func ErrLendNotFoundOrReturned() *APIError {
	return &APIError{
		Code:    CodeLendNotFoundOrReturned,
		Message: "No lending details found. Either the ID is invalid or book has been returned.",
	}
}

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument, CodeBorrowerInfoMissing, CodeBorrowerInfoBlank,
			CodeInvalidBorrowDate, CodeInvalidDueDate:
			return 400
		case CodeNotFound, CodeItemsUnavailable, CodeLendNotFoundOrReturned:
			return 404
		default:
			return 500
		}
	}
	return 500
}
