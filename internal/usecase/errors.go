package usecase

import (
	"errors"
	"fmt"
	"net/http"

	repo "storeorders/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
	// 元になったドメインエラー（errors.As で取り出せる）
	Err error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func wrapHTTPError(status int, message string, err error) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Err:     err,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// repoError はリポジトリのエラーをHTTPエラーにする
func repoError(err error) error {
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return wrapHTTPError(http.StatusNotFound, "not found", err)
	case errors.Is(err, repo.ErrConflict):
		return wrapHTTPError(http.StatusConflict, "order was modified, reload and retry", err)
	default:
		return wrapHTTPError(http.StatusInternalServerError, "db error", err)
	}
}
