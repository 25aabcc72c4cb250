package models

import "fmt"

// Conflict codes returned to clients.
const (
	CodeArticleLocked = "ARTICLE_LOCKED"
)

type ErrorNotFound struct {
	Message string
}

func (e ErrorNotFound) Error() string { return e.Message }

type ErrorForbidden struct {
	Message string
}

func (e ErrorForbidden) Error() string { return e.Message }

// ErrorConflict is returned when the request collides with current state,
// such as a lock held by another user.
type ErrorConflict struct {
	Code    string
	Message string
}

func (e ErrorConflict) Error() string { return e.Message }

type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string { return e.Message }

type ErrorBadRequest struct {
	Message string
}

func (e ErrorBadRequest) Error() string { return e.Message }

func NotFoundf(format string, args ...interface{}) error {
	return ErrorNotFound{Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...interface{}) error {
	return ErrorForbidden{Message: fmt.Sprintf(format, args...)}
}

func ArticleLocked(slug, holder string) error {
	return ErrorConflict{
		Code:    CodeArticleLocked,
		Message: fmt.Sprintf("article %q is being edited by %s", slug, holder),
	}
}
