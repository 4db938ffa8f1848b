package services

import (
	"errors"

	"github.com/yungbote/sitework-backend/internal/platform/apierr"
)

var ErrNotFound = errors.New("not found")

func notFound(code string) error {
	return apierr.NotFound(code, ErrNotFound)
}

func invalid(code string, err error) error {
	return apierr.BadRequest(code, err)
}
