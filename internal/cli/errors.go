package cli

import (
	"errors"
	"fmt"

	"roadmap-cli/internal/api"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

var errConfirmRequired = errors.New("refusing to delete without --yes")

// repoError maps a repository failure to what the user sees. A 404 for a known id
// becomes notFoundError; anything else is prefixed with the operation's fallback
// message.
func repoError(err error, kind, id, fallback string) error {
	if err == nil {
		return nil
	}
	if api.IsNotFound(err) && id != "" {
		return errNotFound(kind, id)
	}
	return fmt.Errorf("%s: %w", fallback, err)
}
