package services

import (
	"errors"

	applog "shopfront/internal/log"
	"shopfront/internal/repos"
)

// settled turns a snapshot write failure into success: the mutation already
// happened in memory and the file catches up on the next write.
func settled(action string, err error) error {
	if errors.Is(err, repos.ErrPersistence) {
		applog.Error(nil, action+".persist.fail", err, nil)
		return nil
	}
	return err
}
