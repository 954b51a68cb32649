package parcel

import (
	"errors"
	"fmt"

	apperrors "svcs/internal/errors"
	"svcs/internal/snapshot"
	"svcs/internal/validation"

	"go.uber.org/zap"
)

// Checkout copies every file of snapshot id into the working directory,
// overwriting files of the same name. There is no rollback: if a copy fails,
// files restored before it stay overwritten.
func (p *Parcel) Checkout(id string) ([]string, error) {
	if id == "" {
		return nil, apperrors.MissingArgument("Commit id was not passed.")
	}
	if err := validation.Identity(id); err != nil {
		return nil, apperrors.CommitNotFound(id)
	}

	restored, err := p.Snapshots.Restore(id, p.Root)
	if errors.Is(err, snapshot.ErrNotFound) {
		return nil, apperrors.CommitNotFound(id)
	}
	if err != nil {
		return restored, fmt.Errorf("checking out %s: %w", id, err)
	}

	p.Logger.Info("checked out", zap.String("id", id), zap.Strings("files", restored))
	return restored, nil
}
