package service

import (
	"math"

	"github.com/google/uuid"
	"github.com/msomdec/mediahub/internal/domain"
)

// authenticated fails for the zero identity.
func authenticated(caller domain.Identity) error {
	if !caller.Authenticated() {
		return domain.ErrUnauthenticated
	}
	return nil
}

// authorize lets the owner of a resource or an admin through.
func authorize(caller domain.Identity, ownerID uuid.UUID) error {
	if err := authenticated(caller); err != nil {
		return err
	}
	if caller.UserID != ownerID && !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

const defaultPageSize = 20

// normalizePage clamps paging input to 1-based pages of at most
// domain.MaxPageSize items. The page is capped so that its row offset
// cannot overflow; such a page is always empty.
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}
	if maxPage := math.MaxInt / pageSize; page > maxPage {
		page = maxPage
	}
	return page, pageSize
}
