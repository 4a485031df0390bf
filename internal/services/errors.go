package services

import "errors"

// Sentinel errors carried up to the handlers, which translate them to HTTP
// statuses. Not-found and bad-request values are expected user-facing
// conditions; ErrRenumberLost signals a broken invariant (the renumbered row
// vanished between update and re-fetch) and maps to a 500.
var (
	ErrProjetNotFound    = errors.New("projet_not_found")
	ErrLotNotFound       = errors.New("projet_lot_not_found")
	ErrOuvrageNotFound   = errors.New("ouvrage_not_found")
	ErrBlocNotFound      = errors.New("bloc_not_found")
	ErrStructureNotFound = errors.New("structure_not_found")
	ErrArticleNotFound   = errors.New("projet_article_not_found")
	ErrClientNotFound    = errors.New("client_not_found")

	ErrBlocDetached = errors.New("bloc_not_attached_to_ouvrage")

	ErrRenumberLost = errors.New("row_lost_during_renumber")
)

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrProjetNotFound, ErrLotNotFound, ErrOuvrageNotFound,
		ErrBlocNotFound, ErrStructureNotFound, ErrArticleNotFound,
		ErrClientNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
