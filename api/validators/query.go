package validators

import (
	"net/http"
	"strconv"

	pkgerrors "github.com/lumenmarket/storefront-backend/pkg/errors"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Pagination holds the normalized limit/offset of a listing request.
type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset query params, applying defaults and
// rejecting out-of-range values.
func ParsePagination(r *http.Request) (Pagination, error) {
	page := Pagination{Limit: defaultPageLimit}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return Pagination{}, pkgerrors.New(pkgerrors.CodeValidation, "limit must be between 1 and 100")
		}
		page.Limit = limit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return Pagination{}, pkgerrors.New(pkgerrors.CodeValidation, "offset must be zero or positive")
		}
		page.Offset = offset
	}

	return page, nil
}
