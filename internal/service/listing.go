package service

// Listing defaults and bounds. Normalization runs before the store is asked
// to count or slice anything.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// NormalizePaging clamps requested paging values to their effective ones:
// page below 1 becomes 1, pageSize below 1 becomes the default, pageSize
// above the cap becomes the cap.
func NormalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
