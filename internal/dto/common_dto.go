package dto

import "time"

const isoLayout = time.RFC3339

// Pagination describes list paging metadata.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination derives paging metadata from the request and total count.
func NewPagination(page, pageSize int, total int64) Pagination {
	if page <= 0 {
		page = 1
	}

	pagination := Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
	}

	if pageSize > 0 {
		pagination.TotalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	} else if total > 0 {
		pagination.TotalPages = 1
	}

	return pagination
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(isoLayout)
}

func formatTimePtr(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.Format(isoLayout)
	return &formatted
}
