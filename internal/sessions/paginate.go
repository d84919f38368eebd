package sessions

import (
	"errors"
	"fmt"

	"practicelog/internal/models"
)

// ErrInvalidArgument is returned for page sizes the engine cannot page by.
var ErrInvalidArgument = errors.New("invalid argument")

// Page is one slice of a listing plus the pagination state that produced it.
type Page struct {
	Records      []models.SessionRecord `json:"records"`
	CurrentPage  int                    `json:"current_page"`
	TotalPages   int                    `json:"total_pages"`
	PageSize     int                    `json:"page_size"`
	TotalRecords int                    `json:"total_records"`
}

// FirstIndex is the index of the first record on the page in the listing.
func (p Page) FirstIndex() int {
	return (p.CurrentPage - 1) * p.PageSize
}

// TotalPages is max(1, ceil(total/pageSize)).
func TotalPages(total, pageSize int) (int, error) {
	if pageSize <= 0 {
		return 0, fmt.Errorf("page size %d: %w", pageSize, ErrInvalidArgument)
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages, nil
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate returns the requested page of records. Out-of-range pages are
// clamped to [1, TotalPages].
func Paginate(records []models.SessionRecord, pageSize, requestedPage int) (Page, error) {
	totalPages, err := TotalPages(len(records), pageSize)
	if err != nil {
		return Page{}, err
	}

	current := clampPage(requestedPage, totalPages)
	start := (current - 1) * pageSize
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}

	slice := []models.SessionRecord{}
	if start < end {
		slice = records[start:end:end]
	}

	return Page{
		Records:      slice,
		CurrentPage:  current,
		TotalPages:   totalPages,
		PageSize:     pageSize,
		TotalRecords: len(records),
	}, nil
}

// ResizePage picks the page under newPageSize that shows the record that was
// first on oldPage under oldPageSize, clamped to the new page range.
func ResizePage(oldPage, oldPageSize, newPageSize, total int) (int, error) {
	if oldPageSize <= 0 {
		return 0, fmt.Errorf("old page size %d: %w", oldPageSize, ErrInvalidArgument)
	}
	newTotal, err := TotalPages(total, newPageSize)
	if err != nil {
		return 0, err
	}
	if oldPage < 1 {
		oldPage = 1
	}

	first := (oldPage - 1) * oldPageSize
	return clampPage(first/newPageSize+1, newTotal), nil
}

// Repaginate is ResizePage followed by Paginate.
func Repaginate(records []models.SessionRecord, oldPage, oldPageSize, newPageSize int) (Page, error) {
	page, err := ResizePage(oldPage, oldPageSize, newPageSize, len(records))
	if err != nil {
		return Page{}, err
	}
	return Paginate(records, newPageSize, page)
}

// ValidatePageSize checks size against the allowed options. An empty option
// set only requires a positive size.
func ValidatePageSize(size int, options []int) error {
	if size <= 0 {
		return fmt.Errorf("page size %d: %w", size, ErrInvalidArgument)
	}
	if len(options) == 0 {
		return nil
	}
	for _, opt := range options {
		if opt == size {
			return nil
		}
	}
	return fmt.Errorf("page size %d not in %v: %w", size, options, ErrInvalidArgument)
}
