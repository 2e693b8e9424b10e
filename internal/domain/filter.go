package domain

import (
	"time"

	"github.com/google/uuid"
)

// ToolPageSize is the fixed page size for tool listings.
const ToolPageSize = 15

// AuditPageSize is the fixed page size for audit log listings.
const AuditPageSize = 30

// ToolFilter selects and paginates tools.
type ToolFilter struct {
	// Search matches the tool name, case-insensitive substring.
	Search *string

	// Role keeps tools recommended for the given role.
	Role *Role

	// CategorySlug keeps tools linked to the category with this slug.
	CategorySlug *string

	// TagSlug keeps tools linked to the tag with this slug.
	TagSlug *string

	// Status is elevated-only: a specific status, or nil meaning
	// "every status". Non-elevated callers always get approved only;
	// the service sets Status before the filter reaches the repo.
	Status *ToolStatus

	// Page is 1-based.
	Page int
}

// IsEmpty reports whether no filter beyond pagination is set. The
// unfiltered approved first page is the only cacheable tool view.
func (f ToolFilter) IsEmpty() bool {
	return f.Search == nil && f.Role == nil && f.CategorySlug == nil &&
		f.TagSlug == nil && f.Status == nil
}

// Normalize applies defaults.
func (f *ToolFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Search != nil {
		s := NormalizeSearch(*f.Search)
		if s == "" {
			f.Search = nil
		} else {
			f.Search = &s
		}
	}
}

// AuditFilter selects and paginates audit records. Results are always
// newest-first.
type AuditFilter struct {
	// Action keeps records of one kind.
	Action *AuditAction

	// Search matches actor or tool name snapshots, case-insensitive
	// substring.
	Search *string

	// From / To bound CreatedAt inclusively. To covers the whole day
	// when supplied as a date.
	From *time.Time
	To   *time.Time

	// ActorID keeps records written by one actor.
	ActorID *uuid.UUID

	// Page is 1-based.
	Page int
}

// Normalize applies defaults.
func (f *AuditFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Search != nil {
		s := NormalizeSearch(*f.Search)
		if s == "" {
			f.Search = nil
		} else {
			f.Search = &s
		}
	}
}

// PageMeta describes a result page.
type PageMeta struct {
	Total    int
	Page     int
	LastPage int
}

// NewPageMeta computes pagination metadata. LastPage is at least 1 so
// an empty result set still renders a valid pager.
func NewPageMeta(total, page, perPage int) PageMeta {
	last := (total + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}
	return PageMeta{Total: total, Page: page, LastPage: last}
}
