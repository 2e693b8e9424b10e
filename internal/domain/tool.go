package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tool is a catalog entry for a shared tool.
type Tool struct {
	ID               uuid.UUID
	Name             string
	URL              string
	Description      string
	HowToUse         *string
	DocumentationURL *string
	Status           ToolStatus
	CreatedBy        uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Hydrated relations. Screenshots and examples are exclusively owned
	// by the tool (full-replace on update, deleted with the tool);
	// categories and tags are shared references.
	Author      *Actor
	Categories  []Category
	Tags        []Tag
	Roles       []Role
	Screenshots []Screenshot
	Examples    []Example
	Rating      RatingSummary
}

// ToolScalars is the complete mutable scalar set of a tool. Updates
// always write the full set; the service merges partial input into the
// pre-image before handing it to the repository.
type ToolScalars struct {
	Name             string
	URL              string
	Description      string
	HowToUse         *string
	DocumentationURL *string
}

// TrackedFields returns the mutable scalar fields whose changes are
// diffed into audit records. Optional fields render as empty strings
// when unset so old/new pairs stay comparable.
func (t *Tool) TrackedFields() map[string]string {
	return map[string]string{
		"name":              t.Name,
		"url":               t.URL,
		"description":       t.Description,
		"how_to_use":        strOrEmpty(t.HowToUse),
		"documentation_url": strOrEmpty(t.DocumentationURL),
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Category is a shared grouping; deleting a tool never deletes it.
type Category struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description *string
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
}

// Tag is a free-text label identified by its slug.
type Tag struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
}

// Screenshot is an ordered sub-record owned by a tool.
type Screenshot struct {
	ID        uuid.UUID
	ToolID    uuid.UUID
	URL       string
	Caption   *string
	SortOrder int
}

// Example is a usage example owned by a tool.
type Example struct {
	ID          uuid.UUID
	ToolID      uuid.UUID
	Title       string
	Description *string
	URL         *string
}

// Rating is one user's vote for a tool, unique per (tool, user).
type Rating struct {
	ID        uuid.UUID
	ToolID    uuid.UUID
	UserID    uuid.UUID
	Value     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingSummary is the derived aggregate over a tool's ratings.
// Average is rounded to one decimal place.
type RatingSummary struct {
	Average float64
	Count   int
}
