package catalog

import (
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/toolhub-backend/internal/config"
	"github.com/heartmarshall/toolhub-backend/internal/domain"
)

// ScreenshotInput describes one screenshot on create/update. Order in
// the slice becomes the stored sort order.
type ScreenshotInput struct {
	URL     string
	Caption *string
}

// ExampleInput describes one usage example on create/update.
type ExampleInput struct {
	Title       string
	Description *string
	URL         *string
}

// CreateToolInput carries a full new entry. Tags are free-text labels
// resolved (and created on demand) by slug.
type CreateToolInput struct {
	Name             string
	URL              string
	Description      string
	HowToUse         *string
	DocumentationURL *string

	CategoryIDs []uuid.UUID
	Roles       []domain.Role
	Tags        []string
	Screenshots []ScreenshotInput
	Examples    []ExampleInput
}

// UpdateToolInput carries a partial update. A nil field means "leave
// unchanged"; for the optional scalars an empty string clears the
// stored value. Nil relation slices are left untouched, non-nil ones
// (including empty) replace the full set.
type UpdateToolInput struct {
	Name             *string
	URL              *string
	Description      *string
	HowToUse         *string
	DocumentationURL *string

	CategoryIDs *[]uuid.UUID
	Roles       *[]domain.Role
	Tags        *[]string
	Screenshots *[]ScreenshotInput
	Examples    *[]ExampleInput
}

const (
	maxNameLength = 255
	maxURLLength  = 500
)

func (in CreateToolInput) validate(cfg config.CatalogConfig) error {
	var ve *domain.ValidationError

	if strings.TrimSpace(in.Name) == "" {
		ve = ve.Append("name", "required")
	} else if len(in.Name) > maxNameLength {
		ve = ve.Append("name", "too long")
	}

	if msg := checkURL(in.URL, true); msg != "" {
		ve = ve.Append("url", msg)
	}
	if strings.TrimSpace(in.Description) == "" {
		ve = ve.Append("description", "required")
	}
	if in.DocumentationURL != nil && *in.DocumentationURL != "" {
		if msg := checkURL(*in.DocumentationURL, true); msg != "" {
			ve = ve.Append("documentation_url", msg)
		}
	}

	ve = ve.Merge(validateRoles(in.Roles))
	ve = ve.Merge(validateScreenshots(in.Screenshots, cfg))
	ve = ve.Merge(validateExamples(in.Examples, cfg))

	return ve.OrNil()
}

func (in UpdateToolInput) validate(cfg config.CatalogConfig) error {
	var ve *domain.ValidationError

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			ve = ve.Append("name", "required")
		} else if len(*in.Name) > maxNameLength {
			ve = ve.Append("name", "too long")
		}
	}
	if in.URL != nil {
		if msg := checkURL(*in.URL, true); msg != "" {
			ve = ve.Append("url", msg)
		}
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		ve = ve.Append("description", "required")
	}
	if in.DocumentationURL != nil && *in.DocumentationURL != "" {
		if msg := checkURL(*in.DocumentationURL, true); msg != "" {
			ve = ve.Append("documentation_url", msg)
		}
	}

	if in.Roles != nil {
		ve = ve.Merge(validateRoles(*in.Roles))
	}
	if in.Screenshots != nil {
		ve = ve.Merge(validateScreenshots(*in.Screenshots, cfg))
	}
	if in.Examples != nil {
		ve = ve.Merge(validateExamples(*in.Examples, cfg))
	}

	return ve.OrNil()
}

func checkURL(raw string, required bool) string {
	if strings.TrimSpace(raw) == "" {
		if required {
			return "required"
		}
		return ""
	}
	if len(raw) > maxURLLength {
		return "too long"
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "must be a valid http(s) url"
	}
	return ""
}

func validateRoles(roles []domain.Role) *domain.ValidationError {
	var ve *domain.ValidationError
	for _, r := range roles {
		if !r.IsValid() {
			ve = ve.Append("roles", "unknown role: "+string(r))
		}
	}
	return ve
}

func validateScreenshots(shots []ScreenshotInput, cfg config.CatalogConfig) *domain.ValidationError {
	var ve *domain.ValidationError
	if len(shots) > cfg.MaxScreenshots {
		ve = ve.Append("screenshots", "too many screenshots")
	}
	for _, s := range shots {
		if msg := checkURL(s.URL, true); msg != "" {
			ve = ve.Append("screenshots", msg)
			break
		}
	}
	return ve
}

func validateExamples(examples []ExampleInput, cfg config.CatalogConfig) *domain.ValidationError {
	var ve *domain.ValidationError
	if len(examples) > cfg.MaxExamples {
		ve = ve.Append("examples", "too many examples")
	}
	for _, e := range examples {
		if strings.TrimSpace(e.Title) == "" {
			ve = ve.Append("examples", "title required")
			break
		}
	}
	return ve
}

func screenshotsFromInput(toolID uuid.UUID, in []ScreenshotInput) []domain.Screenshot {
	out := make([]domain.Screenshot, 0, len(in))
	for i, s := range in {
		out = append(out, domain.Screenshot{
			ToolID:    toolID,
			URL:       s.URL,
			Caption:   s.Caption,
			SortOrder: i,
		})
	}
	return out
}

func examplesFromInput(toolID uuid.UUID, in []ExampleInput) []domain.Example {
	out := make([]domain.Example, 0, len(in))
	for _, e := range in {
		out = append(out, domain.Example{
			ToolID:      toolID,
			Title:       e.Title,
			Description: e.Description,
			URL:         e.URL,
		})
	}
	return out
}
