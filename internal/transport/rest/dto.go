package rest

import (
	"time"

	"github.com/heartmarshall/toolhub-backend/internal/domain"
)

type pageMetaResponse struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	LastPage int `json:"lastPage"`
}

type actorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type categoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
}

type tagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type screenshotResponse struct {
	ID        string  `json:"id"`
	URL       string  `json:"url"`
	Caption   *string `json:"caption,omitempty"`
	SortOrder int     `json:"sortOrder"`
}

type exampleResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	URL         *string `json:"url,omitempty"`
}

type ratingResponse struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type toolResponse struct {
	ID               string               `json:"id"`
	Name             string               `json:"name"`
	URL              string               `json:"url"`
	Description      string               `json:"description"`
	HowToUse         *string              `json:"howToUse,omitempty"`
	DocumentationURL *string              `json:"documentationUrl,omitempty"`
	Status           string               `json:"status"`
	Author           *actorResponse       `json:"author,omitempty"`
	Categories       []categoryResponse   `json:"categories"`
	Tags             []tagResponse        `json:"tags"`
	Roles            []string             `json:"roles"`
	Screenshots      []screenshotResponse `json:"screenshots"`
	Examples         []exampleResponse    `json:"examples"`
	Rating           ratingResponse       `json:"rating"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

func toToolResponse(t domain.Tool) toolResponse {
	out := toolResponse{
		ID:               t.ID.String(),
		Name:             t.Name,
		URL:              t.URL,
		Description:      t.Description,
		HowToUse:         t.HowToUse,
		DocumentationURL: t.DocumentationURL,
		Status:           string(t.Status),
		Categories:       make([]categoryResponse, 0, len(t.Categories)),
		Tags:             make([]tagResponse, 0, len(t.Tags)),
		Roles:            make([]string, 0, len(t.Roles)),
		Screenshots:      make([]screenshotResponse, 0, len(t.Screenshots)),
		Examples:         make([]exampleResponse, 0, len(t.Examples)),
		Rating:           ratingResponse{Average: t.Rating.Average, Count: t.Rating.Count},
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	if t.Author != nil {
		out.Author = &actorResponse{
			ID:   t.Author.ID.String(),
			Name: t.Author.Name,
			Role: string(t.Author.Role),
		}
	}
	for _, c := range t.Categories {
		out.Categories = append(out.Categories, toCategoryResponse(c))
	}
	for _, tg := range t.Tags {
		out.Tags = append(out.Tags, toTagResponse(tg))
	}
	for _, r := range t.Roles {
		out.Roles = append(out.Roles, string(r))
	}
	for _, s := range t.Screenshots {
		out.Screenshots = append(out.Screenshots, screenshotResponse{
			ID:        s.ID.String(),
			URL:       s.URL,
			Caption:   s.Caption,
			SortOrder: s.SortOrder,
		})
	}
	for _, e := range t.Examples {
		out.Examples = append(out.Examples, exampleResponse{
			ID:          e.ID.String(),
			Title:       e.Title,
			Description: e.Description,
			URL:         e.URL,
		})
	}
	return out
}

func toCategoryResponse(c domain.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
	}
}

func toTagResponse(t domain.Tag) tagResponse {
	return tagResponse{ID: t.ID.String(), Name: t.Name, Slug: t.Slug}
}

type auditRecordResponse struct {
	ID        int64             `json:"id"`
	ActorID   *string           `json:"actorId,omitempty"`
	ActorName string            `json:"actorName"`
	ActorRole string            `json:"actorRole"`
	Action    string            `json:"action"`
	ToolID    *string           `json:"toolId,omitempty"`
	ToolName  string            `json:"toolName"`
	Changes   map[string]change `json:"changes,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
	IPAddress *string           `json:"ipAddress,omitempty"`
	UserAgent *string           `json:"userAgent,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

type change struct {
	Old string `json:"old"`
	New string `json:"new"`
}

func toAuditRecordResponse(rec domain.AuditRecord) auditRecordResponse {
	out := auditRecordResponse{
		ID:        rec.ID,
		ActorName: rec.ActorName,
		ActorRole: string(rec.ActorRole),
		Action:    string(rec.Action),
		ToolName:  rec.ToolName,
		Extra:     rec.Extra,
		IPAddress: rec.IPAddress,
		UserAgent: rec.UserAgent,
		CreatedAt: rec.CreatedAt,
	}
	if rec.ActorID != nil {
		id := rec.ActorID.String()
		out.ActorID = &id
	}
	if rec.ToolID != nil {
		id := rec.ToolID.String()
		out.ToolID = &id
	}
	if len(rec.Changes) > 0 {
		out.Changes = make(map[string]change, len(rec.Changes))
		for k, v := range rec.Changes {
			out.Changes[k] = change{Old: v.Old, New: v.New}
		}
	}
	return out
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
}
