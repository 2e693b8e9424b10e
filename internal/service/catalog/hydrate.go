package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/toolhub-backend/internal/domain"
)

// hydrate attaches relations to a page of tools with one batched query
// per relation, never one per row.
func (s *Service) hydrate(ctx context.Context, tools []domain.Tool) ([]domain.Tool, error) {
	if len(tools) == 0 {
		return tools, nil
	}

	toolIDs := make([]uuid.UUID, 0, len(tools))
	authorSet := make(map[uuid.UUID]struct{}, len(tools))
	for _, t := range tools {
		toolIDs = append(toolIDs, t.ID)
		authorSet[t.CreatedBy] = struct{}{}
	}
	authorIDs := make([]uuid.UUID, 0, len(authorSet))
	for id := range authorSet {
		authorIDs = append(authorIDs, id)
	}

	categories, err := s.tools.CategoriesByToolIDs(ctx, toolIDs)
	if err != nil {
		return nil, err
	}
	tags, err := s.tools.TagsByToolIDs(ctx, toolIDs)
	if err != nil {
		return nil, err
	}
	roles, err := s.tools.RolesByToolIDs(ctx, toolIDs)
	if err != nil {
		return nil, err
	}
	shots, err := s.tools.ScreenshotsByToolIDs(ctx, toolIDs)
	if err != nil {
		return nil, err
	}
	examples, err := s.tools.ExamplesByToolIDs(ctx, toolIDs)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratings.SummariesByToolIDs(ctx, toolIDs)
	if err != nil {
		return nil, err
	}
	authors, err := s.users.ActorsByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Tool, len(tools))
	for i, t := range tools {
		t.Categories = categories[t.ID]
		t.Tags = tags[t.ID]
		t.Roles = roles[t.ID]
		t.Screenshots = shots[t.ID]
		t.Examples = examples[t.ID]
		t.Rating = ratings[t.ID]
		if a, ok := authors[t.CreatedBy]; ok {
			author := a
			t.Author = &author
		}
		out[i] = t
	}
	return out, nil
}

func (s *Service) hydrateOne(ctx context.Context, tool *domain.Tool) (*domain.Tool, error) {
	hydrated, err := s.hydrate(ctx, []domain.Tool{*tool})
	if err != nil {
		return nil, err
	}
	return &hydrated[0], nil
}
