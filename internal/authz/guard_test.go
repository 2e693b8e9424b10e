package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/toolhub-backend/internal/domain"
)

var (
	owner   = domain.Actor{ID: uuid.New(), Name: "Olga", Role: domain.RoleOwner}
	creator = domain.Actor{ID: uuid.New(), Name: "Boris", Role: domain.RoleBackend}
	other   = domain.Actor{ID: uuid.New(), Name: "Carl", Role: domain.RoleQA}
)

func subject(createdBy domain.Actor, status domain.ToolStatus) Subject {
	return Subject{CreatedBy: domain.Actor{ID: createdBy.ID}, Status: status}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name          string
		actor         domain.Actor
		authenticated bool
		action        domain.Action
		subject       Subject
		wantAllowed   bool
	}{
		// Rule 1: anonymous.
		{"anonymous read approved", domain.Actor{}, false, domain.ActionRead, subject(creator, domain.ToolStatusApproved), true},
		{"anonymous read pending", domain.Actor{}, false, domain.ActionRead, subject(creator, domain.ToolStatusPending), false},
		{"anonymous update", domain.Actor{}, false, domain.ActionUpdate, subject(creator, domain.ToolStatusApproved), false},
		{"anonymous delete", domain.Actor{}, false, domain.ActionDelete, subject(creator, domain.ToolStatusApproved), false},
		{"anonymous moderate", domain.Actor{}, false, domain.ActionModerate, subject(creator, domain.ToolStatusPending), false},
		{"anonymous create", domain.Actor{}, false, domain.ActionCreate, Subject{}, false},

		// Rule 2: moderation.
		{"owner moderates", owner, true, domain.ActionModerate, subject(creator, domain.ToolStatusPending), true},
		{"creator cannot moderate own tool", creator, true, domain.ActionModerate, subject(creator, domain.ToolStatusPending), false},
		{"non-elevated cannot moderate even approved", other, true, domain.ActionModerate, subject(creator, domain.ToolStatusApproved), false},

		// Rule 3: delete.
		{"creator deletes own tool", creator, true, domain.ActionDelete, subject(creator, domain.ToolStatusPending), true},
		{"owner deletes any tool", owner, true, domain.ActionDelete, subject(creator, domain.ToolStatusApproved), true},
		{"third party cannot delete", other, true, domain.ActionDelete, subject(creator, domain.ToolStatusApproved), false},

		// Rule 4: update is intentionally open to any authenticated actor.
		{"creator updates", creator, true, domain.ActionUpdate, subject(creator, domain.ToolStatusApproved), true},
		{"third party updates", other, true, domain.ActionUpdate, subject(creator, domain.ToolStatusApproved), true},
		{"third party updates pending", other, true, domain.ActionUpdate, subject(creator, domain.ToolStatusPending), true},

		// Rule 5: read.
		{"authenticated read approved", other, true, domain.ActionRead, subject(creator, domain.ToolStatusApproved), true},
		{"non-elevated read pending", other, true, domain.ActionRead, subject(creator, domain.ToolStatusPending), false},
		{"non-elevated read rejected", other, true, domain.ActionRead, subject(creator, domain.ToolStatusRejected), false},
		{"owner reads pending", owner, true, domain.ActionRead, subject(creator, domain.ToolStatusPending), true},

		// Create.
		{"authenticated create", other, true, domain.ActionCreate, Subject{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.actor, tt.authenticated, tt.action, tt.subject)
			assert.Equal(t, tt.wantAllowed, got.Allowed)
			if !tt.wantAllowed {
				assert.NotEmpty(t, got.Reason)
			}
		})
	}
}

func TestCanSeeStatus(t *testing.T) {
	assert.True(t, CanSeeStatus(owner, true))
	assert.False(t, CanSeeStatus(creator, true))
	assert.False(t, CanSeeStatus(owner, false))
}
