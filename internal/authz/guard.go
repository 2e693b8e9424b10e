// Package authz decides whether an actor may perform an action on a
// tool. Decisions are pure: no storage access, no side effects, so the
// guard is trivially testable and every mutating pipeline consults it
// before touching state.
package authz

import (
	"github.com/heartmarshall/toolhub-backend/internal/domain"
)

// Subject is the slice of a tool the guard needs: who created it and
// its current lifecycle state. Passing the slice instead of the full
// tool keeps the guard decoupled from hydrated relations.
type Subject struct {
	CreatedBy domain.Actor // only ID is consulted
	Status    domain.ToolStatus
}

// SubjectForTool builds a Subject from a tool.
func SubjectForTool(t *domain.Tool) Subject {
	return Subject{
		CreatedBy: domain.Actor{ID: t.CreatedBy},
		Status:    t.Status,
	}
}

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision            { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

// Decide evaluates the access rules in order:
//
//  1. Anonymous actors may only read approved tools.
//  2. Moderation (approve/reject) requires an elevated role.
//  3. Delete requires the original creator or an elevated role.
//  4. Update is open to every authenticated actor. Collaborative
//     editing is intentional here, mirroring the product decision to
//     let anyone correct catalog entries.
//  5. Read of non-approved tools requires an elevated role.
//
// The privilege check always precedes any state inspection, so an
// unauthorized approve of an already-approved tool still denies.
func Decide(actor domain.Actor, authenticated bool, action domain.Action, subject Subject) Decision {
	if !authenticated {
		if action == domain.ActionRead && subject.Status == domain.ToolStatusApproved {
			return allow()
		}
		return deny("authentication required")
	}

	switch action {
	case domain.ActionModerate:
		if !actor.IsElevated() {
			return deny("moderation requires the owner role")
		}
		return allow()

	case domain.ActionDelete:
		if actor.ID == subject.CreatedBy.ID || actor.IsElevated() {
			return allow()
		}
		return deny("only the creator or an owner may delete a tool")

	case domain.ActionCreate, domain.ActionUpdate:
		return allow()

	case domain.ActionRead:
		if subject.Status == domain.ToolStatusApproved || actor.IsElevated() {
			return allow()
		}
		return deny("tool is not approved")

	default:
		return deny("unknown action")
	}
}

// CanSeeStatus reports whether the actor may list tools filtered by
// lifecycle state. Only elevated actors see beyond approved.
func CanSeeStatus(actor domain.Actor, authenticated bool) bool {
	return authenticated && actor.IsElevated()
}
