// Package policy holds every access decision in one place: pure
// predicates over (identity, resource, action). Handlers fetch the
// resource, ask the policy, then touch the store - never the other
// way around. A decision that cannot be computed is a denial
// (fail-closed), not an allowance.
package policy

import (
	"context"
	"errors"
	"fmt"
)

type Role uint8

const (
	Member Role = iota
	Manager
	Admin
)

func ParseRole(s string) (Role, error) {
	switch s {
	case "member":
		return Member, nil
	case "manager":
		return Manager, nil
	case "admin":
		return Admin, nil
	}
	return Member, fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

func (r Role) String() string {
	switch r {
	case Manager:
		return "manager"
	case Admin:
		return "admin"
	}
	return "member"
}

// Identity is the resolved caller for one request: who they are, what
// they are, and which team they sit on. TeamID is nil for users
// outside any team.
type Identity struct {
	UserID int
	Role   Role
	TeamID *int
}

func (id Identity) sameTeam(teamID *int) bool {
	return id.TeamID != nil && teamID != nil && *id.TeamID == *teamID
}

// TeamResolver looks up the team of another user when a decision
// needs it. Implemented by the user service.
type TeamResolver interface {
	TeamIDOf(ctx context.Context, userID int) (*int, error)
}

// PlanRef carries the two facts about a plan that decisions depend
// on. Callers fill it from the row they already fetched so the policy
// never re-reads the plan.
type PlanRef struct {
	OwnerID     int
	OwnerTeamID *int
}

type Policy struct {
	teams TeamResolver
}

func New(teams TeamResolver) *Policy { return &Policy{teams: teams} }

// CanAccessUserRecord: admins see everyone, everyone sees themself,
// and team visibility is flat - any member may view any teammate.
// Cross-team reads require admin.
func (p *Policy) CanAccessUserRecord(ctx context.Context, id Identity, targetUserID int) error {
	if id.Role == Admin || id.UserID == targetUserID {
		return nil
	}
	if id.TeamID == nil {
		return ErrForbidden
	}
	targetTeam, err := p.teams.TeamIDOf(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: resolve target team: %v", ErrDependency, err)
	}
	if id.sameTeam(targetTeam) {
		return nil
	}
	return ErrForbidden
}

// CanModifyUserRecord gates the general user-update path (any field,
// including role and team). Self-service edits do not come through
// here; see CanEditOwnProfile.
func (p *Policy) CanModifyUserRecord(id Identity, targetUserID int) error {
	if id.Role == Admin {
		return nil
	}
	return ErrForbidden
}

// CanEditOwnProfile covers the narrow name/email/password path. It
// only ever targets the caller themself.
func (p *Policy) CanEditOwnProfile(id Identity, targetUserID int) error {
	if id.UserID == targetUserID {
		return nil
	}
	return ErrForbidden
}

func (p *Policy) CanDeleteUserRecord(id Identity, targetUserID int) error {
	if id.Role != Admin {
		return ErrForbidden
	}
	if targetUserID == id.UserID {
		return fmt.Errorf("%w: cannot delete own account", ErrConflict)
	}
	return nil
}

// CanReadPlan: owner always; admin always; a manager only for plans
// owned by their own team.
func (p *Policy) CanReadPlan(id Identity, plan PlanRef) error {
	if id.Role == Admin || id.UserID == plan.OwnerID {
		return nil
	}
	if id.Role == Manager && id.sameTeam(plan.OwnerTeamID) {
		return nil
	}
	return ErrForbidden
}

// CanWritePlan covers update, delete and PDCA writes. Strictly
// owner-only: managers and admins read plans, they never edit them.
func (p *Policy) CanWritePlan(id Identity, plan PlanRef) error {
	if id.UserID == plan.OwnerID {
		return nil
	}
	return ErrForbidden
}

// EffectivePlanOwner resolves whose plans a list request actually
// returns. Non-admins are always scoped to themselves no matter what
// owner id the query asked for; callers must echo the returned id so
// the narrowing is visible to clients.
func (p *Policy) EffectivePlanOwner(id Identity, requestedOwnerID *int) int {
	if requestedOwnerID == nil {
		return id.UserID
	}
	if id.Role == Admin {
		return *requestedOwnerID
	}
	return id.UserID
}

func (p *Policy) CanManageTeams(id Identity) error {
	if id.Role == Admin {
		return nil
	}
	return ErrForbidden
}

func (p *Policy) CanViewTeamRoster(id Identity, teamID int) error {
	if id.Role == Admin {
		return nil
	}
	if id.TeamID != nil && *id.TeamID == teamID {
		return nil
	}
	return ErrForbidden
}

// Credential is the tri-state outcome of optional authentication on
// public endpoints.
type Credential uint8

const (
	CredentialNone Credential = iota
	CredentialInvalid
	CredentialValid
)

type Projection uint8

const (
	ProjectionReduced Projection = iota
	ProjectionFull
)

// TeamListProjection decides the response shape of the public team
// list. Only a verified credential earns the full projection; a
// malformed or expired token is treated the same as no token at all.
func (p *Policy) TeamListProjection(cred Credential) Projection {
	if cred == CredentialValid {
		return ProjectionFull
	}
	return ProjectionReduced
}

// CanReadPdca grants managers read access to any PDCA record, with no
// team match. This is deliberately broader than CanReadPlan's manager
// rule and is kept as an explicit table entry until product decides
// to unify the two.
func (p *Policy) CanReadPdca(id Identity, plan PlanRef) error {
	if id.Role == Admin || id.Role == Manager || id.UserID == plan.OwnerID {
		return nil
	}
	return ErrForbidden
}

func (p *Policy) CanWritePdca(id Identity, plan PlanRef) error {
	if id.UserID == plan.OwnerID {
		return nil
	}
	return ErrForbidden
}
