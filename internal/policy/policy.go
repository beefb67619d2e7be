// Package policy centralizes who may do what to which resource.
package policy

import (
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

type Action string

const (
	ActionCreateJob        Action = "job:create"
	ActionUpdateJob        Action = "job:update"
	ActionDeleteJob        Action = "job:delete"
	ActionListOwnJobs      Action = "job:list_own"
	ActionViewApplicants   Action = "applicants:view"
	ActionUpdateApplicant  Action = "applicants:update"
	ActionExportShortlist  Action = "applicants:export"
	ActionApply            Action = "application:create"
	ActionListApplications Action = "application:list"
)

type rule struct {
	role string
	// owned rules also compare the resource owner with the caller when ownership is enforced
	owned bool
}

var rules = map[Action]rule{
	ActionCreateJob:        {role: domain.RoleRecruiter},
	ActionUpdateJob:        {role: domain.RoleRecruiter, owned: true},
	ActionDeleteJob:        {role: domain.RoleRecruiter, owned: true},
	ActionListOwnJobs:      {role: domain.RoleRecruiter},
	ActionViewApplicants:   {role: domain.RoleRecruiter, owned: true},
	ActionUpdateApplicant:  {role: domain.RoleRecruiter, owned: true},
	ActionExportShortlist:  {role: domain.RoleRecruiter, owned: true},
	ActionApply:            {role: domain.RoleApplicant},
	ActionListApplications: {role: domain.RoleApplicant},
}

type Authorizer struct {
	enforceOwnership bool
}

// NewAuthorizer returns an Authorizer. With enforceOwnership unset any recruiter
// may act on any job.
func NewAuthorizer(enforceOwnership bool) *Authorizer {
	return &Authorizer{enforceOwnership: enforceOwnership}
}

// Authorize checks caller p against action. ownerID is the recruiter owning the
// target job and may be empty for actions without a resource.
func (a *Authorizer) Authorize(p domain.Principal, action Action, ownerID string) error {
	if !p.Authenticated() {
		return apperror.Unauthorized("Authentication required")
	}

	r, ok := rules[action]
	if !ok {
		return apperror.Forbidden("Action not permitted")
	}
	if p.Role != r.role {
		return apperror.Forbidden("Only " + r.role + "s can perform this action")
	}
	if r.owned && a.enforceOwnership && ownerID != p.ID {
		return apperror.Forbidden("You do not own this job")
	}
	return nil
}

// CheckRole applies the role part of the rule only. Callers use it to reject
// the wrong role before loading the resource, then call Authorize with the owner.
func (a *Authorizer) CheckRole(p domain.Principal, action Action) error {
	if !p.Authenticated() {
		return apperror.Unauthorized("Authentication required")
	}
	r, ok := rules[action]
	if !ok {
		return apperror.Forbidden("Action not permitted")
	}
	if p.Role != r.role {
		return apperror.Forbidden("Only " + r.role + "s can perform this action")
	}
	return nil
}

func (a *Authorizer) EnforcesOwnership() bool {
	return a.enforceOwnership
}
