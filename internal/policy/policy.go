// Package policy decides what a user may see or change inside a
// campaign. Every campaign-scoped handler routes its authorization
// through here instead of repeating ownership checks inline.
package policy

import "github.com/campfire-rpg/campfire/internal/database"

// MembershipSource answers whether a user holds an accepted join
// request for a campaign. *database.PgCampfireRepository satisfies it.
type MembershipSource interface {
	HasAcceptedRequest(campaignId, userId int) (bool, error)
}

type Evaluator struct {
	members MembershipSource
}

func NewEvaluator(members MembershipSource) *Evaluator {
	return &Evaluator{members: members}
}

// IsOwner reports whether the user created the campaign. Ownership is
// the only role with management rights.
func IsOwner(c database.Campaign, userId int) bool {
	return c.OwnerId == userId
}

func (e *Evaluator) IsAcceptedMember(c database.Campaign, userId int) (bool, error) {
	return e.members.HasAcceptedRequest(c.Id, userId)
}

// CanView covers the shared-with-players resources: the campaign
// itself, its sessions.
func (e *Evaluator) CanView(c database.Campaign, userId int) (bool, error) {
	if IsOwner(c, userId) {
		return true, nil
	}
	return e.IsAcceptedMember(c, userId)
}

// CanManage covers every mutation of campaign-scoped resources and all
// access to GM planning material (DM notes, campaign notes, storylines,
// story outcomes).
func (e *Evaluator) CanManage(c database.Campaign, userId int) bool {
	return IsOwner(c, userId)
}

// CanChat covers reading and posting campaign chat messages.
func (e *Evaluator) CanChat(c database.Campaign, userId int) (bool, error) {
	return e.CanView(c, userId)
}
