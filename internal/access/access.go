package access

import "strings"

type Role string
type Action string

const (
	RoleNone         Role = "none"
	RoleCollaborator Role = "collaborator"
	RoleOwner        Role = "owner"
)

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionManage Action = "manage"
)

// RoleFor resolves a user's role on a workspace from its owner id and
// collaborator list. Collaborator entries are user ids recorded from
// client input, so matching trims and ignores case.
func RoleFor(userID, ownerID string, collaborators []string) Role {
	if userID == "" {
		return RoleNone
	}
	if userID == ownerID {
		return RoleOwner
	}
	for _, c := range collaborators {
		if strings.EqualFold(strings.TrimSpace(c), userID) {
			return RoleCollaborator
		}
	}
	return RoleNone
}

// Can reports whether a role may perform an action. Owners may do
// everything; collaborators may view and edit the document but not
// manage sharing, enhanced-ICP saves, or deletion.
func Can(role Role, action Action) bool {
	switch role {
	case RoleOwner:
		return true
	case RoleCollaborator:
		return action == ActionView || action == ActionEdit
	default:
		return false
	}
}
