// Package policy holds the company authorization rules in one place so every
// service answers "who may do what" the same way.
package policy

// Role identifiers match the rows seeded into the roles table. Lower level
// means more authority.
const (
	RoleOwner  int16 = 1
	RoleAdmin  int16 = 2
	RoleMember int16 = 3
	RoleViewer int16 = 4
)

// DefaultJoinRole is assigned to every new join request.
const DefaultJoinRole = RoleMember

var roleLevels = map[int16]int{
	RoleOwner:  1,
	RoleAdmin:  2,
	RoleMember: 3,
	RoleViewer: 4,
}

const adminLevelMax = 2

// IsKnown reports whether the role id is part of the catalog.
func IsKnown(roleID int16) bool {
	_, ok := roleLevels[roleID]
	return ok
}

// Level returns the authority level for a role, or 0 for unknown roles.
func Level(roleID int16) int {
	return roleLevels[roleID]
}

// IsAdminLevel reports whether the role carries management authority.
func IsAdminLevel(roleID int16) bool {
	lvl := Level(roleID)
	return lvl > 0 && lvl <= adminLevelMax
}

// CanManage reports whether an approved membership with the given role may
// administer the company: approve or reject requests, change roles, remove
// members, and see the pending queue. Pending members never manage anything.
func CanManage(roleID int16, approved bool) bool {
	return approved && IsAdminLevel(roleID)
}

// CanAssignRole reports whether an actor role may hand out the new role.
// Nobody assigns OWNER through role updates, and only the owner may grant or
// revoke admin-level authority.
func CanAssignRole(actorRole, newRole int16) bool {
	if !IsKnown(actorRole) || !IsKnown(newRole) {
		return false
	}
	if newRole == RoleOwner {
		return false
	}
	if IsAdminLevel(newRole) {
		return actorRole == RoleOwner
	}
	return IsAdminLevel(actorRole)
}

// CanRemoveMember reports whether an actor role may remove a member holding
// the target role. The owner membership is untouchable.
func CanRemoveMember(actorRole, targetRole int16) bool {
	if targetRole == RoleOwner {
		return false
	}
	return IsAdminLevel(actorRole)
}

// OwnerRoleLocked reports whether a role update would touch the owner
// membership. The owner's role never changes while they own the company.
func OwnerRoleLocked(targetRole int16) bool {
	return targetRole == RoleOwner
}
