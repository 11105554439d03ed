package policy

import "testing"

func TestCanManage(t *testing.T) {
	tests := []struct {
		name     string
		role     int16
		approved bool
		want     bool
	}{
		{"approved owner", RoleOwner, true, true},
		{"approved admin", RoleAdmin, true, true},
		{"approved member", RoleMember, true, false},
		{"approved viewer", RoleViewer, true, false},
		{"pending owner", RoleOwner, false, false},
		{"pending admin", RoleAdmin, false, false},
		{"unknown role", 99, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanManage(tt.role, tt.approved); got != tt.want {
				t.Fatalf("CanManage(%d, %v) = %v, want %v", tt.role, tt.approved, got, tt.want)
			}
		})
	}
}

func TestCanAssignRole(t *testing.T) {
	tests := []struct {
		name  string
		actor int16
		new   int16
		want  bool
	}{
		{"owner grants admin", RoleOwner, RoleAdmin, true},
		{"owner grants member", RoleOwner, RoleMember, true},
		{"owner grants viewer", RoleOwner, RoleViewer, true},
		{"admin grants member", RoleAdmin, RoleMember, true},
		{"admin grants viewer", RoleAdmin, RoleViewer, true},
		{"admin grants admin", RoleAdmin, RoleAdmin, false},
		{"nobody grants owner", RoleOwner, RoleOwner, false},
		{"member grants viewer", RoleMember, RoleViewer, false},
		{"viewer grants member", RoleViewer, RoleMember, false},
		{"unknown target role", RoleOwner, 42, false},
		{"unknown actor role", 42, RoleMember, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAssignRole(tt.actor, tt.new); got != tt.want {
				t.Fatalf("CanAssignRole(%d, %d) = %v, want %v", tt.actor, tt.new, got, tt.want)
			}
		})
	}
}

func TestCanRemoveMember(t *testing.T) {
	tests := []struct {
		name   string
		actor  int16
		target int16
		want   bool
	}{
		{"admin removes member", RoleAdmin, RoleMember, true},
		{"owner removes admin", RoleOwner, RoleAdmin, true},
		{"owner cannot be removed", RoleAdmin, RoleOwner, false},
		{"owner cannot remove owner", RoleOwner, RoleOwner, false},
		{"member removes viewer", RoleMember, RoleViewer, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanRemoveMember(tt.actor, tt.target); got != tt.want {
				t.Fatalf("CanRemoveMember(%d, %d) = %v, want %v", tt.actor, tt.target, got, tt.want)
			}
		})
	}
}

func TestOwnerRoleLocked(t *testing.T) {
	if !OwnerRoleLocked(RoleOwner) {
		t.Fatal("owner role must be locked")
	}
	if OwnerRoleLocked(RoleAdmin) {
		t.Fatal("admin role must not be locked")
	}
}

func TestLevelOrdering(t *testing.T) {
	if Level(RoleOwner) >= Level(RoleAdmin) {
		t.Fatal("owner must outrank admin")
	}
	if Level(RoleAdmin) >= Level(RoleMember) {
		t.Fatal("admin must outrank member")
	}
	if Level(RoleMember) >= Level(RoleViewer) {
		t.Fatal("member must outrank viewer")
	}
	if Level(99) != 0 {
		t.Fatal("unknown role must have zero level")
	}
}
