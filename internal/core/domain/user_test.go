package domain

import "testing"

func TestHasRole(t *testing.T) {
	cases := []struct {
		role     string
		required string
		want     bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleMember, true},
		{RoleAdmin, RoleViewer, true},
		{RoleMember, RoleAdmin, false},
		{RoleMember, RoleMember, true},
		{RoleMember, RoleViewer, true},
		{RoleViewer, RoleMember, false},
		{RoleViewer, RoleViewer, true},
		{"", RoleViewer, false},
		{"bogus", RoleViewer, false},
		// An empty requirement admits any known role.
		{RoleViewer, "", true},
		{"", "", false},
	}
	for _, tc := range cases {
		if got := HasRole(tc.role, tc.required); got != tc.want {
			t.Fatalf("HasRole(%q, %q) = %v, want %v", tc.role, tc.required, got, tc.want)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleMember, RoleViewer} {
		if !ValidRole(role) {
			t.Fatalf("expected %q to be valid", role)
		}
	}
	for _, role := range []string{"", "root", "Admin"} {
		if ValidRole(role) {
			t.Fatalf("expected %q to be invalid", role)
		}
	}
}
