// config/permissions.go
package config

// PermissionSet is the authorization metadata assigned to an account at
// creation time. The auth core never mutates it afterwards.
type PermissionSet struct {
	AccessLevel int
	Permissions []string
}

var AdminPermissions = PermissionSet{
	AccessLevel: 1,
	Permissions: []string{
		"DEACTIVATE_ACCOUNT",
		"ACTIVATE_ACCOUNT",
		"DELETE_ACCOUNT",
		"CREATE_PROJECT",
		"UPDATE_PROJECT",
		"DELETE_PROJECT",
	},
}

var NormalPermissions = PermissionSet{
	AccessLevel: 5,
	Permissions: []string{
		"CREATE_PROJECT",
		"UPDATE_PROJECT",
		"DELETE_PROJECT",
		"COMMENT",
	},
}
