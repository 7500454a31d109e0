package models

const (
	PermissionReferralRead  = "referral:read"
	PermissionReferralWrite = "referral:write"
	PermissionEarningsRead  = "earnings:read"
	PermissionEarningsClaim = "earnings:claim"
	PermissionReadAdmin     = "admin:read"
)

var memberPermissions = []string{
	PermissionReferralRead,
	PermissionReferralWrite,
	PermissionEarningsRead,
	PermissionEarningsClaim,
}

var rolePermissions = map[string][]string{
	RoleUser:  memberPermissions,
	RoleAdmin: append(append([]string{}, memberPermissions...), PermissionReadAdmin),
}

// GetDefaultPermissions returns a copy of the permission set granted to role.
// Unknown roles get none.
func GetDefaultPermissions(role string) []string {
	return append([]string{}, rolePermissions[role]...)
}
