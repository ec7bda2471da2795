package entities

// Role representa o papel de um usuário no marketplace
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Permission representa uma permissão específica
type Permission string

const (
	// User permissions
	PermissionUserRead   Permission = "users.read"
	PermissionUserWrite  Permission = "users.write"
	PermissionUserDelete Permission = "users.delete"

	// Listing permissions
	PermissionListingRead   Permission = "listings.read"
	PermissionListingWrite  Permission = "listings.write"
	PermissionListingManage Permission = "listings.manage"

	// Order permissions
	PermissionOrderRead   Permission = "orders.read"
	PermissionOrderWrite  Permission = "orders.write"
	PermissionOrderManage Permission = "orders.manage"

	// Credits / analytics
	PermissionCreditsGrant   Permission = "credits.grant"
	PermissionAnalyticsRead  Permission = "analytics.read"
	PermissionMessagingWrite Permission = "messaging.write"
)

// RolePermissions mapeia roles para suas permissões
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionUserRead,
		PermissionUserWrite,
		PermissionUserDelete,
		PermissionListingRead,
		PermissionListingWrite,
		PermissionListingManage,
		PermissionOrderRead,
		PermissionOrderWrite,
		PermissionOrderManage,
		PermissionCreditsGrant,
		PermissionAnalyticsRead,
		PermissionMessagingWrite,
	},
	RoleUser: {
		PermissionUserRead,
		PermissionListingRead,
		PermissionListingWrite,
		PermissionOrderRead,
		PermissionOrderWrite,
		PermissionMessagingWrite,
	},
	RoleGuest: {
		PermissionUserRead,
		PermissionListingRead,
	},
}

// IsValid verifica se o role é conhecido
func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// GetPermissions retorna permissões de um role
func (r Role) GetPermissions() []Permission {
	return RolePermissions[r]
}

// HasPermission verifica se role tem permissão
func (r Role) HasPermission(permission Permission) bool {
	permissions := RolePermissions[r]
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}
