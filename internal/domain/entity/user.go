package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

const (
	PermManageUsers     = "manage-users"
	PermManageStaff     = "manage-staff"
	PermManageCustomers = "manage-customers"
	PermManageTables    = "manage-tables"
	PermManageMenu      = "manage-menu"
	PermManageInventory = "manage-inventory"
	PermConfirmStock    = "confirm-stock"
	PermManageVouchers  = "manage-vouchers"
	PermManageInvoices  = "manage-invoices"
	PermViewReports     = "view-reports"
)

// User is a login account. Staff and customers hang off it by user id.
type User struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name                string          `gorm:"size:100;not null" json:"name"`
	Email               string          `gorm:"size:255;unique;not null" json:"email"`
	Password            string          `gorm:"size:255" json:"-"`
	Status              enum.UserStatus `gorm:"default:0" json:"status"`
	VerifyCode          *string         `gorm:"size:6" json:"-"`
	VerifyCodeExpiresAt *time.Time      `json:"-"`
	Provider            string          `gorm:"size:50;default:'local'" json:"provider"`
	ProviderID          *string         `gorm:"size:255" json:"-"`
	AvatarURL           *string         `gorm:"size:500" json:"avatar_url,omitempty"`
	EmailVerifiedAt     *time.Time      `json:"email_verified_at,omitempty"`
	LastLoginAt         *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	DeletedAt           gorm.DeletedAt  `gorm:"index" json:"-"`

	Roles []Role `gorm:"many2many:model_has_roles;foreignKey:ID;joinForeignKey:model_id;References:ID;joinReferences:role_id" json:"roles,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (User) TableName() string {
	return "users"
}

// Role represents a role in the RBAC system
type Role struct {
	ID          uint         `gorm:"primary_key" json:"id"`
	Name        string       `gorm:"size:255;unique;not null" json:"name"`
	GuardName   string       `gorm:"size:255;default:'api'" json:"guard_name"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Permissions []Permission `gorm:"many2many:role_has_permissions;foreignKey:ID;joinForeignKey:role_id;References:ID;joinReferences:permission_id" json:"permissions,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

type Permission struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;unique;not null" json:"name"`
	GuardName string    `gorm:"size:255;default:'api'" json:"guard_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Permission) TableName() string {
	return "permissions"
}

func (u *User) HasPermission(permissionName string) bool {
	for _, role := range u.Roles {
		for _, permission := range role.Permissions {
			if permission.Name == permissionName {
				return true
			}
		}
	}
	return false
}

func (u *User) HasRole(roleName string) bool {
	for _, role := range u.Roles {
		if role.Name == roleName {
			return true
		}
	}
	return false
}

// RoleNames returns the names of the user's loaded roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}

// GetPermissions returns the de-duplicated permission names across all roles.
func (u *User) GetPermissions() []string {
	seen := make(map[string]bool)
	result := make([]string, 0)
	for _, role := range u.Roles {
		for _, permission := range role.Permissions {
			if !seen[permission.Name] {
				seen[permission.Name] = true
				result = append(result, permission.Name)
			}
		}
	}
	return result
}
