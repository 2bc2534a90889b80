package database

import (
	"fmt"
	"log"
	"time"

	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/pkg/utils"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// rolePermissions is the default permission set of each seeded role.
var rolePermissions = map[string][]string{
	entity.RoleAdmin: {
		entity.PermManageUsers,
		entity.PermManageStaff,
		entity.PermManageCustomers,
		entity.PermManageTables,
		entity.PermManageMenu,
		entity.PermManageInventory,
		entity.PermConfirmStock,
		entity.PermManageVouchers,
		entity.PermManageInvoices,
		entity.PermViewReports,
	},
	entity.RoleStaff: {
		entity.PermManageCustomers,
		entity.PermManageTables,
		entity.PermManageInventory,
		entity.PermManageInvoices,
	},
	entity.RoleCustomer: {},
}

// SeedDefaultData creates permissions, roles and, when ADMIN_EMAIL and
// ADMIN_PASSWORD are set, an active admin account. It is safe to run on every boot.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	byName := make(map[string]entity.Permission)
	for _, names := range rolePermissions {
		for _, name := range names {
			if _, ok := byName[name]; ok {
				continue
			}
			p := entity.Permission{Name: name, GuardName: "api"}
			if err := db.Where(entity.Permission{Name: name}).FirstOrCreate(&p).Error; err != nil {
				return fmt.Errorf("seed permission %s: %w", name, err)
			}
			byName[name] = p
		}
	}

	roles := make(map[string]entity.Role)
	for roleName, names := range rolePermissions {
		role := entity.Role{Name: roleName, GuardName: "api"}
		if err := db.Where(entity.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", roleName, err)
		}
		perms := make([]entity.Permission, 0, len(names))
		for _, n := range names {
			perms = append(perms, byName[n])
		}
		if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return fmt.Errorf("seed role %s permissions: %w", roleName, err)
		}
		roles[roleName] = role
	}

	if err := seedAdmin(db, roles[entity.RoleAdmin]); err != nil {
		log.Printf("Warning: %v", err)
	}

	log.Println("Default data seeding completed")
	return nil
}

func seedAdmin(db *gorm.DB, adminRole entity.Role) error {
	email := viper.GetString("ADMIN_EMAIL")
	password := viper.GetString("ADMIN_PASSWORD")
	name := viper.GetString("ADMIN_NAME")
	if email == "" || password == "" {
		return nil
	}
	if name == "" {
		name = "Administrator"
	}

	var existing entity.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("Admin user already exists: %s", email)
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now()
	admin := entity.User{
		Name:            name,
		Email:           email,
		Password:        hash,
		Status:          enum.UserStatusActive,
		EmailVerifiedAt: &now,
		Roles:           []entity.Role{adminRole},
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Printf("Admin user created: %s", email)
	return nil
}
