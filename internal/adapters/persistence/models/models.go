package models

import (
	"time"

	"fuelgenie-api/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	FullName  string         `gorm:"size:100" json:"full_name"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	TeamAssignments []TeamAssignment `gorm:"foreignKey:UserID" json:"team_assignments,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	Teams     []string  `json:"teams,omitempty"`
	Roles     []string  `json:"roles,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	for _, assignment := range u.TeamAssignments {
		resp.Teams = append(resp.Teams, assignment.TeamName)
		for _, role := range assignment.Roles {
			resp.Roles = append(resp.Roles, role.RoleName)
		}
	}
	return resp
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Permission Tables
// ============================================================

// Role represents roles table. The ADMIN role is seeded and protected.
type Role struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RoleName  string         `gorm:"uniqueIndex;size:50;not null" json:"role_name"`
	IsSystem  bool           `gorm:"default:false" json:"is_system"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Sections []RoleSection `gorm:"foreignKey:RoleID" json:"sections,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// RoleSection is a module grant within a role
type RoleSection struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	RoleID     uint   `gorm:"index;not null" json:"role_id"`
	ModuleName string `gorm:"size:50;not null" json:"module_name"`

	// Relations
	SubModules []SubModulePermission `gorm:"foreignKey:RoleSectionID" json:"sub_modules,omitempty"`
}

func (RoleSection) TableName() string {
	return "role_sections"
}

// SubModulePermission is the four-bit CRUD grant for one feature screen
type SubModulePermission struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	RoleSectionID uint   `gorm:"index;not null" json:"role_section_id"`
	SubModuleName string `gorm:"size:50;not null" json:"sub_module_name"`
	CanCreate     bool   `gorm:"default:false" json:"create"`
	CanRead       bool   `gorm:"default:false" json:"read"`
	CanUpdate     bool   `gorm:"default:false" json:"update"`
	CanDelete     bool   `gorm:"default:false" json:"delete"`
}

func (SubModulePermission) TableName() string {
	return "sub_module_permissions"
}

// TeamAssignment is one team membership of a user with its assigned roles
type TeamAssignment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"index;not null" json:"user_id"`
	TeamName string `gorm:"size:50;not null" json:"team_name"`

	// Relations
	Roles []Role `gorm:"many2many:team_assignment_roles" json:"roles,omitempty"`
}

func (TeamAssignment) TableName() string {
	return "team_assignments"
}

// ToDomain converts a role row (with preloaded sections) into the pure
// permission model consumed by the evaluator.
func (r *Role) ToDomain() domain.Role {
	role := domain.Role{
		RoleID:   r.ID,
		RoleName: r.RoleName,
	}
	for _, section := range r.Sections {
		s := domain.Section{ModuleName: section.ModuleName}
		for _, sub := range section.SubModules {
			s.SubModules = append(s.SubModules, domain.SubModulePermission{
				SubModuleName: sub.SubModuleName,
				Permissions: domain.Permissions{
					Create: sub.CanCreate,
					Read:   sub.CanRead,
					Update: sub.CanUpdate,
					Delete: sub.CanDelete,
				},
			})
		}
		role.Sections = append(role.Sections, s)
	}
	return role
}

// ============================================================
// Customer Table
// ============================================================

// Customer represents an onboarded fuel-distribution customer
type Customer struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CID          string         `gorm:"uniqueIndex;size:30;not null" json:"cid"`
	BusinessName string         `gorm:"size:150;not null" json:"business_name"`
	ContactName  string         `gorm:"size:100" json:"contact_name"`
	Phone        string         `gorm:"size:20" json:"phone"`
	Email        string         `gorm:"size:100" json:"email"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Auth & users
		&User{},
		&RefreshToken{},
		// Permissions
		&Role{},
		&RoleSection{},
		&SubModulePermission{},
		&TeamAssignment{},
		// Customers & credit
		&Customer{},
		&CreditAccount{},
		&CreditTransaction{},
		&Settlement{},
		&PartialPayment{},
		&ClearedTransaction{},
		&ExtraCredit{},
	)
}
