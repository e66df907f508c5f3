package config

import (
	"log"

	"fuelgenie-api/internal/adapters/persistence/models"
	"fuelgenie-api/internal/core/domain"
	"fuelgenie-api/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedRoles(); err != nil {
		return err
	}
	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	// Check if admin already exists
	var count int64
	s.db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@fuelgenie.example.com",
		Password: hashedPassword,
		FullName: "System Administrator",
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	// Attach the ADMIN role through a head-office team membership
	var adminRole models.Role
	if err := s.db.Where("role_name = ?", domain.AdminRoleName).First(&adminRole).Error; err != nil {
		return err
	}

	assignment := &models.TeamAssignment{
		UserID:   admin.ID,
		TeamName: "HEAD_OFFICE",
	}
	if err := s.db.Create(assignment).Error; err != nil {
		return err
	}
	if err := s.db.Model(assignment).Association("Roles").Append(&adminRole); err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}
