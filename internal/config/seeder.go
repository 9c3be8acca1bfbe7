package config

import (
	"log"

	"gorm.io/gorm"

	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/models"
	"github.com/spmcdev/Daily-Collection/internal/core/domain"
	"github.com/spmcdev/Daily-Collection/internal/pkg/password"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the initial admin account when no active admin
// exists. Credentials come from the environment; in production an empty
// ADMIN_PASSWORD skips seeding instead of embedding a default.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).
		Where("role = ? AND is_active = ?", string(domain.RoleAdmin), true).
		Count(&count)
	if count > 0 {
		return nil // Active admin already exists
	}

	adminPassword := s.cfg.Admin.Password
	if adminPassword == "" {
		if s.cfg.IsProd() {
			log.Println("⚠️ Skipping admin seed: ADMIN_PASSWORD not set")
			return nil
		}
		// Development fallback only
		adminPassword = "admin123456"
		log.Println("⚠️ ADMIN_PASSWORD not set, using development default")
	}

	hashedPassword, err := password.Hash(adminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:     s.cfg.Admin.Username,
		PasswordHash: hashedPassword,
		Role:         string(domain.RoleAdmin),
		IsActive:     true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}
