package config

import (
	"errors"
	"log"
	"os"

	"cso-scholarhub/internal/adapters/persistence/models"
	"cso-scholarhub/internal/pkg/password"

	"gorm.io/gorm"
)

// scholarshipPrograms is the master list of programs offered
var scholarshipPrograms = []string{
	"Academic Excellence Scholarship",
	"Academic Scholarship",
	"Athletics Scholarship",
	"Fr. Araneta Scholarship",
	"Fr. Moggi Scholarship",
	"Janitorial Services",
	"Merit Scholarship",
	"Performing Arts Scholarship",
	"Police Grant-in-Aid",
	"President's Scholarship",
	"Security Guard",
	"Seminarians Scholarship",
	"St. Francis Xavier",
	"St. Ignatius 1",
	"St. Ignatius 2",
	"XU-AFPEBSO",
	"XU Band Scholarship",
	"AAABC",
	"BBFAA",
	"Del Monte Foundation Inc.",
	"Fondacion De Familia Tagud Inc.",
	"Fondation Families Lauzon et Provencher",
	"Henry Howard Scholarship",
	"PHILDEV Science and Engineering Scholarship",
	"Rebisco Foundation, Inc.",
	"SM Foundation Inc.",
	"UT Foundation Inc., Scholarship",
	"Vicente B. Bello",
	"XUCCCO",
	"City College Scholarship Program",
	"Commission on Higher Education (CHED) Scholarships",
	"Department of Science and Technology (DOST)",
	"Philippine Veterans Affairs Office (PVAO)",
}

// SeedMasterData seeds scholarship programs and the default CSO admin
func SeedMasterData(db *gorm.DB) error {
	if err := seedScholarships(db); err != nil {
		return err
	}
	if err := seedAdminUser(db); err != nil {
		return err
	}

	log.Println("✅ Master data seeded successfully")
	return nil
}

func seedScholarships(db *gorm.DB) error {
	for _, name := range scholarshipPrograms {
		var existing models.Scholarship
		if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				scholarship := models.Scholarship{Name: name, IsActive: true}
				if err := db.Create(&scholarship).Error; err != nil {
					return err
				}
				log.Printf("   Created scholarship: %s", name)
			}
		}
	}
	return nil
}

func seedAdminUser(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	pass := os.Getenv("ADMIN_PASSWORD")
	if email == "" || pass == "" {
		// No admin credentials configured, skip
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := password.Hash(pass)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     "CSO Admin",
		Email:    email,
		Password: hashed,
		Role:     "ADMIN",
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("   Created admin user: %s", email)
	return nil
}
