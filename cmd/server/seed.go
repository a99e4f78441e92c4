package main

import (
	"errors"
	"fmt"
	"log/slog"

	"team-pdca/internal/config"
	"team-pdca/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var defaultTeams = []model.Team{
	{Name: "EDA", Description: "EDA team"},
	{Name: "PADS", Description: "PADS team"},
	{Name: "ADSK", Description: "ADSK team"},
	{Name: "MANAGE", Description: "MANAGE team"},
}

// seed ensures the default admin account and teams exist. Idempotent:
// existing rows are left alone.
func seed(db *gorm.DB, auth config.AuthConfig) error {
	var admin model.User
	err := db.Where("username = ?", auth.AdminUsername).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hashed, herr := bcrypt.GenerateFromPassword([]byte(auth.AdminPassword), 12)
		if herr != nil {
			return fmt.Errorf("hash admin password: %w", herr)
		}
		admin = model.User{
			Username: auth.AdminUsername,
			Password: string(hashed),
			Name:     auth.AdminName,
			Email:    auth.AdminEmail,
			Role:     model.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		slog.Info("default admin created", "username", auth.AdminUsername)
	} else if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}

	for _, t := range defaultTeams {
		var existing model.Team
		err := db.Where("name = ?", t.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&t).Error; err != nil {
				return fmt.Errorf("create team %s: %w", t.Name, err)
			}
			slog.Info("default team created", "name", t.Name)
		} else if err != nil {
			return fmt.Errorf("check team %s: %w", t.Name, err)
		}
	}
	return nil
}
