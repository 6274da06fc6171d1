package admin

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"edudbt_backend/internals/constants"
	"edudbt_backend/internals/features/users/user/model"
	"edudbt_backend/internals/features/users/user/repository"
	helper "edudbt_backend/internals/helpers"
)

// SeedAdmin creates the admin account once. An existing email is left untouched.
func SeedAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		log.Println("ℹ️ ADMIN_EMAIL / ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	users := repository.NewUserRepository(db)
	if _, err := users.FindByEmail(ctx, email); err == nil {
		log.Printf("ℹ️ Admin '%s' already exists, skipped.", email)
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hashed, err := helper.HashPassword(password)
	if err != nil {
		return err
	}
	u := &model.UserModel{
		UserName: "admin",
		Email:    email,
		Password: hashed,
		FullName: "EduDBT Admin",
		Role:     constants.RoleAdmin,
		IsActive: true,
		Language: model.LanguageEnglish,
	}
	if err := users.Create(ctx, u); err != nil {
		return err
	}
	log.Printf("✅ Admin '%s' created", email)
	return nil
}
