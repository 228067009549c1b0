package models

import (
	"strings"

	"github.com/gamedepot/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdmin 初始化默认管理员账号（首次启动且无管理员时创建）
func InitDefaultAdmin(email, password string) error {
	var count int64
	DB.Model(&User{}).Where("is_admin = ?", true).Count(&count)
	if count > 0 {
		return nil
	}

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		email = "admin@gamedepot.local"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Email:        email,
		Name:         "Administrator",
		PasswordHash: string(hash),
		Status:       UserStatusActive,
		IsAdmin:      true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
		logger.Warnw("default_admin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_admin_created", "email", email, "password_hidden", true)
	}
	return nil
}
