package models

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/parcops/parc_backend/config"
	"github.com/parcops/parc_backend/utils"
)

type UserRole string

const (
	UserRoleAdmin      UserRole = "ADMIN"
	UserRoleManager    UserRole = "MANAGER"
	UserRoleTechnician UserRole = "TECHNICIAN"
)

// User is a directory record. The ledger stores user ids by reference; the
// identity provider authenticates them.
type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email     *string   `gorm:"size:100;unique" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      UserRole  `gorm:"size:20;default:TECHNICIAN" json:"role"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string   `json:"username" binding:"required"`
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Password string   `json:"password" binding:"required"`
	Role     UserRole `json:"role"`
}

func itoa(id int) string { return strconv.Itoa(id) }

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, errors.New("username and password are required")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = UserRoleTechnician
	}
	active := true
	user := User{
		Username: input.Username,
		Name:     input.Name,
		Phone:    input.Phone,
		Password: string(hashed),
		Role:     role,
		IsActive: &active,
	}
	if input.Email != "" {
		user.Email = &input.Email
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	db := config.GetDB()
	var result User

	err := db.WithContext(ctx).First(&result, id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetUserByUsername(ctx context.Context, username string) (*User, error) {
	db := config.GetDB()
	var result User

	err := db.WithContext(ctx).Where("username = ?", username).First(&result).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

/*
caches:
	UserName:$id
*/

// GetUserName resolves a user's display name for the read surface, redis first.
func GetUserName(ctx context.Context, id int) (string, error) {
	var name string
	key := "UserName:" + itoa(id)
	exists, err := config.GetRedisObject(key, &name)
	if err != nil {
		return "", err
	}
	if exists {
		return name, nil
	}

	user, err := GetUser(ctx, id)
	if err != nil {
		return "", err
	}
	if err := config.SetRedisObject(key, user.Name, time.Hour); err != nil {
		return "", err
	}
	return user.Name, nil
}
