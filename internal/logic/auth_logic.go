package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/blues/aidlink/internal/auth"
	"github.com/blues/aidlink/internal/database"
	"github.com/blues/aidlink/internal/logger"
	"github.com/blues/aidlink/internal/model"
	"gorm.io/gorm"
)

const demoPassword = "password123"

// 演示账号：邮箱 -> 用户ID
var demoAccounts = map[string]string{
	"donor@example.com":       database.DonorID,
	"institution@example.com": database.InstitutionID,
	"supplier@example.com":    database.SupplierID,
}

// LoginResult 登录结果
type LoginResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// SignupInput 捐赠者注册信息
type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
}

// AuthLogic 登录业务逻辑
type AuthLogic struct {
	db     *gorm.DB
	sim    *Simulator
	issuer *auth.Issuer
}

// NewAuthLogic 创建登录业务逻辑
func NewAuthLogic(db *gorm.DB, sim *Simulator, issuer *auth.Issuer) *AuthLogic {
	return &AuthLogic{db: db, sim: sim, issuer: issuer}
}

// Login 只接受三组演示账号
func (a *AuthLogic) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := a.sim.Read(ctx); err != nil {
		return nil, err
	}

	userID, ok := demoAccounts[email]
	if !ok || password != demoPassword {
		return nil, ErrInvalidCredentials
	}

	var user model.User
	if err := a.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	token, err := a.issuer.Generate(&user)
	if err != nil {
		return nil, err
	}

	logger.Info("User %s logged in as %s", user.ID, user.Role)
	return &LoginResult{User: &user, Token: token}, nil
}

// SignupDonor 模拟捐赠者注册，不会生成可登录账号
func (a *AuthLogic) SignupDonor(ctx context.Context, input SignupInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	if err := a.sim.Write(ctx); err != nil {
		return err
	}

	logger.Info("Donor registered: %s <%s>", input.Name, input.Email)
	return nil
}
