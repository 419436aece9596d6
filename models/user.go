package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/artplim/erp_backend/config"
	"bitbucket.org/artplim/erp_backend/utils"
	"github.com/dgrijalva/jwt-go"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	CompanyId string    `gorm:"index" json:"company_id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email     *string   `gorm:"size:100;unique" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	RoleId    int       `gorm:"not null;default:0" json:"role_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	RoleId   int    `json:"role_id"`
}

/*
caches:
	User:$username
	RefreshToken:$jti
*/

func (user User) RemoveInstanceRedis() error {
	return config.RemoveRedisKey("User:" + user.Username)
}

type LoginInfo struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	CompanyId    string   `json:"company_id"`
	CompanyName  string   `json:"company_name"`
	AllowedPaths []string `json:"allowed_paths"`
}

func (result *User) PrepareGive() {
	result.Password = ""
}

// CreateUser registers a user under the company in the context. RoleId 0
// means company admin (no path restriction).
func CreateUser(ctx context.Context, input *NewUser) (*User, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	if input.RoleId > 0 {
		if err := utils.ValidateResourceId[Role](ctx, companyId, input.RoleId); err != nil {
			return nil, errors.New("role not found")
		}
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		CompanyId: companyId,
		Username:  input.Username,
		Name:      input.Name,
		Email:     utils.NilIfEmpty(input.Email),
		Phone:     input.Phone,
		Password:  string(hashed),
		IsActive:  utils.NewTrue(),
		RoleId:    input.RoleId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.PrepareGive()
	return &user, nil
}

// Login checks credentials and mints an access + refresh token pair. The
// refresh jti is kept in redis so a rotated/revoked token stops working.
func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	var result LoginInfo

	user := User{}

	// get User info
	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return nil, err
	}
	if !exists {
		err = db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error
		if err != nil {
			return nil, errors.New("invalid username or password")
		}
	}

	// check login credentials; a corrupt stored hash fails the same way a
	// wrong password does
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, errors.New("invalid username or password")
	}

	if !utils.DereferencePtr(user.IsActive, true) {
		return nil, errors.New("user is disabled")
	}

	token, err := utils.JwtGenerate(user.ID, user.CompanyId, user.RoleId)
	if err != nil {
		return nil, err
	}
	refreshToken, jti, err := utils.JwtGenerateRefresh(user.ID, user.CompanyId)
	if err != nil {
		return nil, err
	}

	result.Token = token
	result.RefreshToken = refreshToken
	result.Name = user.Name
	result.CompanyId = user.CompanyId

	if user.RoleId == 0 {
		result.Role = "Admin"
	} else {
		role, err := utils.FetchModel[Role](ctx, user.CompanyId, user.RoleId)
		if err != nil {
			return nil, err
		}
		result.Role = role.Name
		result.AllowedPaths = role.PathList()
	}

	company, err := GetCompanyById(ctx, user.CompanyId)
	if err == nil && company != nil {
		result.CompanyName = company.Name
	}

	// register the refresh jti; Refresh() rejects unknown ids
	refreshLifespan := 24 * 7 * time.Hour
	if err := config.SetRedisValue("RefreshToken:"+jti, username, refreshLifespan); err != nil {
		return nil, err
	}
	if err := config.SetRedisObject("User:"+username, &user, time.Hour); err != nil {
		return nil, err
	}

	return &result, nil
}

// Refresh exchanges a valid refresh token for a new access + refresh pair.
// The used jti is rotated out so each refresh token works exactly once.
func Refresh(ctx context.Context, refreshToken string) (*LoginInfo, error) {

	validated, err := utils.JwtValidateRefresh(refreshToken)
	if err != nil || !validated.Valid {
		return nil, errors.New("invalid refresh token")
	}
	claims, ok := validated.Claims.(*utils.JwtRefreshClaim)
	if !ok {
		return nil, errors.New("invalid refresh token")
	}

	username, found, err := config.GetRedisValue("RefreshToken:" + claims.Id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("refresh token revoked")
	}

	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, errors.New("user not found")
	}
	if !utils.DereferencePtr(user.IsActive, true) {
		return nil, errors.New("user is disabled")
	}

	// rotate: drop the used jti before minting the next pair
	if err := config.RemoveRedisKey("RefreshToken:" + claims.Id); err != nil {
		return nil, err
	}

	token, err := utils.JwtGenerate(user.ID, user.CompanyId, user.RoleId)
	if err != nil {
		return nil, err
	}
	newRefresh, jti, err := utils.JwtGenerateRefresh(user.ID, user.CompanyId)
	if err != nil {
		return nil, err
	}
	if err := config.SetRedisValue("RefreshToken:"+jti, username, 24*7*time.Hour); err != nil {
		return nil, err
	}

	return &LoginInfo{
		Token:        token,
		RefreshToken: newRefresh,
		Name:         user.Name,
		CompanyId:    user.CompanyId,
	}, nil
}

// Logout revokes a refresh token and drops the cached user record.
func Logout(ctx context.Context, refreshToken string) (bool, error) {
	validated, err := utils.JwtValidateRefresh(refreshToken)
	if err != nil {
		return false, errors.New("invalid refresh token")
	}
	claims, ok := validated.Claims.(*utils.JwtRefreshClaim)
	if !ok || claims.Id == "" {
		return false, errors.New("invalid refresh token")
	}
	if err := config.RemoveRedisKey("RefreshToken:" + claims.Id); err != nil {
		return false, err
	}
	if userName, ok := utils.GetUserNameFromContext(ctx); ok && userName != "" {
		if err := config.RemoveRedisKey("User:" + userName); err != nil {
			return false, err
		}
	}
	return true, nil
}

func GetAllUsers(ctx context.Context) ([]*User, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	results, err := utils.FetchAllModels[User](ctx, companyId)
	if err != nil {
		return nil, err
	}
	for _, user := range results {
		user.PrepareGive()
	}
	return results, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	user, err := utils.FetchModel[User](ctx, companyId, id)
	if err != nil {
		return nil, err
	}
	user.PrepareGive()
	return user, nil
}

// ChangePassword verifies the old password before storing the new hash and
// invalidates the cached user record.
func ChangePassword(ctx context.Context, oldPassword string, newPassword string) (*User, error) {

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return nil, errors.New("user id is required")
	}

	user, err := utils.FetchSingleModel[User](ctx, userId)
	if err != nil {
		return nil, err
	}

	if err := utils.ComparePassword(user.Password, oldPassword); err != nil {
		return nil, errors.New("incorrect password")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(user).UpdateColumn("password", string(hashed)).Error; err != nil {
		return nil, fmt.Errorf("failed to change password: %w", err)
	}

	if err := user.RemoveInstanceRedis(); err != nil {
		return nil, err
	}
	user.PrepareGive()
	return user, nil
}

// GetUserNameById resolves a user's display name, redis or db. Used by the
// auth middleware so audit rows carry the actor's name, not just the id.
func GetUserNameById(ctx context.Context, id int) (string, error) {
	key := "UserName:" + fmt.Sprint(id)
	name, found, err := config.GetRedisValue(key)
	if err != nil {
		return "", err
	}
	if found {
		return name, nil
	}

	user, err := utils.FetchSingleModel[User](ctx, id)
	if err != nil {
		return "", err
	}
	if err := config.SetRedisValue(key, user.Name, time.Hour); err != nil {
		return "", err
	}
	return user.Name, nil
}

// CurrentClaims re-parses the bearer token in the context; used by internal
// tools that need the raw claims.
func CurrentClaims(ctx context.Context) (*utils.JwtCustomClaim, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return nil, errors.New("token is required")
	}
	validated, err := utils.JwtValidate(token)
	if err != nil || !validated.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := validated.Claims.(*utils.JwtCustomClaim)
	if !ok {
		return nil, jwt.NewValidationError("invalid claims", jwt.ValidationErrorClaimsInvalid)
	}
	return claims, nil
}
