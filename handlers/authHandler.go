package handlers

import (
	"net/http"

	"bitbucket.org/artplim/erp_backend/models"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := models.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

func Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := models.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

func Logout(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := models.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := models.ChangePassword(c.Request.Context(), req.OldPassword, req.NewPassword)
	if err != nil {
		respondError(c, "auth", "ChangePassword", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func CreateUser(c *gin.Context) {
	var input models.NewUser
	if !bindJSON(c, &input) {
		return
	}

	user, err := models.CreateUser(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "auth", "CreateUser", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func ListUsers(c *gin.Context) {
	users, err := models.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, "auth", "ListUsers", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func GetUser(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}

	user, err := models.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, "auth", "GetUser", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func CreateRole(c *gin.Context) {
	var input models.NewRole
	if !bindJSON(c, &input) {
		return
	}

	role, err := models.CreateRole(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "auth", "CreateRole", err)
		return
	}
	c.JSON(http.StatusCreated, role)
}

func ListRoles(c *gin.Context) {
	roles, err := models.GetAllRoles(c.Request.Context())
	if err != nil {
		respondError(c, "auth", "ListRoles", err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

func UpdateRole(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewRole
	if !bindJSON(c, &input) {
		return
	}

	role, err := models.UpdateRole(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "auth", "UpdateRole", err)
		return
	}
	c.JSON(http.StatusOK, role)
}
