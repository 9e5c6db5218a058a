package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/urbix/urbix-backend/internal/config"
	"github.com/urbix/urbix-backend/internal/models"
	"github.com/urbix/urbix-backend/internal/services"
	"github.com/urbix/urbix-backend/pkg/utils"
)

type registerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Register creates an account with default preferences and signs the user in.
func Register(db *gorm.DB, jwtm *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input registerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, 400, "Invalid request body")
			return
		}

		user, prefs, err := services.RegisterUser(db, input.Name, input.Email, input.Password, input.Phone)
		if err != nil {
			respondError(c, err)
			return
		}

		token, err := jwtm.Generate(user.ID, utils.RoleUser)
		if err != nil {
			respondError(c, err)
			return
		}

		utils.OK(c, 201, gin.H{
			"token":       token,
			"user":        user.PublicDict(),
			"preferences": prefs.ToDict(),
		})
	}
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and returns a token with the user's profile and
// preferences (null when the preferences row does not exist yet).
func Login(db *gorm.DB, jwtm *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input loginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, 400, "Invalid request body")
			return
		}

		user, err := services.AuthenticateUser(db, input.Email, input.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		token, err := jwtm.Generate(user.ID, utils.RoleUser)
		if err != nil {
			respondError(c, err)
			return
		}

		var prefsDict map[string]any
		var prefs models.UserPreferences
		if err := db.Where("user_id = ?", user.ID).First(&prefs).Error; err == nil {
			prefsDict = prefs.ToDict()
		}

		utils.OK(c, 200, gin.H{
			"token":       token,
			"user":        user.PublicDict(),
			"preferences": prefsDict,
		})
	}
}

// Me returns the authenticated user's profile and preferences.
func Me(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		user, err := services.GetUser(db, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		var prefsDict map[string]any
		var prefs models.UserPreferences
		if err := db.Where("user_id = ?", user.ID).First(&prefs).Error; err == nil {
			prefsDict = prefs.ToDict()
		}

		utils.OK(c, 200, gin.H{
			"user":        user.PublicDict(),
			"preferences": prefsDict,
		})
	}
}

// AdminLogin checks the configured admin credentials and issues a token with
// the reserved admin subject.
func AdminLogin(admin config.AdminConfig, jwtm *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input loginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, 400, "Invalid request body")
			return
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))
		if email == "" || input.Password == "" {
			utils.Fail(c, 400, "Missing email or password")
			return
		}

		if email != strings.ToLower(admin.Email) || input.Password != admin.Password {
			utils.Fail(c, 401, "Invalid admin credentials")
			return
		}

		token, err := jwtm.Generate(utils.AdminSubjectID, utils.RoleAdmin)
		if err != nil {
			respondError(c, err)
			return
		}

		utils.OK(c, 200, gin.H{
			"token": token,
			"admin": gin.H{"email": strings.ToLower(admin.Email)},
		})
	}
}
