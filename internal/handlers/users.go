package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/urbix/urbix-backend/internal/services"
	"github.com/urbix/urbix-backend/pkg/utils"
)

// GetMe returns the authenticated user's public profile.
func GetMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := services.GetUser(db, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		utils.OK(c, 200, user.PublicDict())
	}
}

// GetMyPreferences returns the user's preferences, creating the row with
// defaults on first access.
func GetMyPreferences(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		if _, err := services.GetUser(db, userID); err != nil {
			respondError(c, err)
			return
		}

		prefs, err := services.GetPreferences(db, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.OK(c, 200, prefs.ToDict())
	}
}

type preferencesInput struct {
	MaxWalkingTime    *int  `json:"maxWalkingTime"`
	BudgetSensitivity *int  `json:"budgetSensitivity"`
	UseByDefault      *bool `json:"useByDefault"`

	PreferredModes *struct {
		Transit *bool `json:"transit"`
		Bike    *bool `json:"bike"`
		Carpool *bool `json:"carpool"`
		Driving *bool `json:"driving"`
		Walking *bool `json:"walking"`
	} `json:"preferredModes"`

	Accessibility *struct {
		WheelchairAccessible *bool `json:"wheelchairAccessible"`
		ElevatorRequired     *bool `json:"elevatorRequired"`
		AvoidStairs          *bool `json:"avoidStairs"`
	} `json:"accessibility"`
}

// UpdateMyPreferences applies a partial preferences update.
func UpdateMyPreferences(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		if _, err := services.GetUser(db, userID); err != nil {
			respondError(c, err)
			return
		}

		var input preferencesInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, 400, "Invalid request body")
			return
		}

		patch := services.PreferencesPatch{
			MaxWalkingTime:    input.MaxWalkingTime,
			BudgetSensitivity: input.BudgetSensitivity,
			UseByDefault:      input.UseByDefault,
		}
		if input.PreferredModes != nil {
			patch.Transit = input.PreferredModes.Transit
			patch.Bike = input.PreferredModes.Bike
			patch.Carpool = input.PreferredModes.Carpool
			patch.Driving = input.PreferredModes.Driving
			patch.Walking = input.PreferredModes.Walking
		}
		if input.Accessibility != nil {
			patch.WheelchairAccessible = input.Accessibility.WheelchairAccessible
			patch.ElevatorRequired = input.Accessibility.ElevatorRequired
			patch.AvoidStairs = input.Accessibility.AvoidStairs
		}

		prefs, err := services.UpdatePreferences(db, userID, patch)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.OK(c, 200, prefs.ToDict())
	}
}
