package models

import (
	"time"
)

// UserPreferences is the one-to-one settings record for a user. A row is
// created with defaults at registration and lazily on first access if absent.
type UserPreferences struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"userId"`

	MaxWalkingTime    int  `gorm:"column:max_walking_time;not null;default:15" json:"maxWalkingTime"`
	BudgetSensitivity int  `gorm:"column:budget_sensitivity;not null;default:50" json:"budgetSensitivity"`
	UseByDefault      bool `gorm:"column:use_by_default;not null;default:true" json:"useByDefault"`

	PreferTransit bool `gorm:"column:prefer_transit;not null;default:true" json:"preferTransit"`
	PreferBike    bool `gorm:"column:prefer_bike;not null;default:true" json:"preferBike"`
	PreferCarpool bool `gorm:"column:prefer_carpool;not null;default:false" json:"preferCarpool"`
	PreferDriving bool `gorm:"column:prefer_driving;not null;default:false" json:"preferDriving"`
	PreferWalking bool `gorm:"column:prefer_walking;not null;default:true" json:"preferWalking"`

	WheelchairAccessible bool `gorm:"column:wheelchair_accessible;not null;default:false" json:"wheelchairAccessible"`
	ElevatorRequired     bool `gorm:"column:elevator_required;not null;default:false" json:"elevatorRequired"`
	AvoidStairs          bool `gorm:"column:avoid_stairs;not null;default:false" json:"avoidStairs"`

	UpdatedAt time.Time `json:"updatedAt"`
}

func (UserPreferences) TableName() string {
	return "user_preferences"
}

// DefaultPreferences returns a preferences row with product defaults.
func DefaultPreferences(userID uint) *UserPreferences {
	return &UserPreferences{
		UserID:            userID,
		MaxWalkingTime:    15,
		BudgetSensitivity: 50,
		UseByDefault:      true,
		PreferTransit:     true,
		PreferBike:        true,
		PreferWalking:     true,
	}
}

func (p *UserPreferences) ToDict() map[string]any {
	return map[string]any{
		"maxWalkingTime":    p.MaxWalkingTime,
		"budgetSensitivity": p.BudgetSensitivity,
		"useByDefault":      p.UseByDefault,
		"preferredModes": map[string]any{
			"transit": p.PreferTransit,
			"bike":    p.PreferBike,
			"carpool": p.PreferCarpool,
			"driving": p.PreferDriving,
			"walking": p.PreferWalking,
		},
		"accessibility": map[string]any{
			"wheelchairAccessible": p.WheelchairAccessible,
			"elevatorRequired":     p.ElevatorRequired,
			"avoidStairs":          p.AvoidStairs,
		},
	}
}
