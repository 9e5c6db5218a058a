package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/urbix/urbix-backend/internal/models"
)

// RegisterUser creates a user with a hashed credential and a default
// preferences row. Emails are stored lowercase and must be unique.
func RegisterUser(db *gorm.DB, name, email, password, phone string) (*models.User, *models.UserPreferences, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	if name == "" || email == "" || password == "" {
		return nil, nil, validationf("Missing required fields: name, email, password")
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, nil, err
	}
	if count > 0 {
		return nil, nil, conflictf("Email already in use").WithCode("EMAIL_IN_USE")
	}

	user := &models.User{
		FullName: name,
		Email:    email,
	}
	if phone != "" {
		user.Phone = &phone
	}
	if err := user.SetPassword(password); err != nil {
		return nil, nil, err
	}

	var prefs *models.UserPreferences
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		prefs = models.DefaultPreferences(user.ID)
		return tx.Create(prefs).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return user, prefs, nil
}

// AuthenticateUser verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func AuthenticateUser(db *gorm.DB, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, validationf("Missing email or password")
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, authf("Invalid email or password")
	}
	if err := user.CheckPassword(password); err != nil {
		return nil, authf("Invalid email or password")
	}
	return &user, nil
}

func GetUser(db *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, notFoundf("User not found")
	}
	return &user, nil
}

// GetPreferences returns the user's preferences, creating the row with
// defaults on first access.
func GetPreferences(db *gorm.DB, userID uint) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := db.Where("user_id = ?", userID).First(&prefs).Error
	if err == nil {
		return &prefs, nil
	}
	created := models.DefaultPreferences(userID)
	if err := db.Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

// PreferencesPatch carries the optional fields of a preferences update.
type PreferencesPatch struct {
	MaxWalkingTime    *int
	BudgetSensitivity *int
	UseByDefault      *bool

	Transit *bool
	Bike    *bool
	Carpool *bool
	Driving *bool
	Walking *bool

	WheelchairAccessible *bool
	ElevatorRequired     *bool
	AvoidStairs          *bool
}

// UpdatePreferences applies the present fields of the patch.
func UpdatePreferences(db *gorm.DB, userID uint, patch PreferencesPatch) (*models.UserPreferences, error) {
	prefs, err := GetPreferences(db, userID)
	if err != nil {
		return nil, err
	}

	if patch.MaxWalkingTime != nil {
		prefs.MaxWalkingTime = *patch.MaxWalkingTime
	}
	if patch.BudgetSensitivity != nil {
		prefs.BudgetSensitivity = *patch.BudgetSensitivity
	}
	if patch.UseByDefault != nil {
		prefs.UseByDefault = *patch.UseByDefault
	}
	if patch.Transit != nil {
		prefs.PreferTransit = *patch.Transit
	}
	if patch.Bike != nil {
		prefs.PreferBike = *patch.Bike
	}
	if patch.Carpool != nil {
		prefs.PreferCarpool = *patch.Carpool
	}
	if patch.Driving != nil {
		prefs.PreferDriving = *patch.Driving
	}
	if patch.Walking != nil {
		prefs.PreferWalking = *patch.Walking
	}
	if patch.WheelchairAccessible != nil {
		prefs.WheelchairAccessible = *patch.WheelchairAccessible
	}
	if patch.ElevatorRequired != nil {
		prefs.ElevatorRequired = *patch.ElevatorRequired
	}
	if patch.AvoidStairs != nil {
		prefs.AvoidStairs = *patch.AvoidStairs
	}

	if err := db.Save(prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}
