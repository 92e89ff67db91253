package seed

import (
	"mealweek/config"
	"mealweek/internal/logger"

	. "mealweek/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

func qty(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// Seed loads a demo household with a small catalog for local development.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return log.Err("failed to hash seed password", err)
	}

	user := User{
		FirstName:    "Demo",
		LastName:     "Household",
		Email:        "demo@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
		AutoPlanWeek: true,
	}

	var existing User
	if err := db.First(&existing, "email = ?", user.Email).Error; err == nil {
		log.Info("Seed user already exists", "email", user.Email)
		return nil
	}

	if err := db.Create(&user).Error; err != nil {
		return log.Err("failed to create seed user", err)
	}

	recipes := []Recipe{
		{
			UserID:       user.ID,
			Name:         "Spaghetti Bolognese",
			Category:     CategoryPasta,
			Source:       stringPtr("family cookbook p. 12"),
			BaseServings: 4,
			Ingredients: []Ingredient{
				{Name: "spaghetti", Quantity: qty("400"), Unit: "g"},
				{Name: "ground beef", Quantity: qty("500"), Unit: "g"},
				{Name: "crushed tomatoes", Quantity: qty("800"), Unit: "g"},
			},
			Steps: []RecipeStep{
				{Position: 1, Instruction: "Brown the beef with onion and garlic."},
				{Position: 2, Instruction: "Add tomatoes and simmer 30 minutes."},
				{Position: 3, Instruction: "Cook spaghetti and combine."},
			},
		},
		{
			UserID:       user.ID,
			Name:         "Baked Salmon",
			Category:     CategoryFish,
			BaseServings: 2,
			Ingredients: []Ingredient{
				{Name: "salmon fillet", Quantity: qty("300"), Unit: "g"},
				{Name: "lemon", Quantity: qty("1"), Unit: ""},
			},
			Steps: []RecipeStep{
				{Position: 1, Instruction: "Bake at 200C for 15 minutes with lemon slices."},
			},
		},
		{
			UserID:       user.ID,
			Name:         "Vegetable Curry",
			Category:     CategoryVegetarian,
			BaseServings: 4,
			Ingredients: []Ingredient{
				{Name: "mixed vegetables", Quantity: qty("600"), Unit: "g"},
				{Name: "coconut milk", Quantity: qty("400"), Unit: "ml"},
				{Name: "curry paste", Quantity: qty("2.5"), Unit: "tbsp"},
			},
			Steps: []RecipeStep{
				{Position: 1, Instruction: "Fry curry paste, add vegetables and coconut milk."},
				{Position: 2, Instruction: "Simmer until tender, serve with rice."},
			},
		},
		{
			UserID:       user.ID,
			Name:         "Roast Chicken",
			Category:     CategoryPoultry,
			BaseServings: 4,
			Ingredients: []Ingredient{
				{Name: "whole chicken", Quantity: qty("1.4"), Unit: "kg"},
			},
			Steps: []RecipeStep{
				{Position: 1, Instruction: "Roast at 180C for 80 minutes."},
			},
		},
		{
			UserID:       user.ID,
			Name:         "Tomato Soup",
			Category:     CategorySoup,
			BaseServings: 4,
			Ingredients: []Ingredient{
				{Name: "tomatoes", Quantity: qty("1000"), Unit: "g"},
				{Name: "vegetable stock", Quantity: qty("500"), Unit: "ml"},
			},
			Steps: []RecipeStep{
				{Position: 1, Instruction: "Simmer tomatoes in stock, blend smooth."},
			},
		},
	}

	for _, recipe := range recipes {
		log.Info("Seeding recipe", "name", recipe.Name)
		if err := db.Create(&recipe).Error; err != nil {
			log.Er("failed to create recipe", err, "name", recipe.Name)
		}
	}

	log.Info("Seeding complete", "recipes", len(recipes))
	return nil
}
