package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RecipeCategory string

const (
	CategoryMeat       RecipeCategory = "meat"
	CategoryFish       RecipeCategory = "fish"
	CategoryVegetarian RecipeCategory = "vegetarian"
	CategoryPoultry    RecipeCategory = "poultry"
	CategoryPasta      RecipeCategory = "pasta"
	CategorySoup       RecipeCategory = "soup"
	CategoryOther      RecipeCategory = "other"
)

var recipeCategories = map[RecipeCategory]bool{
	CategoryMeat:       true,
	CategoryFish:       true,
	CategoryVegetarian: true,
	CategoryPoultry:    true,
	CategoryPasta:      true,
	CategorySoup:       true,
	CategoryOther:      true,
}

// NormalizeCategory coerces untrusted category strings into the enum,
// defaulting to "other" for anything unknown.
func NormalizeCategory(raw string) RecipeCategory {
	category := RecipeCategory(raw)
	if recipeCategories[category] {
		return category
	}
	return CategoryOther
}

const DefaultBaseServings = 4

type Recipe struct {
	BaseModel
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index"          json:"userId"`
	User         User           `gorm:"foreignKey:UserID"                 json:"-"`
	Name         string         `gorm:"type:text;not null"                json:"name"`
	Category     RecipeCategory `gorm:"type:varchar(20);not null"         json:"category"`
	Source       *string        `gorm:"type:text"                         json:"source,omitempty"`
	BaseServings int            `gorm:"type:int;not null;default:4"       json:"baseServings"`
	LastCooked   *time.Time     `gorm:"type:date"                         json:"lastCooked,omitempty"`
	Ingredients  []Ingredient   `gorm:"constraint:OnDelete:CASCADE"       json:"ingredients"`
	Steps        []RecipeStep   `gorm:"constraint:OnDelete:CASCADE"       json:"steps"`
}

type Ingredient struct {
	BaseModel
	RecipeID int             `gorm:"type:int;not null;index" json:"recipeId"`
	Name     string          `gorm:"type:text;not null"      json:"name"`
	Quantity decimal.Decimal `gorm:"type:numeric"            json:"quantity"`
	Unit     string          `gorm:"type:varchar(20)"        json:"unit"`
}

type RecipeStep struct {
	BaseModel
	RecipeID    int    `gorm:"type:int;not null;index" json:"recipeId"`
	Position    int    `gorm:"type:int;not null"       json:"position"`
	Instruction string `gorm:"type:text;not null"      json:"instruction"`
}

// ScaledIngredients returns the recipe's ingredients with quantities scaled
// to the requested serving count. Quantities stay exact via decimal math.
func (r *Recipe) ScaledIngredients(servings int) []Ingredient {
	if servings <= 0 || r.BaseServings <= 0 || servings == r.BaseServings {
		return r.Ingredients
	}

	factor := decimal.NewFromInt(int64(servings)).
		Div(decimal.NewFromInt(int64(r.BaseServings)))

	scaled := make([]Ingredient, len(r.Ingredients))
	for i, ingredient := range r.Ingredients {
		ingredient.Quantity = ingredient.Quantity.Mul(factor)
		scaled[i] = ingredient
	}
	return scaled
}

// CookedUpdate instructs the catalog to advance one recipe's last-cooked
// date. Batches are produced by the week export flow.
type CookedUpdate struct {
	RecipeID int       `json:"recipeId"`
	Date     time.Time `json:"date"`
}

// MarkCooked advances LastCooked to the given date. Updates are monotonic:
// an earlier date never overwrites a later one.
func (r *Recipe) MarkCooked(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	if r.LastCooked != nil && !day.After(*r.LastCooked) {
		return false
	}
	r.LastCooked = &day
	return true
}
