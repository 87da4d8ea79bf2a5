package models

import (
	"github.com/google/uuid"
	"github.com/shard-legends/alchemy-service/internal/alchemy"
)

// IngredientsResponse представляет ответ GET /alchemy/ingredients
type IngredientsResponse struct {
	Ingredients []PlayerIngredient `json:"ingredients"`
}

// ShopResponse представляет ответ GET /alchemy/shop
type ShopResponse struct {
	Ingredients []ShopIngredient `json:"ingredients"`
}

// PurchaseRequest представляет запрос POST /alchemy/shop/purchase
type PurchaseRequest struct {
	ShopIngredientID uuid.UUID `json:"shop_ingredient_id" validate:"required"`
	Quantity         int       `json:"quantity" validate:"required,min=1,max=99"`
}

// PurchaseResponse представляет ответ POST /alchemy/shop/purchase
type PurchaseResponse struct {
	Success    bool             `json:"success"`
	Ingredient PlayerIngredient `json:"ingredient"`
}

// MixtureRequest представляет содержимое котла: до четырех идентификаторов ингредиентов.
// uuid.Nil в слоте означает пустой слот.
type MixtureRequest struct {
	Slots []uuid.UUID `json:"slots" validate:"max=4"`
}

// MixturePreviewResponse представляет ответ POST /alchemy/mixture/preview
type MixturePreviewResponse struct {
	Aggregate alchemy.MixtureProperties `json:"aggregate"`
}

// CraftResponse представляет ответ POST /alchemy/craft
type CraftResponse struct {
	CraftResult
	Message string `json:"message"`
}

// PotionsResponse представляет ответ GET /alchemy/potions
type PotionsResponse struct {
	Potions []OwnedPotion `json:"potions"`
}

// CatalogResponse представляет ответ GET /alchemy/catalog
type CatalogResponse struct {
	Potions []alchemy.Potion `json:"potions"`
}

// FormulasResponse представляет ответ GET /alchemy/formulas
type FormulasResponse struct {
	Formulas []Formula `json:"formulas"`
}

// SaveFormulaRequest представляет запрос POST /alchemy/formulas.
// PotionName пустой, если варка не удалась.
type SaveFormulaRequest struct {
	IngredientNames []string `json:"ingredient_names" validate:"required,min=1,max=4,dive,required,max=100"`
	PotionName      string   `json:"potion_name" validate:"max=100"`
}

// OperationResponse представляет стандартный ответ операции
type OperationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse представляет стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationFieldError представляет ошибку валидации поля
type ValidationFieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Constants для ошибок
const (
	ErrorCodeValidation        = "validation_error"
	ErrorCodeInsufficientItems = "insufficient_items"
	ErrorCodeCraftInProgress   = "craft_in_progress"
	ErrorCodeFormulaKnown      = "formula_already_known"
	ErrorCodeMissingToken      = "missing_token"
	ErrorCodeInvalidToken      = "invalid_token_format"
	ErrorCodeTokenRevoked      = "token_revoked"
	ErrorCodeMissingUserID     = "missing_user_id"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeBadRequest        = "bad_request"
	ErrorCodeInternalError     = "internal_error"
)
