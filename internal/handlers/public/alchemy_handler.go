package public

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shard-legends/alchemy-service/internal/auth"
	dberrors "github.com/shard-legends/alchemy-service/internal/errors"
	"github.com/shard-legends/alchemy-service/internal/models"
	"github.com/shard-legends/alchemy-service/internal/service"
	"go.uber.org/zap"
)

// AlchemyHandler обрабатывает HTTP запросы котла, лавки и формул
type AlchemyHandler struct {
	craft     service.CraftService
	inventory service.InventoryService
	catalog   service.CatalogService
	logger    *zap.Logger
}

// NewAlchemyHandler создает новый экземпляр AlchemyHandler
func NewAlchemyHandler(craft service.CraftService, inventory service.InventoryService, catalog service.CatalogService, logger *zap.Logger) *AlchemyHandler {
	return &AlchemyHandler{
		craft:     craft,
		inventory: inventory,
		catalog:   catalog,
		logger:    logger,
	}
}

// GetIngredients обрабатывает GET /alchemy/ingredients
func (h *AlchemyHandler) GetIngredients(w http.ResponseWriter, r *http.Request) {
	playerID, ok := h.playerID(w, r)
	if !ok {
		return
	}

	ingredients, err := h.inventory.GetIngredients(r.Context(), playerID)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to get ingredients")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, models.IngredientsResponse{Ingredients: ingredients})
}

// GetShop обрабатывает GET /alchemy/shop
func (h *AlchemyHandler) GetShop(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.GetShop(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to get shop")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, models.ShopResponse{Ingredients: items})
}

// Purchase обрабатывает POST /alchemy/shop/purchase
func (h *AlchemyHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	playerID, ok := h.playerID(w, r)
	if !ok {
		return
	}

	var req models.PurchaseRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	ingredient, err := h.inventory.Purchase(r.Context(), playerID, &req)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to purchase ingredient")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, models.PurchaseResponse{Success: true, Ingredient: *ingredient})
}

// PreviewMixture обрабатывает POST /alchemy/mixture/preview
func (h *AlchemyHandler) PreviewMixture(w http.ResponseWriter, r *http.Request) {
	playerID, ok := h.playerID(w, r)
	if !ok {
		return
	}

	var req models.MixtureRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	aggregate, err := h.craft.PreviewMixture(r.Context(), playerID, req.Slots)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to preview mixture")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, models.MixturePreviewResponse{Aggregate: aggregate})
}

// Craft обрабатывает POST /alchemy/craft.
// Неудачная варка - штатный ответ 200 с success=false.
func (h *AlchemyHandler) Craft(w http.ResponseWriter, r *http.Request) {
	playerID, ok := h.playerID(w, r)
	if !ok {
		return
	}

	var req models.MixtureRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.craft.CraftPotion(r.Context(), playerID, req.Slots)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to craft potion")
		return
	}

	message := "The mixture did not form a potion"
	if result.Success {
		message = "You crafted " + result.Potion.Name
	}

	h.writeJSONResponse(w, http.StatusOK, models.CraftResponse{CraftResult: *result, Message: message})
}

// GetPotions обрабатывает GET /alchemy/potions
func (h *AlchemyHandler) GetPotions(w http.ResponseWriter, r *http.Request) {
	playerID, ok := h.playerID(w, r)
	if !ok {
		return
	}

	potions, err := h.inventory.GetPotions(r.Context(), playerID)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to get potions")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, models.PotionsResponse{Potions: potions})
}

// GetCatalog обрабатывает GET /alchemy/catalog
func (h *AlchemyHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalog.GetCatalog(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to get catalog")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, models.CatalogResponse{Potions: catalog.All()})
}

// GetFormulas обрабатывает GET /alchemy/formulas
func (h *AlchemyHandler) GetFormulas(w http.ResponseWriter, r *http.Request) {
	playerID, ok := h.playerID(w, r)
	if !ok {
		return
	}

	formulas, err := h.craft.GetFormulas(r.Context(), playerID)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to get formulas")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, models.FormulasResponse{Formulas: formulas})
}

// SaveFormula обрабатывает POST /alchemy/formulas. Уже известная формула - 409.
func (h *AlchemyHandler) SaveFormula(w http.ResponseWriter, r *http.Request) {
	playerID, ok := h.playerID(w, r)
	if !ok {
		return
	}

	var req models.SaveFormulaRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	known, err := h.craft.IsFormulaKnown(r.Context(), playerID, &req)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to check formula")
		return
	}
	if known {
		h.writeErrorResponse(w, http.StatusConflict, models.ErrorCodeFormulaKnown, "You already know this formula", nil)
		return
	}

	formula, err := h.craft.SaveFormula(r.Context(), playerID, &req)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to save formula")
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, formula)
}

// playerID извлекает игрока из контекста, при отсутствии пишет 401
func (h *AlchemyHandler) playerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	playerID, err := auth.GetPlayerID(r.Context())
	if err != nil {
		h.writeErrorResponse(w, http.StatusUnauthorized, models.ErrorCodeMissingUserID, "Player ID not found in context", nil)
		return uuid.Nil, false
	}
	return playerID, true
}

// decodeAndValidate разбирает JSON тело и проверяет validate теги
func (h *AlchemyHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeBadRequest, "Invalid JSON body", nil)
		return false
	}

	if err := models.ValidateStruct(dst); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeValidation, "Request validation failed",
			map[string]interface{}{"fields": models.FieldErrors(err)})
		return false
	}
	return true
}

// writeServiceError переводит ошибку сервиса в HTTP ответ
func (h *AlchemyHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if details, ok := dberrors.IsInsufficientIngredient(err); ok {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeInsufficientItems, details.Error(),
			map[string]interface{}{
				"ingredient_id": details.IngredientID,
				"name":          details.Name,
				"requested":     details.Requested,
				"available":     details.Available,
			})
		return
	}

	switch {
	case errors.Is(err, models.ErrInvalidMixture),
		errors.Is(err, models.ErrInvalidIngredient),
		errors.Is(err, models.ErrInvalidPotion):
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeValidation, err.Error(), nil)
	case errors.Is(err, service.ErrCraftInProgress):
		h.writeErrorResponse(w, http.StatusConflict, models.ErrorCodeCraftInProgress, "Another craft is in progress", nil)
	case dberrors.IsConcurrentOperation(err):
		h.writeErrorResponse(w, http.StatusConflict, models.ErrorCodeCraftInProgress, err.Error(), nil)
	case errors.Is(err, service.ErrPotionNotFound),
		errors.Is(err, service.ErrShopIngredientNotFound),
		dberrors.IsNotFound(err):
		h.writeErrorResponse(w, http.StatusNotFound, models.ErrorCodeNotFound, err.Error(), nil)
	default:
		h.logger.Error(message,
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, message, nil)
	}
}

// writeJSONResponse отправляет JSON ответ
func (h *AlchemyHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeErrorResponse отправляет JSON ответ с ошибкой
func (h *AlchemyHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string, details map[string]interface{}) {
	h.writeJSONResponse(w, statusCode, models.ErrorResponse{
		Error:   errorCode,
		Message: message,
		Details: details,
	})
}
