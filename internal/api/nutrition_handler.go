package api

import (
	"net/http"
	"time"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/service"

	"github.com/gin-gonic/gin"
)

type NutritionHandler struct {
	nutritionService service.NutritionService
}

func NewNutritionHandler(nutritionService service.NutritionService) *NutritionHandler {
	return &NutritionHandler{nutritionService: nutritionService}
}

type FoodRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Calories    float64 `json:"calories" binding:"gte=0"`
	Protein     float64 `json:"protein" binding:"gte=0"`
	Carbs       float64 `json:"carbs" binding:"gte=0"`
	Fat         float64 `json:"fat" binding:"gte=0"`
	ServingSize float64 `json:"servingSize" binding:"gte=0"`
	ServingUnit string  `json:"servingUnit" binding:"required,oneof=g ml pcs"`
}

// MealRequest is shared by create and update. Totals are never accepted
// from clients; they are computed from the foods.
type MealRequest struct {
	Type  *domain.MealType `json:"type" binding:"omitempty,oneof=breakfast lunch dinner snack"`
	Date  *time.Time       `json:"date"`
	Foods []FoodRequest    `json:"foods" binding:"omitempty,dive"`
	Notes *string          `json:"notes" binding:"omitempty,max=500"`
}

func (r MealRequest) toInput() service.MealInput {
	in := service.MealInput{Type: r.Type, Date: r.Date, Notes: trimmed(r.Notes)}
	if r.Foods != nil {
		in.Foods = make([]domain.FoodItem, 0, len(r.Foods))
		for _, f := range r.Foods {
			in.Foods = append(in.Foods, domain.FoodItem(f))
		}
	}
	return in
}

// MealListRequest accepts dates as YYYY-MM-DD or RFC 3339.
type MealListRequest struct {
	StartDate string          `form:"startDate"`
	EndDate   string          `form:"endDate"`
	Type      domain.MealType `form:"type" binding:"omitempty,oneof=breakfast lunch dinner snack"`
}

var queryDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseQueryDate(value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, true
		}
	}
	return nil, false
}

// mealQuery binds the listing filters, answering 400 on malformed input.
func mealQuery(c *gin.Context) (service.MealQuery, bool) {
	var req MealListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithBindingError(c, err)
		return service.MealQuery{}, false
	}
	from, ok := parseQueryDate(req.StartDate)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid startDate, expected YYYY-MM-DD or RFC 3339.")
		return service.MealQuery{}, false
	}
	to, ok := parseQueryDate(req.EndDate)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "Invalid endDate, expected YYYY-MM-DD or RFC 3339.")
		return service.MealQuery{}, false
	}
	return service.MealQuery{From: from, To: to, Type: req.Type}, true
}

// CreateMeal godoc
// @Summary Log a meal
// @Description Totals are computed from the foods.
// @Tags Nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param meal body MealRequest true "Meal"
// @Success 201 {object} domain.Meal
// @Failure 400 {object} ErrorResponse "Validation error"
// @Router /nutrition [post]
func (h *NutritionHandler) CreateMeal(c *gin.Context) {
	var req MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	meal, err := h.nutritionService.CreateMeal(c.Request.Context(), caller, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// ListMeals godoc
// @Summary List the caller's meals, newest first
// @Tags Nutrition
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Earliest meal date"
// @Param endDate query string false "Latest meal date"
// @Param type query string false "breakfast, lunch, dinner or snack"
// @Success 200 {array} domain.Meal
// @Failure 400 {object} ErrorResponse "Invalid query"
// @Router /nutrition [get]
func (h *NutritionHandler) ListMeals(c *gin.Context) {
	query, ok := mealQuery(c)
	if !ok {
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	meals, err := h.nutritionService.ListMeals(c.Request.Context(), caller, query)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(meals))
}

// GetMeal godoc
// @Summary Get one of the caller's meals
// @Tags Nutrition
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meal ID"
// @Success 200 {object} domain.Meal
// @Failure 404 {object} ErrorResponse "Meal not found"
// @Router /nutrition/{id} [get]
func (h *NutritionHandler) GetMeal(c *gin.Context) {
	mealID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	meal, err := h.nutritionService.GetMeal(c.Request.Context(), caller, mealID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// UpdateMeal godoc
// @Summary Update one of the caller's meals
// @Description Type, foods and notes change when present. Totals are recomputed.
// @Tags Nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meal ID"
// @Param meal body MealRequest true "Changed fields"
// @Success 200 {object} domain.Meal
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 404 {object} ErrorResponse "Meal not found"
// @Router /nutrition/{id} [put]
func (h *NutritionHandler) UpdateMeal(c *gin.Context) {
	mealID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	meal, err := h.nutritionService.UpdateMeal(c.Request.Context(), caller, mealID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// DeleteMeal godoc
// @Summary Delete one of the caller's meals
// @Tags Nutrition
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meal ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Meal not found"
// @Router /nutrition/{id} [delete]
func (h *NutritionHandler) DeleteMeal(c *gin.Context) {
	mealID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	if err := h.nutritionService.DeleteMeal(c.Request.Context(), caller, mealID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Meal deleted"})
}

// GetStats godoc
// @Summary Nutrition totals over a period
// @Tags Nutrition
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Earliest meal date"
// @Param endDate query string false "Latest meal date"
// @Success 200 {object} service.NutritionStats
// @Failure 400 {object} ErrorResponse "Invalid query"
// @Router /nutrition/stats/summary [get]
func (h *NutritionHandler) GetStats(c *gin.Context) {
	query, ok := mealQuery(c)
	if !ok {
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	stats, err := h.nutritionService.NutritionStats(c.Request.Context(), caller, query)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
