package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/consultafit/nutriplan/backend/internal/api"
	"github.com/consultafit/nutriplan/backend/internal/models"
	"github.com/consultafit/nutriplan/backend/internal/router"
	"github.com/consultafit/nutriplan/backend/internal/service"
	"github.com/consultafit/nutriplan/backend/internal/testhelpers"
)

type testApp struct {
	engine *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewTestDB(t)
	logger := zap.NewNop()

	foodService := service.NewFoodService(db)
	mealService := service.NewMealService(db, foodService, nil)
	planService := service.NewPlanService(db, nil)
	evolutionService := service.NewEvolutionService(db, planService)
	authService := service.NewAuthService(db, "test-secret")
	importService := service.NewFoodImportService(db, nil, "", logger)

	handlers := router.Handlers{
		Auth:      api.NewAuthHandler(authService),
		Food:      api.NewFoodHandler(foodService, importService, nil, logger),
		Plan:      api.NewPlanHandler(planService),
		Meal:      api.NewMealHandler(mealService),
		Energy:    api.NewEnergyHandler(),
		Evolution: api.NewEvolutionHandler(evolutionService),
	}

	engine := router.Setup(handlers, authService, router.Limiters{}, nil, nil, logger)
	return &testApp{engine: engine, db: db, auth: authService}
}

func (a *testApp) seedUser(t *testing.T, role string) (*models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Name:          "Test " + role,
		Email:         fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8]),
		PasswordHash:  string(hash),
		Role:          role,
		ConsultancyID: uuid.New(),
	}
	require.NoError(t, a.db.Create(user).Error)

	token, err := a.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func (a *testApp) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestLoginEndpoint(t *testing.T) {
	app := newTestApp(t)
	user, _ := app.seedUser(t, models.RoleNutritionist)

	w := app.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    user.Email,
		"password": "s3cret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	decode(t, w, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.Email, resp.User.Email)

	w = app.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    user.Email,
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)

	w := app.request(t, http.MethodGet, "/api/v1/foods", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.request(t, http.MethodGet, "/api/v1/foods", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPatientCannotMutate(t *testing.T) {
	app := newTestApp(t)
	_, patientToken := app.seedUser(t, models.RolePatient)

	w := app.request(t, http.MethodPost, "/api/v1/plans", patientToken, gin.H{
		"patient_id": uuid.New(),
		"name":       "plan",
		"targets": gin.H{
			"daily_calories": 2000,
		},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPlanLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	_, token := app.seedUser(t, models.RoleNutritionist)
	patientID := uuid.New()

	// Create the plan.
	w := app.request(t, http.MethodPost, "/api/v1/plans", token, gin.H{
		"patient_id": patientID,
		"name":       "summer cut",
		"targets": gin.H{
			"daily_calories": 1800,
			"protein_grams":  140,
			"carbs_grams":    160,
			"fat_grams":      60,
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var plan models.NutritionPlan
	decode(t, w, &plan)
	assert.Equal(t, models.PlanStatusActive, plan.Status)

	// Add a meal.
	w = app.request(t, http.MethodPost, fmt.Sprintf("/api/v1/plans/%s/meals", plan.ID), token, gin.H{
		"name": "lunch",
		"time": "12:30",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var meal models.Meal
	decode(t, w, &meal)

	// Add an inline food to the primary group.
	w = app.request(t, http.MethodPost, fmt.Sprintf("/api/v1/meals/%s/foods", meal.ID), token, gin.H{
		"inline": gin.H{
			"name":                 "rice and beans",
			"calories_per_serving": 300,
			"protein_per_serving":  12,
			"carbs_per_serving":    55,
			"fat_per_serving":      4,
		},
		"quantity": 2,
		"unit":     "plate",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Totals count the scaled primary rows.
	w = app.request(t, http.MethodGet, fmt.Sprintf("/api/v1/plans/%s/totals", plan.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var totals service.DailyTotals
	decode(t, w, &totals)
	assert.InDelta(t, 600, totals.Calories, 0.001)
	assert.InDelta(t, 24, totals.Protein, 0.001)

	// Adherence against targets.
	w = app.request(t, http.MethodGet, fmt.Sprintf("/api/v1/plans/%s/adherence", plan.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report service.AdherenceReport
	decode(t, w, &report)
	assert.InDelta(t, 600.0/1800.0*100, report.Calories.Percent, 0.001)
	assert.False(t, report.Calories.Exceeded)

	// Unknown plan gets a 404.
	w = app.request(t, http.MethodGet, fmt.Sprintf("/api/v1/plans/%s/totals", uuid.New()), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnergyComputeEndpoint(t *testing.T) {
	app := newTestApp(t)
	_, token := app.seedUser(t, models.RolePatient)

	w := app.request(t, http.MethodPost, "/api/v1/energy/compute", token, gin.H{
		"weight_kg":      70,
		"height_cm":      175,
		"age_years":      30,
		"sex":            "male",
		"activity_level": "moderate",
		"goal":           "maintenance",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result service.EnergyCalculationResult
	decode(t, w, &result)
	assert.InDelta(t, 1648.75, result.BMR, 0.01)

	w = app.request(t, http.MethodPost, "/api/v1/energy/compute", token, gin.H{
		"weight_kg": 70,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "binding rejects incomplete input")
}
