package service

// Energy/macro calculator. Pure computation: derives recommended daily
// calories and macro split from anthropometric inputs using the
// Mifflin-St Jeor equation. Results are returned to the caller, which may
// apply them to a plan's targets in an explicit second step; nothing here
// touches storage.

// Activity levels.
const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "veryActive"
)

// Goals.
const (
	GoalLoss        = "loss"
	GoalMaintenance = "maintenance"
	GoalGain        = "gain"
)

var activityMultipliers = map[string]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// Goal policy: calorie adjustment plus macro split. The splits are expressed
// as calorie fractions and converted to grams at 4/4/9 kcal per gram.
type goalPolicy struct {
	calorieFactor float64
	proteinPct    float64
	carbsPct      float64
	fatPct        float64
}

var goalPolicies = map[string]goalPolicy{
	GoalLoss:        {calorieFactor: 0.80, proteinPct: 0.35, carbsPct: 0.35, fatPct: 0.30},
	GoalMaintenance: {calorieFactor: 1.00, proteinPct: 0.30, carbsPct: 0.40, fatPct: 0.30},
	GoalGain:        {calorieFactor: 1.15, proteinPct: 0.25, carbsPct: 0.50, fatPct: 0.25},
}

// Caloric density per gram of macro.
const (
	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0
)

// EnergyInput holds the anthropometric inputs for one calculation.
type EnergyInput struct {
	WeightKg      float64
	HeightCm      float64
	AgeYears      int
	Sex           string
	ActivityLevel string
	Goal          string
}

// EnergyCalculationResult is the calculator output. It is never persisted as
// its own entity.
type EnergyCalculationResult struct {
	BMR                 float64 `json:"bmr"`
	TDEE                float64 `json:"tdee"`
	RecommendedCalories float64 `json:"recommended_calories"`
	RecommendedProtein  float64 `json:"recommended_protein"`
	RecommendedCarbs    float64 `json:"recommended_carbs"`
	RecommendedFat      float64 `json:"recommended_fat"`
}

// ComputeEnergyTargets derives BMR, TDEE and a recommended daily macro split.
func ComputeEnergyTargets(in EnergyInput) (*EnergyCalculationResult, error) {
	if in.WeightKg <= 0 || in.HeightCm <= 0 || in.AgeYears <= 0 {
		return nil, ErrInvalidAnthropometric
	}
	if in.Sex != "male" && in.Sex != "female" {
		return nil, ErrInvalidAnthropometric
	}
	multiplier, ok := activityMultipliers[in.ActivityLevel]
	if !ok {
		return nil, ErrInvalidAnthropometric
	}
	policy, ok := goalPolicies[in.Goal]
	if !ok {
		return nil, ErrInvalidAnthropometric
	}

	// Mifflin-St Jeor
	bmr := 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(in.AgeYears)
	if in.Sex == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	tdee := bmr * multiplier
	calories := tdee * policy.calorieFactor

	return &EnergyCalculationResult{
		BMR:                 bmr,
		TDEE:                tdee,
		RecommendedCalories: calories,
		RecommendedProtein:  calories * policy.proteinPct / kcalPerGramProtein,
		RecommendedCarbs:    calories * policy.carbsPct / kcalPerGramCarbs,
		RecommendedFat:      calories * policy.fatPct / kcalPerGramFat,
	}, nil
}
