package service

import "errors"

// Validation errors are caller-correctable and surfaced immediately.
var (
	ErrInvalidQuantity       = errors.New("quantity must be greater than zero")
	ErrInvalidGroup          = errors.New("option group must not be negative")
	ErrInvalidAnthropometric = errors.New("weight, height and age must be greater than zero")
	ErrInvalidTargets        = errors.New("daily calories must be positive and macro targets non-negative")
	ErrInvalidCategory       = errors.New("unknown food category")
	ErrInvalidFoodSource     = errors.New("exactly one of food_reference_id or inline must be set")
	ErrInvalidMetric         = errors.New("unknown evolution metric")
	ErrInvalidCredentials    = errors.New("invalid credentials")
)

// Not-found errors are surfaced as-is, never treated as a no-op.
var (
	ErrFoodNotFound     = errors.New("food reference not found")
	ErrPlanNotFound     = errors.New("nutrition plan not found")
	ErrMealNotFound     = errors.New("meal not found")
	ErrMealFoodNotFound = errors.New("meal food not found")
	ErrNoData           = errors.New("not enough assessments to compute a delta")
)

// Ownership and invariant errors.
var (
	// ErrGlobalFoodReadOnly: global reference rows are shared data and cannot
	// be changed by a consultancy.
	ErrGlobalFoodReadOnly = errors.New("global food reference entries are read-only")

	// ErrForbidden: the record exists but belongs to another consultancy.
	ErrForbidden = errors.New("record belongs to another consultancy")

	// ErrCorruptPlan signals an orphaned meal reference during aggregation.
	// The aggregator fails loudly instead of returning a partial sum.
	ErrCorruptPlan = errors.New("plan references a meal that does not belong to it")
)
