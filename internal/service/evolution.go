package service

import (
	"context"
	"time"

	"github.com/consultafit/nutriplan/backend/internal/models"
	"github.com/consultafit/nutriplan/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Metrics accepted by Delta.
const (
	MetricWeightKg       = "weightKg"
	MetricBodyFatPercent = "bodyFatPercent"
	MetricMuscleMassKg   = "muscleMassKg"
)

// Trend point statuses. A day without an active plan is reported as no_plan,
// never as a zero ratio.
const (
	TrendStatusOK     = "ok"
	TrendStatusNoPlan = "no_plan"
)

// TrendPoint is one day of the adherence trend window.
type TrendPoint struct {
	Date      string           `json:"date"`
	Status    string           `json:"status"`
	PlanID    *uuid.UUID       `json:"plan_id,omitempty"`
	Adherence *AdherenceReport `json:"adherence,omitempty"`
}

// EvolutionService turns a patient's assessment history and plan adherence
// into trend output.
type EvolutionService struct {
	db    *gorm.DB
	plans IPlanService
}

// Ensure EvolutionService implements IEvolutionService
var _ IEvolutionService = (*EvolutionService)(nil)

// NewEvolutionService creates a new EvolutionService instance.
func NewEvolutionService(db *gorm.DB, plans IPlanService) *EvolutionService {
	return &EvolutionService{db: db, plans: plans}
}

// CreateAssessment records a new immutable assessment. Corrections are new
// rows, never edits.
func (s *EvolutionService) CreateAssessment(ctx context.Context, nutritionistID uuid.UUID, req *types.CreateAssessmentRequest) (*models.AnthropometricAssessment, error) {
	if req.WeightKg <= 0 || req.HeightCm <= 0 || req.AgeYears <= 0 {
		return nil, ErrInvalidAnthropometric
	}
	if req.Sex != models.SexMale && req.Sex != models.SexFemale {
		return nil, ErrInvalidAnthropometric
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidAnthropometric
	}

	assessment := models.AnthropometricAssessment{
		PatientID:      req.PatientID,
		NutritionistID: nutritionistID,
		Date:           date,
		WeightKg:       req.WeightKg,
		HeightCm:       req.HeightCm,
		AgeYears:       req.AgeYears,
		Sex:            req.Sex,
		BodyFatPercent: req.BodyFatPercent,
		MuscleMassKg:   req.MuscleMassKg,
	}
	if err := s.db.WithContext(ctx).Create(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

// SeriesFor returns a patient's assessments ordered by date ascending. The
// store is queried fresh on every call; no cursor is retained between calls.
func (s *EvolutionService) SeriesFor(ctx context.Context, patientID uuid.UUID) ([]models.AnthropometricAssessment, error) {
	var series []models.AnthropometricAssessment
	err := s.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("date ASC").
		Find(&series).Error
	return series, err
}

// Delta returns latest minus earliest for the given metric across a series.
// Fewer than two assessments carrying the metric yields ErrNoData.
func (s *EvolutionService) Delta(metric string, series []models.AnthropometricAssessment) (float64, error) {
	var values []float64
	for _, a := range series {
		switch metric {
		case MetricWeightKg:
			values = append(values, a.WeightKg)
		case MetricBodyFatPercent:
			if a.BodyFatPercent != nil {
				values = append(values, *a.BodyFatPercent)
			}
		case MetricMuscleMassKg:
			if a.MuscleMassKg != nil {
				values = append(values, *a.MuscleMassKg)
			}
		default:
			return 0, ErrInvalidMetric
		}
	}
	if len(values) < 2 {
		return 0, ErrNoData
	}
	return values[len(values)-1] - values[0], nil
}

// AdherenceTrend correlates each day of the window with the plan active on
// that day and its adherence report.
func (s *EvolutionService) AdherenceTrend(ctx context.Context, patientID uuid.UUID, windowDays int) ([]TrendPoint, error) {
	if windowDays <= 0 {
		windowDays = 7
	}

	var plans []models.NutritionPlan
	if err := s.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("activated_at ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	points := make([]TrendPoint, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		dayStart := today.AddDate(0, 0, -i)
		dayEnd := dayStart.Add(24 * time.Hour)

		plan := planActiveOn(plans, dayStart, dayEnd)
		if plan == nil {
			points = append(points, TrendPoint{
				Date:   dayStart.Format("2006-01-02"),
				Status: TrendStatusNoPlan,
			})
			continue
		}

		report, err := s.plans.AdherenceRatio(ctx, plan.ID)
		if err != nil {
			return nil, err
		}
		points = append(points, TrendPoint{
			Date:      dayStart.Format("2006-01-02"),
			Status:    TrendStatusOK,
			PlanID:    &plan.ID,
			Adherence: report,
		})
	}
	return points, nil
}

// planActiveOn picks the plan covering [dayStart, dayEnd): activated before
// the day ended and not completed before it started. Archived plans never
// count.
func planActiveOn(plans []models.NutritionPlan, dayStart, dayEnd time.Time) *models.NutritionPlan {
	for i := len(plans) - 1; i >= 0; i-- {
		p := &plans[i]
		if p.Status == models.PlanStatusArchived {
			continue
		}
		if !p.ActivatedAt.Before(dayEnd) {
			continue
		}
		if p.CompletedAt != nil && p.CompletedAt.Before(dayStart) {
			continue
		}
		return p
	}
	return nil
}
