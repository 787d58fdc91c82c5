package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultafit/nutriplan/backend/internal/models"
	"github.com/consultafit/nutriplan/backend/internal/service"
	"github.com/consultafit/nutriplan/backend/internal/testhelpers"
	"github.com/consultafit/nutriplan/backend/internal/types"
)

func assessmentReq(patientID uuid.UUID, date string, weight float64) *types.CreateAssessmentRequest {
	return &types.CreateAssessmentRequest{
		PatientID: patientID,
		Date:      date,
		WeightKg:  weight,
		HeightCm:  175,
		AgeYears:  30,
		Sex:       models.SexMale,
	}
}

func TestCreateAssessment_Validation(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	evolution := service.NewEvolutionService(db, service.NewPlanService(db, nil))
	patientID := uuid.New()

	req := assessmentReq(patientID, "2026-08-01", 0)
	_, err := evolution.CreateAssessment(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, service.ErrInvalidAnthropometric)

	req = assessmentReq(patientID, "01/08/2026", 80)
	_, err = evolution.CreateAssessment(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, service.ErrInvalidAnthropometric, "wrong date format")

	req = assessmentReq(patientID, "2026-08-01", 80)
	req.Sex = "unknown"
	_, err = evolution.CreateAssessment(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, service.ErrInvalidAnthropometric)

	created, err := evolution.CreateAssessment(context.Background(), uuid.New(), assessmentReq(patientID, "2026-08-01", 80))
	require.NoError(t, err)
	assert.Equal(t, 80.0, created.WeightKg)
	assert.Equal(t, time.August, created.Date.Month())
}

func TestSeriesFor_OrderedByDate(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	evolution := service.NewEvolutionService(db, service.NewPlanService(db, nil))
	patientID := uuid.New()
	nutritionistID := uuid.New()

	// Inserted out of order on purpose.
	for _, c := range []struct {
		date   string
		weight float64
	}{
		{"2026-08-15", 78},
		{"2026-08-01", 80},
		{"2026-08-29", 76.5},
	} {
		_, err := evolution.CreateAssessment(context.Background(), nutritionistID, assessmentReq(patientID, c.date, c.weight))
		require.NoError(t, err)
	}

	series, err := evolution.SeriesFor(context.Background(), patientID)
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, 80.0, series[0].WeightKg)
	assert.Equal(t, 78.0, series[1].WeightKg)
	assert.Equal(t, 76.5, series[2].WeightKg)

	// A second call walks the same data from the start.
	again, err := evolution.SeriesFor(context.Background(), patientID)
	require.NoError(t, err)
	assert.Equal(t, len(series), len(again))
	assert.Equal(t, series[0].ID, again[0].ID)
}

func TestDelta(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	evolution := service.NewEvolutionService(db, service.NewPlanService(db, nil))
	patientID := uuid.New()
	nutritionistID := uuid.New()

	_, err := evolution.CreateAssessment(context.Background(), nutritionistID, assessmentReq(patientID, "2026-08-01", 80))
	require.NoError(t, err)

	series, err := evolution.SeriesFor(context.Background(), patientID)
	require.NoError(t, err)

	_, err = evolution.Delta(service.MetricWeightKg, series)
	assert.ErrorIs(t, err, service.ErrNoData, "single assessment")

	bodyFat := 22.0
	req := assessmentReq(patientID, "2026-08-29", 76.5)
	req.BodyFatPercent = &bodyFat
	_, err = evolution.CreateAssessment(context.Background(), nutritionistID, req)
	require.NoError(t, err)

	series, err = evolution.SeriesFor(context.Background(), patientID)
	require.NoError(t, err)

	delta, err := evolution.Delta(service.MetricWeightKg, series)
	require.NoError(t, err)
	assert.InDelta(t, -3.5, delta, 0.001)

	// Only one assessment carries body fat.
	_, err = evolution.Delta(service.MetricBodyFatPercent, series)
	assert.ErrorIs(t, err, service.ErrNoData)

	_, err = evolution.Delta("bmi", series)
	assert.ErrorIs(t, err, service.ErrInvalidMetric)
}

func TestAdherenceTrend_NoPlanDays(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	evolution := service.NewEvolutionService(db, service.NewPlanService(db, nil))

	trend, err := evolution.AdherenceTrend(context.Background(), uuid.New(), 0)
	require.NoError(t, err)
	require.Len(t, trend, 7, "window defaults to 7 days")
	for _, point := range trend {
		assert.Equal(t, service.TrendStatusNoPlan, point.Status)
		assert.Nil(t, point.PlanID)
		assert.Nil(t, point.Adherence)
	}
}

func TestAdherenceTrend_ResolvesActivePlan(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	plans := service.NewPlanService(db, nil)
	evolution := service.NewEvolutionService(db, plans)
	patientID := uuid.New()

	plan, err := plans.CreatePlan(context.Background(), patientID, uuid.New(), "p", defaultTargets())
	require.NoError(t, err)

	trend, err := evolution.AdherenceTrend(context.Background(), patientID, 3)
	require.NoError(t, err)
	require.Len(t, trend, 3)

	// Plan activated today: earlier days have nothing, today resolves.
	last := trend[len(trend)-1]
	assert.Equal(t, service.TrendStatusOK, last.Status)
	require.NotNil(t, last.PlanID)
	assert.Equal(t, plan.ID, *last.PlanID)
	require.NotNil(t, last.Adherence)
	assert.Equal(t, plan.ID, last.Adherence.PlanID)

	assert.Equal(t, service.TrendStatusNoPlan, trend[0].Status)
}

func TestAdherenceTrend_SkipsArchivedPlans(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	plans := service.NewPlanService(db, nil)
	evolution := service.NewEvolutionService(db, plans)
	patientID := uuid.New()

	plan, err := plans.CreatePlan(context.Background(), patientID, uuid.New(), "p", defaultTargets())
	require.NoError(t, err)
	require.NoError(t, plans.ArchivePlan(context.Background(), plan.ID))

	trend, err := evolution.AdherenceTrend(context.Background(), patientID, 2)
	require.NoError(t, err)
	for _, point := range trend {
		assert.Equal(t, service.TrendStatusNoPlan, point.Status)
	}
}

func TestAdherenceTrend_CompletedPlanStopsCounting(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	plans := service.NewPlanService(db, nil)
	evolution := service.NewEvolutionService(db, plans)
	patientID := uuid.New()

	_, err := plans.CreatePlan(context.Background(), patientID, uuid.New(), "old", defaultTargets())
	require.NoError(t, err)
	current, err := plans.CreatePlan(context.Background(), patientID, uuid.New(), "current", defaultTargets())
	require.NoError(t, err)

	trend, err := evolution.AdherenceTrend(context.Background(), patientID, 1)
	require.NoError(t, err)
	require.Len(t, trend, 1)
	require.NotNil(t, trend[0].PlanID)
	assert.Equal(t, current.ID, *trend[0].PlanID, "latest active plan wins for today")
}
