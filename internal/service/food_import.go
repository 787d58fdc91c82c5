package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/consultafit/nutriplan/backend/internal/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FoodImportHeader is the expected header row of a bulk food table.
var FoodImportHeader = []string{
	"Name",
	"Category",
	"Serving Size",
	"Calories",
	"Protein",
	"Carbs",
	"Fat",
	"Fiber",
	"Sugar",
	"Sodium (mg)",
	"Glycemic Index",
	"Gluten",
	"Lactose",
	"Vegan",
	"Vegetarian",
}

// ImportResult summarises one bulk import run.
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// FoodImportService loads bulk reference tables (XLSX) into the food library.
// Imported rows are global reference data, not consultancy custom entries.
type FoodImportService struct {
	db     *gorm.DB
	s3     *s3.Client
	bucket string
	logger *zap.Logger
}

// NewFoodImportService creates a new FoodImportService instance. s3Client may
// be nil when only direct uploads are used.
func NewFoodImportService(db *gorm.DB, s3Client *s3.Client, bucket string, logger *zap.Logger) *FoodImportService {
	return &FoodImportService{db: db, s3: s3Client, bucket: bucket, logger: logger}
}

// ImportFromS3 downloads a bulk table from the configured bucket and imports it.
func (s *FoodImportService) ImportFromS3(ctx context.Context, key string) (*ImportResult, error) {
	if s.s3 == nil {
		return nil, fmt.Errorf("no object storage configured")
	}
	obj, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bulk table %s: %w", key, err)
	}
	defer obj.Body.Close()
	return s.ImportFromReader(ctx, obj.Body)
}

// ImportFromReader parses an XLSX bulk table and creates one global
// FoodReference per valid row. Malformed rows are skipped and reported, not
// fatal.
func (s *FoodImportService) ImportFromReader(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open bulk table: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &ImportResult{}, nil
	}

	result := &ImportResult{}
	for i, row := range rows[1:] { // skip header
		food, err := parseFoodRow(row)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		if err := s.db.WithContext(ctx).Create(food).Error; err != nil {
			return nil, fmt.Errorf("failed to create food %q: %w", food.Name, err)
		}
		result.Created++
	}

	if s.logger != nil {
		s.logger.Info("bulk food import finished",
			zap.Int("created", result.Created),
			zap.Int("skipped", result.Skipped))
	}
	return result, nil
}

func parseFoodRow(row []string) (*models.FoodReference, error) {
	if len(row) < 7 {
		return nil, fmt.Errorf("expected at least 7 columns, got %d", len(row))
	}

	name := strings.TrimSpace(cell(row, 0))
	if name == "" {
		return nil, fmt.Errorf("empty name")
	}
	category := strings.ToLower(strings.TrimSpace(cell(row, 1)))
	if !models.ValidFoodCategory(category) {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	calories, err := parseInt(cell(row, 3))
	if err != nil || calories < 0 {
		return nil, fmt.Errorf("bad calories %q", cell(row, 3))
	}
	protein, err := parseFloat(cell(row, 4))
	if err != nil || protein < 0 {
		return nil, fmt.Errorf("bad protein %q", cell(row, 4))
	}
	carbs, err := parseFloat(cell(row, 5))
	if err != nil || carbs < 0 {
		return nil, fmt.Errorf("bad carbs %q", cell(row, 5))
	}
	fat, err := parseFloat(cell(row, 6))
	if err != nil || fat < 0 {
		return nil, fmt.Errorf("bad fat %q", cell(row, 6))
	}

	fiber, _ := parseFloat(cell(row, 7))
	sugar, _ := parseFloat(cell(row, 8))
	sodium, _ := parseInt(cell(row, 9))
	gi, _ := parseInt(cell(row, 10))
	if gi < 0 || gi > 110 {
		return nil, fmt.Errorf("glycemic index %d out of range", gi)
	}

	return &models.FoodReference{
		Name:          name,
		Category:      category,
		ServingSize:   strings.TrimSpace(cell(row, 2)),
		Calories:      calories,
		Protein:       protein,
		Carbs:         carbs,
		Fat:           fat,
		Fiber:         fiber,
		Sugar:         sugar,
		Sodium:        sodium,
		GlycemicIndex: gi,
		HasGluten:     parseBool(cell(row, 11)),
		HasLactose:    parseBool(cell(row, 12)),
		IsVegan:       parseBool(cell(row, 13)),
		IsVegetarian:  parseBool(cell(row, 14)),
		IsGlobal:      true,
	}, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "sim":
		return true
	}
	return false
}
