package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/export"
	appErrors "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/errors"
)

type placementLister interface {
	List(ctx context.Context, filter models.PlacementFilter) ([]models.PlacementDetail, int, error)
	CountActive(ctx context.Context) (int, error)
}

type rosterRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// PlacementService exposes the placement roster and its CSV export.
type PlacementService struct {
	repo   placementLister
	csv    rosterRenderer
	logger *zap.Logger
}

// NewPlacementService constructs the placement roster service.
func NewPlacementService(repo placementLister, csv rosterRenderer, logger *zap.Logger) *PlacementService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlacementService{repo: repo, csv: csv, logger: logger}
}

// List returns the placement roster and pagination metadata.
func (s *PlacementService) List(ctx context.Context, filter models.PlacementFilter) ([]models.PlacementDetail, *models.Pagination, error) {
	placements, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list placements")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return placements, pagination, nil
}

// ExportCSV renders the full roster matching the filter as a CSV payload.
// Pagination on the filter is ignored so the export always covers every row.
func (s *PlacementService) ExportCSV(ctx context.Context, filter models.PlacementFilter) ([]byte, string, error) {
	filter.Page = 1
	filter.PageSize = 0
	placements, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load placements for export")
	}

	rows := make([]map[string]string, 0, len(placements))
	for _, p := range placements {
		rows = append(rows, map[string]string{
			"Student Code":  p.StudentCode,
			"Student Name":  p.StudentName,
			"Block":         p.BlockCode,
			"Room":          p.RoomNumber,
			"Year":          fmt.Sprintf("%d", p.Year),
			"Status":        p.Status,
			"Assigned Date": p.AssignedDate.UTC().Format("2006-01-02"),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Student Code", "Student Name", "Block", "Room", "Year", "Status", "Assigned Date"},
		Rows:    rows,
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster csv")
	}
	filename := export.Filename("placements", "csv")
	return payload, filename, nil
}
