package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/octobees/prospect-crm/internal/entity"
	"github.com/octobees/prospect-crm/internal/service/pipeline"
)

// ErrExportNotConfigured is returned when no spreadsheet exporter is wired.
var ErrExportNotConfigured = errors.New("pipeline export is not configured")

// PipelineExporter writes an ordered company list to an external sheet.
type PipelineExporter interface {
	Export(ctx context.Context, companies []entity.Company) (int, error)
}

// ExportPipeline writes every company, hottest status first and highest
// priority first within a status, and returns the number of rows written.
func (s *CompaniesService) ExportPipeline(ctx context.Context, exporter PipelineExporter) (int, error) {
	if exporter == nil {
		return 0, ErrExportNotConfigured
	}

	companies, err := s.allCompanies(ctx)
	if err != nil {
		return 0, err
	}
	sortForExport(companies)

	written, err := exporter.Export(ctx, companies)
	if err != nil {
		return 0, err
	}
	s.log.Info().Int("rows", written).Msg("pipeline exported")
	return written, nil
}

func sortForExport(companies []entity.Company) {
	sort.SliceStable(companies, func(i, j int) bool {
		a, b := companies[i], companies[j]
		if ra, rb := pipeline.Rank(a.Status), pipeline.Rank(b.Status); ra != rb {
			return ra > rb
		}
		if a.PriorityScore != b.PriorityScore {
			return a.PriorityScore > b.PriorityScore
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
