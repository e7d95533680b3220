package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/prospect-crm/internal/dto"
)

// ImportSource is stored on imported companies that carry no source column.
const ImportSource = "CSV Import"

// ImportRowError describes one rejected CSV row. Row is the 1-based line
// on which the record starts, counting the header and any newlines inside
// quoted cells.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportReport summarises one CSV import batch.
type ImportReport struct {
	JobID   uuid.UUID        `json:"job_id"`
	Total   int              `json:"total"`
	Created int              `json:"created"`
	Failed  int              `json:"failed"`
	Errors  []ImportRowError `json:"errors"`
}

// Actor returns the history actor tag of the batch.
func (r ImportReport) Actor() string {
	return "import:" + r.JobID.String()
}

var headerAliases = map[string]string{
	"company":           "name",
	"company_name":      "name",
	"name":              "name",
	"organization":      "name",
	"organisation":      "name",
	"website":           "website",
	"url":               "website",
	"web":               "website",
	"domain":            "website",
	"email":             "email",
	"e_mail":            "email",
	"email_address":     "email",
	"phone":             "phone",
	"telephone":         "phone",
	"phone_number":      "phone",
	"address":           "address",
	"location":          "address",
	"industry":          "industry",
	"sector":            "industry",
	"employee_count":    "employee_count",
	"employees":         "employee_count",
	"company_size":      "employee_count",
	"size":              "employee_count",
	"revenue":           "revenue_range",
	"revenue_range":     "revenue_range",
	"notes":             "notes",
	"note":              "notes",
	"comments":          "notes",
	"description":       "description",
	"about":             "description",
	"contact":           "contact_person",
	"contact_name":      "contact_person",
	"contact_person":    "contact_person",
	"title":             "job_title",
	"job_title":         "job_title",
	"position":          "job_title",
	"decision_maker":    "decision_maker",
	"is_decision_maker": "decision_maker",
	"source":            "source",
	"list":              "source",
}

// ImportCompaniesCSV creates one company per CSV row. Rows that fail are
// recorded in the report and the import continues. A missing or unusable
// header aborts the batch with a ValidationError.
func (s *CompaniesService) ImportCompaniesCSV(ctx context.Context, r io.Reader) (ImportReport, error) {
	report := ImportReport{JobID: uuid.New(), Errors: []ImportRowError{}}
	log := s.log.With(map[string]any{"job_id": report.JobID.String()})

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return report, ValidationError{Field: "csv", Message: "csv file is empty"}
		}
		return report, ValidationError{Field: "csv", Message: fmt.Sprintf("read csv header: %v", err)}
	}

	columns, err := buildHeaderIndex(header)
	if err != nil {
		return report, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return report, fmt.Errorf("read csv row: %w", err)
			}
			report.Total++
			report.fail(parseErr.StartLine, parseErr.Err.Error())
			s.metrics.ImportRow("failed")
			continue
		}
		if isBlankRow(row) {
			continue
		}

		rowNum, _ := reader.FieldPos(0)
		report.Total++
		req := rowToRequest(columns, row)
		if _, err := s.CreateCompany(ctx, req, report.Actor()); err != nil {
			report.fail(rowNum, err.Error())
			s.metrics.ImportRow("failed")
			log.Warn().Int("row", rowNum).Err(err).Msg("import row rejected")
			continue
		}
		report.Created++
		s.metrics.ImportRow("created")
	}

	log.Info().
		Int("total", report.Total).
		Int("created", report.Created).
		Int("failed", report.Failed).
		Msg("csv import finished")
	return report, nil
}

func (r *ImportReport) fail(row int, message string) {
	r.Failed++
	r.Errors = append(r.Errors, ImportRowError{Row: row, Message: message})
}

func buildHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, col := range header {
		field, ok := headerAliases[canonicalHeader(col)]
		if !ok {
			continue
		}
		if _, seen := index[field]; !seen {
			index[field] = i
		}
	}

	if _, ok := index["name"]; !ok {
		return nil, ValidationError{Field: "csv", Message: "missing required column: company name"}
	}
	return index, nil
}

func canonicalHeader(col string) string {
	col = strings.TrimPrefix(col, "\ufeff")
	col = strings.ToLower(strings.TrimSpace(col))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(col)
}

func rowToRequest(columns map[string]int, row []string) dto.CreateCompanyRequest {
	get := func(field string) string {
		idx, ok := columns[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	source := get("source")
	if source == "" {
		source = ImportSource
	}

	return dto.CreateCompanyRequest{
		Name:          get("name"),
		Website:       get("website"),
		Email:         get("email"),
		Phone:         get("phone"),
		Address:       get("address"),
		Industry:      get("industry"),
		EmployeeCount: get("employee_count"),
		RevenueRange:  get("revenue_range"),
		Notes:         get("notes"),
		Description:   get("description"),
		ContactPerson: get("contact_person"),
		JobTitle:      get("job_title"),
		DecisionMaker: parseFlag(get("decision_maker")),
		Source:        source,
	}
}

func parseFlag(value string) bool {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "x":
		return true
	default:
		return false
	}
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
