package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/prospect-crm/internal/dto"
	"github.com/octobees/prospect-crm/internal/entity"
	"github.com/octobees/prospect-crm/internal/logger"
	"github.com/octobees/prospect-crm/internal/metrics"
	"github.com/octobees/prospect-crm/internal/repository"
	"github.com/octobees/prospect-crm/internal/service/pipeline"
	"github.com/octobees/prospect-crm/internal/service/scoring"
)

// SystemActor is recorded on history entries when no user is known.
const SystemActor = "system"

const creationReason = "Company created"

// CompaniesService owns the prospect lifecycle: creation with scoring, status
// transitions with history, and pipeline reporting.
type CompaniesService struct {
	repo    repository.CompaniesRepository
	contact *ContactNormalizer
	metrics *metrics.Metrics
	log     *logger.Logger
	now     func() time.Time
}

// CompaniesOption configures optional dependencies.
type CompaniesOption func(*CompaniesService)

// WithMetrics records domain counters.
func WithMetrics(m *metrics.Metrics) CompaniesOption {
	return func(s *CompaniesService) {
		s.metrics = m
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *logger.Logger) CompaniesOption {
	return func(s *CompaniesService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPhoneRegion sets the region used to parse national phone numbers.
func WithPhoneRegion(region string) CompaniesOption {
	return func(s *CompaniesService) {
		s.contact = NewContactNormalizer(region)
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) CompaniesOption {
	return func(s *CompaniesService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewCompaniesService creates a new instance of CompaniesService.
func NewCompaniesService(repo repository.CompaniesRepository, opts ...CompaniesOption) *CompaniesService {
	s := &CompaniesService{
		repo:    repo,
		contact: NewContactNormalizer(defaultPhoneRegion),
		log:     logger.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TransitionInput describes a requested status change.
type TransitionInput struct {
	CompanyID     uuid.UUID
	Status        entity.Status
	Actor         string
	Reason        string
	Notes         string
	ActionTaken   string
	NextSteps     string
	NextActionDue *time.Time
}

// TransitionResult reports the outcome of a status change.
type TransitionResult struct {
	CompanyID  uuid.UUID
	OldStatus  entity.Status
	NewStatus  entity.Status
	NextAction string
	Entry      entity.StatusHistoryEntry
}

// CreateCompany validates and scores a raw company record, stores it with
// status New and appends the creation history entry in one transaction.
func (s *CompaniesService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, actor string) (*entity.Company, error) {
	company, err := s.buildCompany(req)
	if err != nil {
		return nil, err
	}

	entry := entity.StatusHistoryEntry{
		NewStatus: company.Status,
		Actor:     actorOrSystem(actor),
		Reason:    creationReason,
	}

	err = s.repo.WithinTx(ctx, func(repo repository.CompaniesRepository) error {
		if err := repo.Create(ctx, company); err != nil {
			return err
		}
		entry.CompanyID = company.ID
		return repo.AppendHistory(ctx, &entry)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CompanyCreated()
	s.metrics.StatusTransition(string(company.Status))
	return company, nil
}

func (s *CompaniesService) buildCompany(req dto.CreateCompanyRequest) (*entity.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ValidationError{Field: "name", Message: "company name is required"}
	}

	email, err := s.contact.Email(req.Email)
	if err != nil {
		return nil, err
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = entity.DefaultSource
	}

	company := &entity.Company{
		Name:          name,
		Website:       optionalString(req.Website),
		Email:         optionalString(email),
		Phone:         optionalString(s.contact.Phone(req.Phone)),
		Address:       optionalString(req.Address),
		Industry:      optionalString(req.Industry),
		EmployeeCount: optionalString(req.EmployeeCount),
		RevenueRange:  optionalString(req.RevenueRange),
		Notes:         optionalString(req.Notes),
		Description:   optionalString(req.Description),
		ContactPerson: optionalString(req.ContactPerson),
		JobTitle:      optionalString(req.JobTitle),
		DecisionMaker: req.DecisionMaker,
		Status:        pipeline.InitialStatus,
		Source:        source,
		NextAction:    pipeline.NextAction(pipeline.InitialStatus),
	}
	applyScores(company, scoring.Evaluate(scoringInput(company)))
	return company, nil
}

// GetCompany fetches one company.
func (s *CompaniesService) GetCompany(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	company, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(id, err)
	}
	return company, nil
}

// ListCompanies returns companies respecting pagination defaults.
func (s *CompaniesService) ListCompanies(ctx context.Context, filter dto.ListFilter) ([]entity.Company, error) {
	return s.repo.List(ctx, filter.WithDefaults())
}

// TransitionStatus moves a company to a new status. The status write and the
// history entry are committed together; a same-status transition is still
// recorded.
func (s *CompaniesService) TransitionStatus(ctx context.Context, in TransitionInput) (TransitionResult, error) {
	if !in.Status.Valid() {
		return TransitionResult{}, ValidationError{Field: "status", Message: "unknown sales status " + string(in.Status)}
	}

	var result TransitionResult
	err := s.repo.WithinTx(ctx, func(repo repository.CompaniesRepository) error {
		current, err := repo.GetForUpdate(ctx, in.CompanyID)
		if err != nil {
			return notFoundOr(in.CompanyID, err)
		}
		if !pipeline.CanTransition(current.Status, in.Status) {
			return ValidationError{Field: "status", Message: "transition from " + string(current.Status) + " to " + string(in.Status) + " is not allowed"}
		}

		dueAt := in.NextActionDue
		if dueAt == nil {
			dueAt = current.NextActionDueAt
		}
		nextAction := pipeline.NextAction(in.Status)

		if err := repo.UpdateStatus(ctx, in.CompanyID, repository.StatusUpdate{
			Status:          in.Status,
			NextAction:      nextAction,
			LastContactAt:   s.now().UTC(),
			NextActionDueAt: dueAt,
		}); err != nil {
			return notFoundOr(in.CompanyID, err)
		}

		oldStatus := current.Status
		entry := entity.StatusHistoryEntry{
			CompanyID:   in.CompanyID,
			OldStatus:   &oldStatus,
			NewStatus:   in.Status,
			Actor:       actorOrSystem(in.Actor),
			Reason:      strings.TrimSpace(in.Reason),
			Notes:       strings.TrimSpace(in.Notes),
			ActionTaken: strings.TrimSpace(in.ActionTaken),
			NextSteps:   strings.TrimSpace(in.NextSteps),
		}
		if err := repo.AppendHistory(ctx, &entry); err != nil {
			return err
		}

		result = TransitionResult{
			CompanyID:  in.CompanyID,
			OldStatus:  oldStatus,
			NewStatus:  in.Status,
			NextAction: nextAction,
			Entry:      entry,
		}
		return nil
	})
	if err != nil {
		return TransitionResult{}, err
	}

	s.metrics.StatusTransition(string(in.Status))
	s.log.Info().
		Str("company_id", in.CompanyID.String()).
		Str("old_status", string(result.OldStatus)).
		Str("new_status", string(result.NewStatus)).
		Str("actor", result.Entry.Actor).
		Msg("status transition")
	return result, nil
}

// History lists the status history of a company, oldest first.
func (s *CompaniesService) History(ctx context.Context, id uuid.UUID) ([]entity.StatusHistoryEntry, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, notFoundOr(id, err)
	}
	entries, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []entity.StatusHistoryEntry{}
	}
	return entries, nil
}

// Rescore recomputes the derived scoring fields of one company from its
// stored descriptive fields.
func (s *CompaniesService) Rescore(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	var company *entity.Company
	err := s.repo.WithinTx(ctx, func(repo repository.CompaniesRepository) error {
		current, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(id, err)
		}

		applyScores(current, scoring.Evaluate(scoringInput(current)))
		if err := repo.UpdateScores(ctx, id, repository.ScoreUpdate{
			RelevanceScore:  current.RelevanceScore,
			MatchedKeywords: current.MatchedKeywords,
			WifiRequired:    current.WifiRequired,
			PriorityScore:   current.PriorityScore,
		}); err != nil {
			return notFoundOr(id, err)
		}
		company = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return company, nil
}

// PipelineSummary aggregates every company by status, hottest status first.
func (s *CompaniesService) PipelineSummary(ctx context.Context) ([]pipeline.StatusSummary, error) {
	companies, err := s.allCompanies(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.SummaryRows(pipeline.Summarize(companies)), nil
}

// TopTargets returns the n highest-priority companies.
func (s *CompaniesService) TopTargets(ctx context.Context, n int) ([]entity.Company, error) {
	companies, err := s.allCompanies(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.TopTargets(companies, n), nil
}

// WifiTargets returns the highest-priority companies that need WiFi.
func (s *CompaniesService) WifiTargets(ctx context.Context, limit int) ([]entity.Company, error) {
	companies, err := s.repo.List(ctx, dto.ListFilter{WifiOnly: true, All: true})
	if err != nil {
		return nil, err
	}
	return pipeline.WifiStrategyTargets(companies, limit), nil
}

func (s *CompaniesService) allCompanies(ctx context.Context) ([]entity.Company, error) {
	return s.repo.List(ctx, dto.ListFilter{All: true})
}

func scoringInput(c *entity.Company) scoring.Input {
	return scoring.Input{
		Name:          c.Name,
		Website:       entity.Deref(c.Website),
		Notes:         entity.Deref(c.Notes),
		Industry:      entity.Deref(c.Industry),
		Description:   entity.Deref(c.Description),
		Source:        c.Source,
		EmployeeCount: entity.Deref(c.EmployeeCount),
	}
}

func applyScores(c *entity.Company, result scoring.Result) {
	c.RelevanceScore = result.RelevanceScore
	c.MatchedKeywords = result.MatchedKeywords
	c.WifiRequired = result.WifiRequired
	c.PriorityScore = result.PriorityScore
}

func actorOrSystem(actor string) string {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return SystemActor
	}
	return actor
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
