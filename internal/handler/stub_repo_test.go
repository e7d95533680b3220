package handler

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/prospect-crm/internal/dto"
	"github.com/octobees/prospect-crm/internal/entity"
	"github.com/octobees/prospect-crm/internal/repository"
)

// stubCompaniesRepository keeps companies in memory and records the last
// list filter it received.
type stubCompaniesRepository struct {
	companies  map[uuid.UUID]entity.Company
	history    []entity.StatusHistoryEntry
	lastFilter dto.ListFilter
	listErr    error
}

func newStubCompaniesRepository(companies ...entity.Company) *stubCompaniesRepository {
	repo := &stubCompaniesRepository{companies: make(map[uuid.UUID]entity.Company)}
	for _, company := range companies {
		if company.ID == uuid.Nil {
			company.ID = uuid.New()
		}
		if company.Status == "" {
			company.Status = entity.StatusNew
		}
		repo.companies[company.ID] = company
	}
	return repo
}

func (s *stubCompaniesRepository) Create(ctx context.Context, company *entity.Company) error {
	company.ID = uuid.New()
	company.CreatedAt = time.Now().UTC()
	company.UpdatedAt = company.CreatedAt
	s.companies[company.ID] = *company
	return nil
}

func (s *stubCompaniesRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	company, ok := s.companies[id]
	if !ok {
		return nil, repository.ErrCompanyNotFound
	}
	return &company, nil
}

func (s *stubCompaniesRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	return s.Get(ctx, id)
}

func (s *stubCompaniesRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.Company, error) {
	s.lastFilter = filter
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []entity.Company
	for _, company := range s.companies {
		if filter.WifiOnly && !company.WifiRequired {
			continue
		}
		out = append(out, company)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PriorityScore != out[j].PriorityScore {
			return out[i].PriorityScore > out[j].PriorityScore
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *stubCompaniesRepository) UpdateStatus(ctx context.Context, id uuid.UUID, update repository.StatusUpdate) error {
	company, ok := s.companies[id]
	if !ok {
		return repository.ErrCompanyNotFound
	}
	company.Status = update.Status
	company.NextAction = update.NextAction
	s.companies[id] = company
	return nil
}

func (s *stubCompaniesRepository) UpdateScores(ctx context.Context, id uuid.UUID, scores repository.ScoreUpdate) error {
	company, ok := s.companies[id]
	if !ok {
		return repository.ErrCompanyNotFound
	}
	company.RelevanceScore = scores.RelevanceScore
	company.MatchedKeywords = scores.MatchedKeywords
	company.WifiRequired = scores.WifiRequired
	company.PriorityScore = scores.PriorityScore
	s.companies[id] = company
	return nil
}

func (s *stubCompaniesRepository) AppendHistory(ctx context.Context, entry *entity.StatusHistoryEntry) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now().UTC()
	s.history = append(s.history, *entry)
	return nil
}

func (s *stubCompaniesRepository) ListHistory(ctx context.Context, companyID uuid.UUID) ([]entity.StatusHistoryEntry, error) {
	var entries []entity.StatusHistoryEntry
	for _, entry := range s.history {
		if entry.CompanyID == companyID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (s *stubCompaniesRepository) WithinTx(ctx context.Context, fn func(repo repository.CompaniesRepository) error) error {
	return fn(s)
}
