package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/prospect-crm/internal/dto"
	"github.com/octobees/prospect-crm/internal/entity"
	"github.com/octobees/prospect-crm/internal/repository"
)

// memoryCompaniesRepository is an in-memory CompaniesRepository. WithinTx
// snapshots the state and restores it when fn fails.
type memoryCompaniesRepository struct {
	mu        sync.Mutex
	companies map[uuid.UUID]entity.Company
	history   []entity.StatusHistoryEntry
	clock     time.Time

	appendHistoryErr error
	listErr          error
	txCount          int
}

func newMemoryCompaniesRepository() *memoryCompaniesRepository {
	return &memoryCompaniesRepository{
		companies: make(map[uuid.UUID]entity.Company),
		clock:     time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memoryCompaniesRepository) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memoryCompaniesRepository) Create(ctx context.Context, company *entity.Company) error {
	company.ID = uuid.New()
	company.CreatedAt = m.tick()
	company.UpdatedAt = company.CreatedAt
	m.companies[company.ID] = *company
	return nil
}

func (m *memoryCompaniesRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	company, ok := m.companies[id]
	if !ok {
		return nil, repository.ErrCompanyNotFound
	}
	return &company, nil
}

func (m *memoryCompaniesRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	return m.Get(ctx, id)
}

func (m *memoryCompaniesRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.Company, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}

	ids := make(map[uuid.UUID]struct{}, len(filter.IDs))
	for _, id := range filter.IDs {
		ids[id] = struct{}{}
	}

	var out []entity.Company
	for _, company := range m.companies {
		if filter.Status != nil && company.Status != *filter.Status {
			continue
		}
		if filter.WifiOnly && !company.WifiRequired {
			continue
		}
		if filter.MinPriority != nil && company.PriorityScore < *filter.MinPriority {
			continue
		}
		if len(ids) > 0 {
			if _, ok := ids[company.ID]; !ok {
				continue
			}
		}
		if filter.Q != "" && !strings.Contains(strings.ToLower(company.Name), strings.ToLower(filter.Q)) {
			continue
		}
		out = append(out, company)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PriorityScore != out[j].PriorityScore {
			return out[i].PriorityScore > out[j].PriorityScore
		}
		return out[i].Name < out[j].Name
	})

	if !filter.All && filter.PerPage > 0 {
		start := (filter.Page - 1) * filter.PerPage
		if start >= len(out) {
			return nil, nil
		}
		end := start + filter.PerPage
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, nil
}

func (m *memoryCompaniesRepository) UpdateStatus(ctx context.Context, id uuid.UUID, update repository.StatusUpdate) error {
	company, ok := m.companies[id]
	if !ok {
		return repository.ErrCompanyNotFound
	}
	company.Status = update.Status
	company.NextAction = update.NextAction
	lastContact := update.LastContactAt
	company.LastContactAt = &lastContact
	company.NextActionDueAt = update.NextActionDueAt
	company.UpdatedAt = m.tick()
	m.companies[id] = company
	return nil
}

func (m *memoryCompaniesRepository) UpdateScores(ctx context.Context, id uuid.UUID, scores repository.ScoreUpdate) error {
	company, ok := m.companies[id]
	if !ok {
		return repository.ErrCompanyNotFound
	}
	company.RelevanceScore = scores.RelevanceScore
	company.MatchedKeywords = scores.MatchedKeywords
	company.WifiRequired = scores.WifiRequired
	company.PriorityScore = scores.PriorityScore
	company.UpdatedAt = m.tick()
	m.companies[id] = company
	return nil
}

func (m *memoryCompaniesRepository) AppendHistory(ctx context.Context, entry *entity.StatusHistoryEntry) error {
	if m.appendHistoryErr != nil {
		return m.appendHistoryErr
	}
	entry.ID = uuid.New()
	entry.CreatedAt = m.tick()
	m.history = append(m.history, *entry)
	return nil
}

func (m *memoryCompaniesRepository) ListHistory(ctx context.Context, companyID uuid.UUID) ([]entity.StatusHistoryEntry, error) {
	var entries []entity.StatusHistoryEntry
	for _, entry := range m.history {
		if entry.CompanyID == companyID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (m *memoryCompaniesRepository) WithinTx(ctx context.Context, fn func(repo repository.CompaniesRepository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txCount++

	companies := make(map[uuid.UUID]entity.Company, len(m.companies))
	for id, company := range m.companies {
		companies[id] = company
	}
	history := append([]entity.StatusHistoryEntry(nil), m.history...)

	if err := fn(m); err != nil {
		m.companies = companies
		m.history = history
		return err
	}
	return nil
}

func (m *memoryCompaniesRepository) seed(company entity.Company) entity.Company {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	if company.Status == "" {
		company.Status = entity.StatusNew
	}
	company.UpdatedAt = m.tick()
	m.companies[company.ID] = company
	return company
}
