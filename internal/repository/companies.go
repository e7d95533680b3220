package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/prospect-crm/internal/dto"
	"github.com/octobees/prospect-crm/internal/entity"
)

// CompaniesRepository describes persistence operations for prospects and
// their status history.
type CompaniesRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	Get(ctx context.Context, id uuid.UUID) (*entity.Company, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Company, error)
	List(ctx context.Context, filter dto.ListFilter) ([]entity.Company, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) error
	UpdateScores(ctx context.Context, id uuid.UUID, scores ScoreUpdate) error
	AppendHistory(ctx context.Context, entry *entity.StatusHistoryEntry) error
	ListHistory(ctx context.Context, companyID uuid.UUID) ([]entity.StatusHistoryEntry, error)
	// WithinTx runs fn against a repository bound to a single transaction.
	WithinTx(ctx context.Context, fn func(repo CompaniesRepository) error) error
}

// ErrCompanyNotFound indicates there is no company with the requested id.
var ErrCompanyNotFound = errors.New("company not found")

// StatusUpdate carries the workflow columns written by a status transition.
type StatusUpdate struct {
	Status          entity.Status
	NextAction      string
	LastContactAt   time.Time
	NextActionDueAt *time.Time
}

// ScoreUpdate carries the derived scoring columns.
type ScoreUpdate struct {
	RelevanceScore  int
	MatchedKeywords []string
	WifiRequired    bool
	PriorityScore   int
}

// PGXCompaniesRepository implements CompaniesRepository using pgx.
type PGXCompaniesRepository struct {
	pool pgxPool
	q    querier
}

// NewPGXCompaniesRepository wires a pgx backed repository.
func NewPGXCompaniesRepository(pool *pgxpool.Pool) *PGXCompaniesRepository {
	return newPGXCompaniesRepository(pool)
}

func newPGXCompaniesRepository(pool pgxPool) *PGXCompaniesRepository {
	return &PGXCompaniesRepository{pool: pool, q: pool}
}

var _ CompaniesRepository = (*PGXCompaniesRepository)(nil)

const companyColumns = `
            id,
            name,
            website,
            email,
            phone,
            address,
            industry,
            employee_count,
            revenue_range,
            notes,
            description,
            contact_person,
            job_title,
            decision_maker,
            relevance_score,
            matched_keywords,
            wifi_required,
            priority_score,
            status,
            source,
            next_action,
            last_contact_at,
            next_action_due_at,
            created_at,
            updated_at`

// Create inserts a new company and fills in the generated id and timestamps.
func (r *PGXCompaniesRepository) Create(ctx context.Context, company *entity.Company) error {
	if company == nil {
		return fmt.Errorf("company payload is nil")
	}

	query := `
        INSERT INTO companies (
            name,
            website,
            email,
            phone,
            address,
            industry,
            employee_count,
            revenue_range,
            notes,
            description,
            contact_person,
            job_title,
            decision_maker,
            relevance_score,
            matched_keywords,
            wifi_required,
            priority_score,
            status,
            source,
            next_action,
            last_contact_at,
            next_action_due_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
            $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
        )
        RETURNING id, created_at, updated_at
    `

	err := r.q.QueryRow(ctx, query,
		company.Name,
		stringOrNil(company.Website),
		stringOrNil(company.Email),
		stringOrNil(company.Phone),
		stringOrNil(company.Address),
		stringOrNil(company.Industry),
		stringOrNil(company.EmployeeCount),
		stringOrNil(company.RevenueRange),
		stringOrNil(company.Notes),
		stringOrNil(company.Description),
		stringOrNil(company.ContactPerson),
		stringOrNil(company.JobTitle),
		company.DecisionMaker,
		company.RelevanceScore,
		stringSliceOrEmpty(company.MatchedKeywords),
		company.WifiRequired,
		company.PriorityScore,
		string(company.Status),
		company.Source,
		company.NextAction,
		timeOrNil(company.LastContactAt),
		timeOrNil(company.NextActionDueAt),
	).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}

	return nil
}

// Get fetches a company by id.
func (r *PGXCompaniesRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate fetches a company by id and locks the row for the enclosing
// transaction.
func (r *PGXCompaniesRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	return r.get(ctx, id, true)
}

func (r *PGXCompaniesRepository) get(ctx context.Context, id uuid.UUID, lock bool) (*entity.Company, error) {
	query := "SELECT" + companyColumns + " FROM companies WHERE id = $1"
	if lock {
		query += " FOR UPDATE"
	}

	company, err := scanCompany(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("fetch company: %w", err)
	}
	return company, nil
}

// List retrieves companies matching the provided filter.
func (r *PGXCompaniesRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.Company, error) {
	baseQuery := strings.Builder{}
	baseQuery.WriteString("SELECT")
	baseQuery.WriteString(companyColumns)
	baseQuery.WriteString(" FROM companies")

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.Q != "" {
		pattern := "%" + likeEscaper.Replace(filter.Q) + "%"
		clauses = append(clauses, fmt.Sprintf(`(name ILIKE $%d ESCAPE '\' OR industry ILIKE $%d ESCAPE '\' OR notes ILIKE $%d ESCAPE '\')`, idx, idx, idx))
		args = append(args, pattern)
		idx++
	}
	if filter.Status != nil {
		clauses = append(clauses, fmt.Sprintf("status = $%d", idx))
		args = append(args, string(*filter.Status))
		idx++
	}
	if filter.WifiOnly {
		clauses = append(clauses, "wifi_required")
	}
	if filter.MinPriority != nil {
		clauses = append(clauses, fmt.Sprintf("priority_score >= $%d", idx))
		args = append(args, *filter.MinPriority)
		idx++
	}
	if len(filter.IDs) > 0 {
		clauses = append(clauses, fmt.Sprintf("id = ANY($%d)", idx))
		args = append(args, filter.IDs)
		idx++
	}

	if len(clauses) > 0 {
		baseQuery.WriteString(" WHERE ")
		baseQuery.WriteString(strings.Join(clauses, " AND "))
	}

	baseQuery.WriteString(" ORDER BY ")
	baseQuery.WriteString(orderClause(filter.Sort))

	if !filter.All {
		paged := filter.WithDefaults()
		offset := (paged.Page - 1) * paged.PerPage
		baseQuery.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1))
		args = append(args, paged.PerPage, offset)
	}

	rows, err := r.q.Query(ctx, baseQuery.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	return scanCompanies(rows)
}

// likeEscaper makes user search text match literally inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func orderClause(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case dto.SortRecent:
		return "updated_at DESC, priority_score DESC, name ASC"
	case dto.SortRelevance:
		return "relevance_score DESC, updated_at DESC, name ASC"
	case dto.SortName:
		return "name ASC, id ASC"
	default:
		return "priority_score DESC, updated_at DESC, name ASC"
	}
}

// UpdateStatus writes the workflow columns of a status transition.
func (r *PGXCompaniesRepository) UpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) error {
	cmd, err := r.q.Exec(ctx, `
        UPDATE companies SET
            status = $2,
            next_action = $3,
            last_contact_at = $4,
            next_action_due_at = $5,
            updated_at = NOW()
        WHERE id = $1
    `, id, string(update.Status), update.NextAction, update.LastContactAt, timeOrNil(update.NextActionDueAt))
	if err != nil {
		return fmt.Errorf("update company status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// UpdateScores overwrites the derived scoring columns.
func (r *PGXCompaniesRepository) UpdateScores(ctx context.Context, id uuid.UUID, scores ScoreUpdate) error {
	cmd, err := r.q.Exec(ctx, `
        UPDATE companies SET
            relevance_score = $2,
            matched_keywords = $3,
            wifi_required = $4,
            priority_score = $5,
            updated_at = NOW()
        WHERE id = $1
    `, id, scores.RelevanceScore, stringSliceOrEmpty(scores.MatchedKeywords), scores.WifiRequired, scores.PriorityScore)
	if err != nil {
		return fmt.Errorf("update company scores: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// AppendHistory inserts an immutable status history entry.
func (r *PGXCompaniesRepository) AppendHistory(ctx context.Context, entry *entity.StatusHistoryEntry) error {
	if entry == nil {
		return fmt.Errorf("history entry is nil")
	}

	var oldStatus any
	if entry.OldStatus != nil {
		oldStatus = string(*entry.OldStatus)
	}

	err := r.q.QueryRow(ctx, `
        INSERT INTO company_status_history (
            company_id,
            old_status,
            new_status,
            actor,
            reason,
            notes,
            action_taken,
            next_steps
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at
    `,
		entry.CompanyID,
		oldStatus,
		string(entry.NewStatus),
		entry.Actor,
		entry.Reason,
		entry.Notes,
		entry.ActionTaken,
		entry.NextSteps,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

// ListHistory returns the status history of a company, oldest first.
func (r *PGXCompaniesRepository) ListHistory(ctx context.Context, companyID uuid.UUID) ([]entity.StatusHistoryEntry, error) {
	rows, err := r.q.Query(ctx, `
        SELECT id, company_id, old_status, new_status, actor, reason, notes, action_taken, next_steps, created_at
        FROM company_status_history
        WHERE company_id = $1
        ORDER BY created_at ASC, id ASC
    `, companyID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	var entries []entity.StatusHistoryEntry
	for rows.Next() {
		var (
			entry     entity.StatusHistoryEntry
			oldStatus sql.NullString
			newStatus string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.CompanyID,
			&oldStatus,
			&newStatus,
			&entry.Actor,
			&entry.Reason,
			&entry.Notes,
			&entry.ActionTaken,
			&entry.NextSteps,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		if oldStatus.Valid {
			status := entity.Status(oldStatus.String)
			entry.OldStatus = &status
		}
		entry.NewStatus = entity.Status(newStatus)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status history: %w", err)
	}
	return entries, nil
}

// WithinTx runs fn inside a transaction. Calls made on an already
// transactional repository join the outer transaction.
func (r *PGXCompaniesRepository) WithinTx(ctx context.Context, fn func(repo CompaniesRepository) error) error {
	if r.pool == nil {
		return fn(r)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&PGXCompaniesRepository{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func scanCompanies(rows pgx.Rows) ([]entity.Company, error) {
	var companies []entity.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return companies, nil
}

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var (
		c               entity.Company
		website         sql.NullString
		email           sql.NullString
		phone           sql.NullString
		address         sql.NullString
		industry        sql.NullString
		employeeCount   sql.NullString
		revenueRange    sql.NullString
		notes           sql.NullString
		description     sql.NullString
		contactPerson   sql.NullString
		jobTitle        sql.NullString
		matchedKeywords []string
		status          string
		lastContactAt   sql.NullTime
		nextActionDueAt sql.NullTime
	)

	err := row.Scan(
		&c.ID,
		&c.Name,
		&website,
		&email,
		&phone,
		&address,
		&industry,
		&employeeCount,
		&revenueRange,
		&notes,
		&description,
		&contactPerson,
		&jobTitle,
		&c.DecisionMaker,
		&c.RelevanceScore,
		&matchedKeywords,
		&c.WifiRequired,
		&c.PriorityScore,
		&status,
		&c.Source,
		&c.NextAction,
		&lastContactAt,
		&nextActionDueAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}

	c.Website = nullStringToPtr(website)
	c.Email = nullStringToPtr(email)
	c.Phone = nullStringToPtr(phone)
	c.Address = nullStringToPtr(address)
	c.Industry = nullStringToPtr(industry)
	c.EmployeeCount = nullStringToPtr(employeeCount)
	c.RevenueRange = nullStringToPtr(revenueRange)
	c.Notes = nullStringToPtr(notes)
	c.Description = nullStringToPtr(description)
	c.ContactPerson = nullStringToPtr(contactPerson)
	c.JobTitle = nullStringToPtr(jobTitle)
	c.MatchedKeywords = stringSliceOrEmpty(matchedKeywords)
	c.Status = entity.Status(status)
	c.LastContactAt = nullTimeToPtr(lastContactAt)
	c.NextActionDueAt = nullTimeToPtr(nextActionDueAt)

	return &c, nil
}
