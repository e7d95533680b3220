package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/octobees/prospect-crm/internal/dto"
	"github.com/octobees/prospect-crm/internal/entity"
	"github.com/octobees/prospect-crm/internal/logger"
	"github.com/octobees/prospect-crm/internal/metrics"
	"github.com/octobees/prospect-crm/internal/repository"
)

// CompanyNamePlaceholder is replaced by the company name in subject and body.
const CompanyNamePlaceholder = "{company_name}"

// DefaultCampaignLimit caps filter-based campaigns without an explicit limit.
const DefaultCampaignLimit = 50

// ErrMailerNotConfigured is returned when no SMTP sender is wired.
var ErrMailerNotConfigured = errors.New("email sending is not configured")

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// CampaignInput selects targets and content of an outreach campaign. Explicit
// CompanyIDs take precedence over the filter fields.
type CampaignInput struct {
	Subject       string
	Body          string
	CompanyIDs    []uuid.UUID
	Status        *entity.Status
	WifiOnly      bool
	MinPriority   int
	Limit         int
	MarkContacted bool
	Actor         string
}

// CampaignRecipient is the outcome for one target company.
type CampaignRecipient struct {
	CompanyID   uuid.UUID `json:"company_id"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email,omitempty"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
}

// CampaignReport aggregates the outcome of a campaign run. Cancelled is set
// when the context ended before every target was processed.
type CampaignReport struct {
	CampaignID uuid.UUID           `json:"campaign_id"`
	Total      int                 `json:"total"`
	Sent       int                 `json:"sent"`
	Failed     int                 `json:"failed"`
	Skipped    int                 `json:"skipped"`
	Cancelled  bool                `json:"cancelled"`
	Recipients []CampaignRecipient `json:"recipients"`
}

// CampaignService sends templated outreach emails one at a time.
type CampaignService struct {
	companies *CompaniesService
	repo      repository.CompaniesRepository
	logs      repository.EmailLogsRepository
	mailer    Mailer
	limiter   *rate.Limiter
	metrics   *metrics.Metrics
	log       *logger.Logger
	now       func() time.Time
}

// NewCampaignService wires a campaign runner. interval is the minimum delay
// between two sends; zero disables throttling. mailer may be nil when SMTP is
// not configured.
func NewCampaignService(companies *CompaniesService, logs repository.EmailLogsRepository, mailer Mailer, interval time.Duration) *CampaignService {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &CampaignService{
		companies: companies,
		repo:      companies.repo,
		logs:      logs,
		mailer:    mailer,
		limiter:   rate.NewLimiter(limit, 1),
		metrics:   companies.metrics,
		log:       companies.log,
		now:       companies.now,
	}
}

// Run resolves the targets and sends the campaign sequentially.
func (s *CampaignService) Run(ctx context.Context, in CampaignInput) (CampaignReport, error) {
	subject := strings.TrimSpace(in.Subject)
	body := strings.TrimSpace(in.Body)
	if subject == "" {
		return CampaignReport{}, ValidationError{Field: "subject", Message: "subject is required"}
	}
	if body == "" {
		return CampaignReport{}, ValidationError{Field: "body", Message: "body is required"}
	}
	if in.Status != nil && !in.Status.Valid() {
		return CampaignReport{}, ValidationError{Field: "status", Message: "unknown sales status " + string(*in.Status)}
	}
	if s.mailer == nil {
		return CampaignReport{}, ErrMailerNotConfigured
	}

	report := CampaignReport{CampaignID: uuid.New(), Recipients: []CampaignRecipient{}}
	log := s.log.With(map[string]any{"campaign_id": report.CampaignID.String()})

	targets, missing, err := s.resolveTargets(ctx, in)
	if err != nil {
		return CampaignReport{}, err
	}
	for _, id := range missing {
		report.record(CampaignRecipient{CompanyID: id, Status: entity.EmailStatusSkipped, Error: "company not found"})
	}

	for _, company := range targets {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}

		recipient := CampaignRecipient{CompanyID: company.ID, CompanyName: company.Name}
		renderedSubject := renderTemplate(subject, company)
		email := entity.Deref(company.Email)

		if email == "" || !emailPattern.MatchString(email) {
			recipient.Status = entity.EmailStatusSkipped
			recipient.Error = "no valid email address"
			s.persistLog(ctx, log, report.CampaignID, recipient, renderedSubject)
			report.record(recipient)
			continue
		}
		recipient.Email = email

		if err := s.limiter.Wait(ctx); err != nil {
			report.Cancelled = true
			break
		}

		if err := s.mailer.Send(ctx, email, renderedSubject, renderTemplate(body, company)); err != nil {
			recipient.Status = entity.EmailStatusFailed
			recipient.Error = err.Error()
			log.Warn().
				Str("company_id", company.ID.String()).
				Str("recipient", email).
				Err(err).
				Msg("campaign email failed")
		} else {
			recipient.Status = entity.EmailStatusSent
		}

		s.persistLog(ctx, log, report.CampaignID, recipient, renderedSubject)
		report.record(recipient)

		if recipient.Status == entity.EmailStatusSent && in.MarkContacted && company.Status == entity.StatusNew {
			s.markContacted(ctx, log, report.CampaignID, company.ID, in.Actor)
		}
	}

	log.Info().
		Int("total", report.Total).
		Int("sent", report.Sent).
		Int("failed", report.Failed).
		Int("skipped", report.Skipped).
		Bool("cancelled", report.Cancelled).
		Msg("campaign finished")
	return report, nil
}

// Logs lists the per-recipient outcomes recorded for one campaign.
func (s *CampaignService) Logs(ctx context.Context, campaignID uuid.UUID) ([]entity.EmailLog, error) {
	if s.logs == nil {
		return []entity.EmailLog{}, nil
	}
	logs, err := s.logs.ListEmailLogs(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []entity.EmailLog{}
	}
	return logs, nil
}

func (s *CampaignService) resolveTargets(ctx context.Context, in CampaignInput) ([]entity.Company, []uuid.UUID, error) {
	if len(in.CompanyIDs) > 0 {
		ids := uniqueIDs(in.CompanyIDs)
		found, err := s.repo.List(ctx, dto.ListFilter{IDs: ids, All: true, Sort: dto.SortPriority})
		if err != nil {
			return nil, nil, err
		}
		present := make(map[uuid.UUID]struct{}, len(found))
		for _, company := range found {
			present[company.ID] = struct{}{}
		}
		var missing []uuid.UUID
		for _, id := range ids {
			if _, ok := present[id]; !ok {
				missing = append(missing, id)
			}
		}
		return found, missing, nil
	}

	filter := dto.ListFilter{
		Status:   in.Status,
		WifiOnly: in.WifiOnly,
		Sort:     dto.SortPriority,
		All:      true,
	}
	if in.MinPriority > 0 {
		minPriority := in.MinPriority
		filter.MinPriority = &minPriority
	}
	targets, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = DefaultCampaignLimit
	}
	if len(targets) > limit {
		targets = targets[:limit]
	}
	return targets, nil, nil
}

func (s *CampaignService) persistLog(ctx context.Context, log *logger.Logger, campaignID uuid.UUID, recipient CampaignRecipient, subject string) {
	s.metrics.CampaignEmail(recipient.Status)
	if s.logs == nil {
		return
	}
	entry := &entity.EmailLog{
		CampaignID: campaignID,
		CompanyID:  recipient.CompanyID,
		Recipient:  recipient.Email,
		Subject:    subject,
		Status:     recipient.Status,
		Error:      recipient.Error,
		SentAt:     s.now().UTC(),
	}
	if err := s.logs.AppendEmailLog(context.WithoutCancel(ctx), entry); err != nil {
		log.Error().Str("company_id", recipient.CompanyID.String()).Err(err).Msg("persist email log")
	}
}

func (s *CampaignService) markContacted(ctx context.Context, log *logger.Logger, campaignID, companyID uuid.UUID, actor string) {
	_, err := s.companies.TransitionStatus(context.WithoutCancel(ctx), TransitionInput{
		CompanyID:   companyID,
		Status:      entity.StatusContacted,
		Actor:       actor,
		Reason:      "Outreach email sent",
		ActionTaken: fmt.Sprintf("Campaign %s", campaignID),
	})
	if err != nil {
		log.Error().Str("company_id", companyID.String()).Err(err).Msg("mark company contacted")
	}
}

func (r *CampaignReport) record(recipient CampaignRecipient) {
	r.Total++
	switch recipient.Status {
	case entity.EmailStatusSent:
		r.Sent++
	case entity.EmailStatusFailed:
		r.Failed++
	default:
		r.Skipped++
	}
	r.Recipients = append(r.Recipients, recipient)
}

func renderTemplate(template string, company entity.Company) string {
	return strings.ReplaceAll(template, CompanyNamePlaceholder, company.DisplayName())
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
