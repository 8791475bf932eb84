package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"compliance-planner/internal/metrics"
	"compliance-planner/internal/model"
)

// PendingStore lists materialized deadlines that still need attention.
type PendingStore interface {
	ListPendingDueBefore(ctx context.Context, until time.Time) ([]model.Deadline, error)
}

// OrganizationLister names organizations in digests.
type OrganizationLister interface {
	ListAll(ctx context.Context) ([]model.Organization, error)
}

// Notifier delivers a rendered digest.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// ReminderService builds human-readable digests of upcoming and overdue
// deadlines. It only reads materialized rows; it never changes a status.
type ReminderService struct {
	deadlines  PendingStore
	orgs       OrganizationLister
	people     PersonStore
	structures StructureStore
	notifier   Notifier
	horizon    time.Duration
	metrics    *metrics.Metrics
	log        *logrus.Logger
}

func NewReminderService(
	deadlines PendingStore,
	orgs OrganizationLister,
	people PersonStore,
	structures StructureStore,
	notifier Notifier,
	horizon time.Duration,
	m *metrics.Metrics,
	log *logrus.Logger,
) *ReminderService {
	return &ReminderService{
		deadlines:  deadlines,
		orgs:       orgs,
		people:     people,
		structures: structures,
		notifier:   notifier,
		horizon:    horizon,
		metrics:    m,
		log:        log,
	}
}

// Digest renders pending deadlines due before now+horizon, grouped by
// organization. It returns the text and how many deadlines it lists.
func (s *ReminderService) Digest(ctx context.Context, now time.Time) (string, int, error) {
	deadlines, err := s.deadlines.ListPendingDueBefore(ctx, now.Add(s.horizon))
	if err != nil {
		return "", 0, err
	}
	if len(deadlines) == 0 {
		return "", 0, nil
	}

	orgs, err := s.orgs.ListAll(ctx)
	if err != nil {
		return "", 0, err
	}
	orgNames := make(map[uint]string, len(orgs))
	for _, org := range orgs {
		orgNames[org.ID] = org.Name
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Compliance deadlines</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("2006-01-02")))

	currentOrg := uint(0)
	var names targetNames
	for _, d := range deadlines {
		if d.OrganizationID != currentOrg {
			currentOrg = d.OrganizationID
			names, err = s.loadNames(ctx, currentOrg)
			if err != nil {
				return "", 0, err
			}
			builder.WriteString(fmt.Sprintf("\n🏢 <b>%s</b>\n", html.EscapeString(orgNames[currentOrg])))
		}
		builder.WriteString(formatDeadline(d, names, now))
	}

	return strings.TrimSpace(builder.String()), len(deadlines), nil
}

// Run builds the digest and hands it to the notifier. An empty digest is
// not sent.
func (s *ReminderService) Run(ctx context.Context, now time.Time) error {
	text, n, err := s.Digest(ctx, now)
	if err != nil {
		s.metrics.IncReminder("error")
		return fmt.Errorf("build digest: %w", err)
	}
	if n == 0 {
		s.metrics.IncReminder("empty")
		s.log.Debug("reminder digest empty")
		return nil
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.metrics.IncReminder("error")
		return fmt.Errorf("send digest: %w", err)
	}
	s.metrics.IncReminder("sent")
	s.log.WithField("deadlines", n).Info("reminder digest sent")
	return nil
}

type targetNames struct {
	people     map[uint]string
	structures map[uint]string
}

func (s *ReminderService) loadNames(ctx context.Context, orgID uint) (targetNames, error) {
	names := targetNames{people: map[uint]string{}, structures: map[uint]string{}}
	people, err := s.people.ListByOrganization(ctx, orgID)
	if err != nil {
		return names, err
	}
	for _, p := range people {
		names.people[p.ID] = p.FullName
	}
	structures, err := s.structures.ListByOrganization(ctx, orgID)
	if err != nil {
		return names, err
	}
	for _, st := range structures {
		names.structures[st.ID] = st.Name
	}
	return names, nil
}

func formatDeadline(d model.Deadline, names targetNames, now time.Time) string {
	var sb strings.Builder

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	icon := "🟢"
	switch {
	case d.DueDate.Before(today):
		icon = "⚠️"
	case d.DueDate.Sub(today) <= 48*time.Hour:
		icon = "⏳"
	}

	sb.WriteString(fmt.Sprintf("%s %s", icon, html.EscapeString(strings.TrimSpace(d.Title))))

	var target string
	if d.StructureID != nil {
		target = names.structures[*d.StructureID]
	} else if d.PersonID != nil {
		target = names.people[*d.PersonID]
	}
	if target = strings.TrimSpace(target); target != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(target)))
	}

	if d.DueDate.Before(today) {
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s, <b>overdue</b>", d.DueDate.Format("2006-01-02")))
	} else {
		daysLeft := int(d.DueDate.Sub(today).Hours() / 24)
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s, %d days left", d.DueDate.Format("2006-01-02"), daysLeft))
	}

	sb.WriteByte('\n')
	return sb.String()
}
