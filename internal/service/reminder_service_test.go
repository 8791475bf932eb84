package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance-planner/internal/logging"
	"compliance-planner/internal/metrics"
	"compliance-planner/internal/model"
)

type memPending struct {
	deadlines []model.Deadline
	until     time.Time
}

func (m *memPending) ListPendingDueBefore(_ context.Context, until time.Time) ([]model.Deadline, error) {
	m.until = until
	return m.deadlines, nil
}

type memOrgs []model.Organization

func (m memOrgs) ListAll(context.Context) ([]model.Organization, error) {
	return m, nil
}

type recordingNotifier struct {
	sent []string
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, text string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, text)
	return nil
}

func newReminderFixture(deadlines []model.Deadline) (*ReminderService, *memPending, *recordingNotifier) {
	pending := &memPending{deadlines: deadlines}
	notifier := &recordingNotifier{}
	people := memPeople{people: []model.Person{{ID: 1, OrganizationID: 1, FullName: "Ada <ops>"}}}
	structures := memStructures{structures: []model.Structure{{ID: 5, OrganizationID: 1, Name: "Depot"}}}
	svc := NewReminderService(
		pending,
		memOrgs{{ID: 1, Name: "Acme"}},
		people,
		structures,
		notifier,
		14*24*time.Hour,
		metrics.New(prometheus.NewRegistry()),
		logging.Discard(),
	)
	return svc, pending, notifier
}

func TestReminderDigest(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	person, structure := uint(1), uint(5)
	deadlines := []model.Deadline{
		{OrganizationID: 1, PersonID: &person, Title: "Badge renewal", DueDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{OrganizationID: 1, StructureID: &structure, Title: "Fire drill", DueDate: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)},
		{OrganizationID: 1, StructureID: &structure, Title: "Boiler check", DueDate: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)},
	}
	svc, pending, _ := newReminderFixture(deadlines)

	text, n, err := svc.Digest(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, now.Add(14*24*time.Hour), pending.until)

	assert.Contains(t, text, "<b>Acme</b>")
	assert.Contains(t, text, "⚠️ Badge renewal <i>(Ada &lt;ops&gt;)</i>")
	assert.Contains(t, text, "overdue")
	assert.Contains(t, text, "⏳ Fire drill <i>(Depot)</i>")
	assert.Contains(t, text, "🟢 Boiler check")
	assert.Contains(t, text, "10 days left")
}

func TestReminderRun(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	t.Run("empty digest is not sent", func(t *testing.T) {
		svc, _, notifier := newReminderFixture(nil)
		require.NoError(t, svc.Run(ctx, now))
		assert.Empty(t, notifier.sent)
	})

	t.Run("digest is sent", func(t *testing.T) {
		person := uint(1)
		svc, _, notifier := newReminderFixture([]model.Deadline{
			{OrganizationID: 1, PersonID: &person, Title: "Badge renewal", DueDate: now},
		})
		require.NoError(t, svc.Run(ctx, now))
		require.Len(t, notifier.sent, 1)
		assert.Contains(t, notifier.sent[0], "Badge renewal")
	})

	t.Run("notifier failure is returned", func(t *testing.T) {
		person := uint(1)
		svc, _, notifier := newReminderFixture([]model.Deadline{
			{OrganizationID: 1, PersonID: &person, Title: "Badge renewal", DueDate: now},
		})
		notifier.err = errors.New("offline")
		assert.ErrorContains(t, svc.Run(ctx, now), "offline")
	})
}
