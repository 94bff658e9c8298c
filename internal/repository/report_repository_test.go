package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanqtrail-arch/Absence/internal/clock"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"github.com/tanqtrail-arch/Absence/internal/store"
)

func TestReportRepository_PrependNewestFirst(t *testing.T) {
	ctx := context.Background()
	c := clock.NewFixed(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))
	repo := NewReportRepository(store.NewMemoryStore(), c)

	first, err := repo.Prepend(ctx, &model.AttendanceReport{StudentID: "s1", Reason: "発熱", Status: model.ReportStatusApproved})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, model.ReportStatusPending, first.Status, "status is always reset on creation")
	assert.Equal(t, c.Now(), first.CreatedAt)

	c.Advance(time.Minute)
	second, err := repo.Prepend(ctx, &model.AttendanceReport{StudentID: "s2", Reason: "通院"})
	require.NoError(t, err)

	reports, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, second.ID, reports[0].ID)
	assert.Equal(t, first.ID, reports[1].ID)
}
