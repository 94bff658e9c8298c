package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tanqtrail-arch/Absence/internal/clock"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"github.com/tanqtrail-arch/Absence/internal/repository/base"
	"github.com/tanqtrail-arch/Absence/internal/store"
)

// ReportRepository журнал сообщений об отсутствии, новые записи первыми
type ReportRepository struct {
	reports *base.Collection[model.AttendanceReport]
	clock   clock.Clock
}

func NewReportRepository(st store.Store, c clock.Clock) *ReportRepository {
	return &ReportRepository{
		reports: base.NewCollection[model.AttendanceReport](st, store.KeyAttendanceReports),
		clock:   c,
	}
}

// List возвращает сообщения в порядке добавления (новые первыми)
func (r *ReportRepository) List(ctx context.Context) ([]*model.AttendanceReport, error) {
	reports, err := r.reports.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// Prepend создаёт сообщение со статусом pending и ставит его в начало журнала
func (r *ReportRepository) Prepend(ctx context.Context, report *model.AttendanceReport) (*model.AttendanceReport, error) {
	reports, err := r.reports.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate report id: %w", err)
	}

	report.ID = id.String()
	report.Status = model.ReportStatusPending
	report.CreatedAt = r.clock.Now()

	reports = append([]*model.AttendanceReport{report}, reports...)
	if err := r.reports.Save(ctx, reports); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	return report, nil
}
