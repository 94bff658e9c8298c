package service

import (
	"context"
	"sync"

	"github.com/tanqtrail-arch/Absence/internal/clock"
	"github.com/tanqtrail-arch/Absence/internal/drafting"
	"github.com/tanqtrail-arch/Absence/internal/model"
	"github.com/tanqtrail-arch/Absence/internal/notify"
	"github.com/tanqtrail-arch/Absence/internal/repository"
	"go.uber.org/zap"
)

// AttendanceService принимает сообщения об отсутствии.
// Статус сообщения хранится, но здесь не вычисляется.
type AttendanceService struct {
	mu         sync.Mutex
	reportRepo *repository.ReportRepository
	calendar   *CalendarService
	users      *UserService
	composer   drafting.Composer
	publisher  notify.Publisher
	clock      clock.Clock
	logger     *zap.Logger
}

func NewAttendanceService(
	reportRepo *repository.ReportRepository,
	calendar *CalendarService,
	users *UserService,
	composer drafting.Composer,
	publisher notify.Publisher,
	c clock.Clock,
	logger *zap.Logger,
) *AttendanceService {
	if users == nil {
		users = NewUserService(logger)
	}
	if composer == nil {
		composer = drafting.Fallback{}
	}
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &AttendanceService{
		reportRepo: reportRepo,
		calendar:   calendar,
		users:      users,
		composer:   composer,
		publisher:  publisher,
		clock:      c,
		logger:     logger,
	}
}

// Reports возвращает сообщения, новые первыми
func (s *AttendanceService) Reports(ctx context.Context) ([]*model.AttendanceReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reportRepo.List(ctx)
}

// SubmitReport сохраняет сообщение об отсутствии.
// Имя и ID ученика берутся из профиля, если в черновике их нет.
func (s *AttendanceService) SubmitReport(ctx context.Context, draft model.ReportDraft, provider ProfileProvider) (*model.AttendanceReport, error) {
	profile := s.users.Lookup(ctx, provider)

	report := &model.AttendanceReport{
		CalendarEventID: draft.CalendarEventID,
		AbsenceDate:     draft.AbsenceDate,
		StudentID:       draft.StudentID,
		StudentName:     draft.StudentName,
		Reason:          draft.Reason,
		Message:         draft.Message,
	}
	if report.StudentID == "" {
		report.StudentID = profile.UserID
	}
	if report.StudentName == "" {
		report.StudentName = profile.DisplayName
	}

	if draft.CalendarEventID != "" {
		event, err := s.calendar.GetEvent(ctx, draft.CalendarEventID)
		if err != nil {
			return nil, err
		}

		if event == nil {
			s.logger.Warn("Report references unknown event",
				zap.String("event_id", draft.CalendarEventID))
		} else {
			report.EventTitle = event.Title
			if report.AbsenceDate == "" {
				report.AbsenceDate = event.StartAt.In(s.clock.Location()).Format(model.DateLayout)
			}
		}
	}

	s.mu.Lock()
	created, err := s.reportRepo.Prepend(ctx, report)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.logger.Info("Attendance report submitted",
		zap.String("report_id", created.ID),
		zap.String("student_id", created.StudentID),
		zap.String("event_id", created.CalendarEventID),
		zap.Bool("full_day", created.IsFullDay()),
	)

	event := notify.Event{
		Type:       notify.EventAttendanceReported,
		ReportID:   created.ID,
		Name:       created.StudentName,
		Date:       created.AbsenceDate,
		Text:       created.Reason,
		OccurredAt: s.clock.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish notification",
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}

	return created, nil
}

// DraftMessage сочиняет текст сообщения. Пустое название занятия означает весь день.
func (s *AttendanceService) DraftMessage(ctx context.Context, reason, subjectTitle, date string) string {
	if subjectTitle == "" {
		subjectTitle = drafting.FullDayTitle
	}
	return s.composer.Compose(ctx, reason, subjectTitle, date)
}
