package handlers

import (
	"github.com/tanqtrail-arch/Absence/internal/controller/state"
	"github.com/tanqtrail-arch/Absence/internal/controller/weekimage"
	"github.com/tanqtrail-arch/Absence/internal/service"
	"go.uber.org/zap"
)

// StaffChecker определяет, является ли пользователь Telegram сотрудником школы
type StaffChecker func(telegramID int64) bool

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService       *service.UserService
	bookingService    *service.BookingService
	calendarService   *service.CalendarService
	attendanceService *service.AttendanceService
	stateManager      *state.Manager
	weekImage         *weekimage.Renderer
	isStaff           StaffChecker
	logger            *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	bookingService *service.BookingService,
	calendarService *service.CalendarService,
	attendanceService *service.AttendanceService,
	stateManager *state.Manager,
	weekImage *weekimage.Renderer,
	isStaff StaffChecker,
	logger *zap.Logger,
) *Handlers {
	if isStaff == nil {
		isStaff = func(int64) bool { return false }
	}
	return &Handlers{
		userService:       userService,
		bookingService:    bookingService,
		calendarService:   calendarService,
		attendanceService: attendanceService,
		stateManager:      stateManager,
		weekImage:         weekImage,
		isStaff:           isStaff,
		logger:            logger,
	}
}
