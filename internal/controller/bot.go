package controller

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/tanqtrail-arch/Absence/internal/controller/handlers"
	"github.com/tanqtrail-arch/Absence/internal/controller/state"
	"github.com/tanqtrail-arch/Absence/internal/controller/weekimage"
	"github.com/tanqtrail-arch/Absence/internal/service"
	"go.uber.org/zap"
)

type BotController struct {
	bot          *bot.Bot
	handlers     *handlers.Handlers
	stateManager *state.Manager
	logger       *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	bookingService *service.BookingService,
	calendarService *service.CalendarService,
	attendanceService *service.AttendanceService,
	weekImage *weekimage.Renderer,
	isStaff handlers.StaffChecker,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager(state.DefaultTTL)

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		userService,
		bookingService,
		calendarService,
		attendanceService,
		stateManager,
		weekImage,
		isStaff,
		logger,
	)

	return &BotController{
		bot:          botInstance,
		handlers:     cmdHandlers,
		stateManager: stateManager,
		logger:       logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/slots", bot.MatchTypeExact, c.handlers.HandleSlots)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypeExact, c.handlers.HandleBookStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancelbooking", bot.MatchTypePrefix, c.handlers.HandleCancelBooking)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/calendar", bot.MatchTypePrefix, c.handlers.HandleCalendar)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypePrefix, c.handlers.HandleWeek)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/absent", bot.MatchTypePrefix, c.handlers.HandleAbsent)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Команды для сотрудников
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/toggle", bot.MatchTypePrefix, c.handlers.HandleToggleSlot)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/bookings", bot.MatchTypeExact, c.handlers.HandleAllBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/confirm", bot.MatchTypePrefix, c.handlers.HandleConfirm)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/slotweek", bot.MatchTypePrefix, c.handlers.HandleSlotWeek)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 はじめる"},
		{Command: "help", Description: "❓ ヘルプ"},
		{Command: "slots", Description: "🗓 面談の空き枠"},
		{Command: "book", Description: "📅 面談を予約する"},
		{Command: "mybookings", Description: "📋 自分の予約"},
		{Command: "calendar", Description: "📆 授業予定"},
		{Command: "week", Description: "🖼 週間予定表"},
		{Command: "absent", Description: "📝 欠席連絡"},
		{Command: "cancel", Description: "✖️ 入力を中止"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и очистку брошенных диалогов; блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")

	go c.sweepStates(ctx)

	c.bot.Start(ctx)
	return nil
}

func (c *BotController) sweepStates(ctx context.Context) {
	ticker := time.NewTicker(state.DefaultTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := c.stateManager.Sweep(); removed > 0 {
				c.logger.Debug("Expired dialogs removed", zap.Int("count", removed))
			}
		case <-ctx.Done():
			return
		}
	}
}
