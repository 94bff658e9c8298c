package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/tanqtrail-arch/Absence/internal/app"
	"github.com/tanqtrail-arch/Absence/internal/catalog"
	"github.com/tanqtrail-arch/Absence/internal/clock"
	"github.com/tanqtrail-arch/Absence/internal/config"
	"github.com/tanqtrail-arch/Absence/internal/controller"
	"github.com/tanqtrail-arch/Absence/internal/controller/weekimage"
	"github.com/tanqtrail-arch/Absence/internal/drafting"
	"github.com/tanqtrail-arch/Absence/internal/httpapi"
	"github.com/tanqtrail-arch/Absence/internal/notify"
	"github.com/tanqtrail-arch/Absence/internal/repository"
	"github.com/tanqtrail-arch/Absence/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Service stopped with error", zap.Error(err))
	}

	logger.Info("Service stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting school scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("store", cfg.StoreBackend),
		zap.String("timezone", cfg.Timezone.String()))

	storage, err := app.OpenStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer storage.Close()

	c := clock.New(cfg.Timezone)

	// Telegram нужен раньше сервисов: через него идут уведомления сотрудникам
	var botInstance *bot.Bot
	if cfg.TelegramToken != "" {
		botInstance, err = bot.New(cfg.TelegramToken, bot.WithDefaultHandler(func(context.Context, *bot.Bot, *models.Update) {}))
		if err != nil {
			return fmt.Errorf("create telegram bot: %w", err)
		}
	} else {
		logger.Warn("TELEGRAM_TOKEN not set, bot disabled")
	}

	publisher, closePublishers, err := buildPublisher(cfg, botInstance, logger)
	if err != nil {
		return err
	}
	defer closePublishers()

	catalogCfg, err := buildCatalog(cfg)
	if err != nil {
		return err
	}

	// Репозитории
	slotRepo := repository.NewSlotRepository(storage.Store)
	bookingRepo := repository.NewBookingRepository(storage.Store, c)
	eventRepo := repository.NewEventRepository(storage.Store)
	reportRepo := repository.NewReportRepository(storage.Store, c)

	// Сервисы
	userService := service.NewUserService(logger)
	bookingService := service.NewBookingService(slotRepo, bookingRepo, publisher, c, logger)
	calendarService := service.NewCalendarService(eventRepo, catalogCfg, c, logger)
	attendanceService := service.NewAttendanceService(
		reportRepo,
		calendarService,
		userService,
		buildComposer(ctx, cfg, logger),
		publisher,
		c,
		logger,
	)

	scheduler := app.NewScheduler(bookingService, calendarService, publisher, c, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	errCh := make(chan error, 2)

	server := httpapi.NewServer(
		cfg.HTTPAddr,
		httpapi.NewHandler(bookingService, calendarService, attendanceService, userService, logger),
		logger,
	)
	go func() {
		errCh <- server.Start()
	}()

	if botInstance != nil {
		fonts, err := weekimage.LoadFonts(cfg.CalendarFontPath)
		if err != nil {
			return fmt.Errorf("load calendar font: %w", err)
		}
		if !fonts.CJK() {
			logger.Warn("Calendar font has no Japanese glyphs, week images use latin labels",
				zap.String("font_path", cfg.CalendarFontPath))
		}

		botController := controller.NewBotController(
			botInstance,
			userService,
			bookingService,
			calendarService,
			attendanceService,
			weekimage.NewRenderer(fonts),
			cfg.IsStaff,
			logger,
		)
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands menu not set", zap.Error(err))
		}
		go func() {
			errCh <- botController.Start(ctx)
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", zap.Error(err))
	}

	return nil
}

// buildPublisher собирает каналы уведомлений: RabbitMQ и чат сотрудников
func buildPublisher(cfg *config.Config, botInstance *bot.Bot, logger *zap.Logger) (notify.Publisher, func(), error) {
	var (
		publishers notify.Multi
		closers    []func()
	)

	if cfg.RabbitMQURL != "" {
		rabbit, err := notify.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			return nil, nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		publishers = append(publishers, rabbit)
		closers = append(closers, func() {
			if err := rabbit.Close(); err != nil {
				logger.Warn("RabbitMQ close failed", zap.Error(err))
			}
		})
		logger.Info("RabbitMQ notifications enabled", zap.String("queue", cfg.RabbitMQQueue))
	}

	if botInstance != nil && cfg.StaffChatID != 0 {
		publishers = append(publishers, notify.NewTelegramPublisher(botInstance, cfg.StaffChatID))
		logger.Info("Staff chat notifications enabled", zap.Int64("chat_id", cfg.StaffChatID))
	}

	closeAll := func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}

	if len(publishers) == 0 {
		return notify.Nop{}, closeAll, nil
	}
	return publishers, closeAll, nil
}

// buildCatalog расписание школы; HOLIDAYS заменяет встроенный список каникул
func buildCatalog(cfg *config.Config) (service.CatalogConfig, error) {
	catalogCfg := service.DefaultCatalogConfig()
	catalogCfg.Weeks = cfg.CatalogWeeks

	if len(cfg.Holidays) > 0 {
		holidays, err := catalog.ParseHolidays(cfg.Holidays)
		if err != nil {
			return catalogCfg, fmt.Errorf("parse holidays: %w", err)
		}
		catalogCfg.Holidays = holidays
	}

	return catalogCfg, nil
}

// buildComposer Gemini при наличии ключа, иначе фиксированный текст
func buildComposer(ctx context.Context, cfg *config.Config, logger *zap.Logger) drafting.Composer {
	if cfg.GeminiAPIKey == "" {
		logger.Info("GEMINI_API_KEY not set, absence messages use the fixed template")
		return drafting.Fallback{}
	}

	gen, err := drafting.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Warn("Gemini unavailable, using fixed template", zap.Error(err))
		return drafting.Fallback{}
	}

	return drafting.NewGeneratorComposer(gen, logger)
}
