package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-orders/internal/auth"
	"github.com/ignatzorin/freelance-orders/internal/config"
	"github.com/ignatzorin/freelance-orders/internal/db"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/goroutine"
	httpRouter "github.com/ignatzorin/freelance-orders/internal/http/router"
	"github.com/ignatzorin/freelance-orders/internal/infrastructure/memory"
	"github.com/ignatzorin/freelance-orders/internal/infrastructure/persistence"
	"github.com/ignatzorin/freelance-orders/internal/interface/http/handler"
	"github.com/ignatzorin/freelance-orders/internal/logger"
	"github.com/ignatzorin/freelance-orders/internal/mail"
	"github.com/ignatzorin/freelance-orders/internal/notify"
	"github.com/ignatzorin/freelance-orders/internal/payment"
	"github.com/ignatzorin/freelance-orders/internal/scheduler"
	"github.com/ignatzorin/freelance-orders/internal/storage"
	"github.com/ignatzorin/freelance-orders/internal/usecase/bid"
	"github.com/ignatzorin/freelance-orders/internal/usecase/dispute"
	"github.com/ignatzorin/freelance-orders/internal/usecase/gig"
	"github.com/ignatzorin/freelance-orders/internal/usecase/ledger"
	"github.com/ignatzorin/freelance-orders/internal/usecase/milestone"
	"github.com/ignatzorin/freelance-orders/internal/usecase/notification"
	"github.com/ignatzorin/freelance-orders/internal/usecase/order"
	"github.com/ignatzorin/freelance-orders/internal/usecase/outbox"
	"github.com/ignatzorin/freelance-orders/internal/usecase/project"
	"github.com/ignatzorin/freelance-orders/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}
	mainLog := logger.WithComponent("main")

	// Хранилище: PostgreSQL либо память для локального запуска.
	var (
		uow           repository.UnitOfWork
		notifications repository.NotificationRepository
		health        handler.Database
	)
	switch cfg.StorageDriver {
	case "memory":
		uow = memory.NewStore()
		notifications = memory.NewNotificationStore()
		mainLog.Warn("main: используется хранилище в памяти, данные не сохраняются между запусками")
	default:
		dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.DefaultPoolConfig())
		if err != nil {
			log.Fatalf("main: ошибка подключения к базе: %v", err)
		}
		defer safeClose(dbConn)

		if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
			log.Fatalf("main: ошибка миграций: %v", err)
		}
		uow = persistence.NewUnitOfWork(dbConn)
		notifications = persistence.NewNotificationRepository(dbConn)
		health = dbConn
	}
	users := uow.Repositories().Users

	// Фоновая очередь уведомлений и выплат.
	queue := notify.NewQueue(cfg.NotifyQueueSize, cfg.NotifyWorkers)
	queue.Start()
	defer queue.Close()

	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, hub.Run)

	dispatcher := notify.NewDispatcher(queue, notify.NewStoreSink(notifications), hub)
	if sender := newMailSender(cfg.Mail); sender != nil {
		dispatcher.AddSink(mail.NewSink(sender, users, cfg.Mail.PublicBaseURL))
	}

	processor := newPaymentProcessor(ctx, cfg.Payment)
	payouts := payment.NewPayoutService(queue, processor, users)
	publisher := outbox.NewPublisher(dispatcher, payouts)

	factory := order.NewFactory(cfg.Platform)

	evidence, err := storage.NewEvidenceStorage(cfg.EvidenceStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Фоновые задачи.
	jobs := scheduler.New(time.Minute)
	expirePending := order.NewExpirePendingOrdersUseCase(uow, publisher, cfg.PendingOrderTTL)
	if err := jobs.Add("expire-pending-orders", cfg.ExpirePendingCron, func(ctx context.Context) error {
		_, err := expirePending.Execute(ctx, time.Now())
		return err
	}); err != nil {
		log.Fatalf("main: не удалось зарегистрировать задачу: %v", err)
	}
	jobs.Start()
	defer jobs.Stop()

	// HTTP хэндлеры.
	projectHandler := handler.NewProjectHandler(
		project.NewCreateProjectUseCase(uow),
		project.NewGetProjectUseCase(uow),
		project.NewCloseProjectUseCase(uow, publisher),
		bid.NewPlaceBidUseCase(uow, publisher),
		bid.NewSelectWinnerUseCase(uow, factory, publisher),
		bid.NewListBidsUseCase(uow),
	)
	orderHandler := handler.NewOrderHandler(
		order.NewGetOrderUseCase(uow),
		order.NewListOrdersUseCase(uow),
		order.NewDeliverOrderUseCase(uow, publisher),
		order.NewRequestRevisionUseCase(uow, publisher),
		order.NewApproveDeliveryUseCase(uow, publisher),
	)
	milestoneHandler := handler.NewMilestoneHandler(
		milestone.NewCreateMilestonesUseCase(uow, publisher),
		milestone.NewListMilestonesUseCase(uow),
		milestone.NewDeliverMilestoneUseCase(uow, publisher),
		milestone.NewApproveMilestoneUseCase(uow, cfg.Platform, publisher),
	)
	disputeHandler := handler.NewDisputeHandler(
		dispute.NewOpenDisputeUseCase(uow, publisher),
		dispute.NewGetDisputeUseCase(uow),
		dispute.NewResolveDisputeUseCase(uow, publisher),
		dispute.NewWithdrawDisputeUseCase(uow, publisher),
		dispute.NewAttachEvidenceUseCase(uow, evidence),
		cfg.MaxUploadSizeMB,
	)
	gigHandler := handler.NewGigHandler(
		gig.NewCreateGigUseCase(uow),
		gig.NewGetGigUseCase(uow),
		gig.NewPurchaseGigUseCase(uow, factory, publisher),
	)
	accountHandler := handler.NewAccountHandler(
		ledger.NewListTransactionsUseCase(uow),
		notification.NewListNotificationsUseCase(notifications),
		notification.NewMarkNotificationReadUseCase(notifications),
	)
	paymentHandler := handler.NewPaymentHandler(order.NewHandlePaymentEventUseCase(uow, publisher), cfg.Payment.WebhookSecret)
	wsHandler := handler.NewWSHandler(hub, cfg.AllowedOrigins)
	healthHandler := handler.NewHealthHandler(health)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	engine := httpRouter.SetupRouter(cfg, tokens,
		healthHandler, projectHandler, orderHandler, milestoneHandler,
		disputeHandler, gigHandler, accountHandler, paymentHandler, wsHandler,
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			mainLog.WithError(err).Error("main: ошибка остановки http сервера")
		}
	}()

	mainLog.WithFields(logrus.Fields{
		"port":    cfg.HTTPPort,
		"storage": cfg.StorageDriver,
		"capture": cfg.Platform.Capture,
		"payouts": processor.Name(),
	}).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// newMailSender выбирает канал писем. nil означает, что письма не отправляются.
func newMailSender(cfg config.MailConfig) mail.Sender {
	switch cfg.Provider {
	case "mailgun":
		return mail.NewMailgunSender(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.From)
	case "smtp":
		return mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.From)
	default:
		return nil
	}
}

// newPaymentProcessor подключает PayPal. Без ключей выплаты только пишутся в лог.
func newPaymentProcessor(ctx context.Context, cfg config.PaymentConfig) payment.Processor {
	if cfg.Provider != "paypal" {
		return payment.LogProcessor{}
	}
	p, err := payment.NewPayPalProcessor(ctx, cfg.PayPalClientID, cfg.PayPalSecret, cfg.PayPalLive)
	if err != nil {
		logger.WithComponent("main").WithError(err).Error("main: PayPal недоступен, выплаты будут только журналироваться")
		return payment.LogProcessor{}
	}
	return p
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
