package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/partnerhub/internal/application/auth"
	"github.com/jhoicas/partnerhub/internal/application/conversation"
	"github.com/jhoicas/partnerhub/internal/application/matching"
	"github.com/jhoicas/partnerhub/internal/application/notify"
	"github.com/jhoicas/partnerhub/internal/application/ports"
	"github.com/jhoicas/partnerhub/internal/application/usecase"
	"github.com/jhoicas/partnerhub/internal/application/verification"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
	"github.com/jhoicas/partnerhub/internal/infrastructure/catalogfile"
	"github.com/jhoicas/partnerhub/internal/infrastructure/memory"
	"github.com/jhoicas/partnerhub/internal/infrastructure/natsqueue"
	infrapdf "github.com/jhoicas/partnerhub/internal/infrastructure/pdf"
	"github.com/jhoicas/partnerhub/internal/infrastructure/postgres"
	"github.com/jhoicas/partnerhub/internal/infrastructure/telegram"
	"github.com/jhoicas/partnerhub/internal/interfaces/bot"
	httpRouter "github.com/jhoicas/partnerhub/internal/interfaces/http"
	"github.com/jhoicas/partnerhub/pkg/config"
	"github.com/jhoicas/partnerhub/pkg/jwt"
	"github.com/jhoicas/partnerhub/pkg/logger"
)

// storage repositorios, runner transaccional y estadísticas del driver elegido.
type storage struct {
	repos ports.Repositories
	tx    ports.TxRunner
	stats repository.StatsRepository
	close func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage {
	if cfg.App.StoreDriver == "memory" {
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return storage{repos: store.Repositories(), tx: store, stats: store.Stats(), close: func() {}}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name, log.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	return storage{
		repos: postgres.NewRepositories(pool),
		tx:    postgres.NewTxRunner(pool),
		stats: postgres.NewStatsRepository(pool),
		close: pool.Close,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Str("bot_mode", cfg.Bot.Mode).
		Msg("iniciando aplicación")
	if cfg.Bot.OwnerTelegramID == 0 {
		log.Warn().Msg("OWNER_TELEGRAM_ID no configurado: nadie recibirá las solicitudes salvo los administradores")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := openStorage(ctx, cfg, log)
	defer st.close()
	repos := st.repos

	cat, err := catalogfile.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("catálogo")
	}

	client := telegram.NewClient(cfg.Bot.Token, log.Component("telegram"))
	tgNotifier := telegram.NewNotifier(client)

	// Con NATS los avisos pasan por la cola y un relay los entrega a Telegram.
	var transport ports.Notifier = tgNotifier
	if cfg.NATS.URL != "" {
		nc, err := natsqueue.Connect(cfg.NATS.URL, cfg.App.Name, log.Component("nats"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a NATS")
		}
		defer nc.Close()
		relay := natsqueue.NewRelay(nc, cfg.NATS.Subject, tgNotifier, log.Component("nats"))
		if err := relay.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("relay de notificaciones")
		}
		defer func() { _ = relay.Stop() }()
		transport = natsqueue.NewPublisher(nc, cfg.NATS.Subject)
	}
	notifier := notify.NewDispatcher(transport, log.Component("notify"))

	guard := auth.NewGuard(repos.Users, cfg.Bot.OwnerTelegramID)
	registrationUC := usecase.NewRegistrationUseCase(st.tx, repos.Users, repos.Organizations, guard, notifier, cfg.Bot.OwnerTelegramID, log.Component("registration"))
	matchingUC := matching.NewUseCase(st.tx, repos.Users, repos.Organizations, repos.Matches, notifier, log.Component("matching"))
	verificationUC := verification.NewUseCase(st.tx, repos.Verifications, guard, notifier, log.Component("verification"))
	resourceUC := usecase.NewResourceUseCase(st.tx, repos.Resources, guard)
	newsUC := usecase.NewNewsUseCase(st.tx, repos.Users, repos.Organizations, repos.News)
	contractUC := usecase.NewContractUseCase(
		st.tx, repos.Users, repos.Organizations, repos.Matches, repos.Contracts,
		infrapdf.NewContractRenderer(cfg.PDF.FontPath), tgNotifier, notifier, log.Component("contracts"),
	)
	questionUC := usecase.NewQuestionUseCase(repos.Users, repos.Logs, notifier, cfg.Bot.OwnerTelegramID)
	adminUC := usecase.NewAdminUseCase(st.tx, repos.Users, repos.Logs, st.stats, guard, notifier)
	tokens := jwt.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiration)*time.Minute)
	authUC := auth.NewAuthUseCase(guard, cfg.JWT.PasswordHash, tokens)

	engine := conversation.NewEngine(conversation.NewMemoryStore(cfg.Bot.SessionTTL), cat, conversation.Services{
		Registration: registrationUC,
		Resources:    resourceUC,
		News:         newsUC,
		Partners:     matchingUC,
		Contracts:    contractUC,
		Questions:    questionUC,
		Verification: verificationUC,
		Admins:       adminUC,
		Guard:        guard,
	}, log.Component("conversation"))

	dispatcher := bot.New(bot.Deps{
		Messenger:    client,
		Engine:       engine,
		Guard:        guard,
		Registration: registrationUC,
		Profiles:     usecase.NewProfileUseCase(repos.Users, repos.Organizations, repos.Mentors),
		Matching:     matchingUC,
		Verification: verificationUC,
		Resources:    resourceUC,
		News:         newsUC,
		Mentors:      usecase.NewMentorUseCase(repos.Mentors),
		Contracts:    contractUC,
		Admin:        adminUC,
		Log:          log.Component("bot"),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "PartnerHub Admin API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	deps := httpRouter.RouterDeps{
		AuthUC:         authUC,
		VerificationUC: verificationUC,
		AdminUC:        adminUC,
		Tokens:         tokens,
		WebhookSecret:  cfg.Bot.WebhookSecret,
	}
	if cfg.Bot.Mode == config.BotModeWebhook {
		deps.Updates = dispatcher
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	switch cfg.Bot.Mode {
	case config.BotModeWebhook:
		if cfg.Bot.WebhookURL != "" {
			if err := client.SetWebhook(ctx, cfg.Bot.WebhookURL, cfg.Bot.WebhookSecret); err != nil {
				log.Fatal().Err(err).Msg("registrar webhook")
			}
		}
		log.Info().Msg("recibiendo updates por webhook")
	default:
		if err := client.DeleteWebhook(ctx); err != nil {
			log.Warn().Err(err).Msg("no se pudo eliminar el webhook previo")
		}
		go client.Poll(ctx, dispatcher.Handle)
		log.Info().Msg("recibiendo updates por long polling")
	}

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
