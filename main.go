package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/redpaw/redpaw/pkg/api/handler"
	"github.com/redpaw/redpaw/pkg/auth"
	"github.com/redpaw/redpaw/pkg/converter"
	"github.com/redpaw/redpaw/pkg/database"
	"github.com/redpaw/redpaw/pkg/digitalocean"
	"github.com/redpaw/redpaw/pkg/logger"
	"github.com/redpaw/redpaw/pkg/middleware"
	"github.com/redpaw/redpaw/pkg/openai"
	"github.com/redpaw/redpaw/pkg/repository"
	"github.com/redpaw/redpaw/pkg/services"
	"github.com/redpaw/redpaw/pkg/storage"
	"github.com/redpaw/redpaw/pkg/tools"
	"github.com/redpaw/redpaw/pkg/workers"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	OpenAIToken   string `env:"OPEN_AI_TOKEN,required"`
	OpenAIBaseURL string `env:"OPEN_AI_BASE_URL"`
	OpenAIModel   string `env:"OPEN_AI_MODEL" envDefault:"gpt-4o-mini"`

	PgURL  string `env:"DATABASE_URL"`
	PgHost string `env:"DB_HOST" envDefault:"localhost:5432"`

	StorageRoot string `env:"STORAGE_ROOT" envDefault:"./data/media"`

	ConvertHeicURL   string `env:"CONVERT_HEIC_URL"`
	ConvertHeicToken string `env:"CONVERT_HEIC_TOKEN"`

	TelegramBotToken     string        `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChannelID    int64         `env:"TELEGRAM_CHANNEL_ID"`
	NotifierPollInterval time.Duration `env:"NOTIFIER_POLL_INTERVAL" envDefault:"1m"`

	DigitalOceanToken string   `env:"DIGITAL_OCEAN_TOKEN"`
	AllowedOrigins    []string `env:"ALLOWED_ORIGINS" envSeparator:" " envDefault:"*"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	workerGroup, err := setupWorkers(cfg)
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("received signal", "signal", s)
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return workerGroup.Run(ctx)
}

func setupWorkers(cfg Config) (workers.Group, error) {
	db, err := database.NewPostgres(cfg.PgURL, cfg.PgHost)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	store, err := storage.NewLocalStore(cfg.StorageRoot, cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating object store: %w", err)
	}

	openAIClient, err := openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIToken, cfg.OpenAIModel)
	if err != nil {
		return nil, fmt.Errorf("creating openai client: %w", err)
	}

	dogsRepository := repository.NewDogsRepository(db)
	healthLogsRepository := repository.NewHealthLogsRepository(db)
	medicationsRepository := repository.NewMedicationRecordsRepository(db)
	careRequestsRepository := repository.NewCareRequestsRepository(db)
	sitterLogsRepository := repository.NewSitterLogsRepository(db)
	lostAlertsRepository := repository.NewLostAlertsRepository(db)
	foundDogsRepository := repository.NewFoundDogsRepository(db)
	sessionsRepository := repository.NewSessionsRepository(db)

	authenticator := auth.NewAuthenticator(sessionsRepository)

	toolService, err := services.NewToolService([]services.Tool{
		tools.NewGetMyDogs(dogsRepository),
		tools.NewGetDogDetails(dogsRepository, healthLogsRepository),
		tools.NewGetMedicationRecords(medicationsRepository),
		tools.NewGetCareRequests(careRequestsRepository),
		tools.NewGetLostAlerts(lostAlertsRepository),
		tools.NewGetSitterLogs(careRequestsRepository, sitterLogsRepository),
		tools.NewGetFoundDogsNearby(foundDogsRepository),
		tools.NewSearchFoundDogs(foundDogsRepository),
	})
	if err != nil {
		return nil, fmt.Errorf("creating tool service: %w", err)
	}

	assistantService := services.NewAssistantService(openAIClient, toolService)

	var remote converter.RemoteHeicConverter
	if cfg.ConvertHeicURL != "" {
		remote = converter.NewHTTPHeicConverter(cfg.ConvertHeicURL, cfg.ConvertHeicToken)
	}
	pipeline := converter.NewPipeline(store, remote)

	var balance handler.BalanceProvider
	if cfg.DigitalOceanToken != "" {
		balance = digitalocean.NewClient(cfg.DigitalOceanToken)
	}

	assistantHandler := handler.NewAssistant(assistantService, authenticator)
	convertHeicHandler := handler.NewConvertHeic(store)
	photosHandler := handler.NewPhotos(pipeline, store, dogsRepository, authenticator)
	shareHandler := handler.NewShareLostAlert(lostAlertsRepository)
	statusHandler := handler.NewStatus(db, balance)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.Post("/functions/v1/ai-assistant", assistantHandler.Chat)
	router.Post("/functions/v1/convert-heic", convertHeicHandler.Convert)
	router.Post("/api/photos", photosHandler.Upload)
	router.Get("/share/lost/{id}", shareHandler.Show)
	router.Get("/internal/status", statusHandler.Show)
	router.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(store.Root()))))

	workerGroup := workers.Group{
		workers.NewHTTPServer(":"+cfg.Port, router),
	}

	if cfg.TelegramBotToken != "" && cfg.TelegramChannelID != 0 {
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			return nil, fmt.Errorf("creating telegram bot: %w", err)
		}
		workerGroup = append(workerGroup, workers.NewLostAlertNotifier(
			lostAlertsRepository,
			bot,
			cfg.TelegramChannelID,
			cfg.BaseURL,
			cfg.NotifierPollInterval,
		))
	}

	return workerGroup, nil
}
