package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/metmat-canvas-bot/internal/canvas"
	"github.com/metmat-canvas-bot/internal/closures"
	"github.com/metmat-canvas-bot/internal/credentials"
	"github.com/metmat-canvas-bot/internal/jobs"
	"github.com/metmat-canvas-bot/internal/keys"
	"github.com/metmat-canvas-bot/internal/mail"
	"github.com/metmat-canvas-bot/internal/migrations"
	"github.com/metmat-canvas-bot/internal/notifications"
	"github.com/metmat-canvas-bot/internal/reminders"
	"github.com/metmat-canvas-bot/internal/telegram"
	"github.com/metmat-canvas-bot/internal/web"
	"github.com/metmat-canvas-bot/internal/workdays"
)

func main() {
	addr := flag.String("address", ":http", "http address to listen to")
	dbPath := flag.String("database-path", "metmatcanvasbot.db", "path to the database")
	key := flag.String("encryption-key", "please-change-me", "encryption key for the database")
	smtpServer := flag.String("smtp-server", "smtp.gmail.com", "smtp relay host")
	smtpPort := flag.Int("smtp-port", 465, "smtp relay port")
	smtpUsername := flag.String("smtp-username", "", "smtp login, overrides stored credentials")
	smtpPassword := flag.String("smtp-password", "", "smtp password, overrides stored credentials")
	mailCredentials := flag.String("mail-credentials", "~/.mailcredentials", "two-line login/password file for the smtp relay")
	fromName := flag.String("from-name", "MetMat Canvas Bot", "display name on outgoing mail")
	fromAddr := flag.String("from-addr", "", "from address on outgoing mail")
	canvasURL := flag.String("canvas-url", "https://canvas.bham.ac.uk", "canvas instance base url")
	canvasToken := flag.String("canvas-token", "", "canvas api token")
	courseIDs := flag.String("course-ids", "", "comma separated canvas course ids to watch")
	tsoEmails := flag.String("tso-emails", "", "comma separated addresses always copied on reminders")
	telegramToken := flag.String("telegram-token", "", "telegram bot token, empty disables the bot")
	markingWindow := flag.Int("marking-window", workdays.DefaultMarkingWindowDays, "working days allowed for marking")
	closuresFile := flag.String("closures-file", "", "json file of [year, month, day] closure triples to import")
	sweepInterval := flag.Duration("sweep-interval", 24*time.Hour, "how often to sweep courses for due assignments")
	flag.Parse()

	if envKey := os.Getenv("ENCRYPTION_KEY"); envKey != "" {
		key = &envKey
	}
	if envToken := os.Getenv("CANVAS_TOKEN"); envToken != "" {
		canvasToken = &envToken
	}
	if envToken := os.Getenv("TELEGRAM_TOKEN"); envToken != "" {
		telegramToken = &envToken
	}

	encryptionKey, err := keys.ParseKey([]byte(*key))
	if err != nil {
		log.Fatalf("[ERROR] encryption-key: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: new(slog.LevelVar),
	})

	db, err := badger.Open(badger.DefaultOptions(*dbPath))
	if err != nil {
		log.Fatalf("[ERROR] db: %s", err)
	}

	if err := migrations.Run(db); err != nil {
		log.Fatalf("[ERROR] db migrations: %s", err)
	}

	credentialsStore := credentials.NewStore(db, encryptionKey)

	var bot *telegram.Bot
	if *telegramToken != "" {
		bot, err = telegram.NewBot(telegram.NewStore(db), *telegramToken)
		if err != nil {
			log.Fatalf("[ERROR] telegram: %s", err)
		}
		handler = telegram.NewSlogHandler(bot, handler)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	mailProvider := credentials.Chain{
		credentials.Static{Login: *smtpUsername, Password: *smtpPassword},
		credentials.StoreProvider{Store: credentialsStore, Service: credentials.ServiceSMTP},
		credentials.File{Path: *mailCredentials},
	}
	mailClient := mail.NewClient(mail.Config{
		Server:   *smtpServer,
		Port:     *smtpPort,
		FromName: *fromName,
		FromAddr: *fromAddr,
	}, mailProvider)

	notificationsService, err := notifications.NewService(mailClient, splitList(*tsoEmails))
	if err != nil {
		log.Fatalf("[ERROR] notifications: %s", err)
	}

	canvasClient := canvas.NewAPIClient(*canvasURL, *canvasToken)

	closuresService := closures.NewService(closures.NewStore(db))
	year := time.Now().UTC().Year()
	for _, y := range []int{year, year + 1} {
		if err := closuresService.SeedYear(ctx, y); err != nil {
			log.Fatalf("[ERROR] seed closures %d: %s", y, err)
		}
	}
	if *closuresFile != "" {
		if err := closuresService.LoadFile(ctx, *closuresFile); err != nil {
			log.Fatalf("[ERROR] load closures: %s", err)
		}
	}

	jobsStore := jobs.NewStore(db)
	scheduler := jobs.NewScheduler(jobsStore, canvasClient, closuresService, notificationsService, *markingWindow)
	scheduler.OnJobFailed(func(ctx context.Context, job *jobs.Job) {
		logger.WarnContext(ctx, "job failed",
			"job_id", job.ID,
			"error", job.Errors[len(job.Errors)-1])
	})
	if err := scheduler.Init(ctx); err != nil {
		log.Fatalf("[ERROR] init scheduler: %s", err)
	}

	remindersService := reminders.NewService(
		canvasClient,
		closuresService,
		jobsStore,
		scheduler,
		splitList(*courseIDs),
		*markingWindow,
	)
	remindersService.Start(ctx, *sweepInterval)

	if bot != nil {
		go func() {
			if err := bot.Listen(ctx); err != nil {
				logger.ErrorContext(ctx, "telegram listen", "error", err)
			}
		}()
	}

	httpServer := http.Server{
		Handler: web.Handler(logger, closuresService, *markingWindow),
	}

	// Wait for shut down in a separate goroutine.
	errCh := make(chan error)
	go func() {
		shutdownCh := make(chan os.Signal, 1)
		signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)
		sig := <-shutdownCh

		log.Printf("[INFO] received %s, shutting down", sig)

		shutdownTimeout := 15 * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		errCh <- httpServer.Shutdown(shutdownCtx)
	}()

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("[ERROR] tcp: %s", err)
	}
	log.Printf("[INFO] listening on %s", ln.Addr())

	if err := httpServer.Serve(ln); err != http.ErrServerClosed {
		log.Printf("[ERROR] http serve: %s", err)
	}

	if err := <-errCh; err != nil {
		log.Printf("[ERROR] error during shutdown: %s", err)
	}

	log.Printf("[INFO] application stopped")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
