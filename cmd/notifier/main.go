// The notifier sends birthday emails to active subscribers, either once
// (-once) or as a daemon firing every day at NOTIFY_HOUR.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	memfamilystore "github.com/family-archive/family-tree-api/internal/adapters/memory/familystore"
	memsubscriberrepo "github.com/family-archive/family-tree-api/internal/adapters/memory/subscriberrepo"
	postgres "github.com/family-archive/family-tree-api/internal/adapters/postgres"
	pgfamilystore "github.com/family-archive/family-tree-api/internal/adapters/postgres/familystore"
	pgsubscriberrepo "github.com/family-archive/family-tree-api/internal/adapters/postgres/subscriberrepo"
	"github.com/family-archive/family-tree-api/internal/app/birthdays"
	platformclock "github.com/family-archive/family-tree-api/internal/platform/clock"
	"github.com/family-archive/family-tree-api/internal/platform/config"
	"github.com/family-archive/family-tree-api/internal/platform/i18n"
	platformmail "github.com/family-archive/family-tree-api/internal/platform/mail"
	"github.com/family-archive/family-tree-api/internal/platform/scheduler"
	mailerport "github.com/family-archive/family-tree-api/internal/ports/out/mailer"
	memberrepoport "github.com/family-archive/family-tree-api/internal/ports/out/memberrepo"
	subscriberrepoport "github.com/family-archive/family-tree-api/internal/ports/out/subscriberrepo"
)

func main() {
	once := flag.Bool("once", false, "send today's notifications and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.Mail.Configured() {
		slog.Error("MAIL_SERVER is not configured")
		os.Exit(1)
	}

	clk := platformclock.NewSystemClock()

	var (
		memberRepo     memberrepoport.Repository
		subscriberRepo subscriberrepoport.Repository
	)
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			slog.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		memberRepo = pgfamilystore.NewStore(pool).Members()
		subscriberRepo = pgsubscriberrepo.NewRepo(pool)
	default:
		memberRepo = memfamilystore.NewStore().Members()
		subscriberRepo = memsubscriberrepo.NewRepo()
	}

	birthdaysSvc := birthdays.NewService(memberRepo, subscriberRepo, clk)
	mailer := platformmail.NewSMTPMailer(cfg.Mail)
	cat := i18n.Default()

	job := func(ctx context.Context) error {
		return sendTodaysNotifications(ctx, birthdaysSvc, mailer, cat)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		if err := job(ctx); err != nil {
			slog.Error("notification run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	scheduler.NewDaily("birthday-notifications", cfg.NotifyHour, clk, job).Run(ctx)
}

func sendTodaysNotifications(ctx context.Context, svc *birthdays.Service, mailer mailerport.Mailer, cat i18n.Catalog) error {
	notifications, err := svc.TodaysNotifications(ctx)
	if err != nil {
		return err
	}
	if len(notifications) == 0 {
		slog.Info("no birthdays today")
		return nil
	}

	for _, n := range notifications {
		subject, body := cat.FormatBirthdayEmail(n.Name, n.Age)
		if err := mailer.Send(ctx, mailerport.Message{
			Subject:    subject,
			Body:       body,
			Recipients: n.Recipients,
		}); err != nil {
			// One failed email must not block the remaining birthdays.
			slog.Error("birthday mail failed", "name", n.Name, "error", err)
			continue
		}
		slog.Info("birthday mail sent", "name", n.Name, "age", n.Age, "recipients", len(n.Recipients))
	}
	return nil
}
