// Package di wires the two binaries together: the ingestion server and the
// gathering process each get their own container.
package di

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/samber/do/v2"
	"github.com/samber/oops"

	botHandler "telegram-job-parser/internal/bot"
	"telegram-job-parser/internal/config"
	"telegram-job-parser/internal/domain"
	"telegram-job-parser/internal/gatherer"
	"telegram-job-parser/internal/gatherer/facebook"
	"telegram-job-parser/internal/gatherer/sheets"
	"telegram-job-parser/internal/gatherer/telegram"
	"telegram-job-parser/internal/notify"
	"telegram-job-parser/internal/pipeline"
	"telegram-job-parser/internal/server"
	"telegram-job-parser/internal/storage"
)

// Named services where the type alone is ambiguous
const (
	ServiceIngestClient   = "ingest-client"
	ServiceRealtimeClient = "realtime-client"
)

// SetupServer initializes the dependency injection container for the
// ingestion server process.
func SetupServer() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Server, error) {
		cfg, err := config.LoadServer()
		if err != nil {
			return nil, oops.With("context", "failed to load server config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Storage
	do.Provide(injector, func(i do.Injector) (*storage.Storage, error) {
		cfg := do.MustInvoke[*config.Server](i)
		store, err := storage.Open(cfg.DBPath)
		if err != nil {
			return nil, oops.With("db_path", cfg.DBPath, "context", "failed to open storage").Wrap(err)
		}
		return store, nil
	})

	// Register Bot (slash commands registered before the bot starts polling)
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Server](i)

		b, err := bot.New(cfg.BotToken)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		botHandler.NewHandler(cfg.WebAppURL).Register(b)
		return b, nil
	})

	// Register Notifier
	do.Provide(injector, func(i do.Injector) (notify.Notifier, error) {
		cfg := do.MustInvoke[*config.Server](i)
		b := do.MustInvoke[*bot.Bot](i)
		return notify.NewTelegramNotifier(b, cfg.ManagerChatID), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*server.Server, error) {
		cfg := do.MustInvoke[*config.Server](i)
		store := do.MustInvoke[*storage.Storage](i)
		notifier := do.MustInvoke[notify.Notifier](i)

		srv := server.New(cfg, store, notifier)
		srv.SetLogger(slog.Default())
		return srv, nil
	})

	return injector, nil
}

// ShutdownServer gracefully shuts down the server container.
func ShutdownServer(injector do.Injector) error {
	ctx := context.Background()

	if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
		b.Close(ctx)
	}

	if store, err := do.Invoke[*storage.Storage](injector); err == nil && store != nil {
		store.Close()
	}

	return nil
}

// SetupGatherer initializes the dependency injection container for the
// gathering process. Sources whose credentials are missing are simply not
// registered; the poller runs with whatever remains.
func SetupGatherer(ctx context.Context) (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Gatherer, error) {
		cfg, err := config.LoadGatherer()
		if err != nil {
			return nil, oops.With("context", "failed to load gatherer config").Wrap(err)
		}
		return cfg, nil
	})

	// Register dedup cache and keyword filter, shared by every submission path
	do.Provide(injector, func(i do.Injector) (*pipeline.Cache, error) {
		return pipeline.NewCache(pipeline.DefaultCacheCapacity), nil
	})
	do.Provide(injector, func(i do.Injector) (*pipeline.KeywordFilter, error) {
		cfg := do.MustInvoke[*config.Gatherer](i)
		return pipeline.NewKeywordFilter(cfg.Keywords()), nil
	})

	// Register ingestion clients. The realtime client carries a tighter
	// timeout so a slow server cannot stall update handling; both share the
	// same cache and filter.
	do.ProvideNamed(injector, ServiceIngestClient, func(i do.Injector) (*pipeline.Client, error) {
		cfg := do.MustInvoke[*config.Gatherer](i)
		cache := do.MustInvoke[*pipeline.Cache](i)
		filter := do.MustInvoke[*pipeline.KeywordFilter](i)
		return pipeline.NewClient(cfg.BotAPI, cfg.SharedSecret, cache, filter, pipeline.DefaultTimeout), nil
	})
	do.ProvideNamed(injector, ServiceRealtimeClient, func(i do.Injector) (*pipeline.Client, error) {
		cfg := do.MustInvoke[*config.Gatherer](i)
		cache := do.MustInvoke[*pipeline.Cache](i)
		filter := do.MustInvoke[*pipeline.KeywordFilter](i)
		return pipeline.NewClient(cfg.BotAPI, cfg.SharedSecret, cache, filter, pipeline.RealtimeTimeout), nil
	})

	// Register Facebook gatherer (nil when no scraper endpoint is configured)
	do.Provide(injector, func(i do.Injector) (*facebook.Gatherer, error) {
		cfg := do.MustInvoke[*config.Gatherer](i)
		if cfg.FBScraperURL == "" {
			return nil, nil
		}
		client := do.MustInvokeNamed[*pipeline.Client](i, ServiceIngestClient)
		g := facebook.NewGatherer(facebook.NewHTTPFetcher(cfg.FBScraperURL), client)
		g.SetLogger(slog.Default())
		return g, nil
	})

	// Register real-time Telegram listener
	do.Provide(injector, func(i do.Injector) (*telegram.Listener, error) {
		client := do.MustInvokeNamed[*pipeline.Client](i, ServiceRealtimeClient)
		return telegram.NewListener(client), nil
	})

	// Register channel sources
	do.Provide(injector, func(i do.Injector) ([]gatherer.Source, error) {
		cfg := do.MustInvoke[*config.Gatherer](i)

		var sources []gatherer.Source
		if urls := config.SplitList(cfg.TelegramChannels); len(urls) > 0 {
			sources = append(sources, gatherer.NewStaticSource(urls, domain.SourceTypeTelegram))
		}
		if urls := config.SplitList(cfg.FBGroups); len(urls) > 0 {
			sources = append(sources, gatherer.NewStaticSource(urls, domain.SourceTypeFacebook))
		}
		if cfg.ChannelAPIURL != "" {
			sources = append(sources, gatherer.NewAPISource(cfg.ChannelAPIURL))
		}
		if cfg.GoogleSheetID != "" && cfg.GoogleCredsJSON != "" {
			sheetSource, err := sheets.New(ctx, cfg.GoogleSheetID, cfg.GoogleCredsJSON)
			if err != nil {
				return nil, oops.With("sheet_id", cfg.GoogleSheetID, "context", "failed to create sheets source").Wrap(err)
			}
			sources = append(sources, sheetSource)
		} else if cfg.GoogleSheetID != "" || cfg.GoogleCredsJSON != "" {
			slog.Warn("Google Sheets source disabled, both GOOGLE_SHEET_ID and GOOGLE_CREDS_JSON are required")
		}

		return sources, nil
	})

	// Register Poller (each cycle refreshes the listener's allow-list)
	do.Provide(injector, func(i do.Injector) (*gatherer.Poller, error) {
		cfg := do.MustInvoke[*config.Gatherer](i)
		sources := do.MustInvoke[[]gatherer.Source](i)
		fb := do.MustInvoke[*facebook.Gatherer](i)
		listener := do.MustInvoke[*telegram.Listener](i)

		p := gatherer.NewPoller(cfg.CheckInterval, sources, fb, func(channels []gatherer.Channel) {
			listener.SetChannels(gatherer.TelegramUsernames(channels))
		})
		p.SetLogger(slog.Default())
		return p, nil
	})

	// Register Bot for real-time channel updates
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Gatherer](i)
		if cfg.TelegramBotToken == "" {
			return nil, domain.ErrMissingBotToken
		}
		listener := do.MustInvoke[*telegram.Listener](i)

		b, err := bot.New(cfg.TelegramBotToken, bot.WithDefaultHandler(listener.HandleUpdate))
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}
		return b, nil
	})

	return injector, nil
}

// ShutdownGatherer gracefully shuts down the gatherer container.
func ShutdownGatherer(injector do.Injector) error {
	ctx := context.Background()

	if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
		b.Close(ctx)
	}

	if p, err := do.Invoke[*gatherer.Poller](injector); err == nil && p != nil {
		p.Stop()
	}

	return nil
}
