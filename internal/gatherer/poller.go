package gatherer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
	"github.com/samber/oops"

	"telegram-job-parser/internal/domain"
	"telegram-job-parser/internal/gatherer/facebook"
)

// Poller wakes on a fixed interval, refreshes the tracked-channel list and
// scans the periodic sources serially. Telegram channels are only collected
// here (the real-time listener consumes the refreshed allow-list); Facebook
// groups are scanned in place.
type Poller struct {
	cron       *cron.Cron
	sources    []Source
	fb         *facebook.Gatherer
	interval   int
	onChannels func([]Channel)
	logger     *slog.Logger
}

// NewPoller builds a poller firing every interval minutes. onChannels, if
// set, receives the merged channel list of each cycle.
func NewPoller(interval int, sources []Source, fb *facebook.Gatherer, onChannels func([]Channel)) *Poller {
	return &Poller{
		cron:       cron.New(),
		sources:    sources,
		fb:         fb,
		interval:   interval,
		onChannels: onChannels,
		logger:     slog.Default(),
	}
}

func (p *Poller) SetLogger(logger *slog.Logger) {
	p.logger = logger
}

// Start schedules the poll cycle and runs one immediately so sources are
// scanned without waiting for the first tick.
func (p *Poller) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %dm", p.interval)
	if _, err := p.cron.AddFunc(spec, func() { p.runCycle(ctx) }); err != nil {
		return oops.With("spec", spec).Wrap(err)
	}

	p.cron.Start()
	p.logger.Info("Poll cycle scheduled", "spec", spec)

	go p.runCycle(ctx)
	return nil
}

func (p *Poller) Stop() {
	p.cron.Stop()
}

func (p *Poller) runCycle(ctx context.Context) {
	channels := p.collectChannels(ctx)
	if p.onChannels != nil {
		p.onChannels(channels)
	}

	for _, ch := range channels {
		switch ch.SourceType {
		case domain.SourceTypeFacebook:
			if p.fb != nil {
				p.fb.ScanGroup(ctx, ch.URL)
			}
		case domain.SourceTypeTelegram:
			// Handled in real time by the listener.
		}
	}
}

// collectChannels merges every source's channels, dropping duplicates.
// A failing source is logged and skipped; the cycle continues with the rest.
func (p *Poller) collectChannels(ctx context.Context) []Channel {
	var all []Channel
	for _, src := range p.sources {
		channels, err := src.Channels(ctx)
		if err != nil {
			p.logger.Error("Channel source failed", "error", err)
			continue
		}
		all = append(all, channels...)
	}

	return lo.UniqBy(all, func(ch Channel) string {
		return string(ch.SourceType) + ":" + ch.URL
	})
}
