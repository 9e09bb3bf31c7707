// Package processor drives the configured content sources and aggregates
// what they fetch.
package processor

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kobozo/ai-auto-summarizer/internal/config"
	"github.com/kobozo/ai-auto-summarizer/internal/content"
	"github.com/kobozo/ai-auto-summarizer/internal/source"
)

// defaultTimePeriod is the global lookback window used when neither the
// source nor its type configures one, or when the configured value is
// unparseable.
const defaultTimePeriod = 24 * time.Hour

var timePeriodRegex = regexp.MustCompile(`^(\d+)d$`)

type loadedSource struct {
	name       string
	sourceType string
	timePeriod string
	src        source.Source
}

// Processor builds sources from the configuration and fetches their content
// sequentially. A failure in any single source is logged and skipped; it
// never aborts the rest of the run.
type Processor struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	sources []loadedSource
}

// New constructs a Processor, instantiating every enabled source through the
// registry. Sources that fail to construct are logged and excluded.
func New(cfg *config.Config, reg *source.Registry, log *zap.SugaredLogger) *Processor {
	p := &Processor{cfg: cfg, log: log}

	for sourceType, sourceConfigs := range cfg.Sources {
		settings := source.Settings{
			APIKey: cfg.APIKey(sourceType),
			Logger: log,
		}
		for _, sc := range sourceConfigs {
			if !sc.IsEnabled() {
				continue
			}
			src, err := reg.Create(sourceType, sc, settings)
			if err != nil {
				log.Warnw("skipping source", "type", sourceType, "name", sc.Name, "error", err)
				continue
			}
			p.sources = append(p.sources, loadedSource{
				name:       sc.Name,
				sourceType: sourceType,
				timePeriod: sc.TimePeriod,
				src:        src,
			})
		}
	}

	return p
}

// SourceCount returns how many sources were successfully constructed.
func (p *Processor) SourceCount() int {
	return len(p.sources)
}

// Process fetches content from every source and returns the aggregate,
// sorted by publish time, newest first.
func (p *Processor) Process(ctx context.Context) []content.Item {
	var all []content.Item

	for _, ls := range p.sources {
		p.log.Infow("processing source", "name", ls.name, "type", ls.sourceType)

		fromDate := time.Now().Add(-p.lookback(ls))
		items, err := ls.src.GetContent(ctx, fromDate)
		if err != nil {
			p.log.Errorw("source fetch failed", "name", ls.name, "type", ls.sourceType, "error", err)
			continue
		}
		all = append(all, items...)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})
	return all
}

// lookback resolves the fetch window for a source: its own time_period,
// else the type-level default, else one day. Invalid values fall back to
// one day with a warning.
func (p *Processor) lookback(ls loadedSource) time.Duration {
	period := ls.timePeriod
	if period == "" {
		period = p.cfg.DefaultTimePeriod(ls.sourceType)
	}
	if period == "" {
		return defaultTimePeriod
	}

	d, err := ParseTimePeriod(period)
	if err != nil {
		p.log.Warnw("invalid time period, falling back to 1 day", "source", ls.name, "time_period", period, "error", err)
		return defaultTimePeriod
	}
	return d
}

// ParseTimePeriod parses a lookback window in "Nd" form (e.g. "7d") into a
// duration.
func ParseTimePeriod(period string) (time.Duration, error) {
	m := timePeriodRegex.FindStringSubmatch(period)
	if m == nil {
		return 0, &InvalidTimePeriodError{Value: period}
	}
	days, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &InvalidTimePeriodError{Value: period}
	}
	return time.Duration(days) * 24 * time.Hour, nil
}

// InvalidTimePeriodError reports a time period that is not in "Nd" form.
type InvalidTimePeriodError struct {
	Value string
}

func (e *InvalidTimePeriodError) Error() string {
	return "invalid time period format: " + e.Value + " (expected forms like \"7d\")"
}
