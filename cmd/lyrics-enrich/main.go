// Command lyrics-enrich analyses every line of a transcript ahead of time and
// writes the enriched records as JSON for app.pregenerated.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"lyrics-etymology/internal/app"
	"lyrics-etymology/internal/config"
	"lyrics-etymology/internal/lyrics"
	"lyrics-etymology/internal/model"
	"lyrics-etymology/internal/transcript"
	"lyrics-etymology/pkg/fileutil"
)

func main() {
	var (
		transcriptPath = flag.String("transcript", "", "transcript file or URL (defaults to app.transcript)")
		formatName     = flag.String("format", "auto", "transcript format: auto, csv, srt, lrc")
		out            = flag.String("out", "pregenerated.json", "output JSON file")
		delay          = flag.Duration("delay", time.Second, "pause between lines to stay under API rate limits")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *transcriptPath, *formatName, *out, *delay); err != nil {
		log.Fatal().Err(err).Msg("Enrichment failed")
	}
}

func run(ctx context.Context, path, formatName, out string, delay time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app.SetupLogger(cfg.Log)

	if path == "" {
		path = cfg.App.Transcript
	}
	if path == "" {
		return fmt.Errorf("no transcript given (-transcript or app.transcript)")
	}
	format, err := lyrics.ParseFormat(formatName)
	if err != nil {
		return err
	}

	lines, _, err := transcript.NewChain(transcript.NewFileSource(0, format)).Load(ctx, transcript.Query{Path: path})
	if err != nil {
		return err
	}

	pipeline, err := app.NewPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	records := make([]model.EnrichedLine, 0, len(lines))
	for i, line := range lines {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		rec := pipeline.Orchestrator.AnalyzeLine(ctx, line)
		records = append(records, rec)
		log.Info().
			Int("line", i+1).
			Int("total", len(lines)).
			Str("text", line.Text).
			Int("etymologies", len(rec.Etymology)).
			Msg("Analysed")
	}

	if err := fileutil.WriteJSON(out, records); err != nil {
		return err
	}

	dist := pipeline.Orchestrator.Distribution()
	log.Info().
		Str("out", out).
		Int("lines", len(records)).
		Interface("distribution", dist.Percentages()).
		Msg("Enrichment written")
	return nil
}
