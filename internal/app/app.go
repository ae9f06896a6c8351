package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"lyrics-etymology/internal/analysis"
	"lyrics-etymology/internal/config"
	"lyrics-etymology/internal/etymology"
	"lyrics-etymology/internal/ipc"
	"lyrics-etymology/internal/lyrics"
	"lyrics-etymology/internal/model"
	"lyrics-etymology/internal/player"
	"lyrics-etymology/internal/sentiment"
	"lyrics-etymology/internal/server"
	"lyrics-etymology/internal/transcript"
	"lyrics-etymology/internal/translation"
	"lyrics-etymology/pkg/ai"
	"lyrics-etymology/pkg/ai/provider"
	"lyrics-etymology/pkg/fileutil"
	"lyrics-etymology/pkg/kvcache"
	"lyrics-etymology/pkg/lrclib"
	"lyrics-etymology/pkg/netease"
	"lyrics-etymology/pkg/translator"
	"lyrics-etymology/pkg/translator/microsoft"
	"lyrics-etymology/pkg/translator/tencent"
	"lyrics-etymology/pkg/wiktionary"
)

// Pipeline 服务和 enrich 命令共用的分析组件
type Pipeline struct {
	Orchestrator *analysis.Orchestrator
	Translations *translation.Resolver
	Etymologies  *etymology.Resolver
	store        backingStore
}

func (p *Pipeline) Close() error {
	return p.store.Close()
}

// NewPipeline 根据配置组装缓存、词典、翻译和 AI
func NewPipeline(ctx context.Context, cfg *config.Config) (*Pipeline, error) {
	store, err := newStore(*cfg)
	if err != nil {
		return nil, fmt.Errorf("cache backend: %w", err)
	}
	log.Info().Str("backend", cfg.Cache.Backend).Msg("Cache backend ready")

	completion, err := provider.New(ctx, provider.Config{
		Provider: cfg.AI.Provider,
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey,
		BaseURL:  cfg.AI.BaseURL,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("ai provider: %w", err)
	}
	completion = ai.WithTimeout(completion, cfg.AI.Timeout)

	api, err := newTranslator(cfg.Translator)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("translator: %w", err)
	}

	etymologies := etymology.NewResolver(
		kvcache.WithPrefix(store, etymologyPrefix),
		wiktionary.NewClient(cfg.Dictionary.BaseURL, cfg.Dictionary.Timeout),
		completion,
		etymology.WithMaxRelated(cfg.Analysis.MaxRelatedWords),
	)
	translations := translation.NewResolver(
		kvcache.WithPrefix(store, translationPrefix),
		api,
		completion,
		cfg.Translator.TargetLanguage,
	)
	orchestrator := analysis.New(etymologies, translations, sentiment.NewAnalyzer(completion), analysis.Config{
		MaxWords:       cfg.Analysis.MaxWords,
		SkipStopWords:  cfg.Analysis.SkipStopWords,
		TargetLanguage: cfg.Translator.TargetLanguage,
		LineTimeout:    cfg.Analysis.LineTimeout,
	})

	return &Pipeline{
		Orchestrator: orchestrator,
		Translations: translations,
		Etymologies:  etymologies,
		store:        store,
	}, nil
}

// newTranslator 没有配置凭据时返回 nil 且不报错
func newTranslator(cfg config.TranslatorConfig) (translator.Translator, error) {
	var (
		api translator.Translator
		err error
	)
	switch cfg.Provider {
	case "tencent":
		var c *tencent.Client
		c, err = tencent.NewClient(cfg.SecretID, cfg.SecretKey, int(cfg.Timeout.Seconds()))
		if err == nil {
			api = c
		}
	default:
		var c *microsoft.Client
		c, err = microsoft.NewClient(cfg.Endpoint, cfg.Region, cfg.Key, cfg.Timeout)
		if err == nil {
			api = c
		}
	}
	if errors.Is(err, translator.ErrNoCredential) {
		return nil, nil
	}
	return api, err
}

type App struct {
	cfg      *config.Config
	pipeline *Pipeline
	ipc      *ipc.Server
	player   *player.Playerctl
	sources  *transcript.Chain
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	SetupLogger(cfg.Log)

	format, err := lyrics.ParseFormat(cfg.App.Format)
	if err != nil {
		return nil, err
	}
	pipeline, err := NewPipeline(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		pipeline: pipeline,
		ipc:      ipc.NewServer(cfg.App.SocketPath, cfg.App.MirrorPath),
		player:   player.NewPlayerctl(cfg.App.Player),
		sources:  newSourceChain(cfg, format),
	}, nil
}

func newSourceChain(cfg *config.Config, format lyrics.Format) *transcript.Chain {
	return transcript.NewChain(
		transcript.NewFileSource(0, format),
		transcript.NewLRCLibSource(lrclib.NewClient(cfg.Sources.LRCLibURL)),
		transcript.NewNetEaseSource(netease.NewClient(cfg.Sources.NetEaseURL, cfg.Sources.NetEaseCookie)),
	)
}

// Run 启动 IPC、HTTP 服务和歌词调度器，直到 ctx 取消或歌曲结束
func (a *App) Run(ctx context.Context) error {
	defer a.pipeline.Close()

	if a.cfg.App.Pregenerated != "" {
		if err := SeedFromFile(a.pipeline.Orchestrator, a.cfg.App.Pregenerated); err != nil {
			log.Warn().Err(err).Str("path", a.cfg.App.Pregenerated).Msg("Failed to load pre-generated enrichment")
		}
	}

	if err := a.ipc.Start(); err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer a.ipc.Close()

	g, ctx := errgroup.WithContext(ctx)
	if a.cfg.Server.Enabled {
		pingers := map[string]server.Pinger{}
		if a.pipeline.store.redis != nil {
			pingers["redis"] = a.pipeline.store.redis
		}
		srv := server.New(server.Config{
			Addr:         a.cfg.Server.Addr,
			ReadTimeout:  a.cfg.Server.ReadTimeout,
			WriteTimeout: a.cfg.Server.WriteTimeout,
		}, server.NewHandler(a.pipeline.Orchestrator, a.pipeline.Translations, pingers, log.With().Str("component", "http").Logger()))
		g.Go(func() error { return srv.Run(ctx) })
	}

	g.Go(func() error {
		lines, err := a.loadTranscript(ctx)
		if err != nil {
			a.ipc.Publish(ipc.Message{State: ipc.StateIdle, Text: "No lyrics found"})
			if a.cfg.Server.Enabled {
				// 没有歌词时仍然提供 HTTP 分析接口
				log.Error().Err(err).Msg("No transcript, serving HTTP analysis only")
				return nil
			}
			return err
		}
		scheduler := NewScheduler(lines, a.player, a.pipeline.Orchestrator, a.ipc, SchedulerConfig{
			PollInterval: a.cfg.App.PollInterval,
			LeadTime:     a.cfg.App.LeadTime,
		})
		if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) loadTranscript(ctx context.Context) ([]model.LyricLine, error) {
	q := transcript.Query{
		Path:   a.cfg.App.Transcript,
		Title:  a.cfg.App.Title,
		Artist: a.cfg.App.Artist,
	}
	if q.Path == "" && q.Title == "" {
		track, err := a.player.Track(ctx)
		if err != nil {
			return nil, fmt.Errorf("no transcript configured and no player: %w", err)
		}
		log.Info().Str("song", track.String()).Msg("Using song from player")
		q.Title, q.Artist, q.Duration = track.Title, track.Artist, track.Duration
	}

	lines, t, err := a.sources.Load(ctx, q)
	if err != nil {
		return nil, err
	}
	log.Info().Str("source", t.Source).Str("format", string(t.Format)).Int("lines", len(lines)).Msg("Transcript ready")
	return lines, nil
}

// SeedFromFile 预加载 enrich 命令生成的分析结果
func SeedFromFile(o *analysis.Orchestrator, path string) error {
	var records []model.EnrichedLine
	if err := fileutil.ReadJSON(path, &records); err != nil {
		return err
	}
	o.Seed(records)
	log.Info().Int("records", len(records)).Str("path", path).Msg("Loaded pre-generated enrichment")
	return nil
}
