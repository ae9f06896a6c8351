package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lyrics-etymology/internal/ipc"
	"lyrics-etymology/internal/lyrics"
	"lyrics-etymology/internal/model"
	"lyrics-etymology/internal/player"
)

// 歌曲结束判定：最后一行结束后再等 5 秒
const finishGrace = 5.0

// LineAnalyzer 由 *analysis.Orchestrator 实现
type LineAnalyzer interface {
	AnalyzeLine(ctx context.Context, line model.LyricLine) model.EnrichedLine
	Cached(id string) (model.EnrichedLine, bool)
}

type Publisher interface {
	Publish(msg ipc.Message)
}

// Scheduler 跟随播放进度，换行时立即发布当前行，
// 分析完成后再发布分析结果
type Scheduler struct {
	tracker  *lyrics.Tracker
	clock    player.Clock
	analyzer LineAnalyzer
	pub      Publisher
	interval time.Duration
	lead     float64
	log      zerolog.Logger

	mu       sync.Mutex
	activeID string
	wg       sync.WaitGroup
}

type SchedulerConfig struct {
	PollInterval time.Duration
	LeadTime     float64
}

func NewScheduler(lines []model.LyricLine, clock player.Clock, analyzer LineAnalyzer, pub Publisher, cfg SchedulerConfig) *Scheduler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 50 * time.Millisecond
	}
	return &Scheduler{
		tracker:  lyrics.NewTracker(lines),
		clock:    clock,
		analyzer: analyzer,
		pub:      pub,
		interval: cfg.PollInterval,
		lead:     cfg.LeadTime,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// Run 轮询播放进度，直到歌曲结束或 ctx 被取消。
// 换行时不取消之前的分析，返回前等待它们结束
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.wg.Wait()

	if s.tracker.Len() == 0 {
		s.pub.Publish(ipc.Message{State: ipc.StateIdle})
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	lastIndex := -2 // 确保第一次广播
	s.log.Info().Int("lines_count", s.tracker.Len()).Msg("Lyric scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Lyric scheduler cancelled")
			return ctx.Err()
		case <-ticker.C:
		}

		// 每次都重新获取播放器时间，避免累积误差
		position, err := s.clock.Position()
		if err != nil {
			s.log.Debug().Err(err).Msg("Failed to read player position")
			continue
		}
		if position < 0 {
			s.log.Warn().Float64("player_time", position).Msg("Invalid player time")
			continue
		}

		if idx := s.tracker.IndexAt(position + s.lead); idx != lastIndex {
			s.activate(ctx, idx, position)
			lastIndex = idx
		}

		if position > s.tracker.End()+finishGrace {
			s.log.Info().Float64("current_time", position).Float64("last_line_end", s.tracker.End()).Msg("Song finished")
			s.setActive("")
			s.pub.Publish(ipc.Message{State: ipc.StateFinished})
			return nil
		}
	}
}

func (s *Scheduler) activate(ctx context.Context, idx int, position float64) {
	if idx < 0 {
		s.setActive("")
		s.pub.Publish(ipc.Message{State: ipc.StateIdle})
		return
	}

	line := s.tracker.Lines()[idx]
	s.setActive(line.ID)
	s.log.Info().
		Int("index", idx).
		Float64("player_time", position).
		Float64("line_start", line.StartTime).
		Str("lyric", line.Text).
		Msg("Active line changed")

	if rec, ok := s.analyzer.Cached(line.ID); ok {
		s.pub.Publish(ipc.Message{State: ipc.StateEnriched, Line: &rec})
		return
	}

	pending := model.Pending(line)
	s.pub.Publish(ipc.Message{State: ipc.StatePending, Line: &pending})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		rec := s.analyzer.AnalyzeLine(ctx, line)
		if ctx.Err() != nil {
			// 退出时拿到的是未缓存的默认结果，不发布
			return
		}
		// 分析完成时如果已经换行，只留在缓存里，不再发布
		if !s.publishIfActive(line.ID, ipc.Message{State: ipc.StateEnriched, Line: &rec}) {
			s.log.Debug().Str("line", line.ID).Msg("Line no longer active, result cached only")
		}
	}()
}

func (s *Scheduler) setActive(id string) {
	s.mu.Lock()
	s.activeID = id
	s.mu.Unlock()
}

// publishIfActive 检查和发布在同一把锁内完成，
// 旧行的结果不会覆盖新行的消息
func (s *Scheduler) publishIfActive(id string, msg ipc.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID != id {
		return false
	}
	s.pub.Publish(msg)
	return true
}
