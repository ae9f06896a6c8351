// Package player 通过 playerctl 读取 MPRIS 播放器的播放状态
package player

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoPlayer 没有正在运行的播放器
var ErrNoPlayer = errors.New("no active player")

// Clock 返回当前播放位置（秒）
type Clock interface {
	Position() (float64, error)
}

// Track 播放器当前播放的歌曲
type Track struct {
	Artist   string
	Title    string
	Duration float64 // 秒
}

func (t Track) String() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

type runner func(ctx context.Context, args ...string) (string, error)

// Playerctl 通过 playerctl 命令读取播放器状态
type Playerctl struct {
	player string
	run    runner
}

// NewPlayerctl 指定播放器名称，为空时由 playerctl 自行选择
func NewPlayerctl(name string) *Playerctl {
	return &Playerctl{player: name, run: execPlayerctl}
}

func execPlayerctl(ctx context.Context, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, "playerctl", args...).Output()
	if err != nil {
		return "", errors.Join(ErrNoPlayer, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (p *Playerctl) command(ctx context.Context, args ...string) (string, error) {
	if p.player != "" {
		args = append([]string{"--player", p.player}, args...)
	}
	return p.run(ctx, args...)
}

// Position 获取当前播放时间
func (p *Playerctl) Position() (float64, error) {
	out, err := p.command(context.Background(), "position")
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, err
	}
	return seconds, nil
}

// Track 获取当前歌曲信息
func (p *Playerctl) Track(ctx context.Context) (Track, error) {
	out, err := p.command(ctx, "metadata", "--format", "{{artist}}\t{{title}}\t{{mpris:length}}")
	if err != nil {
		return Track{}, err
	}
	parts := strings.Split(out, "\t")
	if len(parts) != 3 || strings.TrimSpace(parts[1]) == "" {
		return Track{}, ErrNoPlayer
	}

	t := Track{Artist: strings.TrimSpace(parts[0]), Title: strings.TrimSpace(parts[1])}
	// mpris:length 单位是微秒
	if us, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64); err == nil {
		t.Duration = float64(us) / 1e6
	}
	return t, nil
}
