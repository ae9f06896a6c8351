package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DefaultSocketPath     = "/tmp/lyrics_etymology.sock"
	DefaultPollInterval   = 50 * time.Millisecond
	DefaultLeadTime       = 0.1 // 秒
	DefaultServerAddr     = "127.0.0.1:3000"
	DefaultTargetLanguage = "en"
	DefaultLineTimeout    = 30 * time.Second

	envConfigPath = "LYRICS_ETYMOLOGY_CONFIG"
)

var (
	AIProviders         = []string{"gemini", "openai", "anthropic", "responses"}
	TranslatorProviders = []string{"microsoft", "tencent"}
	CacheBackends       = []string{"memory", "file", "redis", "sqlite"}
	LogLevels           = []string{"debug", "info", "warn", "error"}
	LogFormats          = []string{"console", "json"}
)

// TomlConfig TOML配置文件结构，时长字段保持字符串以便校验
type TomlConfig struct {
	App struct {
		SocketPath   string  `toml:"socket_path"`
		MirrorPath   string  `toml:"mirror_path"`
		Player       string  `toml:"player"`
		PollInterval string  `toml:"poll_interval"`
		LeadTime     float64 `toml:"lead_time"`
		Transcript   string  `toml:"transcript"`
		Format       string  `toml:"format"`
		Title        string  `toml:"title"`
		Artist       string  `toml:"artist"`
		Pregenerated string  `toml:"pregenerated"`
	} `toml:"app"`

	Server struct {
		Enabled      *bool  `toml:"enabled"`
		Addr         string `toml:"addr"`
		ReadTimeout  string `toml:"read_timeout"`
		WriteTimeout string `toml:"write_timeout"`
	} `toml:"server"`

	AI struct {
		Provider string `toml:"provider"`
		Model    string `toml:"model"`
		APIKey   string `toml:"api_key"`
		BaseURL  string `toml:"base_url"`
		Timeout  string `toml:"timeout"`
	} `toml:"ai"`

	Dictionary struct {
		BaseURL string `toml:"base_url"`
		Timeout string `toml:"timeout"`
	} `toml:"dictionary"`

	Translator struct {
		Provider       string `toml:"provider"`
		Endpoint       string `toml:"endpoint"`
		Region         string `toml:"region"`
		Key            string `toml:"key"`
		SecretID       string `toml:"secret_id"`
		SecretKey      string `toml:"secret_key"`
		TargetLanguage string `toml:"target_language"`
		Timeout        string `toml:"timeout"`
	} `toml:"translator"`

	Cache struct {
		Backend    string `toml:"backend"`
		FilePath   string `toml:"file_path"`
		SQLitePath string `toml:"sqlite_path"`
	} `toml:"cache"`

	Redis struct {
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db"`
	} `toml:"redis"`

	Sources struct {
		LRCLibURL     string `toml:"lrclib_url"`
		NetEaseURL    string `toml:"netease_url"`
		NetEaseCookie string `toml:"netease_cookie"`
	} `toml:"sources"`

	Analysis struct {
		MaxWords        int    `toml:"max_words"`
		MaxRelatedWords int    `toml:"max_related_words"`
		SkipStopWords   bool   `toml:"skip_stop_words"`
		LineTimeout     string `toml:"line_timeout"`
	} `toml:"analysis"`

	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
}

// AppConfig 应用配置
type AppConfig struct {
	SocketPath   string
	MirrorPath   string
	Player       string
	PollInterval time.Duration
	LeadTime     float64
	Transcript   string
	Format       string
	Title        string
	Artist       string
	Pregenerated string
}

type ServerConfig struct {
	Enabled      bool
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AIConfig AI配置
type AIConfig struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

type DictionaryConfig struct {
	BaseURL string
	Timeout time.Duration
}

type TranslatorConfig struct {
	Provider       string
	Endpoint       string
	Region         string
	Key            string
	SecretID       string
	SecretKey      string
	TargetLanguage string
	Timeout        time.Duration
}

type CacheConfig struct {
	Backend    string
	FilePath   string
	SQLitePath string
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SourcesConfig struct {
	LRCLibURL     string
	NetEaseURL    string
	NetEaseCookie string
}

type AnalysisConfig struct {
	MaxWords        int
	MaxRelatedWords int
	SkipStopWords   bool
	LineTimeout     time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// Config 主配置结构
type Config struct {
	App        AppConfig
	Server     ServerConfig
	AI         AIConfig
	Dictionary DictionaryConfig
	Translator TranslatorConfig
	Cache      CacheConfig
	Redis      RedisConfig
	Sources    SourcesConfig
	Analysis   AnalysisConfig
	Log        LogConfig
}

func userDir(xdgEnv, fallback string, elem ...string) string {
	if base := os.Getenv(xdgEnv); base != "" {
		return filepath.Join(append([]string{base, "lyrics-etymology"}, elem...)...)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(elem...)
	}
	return filepath.Join(append([]string{homeDir, fallback, "lyrics-etymology"}, elem...)...)
}

// Path 获取配置文件路径
func Path() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	return userDir("XDG_CONFIG_HOME", ".config", "config.toml")
}

// Default 没有配置文件时使用的默认配置
func Default() *Config {
	return &Config{
		App: AppConfig{
			SocketPath:   DefaultSocketPath,
			PollInterval: DefaultPollInterval,
			LeadTime:     DefaultLeadTime,
			Format:       "auto",
		},
		Server: ServerConfig{
			Enabled:      true,
			Addr:         DefaultServerAddr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		AI: AIConfig{
			Provider: "openai",
			Timeout:  30 * time.Second,
		},
		Dictionary: DictionaryConfig{Timeout: 10 * time.Second},
		Translator: TranslatorConfig{
			Provider:       "microsoft",
			Region:         "eastus",
			TargetLanguage: DefaultTargetLanguage,
			Timeout:        10 * time.Second,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			FilePath:   userDir("XDG_CACHE_HOME", ".cache", "cache.txt"),
			SQLitePath: userDir("XDG_CACHE_HOME", ".cache", "cache.db"),
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Analysis: AnalysisConfig{
			MaxWords:        5,
			MaxRelatedWords: 3,
			LineTimeout:     DefaultLineTimeout,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Load 读取 Path 处的配置文件，再用 .env 和环境变量覆盖并校验。
// 配置文件不存在不算错误
func Load() (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()
	return LoadFile(Path())
}

func LoadFile(path string) (*Config, error) {
	var tc TomlConfig
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", path).Msg("Config file not found, using defaults")
	} else if _, err := toml.DecodeFile(path, &tc); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	} else {
		log.Info().Str("path", path).Msg("Loaded config")
	}

	cfg := Default()
	cfg.apply(&tc)
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.warnMissingCredentials()
	return cfg, nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// setDuration 非法的时长只记录警告并保留默认值
func setDuration(dst *time.Duration, v, key string) {
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid duration, using default")
		return
	}
	*dst = d
}

func (c *Config) apply(tc *TomlConfig) {
	setString(&c.App.SocketPath, tc.App.SocketPath)
	setString(&c.App.MirrorPath, tc.App.MirrorPath)
	setString(&c.App.Player, tc.App.Player)
	setDuration(&c.App.PollInterval, tc.App.PollInterval, "app.poll_interval")
	if tc.App.LeadTime > 0 {
		c.App.LeadTime = tc.App.LeadTime
	}
	setString(&c.App.Transcript, tc.App.Transcript)
	setString(&c.App.Format, tc.App.Format)
	setString(&c.App.Title, tc.App.Title)
	setString(&c.App.Artist, tc.App.Artist)
	setString(&c.App.Pregenerated, tc.App.Pregenerated)

	if tc.Server.Enabled != nil {
		c.Server.Enabled = *tc.Server.Enabled
	}
	setString(&c.Server.Addr, tc.Server.Addr)
	setDuration(&c.Server.ReadTimeout, tc.Server.ReadTimeout, "server.read_timeout")
	setDuration(&c.Server.WriteTimeout, tc.Server.WriteTimeout, "server.write_timeout")

	setString(&c.AI.Provider, strings.ToLower(tc.AI.Provider))
	setString(&c.AI.Model, tc.AI.Model)
	setString(&c.AI.APIKey, tc.AI.APIKey)
	setString(&c.AI.BaseURL, tc.AI.BaseURL)
	setDuration(&c.AI.Timeout, tc.AI.Timeout, "ai.timeout")

	setString(&c.Dictionary.BaseURL, tc.Dictionary.BaseURL)
	setDuration(&c.Dictionary.Timeout, tc.Dictionary.Timeout, "dictionary.timeout")

	setString(&c.Translator.Provider, strings.ToLower(tc.Translator.Provider))
	setString(&c.Translator.Endpoint, tc.Translator.Endpoint)
	setString(&c.Translator.Region, tc.Translator.Region)
	setString(&c.Translator.Key, tc.Translator.Key)
	setString(&c.Translator.SecretID, tc.Translator.SecretID)
	setString(&c.Translator.SecretKey, tc.Translator.SecretKey)
	setString(&c.Translator.TargetLanguage, tc.Translator.TargetLanguage)
	setDuration(&c.Translator.Timeout, tc.Translator.Timeout, "translator.timeout")

	setString(&c.Cache.Backend, strings.ToLower(tc.Cache.Backend))
	setString(&c.Cache.FilePath, tc.Cache.FilePath)
	setString(&c.Cache.SQLitePath, tc.Cache.SQLitePath)

	setString(&c.Redis.Addr, tc.Redis.Addr)
	setString(&c.Redis.Password, tc.Redis.Password)
	setInt(&c.Redis.DB, tc.Redis.DB)

	setString(&c.Sources.LRCLibURL, tc.Sources.LRCLibURL)
	setString(&c.Sources.NetEaseURL, tc.Sources.NetEaseURL)
	setString(&c.Sources.NetEaseCookie, tc.Sources.NetEaseCookie)

	setInt(&c.Analysis.MaxWords, tc.Analysis.MaxWords)
	setInt(&c.Analysis.MaxRelatedWords, tc.Analysis.MaxRelatedWords)
	c.Analysis.SkipStopWords = tc.Analysis.SkipStopWords
	setDuration(&c.Analysis.LineTimeout, tc.Analysis.LineTimeout, "analysis.line_timeout")

	setString(&c.Log.Level, strings.ToLower(tc.Log.Level))
	setString(&c.Log.Format, strings.ToLower(tc.Log.Format))
}

// applyEnv 环境变量优先于配置文件
func (c *Config) applyEnv() {
	setString(&c.AI.APIKey, os.Getenv("OPENAI_API_KEY"))
	setString(&c.AI.APIKey, os.Getenv("AI_API_KEY"))
	setString(&c.Translator.Key, os.Getenv("TRANSLATOR_KEY"))
	setString(&c.Translator.Region, os.Getenv("TRANSLATOR_TEXT_REGION"))
	setString(&c.Translator.Endpoint, os.Getenv("TRANSLATOR_TEXT_ENDPOINT"))
	setString(&c.Translator.SecretID, os.Getenv("TENCENT_SECRET_ID"))
	setString(&c.Translator.SecretKey, os.Getenv("TENCENT_SECRET_KEY"))
	setString(&c.Redis.Password, os.Getenv("REDIS_PASSWORD"))
	setString(&c.Sources.NetEaseCookie, os.Getenv("NETEASE_COOKIE"))
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = db
		}
	}
}

func oneOf(key, v string, allowed []string) error {
	if !slices.Contains(allowed, v) {
		return fmt.Errorf("invalid %s %q (allowed: %s)", key, v, strings.Join(allowed, ", "))
	}
	return nil
}

// Validate 拒绝未知的枚举值和超出范围的数值
func (c *Config) Validate() error {
	var errs []error
	errs = append(errs,
		oneOf("ai.provider", c.AI.Provider, AIProviders),
		oneOf("translator.provider", c.Translator.Provider, TranslatorProviders),
		oneOf("cache.backend", c.Cache.Backend, CacheBackends),
		oneOf("log.level", c.Log.Level, LogLevels),
		oneOf("log.format", c.Log.Format, LogFormats),
		oneOf("app.format", c.App.Format, []string{"auto", "csv", "delimited", "srt", "subtitle", "lrc"}),
	)
	if c.Analysis.MaxWords < 0 {
		errs = append(errs, fmt.Errorf("invalid analysis.max_words %d", c.Analysis.MaxWords))
	}
	if c.Analysis.MaxRelatedWords < 0 {
		errs = append(errs, fmt.Errorf("invalid analysis.max_related_words %d", c.Analysis.MaxRelatedWords))
	}
	return errors.Join(errs...)
}

// warnMissingCredentials 缺少凭据时降级运行，只打印警告
func (c *Config) warnMissingCredentials() {
	if c.AI.APIKey == "" {
		log.Warn().Str("config", Path()).Msg("No AI API key configured (ai.api_key or AI_API_KEY); AI fallbacks are disabled")
	}
	switch c.Translator.Provider {
	case "microsoft":
		if c.Translator.Key == "" {
			log.Warn().Msg("No translator key configured (translator.key or TRANSLATOR_KEY); lines pass through untranslated")
		}
	case "tencent":
		if c.Translator.SecretID == "" || c.Translator.SecretKey == "" {
			log.Warn().Msg("Tencent translator credentials missing; lines pass through untranslated")
		}
	}
}
