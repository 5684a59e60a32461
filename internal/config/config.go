package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultUserAgent identifies outbound requests as a regular desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

type Config struct {
	AppPort string

	PostgresDSN string
	RedisAddr   string

	BasicAuthUser string
	BasicAuthPass string

	LogLevel    string
	SourcesFile string

	Fetch     FetchConfig
	Pipeline  PipelineConfig
	Schedule  ScheduleConfig
	Dedup     DedupConfig
	Category  CategoryConfig
	Trend     TrendConfig
	Embedding EmbeddingConfig
}

type FetchConfig struct {
	UserAgent string
	Timeout   time.Duration
	// HostRPS limits requests per second to any single host; 0 disables it.
	HostRPS float64
	// MaxLinks caps candidate links returned per entrypoint.
	MaxLinks int
}

type PipelineConfig struct {
	CandidateWorkers int
	MinQuality       float64
	MinBodyChars     int
}

type ScheduleConfig struct {
	Tier1         time.Duration
	Tier2         time.Duration
	Tier3         time.Duration
	Trend         time.Duration
	Keyword       time.Duration
	SourceWorkers int
	QueueSize     int
}

type DedupConfig struct {
	Threshold float64
	Window    time.Duration
	Sample    int
}

type CategoryConfig struct {
	MinScore  float64
	HintBonus float64
	URLBonus  float64
}

type TrendConfig struct {
	Window time.Duration
	TopN   int
	Boost  float64
}

type EmbeddingConfig struct {
	// OllamaURL empty means embeddings are unavailable and dedup is URL-only.
	OllamaURL string
	Model     string
	Dim       int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "9000")
	v.SetDefault("POSTGRES_DSN", "host=localhost user=newshub password=newshub dbname=newshub port=5432 sslmode=disable TimeZone=UTC")
	v.SetDefault("REDIS_ADDR", "localhost:6380")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SOURCES_FILE", "")

	v.SetDefault("USER_AGENT", DefaultUserAgent)
	v.SetDefault("FETCH_TIMEOUT", "10s")
	v.SetDefault("HOST_RPS", 2.0)
	v.SetDefault("MAX_LINKS", 20)

	v.SetDefault("CANDIDATE_WORKERS", 8)
	v.SetDefault("MIN_QUALITY", 30.0)
	v.SetDefault("MIN_BODY_CHARS", 200)

	v.SetDefault("TIER1_INTERVAL", "5m")
	v.SetDefault("TIER2_INTERVAL", "15m")
	v.SetDefault("TIER3_INTERVAL", "1h")
	v.SetDefault("TREND_INTERVAL", "30m")
	v.SetDefault("KEYWORD_INTERVAL", "2h")
	v.SetDefault("SOURCE_WORKERS", 4)
	v.SetDefault("QUEUE_SIZE", 64)

	v.SetDefault("DUPLICATE_THRESHOLD", 0.9)
	v.SetDefault("DEDUP_WINDOW", "48h")
	v.SetDefault("DEDUP_SAMPLE", 1000)

	v.SetDefault("MIN_CATEGORY_SCORE", 2.0)
	v.SetDefault("HINT_BONUS", 25.0)
	v.SetDefault("URL_BONUS", 10.0)

	v.SetDefault("TREND_WINDOW", "12h")
	v.SetDefault("TREND_TOP_N", 10)
	v.SetDefault("TREND_BOOST", 2.0)

	v.SetDefault("OLLAMA_URL", "")
	v.SetDefault("EMBED_MODEL", "all-minilm")
	v.SetDefault("EMBED_DIM", 384)
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		AppPort:       v.GetString("APP_PORT"),
		PostgresDSN:   v.GetString("POSTGRES_DSN"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		BasicAuthUser: v.GetString("APP_BASIC_USER"),
		BasicAuthPass: v.GetString("APP_BASIC_PASS"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		SourcesFile:   v.GetString("SOURCES_FILE"),
		Fetch: FetchConfig{
			UserAgent: v.GetString("USER_AGENT"),
			Timeout:   v.GetDuration("FETCH_TIMEOUT"),
			HostRPS:   v.GetFloat64("HOST_RPS"),
			MaxLinks:  v.GetInt("MAX_LINKS"),
		},
		Pipeline: PipelineConfig{
			CandidateWorkers: v.GetInt("CANDIDATE_WORKERS"),
			MinQuality:       v.GetFloat64("MIN_QUALITY"),
			MinBodyChars:     v.GetInt("MIN_BODY_CHARS"),
		},
		Schedule: ScheduleConfig{
			Tier1:         v.GetDuration("TIER1_INTERVAL"),
			Tier2:         v.GetDuration("TIER2_INTERVAL"),
			Tier3:         v.GetDuration("TIER3_INTERVAL"),
			Trend:         v.GetDuration("TREND_INTERVAL"),
			Keyword:       v.GetDuration("KEYWORD_INTERVAL"),
			SourceWorkers: v.GetInt("SOURCE_WORKERS"),
			QueueSize:     v.GetInt("QUEUE_SIZE"),
		},
		Dedup: DedupConfig{
			Threshold: v.GetFloat64("DUPLICATE_THRESHOLD"),
			Window:    v.GetDuration("DEDUP_WINDOW"),
			Sample:    v.GetInt("DEDUP_SAMPLE"),
		},
		Category: CategoryConfig{
			MinScore:  v.GetFloat64("MIN_CATEGORY_SCORE"),
			HintBonus: v.GetFloat64("HINT_BONUS"),
			URLBonus:  v.GetFloat64("URL_BONUS"),
		},
		Trend: TrendConfig{
			Window: v.GetDuration("TREND_WINDOW"),
			TopN:   v.GetInt("TREND_TOP_N"),
			Boost:  v.GetFloat64("TREND_BOOST"),
		},
		Embedding: EmbeddingConfig{
			OllamaURL: v.GetString("OLLAMA_URL"),
			Model:     v.GetString("EMBED_MODEL"),
			Dim:       v.GetInt("EMBED_DIM"),
		},
	}
}

// Now returns the current time; tests swap clocks at the component level.
func Now() time.Time {
	return time.Now()
}
