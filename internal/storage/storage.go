package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LJTian/NewsHub/internal/logger"
	"github.com/LJTian/NewsHub/internal/source"
)

// Source mirrors a registry descriptor so operators can see what is crawled.
type Source struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:128;uniqueIndex" json:"name"`
	Tier        int            `gorm:"index" json:"tier"`
	Region      string         `gorm:"size:64" json:"region"`
	Family      string         `gorm:"size:32" json:"family"`
	Entrypoints datatypes.JSON `gorm:"type:jsonb" json:"entrypoints"`
	Status      string         `gorm:"size:32;index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Article struct {
	ID               string         `gorm:"primaryKey;size:40" json:"id"`
	Title            string         `gorm:"size:512" json:"title"`
	Body             string         `gorm:"type:text" json:"body"`
	Summary          string         `gorm:"size:600" json:"summary"`
	SourceName       string         `gorm:"size:128;index" json:"sourceName"`
	SourceURL        string         `gorm:"size:1024;uniqueIndex" json:"sourceUrl"`
	ImageURL         string         `gorm:"size:1024" json:"imageUrl"`
	Author           string         `gorm:"size:256" json:"author"`
	PublishTime      time.Time      `gorm:"index" json:"publishTime"`
	Category         string         `gorm:"size:64;index" json:"category"`
	Region           string         `gorm:"size:64;index" json:"region"`
	Embedding        datatypes.JSON `gorm:"type:jsonb" json:"-"`
	QualityScore     float64        `json:"qualityScore"`
	ReadabilityScore float64        `json:"readabilityScore"`
	ReadTimeMinutes  int            `json:"readTimeMinutes"`
	IsClickbait      bool           `json:"isClickbait"`
	FeedScore        float64        `gorm:"index" json:"feedScore"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

type TrendingTopic struct {
	Topic        string    `gorm:"primaryKey;size:128" json:"topic"`
	ArticleCount int       `json:"articleCount"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

type Store struct {
	DB    *gorm.DB
	Cache *Cache
	log   logger.Logger
}

// NewStore opens Postgres and Redis and migrates the schema.
func NewStore(dsn, redisAddr string, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewNop()
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis ping failed, caches degrade to database", logger.Error(err))
	}

	return New(db, NewCache(rdb), log)
}

// New migrates the schema on an open database. cache may be nil.
func New(db *gorm.DB, cache *Cache, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if err := db.AutoMigrate(&Source{}, &Article{}, &TrendingTopic{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{DB: db, Cache: cache, log: log.With(logger.String("component", "storage"))}, nil
}

// EnsureSource upserts the registry row for a descriptor.
func (s *Store) EnsureSource(ctx context.Context, d source.Descriptor) error {
	eps, err := json.Marshal(d.Entrypoints)
	if err != nil {
		return fmt.Errorf("encode entrypoints: %w", err)
	}
	row := &Source{
		Name:        d.Name,
		Tier:        int(d.Tier),
		Region:      d.Region,
		Family:      d.Family,
		Entrypoints: datatypes.JSON(eps),
		Status:      "active",
	}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"tier", "region", "family", "entrypoints", "status", "updated_at"}),
	}).Create(row).Error
}

// toValidUTF8 replaces invalid byte sequences that PostgreSQL rejects.
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "\ufffd")
}

// truncateRunesDB cuts s so it fits a varchar column of limit characters.
func truncateRunesDB(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}
