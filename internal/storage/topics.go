package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LJTian/NewsHub/internal/logger"
	"github.com/LJTian/NewsHub/internal/trend"
)

// RecentArticles returns the articles published since the given time.
func (s *Store) RecentArticles(ctx context.Context, since time.Time) ([]trend.Article, error) {
	var rows []Article
	err := s.DB.WithContext(ctx).
		Select("id", "title", "quality_score", "feed_score", "publish_time").
		Where("publish_time >= ?", since).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load recent articles: %w", err)
	}
	out := make([]trend.Article, 0, len(rows))
	for _, r := range rows {
		out = append(out, trend.Article{
			ID:           r.ID,
			Title:        r.Title,
			QualityScore: r.QualityScore,
			FeedScore:    r.FeedScore,
			PublishTime:  r.PublishTime,
		})
	}
	return out, nil
}

// ReplaceTopics upserts topics and deletes every other row in one
// transaction, then refreshes the cached copy.
func (s *Store) ReplaceTopics(ctx context.Context, topics []trend.Topic) error {
	rows := make([]TrendingTopic, 0, len(topics))
	names := make([]string, 0, len(topics))
	for _, t := range topics {
		rows = append(rows, TrendingTopic{Topic: t.Topic, ArticleCount: t.ArticleCount, LastUpdated: t.LastUpdated})
		names = append(names, t.Topic)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if len(names) > 0 {
			del = del.Where("topic NOT IN ?", names)
		}
		if err := del.Delete(&TrendingTopic{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "topic"}},
			DoUpdates: clause.AssignmentColumns([]string{"article_count", "last_updated"}),
		}).Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("replace topics: %w", err)
	}

	if err := s.Cache.SetTopics(ctx, topics); err != nil {
		s.log.Warn("cache topics failed", logger.Error(err))
	}
	return nil
}

// BumpFeedScore adds delta to one article's feed score.
func (s *Store) BumpFeedScore(ctx context.Context, articleID string, delta float64) error {
	err := s.DB.WithContext(ctx).Model(&Article{}).
		Where("id = ?", articleID).
		UpdateColumn("feed_score", gorm.Expr("feed_score + ?", delta)).Error
	if err != nil {
		return fmt.Errorf("bump feed score: %w", err)
	}
	return nil
}

// TrendingTopics returns the current topics, from cache when possible.
func (s *Store) TrendingTopics(ctx context.Context) ([]trend.Topic, error) {
	if cached, ok := s.Cache.Topics(ctx); ok {
		return cached, nil
	}
	var rows []TrendingTopic
	if err := s.DB.WithContext(ctx).Order("article_count DESC").Order("topic").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	out := make([]trend.Topic, 0, len(rows))
	for _, r := range rows {
		out = append(out, trend.Topic{Topic: r.Topic, ArticleCount: r.ArticleCount, LastUpdated: r.LastUpdated})
	}
	if len(out) > 0 {
		_ = s.Cache.SetTopics(ctx, out)
	}
	return out, nil
}
