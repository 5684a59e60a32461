package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"github.com/LJTian/NewsHub/internal/logger"
	"github.com/LJTian/NewsHub/internal/processor"
)

// ExistsURL checks the seen-URL cache first and falls back to the articles
// table.
func (s *Store) ExistsURL(ctx context.Context, url string) (bool, error) {
	if s.Cache.Seen(ctx, url) {
		return true, nil
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&Article{}).Where("source_url = ?", url).Limit(1).Count(&n).Error; err != nil {
		return false, fmt.Errorf("lookup url: %w", err)
	}
	if n > 0 {
		s.Cache.MarkSeen(ctx, url)
	}
	return n > 0, nil
}

// InsertArticle inserts a unless a row with the same id or source_url exists.
// It reports whether a row was created; a conflict is not an error.
func (s *Store) InsertArticle(ctx context.Context, a *processor.Article) (bool, error) {
	row, err := toRow(a)
	if err != nil {
		return false, err
	}
	res := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, fmt.Errorf("insert article: %w", res.Error)
	}
	s.Cache.MarkSeen(ctx, a.SourceURL)
	return res.RowsAffected > 0, nil
}

// RecentEmbeddings returns the embeddings of articles created since the given
// time, newest first.
func (s *Store) RecentEmbeddings(ctx context.Context, since time.Time, limit int) ([][]float32, error) {
	var rows []Article
	err := s.DB.WithContext(ctx).
		Select("embedding").
		Where("created_at >= ? AND embedding IS NOT NULL", since).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}
	out := make([][]float32, 0, len(rows))
	for _, r := range rows {
		vec, err := decodeEmbedding(r.Embedding)
		if err != nil {
			s.log.Debug("skip undecodable embedding", logger.Error(err))
			continue
		}
		if len(vec) > 0 {
			out = append(out, vec)
		}
	}
	return out, nil
}

func toRow(a *processor.Article) (*Article, error) {
	var emb datatypes.JSON
	if len(a.Embedding) > 0 {
		bs, err := json.Marshal(a.Embedding)
		if err != nil {
			return nil, fmt.Errorf("encode embedding: %w", err)
		}
		emb = datatypes.JSON(bs)
	}
	return &Article{
		ID:               a.ID,
		Title:            truncateRunesDB(toValidUTF8(a.Title), 512),
		Body:             toValidUTF8(a.Body),
		Summary:          truncateRunesDB(toValidUTF8(a.Summary), 600),
		SourceName:       a.SourceName,
		SourceURL:        a.SourceURL,
		ImageURL:         truncateRunesDB(a.ImageURL, 1024),
		Author:           truncateRunesDB(toValidUTF8(a.Author), 256),
		PublishTime:      a.PublishTime,
		Category:         a.Category,
		Region:           a.Region,
		Embedding:        emb,
		QualityScore:     a.QualityScore,
		ReadabilityScore: a.ReadabilityScore,
		ReadTimeMinutes:  a.ReadTimeMinutes,
		IsClickbait:      a.IsClickbait,
		FeedScore:        a.FeedScore,
		CreatedAt:        a.CreatedAt,
	}, nil
}

func decodeEmbedding(raw datatypes.JSON) ([]float32, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil, err
	}
	return vec, nil
}
