// Package calls answers the queries exposed over HTTP: listing call ids,
// fetching call metadata and asking questions about a call.
package calls

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/AVVKavvk/calls-qa/cache"
	"github.com/AVVKavvk/calls-qa/models"
	"github.com/AVVKavvk/calls-qa/store"
)

// Asker answers questions. Implemented by analysis.Analyst.
type Asker interface {
	AskStandalone(ctx context.Context, q models.Question, transcript string) string
	AskWithHistory(ctx context.Context, q models.Question) string
}

// Publisher receives every answered question.
type Publisher interface {
	Publish(ctx context.Context, exchange models.Exchange) error
}

type Service struct {
	store     *store.Store
	cache     cache.Cache
	asker     Asker
	ttl       time.Duration
	publisher Publisher
	now       func() time.Time
}

type Option func(*Service)

// WithPublisher sends every answered question to p.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func NewService(st *store.Store, c cache.Cache, asker Asker, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		store: st,
		cache: c,
		asker: asker,
		ttl:   ttl,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListIDs returns every call id.
func (s *Service) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if s.cached(ctx, cache.KeyIDs, &ids) {
		return ids, nil
	}

	ids = s.store.IDs()
	s.remember(ctx, cache.KeyIDs, ids)
	return ids, nil
}

// GetMetadata returns the metadata of a call, or store.ErrNotFound.
func (s *Service) GetMetadata(ctx context.Context, callID string) (models.CallMetadata, error) {
	key := cache.MetadataKey(callID)

	var metadata models.CallMetadata
	if s.cached(ctx, key, &metadata) {
		return metadata, nil
	}

	rec, err := s.store.Get(callID)
	if err != nil {
		return models.CallMetadata{}, err
	}
	s.remember(ctx, key, rec.CallMetadata)
	return rec.CallMetadata, nil
}

// Ask answers q about a call. A question with history is answered from the
// history alone and never looks up the call. A standalone question about an
// unknown call returns store.ErrNotFound.
func (s *Service) Ask(ctx context.Context, callID string, q models.Question) (string, error) {
	var answer string
	if !q.Standalone() {
		answer = s.asker.AskWithHistory(ctx, q)
	} else {
		transcript, err := s.transcript(ctx, callID)
		if err != nil {
			return "", err
		}
		answer = s.asker.AskStandalone(ctx, q, transcript)
	}

	s.publish(ctx, models.Exchange{
		CallID:     callID,
		Question:   q.Question,
		Answer:     answer,
		Standalone: q.Standalone(),
		AskedAt:    s.now().UTC(),
	})
	return answer, nil
}

// Transcript returns the transcript text of a call, or store.ErrNotFound.
func (s *Service) Transcript(ctx context.Context, callID string) (string, error) {
	return s.transcript(ctx, callID)
}

func (s *Service) transcript(ctx context.Context, callID string) (string, error) {
	key := cache.TranscriptKey(callID)

	var transcript string
	if s.cached(ctx, key, &transcript) {
		return transcript, nil
	}

	rec, err := s.store.Get(callID)
	if err != nil {
		return "", err
	}
	s.remember(ctx, key, rec.Transcript.Text)
	return rec.Transcript.Text, nil
}

// cached decodes the entry for key into dst. Cache failures count as misses.
func (s *Service) cached(ctx context.Context, key string, dst any) bool {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Printf("[WARN] cache get %s: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("[WARN] cache entry %s is not valid: %v", key, err)
		return false
	}
	return true
}

func (s *Service) remember(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[WARN] cache encode %s: %v", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		log.Printf("[WARN] cache set %s: %v", key, err)
	}
}

func (s *Service) publish(ctx context.Context, exchange models.Exchange) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, exchange); err != nil {
		log.Printf("[ERROR] publish exchange for %s: %v", exchange.CallID, err)
	}
}
