// Package vector implements the similarity index on Qdrant over gRPC.
package vector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/search"
)

// Config carries the Qdrant connection and collection settings.
type Config struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
	// Size is the expected vector dimension.
	Size uint64
}

// Store keeps article vectors in a Qdrant collection. It implements
// search.VectorStore.
type Store struct {
	client     *qdrant.Client
	collection string
	size       uint64
	log        *slog.Logger
}

// NewStore connects to Qdrant. The connection is lazy; failures surface on
// the first call.
func NewStore(cfg Config) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
		GrpcOptions: []grpc.DialOption{
			grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(32 * 1024 * 1024)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect qdrant at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return &Store{
		client:     client,
		collection: cfg.Collection,
		size:       cfg.Size,
		log:        slog.Default().With("component", "vector"),
	}, nil
}

// EnsureCollection creates the collection when missing. An existing
// collection with a different dimension is destroyed and recreated, since
// the index can always be rebuilt from the record store.
func (s *Store) EnsureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("check collection %q: %w", s.collection, err)
	}

	if exists {
		info, err := s.client.GetCollectionInfo(ctx, s.collection)
		if err != nil {
			return fmt.Errorf("inspect collection %q: %w", s.collection, err)
		}
		if current := collectionSize(info); current == s.size {
			return nil
		} else {
			s.log.WarnContext(ctx, "collection dimension mismatch, recreating",
				"collection", s.collection, "have", current, "want", s.size)
		}
		if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
			return fmt.Errorf("drop collection %q: %w", s.collection, err)
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.size,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection %q: %w", s.collection, err)
	}
	s.log.InfoContext(ctx, "collection created", "collection", s.collection, "size", s.size)
	return nil
}

// Upsert inserts or replaces one point, keyed by the article ID.
func (s *Store) Upsert(ctx context.Context, p search.Point) error {
	wait := true
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDNum(p.ID),
				Vectors: qdrant.NewVectors(p.Vector...),
				Payload: payloadToValueMap(p.Payload),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("upsert point %d: %w", p.ID, err)
	}
	return nil
}

// Query returns the limit nearest points to vector, best first.
func (s *Store) Query(ctx context.Context, vector []float32, limit int) ([]search.Match, error) {
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query collection %q: %w", s.collection, err)
	}

	matches := make([]search.Match, 0, len(points))
	for _, pt := range points {
		matches = append(matches, search.Match{
			ID:      pointID(pt.GetId()),
			Score:   pt.GetScore(),
			Payload: payloadFromValueMap(pt.GetPayload()),
		})
	}
	return matches, nil
}

// Close releases the gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func collectionSize(info *qdrant.CollectionInfo) uint64 {
	params := info.GetConfig().GetParams().GetVectorsConfig().GetParams()
	if params == nil {
		return 0
	}
	return params.GetSize()
}

func pointID(id *qdrant.PointId) uint64 {
	if id == nil {
		return 0
	}
	return id.GetNum()
}

func payloadToValueMap(p search.Payload) map[string]*qdrant.Value {
	return qdrant.NewValueMap(map[string]any{
		"title":        p.Title,
		"url":          p.URL,
		"source":       p.Source,
		"published_at": p.PublishedAt,
		"snippet":      p.Snippet,
	})
}

func payloadFromValueMap(values map[string]*qdrant.Value) search.Payload {
	return search.Payload{
		Title:       values["title"].GetStringValue(),
		URL:         values["url"].GetStringValue(),
		Source:      values["source"].GetStringValue(),
		PublishedAt: values["published_at"].GetStringValue(),
		Snippet:     values["snippet"].GetStringValue(),
	}
}
