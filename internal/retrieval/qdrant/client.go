package qdrant

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"interviewd/internal/ai"

	"github.com/qdrant/go-client/qdrant"
)

// Config holds Qdrant connection configuration.
type Config struct {
	// URL is the Qdrant server address (e.g., "https://example.qdrant.io:6334").
	URL string

	// CollectionName is the name of the resume chunk collection.
	CollectionName string

	// APIKey is optional API key for authentication.
	APIKey string
}

// Retriever implements retrieval.Retriever against a Qdrant collection of
// resume chunks. Queries are embedded with the injected Embedder and filtered
// by candidate id, so one collection serves every candidate.
type Retriever struct {
	client         *qdrant.Client
	embedder       ai.Embedder
	collectionName string
}

// New creates a new Qdrant-backed retriever.
func New(cfg Config, embedder ai.Embedder) (*Retriever, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant url is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}

	// Parse the URL to extract host, port, and scheme
	parsedURL := cfg.URL
	if !strings.HasPrefix(parsedURL, "http://") && !strings.HasPrefix(parsedURL, "https://") {
		parsedURL = "https://" + parsedURL
	}

	u, err := url.Parse(parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse qdrant url: %w", err)
	}

	host := u.Hostname()
	port := 6334 // default grpc port
	if u.Port() != "" {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid port: %w", err)
		}
		port = p
	}

	useTLS := u.Scheme == "https"

	qdrantClient, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &Retriever{
		client:         qdrantClient,
		embedder:       embedder,
		collectionName: cfg.CollectionName,
	}, nil
}

// RelevantPassages implements retrieval.Retriever.
func (r *Retriever) RelevantPassages(ctx context.Context, candidateID, query string, k int) ([]string, error) {
	if k <= 0 {
		k = 3
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	limit := uint64(k)
	points, err := r.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: r.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		Filter:         candidateFilter(candidateID),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	passages := make([]string, 0, len(points))
	for _, point := range points {
		if point.Payload == nil {
			continue
		}
		if content := point.Payload["content"].GetStringValue(); content != "" {
			passages = append(passages, content)
		}
	}

	return passages, nil
}

// Close releases the underlying grpc connection.
func (r *Retriever) Close() error {
	return r.client.Close()
}

func candidateFilter(candidateID string) *qdrant.Filter {
	if candidateID == "" {
		return nil
	}
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			{
				ConditionOneOf: &qdrant.Condition_Field{
					Field: &qdrant.FieldCondition{
						Key:   "candidate_id",
						Match: &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: candidateID}},
					},
				},
			},
		},
	}
}
