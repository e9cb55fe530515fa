package main

import (
	"context"
	"math/rand"
	"time"

	"interviewd/internal/ai"
	"interviewd/internal/ai/gemini"
	openaiclient "interviewd/internal/ai/openai"
	"interviewd/internal/coaching"
	"interviewd/internal/config"
	"interviewd/internal/database"
	"interviewd/internal/engagement"
	"interviewd/internal/handlers"
	"interviewd/internal/intent"
	"interviewd/internal/livestate"
	"interviewd/internal/logging"
	"interviewd/internal/models"
	"interviewd/internal/orchestrator"
	"interviewd/internal/repository"
	"interviewd/internal/retrieval"
	qdrantretriever "interviewd/internal/retrieval/qdrant"
	"interviewd/internal/router"
	"interviewd/internal/scoring"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Bootstrap logger so config errors are visible; replaced below once
	// the logging config is known.
	bootLog, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize bootstrap logger: " + err.Error())
	}

	if err := config.Init(".", bootLog); err != nil {
		bootLog.Fatal("Failed to load configuration", zap.Error(err))
	}

	logConf := config.Conf.Logging
	log, err := logging.Init(logging.Options{
		Directory:  logConf.Directory,
		MaxSize:    logConf.MaxSize,
		MaxBackups: logConf.MaxBackups,
		MaxAge:     logConf.MaxAge,
		Compress:   logConf.Compress,
	})
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	// Initialize Database
	database.Init(log)
	store := repository.New(database.DB)

	// Load the interview pack (prompts, hints, marker lists)
	pack, err := models.LoadInterviewPack(config.Conf.Interview.PackFile)
	if err != nil {
		log.Fatal("Failed to load interview pack", zap.Error(err))
	}

	aggregator := engagement.New(
		config.Conf.Engagement.NegativeEmotions,
		config.Conf.Engagement.DistractedGazes,
	)
	advisor := coaching.New(pack.CoachingHints, rand.New(rand.NewSource(time.Now().UnixNano())))

	ctx := context.Background()
	generator, embedder := buildAIClients(ctx, log)

	weights := scoring.Weights{
		Relevance:    config.Conf.Scoring.Relevance,
		Accuracy:     config.Conf.Scoring.Accuracy,
		Completeness: config.Conf.Scoring.Completeness,
		Clarity:      config.Conf.Scoring.Clarity,
	}
	var scorer scoring.Scorer = scoring.NewHeuristicScorer(weights, pack.Affirmative, pack.Explanatory, pack.Hedges)
	if config.Conf.Scoring.Strategy == "model" {
		scorer = scoring.NewModelScorer(generator, weights, log)
	}

	classifier := intent.New(generator, log)
	interviewer := ai.NewInterviewer(generator)
	retriever := buildRetriever(embedder, log)
	live := buildLiveState(log)

	orch := orchestrator.New(
		store,
		live,
		scorer,
		classifier,
		interviewer,
		retriever,
		aggregator,
		advisor,
		pack,
		orchestrator.Options{
			ToneStrategy: engagement.ToneStrategy(config.Conf.Engagement.ToneStrategy),
			ToneWindow:   config.Conf.Engagement.ToneWindow,
			RetrievalK:   config.Conf.Retrieval.TopK,
		},
		log,
	)

	r := router.Setup(log, router.Handlers{
		Interview:  handlers.NewInterviewHandler(log, store, orch),
		Perception: handlers.NewPerceptionHandler(log, store, aggregator),
		Admin:      handlers.NewAdminHandler(log, store),
	})

	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}

// buildAIClients constructs the configured language-model collaborator plus
// an embedder for retrieval. The generator is required: without it there is
// no question generation and no interview. The embedder always comes from
// Gemini, so an OpenAI deployment that also wants retrieval needs both keys.
func buildAIClients(ctx context.Context, log *zap.Logger) (ai.Generator, ai.Embedder) {
	aiConf := config.Conf.AI
	timeout := time.Duration(aiConf.TimeoutSeconds) * time.Second

	var gem *gemini.Client
	if aiConf.GeminiAPIKey != "" {
		var err error
		gem, err = gemini.New(ctx, aiConf.GeminiAPIKey, aiConf.GeminiModel, aiConf.EmbeddingModel, timeout)
		if err != nil {
			log.Fatal("Failed to create Gemini client", zap.Error(err))
		}
	}

	switch aiConf.Provider {
	case "openai":
		oa, err := openaiclient.New(aiConf.OpenAIAPIKey, aiConf.OpenAIModel, timeout)
		if err != nil {
			log.Fatal("Failed to create OpenAI client", zap.Error(err))
		}
		if gem == nil {
			return oa, nil
		}
		return oa, gem

	case "gemini":
		if gem == nil {
			log.Fatal("ai.provider is gemini but no gemini_api_key is configured")
		}
		return gem, gem

	default:
		log.Fatal("Unknown ai.provider", zap.String("provider", aiConf.Provider))
		return nil, nil
	}
}

// buildRetriever wires the qdrant resume store when configured. Retrieval is
// optional: without it the interview simply runs ungrounded.
func buildRetriever(embedder ai.Embedder, log *zap.Logger) retrieval.Retriever {
	rConf := config.Conf.Retrieval
	if rConf.QdrantURL == "" {
		log.Info("No qdrant url configured, resume grounding disabled")
		return nil
	}
	if embedder == nil {
		log.Warn("Qdrant configured but no embedder available, resume grounding disabled")
		return nil
	}

	retriever, err := qdrantretriever.New(qdrantretriever.Config{
		URL:            rConf.QdrantURL,
		CollectionName: rConf.Collection,
		APIKey:         rConf.QdrantAPIKey,
	}, embedder)
	if err != nil {
		log.Fatal("Failed to create qdrant retriever", zap.Error(err))
	}
	return retriever
}

// buildLiveState selects the live-state driver from config.
func buildLiveState(log *zap.Logger) livestate.Store {
	driver := livestate.Driver(config.Conf.Interview.LiveStateDriver)

	var opts []livestate.StoreOption
	if driver == livestate.DriverRedis {
		rConf := config.Conf.Redis
		client := redis.NewClient(&redis.Options{
			Addr:     rConf.Addr,
			Password: rConf.Password,
			DB:       rConf.DB,
		})
		opts = append(opts, livestate.WithRedisClient(client))
	}

	live, err := livestate.NewStore(driver, opts...)
	if err != nil {
		log.Fatal("Failed to create live-state store", zap.Error(err))
	}
	return live
}
