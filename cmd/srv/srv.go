package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/coursepulse/backend/config"
	"github.com/coursepulse/backend/internal/domain/scoring"
	"github.com/coursepulse/backend/internal/repository"
	"github.com/coursepulse/backend/pkg/api/classifier"
	"github.com/coursepulse/backend/pkg/kafka"
	"github.com/coursepulse/backend/pkg/logger"
	"github.com/coursepulse/backend/pkg/pubsub"
	"github.com/coursepulse/backend/pkg/xcontext"
	"github.com/coursepulse/backend/pkg/xredis"
)

type srv struct {
	app *cli.App

	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	publisher   pubsub.Publisher
	redisClient xredis.Client

	userRepo     repository.UserRepository
	feedbackRepo repository.FeedbackRepository
	analysisRepo repository.FeedbackAnalysisRepository
	cacheRepo    repository.ClassificationCacheRepository
	pointRepo    repository.PointLedgerRepository

	classifierDomain *scoring.Classifier
	analyzerDomain   *scoring.Analyzer
	ledgerDomain     *scoring.Ledger
	referralDomain   *scoring.Referral
	scoringService   *scoring.Service
	worker           *scoring.BookkeepingWorker
}

func (s *srv) loadConfig() {
	s.configs = config.Configs{
		Env: getEnv("ENV", "dev"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			User:     getEnv("MYSQL_USER", "coursepulse"),
			Password: getEnv("MYSQL_PASSWORD", "coursepulse"),
			Database: getEnv("MYSQL_DATABASE", "coursepulse"),
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDRESS", "localhost:6379"),
		},
		Kafka: config.KafkaConfigs{
			Addr: getEnv("KAFKA_ADDRESS", "localhost:9092"),
		},
		Classifier: config.ClassifierConfigs{
			URL:     getEnv("CLASSIFIER_URL", "https://api.openai.com"),
			APIKey:  getEnv("CLASSIFIER_API_KEY", ""),
			Model:   getEnv("CLASSIFIER_MODEL", "gpt-4o-mini"),
			Timeout: 30 * time.Second,
		},
		Bookkeeping: config.BookkeepingConfigs{
			Topic:         getEnv("BOOKKEEPING_TOPIC", "cache_usage"),
			FlushInterval: 10 * time.Second,
			EvictAfter:    90 * 24 * time.Hour,
			EvictInterval: time.Hour,
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := config.LoadFile(path, &s.configs); err != nil {
			panic(err)
		}
	}
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "dev" || s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRedis(ctx context.Context) {
	redisClient, err := xredis.NewClient(ctx)
	if err != nil {
		s.logger.Warnf("Cannot connect to redis, leaderboard is disabled: %v", err)
		return
	}

	s.redisClient = redisClient
}

func (s *srv) loadPublisher() {
	publisher, err := kafka.NewPublisher("coursepulse-srv", []string{s.configs.Kafka.Addr})
	if err != nil {
		s.logger.Warnf("Cannot connect to kafka, cache bookkeeping falls back to direct writes: %v", err)
		return
	}

	s.publisher = publisher
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.feedbackRepo = repository.NewFeedbackRepository()
	s.analysisRepo = repository.NewFeedbackAnalysisRepository()
	s.cacheRepo = repository.NewClassificationCacheRepository()
	s.pointRepo = repository.NewPointLedgerRepository()
}

func (s *srv) loadDomains() {
	leaderboard := scoring.NewLeaderboard(s.redisClient)

	s.classifierDomain = scoring.NewClassifier(
		s.cacheRepo, classifier.New(s.configs.Classifier), s.publisher)
	s.analyzerDomain = scoring.NewAnalyzer(s.analysisRepo, s.classifierDomain)
	s.ledgerDomain = scoring.NewLedger(s.pointRepo, s.analysisRepo, leaderboard)
	s.referralDomain = scoring.NewReferral(s.pointRepo, s.userRepo, s.ledgerDomain)
	s.scoringService = scoring.NewService(
		s.feedbackRepo, s.analysisRepo, s.cacheRepo,
		s.analyzerDomain, s.ledgerDomain, s.referralDomain)
	s.worker = scoring.NewBookkeepingWorker(s.cacheRepo)
}

func (s *srv) newContext(ctx context.Context) context.Context {
	ctx = xcontext.WithConfigs(ctx, s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	ctx = xcontext.WithDB(ctx, s.db)
	ctx = xcontext.WithHTTPClient(ctx, &http.Client{Timeout: s.configs.Classifier.Timeout})
	return ctx
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}
