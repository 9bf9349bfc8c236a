package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hellosleep/internal/cache"
	"hellosleep/internal/catalog"
	"hellosleep/internal/provider"
	"hellosleep/internal/repository"
	"hellosleep/internal/service"
	"hellosleep/internal/transport/rest"
	"hellosleep/internal/transport/ws"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := catalog.Validate().Err(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	maxAge, err := cfg.Cache.MaxAge()
	if err != nil {
		return err
	}

	store, err := cache.Open(ctx, cfg.Cache, cfg.Redis)
	if err != nil {
		return fmt.Errorf("open pattern cache: %w", err)
	}
	defer store.Close()

	patterns := cache.NewPatternCache(store, cfg.Cache.HitThreshold, log)
	if err := patterns.Load(ctx); err != nil {
		return fmt.Errorf("load pattern cache: %w", err)
	}
	log.Info("pattern cache ready", zap.String("backend", store.Name()), zap.Int("entries", patterns.Stats().Entries))

	providers, err := provider.NewChain(ctx, cfg.AI, log)
	if errors.Is(err, provider.ErrNoProviders) {
		log.Warn("no AI provider configured, every cache miss uses the fallback")
	} else if err != nil {
		return err
	}
	log.Info("provider chain", zap.Strings("providers", provider.Names(providers)))

	tags := service.NewTagService(catalog.Tags(), log)
	booklets := service.NewBookletService(catalog.Booklets(), catalog.Tags())
	questionnaire := service.NewQuestionnaireService(catalog.Questions())
	authSvc := service.NewAuthService(cfg.Auth)
	recommendSvc := service.NewRecommendationService(patterns, providers, tags, booklets, cfg.AI.Timeout(), cfg.AI.TopFacts, log)

	var content repository.ContentRepo
	if cfg.Mongo.Enabled() {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, db, err := repository.Connect(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database)
		cancel()
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())

		content = repository.NewContentRepo(db)
		if err := content.EnsureIndexes(ctx); err != nil {
			log.Warn("content indexes", zap.Error(err))
		}
		recommendSvc.SetContentStore(content)
		log.Info("content store mirror enabled", zap.String("database", cfg.Mongo.Database))
	}

	wsHub := ws.NewHub(log)
	defer wsHub.Close()
	recommendSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:           authSvc,
		QuestionnaireService:  questionnaire,
		TagService:            tags,
		BookletService:        booklets,
		RecommendationService: recommendSvc,
		Patterns:              patterns,
		Content:               content,
		WSHub:                 wsHub,
		Log:                   log,
		CORSOrigins:           cfg.Server.CORSOrigins,
		NearThreshold:         cfg.Cache.NearThreshold,
		CleanupMaxAge:         maxAge,
		CleanupMinUse:         cfg.Cache.CleanupMinUse,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}
