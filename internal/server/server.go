package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"verusTicker/internal/engine"
	"verusTicker/internal/format"
	"verusTicker/internal/health"
	"verusTicker/internal/model"
	"verusTicker/internal/supply"
)

// Server exposes the ticker engine over HTTP. Cached endpoints never touch
// the daemon; the _live variants force a refresh before rendering.
type Server struct {
	engine   *engine.Engine
	reporter *health.Reporter
	supplies *supply.Reporter
	logger   *zap.Logger
	httpSrv  *http.Server
}

func New(addr string, eng *engine.Engine, reporter *health.Reporter, supplies *supply.Reporter, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		engine:   eng,
		reporter: reporter,
		supplies: supplies,
		logger:   logger,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))

	router.GET("/coingecko", s.cachedHandler(format.KindCoinGecko))
	router.GET("/coinmarketcap", s.cachedHandler(format.KindCoinMarketCap))
	router.GET("/coinmarketcap_iaddress", s.cachedHandler(format.KindCMCIAddress))
	router.GET("/coinpaprika", s.cachedHandler(format.KindCoinpaprika))

	router.GET("/coingecko_live", s.liveHandler(format.KindCoinGecko))
	router.GET("/coinmarketcap_live", s.liveHandler(format.KindCoinMarketCap))
	router.GET("/coinmarketcap_iaddress_live", s.liveHandler(format.KindCMCIAddress))
	router.GET("/coinpaprika_live", s.liveHandler(format.KindCoinpaprika))

	router.GET("/verussupply", s.supplyHandler)
	router.GET("/health", s.healthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/cache/invalidate", s.invalidateHandler)

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) cachedHandler(kind format.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		shape, err := s.engine.ReadCached(kind)
		if err != nil {
			if errors.Is(err, model.ErrNoSnapshot) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cache is empty, first refresh pending"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, shape)
	}
}

func (s *Server) liveHandler(kind format.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		shape, err := s.engine.ReadLive(c.Request.Context(), kind)
		if err != nil {
			// A forced refresh has no cached fallback to hide behind.
			status := http.StatusBadGateway
			if errors.Is(err, model.ErrSourceTimeout) {
				status = http.StatusGatewayTimeout
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, shape)
	}
}

func (s *Server) supplyHandler(c *gin.Context) {
	report, err := s.supplies.Report(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.reporter.Report(c.Request.Context()))
}

func (s *Server) invalidateHandler(c *gin.Context) {
	s.engine.Store().Invalidate()
	c.JSON(http.StatusOK, gin.H{"status": "cache invalidated"})
}
