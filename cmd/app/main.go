package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/0x0FACED/fortune-lloyd/pkg/cache"
	"github.com/0x0FACED/fortune-lloyd/pkg/config"
	"github.com/0x0FACED/fortune-lloyd/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Level: cfg.LogLevel, Console: true})
	defer log.Sync()

	rc := cache.New(cfg.Redis, log)
	defer rc.Close()
	if rc == nil {
		log.Info("[app] Кэш отключен, REDIS_HOST не задан")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newServer(cfg, rc, log).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("[app] Сервер запущен", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("[app] Err ListenAndServe", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("[app] Ошибка остановки сервера", zap.Error(err))
	}
}
