package app

import (
	"context"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/talkincode/storefront/config"
	"github.com/talkincode/storefront/internal/imaging"
	"github.com/talkincode/storefront/internal/kvstore"
	"github.com/talkincode/storefront/internal/store"
	"github.com/talkincode/storefront/pkg/metrics"
)

type Application struct {
	appConfig  *config.AppConfig
	backend    kvstore.Backend
	compressor *imaging.Compressor
	store      *store.Store
	sched      *cron.Cron
}

// Ensure Application implements all interfaces
var (
	_ StoreProvider     = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Store() *store.Store {
	return a.store
}

func (a *Application) Backend() kvstore.Backend {
	return a.backend
}

// OverrideBackend replaces the persistence backend before Init (used in
// tests).
func (a *Application) OverrideBackend(b kvstore.Backend) {
	a.backend = b
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

func (a *Application) Init(cfg *config.AppConfig) error {
	a.appConfig = cfg
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	if err := cfg.InitDirs(); err != nil {
		return err
	}
	initLogger(cfg)

	err = metrics.InitMetrics(cfg.System.Workdir)
	if err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	if a.backend == nil {
		a.backend, err = kvstore.Open(cfg)
		if err != nil {
			return errors.Wrap(err, "open backend")
		}
	}
	zap.S().Infof("Storage backend ready, type: %s", cfg.Database.Type)

	a.compressor, err = imaging.NewCompressor(imaging.Options{
		MaxDimension: cfg.Store.ImageMaxDimension,
		Quality:      cfg.Store.ImageQuality,
		MaxPixels:    cfg.Store.ImageMaxPixels,
		Workers:      cfg.Store.CompressWorkers,
	})
	if err != nil {
		return errors.Wrap(err, "image compressor")
	}

	a.store = store.New(a.backend,
		store.WithMaxNotifications(cfg.Store.MaxNotifications),
		store.WithCompressor(a.compressor),
	)
	if err := a.store.Load(context.Background()); err != nil {
		return errors.Wrap(err, "load store")
	}
	_ = a.store.Subscribe(store.TopicPersistFailed, a.onPersistFailed)

	a.checkDefaults()
	a.checkNotifications()

	a.initJob()
	return nil
}

func initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

func (a *Application) onPersistFailed(f store.PersistFailure) {
	if kvstore.IsQuotaExceeded(f.Err) {
		metrics.IncCounter("store_quota_exceeded")
	}
}

// InitDb restores every store key to its default.
func (a *Application) InitDb() {
	a.store.Reset()
	zap.L().Info("store reset to defaults")
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.store != nil {
		a.store.Close()
	}
	if a.compressor != nil {
		a.compressor.Release()
	}
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			zap.L().Warn("close backend", zap.Error(err))
		}
	}

	_ = metrics.Close()
	_ = zap.L().Sync()
}
