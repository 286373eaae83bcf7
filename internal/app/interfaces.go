package app

import (
	"io"

	"github.com/robfig/cron/v3"

	"github.com/talkincode/storefront/config"
	"github.com/talkincode/storefront/internal/store"
)

// StoreProvider provides the content store
type StoreProvider interface {
	Store() *store.Store
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	StoreProvider
	ConfigProvider
	SchedulerProvider

	// InitDb restores defaults for every persisted key
	InitDb()
	// Backup writes a consistent copy of the bolt file to backup dir
	Backup() (string, error)
	ExportContactMessages(w io.Writer) error
	ExportQuizResults(w io.Writer) error
}
