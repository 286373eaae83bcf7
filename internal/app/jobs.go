package app

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/kvstore"
	"github.com/talkincode/storefront/pkg/metrics"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
		go a.SchedProcessMonitorTask()
		go a.SchedStoreStatsTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		go a.SchedBackupTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.SetGauge("system_cpuuse", int64(_cpuuse[0]*100)) // percentage * 100
	}

	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.SetGauge("system_memuse", int64(_meminfo.Used/1024/1024))
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return
	}

	cpuuse, err := p.CPUPercent()
	if err == nil {
		metrics.SetGauge("storefront_cpuuse", int64(cpuuse*100)) // percentage * 100
	}

	meminfo, err := p.MemoryInfo()
	if err == nil {
		metrics.SetGauge("storefront_memuse", int64(meminfo.RSS/1024/1024))
	}
}

// SchedStoreStatsTask samples collection sizes
func (a *Application) SchedStoreStatsTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	s := a.store
	metrics.SetGauge("store_products", int64(len(s.Products())))
	metrics.SetGauge("store_messages_unread", int64(s.UnreadMessageCount()))
	metrics.SetGauge("store_notifications_unread", int64(s.UnreadNotificationCount()))
	metrics.SetGauge("store_quiz_results", int64(len(s.QuizResults())))
}

// SchedBackupTask daily bolt backup
func (a *Application) SchedBackupTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	file, err := a.Backup()
	if err != nil {
		zap.L().Error("store backup failed", zap.Error(err))
		return
	}
	zap.L().Info("store backup written", zap.String("file", file))
}

// ErrBackupUnsupported is returned by Backup for non-bolt backends.
var ErrBackupUnsupported = errors.New("backup is only supported for the bolt backend")

// Backup writes a copy of the bolt database to the backup directory.
func (a *Application) Backup() (string, error) {
	bb, ok := a.backend.(*kvstore.BoltBackend)
	if !ok {
		return "", ErrBackupUnsupported
	}
	keep := a.appConfig.Store.BackupKeep
	if keep <= 0 {
		keep = 7
	}
	return bb.BackupFile(a.appConfig.GetBackupDir(), keep)
}
