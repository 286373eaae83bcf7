package app

import (
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/domain"
)

// checkDefaults persists the default value of every key the backend does
// not hold yet, so a fresh database carries the full document set.
func (a *Application) checkDefaults() {
	if a.store.ReadOnly() {
		zap.L().Warn("store is read-only, skipping default seeding")
		return
	}
	var missing []string
	for _, key := range domain.Keys {
		_, ok, err := a.backend.Get(key)
		if err != nil {
			zap.L().Error("failed to query persisted key", zap.String("key", key), zap.Error(err))
			continue
		}
		if !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return
	}
	a.store.Persist(missing...)
	zap.L().Info("initialized default store keys", zap.Strings("keys", missing))
}

// checkNotifications derives notifications for messages and results that
// were written by another process while this one was down.
func (a *Application) checkNotifications() {
	if n := a.store.ReconcileNotifications(); n > 0 {
		zap.L().Info("derived pending notifications", zap.Int("count", n))
	}
}
