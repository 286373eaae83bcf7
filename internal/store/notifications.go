package store

import (
	"sort"
	"time"

	"github.com/araddon/dateparse"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/i18n"
	"github.com/talkincode/storefront/pkg/common"
	"github.com/talkincode/storefront/pkg/metrics"
)

const notificationTimeLayout = "2006-01-02 15:04"

// Notifications returns notifications newest first.
func (s *Store) Notifications() []domain.Notification {
	var out []domain.Notification
	s.read(func() { out = cloneSlice(s.notifications) })
	return out
}

func (s *Store) UnreadNotificationCount() int {
	n := 0
	s.read(func() {
		for _, item := range s.notifications {
			if !item.Read {
				n++
			}
		}
	})
	return n
}

func (s *Store) MarkNotificationAsRead(id string) bool {
	found := false
	s.write(func(tx *txn) {
		idx := indexWhere(s.notifications, func(n domain.Notification) bool { return n.ID == id })
		if idx < 0 {
			return
		}
		next := cloneSlice(s.notifications)
		next[idx].Read = true
		s.notifications = next
		tx.save(domain.KeyNotifications, next)
		found = true
	})
	return found
}

func (s *Store) MarkAllNotificationsAsRead() {
	s.write(func(tx *txn) {
		next := cloneSlice(s.notifications)
		for i := range next {
			next[i].Read = true
		}
		s.notifications = next
		tx.save(domain.KeyNotifications, next)
	})
}

// ClearNotifications empties the list. Sources already notified stay
// recorded, so nothing is derived again.
func (s *Store) ClearNotifications() {
	s.write(func(tx *txn) {
		s.notifications = []domain.Notification{}
		tx.save(domain.KeyNotifications, s.notifications)
	})
}

// ReconcileNotifications derives notifications for any new contact
// message or quiz result not yet notified. Running it again without new
// sources changes nothing.
func (s *Store) ReconcileNotifications() int {
	n := 0
	s.write(func(tx *txn) {
		n = s.reconcileLocked(tx)
	})
	return n
}

// reconcileLocked runs inside every commit that touches contact messages
// or quiz results.
func (s *Store) reconcileLocked(tx *txn) int {
	seen := make(map[string]bool, len(s.notifiedSources)+len(s.notifications))
	for id := range s.notifiedSources {
		seen[id] = true
	}
	for _, n := range s.notifications {
		if n.SourceID != "" {
			seen[n.SourceID] = true
		}
	}

	dict := i18n.Translations(s.locale)
	var fresh []domain.Notification
	for _, m := range s.contactMessages {
		if m.Status != domain.MessageStatusNew || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		fresh = append(fresh, domain.Notification{
			ID:       common.UUID(),
			Message:  dict.T("notification.newMessage", m.Name),
			Time:     displayTime(m.Date),
			SourceID: m.ID,
			Type:     domain.NotificationTypeMessage,
		})
	}
	// results are stored oldest first
	for i := len(s.quizResults) - 1; i >= 0; i-- {
		r := s.quizResults[i]
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		fresh = append(fresh, domain.Notification{
			ID:       common.UUID(),
			Message:  dict.T("notification.quizResult", r.Score, r.Total),
			Time:     displayTime(r.Date),
			SourceID: r.ID,
			Type:     domain.NotificationTypeQuiz,
		})
	}
	if len(fresh) == 0 {
		return 0
	}

	next := make([]domain.Notification, 0, len(fresh)+len(s.notifications))
	next = append(next, fresh...)
	next = append(next, s.notifications...)
	if len(next) > s.maxNotifications {
		next = next[:s.maxNotifications]
	}
	s.notifications = next
	for _, n := range fresh {
		s.notifiedSources[n.SourceID] = struct{}{}
	}
	tx.save(domain.KeyNotifications, next)
	tx.save(domain.KeyNotificationSources, s.sourceList())

	metrics.AddCounter("store_notifications_derived", int64(len(fresh)))
	zap.L().Debug("notifications derived", zap.Int("count", len(fresh)))
	return len(fresh)
}

func (s *Store) sourceList() []string {
	out := make([]string, 0, len(s.notifiedSources))
	for id := range s.notifiedSources {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// displayTime renders an ISO or loosely formatted date for display. An
// unparseable date is shown as stored.
func displayTime(date string) string {
	if date == "" {
		return ""
	}
	t, err := dateparse.ParseAny(date)
	if err != nil {
		return date
	}
	return t.In(time.Local).Format(notificationTimeLayout)
}
