package store

import (
	"time"

	"github.com/talkincode/storefront/internal/domain"
)

// ContactMessages returns messages newest first.
func (s *Store) ContactMessages() []domain.ContactMessage {
	var out []domain.ContactMessage
	s.read(func() { out = cloneSlice(s.contactMessages) })
	return out
}

func (s *Store) ContactMessage(id string) (domain.ContactMessage, bool) {
	var (
		out   domain.ContactMessage
		found bool
	)
	s.read(func() {
		if idx := s.messageIndex(id); idx >= 0 {
			out, found = s.contactMessages[idx], true
		}
	})
	return out, found
}

func (s *Store) messageIndex(id string) int {
	return indexWhere(s.contactMessages, func(m domain.ContactMessage) bool { return m.ID == id })
}

// AddContactMessage stores m as a new message at the head of the list and
// derives its notification in the same commit.
func (s *Store) AddContactMessage(m domain.ContactMessage) domain.ContactMessage {
	s.write(func(tx *txn) {
		m.ID = s.ids.NextID()
		m.Status = domain.MessageStatusNew
		if m.Date == "" {
			m.Date = s.now().UTC().Format(time.RFC3339)
		}
		next := make([]domain.ContactMessage, 0, len(s.contactMessages)+1)
		next = append(next, m)
		s.contactMessages = append(next, s.contactMessages...)
		tx.save(domain.KeyContactMessages, s.contactMessages)
		s.reconcileLocked(tx)
	})
	return m
}

// UpdateContactMessage merges patch into the message. An unknown status
// in the patch is ignored.
func (s *Store) UpdateContactMessage(id string, patch Patch) (domain.ContactMessage, bool) {
	var (
		out   domain.ContactMessage
		found bool
	)
	s.write(func(tx *txn) {
		idx := s.messageIndex(id)
		if idx < 0 {
			return
		}
		prev := s.contactMessages[idx]
		merged, err := mergeEntity(prev, patch)
		if err != nil {
			out, found = prev, true
			return
		}
		merged.ID = id
		if !domain.ValidMessageStatus(merged.Status) {
			merged.Status = prev.Status
		}
		next := cloneSlice(s.contactMessages)
		next[idx] = merged
		s.contactMessages = next
		tx.save(domain.KeyContactMessages, next)
		s.reconcileLocked(tx)
		out, found = merged, true
	})
	return out, found
}

// SetContactMessageStatus moves a message to status. It returns false for
// an unknown id or status.
func (s *Store) SetContactMessageStatus(id, status string) bool {
	if !domain.ValidMessageStatus(status) {
		return false
	}
	_, found := s.UpdateContactMessage(id, Patch{"status": status})
	return found
}

func (s *Store) RemoveContactMessage(id string) bool {
	found := false
	s.write(func(tx *txn) {
		idx := s.messageIndex(id)
		if idx < 0 {
			return
		}
		s.contactMessages = without(s.contactMessages, idx)
		tx.save(domain.KeyContactMessages, s.contactMessages)
		s.reconcileLocked(tx)
		found = true
	})
	return found
}

// UnreadMessageCount counts messages still in the new status.
func (s *Store) UnreadMessageCount() int {
	n := 0
	s.read(func() {
		for _, m := range s.contactMessages {
			if m.Status == domain.MessageStatusNew {
				n++
			}
		}
	})
	return n
}
