package domain

// Contact message status values
const (
	MessageStatusNew     = "new"
	MessageStatusRead    = "read"
	MessageStatusReplied = "replied"
)

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	ID      string `json:"id" csv:"id"`
	Name    string `json:"name" csv:"name"`
	Contact string `json:"contact" csv:"contact"`
	Message string `json:"message" csv:"message"`
	Date    string `json:"date" csv:"date"` // ISO-8601
	Status  string `json:"status" csv:"status"`
}

// ValidMessageStatus reports whether s is one of the known statuses.
func ValidMessageStatus(s string) bool {
	switch s {
	case MessageStatusNew, MessageStatusRead, MessageStatusReplied:
		return true
	}
	return false
}

// Notification types
const (
	NotificationTypeMessage = "message"
	NotificationTypeQuiz    = "quiz"
)

// Notification is derived from contact messages and quiz results; callers
// never create one directly.
type Notification struct {
	ID       string `json:"id"`
	Message  string `json:"message"`
	Time     string `json:"time"`
	Read     bool   `json:"read"`
	SourceID string `json:"sourceId"`
	Type     string `json:"type,omitempty"`
}
