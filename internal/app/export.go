package app

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/talkincode/storefront/internal/i18n"
)

// ExportContactMessages writes every contact message as CSV, newest first.
// Status is rendered in the store locale.
func (a *Application) ExportContactMessages(w io.Writer) error {
	dict := i18n.Translations(a.store.Locale())
	rows := a.store.ContactMessages()
	for i := range rows {
		rows[i].Status = dict.T("message.status." + rows[i].Status)
	}
	return errors.Wrap(gocsv.Marshal(rows, w), "export contact messages")
}

// ExportQuizResults writes every quiz result as CSV in submission order.
func (a *Application) ExportQuizResults(w io.Writer) error {
	return errors.Wrap(gocsv.Marshal(a.store.QuizResults(), w), "export quiz results")
}
