package get_session

import (
	"github.com/light-bringer/procat-editor/internal/app/product/session"
	"github.com/light-bringer/procat-editor/internal/pkg/notify"
)

// Response is what a shell needs to render the page.
type Response struct {
	State         session.State
	Notifications []notify.Notification
}

// Query handles the get session query.
type Query struct {
	editor   *session.Editor
	notifier *notify.Queue
}

// NewQuery creates a new get session query.
func NewQuery(editor *session.Editor, notifier *notify.Queue) *Query {
	return &Query{editor: editor, notifier: notifier}
}

// Execute returns the session state and the active notifications.
func (q *Query) Execute() *Response {
	return &Response{
		State:         q.editor.Snapshot(),
		Notifications: q.notifier.Active(),
	}
}
