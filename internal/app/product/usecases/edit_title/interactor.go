package edit_title

import (
	"go.uber.org/zap"

	"github.com/light-bringer/procat-editor/internal/app/product/domain"
	"github.com/light-bringer/procat-editor/internal/app/product/session"
)

// Request contains the edit to apply. A non-zero ID addresses the record by
// identity; otherwise Index addresses it by position.
type Request struct {
	Index int
	ID    domain.RecordID
	Title string
}

// Response reports the session after the edit.
type Response struct {
	ID           domain.RecordID
	Index        int
	RecordDirty  bool
	SessionDirty bool
}

// Interactor handles the edit title use case.
type Interactor struct {
	editor *session.Editor
	logger *zap.Logger
}

// NewInteractor creates a new edit title interactor.
func NewInteractor(editor *session.Editor, logger *zap.Logger) *Interactor {
	return &Interactor{editor: editor, logger: logger}
}

// Execute replaces the working title of one record.
func (i *Interactor) Execute(req *Request) (*Response, error) {
	var (
		edit session.Edit
		err  error
	)
	if !req.ID.IsZero() {
		edit, err = i.editor.EditTitleByID(req.ID, req.Title)
	} else {
		edit, err = i.editor.EditTitle(req.Index, req.Title)
	}
	if err != nil {
		return nil, err
	}

	i.logger.Debug("title edited",
		zap.Stringer("id", edit.ID),
		zap.Int("index", edit.Index),
		zap.Bool("record_dirty", edit.RecordDirty),
		zap.Bool("session_dirty", edit.SessionDirty),
	)
	return &Response{
		ID:           edit.ID,
		Index:        edit.Index,
		RecordDirty:  edit.RecordDirty,
		SessionDirty: edit.SessionDirty,
	}, nil
}
