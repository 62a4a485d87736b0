package personalize

import "fmt"

// Action is what a dialog button asks the workflow to do
type Action int

const (
	ActionNone Action = iota
	ActionSave
	ActionCancel
	ActionDelete
	ActionConfirmDelete
	ActionCancelDelete
	ActionDismiss
)

func (a Action) String() string {
	switch a {
	case ActionSave:
		return "save"
	case ActionCancel:
		return "cancel"
	case ActionDelete:
		return "delete"
	case ActionConfirmDelete:
		return "confirm-delete"
	case ActionCancelDelete:
		return "cancel-delete"
	case ActionDismiss:
		return "dismiss"
	default:
		return "none"
	}
}

// Dialog sizes
const (
	SizeEditor     = "personalize-editor"
	SizeDeleteView = "delete-view"
)

// LastViewTooltip explains why Delete View is disabled
const LastViewTooltip = "Cannot delete the last view. You must have at least one."

// Button describes one dialog action
type Button struct {
	Label    string
	Action   Action
	Disabled bool
	Tooltip  string
}

// BodyKind selects what a dialog body shows
type BodyKind int

const (
	BodyEditor BodyKind = iota
	BodyDeleteConfirm
	BodyDeleteError
)

// Body describes dialog content. For BodyEditor, State points at the live
// editor state; hosts read it and change it only through Workflow.Edit.
type Body struct {
	Kind     BodyKind
	ViewName string
	Reason   string
	State    *EditorState
}

// Text renders non-editor bodies as a sentence
func (b Body) Text() string {
	switch b.Kind {
	case BodyDeleteConfirm:
		return fmt.Sprintf("Do you want to delete view %s?", b.ViewName)
	case BodyDeleteError:
		return fmt.Sprintf("Failed to delete view %s: %s", b.ViewName, b.Reason)
	default:
		return ""
	}
}

// Dialog is a modal surface the workflow asks a host to present
type Dialog struct {
	Title   string
	Size    string
	Body    Body
	Buttons []Button
}

// Button returns the button bound to an action
func (d Dialog) Button(a Action) (Button, bool) {
	for _, b := range d.Buttons {
		if b.Action == a {
			return b, true
		}
	}
	return Button{}, false
}

// Modal is a handle to one presented dialog
type Modal interface {
	// Render replaces the dialog's content in place
	Render(d Dialog)
	// Close dismisses the dialog; closing twice is harmless
	Close()
}

// DialogHost presents modal dialogs, one on top of another
type DialogHost interface {
	Open(d Dialog) Modal
	CloseAll()
}
