package tui

import (
	"github.com/dashviews/dashviews-cli/pkg/models"
)

// StatusMsg sets the status bar text
type StatusMsg string

// viewsLoadedMsg carries a fresh personalization from the remote store
type viewsLoadedMsg struct {
	personalization models.Personalization
	err             error
}

// watchStartedMsg carries the live change event stream
type watchStartedMsg struct {
	events <-chan models.ChangeEvent
	err    error
}

// changeEventMsg is a change published by the server
type changeEventMsg struct {
	event  models.ChangeEvent
	events <-chan models.ChangeEvent
}

// watchClosedMsg reports the end of the change event stream
type watchClosedMsg struct{}

// groupsLoadedMsg carries the assignable pipeline groups
type groupsLoadedMsg struct {
	groups []models.PipelineGroup
	err    error
}
