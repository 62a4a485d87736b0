package personalize

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashviews/dashviews-cli/pkg/models"
)

type harness struct {
	remote    *fakeRemote
	coll      *Collection
	host      *fakeHost
	dashboard *DashboardState
	changes   []ViewChange
	wf        *Workflow
}

func newHarness(t *testing.T, names ...string) *harness {
	t.Helper()
	h := &harness{
		remote: newFakeRemote(names...),
		host:   &fakeHost{},
	}
	h.coll = loadCollection(t, h.remote)
	h.dashboard = NewDashboardState("Sprint", h.coll)
	h.dashboard.OnChange = func(c ViewChange) {
		h.changes = append(h.changes, c)
	}
	h.wf = NewWorkflow(Deps{
		Collection: h.coll,
		Remote:     h.remote,
		Host:       h.host,
		Dashboard:  h.dashboard,
		CachedGroups: []models.PipelineGroup{
			{Name: "payments", Pipelines: []string{"build", "deploy"}},
		},
	})
	return h
}

func (h *harness) start(t *testing.T, existing string) {
	t.Helper()
	cmd, err := h.wf.Start(existing)
	require.NoError(t, err)
	Drive(h.wf, cmd)
	require.Equal(t, PhaseEditing, h.wf.Phase())
}

func (h *harness) editor() *fakeModal {
	return h.host.modals[0]
}

func TestWorkflow_SaveNewView(t *testing.T) {
	for _, name := range []string{"Sprint 42", "ops", "Release train", "ü-view"} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, "Default")
			h.start(t, "")
			assert.Equal(t, "Create new view", h.editor().dialog.Title)

			h.wf.Edit(func(s *EditorState) { s.SetName(name) })
			Drive(h.wf, h.wf.Save())

			assert.Equal(t, PhaseSaved, h.wf.Phase())
			assert.Contains(t, h.coll.Names(), name)
			assert.Equal(t, 1, h.remote.saves)
			assert.Equal(t, name, h.dashboard.CurrentView)
			assert.Equal(t, h.coll.Token(), h.dashboard.Checksum)
			assert.Len(t, h.changes, 1)
			assert.Empty(t, h.host.visible())
		})
	}
}

func TestWorkflow_SaveDuplicateName(t *testing.T) {
	h := newHarness(t, "Default", "Sprint")
	h.start(t, "")

	h.wf.Edit(func(s *EditorState) { s.SetName("Sprint") })
	cmd := h.wf.Save()

	assert.Nil(t, cmd)
	assert.Equal(t, PhaseEditing, h.wf.Phase())
	assert.Equal(t, MsgNameDuplicate, h.wf.State().ValidationError)
	assert.Equal(t, 0, h.remote.saves)

	save, ok := h.editor().dialog.Button(ActionSave)
	require.True(t, ok)
	assert.True(t, save.Disabled)
	assert.Equal(t, MsgNameDuplicate, save.Tooltip)

	h.wf.Edit(func(s *EditorState) { s.SetName("Sprint 2") })
	save, _ = h.editor().dialog.Button(ActionSave)
	assert.False(t, save.Disabled, "editing clears the validation error")
}

func TestWorkflow_EditKeepsOwnName(t *testing.T) {
	h := newHarness(t, "Default", "Sprint")
	h.start(t, "Sprint")

	h.wf.Edit(func(s *EditorState) { s.ToggleGroup("payments") })
	Drive(h.wf, h.wf.Save())

	assert.Equal(t, PhaseSaved, h.wf.Phase())
	assert.Empty(t, h.wf.State().ValidationError)
	assert.Equal(t, []string{"Default", "Sprint"}, h.coll.Names())

	v, ok := h.coll.Find("Sprint")
	require.True(t, ok)
	assert.Equal(t, []string{"payments"}, v.PipelineGroups)
}

func TestWorkflow_RenameReplacesInPlace(t *testing.T) {
	h := newHarness(t, "Default", "Sprint", "Ops")
	h.start(t, "Sprint")

	h.wf.Edit(func(s *EditorState) { s.SetName("Sprint 43") })
	Drive(h.wf, h.wf.Save())

	assert.Equal(t, []string{"Default", "Sprint 43", "Ops"}, h.coll.Names())
	assert.Equal(t, "Sprint 43", h.dashboard.CurrentView)
}

func TestWorkflow_DraftNameDefaultWhileEditingSprint(t *testing.T) {
	h := newHarness(t, "Default", "Sprint")
	h.start(t, "Sprint")

	h.wf.Edit(func(s *EditorState) { s.SetName("Default") })
	assert.Nil(t, h.wf.Save())

	assert.Equal(t, MsgNameDuplicate, h.wf.State().ValidationError)
	assert.Equal(t, 0, h.remote.saves)
}

func TestWorkflow_SaveRemoteFailure(t *testing.T) {
	h := newHarness(t, "Default")
	h.remote.fail = remoteFailure{reason: "Save rejected by server"}
	h.start(t, "")

	h.wf.Edit(func(s *EditorState) { s.SetName("Sprint") })
	Drive(h.wf, h.wf.Save())

	assert.Equal(t, PhaseEditing, h.wf.Phase())
	assert.Equal(t, "Save rejected by server", h.wf.State().RemoteError)
	assert.False(t, h.wf.State().Busy)
	assert.Equal(t, []string{"Default"}, h.coll.Names())
	assert.Empty(t, h.changes)
	assert.False(t, h.editor().closed)

	h.remote.fail = nil
	cmd := h.wf.Save()
	assert.Empty(t, h.wf.State().RemoteError, "a new attempt clears the remote error")
	Drive(h.wf, cmd)
	assert.Equal(t, PhaseSaved, h.wf.Phase())
}

func TestWorkflow_SaveConflictReloadsCollection(t *testing.T) {
	h := newHarness(t, "Default")
	h.start(t, "")
	h.remote.bump()

	h.wf.Edit(func(s *EditorState) { s.SetName("Sprint") })
	Drive(h.wf, h.wf.Save())

	assert.Equal(t, PhaseEditing, h.wf.Phase())
	assert.NotEmpty(t, h.wf.State().RemoteError)
	assert.Equal(t, 2, h.remote.loads, "conflict triggers one reload")
	assert.Equal(t, 1, h.remote.saves)

	Drive(h.wf, h.wf.Save())
	assert.Equal(t, PhaseSaved, h.wf.Phase())
	assert.Equal(t, 2, h.remote.saves)
}

func TestWorkflow_SaveWhileBusyIsNoop(t *testing.T) {
	h := newHarness(t, "Default")
	h.start(t, "")
	h.wf.Edit(func(s *EditorState) { s.SetName("Sprint") })

	first := h.wf.Save()
	require.NotNil(t, first)
	assert.True(t, h.wf.State().Busy)
	assert.Equal(t, PhaseSaving, h.wf.Phase())

	assert.Nil(t, h.wf.Save())
	assert.Nil(t, h.wf.Trigger(ActionSave))

	save, _ := h.editor().dialog.Button(ActionSave)
	assert.True(t, save.Disabled)

	Drive(h.wf, first)
	assert.Equal(t, 1, h.remote.saves)
	assert.Equal(t, PhaseSaved, h.wf.Phase())
}

func TestWorkflow_DeleteNeedsTwoViews(t *testing.T) {
	h := newHarness(t, "Default")
	h.start(t, "Default")

	assert.False(t, h.wf.DeleteAllowed())
	del, ok := h.editor().dialog.Button(ActionDelete)
	require.True(t, ok)
	assert.True(t, del.Disabled)
	assert.Equal(t, LastViewTooltip, del.Tooltip)

	h.wf.RequestDelete()
	assert.Equal(t, PhaseEditing, h.wf.Phase())
	assert.Nil(t, h.wf.ConfirmDelete())
	assert.Len(t, h.host.modals, 1)
	assert.Equal(t, 0, h.remote.saves)
}

func TestWorkflow_CreateHasNoDelete(t *testing.T) {
	h := newHarness(t, "Default", "Sprint")
	h.start(t, "")

	_, ok := h.editor().dialog.Button(ActionDelete)
	assert.False(t, ok)
	assert.False(t, h.wf.DeleteAllowed())
}

func TestWorkflow_DeleteSucceeds(t *testing.T) {
	h := newHarness(t, "Default", "Sprint")
	h.start(t, "Sprint")

	h.wf.Trigger(ActionDelete)
	require.Equal(t, PhaseConfirmingDelete, h.wf.Phase())
	confirm := h.host.top()
	assert.Equal(t, "Delete View", confirm.dialog.Title)
	assert.Equal(t, "Do you want to delete view Sprint?", confirm.dialog.Body.Text())

	Drive(h.wf, h.wf.Trigger(ActionConfirmDelete))

	assert.Equal(t, PhaseDeleted, h.wf.Phase())
	assert.Equal(t, []string{"Default"}, h.coll.Names())
	assert.Equal(t, models.DefaultViewName, h.dashboard.CurrentView)
	assert.NotContains(t, h.dashboard.Names, "Sprint")
	assert.Equal(t, 1, h.host.closeAlls)
	assert.Empty(t, h.host.visible())
}

func TestWorkflow_DeleteInFlightDisablesConfirmation(t *testing.T) {
	h := newHarness(t, "Default", "Sprint")
	h.start(t, "Sprint")
	h.wf.RequestDelete()

	cmd := h.wf.ConfirmDelete()
	require.NotNil(t, cmd)
	assert.Equal(t, PhaseDeleting, h.wf.Phase())

	yes, _ := h.host.top().dialog.Button(ActionConfirmDelete)
	no, _ := h.host.top().dialog.Button(ActionCancelDelete)
	assert.True(t, yes.Disabled)
	assert.True(t, no.Disabled)
	assert.Nil(t, h.wf.ConfirmDelete())

	Drive(h.wf, cmd)
	assert.Equal(t, 1, h.remote.saves)
}

func TestWorkflow_DeleteFails(t *testing.T) {
	h := newHarness(t, "Default", "Sprint")
	before := h.coll.Personalization()
	h.remote.fail = remoteFailure{reason: "Pipeline selection is locked"}
	h.start(t, "Sprint")

	h.wf.RequestDelete()
	confirm := h.host.top()
	Drive(h.wf, h.wf.ConfirmDelete())

	assert.Equal(t, PhaseDeleteFailed, h.wf.Phase())
	assert.Equal(t, before, h.coll.Personalization())
	assert.Equal(t, 1, h.remote.saves, "no automatic retry")
	assert.Empty(t, h.changes)

	assert.Same(t, confirm, h.host.top(), "the confirmation is replaced in place")
	assert.Equal(t, "Failed to delete view Sprint: Pipeline selection is locked", confirm.dialog.Body.Text())
	require.Len(t, confirm.dialog.Buttons, 1)
	assert.Equal(t, "Close", confirm.dialog.Buttons[0].Label)

	// the editor is not restored
	assert.Nil(t, h.wf.Save())
	h.wf.Trigger(ActionDismiss)
	assert.Empty(t, h.host.visible())
	assert.Equal(t, PhaseDeleteFailed, h.wf.Phase())
}

func TestWorkflow_CancelDeleteReturnsToEditor(t *testing.T) {
	h := newHarness(t, "Default", "Sprint")
	h.start(t, "Sprint")

	h.wf.RequestDelete()
	confirm := h.host.top()
	h.wf.Trigger(ActionCancelDelete)

	assert.Equal(t, PhaseEditing, h.wf.Phase())
	assert.True(t, confirm.closed)
	assert.False(t, h.editor().closed)
}

func TestWorkflow_DeleteEligibilityIsLive(t *testing.T) {
	h := newHarness(t, "Default", "Sprint")
	h.start(t, "Sprint")

	del, _ := h.editor().dialog.Button(ActionDelete)
	assert.False(t, del.Disabled)

	// another client removed Default while the dialog was open
	h.coll.Reset(models.Personalization{
		Filters:     []models.View{{Name: "Sprint", Type: models.ViewTypeExclude}},
		ContentHash: "other",
	})
	h.wf.Refresh()

	del, _ = h.editor().dialog.Button(ActionDelete)
	assert.True(t, del.Disabled)
	h.wf.RequestDelete()
	assert.Equal(t, PhaseEditing, h.wf.Phase())
}

func TestWorkflow_StartThenCancelLeavesCollectionUnchanged(t *testing.T) {
	h := newHarness(t, "Default", "Sprint")
	before := h.coll.Personalization()

	h.start(t, "Sprint")
	h.wf.Edit(func(s *EditorState) {
		s.SetName("Changed")
		s.ToggleGroup("payments")
	})
	h.wf.Trigger(ActionCancel)

	assert.Equal(t, PhaseCancelled, h.wf.Phase())
	assert.Equal(t, before, h.coll.Personalization())
	assert.Equal(t, 0, h.remote.saves)
	assert.Empty(t, h.host.visible())
}

func TestWorkflow_AbandonIgnoresLateResult(t *testing.T) {
	h := newHarness(t, "Default")
	h.start(t, "")
	h.wf.Edit(func(s *EditorState) { s.SetName("Sprint") })

	cmd := h.wf.Save()
	h.wf.Abandon()
	assert.Empty(t, h.host.visible())

	msg := cmd()
	assert.Nil(t, h.wf.Update(msg))

	assert.Equal(t, PhaseAbandoned, h.wf.Phase())
	assert.Equal(t, []string{"Default"}, h.coll.Names())
	assert.Empty(t, h.changes)
}

func TestWorkflow_IgnoresOtherSessions(t *testing.T) {
	h := newHarness(t, "Default")
	h.start(t, "")
	h.wf.Edit(func(s *EditorState) { s.SetName("Sprint") })
	h.wf.Save()

	other := NewWorkflow(Deps{})
	h.wf.Update(SaveResultMsg{Session: other.ID(), Err: errors.New("boom")})

	assert.Equal(t, PhaseSaving, h.wf.Phase())
	assert.Empty(t, h.wf.State().RemoteError)
}

func TestWorkflow_GroupsRefresh(t *testing.T) {
	fresh := []models.PipelineGroup{{Name: "payments"}, {Name: "search"}}

	tests := []struct {
		name   string
		source fakeGroups
		want   []string
	}{
		{name: "replaces cached groups", source: fakeGroups{groups: fresh}, want: []string{"payments", "search"}},
		{name: "keeps cached groups on failure", source: fakeGroups{err: errors.New("offline")}, want: []string{"payments"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "Default")
			h.wf = NewWorkflow(Deps{
				Collection:   h.coll,
				Remote:       h.remote,
				Groups:       tt.source,
				CachedGroups: []models.PipelineGroup{{Name: "payments"}},
				Host:         h.host,
			})

			cmd, err := h.wf.Start("")
			require.NoError(t, err)
			require.NotNil(t, cmd)
			assert.Len(t, h.wf.State().Groups, 1, "editor is usable before the refresh completes")

			Drive(h.wf, cmd)

			var got []string
			for _, g := range h.wf.State().Groups {
				got = append(got, g.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkflow_StartErrors(t *testing.T) {
	h := newHarness(t, "Default")

	_, err := h.wf.Start("Missing")
	assert.ErrorIs(t, err, ErrUnknownView)

	_, err = NewWorkflow(Deps{}).Start("")
	assert.Error(t, err)

	h.start(t, "")
	_, err = h.wf.Start("")
	assert.Error(t, err)
}

func TestDrive_RunsBatches(t *testing.T) {
	h := newHarness(t, "Default")
	h.start(t, "")
	h.wf.Edit(func(s *EditorState) { s.SetName("Sprint") })

	Drive(h.wf, tea.Batch(h.wf.Save(), nil, func() tea.Msg { return nil }))

	assert.Equal(t, PhaseSaved, h.wf.Phase())
}

func TestPhase_Terminal(t *testing.T) {
	terminal := map[Phase]bool{
		PhaseIdle: false, PhaseEditing: false, PhaseSaving: false, PhaseConfirmingDelete: false,
		PhaseDeleting: false, PhaseSaved: true, PhaseDeleted: true, PhaseDeleteFailed: true,
		PhaseCancelled: true, PhaseAbandoned: true,
	}
	for p, want := range terminal {
		assert.Equal(t, want, p.Terminal(), p.String())
	}
}
