package personalize

import (
	"context"
	"fmt"
	"sync"

	"github.com/dashviews/dashviews-cli/pkg/models"
)

type remoteFailure struct {
	reason   string
	conflict bool
}

func (e remoteFailure) Error() string  { return "remote: " + e.reason }
func (e remoteFailure) Reason() string { return e.reason }
func (e remoteFailure) Conflict() bool { return e.conflict }

// fakeRemote is an in-memory filter store that enforces the content hash
type fakeRemote struct {
	mu      sync.Mutex
	views   []models.View
	version int
	saves   int
	loads   int
	fail    error
}

func newFakeRemote(names ...string) *fakeRemote {
	r := &fakeRemote{version: 1}
	for _, n := range names {
		r.views = append(r.views, models.View{Name: n, Type: models.ViewTypeExclude, PipelineGroups: []string{}})
	}
	return r
}

func (r *fakeRemote) token() string {
	return fmt.Sprintf("hash-%d", r.version)
}

func (r *fakeRemote) Load(ctx context.Context) (models.Personalization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	return models.Personalization{Filters: cloneViews(r.views), ContentHash: r.token()}, nil
}

func (r *fakeRemote) Save(ctx context.Context, views []models.View, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.fail != nil {
		return "", r.fail
	}
	if token != r.token() {
		return "", remoteFailure{reason: "Someone else changed the views. Reload and try again.", conflict: true}
	}
	r.views = cloneViews(views)
	r.version++
	return r.token(), nil
}

// bump simulates a change made by another client
func (r *fakeRemote) bump() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.version++
}

type fakeGroups struct {
	groups []models.PipelineGroup
	err    error
}

func (g fakeGroups) PipelineGroups(ctx context.Context) ([]models.PipelineGroup, error) {
	return g.groups, g.err
}

type fakeModal struct {
	dialog  Dialog
	renders int
	closed  bool
}

func (m *fakeModal) Render(d Dialog) {
	m.dialog = d
	m.renders++
}

func (m *fakeModal) Close() {
	m.closed = true
}

type fakeHost struct {
	modals    []*fakeModal
	closeAlls int
}

func (h *fakeHost) Open(d Dialog) Modal {
	m := &fakeModal{dialog: d}
	h.modals = append(h.modals, m)
	return m
}

func (h *fakeHost) CloseAll() {
	h.closeAlls++
	for _, m := range h.modals {
		m.closed = true
	}
}

func (h *fakeHost) visible() []*fakeModal {
	var out []*fakeModal
	for _, m := range h.modals {
		if !m.closed {
			out = append(out, m)
		}
	}
	return out
}

func (h *fakeHost) top() *fakeModal {
	v := h.visible()
	if len(v) == 0 {
		return nil
	}
	return v[len(v)-1]
}
