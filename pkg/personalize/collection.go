package personalize

import (
	"context"
	"fmt"

	"github.com/dashviews/dashviews-cli/pkg/models"
)

// Remote is the filter store the collection synchronizes with. Save replaces
// the whole view list and must be given the content hash the list was read
// with; it returns the new content hash.
type Remote interface {
	Load(ctx context.Context) (models.Personalization, error)
	Save(ctx context.Context, views []models.View, token string) (string, error)
}

// GroupSource supplies the pipeline groups a view can be assigned
type GroupSource interface {
	PipelineGroups(ctx context.Context) ([]models.PipelineGroup, error)
}

// Snapshot is the collection state confirmed by the remote store
type Snapshot struct {
	Token string
	Views []models.View
}

// Names returns the confirmed view names in order
func (s Snapshot) Names() []string {
	return models.ViewNames(s.Views)
}

// MutationKind identifies the change a Mutation carries
type MutationKind int

const (
	MutationAddOrReplace MutationKind = iota
	MutationRemove
)

// Mutation is a change computed against the collection at one point in time.
// Computing it does not touch the collection; Send performs the remote call
// and Collection.Apply commits the result.
type Mutation struct {
	Kind     MutationKind
	Previous string
	Name     string
	Views    []models.View
	Token    string
}

// Send presents the candidate view list with the token it was computed from.
// A stale token is reported as an error; Send never retries.
func (m Mutation) Send(ctx context.Context, remote Remote) (Snapshot, error) {
	token, err := remote.Save(ctx, m.Views, m.Token)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Token: token, Views: m.Views}, nil
}

// Collection holds the user's views as last confirmed by the remote store
type Collection struct {
	views []models.View
	token string
}

// NewCollection creates a collection from a loaded personalization
func NewCollection(p models.Personalization) *Collection {
	c := &Collection{}
	c.Reset(p)
	return c
}

// Reset replaces the collection with freshly loaded state
func (c *Collection) Reset(p models.Personalization) {
	c.views = cloneViews(p.Filters)
	c.token = p.ContentHash
}

// Apply commits a snapshot returned by a successful Send
func (c *Collection) Apply(s Snapshot) {
	c.views = cloneViews(s.Views)
	c.token = s.Token
}

// Len returns the number of views
func (c *Collection) Len() int {
	return len(c.views)
}

// Token returns the content hash of the last confirmed state
func (c *Collection) Token() string {
	return c.token
}

// Names returns the view names in display order
func (c *Collection) Names() []string {
	return models.ViewNames(c.views)
}

// Views returns a copy of the views
func (c *Collection) Views() []models.View {
	return cloneViews(c.views)
}

// Personalization returns the collection in its wire shape
func (c *Collection) Personalization() models.Personalization {
	return models.Personalization{Filters: c.Views(), ContentHash: c.token}
}

// Find returns a copy of the named view
func (c *Collection) Find(name string) (models.View, bool) {
	i := c.index(name)
	if i < 0 {
		return models.View{}, false
	}
	return c.views[i].Clone(), true
}

// AddOrReplace computes the list that results from saving v. When previous
// names an existing view that view is replaced in place, otherwise v is
// appended.
func (c *Collection) AddOrReplace(previous string, v models.View) Mutation {
	v = v.Clone()
	v.Name = models.NormalizeViewName(v.Name)

	views := cloneViews(c.views)
	i := -1
	if previous != "" {
		i = c.index(previous)
	}
	if i >= 0 {
		views[i] = v
	} else {
		views = append(views, v)
	}

	return Mutation{
		Kind:     MutationAddOrReplace,
		Previous: previous,
		Name:     v.Name,
		Views:    views,
		Token:    c.token,
	}
}

// Remove computes the list that results from deleting the named view
func (c *Collection) Remove(name string) (Mutation, error) {
	i := c.index(name)
	if i < 0 {
		return Mutation{}, fmt.Errorf("%w: %s", ErrUnknownView, name)
	}
	if len(c.views) < 2 {
		return Mutation{}, ErrLastView
	}

	views := make([]models.View, 0, len(c.views)-1)
	for j, v := range c.views {
		if j != i {
			views = append(views, v.Clone())
		}
	}

	return Mutation{
		Kind:  MutationRemove,
		Name:  c.views[i].Name,
		Views: views,
		Token: c.token,
	}, nil
}

func (c *Collection) index(name string) int {
	for i, v := range c.views {
		if models.SameViewName(v.Name, name) {
			return i
		}
	}
	return -1
}

func cloneViews(views []models.View) []models.View {
	out := make([]models.View, 0, len(views))
	for _, v := range views {
		out = append(out, v.Clone())
	}
	return out
}
