package personalize

import "slices"

// ViewChange is reported to the dashboard after a successful save or delete
type ViewChange struct {
	Current string
	Names   []string
	Token   string
}

// Dashboard is the page hosting the editor; it refreshes its own view list
// when notified
type Dashboard interface {
	ViewsChanged(c ViewChange)
}

// DashboardState is a Dashboard that keeps the active view, the view names
// and the checksum the page last saw
type DashboardState struct {
	CurrentView string
	Names       []string
	Checksum    string
	OnChange    func(ViewChange)
}

// NewDashboardState creates dashboard state for the given collection
func NewDashboardState(current string, c *Collection) *DashboardState {
	return &DashboardState{
		CurrentView: current,
		Names:       c.Names(),
		Checksum:    c.Token(),
	}
}

// ViewsChanged records the change and runs the OnChange callback
func (d *DashboardState) ViewsChanged(c ViewChange) {
	d.CurrentView = c.Current
	d.Names = slices.Clone(c.Names)
	d.Checksum = c.Token
	if d.OnChange != nil {
		d.OnChange(c)
	}
}
