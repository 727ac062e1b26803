// Package display controls which parts of the mirror are visible.
package display

import "sync/atomic"

// Panel names used by the mirror.
const (
	PanelHeat  = "heat"
	PanelData  = "data"
	PanelDebug = "debug"
)

// Panel is a visibility primitive for one region of the screen.
type Panel interface {
	Name() string
	Show()
	Hide()
	Visible() bool
}

// Controller shows or hides a fixed set of panels together.
// Show and Hide are idempotent: a panel is only toggled when the set's
// visibility actually changes. Not safe for concurrent use.
type Controller struct {
	panels []Panel
	shown  bool
}

// NewController creates a Controller for panels, which start out shown.
func NewController(panels ...Panel) *Controller {
	return &Controller{panels: panels, shown: true}
}

// Show makes all panels visible. It returns false if they already were.
func (c *Controller) Show() bool {
	if c.shown {
		return false
	}
	for _, p := range c.panels {
		p.Show()
	}
	c.shown = true
	return true
}

// Hide hides all panels. It returns false if they were already hidden.
func (c *Controller) Hide() bool {
	if !c.shown {
		return false
	}
	for _, p := range c.panels {
		p.Hide()
	}
	c.shown = false
	return true
}

// Shown reports whether the panels are currently visible.
func (c *Controller) Shown() bool {
	return c.shown
}

// Visibility returns each panel's current visibility by name.
func (c *Controller) Visibility() map[string]bool {
	out := make(map[string]bool, len(c.panels))
	for _, p := range c.panels {
		out[p.Name()] = p.Visible()
	}
	return out
}

// FlagPanel is a Panel backed by an atomic flag, read by the web view from
// other goroutines.
type FlagPanel struct {
	name    string
	visible atomic.Bool
	toggles atomic.Uint64
}

// NewFlagPanel creates a visible panel.
func NewFlagPanel(name string) *FlagPanel {
	p := &FlagPanel{name: name}
	p.visible.Store(true)
	return p
}

func (p *FlagPanel) Name() string { return p.name }

func (p *FlagPanel) Show() {
	p.visible.Store(true)
	p.toggles.Add(1)
}

func (p *FlagPanel) Hide() {
	p.visible.Store(false)
	p.toggles.Add(1)
}

func (p *FlagPanel) Visible() bool { return p.visible.Load() }

// Toggles returns how many times Show or Hide was called on the panel.
func (p *FlagPanel) Toggles() uint64 { return p.toggles.Load() }
