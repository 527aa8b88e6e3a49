// Package tray provides a system tray status item showing the live finger count.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle  func(enabled bool)
	onPreview func()
	onQuit    func()
	enabled   bool
	count     int
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuCount  *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
		count:   -1,
	}
}

// OnToggle sets the callback function to be called when counting is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnPreview sets the callback function to be called when the preview menu item is clicked.
func (t *Tray) OnPreview(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPreview = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// onReady sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra finger counter")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle finger counting")
	systray.AddSeparator()

	t.menuCount = systray.AddMenuItem(CountTitle(t.count), "Fingers in the last frame")
	t.menuCount.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuPreview := systray.AddMenuItem("Open Preview...", "Open the live preview in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuPreview.ClickedCh:
				t.handlePreview()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// handleToggle flips the enabled state and reports it to the toggle callback.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handlePreview() {
	t.mu.RLock()
	callback := t.onPreview
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetCount updates the finger count shown in the menu and title. A negative
// count means no hand is in view.
func (t *Tray) SetCount(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if count == t.count {
		return
	}
	t.count = count

	if t.menuCount != nil {
		t.menuCount.SetTitle(CountTitle(count))
		systray.SetTitle(fmt.Sprintf("Mudra %s", shortCount(count)))
	}
}

// Count returns the last finger count set, or -1 when no hand is in view.
func (t *Tray) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// CountTitle is the menu text for a finger count.
func CountTitle(count int) string {
	if count < 0 {
		return "Fingers: none"
	}
	return fmt.Sprintf("Fingers: %d", count)
}

func shortCount(count int) string {
	if count < 0 {
		return "-"
	}
	return fmt.Sprint(count)
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}
