package app

import (
	"log"

	"github.com/pkg/errors"

	"github.com/ayusman/mudra/internal/store"
)

// Dispatcher receives finger counts when they change.
type Dispatcher interface {
	Dispatch(fingerCount int) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(fingerCount int) error

// Dispatch calls f(fingerCount).
func (f DispatcherFunc) Dispatch(fingerCount int) error {
	return f(fingerCount)
}

// BindingDispatcher resolves finger counts to stored command bindings,
// logs the command and records it in the history. Counts without an
// enabled binding are ignored.
type BindingDispatcher struct {
	store *store.Store
}

// NewBindingDispatcher creates a BindingDispatcher over s.
func NewBindingDispatcher(s *store.Store) *BindingDispatcher {
	return &BindingDispatcher{store: s}
}

// Dispatch looks up the binding for fingerCount and records its command.
func (d *BindingDispatcher) Dispatch(fingerCount int) error {
	b, err := d.store.Bindings().GetByFingerCount(fingerCount)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "look up binding for %d finger(s)", fingerCount)
	}
	if !b.Enabled {
		return nil
	}

	log.Printf("Command %q for %d finger(s)", b.Command, fingerCount)

	entry := &store.Entry{
		BindingID:   b.ID,
		FingerCount: fingerCount,
		Command:     b.Command,
	}
	if err := d.store.History().Append(entry); err != nil {
		return errors.Wrap(err, "record history")
	}
	return nil
}
