package widgets

// EventKind identifies a widget lifecycle or interaction event.
type EventKind int

const (
	// EventMount fires when the widget attaches to a window.
	EventMount EventKind = iota
	// EventUnmount fires when the widget detaches from its window.
	EventUnmount
	// EventClick fires when a press and release both land on the widget,
	// or when Enter or Space activates a focused widget.
	EventClick
	// EventHover fires when the pointer enters or leaves the widget.
	// Entered distinguishes the two.
	EventHover
	// EventFocus fires when the widget gains keyboard focus.
	EventFocus
	// EventBlur fires when the widget loses keyboard focus.
	EventBlur
	// EventChange fires when a widget's value changes, carrying the new
	// value.
	EventChange
	// EventSubmit fires when a widget's value is committed, carrying the
	// final value.
	EventSubmit
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventMount:
		return "mount"
	case EventUnmount:
		return "unmount"
	case EventClick:
		return "click"
	case EventHover:
		return "hover"
	case EventFocus:
		return "focus"
	case EventBlur:
		return "blur"
	case EventChange:
		return "change"
	case EventSubmit:
		return "submit"
	default:
		return "unknown"
	}
}

// Event carries the details of a widget event to registered handlers.
// Handlers close over the widget they were registered on, so the event
// itself only carries what varies per occurrence.
type Event struct {
	Kind EventKind

	// X, Y are the pointer position for click and hover events.
	X, Y int

	// Entered is true when a hover event is the pointer entering the
	// widget, false when it is leaving.
	Entered bool

	// Value is the payload of change and submit events.
	Value string
}

// Handler receives widget events.
type Handler func(Event)

type handlerEntry struct {
	id int
	fn Handler
}

// handlerRegistry stores handlers per event kind in registration order.
type handlerRegistry struct {
	handlers map[EventKind][]handlerEntry
	nextID   int
}

// add registers fn for kind and returns a function that removes the
// registration. Removing twice is harmless.
func (r *handlerRegistry) add(kind EventKind, fn Handler) func() {
	if r.handlers == nil {
		r.handlers = make(map[EventKind][]handlerEntry)
	}
	id := r.nextID
	r.nextID++
	r.handlers[kind] = append(r.handlers[kind], handlerEntry{id: id, fn: fn})
	return func() { r.remove(kind, id) }
}

func (r *handlerRegistry) remove(kind EventKind, id int) {
	entries := r.handlers[kind]
	for i, e := range entries {
		if e.id == id {
			r.handlers[kind] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// emit runs every handler registered for ev's kind, in registration order.
// The list is snapshotted first so a handler may remove itself or register
// others without affecting this delivery. A panicking handler is logged and
// the remaining handlers still run.
func (r *handlerRegistry) emit(widgetID string, ev Event) {
	entries := r.handlers[ev.Kind]
	if len(entries) == 0 {
		return
	}
	snapshot := make([]handlerEntry, len(entries))
	copy(snapshot, entries)
	for _, e := range snapshot {
		callHandler(widgetID, ev, e.fn)
	}
}

func callHandler(widgetID string, ev Event, fn Handler) {
	defer func() {
		if r := recover(); r != nil {
			panicLogger.HandlerPanicked(widgetID, ev.Kind.String(), r)
		}
	}()
	fn(ev)
}
