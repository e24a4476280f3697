package runtime

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/loomtui/loom/pkg/logging"
	"github.com/loomtui/loom/pkg/terminal"
	"github.com/loomtui/loom/pkg/theme"
)

// DefaultInvalidateRate caps how many invalidation requests per second are
// honored. Requests above the cap are dropped; that is harmless because an
// honored request already marked the window dirty.
const DefaultInvalidateRate = 120

// Layer is one entry in the window's stack. Each layer owns a widget tree
// and a focus scope, so modal overlays trap focus.
type Layer struct {
	Root       Widget
	FocusScope *FocusScope
	Modal      bool // If true, blocks input to layers below
}

// Window owns the top-level widget trees, routes input, schedules
// invalidation, and paints layers into a cell buffer.
//
// Invalidate and ForceInvalidate are safe to call from any goroutine;
// everything else belongs to the app goroutine.
type Window struct {
	width, height int
	layers        []*Layer
	buffer        *Buffer
	theme         *theme.Theme
	logger        *logging.Logger

	limiter *rate.Limiter
	dirty   atomic.Bool

	needsLayout bool

	hovered  Widget
	captured Widget
	lastTick time.Time
}

// NewWindow creates a window with the given dimensions.
func NewWindow(w, h int, th *theme.Theme, logger *logging.Logger) *Window {
	if th == nil {
		th = theme.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Window{
		width:   w,
		height:  h,
		buffer:  NewBuffer(w, h),
		theme:   th,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(DefaultInvalidateRate), 1),
	}
}

// SetInvalidateLimit replaces the invalidation throttle rate. Zero or
// negative disables throttling.
func (s *Window) SetInvalidateLimit(perSecond float64) {
	if perSecond <= 0 {
		s.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
}

// Size returns the window dimensions.
func (s *Window) Size() (w, h int) {
	return s.width, s.height
}

// Resize changes the window dimensions, schedules a relayout, and forces a
// repaint.
func (s *Window) Resize(w, h int) {
	if w == s.width && h == s.height {
		return
	}
	s.width = w
	s.height = h
	s.buffer.Resize(w, h)
	s.needsLayout = true
	s.ForceInvalidate()
}

// Buffer returns the window's render buffer.
func (s *Window) Buffer() *Buffer {
	return s.buffer
}

// Theme returns the current theme.
func (s *Window) Theme() *theme.Theme {
	return s.theme
}

// SetTheme swaps the theme. Every widget cache is cleared, the tree is laid
// out again, and the repaint bypasses the invalidation throttle so the swap
// is never dropped.
func (s *Window) SetTheme(th *theme.Theme) {
	if th == nil || th == s.theme {
		return
	}
	s.theme = th
	for _, layer := range s.layers {
		clearCaches(layer.Root)
	}
	s.needsLayout = true
	s.ForceInvalidate()
	s.logger.ThemeApplied(th.Name)
}

func clearCaches(w Widget) {
	if w == nil {
		return
	}
	if ch, ok := w.(CacheHolder); ok {
		ch.ClearCaches()
	}
	if pw, ok := w.(ParentWidget); ok {
		for _, child := range pw.ChildWidgets() {
			clearCaches(child)
		}
	}
}

// SetRoot sets the root widget of the base layer, unmounting any previous
// root. Creates the base layer if it doesn't exist.
func (s *Window) SetRoot(root Widget) {
	if len(s.layers) == 0 {
		s.layers = append(s.layers, &Layer{
			FocusScope: NewFocusScope(),
		})
		metricLayers.Set(float64(len(s.layers)))
	}
	base := s.layers[0]
	if base.Root != nil {
		s.unmountTree(base.Root, base.FocusScope)
	}
	base.Root = root
	if root != nil {
		s.mountTree(root, base.FocusScope)
	}
	s.needsLayout = true
	s.ForceInvalidate()
}

// Root returns the base layer's root widget.
func (s *Window) Root() Widget {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[0].Root
}

// PushLayer adds a new layer on top of the stack.
// If modal is true, input won't pass to layers below.
func (s *Window) PushLayer(root Widget, modal bool) {
	layer := &Layer{
		Root:       root,
		FocusScope: NewFocusScope(),
		Modal:      modal,
	}
	s.layers = append(s.layers, layer)
	metricLayers.Set(float64(len(s.layers)))

	if root != nil {
		s.mountTree(root, layer.FocusScope)
	}
	s.needsLayout = true
	s.ForceInvalidate()
}

// PopLayer removes the top layer from the stack, unmounting its tree.
// Returns false if only the base layer remains (can't pop it).
func (s *Window) PopLayer() bool {
	if len(s.layers) <= 1 {
		return false
	}

	top := s.layers[len(s.layers)-1]
	if top.Root != nil {
		s.unmountTree(top.Root, top.FocusScope)
	}
	s.layers = s.layers[:len(s.layers)-1]
	metricLayers.Set(float64(len(s.layers)))
	s.ForceInvalidate()
	return true
}

// TopLayer returns the topmost layer.
func (s *Window) TopLayer() *Layer {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[len(s.layers)-1]
}

// LayerCount returns the number of layers.
func (s *Window) LayerCount() int {
	return len(s.layers)
}

// FocusScope returns the focus scope of the top layer.
func (s *Window) FocusScope() *FocusScope {
	if top := s.TopLayer(); top != nil {
		return top.FocusScope
	}
	return nil
}

// MountSubtree attaches a widget added to an already-mounted tree. Containers
// call this from AddChild; it registers any focusables in the owning layer's
// scope and schedules a relayout.
func (s *Window) MountSubtree(w Widget) {
	layer := s.layerOf(w)
	if layer == nil {
		return
	}
	s.mountTree(w, layer.FocusScope)
	s.RequestLayout()
}

// UnmountSubtree detaches a widget removed from a mounted tree, clearing any
// hover, capture, and focus references into it.
func (s *Window) UnmountSubtree(w Widget) {
	layer := s.layerOf(w)
	var scope *FocusScope
	if layer != nil {
		scope = layer.FocusScope
	}
	s.unmountTree(w, scope)
	s.RequestLayout()
}

// layerOf finds the layer containing w by walking to its root ancestor.
func (s *Window) layerOf(w Widget) *Layer {
	root := w
	for root != nil && root.Parent() != nil {
		root = root.Parent()
	}
	for _, layer := range s.layers {
		if layer.Root == root {
			return layer
		}
	}
	return nil
}

func (s *Window) mountTree(w Widget, scope *FocusScope) {
	if w == nil {
		return
	}
	w.Mount(s)
	if f, ok := w.(Focusable); ok && scope != nil {
		scope.Register(f)
	}
	if pw, ok := w.(ParentWidget); ok {
		for _, child := range pw.ChildWidgets() {
			s.mountTree(child, scope)
		}
	}
}

// unmountTree unmounts depth-first, children before parents, so a widget's
// Unmount sees its children already detached.
func (s *Window) unmountTree(w Widget, scope *FocusScope) {
	if w == nil {
		return
	}
	if pw, ok := w.(ParentWidget); ok {
		children := pw.ChildWidgets()
		for i := len(children) - 1; i >= 0; i-- {
			s.unmountTree(children[i], scope)
		}
	}
	if f, ok := w.(Focusable); ok && scope != nil {
		scope.Unregister(f)
	}
	if s.hovered == w {
		s.hovered = nil
	}
	if s.captured == w {
		s.captured = nil
	}
	w.Unmount()
}

// Invalidate requests a repaint. It is throttled: returns true when honored,
// false when dropped because the rate cap was hit.
func (s *Window) Invalidate() bool {
	if !s.limiter.Allow() {
		metricInvalidations.WithLabelValues("dropped").Inc()
		return false
	}
	s.dirty.Store(true)
	metricInvalidations.WithLabelValues("honored").Inc()
	return true
}

// ForceInvalidate marks the window dirty, bypassing the throttle. Resize and
// theme swaps use this so they are never dropped.
func (s *Window) ForceInvalidate() {
	s.dirty.Store(true)
	metricInvalidations.WithLabelValues("forced").Inc()
}

// Dirty reports whether a repaint is pending.
func (s *Window) Dirty() bool {
	return s.dirty.Load()
}

// ConsumeDirty returns whether a repaint was pending and clears the flag.
// The app loop calls this once per frame.
func (s *Window) ConsumeDirty() bool {
	return s.dirty.Swap(false)
}

// RequestLayout schedules a layout pass before the next render.
func (s *Window) RequestLayout() {
	s.needsLayout = true
	s.Invalidate()
}

func (s *Window) layoutAll() {
	bounds := Rect{0, 0, s.width, s.height}
	for _, layer := range s.layers {
		if layer.Root != nil {
			layer.Root.Layout(bounds)
		}
	}
}

// Render draws all layers to the buffer, running a layout pass first if one
// is pending. The buffer's dirty cells are what the app flushes.
func (s *Window) Render() {
	if s.needsLayout {
		s.layoutAll()
		s.needsLayout = false
	}

	s.buffer.Clear()

	ctx := RenderContext{
		Surface: s.buffer,
		Theme:   s.theme,
		Focused: false,
		Bounds:  Rect{0, 0, s.width, s.height},
	}

	// Render layers from bottom to top
	for i, layer := range s.layers {
		if layer.Root == nil || !layer.Root.Visible() {
			continue
		}
		ctx.Focused = i == len(s.layers)-1
		layer.Root.Render(ctx)
	}
}

// WidgetAt returns the deepest visible widget under the point, starting from
// the top layer. A modal layer blocks hits from reaching layers below it.
func (s *Window) WidgetAt(x, y int) Widget {
	w, _ := s.hitLayer(x, y)
	return w
}

func (s *Window) hitLayer(x, y int) (Widget, *Layer) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		layer := s.layers[i]
		if layer.Root != nil {
			if hit := HitTest(layer.Root, x, y); hit != nil {
				return hit, layer
			}
		}
		if layer.Modal {
			break
		}
	}
	return nil, nil
}

// CapturePointer routes all mouse input to w until ReleasePointer. The
// scrollbar thumb uses this so a drag keeps scrolling when the pointer
// leaves the track.
func (s *Window) CapturePointer(w Widget) {
	s.captured = w
}

// ReleasePointer ends pointer capture.
func (s *Window) ReleasePointer() {
	s.captured = nil
}

// Captured returns the widget holding pointer capture, or nil.
func (s *Window) Captured() Widget {
	return s.captured
}

// Hovered returns the widget currently under the pointer, or nil.
func (s *Window) Hovered() Widget {
	return s.hovered
}

// Focused returns the focused widget of the top layer, or nil.
func (s *Window) Focused() Focusable {
	if scope := s.FocusScope(); scope != nil {
		return scope.Current()
	}
	return nil
}

// SetFocusWidget focuses w inside its own layer's scope.
func (s *Window) SetFocusWidget(w Focusable) bool {
	layer := s.layerOf(w)
	if layer == nil {
		return false
	}
	return layer.FocusScope.SetFocus(w)
}

// HandleMessage routes a message through the window: pointer messages by hit
// testing with bubbling, key and paste messages to the focused widget and
// its ancestors, ticks as a broadcast. Focus and overlay commands are
// consumed here; everything else is returned for the app to handle.
func (s *Window) HandleMessage(msg Message) HandleResult {
	metricMessages.WithLabelValues(messageKind(msg)).Inc()

	var result HandleResult
	switch m := msg.(type) {
	case MouseMsg:
		result = s.routeMouse(m)
	case KeyMsg:
		result = s.routeKeyLike(msg)
	case PasteMsg:
		result = s.routeKeyLike(msg)
	case ResizeMsg:
		s.Resize(m.Width, m.Height)
		result = Handled()
	case ThemeMsg:
		s.SetTheme(m.Theme)
		result = Handled()
	case TickMsg:
		result = s.broadcast(m)
	default:
		result = s.routeKeyLike(msg)
	}

	result.Commands = s.filterCommands(result.Commands)
	return result
}

// Tick broadcasts a frame tick carrying the elapsed time since the last one.
func (s *Window) Tick(now time.Time) HandleResult {
	var delta time.Duration
	if !s.lastTick.IsZero() {
		delta = now.Sub(s.lastTick)
	}
	s.lastTick = now
	return s.HandleMessage(TickMsg{Time: now, Delta: delta})
}

// routeMouse delivers mouse input. While a widget holds pointer capture it
// receives everything without bubbling. Otherwise the hit target gets the
// message, unhandled messages bubble through its ancestors, and moves drive
// hover enter/leave transitions.
func (s *Window) routeMouse(m MouseMsg) HandleResult {
	if s.captured != nil {
		captured := s.captured
		result := captured.HandleMessage(m)
		if m.Action == terminal.MouseRelease && s.captured == captured {
			// A well-behaved widget releases capture itself on release;
			// this is the backstop for ones that forget.
			s.captured = nil
		}
		return result
	}

	target, layer := s.hitLayer(m.X, m.Y)

	if m.Action == terminal.MouseMove {
		s.updateHover(target, m.X, m.Y)
	}

	if m.Action == terminal.MousePress && m.Button == terminal.MouseLeft {
		s.focusFromClick(target, layer)
	}

	if target == nil {
		return Unhandled()
	}
	return s.bubble(target, m)
}

// updateHover fires leave/enter exactly once per hover target change.
func (s *Window) updateHover(target Widget, x, y int) {
	if target == s.hovered {
		return
	}
	if s.hovered != nil {
		s.hovered.HandleMessage(PointerLeaveMsg{})
	}
	s.hovered = target
	if target != nil {
		target.HandleMessage(PointerEnterMsg{X: x, Y: y})
	}
}

// focusFromClick walks up from the click target to the nearest focusable
// widget. A click that reaches nothing focusable clears focus.
func (s *Window) focusFromClick(target Widget, layer *Layer) {
	for w := target; w != nil; w = w.Parent() {
		if f, ok := w.(Focusable); ok && f.CanFocus() {
			if layer != nil {
				layer.FocusScope.SetFocus(f)
			}
			return
		}
	}
	if layer != nil {
		layer.FocusScope.ClearFocus()
	} else if scope := s.FocusScope(); scope != nil {
		scope.ClearFocus()
	}
}

// routeKeyLike delivers a message to each layer's focused widget (or root
// when nothing is focused), bubbling unhandled messages up the parent chain.
// A modal layer stops the search.
func (s *Window) routeKeyLike(msg Message) HandleResult {
	var commands []Command
	for i := len(s.layers) - 1; i >= 0; i-- {
		layer := s.layers[i]
		var result HandleResult
		if focused := layer.FocusScope.Current(); focused != nil {
			result = s.bubble(focused, msg)
		} else if layer.Root != nil {
			result = s.bubble(layer.Root, msg)
		}
		commands = append(commands, result.Commands...)
		if result.Handled {
			return HandleResult{Handled: true, Commands: commands}
		}
		if layer.Modal {
			break
		}
	}
	return HandleResult{Handled: false, Commands: commands}
}

// bubble walks from target up the parent chain until a widget handles the
// message. Commands from every visited widget are collected.
func (s *Window) bubble(target Widget, msg Message) HandleResult {
	var commands []Command
	for w := target; w != nil; w = w.Parent() {
		result := w.HandleMessage(msg)
		commands = append(commands, result.Commands...)
		if result.Handled {
			return HandleResult{Handled: true, Commands: commands}
		}
	}
	return HandleResult{Handled: false, Commands: commands}
}

// broadcast delivers a message to every widget in every layer. Used for
// ticks, where handled results must not stop delivery.
func (s *Window) broadcast(msg Message) HandleResult {
	var commands []Command
	for _, layer := range s.layers {
		walkWidgets(layer.Root, func(w Widget) {
			result := w.HandleMessage(msg)
			commands = append(commands, result.Commands...)
		})
	}
	return HandleResult{Handled: len(commands) > 0, Commands: commands}
}

func walkWidgets(w Widget, fn func(Widget)) {
	if w == nil {
		return
	}
	fn(w)
	if pw, ok := w.(ParentWidget); ok {
		for _, child := range pw.ChildWidgets() {
			walkWidgets(child, fn)
		}
	}
}

// filterCommands consumes window-level commands and returns the rest.
func (s *Window) filterCommands(cmds []Command) []Command {
	if len(cmds) == 0 {
		return nil
	}
	var rest []Command
	for _, cmd := range cmds {
		if !s.handleCommand(cmd) {
			rest = append(rest, cmd)
		}
	}
	return rest
}

// handleCommand processes a window-level command. Returns true if consumed.
func (s *Window) handleCommand(cmd Command) bool {
	switch c := cmd.(type) {
	case FocusNext:
		if scope := s.FocusScope(); scope != nil {
			scope.FocusNext()
		}
		return true
	case FocusPrev:
		if scope := s.FocusScope(); scope != nil {
			scope.FocusPrev()
		}
		return true
	case PushOverlay:
		s.PushLayer(c.Widget, c.Modal)
		return true
	case PopOverlay:
		s.PopLayer()
		return true
	}
	return false
}

// Teardown pops every overlay and unmounts the base tree. After it returns
// no widget holds a window or parent reference.
func (s *Window) Teardown() {
	for len(s.layers) > 1 {
		s.PopLayer()
	}
	s.SetRoot(nil)
}

// RenderContext provides context to widgets during rendering.
type RenderContext struct {
	Surface Surface
	Theme   *theme.Theme
	Focused bool // Is the containing layer the top layer?
	Bounds  Rect // Widget's allocated bounds
}

// Sub creates a new context for a child widget with adjusted bounds.
// The surface is shared; coordinates stay absolute.
func (ctx RenderContext) Sub(bounds Rect) RenderContext {
	return RenderContext{
		Surface: ctx.Surface,
		Theme:   ctx.Theme,
		Focused: ctx.Focused,
		Bounds:  bounds,
	}
}

// Clipped returns a context whose surface drops writes outside region.
// Scroll viewports use this so overflowing content cannot paint over
// neighbors.
func (ctx RenderContext) Clipped(region Rect) RenderContext {
	return RenderContext{
		Surface: Clip(ctx.Surface, region),
		Theme:   ctx.Theme,
		Focused: ctx.Focused,
		Bounds:  ctx.Bounds,
	}
}
