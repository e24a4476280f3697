package runtime

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/loomtui/loom/pkg/backend"
	loomerrors "github.com/loomtui/loom/pkg/errors"
	"github.com/loomtui/loom/pkg/logging"
	"github.com/loomtui/loom/pkg/terminal"
	"github.com/loomtui/loom/pkg/theme"
)

// errQuit stops the event loop after a Quit command. Run maps it to nil.
var errQuit = errors.New("quit")

// CommandHandler handles commands the window did not consume.
// Return true if the command requires a render.
type CommandHandler func(cmd Command) bool

// AppConfig configures a runtime App.
type AppConfig struct {
	Backend        backend.Backend
	Root           Widget
	Theme          *theme.Theme
	Logger         *logging.Logger
	CommandHandler CommandHandler

	// MessageBuffer is the capacity of the message queue (default 128).
	MessageBuffer int

	// TickRate is the animation tick interval. Zero means the 16ms default;
	// negative disables ticking (and with it interaction animations).
	TickRate time.Duration

	// InvalidateRate overrides the invalidation throttle (per second).
	InvalidateRate float64

	// MetricsAddr serves Prometheus metrics on /metrics when non-empty.
	MetricsAddr string
}

// App runs a widget tree against a terminal backend: one goroutine polls the
// backend, the event loop routes messages through the window, and dirty
// frames are flushed as cell diffs.
type App struct {
	backend        backend.Backend
	window         *Window
	root           Widget
	theme          *theme.Theme
	logger         *logging.Logger
	commandHandler CommandHandler
	messages       chan Message
	tickRate       time.Duration
	invalidateRate float64
	metricsAddr    string
}

// NewApp creates a new App from config.
func NewApp(cfg AppConfig) *App {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	tickRate := cfg.TickRate
	if tickRate == 0 {
		tickRate = 16 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &App{
		backend:        cfg.Backend,
		root:           cfg.Root,
		theme:          cfg.Theme,
		logger:         logger,
		commandHandler: cfg.CommandHandler,
		messages:       make(chan Message, bufferSize),
		tickRate:       tickRate,
		invalidateRate: cfg.InvalidateRate,
		metricsAddr:    cfg.MetricsAddr,
	}
}

// Window returns the active window, if Run has initialized it.
func (a *App) Window() *Window {
	return a.window
}

// SetRoot swaps the root widget.
func (a *App) SetRoot(root Widget) {
	a.root = root
	if a.window != nil {
		a.window.SetRoot(root)
	}
}

// SetTheme swaps the active theme.
func (a *App) SetTheme(th *theme.Theme) {
	a.theme = th
	if a.window != nil {
		a.window.SetTheme(th)
	}
}

// Post sends a message to the event loop. Messages are dropped when the
// queue is full rather than blocking the sender.
func (a *App) Post(msg Message) {
	select {
	case a.messages <- msg:
	default:
		a.logger.EventDropped(messageKind(msg))
	}
}

// Run starts the event loop until a Quit command, backend shutdown, or
// context cancellation.
func (a *App) Run(ctx context.Context) error {
	if a.backend == nil {
		return loomerrors.New(loomerrors.ErrCodeInvalidInput, "backend is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.backend.Init(); err != nil {
		return loomerrors.Wrap(err, loomerrors.ErrCodeBackendInit, "init backend")
	}
	defer a.backend.Fini()

	a.backend.HideCursor()
	w, h := a.backend.Size()
	a.window = NewWindow(w, h, a.theme, a.logger)
	if a.invalidateRate != 0 {
		a.window.SetInvalidateLimit(a.invalidateRate)
	}
	if a.root != nil {
		a.window.SetRoot(a.root)
	}

	// First frame before any input arrives.
	a.render()

	g, ctx := errgroup.WithContext(ctx)

	if a.metricsAddr != "" {
		a.serveMetrics(ctx, g)
	}

	g.Go(func() error {
		a.pollEvents(ctx)
		return nil
	})

	g.Go(func() error {
		err := a.loop(ctx)
		a.window.Teardown()
		// Fini unblocks the poller's PollEvent.
		a.backend.Fini()
		a.logger.BackendStopped("event loop finished")
		return err
	})

	err := g.Wait()
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) serveMetrics(ctx context.Context, g *errgroup.Group) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: a.metricsAddr, Handler: mux}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func (a *App) loop(ctx context.Context) error {
	var ticks <-chan time.Time
	if a.tickRate > 0 {
		ticker := time.NewTicker(a.tickRate)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-a.messages:
			if err := a.dispatch(msg); err != nil {
				return err
			}
		case now := <-ticks:
			result := a.window.Tick(now)
			if err := a.runCommands(result.Commands); err != nil {
				return err
			}
		}

		if a.window.ConsumeDirty() {
			a.render()
		}
	}
}

func (a *App) dispatch(msg Message) error {
	result := a.window.HandleMessage(msg)
	return a.runCommands(result.Commands)
}

func (a *App) runCommands(cmds []Command) error {
	for _, cmd := range cmds {
		switch cmd.(type) {
		case Quit:
			return errQuit
		case Refresh:
			a.window.Buffer().MarkAllDirty()
			a.window.ForceInvalidate()
		default:
			if a.commandHandler != nil && a.commandHandler(cmd) {
				a.window.ForceInvalidate()
			}
		}
	}
	return nil
}

// pollEvents converts backend events to messages until the backend closes.
func (a *App) pollEvents(ctx context.Context) {
	for {
		ev := a.backend.PollEvent()
		if ev == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}

		switch e := ev.(type) {
		case terminal.KeyEvent:
			a.Post(KeyMsg{
				Key:   e.Key,
				Rune:  e.Rune,
				Alt:   e.Alt,
				Ctrl:  e.Ctrl,
				Shift: e.Shift,
			})
		case terminal.ResizeEvent:
			a.Post(ResizeMsg{Width: e.Width, Height: e.Height})
		case terminal.MouseEvent:
			a.Post(MouseMsg{
				X:      e.X,
				Y:      e.Y,
				Button: e.Button,
				Action: e.Action,
				Alt:    e.Alt,
				Ctrl:   e.Ctrl,
				Shift:  e.Shift,
			})
		case terminal.PasteEvent:
			a.Post(PasteMsg{Text: e.Text})
		}
	}
}

// render paints the window and flushes changed cells to the backend.
func (a *App) render() {
	start := time.Now()

	a.window.Render()
	buf := a.window.Buffer()

	if buf.IsDirty() {
		dirtyCount := buf.DirtyCount()
		w, h := buf.Size()
		totalCells := w * h

		if dirtyCount > totalCells/2 {
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					cell := buf.Get(x, y)
					a.backend.SetContent(x, y, cell.Rune, nil, cell.Style)
				}
			}
		} else {
			buf.ForEachDirtyCell(func(x, y int, cell Cell) {
				a.backend.SetContent(x, y, cell.Rune, nil, cell.Style)
			})
		}
		buf.ClearDirty()

		elapsed := time.Since(start)
		metricFramesRendered.Inc()
		metricFrameDuration.Observe(elapsed.Seconds())
		a.logger.FrameRendered(float64(elapsed.Microseconds())/1000.0, dirtyCount)
	}

	a.backend.Show()
}
