package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	goruntime "runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/loomtui/loom/pkg/backend/tcell"
	"github.com/loomtui/loom/pkg/config"
	"github.com/loomtui/loom/pkg/logging"
	"github.com/loomtui/loom/pkg/reactive"
	"github.com/loomtui/loom/pkg/runtime"
	"github.com/loomtui/loom/pkg/terminal"
	"github.com/loomtui/loom/pkg/theme"
	"github.com/loomtui/loom/pkg/widgets"
)

// Version information - set via ldflags during build
var (
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ~/.loom/config.yaml, ./.loom/config.yaml)")
	themeName := flag.String("theme", "", "built-in theme to use, overriding the config")
	logFile := flag.String("log", "", "write JSON logs to this file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}

	if err := run(*configPath, *themeName, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, themeName, logFile string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if themeName != "" {
		cfg.Theme.Name = themeName
		cfg.Theme.Path = ""
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	widgets.SetLogger(logger)
	reactive.SetLogger(logger)

	th, err := cfg.ResolveTheme()
	if err != nil {
		return err
	}

	be, err := tcell.NewWithOptions(tcell.Options{
		Mouse:          cfg.Input.Mouse,
		BracketedPaste: cfg.Input.BracketedPaste,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	demo := buildDemo(stop)

	var app *runtime.App
	app = runtime.NewApp(runtime.AppConfig{
		Backend:        be,
		Root:           demo.root,
		Theme:          th,
		Logger:         logger,
		TickRate:       cfg.TickRate(),
		InvalidateRate: float64(cfg.Render.InvalidateRate),
		MessageBuffer:  cfg.Input.MessageBuffer,
		MetricsAddr:    metricsAddr(cfg),
		CommandHandler: func(cmd runtime.Command) bool {
			switch c := cmd.(type) {
			case runtime.Submit:
				demo.logLine("submitted " + strconv.Quote(c.Text))
				return true
			case runtime.Cancel:
				if scope := app.Window().FocusScope(); scope != nil {
					scope.ClearFocus()
				}
				return true
			}
			return false
		},
	})

	if cfg.Theme.Watch && cfg.Theme.Path != "" {
		err := theme.Watch(ctx, cfg.Theme.Path, logger, func(next *theme.Theme) {
			app.Post(runtime.ThemeMsg{Theme: next})
		})
		if err != nil {
			return err
		}
	}

	return app.Run(ctx)
}

// newLogger builds the app logger. Without a log file everything is
// discarded: stderr shares the terminal with the alternate screen, and
// writing to it tears the UI.
func newLogger(cfg *config.Config) (*logging.Logger, func(), error) {
	if cfg.Log.File == "" {
		return logging.Discard(), func() {}, nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return logging.NewLoggerWithWriter(f, "loom-demo", cfg.LogLevel()), func() { f.Close() }, nil
}

func metricsAddr(cfg *config.Config) string {
	if cfg.Metrics.Enabled {
		return cfg.Metrics.Addr
	}
	return ""
}

func printVersion() {
	fmt.Printf("loom-demo %s\n", version)
	if commit != "unknown" {
		fmt.Printf("  Commit:     %s\n", commit)
	}
	if buildDate != "unknown" {
		fmt.Printf("  Built:      %s\n", buildDate)
	}
	fmt.Printf("  Go version: %s\n", goruntime.Version())
}

const activityLines = 4

// demo holds the widget tree plus the hooks main needs to reach into it.
type demo struct {
	root    runtime.Widget
	logLine func(string)
}

func buildDemo(quit func()) *demo {
	name := reactive.NewState("")
	count := reactive.NewState(0)
	activity := reactive.NewState("nothing yet")

	greeting := reactive.NewComputed(func() string {
		who := strings.TrimSpace(name.Get())
		if who == "" {
			who = "stranger"
		}
		n := count.Get()
		plural := "s"
		if n == 1 {
			plural = ""
		}
		return fmt.Sprintf("Hello %s, %d click%s so far.", who, n, plural)
	}, name, count)

	greetText := widgets.NewText("")
	greetText.BindComputed(greeting)

	input := widgets.NewInput()
	input.SetPlaceholder("type a name, enter submits")
	input.OnChange(func(text string) {
		name.Set(text)
	})

	countBtn := widgets.NewButton("click me")
	countBtn.OnClick(func() {
		count.Update(func(n int) int { return n + 1 })
	})

	resetBtn := widgets.NewButton("reset")
	resetBtn.OnClick(func() {
		count.Set(0)
		name.Set("")
		input.Clear()
	})

	quitBtn := widgets.NewButton("quit")
	quitBtn.OnClick(quit)

	buttons := widgets.NewRow(countBtn, resetBtn).WithSpacing(1)
	buttons.AddFlex(widgets.NewSpacer(), 1)
	buttons.AddChild(quitBtn)

	activityText := widgets.NewText("")
	activityText.BindState(activity)

	form := widgets.NewColumn(
		greetText,
		input,
		buttons,
		widgets.NewLabel("recent activity:"),
		activityText,
	).WithSpacing(1)

	tour := widgets.NewScroll(widgets.NewText(tourText))

	body := widgets.NewRow().WithSpacing(1)
	body.AddFlex(widgets.NewCard(form).WithTitle("greeter"), 1)
	body.AddFlex(widgets.NewCard(tour).WithTitle("tour"), 1)

	header := widgets.NewLabel("loom widget runtime").WithAlignment(widgets.AlignCenter)
	footer := widgets.NewLabel("tab cycles focus, q or ctrl+c quits").WithAlignment(widgets.AlignCenter)

	column := widgets.NewColumn(header).WithSpacing(1)
	column.AddFlex(body, 1)
	column.AddChild(footer)

	root := newShell(widgets.NewStack(column).WithPadding(widgets.UniformInsets(1)), tour)

	logLine := func(line string) {
		activity.Update(func(s string) string {
			lines := append(strings.Split(s, "\n"), line)
			if len(lines) > activityLines {
				lines = lines[len(lines)-activityLines:]
			}
			return strings.Join(lines, "\n")
		})
	}

	return &demo{root: root, logLine: logLine}
}

// shell wraps the tree to provide app-level key bindings. Unhandled keys
// bubble here through the parent chain, so quitting works regardless of
// which widget has focus.
type shell struct {
	widgets.Base
	child runtime.Widget
	tour  *widgets.Scroll
}

func newShell(child runtime.Widget, tour *widgets.Scroll) *shell {
	s := &shell{child: child, tour: tour}
	child.SetParent(s)
	return s
}

func (s *shell) ChildWidgets() []runtime.Widget {
	return []runtime.Widget{s.child}
}

func (s *shell) Measure(c runtime.Constraints) runtime.Size {
	return s.child.Measure(c)
}

func (s *shell) Layout(bounds runtime.Rect) {
	s.Base.Layout(bounds)
	s.child.Layout(bounds)
}

func (s *shell) Render(ctx runtime.RenderContext) {
	if s.child.Visible() {
		s.child.Render(ctx.Sub(s.child.Bounds()))
	}
}

func (s *shell) HandleMessage(msg runtime.Message) runtime.HandleResult {
	key, ok := msg.(runtime.KeyMsg)
	if !ok {
		return s.Base.HandleMessage(msg)
	}
	switch {
	case key.Key == terminal.KeyCtrlC:
		return runtime.WithCommand(runtime.Quit{})
	case key.Key == terminal.KeyRune && key.Rune == 'q':
		// Only reached when no focused widget consumed the rune.
		return runtime.WithCommand(runtime.Quit{})
	case key.Key == terminal.KeyPageUp || key.Key == terminal.KeyPageDown ||
		key.Key == terminal.KeyHome || key.Key == terminal.KeyEnd:
		// The tour pane is not focusable; scroll keys land here instead.
		return s.tour.HandleMessage(msg)
	}
	return s.Base.HandleMessage(msg)
}

const tourText = `Welcome to the loom demo.

Everything on screen is a widget. Cards draw a border
around a child, rows and columns split space between
their children, and this pane is a scroll viewport
around a long text.

Try the following:

  * Click the input on the left and type. The greeting
    above it recomputes from the text as you type.
  * Press enter in the input. The submit shows up under
    "recent activity".
  * Click "click me" a few times, or hold the button
    down and move the pointer off it before releasing
    to abort the click.
  * Press tab and shift+tab to move focus between the
    input and the buttons without touching the mouse.
  * Hover a button and watch it fade toward the hover
    color instead of snapping.
  * Scroll this pane with the mouse wheel, drag the
    thumb on the right edge, or use page-up, page-down,
    home, and end.
  * Press escape to drop focus, then press q to quit.

Colors come from the active theme. Point theme.path at
a yaml file in the config and enable theme.watch, then
edit the file while the demo runs: the new colors apply
on save without restarting.

Run with -log /tmp/loom.log to watch the runtime's
structured logs while you interact, or enable the
metrics endpoint in the config and curl /metrics for
frame and event counters.

The end. Drag the thumb back up, or press home.`
