// Package app hosts the application lifecycle: it starts the backend and
// opens the window once ready, quits when the window goes away, and stops the
// backend before exiting.
package app

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/braunmar/deskshell/pkg/ui"
	"github.com/braunmar/deskshell/pkg/window"
)

// Event is a lifecycle event handled by the app's event loop
type Event int

const (
	EventReady Event = iota
	EventWindowAllClosed
	EventBeforeQuit
)

func (e Event) String() string {
	switch e {
	case EventReady:
		return "ready"
	case EventWindowAllClosed:
		return "window-all-closed"
	case EventBeforeQuit:
		return "before-quit"
	default:
		return "unknown"
	}
}

// residentPlatform keeps running after its last window closes.
const residentPlatform = "darwin"

// Backend is the process the app keeps alive for its own lifetime
type Backend interface {
	Start() error
	Stop()
	Wait(ctx context.Context) error
}

// WindowOpener opens a window showing entry
type WindowOpener func(entry string) (window.Window, error)

// App is one application run
type App struct {
	entry           string
	backend         Backend
	openWindow      WindowOpener
	log             ui.Logger
	platform        string
	shutdownTimeout time.Duration

	events   chan Event
	done     chan struct{}
	quitOnce sync.Once
	windows  []window.Window // Owned by the event loop
}

// Option configures an App
type Option func(*App)

// WithLogger sets the logger
func WithLogger(l ui.Logger) Option {
	return func(a *App) { a.log = l }
}

// WithPlatform overrides runtime.GOOS for the window-all-closed rule
func WithPlatform(goos string) Option {
	return func(a *App) { a.platform = goos }
}

// WithShutdownTimeout bounds how long quitting waits for the backend
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) { a.shutdownTimeout = d }
}

// New creates an app that shows entry and supervises b
func New(entry string, b Backend, open WindowOpener, opts ...Option) *App {
	a := &App{
		entry:           entry,
		backend:         b,
		openWindow:      open,
		log:             ui.Discard{},
		platform:        runtime.GOOS,
		shutdownTimeout: 3 * time.Second,
		events:          make(chan Event, 4),
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Quit requests the app to quit. Only the first request has an effect.
func (a *App) Quit() {
	a.quitOnce.Do(func() {
		a.post(EventBeforeQuit)
	})
}

func (a *App) post(e Event) {
	select {
	case a.events <- e:
	case <-a.done:
	}
}

// Run processes lifecycle events until the app has quit. Cancelling ctx
// requests a quit; the backend is still stopped before Run returns.
func (a *App) Run(ctx context.Context) error {
	defer close(a.done)

	a.handle(EventReady)

	ctxDone := ctx.Done()
	for {
		select {
		case <-ctxDone:
			ctxDone = nil
			a.log.Infof("Received shutdown request")
			a.Quit()
		case e := <-a.events:
			a.handle(e)
			if e == EventBeforeQuit {
				return nil
			}
		}
	}
}

func (a *App) handle(e Event) {
	a.log.Debugf("Lifecycle event: %s", e)

	switch e {
	case EventReady:
		a.onReady()
	case EventWindowAllClosed:
		a.onWindowAllClosed()
	case EventBeforeQuit:
		a.onBeforeQuit()
	}
}

func (a *App) onReady() {
	if err := a.backend.Start(); err != nil {
		// The window still shows its static content without a backend
		a.log.Errorf("Backend unavailable: %v", err)
	}
	a.createWindow()
}

func (a *App) createWindow() {
	w, err := a.openWindow(a.entry)
	if err != nil {
		a.log.Errorf("Failed to open window: %v", err)
		go a.post(EventWindowAllClosed)
		return
	}
	a.windows = append(a.windows, w)

	go func() {
		select {
		case <-w.Closed():
			a.post(EventWindowAllClosed)
		case <-a.done:
		}
	}()
}

func (a *App) onWindowAllClosed() {
	if a.platform == residentPlatform {
		a.log.Infof("All windows closed; app stays resident")
		return
	}
	a.log.Infof("Quit app...")
	a.Quit()
}

func (a *App) onBeforeQuit() {
	a.backend.Stop()

	for _, w := range a.windows {
		if err := w.Close(); err != nil {
			a.log.Warnf("%v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	if err := a.backend.Wait(ctx); err != nil {
		a.log.Warnf("Backend termination did not finish: %v", err)
	}
	a.log.Infof("Complete quitting app")
}
