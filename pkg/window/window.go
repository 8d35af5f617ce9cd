// Package window opens the application's single window. Rendering is left to
// an installed chromium-family browser running in app mode; when none is
// available the entry document is handed to the platform's default opener.
package window

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/braunmar/deskshell/pkg/ui"
)

// Window is an open application window.
type Window interface {
	// Closed is closed when the user closes the window.
	Closed() <-chan struct{}
	// Close closes the window if it is still open.
	Close() error
}

// Options configure a window
type Options struct {
	Width              int
	Height             int
	DevTools           bool
	DisableWebSecurity bool
	Switches           []string // Engine switches, without leading dashes
	Browser            string   // Browser executable; empty means auto-detect
	Logger             ui.Logger
}

// browserCandidates are looked up on PATH, in order, when no browser is configured.
var browserCandidates = []string{
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"microsoft-edge",
	"brave-browser",
	"chrome",
	"msedge",
}

// FindBrowser returns the configured browser, or the first chromium-family
// browser found on PATH.
func FindBrowser(configured string) (string, error) {
	if configured != "" {
		path, err := exec.LookPath(configured)
		if err != nil {
			return "", fmt.Errorf("configured browser %q not found: %w", configured, err)
		}
		return path, nil
	}

	for _, name := range browserCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no chromium-based browser found on PATH (tried %s)", strings.Join(browserCandidates, ", "))
}

// FileURL converts an absolute path to a file:// URL
func FileURL(path string) string {
	path = filepath.ToSlash(path)
	if !strings.HasPrefix(path, "/") {
		// Windows drive paths
		path = "/" + path
	}
	return (&url.URL{Scheme: "file", Path: path}).String()
}

// BrowserArgs returns the app-mode command line for entry
func BrowserArgs(entry string, opts Options, profileDir string) []string {
	args := []string{
		"--app=" + FileURL(entry),
		fmt.Sprintf("--window-size=%d,%d", opts.Width, opts.Height),
		"--user-data-dir=" + profileDir,
		"--no-first-run",
		"--no-default-browser-check",
	}
	if opts.DisableWebSecurity {
		args = append(args, "--disable-web-security", "--allow-file-access-from-files")
	}
	if opts.DevTools {
		args = append(args, "--auto-open-devtools-for-tabs")
	}
	for _, sw := range opts.Switches {
		args = append(args, "--"+sw)
	}
	return args
}

// Open shows entry in a new window
func Open(entry string, opts Options) (Window, error) {
	log := opts.Logger
	if log == nil {
		log = ui.Discard{}
	}

	if _, err := os.Stat(entry); err != nil {
		// The window still opens and shows whatever the engine makes of it
		log.Warnf("Entry document not found: %s", entry)
	}

	browser, err := FindBrowser(opts.Browser)
	if err != nil {
		if opts.Browser != "" {
			return nil, err
		}
		log.Warnf("%v; opening with the system handler", err)
		w, err := openExternal(entry)
		if err != nil {
			return nil, err
		}
		log.Infof("Opened %s with the system handler", entry)
		return w, nil
	}

	w, err := openBrowser(browser, entry, opts, log)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// browserWindow is an app-mode browser process; the window closes with it.
type browserWindow struct {
	cmd        *exec.Cmd
	profileDir string
	closed     chan struct{}
	closeOnce  sync.Once
}

func openBrowser(browser, entry string, opts Options, log ui.Logger) (*browserWindow, error) {
	profileDir, err := os.MkdirTemp("", "deskshell-profile-")
	if err != nil {
		return nil, fmt.Errorf("failed to create browser profile: %w", err)
	}

	args := BrowserArgs(entry, opts, profileDir)
	cmd := exec.Command(browser, args...)
	if err := cmd.Start(); err != nil {
		os.RemoveAll(profileDir)
		return nil, fmt.Errorf("failed to start browser %s: %w", browser, err)
	}
	log.Infof("Opened window (%s, pid %d): %s", filepath.Base(browser), cmd.Process.Pid, entry)
	log.Debugf("Browser command: %s %s", browser, strings.Join(args, " "))

	w := &browserWindow{
		cmd:        cmd,
		profileDir: profileDir,
		closed:     make(chan struct{}),
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debugf("Browser exited: %v", err)
		}
		os.RemoveAll(profileDir)
		close(w.closed)
	}()
	return w, nil
}

func (w *browserWindow) Closed() <-chan struct{} {
	return w.closed
}

func (w *browserWindow) Close() error {
	var err error
	w.closeOnce.Do(func() {
		select {
		case <-w.closed:
			return
		default:
		}
		if killErr := w.cmd.Process.Kill(); killErr != nil {
			err = fmt.Errorf("failed to close window: %w", killErr)
			return
		}
		<-w.closed
	})
	return err
}

// externalWindow was handed to the system opener; it never reports closing.
type externalWindow struct {
	closed chan struct{}
}

func openExternal(entry string) (*externalWindow, error) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", entry)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", entry)
	default:
		cmd = exec.Command("xdg-open", entry)
	}

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", entry, err)
	}
	return &externalWindow{closed: make(chan struct{})}, nil
}

func (w *externalWindow) Closed() <-chan struct{} {
	return w.closed
}

func (w *externalWindow) Close() error {
	return nil
}
