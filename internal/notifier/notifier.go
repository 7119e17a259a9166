// Package notifier posts desktop notifications through the wth tray helper.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/wth/internal/constants"
	"github.com/julianstephens/wth/internal/logger"
	"github.com/julianstephens/wth/internal/utils"
)

// SecretHeader carries the shared secret from the lockfile.
const SecretHeader = "X-Wth-Secret"

var (
	ErrTrayNotRunning    = errors.New("wth-tray is not running")
	ErrMalformedLockfile = errors.New("lockfile is malformed")
)

// Payload is the JSON body the tray helper accepts.
type Payload struct {
	Title      string `json:"title,omitempty"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// endpoint is a live tray helper parsed from its lockfile.
type endpoint struct {
	port   int
	pid    int
	secret string
}

type Option func(*Notifier)

// WithConfigDir replaces os.UserConfigDir.
func WithConfigDir(fn func() (string, error)) Option {
	return func(n *Notifier) {
		n.configDir = fn
	}
}

// WithProcessFinder replaces ps.FindProcess.
func WithProcessFinder(fn func(pid int) (ps.Process, error)) Option {
	return func(n *Notifier) {
		n.findProcess = fn
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		n.client = client
	}
}

// WithRetry sets the attempts and delay for failed posts.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(n *Notifier) {
		if attempts > 0 {
			n.attempts = attempts
		}
		n.delay = delay
	}
}

type Notifier struct {
	configDir   func() (string, error)
	findProcess func(pid int) (ps.Process, error)
	client      *http.Client
	attempts    int
	delay       time.Duration
}

func New(opts ...Option) *Notifier {
	n := &Notifier{
		configDir:   os.UserConfigDir,
		findProcess: ps.FindProcess,
		client:      &http.Client{Timeout: 5 * time.Second},
		attempts:    constants.NotifyMaxRetries,
		delay:       constants.NotifyRetryDelay,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify shows text through the tray helper.
func (n *Notifier) Notify(ctx context.Context, title, text string) error {
	dir, err := n.TrayConfigDir()
	if err != nil {
		return err
	}
	ep, err := n.findTray(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := Payload{
		Title:      title,
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	}

	var lastErr error
	for attempt := 1; attempt <= n.attempts; attempt++ {
		if lastErr = n.post(ctx, ep, payload); lastErr == nil {
			return nil
		}
		logger.Debug("Notification attempt failed", "attempt", attempt, "error", lastErr)
		if attempt == n.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.delay):
		}
	}
	return lastErr
}

// ReflectionPrompt is the BeastMode notification for hour.
func ReflectionPrompt(hour int) (string, string) {
	return "Win The Hour", fmt.Sprintf("Time to reflect. Did you win %s?", utils.FormatHour(hour))
}

// TrayConfigDir returns the directory holding the tray lockfile. The tray's
// settings.json may point it elsewhere.
func (n *Notifier) TrayConfigDir() (string, error) {
	configDir, err := n.configDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayDir, "settings.json"))
	if err != nil {
		return trayDir, nil
	}
	var stored struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		logger.Debug("Ignoring unreadable tray settings", "error", err)
		return trayDir, nil
	}
	if dir := stored.Settings.LockfileDir; dir != nil && *dir != "" {
		return *dir, nil
	}
	return trayDir, nil
}

// parseLockfile reads "port|pid|secret".
func parseLockfile(content string) (endpoint, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return endpoint{}, ErrMalformedLockfile
	}

	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return endpoint{}, fmt.Errorf("%w: invalid port %q", ErrMalformedLockfile, parts[0])
	}
	if port < 1 || port > 65535 {
		return endpoint{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return endpoint{}, fmt.Errorf("%w: invalid process ID %q", ErrMalformedLockfile, parts[1])
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return endpoint{}, fmt.Errorf("%w: empty secret", ErrMalformedLockfile)
	}
	return endpoint{port: port, pid: pid, secret: secret}, nil
}

func (n *Notifier) findTray(lockfilePath string) (endpoint, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return endpoint{}, ErrTrayNotRunning
	}
	ep, err := parseLockfile(string(content))
	if err != nil {
		return endpoint{}, err
	}

	process, err := n.findProcess(ep.pid)
	if err != nil || process == nil {
		return endpoint{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return endpoint{}, fmt.Errorf("process with PID %d is not %s (is %s)", ep.pid, constants.TrayExecutablePrefix, process.Executable())
	}
	return ep, nil
}

func (n *Notifier) post(ctx context.Context, ep endpoint, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("http://127.0.0.1:%d", ep.port)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SecretHeader, ep.secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}
