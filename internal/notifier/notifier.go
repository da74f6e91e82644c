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

	"github.com/julianstephens/liftlit/internal/constants"
	"github.com/julianstephens/liftlit/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning means there is nobody to deliver the alert to.
var ErrTrayNotRunning = errors.New(constants.TrayProcessPrefix + " is not running")

// Kinds of alert understood by the tray app.
const (
	KindRest    = "rest"
	KindWorkout = "workout"
)

type Payload struct {
	Kind       string `json:"kind"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// trayLock is the parsed "port|pid|secret" lockfile written by the tray app.
type trayLock struct {
	Port   int
	PID    int
	Secret string
}

// Notifier delivers alerts to the local tray app over HTTP.
type Notifier struct {
	client  *http.Client
	lockDir func() (string, error)
	retries int
	delay   time.Duration
}

func New() *Notifier {
	return &Notifier{
		client:  &http.Client{Timeout: 2 * time.Second},
		lockDir: GetTrayAppConfigDir,
		retries: constants.NotifyMaxRetries,
		delay:   constants.NotifyRetryDelay,
	}
}

// RestOver tells the lifter their rest period has ended.
func (n *Notifier) RestOver(ctx context.Context, exerciseName string) error {
	text := "Rest over"
	if exerciseName != "" {
		text = fmt.Sprintf("Rest over: next set of %s", exerciseName)
	}
	return n.Notify(ctx, KindRest, text)
}

func (n *Notifier) Notify(ctx context.Context, kind, text string) error {
	dir, err := n.lockDir()
	if err != nil {
		return err
	}

	lock, err := readTrayLock(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := Payload{
		Kind:       kind,
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	}
	url := fmt.Sprintf("http://127.0.0.1:%d", lock.Port)

	var lastErr error
	for attempt := 0; attempt < n.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.delay):
			}
		}
		lastErr = n.send(ctx, url, lock.Secret, payload)
		if lastErr == nil {
			return nil
		}
		var status *statusError
		if errors.As(lastErr, &status) {
			// The tray answered, retrying will not change its mind
			return lastErr
		}
		logger.Debug("Notification attempt failed", "attempt", attempt+1, "error", lastErr)
	}
	return lastErr
}

// TrayStatus returns the port of a running tray app, or why it cannot be
// reached.
func (n *Notifier) TrayStatus() (int, error) {
	dir, err := n.lockDir()
	if err != nil {
		return 0, err
	}
	lock, err := readTrayLock(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return 0, err
	}
	return lock.Port, nil
}

// GetTrayAppConfigDir returns the directory holding the tray app lockfile.
// A lockfile_dir in the tray's settings.json overrides the default.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err != nil {
		logger.Debug("Ignoring unreadable tray settings", "error", err)
		return trayConfigDir, nil
	}
	if dir := store.Settings.LockfileDir; dir != nil && *dir != "" {
		return *dir, nil
	}
	return trayConfigDir, nil
}

func readTrayLock(path string) (trayLock, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return trayLock{}, ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return trayLock{}, errors.New("lockfile is malformed")
	}

	var lock trayLock
	if strings.TrimSpace(parts[0]) == "" {
		return trayLock{}, errors.New("port in lockfile is empty")
	}
	if lock.Port, err = strconv.Atoi(parts[0]); err != nil {
		return trayLock{}, errors.New("invalid port number in lockfile")
	}
	if lock.Port < 1 || lock.Port > 65535 {
		return trayLock{}, fmt.Errorf("port number %d is outside valid range (1-65535)", lock.Port)
	}
	if lock.PID, err = strconv.Atoi(parts[1]); err != nil {
		return trayLock{}, errors.New("invalid process ID in lockfile")
	}
	lock.Secret = strings.TrimSpace(parts[2])
	if lock.Secret == "" {
		return trayLock{}, errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(lock.PID)
	if err != nil || process == nil {
		return trayLock{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayProcessPrefix) {
		return trayLock{}, fmt.Errorf("process with PID %d is not %s (is %s)", lock.PID, constants.TrayProcessPrefix, process.Executable())
	}

	return lock, nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("notification failed with status %d: %s", e.code, e.body)
}

func (n *Notifier) send(ctx context.Context, url, secret string, payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Liftlit-Secret", secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return &statusError{code: res.StatusCode, body: string(body)}
}
