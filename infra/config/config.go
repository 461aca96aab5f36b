package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/CrestNiraj12/feedmirror/domain"
)

const (
	defaultAPIURL    = "https://feeds.example.com"
	defaultRateLimit = 10
)

// Config holds application-level configuration.
type Config struct {
	APIURL    string // e.g. "https://feeds.example.com"
	WSURL     string // e.g. "wss://feeds.example.com/connect"
	APIKey    string
	APISecret string // when set, user tokens are minted locally
	UserID    string
	TokenPath string // Path to file containing the user token
	Feed      domain.FeedID
	RateLimit float64 // requests per second
	LogLevel  slog.Level
	LogPath   string
	StatePath string // watcher prefs
}

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory.
//
//	FEEDMIRROR_API_URL     - REST base URL (default: https://feeds.example.com)
//	FEEDMIRROR_WS_URL      - websocket URL (default: wss://<api host>/connect)
//	FEEDMIRROR_API_KEY     - API key sent with every request
//	FEEDMIRROR_USER_ID     - current user (required)
//	FEEDMIRROR_TOKEN       - path to token file (default: ~/.config/feedmirror/token)
//	FEEDMIRROR_API_SECRET  - mint user tokens instead of reading FEEDMIRROR_TOKEN
//	FEEDMIRROR_FEED        - feed to watch (default: user:<user id>)
//	FEEDMIRROR_RATE_LIMIT  - REST requests per second (default: 10)
//	FEEDMIRROR_LOG_LEVEL   - debug, info, warn or error (default: info)
//	FEEDMIRROR_LOG_PATH    - log file (default: ~/.config/feedmirror/feedmirror.log)
//	FEEDMIRROR_STATE_PATH  - watcher prefs (default: ~/.config/feedmirror/ui_state.json)
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	apiURL := os.Getenv("FEEDMIRROR_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	parsed, err := url.Parse(apiURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("invalid FEEDMIRROR_API_URL: must be an absolute URL")
	}
	if parsed.Scheme != "https" {
		return Config{}, fmt.Errorf("invalid FEEDMIRROR_API_URL: only https is allowed")
	}
	apiURL = strings.TrimRight(parsed.String(), "/")

	wsURL := os.Getenv("FEEDMIRROR_WS_URL")
	if wsURL == "" {
		wsURL = "wss://" + parsed.Host + "/connect"
	} else if ws, err := url.Parse(wsURL); err != nil || (ws.Scheme != "wss" && ws.Scheme != "ws") || ws.Host == "" {
		return Config{}, fmt.Errorf("invalid FEEDMIRROR_WS_URL: must be a ws or wss URL")
	}

	userID := strings.TrimSpace(os.Getenv("FEEDMIRROR_USER_ID"))
	if userID == "" {
		return Config{}, fmt.Errorf("FEEDMIRROR_USER_ID is required")
	}

	dir, err := configDir()
	if err != nil {
		return Config{}, err
	}

	tokenPath := os.Getenv("FEEDMIRROR_TOKEN")
	if tokenPath == "" {
		tokenPath = filepath.Join(dir, "token")
	}

	feed := domain.FeedID{Group: "user", ID: userID}
	if raw := os.Getenv("FEEDMIRROR_FEED"); raw != "" {
		if feed, err = domain.ParseFeedID(raw); err != nil {
			return Config{}, fmt.Errorf("invalid FEEDMIRROR_FEED: %w", err)
		}
	}

	rateLimit := float64(defaultRateLimit)
	if raw := os.Getenv("FEEDMIRROR_RATE_LIMIT"); raw != "" {
		rateLimit, err = strconv.ParseFloat(raw, 64)
		if err != nil || rateLimit <= 0 {
			return Config{}, fmt.Errorf("invalid FEEDMIRROR_RATE_LIMIT: must be a positive number")
		}
	}

	var level slog.Level
	if raw := os.Getenv("FEEDMIRROR_LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return Config{}, fmt.Errorf("invalid FEEDMIRROR_LOG_LEVEL: %w", err)
		}
	}

	logPath := os.Getenv("FEEDMIRROR_LOG_PATH")
	if logPath == "" {
		logPath = filepath.Join(dir, "feedmirror.log")
	}
	statePath := os.Getenv("FEEDMIRROR_STATE_PATH")
	if statePath == "" {
		statePath = filepath.Join(dir, "ui_state.json")
	}

	return Config{
		APIURL:    apiURL,
		WSURL:     wsURL,
		APIKey:    os.Getenv("FEEDMIRROR_API_KEY"),
		APISecret: os.Getenv("FEEDMIRROR_API_SECRET"),
		UserID:    userID,
		TokenPath: tokenPath,
		Feed:      feed,
		RateLimit: rateLimit,
		LogLevel:  level,
		LogPath:   logPath,
		StatePath: statePath,
	}, nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "feedmirror"), nil
}

// UIState is what the inspector remembers between runs.
type UIState struct {
	Feed string `json:"feed,omitempty"`
}

// LoadUIState reads the saved state. A missing file is an empty state.
func LoadUIState(path string) (UIState, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return UIState{}, nil
	}
	if err != nil {
		return UIState{}, fmt.Errorf("reading ui state: %w", err)
	}
	var st UIState
	if err := json.Unmarshal(data, &st); err != nil {
		return UIState{}, fmt.Errorf("parsing ui state %s: %w", path, err)
	}
	return st, nil
}

// SaveUIState writes st to path, creating the parent directory.
func SaveUIState(path string, st UIState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
