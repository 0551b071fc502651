package internal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"docbooth/internal/utils"
)

// Config holds the server configuration. Loaded once from config.json at the
// project root; absent fields keep their defaults; a few env vars override
// for deployment.
type Config struct {
	ListenAddr     string `json:"listenAddr"`
	DBPath         string `json:"dbPath"`
	LogPath        string `json:"logPath"`
	DropDir        string `json:"dropDir"`
	WatchDrop      bool   `json:"watchDrop"`
	BlobEncryption bool   `json:"blobEncryption"`
	TLS            bool   `json:"tls"`
	CertDir        string `json:"certDir"`
	ScreenWidth    int    `json:"screenWidth"`
	ScreenHeight   int    `json:"screenHeight"`
	SessionTTLMin  int    `json:"sessionTtlMinutes"`
}

var (
	config     Config
	configOnce sync.Once
)

func defaults() Config {
	data := utils.GetDataDir()
	return Config{
		ListenAddr:     ":8080",
		DBPath:         filepath.Join(data, "docbooth.db"),
		LogPath:        filepath.Join(data, "docbooth.log"),
		DropDir:        filepath.Join(data, "drop"),
		WatchDrop:      false,
		BlobEncryption: false,
		TLS:            false,
		CertDir:        filepath.Join(data, "certs"),
		ScreenWidth:    1920,
		ScreenHeight:   1080,
		SessionTTLMin:  240,
	}
}

// LoadConfig reads config.json and populates the Config struct.
func LoadConfig() Config {
	configOnce.Do(func() {
		config = defaults()
		path := filepath.Join(utils.GetProjectRoot(), "config.json")
		if f, err := os.Open(path); err == nil {
			defer f.Close()
			if err := json.NewDecoder(f).Decode(&config); err != nil {
				config = defaults()
			}
		}
		if addr := os.Getenv("DOCBOOTH_ADDR"); addr != "" {
			config.ListenAddr = addr
		}
		if db := os.Getenv("DOCBOOTH_DB"); db != "" {
			config.DBPath = db
		}
		if drop := os.Getenv("DOCBOOTH_DROP_DIR"); drop != "" {
			config.DropDir = drop
			config.WatchDrop = true
		}
		if config.SessionTTLMin <= 0 {
			config.SessionTTLMin = 240
		}
	})
	return config
}
