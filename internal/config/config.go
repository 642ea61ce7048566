package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-payments-engine/pkg/logger"
	"github.com/JoeShih716/go-payments-engine/pkg/mysql"
)

// DefaultPath 預設設定檔位置 (相對於工作目錄)
const DefaultPath = "config/config.yaml"

type Config struct {
	Log     logger.Config `yaml:"log"`
	Journal Journal       `yaml:"journal"`
	MySQL   mysql.Config  `yaml:"mysql"`
}

// Journal 已套用交易的紀錄檔設定，Path 為空時不寫
type Journal struct {
	Path          string `yaml:"path"`
	SyncEachWrite bool   `yaml:"sync_each_write"`
}

// Default 沒有設定檔時使用的設定
func Default() Config {
	cfg := Config{
		Log: logger.Config{
			Level:  "info",
			Format: "json",
		},
	}
	cfg.MySQL.ApplyDefaults()
	return cfg
}

// Load 讀取設定檔，檔案不存在時回傳預設值
func Load(path string) (Config, error) {
	cfg := Default()

	cfgData, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	// 補全 MySQL 預設配置 (如果 yaml 沒寫)
	cfg.MySQL.ApplyDefaults()
	return cfg, nil
}
