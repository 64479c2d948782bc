package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg。
// HOMEPORT_CONFIG_DIR 可覆盖默认的 ./configs 查找路径，
// 环境变量按 HOMEPORT_SECTION_KEY 的形式覆盖文件里的同名配置。
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if dir := os.Getenv("HOMEPORT_CONFIG_DIR"); dir != "" {
		viper.AddConfigPath(dir)
	}
	viper.AddConfigPath("./configs")

	viper.SetEnvPrefix("HOMEPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}
