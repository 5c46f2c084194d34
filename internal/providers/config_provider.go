package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"goodsync/internal/structures"
	"path/filepath"
	"strings"
	"time"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("enka.baseUrl", "https://enka.network")
	v.SetDefault("enka.timeout", 15*time.Second)
	v.SetDefault("enka.userAgent", structures.AppName+"/"+structures.AppVersion)
	v.SetDefault("tables.path", "tables.json.zst")
	v.SetDefault("output.dir", ".")
	v.SetDefault("poll.defaultInterval", 120*time.Second)
	v.SetDefault("poll.margin", time.Second)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "logs")
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8095)
	v.SetDefault("cache.size", 16)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	v.BindEnv("account.uid", "GOODSYNC_UID")
	v.BindEnv("logger.level", "GOODSYNC_LOG_LEVEL")
	v.BindEnv("output.dir", "GOODSYNC_OUTPUT_DIR")
	v.BindEnv("enka.baseUrl", "GOODSYNC_ENKA_URL")
	v.BindEnv("tables.path", "GOODSYNC_TABLES")

	if flags.ConfigPath != "" {
		filename := filepath.Base(flags.ConfigPath)
		v.AddConfigPath(filepath.Dir(flags.ConfigPath))
		v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
		v.SetConfigType("yaml")

		err := v.ReadInConfig()
		if err != nil {
			return nil, err
		}
	}

	err := v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if flags.UID != "" {
		conf.Account.UID = flags.UID
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = structures.AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode
	conf.Once = flags.Once

	return &conf, nil
}
