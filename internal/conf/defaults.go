package conf

import (
	"github.com/spf13/viper"

	"github.com/tphakala/squeakmerge/internal/logger"
)

// SetDefaults registers default values for every settings key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("config_file", "")
	v.SetDefault("debug", false)

	v.SetDefault("output.prefix", "")
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.summary", true)

	v.SetDefault("log.level", logger.DefaultLogLevel)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", logger.DefaultMaxSize)
	v.SetDefault("log.max_backups", logger.DefaultMaxBackups)
	v.SetDefault("log.max_age", logger.DefaultMaxAge)
	v.SetDefault("log.compress", false)
}
