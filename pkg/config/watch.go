package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const zoneKey = "time.zone"

// Watch loads the configuration file at path and keeps zone in sync with its
// time.zone key. Every file change that modifies the zone triggers
// zone.SetZone, which in turn notifies the zone observers. The returned viper
// instance can be used to read the remaining settings.
func Watch(path string, zone *ZoneSettings, log *zap.Logger) (*viper.Viper, error) {
	if zone == nil {
		return nil, fmt.Errorf("zone settings are required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault(zoneKey, "UTC")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := zone.SetZone(v.GetString(zoneKey)); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		name := v.GetString(zoneKey)
		if name == zone.Location().String() {
			return
		}
		if err := zone.SetZone(name); err != nil {
			log.Warn("ignoring invalid time zone from config",
				zap.String("file", e.Name),
				zap.String("zone", name),
				zap.Error(err))
			return
		}
		log.Info("preferred time zone changed",
			zap.String("file", e.Name),
			zap.String("zone", name))
	})
	v.WatchConfig()

	return v, nil
}
