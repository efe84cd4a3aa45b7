// Package config provides configuration management for the table bridge.
//
// # Key Features
//
//   - BridgeConfig: single configuration structure for converters and lazy tables
//   - Environment variable substitution with ${VAR_NAME} syntax
//   - Automatic defaults and validation
//   - ZoneSettings: the preferred time zone, changed only through an explicit
//     notification that fans out to ZoneObserver implementations
//   - Watch: file watching through viper that forwards time.zone edits
//
// # Usage
//
//	cfg, err := config.LoadBridgeConfig("bridge.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	zone, err := config.NewZoneSettings(cfg.Time.Zone)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// ## Environment Variable Substitution
//
//	# bridge.yaml
//	conversion:
//	  workers: ${BRIDGE_WORKERS}
//	time:
//	  zone: Europe/Berlin
//
// # Time Zone Changes
//
// Time-of-day conversions read the zone from a ZoneProvider on every call.
// Nothing caches the offset, so a call to SetZone takes effect for the next
// conversion:
//
//	zone.Subscribe(config.ZoneObserverFunc(func(loc *time.Location) {
//		log.Printf("zone is now %s", loc)
//	}))
//	_ = zone.SetZone("America/New_York")
package config
