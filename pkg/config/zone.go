package config

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ZoneProvider gives time-of-day conversions access to the preferred time
// zone. Implementations must be safe for concurrent use; callers read it on
// every conversion and never cache the result.
type ZoneProvider interface {
	// Location returns the preferred time zone.
	Location() *time.Location
	// RawOffset returns the standard (non daylight saving) offset from UTC.
	RawOffset() time.Duration
}

// ZoneObserver is notified after the preferred time zone changed.
type ZoneObserver interface {
	ZoneChanged(loc *time.Location)
}

// ZoneObserverFunc adapts a function to ZoneObserver.
type ZoneObserverFunc func(loc *time.Location)

// ZoneChanged calls f(loc).
func (f ZoneObserverFunc) ZoneChanged(loc *time.Location) { f(loc) }

type zoneState struct {
	loc *time.Location
	raw time.Duration
}

// ZoneSettings holds the process preferred time zone. The value only changes
// through SetZone or SetLocation, which act as the configuration-change
// notification and inform all subscribed observers.
type ZoneSettings struct {
	state atomic.Pointer[zoneState]

	mu        sync.Mutex
	observers []ZoneObserver
}

// NewZoneSettings creates settings for the named IANA zone.
func NewZoneSettings(name string) (*ZoneSettings, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", name, err)
	}
	return NewZoneSettingsFor(loc), nil
}

// NewZoneSettingsFor creates settings for loc.
func NewZoneSettingsFor(loc *time.Location) *ZoneSettings {
	z := &ZoneSettings{}
	z.state.Store(newZoneState(loc))
	return z
}

// UTC returns settings fixed to UTC until changed.
func UTC() *ZoneSettings {
	return NewZoneSettingsFor(time.UTC)
}

// Location implements ZoneProvider.
func (z *ZoneSettings) Location() *time.Location {
	return z.state.Load().loc
}

// RawOffset implements ZoneProvider.
func (z *ZoneSettings) RawOffset() time.Duration {
	return z.state.Load().raw
}

// SetZone switches to the named zone and notifies observers.
func (z *ZoneSettings) SetZone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("invalid time zone %q: %w", name, err)
	}
	z.SetLocation(loc)
	return nil
}

// SetLocation switches to loc and notifies observers. Observers run on the
// calling goroutine in subscription order.
func (z *ZoneSettings) SetLocation(loc *time.Location) {
	z.state.Store(newZoneState(loc))

	z.mu.Lock()
	observers := make([]ZoneObserver, len(z.observers))
	copy(observers, z.observers)
	z.mu.Unlock()

	for _, o := range observers {
		o.ZoneChanged(loc)
	}
}

// Subscribe registers an observer for zone changes.
func (z *ZoneSettings) Subscribe(o ZoneObserver) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.observers = append(z.observers, o)
}

func newZoneState(loc *time.Location) *zoneState {
	if loc == nil {
		loc = time.UTC
	}
	return &zoneState{loc: loc, raw: rawOffset(loc, time.Now().Year())}
}

// rawOffset approximates the standard offset of loc as the smaller of the
// January and July offsets of year; daylight saving always adds to it.
func rawOffset(loc *time.Location, year int) time.Duration {
	_, jan := time.Date(year, time.January, 1, 0, 0, 0, 0, loc).Zone()
	_, jul := time.Date(year, time.July, 1, 0, 0, 0, 0, loc).Zone()
	if jul < jan {
		jan = jul
	}
	return time.Duration(jan) * time.Second
}
