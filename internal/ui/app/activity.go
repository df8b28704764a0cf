package app

import (
	"github.com/rs/zerolog"

	"mapsexplorer/internal/eventbus"
)

// LogActivity subscribes to every domain event and writes it to log. The
// returned function removes the subscriptions.
func LogActivity(bus eventbus.EventBus, log zerolog.Logger) func() {
	log = log.With().Str("component", "activity").Logger()

	unsubs := []func(){
		bus.Subscribe(eventbus.EventSearchStarted, func(e eventbus.DomainEvent) {
			ev := e.(eventbus.SearchStartedEvent)
			log.Info().Str("query", ev.Query).Int("seq", ev.Sequence).Msg("search started")
		}),
		bus.Subscribe(eventbus.EventSearchCompleted, func(e eventbus.DomainEvent) {
			ev := e.(eventbus.SearchCompletedEvent)
			log.Info().Str("query", ev.Query).Int("seq", ev.Sequence).Int("results", ev.Results).Bool("stale", ev.Stale).Msg("search completed")
		}),
		bus.Subscribe(eventbus.EventSearchFailed, func(e eventbus.DomainEvent) {
			ev := e.(eventbus.SearchFailedEvent)
			log.Warn().Err(ev.Err).Str("query", ev.Query).Int("seq", ev.Sequence).Msg("search failed")
		}),
		bus.Subscribe(eventbus.EventPlaceSelected, func(e eventbus.DomainEvent) {
			ev := e.(eventbus.PlaceSelectedEvent)
			log.Info().Str("place", ev.Place.Name).Stringer("at", ev.Place.Coordinate()).Msg("place selected")
		}),
		bus.Subscribe(eventbus.EventZoomChanged, func(e eventbus.DomainEvent) {
			ev := e.(eventbus.ZoomChangedEvent)
			log.Debug().Int("zoom", ev.Zoom).Msg("zoom changed")
		}),
	}

	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
