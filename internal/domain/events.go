package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchStarted   EventType = "SearchStarted"
	EventSearchCompleted EventType = "SearchCompleted"
	EventSearchFailed    EventType = "SearchFailed"
	EventPlaceSelected   EventType = "PlaceSelected"
	EventZoomChanged     EventType = "ZoomChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchStartedEvent is emitted when a query is submitted
type SearchStartedEvent struct {
	Query    string
	Sequence int
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchCompletedEvent is emitted when the search service answered
type SearchCompletedEvent struct {
	Query    string
	Sequence int
	Results  int
	Stale    bool // a newer search was submitted, results were dropped
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when the search call could not complete
type SearchFailedEvent struct {
	Query    string
	Sequence int
	Err      error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// PlaceSelectedEvent is emitted when the user picks a result
type PlaceSelectedEvent struct {
	Place Place
}

func (e PlaceSelectedEvent) Type() EventType { return EventPlaceSelected }

// ZoomChangedEvent is emitted when the map zoom is changed manually
type ZoomChangedEvent struct {
	Zoom int
}

func (e ZoomChangedEvent) Type() EventType { return EventZoomChanged }
