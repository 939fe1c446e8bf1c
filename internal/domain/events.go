package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventBasketChanged    EventType = "BasketChanged"
	EventCommitted        EventType = "Committed"
	EventCancelled        EventType = "Cancelled"
	EventCapacityExceeded EventType = "CapacityExceeded"
	EventLookupFailed     EventType = "LookupFailed"
	EventResultDiscarded  EventType = "ResultDiscarded"
	EventSearchIssued     EventType = "SearchIssued"
	EventTabSwitched      EventType = "TabSwitched"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// BasketChangedEvent is emitted after every applied basket mutation
type BasketChangedEvent struct {
	Codes []Code
	Cause string // append, remove, combine, replace
}

func (e BasketChangedEvent) Type() EventType { return EventBasketChanged }

// CommittedEvent is emitted when the basket is handed to the host
type CommittedEvent struct {
	Codes []Code
}

func (e CommittedEvent) Type() EventType { return EventCommitted }

// CancelledEvent is emitted when the picker closes without committing
type CancelledEvent struct{}

func (e CancelledEvent) Type() EventType { return EventCancelled }

// CapacityExceededEvent is emitted when an append is rejected
type CapacityExceededEvent struct {
	Code Code
	Size int
}

func (e CapacityExceededEvent) Type() EventType { return EventCapacityExceeded }

// LookupFailedEvent is emitted when a remote lookup rejects
type LookupFailedEvent struct {
	Binding string
	Err     error
}

func (e LookupFailedEvent) Type() EventType { return EventLookupFailed }

// ResultDiscardedEvent is emitted when a superseded lookup completes
type ResultDiscardedEvent struct {
	Binding    string
	Generation uint64
}

func (e ResultDiscardedEvent) Type() EventType { return EventResultDiscarded }

// SearchIssuedEvent is emitted when a search request leaves the coordinator
type SearchIssuedEvent struct {
	Query     string
	Immediate bool
}

func (e SearchIssuedEvent) Type() EventType { return EventSearchIssued }

// TabSwitchedEvent is emitted when the active browse tab changes
type TabSwitchedEvent struct {
	From string
	To   string
}

func (e TabSwitchedEvent) Type() EventType { return EventTabSwitched }
