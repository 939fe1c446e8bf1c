package eventbus

import "log/slog"

var allEventTypes = []EventType{
	EventBasketChanged,
	EventCommitted,
	EventCancelled,
	EventCapacityExceeded,
	EventLookupFailed,
	EventResultDiscarded,
	EventSearchIssued,
	EventTabSwitched,
}

// LogEvents writes every picker event to logger. Call the returned func
// to unsubscribe.
func LogEvents(bus EventBus, logger *slog.Logger) func() {
	unsubs := make([]func(), 0, len(allEventTypes))
	for _, t := range allEventTypes {
		unsubs = append(unsubs, bus.Subscribe(t, func(e DomainEvent) {
			logEvent(logger, e)
		}))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func logEvent(logger *slog.Logger, e DomainEvent) {
	switch ev := e.(type) {
	case BasketChangedEvent:
		logger.Debug("event", "type", ev.Type(), "cause", ev.Cause, "codes", ev.Codes)
	case CommittedEvent:
		logger.Info("event", "type", ev.Type(), "codes", ev.Codes)
	case CapacityExceededEvent:
		logger.Info("event", "type", ev.Type(), "code", ev.Code, "size", ev.Size)
	case LookupFailedEvent:
		logger.Warn("event", "type", ev.Type(), "binding", ev.Binding, "error", ev.Err)
	case ResultDiscardedEvent:
		logger.Debug("event", "type", ev.Type(), "binding", ev.Binding, "generation", ev.Generation)
	case SearchIssuedEvent:
		logger.Debug("event", "type", ev.Type(), "query", ev.Query, "immediate", ev.Immediate)
	case TabSwitchedEvent:
		logger.Debug("event", "type", ev.Type(), "from", ev.From, "to", ev.To)
	default:
		logger.Info("event", "type", e.Type())
	}
}
