package session

import (
	"time"

	"github.com/lox/vegasjack/internal/game"
	"github.com/lox/vegasjack/internal/minigame"
)

// EventType identifies a session event
type EventType string

const (
	EventTypeRoundStarted           EventType = "round_started"
	EventTypeRoundSettled           EventType = "round_settled"
	EventTypeWealthThresholdReached EventType = "wealth_threshold_reached"
	EventTypeUpkeepCharged          EventType = "upkeep_charged"
	EventTypeBankruptcy             EventType = "bankruptcy"
	EventTypeRecoveryGranted        EventType = "recovery_granted"
	EventTypeSessionOver            EventType = "session_over"
)

func (et EventType) String() string {
	return string(et)
}

// Event is anything published on the session's bus
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// RoundStartedEvent is published after the initial deal
type RoundStartedEvent struct {
	RoundID   string
	Bet       int
	timestamp time.Time
}

func (e RoundStartedEvent) EventType() EventType { return EventTypeRoundStarted }
func (e RoundStartedEvent) Timestamp() time.Time { return e.timestamp }

// RoundSettledEvent is published once the bet has been paid or collected
type RoundSettledEvent struct {
	RoundID   string
	Outcome   game.Outcome
	Bet       int
	Delta     int
	Bankroll  int
	timestamp time.Time
}

func (e RoundSettledEvent) EventType() EventType { return EventTypeRoundSettled }
func (e RoundSettledEvent) Timestamp() time.Time { return e.timestamp }

// WealthThresholdReachedEvent is published the one time the player buys the house
type WealthThresholdReachedEvent struct {
	Bankroll  int
	Threshold int
	timestamp time.Time
}

func (e WealthThresholdReachedEvent) EventType() EventType { return EventTypeWealthThresholdReached }
func (e WealthThresholdReachedEvent) Timestamp() time.Time { return e.timestamp }

// UpkeepChargedEvent is published for every round played while the asset is owned
type UpkeepChargedEvent struct {
	Amount    int
	Bankroll  int
	timestamp time.Time
}

func (e UpkeepChargedEvent) EventType() EventType { return EventTypeUpkeepCharged }
func (e UpkeepChargedEvent) Timestamp() time.Time { return e.timestamp }

// BankruptcyEvent is published when the bankroll is exhausted and a
// recovery challenge begins
type BankruptcyEvent struct {
	MiniGame  minigame.Kind
	Attempt   int
	Bankroll  int
	timestamp time.Time
}

func (e BankruptcyEvent) EventType() EventType { return EventTypeBankruptcy }
func (e BankruptcyEvent) Timestamp() time.Time { return e.timestamp }

// RecoveryGrantedEvent is published when a recovery challenge is won
type RecoveryGrantedEvent struct {
	MiniGame  minigame.Kind
	Bankroll  int
	timestamp time.Time
}

func (e RecoveryGrantedEvent) EventType() EventType { return EventTypeRecoveryGranted }
func (e RecoveryGrantedEvent) Timestamp() time.Time { return e.timestamp }

// OverReason says why a session ended
type OverReason string

const (
	OverRecoveryFailed OverReason = "recovery_failed"
	OverQuit           OverReason = "quit"
)

// SessionOverEvent is published exactly once, when the session ends
type SessionOverEvent struct {
	Reason    OverReason
	Bankroll  int
	Rounds    int
	timestamp time.Time
}

func (e SessionOverEvent) EventType() EventType { return EventTypeSessionOver }
func (e SessionOverEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber receives session events
type EventSubscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a function to an EventSubscriber
type SubscriberFunc func(event Event)

func (f SubscriberFunc) OnEvent(event Event) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event Event)
}

// SimpleEventBus delivers events synchronously in subscription order
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber. Function subscribers cannot be compared
// and are never removed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	if _, ok := subscriber.(SubscriberFunc); ok {
		return
	}
	for i, sub := range bus.subscribers {
		if _, ok := sub.(SubscriberFunc); ok {
			continue
		}
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event Event) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// EventLog is a subscriber that records every event, for tests and the
// simulator
type EventLog struct {
	Events []Event
}

func (l *EventLog) OnEvent(event Event) {
	l.Events = append(l.Events, event)
}

// Types returns the recorded event types in order
func (l *EventLog) Types() []EventType {
	types := make([]EventType, len(l.Events))
	for i, e := range l.Events {
		types[i] = e.EventType()
	}
	return types
}

// Reset forgets recorded events
func (l *EventLog) Reset() {
	l.Events = nil
}
