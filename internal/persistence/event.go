package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/suderio/loot-table/internal/engine"
)

// EventWrapper facilitates serialization of polymorphic events
type EventWrapper struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// WrapEvents marshals each event with its type discriminator.
func WrapEvents(events []engine.Event) ([]EventWrapper, error) {
	out := make([]EventWrapper, 0, len(events))
	for _, evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", evt.Type(), err)
		}
		out = append(out, EventWrapper{Type: evt.Type(), Data: data})
	}
	return out, nil
}

// UnwrapEvents reverses WrapEvents.
func UnwrapEvents(wrapped []EventWrapper) ([]engine.Event, error) {
	out := make([]engine.Event, 0, len(wrapped))
	for _, w := range wrapped {
		evt, err := unmarshalEvent(w.Type, w.Data)
		if err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, nil
}

// unmarshalEvent reconstructs a concrete Event from its type discriminator and JSON data.
func unmarshalEvent(typeName string, data json.RawMessage) (engine.Event, error) {
	var evt engine.Event

	switch typeName {
	case "ResetEvent":
		evt = &engine.ResetEvent{}
	case "VariableSetEvent":
		evt = &engine.VariableSetEvent{}
	case "TableRolledEvent":
		evt = &engine.TableRolledEvent{}
	case "DiceRolledEvent":
		evt = &engine.DiceRolledEvent{}
	case "ValueSavedEvent":
		evt = &engine.ValueSavedEvent{}
	case "ListAppendedEvent":
		evt = &engine.ListAppendedEvent{}
	case "NumberAddedEvent":
		evt = &engine.NumberAddedEvent{}
	case "IndexAppliedEvent":
		evt = &engine.IndexAppliedEvent{}
	default:
		return nil, fmt.Errorf("unknown event type in log: %s", typeName)
	}

	if err := json.Unmarshal(data, evt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", typeName, err)
	}
	return evt, nil
}
