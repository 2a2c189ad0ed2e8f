package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnknownEvent is returned for event names this client does not handle.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrMalformedPayload is returned when a payload fails validation.
	// The router logs and drops such frames without halting the loop.
	ErrMalformedPayload = errors.New("malformed payload")
)

// Decode parses a raw frame into its typed payload. The returned value
// is one of the payload structs in this package, already validated.
func Decode(frame []byte) (string, any, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if env.Event == "" {
		return "", nil, fmt.Errorf("%w: missing event name", ErrMalformedPayload)
	}
	payload, err := decodePayload(env.Event, env.Data)
	if err != nil {
		return env.Event, nil, err
	}
	return env.Event, payload, nil
}

func decodePayload(name string, data json.RawMessage) (any, error) {
	switch name {
	case NameMessage:
		var p ChatMessage
		if err := unmarshal(name, data, &p); err != nil {
			return nil, err
		}
		if p.MessageID == "" || p.SessionID == "" {
			return nil, fmt.Errorf("%w: %s requires messageId and sessionId", ErrMalformedPayload, name)
		}
		return p, nil
	case NameNewOrder, NameOrderUpdated:
		var p OrderPayload
		if err := unmarshal(name, data, &p); err != nil {
			return nil, err
		}
		if p.Order.ID == "" {
			return nil, fmt.Errorf("%w: %s requires order.id", ErrMalformedPayload, name)
		}
		return p, nil
	case NameStatusChange:
		var p StatusChange
		if err := unmarshal(name, data, &p); err != nil {
			return nil, err
		}
		if p.OrderID == "" || p.NewStatus == "" {
			return nil, fmt.Errorf("%w: %s requires orderId and newStatus", ErrMalformedPayload, name)
		}
		return p, nil
	case NameStatusNotification:
		var p StatusNotification
		if err := unmarshal(name, data, &p); err != nil {
			return nil, err
		}
		if p.Message == "" {
			return nil, fmt.Errorf("%w: %s requires message", ErrMalformedPayload, name)
		}
		return p, nil
	case NameTyping:
		var p Typing
		if err := unmarshal(name, data, &p); err != nil {
			return nil, err
		}
		if p.SessionID == "" {
			return nil, fmt.Errorf("%w: %s requires sessionId", ErrMalformedPayload, name)
		}
		return p, nil
	case NameSessionsUpdate:
		var p SessionsUpdate
		if err := unmarshal(name, data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case NameCustomerConnected, NameCustomerDisconnected:
		var p Presence
		if err := unmarshal(name, data, &p); err != nil {
			return nil, err
		}
		if p.SessionID == "" {
			return nil, fmt.Errorf("%w: %s requires sessionId", ErrMalformedPayload, name)
		}
		return p, nil
	case NameInit:
		var p Init
		if err := unmarshal(name, data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case NameRegisterAdmin:
		var p RegisterAdmin
		if err := unmarshal(name, data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case NameGetSessions:
		return struct{}{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, name)
	}
}

func unmarshal(name string, data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: %s has no payload", ErrMalformedPayload, name)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedPayload, name, err)
	}
	return nil
}
