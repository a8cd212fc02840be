// Package v1 defines the PairUp realtime protocol v1 contract.
//
// This package is intentionally stable and dependency-light.
// It is shared between server and clients to keep the wire protocol authoritative.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Version is the protocol version identifier embedded into every envelope.
const Version = "v1"

// Type constants (wire-stable, matching the original PairUp event names).
const (
	// TypeFindPartner asks the broker for a partner (client -> server).
	TypeFindPartner = "findPartner"
	// TypeMessage is a chat message. Client -> server it carries {room, msg};
	// server -> room members it carries {user, msg}.
	TypeMessage = "message"
	// TypeTyping is a typing indicator. Client -> server it carries
	// {room, typing}; server -> partner it carries {user, typing}.
	TypeTyping = "typing"
	// TypeSkip abandons the current partner and requests a new one (client -> server).
	TypeSkip = "skip"

	// TypeWaiting tells a client it is enqueued with no match yet (server -> client).
	TypeWaiting = "waiting"
	// TypeChatStart announces a new pairing to both members (server -> client).
	TypeChatStart = "chatStart"
	// TypePartnerLeft tells a client its partner skipped or disconnected (server -> client).
	TypePartnerLeft = "partnerLeft"
	// TypeActiveUsers broadcasts the live connection count (server -> all clients).
	TypeActiveUsers = "activeUsers"
)

// Envelope is the canonical wire wrapper.
type Envelope struct {
	V       string          `json:"v"`
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	TS      time.Time       `json:"ts,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Validate performs strict structural validation for an Envelope.
func (e Envelope) Validate() error {
	if strings.TrimSpace(e.V) == "" {
		return errors.New("missing field: v")
	}
	if e.V != Version {
		return fmt.Errorf("unsupported protocol version: %q", e.V)
	}
	if strings.TrimSpace(e.Type) == "" {
		return errors.New("missing field: type")
	}

	switch e.Type {
	case TypeFindPartner,
		TypeMessage,
		TypeTyping,
		TypeSkip,
		TypeWaiting,
		TypeChatStart,
		TypePartnerLeft,
		TypeActiveUsers:
		return nil
	default:
		return fmt.Errorf("unknown type: %q", e.Type)
	}
}

// ---- Payloads ----

// FindPartnerPayload carries the raw free-text gender input.
// Normalization to a gender class happens server-side.
type FindPartnerPayload struct {
	Gender string `json:"gender"`
}

// MessageSendPayload requests relaying a chat message to the sender's room.
// Room is required to be present but routing is keyed by sender identity.
type MessageSendPayload struct {
	Room string `json:"room"`
	Msg  string `json:"msg"`
}

// TypingSendPayload requests relaying a typing indicator to the sender's partner.
type TypingSendPayload struct {
	Room   string `json:"room"`
	Typing bool   `json:"typing"`
}

// SkipPayload abandons the current pairing.
type SkipPayload struct {
	Room string `json:"room"`
}

// WaitingPayload is intentionally empty.
type WaitingPayload struct{}

// ChatStartPayload announces a pairing. Each member receives its own view:
// Username is the recipient's name, PartnerUsername/PartnerGender describe
// the other member.
type ChatStartPayload struct {
	Room            string `json:"room"`
	Username        string `json:"username"`
	PartnerUsername string `json:"partnerUsername"`
	PartnerGender   string `json:"partnerGender"`
}

// MessageEventPayload is a relayed chat message (server -> room members).
type MessageEventPayload struct {
	User string `json:"user"`
	Msg  string `json:"msg"`
}

// TypingEventPayload is a relayed typing indicator (server -> partner).
type TypingEventPayload struct {
	User   string `json:"user"`
	Typing bool   `json:"typing"`
}

// PartnerLeftPayload is intentionally empty.
type PartnerLeftPayload struct{}

// ActiveUsersPayload carries the live connection count.
type ActiveUsersPayload struct {
	Count int `json:"count"`
}
