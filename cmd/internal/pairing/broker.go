// Package pairing implements the PairUp broker: it tracks live connections,
// queues clients waiting for a partner, forms pairs on an
// opposite-gender-first policy, and relays chat traffic between the two
// members of a pair until one of them skips or disconnects.
package pairing

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	v1 "pairup/shared/contracts/pair/v1"
)

// Broker owns all shared pairing state: the connection registry, the waiting
// pool, and the session table. Every mutating operation runs under one mutex
// so a match (dequeue + session write + dual notify) is atomic with respect
// to every other operation.
//
// Brokers are constructed once and passed by handle to the gateway; there are
// no package-level singletons, so tests run against isolated instances.
type Broker struct {
	log      *slog.Logger
	metrics  *Metrics
	notifier Notifier

	mu       sync.Mutex
	registry map[string]*Client // conn id -> live client
	waiting  *waitPool
	sessions map[string]string // conn id -> partner conn id, always symmetric
}

// NewBroker constructs an empty broker.
func NewBroker(log *slog.Logger, metrics *Metrics, notifier Notifier) *Broker {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Broker{
		log:      log,
		metrics:  metrics,
		notifier: notifier,
		registry: make(map[string]*Client),
		waiting:  newWaitPool(),
		sessions: make(map[string]string),
	}
}

// Register adds a freshly connected client to the registry and broadcasts the
// new connection count to every live client.
func (b *Broker) Register(c *Client) {
	b.mu.Lock()
	b.registry[c.ConnID] = c
	count := len(b.registry)
	b.metrics.ActiveConnections.Set(float64(count))
	b.announceActiveLocked(count)
	b.mu.Unlock()

	b.notifier.Notify(count)
	b.log.Info("broker.register", "conn_id", c.ConnID, "active", count)
}

// RequestPartner normalizes the raw gender input, lazily assigns a display
// name, and runs the match-or-wait sequence.
//
// A request from an already-paired client is treated as an implicit skip: the
// current pair is torn down (the partner is told it was left) before the new
// match attempt. A request from an already-waiting client drops the old queue
// slot first, so a client is never queued twice.
func (b *Broker) RequestPartner(c *Client, rawGender string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.registry[c.ConnID]; !ok {
		return
	}

	c.gender = NormalizeGender(rawGender)
	if c.username == "" {
		c.username = newDisplayName()
	}

	b.breakPairLocked(c)
	b.waiting.Remove(c)
	b.syncWaitingGaugeLocked()

	b.matchOrWaitLocked(c)
}

// Message relays a chat message from a paired client to its partner, tagged
// with the sender's display name. The room field must be present but routing
// is derived from the session table, never from the client-supplied value.
// Unpaired senders, missing rooms, and oversized messages are silently dropped.
func (b *Broker) Message(c *Client, room, text string) {
	if strings.TrimSpace(room) == "" {
		return
	}
	if len([]rune(text)) > maxMessageChars {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	partner := b.partnerLocked(c)
	if partner == nil {
		return
	}

	payload, _ := json.Marshal(v1.MessageEventPayload{User: c.username, Msg: text})
	trySend(partner, newEnvelope(v1.TypeMessage, payload))
	b.metrics.MessagesTotal.Inc()
}

// Typing relays a typing indicator from a paired client to its partner only.
func (b *Broker) Typing(c *Client, room string, typing bool) {
	if strings.TrimSpace(room) == "" {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	partner := b.partnerLocked(c)
	if partner == nil {
		return
	}

	payload, _ := json.Marshal(v1.TypingEventPayload{User: c.username, Typing: typing})
	trySend(partner, newEnvelope(v1.TypeTyping, payload))
	b.metrics.TypingTotal.Inc()
}

// Skip abandons the client's current pairing, notifies the abandoned partner,
// and immediately re-runs the match-or-wait sequence for the requester with
// its previously assigned gender class. The requester never silently rejoins
// its old room: it always attempts a fresh match first.
func (b *Broker) Skip(c *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.registry[c.ConnID]; !ok {
		return
	}

	b.metrics.SkipsTotal.Inc()
	b.breakPairLocked(c)

	// Skip before any findPartner leaves gender/name unset.
	if c.gender == "" {
		c.gender = GenderOther
	}
	if c.username == "" {
		c.username = newDisplayName()
	}

	b.waiting.Remove(c)
	b.syncWaitingGaugeLocked()

	b.matchOrWaitLocked(c)
}

// Disconnect purges every trace of a client: waiting pool slot, session table
// entry (with partner-left notification), and registry record. Idempotent: a
// second call for the same client is a no-op. No re-matching is attempted for
// the disconnecting client.
func (b *Broker) Disconnect(c *Client) {
	b.mu.Lock()
	if _, ok := b.registry[c.ConnID]; !ok {
		b.mu.Unlock()
		return
	}

	b.waiting.Remove(c)
	b.syncWaitingGaugeLocked()
	b.breakPairLocked(c)
	delete(b.registry, c.ConnID)

	count := len(b.registry)
	b.metrics.ActiveConnections.Set(float64(count))
	b.announceActiveLocked(count)
	b.mu.Unlock()

	b.notifier.Notify(count)
	b.log.Info("broker.disconnect", "conn_id", c.ConnID, "active", count)
}

// ActiveCount returns the number of live connections.
func (b *Broker) ActiveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.registry)
}

// PartnerOf returns the conn id of the client's current partner, if paired.
func (b *Broker) PartnerOf(c *Client) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.sessions[c.ConnID]
	return id, ok
}

// IsWaiting reports whether the client is queued in the waiting pool.
func (b *Broker) IsWaiting(c *Client) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.waiting.Contains(c)
}

// ---- internals (require b.mu) ----

// matchOrWaitLocked is the single source of truth for finding a partner:
// dequeue an opposite-class candidate, or enqueue and wait.
func (b *Broker) matchOrWaitLocked(c *Client) {
	candidate := b.waiting.DequeueOppositeOf(c.gender)
	if candidate == nil {
		b.waiting.Enqueue(c.gender, c)
		b.syncWaitingGaugeLocked()
		trySend(c, newEnvelope(v1.TypeWaiting, nil))
		b.log.Info("broker.waiting", "conn_id", c.ConnID, "gender", c.gender)
		return
	}
	b.syncWaitingGaugeLocked()

	room := roomID(c.ConnID, candidate.ConnID)
	b.sessions[c.ConnID] = candidate.ConnID
	b.sessions[candidate.ConnID] = c.ConnID

	b.sendChatStartLocked(c, candidate, room)
	b.sendChatStartLocked(candidate, c, room)

	b.metrics.MatchesTotal.Inc()
	b.log.Info("broker.match", "room", room, "conn_id", c.ConnID, "partner_conn_id", candidate.ConnID)
}

// breakPairLocked removes both directions of the client's session entry and
// notifies the abandoned partner. No-op when the client is not paired.
func (b *Broker) breakPairLocked(c *Client) {
	partnerID, ok := b.sessions[c.ConnID]
	if !ok {
		return
	}

	delete(b.sessions, c.ConnID)
	delete(b.sessions, partnerID)

	// Routing to an already-disconnected partner is a no-op, and the counter
	// only tracks notifications actually emitted.
	if partner := b.registry[partnerID]; partner != nil {
		trySend(partner, newEnvelope(v1.TypePartnerLeft, nil))
		b.metrics.PartnerLeftTotal.Inc()
	}
}

func (b *Broker) sendChatStartLocked(to, partner *Client, room string) {
	payload, _ := json.Marshal(v1.ChatStartPayload{
		Room:            room,
		Username:        to.username,
		PartnerUsername: partner.username,
		PartnerGender:   string(partner.gender),
	})
	trySend(to, newEnvelope(v1.TypeChatStart, payload))
}

// announceActiveLocked broadcasts the live connection count to every client.
func (b *Broker) announceActiveLocked(count int) {
	payload, _ := json.Marshal(v1.ActiveUsersPayload{Count: count})
	env := newEnvelope(v1.TypeActiveUsers, payload)
	for _, c := range b.registry {
		trySend(c, env)
	}
}

func (b *Broker) partnerLocked(c *Client) *Client {
	partnerID, ok := b.sessions[c.ConnID]
	if !ok {
		return nil
	}
	return b.registry[partnerID]
}

func (b *Broker) syncWaitingGaugeLocked() {
	for _, g := range genderScanOrder {
		b.metrics.WaitingClients.WithLabelValues(string(g)).Set(float64(b.waiting.Len(g)))
	}
}

// roomID derives the ephemeral routing key for a pairing from the two
// connection ids, requester first. It is never persisted.
func roomID(requesterID, candidateID string) string {
	return requesterID + "#" + candidateID
}

// trySend enqueues an envelope without ever blocking the broker. Clients that
// are shutting down or whose queue is full are skipped; a slow reader only
// loses its own events.
func trySend(c *Client, env v1.Envelope) bool {
	select {
	case <-c.Done():
		return false
	default:
	}

	select {
	case c.Send <- env:
		return true
	default:
		return false
	}
}

func newEnvelope(typ string, payload json.RawMessage) v1.Envelope {
	return v1.Envelope{
		V:       v1.Version,
		Type:    typ,
		ID:      NewRandomHex(10),
		TS:      time.Now().UTC(),
		Payload: payload,
	}
}
