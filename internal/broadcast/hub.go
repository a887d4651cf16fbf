package broadcast

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/devboard/internal/domain"
	"github.com/pscheid92/devboard/internal/metrics"
)

const (
	eventBufferSize = 16
	commandTimeout  = 5 * time.Second
	stopTimeout     = 10 * time.Second
)

// hubCmd is the command interface for the Hub actor.
type hubCmd interface{ isHubCmd() }

type baseHubCmd struct{}

func (baseHubCmd) isHubCmd() {}

type registration struct {
	id     uuid.UUID
	events <-chan domain.Event
}

type registerCmd struct {
	baseHubCmd
	replyChannel chan registration
}

type unregisterCmd struct {
	baseHubCmd
	id uuid.UUID
}

type broadcastCmd struct {
	baseHubCmd
	event domain.Event
}

type clientCountCmd struct {
	baseHubCmd
	replyChannel chan int
}

type stopCmd struct {
	baseHubCmd
}

// Hub is the registry and fan-out mechanism for streaming clients.
type Hub struct {
	cmdCh             chan hubCmd
	clock             clockwork.Clock
	clients           map[uuid.UUID]chan domain.Event
	heartbeatInterval time.Duration
	done              chan struct{}
}

func NewHub(clock clockwork.Clock, heartbeatInterval time.Duration) *Hub {
	h := &Hub{
		cmdCh:             make(chan hubCmd, 256),
		clock:             clock,
		clients:           make(map[uuid.UUID]chan domain.Event),
		heartbeatInterval: heartbeatInterval,
		done:              make(chan struct{}),
	}
	go h.run()
	return h
}

// Register adds a client and returns its id and event sink. The first event
// delivered on the sink is always a connected notification to that client
// alone.
func (h *Hub) Register() (uuid.UUID, <-chan domain.Event, error) {
	replyCh := make(chan registration, 1)
	h.cmdCh <- registerCmd{replyChannel: replyCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case reg := <-replyCh:
		return reg.id, reg.events, nil
	case <-timer.Chan():
		return uuid.Nil, nil, fmt.Errorf("register command timed out after %v", commandTimeout)
	}
}

// Unregister removes a client. Idempotent.
func (h *Hub) Unregister(id uuid.UUID) {
	h.cmdCh <- unregisterCmd{id: id}
}

// Broadcast sends event to every registered client. A client whose sink is
// full or gone is removed immediately; its failure never blocks or errors
// delivery to the others.
func (h *Hub) Broadcast(event domain.Event) {
	h.cmdCh <- broadcastCmd{event: event}
}

// ClientCount returns the number of registered clients, or -1 on timeout.
func (h *Hub) ClientCount() int {
	replyCh := make(chan int, 1)
	h.cmdCh <- clientCountCmd{replyChannel: replyCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-replyCh:
		return count
	case <-timer.Chan():
		slog.Warn("ClientCount timed out", "timeout", commandTimeout)
		return -1
	}
}

// Stop shuts down the hub, closing all client sinks. Blocks until the hub
// goroutine has exited or the timeout is reached.
func (h *Hub) Stop() {
	h.cmdCh <- stopCmd{}

	timer := h.clock.NewTimer(stopTimeout)
	defer timer.Stop()

	select {
	case <-h.done:
		slog.Info("Hub stopped gracefully")
	case <-timer.Chan():
		slog.Warn("Hub stop timeout exceeded", "timeout", stopTimeout)
	}
}

func (h *Hub) run() {
	ticker := h.clock.NewTicker(h.heartbeatInterval)
	defer ticker.Stop()
	defer close(h.done)

	for {
		select {
		case cmd := <-h.cmdCh:
			switch c := cmd.(type) {
			case registerCmd:
				h.handleRegister(c)
			case unregisterCmd:
				h.handleUnregister(c.id)
			case broadcastCmd:
				metrics.HubBroadcastsTotal.Inc()
				h.deliver(c.event)
			case clientCountCmd:
				c.replyChannel <- len(h.clients)
			case stopCmd:
				h.handleStop()
				return
			default:
				slog.Warn("Hub received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
			}
		case <-ticker.Chan():
			metrics.HubHeartbeatsTotal.Inc()
			h.deliver(domain.Event{Type: domain.EventHeartbeat})
		}
	}
}

func (h *Hub) handleRegister(c registerCmd) {
	id := uuid.New()
	events := make(chan domain.Event, eventBufferSize)
	h.clients[id] = events

	// Fresh buffer, guaranteed room for the initial notification.
	events <- domain.Event{Type: domain.EventConnected}

	metrics.HubConnectedClients.Set(float64(len(h.clients)))
	slog.Debug("Client registered", "client_id", id.String(), "total_clients", len(h.clients))

	c.replyChannel <- registration{id: id, events: events}
}

func (h *Hub) handleUnregister(id uuid.UUID) {
	events, exists := h.clients[id]
	if !exists {
		return
	}

	delete(h.clients, id)
	close(events)

	metrics.HubConnectedClients.Set(float64(len(h.clients)))
	slog.Debug("Client unregistered", "client_id", id.String(), "remaining_clients", len(h.clients))
}

// deliver fans out one event with per-client failure isolation: dead or slow
// clients are collected during iteration and removed afterwards.
func (h *Hub) deliver(event domain.Event) {
	var dead []uuid.UUID
	for id, events := range h.clients {
		select {
		case events <- event:
		default:
			dead = append(dead, id)
		}
	}

	for _, id := range dead {
		slog.Warn("Pruning unresponsive client", "client_id", id.String())
		metrics.HubClientsPrunedTotal.Inc()
		h.handleUnregister(id)
	}
}

func (h *Hub) handleStop() {
	slog.Info("Hub shutting down", "clients", len(h.clients))
	for id, events := range h.clients {
		delete(h.clients, id)
		close(events)
	}
	metrics.HubConnectedClients.Set(0)
}
