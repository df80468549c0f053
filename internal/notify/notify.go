// Package notify delivers binding change notifications.
//
// Observers subscribe to every change or to the changes of one player and
// are called whenever a player's effective bindings may have changed:
// registration, rebinds, preset switches, key group switches and preset
// reloads.
package notify

import (
	"sync"

	"github.com/dshills/keybind/internal/input/key"
)

// ChangeType represents the kind of binding change.
type ChangeType int

const (
	// ChangeRegister indicates a player was attached.
	ChangeRegister ChangeType = iota

	// ChangeUnregister indicates a player was detached.
	ChangeUnregister

	// ChangeRebind indicates an action or axis was rebound.
	ChangeRebind

	// ChangePreset indicates the player switched base preset.
	ChangePreset

	// ChangeKeyGroup indicates the player switched active key group.
	ChangeKeyGroup

	// ChangeReload indicates the player's base preset was reloaded.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeRegister:
		return "register"
	case ChangeUnregister:
		return "unregister"
	case ChangeRebind:
		return "rebind"
	case ChangePreset:
		return "preset"
	case ChangeKeyGroup:
		return "key_group"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change represents a binding change event.
type Change struct {
	// Player is the ID of the affected player.
	Player string

	// Type is the type of change.
	Type ChangeType

	// Name is the rebound action or axis name. Empty for other changes.
	Name string

	// Slot is the rebound slot index.
	Slot int

	// Preset is the player's base preset tag after the change.
	Preset string

	// KeyGroup is the player's active key group after the change.
	KeyGroup key.Group

	// Source identifies where the change came from.
	Source string
}

// Observer is called when binding changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	player   string
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages change subscriptions.
type Notifier struct {
	mu sync.RWMutex

	// Observers that receive every change
	globalObservers map[uint64]Observer

	// Observers keyed by player ID
	playerObservers map[string]map[uint64]Observer

	nextID uint64

	async  bool
	buffer chan Change
	done   chan struct{}
	wg     sync.WaitGroup

	// Closed flag for idempotent Close
	closed bool
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithAsync enables asynchronous notification delivery.
func WithAsync(bufferSize int) Option {
	return func(n *Notifier) {
		if bufferSize > 0 {
			n.async = true
			n.buffer = make(chan Change, bufferSize)
		}
	}
}

// New creates a new Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		globalObservers: make(map[uint64]Observer),
		playerObservers: make(map[string]map[uint64]Observer),
		done:            make(chan struct{}),
	}

	for _, opt := range opts {
		opt(n)
	}

	if n.async {
		n.wg.Add(1)
		go n.processAsync()
	}

	return n
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.globalObservers[id] = observer

	return &Subscription{id: id, notifier: n}
}

// SubscribePlayer registers an observer for changes to one player.
func (n *Notifier) SubscribePlayer(player string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++

	if n.playerObservers[player] == nil {
		n.playerObservers[player] = make(map[uint64]Observer)
	}
	n.playerObservers[player][id] = observer

	return &Subscription{id: id, player: player, notifier: n}
}

// Notify sends a change notification to all relevant observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	n.mu.RUnlock()

	if n.async {
		select {
		case n.buffer <- change:
		case <-n.done:
		}
		return
	}

	n.deliverChange(change)
}

// Close shuts down the notifier, delivering any buffered changes first.
// It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.mu.Unlock()

	close(n.done)
	n.wg.Wait()
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.globalObservers, id)

	for player, observers := range n.playerObservers {
		delete(observers, id)
		if len(observers) == 0 {
			delete(n.playerObservers, player)
		}
	}
}

func (n *Notifier) deliverChange(change Change) {
	n.mu.RLock()

	var observers []Observer
	for _, obs := range n.globalObservers {
		observers = append(observers, obs)
	}
	for _, obs := range n.playerObservers[change.Player] {
		observers = append(observers, obs)
	}

	n.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(change)
	}
}

func (n *Notifier) processAsync() {
	defer n.wg.Done()

	for {
		select {
		case change := <-n.buffer:
			n.deliverChange(change)
		case <-n.done:
			// Drain remaining buffered changes
			for {
				select {
				case change := <-n.buffer:
					n.deliverChange(change)
				default:
					return
				}
			}
		}
	}
}

// Batch collects multiple changes and delivers them as a group.
type Batch struct {
	notifier *Notifier
	changes  []Change
	mu       sync.Mutex
}

// NewBatch creates a new batch for collecting changes.
func (n *Notifier) NewBatch() *Batch {
	return &Batch{notifier: n}
}

// Add adds a change to the batch.
func (b *Batch) Add(change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = append(b.changes, change)
}

// Commit sends all batched changes to observers in the order added.
func (b *Batch) Commit() {
	b.mu.Lock()
	changes := b.changes
	b.changes = nil
	b.mu.Unlock()

	for _, change := range changes {
		b.notifier.Notify(change)
	}
}

// Discard clears the batch without sending notifications.
func (b *Batch) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = nil
}

// Len returns the number of pending changes.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.changes)
}
