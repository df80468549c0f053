// Package manager runs the binding service: it keeps every registered
// player's state, persists each change to a store, pushes the effective
// bindings into the player's router table and notifies observers.
//
// Operations on one player are serialized; operations on different players
// run in parallel.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/keybind/internal/config"
	"github.com/dshills/keybind/internal/input/binding"
	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/logging"
	"github.com/dshills/keybind/internal/notify"
	"github.com/dshills/keybind/internal/player"
	"github.com/dshills/keybind/internal/preset"
	"github.com/dshills/keybind/internal/router"
	"github.com/dshills/keybind/internal/store"
	"github.com/dshills/keybind/internal/suggest"
)

// Source values set on notifications.
const (
	SourceAPI    = "api"
	SourceReload = "reload"
)

// Manager owns the registered players.
type Manager struct {
	cfg      *config.Config
	catalog  *preset.Catalog
	store    store.Store
	notifier *notify.Notifier
	logger   *logging.Logger

	ownsStore    bool
	ownsNotifier bool

	mu      sync.RWMutex
	players map[string]*session
	closed  bool
}

// session is one registered player.
type session struct {
	mu     sync.Mutex
	state  *player.State
	router *router.Table
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithStore sets the store records are loaded from and saved to.
// The caller keeps ownership; Close does not close it.
func WithStore(s store.Store) Option {
	return func(m *Manager) {
		m.store = s
	}
}

// WithNotifier sets the notifier changes are published on.
// The caller keeps ownership; Close does not close it.
func WithNotifier(n *notify.Notifier) Option {
	return func(m *Manager) {
		m.notifier = n
	}
}

// New creates a manager. Without WithStore, records live in memory.
func New(cfg *config.Config, catalog *preset.Catalog, opts ...Option) *Manager {
	m := &Manager{
		cfg:     cfg,
		catalog: catalog,
		players: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = store.NewMemory()
		m.ownsStore = true
	}
	if m.notifier == nil {
		m.notifier = notify.New()
		m.ownsNotifier = true
	}
	m.logger = logging.OrNull(m.logger).WithComponent("manager")
	return m
}

// Env returns the environment player operations run in.
func (m *Manager) Env() player.Env {
	return player.Env{Config: m.cfg, Presets: m.catalog}
}

// Config returns the binding config.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Catalog returns the preset catalog.
func (m *Manager) Catalog() *preset.Catalog {
	return m.catalog
}

// DefaultPreset returns the tag new players start on: the configured default
// when it is registered, otherwise the catalog's first preset.
func (m *Manager) DefaultPreset() string {
	if tag := m.cfg.DefaultPreset; tag != "" && m.catalog.Has(tag) {
		return tag
	}
	return m.catalog.First()
}

// Register attaches a player. An empty id is replaced by a generated one,
// which is returned. A stored record is loaded and migrated if needed;
// otherwise the player starts on the default preset. Registering a player
// twice re-applies its bindings.
func (m *Manager) Register(ctx context.Context, id string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if err := store.CheckID(id); err != nil {
		return "", newOpError("register", id, err)
	}

	if sess, err := m.session(id); err == nil {
		m.reapply(sess)
		return id, nil
	} else if errors.Is(err, ErrClosed) {
		return "", newOpError("register", id, err)
	}

	// Store I/O runs without m.mu so other players are not held up. When two
	// calls race on one id, the first insert wins and the other re-applies.
	s, err := m.load(ctx, id)
	if err != nil {
		return "", newOpError("register", id, err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", newOpError("register", id, ErrClosed)
	}
	if sess, ok := m.players[id]; ok {
		m.mu.Unlock()
		m.reapply(sess)
		return id, nil
	}
	sess := &session{state: s, router: router.New()}
	sess.mu.Lock()
	m.players[id] = sess
	m.mu.Unlock()

	if err := m.store.Save(ctx, store.NewRecord(s)); err != nil {
		m.mu.Lock()
		if m.players[id] == sess {
			delete(m.players, id)
		}
		m.mu.Unlock()
		sess.mu.Unlock()
		return "", newOpError("register", id, err)
	}
	m.apply(sess)
	sess.mu.Unlock()

	m.notifier.Notify(notify.Change{
		Player:   id,
		Type:     notify.ChangeRegister,
		Preset:   s.PresetTag,
		KeyGroup: s.KeyGroup,
		Source:   SourceAPI,
	})
	return id, nil
}

// load reads the player's record, migrating legacy records, or starts a new
// player on the default preset. The returned state is consolidated.
func (m *Manager) load(ctx context.Context, id string) (*player.State, error) {
	env := m.Env()
	var s *player.State
	rec, err := m.store.Load(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s = player.New(id, m.DefaultPreset(), m.cfg.DefaultKeyGroup())
		m.logger.Info("new player %s on preset %q", id, s.PresetTag)
	case err != nil:
		return nil, err
	default:
		var migrated bool
		s, migrated, err = store.Migrate(env, rec)
		if err != nil {
			return nil, err
		}
		s.ID = id
		if migrated {
			m.logger.Info("migrated legacy record for %s", id)
		}
	}
	s.Consolidate(env)
	return s, nil
}

func (m *Manager) reapply(sess *session) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	m.apply(sess)
}

// Unregister detaches a player. Its record stays in the store.
func (m *Manager) Unregister(id string) error {
	m.mu.Lock()
	sess, ok := m.players[id]
	if ok {
		delete(m.players, id)
	}
	m.mu.Unlock()

	if !ok {
		return newOpError("unregister", id, ErrPlayerNotRegistered)
	}

	sess.mu.Lock()
	sess.router.Clear()
	tag := sess.state.PresetTag
	sess.mu.Unlock()

	m.notifier.Notify(notify.Change{Player: id, Type: notify.ChangeUnregister, Preset: tag, Source: SourceAPI})
	return nil
}

// RebindAction binds b in slot for the player. See player.State.RebindAction.
func (m *Manager) RebindAction(ctx context.Context, id string, b binding.ActionBinding, slot int, anyGroup bool) error {
	const op = "rebind_action"
	if err := checkSlot(slot); err != nil {
		return newOpError(op, id, err)
	}
	if err := m.checkChord(b.Chord); err != nil {
		return newOpError(op, id, err)
	}

	return m.update(ctx, op, id, func(s *player.State) (notify.Change, bool) {
		s.RebindAction(m.Env(), b, slot, anyGroup)
		m.logger.Debug("%s: %s in slot %d", id, b, slot)
		return notify.Change{Type: notify.ChangeRebind, Name: b.Action, Slot: slot}, true
	})
}

// RebindAxis binds b in slot for the player. See player.State.RebindAxis.
func (m *Manager) RebindAxis(ctx context.Context, id string, b binding.AxisBinding, slot int, anyGroup bool) error {
	const op = "rebind_axis"
	if err := checkSlot(slot); err != nil {
		return newOpError(op, id, err)
	}
	if err := m.checkChord(key.NewChord(b.Key, key.ModNone)); err != nil {
		return newOpError(op, id, err)
	}

	return m.update(ctx, op, id, func(s *player.State) (notify.Change, bool) {
		s.RebindAxis(m.Env(), b, slot, anyGroup)
		m.logger.Debug("%s: %s in slot %d", id, b, slot)
		return notify.Change{Type: notify.ChangeRebind, Name: b.Axis, Slot: slot}, true
	})
}

// SetKeyGroup changes the player's active key group. Setting the current
// group does nothing.
func (m *Manager) SetKeyGroup(ctx context.Context, id string, g key.Group) error {
	const op = "set_key_group"
	if !g.IsNone() && !m.cfg.IsKeyGroupDefined(g) {
		err := fmt.Errorf("%w%s", &binding.KeyGroupError{Group: g}, suggest.Hint(string(g), m.cfg.KeyGroupTags()))
		return newOpError(op, id, err)
	}

	return m.update(ctx, op, id, func(s *player.State) (notify.Change, bool) {
		return notify.Change{Type: notify.ChangeKeyGroup}, s.SetKeyGroup(g)
	})
}

// SetPreset switches the player's base preset, discarding its overrides.
// preset.NullTag selects the empty base.
func (m *Manager) SetPreset(ctx context.Context, id, tag string) error {
	const op = "set_preset"
	if _, err := m.catalog.Lookup(tag); err != nil {
		return newOpError(op, id, err)
	}

	return m.update(ctx, op, id, func(s *player.State) (notify.Change, bool) {
		return notify.Change{Type: notify.ChangePreset}, s.SetPreset(tag)
	})
}

// ReloadPreset re-consolidates every registered player on tag after the
// preset changed. Notifications are delivered together once every player
// has been processed.
func (m *Manager) ReloadPreset(ctx context.Context, tag string) error {
	batch := m.notifier.NewBatch()
	defer batch.Commit()

	var errs []error
	for _, id := range m.Players() {
		sess, err := m.session(id)
		if err != nil {
			continue
		}

		sess.mu.Lock()
		if sess.state.PresetTag != tag {
			sess.mu.Unlock()
			continue
		}
		next := sess.state.Clone()
		next.Consolidate(m.Env())
		if err := m.store.Save(ctx, store.NewRecord(next)); err != nil {
			sess.mu.Unlock()
			errs = append(errs, newOpError("reload_preset", id, err))
			continue
		}
		sess.state = next
		m.apply(sess)
		sess.mu.Unlock()

		batch.Add(notify.Change{
			Player:   id,
			Type:     notify.ChangeReload,
			Preset:   tag,
			KeyGroup: next.KeyGroup,
			Source:   SourceReload,
		})
	}
	if n := batch.Len(); n > 0 {
		m.logger.Info("preset %q reloaded for %d players", tag, n)
	}
	return errors.Join(errs...)
}

// ReloadHandler returns a preset.ReloadHandler that calls ReloadPreset for
// every preset the watcher reloads or removes. Players on a removed preset
// are moved onto the catalog's fallback base.
func (m *Manager) ReloadHandler() preset.ReloadHandler {
	return func(r preset.Reload) {
		if r.Err != nil || r.Tag == "" {
			return
		}
		if err := m.ReloadPreset(context.Background(), r.Tag); err != nil {
			m.logger.Error("reloading preset %q: %v", r.Tag, err)
		}
	}
}

// Subscribe registers obs for changes to the player with id, or to every
// player if id is empty.
func (m *Manager) Subscribe(id string, obs notify.Observer) *notify.Subscription {
	if id == "" {
		return m.notifier.Subscribe(obs)
	}
	return m.notifier.SubscribePlayer(id, obs)
}

// State returns a copy of the player's state.
func (m *Manager) State(id string) (*player.State, error) {
	sess, err := m.session(id)
	if err != nil {
		return nil, newOpError("state", id, err)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state.Clone(), nil
}

// Effective returns the bindings the player currently experiences.
func (m *Manager) Effective(id string) (binding.Layout, error) {
	sess, err := m.session(id)
	if err != nil {
		return binding.Layout{}, newOpError("effective", id, err)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state.Effective(m.Env()), nil
}

// Router returns the player's dispatch table.
func (m *Manager) Router(id string) (*router.Table, error) {
	sess, err := m.session(id)
	if err != nil {
		return nil, newOpError("router", id, err)
	}
	return sess.router, nil
}

// Players returns the registered player IDs in order.
func (m *Manager) Players() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.players))
	for id := range m.players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Dump writes the player's preset, key group, overrides and effective
// bindings to w.
func (m *Manager) Dump(w io.Writer, id string) error {
	sess, err := m.session(id)
	if err != nil {
		return newOpError("dump", id, err)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	s := sess.state
	fmt.Fprintf(w, "player: %s\n", s.ID)
	fmt.Fprintf(w, "preset: %s\n", s.PresetTag)
	fmt.Fprintf(w, "key group: %s\n", s.KeyGroup)
	fmt.Fprintln(w, "overrides:")
	s.Overrides.Dump(w)
	fmt.Fprintln(w, "effective:")
	s.Effective(m.Env()).Dump(w)
	return nil
}

// Close detaches every player and releases the store and notifier if the
// manager created them.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.players = make(map[string]*session)
	m.mu.Unlock()

	if m.ownsNotifier {
		m.notifier.Close()
	}
	if m.ownsStore {
		return m.store.Close()
	}
	return nil
}

func (m *Manager) session(id string) (*session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	sess, ok := m.players[id]
	if !ok {
		return nil, ErrPlayerNotRegistered
	}
	return sess, nil
}

// update runs fn on a copy of the player's state. If fn reports a change,
// the copy is saved, applied and announced; a failed save leaves the player
// as it was.
func (m *Manager) update(ctx context.Context, op, id string, fn func(*player.State) (notify.Change, bool)) error {
	sess, err := m.session(id)
	if err != nil {
		return newOpError(op, id, err)
	}

	sess.mu.Lock()
	next := sess.state.Clone()
	change, changed := fn(next)
	if !changed {
		sess.mu.Unlock()
		return nil
	}
	if err := m.store.Save(ctx, store.NewRecord(next)); err != nil {
		sess.mu.Unlock()
		return newOpError(op, id, err)
	}
	sess.state = next
	m.apply(sess)
	sess.mu.Unlock()

	change.Player = id
	change.Preset = next.PresetTag
	change.KeyGroup = next.KeyGroup
	change.Source = SourceAPI
	m.notifier.Notify(change)
	return nil
}

// apply pushes the session's effective bindings into its router.
// The caller holds sess.mu.
func (m *Manager) apply(sess *session) {
	actions, axes := sess.state.Flat(m.Env())
	sess.router.Apply(actions, axes, m.cfg.PreservedActionNames(), m.cfg.PreservedAxisNames())
}

func checkSlot(slot int) error {
	if slot < 0 || slot >= MaxSlots {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrSlotOutOfRange, slot, MaxSlots)
	}
	return nil
}

func (m *Manager) checkChord(c key.Chord) error {
	if c.IsNone() {
		return nil
	}
	if !m.cfg.IsKeyAllowed(c.Key) {
		return fmt.Errorf("%w: %s", ErrKeyNotAllowed, c.Key)
	}
	if !m.cfg.AllowModifierKeys && !c.Modifiers.IsEmpty() {
		return fmt.Errorf("%w: %s", ErrModifiersNotAllowed, c)
	}
	return nil
}
