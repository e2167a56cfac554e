package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"monster-battle/internal/modules/battle/engine"
	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/metrics"
	"monster-battle/internal/pkg/xerrors"
	"monster-battle/internal/repository/interfaces"
)

type fixedRand struct{ v float64 }

func (f fixedRand) Float64() float64 { return f.v }
func (f fixedRand) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	i := int(f.v * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// ---- 对战存储 ----

type fakeRepo struct {
	mu      sync.Mutex
	battles map[string]*engine.Battle
	entries map[string][]engine.LogEntry
	saves   int
	saveErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{battles: map[string]*engine.Battle{}, entries: map[string][]engine.LogEntry{}}
}

func (r *fakeRepo) Save(ctx context.Context, b *engine.Battle, entries []engine.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.battles[b.AdventureSessionID] = b.Clone()
	r.entries[b.ID] = append(r.entries[b.ID], entries...)
	return nil
}

func (r *fakeRepo) FindLatestBySession(ctx context.Context, sessionID string) (*engine.Battle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.battles[sessionID]
	if !ok {
		return nil, nil
	}
	return b.Clone(), nil
}

func (r *fakeRepo) ListLogEntries(ctx context.Context, battleID string) ([]engine.LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.LogEntry(nil), r.entries[battleID]...), nil
}

func (r *fakeRepo) ListIdleSessions(ctx context.Context, before time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for sessionID, b := range r.battles {
		if !b.Status.IsTerminal() && b.UpdatedAt.Before(before) {
			out = append(out, sessionID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func (r *fakeRepo) logFor(battleID string) []engine.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.LogEntry(nil), r.entries[battleID]...)
}

// ---- 训练师存储 ----

type fakeTrainers struct {
	mu        sync.Mutex
	trainers  map[string]*interfaces.Trainer
	parties   map[string][]*engine.MonsterState
	items     map[string]map[string]int
	consumed  []string
	refunded  []string
	persisted map[string][]*engine.MonsterState
	captured  map[string][]*engine.MonsterState
}

func newFakeTrainers() *fakeTrainers {
	return &fakeTrainers{
		trainers:  map[string]*interfaces.Trainer{},
		parties:   map[string][]*engine.MonsterState{},
		items:     map[string]map[string]int{},
		persisted: map[string][]*engine.MonsterState{},
		captured:  map[string][]*engine.MonsterState{},
	}
}

// add 登记训练师，ID 为小写名，身份为 identity-<id>
func (s *fakeTrainers) add(name string, party ...*engine.MonsterState) *interfaces.Trainer {
	id := strings.ToLower(name)
	t := &interfaces.Trainer{ID: id, Name: name, OwnerID: "identity-" + id}
	s.trainers[id] = t
	s.parties[id] = party
	return t
}

func (s *fakeTrainers) give(trainerID, item string, qty int) {
	if s.items[trainerID] == nil {
		s.items[trainerID] = map[string]int{}
	}
	s.items[trainerID][item] += qty
}

func (s *fakeTrainers) FindTrainerByName(ctx context.Context, name string) (*interfaces.Trainer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trainers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, xerrors.NewTrainerNotFoundError(name)
	}
	c := *t
	return &c, nil
}

func (s *fakeTrainers) PartySnapshot(ctx context.Context, trainerID string) ([]*engine.MonsterState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*engine.MonsterState
	for _, m := range s.parties[trainerID] {
		out = append(out, m.Clone())
	}
	return out, nil
}

func (s *fakeTrainers) FindMonsterByName(ctx context.Context, trainerID, name string) (*engine.MonsterState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.parties[trainerID] {
		if strings.EqualFold(m.Name, name) {
			return m.Clone(), nil
		}
	}
	return nil, xerrors.NewMonsterNotFoundError(name)
}

func (s *fakeTrainers) ItemQuantity(ctx context.Context, trainerID, itemName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[trainerID][itemName], nil
}

func (s *fakeTrainers) ConsumeItem(ctx context.Context, trainerID, itemName string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items[trainerID][itemName] < quantity {
		return xerrors.FromCode(xerrors.CodeInsufficientItems)
	}
	s.items[trainerID][itemName] -= quantity
	s.consumed = append(s.consumed, itemName)
	return nil
}

func (s *fakeTrainers) RefundItem(ctx context.Context, trainerID, itemName string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.give(trainerID, itemName, quantity)
	s.refunded = append(s.refunded, itemName)
	return nil
}

func (s *fakeTrainers) PersistMonsterOutcome(ctx context.Context, trainerID string, monster *engine.MonsterState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persisted[trainerID] = append(s.persisted[trainerID], monster.Clone())
	return nil
}

func (s *fakeTrainers) AddCapturedMonster(ctx context.Context, trainerID string, monster *engine.MonsterState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captured[trainerID] = append(s.captured[trainerID], monster.Clone())
	return nil
}

// ---- 其他协作方 ----

type fakeRewards struct {
	mu       sync.Mutex
	outcomes []BattleOutcome
}

func (r *fakeRewards) GrantRewards(ctx context.Context, outcome BattleOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
	return nil
}

func (r *fakeRewards) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outcomes)
}

type fakeCapture struct {
	succeed bool
	calls   int
}

func (c *fakeCapture) AttemptCapture(ctx context.Context, target *engine.MonsterState, itemName string) (bool, error) {
	c.calls++
	return c.succeed, nil
}

type fakeEncounters struct {
	monster *engine.MonsterState
	// extra 跟随 monster 一起出现的野生精灵
	extra      []*engine.MonsterState
	aggression int
}

func (f *fakeEncounters) GenerateWildEncounter(ctx context.Context, area AreaConfig) (*EncounterDefinition, error) {
	group := []*engine.MonsterState{f.monster.Clone()}
	for _, m := range f.extra {
		group = append(group, m.Clone())
	}
	return &EncounterDefinition{
		Species:    f.monster.Species,
		Monsters:   group,
		Aggression: f.aggression,
		Aggressive: f.aggression >= AggressiveThreshold,
	}, nil
}

type fakeAdmins map[string]bool

func (a fakeAdmins) IsAdmin(ctx context.Context, identityID string) (bool, error) {
	return a[identityID], nil
}

type fakeGuard struct {
	mu     sync.Mutex
	owners map[string]string
}

func (g *fakeGuard) Acquire(ctx context.Context, sessionID, owner string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cur, ok := g.owners[sessionID]; ok && cur != owner {
		return false, nil
	}
	g.owners[sessionID] = owner
	return true, nil
}

func (g *fakeGuard) Release(ctx context.Context, sessionID, owner string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.owners[sessionID] == owner {
		delete(g.owners, sessionID)
	}
	return nil
}

type fakeEvents struct {
	mu       sync.Mutex
	subjects []string
}

func (e *fakeEvents) Publish(ctx context.Context, subject string, payload interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subjects = append(e.subjects, subject)
	return nil
}

func (e *fakeEvents) count(subject string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, s := range e.subjects {
		if s == subject {
			n++
		}
	}
	return n
}

// ---- 测试装配 ----

const (
	testSession  = "session-1"
	gmIdentity   = "identity-gm"
	ashIdentity  = "identity-ash"
	garyIdentity = "identity-gary"
)

var errSaveFailed = errors.New("connection reset")

type harness struct {
	manager  *BattleManager
	repo     *fakeRepo
	trainers *fakeTrainers
	rewards  *fakeRewards
	capture  *fakeCapture
	wild     *fakeEncounters
	guard    *fakeGuard
	events   *fakeEvents
	clock    time.Time
}

type harnessOption func(*ManagerOptions)

func withWinCondition(n int) harnessOption {
	return func(o *ManagerOptions) { o.WinCondition = n }
}

func newHarness(t *testing.T, r engine.RandSource, opts ...harnessOption) *harness {
	t.Helper()
	h := &harness{
		repo:     newFakeRepo(),
		trainers: newFakeTrainers(),
		rewards:  &fakeRewards{},
		capture:  &fakeCapture{},
		wild:     &fakeEncounters{monster: monster("Rattata", 8, 500, engine.TypeNormal)},
		guard:    &fakeGuard{owners: map[string]string{}},
		events:   &fakeEvents{},
		clock:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	mo := ManagerOptions{WinCondition: 1, IdleTimeout: 30 * time.Minute}
	for _, opt := range opts {
		opt(&mo)
	}
	h.manager = NewBattleManager(ManagerDeps{
		Repo:       h.repo,
		Trainers:   h.trainers,
		Rewards:    h.rewards,
		Capture:    h.capture,
		Encounters: h.wild,
		Admins:     NewStaticAdminAuthorizer([]string{gmIdentity}, nil),
		Guard:      h.guard,
		Events:     h.events,
		Metrics:    metrics.NewBattleMetricsWithRegistry("test", prometheus.NewRegistry()),
		Logger:     log.NewNopLogger(),
		Rand:       r,
	}, mo)
	h.manager.now = func() time.Time { return h.clock }
	return h
}

func (h *harness) advance(d time.Duration) {
	h.clock = h.clock.Add(d)
}

func monster(name string, level, hp int, types ...engine.MonsterType) *engine.MonsterState {
	return &engine.MonsterState{
		MonsterID: "mon-" + strings.ToLower(name),
		Name:      name,
		Species:   name,
		Level:     level,
		Types:     types,
		Stats:     engine.Stats{HP: hp, Attack: 50, Defense: 50, SpAttack: 50, SpDefense: 50, Speed: 50},
		MaxHP:     hp,
		CurrentHP: hp,
		Status:    engine.StatusNone,
		Moves:     engine.DefaultMoveset(types),
	}
}

func ash() Actor  { return Actor{IdentityID: ashIdentity, TrainerName: "Ash"} }
func gary() Actor { return Actor{IdentityID: garyIdentity, TrainerName: "Gary"} }

func requireKind(t *testing.T, err error, kind xerrors.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, xerrors.KindOf(err), "unexpected error: %v", err)
}

func requireCode(t *testing.T, err error, code xerrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	require.True(t, xerrors.HasCode(err, code), "expected code %d, got %v", code, err)
}
