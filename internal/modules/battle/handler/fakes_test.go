package handler

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	custommiddleware "monster-battle/internal/middleware"
	"monster-battle/internal/modules/battle/engine"
	"monster-battle/internal/modules/battle/service"
	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/metrics"
	"monster-battle/internal/pkg/response"
	"monster-battle/internal/pkg/validator"
	"monster-battle/internal/pkg/xerrors"
	"monster-battle/internal/repository/interfaces"
)

const (
	gmIdentity  = "identity-gm"
	ashIdentity = "identity-ash"
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

type memRepo struct {
	mu      sync.Mutex
	battles map[string]*engine.Battle
	entries map[string][]engine.LogEntry
}

func (r *memRepo) Save(_ context.Context, b *engine.Battle, entries []engine.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.battles[b.AdventureSessionID] = b.Clone()
	r.entries[b.ID] = append(r.entries[b.ID], entries...)
	return nil
}

func (r *memRepo) FindLatestBySession(_ context.Context, sessionID string) (*engine.Battle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.battles[sessionID]; ok {
		return b.Clone(), nil
	}
	return nil, nil
}

func (r *memRepo) ListLogEntries(_ context.Context, battleID string) ([]engine.LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.LogEntry(nil), r.entries[battleID]...), nil
}

func (r *memRepo) ListIdleSessions(context.Context, time.Time) ([]string, error) {
	return nil, nil
}

type memTrainers struct {
	parties map[string][]*engine.MonsterState
}

func (s *memTrainers) FindTrainerByName(_ context.Context, name string) (*interfaces.Trainer, error) {
	id := strings.ToLower(name)
	if _, ok := s.parties[id]; !ok {
		return nil, xerrors.NewTrainerNotFoundError(name)
	}
	return &interfaces.Trainer{ID: id, Name: name, OwnerID: "identity-" + id}, nil
}

func (s *memTrainers) PartySnapshot(_ context.Context, trainerID string) ([]*engine.MonsterState, error) {
	party := make([]*engine.MonsterState, 0, len(s.parties[trainerID]))
	for _, m := range s.parties[trainerID] {
		party = append(party, m.Clone())
	}
	return party, nil
}

func (s *memTrainers) FindMonsterByName(_ context.Context, trainerID, name string) (*engine.MonsterState, error) {
	for _, m := range s.parties[trainerID] {
		if strings.EqualFold(m.Name, name) {
			return m.Clone(), nil
		}
	}
	return nil, xerrors.NewMonsterNotFoundError(name)
}

func (s *memTrainers) ItemQuantity(context.Context, string, string) (int, error) { return 0, nil }
func (s *memTrainers) ConsumeItem(_ context.Context, _ string, item string, _ int) error {
	return xerrors.FromCode(xerrors.CodeInsufficientItems).WithDetail("%s", item)
}
func (s *memTrainers) RefundItem(context.Context, string, string, int) error { return nil }
func (s *memTrainers) PersistMonsterOutcome(context.Context, string, *engine.MonsterState) error {
	return nil
}
func (s *memTrainers) AddCapturedMonster(context.Context, string, *engine.MonsterState) error {
	return nil
}

type stubEncounter struct{}

func (stubEncounter) GenerateWildEncounter(context.Context, service.AreaConfig) (*service.EncounterDefinition, error) {
	return &service.EncounterDefinition{Species: "Rattata", Monsters: []*engine.MonsterState{testMonster("Rattata", 8, 500, engine.TypeNormal)}}, nil
}

func testMonster(name string, level, hp int, types ...engine.MonsterType) *engine.MonsterState {
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

// newTestFacade 内存存储上的对战门面，Ash 拥有一只 Pikachu
func newTestFacade(t *testing.T) *service.BattleFacade {
	t.Helper()
	trainers := &memTrainers{parties: map[string][]*engine.MonsterState{
		"ash": {testMonster("Pikachu", 10, 100, engine.TypeElectric)},
	}}
	manager := service.NewBattleManager(service.ManagerDeps{
		Repo:       &memRepo{battles: map[string]*engine.Battle{}, entries: map[string][]engine.LogEntry{}},
		Trainers:   trainers,
		Encounters: stubEncounter{},
		Admins:     service.NewStaticAdminAuthorizer([]string{gmIdentity}, nil),
		Metrics:    metrics.NewBattleMetricsWithRegistry("test", prometheus.NewRegistry()),
		Logger:     log.NewNopLogger(),
		Rand:       fixedRand{0.5},
	}, service.ManagerOptions{WinCondition: 1})
	return service.NewBattleFacade(manager, nil, log.NewNopLogger())
}

// newTestServer 注册全部对战路由的 echo 实例
func newTestServer(t *testing.T, facade *service.BattleFacade) *echo.Echo {
	t.Helper()
	respWriter := response.NewResponseHandler(log.NewNopLogger(), "test")

	e := echo.New()
	e.Validator = validator.New(
		validator.WithEnum("battle_weather", engine.WeatherNames()...),
		validator.WithEnum("battle_terrain", engine.TerrainNames()...),
	)
	identity := custommiddleware.IdentityMiddleware(nil, nil, respWriter, log.NewNopLogger())
	RegisterRoutes(e.Group("/api/v1"), NewBattleHandler(facade, respWriter), NewAdminHandler(facade, respWriter), identity)
	return e
}
