package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"monster-battle/internal/modules/battle/engine"
	"monster-battle/internal/pkg/i18n"
	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/xerrors"
)

func newFacade(h *harness) *BattleFacade {
	return NewBattleFacade(h.manager, nil, log.NewNopLogger())
}

func TestFacade_SuccessCarriesSnapshot(t *testing.T) {
	ctx := i18n.WithLanguage(context.Background(), language.English)
	h := newHarness(t, fixedRand{0.5})
	h.trainers.add("Ash", monster("Pikachu", 10, 100, engine.TypeElectric))
	f := newFacade(h)

	res := f.InitiateBattle(ctx, testSession, ash())
	require.True(t, res.Success, res.Message)
	assert.Contains(t, res.Message, "Rattata")
	require.NotNil(t, res.Battle)
	assert.Equal(t, "wild", res.Battle.Mode)
	assert.Equal(t, "active", res.Battle.Status)
	require.Len(t, res.Battle.Participants, 2)
	assert.Equal(t, "Wild Rattata", res.Battle.Participants[1].TrainerName)
	assert.Len(t, res.Log, 1)

	res = f.ExecuteAttack(ctx, testSession, ash(), AttackRequest{MoveName: "Thunder Shock"})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 1, res.Battle.TurnNumber)
	assert.Len(t, res.Log, 2)

	res = f.GetBattleLog(ctx, testSession)
	require.True(t, res.Success)
	assert.Len(t, res.Log, 3)
	assert.Equal(t, "start", res.Log[0].ActionType)

	res = f.GetBattleStatus(ctx, testSession)
	require.True(t, res.Success)
	assert.Empty(t, res.Log)
}

func TestFacade_ErrorMapping(t *testing.T) {
	ctx := i18n.WithLanguage(context.Background(), language.English)
	h := newHarness(t, fixedRand{0.5})
	h.trainers.add("Ash", monster("Pikachu", 10, 100, engine.TypeElectric))
	f := newFacade(h)

	res := f.GetBattleStatus(ctx, testSession)
	assert.False(t, res.Success)
	assert.Equal(t, xerrors.CodeBattleNotFound.ToInt(), res.Code)
	assert.True(t, strings.HasPrefix(res.Message, "No active battle in this adventure"), res.Message)
	assert.Nil(t, res.Battle)

	res = f.InitiateBattle(ctx, testSession, ash())
	require.True(t, res.Success)

	res = f.ExecuteAttack(ctx, testSession, ash(), AttackRequest{MoveName: "Hyper Beam"})
	assert.False(t, res.Success)
	assert.Equal(t, xerrors.CodeMoveNotFound.ToInt(), res.Code)
	assert.Contains(t, res.Message, "Hyper Beam")

	res = f.ForceWinBattle(ctx, testSession, gmIdentity, "C")
	assert.False(t, res.Success)
	assert.Equal(t, xerrors.CodeInvalidParams.ToInt(), res.Code)

	res = f.SetWeather(ctx, testSession, ashIdentity, "rain")
	assert.False(t, res.Success)
	assert.Equal(t, xerrors.CodeAdminRequired.ToInt(), res.Code)

	h.repo.saveErr = errSaveFailed
	res = f.ExecuteAttack(ctx, testSession, ash(), AttackRequest{MoveName: "Thunder Shock"})
	assert.False(t, res.Success)
	assert.Equal(t, xerrors.CodeDatabaseError.ToInt(), res.Code)
	assert.Equal(t, i18n.T(ctx, i18n.MsgGenericFailure), res.Message)
	assert.NotContains(t, res.Message, errSaveFailed.Error())
}

func TestFacade_TerminalMessages(t *testing.T) {
	ctx := i18n.WithLanguage(context.Background(), language.English)
	h := newHarness(t, fixedRand{0.5})
	h.trainers.add("Ash", monster("Pikachu", 10, 100, engine.TypeElectric))
	h.trainers.add("Gary", monster("Eevee", 10, 100, engine.TypeNormal))
	f := newFacade(h)

	res := f.InitiatePvPBattle(ctx, testSession, ash(), []string{"Gary"}, false)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "open", res.Battle.Status)

	res = f.AcceptPvPBattle(ctx, testSession, gary())
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "active", res.Battle.Status)

	res = f.ForfeitBattle(ctx, testSession, gary())
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "forfeited", res.Battle.Status)
	assert.Equal(t, "A", res.Battle.WinnerSide)
	assert.Equal(t, i18n.T(ctx, i18n.MsgBattleForfeited, "B"), res.Message)
}

func TestFacade_AutoBattle(t *testing.T) {
	ctx := i18n.WithLanguage(context.Background(), language.English)
	h := newHarness(t, fixedRand{0.5})
	h.wild.monster = monster("Rattata", 8, 5, engine.TypeNormal)
	h.trainers.add("Ash", monster("Pikachu", 10, 100, engine.TypeElectric))

	res := newFacade(h).AutoBattle(ctx, testSession, ash())
	require.True(t, res.Success, res.Message)
	assert.Equal(t, i18n.T(ctx, i18n.MsgAutoBattle, 1, AutoOutcomeWon), res.Message)
	assert.Equal(t, "resolved", res.Battle.Status)
}
