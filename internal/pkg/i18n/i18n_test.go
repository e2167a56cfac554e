package i18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"monster-battle/internal/pkg/xerrors"
)

func TestParseAcceptLanguage(t *testing.T) {
	require.Equal(t, language.English, ParseAcceptLanguage("en-US,en;q=0.9"))
	require.Equal(t, language.Chinese, ParseAcceptLanguage("zh-CN,zh;q=0.9,en;q=0.8"))
	require.Equal(t, DefaultLanguage, ParseAcceptLanguage(""))
}

func TestTranslateBattleMessages(t *testing.T) {
	require.Equal(t, "A wild Pikachu (Lv.8) appeared! The battle begins",
		Translate(language.English, MsgWildBattleStarted, "Pikachu", 8))

	ctx := WithLanguage(context.Background(), language.Chinese)
	require.Equal(t, "胜利条件设为击倒 2 只精灵", T(ctx, MsgWinConditionSet, 2))
}

func TestGetErrorMessageFallsBack(t *testing.T) {
	require.Equal(t, "It is not your turn", GetErrorMessage(xerrors.CodeNotYourTurn, language.English))
	require.Equal(t, "还没轮到你行动", GetErrorMessage(xerrors.CodeNotYourTurn, language.Chinese))
	require.Equal(t, "Unknown error", GetErrorMessage(xerrors.ErrorCode(1), language.English))
}
