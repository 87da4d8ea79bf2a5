package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithPlayer(t *testing.T) {
	playerID := uuid.New()
	ctx := WithPlayer(context.Background(), &PlayerContext{PlayerID: playerID, TelegramID: 123456789})

	player, err := GetPlayer(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), player.TelegramID)

	id, err := GetPlayerID(ctx)
	require.NoError(t, err)
	assert.Equal(t, playerID, id)
}

func TestGetPlayer_Missing(t *testing.T) {
	player, err := GetPlayer(context.Background())
	assert.Nil(t, player)
	assert.Error(t, err)

	id, err := GetPlayerID(context.Background())
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, id)
}
