package bulkmovement_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/bulkmovement"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

func newTestSweeper(env *testEnv) *bulkmovement.Sweeper {
	return bulkmovement.NewSweeper(env.bulk, logger.New(logger.Config{Level: "error"}))
}

func TestSweep_ExpiraSoloLosPendingVencidos(t *testing.T) {
	env := newTestEnv(-time.Hour) // todos los tokens nacen vencidos
	m1, err := env.create.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	m2, err := env.create.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	sweeper := newTestSweeper(env)
	count, err := sweeper.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, id := range []string{m1.ID, m2.ID} {
		got, err := env.create.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusExpired, got.Status)
		assert.True(t, entity.IsTerminalStatus(got.Status))
	}
}

func TestSweep_SegundaPasadaEsIdempotente(t *testing.T) {
	env := newTestEnv(-time.Hour)
	_, err := env.create.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	sweeper := newTestSweeper(env)
	count, err := sweeper.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = sweeper.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "no debe volver a contar lo ya expirado")
}

func TestSweep_NoTocaVigentesNiTerminales(t *testing.T) {
	env := newTestEnv(72 * time.Hour)
	vigente, err := env.create.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	confirmado, err := env.create.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	_, err = env.confirm.Confirm(context.Background(), confirmado.PublicToken, confirmAll(confirmado, "receptor"))
	require.NoError(t, err)

	cancelado, err := env.create.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	require.NoError(t, env.create.Cancel(context.Background(), cancelado.ID))

	count, err := newTestSweeper(env).SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	got, err := env.create.GetByID(context.Background(), vigente.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, got.Status)
	got, err = env.create.GetByID(context.Background(), confirmado.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, got.Status)
	got, err = env.create.GetByID(context.Background(), cancelado.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, got.Status)
}
