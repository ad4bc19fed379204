package bulkmovement_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/bulkmovement"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// confirmAll arma una confirmación que cubre todos los ítems recibiendo
// exactamente lo enviado.
func confirmAll(m *entity.BulkMovement, confirmedBy string) bulkmovement.ConfirmInput {
	in := bulkmovement.ConfirmInput{ConfirmedBy: confirmedBy}
	for _, it := range m.Items {
		in.Items = append(in.Items, bulkmovement.ConfirmItemInput{
			ItemID:           it.ID,
			QuantityReceived: it.QuantitySent,
		})
	}
	return in
}

func listFilterStatus(status string) repository.BulkMovementFilter {
	return repository.BulkMovementFilter{Status: status}
}

// TestConfirm_RecepcionParcialReconciliada es el escenario central del flujo:
// se envían 10 unidades de P1 desde A hacia B y el receptor confirma 7.
// Deben quedar: estado confirmed, 7 en el ítem, una entrada de ledger con
// quantity_moved=7 y el stock de B subido en 7 y el de A bajado en 7.
func TestConfirm_RecepcionParcialReconciliada(t *testing.T) {
	env := newTestEnv(72 * time.Hour)
	env.seedStock("prod-1", "loc-a", 25)

	m, err := env.create.Create(context.Background(), bulkmovement.CreateInput{
		FromLocationID: "loc-a",
		ToLocationID:   "loc-b",
		CreatedBy:      "user-1",
		Items:          []bulkmovement.CreateItemInput{{ProductID: "prod-1", QuantitySent: 10}},
	})
	require.NoError(t, err)

	confirmed, err := env.confirm.Confirm(context.Background(), m.PublicToken, bulkmovement.ConfirmInput{
		ConfirmedBy:    "Andrea (recepción)",
		RecipientNotes: "llegaron 3 dañadas",
		Items:          []bulkmovement.ConfirmItemInput{{ItemID: m.Items[0].ID, QuantityReceived: 7}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusConfirmed, confirmed.Status)
	assert.Equal(t, "Andrea (recepción)", confirmed.ConfirmedBy)
	require.NotNil(t, confirmed.ConfirmedAt)
	assert.Equal(t, "llegaron 3 dañadas", confirmed.RecipientNotes)
	require.NotNil(t, confirmed.Items[0].QuantityReceived)
	assert.Equal(t, 7, *confirmed.Items[0].QuantityReceived)

	// Ledger: una entrada bulk con el stock de origen previo al movimiento
	require.Len(t, env.logs.entries, 1)
	entry := env.logs.entries[0]
	assert.Equal(t, 7, entry.QuantityMoved)
	assert.Equal(t, entity.MovementTypeBulk, entry.MovementType)
	assert.Equal(t, "loc-a", entry.FromLocationID)
	assert.Equal(t, "loc-b", entry.ToLocationID)
	assert.True(t, entry.FromStockLevel.Equal(decimal.NewFromInt(25)), "from_stock_level debe ser el stock previo en origen")

	// Inventario: B sube 7, A baja 7
	assert.True(t, env.stock.level("prod-1", "loc-b").Equal(decimal.NewFromInt(7)))
	assert.True(t, env.stock.level("prod-1", "loc-a").Equal(decimal.NewFromInt(18)))
}

func TestConfirm_ItemEnCeroNoGeneraLedgerNiStock(t *testing.T) {
	env := newTestEnv(72 * time.Hour)
	env.seedStock("prod-1", "loc-a", 10)

	m, err := env.create.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	in := bulkmovement.ConfirmInput{ConfirmedBy: "receptor"}
	in.Items = append(in.Items,
		bulkmovement.ConfirmItemInput{ItemID: m.Items[0].ID, QuantityReceived: 0},
		bulkmovement.ConfirmItemInput{ItemID: m.Items[1].ID, QuantityReceived: 5},
	)
	confirmed, err := env.confirm.Confirm(context.Background(), m.PublicToken, in)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusConfirmed, confirmed.Status)
	assert.Equal(t, 0, *confirmed.Items[0].QuantityReceived)
	// Solo el ítem con cantidad > 0 toca ledger e inventario
	require.Len(t, env.logs.entries, 1)
	assert.Equal(t, "prod-2", env.logs.entries[0].ProductID)
	assert.True(t, env.stock.level("prod-1", "loc-a").Equal(decimal.NewFromInt(10)), "el stock de P1 no debe moverse")
}

func TestConfirm_TokenDesconocido(t *testing.T) {
	env := newTestEnv(72 * time.Hour)
	_, err := env.confirm.Confirm(context.Background(), "token-inexistente", bulkmovement.ConfirmInput{ConfirmedBy: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirm_SegundaConfirmacionFalla(t *testing.T) {
	env := newTestEnv(72 * time.Hour)
	m, err := env.create.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	first, err := env.confirm.Confirm(context.Background(), m.PublicToken, confirmAll(m, "receptor-1"))
	require.NoError(t, err)

	// El segundo intento falla aunque las cantidades coincidan con el primero
	_, err = env.confirm.Confirm(context.Background(), m.PublicToken, confirmAll(m, "receptor-2"))
	assert.ErrorIs(t, err, domain.ErrAlreadyConfirmed)

	got, err := env.create.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ConfirmedBy, got.ConfirmedBy, "la segunda confirmación no debe pisar nada")
}

// TestConfirm_CanceladoRespondeNotFound: igual que la lectura pública, el
// intento de confirmar un movimiento cancelado responde como inexistente
// para no revelar al receptor que el emisor lo canceló.
func TestConfirm_CanceladoRespondeNotFound(t *testing.T) {
	env := newTestEnv(72 * time.Hour)
	m, err := env.create.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	require.NoError(t, env.create.Cancel(context.Background(), m.ID))

	_, err = env.confirm.Confirm(context.Background(), m.PublicToken, confirmAll(m, "receptor"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrCancelled, "el estado cancelado no debe distinguirse del inexistente")

	got, err := env.create.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, got.Status)
	assert.Nil(t, got.Items[0].QuantityReceived)
}

// TestConfirm_TokenVencidoExpiraDePaso: el intento de confirmar con token
// vencido falla con ErrExpired y, como efecto del propio chequeo, el
// movimiento queda expired aunque el sweeper nunca haya corrido.
func TestConfirm_TokenVencidoExpiraDePaso(t *testing.T) {
	env := newTestEnv(-time.Hour) // expiración en el pasado
	m, err := env.create.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	_, err = env.confirm.Confirm(context.Background(), m.PublicToken, confirmAll(m, "receptor"))
	assert.ErrorIs(t, err, domain.ErrExpired)

	got, err := env.create.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusExpired, got.Status, "el chequeo perezoso debe dejar el movimiento expired")
	assert.Nil(t, got.Items[0].QuantityReceived, "no debe haber cantidades escritas")
}

func TestConfirm_ConfirmedByVacio(t *testing.T) {
	env := newTestEnv(72 * time.Hour)
	m, err := env.create.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	in := confirmAll(m, "")
	_, err = env.confirm.Confirm(context.Background(), m.PublicToken, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestConfirm_EnvioIncompletoSeRechazaEntero: faltar un ítem invalida toda la
// confirmación; el movimiento sigue pending y sin efectos.
func TestConfirm_EnvioIncompletoSeRechazaEntero(t *testing.T) {
	env := newTestEnv(72 * time.Hour)
	m, err := env.create.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	in := bulkmovement.ConfirmInput{
		ConfirmedBy: "receptor",
		Items:       []bulkmovement.ConfirmItemInput{{ItemID: m.Items[0].ID, QuantityReceived: 1}},
	}
	_, err = env.confirm.Confirm(context.Background(), m.PublicToken, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := env.create.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, got.Status, "sin cambios de estado")
	assert.Empty(t, env.logs.entries, "sin entradas de ledger")
}

func TestConfirm_ValidacionDeCantidades(t *testing.T) {
	tests := []struct {
		name string
		qty  int
	}{
		{"cantidad negativa", -1},
		{"recibe más de lo enviado", 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(72 * time.Hour)
			m, err := env.create.Create(context.Background(), validCreateInput())
			require.NoError(t, err)

			in := confirmAll(m, "receptor")
			in.Items[0].QuantityReceived = tt.qty // quantity_sent del ítem 0 es 10
			_, err = env.confirm.Confirm(context.Background(), m.PublicToken, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestConfirm_ItemAjenoODuplicado(t *testing.T) {
	env := newTestEnv(72 * time.Hour)
	m, err := env.create.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	// Ítem que no pertenece al movimiento
	in := confirmAll(m, "receptor")
	in.Items[1].ItemID = "item-ajeno"
	_, err = env.confirm.Confirm(context.Background(), m.PublicToken, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Mismo ítem repetido para cubrir el total
	in = confirmAll(m, "receptor")
	in.Items[1].ItemID = in.Items[0].ItemID
	_, err = env.confirm.Confirm(context.Background(), m.PublicToken, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestConfirm_CarreraEntreDosConfirmaciones: dos confirmaciones concurrentes
// sobre el mismo movimiento pending. Exactamente una gana; la otra observa
// el estado terminal. Las cantidades finales son las del ganador.
func TestConfirm_CarreraEntreDosConfirmaciones(t *testing.T) {
	env := newTestEnv(72 * time.Hour)
	m, err := env.create.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	inA := confirmAll(m, "receptor-a") // recibe todo
	inB := confirmAll(m, "receptor-b")
	for i := range inB.Items {
		inB.Items[i].QuantityReceived = 1 // cantidades distintas para distinguir al ganador
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() { defer wg.Done(); _, errs[0] = env.confirm.Confirm(context.Background(), m.PublicToken, inA) }()
	go func() { defer wg.Done(); _, errs[1] = env.confirm.Confirm(context.Background(), m.PublicToken, inB) }()
	wg.Wait()

	winners := 0
	for _, e := range errs {
		if e == nil {
			winners++
		} else {
			assert.ErrorIs(t, e, domain.ErrAlreadyConfirmed, "el perdedor debe observar el estado terminal")
		}
	}
	require.Equal(t, 1, winners, "exactamente una confirmación debe ganar")

	got, err := env.create.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, got.Status)
	if errs[0] == nil {
		assert.Equal(t, "receptor-a", got.ConfirmedBy)
		assert.Equal(t, got.Items[0].QuantitySent, *got.Items[0].QuantityReceived)
	} else {
		assert.Equal(t, "receptor-b", got.ConfirmedBy)
		assert.Equal(t, 1, *got.Items[0].QuantityReceived)
	}
}

func TestGetPublicByToken_CanceladoRespondeNotFound(t *testing.T) {
	env := newTestEnv(72 * time.Hour)
	m, err := env.create.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	require.NoError(t, env.create.Cancel(context.Background(), m.ID))

	// No filtrar la intención del emisor: cancelado se ve como inexistente
	_, _, _, _, err = env.confirm.GetPublicByToken(context.Background(), m.PublicToken)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetPublicByToken_IsExpiredCalculadoEnLectura(t *testing.T) {
	env := newTestEnv(-time.Hour)
	m, err := env.create.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	// El sweeper no corrió: el estado sigue pending pero is_expired ya es true
	got, from, to, isExpired, err := env.confirm.GetPublicByToken(context.Background(), m.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, got.Status)
	assert.True(t, isExpired)
	assert.Equal(t, "Bodega Central", from.Name)
	assert.Equal(t, "Punto de Venta", to.Name)
}
