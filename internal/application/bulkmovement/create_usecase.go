package bulkmovement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/token"
)

// CreateUseCase cubre la superficie del emisor: crear el movimiento masivo
// con su token público, cancelarlo, editar la nota y listarlo.
type CreateUseCase struct {
	txRunner     TxRunner
	bulkRepo     repository.BulkMovementRepository
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
	tokenTTL     time.Duration
}

// NewCreateUseCase construye el caso de uso. tokenTTL es la ventana de
// validez del enlace público (inmutable después de crear cada movimiento).
func NewCreateUseCase(
	txRunner TxRunner,
	bulkRepo repository.BulkMovementRepository,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	tokenTTL time.Duration,
) *CreateUseCase {
	return &CreateUseCase{
		txRunner:     txRunner,
		bulkRepo:     bulkRepo,
		locationRepo: locationRepo,
		productRepo:  productRepo,
		tokenTTL:     tokenTTL,
	}
}

// CreateItemInput una línea de producto a trasladar.
type CreateItemInput struct {
	ProductID    string
	QuantitySent int
}

// CreateInput entrada para Create.
type CreateInput struct {
	FromLocationID string
	ToLocationID   string
	SenderNotes    string
	CreatedBy      string
	Items          []CreateItemInput
}

// Create valida la entrada, toma el snapshot de producto por ítem, mintea el
// token con su expiración y persiste movimiento + ítems en una sola
// transacción: no existe ventana en la que el movimiento exista sin token.
func (uc *CreateUseCase) Create(ctx context.Context, input CreateInput) (*entity.BulkMovement, error) {
	if input.FromLocationID == "" || input.ToLocationID == "" {
		return nil, fmt.Errorf("%w: ubicaciones de origen y destino requeridas", domain.ErrInvalidInput)
	}
	if input.FromLocationID == input.ToLocationID {
		return nil, fmt.Errorf("%w: origen y destino deben ser distintos", domain.ErrInvalidInput)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: el movimiento debe tener al menos un ítem", domain.ErrInvalidInput)
	}
	for _, it := range input.Items {
		if it.ProductID == "" {
			return nil, fmt.Errorf("%w: ítem sin product_id", domain.ErrInvalidInput)
		}
		if it.QuantitySent < 0 {
			return nil, fmt.Errorf("%w: cantidad enviada negativa para el producto %s", domain.ErrInvalidInput, it.ProductID)
		}
	}

	from, err := uc.locationRepo.GetByID(input.FromLocationID)
	if err != nil {
		return nil, err
	}
	to, err := uc.locationRepo.GetByID(input.ToLocationID)
	if err != nil {
		return nil, err
	}
	if from == nil || to == nil {
		return nil, fmt.Errorf("%w: ubicación de origen o destino", domain.ErrNotFound)
	}

	now := time.Now()
	movement := &entity.BulkMovement{
		ID:             uuid.New().String(),
		FromLocationID: input.FromLocationID,
		ToLocationID:   input.ToLocationID,
		Status:         entity.StatusPending,
		TokenExpiresAt: now.Add(uc.tokenTTL),
		SenderNotes:    input.SenderNotes,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      now,
	}
	for _, it := range input.Items {
		product, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		movement.Items = append(movement.Items, &entity.BulkMovementItem{
			ID:              uuid.New().String(),
			BulkMovementID:  movement.ID,
			ProductID:       product.ID,
			SKU:             product.SKU,
			ProductName:     product.Name,
			ProductImageURL: product.ImageURL,
			QuantitySent:    it.QuantitySent,
		})
	}

	// El índice único sobre public_token hace imposible reutilizar un token
	// entre movimientos; ante la colisión (astronómicamente improbable) se
	// reintenta con un token nuevo.
	const maxTokenAttempts = 3
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		tok, err := token.New()
		if err != nil {
			return nil, err
		}
		movement.PublicToken = tok

		err = uc.txRunner.Run(ctx, func(
			bulkRepo repository.BulkMovementRepository,
			_ repository.MovementLogRepository,
			_ repository.InventoryRecordRepository,
		) error {
			return bulkRepo.Create(movement)
		})
		if err == nil {
			return movement, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("crear movimiento: colisión de token persistente")
}

// GetByID devuelve un movimiento con sus ítems (superficie autenticada).
func (uc *CreateUseCase) GetByID(ctx context.Context, id string) (*entity.BulkMovement, error) {
	m, err := uc.bulkRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// List devuelve una página de movimientos más el total para paginación.
func (uc *CreateUseCase) List(ctx context.Context, filter repository.BulkMovementFilter, limit, offset int) ([]*entity.BulkMovement, int, error) {
	list, err := uc.bulkRepo.List(filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.bulkRepo.Count(filter)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Cancel transiciona pending -> cancelled. Solo lo dispara el emisor; nunca
// hay cancelación automática. El update condicional garantiza que una
// confirmación concurrente no se pise con la cancelación: gana exactamente uno.
func (uc *CreateUseCase) Cancel(ctx context.Context, id string) error {
	ok, err := uc.bulkRepo.UpdateStatusIfPending(id, entity.StatusCancelled, nil, nil, nil)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	// Perdimos la carrera o el movimiento ya estaba en estado terminal:
	// recargar para reportar el estado real.
	m, err := uc.bulkRepo.GetByID(id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	return statusToError(m.Status)
}

// UpdateSenderNotes edita la nota del emisor mientras el movimiento siga
// pending.
func (uc *CreateUseCase) UpdateSenderNotes(ctx context.Context, id, notes string) (*entity.BulkMovement, error) {
	ok, err := uc.bulkRepo.UpdateSenderNotes(id, notes)
	if err != nil {
		return nil, err
	}
	if !ok {
		m, err := uc.bulkRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, domain.ErrNotFound
		}
		return nil, statusToError(m.Status)
	}
	return uc.GetByID(ctx, id)
}

// statusToError traduce un estado terminal al error de dominio que el
// cliente necesita distinguir para sus mensajes (ya confirmado, expirado,
// cancelado).
func statusToError(status string) error {
	switch status {
	case entity.StatusConfirmed:
		return domain.ErrAlreadyConfirmed
	case entity.StatusExpired:
		return domain.ErrExpired
	case entity.StatusCancelled:
		return domain.ErrCancelled
	default:
		return domain.ErrInvalidState
	}
}
