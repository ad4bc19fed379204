package bulkmovement

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// DocumentUseCase genera la nota de traslado en PDF que el emisor puede
// imprimir o adjuntar al enviar la mercancía.
type DocumentUseCase struct {
	bulkRepo      repository.BulkMovementRepository
	locationRepo  repository.LocationRepository
	generator     TransferNoteGenerator
	publicBaseURL string
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(
	bulkRepo repository.BulkMovementRepository,
	locationRepo repository.LocationRepository,
	generator TransferNoteGenerator,
	publicBaseURL string,
) *DocumentUseCase {
	return &DocumentUseCase{
		bulkRepo:      bulkRepo,
		locationRepo:  locationRepo,
		generator:     generator,
		publicBaseURL: publicBaseURL,
	}
}

// GenerateTransferNote devuelve los bytes del PDF de la nota de traslado.
// Mientras el movimiento siga pending la nota incluye el enlace público de
// confirmación como QR.
func (uc *DocumentUseCase) GenerateTransferNote(ctx context.Context, id string) ([]byte, error) {
	m, err := uc.bulkRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	from, err := uc.locationRepo.GetByID(m.FromLocationID)
	if err != nil {
		return nil, err
	}
	to, err := uc.locationRepo.GetByID(m.ToLocationID)
	if err != nil {
		return nil, err
	}
	if from == nil || to == nil {
		return nil, fmt.Errorf("%w: ubicación del movimiento", domain.ErrNotFound)
	}

	publicURL := ""
	if m.Status == entity.StatusPending {
		publicURL = uc.publicBaseURL + "/api/public/bulk-movements/" + m.PublicToken
	}
	return uc.generator.GenerateTransferNote(ctx, m, from, to, publicURL)
}
