package usecase

import (
	"context"

	"github.com/DRSN-tech/qdrant-probe/internal/domain"
)

type ProbeUC interface {
	Run(ctx context.Context, req *ProbeReq) (*domain.Report, error)
}
