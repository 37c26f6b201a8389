package usecase

import (
	"time"

	"github.com/DRSN-tech/qdrant-probe/internal/domain"
)

// ProbeReq — параметры одного запуска пробы.
type ProbeReq struct {
	Target     string // URL инстанса, попадает в отчет
	Fixture    *domain.Fixture
	Strict     bool
	Recreate   bool
	UpsertWait bool
	Timeout    time.Duration // дедлайн на каждый удаленный вызов, 0 — без дедлайна
}

func NewProbeReq(target string, fixture *domain.Fixture, strict, recreate, upsertWait bool, timeout time.Duration) *ProbeReq {
	return &ProbeReq{
		Target:     target,
		Fixture:    fixture,
		Strict:     strict,
		Recreate:   recreate,
		UpsertWait: upsertWait,
		Timeout:    timeout,
	}
}
