package service

import (
	"time"

	"github.com/99minutos/freight-pricing/internal/core/domain"
)

// NopMetrics discards every signal.
type NopMetrics struct{}

func (NopMetrics) QueryCache(bool)                   {}
func (NopMetrics) QueryDuration(time.Duration)       {}
func (NopMetrics) ConflictDetected()                 {}
func (NopMetrics) PriceWritten(domain.OperationType) {}
