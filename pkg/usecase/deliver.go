package usecase

import (
	"context"
	"time"

	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
	"github.com/secmon-lab/daybreak/pkg/utils/logging"
)

// deliver hands the digest to the sink, retrying with exponential backoff
// on retryable delivery errors up to the attempt budget. A rejection is
// terminal on the first attempt: retrying a structurally invalid request
// cannot succeed. Every attempt is recorded on the report.
func (uc *UseCases) deliver(ctx context.Context, digest *model.Digest, budget int, report *model.RunReport) bool {
	logger := logging.From(ctx)

	for attempt := 1; attempt <= budget; attempt++ {
		err := uc.sink.Send(ctx, digest)
		if err == nil {
			report.DeliveryAttempts = append(report.DeliveryAttempts, model.DeliveryAttempt{
				Attempt:   attempt,
				At:        uc.now(),
				Succeeded: true,
			})
			logger.Info("Digest delivered", "attempt", attempt)
			return true
		}

		retryable := types.ErrorKindOf(err) == types.ErrorKindDelivery
		report.DeliveryAttempts = append(report.DeliveryAttempts, model.DeliveryAttempt{
			Attempt:   attempt,
			At:        uc.now(),
			Error:     err.Error(),
			Retryable: retryable,
		})
		logger.Warn("Digest delivery attempt failed",
			"attempt", attempt,
			"budget", budget,
			"retryable", retryable,
			"error", err.Error())

		if !retryable || attempt == budget {
			return false
		}

		backoff := uc.backoffBase << (attempt - 1)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return false
		}
	}

	return false
}
