package dispatch

import (
	"context"

	"github.com/stocklane/warehouse-service/internal/model"
)

type UseCase interface {
	// DispatchWave ships a fully picked wave: one atomic putaway→picklist
	// transfer per SKU, then the wave flips to DISPATCHED. A failing SKU
	// aborts the wave with that SKU's context; transfers already committed
	// for other SKUs stand, each individually audited.
	DispatchWave(ctx context.Context, waveID, performedBy string) (*model.Wave, error)
}
