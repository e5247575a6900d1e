package dto

type CreateWaveInput struct {
	OrderID   string
	Items     []WaveItemInput
	CreatedBy string
}

type WaveItemInput struct {
	SKU      string
	Quantity int64
}

type PickInput struct {
	WaveID      string
	SKU         string
	Quantity    int64
	PerformedBy string
}
