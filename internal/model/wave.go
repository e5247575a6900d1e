package model

import "time"

type WaveStatus string

const (
	WaveCreated    WaveStatus = "CREATED"
	WaveAssigned   WaveStatus = "ASSIGNED"
	WavePicking    WaveStatus = "PICKING"
	WavePicked     WaveStatus = "PICKED"
	WaveDispatched WaveStatus = "DISPATCHED"
)

type AllocationStatus string

const (
	AllocationPending AllocationStatus = "PENDING"
	AllocationPartial AllocationStatus = "PARTIAL"
	AllocationPicked  AllocationStatus = "PICKED"
)

// Wave is one unit of picking work, normally scoped to a single order.
type Wave struct {
	BaseModel
	OrderID          string               `db:"order_id" json:"order_id"`
	Status           WaveStatus           `db:"status" json:"status"`
	AssignedWorkerID *string              `db:"assigned_worker_id" json:"assigned_worker_id"`
	AssignedAt       *time.Time           `db:"assigned_at" json:"assigned_at"`
	DispatchedAt     *time.Time           `db:"dispatched_at" json:"dispatched_at"`
	Allocations      []PicklistAllocation `db:"-" json:"allocations"` // Joined data
}

// PicklistAllocation mirrors the PICKLIST ledger operations for one SKU of a
// wave: requested versus actually picked quantity.
type PicklistAllocation struct {
	BaseModel
	WaveID       string           `db:"wave_id" json:"wave_id"`
	SKU          string           `db:"sku" json:"sku"`
	RequestedQty int64            `db:"requested_qty" json:"requested_qty"`
	PickedQty    int64            `db:"picked_qty" json:"picked_qty"`
	Status       AllocationStatus `db:"status" json:"status"`
}
