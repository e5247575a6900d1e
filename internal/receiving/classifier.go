package receiving

import "github.com/stocklane/warehouse-service/internal/model"

// ClassifyLine derives a receipt line's status from its quantity triple.
// Rule order is significant: later rules are reachable only when earlier
// ones fail, and encodes the tie-break policy (a line where ordered ==
// rejected == qcPass is REJECTED, not COMPLETED).
func ClassifyLine(orderedQty, rejectedQty, qcPassQty int64) model.LineStatus {
	switch {
	case orderedQty == 0:
		return model.LinePending
	case orderedQty == rejectedQty:
		return model.LineRejected
	case orderedQty == qcPassQty:
		return model.LineCompleted
	case orderedQty == rejectedQty+qcPassQty:
		return model.LinePartial
	case (rejectedQty > 0 && rejectedQty < orderedQty) ||
		(qcPassQty > 0 && qcPassQty < orderedQty):
		return model.LinePartial
	default:
		return model.LinePending
	}
}

// ClassifyReceipt derives the aggregate receipt status from its line
// statuses: uniform sets keep their status, any mixture is PARTIAL. An
// empty receipt is PENDING.
func ClassifyReceipt(lineStatuses []model.LineStatus) model.ReceiptStatus {
	if len(lineStatuses) == 0 {
		return model.ReceiptPending
	}

	first := lineStatuses[0]
	for _, s := range lineStatuses[1:] {
		if s != first {
			return model.ReceiptPartial
		}
	}

	switch first {
	case model.LineCompleted:
		return model.ReceiptCompleted
	case model.LineRejected:
		return model.ReceiptRejected
	case model.LinePending:
		return model.ReceiptPending
	default:
		return model.ReceiptPartial
	}
}
