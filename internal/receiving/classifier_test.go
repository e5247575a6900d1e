package receiving

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stocklane/warehouse-service/internal/model"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name     string
		ordered  int64
		rejected int64
		qcPass   int64
		want     model.LineStatus
	}{
		{"nothing ordered", 0, 0, 0, model.LinePending},
		{"ordered but untouched", 10, 0, 0, model.LinePending},
		{"fully rejected", 10, 10, 0, model.LineRejected},
		{"fully passed", 10, 0, 10, model.LineCompleted},
		{"rejected wins over passed on full overlap", 10, 10, 10, model.LineRejected},
		{"split between rejected and passed", 10, 4, 6, model.LinePartial},
		{"partially rejected only", 10, 3, 0, model.LinePartial},
		{"partially passed only", 10, 0, 7, model.LinePartial},
		{"partially rejected and partially passed", 10, 2, 3, model.LinePartial},
		{"single unit passed", 1, 0, 1, model.LineCompleted},
		{"single unit rejected", 1, 1, 0, model.LineRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyLine(tt.ordered, tt.rejected, tt.qcPass)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyReceipt(t *testing.T) {
	tests := []struct {
		name  string
		lines []model.LineStatus
		want  model.ReceiptStatus
	}{
		{"no lines", nil, model.ReceiptPending},
		{"all pending", []model.LineStatus{model.LinePending, model.LinePending}, model.ReceiptPending},
		{"all completed", []model.LineStatus{model.LineCompleted, model.LineCompleted}, model.ReceiptCompleted},
		{"all rejected", []model.LineStatus{model.LineRejected}, model.ReceiptRejected},
		{"all partial", []model.LineStatus{model.LinePartial, model.LinePartial}, model.ReceiptPartial},
		{"completed mixed with rejected", []model.LineStatus{model.LineCompleted, model.LineRejected}, model.ReceiptPartial},
		{"completed mixed with pending", []model.LineStatus{model.LineCompleted, model.LinePending}, model.ReceiptPartial},
		{"single completed", []model.LineStatus{model.LineCompleted}, model.ReceiptCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyReceipt(tt.lines)
			assert.Equal(t, tt.want, got)
		})
	}
}
