package model

type ReturnType string

const (
	ReturnTryAndBuy ReturnType = "TRY_AND_BUY"
	ReturnOther     ReturnType = "OTHER"
)

// Operation maps the return type to the ledger counter it feeds.
func (t ReturnType) Operation() OperationType {
	if t == ReturnTryAndBuy {
		return OperationReturnTryAndBuy
	}
	return OperationReturnOther
}

func (t ReturnType) Valid() bool {
	return t == ReturnTryAndBuy || t == ReturnOther
}

type ReturnOrder struct {
	BaseModel
	SKU        string     `db:"sku" json:"sku"`
	Quantity   int64      `db:"quantity" json:"quantity"`
	Type       ReturnType `db:"return_type" json:"return_type"`
	OrderRef   *string    `db:"order_ref" json:"order_ref"`
	ReceivedBy *string    `db:"received_by" json:"received_by"`
}
