package dto

// LineItem is a requested (item id, amount) pair. The historical wire format
// allowed "item_id" as an alias for "id"; both spellings are accepted.
type LineItem struct {
	ID     int64 `json:"id"`
	AltID  int64 `json:"item_id"`
	Amount int64 `json:"amount"`
}

// ItemID resolves the id regardless of which alias the caller used.
func (l LineItem) ItemID() int64 {
	if l.ID != 0 {
		return l.ID
	}
	return l.AltID
}

// ItemsRequest is the shared body of /stock/check and /stock/decrease.
type ItemsRequest struct {
	Items []LineItem `json:"items" binding:"required"`
}

// StockItemCreateRequest describes a new stock item.
type StockItemCreateRequest struct {
	Category string `json:"category" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Amount   int64  `json:"amount"`
}

// StockItemReplaceRequest overwrites an existing stock item by id.
type StockItemReplaceRequest struct {
	ID       int64  `json:"id" binding:"required"`
	Category string `json:"category" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Amount   int64  `json:"amount"`
}

// StockItemResponse is the public representation of a stock item.
type StockItemResponse struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
}

// MissingItemResponse reports one availability shortfall.
type MissingItemResponse struct {
	ID        int64 `json:"id"`
	Requested int64 `json:"requested"`
	Available int64 `json:"available"`
}

// CheckResponse is the answer of POST /stock/check.
type CheckResponse struct {
	Available bool                  `json:"available"`
	Missing   []MissingItemResponse `json:"missing"`
}

// DecreaseResponse is the answer of POST /stock/decrease.
type DecreaseResponse struct {
	Success   bool    `json:"success"`
	Decreased []int64 `json:"decreased"`
	NotFound  []int64 `json:"not_found"`
}
