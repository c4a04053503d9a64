package model

// StockItem is a warehouse position owned by the stock service.
type StockItem struct {
	ID       int64
	Category string
	Name     string
	Amount   int64
}

// LineItem addresses a stock item together with a quantity. It is the unit
// exchanged between the order service and the stock service.
type LineItem struct {
	ID     int64
	Amount int64
}

// MissingItem reports a shortfall discovered during an availability check.
type MissingItem struct {
	ID        int64
	Requested int64
	Available int64
}

// StockCheck is the stock service's answer to an availability request.
// Available is true iff Missing is empty.
type StockCheck struct {
	Available bool
	Missing   []MissingItem
}

// StockDecrement reports the outcome of a decrement request. The stock
// service applies lines independently, so a partial result is representable:
// Success is true iff NotFound is empty.
type StockDecrement struct {
	Success   bool
	Decreased []int64
	NotFound  []int64
}
