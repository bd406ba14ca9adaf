package orderbookv1

// Level is one order resting in the book.
type Level struct {
	OrderHash       string  `json:"orderHash"`
	Price           float64 `json:"price"`
	Balance         float64 `json:"balance"`
	InitialSequence int64   `json:"initialSequence"`
}

// OrderBook holds bids sorted by (price desc, initialSequence asc) and asks
// sorted by (price asc, initialSequence asc).
type OrderBook struct {
	Bids []Level `json:"bids"`
	Asks []Level `json:"asks"`
}

// SnapshotLevel aggregates every order resting at one price.
type SnapshotLevel struct {
	Price   float64 `json:"price"`
	Balance float64 `json:"balance"`
	Count   int     `json:"count"`
}

// Snapshot is the price-aggregated view of a book at Version.
type Snapshot struct {
	Pair    string          `json:"pair"`
	Version int64           `json:"version"`
	Bids    []SnapshotLevel `json:"bids"`
	Asks    []SnapshotLevel `json:"asks"`
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Bids = cloneLevels(s.Bids)
	c.Asks = cloneLevels(s.Asks)
	return &c
}

func cloneLevels(levels []SnapshotLevel) []SnapshotLevel {
	if levels == nil {
		return nil
	}
	out := make([]SnapshotLevel, len(levels))
	copy(out, levels)
	return out
}

// UpdateLevel is the change applied to one price level. Count is the change
// in the number of orders at that price.
type UpdateLevel struct {
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
	Count  int     `json:"count"`
	Side   string  `json:"side"`
}

// SnapshotUpdate moves a snapshot from PrevVersion to Version.
type SnapshotUpdate struct {
	Pair        string        `json:"pair"`
	Updates     []UpdateLevel `json:"updates"`
	PrevVersion int64         `json:"prevVersion"`
	Version     int64         `json:"version"`
}

// Book sides as carried on UpdateLevel.Side.
const (
	SideBid = "bid"
	SideAsk = "ask"
)
