package api

// CaseStatus from GET /v1/case
type CaseStatus string

const (
	CaseActive  CaseStatus = "ACTIVE"
	CasePaused  CaseStatus = "PAUSED"
	CaseStopped CaseStatus = "STOPPED"
)

// OrderType for POST /v1/orders
type OrderType string

const (
	OrderMarket OrderType = "MARKET"
	OrderLimit  OrderType = "LIMIT"
)

// OrderAction for POST /v1/orders and tenders
type OrderAction string

const (
	ActionBuy  OrderAction = "BUY"
	ActionSell OrderAction = "SELL"
)

// OrderStatus filters GET /v1/orders
type OrderStatus string

const (
	OrderOpen       OrderStatus = "OPEN"
	OrderTransacted OrderStatus = "TRANSACTED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// AssetType from GET /v1/assets
type AssetType string

const (
	AssetContainer  AssetType = "CONTAINER"
	AssetPipeline   AssetType = "PIPELINE"
	AssetShip       AssetType = "SHIP"
	AssetRefinery   AssetType = "REFINERY"
	AssetPowerPlant AssetType = "POWER_PLANT"
	AssetProducer   AssetType = "PRODUCER"
)

// SecurityType from GET /v1/securities
type SecurityType string

const (
	SecuritySpot     SecurityType = "SPOT"
	SecurityFuture   SecurityType = "FUTURE"
	SecurityIndex    SecurityType = "INDEX"
	SecurityOption   SecurityType = "OPTION"
	SecurityStock    SecurityType = "STOCK"
	SecurityCurrency SecurityType = "CURRENCY"
	SecurityBond     SecurityType = "BOND"
	SecurityRate     SecurityType = "RATE"
	SecurityForward  SecurityType = "FORWARD"
	SecuritySwap     SecurityType = "SWAP"
	SecuritySwapBOM  SecurityType = "SWAP_BOM"
	SecuritySPRE     SecurityType = "SPRE"
)

// NewsQuery filters GET /v1/news. Zero fields are omitted.
type NewsQuery struct {
	Since int // news_id to start from (inclusive)
	After int // news_id to start after
	Limit int
}

// HistoryQuery filters the history and time-and-sales endpoints. Zero
// fields are omitted.
type HistoryQuery struct {
	Ticker string
	Period int
	Limit  int
	After  int // time-and-sales only: id to start after
}

// OrderRequest for POST /v1/orders
type OrderRequest struct {
	Ticker   string
	Type     OrderType
	Quantity float64
	Action   OrderAction
	Price    float64 // limit orders only; omitted when zero
	DryRun   bool    // market orders only
}

// LeaseRequest for POST /v1/leases and POST /v1/leases/{id}. Each From/
// Quantity pair names an input ticker and the amount to convert.
type LeaseRequest struct {
	Ticker     string // new leases only
	From       [3]string
	Quantities [3]float64
}

// CancelRequest for POST /v1/commands/cancel. Set exactly one field.
type CancelRequest struct {
	All    bool
	Ticker string
	IDs    []int
	Query  string // e.g. "Price>20.10 AND Volume<0"
}
