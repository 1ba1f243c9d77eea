// Package templates renders the HTML pages and HTMX partials of the app.
package templates

import "sitecost/services"

// ActiveProject is the project selected through the active_project cookie.
type ActiveProject struct {
	ID   string
	Name string
}

// ProjectSelectorItem is one entry of the header project dropdown.
type ProjectSelectorItem struct {
	ID       string
	Name     string
	Client   string
	IsActive bool
}

// HeaderData feeds the page header.
type HeaderData struct {
	ActiveProject *ActiveProject
	Projects      []ProjectSelectorItem
}

// SidebarData feeds the navigation sidebar.
type SidebarData struct {
	ActiveProject    *ActiveProject
	ActivePath       string
	EstimateCount    int
	QuoteCount       int
	ChangeOrderCount int
	ExpenseCount     int
	RevenueCount     int
}

// ── Projects ────────────────────────────────────────────────────────

type ProjectListItem struct {
	ID              string
	Name            string
	ClientName      string
	ReferenceNumber string
	Status          string
	EstimateCount   int
	IsActive        bool
	CreatedDate     string
}

type ProjectListData struct {
	Items []ProjectListItem
}

// ProjectFormData backs both the create and the edit form. ID is empty when
// creating.
type ProjectFormData struct {
	ID              string
	Name            string
	ClientName      string
	ReferenceNumber string
	SiteAddress     string
	Status          string
	StatusOptions   []string
	Errors          map[string]string
}

type ProjectDashboardData struct {
	ID              string
	Name            string
	ClientName      string
	ReferenceNumber string
	SiteAddress     string
	Status          string
	CreatedDate     string

	HasEstimate         bool
	EstimateID          string
	EstimateTitle       string
	TargetMarginPercent float64
	Financials          services.EstimateFinancials
	Performance         services.Performance
	Summary             services.ProjectSummary
}

// ── Estimates ───────────────────────────────────────────────────────

type EstimateListItem struct {
	ID                 string
	Title              string
	Number             string
	Status             string
	ItemCount          int
	TotalPrice         float64
	GrossMarginPercent float64
	CreatedDate        string
}

type EstimateFormData struct {
	Title               string
	TargetMarginPercent float64
	Notes               string
	Errors              map[string]string
}

type EstimateListData struct {
	ProjectID   string
	ProjectName string
	Items       []EstimateListItem
	Form        EstimateFormData
}

// EstimateLineRow is one line item with its derived values.
type EstimateLineRow struct {
	ID            string
	Category      string
	CategoryLabel string
	Description   string
	Unit          string
	Quantity      float64
	CostPerUnit   float64
	PricePerUnit  float64
	MarkupPercent float64
	MarkupAmount  float64
	TotalCost     float64
	Total         float64
}

type EstimateViewData struct {
	ProjectID           string
	ID                  string
	Title               string
	Number              string
	Status              string
	Notes               string
	TargetMarginPercent float64
	CreatedDate         string
	QuoteCount          int

	Items       []EstimateLineRow
	Financials  services.EstimateFinancials
	Performance services.Performance

	CategoryOptions []services.SelectOption
	UnitOptions     []string
	StatusOptions   []string
	Errors          map[string]string
}

type ImportPageData struct {
	ProjectID     string
	EstimateID    string
	EstimateTitle string
}

// ImportResultData is the validation outcome of an uploaded line item file.
// ItemsJSON carries the parsed rows to the commit request.
type ImportResultData struct {
	ProjectID  string
	EstimateID string
	Result     *services.ValidationResult
	Preview    []EstimateLineRow
	ItemsJSON  string
	ErrorsJSON string
}

// ── Vendors ─────────────────────────────────────────────────────────

type VendorItem struct {
	ID          string
	Name        string
	Trade       string
	ContactName string
	Phone       string
	Email       string
	QuoteCount  int
}

type VendorFormData struct {
	ID          string
	Name        string
	Trade       string
	ContactName string
	Phone       string
	Email       string
	Errors      map[string]string
}

type VendorListData struct {
	Items        []VendorItem
	Form         VendorFormData
	TradeOptions []services.SelectOption
}

type VendorEditData struct {
	Form         VendorFormData
	TradeOptions []services.SelectOption
}

// ── Quotes ──────────────────────────────────────────────────────────

type QuoteListItem struct {
	ID        string
	Number    string
	Vendor    string
	Status    string
	ItemCount int
	Total     float64
	Rank      int
	IsBest    bool
}

type QuoteListData struct {
	ProjectID     string
	EstimateID    string
	EstimateTitle string
	EstimateCost  float64
	Items         []QuoteListItem
	Vendors       []services.SelectOption
	Errors        map[string]string
}

type QuoteLineRow struct {
	ID            string
	CategoryLabel string
	Description   string
	Unit          string
	Quantity      float64
	PricePerUnit  float64
	Total         float64
}

// CategoryAmount is a labelled per-category figure.
type CategoryAmount struct {
	Label  string
	Amount float64
}

type QuoteViewData struct {
	ProjectID  string
	EstimateID string
	ID         string
	Number     string
	Vendor     string
	Status     string
	ValidUntil string
	Items      []QuoteLineRow
	Subtotals  []CategoryAmount
	Total      float64

	CategoryOptions []services.SelectOption
	UnitOptions     []string
	Errors          map[string]string
}

type CompareData struct {
	ProjectID     string
	EstimateID    string
	EstimateTitle string
	QuoteID       string
	HasQuote      bool
	Comparison    services.QuoteComparison
	Ranking       []services.RankedQuote
	AmountInWords string
}

// ── Ledgers ─────────────────────────────────────────────────────────

// LedgerKind describes one of the project money ledgers.
type LedgerKind struct {
	Collection string
	Slug       string
	Title      string
	Singular   string
}

var (
	LedgerChangeOrders = LedgerKind{Collection: "change_orders", Slug: "change-orders", Title: "Change Orders", Singular: "Change order"}
	LedgerExpenses     = LedgerKind{Collection: "expenses", Slug: "expenses", Title: "Expenses", Singular: "Expense"}
	LedgerRevenues     = LedgerKind{Collection: "revenues", Slug: "revenues", Title: "Revenue", Singular: "Payment"}
)

type LedgerItem struct {
	ID            string
	Number        string
	Description   string
	Amount        float64
	CostImpact    float64
	Category      string
	Status        string
	Vendor        string
	InvoiceNumber string
	Date          string
}

type LedgerFormData struct {
	Description   string
	Amount        string
	CostImpact    string
	Category      string
	Status        string
	InvoiceNumber string
	Date          string
	Errors        map[string]string
}

type LedgerData struct {
	ProjectID       string
	ProjectName     string
	Kind            LedgerKind
	Items           []LedgerItem
	Total           float64
	Form            LedgerFormData
	CategoryOptions []services.SelectOption
	StatusOptions   []string
	Vendors         []services.SelectOption
}
