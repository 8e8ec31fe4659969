// Package permission defines the closed catalog of permission codes.
// The catalog is the single source of truth for what permissions exist:
// a code that is not listed here can never be stored on a role or pass a
// permission check. It is served verbatim to clients for UI rendering and
// is not configurable at runtime.
package permission

// Permission codes. Codes are opaque strings; clients treat them as IDs.
const (
	POSUse           = "pos.use"
	OrdersManage     = "orders.manage"
	ProductsManage   = "products.manage"
	CategoriesManage = "categories.manage"
	CashOpen         = "cash.open"
	CashClose        = "cash.close"
	ReportsView      = "reports.view"
	SettingsManage   = "settings.manage"
)

// Permission pairs a code with a human-readable label for role editors.
type Permission struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Catalog lists every valid permission in display order.
var Catalog = []Permission{
	{Code: POSUse, Label: "Use point of sale"},
	{Code: OrdersManage, Label: "Manage orders and tickets"},
	{Code: ProductsManage, Label: "Manage products"},
	{Code: CategoriesManage, Label: "Manage categories"},
	{Code: CashOpen, Label: "Open cash register"},
	{Code: CashClose, Label: "Close cash register and view closeouts"},
	{Code: ReportsView, Label: "View sales reports"},
	{Code: SettingsManage, Label: "Manage accounts, roles and settings"},
}

var catalogSet = func() map[string]bool {
	m := make(map[string]bool, len(Catalog))
	for _, p := range Catalog {
		m[p.Code] = true
	}
	return m
}()

// Codes returns every catalog code in catalog order.
func Codes() []string {
	codes := make([]string, len(Catalog))
	for i, p := range Catalog {
		codes[i] = p.Code
	}
	return codes
}

// Valid reports whether code exists in the catalog.
func Valid(code string) bool {
	return catalogSet[code]
}

// Normalize filters raw down to known catalog codes, dropping duplicates
// while preserving first-seen order. Unknown or empty entries are discarded
// silently — they are never an error and never stored.
func Normalize(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, code := range raw {
		if !catalogSet[code] || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}
