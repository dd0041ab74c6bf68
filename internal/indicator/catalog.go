// Package indicator binds each formula to the inputs it needs, the guards the
// form applies before computing, and the unit used to display its result.
package indicator

import (
	"strings"

	"github.com/iwvelando/metrics-calculator/internal/registry"
	"github.com/iwvelando/metrics-calculator/pkg/formula"
)

// Unit selects how a result is displayed.
type Unit string

const (
	UnitCurrency Unit = "currency"
	UnitPercent  Unit = "percent"
	UnitNumber   Unit = "number"
)

// FieldKind distinguishes scalar inputs from comma-separated lists.
type FieldKind string

const (
	KindScalar FieldKind = "scalar"
	KindList   FieldKind = "list"
)

// Field describes one input of an indicator.
type Field struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Kind    FieldKind `json:"kind"`
	Divisor bool      `json:"divisor,omitempty"`
}

// Definition describes one indicator.
type Definition struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Unit        Unit    `json:"unit"`
	Fields      []Field `json:"fields"`

	compute func(in Inputs) (registry.Value, error)
}

// Inputs carries the raw values collected for a calculation, keyed by
// Field.Key.
type Inputs struct {
	Scalars map[string]float64
	Lists   map[string][]float64
}

// Catalog is an ordered, read-only set of definitions.
type Catalog struct {
	defs  []Definition
	index map[string]int
}

// NewCatalog builds a catalog from definitions, indexing them by lowercase key
// and name.
func NewCatalog(defs ...Definition) *Catalog {
	c := &Catalog{defs: defs, index: make(map[string]int, len(defs)*2)}
	for i, def := range defs {
		c.index[strings.ToLower(def.Key)] = i
		c.index[strings.ToLower(def.Name)] = i
	}
	return c
}

// Lookup finds a definition by key or display name, ignoring case and
// surrounding whitespace.
func (c *Catalog) Lookup(keyOrName string) (Definition, bool) {
	i, ok := c.index[strings.ToLower(strings.TrimSpace(keyOrName))]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i], true
}

// All returns every definition in display order.
func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

func scalar(key, label string) Field {
	return Field{Key: key, Label: label, Kind: KindScalar}
}

func divisor(key, label string) Field {
	return Field{Key: key, Label: label, Kind: KindScalar, Divisor: true}
}

func list(key, label string) Field {
	return Field{Key: key, Label: label, Kind: KindList}
}

func ratio(fn func(a, b float64) (float64, error), a, b string) func(Inputs) (registry.Value, error) {
	return func(in Inputs) (registry.Value, error) {
		v, err := fn(in.Scalars[a], in.Scalars[b])
		return registry.Scalar(v), err
	}
}

func statistic(fn func([]float64) (float64, error), key string) func(Inputs) (registry.Value, error) {
	return func(in Inputs) (registry.Value, error) {
		v, err := fn(in.Lists[key])
		return registry.Scalar(v), err
	}
}

// Default is the catalog of every supported indicator.
var Default = NewCatalog(
	Definition{
		Key: "cpl", Name: "CPL", Unit: UnitCurrency,
		Description: "Cost per lead: marketing cost divided by leads generated.",
		Fields:      []Field{scalar("cost", "Total marketing cost"), divisor("leads", "Leads generated")},
		compute:     ratio(formula.CPL, "cost", "leads"),
	},
	Definition{
		Key: "roi", Name: "ROI", Unit: UnitPercent,
		Description: "Return on investment: (revenue - cost) / cost.",
		Fields:      []Field{scalar("revenue", "Revenue obtained"), divisor("cost", "Total investment cost")},
		compute:     ratio(formula.ROI, "revenue", "cost"),
	},
	Definition{
		Key: "ltv", Name: "LTV", Unit: UnitCurrency,
		Description: "Lifetime value: average revenue x retention time x margin.",
		Fields: []Field{
			scalar("avg_revenue", "Average revenue per customer"),
			scalar("retention_time", "Average retention time"),
			scalar("margin", "Profit margin"),
		},
		compute: func(in Inputs) (registry.Value, error) {
			return registry.Scalar(formula.LTV(in.Scalars["avg_revenue"], in.Scalars["retention_time"], in.Scalars["margin"])), nil
		},
	},
	Definition{
		Key: "ctr", Name: "CTR", Unit: UnitPercent,
		Description: "Click-through rate: clicks / impressions.",
		Fields:      []Field{scalar("clicks", "Clicks"), divisor("impressions", "Impressions")},
		compute:     ratio(formula.CTR, "clicks", "impressions"),
	},
	Definition{
		Key: "cac", Name: "CAC", Unit: UnitCurrency,
		Description: "Customer acquisition cost: sales and marketing cost / new customers.",
		Fields:      []Field{scalar("sales_cost", "Total marketing and sales cost"), divisor("new_customers", "New customers acquired")},
		compute:     ratio(formula.CAC, "sales_cost", "new_customers"),
	},
	Definition{
		Key: "nps", Name: "NPS", Unit: UnitNumber,
		Description: "Net promoter score: promoters - detractors.",
		Fields:      []Field{scalar("promoters", "Promoter score"), scalar("detractors", "Detractor score")},
		compute: func(in Inputs) (registry.Value, error) {
			return registry.Scalar(formula.NPS(in.Scalars["promoters"], in.Scalars["detractors"])), nil
		},
	},
	Definition{
		Key: "churn", Name: "Churn", Unit: UnitPercent,
		Description: "Share of the customer base lost over the period.",
		Fields:      []Field{scalar("lost_customers", "Customers lost"), divisor("initial_customers", "Customers at start of period")},
		compute:     ratio(formula.Churn, "lost_customers", "initial_customers"),
	},
	Definition{
		Key: "conversion-rate", Name: "Conversion Rate", Unit: UnitPercent,
		Description: "Conversions / visits.",
		Fields:      []Field{scalar("conversions", "Conversions"), divisor("visits", "Visits")},
		compute:     ratio(formula.ConversionRate, "conversions", "visits"),
	},
	Definition{
		Key: "growth-rate", Name: "Growth Rate", Unit: UnitPercent,
		Description: "(current - previous) / previous.",
		Fields:      []Field{scalar("current", "Current period value"), divisor("previous", "Previous period value")},
		compute:     ratio(formula.GrowthRate, "current", "previous"),
	},
	Definition{
		Key: "payback-period", Name: "Payback Period", Unit: UnitNumber,
		Description: "Initial investment / annual return, in years.",
		Fields:      []Field{scalar("investment", "Initial investment"), divisor("annual_return", "Annual return")},
		compute:     ratio(formula.PaybackPeriod, "investment", "annual_return"),
	},
	Definition{
		Key: "purchase-frequency", Name: "Purchase Frequency", Unit: UnitNumber,
		Description: "Total purchases / clients.",
		Fields:      []Field{scalar("total_purchases", "Total purchases"), divisor("clients", "Clients")},
		compute:     ratio(formula.PurchaseFrequency, "total_purchases", "clients"),
	},
	Definition{
		Key: "average-ticket", Name: "Average Ticket", Unit: UnitCurrency,
		Description: "Total revenue / clients.",
		Fields:      []Field{scalar("total_revenue", "Total revenue"), divisor("clients", "Clients")},
		compute:     ratio(formula.AverageTicket, "total_revenue", "clients"),
	},
	Definition{
		Key: "mean", Name: "Arithmetic Mean", Unit: UnitNumber,
		Description: "Sum of values / count.",
		Fields:      []Field{list("values", "Values")},
		compute:     statistic(formula.ArithmeticMean, "values"),
	},
	Definition{
		Key: "weighted-mean", Name: "Weighted Mean", Unit: UnitNumber,
		Description: "Sum(value x weight) / sum(weight).",
		Fields:      []Field{list("values", "Values"), list("weights", "Weights")},
		compute: func(in Inputs) (registry.Value, error) {
			v, err := formula.WeightedMean(in.Lists["values"], in.Lists["weights"])
			return registry.Scalar(v), err
		},
	},
	Definition{
		Key: "median", Name: "Median", Unit: UnitNumber,
		Description: "Middle of the sorted values.",
		Fields:      []Field{list("values", "Values")},
		compute:     statistic(formula.Median, "values"),
	},
	Definition{
		Key: "mode", Name: "Mode", Unit: UnitNumber,
		Description: "Most frequent value(s).",
		Fields:      []Field{list("values", "Values")},
		compute: func(in Inputs) (registry.Value, error) {
			modes, err := formula.Mode(in.Lists["values"])
			return registry.List(modes), err
		},
	},
)
