package avatar

// Request carries the user-supplied analysis inputs.
//
// Numeric fields are nil when absent or unparsable; bad numerics never
// reject a request, they only push the fallback arithmetic onto defaults.
type Request struct {
	Niche           string
	Product         string
	Description     string
	Price           *float64
	Audience        string
	Competitors     string
	ExtraNotes      string
	RevenueGoal     *float64
	LaunchDeadline  string
	MarketingBudget *float64
}
