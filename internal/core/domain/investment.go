package domain

import "github.com/shopspring/decimal"

// InvestmentMode selects how the admin balance is attributed to the savings
// goals. It is display only; no money moves.
type InvestmentMode string

const (
	InvestMachine InvestmentMode = "machine"
	InvestWatch   InvestmentMode = "watch"
	InvestMonitor InvestmentMode = "monitor"
	InvestDivide  InvestmentMode = "divide"
)

func (m InvestmentMode) Valid() bool {
	switch m {
	case InvestMachine, InvestWatch, InvestMonitor, InvestDivide:
		return true
	}
	return false
}

// Goal targets
var (
	MonitorTarget = decimal.NewFromInt(15000)
	WatchTarget   = decimal.NewFromInt(43000)
	MachineTarget = decimal.NewFromInt(40000)
)

var hundred = decimal.NewFromInt(100)

// GoalProgress is one savings goal.
type GoalProgress struct {
	Goal    string          `json:"goal"`
	Target  decimal.Decimal `json:"target"`
	Funded  decimal.Decimal `json:"funded"`
	Percent decimal.Decimal `json:"percent"`
	Reached bool            `json:"reached"`
}

// InvestmentSummary attributes the balance across the goals.
type InvestmentSummary struct {
	Mode    InvestmentMode  `json:"mode"`
	Balance decimal.Decimal `json:"balance"`
	Goals   []GoalProgress  `json:"goals"`
}

// Allocate splits balance over the goals according to mode.
func Allocate(mode InvestmentMode, balance decimal.Decimal) InvestmentSummary {
	var monitor, watch, machine decimal.Decimal
	switch mode {
	case InvestMonitor:
		monitor = balance
	case InvestWatch:
		watch = balance
	case InvestMachine:
		machine = balance
	case InvestDivide:
		split := balance.Div(decimal.NewFromInt(3)).Round(2)
		monitor, watch, machine = split, split, split
	}

	return InvestmentSummary{
		Mode:    mode,
		Balance: balance,
		Goals: []GoalProgress{
			progress("monitor", MonitorTarget, monitor),
			progress("watch", WatchTarget, watch),
			progress("machine", MachineTarget, machine),
		},
	}
}

func progress(goal string, target, funded decimal.Decimal) GoalProgress {
	pct := funded.Div(target).Mul(hundred)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	if pct.IsNegative() {
		pct = decimal.Zero
	}
	return GoalProgress{
		Goal:    goal,
		Target:  target,
		Funded:  funded,
		Percent: pct.Round(2),
		Reached: funded.GreaterThanOrEqual(target),
	}
}
