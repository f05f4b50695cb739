package forecast

import "saldo/internal/core"

// cadence is the semantic meaning of an upstream cadence code: a human
// label plus a base interval in months. The yearly code never goes through
// interval arithmetic; it is branched on explicitly by the projector.
type cadence struct {
	Label  string
	Months int
}

// cadenceTable maps upstream cadence codes to their semantics. Read-only.
var cadenceTable = map[int]cadence{
	core.CadenceMonthly:   {Label: "Monthly", Months: 1},
	core.CadenceQuarterly: {Label: "Quarterly", Months: 3},
	core.CadenceYearly:    {Label: "Yearly", Months: 12},
}

// cadenceFor resolves a cadence code, falling back to monthly for unknown
// or absent codes.
func cadenceFor(code int) cadence {
	if c, ok := cadenceTable[code]; ok {
		return c
	}
	return cadenceTable[core.CadenceMonthly]
}
