package http

import "saldo/internal/core"

// Request DTOs. Goal fields arrive as JSON null when a category has no
// goal; pointers keep absent and zero apart.
type (
	projectionRequest struct {
		Accounts    []wireAccount    `json:"accounts"`
		Categories  []wireCategory   `json:"categories"`
		Scheduled   []wireScheduled  `json:"scheduled_transactions"`
		Simulations []wireSimulation `json:"simulations"`
	}

	budgetProjectionRequest struct {
		Simulations []wireSimulation `json:"simulations"`
	}

	wireAccount struct {
		Name    string `json:"name"`
		Balance int64  `json:"balance"`
	}

	wireCategory struct {
		Name            string  `json:"name"`
		Balance         int64   `json:"balance"`
		GoalType        *string `json:"goal_type"`
		GoalTarget      *int64  `json:"goal_target"`
		GoalOverallLeft *int64  `json:"goal_overall_left"`
		GoalTargetMonth *string `json:"goal_target_month"`
		GoalCadence     *int    `json:"goal_cadence"`
		GoalCadenceFreq *int    `json:"goal_cadence_frequency"`
		GoalDay         *int    `json:"goal_day"`
	}

	wireScheduled struct {
		DateNext     string `json:"date_next"`
		Amount       int64  `json:"amount"`
		CategoryName string `json:"category_name"`
		AccountName  string `json:"account_name"`
		PayeeName    string `json:"payee_name"`
		Memo         string `json:"memo"`
	}

	wireSimulation struct {
		Date     string `json:"date"`
		Amount   string `json:"amount"`
		Reason   string `json:"reason"`
		Category string `json:"category"`
	}
)

func (r projectionRequest) accounts() []core.Account {
	accounts := make([]core.Account, 0, len(r.Accounts))
	for _, a := range r.Accounts {
		accounts = append(accounts, core.Account{Name: a.Name, Balance: a.Balance})
	}
	return accounts
}

func (r projectionRequest) categories() []core.Category {
	categories := make([]core.Category, 0, len(r.Categories))
	for _, c := range r.Categories {
		categories = append(categories, core.Category{
			Name:    c.Name,
			Balance: c.Balance,
			Goal:    c.goal(),
		})
	}
	return categories
}

func (c wireCategory) goal() *core.Goal {
	if c.GoalType == nil || *c.GoalType == "" {
		return nil
	}

	goal := &core.Goal{Type: core.GoalType(*c.GoalType)}
	if c.GoalTarget != nil {
		goal.Target = *c.GoalTarget
	}
	if c.GoalOverallLeft != nil {
		goal.OverallLeft = *c.GoalOverallLeft
	}
	if c.GoalTargetMonth != nil {
		goal.TargetMonth = *c.GoalTargetMonth
	}
	if c.GoalCadence != nil {
		goal.Cadence = *c.GoalCadence
	}
	if c.GoalCadenceFreq != nil {
		goal.Frequency = *c.GoalCadenceFreq
	}
	if c.GoalDay != nil {
		goal.Day = *c.GoalDay
	}
	return goal
}

func (r projectionRequest) scheduled() []core.ScheduledTransaction {
	txns := make([]core.ScheduledTransaction, 0, len(r.Scheduled))
	for _, t := range r.Scheduled {
		txns = append(txns, core.ScheduledTransaction{
			DateNext:     t.DateNext,
			Amount:       t.Amount,
			CategoryName: t.CategoryName,
			AccountName:  t.AccountName,
			PayeeName:    t.PayeeName,
			Memo:         t.Memo,
		})
	}
	return txns
}

func (r projectionRequest) simulations() []core.Simulation {
	return toSimulations(r.Simulations)
}

func (r budgetProjectionRequest) simulations() []core.Simulation {
	return toSimulations(r.Simulations)
}

func toSimulations(wire []wireSimulation) []core.Simulation {
	sims := make([]core.Simulation, 0, len(wire))
	for _, s := range wire {
		sims = append(sims, core.Simulation{
			Date:     s.Date,
			Amount:   s.Amount,
			Reason:   s.Reason,
			Category: s.Category,
		})
	}
	return sims
}
