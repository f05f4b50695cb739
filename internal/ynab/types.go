package ynab

// Wire types for the upstream budgeting API. Optional goal fields arrive as
// JSON null; pointers keep absent and zero apart until conversion.
type (
	budgetResponse struct {
		Data struct {
			Budget struct {
				Name string `json:"name"`
			} `json:"budget"`
		} `json:"data"`
	}

	accountsResponse struct {
		Data struct {
			Accounts []wireAccount `json:"accounts"`
		} `json:"data"`
	}

	categoriesResponse struct {
		Data struct {
			Categories []wireCategory `json:"categories"`
		} `json:"data"`
	}

	scheduledResponse struct {
		Data struct {
			ScheduledTransactions []wireScheduled `json:"scheduled_transactions"`
		} `json:"data"`
	}

	wireAccount struct {
		Name    string `json:"name"`
		Balance int64  `json:"balance"`
		Closed  bool   `json:"closed"`
		Deleted bool   `json:"deleted"`
	}

	wireCategory struct {
		Name            string  `json:"name"`
		Balance         int64   `json:"balance"`
		Hidden          bool    `json:"hidden"`
		Deleted         bool    `json:"deleted"`
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
		Deleted      bool   `json:"deleted"`
	}
)
