package rewards

// Action names used in logs and the rewards_actions_total metric.
const (
	ActionExportCSV         = "export_csv"
	ActionUpdateSheet       = "update_sheet"
	ActionUpdatePublicSheet = "update_public_sheet"
	ActionMarkPaid          = "mark_paid"
)
