package apiclient

// Backend endpoint reference
//
// All endpoints are relative to the configured base URL and answer JSON
// unless noted. Any non-2xx response fails the call with a fixed message.
//
//   Operation             Method  Path                         Query / Body                     Response
//   ───────────────────   ──────  ───────────────────────────  ───────────────────────────────  ─────────────────────────────────────────
//   total users           GET     /metrics/users/total         -                                {total_users}
//   active users          GET     /metrics/users/active        days                             {active_users}
//   retention             GET     /metrics/users/retention     -                                {retention_rate}
//   total groups          GET     /metrics/groups/total        -                                {total_groups}
//   active groups         GET     /metrics/groups/active       days                             {active_groups}
//   total messages        GET     /metrics/messages/total      -                                {total_messages}
//   daily messages        GET     /metrics/messages/daily      -                                {daily_messages}
//   date-range series     GET     /metrics/by-date-range       start_date, end_date             {metrics: [{date, active_users, new_users}]}
//   message history       GET     /metrics/messages/history    days                             {daily_message_history: {date: count}}
//   rewards CSV           GET     /rewards/sheet/csv           -                                raw CSV bytes
//   update sheet          GET     /rewards/sheet/google        [public=true]                    {sheet_url?}
//   mark paid             POST    /rewards/mark-paid           phone, JSON {note} when set      {}

const (
	pathTotalUsers      = "/metrics/users/total"
	pathActiveUsers     = "/metrics/users/active"
	pathRetention       = "/metrics/users/retention"
	pathTotalGroups     = "/metrics/groups/total"
	pathActiveGroups    = "/metrics/groups/active"
	pathTotalMessages   = "/metrics/messages/total"
	pathDailyMessages   = "/metrics/messages/daily"
	pathByDateRange     = "/metrics/by-date-range"
	pathMessageHistory  = "/metrics/messages/history"
	pathRewardsCSV      = "/rewards/sheet/csv"
	pathRewardsSheet    = "/rewards/sheet/google"
	pathRewardsMarkPaid = "/rewards/mark-paid"
)

// Fixed per-operation failure messages.
const (
	opTotalUsers     = "Failed to fetch total users"
	opActiveUsers    = "Failed to fetch active users"
	opRetention      = "Failed to fetch user retention"
	opTotalGroups    = "Failed to fetch total groups"
	opActiveGroups   = "Failed to fetch active groups"
	opTotalMessages  = "Failed to fetch total messages"
	opDailyMessages  = "Failed to fetch daily messages"
	opByDateRange    = "Failed to fetch metrics by date range"
	opMessageHistory = "Failed to fetch message history"
	opRewardsCSV     = "Failed to generate rewards CSV"
	opUpdateSheet    = "Failed to update Google Sheet"
	opUpdatePublic   = "Failed to update public Google Sheet"
	opMarkPaid       = "Failed to mark ambassador as paid"
)

type totalUsersResponse struct {
	TotalUsers *int64 `json:"total_users"`
}

type activeUsersResponse struct {
	ActiveUsers *int64 `json:"active_users"`
}

type retentionResponse struct {
	RetentionRate *float64 `json:"retention_rate"`
}

type totalGroupsResponse struct {
	TotalGroups *int64 `json:"total_groups"`
}

type activeGroupsResponse struct {
	ActiveGroups *int64 `json:"active_groups"`
}

type totalMessagesResponse struct {
	TotalMessages *int64 `json:"total_messages"`
}

type dailyMessagesResponse struct {
	DailyMessages *int64 `json:"daily_messages"`
}

type dateRangeResponse struct {
	Metrics []dateRangePoint `json:"metrics"`
}

type dateRangePoint struct {
	Date        string `json:"date"`
	ActiveUsers int64  `json:"active_users"`
	NewUsers    int64  `json:"new_users"`
}

type messageHistoryResponse struct {
	DailyMessageHistory map[string]int64 `json:"daily_message_history"`
}

type sheetResponse struct {
	SheetURL string `json:"sheet_url,omitempty"`
}

type markPaidBody struct {
	Note string `json:"note"`
}
