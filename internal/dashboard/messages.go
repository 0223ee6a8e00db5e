package dashboard

// 面板展示给用户的固定提示
const (
	MsgDonorLoadFailed        = "Failed to load dashboard data. Please try again."
	MsgRequestsLoadFailed     = "Failed to load requests. Please try again."
	MsgCreateRequestFailed    = "Failed to create request. Please try again."
	MsgRequestCreated         = "Request created successfully!"
	MsgTitleRequired          = "Title is required"
	MsgDescriptionRequired    = "Description is required"
	MsgAmountPositive         = "Amount must be greater than 0"
	MsgTransactionsLoadFailed = "Failed to load transactions. Please try again."
	MsgConfirmDeliveryFailed  = "Failed to confirm delivery. Please try again."
	MsgEventsLoadFailed       = "Failed to load blockchain events. Please try again."
	MsgEventsRefreshFailed    = "Failed to refresh blockchain events. Please try again."
)
