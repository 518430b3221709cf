package volt

import "github.com/zoobzio/capitan"

// Field keys for store events.
var (
	// KeyAction is the name of the action being processed.
	KeyAction = capitan.NewStringKey("action")

	// KeyFollowUp is the name of a chained follow-up action.
	KeyFollowUp = capitan.NewStringKey("follow_up")

	// KeyError is the error message when a reducer fails.
	KeyError = capitan.NewStringKey("error")

	// KeyChainDepth is the number of chain steps taken within one dispatch.
	KeyChainDepth = capitan.NewIntKey("chain_depth")

	// KeyDuration is the time a reducer took to run.
	KeyDuration = capitan.NewDurationKey("duration")

	// KeySubscribers is the number of subscriptions completed at disposal.
	KeySubscribers = capitan.NewIntKey("subscribers")
)
