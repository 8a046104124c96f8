package friendship

// Notifier delivers user-visible notices about friendship operations. The web
// layer backs this with the websocket push channel; every mutating action
// produces exactly one success or failure notice.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Failure(string) {}

// NopNotifier discards all notices.
func NopNotifier() Notifier {
	return nopNotifier{}
}
