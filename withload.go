package session

// WithLoading brackets an asynchronous action with loading bookkeeping: set
// true, run the action, and guarantee set false on both the success and the
// failure path before the result reaches the caller. It exists so the store
// operations do not duplicate try/finally plumbing per branch.
func WithLoading(set func(bool), action func() error) error {
	set(true)
	defer set(false)
	return action()
}
