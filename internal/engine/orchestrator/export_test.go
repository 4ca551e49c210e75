package orchestrator

// RunGuarded runs f the way a worker goroutine runs.
func (o *Orchestrator) RunGuarded(f func()) {
	defer o.terminateOnPanic()
	f()
}
