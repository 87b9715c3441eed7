package services

// Progress is one observational checkpoint emitted by a long-running step.
// Percent is negative when the step cannot estimate completion.
type Progress struct {
	Stage   string
	Percent float64
	Message string
}

// ProgressFunc receives progress checkpoints. A nil ProgressFunc is valid.
type ProgressFunc func(Progress)

// Emit delivers p to the sink. Panics raised by the sink are swallowed so a
// misbehaving listener cannot change the outcome of the step reporting to it.
func (f ProgressFunc) Emit(p Progress) {
	if f == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	f(p)
}

// Stage emits a stage-start checkpoint with unknown completion.
func (f ProgressFunc) Stage(stage string) {
	f.Emit(Progress{Stage: stage, Percent: -1})
}
