package fishbone

import "context"

// Hook observes stage transitions during a run. Implementations must treat
// the state as read-only; StageDone fires after the stage has written its
// field, with the same state instance the pipeline mutates.
type Hook interface {
	StageStart(stage string)
	StageDone(stage string, st *State)
}

type ctxKeyHook struct{}

// WithHook attaches a Hook to the context passed to Analyze.
func WithHook(ctx context.Context, h Hook) context.Context {
	return context.WithValue(ctx, ctxKeyHook{}, h)
}

// HookFrom returns the hook stored in the context, or nil.
func HookFrom(ctx context.Context) Hook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(Hook); ok {
			return h
		}
	}
	return nil
}
