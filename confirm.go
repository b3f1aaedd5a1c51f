package hwid

import "context"

// Confirmer decides whether a destructive operation may proceed.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AutoConfirm approves every prompt.
var AutoConfirm Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
