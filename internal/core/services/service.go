package services

import "context"

type Service[T any, S any] interface {
	Run(ctx context.Context, input T) (S, error)
}

// FuncService adapts a plain function to the Service interface, mostly for
// stubbing services in handler tests.
type FuncService[T any, S any] func(ctx context.Context, input T) (S, error)

func (f FuncService[T, S]) Run(ctx context.Context, input T) (S, error) {
	return f(ctx, input)
}
