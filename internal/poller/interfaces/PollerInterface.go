package interfaces

import "context"

type PollerInterface interface {
	Run(ctx context.Context) error
	Once(ctx context.Context) error
}
