package server

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ogurasousui/hr-records/internal/platform/logger"
)

// Runner はコンテキストがキャンセルされるまで動作するコンポーネントです。
type Runner interface {
	Name() string
	Run(ctx context.Context) error
}

// RunnerFunc は関数を Runner として扱います。
type RunnerFunc struct {
	Label string
	Fn    func(ctx context.Context) error
}

// Name は Label を返します。
func (r RunnerFunc) Name() string { return r.Label }

// Run は Fn を実行します。
func (r RunnerFunc) Run(ctx context.Context) error { return r.Fn(ctx) }

// Run は全ての runner を並行に起動します。いずれかがエラーで終了すると残りも停止します。
func Run(ctx context.Context, log *logger.Logger, runners ...Runner) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, r := range runners {
		r := r
		g.Go(func() error {
			if log != nil {
				log.Info("starting component", "component", r.Name())
			}
			err := r.Run(gctx)
			if log != nil {
				log.Info("component stopped", "component", r.Name())
			}
			if err != nil {
				return fmt.Errorf("%s: %w", r.Name(), err)
			}
			return nil
		})
	}

	return g.Wait()
}
