package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lnquy/threadpool"
)

type sumOptions struct {
	tasks     int
	span      int64
	producers int
}

func newSumCmd(o *options) *cobra.Command {
	so := &sumOptions{}
	cmd := &cobra.Command{
		Use:   "sum",
		Short: "Sum integer ranges on the pool and print the partial results",
		Example: `  tpool sum --tasks 8 --span 1000000
  tpool sum --mode cached --workers 2 --max-workers 16 --tasks 64`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSum(cmd, o, so)
		},
	}
	cmd.Flags().IntVarP(&so.tasks, "tasks", "n", 10, "number of ranges to sum")
	cmd.Flags().Int64Var(&so.span, "span", 1_000_000, "size of each range")
	cmd.Flags().IntVar(&so.producers, "producers", 4, "number of concurrent submitters")
	return cmd
}

func runSum(cmd *cobra.Command, o *options, so *sumOptions) error {
	if so.tasks <= 0 || so.span <= 0 || so.producers <= 0 {
		return errors.New("tasks, span and producers must be positive")
	}

	pool, conf, err := o.newPool(nil)
	if err != nil {
		return err
	}
	pool.Start(conf.InitWorkers)
	defer pool.Close()

	start := time.Now()
	futures := make([]*threadpool.Future[int64], so.tasks)
	g, ctx := errgroup.WithContext(cmd.Context())
	for p := 0; p < so.producers; p++ {
		g.Go(func() error {
			for i := p; i < so.tasks; i += so.producers {
				if err := ctx.Err(); err != nil {
					return err
				}
				lo, hi := int64(i)*so.span, int64(i+1)*so.span
				futures[i] = threadpool.Submit(pool, func() int64 {
					return sumRange(lo, hi)
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "submit ranges")
	}

	bar := progressbar.NewOptions(so.tasks,
		progressbar.OptionSetDescription("collecting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetVisibility(isTerminal(cmd.ErrOrStderr())),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	out := cmd.OutOrStdout()
	table := newTable(out, "TASK", "RANGE", "SUM", "STATUS")
	var total int64
	var failed int
	for i, f := range futures {
		v := f.Get()
		err := f.Err()
		_ = bar.Add(1)
		if err != nil {
			failed++
		} else {
			total += v
		}
		table.Append([]string{
			strconv.Itoa(i),
			fmt.Sprintf("[%d, %d)", int64(i)*so.span, int64(i+1)*so.span),
			colorNumber(strconv.FormatInt(v, 10)),
			status(err),
		})
	}
	_ = bar.Finish()
	table.Render()

	fmt.Fprintf(out, "\ntotal: %s (%d tasks, %d failed) in %v\n",
		colorNumber(strconv.FormatInt(total, 10)), so.tasks, failed, time.Since(start).Round(time.Microsecond))
	printStatistics(out, pool.Statistics())

	if failed > 0 {
		return errors.Errorf("%d of %d tasks failed", failed, so.tasks)
	}
	return nil
}

func sumRange(lo, hi int64) int64 {
	var s int64
	for i := lo; i < hi; i++ {
		s += i
	}
	return s
}
