package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lnquy/threadpool"
)

type burstOptions struct {
	tasks    int
	work     time.Duration
	duration time.Duration
	interval time.Duration
}

func newBurstCmd(o *options) *cobra.Command {
	bo := &burstOptions{}
	cmd := &cobra.Command{
		Use:   "burst",
		Short: "Submit a burst of slow tasks in cached mode and sample the worker count",
		Long: `burst forces cached mode, submits a batch of sleeping tasks at once and
samples the pool while it grows to absorb the burst and then retires idle
workers back to the floor.`,
		Example: `  tpool burst --workers 2 --max-workers 16 --tasks 32 --idle-timeout 2s --duration 5s`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBurst(cmd, o, bo)
		},
	}
	cmd.Flags().IntVarP(&bo.tasks, "tasks", "n", 32, "number of tasks in the burst")
	cmd.Flags().DurationVar(&bo.work, "work", 200*time.Millisecond, "how long each task sleeps")
	cmd.Flags().DurationVarP(&bo.duration, "duration", "d", 5*time.Second, "how long to observe the pool")
	cmd.Flags().DurationVar(&bo.interval, "interval", 250*time.Millisecond, "sampling interval")
	return cmd
}

func runBurst(cmd *cobra.Command, o *options, bo *burstOptions) error {
	if bo.tasks <= 0 || bo.duration <= 0 || bo.interval <= 0 {
		return errors.New("tasks, duration and interval must be positive")
	}

	pool, conf, err := o.newPool(func(c *threadpool.Config) {
		c.Mode = threadpool.ModeCached
		if c.IdleCheckInterval > c.IdleTimeout/4 && c.IdleTimeout >= 4*time.Millisecond {
			c.IdleCheckInterval = c.IdleTimeout / 4
		}
	})
	if err != nil {
		return err
	}
	pool.Start(conf.InitWorkers)
	defer pool.Close()

	futures := make([]*threadpool.Future[time.Duration], 0, bo.tasks)
	for i := 0; i < bo.tasks; i++ {
		futures = append(futures, threadpool.Submit(pool, func() time.Duration {
			time.Sleep(bo.work)
			return bo.work
		}))
	}

	out := cmd.OutOrStdout()
	table := newTable(out, "ELAPSED", "WORKERS", "IDLE", "PENDING", "FINISHED")
	var peak int32
	start := time.Now()
	ticker := time.NewTicker(bo.interval)
	defer ticker.Stop()
	timeout := time.After(bo.duration)

sampling:
	for {
		s := pool.Statistics()
		if s.CurrWorker > peak {
			peak = s.CurrWorker
		}
		table.Append([]string{
			time.Since(start).Round(time.Millisecond).String(),
			colorNumber(strconv.Itoa(int(s.CurrWorker))),
			strconv.Itoa(int(s.IdleWorker)),
			strconv.Itoa(int(s.PendingTasks)),
			strconv.FormatInt(s.FinishedTasks, 10),
		})

		select {
		case <-cmd.Context().Done():
			break sampling
		case <-timeout:
			break sampling
		case <-ticker.C:
		}
	}
	table.Render()

	var rejected int
	for _, f := range futures {
		if !f.Valid() {
			rejected++
		}
	}
	s := pool.Statistics()
	fmt.Fprintf(out, "\npeak workers: %s, final workers: %d, floor: %d, rejected: %d\n",
		colorNumber(strconv.Itoa(int(peak))), s.CurrWorker, s.MinWorker, rejected)
	printStatistics(out, s)
	return nil
}
