// Command fibertask drives a handful of example workloads against the
// scheduler from the command line, for manual exploration of its
// fairness and sizing properties.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"github.com/gofibersched/fibersched"
	"github.com/gofibersched/fibersched/examples/maze"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "fibertask",
		Usage: "run example scenarios against the fiber-based task scheduler",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "fiber-pool-size",
				Aliases: []string{"f"},
				Value:   128,
				Usage:   "number of worker fibers to pre-create",
			},
			&cli.StringFlag{
				Name:    "scenario",
				Aliases: []string{"s"},
				Value:   "fanout",
				Usage:   "fanout | chain | maze | oversubscribe",
			},
			&cli.IntFlag{
				Name:  "n",
				Value: 1000,
				Usage: "fan-out width (fanout) or per-worker multiplier (oversubscribe)",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
	cfg := fibersched.DefaultConfig()
	cfg.Logger = fibersched.NewZerologLogger(logger)

	fiberPoolSize := c.Int("fiber-pool-size")
	s, ctx, err := fibersched.Initialize(fiberPoolSize, cfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("initialize failed: %v", err), 1)
	}
	defer s.Quit()

	scenario := c.String("scenario")
	n := c.Int("n")

	switch scenario {
	case "fanout":
		runFanout(ctx, s, n)
	case "chain":
		runChain(ctx, s)
	case "maze":
		runMaze(ctx, s)
	case "oversubscribe":
		runOversubscribe(ctx, s, n, fiberPoolSize)
	default:
		return cli.Exit(fmt.Sprintf("unknown scenario %q", scenario), 1)
	}

	return nil
}

// runFanout submits N tasks, each incrementing a shared atomic
// integer, and waits on them as one batch.
func runFanout(ctx context.Context, s *fibersched.Scheduler, n int) {
	var total atomic.Int64
	entries := make([]fibersched.TaskEntry, n)
	for i := range entries {
		entries[i] = fibersched.TaskEntry{
			Fn: func(ctx context.Context, env fibersched.Env, arg any) {
				total.Add(1)
			},
		}
	}
	counter := s.AddTasks(entries)
	s.WaitForCounter(ctx, counter, 0)
	fmt.Printf("fanout: %d/%d tasks completed\n", total.Load(), n)
}

// runChain submits task A, which itself submits task B and waits on
// B's counter; B's completion is only observable to the caller after
// A itself returns.
func runChain(ctx context.Context, s *fibersched.Scheduler) {
	done := make(chan struct{})
	counterA := s.AddTask(fibersched.TaskEntry{
		Fn: func(ctx context.Context, env fibersched.Env, arg any) {
			counterB := env.Scheduler.AddTask(fibersched.TaskEntry{
				Fn: func(ctx context.Context, env fibersched.Env, arg any) {
					close(done)
				},
			})
			env.Scheduler.WaitForCounter(ctx, counterB, 0)
		},
	})
	s.WaitForCounter(ctx, counterA, 0)
	<-done
	fmt.Println("chain: task A observed task B's completion before returning")
}

// runMaze walks the default maze and prints it before and after.
func runMaze(ctx context.Context, s *fibersched.Scheduler) {
	grid := maze.NewGrid(maze.DefaultMaze)
	fmt.Println(grid.String())
	maze.Solve(ctx, s, grid, 1, 1)
	fmt.Println(grid.String())
}

// runOversubscribe submits n*W tasks, each waiting on a counter that a
// task it submits itself only decrements once it completes. Every
// waiter task's own batch counter — s.AddTasks's return value — only
// reaches zero once every waiter has itself unparked, so this
// exercises the fiber pool's sizing bound directly: it completes if
// fiberPoolSize >= W + n*W, and hangs otherwise.
func runOversubscribe(ctx context.Context, s *fibersched.Scheduler, n, fiberPoolSize int) {
	w := s.NumWorkers()
	total := n * w
	entries := make([]fibersched.TaskEntry, total)
	for i := range entries {
		entries[i] = fibersched.TaskEntry{
			Fn: func(ctx context.Context, env fibersched.Env, arg any) {
				later := env.Scheduler.AddTask(fibersched.TaskEntry{
					Fn: func(ctx context.Context, env fibersched.Env, arg any) {},
				})
				env.Scheduler.WaitForCounter(ctx, later, 0)
			},
		}
	}
	counter := s.AddTasks(entries)
	s.WaitForCounter(ctx, counter, 0)
	fmt.Printf("oversubscribe: all %d waiter chains completed (W=%d, fiber pool size %d)\n", total, w, fiberPoolSize)
}
