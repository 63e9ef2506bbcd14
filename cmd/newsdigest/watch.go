package main

import (
	"fmt"

	"github.com/fwojciec/newsdigest"
	"github.com/robfig/cron/v3"
)

// Run executes the watch command. It scrapes on every schedule tick until
// the context is canceled. A tick that fires while a run is in progress is
// skipped. Every run appends to --out, which gets its header once.
func (c *WatchCmd) Run(deps *Dependencies) error {
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	run := func() {
		if _, err := c.Fetch.runFetch(deps, true); err != nil && deps.Logger != nil {
			deps.Logger.Error("scheduled run failed", "err", err)
		}
	}

	if _, err := scheduler.AddFunc(c.Schedule, run); err != nil {
		err = newsdigest.Errorf(newsdigest.EINVALID, "invalid cron schedule %q: %v", c.Schedule, err)
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsdigest.ErrorMessage(err))
		return err
	}

	if c.Immediately {
		run()
	}

	scheduler.Start()
	fmt.Fprintf(deps.Stdout, "Watching on schedule %q. Press Ctrl-C to stop.\n", c.Schedule)

	<-deps.Ctx.Done()
	<-scheduler.Stop().Done()
	return nil
}
