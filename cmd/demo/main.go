package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calmweave/statechart"
	"github.com/calmweave/statechart/internal/production"
	"github.com/calmweave/statechart/runner"
)

func main() {
	chart, err := statechart.NewBuilder("traffic-light").
		Root("traffic", "red").
		Basic("red", "traffic").
		Basic("green", "traffic").
		Basic("yellow", "traffic").
		On("red", "TIMER", "green").
		On("green", "TIMER", "yellow").
		On("yellow", "TIMER", "red").
		Build()
	if err != nil {
		panic(err)
	}

	publishChan := make(chan production.PublishedMetaEvent, 100)
	publisher := production.NewChannelPublisher(publishChan)

	interp, err := statechart.NewInterpreter(chart)
	if err != nil {
		panic(err)
	}
	interp.Attach(publisher.Listener(interp.ID()))

	go func() {
		for pe := range publishChan {
			if pe.MetaEvent.Name == statechart.MetaStateEntered {
				fmt.Printf("  entered %v\n", pe.MetaEvent.Data["state"])
			}
		}
	}()

	r := runner.New(interp, runner.Config{TickRate: 50 * time.Millisecond})
	if err := r.Start(context.Background()); err != nil {
		panic(err)
	}
	defer r.Stop()

	persister, err := production.NewJSONPersister("/tmp")
	if err != nil {
		panic(err)
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	visualizer := &production.Visualizer{}
	cycles := 0
	for {
		select {
		case <-ticker.C:
			cycles++
			fmt.Printf("\n--- Cycle %d ---\n", cycles)
			if err := r.SendEventName("TIMER"); err != nil {
				fmt.Printf("send error: %v\n", err)
			}
		case <-sig:
			fmt.Println("\nshutting down")
			r.Stop()
			if err := persister.Save(interp.Snapshot()); err != nil {
				fmt.Printf("snapshot error: %v\n", err)
			} else {
				fmt.Printf("snapshot saved for %s\n", interp.ID())
			}
			fmt.Println(visualizer.ExportDOT(chart, interp.Configuration()))
			return
		}
	}
}
