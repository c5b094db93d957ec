/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/nabla/engine"
	"github.com/spaghettifunk/nabla/engine/core"
	"github.com/spaghettifunk/nabla/testbed"
)

func main() {
	configPath := flag.String("config", "engine.toml", "path to the TOML configuration")
	backend := flag.String("backend", "", "renderer backend override (opengl or memory)")
	frames := flag.Uint64("frames", 0, "frames to run with the memory backend, 0 keeps the configured value")
	flag.Parse()

	config, err := engine.LoadApplicationConfig(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogWarn("%s not found, using the default configuration", *configPath)
		config, err = engine.DefaultApplicationConfig(), nil
	}
	if err != nil {
		core.LogFatal(err.Error())
	}
	if *backend != "" {
		config.Backend = *backend
	}
	if *frames > 0 {
		config.HeadlessFrames = *frames
	}
	if err := config.Validate(); err != nil {
		core.LogFatal(err.Error())
	}

	tb := testbed.NewTestGame(config)

	e, err := engine.New(tb.Game)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal(err.Error())
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// GL calls must stay on the main thread, so the handler only asks the loop to stop.
	go func() {
		<-sigCh
		e.Stop()
	}()

	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if runErr != nil {
		core.LogFatal(runErr.Error())
	}
}
