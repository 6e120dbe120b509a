package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
)

import (
	"github.com/pkg/errors"
)

// StartProfile writes a cpu profile to c.CPUProfile until StopProfile.
// It does nothing when no profile is configured or one is running.
func (c *Config) StartProfile() *Error {
	if c.CPUProfile == "" || c.stop != nil {
		return nil
	}
	f, err := os.Create(c.CPUProfile)
	if err != nil {
		return Fail(errors.Wrap(err, "could not create the cpu profile"))
	}
	err = pprof.StartCPUProfile(f)
	if err != nil {
		f.Close()
		return Err(ExitIO, errors.Wrap(err, "could not start the cpu profile"))
	}
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig, ok := <-sigs
		if !ok {
			return
		}
		pprof.StopCPUProfile()
		f.Close()
		panic(fmt.Errorf("caught signal: %v", sig))
	}()
	c.stop = func() {
		signal.Stop(sigs)
		close(sigs)
		pprof.StopCPUProfile()
		f.Close()
	}
	return nil
}

// StopProfile flushes the running cpu profile, if any.
func (c *Config) StopProfile() {
	if c.stop == nil {
		return
	}
	c.stop()
	c.stop = nil
}
