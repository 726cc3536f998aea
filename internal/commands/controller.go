// Package commands contains the CLI commands for the application
package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
)

type Flags struct {
	LogLevel   string
	ConfigPath string
}

type Controller struct {
	Flags *Flags

	// Stdin and Stdout default to the process streams when nil
	Stdin  io.Reader
	Stdout io.Writer
}

func (c *Controller) stdin() io.Reader {
	if c.Stdin != nil {
		return c.Stdin
	}
	return os.Stdin
}

func (c *Controller) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

// SignalNotifier abstracts os/signal for tests
type SignalNotifier interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

type defaultSignalNotifier struct{}

func (n *defaultSignalNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (n *defaultSignalNotifier) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}

// Output abstracts user facing console output
type Output interface {
	Printf(format string, a ...interface{})
	Println(a ...interface{})
}

type defaultOutput struct{}

func (o *defaultOutput) Printf(format string, a ...interface{}) {
	fmt.Printf(format, a...)
}

func (o *defaultOutput) Println(a ...interface{}) {
	fmt.Println(a...)
}
