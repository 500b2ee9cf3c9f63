// Package runner owns process lifecycle: banner, start hooks, the blocking
// workload, and bounded draining on the way down.
package runner

import (
	"bytes"
	"context"
	"os"

	"github.com/dimiro1/banner"
)

type State int32

const (
	StateNew State = iota
	StateStarting
	StateRunning
	StateDraining
	StateStopped
)

// Hooks run at the edges of the lifecycle. Both are optional.
type Hooks struct {
	OnStart func()
	OnStop  func()
}

// Drainer releases resources that need a bounded shutdown window.
type Drainer interface {
	Drain() error
}

// Workload is the blocking body of the process; returning ends the
// lifecycle.
type Workload func(ctx context.Context) error

const Version = "dev"

func PrintBanner() {
	tpl := "{{ .Title \"VIRA\" \"\" 0 }}\nVersion: " + Version + "\n"
	banner.Init(os.Stdout, true, true, bytes.NewBufferString(tpl))
}
