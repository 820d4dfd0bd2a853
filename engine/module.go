package engine

import (
	"context"
	"time"

	Logger "github.com/creepcomp/gallerybot/utils/log"
)

const (
	gracefulRetryDelay = 3 * time.Second
)

// Module is a long-running component whose lifecycle is bound to the Engine.
type Module interface {
	// RunModule contains the customized logic of the module. It takes in a
	// context object by which its lifecycle is managed. Return error if
	// encountered any error during execution.
	RunModule(ctx context.Context) error

	// Return name of the Module. Uniquely identifies the module instance.
	Name() string
}

// RunModuleWithGracefulRestart reruns a module whenever it exits with an
// error, so a transient platform failure does not take the whole bot down.
func RunModuleWithGracefulRestart(ctx context.Context, module Module) {
	for {
		err := module.RunModule(ctx)
		if err == nil {
			break
		}
		Logger.Log.Errorf("module %s exited with error %v, retry in %v", module.Name(), err, gracefulRetryDelay)

		// Wait for a small amount of time and restart.
		time.Sleep(gracefulRetryDelay)
	}
}
