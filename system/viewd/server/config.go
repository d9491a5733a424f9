package server

import (
	"log/slog"

	"github.com/signadot/viewd/config"
	"github.com/signadot/viewd/view"
)

// Spec holds the runtime specification for the server.
// Config contains the serializable settings loaded from a file.
type Spec struct {
	Config   *config.Config
	Composer *view.Composer
	Log      *slog.Logger
}
