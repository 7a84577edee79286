package deps

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/rl/internal/library"
)

// Deps are shared by every handler.
type Deps struct {
	Library   *library.Library
	Logger    logrus.FieldLogger
	StartTime time.Time
	Version   string
}
