// Package autoload configures the global logger from LOG_* environment
// variables when blank-imported.
package autoload

import (
	configx "github.com/mlbb-ai/coach/pkg/config"
	logx "github.com/mlbb-ai/coach/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
