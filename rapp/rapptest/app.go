// Package rapptest provides test helpers for rapp applications.
//
// It constructs the identical DI graph as [rapp.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors.
//
// Example:
//
//	rapptest.SetBaseEnv(t, 18081)
//	app := rapptest.New[TestEnv](t, routing)
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package rapptest

import (
	"testing"

	"github.com/advdv/rhttp/rapp"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing rapp applications.
type App struct {
	*fxtest.App
}

// New creates a test app with the same DI graph as [rapp.NewApp].
func New[E rapp.Environment](t testing.TB, routing any, opts ...rapp.Option) *App {
	return &App{App: fxtest.New(t, rapp.FxOptions[E](routing, opts...)...)}
}
