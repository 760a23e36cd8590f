package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/km-arc/go-autowire/framework/app"
	"github.com/km-arc/go-autowire/framework/container"
	gohttp "github.com/km-arc/go-autowire/framework/http"
	"github.com/km-arc/go-autowire/framework/hints"
	"github.com/km-arc/go-autowire/framework/metadata"
	"github.com/km-arc/go-autowire/framework/routing"
)

// ── Domain ───────────────────────────────────────────────────────────────────

type Gear struct{ Teeth int }

func NewGear() *Gear { return &Gear{Teeth: 12} }

type Auditor interface{ Audit(msg string) }

type zapAuditor struct{ log *zap.Logger }

func (a *zapAuditor) Audit(msg string) { a.log.Info(msg) }

type Widget struct {
	Gear    *Gear
	Auditor Auditor
}

// NewWidget is picked over NewPlainWidget because it takes more parameters.
// Its auditor is optional: the widget still builds when none is registered.
func NewWidget(g *Gear, a Auditor) *Widget { return &Widget{Gear: g, Auditor: a} }
func NewPlainWidget(g *Gear) *Widget       { return &Widget{Gear: g} }

// ── Providers ────────────────────────────────────────────────────────────────

type WorkshopProvider struct{ container.AutowireProvider }

func newWorkshopProvider() *WorkshopProvider {
	return &WorkshopProvider{container.AutowireProvider{Types: []container.Autowiring{
		{Type: metadata.MustDescribeOf[*Gear](metadata.Ctor(NewGear)), Singleton: true},
		{Type: metadata.MustDescribeOf[*Widget](
			metadata.Ctor(NewWidget, metadata.Param(1, hints.OptionalDependency{Name: "audit"})),
			metadata.Ctor(NewPlainWidget),
		)},
	}}}
}

func (p *WorkshopProvider) Register(c *container.Container) error {
	c.Singleton(container.AbstractFor[Auditor]("audit"), func(c *container.Container) any {
		return &zapAuditor{log: container.Resolve[*zap.Logger](c, "log").Named("audit")}
	})
	return p.AutowireProvider.Register(c)
}

func (p *WorkshopProvider) Boot(c *container.Container) error {
	router := container.Resolve[*routing.Router](c, "router")
	router.Get("/widget", func(w http.ResponseWriter, _ *http.Request) {
		widget, err := container.ResolveType[*Widget](c)
		res := gohttp.NewResponse(w)
		if err != nil {
			res.ServerError(err.Error())
			return
		}
		if widget.Auditor != nil {
			widget.Auditor.Audit("widget built")
		}
		res.Success(map[string]any{"teeth": widget.Gear.Teeth, "audited": widget.Auditor != nil})
	})
	return nil
}

func main() {
	application, err := app.New() // loads .env automatically
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := application.Register(newWorkshopProvider()); err != nil {
		application.Logger().Fatal("register workshop", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := application.Run(ctx); err != nil {
		application.Logger().Fatal("server", zap.Error(err))
	}
}
