// Package inspect serves a read-only JSON view of the build plans the
// container compiled for its autowired types.
//
//	GET /container/plans             every autowired abstract
//	GET /container/plans/{abstract}  one plan, or 404
package inspect

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/km-arc/go-autowire/framework/container"
	gohttp "github.com/km-arc/go-autowire/framework/http"
	"github.com/km-arc/go-autowire/framework/selection"
)

// Prefix is where the application mounts the inspector.
const Prefix = "/container"

// PlanView is the JSON form of a build plan.
type PlanView struct {
	Abstract    string          `json:"abstract"`
	Type        string          `json:"type"`
	Constructor string          `json:"constructor"`
	Marked      bool            `json:"marked"`
	Parameters  []ParameterView `json:"parameters"`
}

// ParameterView describes how one constructor argument is resolved.
type ParameterView struct {
	Position   int    `json:"position"`
	Type       string `json:"type"`
	Policy     string `json:"policy"`
	Name       string `json:"name,omitempty"`
	Resolvable bool   `json:"resolvable"`
}

// Handler exposes a container's plans.
type Handler struct {
	c   *container.Container
	log *zap.Logger
}

// New returns a Handler for c. A nil logger disables logging.
func New(c *container.Container, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{c: c, log: log.Named("inspect")}
}

// Routes returns the inspector's router, to be mounted at Prefix.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/plans", h.list)
	r.Get("/plans/{abstract}", h.show)
	return r
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	plans := h.c.Plans()
	out := make([]PlanView, 0, len(plans))
	for _, np := range plans {
		out = append(out, h.view(np.Abstract, np.Plan))
	}
	gohttp.NewResponse(w).Success(out)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	abstract, err := url.PathUnescape(chi.URLParam(r, "abstract"))
	if err != nil {
		res.Error(http.StatusBadRequest, "malformed abstract")
		return
	}
	plan, ok := h.c.Plan(abstract)
	if !ok {
		h.log.Debug("plan not found", zap.String("abstract", abstract))
		res.NotFound("no build plan for [" + abstract + "]")
		return
	}
	res.Success(h.view(abstract, plan))
}

func (h *Handler) view(abstract string, p *selection.BuildPlan) PlanView {
	params := p.Constructor.Parameters()
	v := PlanView{
		Abstract:    abstract,
		Type:        p.Type.Name(),
		Constructor: p.Constructor.String(),
		Marked:      p.Constructor.Marked(),
		Parameters:  make([]ParameterView, len(p.Resolvers)),
	}
	for i, pol := range p.Resolvers {
		v.Parameters[i] = ParameterView{
			Position:   params[i].Position(),
			Type:       pol.Type().String(),
			Policy:     pol.Kind().String(),
			Name:       pol.Name(),
			Resolvable: h.c.Resolvable(pol),
		}
	}
	return v
}
