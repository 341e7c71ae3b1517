package pipeline

import (
	"net/http"

	"tailscale.com/tsweb"

	"github.com/banshee-data/backlight/internal/httputil"
	"github.com/banshee-data/backlight/internal/version"
)

// AttachAdminRoutes adds pipeline state to the /debug/ index and a JSON
// status endpoint.
func (p *Pipeline) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	debug.KV("Version", version.String())
	debug.KVFunc("Power", func() any {
		if p.gate.On() {
			return "on"
		}
		return "off"
	})
	debug.KVFunc("Pipeline", func() any { return p.Status().State })
	debug.KVFunc("Pool", func() any { return p.Census() })

	debug.HandleFunc("pipeline", "Pipeline status and counters", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSONOK(w, struct {
			Status
			Stats  any            `json:"stats"`
			Census map[string]int `json:"census"`
		}{p.Status(), p.Stats(), p.Census()})
	})
}
