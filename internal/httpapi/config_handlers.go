package httpapi

import (
	"net/http"
	"sync/atomic"

	"jobscanner-engine/internal/config"
)

type ConfigHandler struct {
	CfgVal      *atomic.Value // config.Config
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"path":   h.UserCfgPath,
		"config": h.CfgVal.Load().(config.Config),
	})
}

// Reload re-reads the user config from disk. The active config is only
// swapped when the new one validates cleanly.
func (h ConfigHandler) Reload(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.LoadCfg()
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "config_load", err.Error())
		return
	}

	normalized, res := config.NormalizeAndValidate(cfg)
	if !res.OK() {
		WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"ok": false, "validation": res,
		})
		return
	}

	h.CfgVal.Store(normalized)
	writeJSON(w, map[string]any{"ok": true, "validation": res, "config": normalized})
}
