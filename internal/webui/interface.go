// ABOUTME: Routes for form apps: POST /api/predict runs the wrapped function
// ABOUTME: Inputs arrive positionally and outputs return as a list

package webui

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/2389/chailab/internal/bridge"
	"github.com/2389/chailab/internal/store"
)

// PredictRequest is the body of POST /api/predict.
type PredictRequest struct {
	Inputs json.RawMessage `json:"inputs"`
}

// PredictResponse is the success body of POST /api/predict.
type PredictResponse struct {
	Success bool  `json:"success"`
	Outputs []any `json:"outputs"`
}

type interfaceApp struct {
	*Handler
	iface *bridge.Interface
}

// NewInterfaceHandler serves iface as a form page.
func NewInterfaceHandler(iface *bridge.Interface, opts Options) *Handler {
	cfg := iface.Config()
	h := newHandler(store.KindPredict, cfg.Title, cfg.Theme, cfg, opts)
	app := &interfaceApp{Handler: h, iface: iface}
	h.mux.HandleFunc("POST /api/predict", app.handlePredict)
	return h
}

// handlePredict handles POST /api/predict.
func (a *interfaceApp) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	inputs, err := parseInputs(req.Inputs)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	outputs, err := a.iface.Execute(r.Context(), inputs)
	a.record(r, inputs, outputs, err, time.Since(start))
	if err != nil {
		a.writeCallError(w, r, err)
		return
	}

	a.writeResult(w, r, PredictResponse{Success: true, Outputs: outputs})
}

// parseInputs accepts a JSON array or an absent field.
func parseInputs(raw json.RawMessage) ([]any, error) {
	if isNull(raw) {
		return []any{}, nil
	}
	var inputs []any
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return nil, &bridge.RequestValidationError{Field: "inputs", Err: errNotList}
	}
	return inputs, nil
}
