package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/iwvelando/metrics-calculator/internal/indicator"
	"github.com/iwvelando/metrics-calculator/internal/registry"
	"github.com/iwvelando/metrics-calculator/pkg/constants"
	"github.com/iwvelando/metrics-calculator/pkg/numlist"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type indicatorsResponse struct {
	CurrencySymbol string                 `json:"currencySymbol"`
	Indicators     []indicator.Definition `json:"indicators"`
}

type calculateRequest struct {
	Indicator string                 `json:"indicator"`
	Name      string                 `json:"name,omitempty"`
	Inputs    map[string]interface{} `json:"inputs"`
	Lists     map[string]interface{} `json:"lists"`
	Save      *bool                  `json:"save,omitempty"`
}

type resultEntry struct {
	Name    string         `json:"name"`
	Value   registry.Value `json:"value"`
	Display string         `json:"display"`
}

type calculateResponse struct {
	resultEntry
	Message string `json:"message"`
	Saved   bool   `json:"saved"`
}

type resultsResponse struct {
	Results []resultEntry `json:"results"`
}

type putResultRequest struct {
	Value  *registry.Value `json:"value"`
	Values []float64       `json:"values"`
}

func (h *handler) handleIndicators(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, indicatorsResponse{
		CurrencySymbol: h.currencySymbol,
		Indicators:     h.catalog.All(),
	})
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"

	var req calculateRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	def, ok := h.catalog.Lookup(req.Indicator)
	if !ok {
		calculationsTotal.WithLabelValues("unknown", "invalid").Inc()
		h.respondFieldError(w, http.StatusBadRequest,
			fmt.Sprintf("unknown indicator %q", req.Indicator), "indicator", op)
		return
	}

	inputs, err := buildInputs(req)
	if err == nil {
		var value registry.Value
		value, err = def.Evaluate(inputs)
		if err == nil {
			h.finishCalculation(w, r, req, def, value)
			return
		}
	}

	var vErr *indicator.ValidationError
	if errors.As(err, &vErr) {
		calculationsTotal.WithLabelValues(def.Key, "invalid").Inc()
		h.respondFieldError(w, http.StatusBadRequest, vErr.Message, vErr.Field, op)
		return
	}
	calculationsTotal.WithLabelValues(def.Key, "error").Inc()
	h.respondErrorWithOp(w, http.StatusUnprocessableEntity, err.Error(), op)
}

func (h *handler) finishCalculation(w http.ResponseWriter, r *http.Request, req calculateRequest, def indicator.Definition, value registry.Value) {
	const op = "server.handleCalculate"
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = def.Name
	}
	if err := validateResultName(name); err != nil {
		calculationsTotal.WithLabelValues(def.Key, "invalid").Inc()
		h.respondFieldError(w, http.StatusBadRequest, err.Error(), "name", op)
		return
	}
	save := req.Save == nil || *req.Save

	if save {
		if err := h.withRegistry(w, r, func(reg *registry.Registry) error {
			reg.Put(name, value)
			return nil
		}); err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
			return
		}
	}

	calculationsTotal.WithLabelValues(def.Key, "ok").Inc()
	h.logger.Debug("indicator calculated",
		zap.String("op", op),
		zap.String("indicator", def.Key),
		zap.String("name", name),
		zap.Stringer("value", value),
		zap.Bool("saved", save),
	)

	display := def.Display(value, h.currencySymbol)
	h.writeJSON(w, http.StatusOK, calculateResponse{
		resultEntry: resultEntry{Name: name, Value: value, Display: display},
		Message:     name + ": " + display,
		Saved:       save,
	})
}

func (h *handler) handleListResults(w http.ResponseWriter, r *http.Request) {
	resp := resultsResponse{Results: []resultEntry{}}
	if err := h.withRegistry(w, r, func(reg *registry.Registry) error {
		for name, value := range reg.List() {
			resp.Results = append(resp.Results, h.entry(name, value))
		}
		return nil
	}); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleListResults")
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleClearResults(w http.ResponseWriter, r *http.Request) {
	if err := h.withRegistry(w, r, func(reg *registry.Registry) error {
		reg.Clear()
		return nil
	}); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleClearResults")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleGetResult(w http.ResponseWriter, r *http.Request) {
	name := httprouter.ParamsFromContext(r.Context()).ByName("name")

	var entry resultEntry
	err := h.withRegistry(w, r, func(reg *registry.Registry) error {
		value, err := reg.Get(name)
		if err != nil {
			return err
		}
		entry = h.entry(name, value)
		return nil
	})
	if err != nil {
		h.respondRegistryError(w, err, "server.handleGetResult")
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

func (h *handler) handlePutResult(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePutResult"
	name := strings.TrimSpace(httprouter.ParamsFromContext(r.Context()).ByName("name"))
	if err := validateResultName(name); err != nil {
		h.respondFieldError(w, http.StatusBadRequest, err.Error(), "name", op)
		return
	}

	var req putResultRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	var value registry.Value
	switch {
	case req.Value != nil:
		value = *req.Value
	case req.Values != nil:
		value = registry.List(req.Values)
	default:
		h.respondFieldError(w, http.StatusBadRequest, "value is required", "value", op)
		return
	}

	if err := h.withRegistry(w, r, func(reg *registry.Registry) error {
		reg.Put(name, value)
		return nil
	}); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, h.entry(name, value))
}

func (h *handler) handleDeleteResult(w http.ResponseWriter, r *http.Request) {
	name := httprouter.ParamsFromContext(r.Context()).ByName("name")
	if err := h.withRegistry(w, r, func(reg *registry.Registry) error {
		return reg.Remove(name)
	}); err != nil {
		h.respondRegistryError(w, err, "server.handleDeleteResult")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var data []byte
	if err := h.withRegistry(w, r, func(reg *registry.Registry) error {
		var err error
		data, err = reg.Export()
		return err
	}); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to export results: %v", err), "server.handleExport")
		return
	}

	if data == nil {
		// nothing calculated yet
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", constants.ExportFileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write export",
			zap.String("op", "server.handleExport"),
			zap.Error(err),
		)
	}
}

// validateResultName rejects names that the /api/results/:name routes could
// not address.
func validateResultName(name string) error {
	if name == "" {
		return errors.New("result name is required")
	}
	if strings.Contains(name, "/") {
		return errors.New(`result name cannot contain "/"`)
	}
	return nil
}

func (h *handler) respondRegistryError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, registry.ErrNotFound) {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
}

func (h *handler) entry(name string, value registry.Value) resultEntry {
	return resultEntry{
		Name:    name,
		Value:   value,
		Display: h.catalog.DisplayEntry(name, value, h.currencySymbol),
	}
}

// buildInputs converts the loosely typed form payload into calculation inputs.
// Blank scalars are left out so that validation reports them as required.
func buildInputs(req calculateRequest) (indicator.Inputs, error) {
	inputs := indicator.Inputs{
		Scalars: make(map[string]float64, len(req.Inputs)),
		Lists:   make(map[string][]float64, len(req.Lists)),
	}

	for _, key := range sortedKeys(req.Inputs) {
		v, present, err := coerceFloat(req.Inputs[key])
		if err != nil {
			return indicator.Inputs{}, &indicator.ValidationError{Field: key, Message: err.Error()}
		}
		if present {
			inputs.Scalars[key] = v
		}
	}

	for _, key := range sortedKeys(req.Lists) {
		values, err := coerceList(req.Lists[key])
		if err != nil {
			return indicator.Inputs{}, &indicator.ValidationError{Field: key, Message: err.Error()}
		}
		inputs.Lists[key] = values
	}
	return inputs, nil
}

func coerceFloat(value interface{}) (float64, bool, error) {
	switch v := value.(type) {
	case nil:
		return 0, false, nil
	case json.Number:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return 0, false, fmt.Errorf("invalid number %q", v.String())
		}
		return f, true, nil
	case float64:
		return v, true, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false, fmt.Errorf("invalid number %q", trimmed)
		}
		return f, true, nil
	}
	return 0, false, fmt.Errorf("expected a number, got %T", value)
}

func coerceList(value interface{}) ([]float64, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return numlist.Parse(v)
	case []interface{}:
		values := make([]float64, 0, len(v))
		for i, item := range v {
			f, present, err := coerceFloat(item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %v", i+1, err)
			}
			if !present {
				return nil, fmt.Errorf("element %d is empty", i+1)
			}
			values = append(values, f)
		}
		return values, nil
	}
	return nil, fmt.Errorf("expected a list of numbers, got %T", value)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
