package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/outclass-odds/internal/arbitrage"
	"github.com/yourusername/outclass-odds/internal/oddsapi"
)

const maxBodyBytes = 10 << 20

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ConfigResponse reports server capabilities without revealing secrets.
type ConfigResponse struct {
	HasAPIKey bool `json:"has_api_key"`
}

// OddsResponse is returned by GET /odds.
type OddsResponse struct {
	Sport  string               `json:"sport"`
	Region string               `json:"region"`
	Market string               `json:"market"`
	Events []arbitrage.RawEvent `json:"events"`
}

// ArbitrageRequest is the body of POST /arbitrage. Events supplied in the body
// take precedence over fetching from the provider.
type ArbitrageRequest struct {
	Sport  string   `json:"sport"`
	Region string   `json:"region"`
	Market string   `json:"market" validate:"omitempty,max=64"`
	Events []any    `json:"events"`
	Stake  *float64 `json:"stake" validate:"omitempty,gte=0,lte=1e12"`
}

// ArbitrageResponse is returned by POST /arbitrage.
type ArbitrageResponse struct {
	Results []arbitrage.Result `json:"arbitrage_results"`
}

// DebugResponse describes a payload without analyzing it.
type DebugResponse struct {
	ReceivedKeys   []string `json:"received_keys"`
	EventsCount    *int     `json:"events_count"`
	FirstEvent     any      `json:"first_event"`
	RawPayloadType string   `json:"raw_payload_type"`
}

// ErrorResponse carries a human readable failure description.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.cfg.ServiceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.cfg.Version,
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: s.cfg.ServiceName,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"service": "ok"}
	status := http.StatusOK

	if !s.IsReady() {
		checks["service"] = "not_ready"
		status = http.StatusServiceUnavailable
	}
	if s.odds == nil {
		checks["odds_source"] = "missing"
		status = http.StatusServiceUnavailable
	} else if breaker, ok := s.odds.(interface{ CircuitOpen() bool }); ok && breaker.CircuitOpen() {
		checks["odds_source"] = "circuit_open"
		status = http.StatusServiceUnavailable
	} else {
		checks["odds_source"] = "ok"
	}

	resp := ReadyResponse{Status: "ready", Checks: checks}
	if status != http.StatusOK {
		resp.Status = "not_ready"
	}
	respondJSON(w, status, resp)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ConfigResponse{
		HasAPIKey: s.odds != nil && s.odds.HasAPIKey(),
	})
}

func (s *Server) handleOdds(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sport := valueOr(query.Get("sport"), s.cfg.DefaultSport)
	region := valueOr(query.Get("region"), s.cfg.DefaultRegion)
	market := valueOr(query.Get("market"), s.cfg.DefaultMarket)

	events, err := s.fetch(r, sport, region, market)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	if events == nil {
		events = []arbitrage.RawEvent{}
	}

	respondJSON(w, http.StatusOK, OddsResponse{
		Sport:  sport,
		Region: region,
		Market: market,
		Events: events,
	})
}

func (s *Server) handleArbitrage(w http.ResponseWriter, r *http.Request) {
	var req ArbitrageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	region := valueOr(req.Region, s.cfg.DefaultRegion)
	market := valueOr(req.Market, s.cfg.DefaultMarket)
	stake := s.cfg.DefaultStake
	if req.Stake != nil && *req.Stake > 0 {
		stake = *req.Stake
	}

	var events []arbitrage.RawEvent
	if len(req.Events) > 0 {
		events = oddsapi.ToEvents(req.Events)
	} else {
		if strings.TrimSpace(req.Sport) == "" {
			respondError(w, http.StatusBadRequest, "sport is required when not providing events")
			return
		}
		fetched, err := s.fetch(r, req.Sport, region, market)
		if err != nil {
			respondError(w, http.StatusBadGateway, err.Error())
			return
		}
		events = fetched
	}

	respondJSON(w, http.StatusOK, ArbitrageResponse{
		Results: s.analyzer.AnalyzeBatch(events, market, stake),
	})
}

func (s *Server) handleArbitrageDebug(w http.ResponseWriter, r *http.Request) {
	var payload any
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	resp := DebugResponse{RawPayloadType: jsonTypeName(payload)}
	if obj, ok := payload.(map[string]any); ok {
		resp.ReceivedKeys = make([]string, 0, len(obj))
		for k := range obj {
			resp.ReceivedKeys = append(resp.ReceivedKeys, k)
		}
		sort.Strings(resp.ReceivedKeys)

		if events, ok := obj["events"].([]any); ok {
			count := len(events)
			resp.EventsCount = &count
			if count > 0 {
				resp.FirstEvent = events[0]
			}
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) fetch(r *http.Request, sport, region, market string) ([]arbitrage.RawEvent, error) {
	if s.odds == nil {
		return nil, errors.New("no odds source configured")
	}
	return s.odds.FetchOdds(r.Context(), oddsapi.Query{Sport: sport, Regions: region, Markets: market})
}

// decodeJSON decodes a request body keeping numbers as json.Number, so event ids
// and prices survive unchanged.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	parts := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		switch fe.Field() {
		case "Stake":
			if fe.Tag() == "lte" {
				parts = append(parts, "stake must not exceed "+fe.Param())
				continue
			}
			parts = append(parts, "stake must not be negative")
		default:
			parts = append(parts, fmt.Sprintf("%s failed validation: %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func valueOr(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, ErrorResponse{Detail: detail})
}
