package api

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/campus-geo/wifi-locate/internal/fingerprint"
	"github.com/campus-geo/wifi-locate/internal/httputil"
	"github.com/campus-geo/wifi-locate/internal/monitoring"
	"github.com/campus-geo/wifi-locate/internal/version"
)

func (s *Server) showStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	zones, aps, samples := s.engine.Stats()
	status := map[string]interface{}{
		"status":       "running",
		"aps_loaded":   aps,
		"fingerprints": samples,
		"zones":        zones,
		"version":      version.Version,
	}
	if s.hub != nil {
		status["ws_clients"] = s.hub.ClientCount()
	}

	httputil.WriteJSONOK(w, status)
}

func (s *Server) showPosition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	last, err := s.db.LastPosition()
	if err != nil {
		httputil.InternalServerError(w, "failed to load last position")
		return
	}
	if last == nil {
		// The dashboard expects a 200 with success=false before the first fix.
		httputil.WriteJSONOK(w, map[string]interface{}{
			"success": false,
			"error":   "No position data yet",
		})
		return
	}

	httputil.WriteJSONOK(w, last)
}

func (s *Server) listAPs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	dir := s.engine.Snapshot().Directory()
	aps := make([]fingerprint.Entry, 0, len(dir))
	for _, entry := range dir {
		aps = append(aps, entry)
	}
	sort.Slice(aps, func(i, j int) bool { return aps[i].APID < aps[j].APID })

	httputil.WriteJSONOK(w, map[string]interface{}{
		"total": len(aps),
		"aps":   aps,
	})
}

type locateRequest struct {
	Frame string `json:"frame"`
}

// decodeFrameString accepts the frame as hex or standard base64; survey
// hardware dumps use hex, the network server uses base64.
func decodeFrameString(frame string) ([]byte, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(frame), ":", "")
	if raw, err := hex.DecodeString(cleaned); err == nil {
		return raw, nil
	}
	return base64.StdEncoding.DecodeString(frame)
}

func (s *Server) locateFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req locateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, "invalid JSON body")
		return
	}
	if req.Frame == "" {
		httputil.BadRequest(w, "missing 'frame' field")
		return
	}

	raw, err := decodeFrameString(req.Frame)
	if err != nil {
		httputil.BadRequest(w, "frame is neither valid hex nor base64")
		return
	}

	result := s.engine.Locate(s.engine.Decode(raw))
	httputil.WriteJSONOK(w, result)
}

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		summaries, err := s.db.RoomSummaries()
		if err != nil {
			httputil.InternalServerError(w, "failed to load room summaries")
			return
		}
		httputil.WriteJSONOK(w, map[string]interface{}{
			"total_rooms": len(summaries),
			"rooms":       summaries,
		})

	case http.MethodPost:
		var samples []fingerprint.Sample
		if err := json.NewDecoder(r.Body).Decode(&samples); err != nil {
			httputil.BadRequest(w, "invalid JSON body")
			return
		}
		if len(samples) == 0 {
			httputil.BadRequest(w, "empty sample batch")
			return
		}

		if err := s.db.InsertFingerprints(samples); err != nil {
			httputil.InternalServerError(w, "failed to store samples")
			return
		}

		// Rebuild from the full stored collection so zone order stays tied
		// to insertion order, not to this batch.
		all, err := s.db.LoadFingerprints()
		if err != nil {
			httputil.InternalServerError(w, "failed to reload samples")
			return
		}
		s.engine.Rebuild(all)
		monitoring.Logf("[api] inserted %d samples, rebuilt from %d total", len(samples), len(all))

		httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
			"inserted": len(samples),
			"total":    len(all),
		})

	default:
		httputil.MethodNotAllowed(w)
	}
}
