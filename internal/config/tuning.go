package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Zone key policy names. The policy decides how raw fingerprint samples are
// binned into zones: by their room/floor label, or by rounding their GPS
// coordinates into grid buckets.
const (
	ZoneKeyRoomFloor = "room_floor"
	ZoneKeyGrid      = "grid"
)

// Tuning holds the empirically calibrated parameters of the positioning
// engine. All values were tuned against the campus survey data; recalibrating
// means editing the JSON file, not the algorithm. Fields omitted from the
// JSON retain their defaults, so partial configs are safe.
type Tuning struct {
	// Matcher params
	MatchConfidenceMin *float64 `json:"match_confidence_min,omitempty"` // fingerprint accept threshold (0..1)
	MinMatchedAPs      *int     `json:"min_matched_aps,omitempty"`      // zone eligibility floor
	MissingAPPenalty   *float64 `json:"missing_ap_penalty,omitempty"`   // score points per expected-but-missing AP
	DiffWeightDivisor  *float64 `json:"diff_weight_divisor,omitempty"`  // per-AP weight = 1/(1+diff/divisor)

	// Path-loss model params
	RSSIRefDBm       *float64 `json:"rssi_ref_dbm,omitempty"`       // reference RSSI at 1 metre
	PathLossExponent *float64 `json:"path_loss_exponent,omitempty"` // 2.0 free space, 3.0+ heavy walls

	// Triangulation weighting params
	DistanceWeightScale    *float64 `json:"distance_weight_scale,omitempty"`    // w = scale / d^exponent
	DistanceWeightExponent *float64 `json:"distance_weight_exponent,omitempty"` //

	// Nearest-AP room estimator thresholds (dBm)
	NearHighDBm   *int `json:"near_high_dbm,omitempty"`
	NearMediumDBm *int `json:"near_medium_dbm,omitempty"`

	// Zone binning params
	ZoneKeyPolicy *string `json:"zone_key_policy,omitempty"` // "room_floor" or "grid"
	GridKeyPlaces *int    `json:"grid_key_places,omitempty"` // lat/lon decimal places for grid keys
}

// EmptyTuning returns a Tuning with all fields unset. The Get* methods
// provide the calibrated defaults for any field left nil.
func EmptyTuning() *Tuning {
	return &Tuning{}
}

// LoadTuning loads a Tuning from a JSON file. The file must have a .json
// extension and stay under the max file size.
func LoadTuning(path string) (*Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("tuning file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat tuning file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("tuning file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning file: %w", err)
	}

	cfg := EmptyTuning()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tuning JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *Tuning) Validate() error {
	if c.MatchConfidenceMin != nil {
		if *c.MatchConfidenceMin < 0 || *c.MatchConfidenceMin > 1 {
			return fmt.Errorf("match_confidence_min must be between 0 and 1, got %f", *c.MatchConfidenceMin)
		}
	}
	if c.MinMatchedAPs != nil && *c.MinMatchedAPs < 1 {
		return fmt.Errorf("min_matched_aps must be at least 1, got %d", *c.MinMatchedAPs)
	}
	if c.PathLossExponent != nil && *c.PathLossExponent <= 0 {
		return fmt.Errorf("path_loss_exponent must be positive, got %f", *c.PathLossExponent)
	}
	if c.DiffWeightDivisor != nil && *c.DiffWeightDivisor <= 0 {
		return fmt.Errorf("diff_weight_divisor must be positive, got %f", *c.DiffWeightDivisor)
	}
	if c.DistanceWeightExponent != nil && *c.DistanceWeightExponent <= 0 {
		return fmt.Errorf("distance_weight_exponent must be positive, got %f", *c.DistanceWeightExponent)
	}
	if c.GridKeyPlaces != nil {
		if *c.GridKeyPlaces < 0 || *c.GridKeyPlaces > 8 {
			return fmt.Errorf("grid_key_places must be between 0 and 8, got %d", *c.GridKeyPlaces)
		}
	}
	if c.ZoneKeyPolicy != nil {
		switch *c.ZoneKeyPolicy {
		case ZoneKeyRoomFloor, ZoneKeyGrid:
		default:
			return fmt.Errorf("zone_key_policy must be %q or %q, got %q", ZoneKeyRoomFloor, ZoneKeyGrid, *c.ZoneKeyPolicy)
		}
	}
	return nil
}

// GetMatchConfidenceMin returns the fingerprint accept threshold or the default.
// Earlier deployments ran 0.2; the surveyed building settled on 0.3.
func (c *Tuning) GetMatchConfidenceMin() float64 {
	if c.MatchConfidenceMin == nil {
		return 0.3
	}
	return *c.MatchConfidenceMin
}

// GetMinMatchedAPs returns the zone eligibility floor or the default.
func (c *Tuning) GetMinMatchedAPs() int {
	if c.MinMatchedAPs == nil {
		return 2
	}
	return *c.MinMatchedAPs
}

// GetMissingAPPenalty returns the expected-but-missing AP penalty or the default.
func (c *Tuning) GetMissingAPPenalty() float64 {
	if c.MissingAPPenalty == nil {
		return 2.0
	}
	return *c.MissingAPPenalty
}

// GetDiffWeightDivisor returns the per-AP difference softening divisor or the default.
func (c *Tuning) GetDiffWeightDivisor() float64 {
	if c.DiffWeightDivisor == nil {
		return 10.0
	}
	return *c.DiffWeightDivisor
}

// GetRSSIRefDBm returns the 1-metre reference RSSI or the default.
func (c *Tuning) GetRSSIRefDBm() float64 {
	if c.RSSIRefDBm == nil {
		return -40.0
	}
	return *c.RSSIRefDBm
}

// GetPathLossExponent returns the indoor path-loss exponent or the default.
func (c *Tuning) GetPathLossExponent() float64 {
	if c.PathLossExponent == nil {
		return 2.7
	}
	return *c.PathLossExponent
}

// GetDistanceWeightScale returns the triangulation weight scale or the default.
func (c *Tuning) GetDistanceWeightScale() float64 {
	if c.DistanceWeightScale == nil {
		return 2.0
	}
	return *c.DistanceWeightScale
}

// GetDistanceWeightExponent returns the triangulation weight exponent or the default.
func (c *Tuning) GetDistanceWeightExponent() float64 {
	if c.DistanceWeightExponent == nil {
		return 0.65
	}
	return *c.DistanceWeightExponent
}

// GetNearHighDBm returns the nearest-AP "High" confidence threshold or the default.
func (c *Tuning) GetNearHighDBm() int {
	if c.NearHighDBm == nil {
		return -50
	}
	return *c.NearHighDBm
}

// GetNearMediumDBm returns the nearest-AP "Medium" confidence threshold or the default.
func (c *Tuning) GetNearMediumDBm() int {
	if c.NearMediumDBm == nil {
		return -70
	}
	return *c.NearMediumDBm
}

// GetZoneKeyPolicy returns the zone binning policy or the default.
func (c *Tuning) GetZoneKeyPolicy() string {
	if c.ZoneKeyPolicy == nil {
		return ZoneKeyRoomFloor
	}
	return *c.ZoneKeyPolicy
}

// GetGridKeyPlaces returns the grid key rounding granularity or the default.
// The 4-decimal-place default (~11m buckets) came from the survey tools and
// has no documented precision requirement, hence the knob.
func (c *Tuning) GetGridKeyPlaces() int {
	if c.GridKeyPlaces == nil {
		return 4
	}
	return *c.GridKeyPlaces
}
