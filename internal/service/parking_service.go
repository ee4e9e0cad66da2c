package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"curbside-service/internal/classify"
	"curbside-service/internal/decision"
	"curbside-service/internal/domain/curb"
	"curbside-service/internal/hydrant"
	"curbside-service/internal/metrics"
	"curbside-service/internal/opendata"
	"curbside-service/internal/violation"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// SnapshotStore is the persisted mirror of upstream rows, used when the live
// fetch returns nothing. It may be absent (nil) in stores-less deployments.
type SnapshotStore interface {
	Save(ctx context.Context, dataset, cellKey string, lat, lon float64, radiusM int, rows []curb.RawRecord) error
	Load(ctx context.Context, dataset, cellKey string) ([]curb.RawRecord, bool, error)
	PruneOlderThan(ctx context.Context, days int) (int64, error)
}

type ParkingService struct {
	openData  *opendata.Client
	snapshots SnapshotStore
	catalog   *violation.Catalog
	hydrants  hydrant.LookupFunc
	log       zerolog.Logger
}

func NewParkingService(
	openData *opendata.Client,
	snapshots SnapshotStore,
	catalog *violation.Catalog,
	hydrants hydrant.LookupFunc,
	log zerolog.Logger,
) *ParkingService {
	return &ParkingService{
		openData:  openData,
		snapshots: snapshots,
		catalog:   catalog,
		hydrants:  hydrants,
		log:       log,
	}
}

// StatusQuery is one parking evaluation request. Vehicle enum values must be
// validated by the caller before they reach here.
type StatusQuery struct {
	Lat               float64
	Lon               float64
	RadiusM           int
	Vehicle           curb.VehicleProfile
	GPSAccuracyM      float64
	HydrantDistanceFt *float64
	Now               time.Time
}

type LocationInfo struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	RadiusM   int       `json:"radius_m"`
	Address   string    `json:"address"`
	Timestamp time.Time `json:"timestamp"`
}

type SourceInfo struct {
	Regulations string `json:"regulations"`
	Meters      string `json:"meters"`
}

type StatusResult struct {
	Location     LocationInfo          `json:"location"`
	Rules        []curb.Rule           `json:"rules"`
	Decision     curb.Decision         `json:"decision"`
	Violations   curb.ViolationSummary `json:"violations"`
	Confidence   float64               `json:"confidence"`
	Warning      string                `json:"warning,omitempty"`
	Sources      SourceInfo            `json:"sources"`
	NextCleaning *time.Time            `json:"next_cleaning,omitempty"`
	Hydrants     hydrant.Freshness     `json:"hydrant_freshness"`
}

// Status evaluates parking at a point for a vehicle: fetch and classify
// regulations, parse meters, resolve hydrant proximity, then reduce the rule
// list to a decision and a violation summary.
func (s *ParkingService) Status(ctx context.Context, q StatusQuery) (*StatusResult, error) {
	if q.RadiusM < 1 || q.RadiusM > 500 {
		return nil, fmt.Errorf("%w: radius must be between 1 and 500 meters", ErrInvalidInput)
	}

	now := q.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rules []curb.Rule
	var nextCleaning *time.Time
	var cleaningTimeLeft string

	regRows := s.fetchWithFallback(ctx, opendata.RegulationsDataset, q.Lat, q.Lon, q.RadiusM)
	for _, row := range regRows {
		rule := classify.Classify(row, now, q.Vehicle)
		metrics.RulesClassifiedTotal.WithLabelValues(string(rule.Type)).Inc()
		if rule.Type == curb.RuleStreetCleaning {
			nextCleaning = rule.NextCleaning
			if rule.TimeLeft != nil {
				cleaningTimeLeft = *rule.TimeLeft
			}
		}
		rules = append(rules, rule)
	}

	meterRows := s.fetchWithFallback(ctx, opendata.MetersDataset, q.Lat, q.Lon, q.RadiusM)
	for _, row := range meterRows {
		rules = append(rules, classify.ParseMeterRecord(row))
	}

	hydrantRules, freshness := hydrant.BuildRules(ctx, hydrant.BuildParams{
		Lat:                q.Lat,
		Lon:                q.Lon,
		RadiusM:            q.RadiusM,
		OverrideDistanceFt: q.HydrantDistanceFt,
		GPSAccuracyM:       q.GPSAccuracyM,
	}, s.hydrants)
	rules = append(rules, hydrantRules...)

	// Demo fallback so an empty upstream result still exercises the full
	// pipeline; flagged by its source string.
	if len(rules) == 0 {
		fallback := demoFallbackRule(now)
		rules = append(rules, fallback)
		nextCleaning = fallback.NextCleaning
		cleaningTimeLeft = *fallback.TimeLeft
	}

	s.catalog.Attach(rules)

	verdict := decision.Decide(rules)
	metrics.DecisionsTotal.WithLabelValues(verdict.Status).Inc()

	summary := violation.Summarize(rules)

	warning := ""
	if cleaningTimeLeft != "" {
		warning = fmt.Sprintf("Cannot park here - street cleaning in %s", cleaningTimeLeft)
	}

	confidence := 0.5
	if len(rules) > 0 {
		confidence = 0.98
	}

	s.log.Info().
		Float64("lat", q.Lat).
		Float64("lon", q.Lon).
		Int("radius_m", q.RadiusM).
		Str("vehicle_type", string(q.Vehicle.Type)).
		Int("rules", len(rules)).
		Str("status", verdict.Status).
		Int("risk_score", verdict.RiskScore).
		Msg("parking status evaluated")

	return &StatusResult{
		Location: LocationInfo{
			Lat:       q.Lat,
			Lon:       q.Lon,
			RadiusM:   q.RadiusM,
			Address:   "NYC address lookup not implemented yet",
			Timestamp: now,
		},
		Rules:        rules,
		Decision:     verdict,
		Violations:   summary,
		Confidence:   confidence,
		Warning:      warning,
		Sources: SourceInfo{
			Regulations: "NYC Open Data (nfid-uabd)",
			Meters:      "NYC Open Data (693u-uax6)",
		},
		NextCleaning: nextCleaning,
		Hydrants:     freshness,
	}, nil
}

// fetchWithFallback pulls live rows, mirroring non-empty results into the
// snapshot store and reading the mirror back when the live fetch was empty.
func (s *ParkingService) fetchWithFallback(ctx context.Context, dataset string, lat, lon float64, radiusM int) []curb.RawRecord {
	var rows []curb.RawRecord
	switch dataset {
	case opendata.RegulationsDataset:
		rows = s.openData.Regulations(ctx, lat, lon, radiusM)
	case opendata.MetersDataset:
		rows = s.openData.Meters(ctx, lat, lon, radiusM)
	}

	if s.snapshots == nil {
		return rows
	}

	cellKey := snapshotCellKey(lat, lon, radiusM)
	if len(rows) > 0 {
		if err := s.snapshots.Save(ctx, dataset, cellKey, lat, lon, radiusM, rows); err != nil {
			s.log.Error().Err(err).Str("dataset", dataset).Msg("failed to save upstream snapshot")
		}
		return rows
	}

	stored, found, err := s.snapshots.Load(ctx, dataset, cellKey)
	if err != nil {
		s.log.Error().Err(err).Str("dataset", dataset).Msg("failed to load upstream snapshot")
		return rows
	}
	if found {
		metrics.SnapshotFallbacksTotal.Inc()
		s.log.Debug().
			Str("dataset", dataset).
			Str("cell", cellKey).
			Int("rows", len(stored)).
			Msg("served rows from snapshot store")
		return stored
	}
	return rows
}

// snapshotCellKey buckets nearby queries together; four decimals is roughly
// an 11 m cell.
func snapshotCellKey(lat, lon float64, radiusM int) string {
	return fmt.Sprintf("%.4f:%.4f:%d", lat, lon, radiusM)
}

// PruneSnapshots deletes snapshot rows older than the given number of days.
func (s *ParkingService) PruneSnapshots(ctx context.Context, days int) (int64, error) {
	if s.snapshots == nil {
		return 0, nil
	}
	if days <= 0 {
		return 0, fmt.Errorf("%w: days must be positive", ErrInvalidInput)
	}
	deleted, err := s.snapshots.PruneOlderThan(ctx, days)
	if err != nil {
		s.log.Error().Err(err).Int("days", days).Msg("failed to prune snapshots")
		return 0, err
	}
	if deleted > 0 {
		s.log.Info().Int64("deleted_count", deleted).Int("days", days).Msg("pruned old snapshots")
	}
	return deleted, nil
}

func demoFallbackRule(now time.Time) curb.Rule {
	nextCleaning := now.Add(24 * time.Hour)
	window := "06:00 - 09:00"
	timeLeft := "24h 0m"
	return curb.Rule{
		Type:         curb.RuleStreetCleaning,
		Description:  "Alternate Side Parking (demo fallback)",
		NextCleaning: &nextCleaning,
		Window:       &window,
		TimeLeft:     &timeLeft,
		Valid:        true,
		Source:       "Curbside Demo",
	}
}
