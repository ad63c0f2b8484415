package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/beerslab/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset,omitempty"`
	Solute    string             `json:"solute"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Resumed   string             `json:"resumed_from,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

var sampleHeader = []string{
	"time", "rate", "volume", "solute_moles", "concentration", "precipitate_moles",
	"shaker_particles", "precipitate_particles", "dispensed", "dissolved",
}

// Save writes metadata.json and samples.csv into a new run directory and
// returns the run ID. ID and Timestamp in meta are filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Solute, now.UnixMilli())
	meta.Timestamp = now
	meta.Steps = result.Steps
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(sampleHeader); err != nil {
		return "", err
	}
	for _, smp := range result.Samples {
		if err := w.Write(sampleRow(smp)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func sampleRow(s sim.Sample) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	return []string{
		f(s.Time), f(s.DispensingRate), f(s.Volume), f(s.SoluteMoles), f(s.Concentration), f(s.PrecipitateMoles),
		strconv.Itoa(s.ShakerParticles), strconv.Itoa(s.PrecipitateParticles),
		strconv.FormatUint(s.Dispensed, 10), strconv.FormatUint(s.Dissolved, 10),
	}
}

// List returns all runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads samples.csv back. Malformed rows are skipped.
func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		smp, err := parseRow(rec)
		if err != nil {
			continue
		}
		samples = append(samples, smp)
	}
	return samples, nil
}

func parseRow(rec []string) (sim.Sample, error) {
	if len(rec) != len(sampleHeader) {
		return sim.Sample{}, fmt.Errorf("expected %d fields, got %d", len(sampleHeader), len(rec))
	}
	var (
		s    sim.Sample
		errs []error
	)
	float := func(i int) float64 {
		v, err := strconv.ParseFloat(rec[i], 64)
		errs = append(errs, err)
		return v
	}
	integer := func(i int) int {
		v, err := strconv.Atoi(rec[i])
		errs = append(errs, err)
		return v
	}
	unsigned := func(i int) uint64 {
		v, err := strconv.ParseUint(rec[i], 10, 64)
		errs = append(errs, err)
		return v
	}

	s.Time = float(0)
	s.DispensingRate = float(1)
	s.Volume = float(2)
	s.SoluteMoles = float(3)
	s.Concentration = float(4)
	s.PrecipitateMoles = float(5)
	s.ShakerParticles = integer(6)
	s.PrecipitateParticles = integer(7)
	s.Dispensed = unsigned(8)
	s.Dissolved = unsigned(9)

	for _, err := range errs {
		if err != nil {
			return sim.Sample{}, err
		}
	}
	return s, nil
}
