package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/physics"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

type Store struct {
	baseDir string
	log     *zap.Logger

	// MaxRows caps the number of samples written to states.csv. Zero keeps
	// every sample.
	MaxRows int
}

func New(baseDir string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{baseDir: baseDir, log: log}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Timestamp      time.Time          `json:"timestamp"`
	Theta0         float64            `json:"theta0"`
	Damping        float64            `json:"damping"`
	Integrator     string             `json:"integrator"`
	StepsPerPeriod int                `json:"steps_per_period"`
	Dt             float64            `json:"dt"`
	Steps          int                `json:"steps"`
	Duration       float64            `json:"duration"`
	Peaks          int                `json:"peaks"`
	Stop           string             `json:"stop"`
	Period         *float64           `json:"period"`
	Physical       map[string]float64 `json:"physical"`
	Metrics        map[string]float64 `json:"metrics"`
}

// NewRunMetadata fills the fields derived from the trajectory. period is
// stored as null when it is the NaN sentinel and non-finite metrics are
// dropped.
func NewRunMetadata(p *physics.Pendulum, traj *dynamo.Trajectory, theta0 float64, integrator string, stepsPerPeriod int, period float64, metrics map[string]float64) RunMetadata {
	meta := RunMetadata{
		Theta0:         theta0,
		Damping:        traj.Damping,
		Integrator:     integrator,
		StepsPerPeriod: stepsPerPeriod,
		Dt:             traj.Dt,
		Steps:          traj.Len() - 1,
		Duration:       traj.Duration(),
		Peaks:          traj.Peaks,
		Stop:           traj.Reason.String(),
		Physical:       p.Params(),
		Metrics:        make(map[string]float64, len(metrics)),
	}
	if !math.IsNaN(period) {
		meta.Period = &period
	}
	// encoding/json rejects NaN and Inf.
	for k, v := range metrics {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			meta.Metrics[k] = v
		}
	}
	return meta
}

// Save writes meta and the (possibly decimated) trajectory with an energy
// column under a new run directory and returns the run id.
func (s *Store) Save(meta RunMetadata, traj *dynamo.Trajectory, p *physics.Pendulum) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	now := time.Now()
	meta.Timestamp = now
	base := fmt.Sprintf("run_%s", now.Format("20060102_150405.000000"))

	var runDir string
	for i := 0; ; i++ {
		meta.ID = base
		if i > 0 {
			meta.ID = fmt.Sprintf("%s_%d", base, i)
		}
		runDir = filepath.Join(s.baseDir, meta.ID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
	}

	out := traj
	if s.MaxRows > 0 {
		out = traj.Decimate(s.MaxRows)
	}
	if err := writeRun(runDir, meta, out, p); err != nil {
		// A partial run directory would show up in List with no states.
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			s.log.Warn("cleanup failed", zap.String("dir", runDir), zap.Error(rmErr))
		}
		return "", fmt.Errorf("save run %s: %w", meta.ID, err)
	}

	s.log.Info("run saved",
		zap.String("id", meta.ID),
		zap.Int("samples", traj.Len()),
		zap.Int("rows", out.Len()),
	)
	return meta.ID, nil
}

func writeRun(runDir string, meta RunMetadata, traj *dynamo.Trajectory, p *physics.Pendulum) error {
	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}
	if err := metaFile.Close(); err != nil {
		return err
	}

	return writeStates(filepath.Join(runDir, statesFile), traj, p)
}

func writeStates(path string, traj *dynamo.Trajectory, p *physics.Pendulum) error {
	csvFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"time", "theta", "omega", "energy"}); err != nil {
		return err
	}

	for i := 0; i < traj.Len(); i++ {
		x := traj.At(i)
		row := []string{
			strconv.FormatFloat(x.T, 'g', 12, 64),
			strconv.FormatFloat(x.Theta, 'g', 12, 64),
			strconv.FormatFloat(x.Omega, 'g', 12, 64),
			strconv.FormatFloat(p.Energy(x.Theta, x.Omega), 'g', 12, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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
			s.log.Debug("skipping run directory", zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}

	return &meta, nil
}

// LoadTrajectory reads states.csv back into a trajectory and its energy column.
func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	traj := &dynamo.Trajectory{}
	energy := make([]float64, 0, len(records))
	if len(records) < 2 {
		return traj, energy, nil
	}

	for i, record := range records[1:] {
		if len(record) < 4 {
			return nil, nil, fmt.Errorf("%s line %d: expected 4 fields, got %d", statesFile, i+2, len(record))
		}
		var vals [4]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s line %d: %w", statesFile, i+2, err)
			}
			vals[j] = v
		}
		traj.Append(dynamo.State{T: vals[0], Theta: vals[1], Omega: vals[2]})
		energy = append(energy, vals[3])
	}

	if traj.Len() > 1 {
		traj.Dt = (traj.Times[traj.Len()-1] - traj.Times[0]) / float64(traj.Len()-1)
	}
	return traj, energy, nil
}
