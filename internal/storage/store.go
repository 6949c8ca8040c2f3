package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/fractalscope/internal/fractal"
)

var ErrNotFound = errors.New("storage: frame not found")

// TimeLayout is the timestamp embedded in saved file names.
const TimeLayout = "20060102150405"

// Store keeps saved frames as PNG files with a JSON sidecar each.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type FrameMetadata struct {
	ID            string    `json:"id"`
	File          string    `json:"file"`
	Family        string    `json:"family"`
	CenterRe      float64   `json:"center_re"`
	CenterIm      float64   `json:"center_im"`
	Scale         float64   `json:"scale"`
	Constant      []float64 `json:"constant,omitempty"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	MaxIterations int       `json:"max_iterations"`
	Timestamp     time.Time `json:"timestamp"`
}

// Describe builds the metadata for the view a frame was rendered from.
func Describe(snap fractal.Snapshot) FrameMetadata {
	meta := FrameMetadata{
		Family:        snap.Family.Name(),
		CenterRe:      real(snap.Center),
		CenterIm:      imag(snap.Center),
		Scale:         snap.Scale,
		Width:         snap.Width,
		Height:        snap.Height,
		MaxIterations: snap.MaxIterations,
	}
	if j, ok := snap.Family.(fractal.Julia); ok {
		meta.Constant = []float64{real(j.C), imag(j.C)}
	}
	return meta
}

func prefix(family string) string {
	if family == "julia" {
		return "julia"
	}
	return "man"
}

// SaveFrame writes img as <prefix>_<timestamp>.png next to a .json sidecar
// and returns the PNG path. A second save within the same second gets a
// numeric suffix instead of overwriting.
func (s *Store) SaveFrame(img image.Image, meta FrameMetadata) (path string, err error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	meta.Timestamp = s.now()
	base := fmt.Sprintf("%s_%s", prefix(meta.Family), meta.Timestamp.Format(TimeLayout))
	id := base
	for n := 2; s.exists(id); n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	meta.ID = id
	meta.File = id + ".png"

	imgPath := filepath.Join(s.baseDir, meta.File)
	f, err := os.Create(imgPath)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.Remove(imgPath)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encode %s: %w", imgPath, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	metaPath := filepath.Join(s.baseDir, id+".json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	err = enc.Encode(meta)
	if cerr := metaFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(metaPath)
		return "", fmt.Errorf("write %s: %w", metaPath, err)
	}

	return imgPath, nil
}

func (s *Store) exists(id string) bool {
	_, err := os.Stat(filepath.Join(s.baseDir, id+".png"))
	return err == nil
}

// List returns the metadata of every saved frame, oldest first. Sidecars that
// cannot be parsed are skipped.
func (s *Store) List() ([]FrameMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []FrameMetadata{}, nil
		}
		return nil, err
	}

	frames := make([]FrameMetadata, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		meta, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		frames = append(frames, *meta)
	}

	sort.SliceStable(frames, func(i, j int) bool {
		if frames[i].Timestamp.Equal(frames[j].Timestamp) {
			return frames[i].ID < frames[j].ID
		}
		return frames[i].Timestamp.Before(frames[j].Timestamp)
	})
	return frames, nil
}

func (s *Store) Load(id string) (*FrameMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var meta FrameMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", id, err)
	}
	return &meta, nil
}

// LoadImage decodes the PNG saved under id.
func (s *Store) LoadImage(id string) (image.Image, error) {
	f, err := os.Open(filepath.Join(s.baseDir, id+".png"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}
