package risk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/akarpovich/health-analytics/internal/core/domain"
)

// Artifact bundles everything inference needs: the classifier, the scaler it
// was trained with, and the feature layout. The three are saved and loaded as
// one unit so they can never drift apart.
type Artifact struct {
	FeatureOrder []string       `json:"feature_order"`
	Model        LogisticModel  `json:"model"`
	Scaler       StandardScaler `json:"scaler"`
	Trained      bool           `json:"trained"`
	TrainedAt    time.Time      `json:"trained_at"`
	Accuracy     float64        `json:"accuracy"`
}

func (a *Artifact) validate() error {
	dim := len(a.FeatureOrder)
	if dim == 0 {
		return errors.New("empty feature order")
	}
	if len(a.Model.Weights) != dim {
		return fmt.Errorf("weights dimension %d does not match %d features", len(a.Model.Weights), dim)
	}
	if len(a.Scaler.Means) != dim || len(a.Scaler.Stds) != dim {
		return fmt.Errorf("scaler dimensions %d/%d do not match %d features", len(a.Scaler.Means), len(a.Scaler.Stds), dim)
	}
	for i, name := range a.FeatureOrder {
		if _, ok := featureDefault(name); !ok {
			return fmt.Errorf("unknown feature %q at position %d", name, i)
		}
	}
	return nil
}

// SaveArtifact writes the artifact atomically (temp file + rename).
func SaveArtifact(path string, artifact *Artifact) error {
	if err := artifact.validate(); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, "save model artifact", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads and validates an artifact. A missing file or an
// untrained flag comes back as domain.ErrModelNotTrained so callers can
// degrade instead of failing.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.WrapError(domain.ErrModelNotTrained, "load model artifact", err)
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "decode model artifact", err)
	}
	if err := artifact.validate(); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "validate model artifact", err)
	}
	if !artifact.Trained {
		return nil, domain.WrapError(domain.ErrModelNotTrained, "load model artifact", errors.New("trained flag is false"))
	}
	return &artifact, nil
}
