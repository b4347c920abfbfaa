package cache

import "github.com/matzehuels/wlrsim/pkg/model"

// keyVersion is bumped whenever the rendering output changes for identical
// inputs, so stale artifacts are never served.
const keyVersion = 1

// ArtifactKeyOpts are the inputs that determine a rendered artifact.
type ArtifactKeyOpts struct {
	Params model.Params `json:"params"`
	Seed   uint64       `json:"seed"`
	Format string       `json:"format"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	DPI    int          `json:"dpi,omitempty"`
	Color  bool         `json:"color,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	ArtifactKey(opts ArtifactKeyOpts) string
}

// DefaultKeyer produces artifact:<sha256> keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes every input together with the key version.
func (DefaultKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return hashKey("artifact", keyVersion, opts)
}
