// Package runconfig loads the engine run configuration — padding, engine
// mode, worker deadline, and the live dashboard toggle — from YAML, in the
// same layered style the training config loader uses: an outer envelope
// unmarshalled by viper, then a second pass that re-marshals and
// unmarshals the inner document with yaml.v3 so the inner schema can
// evolve independently of viper's own decoding quirks.
package runconfig

import (
	"context"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"spreadsim/engine"
)

// outerConfig is viper's decode target; Def is opaque until re-marshalled
// into RunConfig.
type outerConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// RunConfig holds everything about a run that is not part of the Scenario
// itself.
type RunConfig struct {
	// Padding is the halo padding, in cells, given to the engine.
	Padding int `yaml:"padding"`
	// Mode selects "rocket" or "starship".
	Mode string `yaml:"mode"`
	// Deadline, if set, bounds how long a run may take before it is
	// cancelled. Empty means no deadline.
	Deadline string `yaml:"deadline"`
	// LiveView turns on the websocket dashboard push.
	LiveView bool `yaml:"liveView"`
	// LiveViewAddr is the address the dashboard listens on, when enabled.
	LiveViewAddr string `yaml:"liveViewAddr"`
}

// EngineMode resolves the configured mode string to an engine.Mode,
// defaulting to engine.ModeRocket for an empty or unrecognized value.
func (c *RunConfig) EngineMode() engine.Mode {
	if c.Mode == "starship" {
		return engine.ModeStarship
	}
	return engine.ModeRocket
}

// WithDeadline returns a context bounded by Deadline, if one is set, and
// its cancel func. Callers must always call the returned cancel func.
func (c *RunConfig) WithDeadline(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if c.Deadline == "" {
		innerCtx, cancel := context.WithCancel(ctx)
		return innerCtx, cancel, nil
	}
	duration, err := time.ParseDuration(c.Deadline)
	if err != nil {
		return nil, nil, errors.Wrap(err, "runconfig: invalid deadline")
	}
	innerCtx, cancel := context.WithTimeout(ctx, duration)
	return innerCtx, cancel, nil
}

// FromYaml loads a RunConfig from path. The file's top level is an
// envelope ({kind, def}); def is the actual RunConfig document.
func FromYaml(path string) (*RunConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(filepath.Base(path))
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "runconfig: reading config")
	}

	outer := &outerConfig{}
	if err := vp.Unmarshal(outer); err != nil {
		return nil, errors.Wrap(err, "runconfig: decoding envelope")
	}

	spec, err := yaml.Marshal(outer.Def)
	if err != nil {
		return nil, errors.Wrap(err, "runconfig: re-marshalling inner config")
	}

	cfg := &RunConfig{Padding: 1, Mode: "rocket"}
	if err := yaml.Unmarshal(spec, cfg); err != nil {
		return nil, errors.Wrap(err, "runconfig: decoding run config")
	}
	return cfg, nil
}
