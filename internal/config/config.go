// Package config loads the TOML run configuration and expands it
// into one SingleConfig per point of the cartesian product its
// slice-valued fields describe, mirroring the original's
// config_structs! macro (MultipleConfigs/SingleConfig share one field
// list, the former with every field a slice) and its
// itertools::iproduct! expansion.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/kegliz/soamqc/soam"
	"github.com/kegliz/soamqc/soam/layer"
	"github.com/kegliz/soamqc/soam/seq"
)

// Cost names a soam/seq.Metric in config files.
type Cost string

const (
	CostDepth Cost = "depth"
	CostGate  Cost = "gate"
	CostMixed Cost = "mixed"
)

// Metric converts a Cost name into the seq.Metric it names.
func (c Cost) Metric() (seq.Metric, error) {
	switch c {
	case CostDepth:
		return seq.Depth, nil
	case CostGate:
		return seq.Gate, nil
	case CostMixed:
		return seq.Mixed, nil
	default:
		return 0, fmt.Errorf("%w: unknown cost %q", soam.ErrConfig, c)
	}
}

// LayoutName names a soam/layer.Layout in config files.
type LayoutName string

const (
	LayoutDense LayoutName = "dense"
	LayoutOne   LayoutName = "one"
)

func (l LayoutName) Layout() (layer.Layout, error) {
	switch l {
	case LayoutDense:
		return layer.Dense, nil
	case LayoutOne:
		return layer.One, nil
	default:
		return 0, fmt.Errorf("%w: unknown layout %q", soam.ErrConfig, l)
	}
}

// MultipleConfig is the on-disk shape: every run parameter is a
// slice, and a run sweeps the cartesian product of all of them.
type MultipleConfig struct {
	CircuitPath []string     `mapstructure:"circuit_path"`
	UseSoam     []bool       `mapstructure:"use_soam"`
	Omega       []int        `mapstructure:"omega"`
	OracleName  []string     `mapstructure:"oracle_name"`
	Cost        []Cost       `mapstructure:"cost"`
	Layout      []LayoutName `mapstructure:"layout"`
	NThreads    []int        `mapstructure:"n_threads"`
	// StatusPort, when nonzero, starts the status HTTP server
	// (GET /health, GET /status) for the duration of that run.
	StatusPort []int `mapstructure:"status_port"`
}

// SingleConfig is one point of that product: every field a scalar.
type SingleConfig struct {
	CircuitPath string
	UseSoam     bool
	Omega       int
	OracleName  string
	Cost        Cost
	Layout      LayoutName
	NThreads    int
	StatusPort  int
}

// Load reads and unmarshals a TOML config file at path.
func Load(path string) (*MultipleConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetDefault("status_port", []int{0})
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", soam.ErrIO, path, err)
	}
	var cfg MultipleConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling %s: %v", soam.ErrConfig, path, err)
	}
	return &cfg, nil
}

// ToSingleConfigs expands the cartesian product of every slice field,
// in field-declaration order (circuit_path outermost, status_port
// innermost), the Go equivalent of itertools::iproduct!.
func (m *MultipleConfig) ToSingleConfigs() []SingleConfig {
	var out []SingleConfig
	for _, cp := range m.CircuitPath {
		for _, us := range m.UseSoam {
			for _, om := range m.Omega {
				for _, on := range m.OracleName {
					for _, co := range m.Cost {
						for _, la := range m.Layout {
							for _, nt := range m.NThreads {
								for _, sp := range m.StatusPort {
									out = append(out, SingleConfig{
										CircuitPath: cp,
										UseSoam:     us,
										Omega:       om,
										OracleName:  on,
										Cost:        co,
										Layout:      la,
										NThreads:    nt,
										StatusPort:  sp,
									})
								}
							}
						}
					}
				}
			}
		}
	}
	return out
}
