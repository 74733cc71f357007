package cmd

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	sim "github.com/inference-sim/hall-sim/sim"
)

// RunConfig is the YAML form of the five run parameters.
// Delays are upper bounds in milliseconds. Every field is required.
// All fields must be listed to satisfy KnownFields(true) strict parsing.
type RunConfig struct {
	ApplicantCount           *int   `yaml:"applicantCount"`
	ApplicantSpawnInterval   *int64 `yaml:"applicantSpawnInterval"`
	OfficialWaitTime         *int64 `yaml:"officialWaitTime"`
	CertificateRetrievalTime *int64 `yaml:"certificateRetrievalTime"`
	DecisionTime             *int64 `yaml:"decisionTime"`
}

// loadRunConfig parses a YAML run configuration with strict field checking.
func loadRunConfig(path string) (sim.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.Config{}, fmt.Errorf("reading run config: %w", err)
	}
	var rc RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rc); err != nil {
		return sim.Config{}, fmt.Errorf("%w: parsing run config %s: %v", sim.ErrInvalidConfig, path, err)
	}

	missing := []string{}
	if rc.ApplicantCount == nil {
		missing = append(missing, "applicantCount")
	}
	if rc.ApplicantSpawnInterval == nil {
		missing = append(missing, "applicantSpawnInterval")
	}
	if rc.OfficialWaitTime == nil {
		missing = append(missing, "officialWaitTime")
	}
	if rc.CertificateRetrievalTime == nil {
		missing = append(missing, "certificateRetrievalTime")
	}
	if rc.DecisionTime == nil {
		missing = append(missing, "decisionTime")
	}
	if len(missing) > 0 {
		return sim.Config{}, fmt.Errorf("%w: run config %s is missing %v", sim.ErrInvalidConfig, path, missing)
	}

	return newRunConfig(*rc.ApplicantCount, [4]int64{
		*rc.ApplicantSpawnInterval, *rc.OfficialWaitTime, *rc.CertificateRetrievalTime, *rc.DecisionTime,
	})
}

// parseRunArgs reads the legacy positional form:
// applicantCount spawnInterval officialWait certificateRetrieval decision.
func parseRunArgs(args []string) (sim.Config, error) {
	if len(args) != 5 {
		return sim.Config{}, fmt.Errorf("%w: expected 5 values, got %d", sim.ErrInvalidConfig, len(args))
	}
	names := [5]string{"applicant count", delayNames[0], delayNames[1], delayNames[2], delayNames[3]}
	var values [5]int64
	for i, arg := range args {
		v, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return sim.Config{}, fmt.Errorf("%w: %s %q is not an integer", sim.ErrInvalidConfig, names[i], arg)
		}
		values[i] = v
	}
	if values[0] > math.MaxInt32 {
		return sim.Config{}, fmt.Errorf("%w: applicant count %d is too large", sim.ErrInvalidConfig, values[0])
	}
	return newRunConfig(int(values[0]), [4]int64{values[1], values[2], values[3], values[4]})
}

var delayNames = [4]string{"applicant spawn interval", "official wait time", "certificate retrieval time", "decision time"}

// newRunConfig converts millisecond delay bounds, in legacy order, and validates the result.
func newRunConfig(count int, delays [4]int64) (sim.Config, error) {
	var d [4]time.Duration
	for i, v := range delays {
		var err error
		if d[i], err = millis(delayNames[i], v); err != nil {
			return sim.Config{}, err
		}
	}
	cfg := sim.Config{
		ApplicantCount:       count,
		SpawnInterval:        d[0],
		OfficialWait:         d[1],
		CertificateRetrieval: d[2],
		Decision:             d[3],
	}
	return cfg, cfg.Validate()
}

// resolveRunConfig picks exactly one configuration source.
func resolveRunConfig(args []string, configPath string) (sim.Config, error) {
	switch {
	case configPath != "" && len(args) > 0:
		return sim.Config{}, fmt.Errorf("%w: give either 5 values or --config, not both", sim.ErrInvalidConfig)
	case configPath != "":
		return loadRunConfig(configPath)
	case len(args) == 0:
		return sim.Config{}, fmt.Errorf("%w: no run configuration, give 5 values or --config", sim.ErrInvalidConfig)
	default:
		return parseRunArgs(args)
	}
}

// maxMillis is the largest millisecond count a time.Duration can hold.
const maxMillis = math.MaxInt64 / int64(time.Millisecond)

func millis(name string, v int64) (time.Duration, error) {
	if v > maxMillis || v < -maxMillis {
		return 0, fmt.Errorf("%w: %s %dms is out of range (max %dms)", sim.ErrInvalidConfig, name, v, maxMillis)
	}
	return time.Duration(v) * time.Millisecond, nil
}
