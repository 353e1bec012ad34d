package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/onflow/flow-primary/model/flow"
)

// workersFile is the layout of the workers file:
//
//	workers:
//	  0:
//	    name: <hex network key>
//	    transactions: /ip4/127.0.0.1/tcp/7001
//	    worker_address: /ip4/127.0.0.1/tcp/7002
type workersFile struct {
	Workers map[flow.WorkerID]flow.WorkerInfo `yaml:"workers"`
}

// LoadWorkers reads the worker topology from the yaml file at the given path.
func LoadWorkers(path string) (*flow.WorkerTopology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read workers file: %w", err)
	}
	return ParseWorkers(data)
}

// ParseWorkers decodes and validates a worker topology in yaml form.
func ParseWorkers(data []byte) (*flow.WorkerTopology, error) {
	var file workersFile
	err := yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("could not decode workers: %w", err)
	}
	if len(file.Workers) == 0 {
		return nil, fmt.Errorf("no workers defined")
	}
	topology, err := flow.NewWorkerTopology(file.Workers)
	if err != nil {
		return nil, fmt.Errorf("invalid workers: %w", err)
	}
	return topology, nil
}
