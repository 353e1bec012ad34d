package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/onflow/flow-primary/model/flow"
	"github.com/onflow/flow-primary/utils/unittest"
)

func TestWorkerInfo_Validate(t *testing.T) {
	valid := unittest.WorkerInfoFixture(0)
	require.NoError(t, valid.Validate())

	invalid := map[string]func(*flow.WorkerInfo){
		"missing name":       func(w *flow.WorkerInfo) { w.Name = "" },
		"name not hex":       func(w *flow.WorkerInfo) { w.Name = "not-hex" },
		"bad transactions":   func(w *flow.WorkerInfo) { w.Transactions = "127.0.0.1:80" },
		"bad worker address": func(w *flow.WorkerInfo) { w.WorkerAddress = "/ip4/localhost" },
	}
	for name, mutate := range invalid {
		t.Run(name, func(t *testing.T) {
			info := valid
			mutate(&info)
			assert.Error(t, info.Validate())
		})
	}
}

func TestNewWorkerTopology(t *testing.T) {
	table := unittest.WorkerTableFixture(3)
	topology, err := flow.NewWorkerTopology(table)
	require.NoError(t, err)

	assert.Equal(t, 3, topology.Len())
	assert.Equal(t, []flow.WorkerID{0, 1, 2}, topology.IDs())
	assert.Equal(t, table, topology.Workers())

	info, ok := topology.ByID(1)
	require.True(t, ok)
	assert.Equal(t, table[1], info)
	_, ok = topology.ByID(3)
	assert.False(t, ok)

	bad := unittest.WorkerTableFixture(2)
	bad[5] = flow.WorkerInfo{Name: "zz"}
	_, err = flow.NewWorkerTopology(bad)
	assert.Error(t, err)
}

// TestWorkerTopology_Immutable checks that neither the input table nor any
// returned value can change the topology.
func TestWorkerTopology_Immutable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "workers")
		table := unittest.WorkerTableFixture(n)
		topology, err := flow.NewWorkerTopology(table)
		if err != nil {
			t.Fatalf("could not create topology: %v", err)
		}
		expected := topology.Workers()

		// mutate the input, a returned table and the returned IDs
		victim := flow.WorkerID(rapid.IntRange(0, 25).Draw(t, "victim"))
		delete(table, victim)
		table[100] = unittest.WorkerInfoFixture(100)
		returned := topology.Workers()
		delete(returned, victim)
		returned[101] = unittest.WorkerInfoFixture(101)
		ids := topology.IDs()
		for i := range ids {
			ids[i] = 999
		}

		after := topology.Workers()
		if len(after) != len(expected) {
			t.Fatalf("topology size changed from %d to %d", len(expected), len(after))
		}
		for id, info := range expected {
			if after[id] != info {
				t.Fatalf("worker %d changed", id)
			}
		}
		for i, id := range topology.IDs() {
			if id != flow.WorkerID(i) {
				t.Fatalf("unexpected id %d at position %d", id, i)
			}
		}
	})
}
