package spawner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawn_PicksLeastLoadedMachineInRegion(t *testing.T) {
	md := NewModule()
	eu1 := md.RegisterMachine("eu", 2)
	eu2 := md.RegisterMachine("eu", 2)
	us := md.RegisterMachine("us", 2)

	// Ties break towards the lower machine ID.
	t1 := md.Spawn(nil, "eu", nil)
	require.NotNil(t, t1)
	assert.Equal(t, 1, eu1.ProcessCount())

	// Next spawn lands on the idle eu machine.
	t2 := md.Spawn(nil, "eu", nil)
	require.NotNil(t, t2)
	assert.Equal(t, 1, eu2.ProcessCount())

	// Empty region means any machine.
	t3 := md.Spawn(nil, "", nil)
	require.NotNil(t, t3)
	assert.Equal(t, 1, us.ProcessCount())
}

func TestSpawn_RefusedWhenNoCapacity(t *testing.T) {
	md := NewModule()

	// No machines at all.
	assert.Nil(t, md.Spawn(nil, "", nil))

	md.RegisterMachine("eu", 1)
	require.NotNil(t, md.Spawn(nil, "eu", nil))

	// Slot exhausted.
	assert.Nil(t, md.Spawn(nil, "eu", nil))

	// Wrong region.
	assert.Nil(t, md.Spawn(nil, "us", nil))
}

func TestSpawn_FailureReleasesMachineSlot(t *testing.T) {
	md := NewModule()
	machine := md.RegisterMachine("eu", 1)

	task := md.Spawn(nil, "eu", nil)
	require.NotNil(t, task)
	require.Equal(t, 1, machine.ProcessCount())

	task.Abort()
	assert.Equal(t, 0, machine.ProcessCount())

	// The freed slot can be reused.
	assert.NotNil(t, md.Spawn(nil, "eu", nil))
}

func TestTask_StatusFlowAndListeners(t *testing.T) {
	md := NewModule()
	md.RegisterMachine("eu", 1)
	task := md.Spawn(nil, "eu", nil)

	var seen []Status
	unsub := task.OnStatusChanged(func(s Status) { seen = append(seen, s) })

	task.UpdateStatus(StatusProcessRegistered)
	task.UpdateStatus(StatusProcessRegistered) // duplicate, ignored
	task.UpdateStatus(StatusProcessStarted)

	assert.Equal(t, []Status{StatusProcessRegistered, StatusProcessStarted}, seen)

	unsub()
	unsub() // idempotent

	task.UpdateStatus(StatusFinalized)
	assert.Equal(t, []Status{StatusProcessRegistered, StatusProcessStarted}, seen,
		"unsubscribed listeners receive nothing")
}

func TestTask_FinalizeCarriesData(t *testing.T) {
	md := NewModule()
	md.RegisterMachine("eu", 1)
	task := md.Spawn(nil, "eu", nil)

	assert.Nil(t, task.FinalizationData())

	task.Finalize(map[string]string{"roomId": "7"})

	assert.Equal(t, StatusFinalized, task.Status())
	assert.Equal(t, "7", task.FinalizationData()["roomId"])
}

func TestTask_AbortSemantics(t *testing.T) {
	md := NewModule()
	md.RegisterMachine("eu", 3)

	t.Run("abort is idempotent", func(t *testing.T) {
		task := md.Spawn(nil, "eu", nil)
		task.Abort()
		task.Abort()
		assert.Equal(t, StatusAborted, task.Status())
	})

	t.Run("abort after finalize is a noop", func(t *testing.T) {
		task := md.Spawn(nil, "eu", nil)
		task.Finalize(nil)
		task.Abort()
		assert.Equal(t, StatusFinalized, task.Status())
	})

	t.Run("updates after failure are ignored", func(t *testing.T) {
		task := md.Spawn(nil, "eu", nil)
		task.Abort()
		task.UpdateStatus(StatusProcessStarted)
		assert.Equal(t, StatusAborted, task.Status())
	})
}
